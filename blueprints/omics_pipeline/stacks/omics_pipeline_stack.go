// Package stacks declares the resources of one omics pipeline deployment.
// The entrypoint in main.go is rendered by the control plane; everything in
// this package belongs to the pipeline team and can be edited in place.
package stacks

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// OmicsPipelineStackProps is populated by the rendered entrypoint.
type OmicsPipelineStackProps struct {
	StackProps        awscdk.StackProps
	PipelineName      string
	PipelineURI       string
	EnvironmentName   string
	EnvironmentURI    string
	EnvResourcePrefix string
	InputBucket       string
	InputPrefix       string
	OutputBucket      string
	OutputPrefix      string
	Team              string
}

// NewOmicsPipelineStack declares the workflow execution role, its run log
// group, and read/write access to the pipeline's input and output prefixes.
func NewOmicsPipelineStack(scope constructs.Construct, id string, props *OmicsPipelineStackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)

	input := awss3.Bucket_FromBucketName(stack, jsii.String("InputBucket"), jsii.String(props.InputBucket))
	output := awss3.Bucket_FromBucketName(stack, jsii.String("OutputBucket"), jsii.String(props.OutputBucket))

	logGroup := awslogs.NewLogGroup(stack, jsii.String("RunLogGroup"), &awslogs.LogGroupProps{
		LogGroupName:  jsii.String(fmt.Sprintf("/omics/%s/%s", props.EnvironmentName, props.PipelineName)),
		Retention:     awslogs.RetentionDays_THREE_MONTHS,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	workflowRole := awsiam.NewRole(stack, jsii.String("WorkflowRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(fmt.Sprintf("%s-workflow-role", *stack.StackName())),
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("omics.amazonaws.com"), nil),
	})
	input.GrantRead(workflowRole, jsii.String(props.InputPrefix+"*"))
	output.GrantReadWrite(workflowRole, jsii.String(props.OutputPrefix+"*"))
	logGroup.GrantWrite(workflowRole)

	awscdk.Tags_Of(stack).Add(jsii.String("Application"), jsii.String("datagov"), nil)
	awscdk.Tags_Of(stack).Add(jsii.String("OmicsPipelineUri"), jsii.String(props.PipelineURI), nil)
	awscdk.Tags_Of(stack).Add(jsii.String("Team"), jsii.String(props.Team), nil)

	awscdk.NewCfnOutput(stack, jsii.String("WorkflowRoleArn"), &awscdk.CfnOutputProps{
		Value:       workflowRole.RoleArn(),
		Description: jsii.String("IAM role assumed by workflow runs"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("RunLogGroupName"), &awscdk.CfnOutputProps{
		Value:       logGroup.LogGroupName(),
		Description: jsii.String("CloudWatch log group receiving run logs"),
	})

	return stack
}
