package stack

import (
	"fmt"
	"path/filepath"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodecommit"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/aws-cdk-go/awscdk/v2/pipelines"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"go.uber.org/zap"

	"datagov/internal/blueprint"
	"datagov/internal/model"
)

// OmicsPipelineStackProps carries the resolved pipeline/environment pair.
// The CDK app resolves both from the store before constructing the stack, so
// a dangling target URI fails before any resource is declared.
type OmicsPipelineStackProps struct {
	awscdk.StackProps
	Pipeline     *model.OmicsPipeline
	Environment  *model.Environment
	BlueprintDir string
	Log          *zap.Logger
}

// OmicsPipelineStack provisions the delivery machinery of one tenant
// pipeline: a CodeCommit repository seeded from the rendered blueprint, the
// pipeline IAM role, and a self-mutating CodePipeline with a CodeBuild synth
// step.
type OmicsPipelineStack struct {
	awscdk.Stack
	Repository     awscodecommit.Repository
	PipelineRole   awsiam.Role
	ResourcePrefix string
}

// NewOmicsPipelineStack renders and packages the blueprint, then declares
// the stack resources.
func NewOmicsPipelineStack(scope constructs.Construct, id string, props *OmicsPipelineStackProps) (*OmicsPipelineStack, error) {
	pipeline := props.Pipeline
	environment := props.Environment
	resourcePrefix := PipelineResourcePrefix(environment.ResourcePrefix, pipeline.PipelineURI)

	sprops := props.StackProps
	sprops.Description = jsii.String(truncate(fmt.Sprintf(
		"Omics pipeline %s; URI: %s; description: %s",
		pipeline.Name, pipeline.PipelineURI, pipeline.Description,
	), 1024))
	stack := awscdk.NewStack(scope, &id, &sprops)

	if err := blueprint.WriteAppFile(props.BlueprintDir, blueprint.AppData{
		Pipeline:       pipeline,
		Environment:    environment,
		ResourcePrefix: resourcePrefix,
	}); err != nil {
		return nil, err
	}
	blueprint.CleanupArchive(props.BlueprintDir, props.Log)
	if err := blueprint.ZipDirectory(props.BlueprintDir); err != nil {
		return nil, err
	}

	codeAsset := awss3assets.NewAsset(stack, jsii.String(pipeline.Name+"-asset"), &awss3assets.AssetProps{
		Path: jsii.String(filepath.Join(props.BlueprintDir, blueprint.ArchiveName)),
	})

	repository := awscodecommit.NewRepository(stack, jsii.String("Repository"), &awscodecommit.RepositoryProps{
		RepositoryName: jsii.String(resourcePrefix),
		Code:           awscodecommit.Code_FromAsset(codeAsset, jsii.String("main")),
		Description:    jsii.String(fmt.Sprintf("Code repository for pipeline %s. Generated by the platform.", resourcePrefix)),
	})

	pipelineRole := awsiam.NewRole(stack, jsii.String(resourcePrefix+"-pipeline-role"), &awsiam.RoleProps{
		RoleName: jsii.String(resourcePrefix + "-pipeline-role"),
		AssumedBy: awsiam.NewCompositePrincipal(
			awsiam.NewServicePrincipal(jsii.String("codebuild.amazonaws.com"), nil),
			awsiam.NewServicePrincipal(jsii.String("codepipeline.amazonaws.com"), nil),
			awsiam.NewAccountPrincipal(stack.Account()),
		),
	})
	buildPolicy := codeBuildPolicyStatements(stack, resourcePrefix)
	for _, statement := range buildPolicy {
		pipelineRole.AddToPolicy(statement)
	}

	codePipeline := pipelines.NewCodePipeline(stack, jsii.String(resourcePrefix+"-pipeline"), &pipelines.CodePipelineProps{
		PipelineName:            jsii.String(resourcePrefix),
		PublishAssetsInParallel: jsii.Bool(false),
		SelfMutation:            jsii.Bool(true),
		CrossAccountKeys:        jsii.Bool(true),
		Synth: pipelines.NewCodeBuildStep(jsii.String("Synth"), &pipelines.CodeBuildStepProps{
			Input: pipelines.CodePipelineSource_CodeCommit(repository, jsii.String("main"), nil),
			BuildEnvironment: &awscodebuild.BuildEnvironment{
				BuildImage: awscodebuild.LinuxBuildImage_AMAZON_LINUX_2_3(),
				EnvironmentVariables: &map[string]*awscodebuild.BuildEnvironmentVariable{
					"PIPELINE_URI": {
						Value: jsii.String(pipeline.PipelineURI),
					},
					"ENV_RESOURCE_PREFIX": {
						Value: jsii.String(environment.ResourcePrefix),
					},
				},
			},
			Commands: jsii.Strings(
				"npm install -g aws-cdk",
				"go build ./...",
				"cdk synth",
			),
			RolePolicyStatements: &buildPolicy,
		}),
	})
	// Force pipeline construction so misconfiguration surfaces at synth.
	codePipeline.BuildPipeline()

	awscdk.Tags_Of(stack).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	awscdk.Tags_Of(stack).Add(jsii.String("OmicsPipelineUri"), jsii.String(pipeline.PipelineURI), nil)
	awscdk.Tags_Of(stack).Add(jsii.String("Team"), jsii.String(pipeline.SamlGroupName), nil)

	awscdk.NewCfnOutput(stack, jsii.String("RepositoryCloneUrl"), &awscdk.CfnOutputProps{
		Value:       repository.RepositoryCloneUrlHttp(),
		Description: jsii.String("Clone URL of the generated pipeline repository"),
	})

	return &OmicsPipelineStack{
		Stack:          stack,
		Repository:     repository,
		PipelineRole:   pipelineRole,
		ResourcePrefix: resourcePrefix,
	}, nil
}

// codeBuildPolicyStatements scopes the synth step to the resources that
// carry the pipeline's prefix.
func codeBuildPolicyStatements(stack awscdk.Stack, resourcePrefix string) []awsiam.PolicyStatement {
	region := *stack.Region()
	account := *stack.Account()
	return []awsiam.PolicyStatement{
		awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Actions:   jsii.Strings("sts:GetServiceBearerToken"),
			Resources: jsii.Strings("*"),
			Conditions: &map[string]interface{}{
				"StringEquals": map[string]interface{}{
					"sts:AWSServiceName": "codeartifact.amazonaws.com",
				},
			},
		}),
		awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Actions:   jsii.Strings("ecr:GetAuthorizationToken"),
			Resources: jsii.Strings("*"),
		}),
		awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Actions: jsii.Strings(
				"codeartifact:GetAuthorizationToken",
				"codeartifact:GetRepositoryEndpoint",
				"codeartifact:ReadFromRepository",
				"ecr:GetDownloadUrlForLayer",
				"ecr:BatchGetImage",
				"ecr:BatchCheckLayerAvailability",
				"ecr:PutImage",
				"ecr:InitiateLayerUpload",
				"ecr:UploadLayerPart",
				"ecr:CompleteLayerUpload",
				"kms:Decrypt",
				"kms:Encrypt",
				"kms:GenerateDataKey",
				"secretsmanager:GetSecretValue",
				"secretsmanager:DescribeSecret",
				"ssm:GetParametersByPath",
				"ssm:GetParameters",
				"ssm:GetParameter",
				"s3:Get*",
				"s3:Put*",
				"s3:List*",
				"codebuild:CreateReportGroup",
				"codebuild:CreateReport",
				"codebuild:UpdateReport",
				"codebuild:BatchPutTestCases",
				"codebuild:BatchPutCodeCoverages",
			),
			Resources: jsii.Strings(
				fmt.Sprintf("arn:aws:s3:::%s*", resourcePrefix),
				fmt.Sprintf("arn:aws:s3:::%s*/*", resourcePrefix),
				fmt.Sprintf("arn:aws:codebuild:%s:%s:project/*%s*", region, account, resourcePrefix),
				fmt.Sprintf("arn:aws:secretsmanager:%s:%s:secret:*%s*", region, account, resourcePrefix),
				fmt.Sprintf("arn:aws:kms:%s:%s:key/*", region, account),
				fmt.Sprintf("arn:aws:ssm:*:%s:parameter/*%s*", account, resourcePrefix),
				fmt.Sprintf("arn:aws:ecr:%s:%s:repository/%s*", region, account, resourcePrefix),
				fmt.Sprintf("arn:aws:codeartifact:%s:%s:repository/%s*", region, account, resourcePrefix),
				fmt.Sprintf("arn:aws:codeartifact:%s:%s:domain/%s*", region, account, resourcePrefix),
			),
		}),
	}
}
