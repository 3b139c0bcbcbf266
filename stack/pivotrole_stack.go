package stack

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// PivotRoleStackProps configures the cross-account role a tenant account
// deploys so the control plane can act on it.
type PivotRoleStackProps struct {
	awscdk.NestedStackProps
	// RoleName of the pivot role, distributed via SSM.
	RoleName string
	// CentralAccountID is the account the control plane runs in.
	CentralAccountID string
	// ExternalID required on sts:AssumeRole.
	ExternalID string
	// ResourcePrefix scopes every granted resource ARN.
	ResourcePrefix string
}

// PivotRoleStack declares the pivot role and its managed policies as a
// nested stack inside an environment stack.
type PivotRoleStack struct {
	awscdk.NestedStack
	Role awsiam.Role
}

func NewPivotRoleStack(scope constructs.Construct, id string, props *PivotRoleStackProps) *PivotRoleStack {
	stack := awscdk.NewNestedStack(scope, jsii.String(id), &props.NestedStackProps)
	account := *stack.Account()

	role := awsiam.NewRole(stack, jsii.String("PivotRole"), &awsiam.RoleProps{
		RoleName: jsii.String(props.RoleName),
		AssumedBy: awsiam.NewCompositePrincipal(
			awsiam.NewServicePrincipal(jsii.String("lakeformation.amazonaws.com"), nil),
			awsiam.NewServicePrincipal(jsii.String("lambda.amazonaws.com"), nil),
		),
		Path:               jsii.String("/"),
		MaxSessionDuration: awscdk.Duration_Hours(jsii.Number(12)),
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			pivotRolePolicy0(stack, account, props.ResourcePrefix),
			pivotRolePolicy1(stack, account, props.ResourcePrefix),
			pivotRolePolicy2(stack, account, props.ResourcePrefix),
			pivotRolePolicy3(stack, account, props.ResourcePrefix, props.RoleName),
		},
	})

	// Only the platform's own service roles in the central account may
	// assume the role, and only with the environment external id.
	role.AssumeRolePolicy().AddStatements(
		awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Effect:     awsiam.Effect_ALLOW,
			Principals: &[]awsiam.IPrincipal{awsiam.NewAccountPrincipal(jsii.String(props.CentralAccountID))},
			Actions:    jsii.Strings("sts:AssumeRole"),
			Conditions: &map[string]interface{}{
				"StringEquals": map[string]interface{}{
					"sts:ExternalId": props.ExternalID,
				},
				"StringLike": map[string]interface{}{
					"aws:PrincipalArn": []string{
						fmt.Sprintf("arn:aws:iam::%s:role/*graphql-role", props.CentralAccountID),
						fmt.Sprintf("arn:aws:iam::%s:role/*esproxy-role", props.CentralAccountID),
						fmt.Sprintf("arn:aws:iam::%s:role/*ecs-tasks-role", props.CentralAccountID),
					},
				},
			},
		}),
	)

	// Lake Formation needs its service-linked role present in the account.
	awsiam.NewCfnServiceLinkedRole(stack, jsii.String("LakeFormationSLR"), &awsiam.CfnServiceLinkedRoleProps{
		AwsServiceName: jsii.String("lakeformation.amazonaws.com"),
	})

	return &PivotRoleStack{NestedStack: stack, Role: role}
}

// pivotRolePolicy0 grants the data-plane services: Athena, S3 and access
// points, CloudWatch, logs, events, Glue, KMS, SNS and SQS.
func pivotRolePolicy0(stack awscdk.NestedStack, account, prefix string) awsiam.ManagedPolicy {
	return awsiam.NewManagedPolicy(stack, jsii.String("PivotRolePolicy0"), &awsiam.ManagedPolicyProps{
		ManagedPolicyName: jsii.String(prefix + "-pivotrole-policy-0"),
		Statements: &[]awsiam.PolicyStatement{
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("Athena"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("athena:GetQuery*", "athena:StartQueryExecution", "athena:ListWorkGroups"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("AthenaWorkgroups"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("athena:GetWorkGroup", "athena:ListTagsForResource"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:athena:*:%s:workgroup/%s*", account, prefix)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("ManagedAccessPoints"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"s3:GetAccessPoint",
					"s3:GetAccessPointPolicy",
					"s3:ListAccessPoints",
					"s3:CreateAccessPoint",
					"s3:DeleteAccessPoint",
					"s3:GetAccessPointPolicyStatus",
					"s3:DeleteAccessPointPolicy",
					"s3:PutAccessPointPolicy",
				),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:s3:*:%s:accesspoint/*", account)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("ManagedBuckets"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("s3:List*", "s3:Delete*", "s3:Get*", "s3:Put*"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:s3:::%s*", prefix)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("ImportedBuckets"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"s3:List*",
					"s3:GetBucket*",
					"s3:GetLifecycleConfiguration",
					"s3:GetObject",
					"s3:PutBucketPolicy",
					"s3:PutBucketTagging",
					"s3:PutObject",
					"s3:PutObjectAcl",
					"s3:PutBucketOwnershipControls",
				),
				Resources: jsii.Strings("arn:aws:s3:::*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("AWSLoggingBuckets"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("s3:PutBucketAcl", "s3:PutBucketNotification"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:s3:::%s-logging-*", prefix)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("ReadBuckets"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("s3:ListAllMyBuckets", "s3:GetBucketLocation", "s3:PutBucketTagging"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("CWMetrics"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("cloudwatch:PutMetricData", "cloudwatch:GetMetricData", "cloudwatch:GetMetricStatistics"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:     jsii.String("Logs"),
				Effect:  awsiam.Effect_ALLOW,
				Actions: jsii.Strings("logs:CreateLogGroup", "logs:CreateLogStream"),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:logs:*:%s:log-group:/aws/lambda/*", account),
					fmt.Sprintf("arn:aws:logs:*:%s:log-group:/%s*", account, prefix),
				),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("Logging"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("logs:PutLogEvents"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("CWEvents"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"events:DeleteRule",
					"events:List*",
					"events:PutRule",
					"events:PutTargets",
					"events:RemoveTargets",
				),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("GlueCatalog"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"glue:BatchCreatePartition",
					"glue:BatchDeletePartition",
					"glue:BatchDeleteTable",
					"glue:CreateDatabase",
					"glue:CreatePartition",
					"glue:CreateTable",
					"glue:DeleteDatabase",
					"glue:DeletePartition",
					"glue:DeleteTable",
					"glue:BatchGet*",
					"glue:Get*",
					"glue:List*",
					"glue:SearchTables",
					"glue:UpdateDatabase",
					"glue:UpdatePartition",
					"glue:UpdateTable",
					"glue:TagResource",
				),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("GlueETL"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"glue:StartCrawler",
					"glue:StartJobRun",
					"glue:StartTrigger",
					"glue:UpdateTrigger",
					"glue:UpdateJob",
					"glue:UpdateCrawler",
				),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:glue:*:%s:crawler/%s*", account, prefix),
					fmt.Sprintf("arn:aws:glue:*:%s:job/%s*", account, prefix),
					fmt.Sprintf("arn:aws:glue:*:%s:trigger/%s*", account, prefix),
				),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("KMS"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"kms:Decrypt",
					"kms:Encrypt",
					"kms:GenerateDataKey*",
					"kms:PutKeyPolicy",
					"kms:ReEncrypt*",
					"kms:TagResource",
					"kms:UntagResource",
				),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("KMSList"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("kms:List*", "kms:DescribeKey"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("Organizations"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("organizations:DescribeOrganization"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("ResourceGroupTags"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("tag:*", "resource-groups:*"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("SNSPublish"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"sns:Publish",
					"sns:SetTopicAttributes",
					"sns:GetTopicAttributes",
					"sns:DeleteTopic",
					"sns:Subscribe",
					"sns:TagResource",
					"sns:UntagResource",
					"sns:CreateTopic",
				),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:sns:*:%s:%s*", account, prefix)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("SNSList"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("sns:ListTopics"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("SQSList"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("sqs:ListQueues"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("SQS"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("sqs:ReceiveMessage", "sqs:SendMessage"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:sqs:*:%s:%s*", account, prefix)),
			}),
		},
	})
}

// pivotRolePolicy1 grants networking, SageMaker, RAM sharing and
// CloudFormation access.
func pivotRolePolicy1(stack awscdk.NestedStack, account, prefix string) awsiam.ManagedPolicy {
	return awsiam.NewManagedPolicy(stack, jsii.String("PivotRolePolicy1"), &awsiam.ManagedPolicyProps{
		ManagedPolicyName: jsii.String(prefix + "-pivotrole-policy-1"),
		Statements: &[]awsiam.PolicyStatement{
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("EC2SG"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ec2:CreateSecurityGroup", "ec2:CreateNetworkInterface", "ec2:Describe*"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("TagsforENI"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ec2:CreateTags", "ec2:DeleteTags"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:ec2:*:%s:network-interface/*", account)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("DeleteENI"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ec2:DeleteNetworkInterface"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:ec2:*:%s:network-interface/*", account)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("SageMakerNotebookActions"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"sagemaker:ListTags",
					"sagemaker:DescribeUserProfile",
					"sagemaker:StopNotebookInstance",
					"sagemaker:CreatePresignedNotebookInstanceUrl",
					"sagemaker:DescribeNotebookInstance",
					"sagemaker:StartNotebookInstance",
					"sagemaker:AddTags",
					"sagemaker:DescribeDomain",
					"sagemaker:CreatePresignedDomainUrl",
				),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:sagemaker:*:%s:notebook-instance/%s*", account, prefix),
					fmt.Sprintf("arn:aws:sagemaker:*:%s:domain/*", account),
					fmt.Sprintf("arn:aws:sagemaker:*:%s:user-profile/*/*", account),
				),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("SageMakerNotebookInstances"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("sagemaker:ListNotebookInstances", "sagemaker:ListDomains", "sagemaker:ListApps", "sagemaker:DeleteApp"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("RamTag"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ram:TagResource"),
				Resources: jsii.Strings("*"),
				Conditions: &map[string]interface{}{
					"ForAllValues:StringLike": map[string]interface{}{
						"ram:ResourceShareName": []string{"LakeFormation*"},
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("RamCreateResource"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ram:CreateResourceShare"),
				Resources: jsii.Strings("*"),
				Conditions: &map[string]interface{}{
					"ForAllValues:StringEquals": map[string]interface{}{
						"ram:RequestedResourceType": []string{"glue:Table", "glue:Database", "glue:Catalog"},
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("RamUpdateResource"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ram:UpdateResourceShare"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:ram:*:%s:resource-share/*", account)),
				Conditions: &map[string]interface{}{
					"StringEquals": map[string]interface{}{
						"aws:ResourceTag/dataall": "true",
					},
					"ForAllValues:StringLike": map[string]interface{}{
						"ram:ResourceShareName": []string{"LakeFormation*"},
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("RamAssociateResource"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ram:AssociateResourceShare", "ram:DisassociateResourceShare"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:ram:*:%s:resource-share/*", account)),
				Conditions: &map[string]interface{}{
					"ForAllValues:StringLike": map[string]interface{}{
						"ram:ResourceShareName": []string{"LakeFormation*"},
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("RamDeleteResource"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ram:DeleteResourceShare"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:ram:*:%s:resource-share/*", account)),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("RamInvitations"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"ram:AcceptResourceShareInvitation",
					"ram:RejectResourceShareInvitation",
					"ec2:DescribeAvailabilityZones",
					"ram:EnableSharingWithAwsOrganization",
				),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("RamReadGlue"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("glue:PutResourcePolicy", "glue:DeleteResourcePolicy", "ram:Get*", "ram:List*"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("SGCreateTag"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ec2:CreateTags"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:ec2:*:%s:security-group/*", account)),
				Conditions: &map[string]interface{}{
					"StringEquals": map[string]interface{}{
						"aws:RequestTag/dataall": "true",
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("SGandRedshift"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("ec2:DeleteTags", "ec2:DeleteSecurityGroup", "redshift:DeleteClusterSubnetGroup"),
				Resources: jsii.Strings("*"),
				Conditions: &map[string]interface{}{
					"ForAnyValue:StringEqualsIfExists": map[string]interface{}{
						"aws:ResourceTag/dataall": "true",
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("DevTools0"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("cloudformation:ValidateTemplate"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("CloudFormation"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"cloudformation:DescribeStacks",
					"cloudformation:DescribeStackResources",
					"cloudformation:DescribeStackEvents",
					"cloudformation:DeleteStack",
					"cloudformation:CreateStack",
					"cloudformation:GetTemplate",
					"cloudformation:ListStackResources",
					"cloudformation:DescribeStackResource",
				),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:cloudformation:*:%s:stack/%s*/*", account, prefix),
					fmt.Sprintf("arn:aws:cloudformation:*:%s:stack/CDKToolkit/*", account),
					fmt.Sprintf("arn:aws:cloudformation:*:%s:stack/*/*", account),
				),
			}),
		},
	})
}

// pivotRolePolicy2 grants Lake Formation, compute and QuickSight access.
func pivotRolePolicy2(stack awscdk.NestedStack, account, prefix string) awsiam.ManagedPolicy {
	return awsiam.NewManagedPolicy(stack, jsii.String("PivotRolePolicy2"), &awsiam.ManagedPolicyProps{
		ManagedPolicyName: jsii.String(prefix + "-pivotrole-policy-2"),
		Statements: &[]awsiam.PolicyStatement{
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("LakeFormation"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"lakeformation:UpdateResource",
					"lakeformation:DescribeResource",
					"lakeformation:AddLFTagsToResource",
					"lakeformation:RemoveLFTagsFromResource",
					"lakeformation:GetResourceLFTags",
					"lakeformation:ListLFTags",
					"lakeformation:CreateLFTag",
					"lakeformation:GetLFTag",
					"lakeformation:UpdateLFTag",
					"lakeformation:DeleteLFTag",
					"lakeformation:SearchTablesByLFTags",
					"lakeformation:SearchDatabasesByLFTags",
					"lakeformation:ListResources",
					"lakeformation:ListPermissions",
					"lakeformation:GrantPermissions",
					"lakeformation:BatchGrantPermissions",
					"lakeformation:RevokePermissions",
					"lakeformation:BatchRevokePermissions",
					"lakeformation:PutDataLakeSettings",
					"lakeformation:GetDataLakeSettings",
					"lakeformation:GetDataAccess",
					"lakeformation:GetWorkUnits",
					"lakeformation:StartQueryPlanning",
					"lakeformation:GetWorkUnitResults",
					"lakeformation:GetQueryState",
					"lakeformation:GetQueryStatistics",
					"lakeformation:GetTableObjects",
					"lakeformation:UpdateTableObjects",
					"lakeformation:DeleteObjectsOnCancel",
				),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("Compute"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"lambda:AddPermission",
					"lambda:InvokeFunction",
					"lambda:RemovePermission",
					"lambda:GetFunction",
					"lambda:GetFunctionConfiguration",
					"codepipeline:GetPipelineState",
					"codepipeline:CreatePipeline",
					"codepipeline:TagResource",
					"codepipeline:UntagResource",
				),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:lambda:*:%s:function:%s*", account, prefix),
					fmt.Sprintf("arn:aws:codepipeline:*:%s:%s*", account, prefix),
				),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("QuickSight"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"quicksight:CreateGroup",
					"quicksight:DescribeGroup",
					"quicksight:ListDashboards",
					"quicksight:DescribeDataSource",
					"quicksight:DescribeDashboard",
					"quicksight:DescribeUser",
					"quicksight:SearchDashboards",
					"quicksight:GetDashboardEmbedUrl",
					"quicksight:GenerateEmbedUrlForAnonymousUser",
					"quicksight:UpdateUser",
					"quicksight:ListUserGroups",
					"quicksight:RegisterUser",
					"quicksight:DescribeDashboardPermissions",
					"quicksight:UpdateDashboardPermissions",
					"quicksight:GetAuthCode",
					"quicksight:CreateGroupMembership",
					"quicksight:DescribeAccountSubscription",
				),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:quicksight:*:%s:group/default/*", account),
					fmt.Sprintf("arn:aws:quicksight:*:%s:user/default/*", account),
					fmt.Sprintf("arn:aws:quicksight:*:%s:datasource/*", account),
					fmt.Sprintf("arn:aws:quicksight:*:%s:user/*", account),
					fmt.Sprintf("arn:aws:quicksight:*:%s:dashboard/*", account),
					fmt.Sprintf("arn:aws:quicksight:*:%s:namespace/default", account),
					fmt.Sprintf("arn:aws:quicksight:*:%s:account/*", account),
					fmt.Sprintf("arn:aws:quicksight:*:%s:*", account),
				),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("QuickSightSession"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("quicksight:GetSessionEmbedUrl"),
				Resources: jsii.Strings("*"),
			}),
		},
	})
}

// pivotRolePolicy3 grants SSM, IAM pass-role, STS and CodeCommit access.
func pivotRolePolicy3(stack awscdk.NestedStack, account, prefix, roleName string) awsiam.ManagedPolicy {
	return awsiam.NewManagedPolicy(stack, jsii.String("PivotRolePolicy3"), &awsiam.ManagedPolicyProps{
		ManagedPolicyName: jsii.String(prefix + "-pivotrole-policy-3"),
		Statements: &[]awsiam.PolicyStatement{
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:     jsii.String("ParameterStore"),
				Effect:  awsiam.Effect_ALLOW,
				Actions: jsii.Strings("ssm:GetParameter"),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:ssm:*:%s:parameter/%s/*", account, prefix),
					fmt.Sprintf("arn:aws:ssm:*:%s:parameter/dataall/*", account),
					fmt.Sprintf("arn:aws:ssm:*:%s:parameter/ddk/*", account),
				),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("IAMListGet"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("iam:ListRoles", "iam:Get*"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("IAMRolePolicy"),
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("iam:PutRolePolicy", "iam:DeleteRolePolicy"),
				Resources: jsii.Strings("*"),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("PassRoleLambda"),
				Actions:   jsii.Strings("iam:PassRole"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:iam::%s:role/%s", account, roleName)),
				Conditions: &map[string]interface{}{
					"StringEquals": map[string]interface{}{
						"iam:PassedToService": []string{"lambda.amazonaws.com"},
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:       jsii.String("PassRoleGlue"),
				Actions:   jsii.Strings("iam:PassRole"),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:iam::%s:role/%s*", account, prefix)),
				Conditions: &map[string]interface{}{
					"StringEquals": map[string]interface{}{
						"iam:PassedToService": []string{"glue.amazonaws.com"},
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:     jsii.String("STS"),
				Effect:  awsiam.Effect_ALLOW,
				Actions: jsii.Strings("sts:AssumeRole"),
				Resources: jsii.Strings(
					fmt.Sprintf("arn:aws:iam::%s:role/%s*", account, prefix),
					fmt.Sprintf("arn:aws:iam::%s:role/ddk-*", account),
				),
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Sid:    jsii.String("CodeCommit"),
				Effect: awsiam.Effect_ALLOW,
				Actions: jsii.Strings(
					"codecommit:GetFile",
					"codecommit:ListBranches",
					"codecommit:GetFolder",
					"codecommit:GetCommit",
					"codecommit:GitPull",
					"codecommit:GetRepository",
					"codecommit:TagResource",
					"codecommit:UntagResource",
					"codecommit:CreateBranch",
					"codecommit:CreateCommit",
					"codecommit:CreateRepository",
					"codecommit:DeleteRepository",
					"codecommit:GitPush",
					"codecommit:PutFile",
					"codecommit:GetBranch",
				),
				Resources: jsii.Strings(fmt.Sprintf("arn:aws:codecommit:*:%s:%s*", account, prefix)),
			}),
		},
	})
}
