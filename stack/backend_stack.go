package stack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecr"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambdaeventsources"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsrds"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssecretsmanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssqs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"datagov/internal/params"
)

// BackendStackProps defines the properties for the central backend stack.
type BackendStackProps struct {
	awscdk.StackProps
	// Envname identifies the platform environment, for example "prod".
	Envname string
	// ResourcePrefix prefixes every named resource.
	ResourcePrefix string
	// PivotRoleName is the role the worker assumes in tenant accounts.
	PivotRoleName string
	// WorkerAssetDir points at the directory holding the compiled worker
	// bootstrap binary. Defaults to build/worker next to the repo root.
	WorkerAssetDir string
}

// BackendStack is the central-account stack: database, task queue, worker
// lambda, GraphQL API service and user pool.
type BackendStack struct {
	awscdk.Stack
	Account               string
	Region                string
	DbClusterARN          string
	DbCredentialsARN      string
	TaskQueueURL          string
	WorkerFunctionARN     string
	APIGatewayURL         string
	CognitoUserPoolID     string
	CognitoUserPoolClient string
	FrontendBucketName    string
	FrontendURL           string
}

// Resources holds the common resources shared across the backend components.
type Resources struct {
	Stack          awscdk.Stack
	Vpc            awsec2.IVpc
	Envname        string
	ResourcePrefix string
	PivotRoleName  string
	Account        string
	Region         string
}

// NetworkingResources holds VPC and related networking components.
type NetworkingResources struct {
	Vpc awsec2.IVpc
}

// DatabaseResources holds the Aurora cluster and its credentials secret.
type DatabaseResources struct {
	Cluster           awsrds.IDatabaseCluster
	CredentialsSecret awssecretsmanager.ISecret
}

// QueueResources holds the asynchronous task queue and its dead letter queue.
type QueueResources struct {
	TaskQueue       awssqs.IQueue
	DeadLetterQueue awssqs.IQueue
}

// WorkerResources holds the SQS-driven task worker lambda.
type WorkerResources struct {
	Function awslambda.IFunction
	Role     awsiam.Role
}

// ComputeResources holds the ECS resources running the GraphQL API.
type ComputeResources struct {
	Cluster  awsecs.ICluster
	TaskDef  awsecs.IFargateTaskDefinition
	Service  awsecs.IFargateService
	EcrRepo  awsecr.IRepository
	LogGroup awslogs.ILogGroup
}

// APIGatewayResources holds the API gateway fronting the GraphQL service.
type APIGatewayResources struct {
	RestAPI      awsapigateway.IRestApi
	LoadBalancer awselasticloadbalancingv2.IApplicationLoadBalancer
	URL          string
}

// FrontendResources holds the static web console hosting.
type FrontendResources struct {
	Bucket       awss3.IBucket
	Distribution awscloudfront.IDistribution
	URL          string
}

// CognitoResources holds the user pool authenticating API callers.
type CognitoResources struct {
	UserPool       awscognito.IUserPool
	UserPoolClient awscognito.IUserPoolClient
	UserPoolDomain awscognito.IUserPoolDomain
	UserPoolID     string
	ClientID       string
	DomainURL      string
}

// NewBackendStack creates the central backend stack.
func NewBackendStack(scope constructs.Construct, id string, props *BackendStackProps) *BackendStack {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)

	resources := &Resources{
		Stack:          stack,
		Envname:        props.Envname,
		ResourcePrefix: props.ResourcePrefix,
		PivotRoleName:  props.PivotRoleName,
		Account:        *stack.Account(),
		Region:         *stack.Region(),
	}

	networking := createNetworkingResources(resources)
	resources.Vpc = networking.Vpc

	database := createDatabaseResources(resources, networking)
	queues := createQueueResources(resources)
	cognito := createCognitoResources(resources)

	workerAssetDir := props.WorkerAssetDir
	if workerAssetDir == "" {
		workerAssetDir = filepath.Join(getThisFileDir(), "../build/worker")
	}
	worker := createWorkerResources(resources, networking, database, queues, workerAssetDir)

	compute := createComputeResources(resources, networking, database, queues, cognito)
	apigw := createAPIGatewayResources(resources, networking, compute, cognito, database)
	frontend := createFrontendResources(resources)

	createConfigurationParameters(resources, database, queues, cognito, apigw, compute, frontend)

	awscdk.NewCfnOutput(resources.Stack, jsii.String("TaskQueueURL"), &awscdk.CfnOutputProps{
		Value:       queues.TaskQueue.QueueUrl(),
		Description: jsii.String("URL of the asynchronous task queue"),
		ExportName:  jsii.String(fmt.Sprintf("%s-task-queue-url", props.ResourcePrefix)),
	})

	awscdk.NewCfnOutput(resources.Stack, jsii.String("WorkerFunctionARN"), &awscdk.CfnOutputProps{
		Value:       worker.Function.FunctionArn(),
		Description: jsii.String("Task worker lambda ARN"),
		ExportName:  jsii.String(fmt.Sprintf("%s-worker-function-arn", props.ResourcePrefix)),
	})

	awscdk.NewCfnOutput(resources.Stack, jsii.String("DbCredentialsSecretARN"), &awscdk.CfnOutputProps{
		Value:       database.CredentialsSecret.SecretArn(),
		Description: jsii.String("Aurora credentials secret ARN"),
		ExportName:  jsii.String(fmt.Sprintf("%s-db-credentials-arn", props.ResourcePrefix)),
	})

	awscdk.NewCfnOutput(resources.Stack, jsii.String("DbClusterARN"), &awscdk.CfnOutputProps{
		Value:       database.Cluster.ClusterArn(),
		Description: jsii.String("Aurora cluster ARN"),
		ExportName:  jsii.String(fmt.Sprintf("%s-db-cluster-arn", props.ResourcePrefix)),
	})

	awscdk.NewCfnOutput(resources.Stack, jsii.String("APIGatewayURL"), &awscdk.CfnOutputProps{
		Value:       jsii.String(apigw.URL),
		Description: jsii.String("GraphQL API gateway URL"),
		ExportName:  jsii.String(fmt.Sprintf("%s-api-gateway-url", props.ResourcePrefix)),
	})

	awscdk.NewCfnOutput(resources.Stack, jsii.String("CognitoUserPoolID"), &awscdk.CfnOutputProps{
		Value:       jsii.String(cognito.UserPoolID),
		Description: jsii.String("Cognito user pool id"),
		ExportName:  jsii.String(fmt.Sprintf("%s-userpool-id", props.ResourcePrefix)),
	})

	awscdk.NewCfnOutput(resources.Stack, jsii.String("ECRRepositoryURI"), &awscdk.CfnOutputProps{
		Value:       compute.EcrRepo.RepositoryUri(),
		Description: jsii.String("ECR repository for the GraphQL API image"),
		ExportName:  jsii.String(fmt.Sprintf("%s-ecr-repository-uri", props.ResourcePrefix)),
	})

	awscdk.NewCfnOutput(resources.Stack, jsii.String("FrontendURL"), &awscdk.CfnOutputProps{
		Value:       jsii.String(frontend.URL),
		Description: jsii.String("Web console distribution URL"),
		ExportName:  jsii.String(fmt.Sprintf("%s-frontend-url", props.ResourcePrefix)),
	})

	return &BackendStack{
		Stack:                 stack,
		Account:               resources.Account,
		Region:                resources.Region,
		DbClusterARN:          *database.Cluster.ClusterArn(),
		DbCredentialsARN:      *database.CredentialsSecret.SecretArn(),
		TaskQueueURL:          *queues.TaskQueue.QueueUrl(),
		WorkerFunctionARN:     *worker.Function.FunctionArn(),
		APIGatewayURL:         apigw.URL,
		CognitoUserPoolID:     cognito.UserPoolID,
		CognitoUserPoolClient: cognito.ClientID,
		FrontendBucketName:    *frontend.Bucket.BucketName(),
		FrontendURL:           frontend.URL,
	}
}

// createNetworkingResources creates the VPC shared by the database, the
// worker and the API service.
func createNetworkingResources(resources *Resources) *NetworkingResources {
	vpc := awsec2.NewVpc(resources.Stack, jsii.String("BackendVpc"), &awsec2.VpcProps{
		MaxAzs:      jsii.Number(2),
		NatGateways: jsii.Number(0),
		SubnetConfiguration: &[]*awsec2.SubnetConfiguration{
			{
				CidrMask:   jsii.Number(24),
				Name:       jsii.String("Public"),
				SubnetType: awsec2.SubnetType_PUBLIC,
			},
		},
	})
	awscdk.Tags_Of(vpc).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	vpc.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	return &NetworkingResources{Vpc: vpc}
}

// createDatabaseResources creates the Aurora Serverless v2 cluster holding
// the platform metadata and its credentials secret.
func createDatabaseResources(resources *Resources, networking *NetworkingResources) *DatabaseResources {
	credentialsSecret := awssecretsmanager.NewSecret(resources.Stack, jsii.String("BackendDbSecret"), &awssecretsmanager.SecretProps{
		SecretName: jsii.String(fmt.Sprintf("%s-%s-db-secret", resources.ResourcePrefix, resources.Envname)),
		GenerateSecretString: &awssecretsmanager.SecretStringGenerator{
			SecretStringTemplate: jsii.String("{\"username\": \"postgres\"}"),
			GenerateStringKey:    jsii.String("password"),
			ExcludeCharacters:    jsii.String("\"@/\\"),
		},
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
	awscdk.Tags_Of(credentialsSecret).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	cluster := awsrds.NewDatabaseCluster(resources.Stack, jsii.String("BackendDbCluster"), &awsrds.DatabaseClusterProps{
		Engine: awsrds.DatabaseClusterEngine_AuroraPostgres(&awsrds.AuroraPostgresClusterEngineProps{
			Version: awsrds.AuroraPostgresEngineVersion_VER_15_12(),
		}),
		Writer: awsrds.ClusterInstance_ServerlessV2(jsii.String("writer"), &awsrds.ServerlessV2ClusterInstanceProps{
			AutoMinorVersionUpgrade: jsii.Bool(true),
		}),
		Vpc: networking.Vpc,
		VpcSubnets: &awsec2.SubnetSelection{
			SubnetType: awsec2.SubnetType_PUBLIC,
		},
		DefaultDatabaseName:     jsii.String(BackendDatabaseName),
		Port:                    jsii.Number(5432),
		Credentials:             awsrds.Credentials_FromSecret(credentialsSecret, jsii.String("postgres")),
		RemovalPolicy:           awscdk.RemovalPolicy_DESTROY,
		ClusterIdentifier:       jsii.String(fmt.Sprintf("%s-%s-cluster", resources.ResourcePrefix, resources.Envname)),
		ServerlessV2MinCapacity: jsii.Number(0.5),
		ServerlessV2MaxCapacity: jsii.Number(4.0),
	})
	awscdk.Tags_Of(cluster).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	return &DatabaseResources{
		Cluster:           cluster,
		CredentialsSecret: credentialsSecret,
	}
}

// createQueueResources creates the SQS queue carrying task URIs to the
// worker, with a dead letter queue for messages that keep failing.
func createQueueResources(resources *Resources) *QueueResources {
	dlq := awssqs.NewQueue(resources.Stack, jsii.String("TaskDeadLetterQueue"), &awssqs.QueueProps{
		QueueName:       jsii.String(fmt.Sprintf("%s-%s-tasks-dlq", resources.ResourcePrefix, resources.Envname)),
		RetentionPeriod: awscdk.Duration_Days(jsii.Number(14)),
	})
	awscdk.Tags_Of(dlq).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	queue := awssqs.NewQueue(resources.Stack, jsii.String("TaskQueue"), &awssqs.QueueProps{
		QueueName:         jsii.String(fmt.Sprintf("%s-%s-tasks", resources.ResourcePrefix, resources.Envname)),
		VisibilityTimeout: awscdk.Duration_Minutes(jsii.Number(15)),
		DeadLetterQueue: &awssqs.DeadLetterQueue{
			Queue:           dlq,
			MaxReceiveCount: jsii.Number(3),
		},
	})
	awscdk.Tags_Of(queue).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	return &QueueResources{
		TaskQueue:       queue,
		DeadLetterQueue: dlq,
	}
}

// createWorkerResources creates the Go lambda draining the task queue.
func createWorkerResources(resources *Resources, networking *NetworkingResources, database *DatabaseResources, queues *QueueResources, assetDir string) *WorkerResources {
	workerSG := awsec2.NewSecurityGroup(resources.Stack, jsii.String("WorkerSG"), &awsec2.SecurityGroupProps{
		Vpc:              networking.Vpc,
		Description:      jsii.String("Allow outbound connection from the task worker to the backend database"),
		AllowAllOutbound: jsii.Bool(true),
	})
	awscdk.Tags_Of(workerSG).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	database.Cluster.Connections().AllowFrom(workerSG, awsec2.Port_Tcp(jsii.Number(5432)), jsii.String("Allow task worker"))

	workerRole := awsiam.NewRole(resources.Stack, jsii.String("WorkerRole"), &awsiam.RoleProps{
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("lambda.amazonaws.com"), nil),
	})
	awscdk.Tags_Of(workerRole).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	workerRole.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	setupWorkerPermissions(workerRole, resources, database)

	worker := awslambda.NewFunction(resources.Stack, jsii.String("TaskWorker"), &awslambda.FunctionProps{
		FunctionName: jsii.String(fmt.Sprintf("%s-%s-worker", resources.ResourcePrefix, resources.Envname)),
		Handler:      jsii.String("bootstrap"),
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Architecture: awslambda.Architecture_ARM_64(),
		Code:         awslambda.AssetCode_FromAsset(jsii.String(assetDir), nil),
		Vpc:          networking.Vpc,
		VpcSubnets: &awsec2.SubnetSelection{
			SubnetType: awsec2.SubnetType_PUBLIC,
		},
		SecurityGroups: &[]awsec2.ISecurityGroup{workerSG},
		Environment: &map[string]*string{
			"envname":         jsii.String(resources.Envname),
			"RESOURCE_PREFIX": jsii.String(resources.ResourcePrefix),
			"PIVOT_ROLE_NAME": jsii.String(resources.PivotRoleName),
			"DB_SECRET_ARN":   database.CredentialsSecret.SecretArn(),
			"DB_NAME":         jsii.String(BackendDatabaseName),
			"DB_HOST":         database.Cluster.ClusterEndpoint().Hostname(),
			"DB_PORT":         jsii.String("5432"),
			"TASK_QUEUE_URL":  queues.TaskQueue.QueueUrl(),
		},
		Timeout:           awscdk.Duration_Minutes(jsii.Number(15)),
		MemorySize:        jsii.Number(512),
		Role:              workerRole,
		AllowPublicSubnet: jsii.Bool(true),
	})
	awscdk.Tags_Of(worker).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	worker.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)
	workerSG.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	worker.AddEventSource(awslambdaeventsources.NewSqsEventSource(queues.TaskQueue, &awslambdaeventsources.SqsEventSourceProps{
		BatchSize:               jsii.Number(10),
		ReportBatchItemFailures: jsii.Bool(true),
	}))

	return &WorkerResources{
		Function: worker,
		Role:     workerRole,
	}
}

// setupWorkerPermissions configures IAM permissions for the task worker.
func setupWorkerPermissions(role awsiam.Role, resources *Resources, database *DatabaseResources) {
	role.AddManagedPolicy(awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("service-role/AWSLambdaBasicExecutionRole")))
	role.AddManagedPolicy(awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("service-role/AWSLambdaVPCAccessExecutionRole")))

	database.CredentialsSecret.GrantRead(role, nil)

	// The worker pivots into tenant accounts to run its task handlers.
	role.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Effect:    awsiam.Effect_ALLOW,
		Actions:   jsii.Strings("sts:AssumeRole"),
		Resources: jsii.Strings(fmt.Sprintf("arn:aws:iam::*:role/%s", resources.PivotRoleName)),
	}))

	role.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Effect:  awsiam.Effect_ALLOW,
		Actions: jsii.Strings("ssm:GetParameter", "ssm:GetParameters", "ssm:GetParametersByPath"),
		Resources: jsii.Strings(
			fmt.Sprintf("arn:aws:ssm:%s:%s:parameter/dataall/%s/*", resources.Region, resources.Account, resources.Envname),
		),
	}))
}

// createComputeResources creates the ECS cluster and Fargate task running
// the GraphQL API container.
func createComputeResources(resources *Resources, networking *NetworkingResources, database *DatabaseResources, queues *QueueResources, cognito *CognitoResources) *ComputeResources {
	cluster := awsecs.NewCluster(resources.Stack, jsii.String("BackendCluster"), &awsecs.ClusterProps{
		Vpc: networking.Vpc,
	})
	awscdk.Tags_Of(cluster).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	cluster.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	logGroup := awslogs.NewLogGroup(resources.Stack, jsii.String("GraphQLLogGroup"), &awslogs.LogGroupProps{
		LogGroupName:  jsii.String(fmt.Sprintf("/ecs/%s-%s-graphql", resources.ResourcePrefix, resources.Envname)),
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
	awscdk.Tags_Of(logGroup).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	taskRole := awsiam.NewRole(resources.Stack, jsii.String("GraphQLTaskRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(fmt.Sprintf("%s-%s-graphql-role", resources.ResourcePrefix, resources.Envname)),
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("ecs-tasks.amazonaws.com"), nil),
	})
	awscdk.Tags_Of(taskRole).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	database.CredentialsSecret.GrantRead(taskRole, nil)
	queues.TaskQueue.GrantSendMessages(taskRole)

	taskRole.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Effect:    awsiam.Effect_ALLOW,
		Actions:   jsii.Strings("sts:AssumeRole"),
		Resources: jsii.Strings(fmt.Sprintf("arn:aws:iam::*:role/%s", resources.PivotRoleName)),
	}))

	taskRole.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Effect:  awsiam.Effect_ALLOW,
		Actions: jsii.Strings("ssm:GetParameter", "ssm:GetParameters", "ssm:GetParametersByPath", "ssm:PutParameter"),
		Resources: jsii.Strings(
			fmt.Sprintf("arn:aws:ssm:%s:%s:parameter/dataall/%s/*", resources.Region, resources.Account, resources.Envname),
		),
	}))

	taskRole.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	taskDef := awsecs.NewFargateTaskDefinition(resources.Stack, jsii.String("GraphQLTaskDef"), &awsecs.FargateTaskDefinitionProps{
		Cpu:            jsii.Number(512),
		MemoryLimitMiB: jsii.Number(1024),
		TaskRole:       taskRole,
	})
	awscdk.Tags_Of(taskDef).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	taskDef.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	ecrRepo := awsecr.NewRepository(resources.Stack, jsii.String("GraphQLEcrRepo"), &awsecr.RepositoryProps{
		RepositoryName: jsii.String(fmt.Sprintf("%s-%s-graphql", resources.ResourcePrefix, resources.Envname)),
		RemovalPolicy:  awscdk.RemovalPolicy_DESTROY,
		EmptyOnDelete:  jsii.Bool(true),
	})
	awscdk.Tags_Of(ecrRepo).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	container := taskDef.AddContainer(jsii.String("GraphQLContainer"), &awsecs.ContainerDefinitionOptions{
		Image: awsecs.ContainerImage_FromEcrRepository(ecrRepo, jsii.String("latest")),
		Logging: awsecs.LogDrivers_AwsLogs(&awsecs.AwsLogDriverProps{
			StreamPrefix: jsii.String("graphql"),
			LogGroup:     logGroup,
		}),
		Environment: &map[string]*string{
			"envname":         jsii.String(resources.Envname),
			"AWS_REGION":      jsii.String(resources.Region),
			"RESOURCE_PREFIX": jsii.String(resources.ResourcePrefix),
			"PIVOT_ROLE_NAME": jsii.String(resources.PivotRoleName),

			"DB_SECRET_ARN": database.CredentialsSecret.SecretArn(),
			"DB_NAME":       jsii.String(BackendDatabaseName),
			"DB_HOST":       database.Cluster.ClusterEndpoint().Hostname(),
			"DB_PORT":       jsii.String("5432"),

			"TASK_QUEUE_URL": queues.TaskQueue.QueueUrl(),

			"COGNITO_USER_POOL_ID": jsii.String(cognito.UserPoolID),
			"COGNITO_CLIENT_ID":    jsii.String(cognito.ClientID),

			"LOG_LEVEL": jsii.String("info"),
		},
	})

	container.AddPortMappings(&awsecs.PortMapping{
		ContainerPort: jsii.Number(8080),
	})

	// The service itself is created in createAPIGatewayResources together
	// with its target group.
	return &ComputeResources{
		Cluster:  cluster,
		TaskDef:  taskDef,
		Service:  nil,
		EcrRepo:  ecrRepo,
		LogGroup: logGroup,
	}
}

// createCognitoResources creates the user pool authenticating GraphQL calls.
func createCognitoResources(resources *Resources) *CognitoResources {
	userPool := awscognito.NewUserPool(resources.Stack, jsii.String("BackendUserPool"), &awscognito.UserPoolProps{
		UserPoolName:      jsii.String(fmt.Sprintf("%s-%s-userpool", resources.ResourcePrefix, resources.Envname)),
		SelfSignUpEnabled: jsii.Bool(false),
		SignInAliases: &awscognito.SignInAliases{
			Email:    jsii.Bool(true),
			Username: jsii.Bool(true),
		},
		AutoVerify: &awscognito.AutoVerifiedAttrs{
			Email: jsii.Bool(true),
		},
		PasswordPolicy: &awscognito.PasswordPolicy{
			MinLength:        jsii.Number(8),
			RequireLowercase: jsii.Bool(true),
			RequireUppercase: jsii.Bool(true),
			RequireDigits:    jsii.Bool(true),
			RequireSymbols:   jsii.Bool(true),
		},
		AccountRecovery: awscognito.AccountRecovery_EMAIL_ONLY,
	})
	awscdk.Tags_Of(userPool).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	userPool.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	userPoolClient := awscognito.NewUserPoolClient(resources.Stack, jsii.String("BackendUserPoolClient"), &awscognito.UserPoolClientProps{
		UserPool:           userPool,
		UserPoolClientName: jsii.String(fmt.Sprintf("%s-%s-client", resources.ResourcePrefix, resources.Envname)),
		GenerateSecret:     jsii.Bool(false),
		AuthFlows: &awscognito.AuthFlow{
			UserPassword: jsii.Bool(true),
			UserSrp:      jsii.Bool(true),
		},
		IdTokenValidity:      awscdk.Duration_Hours(jsii.Number(24)),
		AccessTokenValidity:  awscdk.Duration_Hours(jsii.Number(24)),
		RefreshTokenValidity: awscdk.Duration_Days(jsii.Number(30)),
	})
	awscdk.Tags_Of(userPoolClient).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	userPoolClient.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	userPoolDomain := awscognito.NewUserPoolDomain(resources.Stack, jsii.String("BackendUserPoolDomain"), &awscognito.UserPoolDomainProps{
		UserPool: userPool,
		CognitoDomain: &awscognito.CognitoDomainOptions{
			DomainPrefix: jsii.String(fmt.Sprintf("%s-%s-%s", resources.ResourcePrefix, resources.Envname, resources.Account)),
		},
	})
	awscdk.Tags_Of(userPoolDomain).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	userPoolDomain.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	return &CognitoResources{
		UserPool:       userPool,
		UserPoolClient: userPoolClient,
		UserPoolDomain: userPoolDomain,
		UserPoolID:     *userPool.UserPoolId(),
		ClientID:       *userPoolClient.UserPoolClientId(),
		DomainURL:      *userPoolDomain.DomainName(),
	}
}

// createAPIGatewayResources creates the load balanced Fargate service and the
// Cognito-authorized API gateway in front of it.
func createAPIGatewayResources(resources *Resources, networking *NetworkingResources, compute *ComputeResources, cognito *CognitoResources, database *DatabaseResources) *APIGatewayResources {
	loadBalancer := awselasticloadbalancingv2.NewApplicationLoadBalancer(resources.Stack, jsii.String("GraphQLALB"), &awselasticloadbalancingv2.ApplicationLoadBalancerProps{
		Vpc:            networking.Vpc,
		InternetFacing: jsii.Bool(true),
		VpcSubnets: &awsec2.SubnetSelection{
			SubnetType: awsec2.SubnetType_PUBLIC,
		},
	})
	awscdk.Tags_Of(loadBalancer).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	loadBalancer.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	targetGroup := awselasticloadbalancingv2.NewApplicationTargetGroup(resources.Stack, jsii.String("GraphQLTargetGroup"), &awselasticloadbalancingv2.ApplicationTargetGroupProps{
		Port:       jsii.Number(8080),
		Protocol:   awselasticloadbalancingv2.ApplicationProtocol_HTTP,
		Vpc:        networking.Vpc,
		TargetType: awselasticloadbalancingv2.TargetType_IP,
		HealthCheck: &awselasticloadbalancingv2.HealthCheck{
			Path:                    jsii.String("/health"),
			HealthyHttpCodes:        jsii.String("200"),
			HealthyThresholdCount:   jsii.Number(2),
			UnhealthyThresholdCount: jsii.Number(3),
			Timeout:                 awscdk.Duration_Seconds(jsii.Number(5)),
			Interval:                awscdk.Duration_Seconds(jsii.Number(30)),
		},
	})
	awscdk.Tags_Of(targetGroup).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	serviceSG := awsec2.NewSecurityGroup(resources.Stack, jsii.String("GraphQLServiceSG"), &awsec2.SecurityGroupProps{
		Vpc:              networking.Vpc,
		Description:      jsii.String("Allow outbound connections from the GraphQL service"),
		AllowAllOutbound: jsii.Bool(true),
	})
	awscdk.Tags_Of(serviceSG).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	serviceSG.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	service := awsecs.NewFargateService(resources.Stack, jsii.String("GraphQLService"), &awsecs.FargateServiceProps{
		Cluster:        compute.Cluster,
		TaskDefinition: compute.TaskDef.(awsecs.TaskDefinition),
		DesiredCount:   jsii.Number(1),
		VpcSubnets: &awsec2.SubnetSelection{
			SubnetType: awsec2.SubnetType_PUBLIC,
		},
		AssignPublicIp: jsii.Bool(true),
		SecurityGroups: &[]awsec2.ISecurityGroup{serviceSG},
	})
	awscdk.Tags_Of(service).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	service.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	service.AttachToApplicationTargetGroup(targetGroup)

	database.Cluster.Connections().AllowFrom(serviceSG, awsec2.Port_Tcp(jsii.Number(5432)), jsii.String("Allow GraphQL service"))

	compute.Service = service

	loadBalancer.AddListener(jsii.String("GraphQLListener"), &awselasticloadbalancingv2.BaseApplicationListenerProps{
		Port:     jsii.Number(80),
		Protocol: awselasticloadbalancingv2.ApplicationProtocol_HTTP,
		DefaultTargetGroups: &[]awselasticloadbalancingv2.IApplicationTargetGroup{
			targetGroup,
		},
	})

	api := awsapigateway.NewRestApi(resources.Stack, jsii.String("GraphQLAPI"), &awsapigateway.RestApiProps{
		RestApiName: jsii.String(fmt.Sprintf("%s-%s-api", resources.ResourcePrefix, resources.Envname)),
		Description: jsii.String("API gateway for the data governance GraphQL service"),
		EndpointTypes: &[]awsapigateway.EndpointType{
			awsapigateway.EndpointType_REGIONAL,
		},
		DefaultCorsPreflightOptions: &awsapigateway.CorsOptions{
			AllowOrigins: &[]*string{jsii.String("*")},
			AllowMethods: &[]*string{jsii.String("GET"), jsii.String("POST"), jsii.String("OPTIONS")},
			AllowHeaders: &[]*string{jsii.String("Content-Type"), jsii.String("Authorization")},
		},
	})
	awscdk.Tags_Of(api).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	api.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	cognitoAuthorizer := awsapigateway.NewCognitoUserPoolsAuthorizer(resources.Stack, jsii.String("GraphQLAuthorizer"), &awsapigateway.CognitoUserPoolsAuthorizerProps{
		CognitoUserPools: &[]awscognito.IUserPool{cognito.UserPool},
		AuthorizerName:   jsii.String(fmt.Sprintf("%s-%s-authorizer", resources.ResourcePrefix, resources.Envname)),
	})

	albURL := fmt.Sprintf("http://%s", *loadBalancer.LoadBalancerDnsName())
	integration := awsapigateway.NewHttpIntegration(jsii.String(albURL), &awsapigateway.HttpIntegrationProps{
		Proxy: jsii.Bool(true),
	})

	api.Root().AddProxy(&awsapigateway.ProxyResourceOptions{
		DefaultIntegration: integration,
		DefaultMethodOptions: &awsapigateway.MethodOptions{
			Authorizer:        cognitoAuthorizer,
			AuthorizationType: awsapigateway.AuthorizationType_COGNITO,
		},
		AnyMethod: jsii.Bool(true),
	})

	healthResource := api.Root().AddResource(jsii.String("health"), nil)
	healthResource.AddMethod(jsii.String("GET"), integration, &awsapigateway.MethodOptions{
		AuthorizationType: awsapigateway.AuthorizationType_NONE,
	})

	return &APIGatewayResources{
		RestAPI:      api,
		LoadBalancer: loadBalancer,
		URL:          *api.Url(),
	}
}

// createFrontendResources hosts the web console: a private S3 bucket served
// through CloudFront with an origin access identity. Missing paths fall back
// to index.html so client-side routing works.
func createFrontendResources(resources *Resources) *FrontendResources {
	bucketName := fmt.Sprintf("%s-%s-frontend-%s-%s",
		resources.ResourcePrefix, resources.Envname, resources.Account, resources.Region)
	bucket := awss3.NewBucket(resources.Stack, jsii.String("FrontendBucket"), &awss3.BucketProps{
		BucketName:        jsii.String(bucketName),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
		AutoDeleteObjects: jsii.Bool(true),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
	})
	awscdk.Tags_Of(bucket).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	oai := awscloudfront.NewOriginAccessIdentity(resources.Stack, jsii.String("FrontendOAI"), &awscloudfront.OriginAccessIdentityProps{
		Comment: jsii.String(fmt.Sprintf("%s %s web console", resources.ResourcePrefix, resources.Envname)),
	})
	bucket.GrantRead(oai.GrantPrincipal(), jsii.String("*"))

	spaFallback := []*awscloudfront.ErrorResponse{
		{
			HttpStatus:         jsii.Number(404),
			ResponseHttpStatus: jsii.Number(200),
			ResponsePagePath:   jsii.String("/index.html"),
			Ttl:                awscdk.Duration_Minutes(jsii.Number(5)),
		},
		{
			HttpStatus:         jsii.Number(403),
			ResponseHttpStatus: jsii.Number(200),
			ResponsePagePath:   jsii.String("/index.html"),
			Ttl:                awscdk.Duration_Minutes(jsii.Number(5)),
		},
	}
	distribution := awscloudfront.NewDistribution(resources.Stack, jsii.String("FrontendDistribution"), &awscloudfront.DistributionProps{
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.NewS3Origin(bucket, &awscloudfrontorigins.S3OriginProps{
				OriginAccessIdentity: oai,
			}),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD(),
			CachedMethods:        awscloudfront.CachedMethods_CACHE_GET_HEAD(),
			Compress:             jsii.Bool(true),
		},
		DefaultRootObject: jsii.String("index.html"),
		ErrorResponses:    &spaFallback,
		Comment:           jsii.String(fmt.Sprintf("%s-%s web console", resources.ResourcePrefix, resources.Envname)),
		EnableIpv6:        jsii.Bool(true),
		PriceClass:        awscloudfront.PriceClass_PRICE_CLASS_100,
	})
	awscdk.Tags_Of(distribution).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	distribution.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)

	return &FrontendResources{
		Bucket:       bucket,
		Distribution: distribution,
		URL:          fmt.Sprintf("https://%s", *distribution.DistributionDomainName()),
	}
}

// createConfigurationParameters publishes the backend wiring under the
// environment parameter root so the CLI and handlers can discover it.
func createConfigurationParameters(resources *Resources, database *DatabaseResources, queues *QueueResources, cognito *CognitoResources, apigw *APIGatewayResources, compute *ComputeResources, frontend *FrontendResources) {
	backendParams := map[string]string{
		params.Backend(resources.Envname, "apiGatewayUrl"):    apigw.URL,
		params.Backend(resources.Envname, "userPoolId"):       cognito.UserPoolID,
		params.Backend(resources.Envname, "userPoolClientId"): cognito.ClientID,
		params.Backend(resources.Envname, "taskQueueUrl"):     *queues.TaskQueue.QueueUrl(),
		params.Backend(resources.Envname, "dbClusterArn"):     *database.Cluster.ClusterArn(),
		params.Backend(resources.Envname, "dbSecretArn"):      *database.CredentialsSecret.SecretArn(),
		params.Backend(resources.Envname, "ecrRepositoryUri"): *compute.EcrRepo.RepositoryUri(),
		params.Backend(resources.Envname, "ecsClusterName"):   *compute.Cluster.ClusterName(),
		params.Backend(resources.Envname, "frontendUrl"):      frontend.URL,
	}

	for paramName, paramValue := range backendParams {
		constructID := strings.ReplaceAll(strings.ReplaceAll(strings.TrimPrefix(paramName, "/dataall/"), "/", ""), "-", "")
		param := awsssm.NewStringParameter(resources.Stack, jsii.String(fmt.Sprintf("Param%s", constructID)), &awsssm.StringParameterProps{
			ParameterName: jsii.String(paramName),
			StringValue:   jsii.String(paramValue),
			Tier:          awsssm.ParameterTier_STANDARD,
		})
		awscdk.Tags_Of(param).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	}
}

func getThisFileDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("unable to get current file path")
	}
	return filepath.Dir(filename)
}
