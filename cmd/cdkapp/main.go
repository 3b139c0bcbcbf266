// Command cdkapp synthesizes the platform CDK stacks. The STACK environment
// variable selects which stack to synthesize: backend (default), paramstore,
// environment, or pipeline. Environment and pipeline synthesis resolve their
// target entities from the metadata database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"datagov/internal/config"
	"datagov/internal/logging"
	"datagov/internal/store"
	"datagov/stack"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Verbose)
	defer func() { _ = log.Sync() }()

	defer jsii.Close()

	app := awscdk.NewApp(nil)

	target := os.Getenv("STACK")
	if target == "" {
		target = "backend"
	}

	switch target {
	case "backend":
		stack.NewBackendStack(app, fmt.Sprintf("%s-%s-backend", cfg.ResourcePrefix, cfg.Envname), &stack.BackendStackProps{
			StackProps:     awscdk.StackProps{Env: env()},
			Envname:        cfg.Envname,
			ResourcePrefix: cfg.ResourcePrefix,
			PivotRoleName:  cfg.PivotRoleName,
		})

	case "paramstore":
		stack.NewParamStoreStack(app, fmt.Sprintf("%s-%s-paramstore", cfg.ResourcePrefix, cfg.Envname), &stack.ParamStoreStackProps{
			StackProps:                awscdk.StackProps{Env: env()},
			Envname:                   cfg.Envname,
			ResourcePrefix:            cfg.ResourcePrefix,
			CustomDomain:              os.Getenv("CUSTOM_DOMAIN"),
			EnableCWCanaries:          os.Getenv("ENABLE_CW_CANARIES") == "true",
			QuicksightEnabled:         os.Getenv("QUICKSIGHT_ENABLED") == "true",
			SharedDashboardSessions:   os.Getenv("SHARED_DASHBOARD_SESSIONS"),
			EnablePivotRoleAutoCreate: os.Getenv("ENABLE_PIVOT_ROLE_AUTO_CREATE") == "true",
			PivotRoleName:             cfg.PivotRoleName,
			ExternalID:                os.Getenv("PIVOT_ROLE_EXTERNAL_ID"),
		})

	case "environment":
		synthEnvironmentStack(app, cfg, log)

	case "pipeline":
		synthPipelineStack(app, cfg, log)

	default:
		log.Fatal("unknown stack", zap.String("stack", target))
	}

	app.Synth(nil)
}

// synthEnvironmentStack resolves the environment named by TARGET_URI and
// deploys the tenant account stack with its pivot role.
func synthEnvironmentStack(app awscdk.App, cfg config.Config, log *zap.Logger) {
	ctx := context.Background()

	targetURI := os.Getenv("TARGET_URI")
	if targetURI == "" {
		log.Fatal("TARGET_URI is required for environment synthesis")
	}
	centralAccount := os.Getenv("CENTRAL_ACCOUNT_ID")
	if centralAccount == "" {
		log.Fatal("CENTRAL_ACCOUNT_ID is required for environment synthesis")
	}
	externalID := os.Getenv("PIVOT_ROLE_EXTERNAL_ID")
	if externalID == "" {
		log.Fatal("PIVOT_ROLE_EXTERNAL_ID is required for environment synthesis")
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("database not configured", zap.Error(err))
	}

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect store", zap.Error(err))
	}
	defer db.Close()

	environment, err := db.GetEnvironmentByURI(ctx, targetURI)
	if err != nil {
		log.Fatal("resolve environment", zap.String("targetUri", targetURI), zap.Error(err))
	}

	stack.NewEnvironmentStack(app, fmt.Sprintf("%s-environment-%s", environment.ResourcePrefix, environment.EnvironmentURI), &stack.EnvironmentStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String(environment.AwsAccountID),
				Region:  jsii.String(environment.Region),
			},
		},
		Environment:      environment,
		PivotRoleName:    cfg.PivotRoleName,
		CentralAccountID: centralAccount,
		ExternalID:       externalID,
	})
}

// synthPipelineStack resolves the pipeline named by TARGET_URI and deploys
// its stack into the pipeline's environment account.
func synthPipelineStack(app awscdk.App, cfg config.Config, log *zap.Logger) {
	ctx := context.Background()

	targetURI := os.Getenv("TARGET_URI")
	if targetURI == "" {
		log.Fatal("TARGET_URI is required for pipeline synthesis")
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("database not configured", zap.Error(err))
	}

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect store", zap.Error(err))
	}
	defer db.Close()

	pipeline, err := db.GetPipelineByURI(ctx, targetURI)
	if err != nil {
		log.Fatal("resolve pipeline", zap.String("targetUri", targetURI), zap.Error(err))
	}
	environment, err := db.GetEnvironmentByURI(ctx, pipeline.EnvironmentURI)
	if err != nil {
		log.Fatal("resolve environment", zap.String("environmentUri", pipeline.EnvironmentURI), zap.Error(err))
	}

	stackName := stack.PipelineResourcePrefix(environment.ResourcePrefix, pipeline.PipelineURI)
	if _, err := stack.NewOmicsPipelineStack(app, stackName, &stack.OmicsPipelineStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String(environment.AwsAccountID),
				Region:  jsii.String(environment.Region),
			},
		},
		Pipeline:     pipeline,
		Environment:  environment,
		BlueprintDir: cfg.BlueprintDir,
		Log:          log,
	}); err != nil {
		log.Fatal("synthesize pipeline stack", zap.String("targetUri", targetURI), zap.Error(err))
	}
}

// env resolves the CDK deployment environment from the standard CDK
// environment variables, falling back to an environment-agnostic stack.
func env() *awscdk.Environment {
	account := os.Getenv("CDK_DEFAULT_ACCOUNT")
	region := os.Getenv("CDK_DEFAULT_REGION")
	if account == "" || region == "" {
		return nil
	}
	return &awscdk.Environment{
		Account: jsii.String(account),
		Region:  jsii.String(region),
	}
}
