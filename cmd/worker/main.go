// Command worker is the Lambda entrypoint draining the task queue. Each SQS
// record carries one task URI; failed records are reported back so SQS
// redrives them individually.
package main

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
	"datagov/internal/config"
	"datagov/internal/handlers"
	"datagov/internal/logging"
	"datagov/internal/params"
	"datagov/internal/store"
	"datagov/internal/worker"
)

type app struct {
	runner *worker.Runner
	log    *zap.Logger
}

func (a *app) handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var response events.SQSEventResponse

	for _, record := range event.Records {
		taskURI := strings.TrimSpace(record.Body)
		if taskURI == "" {
			a.log.Warn("empty task record", zap.String("messageId", record.MessageId))
			continue
		}
		if err := a.runner.Process(ctx, taskURI); err != nil {
			a.log.Error("task processing failed",
				zap.String("taskUri", taskURI),
				zap.String("messageId", record.MessageId),
				zap.Error(err),
			)
			response.BatchItemFailures = append(response.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
		}
	}

	return response, nil
}

func main() {
	ctx := context.Background()

	cfg := config.Load()
	log := logging.New(cfg.Verbose)
	defer func() { _ = log.Sync() }()

	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("database not configured", zap.Error(err))
	}

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect store", zap.Error(err))
	}

	sessions, err := newSessionHelper(ctx, cfg, log)
	if err != nil {
		log.Fatal("build session helper", zap.Error(err))
	}

	dispatcher := worker.NewDispatcher(log)
	handlers.NewS3(sessions, log).RegisterTasks(dispatcher, db)

	runner := worker.NewRunner(db, dispatcher, 4, log)

	a := &app{runner: runner, log: log}
	lambda.Start(a.handle)
}

// newSessionHelper reads the pivot role external id from the central
// parameter store, then builds the helper used for tenant account access.
// Reading the parameter needs no role assumption, so a bootstrap helper
// without an external id is enough for the lookup.
func newSessionHelper(ctx context.Context, cfg config.Config, log *zap.Logger) (*awsclient.SessionHelper, error) {
	bootstrap, err := awsclient.NewSessionHelper(ctx, cfg.Region, cfg.PivotRoleName, "", log)
	if err != nil {
		return nil, err
	}

	paramStore := handlers.NewParameterStore(bootstrap, log)
	externalID, err := paramStore.GetParameter(ctx, "", cfg.Region, params.PivotRoleExternalID(cfg.Envname))
	if err != nil {
		return nil, err
	}

	return awsclient.NewSessionHelper(ctx, cfg.Region, cfg.PivotRoleName, externalID, log)
}
