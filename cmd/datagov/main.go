// Command datagov is the operational CLI for the control plane: it runs the
// task worker outside Lambda and submits tasks by hand.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
	"datagov/internal/config"
	"datagov/internal/handlers"
	"datagov/internal/logging"
	"datagov/internal/params"
	"datagov/internal/store"
	"datagov/internal/worker"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "datagov",
		Short:        "Data governance control plane CLI",
		SilenceUsage: true,
	}
	root.AddCommand(workerCmd(), taskCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func workerCmd() *cobra.Command {
	var (
		workers  int
		batch    int
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Poll the store and process pending tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg := config.Load()
			log := logging.New(cfg.Verbose)
			defer func() { _ = log.Sync() }()

			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			db, err := store.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			sessions, err := newSessionHelper(ctx, cfg, log)
			if err != nil {
				return err
			}

			dispatcher := worker.NewDispatcher(log)
			handlers.NewS3(sessions, log).RegisterTasks(dispatcher, db)

			runner := worker.NewRunner(db, dispatcher, workers, log)
			defer runner.Stop()

			log.Info("worker started",
				zap.Int("workers", workers),
				zap.Strings("actions", dispatcher.Paths()),
			)

			for {
				if err := runner.DrainPending(ctx, batch); err != nil {
					log.Error("drain pending tasks", zap.Error(err))
				}
				if once {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(interval):
				}
			}
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent task slots")
	cmd.Flags().IntVar(&batch, "batch", 20, "pending tasks fetched per poll")
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "poll interval")
	cmd.Flags().BoolVar(&once, "once", false, "drain pending tasks once and exit")
	return cmd
}

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage asynchronous tasks",
	}
	cmd.AddCommand(taskSubmitCmd())
	return cmd
}

func taskSubmitCmd() *cobra.Command {
	var (
		targetURI string
		action    string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create a pending task for the worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg := config.Load()
			log := logging.New(cfg.Verbose)
			defer func() { _ = log.Sync() }()

			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			db, err := store.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			task, err := db.CreateTask(ctx, targetURI, action, nil)
			if err != nil {
				return err
			}

			// Without a queue the task stays pending for `worker --once`.
			if cfg.TaskQueueURL != "" {
				sessions, err := awsclient.NewSessionHelper(ctx, cfg.Region, cfg.PivotRoleName, "", log)
				if err != nil {
					return err
				}
				client, err := sessions.SQS(ctx, "", cfg.Region)
				if err != nil {
					return err
				}
				if err := worker.NewPublisher(client, cfg.TaskQueueURL, log).Publish(ctx, task.TaskURI); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), task.TaskURI)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetURI, "target", "", "URI of the entity the task acts on")
	cmd.Flags().StringVar(&action, "action", "", "action path, for example s3.prefix.create")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

// newSessionHelper reads the pivot role external id from the central
// parameter store, then builds the helper used for tenant account access.
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
