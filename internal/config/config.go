// Package config resolves control-plane settings from the environment.
package config

import (
	"os"

	"github.com/pkg/errors"
)

// Config holds the settings shared by the API, the worker and the CDK app.
type Config struct {
	// Envname distinguishes deployed environments (dev, prod, local). It is
	// part of every SSM parameter path.
	Envname string
	// Region the control plane itself runs in.
	Region string
	// ResourcePrefix namespaces every AWS resource the platform creates.
	ResourcePrefix string
	// PivotRoleName is the cross-account role assumed in tenant accounts.
	PivotRoleName string
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string
	// TaskQueueURL is the SQS queue feeding the worker.
	TaskQueueURL string
	// BlueprintDir holds the pipeline blueprint rendered and zipped per
	// pipeline stack.
	BlueprintDir string
	Verbose      bool
}

// Load reads the configuration from environment variables, applying the
// platform defaults.
func Load() Config {
	return Config{
		Envname:        getenv("envname", "local"),
		Region:         getenv("AWS_REGION", "eu-west-1"),
		ResourcePrefix: getenv("RESOURCE_PREFIX", "dataall"),
		PivotRoleName:  getenv("PIVOT_ROLE_NAME", "dataallPivotRole"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TaskQueueURL:   os.Getenv("TASK_QUEUE_URL"),
		BlueprintDir:   getenv("BLUEPRINT_DIR", "blueprints/omics_pipeline"),
		Verbose:        os.Getenv("LOG_LEVEL") == "debug",
	}
}

// RequireDatabase errors when the store is needed but unconfigured.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
