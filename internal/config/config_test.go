package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"envname", "AWS_REGION", "RESOURCE_PREFIX", "PIVOT_ROLE_NAME", "DATABASE_URL", "TASK_QUEUE_URL", "BLUEPRINT_DIR", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "local", cfg.Envname)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "dataall", cfg.ResourcePrefix)
	assert.Equal(t, "dataallPivotRole", cfg.PivotRoleName)
	assert.Equal(t, "blueprints/omics_pipeline", cfg.BlueprintDir)
	assert.Empty(t, cfg.TaskQueueURL)
	assert.False(t, cfg.Verbose)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("envname", "prod")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("TASK_QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/111122223333/tasks")
	t.Setenv("DATABASE_URL", "postgres://localhost/datagov")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "prod", cfg.Envname)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/111122223333/tasks", cfg.TaskQueueURL)
	assert.True(t, cfg.Verbose)
	require.NoError(t, cfg.RequireDatabase())
}

func TestRequireDatabaseFailsWhenUnset(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfg := Load()
	assert.Error(t, cfg.RequireDatabase())
}
