package blueprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagov/internal/model"
)

func testAppData() AppData {
	return AppData{
		Pipeline: &model.OmicsPipeline{
			PipelineURI:    "pipe-1",
			Name:           "variant-calling",
			EnvironmentURI: "env-1",
			S3InputBucket:  "genomics-in",
			S3InputPrefix:  "samples",
			S3OutputBucket: "genomics-out",
			S3OutputPrefix: "results",
			SamlGroupName:  "scientists",
		},
		Environment: &model.Environment{
			EnvironmentURI: "env-1",
			Name:           "research",
			ResourcePrefix: "dataall",
		},
		ResourcePrefix: "dataall-omics-pipe-1",
	}
}

func TestWriteAppFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteAppFile(dir, testAppData()))

	raw, err := os.ReadFile(filepath.Join(dir, AppFileName))
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "package main")
	assert.Contains(t, content, `"dataall-omics-pipe-1"`)
	assert.Contains(t, content, `PipelineURI:       "pipe-1"`)
	assert.Contains(t, content, `InputBucket:       "genomics-in"`)
	assert.Contains(t, content, `Team:              "scientists"`)
}

func TestWriteAppFileReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppFileName), []byte("stale"), 0o644))

	require.NoError(t, WriteAppFile(dir, testAppData()))

	raw, err := os.ReadFile(filepath.Join(dir, AppFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "stale")
}
