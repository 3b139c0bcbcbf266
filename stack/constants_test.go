package stack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineResourcePrefix(t *testing.T) {
	assert.Equal(t, "dataall-omics-pipe1", PipelineResourcePrefix("dataall", "pipe1"))
}

func TestPipelineResourcePrefixTruncates(t *testing.T) {
	prefix := PipelineResourcePrefix(strings.Repeat("p", 40), strings.Repeat("u", 40))
	assert.Len(t, prefix, 63)
	assert.True(t, strings.HasPrefix(prefix, strings.Repeat("p", 40)+"-omics-"))
}

func TestGenerateExternalID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id := GenerateExternalID()
		assert.Len(t, id, 32)
		for _, r := range id {
			assert.Contains(t, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(r))
		}
		assert.False(t, seen[id], "external ids must not repeat")
		seen[id] = true
	}
}
