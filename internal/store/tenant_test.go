package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownPermissions(t *testing.T) {
	known := []string{"MANAGE_GROUPS", "MANAGE_ENVIRONMENTS"}

	t.Run("all known", func(t *testing.T) {
		assert.Empty(t, unknownPermissions([]string{"MANAGE_GROUPS"}, known))
	})

	t.Run("missing names in request order", func(t *testing.T) {
		missing := unknownPermissions(
			[]string{"MANAGE_DATASETS", "MANAGE_GROUPS", "MANAGE_PIPELINES"},
			known,
		)
		assert.Equal(t, []string{"MANAGE_DATASETS", "MANAGE_PIPELINES"}, missing)
	})

	t.Run("duplicates reported once", func(t *testing.T) {
		missing := unknownPermissions(
			[]string{"MANAGE_DATASETS", "MANAGE_DATASETS"},
			known,
		)
		assert.Equal(t, []string{"MANAGE_DATASETS"}, missing)
	})

	t.Run("empty request", func(t *testing.T) {
		assert.Empty(t, unknownPermissions(nil, known))
	})
}
