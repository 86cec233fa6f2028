package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_drafts.down.sql",
		"000001_create_drafts.up.sql",
	}, names)
}

func TestRunMigrationsRequiresHandle(t *testing.T) {
	assert.Error(t, RunMigrations(nil))
}
