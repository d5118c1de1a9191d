package prune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PruneDistance = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.TickInterval = 0
	assert.Error(t, cfg.Validate())

	// a disabled subsystem accepts any values
	cfg.Enabled = false
	assert.NoError(t, cfg.Validate())
}
