package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
name = "test-gate"

[world]
default_view_distance = 4
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-gate", cfg.Server.Name)
	assert.Equal(t, 4, cfg.World.DefaultViewDist)
	// Untouched sections keep their defaults.
	assert.Equal(t, 50*time.Millisecond, cfg.World.TickRate)
	assert.Equal(t, "0.0.0.0:25600", cfg.Network.BindAddress)
	assert.NotZero(t, cfg.Server.StartTime)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
