package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullWorkflow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "vkine", "config.toml")
	require.NoError(t, WriteDefault(cfgPath))

	t.Setenv("VKINE_STORE", "")
	t.Setenv("MONGODB_URI", "mongodb://mongo.internal:27017")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Store.Driver, "default used for empty VKINE_STORE")
	assert.Equal(t, "mongodb://mongo.internal:27017", cfg.Store.Mongo.URI)
	assert.Equal(t, 8585, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Cache.VenueTTL.Duration)
	assert.Equal(t, 30*time.Second, cfg.Store.Breaker.Timeout.Duration)
}
