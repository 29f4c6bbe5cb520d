package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {

	t.Run("defaults without a file", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "v1", c.Version)
		assert.Equal(t, ":8080", c.Port)
		assert.Equal(t, "Default", c.Default.BotName)
		assert.Equal(t, "photos", c.MinIO.Bucket)
		assert.Equal(t, []string{"127.0.0.1:9042"}, c.Scylla.Hosts)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"port": ":9999",
			"redis": {"addr": "redis:6379", "db": 2},
			"minIO": {"bucket": "snaps", "secure": true},
			"default": {"botName": "Robo", "latitude": 51.5}
		}`), 0600))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9999", c.Port)
		assert.Equal(t, "redis:6379", c.Redis.Addr)
		assert.Equal(t, 2, c.Redis.DB)
		assert.Equal(t, "snaps", c.MinIO.Bucket)
		assert.True(t, c.MinIO.Secure)
		assert.Equal(t, "Robo", c.Default.BotName)
		assert.Equal(t, 51.5, c.Default.Latitude)
		assert.Equal(t, "v1", c.Version)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("ROBOSNAP_PORT", ":7000")
		t.Setenv("ROBOSNAP_REDIS_ADDR", "cache:6379")

		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":7000", c.Port)
		assert.Equal(t, "cache:6379", c.Redis.Addr)
	})

	t.Run("sad path - missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
