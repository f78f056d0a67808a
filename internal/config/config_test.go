package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kvhouse.conf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreStandardRedisDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 6379, cfg.Port)
	assert.Equal(t, 16, cfg.Databases)
	assert.Equal(t, 300, cfg.IdleTimeout)
	assert.Len(t, cfg.SaveRules, 3)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
# comment line

timeout 60
port 7000
databases 4
dir /tmp/kvhouse
loglevel debug
logfile /var/log/kvhouse.log
`)
	cfg := Load(path)
	assert.Equal(t, 60, cfg.IdleTimeout)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 4, cfg.Databases)
	assert.Equal(t, "/tmp/kvhouse", cfg.Dir)
	assert.Equal(t, "/var/log/kvhouse.log", cfg.LogFile)
}

func TestSaveDirectiveResetsDefaultsThenAppends(t *testing.T) {
	path := writeTempConfig(t, "save 10 1\nsave 20 2\n")
	cfg := Load(path)
	require.Len(t, cfg.SaveRules, 2)
	assert.Equal(t, 10, cfg.SaveRules[0].Seconds)
	assert.Equal(t, 20, cfg.SaveRules[1].Seconds)
}

func TestAddrFormatsBindAndPort(t *testing.T) {
	cfg := Default()
	cfg.Bind = "127.0.0.1"
	assert.Equal(t, "127.0.0.1:6379", cfg.Addr())
}
