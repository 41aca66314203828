package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), *c)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tz.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr = ":9090"
data_dir = "/srv/tz"

[redis]
enabled = true
db = 3

[rate_limit]
enabled = true
qps = 50
`), 0o644))
	t.Setenv("RATE_LIMIT_QPS", "75")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("PG_ENABLED", "true")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", c.Addr)
	require.Equal(t, "/srv/tz", c.DataDir)
	require.Equal(t, "/api", c.APIBase)
	require.True(t, c.Redis.Enabled)
	require.Equal(t, 3, c.Redis.DB)
	require.Equal(t, "6379", c.Redis.Port)
	require.True(t, c.RateLimit.Enabled)
	require.Equal(t, 75, c.RateLimit.QPS)
	require.True(t, c.Postgres.Enabled)
	require.Equal(t, 50, c.Postgres.MaxOpenConns)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = "), 0o644))
	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
