package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "dynamic", cfg.Server.Port)
	assert.Equal(t, "/cmis/", cfg.Server.ContextPath)
	assert.Equal(t, 30, cfg.Server.StartTimeoutSeconds)
	assert.Equal(t, "1.1", cfg.Server.CMISVersion)
	assert.Equal(t, []string{"A1"}, cfg.Repository.List())
	assert.Equal(t, "A1", cfg.Repository.Default)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Empty(t, cfg.Types.Paths())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TYPES_FILES", "a.yaml, b.json")
	t.Setenv("REPOSITORY_IDS", "A1,B2")
	t.Setenv("REPOSITORY_DEFAULT", "B2")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"a.yaml", "b.json"}, cfg.Types.Paths())
	assert.Equal(t, []string{"A1", "B2"}, cfg.Repository.List())
	assert.Equal(t, "B2", cfg.Repository.Default)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_CMIS_VERSION=1.0\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SERVER_CMIS_VERSION") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.0", cfg.Server.CMISVersion)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := "server:\n  port: 8181\n  context_path: /repo/\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8181", cfg.Server.Port)
	assert.Equal(t, "/repo/", cfg.Server.ContextPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"Port", "SERVER_PORT", "eighty", "server.port"},
		{"Version", "SERVER_CMIS_VERSION", "3.0", "server.cmis_version"},
		{"DefaultRepository", "REPOSITORY_DEFAULT", "Z9", "repository.default"},
		{"Driver", "DATABASE_DRIVER", "oracle", "database.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "dynamic", cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}
