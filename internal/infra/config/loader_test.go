package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	l := NewLoaderWithDir(dir)

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[aliases]")

	// the template is fully commented, loading it back changes nothing
	again, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	body := `
[database]
path = "/tmp/tasks.db"

[log]
level = "debug"

[aliases]
list = ["ls"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0o644))

	cfg, err := NewLoaderWithDir(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tasks.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Log.Path, "unset fields keep their defaults")
	assert.Equal(t, []string{"ls"}, cfg.Aliases["list"])
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[database"), 0o644))

	_, err := NewLoaderWithDir(dir).Load()
	assert.Error(t, err)
}

func TestValidateAliases(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Aliases["list"] = []string{"ls"}
	require.NoError(t, cfg.ValidateAliases([]string{"list", "start"}))

	cfg.Aliases["bogus"] = []string{"b"}
	err := cfg.ValidateAliases([]string{"list", "start"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}
