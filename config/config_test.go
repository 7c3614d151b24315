package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "stockmate", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)

	// defaults are copied, not aliased
	cfg.Web.Port = 9999
	assert.Equal(t, 1816, DefaultAppConfig.Web.Port)
}

func TestLoadConfigFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "stockmate.yml")
	content := []byte("web:\n  port: 8080\ndatabase:\n  type: sqlite\n  name: stockmate_test\n")
	require.NoError(t, os.WriteFile(cfile, content, 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "stockmate_test", cfg.Database.Name)
	// untouched sections keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("STOCKMATE_WEB_PORT", "2816")
	t.Setenv("STOCKMATE_DB_TYPE", "sqlite")

	cfg := LoadConfig("")
	assert.Equal(t, 2816, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}
