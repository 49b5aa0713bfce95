package medquiz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "./medquiz.db", cfg.Database.Path)
	assert.Equal(t, "./audit", cfg.Audit.Dir)
	assert.Empty(t, cfg.OpenAI.APIKey)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  mode: debug
database:
  path: /tmp/test.db
openai:
  model: gpt-4o-mini
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	// Untouched keys keep their defaults.
	assert.Equal(t, "./audit", cfg.Audit.Dir)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MEDQUIZ_OPENAI_API_KEY", "sk-test")
	t.Setenv("MEDQUIZ_SERVER_ADDR", ":7070")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
