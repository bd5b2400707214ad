package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("QTYEST_MODELS_DIR=/data/models\nQTYEST_ARCHIVE_DSN=file:est.db\n"), 0644))

	t.Setenv(EnvModelsDir, "")
	t.Setenv(EnvArchiveDSN, "preset.db")
	os.Unsetenv(EnvModelsDir)

	require.NoError(t, LoadEnvFiles(path))

	cfg := model.DefaultAppConfig()
	ApplyEnv(&cfg)
	assert.Equal(t, "/data/models", cfg.ModelsDir)
	assert.Equal(t, "preset.db", cfg.ArchiveDSN, "variables already set are not overwritten")
}

func TestLoadEnvFilesMissing(t *testing.T) {
	assert.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env")))
}

func TestConfigPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/qtyest.json")
	assert.Equal(t, "/etc/qtyest.json", ConfigPath())

	t.Setenv(EnvConfig, "")
	assert.Equal(t, DefaultConfigPath(), ConfigPath())
}
