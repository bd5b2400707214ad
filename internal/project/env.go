package project

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/piwi3910/QtyEstimate/internal/model"
)

// Environment variables read by the command line tool.
const (
	EnvConfig     = "QTYEST_CONFIG"
	EnvModelsDir  = "QTYEST_MODELS_DIR"
	EnvArchiveDSN = "QTYEST_ARCHIVE_DSN"
)

// LoadEnvFiles loads KEY=value pairs from the given .env files into the
// process environment. Variables that are already set win. With no
// arguments ".env" in the working directory is read; a missing file is
// not an error.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ConfigPath returns $QTYEST_CONFIG or the default config path.
func ConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return DefaultConfigPath()
}

// ApplyEnv overrides config fields from the environment.
func ApplyEnv(config *model.AppConfig) {
	if v := os.Getenv(EnvModelsDir); v != "" {
		config.ModelsDir = v
	}
	if v := os.Getenv(EnvArchiveDSN); v != "" {
		config.ArchiveDSN = v
	}
}
