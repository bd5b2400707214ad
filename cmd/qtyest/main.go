// Command qtyest prepares quantity take-off schedules, trains regression
// models on them and estimates concrete, formwork and steel for new
// structural elements.
//
// Build:
//
//	go build -o qtyest ./cmd/qtyest
//
// Typical use:
//
//	qtyest prepare beam beams.xlsx --steel rebar.xlsx --parquet beam.parquet
//	qtyest train beam beams.xlsx --steel rebar.xlsx
//	qtyest estimate beam --input b=0.2 --input h=0.6 --input length=8 --sheet tower.json
package main

import (
	"log/slog"
	"os"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/piwi3910/QtyEstimate/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFiles   []string
	verbose    bool

	// Loaded in setup before any subcommand runs.
	appConfig model.AppConfig
	registry  *resolver.Registry
)

var rootCmd = &cobra.Command{
	Use:               "qtyest",
	Short:             "Estimate concrete, formwork and steel quantities from past take-offs",
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $QTYEST_CONFIG or ~/.qtyest/config.json)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "dotenv files to load (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := project.LoadEnvFiles(envFiles...); err != nil {
		return err
	}
	if configFile == "" {
		configFile = project.ConfigPath()
	}
	cfg, err := project.LoadAppConfig(configFile)
	if err != nil {
		return err
	}
	project.ApplyEnv(&cfg)
	appConfig = cfg
	slog.Debug("config loaded", "path", configFile, "models", cfg.ModelsDir)

	registry, err = project.LoadRegistry(cfg.VocabularyFile)
	return err
}

// settings returns the engineering factors of the loaded config.
func settings() model.EstimateSettings {
	s := model.DefaultSettings()
	appConfig.ApplyToSettings(&s)
	return s
}

func logWarnings(warnings []string) {
	for _, w := range warnings {
		slog.Warn(w)
	}
}
