package main

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import config, prices and vocabulary overrides",
}

var backupExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write config, prices and vocabulary overrides to one JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := exportBackup(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Restore config, prices and vocabulary overrides from a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := importBackup(args[0]); err != nil {
			return err
		}
		fmt.Printf("Restored %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
}

// vocabularyPath is where overrides are read and written.
func vocabularyPath(cfg model.AppConfig) string {
	if cfg.VocabularyFile != "" {
		return cfg.VocabularyFile
	}
	return project.DefaultVocabularyPath()
}

func exportBackup(path string) error {
	prices, err := project.LoadPriceList(project.DefaultPriceListPath())
	if err != nil {
		return err
	}
	vocab, err := project.LoadVocabularies(vocabularyPath(appConfig))
	if err != nil {
		return err
	}
	return project.ExportAllData(path, appConfig, prices, vocab)
}

func importBackup(path string) error {
	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	cfg := backup.Config
	if len(backup.Vocabularies.Vocabularies) > 0 {
		if cfg.VocabularyFile == "" {
			cfg.VocabularyFile = project.DefaultVocabularyPath()
		}
		if err := project.SaveVocabularies(cfg.VocabularyFile, backup.Vocabularies); err != nil {
			return err
		}
	}
	if err := project.SavePriceList(project.DefaultPriceListPath(), backup.Prices); err != nil {
		return err
	}
	if err := project.SaveAppConfig(configFile, cfg); err != nil {
		return err
	}
	appConfig = cfg
	slog.Info("backup restored", "created", backup.CreatedAt, "vocabularies", len(backup.Vocabularies.Vocabularies))
	return nil
}
