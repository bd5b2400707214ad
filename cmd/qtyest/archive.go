package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/piwi3910/QtyEstimate/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var errNoArchive = errors.New("no archive configured; set archive_dsn or " + project.EnvArchiveDSN)

var archiveLimit int

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Saved estimates in the archive database",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived estimates, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withArchive(cmd.Context(), func(a *sqlite.Archive) error {
			recs, err := a.List(cmd.Context(), archiveLimit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSAVED\tITEMS\tVOLUME m³\tFORMWORK m²\tSTEEL kg\tCOST")
			for _, r := range recs {
				q := r.Quantities
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%s %s\n", r.ID, r.Name, r.SavedAt.Local().Format("2006-01-02 15:04"),
					r.Items, q.VolumeM3, q.FormworkM2, q.SteelKg, r.Cost.StringFixed(2), r.Currency)
			}
			return w.Flush()
		})
	},
}

var archiveSaveCmd = &cobra.Command{
	Use:   "save FILE",
	Short: "Save a sheet file to the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := project.LoadSheet(args[0])
		if err != nil {
			return err
		}
		prices, err := loadPrices()
		if err != nil {
			return err
		}
		return archiveSheet(cmd.Context(), sheet, prices)
	},
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore ID FILE",
	Short: "Write an archived estimate back to a sheet file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd.Context(), func(a *sqlite.Archive) error {
			sheet, err := a.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := project.SaveSheet(args[1], sheet); err != nil {
				return err
			}
			printSheet(sheet)
			return nil
		})
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an archived estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd.Context(), func(a *sqlite.Archive) error {
			return a.Delete(cmd.Context(), args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveSaveCmd, archiveRestoreCmd, archiveDeleteCmd)
	archiveListCmd.Flags().IntVarP(&archiveLimit, "limit", "n", 20, "maximum estimates to list (0 for all)")
}

func withArchive(ctx context.Context, fn func(*sqlite.Archive) error) error {
	if appConfig.ArchiveDSN == "" {
		return errNoArchive
	}
	a, closeFn, err := sqlite.NewArchive(ctx, appConfig.ArchiveDSN)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(a)
}

func archiveSheet(ctx context.Context, sheet estimate.Sheet, prices model.PriceList) error {
	return withArchive(ctx, func(a *sqlite.Archive) error {
		if err := a.Save(ctx, sheet, prices); err != nil {
			return err
		}
		fmt.Printf("Archived %s (%s)\n", sheet.Name, sheet.ID)
		return nil
	})
}
