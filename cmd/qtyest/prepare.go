package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/piwi3910/QtyEstimate/internal/export"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/spf13/cobra"
)

var (
	prepareSources sourceFlags
	prepareParquet string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare ELEMENT FILE...",
	Short: "Resolve and clean take-off schedules without training",
	Long: `Import the schedules of one element (foundation, column, slab or beam),
resolve their feature and target columns, normalise numbers and drop
incomplete rows. The resolved columns are printed; --parquet writes the
cleaned table for analysis elsewhere.

Examples:
  qtyest prepare column columns.csv
  qtyest prepare beam beams.xlsx --steel rebar.xlsx --parquet beam.parquet
  qtyest prepare slab rc_slabs.xlsx --pt pt_slabs.xlsx --steel slab_rebar.xlsx`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareSources.register(prepareCmd)
	prepareCmd.Flags().StringVar(&prepareParquet, "parquet", "", "write the cleaned table to this Parquet file")
}

func runPrepare(_ *cobra.Command, args []string) error {
	element, err := model.ParseElement(args[0])
	if err != nil {
		return err
	}
	prepared, err := prepareSources.prepare(element, args[1:])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Rows:\t%d of %d\n", prepared.Table.Len(), prepared.RawRows)
	for _, f := range prepared.Features.Assignments {
		fmt.Fprintf(w, "Feature %s:\t%s\n", f.Role, f.Column)
	}
	for _, f := range prepared.CutFeatures.Assignments {
		fmt.Fprintf(w, "Cut feature %s:\t%s\n", f.Role, f.Column)
	}
	for _, t := range prepared.TrainableTargets() {
		fmt.Fprintf(w, "Target %s:\t%s\n", t, prepared.Targets[t])
	}
	for _, t := range prepared.Skipped {
		fmt.Fprintf(w, "Target %s:\t(not found)\n", t)
	}
	w.Flush()

	if prepareParquet != "" {
		if err := export.WriteParquet(prepareParquet, prepared.Table); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", prepareParquet)
	}
	return nil
}
