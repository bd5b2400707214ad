package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/export"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/spf13/cobra"
)

// outputFlags are the report files written for a sheet.
type outputFlags struct {
	pdf    string
	xlsx   string
	labels string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.pdf, "pdf", "", "write a PDF report")
	cmd.Flags().StringVar(&o.xlsx, "xlsx", "", "write an Excel workbook")
	cmd.Flags().StringVar(&o.labels, "labels", "", "write a PDF of QR labels, one per line item")
}

func (o *outputFlags) write(sheet estimate.Sheet, prices model.PriceList) error {
	if o.pdf != "" {
		if err := export.ExportReportPDF(o.pdf, sheet, prices); err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
		fmt.Printf("Wrote %s\n", o.pdf)
	}
	if o.xlsx != "" {
		if err := export.ExportSheetXLSX(o.xlsx, sheet, prices); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		fmt.Printf("Wrote %s\n", o.xlsx)
	}
	if o.labels != "" {
		if err := export.ExportLabels(o.labels, sheet); err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		fmt.Printf("Wrote %s\n", o.labels)
	}
	return nil
}

var sheetOutputs outputFlags

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Show, edit and export estimate sheets",
}

var sheetShowCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Print the line items and totals of a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sheet, err := project.LoadSheet(args[0])
		if err != nil {
			return err
		}
		printSheet(sheet)
		return nil
	},
}

var sheetRemoveCmd = &cobra.Command{
	Use:   "remove FILE ITEM_ID...",
	Short: "Remove line items from a sheet",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		sheet, err := project.LoadSheet(args[0])
		if err != nil {
			return err
		}
		before := estimate.MakeSnapshot(sheet, "remove "+strings.Join(args[1:], ", "))
		for _, id := range args[1:] {
			if !sheet.Remove(id) {
				return fmt.Errorf("no line item %q in %s", id, args[0])
			}
		}
		if err := project.SaveSheet(args[0], sheet); err != nil {
			return err
		}
		if err := recordEdit(args[0], before); err != nil {
			slog.Warn("undo history not saved", "sheet", args[0], "error", err)
		}
		printSheet(sheet)
		return nil
	},
}

var sheetUndoCmd = &cobra.Command{
	Use:   "undo FILE",
	Short: "Revert the last estimate or remove on a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runStep(args[0], false)
	},
}

var sheetRedoCmd = &cobra.Command{
	Use:   "redo FILE",
	Short: "Reapply the last undone edit on a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runStep(args[0], true)
	},
}

var sheetHistoryClear bool

var sheetHistoryCmd = &cobra.Command{
	Use:   "history FILE",
	Short: "List the undoable and redoable edits of a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		h, err := project.LoadHistory(args[0])
		if err != nil {
			return err
		}
		if sheetHistoryClear {
			h.Clear()
			if err := project.SaveHistory(args[0], h); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil
		}
		undo, redo := h.Labels()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STACK\tEDIT")
		for _, l := range undo {
			fmt.Fprintf(w, "undo\t%s\n", l)
		}
		for _, l := range redo {
			fmt.Fprintf(w, "redo\t%s\n", l)
		}
		return w.Flush()
	},
}

var sheetExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the PDF, Excel or label outputs of a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sheet, err := project.LoadSheet(args[0])
		if err != nil {
			return err
		}
		prices, err := loadPrices()
		if err != nil {
			return err
		}
		return sheetOutputs.write(sheet, prices)
	},
}

func init() {
	rootCmd.AddCommand(sheetCmd)
	sheetCmd.AddCommand(sheetShowCmd, sheetRemoveCmd, sheetUndoCmd, sheetRedoCmd, sheetHistoryCmd, sheetExportCmd)
	sheetHistoryCmd.Flags().BoolVar(&sheetHistoryClear, "clear", false, "drop all undo and redo history")
	sheetOutputs.register(sheetExportCmd)
}

// recordEdit pushes the pre-edit snapshot onto the sheet's undo history.
func recordEdit(sheetPath string, before estimate.Snapshot) error {
	h, err := project.LoadHistory(sheetPath)
	if err != nil {
		return err
	}
	h.Push(before)
	return project.SaveHistory(sheetPath, h)
}

// stepHistory undoes (or redoes) one edit of the sheet at sheetPath and
// saves both files. It returns the restored sheet and the edit's label.
func stepHistory(sheetPath string, redo bool) (estimate.Sheet, string, error) {
	sheet, err := project.LoadSheet(sheetPath)
	if err != nil {
		return estimate.Sheet{}, "", err
	}
	h, err := project.LoadHistory(sheetPath)
	if err != nil {
		return estimate.Sheet{}, "", err
	}

	undoLabels, redoLabels := h.Labels()
	var snap estimate.Snapshot
	var ok bool
	if redo {
		if len(redoLabels) > 0 {
			snap, ok = h.Redo(estimate.MakeSnapshot(sheet, redoLabels[0]))
		}
	} else if len(undoLabels) > 0 {
		snap, ok = h.Undo(estimate.MakeSnapshot(sheet, undoLabels[0]))
	}
	if !ok {
		verb := "undo"
		if redo {
			verb = "redo"
		}
		return estimate.Sheet{}, "", fmt.Errorf("nothing to %s in %s", verb, sheetPath)
	}

	sheet.Restore(snap)
	if err := project.SaveSheet(sheetPath, sheet); err != nil {
		return estimate.Sheet{}, "", err
	}
	if err := project.SaveHistory(sheetPath, h); err != nil {
		return estimate.Sheet{}, "", err
	}
	return sheet, snap.Label, nil
}

func runStep(sheetPath string, redo bool) error {
	sheet, label, err := stepHistory(sheetPath, redo)
	if err != nil {
		return err
	}
	verb := "Undid"
	if redo {
		verb = "Redid"
	}
	fmt.Printf("%s %q\n", verb, label)
	printSheet(sheet)
	return nil
}

func printSheet(sheet estimate.Sheet) {
	fmt.Printf("%s (%s)\n", sheet.Name, sheet.ID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tELEMENT\tLABEL\tVOLUME m³\tFORMWORK m²\tSTEEL kg")
	for _, it := range sheet.Items {
		q := it.Quantities
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n", it.ID, it.Element.Label(), it.Label, q.VolumeM3, q.FormworkM2, q.SteelKg)
	}
	t := sheet.Totals()
	fmt.Fprintf(w, "\tTotal\t%d items\t%.2f\t%.2f\t%.2f (%.3f t)\n", len(sheet.Items), t.VolumeM3, t.FormworkM2, t.SteelKg, t.SteelTonnes())
	w.Flush()
}
