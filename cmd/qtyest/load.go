package main

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/QtyEstimate/internal/importer"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/pipeline"
	"github.com/spf13/cobra"
)

// sourceFlags selects the schedules an element is prepared from.
type sourceFlags struct {
	sheet      string
	steel      string
	steelSheet string
	ptFiles    []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "worksheet to read from Excel schedules (default first)")
	cmd.Flags().StringVar(&f.steel, "steel", "", "reinforcement schedule joined row by row")
	cmd.Flags().StringVar(&f.steelSheet, "steel-sheet", "", "worksheet of the reinforcement schedule (default by element)")
	cmd.Flags().StringSliceVar(&f.ptFiles, "pt", nil, "post-tensioned slab schedules (slab only; positional files are RC)")
}

// prepare imports the schedules of element and runs the cleaning pipeline.
func (f *sourceFlags) prepare(element model.Element, files []string) (pipeline.Prepared, error) {
	res, err := importer.ImportAll(files, importer.Options{Sheet: f.sheet})
	if err != nil {
		return pipeline.Prepared{}, err
	}
	logWarnings(res.Warnings)
	table := res.Table
	opts := pipeline.Options{Vocabularies: registry}

	if element == model.ElementSlab {
		rc := pipeline.SlabPart{Type: model.SlabRC, Table: table}
		pt := pipeline.SlabPart{Type: model.SlabPT}
		if len(f.ptFiles) > 0 {
			res, err := importer.ImportAll(f.ptFiles, importer.Options{Sheet: f.sheet})
			if err != nil {
				return pipeline.Prepared{}, err
			}
			logWarnings(res.Warnings)
			pt.Table = res.Table
		}
		if f.steel != "" {
			if rc.Steel, err = f.steelValues(importer.SlabRCSteelSheet); err != nil {
				return pipeline.Prepared{}, err
			}
			if pt.Table.Len() > 0 {
				if pt.Steel, err = f.steelValues(importer.SlabPTSteelSheet); err != nil {
					return pipeline.Prepared{}, err
				}
			}
		}
		var warnings []string
		table, warnings = pipeline.CombineSlabs(rc, pt)
		logWarnings(warnings)
	} else if f.steel != "" {
		rule := importer.SheetRule{}
		if element == model.ElementBeam {
			rule = importer.BeamSteelSheet
		}
		if opts.Steel, err = f.steelValues(rule); err != nil {
			return pipeline.Prepared{}, err
		}
	}

	prepared, err := pipeline.Prepare(element, table, opts)
	if err != nil {
		return prepared, fmt.Errorf("%s: %w", element, err)
	}
	logWarnings(prepared.Warnings)
	slog.Info("prepared", "element", element, "raw_rows", prepared.RawRows, "rows", prepared.Table.Len(),
		"features", prepared.Features.Len(), "targets", len(prepared.Targets))
	return prepared, nil
}

// steelValues reads the total steel column from the reinforcement
// schedule. The worksheet is --steel-sheet, else the first matching rule,
// else the first sheet.
func (f *sourceFlags) steelValues(rule importer.SheetRule) ([]any, error) {
	sheet := f.steelSheet
	if sheet == "" && len(rule.AnyOf) > 0 {
		if names, err := importer.SheetNames(f.steel); err == nil {
			sheet = importer.FindSheetOrFirst(names, rule)
		}
	}
	res, err := importer.ImportFile(f.steel, importer.Options{Sheet: sheet})
	if err != nil {
		return nil, fmt.Errorf("steel schedule: %w", err)
	}
	logWarnings(res.Warnings)
	values, err := pipeline.SteelValues(res.Table)
	if err != nil {
		return nil, fmt.Errorf("steel schedule %s: %w", f.steel, err)
	}
	slog.Debug("steel schedule", "file", f.steel, "sheet", res.Sheet, "rows", len(values))
	return values, nil
}
