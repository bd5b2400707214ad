package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/importer"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/spf13/cobra"
)

const recentLimit = 10

var (
	estimateInputs   []string
	estimateLabel    string
	estimateSlabType string
	estimateDXF      string
	estimateDXFScale float64
	estimateSheet    string
	estimateName     string
	estimateModels   string
	estimateOutputs  outputFlags
	estimateArchive  bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate ELEMENT",
	Short: "Estimate an element and add it to a sheet",
	Long: `Estimate concrete, formwork and steel for one element from its dimensions
and add the line item to an estimate sheet (a JSON file). With --dxf, one
line item is added per closed outline in the drawing; plan dimensions come
from the outline and the remaining inputs from --input.

Inputs by element:
  foundation  width, length, thickness (and any other trained feature)
  column      width, deep, length
  slab        area, thickness, perimeter; --slab-type rc|pt
  beam        b, h, length

Examples:
  qtyest estimate beam -i b=0.2 -i h=0.6 -i length=8 --label B1 --sheet tower.json
  qtyest estimate slab --dxf level2.dxf -i thickness=0.2 --slab-type pt --sheet tower.json --pdf tower.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	f := estimateCmd.Flags()
	f.StringArrayVarP(&estimateInputs, "input", "i", nil, "input as role=value (repeatable)")
	f.StringVar(&estimateLabel, "label", "", "line item label")
	f.StringVar(&estimateSlabType, "slab-type", "rc", "slab type: rc or pt")
	f.StringVar(&estimateDXF, "dxf", "", "take plan dimensions from the closed outlines of a DXF drawing")
	f.Float64Var(&estimateDXFScale, "dxf-scale", 0.001, "metres per drawing unit")
	f.StringVar(&estimateSheet, "sheet", "estimate.json", "estimate sheet file, created when missing")
	f.StringVar(&estimateName, "name", "", "sheet name for a new sheet (default file name)")
	f.StringVar(&estimateModels, "models", "", "model directory (default models_dir from config)")
	f.BoolVar(&estimateArchive, "archive", false, "also save the sheet to the archive database")
	estimateOutputs.register(estimateCmd)
}

func runEstimate(_ *cobra.Command, args []string) error {
	element, err := model.ParseElement(args[0])
	if err != nil {
		return err
	}
	slabType, err := model.ParseSlabType(estimateSlabType)
	if err != nil {
		return err
	}
	in, err := parseInputs(estimateInputs)
	if err != nil {
		return err
	}

	dir := estimateModels
	if dir == "" {
		dir = appConfig.ModelsDir
	}
	est, err := loadEstimator(dir)
	if err != nil {
		return err
	}

	name := estimateName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(estimateSheet), filepath.Ext(estimateSheet))
	}
	sheet, err := project.LoadOrCreateSheet(estimateSheet, name)
	if err != nil {
		return err
	}

	before := estimate.MakeSnapshot(sheet, "estimate "+element.Label())
	// A failed batch returns before the sheet is saved, so the file keeps
	// none of its items.
	if err := addItems(est, &sheet, element, in, slabType); err != nil {
		return err
	}

	if err := project.SaveSheet(estimateSheet, sheet); err != nil {
		return err
	}
	if err := recordEdit(estimateSheet, before); err != nil {
		slog.Warn("undo history not saved", "sheet", estimateSheet, "error", err)
	}
	project.AddRecentEstimate(&appConfig, estimateSheet, recentLimit)
	if err := project.SaveAppConfig(configFile, appConfig); err != nil {
		slog.Warn("recent estimates not saved", "error", err)
	}

	printSheet(sheet)

	prices, err := loadPrices()
	if err != nil {
		return err
	}
	if err := estimateOutputs.write(sheet, prices); err != nil {
		return err
	}
	if estimateArchive {
		return archiveSheet(context.Background(), sheet, prices)
	}
	return nil
}

// addItems estimates one item from the inputs, or one per drawing outline.
func addItems(est *estimate.Estimator, sheet *estimate.Sheet, element model.Element, in estimate.Input, slabType model.SlabType) error {
	if estimateDXF == "" {
		item, err := est.Estimate(element, estimateLabel, in, slabType)
		if err != nil {
			return err
		}
		sheet.Add(item)
		return nil
	}

	res, err := importer.ImportOutlines(estimateDXF, estimateDXFScale)
	if err != nil {
		return err
	}
	logWarnings(res.Warnings)
	for i, shape := range res.Shapes {
		shapeIn := estimate.InputFromShape(element, shape)
		for k, v := range in {
			if _, ok := shapeIn[k]; !ok {
				shapeIn[k] = v
			}
		}
		label := shape.Label
		if estimateLabel != "" {
			label = fmt.Sprintf("%s %d", estimateLabel, i+1)
		}
		item, err := est.Estimate(element, label, shapeIn, slabType)
		if err != nil {
			return fmt.Errorf("outline %d: %w", i+1, err)
		}
		sheet.Add(item)
	}
	slog.Info("estimated outlines", "file", estimateDXF, "items", len(res.Shapes))
	return nil
}

// loadEstimator loads every saved model of every element.
func loadEstimator(dir string) (*estimate.Estimator, error) {
	est := estimate.NewEstimator(settings())
	n := 0
	for _, element := range model.Elements() {
		models, err := project.LoadArtifacts(dir, element)
		if err != nil {
			return nil, err
		}
		for _, a := range models {
			est.AddModel(a)
			n++
		}
	}
	slog.Debug("models loaded", "dir", dir, "count", n)
	return est, nil
}

func loadPrices() (model.PriceList, error) {
	prices, err := project.LoadPriceList(project.DefaultPriceListPath())
	if err != nil {
		return model.PriceList{}, err
	}
	if appConfig.Currency != "" {
		prices.Currency = appConfig.Currency
	}
	return prices, nil
}
