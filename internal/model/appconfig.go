package model

// EstimateSettings holds the fixed engineering factors used when turning
// predicted quantities into an estimate.
type EstimateSettings struct {
	ColumnSteelPerM3 float64 `json:"column_steel_kg_per_m3"`
	BeamSteelPerM3   float64 `json:"beam_steel_kg_per_m3"`
	SlabSteelRCPerM3 float64 `json:"slab_steel_rc_kg_per_m3"`
	SlabSteelPTPerM3 float64 `json:"slab_steel_pt_kg_per_m3"`
}

// DefaultSettings returns the factors used by the site engineers' sheets.
func DefaultSettings() EstimateSettings {
	return EstimateSettings{
		ColumnSteelPerM3: 110,
		BeamSteelPerM3:   110,
		SlabSteelRCPerM3: 90,
		SlabSteelPTPerM3: 60,
	}
}

// SlabSteelPerM3 returns the steel density for the given slab type.
func (s EstimateSettings) SlabSteelPerM3(t SlabType) float64 {
	if t == SlabPT {
		return s.SlabSteelPTPerM3
	}
	return s.SlabSteelRCPerM3
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Training
	ModelsDir       string  `json:"models_dir"`
	VocabularyFile  string  `json:"vocabulary_file"` // optional YAML overrides
	MinTrainingRows int     `json:"min_training_rows"`
	RandomSeed      int64   `json:"random_seed"`
	RidgeAlpha      float64 `json:"ridge_alpha"`

	// Estimation defaults
	DefaultColumnSteelPerM3 float64 `json:"default_column_steel_kg_per_m3"`
	DefaultBeamSteelPerM3   float64 `json:"default_beam_steel_kg_per_m3"`
	DefaultSlabSteelRCPerM3 float64 `json:"default_slab_steel_rc_kg_per_m3"`
	DefaultSlabSteelPTPerM3 float64 `json:"default_slab_steel_pt_kg_per_m3"`
	Currency                string  `json:"currency"`

	// Archive of saved estimates; empty disables archiving
	ArchiveDSN string `json:"archive_dsn"`

	RecentEstimates []string `json:"recent_estimates"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		ModelsDir:               "models",
		MinTrainingRows:         5,
		RandomSeed:              42,
		RidgeAlpha:              1.0,
		DefaultColumnSteelPerM3: defaults.ColumnSteelPerM3,
		DefaultBeamSteelPerM3:   defaults.BeamSteelPerM3,
		DefaultSlabSteelRCPerM3: defaults.SlabSteelRCPerM3,
		DefaultSlabSteelPTPerM3: defaults.SlabSteelPTPerM3,
		Currency:                "THB",
		RecentEstimates:         []string{},
	}
}

// ApplyToSettings copies the default factors from AppConfig into s.
func (c AppConfig) ApplyToSettings(s *EstimateSettings) {
	s.ColumnSteelPerM3 = c.DefaultColumnSteelPerM3
	s.BeamSteelPerM3 = c.DefaultBeamSteelPerM3
	s.SlabSteelRCPerM3 = c.DefaultSlabSteelRCPerM3
	s.SlabSteelPTPerM3 = c.DefaultSlabSteelPTPerM3
}
