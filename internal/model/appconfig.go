package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new runs
	DefaultWidth    int      `toml:"default_width" json:"default_width"`
	DefaultHeight   int      `toml:"default_height" json:"default_height"`
	DefaultStrategy Strategy `toml:"default_strategy" json:"default_strategy"`
	DefaultOrder    Order    `toml:"default_order" json:"default_order"`
	Seed            int64    `toml:"seed" json:"seed"`

	// Output preferences
	Outputs OutputConfig `toml:"outputs" json:"outputs"`

	// Number of images decoded in parallel, 0 = number of CPUs
	Workers int `toml:"workers" json:"workers"`

	RecentProjects []string `toml:"recent_projects" json:"recent_projects"`
}

// OutputConfig names the optional artifacts written after a run.
// Empty paths are skipped.
type OutputConfig struct {
	Atlas    string `toml:"atlas" json:"atlas"`
	Metadata string `toml:"metadata" json:"metadata"`
	Report   string `toml:"report" json:"report"`
	Labels   string `toml:"labels" json:"labels"`
	Sheet    string `toml:"sheet" json:"sheet"`
	DXF      string `toml:"dxf" json:"dxf"`
}

// DefaultAppConfig returns an AppConfig populated with defaults
// matching DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultWidth:    defaults.Width,
		DefaultHeight:   defaults.Height,
		DefaultStrategy: defaults.Strategy,
		DefaultOrder:    defaults.Order,
		Seed:            defaults.Seed,
		Outputs: OutputConfig{
			Atlas:    "atlas.png",
			Metadata: "atlas.json",
		},
		Workers:        0,
		RecentProjects: []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// Zero values in the config leave the settings untouched.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	if c.DefaultWidth > 0 {
		s.Width = c.DefaultWidth
	}
	if c.DefaultHeight > 0 {
		s.Height = c.DefaultHeight
	}
	if c.DefaultStrategy != "" {
		s.Strategy = c.DefaultStrategy
	}
	if c.DefaultOrder != "" {
		s.Order = c.DefaultOrder
	}
	if c.Seed != 0 {
		s.Seed = c.Seed
	}
}
