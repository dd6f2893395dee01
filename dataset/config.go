package dataset

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nightfall-obs/evtable/internal/options"
)

// DataType tags the provenance of a dataset's events.
type DataType int

const (
	// DataObserved marks real survey data.
	DataObserved DataType = 0
	// DataFakeOverlay marks fake sources overlaid on real images.
	DataFakeOverlay DataType = 1
	// DataSimulated marks fully simulated events; simulation truth columns
	// are written only for this type.
	DataSimulated DataType = 2
)

// LambdaBin is one wavelength bin of the spectrograph. Center-format
// configurations populate Center only; otherwise Min and Max bound the bin.
type LambdaBin struct {
	Min    float64 `mapstructure:"min"`
	Max    float64 `mapstructure:"max"`
	Center float64 `mapstructure:"center"`
}

// SpectraConfig describes the spectrograph, when present. The bin list is
// fixed per dataset and is written once per spectrum file as the lambda
// index table.
type SpectraConfig struct {
	Enabled      bool        `mapstructure:"enabled"`
	CenterFormat bool        `mapstructure:"center_format"`
	Bins         []LambdaBin `mapstructure:"bins"`
}

// Config drives write-side schema construction. Every conditional column
// block (sub-survey, per-filter repeats, private variables, simulation
// truth, host-galaxy extras) is switched here; the reader needs no config
// because it discovers schemas from the files themselves.
type Config struct {
	// Survey names the survey; written as file metadata.
	Survey string `mapstructure:"survey"`

	// SubSurvey adds the per-event sub-survey column, which is the one
	// text column allowed to hold a blank value.
	SubSurvey bool `mapstructure:"subsurvey"`

	// Filters lists the survey's filter band names; per-filter column
	// blocks repeat once per entry.
	Filters []string `mapstructure:"filters"`

	DataType DataType `mapstructure:"datatype"`

	// Compact drops the optional per-measurement columns to shrink the
	// measurement table.
	Compact bool `mapstructure:"compact"`

	// PrivateVars adds one float64 header column per listed name.
	PrivateVars []string `mapstructure:"private_vars"`

	// SimModel and SimParams describe the simulation model; the params add
	// a repeated numbered column block whose ordinal base depends on the
	// schema version tag.
	SimModel  string   `mapstructure:"sim_model"`
	SimParams []string `mapstructure:"sim_params"`

	// SecondHost adds the second-best host-galaxy match column block.
	SecondHost bool `mapstructure:"second_host"`

	Spectra SpectraConfig `mapstructure:"spectra"`
}

// NewConfig builds a Config from the required survey identity plus
// functional options.
func NewConfig(survey string, filters []string, opts ...options.Option[*Config]) (*Config, error) {
	cfg := &Config{Survey: survey, Filters: filters}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("load dataset config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse dataset config %s: %w", path, err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Survey == "" {
		return fmt.Errorf("dataset config: survey name is required")
	}
	if len(c.Filters) == 0 {
		return fmt.Errorf("dataset config: at least one filter band is required")
	}
	for _, f := range c.Filters {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("dataset config: blank filter band name")
		}
	}
	if c.Spectra.Enabled && len(c.Spectra.Bins) == 0 {
		return fmt.Errorf("dataset config: spectra enabled with no wavelength bins")
	}

	return nil
}

// WithSubSurvey enables the sub-survey column.
func WithSubSurvey() options.Option[*Config] {
	return options.NoError(func(c *Config) { c.SubSurvey = true })
}

// WithDataType sets the dataset provenance tag.
func WithDataType(t DataType) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.DataType = t })
}

// WithCompact enables compact mode.
func WithCompact() options.Option[*Config] {
	return options.NoError(func(c *Config) { c.Compact = true })
}

// WithPrivateVars adds private header variables.
func WithPrivateVars(names ...string) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.PrivateVars = names })
}

// WithSimModel sets the simulation model name and its parameter names.
func WithSimModel(model string, params ...string) options.Option[*Config] {
	return options.NoError(func(c *Config) {
		c.SimModel = model
		c.SimParams = params
	})
}

// WithSecondHost enables the second host-galaxy match columns.
func WithSecondHost() options.Option[*Config] {
	return options.NoError(func(c *Config) { c.SecondHost = true })
}

// WithSpectra enables the spectrum tables over the given wavelength bins.
func WithSpectra(centerFormat bool, bins ...LambdaBin) options.Option[*Config] {
	return options.NoError(func(c *Config) {
		c.Spectra = SpectraConfig{Enabled: true, CenterFormat: centerFormat, Bins: bins}
	})
}
