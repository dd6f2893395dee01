// Package evtable stores collections of astronomical event records in
// sequentially-accessed binary table files: one header row per event, a
// variable-length run of measurement rows linked by pointer ranges, and
// optional spectra.
//
// The root package re-exports the dataset entry points; the heavy lifting
// lives in the dataset, schema, container, and format packages.
package evtable

import (
	"github.com/nightfall-obs/evtable/dataset"
	"github.com/nightfall-obs/evtable/internal/options"
)

// Re-exported dataset types.
type (
	Config      = dataset.Config
	Event       = dataset.Event
	Observation = dataset.Observation
	Spectrum    = dataset.Spectrum
	FluxBin     = dataset.FluxBin
	LambdaBin   = dataset.LambdaBin
	Fields      = dataset.Fields
	Value       = dataset.Value
	Writer      = dataset.Writer
	Reader      = dataset.Reader
)

// NewConfig builds a write configuration from the survey identity plus
// options such as dataset.WithSpectra or dataset.WithCompact.
func NewConfig(survey string, filters []string, opts ...options.Option[*Config]) (*Config, error) {
	return dataset.NewConfig(survey, filters, opts...)
}

// LoadConfig reads a write configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	return dataset.LoadConfig(path)
}

// NewWriter creates the file triple for one run of a dataset under dir.
func NewWriter(dir, datasetName, prefix string, cfg *Config) (*Writer, error) {
	return dataset.NewWriter(dir, datasetName, prefix, cfg)
}

// OpenReader opens a dataset by its manifest under dir.
func OpenReader(dir, datasetName string) (*Reader, error) {
	return dataset.OpenReader(dir, datasetName)
}
