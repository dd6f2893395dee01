package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigValidation(t *testing.T) {
	_, err := NewConfig("", []string{"g"})
	require.Error(t, err)

	_, err = NewConfig("SURVEY", nil)
	require.Error(t, err)

	_, err = NewConfig("SURVEY", []string{"g", " "})
	require.Error(t, err)

	_, err = NewConfig("SURVEY", []string{"g"}, WithSpectra(false))
	require.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	cfg, err := NewConfig("SURVEY", []string{"g", "r", "i"},
		WithSubSurvey(),
		WithDataType(DataSimulated),
		WithCompact(),
		WithPrivateVars("SEASON", "CADENCE"),
		WithSimModel("SALT3", "x0", "x1", "c"),
		WithSecondHost(),
	)
	require.NoError(t, err)

	require.True(t, cfg.SubSurvey)
	require.Equal(t, DataSimulated, cfg.DataType)
	require.True(t, cfg.Compact)
	require.Equal(t, []string{"SEASON", "CADENCE"}, cfg.PrivateVars)
	require.Equal(t, "SALT3", cfg.SimModel)
	require.Len(t, cfg.SimParams, 3)
	require.True(t, cfg.SecondHost)
}

func TestLoadConfig(t *testing.T) {
	content := `
survey: LSST
subsurvey: true
filters: [g, r, i, z]
datatype: 2
compact: false
private_vars: [SEASON]
sim_model: SALT3
sim_params: [x0, x1]
spectra:
  enabled: true
  center_format: false
  bins:
    - {min: 3000, max: 3100}
    - {min: 3100, max: 3200}
`
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "LSST", cfg.Survey)
	require.True(t, cfg.SubSurvey)
	require.Equal(t, []string{"g", "r", "i", "z"}, cfg.Filters)
	require.Equal(t, DataSimulated, cfg.DataType)
	require.Equal(t, []string{"SEASON"}, cfg.PrivateVars)
	require.True(t, cfg.Spectra.Enabled)
	require.Len(t, cfg.Spectra.Bins, 2)
	require.Equal(t, 3100.0, cfg.Spectra.Bins[0].Max)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filters: [g]\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
