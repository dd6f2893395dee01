package evtable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightfall-obs/evtable/dataset"
)

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig("ROOTTEST", []string{"g", "r"},
		dataset.WithSpectra(false,
			LambdaBin{Min: 4000, Max: 4100},
			LambdaBin{Min: 4100, Max: 4200},
		))
	require.NoError(t, err)

	w, err := NewWriter(dir, "DS", "DS-001", cfg)
	require.NoError(t, err)

	ev := &Event{
		ID: "SN000001",
		Fields: Fields{
			"IAUC":               dataset.Text("IAU001"),
			"FAKE":               dataset.Short(0),
			"RA":                 dataset.Double(150.1),
			"DEC":                dataset.Double(2.2),
			"PIXSIZE":            dataset.Float(0.26),
			"MWEBV":              dataset.Float(0.02),
			"MWEBV_ERR":          dataset.Float(0.003),
			"REDSHIFT_HELIO":     dataset.Float(0.21),
			"REDSHIFT_HELIO_ERR": dataset.Float(0.001),
			"REDSHIFT_FINAL":     dataset.Float(0.211),
			"REDSHIFT_FINAL_ERR": dataset.Float(0.001),
			"PEAKMJD":            dataset.Float(53100),
			"HOSTGAL_OBJID":      dataset.Long(77),
			"HOSTGAL_PHOTOZ":     dataset.Float(0.2),
			"HOSTGAL_PHOTOZ_ERR": dataset.Float(0.05),
			"HOSTGAL_SPECZ":      dataset.Float(0.21),
			"HOSTGAL_SPECZ_ERR":  dataset.Float(0.001),
			"HOSTGAL_SNSEP":      dataset.Float(0.8),
			"HOSTGAL_MAG_g":      dataset.Float(23.1),
			"HOSTGAL_MAG_r":      dataset.Float(22.4),
			"SNRMAX_g":           dataset.Float(11),
			"SNRMAX_r":           dataset.Float(13),
		},
		Obs: []Observation{
			{Fields: Fields{
				"MJD":        dataset.Double(53099.5),
				"BAND":       dataset.Text("g"),
				"FIELD":      dataset.Text("WIDE"),
				"PHOTFLAG":   dataset.Int(0),
				"FLUXCAL":    dataset.Float(810.5),
				"FLUXCALERR": dataset.Float(9.5),
				"PHOTPROB":   dataset.Float(1),
				"ZEROPT":     dataset.Float(27.5),
				"PSF_SIG1":   dataset.Float(1),
				"SKY_SIG":    dataset.Float(30),
				"GAIN":       dataset.Float(4.5),
				"XPIX":       dataset.Float(100),
				"YPIX":       dataset.Float(200),
				"CCDNUM":     dataset.Short(7),
			}},
		},
		Spectra: []Spectrum{
			{MJD: 53101, Exposure: 600, Bins: []FluxBin{{LamIndex: 2, Flux: 5.5, FluxErr: 0.5}}},
		},
	}
	require.NoError(t, w.WriteEvent(ev))
	require.NoError(t, w.Close())

	r, err := OpenReader(dir, "DS")
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.Total())

	got, err := r.ReadEvent(1)
	require.NoError(t, err)
	require.Equal(t, "SN000001", got.ID)
	require.Len(t, got.Obs, 1)
	require.Equal(t, dataset.Float(810.5), got.Obs[0].Fields["FLUXCAL"])
	require.Len(t, got.Spectra, 1)
	require.Equal(t, 4100.0, got.Spectra[0].Bins[0].Lambda.Min)
}
