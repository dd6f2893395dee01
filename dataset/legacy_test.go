package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
	"github.com/nightfall-obs/evtable/schema"
)

// ==============================================================================
// Helpers
// ==============================================================================

func rawSchema(t *testing.T, kind format.TableKind, cols [][2]string) *schema.Schema {
	t.Helper()

	s := schema.New(kind)
	for _, c := range cols {
		require.NoError(t, s.AddColumn(c[0], c[1]))
	}

	return s
}

func rawHeaderCols(extra ...[2]string) [][2]string {
	cols := [][2]string{
		{colSNID, "16A"},
		{colFake, "1I"},
		{colNObs, "1J"},
		{colPtrObsMin, "1J"},
		{colPtrObsMax, "1J"},
	}

	return append(cols, extra...)
}

// writeRawPair synthesizes a header/measurement pair directly through the
// container API, bypassing Writer, so tests can shape files Writer itself
// would never produce: legacy version tags, untagged files, or tables with
// columns removed.
func writeRawPair(t *testing.T, dir, ds, prefix string, meta container.Metadata,
	headCols, photCols [][2]string, headRow Fields, photRows []Fields) {
	t.Helper()

	if meta == nil {
		meta = container.Metadata{}
	}
	meta[metaSurvey] = "TESTSURVEY"
	meta[metaPhotFile] = prefix + SuffixMeasurement

	headSch := rawSchema(t, format.KindHeader, headCols)
	hf, err := container.Create(filepath.Join(dir, prefix+SuffixHeader))
	require.NoError(t, err)
	hsec, err := hf.CreateSection(tableHeader, headSch.Specs(), meta)
	require.NoError(t, err)
	hw := newRowWriter(hsec, headSch)
	require.NoError(t, hw.setRow(headRow, nil))
	require.NoError(t, hf.Close())

	photSch := rawSchema(t, format.KindMeasurement, photCols)
	pf, err := container.Create(filepath.Join(dir, prefix+SuffixMeasurement))
	require.NoError(t, err)
	psec, err := pf.CreateSection(tableMeasurement, photSch.Specs(), nil)
	require.NoError(t, err)
	pw := newRowWriter(psec, photSch)
	for _, row := range photRows {
		require.NoError(t, pw.setRow(row, nil))
	}
	require.NoError(t, pw.setSentinelRow())
	require.NoError(t, pf.Close())

	require.NoError(t, appendManifest(filepath.Join(dir, ds+SuffixManifest), prefix+SuffixHeader))
}

// ==============================================================================
// Structural requirements
// ==============================================================================

func TestMeasurementTableWithoutMJDRejected(t *testing.T) {
	dir := t.TempDir()

	writeRawPair(t, dir, "DS", "DS-001", nil,
		rawHeaderCols(),
		[][2]string{{"FLUXCAL", "1E"}},
		Fields{
			colSNID:      Text("SN000001"),
			colFake:      Short(0),
			colNObs:      Int(1),
			colPtrObsMin: Int(1),
			colPtrObsMax: Int(1),
		},
		[]Fields{{"FLUXCAL": Float(10)}},
	)

	r, err := OpenReader(dir, "DS")
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadEvent(1)
	require.ErrorIs(t, err, errs.ErrRequiredColumns)
	require.ErrorContains(t, err, colSpecMJD)
}

// ==============================================================================
// Parameter naming conventions
// ==============================================================================

func TestParamValueAcrossVersionConventions(t *testing.T) {
	dir := t.TempDir()

	headRow := func(par string, v float32) Fields {
		return Fields{
			colSNID:      Text("SN000001"),
			colFake:      Short(0),
			colNObs:      Int(1),
			colPtrObsMin: Int(1),
			colPtrObsMax: Int(1),
			par:          Float(v),
		}
	}
	photCols := [][2]string{{colSpecMJD, "1D"}, {"FLUXCAL", "1E"}}
	photRows := []Fields{{colSpecMJD: Double(53001), "FLUXCAL": Float(10)}}

	// Current tag, zero-based parameter names.
	writeRawPair(t, dir, "DS", "DS-001",
		container.Metadata{metaVersion: "10"},
		rawHeaderCols([2]string{"SIMSED_PAR00", "1E"}), photCols,
		headRow("SIMSED_PAR00", 0.25), photRows)

	// Legacy tag, one-based parameter names.
	writeRawPair(t, dir, "DS", "DS-002",
		container.Metadata{metaVersion: "7"},
		rawHeaderCols([2]string{"SIMSED_PAR01", "1E"}), photCols,
		headRow("SIMSED_PAR01", 0.5), photRows)

	// No tag at all: treated as the oldest convention, also one-based.
	writeRawPair(t, dir, "DS", "DS-003", nil,
		rawHeaderCols([2]string{"SIMSED_PAR01", "1E"}), photCols,
		headRow("SIMSED_PAR01", 0.75), photRows)

	r, err := OpenReader(dir, "DS")
	require.NoError(t, err)
	defer r.Close()

	// The same logical index resolves in every file regardless of which
	// naming convention that file was written under.
	for i, want := range []float32{0.25, 0.5, 0.75} {
		v, ok, err := r.ParamValue(i+1, colSimParam, 0)
		require.NoError(t, err)
		require.True(t, ok, "event %d", i+1)
		require.Equal(t, Float(want), v)
	}

	version, err := r.Version()
	require.NoError(t, err)
	require.Equal(t, format.OldestVersion, version)

	// The zero-based name does not exist in a one-based file, but the
	// logical accessor still finds the column.
	_, ok, err := r.Value(2, "SIMSED_PAR00")
	require.NoError(t, err)
	require.False(t, ok)

	version, err = r.Version()
	require.NoError(t, err)
	require.Equal(t, 7, version)

	v, ok, err := r.ParamValue(2, colSimParam, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Float(0.5), v)
}
