package schema

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
)

func TestAddColumnAndResolve(t *testing.T) {
	s := New(format.KindHeader)
	require.NoError(t, s.AddColumn("SNID", "16A"))
	require.NoError(t, s.AddColumn("NOBS", "1J"))
	require.NoError(t, s.AddColumn("PEAKMJD", "1E"))

	require.Equal(t, 3, s.Len())
	require.Equal(t, 1, s.Resolve("SNID"))
	require.Equal(t, 3, s.Resolve("PEAKMJD"))
	require.Equal(t, NotFound, s.Resolve("MISSING"))

	col := s.Column(1)
	require.Equal(t, format.TypeText, col.Type)
	require.Equal(t, 16, col.Width)
	require.Equal(t, "16A", col.Form())
}

func TestAddColumnRejectsDuplicate(t *testing.T) {
	s := New(format.KindHeader)
	require.NoError(t, s.AddColumn("SNID", "16A"))
	require.ErrorIs(t, s.AddColumn("SNID", "1J"), errs.ErrDuplicateColumn)
}

func TestAddColumnRejectsUnknownForm(t *testing.T) {
	s := New(format.KindHeader)
	require.ErrorIs(t, s.AddColumn("SNID", "1Z"), errs.ErrUnknownForm)
}

func TestAddColumnEnforcesMaximum(t *testing.T) {
	s := New(format.KindHeader)
	for i := 0; i < MaxColumns; i++ {
		require.NoError(t, s.AddColumn(fmt.Sprintf("COL%03d", i), "1E"))
	}
	require.ErrorIs(t, s.AddColumn("ONE_TOO_MANY", "1E"), errs.ErrTooManyColumns)
}

func TestResolveCached(t *testing.T) {
	s := New(format.KindHeader)
	require.NoError(t, s.AddColumn("SNID", "16A"))
	require.NoError(t, s.AddColumn("NOBS", "1J"))

	var slot int
	require.Equal(t, 2, s.ResolveCached("NOBS", &slot))
	require.Equal(t, 2, slot)

	// A poisoned cache value proves the scan is skipped once cached.
	slot = 1
	require.Equal(t, 1, s.ResolveCached("NOBS", &slot))

	// The not-found outcome is cached too.
	var missing int
	require.Equal(t, NotFound, s.ResolveCached("ABSENT", &missing))
	require.NoError(t, s.AddColumn("ABSENT", "1E"))
	require.Equal(t, NotFound, s.ResolveCached("ABSENT", &missing))

	// Resetting the slot forces re-resolution.
	missing = 0
	require.Equal(t, 3, s.ResolveCached("ABSENT", &missing))
}

func TestRequireReportsAllMissing(t *testing.T) {
	s := New(format.KindHeader)
	require.NoError(t, s.AddColumn("SNID", "16A"))

	err := s.Require("SNID", "FAKE", "NOBS", "PTROBS_MIN")
	require.ErrorIs(t, err, errs.ErrRequiredColumns)
	require.Contains(t, err.Error(), "FAKE")
	require.Contains(t, err.Error(), "NOBS")
	require.Contains(t, err.Error(), "PTROBS_MIN")
	require.NotContains(t, err.Error(), "SNID,")

	require.NoError(t, s.Require("SNID"))
}

func TestDiscover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.evt")

	f, err := container.Create(path)
	require.NoError(t, err)
	_, err = f.CreateSection("HEADER", []container.ColumnSpec{
		{Name: "SNID", Form: "16A"},
		{Name: "NOBS", Form: "1J"},
		{Name: "RA", Form: "1D"},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rf, err := container.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	s, err := Discover(format.KindHeader, rf.Section("HEADER"))
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	require.Equal(t, 1, s.Resolve("SNID"))
	require.Equal(t, format.TypeFloat64, s.Column(3).Type)

	specs := s.Specs()
	require.Len(t, specs, 3)
	require.Equal(t, "16A", specs[0].Form)
}
