package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightfall-obs/evtable/errs"
)

func TestParseForm(t *testing.T) {
	tests := []struct {
		form  string
		typ   ColumnType
		width int
	}{
		{"16A", TypeText, 16},
		{"2A", TypeText, 2},
		{"120A", TypeText, 120},
		{"1I", TypeInt16, 0},
		{"1J", TypeInt32, 0},
		{"1K", TypeInt64, 0},
		{"1E", TypeFloat32, 0},
		{"1D", TypeFloat64, 0},
	}
	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			typ, width, err := ParseForm(tt.form)
			require.NoError(t, err)
			require.Equal(t, tt.typ, typ)
			require.Equal(t, tt.width, width)
		})
	}
}

func TestParseFormRejectsUnknown(t *testing.T) {
	for _, form := range []string{"", "1X", "A", "0A", "-4A", "2I", "J", "1d"} {
		t.Run(form, func(t *testing.T) {
			_, _, err := ParseForm(form)
			require.ErrorIs(t, err, errs.ErrUnknownForm)
		})
	}
}

func TestFormRoundTrip(t *testing.T) {
	for _, form := range []string{"16A", "1I", "1J", "1K", "1E", "1D"} {
		typ, width, err := ParseForm(form)
		require.NoError(t, err)
		require.Equal(t, form, typ.Form(width))
	}
}

func TestCellWidth(t *testing.T) {
	require.Equal(t, 16, TypeText.CellWidth(16))
	require.Equal(t, 2, TypeInt16.CellWidth(0))
	require.Equal(t, 4, TypeInt32.CellWidth(0))
	require.Equal(t, 8, TypeInt64.CellWidth(0))
	require.Equal(t, 4, TypeFloat32.CellWidth(0))
	require.Equal(t, 8, TypeFloat64.CellWidth(0))
}
