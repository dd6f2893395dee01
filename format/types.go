// Package format defines the wire types, table kinds, form specifiers,
// sentinel markers, and schema-version conventions shared by the container
// codec and the dataset read/write paths.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nightfall-obs/evtable/errs"
)

type (
	ColumnType uint8
	TableKind  uint8
)

const (
	// TypeText represents a fixed-width character column ("<n>A").
	TypeText ColumnType = 0x1
	// TypeInt16 represents a signed 16-bit integer column ("1I").
	TypeInt16 ColumnType = 0x2
	// TypeInt32 represents a signed 32-bit integer column ("1J").
	TypeInt32 ColumnType = 0x3
	// TypeInt64 represents a signed 64-bit integer column ("1K").
	TypeInt64 ColumnType = 0x4
	// TypeFloat32 represents a 32-bit float column ("1E").
	TypeFloat32 ColumnType = 0x5
	// TypeFloat64 represents a 64-bit float column ("1D").
	TypeFloat64 ColumnType = 0x6
)

const (
	// KindHeader holds one row per event with fixed-size fields.
	KindHeader TableKind = 0x1
	// KindMeasurement holds a variable-count run of photometric rows per event.
	KindMeasurement TableKind = 0x2
	// KindSpectrumSummary holds one row per spectrum.
	KindSpectrumSummary TableKind = 0x3
	// KindSpectrumFlux holds one row per populated wavelength bin.
	KindSpectrumFlux TableKind = 0x4
	// KindLambdaIndex holds the per-file wavelength bin boundaries.
	KindLambdaIndex TableKind = 0x5
)

func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

func (k TableKind) String() string {
	switch k {
	case KindHeader:
		return "Header"
	case KindMeasurement:
		return "Measurement"
	case KindSpectrumSummary:
		return "SpectrumSummary"
	case KindSpectrumFlux:
		return "SpectrumFlux"
	case KindLambdaIndex:
		return "LambdaIndex"
	default:
		return "Unknown"
	}
}

// CellWidth returns the on-disk cell width in bytes. Text columns use the
// declared width; numeric widths are fixed by the wire type.
func (t ColumnType) CellWidth(textWidth int) int {
	switch t {
	case TypeText:
		return textWidth
	case TypeInt16:
		return 2
	case TypeInt32, TypeFloat32:
		return 4
	case TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

// ParseForm maps a column form specifier to its wire type and, for text
// forms, the declared character width.
//
// Any specifier with a trailing 'A' is a text column whose leading digits
// give the width ("16A" is 16 characters). The numeric forms are exact
// matches: "1I", "1J", "1K", "1E", "1D". The mapping runs once per column
// at schema build or discovery; all later dispatch is on the returned
// ColumnType, never on the specifier string.
func ParseForm(form string) (ColumnType, int, error) {
	if strings.HasSuffix(form, "A") {
		width, err := strconv.Atoi(strings.TrimSuffix(form, "A"))
		if err != nil || width <= 0 {
			return 0, 0, fmt.Errorf("%w: %q", errs.ErrUnknownForm, form)
		}

		return TypeText, width, nil
	}

	switch form {
	case "1I":
		return TypeInt16, 0, nil
	case "1J":
		return TypeInt32, 0, nil
	case "1K":
		return TypeInt64, 0, nil
	case "1E":
		return TypeFloat32, 0, nil
	case "1D":
		return TypeFloat64, 0, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", errs.ErrUnknownForm, form)
	}
}

// Form returns the specifier string for a wire type; the inverse of
// ParseForm. The width argument is used for text columns only.
func (t ColumnType) Form(width int) string {
	switch t {
	case TypeText:
		return strconv.Itoa(width) + "A"
	case TypeInt16:
		return "1I"
	case TypeInt32:
		return "1J"
	case TypeInt64:
		return "1K"
	case TypeFloat32:
		return "1E"
	case TypeFloat64:
		return "1D"
	default:
		return ""
	}
}
