package dataset

import "github.com/nightfall-obs/evtable/format"

// Value is a tagged scalar over the six wire types. The zero Value has no
// type and is what field lookups return for absent names.
type Value struct {
	Type format.ColumnType

	text string
	i16  int16
	i32  int32
	i64  int64
	f32  float32
	f64  float64
}

// Text wraps a string value.
func Text(v string) Value { return Value{Type: format.TypeText, text: v} }

// Short wraps an int16 value.
func Short(v int16) Value { return Value{Type: format.TypeInt16, i16: v} }

// Int wraps an int32 value.
func Int(v int32) Value { return Value{Type: format.TypeInt32, i32: v} }

// Long wraps an int64 value.
func Long(v int64) Value { return Value{Type: format.TypeInt64, i64: v} }

// Float wraps a float32 value.
func Float(v float32) Value { return Value{Type: format.TypeFloat32, f32: v} }

// Double wraps a float64 value.
func Double(v float64) Value { return Value{Type: format.TypeFloat64, f64: v} }

// Text returns the string payload; zero value for non-text Values.
func (v Value) Text() string { return v.text }

// Short returns the int16 payload.
func (v Value) Short() int16 { return v.i16 }

// Int returns the int32 payload.
func (v Value) Int() int32 { return v.i32 }

// Long returns the int64 payload.
func (v Value) Long() int64 { return v.i64 }

// Float returns the float32 payload.
func (v Value) Float() float32 { return v.f32 }

// Double returns the float64 payload.
func (v Value) Double() float64 { return v.f64 }

// Fields is a named-value bag. The core never interprets a field beyond its
// wire type; names are matched against schema column names verbatim.
type Fields map[string]Value

// Event is one object's complete record: identity, header fields, the
// ordered measurement rows, and any spectra.
type Event struct {
	// ID is the unique event identifier (the header table's SNID column).
	ID string

	// Fields holds the remaining header columns by name.
	Fields Fields

	// Obs holds the event's measurement rows in time order.
	Obs []Observation

	// Spectra holds the event's spectra, if the dataset carries any.
	Spectra []Spectrum
}

// Observation is one measurement row, all fields by name.
type Observation struct {
	Fields Fields
}

// Spectrum is one spectrum: its summary fields plus the populated
// wavelength bins.
type Spectrum struct {
	// MJD is the observation epoch of the spectrum.
	MJD float64

	// Exposure is the exposure time in seconds.
	Exposure float32

	// Bins holds the populated wavelength bins; unpopulated bins of the
	// instrument's lambda grid are simply absent.
	Bins []FluxBin
}

// FluxBin is one populated wavelength bin of a spectrum. LamIndex is the
// 1-based row of the file's lambda index table; readers resolve it to the
// bin's wavelength bounds.
type FluxBin struct {
	LamIndex int32
	Lambda   LambdaBin
	Flux     float32
	FluxErr  float32
}
