package dataset

import (
	"fmt"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
	"github.com/nightfall-obs/evtable/internal/pool"
	"github.com/nightfall-obs/evtable/schema"
)

// columnBuffer owns the typed backing array of one column. Exactly one of
// the slices is non-nil, matching the column's wire type. Arrays are
// 1-based: index 0 is reserved, so a buffer for capacity n holds n+1
// elements.
type columnBuffer struct {
	typ format.ColumnType

	text []string
	i16  []int16
	i32  []int32
	i64  []int64
	f32  []float32
	f64  []float64

	put func()
}

// buffers holds one columnBuffer per schema column for a single open table.
// Allocation and release are centralized here; the reader releases a
// table's buffers before allocating for the next file, so a file transition
// can never leak or double-free a backing array.
type buffers struct {
	sch *schema.Schema
	cap int
	col []columnBuffer
}

// allocateBuffers pool-allocates one typed array per column, each sized to
// rowCap+1 for 1-based indexing.
func allocateBuffers(sch *schema.Schema, rowCap int) *buffers {
	b := &buffers{sch: sch, cap: rowCap, col: make([]columnBuffer, sch.Len())}
	for i, c := range sch.Columns() {
		cb := &b.col[i]
		cb.typ = c.Type
		switch c.Type {
		case format.TypeText:
			cb.text, cb.put = pool.GetStringSlice(rowCap + 1)
		case format.TypeInt16:
			cb.i16, cb.put = pool.GetInt16Slice(rowCap + 1)
		case format.TypeInt32:
			cb.i32, cb.put = pool.GetInt32Slice(rowCap + 1)
		case format.TypeInt64:
			cb.i64, cb.put = pool.GetInt64Slice(rowCap + 1)
		case format.TypeFloat32:
			cb.f32, cb.put = pool.GetFloat32Slice(rowCap + 1)
		case format.TypeFloat64:
			cb.f64, cb.put = pool.GetFloat64Slice(rowCap + 1)
		}
	}

	return b
}

// release returns every backing array to the pool. The buffers must not be
// used afterward.
func (b *buffers) release() {
	for i := range b.col {
		if b.col[i].put != nil {
			b.col[i].put()
		}
		b.col[i] = columnBuffer{}
	}
	b.col = nil
}

// bulkRead fills column col's array slots [at, at+last-first] from the
// section's rows [first, last]. Positions are 1-based on both sides.
func (b *buffers) bulkRead(sec *container.Section, col, first, last, at int) error {
	n := last - first + 1
	if n < 0 {
		n = 0
	}
	if at < 1 || at+n-1 > b.cap {
		return fmt.Errorf("%w: slots [%d, %d] of capacity %d",
			errs.ErrBadRowRange, at, at+n-1, b.cap)
	}
	if n == 0 {
		return nil
	}

	cb := &b.col[col-1]
	switch cb.typ {
	case format.TypeText:
		return sec.ReadTextColumn(col, first, last, cb.text[at:])
	case format.TypeInt16:
		return sec.ReadInt16Column(col, first, last, cb.i16[at:])
	case format.TypeInt32:
		return sec.ReadInt32Column(col, first, last, cb.i32[at:])
	case format.TypeInt64:
		return sec.ReadInt64Column(col, first, last, cb.i64[at:])
	case format.TypeFloat32:
		return sec.ReadFloat32Column(col, first, last, cb.f32[at:])
	case format.TypeFloat64:
		return sec.ReadFloat64Column(col, first, last, cb.f64[at:])
	default:
		return fmt.Errorf("%w: column %d", errs.ErrUnknownForm, col)
	}
}

// readAll fills every column's array from the section's full row range,
// starting at slot 1. Used for tables small enough to hold whole (header,
// spectrum summary, lambda index).
func (b *buffers) readAll(sec *container.Section) error {
	rows := sec.Rows()
	if rows == 0 {
		return nil
	}
	for col := 1; col <= b.sch.Len(); col++ {
		if err := b.bulkRead(sec, col, 1, rows, 1); err != nil {
			return err
		}
	}

	return nil
}

// value returns the typed value at the 1-based slot of column col.
func (b *buffers) value(col, slot int) Value {
	cb := &b.col[col-1]
	switch cb.typ {
	case format.TypeText:
		return Text(cb.text[slot])
	case format.TypeInt16:
		return Short(cb.i16[slot])
	case format.TypeInt32:
		return Int(cb.i32[slot])
	case format.TypeInt64:
		return Long(cb.i64[slot])
	case format.TypeFloat32:
		return Float(cb.f32[slot])
	case format.TypeFloat64:
		return Double(cb.f64[slot])
	default:
		return Value{}
	}
}
