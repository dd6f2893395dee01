package dataset

import (
	"fmt"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
	"github.com/nightfall-obs/evtable/schema"
)

// rowWriter appends rows to one open section, dispatching each named value
// to the typed cell write for its column. Column indices are resolved once
// per name and cached for the life of the section.
type rowWriter struct {
	sec   *container.Section
	sch   *schema.Schema
	row   int
	cache map[string]*int
}

func newRowWriter(sec *container.Section, sch *schema.Schema) *rowWriter {
	return &rowWriter{sec: sec, sch: sch, cache: make(map[string]*int, sch.Len())}
}

// beginRow advances to the next row. Cells of the new row are then set in
// any order before the next beginRow.
func (w *rowWriter) beginRow() int {
	w.row++
	return w.row
}

// rows returns the number of rows begun so far.
func (w *rowWriter) rows() int { return w.row }

func (w *rowWriter) resolve(name string) int {
	slot, ok := w.cache[name]
	if !ok {
		slot = new(int)
		w.cache[name] = slot
	}

	return w.sch.ResolveCached(name, slot)
}

// set writes one named value into the current row. Empty text values are
// rejected unless the column is on the blank allow-list; a Value whose wire
// type disagrees with the column's declared type is rejected.
func (w *rowWriter) set(name string, v Value) error {
	col := w.resolve(name)
	if col == schema.NotFound {
		return fmt.Errorf("%w: %q in %s table", errs.ErrColumnNotFound, name, w.sch.Kind())
	}
	if want := w.sch.Column(col).Type; v.Type != want {
		return fmt.Errorf("%w: %q holds %s, column %q is %s",
			errs.ErrTypeMismatch, name, v.Type, name, want)
	}

	switch v.Type {
	case format.TypeText:
		if v.text == "" && !blankAllowed[name] {
			return fmt.Errorf("%w: column %q", errs.ErrBlankText, name)
		}

		return w.sec.WriteText(col, w.row, v.text)
	case format.TypeInt16:
		return w.sec.WriteInt16(col, w.row, v.i16)
	case format.TypeInt32:
		return w.sec.WriteInt32(col, w.row, v.i32)
	case format.TypeInt64:
		return w.sec.WriteInt64(col, w.row, v.i64)
	case format.TypeFloat32:
		return w.sec.WriteFloat32(col, w.row, v.f32)
	case format.TypeFloat64:
		return w.sec.WriteFloat64(col, w.row, v.f64)
	default:
		return fmt.Errorf("%w: %q", errs.ErrUnknownForm, name)
	}
}

// setRow writes one full row from a field bag. Every schema column must be
// present in fields; injected holds the columns the writer computes itself
// (identity, counts, pointer ranges) and takes precedence over fields.
func (w *rowWriter) setRow(fields, injected Fields) error {
	w.beginRow()
	for _, c := range w.sch.Columns() {
		v, ok := injected[c.Name]
		if !ok {
			if v, ok = fields[c.Name]; !ok {
				return fmt.Errorf("%w: %q for %s table row %d",
					errs.ErrFieldMissing, c.Name, w.sch.Kind(), w.row)
			}
		}
		if err := w.set(c.Name, v); err != nil {
			return err
		}
	}

	return nil
}

// setSentinelRow appends the end-of-event terminal row: every cell carries
// its type's marker value, with the band column holding the band marker.
func (w *rowWriter) setSentinelRow() error {
	w.beginRow()
	for _, c := range w.sch.Columns() {
		var v Value
		switch c.Type {
		case format.TypeText:
			if c.Name == colBand {
				v = Text(format.EndOfEventBand)
			} else {
				v = Text(format.EndOfEventText)
			}
		case format.TypeInt16:
			v = Short(format.EndOfEventInt16)
		case format.TypeInt32:
			v = Int(format.EndOfEventInt32)
		case format.TypeInt64:
			v = Long(format.EndOfEventInt64)
		case format.TypeFloat32:
			v = Float(format.EndOfEventFloat32)
		case format.TypeFloat64:
			v = Double(format.EndOfEventFloat64)
		}
		if err := w.set(c.Name, v); err != nil {
			return err
		}
	}

	return nil
}
