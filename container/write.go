package container

import (
	"fmt"
	"math"
	"strings"

	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
)

// Cell writes are 1-based in both column and row. Rows must be appended
// monotonically: writing to row n is legal only when n <= Rows()+1, and a
// write to Rows()+1 extends the section by one row. Within a row, cells may
// be written in any column order.

func (s *Section) extend(row int) error {
	if int64(row) > s.rows+1 {
		return fmt.Errorf("%w: row %d skips past row %d of section %q",
			errs.ErrBadRowRange, row, s.rows, s.name)
	}
	if int64(row) == s.rows+1 {
		s.rows++
	}

	return nil
}

func (s *Section) writeCell(col, row int, want format.ColumnType, cell []byte) error {
	if !s.writable || s.closed {
		return fmt.Errorf("%w: section %q is not writable", errs.ErrSectionClosed, s.name)
	}
	off, err := s.checkCell(col, row, want)
	if err != nil {
		return err
	}
	if err := s.extend(row); err != nil {
		return err
	}
	if _, err := s.file.f.WriteAt(cell, off); err != nil {
		return fmt.Errorf("write cell (%q, row %d) in %s: %w",
			s.cols[col-1].Name, row, s.file.path, err)
	}

	return nil
}

// WriteText writes a text cell, right-padded with spaces to the column
// width. Values longer than the declared width are rejected.
func (s *Section) WriteText(col, row int, v string) error {
	if col >= 1 && col <= len(s.cols) && s.types[col-1] == format.TypeText {
		width := s.widths[col-1]
		if len(v) > width {
			return fmt.Errorf("%w: value %q exceeds width %d of column %q",
				errs.ErrTypeMismatch, v, width, s.cols[col-1].Name)
		}
		cell := make([]byte, width)
		copy(cell, v)
		for i := len(v); i < width; i++ {
			cell[i] = ' '
		}

		return s.writeCell(col, row, format.TypeText, cell)
	}

	return s.writeCell(col, row, format.TypeText, nil)
}

// WriteInt16 writes a signed 16-bit integer cell.
func (s *Section) WriteInt16(col, row int, v int16) error {
	var cell [2]byte
	engine.PutUint16(cell[:], uint16(v))

	return s.writeCell(col, row, format.TypeInt16, cell[:])
}

// WriteInt32 writes a signed 32-bit integer cell.
func (s *Section) WriteInt32(col, row int, v int32) error {
	var cell [4]byte
	engine.PutUint32(cell[:], uint32(v))

	return s.writeCell(col, row, format.TypeInt32, cell[:])
}

// WriteInt64 writes a signed 64-bit integer cell.
func (s *Section) WriteInt64(col, row int, v int64) error {
	var cell [8]byte
	engine.PutUint64(cell[:], uint64(v))

	return s.writeCell(col, row, format.TypeInt64, cell[:])
}

// WriteFloat32 writes a 32-bit float cell.
func (s *Section) WriteFloat32(col, row int, v float32) error {
	var cell [4]byte
	engine.PutUint32(cell[:], math.Float32bits(v))

	return s.writeCell(col, row, format.TypeFloat32, cell[:])
}

// WriteFloat64 writes a 64-bit float cell.
func (s *Section) WriteFloat64(col, row int, v float64) error {
	var cell [8]byte
	engine.PutUint64(cell[:], math.Float64bits(v))

	return s.writeCell(col, row, format.TypeFloat64, cell[:])
}

// trimCell converts a fixed-width text cell back to its logical value by
// dropping the space padding.
func trimCell(cell []byte) string {
	return strings.TrimRight(string(cell), " ")
}
