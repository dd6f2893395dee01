package container

import (
	"fmt"
	"math"

	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
)

// Column-range reads fill a caller-supplied destination slice with the
// values of one column for a contiguous 1-based row range [first, last].
// dst must have at least last-first+1 elements; extra capacity is ignored.

// readRange validates the range and returns the raw row block plus the
// column's offset and width within a row.
func (s *Section) readRange(col, first, last int, want format.ColumnType) ([]byte, int, int, error) {
	if _, err := s.checkCell(col, first, want); err != nil {
		return nil, 0, 0, err
	}
	if last < first || int64(last) > s.rows {
		return nil, 0, 0, fmt.Errorf("%w: rows [%d, %d] of section %q (have %d rows)",
			errs.ErrBadRowRange, first, last, s.name, s.rows)
	}

	n := last - first + 1
	block := make([]byte, n*s.rowWidth)
	off := s.dataStart + int64(first-1)*int64(s.rowWidth)
	if _, err := s.file.f.ReadAt(block, off); err != nil {
		return nil, 0, 0, fmt.Errorf("read rows [%d, %d] of section %q in %s: %w",
			first, last, s.name, s.file.path, err)
	}

	return block, s.colOff[col-1], s.widths[col-1], nil
}

// ReadTextColumn reads a text column range into dst, with space padding
// stripped from each value.
func (s *Section) ReadTextColumn(col, first, last int, dst []string) error {
	block, colOff, width, err := s.readRange(col, first, last, format.TypeText)
	if err != nil {
		return err
	}
	for i := 0; i <= last-first; i++ {
		cell := block[i*s.rowWidth+colOff:]
		dst[i] = trimCell(cell[:width])
	}

	return nil
}

// ReadInt16Column reads an int16 column range into dst.
func (s *Section) ReadInt16Column(col, first, last int, dst []int16) error {
	block, colOff, _, err := s.readRange(col, first, last, format.TypeInt16)
	if err != nil {
		return err
	}
	for i := 0; i <= last-first; i++ {
		dst[i] = int16(engine.Uint16(block[i*s.rowWidth+colOff:]))
	}

	return nil
}

// ReadInt32Column reads an int32 column range into dst.
func (s *Section) ReadInt32Column(col, first, last int, dst []int32) error {
	block, colOff, _, err := s.readRange(col, first, last, format.TypeInt32)
	if err != nil {
		return err
	}
	for i := 0; i <= last-first; i++ {
		dst[i] = int32(engine.Uint32(block[i*s.rowWidth+colOff:]))
	}

	return nil
}

// ReadInt64Column reads an int64 column range into dst.
func (s *Section) ReadInt64Column(col, first, last int, dst []int64) error {
	block, colOff, _, err := s.readRange(col, first, last, format.TypeInt64)
	if err != nil {
		return err
	}
	for i := 0; i <= last-first; i++ {
		dst[i] = int64(engine.Uint64(block[i*s.rowWidth+colOff:]))
	}

	return nil
}

// ReadFloat32Column reads a float32 column range into dst.
func (s *Section) ReadFloat32Column(col, first, last int, dst []float32) error {
	block, colOff, _, err := s.readRange(col, first, last, format.TypeFloat32)
	if err != nil {
		return err
	}
	for i := 0; i <= last-first; i++ {
		dst[i] = math.Float32frombits(engine.Uint32(block[i*s.rowWidth+colOff:]))
	}

	return nil
}

// ReadFloat64Column reads a float64 column range into dst.
func (s *Section) ReadFloat64Column(col, first, last int, dst []float64) error {
	block, colOff, _, err := s.readRange(col, first, last, format.TypeFloat64)
	if err != nil {
		return err
	}
	for i := 0; i <= last-first; i++ {
		dst[i] = math.Float64frombits(engine.Uint64(block[i*s.rowWidth+colOff:]))
	}

	return nil
}
