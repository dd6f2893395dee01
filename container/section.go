package container

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/nightfall-obs/evtable/endian"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
)

const (
	// Magic identifies a section header ("EVTB").
	Magic uint32 = 0x45565442

	// LayoutVersion is the container layout version, independent of the
	// dataset schema version carried in section metadata.
	LayoutVersion uint16 = 1

	// HeaderSize is the fixed section header size in bytes.
	HeaderSize = 40

	// MaxColumns bounds the per-section column count at the container
	// level; the schema package enforces its own (lower) limit.
	MaxColumns = 1024
)

// Fixed header byte offsets.
const (
	offMagic    = 0  // uint32
	offLayout   = 4  // uint16
	offColCount = 6  // uint16
	offRowCount = 8  // uint64, backpatched on finalize
	offRowWidth = 16 // uint32
	offDescLen  = 20 // uint32
	offDataLen  = 24 // uint64, backpatched on finalize
	offChecksum = 32 // uint64, xxHash64 of the descriptor block
)

var engine = endian.GetLittleEndianEngine()

// ColumnSpec describes one column of a section: a name unique within the
// section and a form specifier ("16A", "1I", "1J", "1K", "1E", "1D").
type ColumnSpec struct {
	Name string
	Form string
}

// Metadata holds a section's key/value header pairs (companion file names,
// schema version tag, survey globals). Keys are serialized in sorted order
// so the descriptor checksum is deterministic.
type Metadata map[string]string

// Section is one table inside a container file.
//
// A section returned by (*File).CreateSection is writable until Close; a
// section discovered by Open is read-only. Column and row indices are
// 1-based throughout, matching the on-disk column order.
type Section struct {
	file *File
	name string

	cols   []ColumnSpec
	types  []format.ColumnType
	widths []int // cell width in bytes per column
	colOff []int // byte offset of each column within a row

	meta Metadata

	start     int64 // file offset of the fixed header
	dataStart int64
	rowWidth  int
	rows      int64

	writable bool
	closed   bool
}

// Name returns the section's table name.
func (s *Section) Name() string { return s.name }

// Columns returns the section's ordered column descriptors.
func (s *Section) Columns() []ColumnSpec { return s.cols }

// Metadata returns the section's key/value header pairs.
func (s *Section) Metadata() Metadata { return s.meta }

// MetaValue returns the value for key and whether the key exists.
func (s *Section) MetaValue(key string) (string, bool) {
	v, ok := s.meta[key]
	return v, ok
}

// Rows returns the number of rows currently in the section.
func (s *Section) Rows() int { return int(s.rows) }

// ColumnType returns the wire type of the 1-based column col.
func (s *Section) ColumnType(col int) format.ColumnType {
	return s.types[col-1]
}

// size returns the total on-disk size of the section in bytes.
func (s *Section) size() int64 {
	return HeaderSize + int64(len(s.descriptor())) + s.rows*int64(s.rowWidth)
}

// descriptor serializes the section name, metadata, and column list. The
// block is written once at create time and never changes afterward.
func (s *Section) descriptor() []byte {
	var buf []byte
	buf = appendString(buf, s.name)

	keys := make([]string, 0, len(s.meta))
	for k := range s.meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf = engine.AppendUint16(buf, uint16(len(keys)))
	for _, k := range keys {
		buf = appendString(buf, k)
		buf = appendString(buf, s.meta[k])
	}

	for _, c := range s.cols {
		buf = appendString(buf, c.Name)
		buf = appendString(buf, c.Form)
	}

	return buf
}

// headerBytes serializes the fixed header for the current section state.
func (s *Section) headerBytes(descLen int) []byte {
	b := make([]byte, HeaderSize)
	engine.PutUint32(b[offMagic:], Magic)
	engine.PutUint16(b[offLayout:], LayoutVersion)
	engine.PutUint16(b[offColCount:], uint16(len(s.cols)))
	engine.PutUint64(b[offRowCount:], uint64(s.rows))
	engine.PutUint32(b[offRowWidth:], uint32(s.rowWidth))
	engine.PutUint32(b[offDescLen:], uint32(descLen))
	engine.PutUint64(b[offDataLen:], uint64(s.rows)*uint64(s.rowWidth))
	engine.PutUint64(b[offChecksum:], xxhash.Sum64(s.descriptor()))

	return b
}

// resolveLayout derives the per-column types, widths, and row stride from
// the column specs. Called once per create or open.
func (s *Section) resolveLayout() error {
	n := len(s.cols)
	if n == 0 || n > MaxColumns {
		return fmt.Errorf("%w: section %q has %d columns (max %d)",
			errs.ErrTooManyColumns, s.name, n, MaxColumns)
	}

	s.types = make([]format.ColumnType, n)
	s.widths = make([]int, n)
	s.colOff = make([]int, n)

	off := 0
	for i, c := range s.cols {
		typ, width, err := format.ParseForm(c.Form)
		if err != nil {
			return fmt.Errorf("section %q column %q: %w", s.name, c.Name, err)
		}

		s.types[i] = typ
		s.widths[i] = typ.CellWidth(width)
		s.colOff[i] = off
		off += s.widths[i]
	}
	s.rowWidth = off

	return nil
}

// checkCell validates a 1-based column/row pair against the section layout
// and the expected wire type, returning the cell's absolute file offset.
func (s *Section) checkCell(col, row int, want format.ColumnType) (int64, error) {
	if col < 1 || col > len(s.cols) {
		return 0, fmt.Errorf("%w: column %d of section %q", errs.ErrColumnNotFound, col, s.name)
	}
	if got := s.types[col-1]; got != want {
		return 0, fmt.Errorf("%w: column %q is %s, not %s",
			errs.ErrTypeMismatch, s.cols[col-1].Name, got, want)
	}
	if row < 1 {
		return 0, fmt.Errorf("%w: row %d", errs.ErrBadRowRange, row)
	}

	return s.dataStart + int64(row-1)*int64(s.rowWidth) + int64(s.colOff[col-1]), nil
}

func appendString(buf []byte, v string) []byte {
	buf = engine.AppendUint16(buf, uint16(len(v)))
	return append(buf, v...)
}

// readString consumes one length-prefixed string from buf.
func readString(buf []byte) (string, []byte, error) {
	if len(buf) < 2 {
		return "", nil, fmt.Errorf("%w: truncated descriptor string", errs.ErrBadMagic)
	}
	n := int(engine.Uint16(buf))
	buf = buf[2:]
	if len(buf) < n {
		return "", nil, fmt.Errorf("%w: truncated descriptor string", errs.ErrBadMagic)
	}

	return string(buf[:n]), buf[n:], nil
}

// parseDescriptor rebuilds the section name, metadata, and columns from a
// descriptor block read off disk.
func (s *Section) parseDescriptor(buf []byte, colCount int) error {
	var err error
	if s.name, buf, err = readString(buf); err != nil {
		return err
	}

	if len(buf) < 2 {
		return fmt.Errorf("%w: truncated metadata block", errs.ErrBadMagic)
	}
	nmeta := int(engine.Uint16(buf))
	buf = buf[2:]

	s.meta = make(Metadata, nmeta)
	for i := 0; i < nmeta; i++ {
		var k, v string
		if k, buf, err = readString(buf); err != nil {
			return err
		}
		if v, buf, err = readString(buf); err != nil {
			return err
		}
		s.meta[k] = v
	}

	s.cols = make([]ColumnSpec, 0, colCount)
	for i := 0; i < colCount; i++ {
		var name, form string
		if name, buf, err = readString(buf); err != nil {
			return err
		}
		if form, buf, err = readString(buf); err != nil {
			return err
		}
		s.cols = append(s.cols, ColumnSpec{Name: name, Form: form})
	}

	return nil
}
