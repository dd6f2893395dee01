package container

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/nightfall-obs/evtable/errs"
)

// File is one container file: an ordered sequence of sections.
//
// A file is either writable (Create) or read-only (Open); the two modes are
// never mixed on one handle. File is not safe for concurrent use.
type File struct {
	f    *os.File
	path string

	sections []*Section
	cur      *Section // unfinalized writable section, if any
	end      int64    // current end-of-file offset (writable mode)

	readonly bool
}

// Create creates a new, empty container file at path, truncating any
// existing file.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create container %s: %w", path, err)
	}

	return &File{f: f, path: path}, nil
}

// Open opens an existing container file read-only and discovers its
// sections in order. Every section's descriptor checksum is verified.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}

	cf := &File{f: f, path: path, readonly: true}
	if err := cf.discover(); err != nil {
		f.Close()
		return nil, err
	}

	return cf, nil
}

// Path returns the file's path.
func (f *File) Path() string { return f.path }

// Sections returns the file's sections in on-disk order.
func (f *File) Sections() []*Section { return f.sections }

// Section returns the first section with the given table name, or nil.
func (f *File) Section(name string) *Section {
	for _, s := range f.sections {
		if s.name == name {
			return s
		}
	}

	return nil
}

// CreateSection appends a new writable section to the file. The previous
// section, if any, must already be finalized; the container format is
// strictly sequential within a file.
func (f *File) CreateSection(name string, cols []ColumnSpec, meta Metadata) (*Section, error) {
	if f.readonly {
		return nil, fmt.Errorf("container %s: opened read-only", f.path)
	}
	if f.cur != nil {
		return nil, fmt.Errorf("%w: %q in %s", errs.ErrSectionOpen, f.cur.name, f.path)
	}

	if meta == nil {
		meta = Metadata{}
	}
	s := &Section{
		file:     f,
		name:     name,
		cols:     append([]ColumnSpec(nil), cols...),
		meta:     meta,
		start:    f.end,
		writable: true,
	}
	if err := s.resolveLayout(); err != nil {
		return nil, err
	}

	desc := s.descriptor()
	if _, err := f.f.WriteAt(s.headerBytes(len(desc)), s.start); err != nil {
		return nil, fmt.Errorf("write section header in %s: %w", f.path, err)
	}
	if _, err := f.f.WriteAt(desc, s.start+HeaderSize); err != nil {
		return nil, fmt.Errorf("write section descriptor in %s: %w", f.path, err)
	}

	s.dataStart = s.start + HeaderSize + int64(len(desc))
	f.end = s.dataStart
	f.cur = s
	f.sections = append(f.sections, s)

	return s, nil
}

// Close finalizes a writable section: the row count and data length are
// backpatched into its fixed header and the section becomes immutable. For
// read-only sections Close is a no-op.
func (s *Section) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if !s.writable {
		return nil
	}

	desc := s.descriptor()
	if _, err := s.file.f.WriteAt(s.headerBytes(len(desc)), s.start); err != nil {
		return fmt.Errorf("finalize section %q in %s: %w", s.name, s.file.path, err)
	}

	s.file.end = s.dataStart + s.rows*int64(s.rowWidth)
	s.file.cur = nil

	return nil
}

// Append copies a finalized section from another file to the end of this
// one, byte for byte. Used to merge the temporary flux table into the
// permanent spectrum file once writing is complete.
func (f *File) Append(src *Section) error {
	if f.readonly {
		return fmt.Errorf("container %s: opened read-only", f.path)
	}
	if f.cur != nil {
		return fmt.Errorf("%w: %q in %s", errs.ErrSectionOpen, f.cur.name, f.path)
	}
	if !src.closed {
		return fmt.Errorf("%w: %q in %s", errs.ErrSectionOpen, src.name, src.file.path)
	}

	total := src.size()
	buf := make([]byte, 1<<20)
	var copied int64
	for copied < total {
		n := int64(len(buf))
		if total-copied < n {
			n = total - copied
		}
		if _, err := src.file.f.ReadAt(buf[:n], src.start+copied); err != nil {
			return fmt.Errorf("append section %q: read %s: %w", src.name, src.file.path, err)
		}
		if _, err := f.f.WriteAt(buf[:n], f.end+copied); err != nil {
			return fmt.Errorf("append section %q: write %s: %w", src.name, f.path, err)
		}
		copied += n
	}

	dst := &Section{
		file:      f,
		name:      src.name,
		cols:      src.cols,
		types:     src.types,
		widths:    src.widths,
		colOff:    src.colOff,
		meta:      src.meta,
		start:     f.end,
		dataStart: f.end + (src.dataStart - src.start),
		rowWidth:  src.rowWidth,
		rows:      src.rows,
		closed:    true,
	}
	f.end += total
	f.sections = append(f.sections, dst)

	return nil
}

// Close finalizes any open section and closes the underlying file handle.
func (f *File) Close() error {
	if f.cur != nil {
		if err := f.cur.Close(); err != nil {
			f.f.Close()
			return err
		}
	}
	if err := f.f.Close(); err != nil {
		return fmt.Errorf("close container %s: %w", f.path, err)
	}

	return nil
}

// discover walks the file forward, parsing and verifying each section
// header and descriptor until EOF.
func (f *File) discover() error {
	var off int64
	hdr := make([]byte, HeaderSize)

	for {
		_, err := f.f.ReadAt(hdr, off)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read section header in %s: %w", f.path, err)
		}

		if engine.Uint32(hdr[offMagic:]) != Magic {
			return fmt.Errorf("%w: %s at offset %d", errs.ErrBadMagic, f.path, off)
		}

		colCount := int(engine.Uint16(hdr[offColCount:]))
		descLen := int64(engine.Uint32(hdr[offDescLen:]))
		dataLen := int64(engine.Uint64(hdr[offDataLen:]))

		desc := make([]byte, descLen)
		if _, err := f.f.ReadAt(desc, off+HeaderSize); err != nil {
			return fmt.Errorf("read section descriptor in %s: %w", f.path, err)
		}
		if sum := xxhash.Sum64(desc); sum != engine.Uint64(hdr[offChecksum:]) {
			return fmt.Errorf("%w: %s at offset %d", errs.ErrChecksum, f.path, off)
		}

		s := &Section{
			file:      f,
			start:     off,
			dataStart: off + HeaderSize + descLen,
			rows:      int64(engine.Uint64(hdr[offRowCount:])),
			closed:    true,
		}
		if err := s.parseDescriptor(desc, colCount); err != nil {
			return fmt.Errorf("section in %s at offset %d: %w", f.path, off, err)
		}
		if err := s.resolveLayout(); err != nil {
			return err
		}

		f.sections = append(f.sections, s)
		off = s.dataStart + dataLen
	}

	if len(f.sections) == 0 {
		return fmt.Errorf("%w: %s has no sections", errs.ErrBadMagic, f.path)
	}

	return nil
}
