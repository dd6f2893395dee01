// Package schema manages the ordered, named column list of one table.
//
// A schema is built incrementally at write time (conditional columns are
// appended based on the dataset configuration) or discovered at read time
// from an opened container section's column metadata. Either way it is
// built once per table-open and immutable afterward for that table
// instance; opening a new file always builds a fresh schema, because
// schemas may legitimately differ across the files of one dataset.
package schema

import (
	"fmt"
	"strings"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
)

// MaxColumns is the fixed per-table column maximum.
const MaxColumns = 200

// NotFound is returned by Resolve for names absent from the schema.
const NotFound = -1

// Column is one column definition: a name unique within the table, a wire
// type, and (for text columns) the declared character width.
type Column struct {
	Name  string
	Type  format.ColumnType
	Width int
}

// Form returns the column's form specifier.
func (c Column) Form() string { return c.Type.Form(c.Width) }

// Schema is the ordered column list of one table kind. The insertion order
// defines the on-disk column index, which is 1-based.
type Schema struct {
	kind format.TableKind
	cols []Column
}

// New returns an empty schema for the given table kind.
func New(kind format.TableKind) *Schema {
	return &Schema{kind: kind}
}

// Kind returns the table kind the schema describes.
func (s *Schema) Kind() format.TableKind { return s.kind }

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.cols) }

// Column returns the definition of the 1-based column index.
func (s *Schema) Column(index int) Column { return s.cols[index-1] }

// Columns returns the ordered column definitions.
func (s *Schema) Columns() []Column { return s.cols }

// AddColumn appends a column definition given its form specifier. Exceeding
// MaxColumns or reusing a name within the table is an error.
func (s *Schema) AddColumn(name, form string) error {
	if len(s.cols) >= MaxColumns {
		return fmt.Errorf("%w: %s table already has %d columns (adding %q)",
			errs.ErrTooManyColumns, s.kind, MaxColumns, name)
	}
	if s.Resolve(name) != NotFound {
		return fmt.Errorf("%w: %q in %s table", errs.ErrDuplicateColumn, name, s.kind)
	}

	typ, width, err := format.ParseForm(form)
	if err != nil {
		return fmt.Errorf("%s table column %q: %w", s.kind, name, err)
	}
	s.cols = append(s.cols, Column{Name: name, Type: typ, Width: width})

	return nil
}

// Resolve returns the 1-based column index for name, or NotFound. The scan
// is linear; read-path callers are expected to cache the returned index per
// logical field and re-resolve only on the first event of a newly opened
// file.
func (s *Schema) Resolve(name string) int {
	for i, c := range s.cols {
		if c.Name == name {
			return i + 1
		}
	}

	return NotFound
}

// ResolveCached resolves name through a caller-held cache slot. A positive
// cached value is returned as-is; NotFound stays cached so repeated probes
// for a missing optional column cost nothing. Callers reset the slot to
// zero to force re-resolution (e.g. after a file transition).
func (s *Schema) ResolveCached(name string, cache *int) int {
	if *cache > 0 || *cache == NotFound {
		return *cache
	}
	*cache = s.Resolve(name)

	return *cache
}

// Require verifies that every listed column name exists, reporting all
// missing names in a single error rather than the first one found.
func (s *Schema) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if s.Resolve(name) == NotFound {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s table lacks %s",
			errs.ErrRequiredColumns, s.kind, strings.Join(missing, ", "))
	}

	return nil
}

// Specs converts the schema to the container's column descriptor form.
func (s *Schema) Specs() []container.ColumnSpec {
	specs := make([]container.ColumnSpec, len(s.cols))
	for i, c := range s.cols {
		specs[i] = container.ColumnSpec{Name: c.Name, Form: c.Form()}
	}

	return specs
}

// Discover builds a schema from an opened section's column metadata, in the
// section's own column order. Unrecognized form specifiers are fatal.
func Discover(kind format.TableKind, sec *container.Section) (*Schema, error) {
	s := New(kind)
	for _, spec := range sec.Columns() {
		typ, width, err := format.ParseForm(spec.Form)
		if err != nil {
			return nil, fmt.Errorf("discover %s table %q: column %q: %w",
				kind, sec.Name(), spec.Name, err)
		}
		if len(s.cols) >= MaxColumns {
			return nil, fmt.Errorf("%w: %s table %q has more than %d columns",
				errs.ErrTooManyColumns, kind, sec.Name(), MaxColumns)
		}
		s.cols = append(s.cols, Column{Name: spec.Name, Type: typ, Width: width})
	}

	return s, nil
}
