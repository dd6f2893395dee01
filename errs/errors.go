// Package errs defines the sentinel errors shared across evtable packages.
//
// Callers match them with errors.Is; the packages that return them wrap them
// with fmt.Errorf("%w: ...") to attach the offending file, column, and count
// information so a failure is diagnosable without re-running.
package errs

import "errors"

var (
	// ErrTooManyColumns indicates a schema exceeded the fixed column maximum.
	ErrTooManyColumns = errors.New("too many columns")

	// ErrDuplicateColumn indicates a column name was added twice to one schema.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrColumnNotFound indicates a named column does not exist in the schema.
	// For optional columns this is a recoverable signal, not a failure.
	ErrColumnNotFound = errors.New("column not found")

	// ErrRequiredColumns indicates one or more required columns are absent
	// after schema discovery. The wrapped message lists every missing name.
	ErrRequiredColumns = errors.New("missing required columns")

	// ErrUnknownForm indicates a column form specifier could not be mapped to
	// a wire type.
	ErrUnknownForm = errors.New("unknown column form")

	// ErrBlankText indicates an empty string was written to a column that is
	// not on the blank-value allow list.
	ErrBlankText = errors.New("blank text value")

	// ErrTypeMismatch indicates a cell value does not match the column's
	// declared wire type.
	ErrTypeMismatch = errors.New("column type mismatch")

	// ErrRowCountMismatch indicates the number of real child rows written for
	// an event disagrees with the event's declared observation count.
	ErrRowCountMismatch = errors.New("row count mismatch")

	// ErrBadPointer indicates a parent row's child pointer range is absent or
	// outside the child table's row space.
	ErrBadPointer = errors.New("invalid child pointer range")

	// ErrBadRowRange indicates a bulk read requested rows outside the open
	// section's row space.
	ErrBadRowRange = errors.New("row range out of bounds")

	// ErrEventOutOfRange indicates a global event index beyond the dataset's
	// total event count.
	ErrEventOutOfRange = errors.New("event index out of range")

	// ErrEmptyManifest indicates the dataset manifest listed no header files.
	ErrEmptyManifest = errors.New("empty manifest")

	// ErrBadMask indicates a read mask contained a value other than 0 or 1,
	// or its length disagrees with the event's observation count.
	ErrBadMask = errors.New("invalid read mask")

	// ErrMaskedOut indicates every observation of an event failed the read
	// mask; zero values were returned.
	ErrMaskedOut = errors.New("all observations masked out")

	// ErrFieldMissing indicates an event record lacks a field the schema
	// requires at write time.
	ErrFieldMissing = errors.New("event field missing")

	// ErrBadMagic indicates a section header's magic word is wrong.
	ErrBadMagic = errors.New("bad section magic")

	// ErrChecksum indicates a section's descriptor checksum does not match
	// its stored value.
	ErrChecksum = errors.New("section checksum mismatch")

	// ErrSectionClosed indicates an operation on a closed section.
	ErrSectionClosed = errors.New("section closed")

	// ErrSectionOpen indicates a file-level operation that requires all
	// sections to be finalized first.
	ErrSectionOpen = errors.New("section still open")
)
