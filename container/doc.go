// Package container implements the sequential binary table file underlying
// an evtable dataset.
//
// A container file is a forward sequence of sections. Each section holds one
// table: a fixed 40-byte header, a descriptor block (section name, key/value
// metadata, and the ordered column list), and fixed-stride row-major cell
// data. The descriptor block is immutable once the section is created and is
// guarded by an xxHash64 checksum; the row count and data length are
// backpatched into the fixed header when the section is finalized.
//
// Access is sequential per file: sections are discovered in order on open,
// and a writing file has at most one unfinalized section at a time. Cell
// reads within an open section may address any row range.
//
// The package knows nothing about events, pointers, or schemas beyond the
// six wire types; that logic lives in the schema and dataset packages.
package container
