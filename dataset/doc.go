// Package dataset implements the event-file write and read paths.
//
// A dataset is an ordered list of file triples, named by a manifest of
// header files: each header file holds one row per event, its companion
// measurement file holds that event's photometric rows terminated by a
// sentinel row, and an optional spectrum file holds the wavelength-bin
// grid, one summary row per spectrum, and the flux-bin rows. Header rows
// carry inclusive pointer ranges into the measurement table; summary rows
// carry ranges into the flux table. Ranges are stored in real-row
// coordinates so that successive events tile the child row space exactly,
// and each event's block is followed on disk by one sentinel row used as a
// bookkeeping check.
//
// Writing is append-only and strictly ordered; reading resolves a global
// event index across files, keeping at most one triple open.
package dataset
