// Package endian provides byte order utilities for binary encoding and decoding.
//
// It combines the standard library's ByteOrder and AppendByteOrder interfaces
// into a single EndianEngine interface so codec code can both read fixed-width
// values and append them without extra allocations.
//
// Container files are always written little-endian; GetLittleEndianEngine is
// the engine used throughout evtable.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// The interface is satisfied by binary.LittleEndian and binary.BigEndian,
// so it is fully compatible with existing code using either directly.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
