// Package endian maps descriptor byte orders onto encoding/binary engines.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so the
// binary codec can both write into pre-sized slots and append to growing buffers.
//
// # Thread Safety
//
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"

	"github.com/arloliu/swecodec/format"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
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

// ForByteOrder returns the engine for a descriptor byte order.
// Anything other than format.LittleEndian yields the big-endian engine,
// which is the default byte order of a binary encoding.
func ForByteOrder(order format.ByteOrder) EndianEngine {
	if order == format.LittleEndian {
		return GetLittleEndianEngine()
	}

	return GetBigEndianEngine()
}

// LengthPrefixEngine returns the engine used for utf8 length prefixes.
// The prefix is always little-endian regardless of the member byte order.
func LengthPrefixEngine() EndianEngine {
	return binary.LittleEndian
}
