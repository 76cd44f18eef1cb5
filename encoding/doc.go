// Package encoding defines the SWE Common encoding descriptors: TextEncoding for
// delimited text and BinaryEncoding for packed binary records.
//
// Descriptors are plain immutable values. They are built by the caller or parsed
// from SWE JSON with UnmarshalDescriptor, checked with Validate, and passed by value
// to the codecs, which never modify them.
//
// # Text Encoding
//
// A TextEncoding separates the tokens of one record with TokenSeparator and the
// records (blocks) with BlockSeparator. Both are required and must differ. An
// optional DecimalSeparator replaces '.' in numeric tokens.
//
// # Binary Encoding
//
// A BinaryEncoding lists one Member per scalar slot of a record, in wire order:
//
//	┌──────────────┬───────────┬──────────────┐
//	│ padding      │ payload   │ padding      │
//	│ (before)     │ (dataType)│ (after)      │
//	└──────────────┴───────────┴──────────────┘
//
// Payload footprints are 1 byte (boolean, byte, ubyte), 2 (short, ushort),
// 4 (int, uint, float), 8 (long, ulong, double), ByteLength bytes for string, and a
// 4-byte little-endian length prefix followed by the UTF-8 bytes for utf8.
//
// A Block member referencing the root ("/") declares payload compression for the
// whole encoded buffer.
package encoding
