// Package bincodec converts SWE Common value trees to and from packed binary records.
//
// Each record is the concatenation of the BinaryEncoding's component members in
// descriptor order, written with the descriptor byte order. A member referencing a
// range component occupies two consecutive payloads, lower bound first.
//
// Records are sized in two passes: the first pass measures every utf8 member of
// every record, the second writes into a single buffer of exactly that size taken
// from the shared buffer pool.
//
// A root Block member with a compression attribute compresses the whole record
// stream; the optional Base64 step is applied after compression on encode and
// undone before decompression on decode.
package bincodec
