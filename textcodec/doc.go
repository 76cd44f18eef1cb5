// Package textcodec converts SWE Common value trees to and from delimited text.
//
// A record is written as one block of tokens separated by the TextEncoding's token
// separator, and successive records are separated by its block separator:
//
//	22.5,65,1013.25\n23.1,64,1012.8
//
// Tokens containing a separator, a double quote or a line break are quoted per
// RFC 4180, with inner quotes doubled. Splitting on decode is quote-aware, so
// such tokens round trip exactly, including multi-line content.
//
// Nested records are flattened into consecutive tokens of the enclosing block.
// Nested arrays with a fixed element count contribute exactly that many elements;
// arrays with a variable count are preceded by a count token.
//
// A non-default decimal separator is substituted inside numeric tokens only
// (Count, Quantity, numeric Time and ranges of those). WithLegacyDecimalSubstitution
// restores the whole-text substitution of older producers.
//
// All functions are stateless and safe for concurrent use on disjoint inputs.
package textcodec
