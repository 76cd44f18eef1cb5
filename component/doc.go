// Package component models SWE Common data components: the typed description of
// the shape of a value tree that the text and binary codecs walk.
//
// The variant set is closed. Component is a sealed interface implemented only by
// the pointer types of this package, and code dispatching over it uses exhaustive
// type switches:
//
//   - Scalars: Boolean, Count, Quantity, Time, Category, Text
//   - Ranges: CountRange, QuantityRange, TimeRange, CategoryRange
//   - Records: DataRecord, Vector
//   - Arrays: DataArray, DataStream, Matrix
//
// The value tree matching a schema uses these Go types:
//
//	DataRecord, Vector               map[string]any keyed by field name
//	DataArray, DataStream, Matrix    []any
//	Boolean                          bool
//	Count                            int64
//	Quantity                         float64
//	Time                             string (ISO 8601) or float64 (numeric epoch)
//	Category, Text                   string
//	*Range                           []any with exactly two bounds
//	absent value                     nil
//
// Components are immutable once built; the codecs never modify them.
package component
