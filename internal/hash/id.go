// Package hash computes the 64-bit identifiers used to index field names.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given field name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// PathID computes the identifier of a slash separated field path such as "/location/lat".
// Leading and trailing slashes do not change the result.
func PathID(path string) uint64 {
	for len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	for len(path) > 0 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return xxhash.Sum64String(path)
}
