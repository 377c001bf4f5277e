package offsetmap

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Context supplies hashing and equality for keys of type K.
type Context[K any] interface {
	Hash(key K) uint64
	Eql(a, b K) bool
}

// Integer is the set of key types handled by IntContext.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IntContext hashes integer keys with xxhash over their little-endian bytes.
// Sequential keys such as cell indices spread across the whole table.
type IntContext[K Integer] struct{}

// Hash implements Context.
func (IntContext[K]) Hash(key K) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(key))
	return xxhash.Sum64(b[:])
}

// Eql implements Context.
func (IntContext[K]) Eql(a, b K) bool {
	return a == b
}
