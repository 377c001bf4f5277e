package region

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// ErrOutOfMemory is returned when an Allocator cannot satisfy a request.
var ErrOutOfMemory = errors.New("out of memory")

// Align is the guaranteed alignment of every region base address.
const Align = 8

// Allocator returns a zeroed block of at least words 64-bit words.
type Allocator func(words int) ([]uint64, error)

// DefaultAllocator allocates from the Go heap.
func DefaultAllocator(words int) ([]uint64, error) {
	if words < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrOutOfMemory, words)
	}
	return make([]uint64, words), nil
}

// Budget returns an Allocator that fails once the total number of bytes it
// has handed out would exceed limit. Freed memory is not returned to the
// budget.
func Budget(limit int) Allocator {
	var used atomic.Int64
	return func(words int) ([]uint64, error) {
		n := int64(words) * 8
		if used.Add(n) > int64(limit) {
			used.Add(-n)
			return nil, fmt.Errorf("%w: budget of %d bytes exhausted", ErrOutOfMemory, limit)
		}
		return make([]uint64, words), nil
	}
}

// Alloc returns a zeroed byte region of exactly size bytes whose base is
// aligned to Align.
func Alloc(alloc Allocator, size uintptr) ([]byte, error) {
	if alloc == nil {
		alloc = DefaultAllocator
	}
	words := int((size + Align - 1) / Align)
	if words == 0 {
		words = 1
	}
	mem, err := alloc(words)
	if err != nil {
		return nil, err
	}
	if len(mem) < words {
		return nil, fmt.Errorf("%w: allocator returned %d words, want %d", ErrOutOfMemory, len(mem), words)
	}
	return Bytes(mem)[:size:size], nil
}

// Bytes reinterprets words as a byte slice sharing the same memory.
func Bytes(words []uint64) []byte {
	if len(words) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), len(words)*8)
}

// Clone copies src into a freshly allocated region of the same size.
func Clone(alloc Allocator, src []byte) ([]byte, error) {
	dst, err := Alloc(alloc, uintptr(len(src)))
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

// AlignForward rounds n up to the next multiple of align (a power of two).
func AlignForward(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// IsAligned reports whether the first byte of b sits on an align boundary.
func IsAligned(b []byte, align uintptr) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%align == 0
}
