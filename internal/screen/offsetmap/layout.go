package offsetmap

import (
	"fmt"
	"math/bits"
	"reflect"
	"unsafe"

	"github.com/dshills/termcore/internal/screen/region"
)

const (
	// MinimalCapacity is the smallest capacity a map is ever allocated with.
	MinimalCapacity = 8

	// MaxCapacity is the largest capacity representable by the header.
	MaxCapacity = 1 << 31

	// DefaultMaxLoadPercentage is the load factor used when none is configured.
	DefaultMaxLoadPercentage = 80
)

// Metadata byte states.
const (
	slotFree        uint8 = 0x00
	slotTombstone   uint8 = 0x01
	slotUsed        uint8 = 0x80
	fingerprintMask uint8 = 0x7f
)

// header is stored at offset zero of every region.
type header struct {
	size      uint32 // live entries
	available uint32 // inserts into free slots left before the load limit
	capacity  uint32
	maxLoad   uint32 // percentage, 1..99
}

const headerSize = unsafe.Sizeof(header{})

// Layout describes where each part of a map lives inside its region.
type Layout struct {
	Capacity      uint32
	MetadataStart uintptr
	KeysStart     uintptr
	ValuesStart   uintptr
	TotalSize     uintptr
	Alignment     uintptr
}

// LayoutFor computes the byte layout of a map with the given capacity.
func LayoutFor[K, V any](capacity uint32) Layout {
	var (
		k K
		v V
	)
	keySize, keyAlign := unsafe.Sizeof(k), unsafe.Alignof(k)
	valSize, valAlign := unsafe.Sizeof(v), unsafe.Alignof(v)

	metaStart := headerSize
	keysStart := region.AlignForward(metaStart+uintptr(capacity), keyAlign)
	valuesStart := region.AlignForward(keysStart+uintptr(capacity)*keySize, valAlign)
	end := valuesStart + uintptr(capacity)*valSize

	align := max(unsafe.Alignof(header{}), keyAlign, valAlign)
	return Layout{
		Capacity:      capacity,
		MetadataStart: metaStart,
		KeysStart:     keysStart,
		ValuesStart:   valuesStart,
		TotalSize:     region.AlignForward(end, align),
		Alignment:     align,
	}
}

// CapacityForSize returns the capacity a map needs so that size live entries
// stay within maxLoad percent: the smallest power of two that is at least
// size*100/maxLoad + 1, and never below MinimalCapacity. It returns 0 when
// the result would exceed MaxCapacity.
func CapacityForSize(size uint32, maxLoad uint8) uint32 {
	want := uint64(size)*100/uint64(maxLoad) + 1
	if want > MaxCapacity {
		return 0
	}
	c := uint32(1) << bits.Len32(uint32(want-1))
	if want == 1 {
		c = 1
	}
	return max(c, MinimalCapacity)
}

// MaxLoad is the number of slots of a map with the given capacity that may
// be non-free (live or tombstone) at maxLoad percent.
func MaxLoad(capacity uint32, maxLoad uint8) uint32 {
	return uint32(uint64(capacity) * uint64(maxLoad) / 100)
}

func fingerprint(hash uint64) uint8 {
	return uint8(hash>>(64-7)) & fingerprintMask
}

func checkMaxLoad(maxLoad uint8) {
	if maxLoad == 0 || maxLoad > 99 {
		panic(fmt.Sprintf("offsetmap: max load percentage %d outside 1..99", maxLoad))
	}
}

func checkCapacity(capacity uint32) error {
	if capacity < MinimalCapacity || capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w: capacity %d is not a power of two >= %d", ErrCapacityOverflow, capacity, MinimalCapacity)
	}
	if capacity > MaxCapacity {
		return fmt.Errorf("%w: capacity %d > %d", ErrCapacityOverflow, capacity, MaxCapacity)
	}
	return nil
}

// checkPointerFree panics if t contains pointers. Keys and values live in
// memory the garbage collector does not scan.
func checkPointerFree(t reflect.Type) {
	if hasPointers(t) {
		panic(fmt.Sprintf("offsetmap: type %s contains pointers", t))
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.Interface, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("offsetmap: invariant violated: " + fmt.Sprintf(format, args...))
	}
}
