package offsetmap

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/dshills/termcore/internal/screen/region"
)

// Unmanaged is a fixed-capacity map view over a region it does not own.
//
// The view itself holds only the region slice and the hashing context; all
// map state is inside the region. Two views over the same bytes observe the
// same map, and a view over a byte-for-byte copy observes an identical,
// independent map.
type Unmanaged[K, V any] struct {
	region []byte
	layout Layout
	ctx    Context[K]
}

// Entry is the result of GetOrPut. Key and Value point into the region and
// are valid until the next mutation of the map.
type Entry[K, V any] struct {
	Index uint32
	Key   *K
	Value *V
	Found bool
}

// Init formats region as an empty map with the given capacity. The region
// must be at least LayoutFor[K, V](capacity).TotalSize bytes and aligned to
// the layout's alignment.
func Init[K, V any](buf []byte, capacity uint32, maxLoad uint8, ctx Context[K]) (Unmanaged[K, V], error) {
	checkMaxLoad(maxLoad)
	checkPointerFree(reflect.TypeFor[K]())
	checkPointerFree(reflect.TypeFor[V]())
	if err := checkCapacity(capacity); err != nil {
		return Unmanaged[K, V]{}, err
	}

	layout := LayoutFor[K, V](capacity)
	if uintptr(len(buf)) < layout.TotalSize {
		return Unmanaged[K, V]{}, fmt.Errorf("%w: have %d bytes, need %d", ErrRegionTooSmall, len(buf), layout.TotalSize)
	}
	if !region.IsAligned(buf, layout.Alignment) {
		return Unmanaged[K, V]{}, ErrMisaligned
	}

	buf = buf[:layout.TotalSize:layout.TotalSize]
	clear(buf)
	m := Unmanaged[K, V]{region: buf, layout: layout, ctx: ctx}
	h := m.hdr()
	h.capacity = capacity
	h.maxLoad = uint32(maxLoad)
	h.available = MaxLoad(capacity, maxLoad)
	return m, nil
}

// View attaches to a region previously formatted by Init, for example after
// the region was copied or moved.
func View[K, V any](buf []byte, ctx Context[K]) Unmanaged[K, V] {
	invariant(uintptr(len(buf)) >= headerSize, "region of %d bytes has no header", len(buf))
	h := (*header)(unsafe.Pointer(unsafe.SliceData(buf)))
	layout := LayoutFor[K, V](h.capacity)
	invariant(uintptr(len(buf)) >= layout.TotalSize, "region of %d bytes shorter than layout %d", len(buf), layout.TotalSize)
	return Unmanaged[K, V]{region: buf[:layout.TotalSize:layout.TotalSize], layout: layout, ctx: ctx}
}

// Region returns the bytes backing the map.
func (m Unmanaged[K, V]) Region() []byte { return m.region }

// Layout returns the map's byte layout.
func (m Unmanaged[K, V]) Layout() Layout { return m.layout }

// Count returns the number of live entries.
func (m Unmanaged[K, V]) Count() uint32 { return m.hdr().size }

// Capacity returns the number of slots.
func (m Unmanaged[K, V]) Capacity() uint32 { return m.hdr().capacity }

// Available returns how many more keys can be inserted into free slots
// before the load limit is reached. Tombstones count against it.
func (m Unmanaged[K, V]) Available() uint32 { return m.hdr().available }

// MaxLoadPercentage returns the configured load factor.
func (m Unmanaged[K, V]) MaxLoadPercentage() uint8 { return uint8(m.hdr().maxLoad) }

func (m Unmanaged[K, V]) hdr() *header {
	return (*header)(unsafe.Pointer(unsafe.SliceData(m.region)))
}

func (m Unmanaged[K, V]) metadata() []uint8 {
	return m.region[m.layout.MetadataStart : m.layout.MetadataStart+uintptr(m.layout.Capacity)]
}

func (m Unmanaged[K, V]) keys() []K {
	if m.layout.KeysStart >= uintptr(len(m.region)) {
		return make([]K, m.layout.Capacity)
	}
	return unsafe.Slice((*K)(unsafe.Pointer(&m.region[m.layout.KeysStart])), m.layout.Capacity)
}

func (m Unmanaged[K, V]) values() []V {
	if m.layout.ValuesStart >= uintptr(len(m.region)) {
		// Zero-sized values at the very end of the region.
		return make([]V, m.layout.Capacity)
	}
	return unsafe.Slice((*V)(unsafe.Pointer(&m.region[m.layout.ValuesStart])), m.layout.Capacity)
}

// GetIndex returns the slot index holding key.
func (m Unmanaged[K, V]) GetIndex(key K) (uint32, bool) {
	h := m.hdr()
	if h.size == 0 {
		return 0, false
	}

	hash := m.ctx.Hash(key)
	mask := h.capacity - 1
	fp := slotUsed | fingerprint(hash)
	idx := uint32(hash) & mask

	meta := m.metadata()
	keys := m.keys()
	for limit := h.capacity; limit > 0 && meta[idx] != slotFree; limit-- {
		if meta[idx] == fp && m.ctx.Eql(keys[idx], key) {
			return idx, true
		}
		idx = (idx + 1) & mask
	}
	return 0, false
}

// Get returns the value stored for key.
func (m Unmanaged[K, V]) Get(key K) (V, bool) {
	idx, ok := m.GetIndex(key)
	if !ok {
		var zero V
		return zero, false
	}
	return m.values()[idx], true
}

// GetPtr returns a pointer to the value stored for key, or nil.
func (m Unmanaged[K, V]) GetPtr(key K) *V {
	idx, ok := m.GetIndex(key)
	if !ok {
		return nil
	}
	return &m.values()[idx]
}

// Contains reports whether key is present.
func (m Unmanaged[K, V]) Contains(key K) bool {
	_, ok := m.GetIndex(key)
	return ok
}

// GetOrPut finds key or claims a slot for it. A new slot's value is zeroed.
// An existing key is always found, even when the map is full; a missing key
// in a full map returns ErrOutOfMemory and leaves the map unchanged.
func (m Unmanaged[K, V]) GetOrPut(key K) (Entry[K, V], error) {
	h := m.hdr()
	hash := m.ctx.Hash(key)
	mask := h.capacity - 1
	fp := slotUsed | fingerprint(hash)
	idx := uint32(hash) & mask

	meta := m.metadata()
	keys := m.keys()
	tombstone := h.capacity
	limit := h.capacity
	for ; limit > 0 && meta[idx] != slotFree; limit-- {
		if meta[idx] == fp && m.ctx.Eql(keys[idx], key) {
			return m.entryAt(idx, true), nil
		}
		if meta[idx] == slotTombstone && tombstone == h.capacity {
			tombstone = idx
		}
		idx = (idx + 1) & mask
	}

	if tombstone < h.capacity {
		// Reusing a tombstone shortens later probe chains and does not
		// change the number of non-free slots.
		idx = tombstone
	} else {
		invariant(limit > 0, "no free slot after %d probes", h.capacity)
		if h.available == 0 {
			return Entry[K, V]{}, fmt.Errorf("%w: map at load limit (%d/%d)", ErrOutOfMemory, h.size, h.capacity)
		}
		h.available--
	}

	meta[idx] = fp
	keys[idx] = key
	var zero V
	m.values()[idx] = zero
	h.size++
	return m.entryAt(idx, false), nil
}

// Put inserts or overwrites key.
func (m Unmanaged[K, V]) Put(key K, value V) error {
	e, err := m.GetOrPut(key)
	if err != nil {
		return err
	}
	*e.Value = value
	return nil
}

// putNew inserts a key known to be absent, skipping equality checks. Used
// when rehashing live entries into a fresh region.
func (m Unmanaged[K, V]) putNew(key K, value V) uint32 {
	h := m.hdr()
	hash := m.ctx.Hash(key)
	mask := h.capacity - 1
	idx := uint32(hash) & mask

	meta := m.metadata()
	for meta[idx]&slotUsed != 0 {
		idx = (idx + 1) & mask
	}
	invariant(h.available > 0 || meta[idx] == slotTombstone, "rehash target over load limit")
	if meta[idx] == slotFree {
		h.available--
	}

	meta[idx] = slotUsed | fingerprint(hash)
	m.keys()[idx] = key
	m.values()[idx] = value
	h.size++
	return idx
}

// Remove deletes key, leaving a tombstone in its slot.
func (m Unmanaged[K, V]) Remove(key K) bool {
	idx, ok := m.GetIndex(key)
	if !ok {
		return false
	}
	m.RemoveAt(idx)
	return true
}

// RemoveAt deletes the live entry in slot idx, as previously returned by
// GetIndex or GetOrPut. Removing a slot that is not live panics.
func (m Unmanaged[K, V]) RemoveAt(idx uint32) {
	h := m.hdr()
	invariant(idx < h.capacity, "slot %d out of range %d", idx, h.capacity)
	meta := m.metadata()
	invariant(meta[idx]&slotUsed != 0, "slot %d is not live", idx)

	meta[idx] = slotTombstone
	var (
		zk K
		zv V
	)
	m.keys()[idx] = zk
	m.values()[idx] = zv
	h.size--
}

// RemoveByPtr deletes the entry whose key lives at key, a pointer previously
// obtained from this map (Entry.Key or KeyPtrAt). The slot is derived from
// the pointer's offset into the key array; the key is not rehashed.
func (m Unmanaged[K, V]) RemoveByPtr(key *K) {
	size := unsafe.Sizeof(*key)
	invariant(size > 0, "cannot locate zero-sized keys by address")
	base := uintptr(unsafe.Pointer(&m.region[m.layout.KeysStart]))
	off := uintptr(unsafe.Pointer(key)) - base
	invariant(off < uintptr(m.layout.Capacity)*size && off%size == 0, "key pointer outside key array")
	m.RemoveAt(uint32(off / size))
}

// IsLive reports whether slot idx holds a live entry.
func (m Unmanaged[K, V]) IsLive(idx uint32) bool {
	return idx < m.layout.Capacity && m.metadata()[idx]&slotUsed != 0
}

// KeyAt returns the key in slot idx. The slot must be live.
func (m Unmanaged[K, V]) KeyAt(idx uint32) K {
	invariant(m.IsLive(idx), "slot %d is not live", idx)
	return m.keys()[idx]
}

// KeyPtrAt returns a pointer to the key in slot idx. The slot must be live.
func (m Unmanaged[K, V]) KeyPtrAt(idx uint32) *K {
	invariant(m.IsLive(idx), "slot %d is not live", idx)
	return &m.keys()[idx]
}

// ValueAt returns the value in slot idx. The slot must be live.
func (m Unmanaged[K, V]) ValueAt(idx uint32) V {
	invariant(m.IsLive(idx), "slot %d is not live", idx)
	return m.values()[idx]
}

// ValuePtrAt returns a pointer to the value in slot idx. The slot must be live.
func (m Unmanaged[K, V]) ValuePtrAt(idx uint32) *V {
	invariant(m.IsLive(idx), "slot %d is not live", idx)
	return &m.values()[idx]
}

// Clear removes every entry, tombstones included.
func (m Unmanaged[K, V]) Clear() {
	h := m.hdr()
	clear(m.region[m.layout.MetadataStart:])
	h.size = 0
	h.available = MaxLoad(h.capacity, uint8(h.maxLoad))
}

// CopyInto rehashes every live entry into dst, which must have room for
// them. Tombstones are not carried over. remap, if non-nil, is called with
// the old and new slot index of each entry.
func (m Unmanaged[K, V]) CopyInto(dst Unmanaged[K, V], remap func(oldIdx, newIdx uint32)) error {
	if dst.Available() < m.Count() {
		return fmt.Errorf("%w: destination has room for %d of %d entries", ErrOutOfMemory, dst.Available(), m.Count())
	}
	it := m.Iterator()
	for it.Next() {
		n := dst.putNew(it.Key(), it.Value())
		if remap != nil {
			remap(it.Index(), n)
		}
	}
	return nil
}

func (m Unmanaged[K, V]) entryAt(idx uint32, found bool) Entry[K, V] {
	return Entry[K, V]{
		Index: idx,
		Key:   &m.keys()[idx],
		Value: &m.values()[idx],
		Found: found,
	}
}

// Iterator returns an iterator over live entries in slot order.
func (m Unmanaged[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, idx: -1}
}
