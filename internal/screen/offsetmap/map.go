package offsetmap

import (
	"fmt"

	"github.com/dshills/termcore/internal/screen/region"
)

// Map is a growable offset hash map that owns its region.
//
// A new Map holds no memory. The first insert allocates MinimalCapacity
// slots; when the load limit is reached the map allocates a larger region,
// rehashes the live entries into it (dropping tombstones) and only then
// releases the old one, so a failed grow leaves the map untouched.
type Map[K, V any] struct {
	um    Unmanaged[K, V]
	ctx   Context[K]
	opts  options
	valid bool
}

// New creates an empty map.
func New[K, V any](ctx Context[K], opts ...Option) *Map[K, V] {
	o := options{
		maxLoad: DefaultMaxLoadPercentage,
		alloc:   region.DefaultAllocator,
	}
	for _, opt := range opts {
		opt(&o)
	}
	checkMaxLoad(o.maxLoad)
	return &Map[K, V]{ctx: ctx, opts: o}
}

// Count returns the number of live entries.
func (m *Map[K, V]) Count() uint32 {
	if !m.valid {
		return 0
	}
	return m.um.Count()
}

// Capacity returns the number of slots, 0 before the first allocation.
func (m *Map[K, V]) Capacity() uint32 {
	if !m.valid {
		return 0
	}
	return m.um.Capacity()
}

// Available returns how many inserts fit before the next grow.
func (m *Map[K, V]) Available() uint32 {
	if !m.valid {
		return 0
	}
	return m.um.Available()
}

// Unmanaged returns the view over the map's current region. The view is
// invalidated by the next grow.
func (m *Map[K, V]) Unmanaged() Unmanaged[K, V] { return m.um }

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if !m.valid {
		var zero V
		return zero, false
	}
	return m.um.Get(key)
}

// GetPtr returns a pointer to the value stored for key, or nil. The pointer
// is valid until the next mutation.
func (m *Map[K, V]) GetPtr(key K) *V {
	if !m.valid {
		return nil
	}
	return m.um.GetPtr(key)
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.valid && m.um.Contains(key)
}

// GetOrPut finds key or inserts it with a zero value, growing as needed.
// If growth fails, an existing key is still found; only an insert of a new
// key reports the allocation error.
func (m *Map[K, V]) GetOrPut(key K) (Entry[K, V], error) {
	if err := m.GrowIfNeeded(1); err != nil {
		if m.valid {
			if idx, ok := m.um.GetIndex(key); ok {
				return m.um.entryAt(idx, true), nil
			}
		}
		return Entry[K, V]{}, err
	}
	return m.um.GetOrPut(key)
}

// Put inserts or overwrites key.
func (m *Map[K, V]) Put(key K, value V) error {
	e, err := m.GetOrPut(key)
	if err != nil {
		return err
	}
	*e.Value = value
	return nil
}

// Remove deletes key.
func (m *Map[K, V]) Remove(key K) bool {
	return m.valid && m.um.Remove(key)
}

// RemoveAt deletes the live entry in slot idx.
func (m *Map[K, V]) RemoveAt(idx uint32) {
	invariant(m.valid, "remove from unallocated map")
	m.um.RemoveAt(idx)
}

// RemoveByPtr deletes the entry whose key lives at key.
func (m *Map[K, V]) RemoveByPtr(key *K) {
	invariant(m.valid, "remove from unallocated map")
	m.um.RemoveByPtr(key)
}

// Iterator returns an iterator over live entries.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	if !m.valid {
		return &Iterator[K, V]{idx: -1}
	}
	return m.um.Iterator()
}

// Clear removes every entry but keeps the allocation.
func (m *Map[K, V]) Clear() {
	if m.valid {
		m.um.Clear()
	}
}

// Free releases the region; the map becomes empty and unallocated.
func (m *Map[K, V]) Free() {
	m.um = Unmanaged[K, V]{}
	m.valid = false
}

// EnsureCapacity makes room for a total of n live entries, so that n
// inserts into an empty map never reallocate.
func (m *Map[K, V]) EnsureCapacity(n uint32) error {
	if n <= m.Count() {
		return nil
	}
	return m.GrowIfNeeded(n - m.Count())
}

// GrowIfNeeded makes room for additional new keys. The new capacity is
// computed from the live count, so tombstones are reclaimed by the rehash.
func (m *Map[K, V]) GrowIfNeeded(additional uint32) error {
	if m.valid && additional <= m.um.Available() {
		return nil
	}
	want := uint64(m.Count()) + uint64(additional)
	if want > MaxCapacity {
		return fmt.Errorf("%w: %d entries", ErrCapacityOverflow, want)
	}
	capacity := CapacityForSize(uint32(want), m.opts.maxLoad)
	if capacity == 0 {
		return fmt.Errorf("%w: %d entries", ErrCapacityOverflow, want)
	}
	return m.grow(capacity)
}

func (m *Map[K, V]) grow(capacity uint32) error {
	capacity = max(capacity, MinimalCapacity)
	next, err := m.allocate(capacity)
	if err != nil {
		return err
	}
	if m.valid {
		if err := m.um.CopyInto(next, nil); err != nil {
			return err
		}
	}
	m.um = next
	m.valid = true
	return nil
}

func (m *Map[K, V]) allocate(capacity uint32) (Unmanaged[K, V], error) {
	layout := LayoutFor[K, V](capacity)
	buf, err := region.Alloc(m.opts.alloc, layout.TotalSize)
	if err != nil {
		return Unmanaged[K, V]{}, fmt.Errorf("offsetmap: allocate %d slots: %w", capacity, err)
	}
	return Init[K, V](buf, capacity, m.opts.maxLoad, m.ctx)
}

// Clone returns an independent map with the same entries, sized for the
// current live count.
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	c := &Map[K, V]{ctx: m.ctx, opts: m.opts}
	if m.Count() == 0 {
		return c, nil
	}
	next, err := c.allocate(CapacityForSize(m.Count(), m.opts.maxLoad))
	if err != nil {
		return nil, err
	}
	if err := m.um.CopyInto(next, nil); err != nil {
		return nil, err
	}
	c.um = next
	c.valid = true
	return c, nil
}

// CloneInto lays out a map of the given capacity in buf and copies the live
// entries into it. The returned view shares nothing with m.
func (m *Map[K, V]) CloneInto(buf []byte, capacity uint32) (Unmanaged[K, V], error) {
	dst, err := Init[K, V](buf, capacity, m.opts.maxLoad, m.ctx)
	if err != nil {
		return Unmanaged[K, V]{}, err
	}
	if m.valid {
		if err := m.um.CopyInto(dst, nil); err != nil {
			return Unmanaged[K, V]{}, err
		}
	}
	return dst, nil
}
