package offsetmap

// Iterator walks the live entries of a map in slot order.
//
// An iterator is lazy and finite. It must not be used after the map it was
// created from is mutated.
type Iterator[K, V any] struct {
	m   Unmanaged[K, V]
	idx int64
}

// Next advances to the next live entry.
// Returns true if there is an entry, false if iteration is complete.
func (it *Iterator[K, V]) Next() bool {
	if it.m.region == nil {
		return false
	}
	meta := it.m.metadata()
	for it.idx++; it.idx < int64(len(meta)); it.idx++ {
		if meta[it.idx]&slotUsed != 0 {
			return true
		}
	}
	return false
}

// Index returns the slot index of the current entry.
func (it *Iterator[K, V]) Index() uint32 { return uint32(it.idx) }

// Key returns the current key.
func (it *Iterator[K, V]) Key() K { return it.m.keys()[it.idx] }

// Value returns the current value.
func (it *Iterator[K, V]) Value() V { return it.m.values()[it.idx] }

// ValuePtr returns a pointer to the current value.
func (it *Iterator[K, V]) ValuePtr() *V { return &it.m.values()[it.idx] }
