package offsetmap

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termcore/internal/screen/region"
)

func newMap() *Map[uint32, uint32] {
	return New[uint32, uint32](IntContext[uint32]{})
}

func TestMapStartsUnallocated(t *testing.T) {
	m := newMap()
	assert.Zero(t, m.Capacity())
	assert.Zero(t, m.Count())
	assert.False(t, m.Contains(1))
	assert.False(t, m.Remove(1))
	assert.False(t, m.Iterator().Next())

	require.NoError(t, m.Put(1, 1))
	assert.Equal(t, uint32(MinimalCapacity), m.Capacity())
}

func TestMapGrowthSequence(t *testing.T) {
	m := newMap()
	for i := range uint32(127) {
		require.NoError(t, m.Put(i, i))
		assert.LessOrEqual(t, m.Count(), MaxLoad(m.Capacity(), DefaultMaxLoadPercentage))
	}
	assert.Equal(t, uint32(127), m.Count())
	assert.Equal(t, uint32(256), m.Capacity())
}

func TestMapEnsureCapacity(t *testing.T) {
	m := newMap()
	require.NoError(t, m.EnsureCapacity(65))
	assert.Equal(t, uint32(128), m.Capacity())

	before := m.Capacity()
	for i := range uint32(65) {
		require.NoError(t, m.Put(i, i))
	}
	assert.Equal(t, before, m.Capacity())
}

func TestMapEnsureCapacityNeverReallocates(t *testing.T) {
	for _, n := range []uint32{1, 5, 6, 7, 13, 100, 1000} {
		m := newMap()
		require.NoError(t, m.EnsureCapacity(n))
		base := &m.Unmanaged().Region()[0]
		for i := range n {
			require.NoError(t, m.Put(i*7, i))
		}
		assert.Same(t, base, &m.Unmanaged().Region()[0], "n=%d", n)
	}
}

func TestMapRemoveEveryThird(t *testing.T) {
	m := newMap()
	for i := range uint32(16) {
		require.NoError(t, m.Put(i, i*2))
	}
	for i := uint32(0); i < 16; i += 3 {
		assert.True(t, m.Remove(i))
	}

	live := 0
	it := m.Iterator()
	for it.Next() {
		live++
		assert.NotZero(t, it.Key()%3, "key %d should be removed", it.Key())
		assert.Equal(t, it.Key()*2, it.Value())
	}
	assert.Equal(t, 10, live)
	assert.Equal(t, uint32(10), m.Count())

	for i := uint32(0); i < 16; i += 3 {
		require.NoError(t, m.Put(i, i*2))
	}
	assert.Equal(t, uint32(16), m.Count())
	for i := range uint32(16) {
		v, ok := m.Get(i)
		require.True(t, ok)
		assert.Equal(t, i*2, v)
	}
}

func TestMapCloneIsIndependent(t *testing.T) {
	m := newMap()
	for i := range uint32(40) {
		require.NoError(t, m.Put(i, i+1))
	}
	m.Remove(5)

	c, err := m.Clone()
	require.NoError(t, err)
	assert.Equal(t, m.Count(), c.Count())
	assert.Equal(t, CapacityForSize(m.Count(), DefaultMaxLoadPercentage), c.Capacity())

	it := m.Iterator()
	for it.Next() {
		v, ok := c.Get(it.Key())
		require.True(t, ok)
		assert.Equal(t, it.Value(), v)
	}

	require.NoError(t, c.Put(1, 999))
	c.Remove(2)
	require.NoError(t, c.Put(1000, 1))

	v, _ := m.Get(1)
	assert.Equal(t, uint32(2), v)
	assert.True(t, m.Contains(2))
	assert.False(t, m.Contains(1000))
}

func TestMapCloneEmpty(t *testing.T) {
	c, err := newMap().Clone()
	require.NoError(t, err)
	assert.Zero(t, c.Capacity())
}

func TestMapGrowFailureKeepsState(t *testing.T) {
	// Enough for the first region only.
	budget := int(LayoutFor[uint32, uint32](8).TotalSize) + 8
	m := New[uint32, uint32](IntContext[uint32]{}, WithAllocator(region.Budget(budget)))

	for i := range uint32(6) {
		require.NoError(t, m.Put(i, i))
	}
	err := m.Put(100, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Equal(t, uint32(6), m.Count())
	assert.Equal(t, uint32(8), m.Capacity())

	// Existing keys can still be updated without allocating.
	require.NoError(t, m.Put(3, 33))
	v, _ := m.Get(3)
	assert.Equal(t, uint32(33), v)
}

func TestMapTombstonesReclaimedOnGrow(t *testing.T) {
	m := newMap()
	for round := range uint32(50) {
		require.NoError(t, m.Put(round, round))
		require.True(t, m.Remove(round))
	}
	assert.Zero(t, m.Count())
	// Churn never grows the map beyond what its live count needs.
	assert.LessOrEqual(t, m.Capacity(), uint32(16))
}

func TestMapCustomLoadFactor(t *testing.T) {
	m := New[uint32, uint32](IntContext[uint32]{}, WithMaxLoadPercentage(50))
	for i := range uint32(9) {
		require.NoError(t, m.Put(i, i))
	}
	// 9 entries at 50% need 9*100/50+1 = 19 -> 32 slots.
	assert.Equal(t, uint32(32), m.Capacity())

	assert.Panics(t, func() { New[uint32, uint32](IntContext[uint32]{}, WithMaxLoadPercentage(100)) })
	assert.Panics(t, func() { New[uint32, uint32](IntContext[uint32]{}, WithMaxLoadPercentage(0)) })
}

func TestMapRandomAgainstBuiltin(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := newMap()
	want := make(map[uint32]uint32)

	for range 20000 {
		k := uint32(rng.Intn(500))
		switch rng.Intn(3) {
		case 0, 1:
			v := rng.Uint32()
			require.NoError(t, m.Put(k, v))
			want[k] = v
		case 2:
			_, had := want[k]
			assert.Equal(t, had, m.Remove(k))
			delete(want, k)
		}
		require.Equal(t, uint32(len(want)), m.Count())
	}

	for k, v := range want {
		got, ok := m.Get(k)
		require.True(t, ok, "key %d", k)
		assert.Equal(t, v, got)
	}
	assert.LessOrEqual(t, m.Count(), MaxLoad(m.Capacity(), DefaultMaxLoadPercentage))
}

type pairKey struct {
	A, B uint16
}

type pairContext struct{}

func (pairContext) Hash(k pairKey) uint64 {
	return IntContext[uint32]{}.Hash(uint32(k.A)<<16 | uint32(k.B))
}

func (pairContext) Eql(a, b pairKey) bool { return a == b }

func TestMapStructKeys(t *testing.T) {
	m := New[pairKey, uint8](pairContext{})
	require.NoError(t, m.Put(pairKey{1, 2}, 3))
	require.NoError(t, m.Put(pairKey{2, 1}, 4))

	v, ok := m.Get(pairKey{1, 2})
	assert.True(t, ok)
	assert.Equal(t, uint8(3), v)
	assert.False(t, m.Contains(pairKey{1, 1}))
}

func TestMapRemoveByPtr(t *testing.T) {
	m := newMap()
	for i := range uint32(30) {
		require.NoError(t, m.Put(i, i))
	}
	e, err := m.GetOrPut(12)
	require.NoError(t, err)
	m.RemoveByPtr(e.Key)
	assert.False(t, m.Contains(12))
	assert.Equal(t, uint32(29), m.Count())
}

func TestMapFree(t *testing.T) {
	m := newMap()
	require.NoError(t, m.Put(1, 1))
	m.Free()
	assert.Zero(t, m.Capacity())
	assert.False(t, m.Contains(1))
	require.NoError(t, m.Put(2, 2))
	assert.Equal(t, uint32(1), m.Count())
}

func TestMapCloneInto(t *testing.T) {
	m := newMap()
	for i := range uint32(20) {
		require.NoError(t, m.Put(i, i*2))
	}

	layout := LayoutFor[uint32, uint32](64)
	buf, err := region.Alloc(nil, layout.TotalSize)
	require.NoError(t, err)

	view, err := m.CloneInto(buf, 64)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), view.Count())
	assert.Equal(t, uint32(64), view.Capacity())
	v, ok := view.Get(7)
	require.True(t, ok)
	assert.Equal(t, uint32(14), v)

	require.NoError(t, view.Put(7, 0))
	v, _ = m.Get(7)
	assert.Equal(t, uint32(14), v)

	_, err = m.CloneInto(buf, 8)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	empty, err := newMap().CloneInto(buf, 8)
	require.NoError(t, err)
	assert.Zero(t, empty.Count())
}
