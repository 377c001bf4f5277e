package offsetmap

import (
	"testing"
)

func BenchmarkMapPut(b *testing.B) {
	m := newMap()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Put(uint32(i&0xffff), uint32(i))
	}
}

func BenchmarkMapGetHit(b *testing.B) {
	m := newMap()
	for i := range uint32(4096) {
		_ = m.Put(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Get(uint32(i & 4095))
	}
}

func BenchmarkMapGetMiss(b *testing.B) {
	m := newMap()
	for i := range uint32(4096) {
		_ = m.Put(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Get(uint32(i) | 1<<20)
	}
}

func BenchmarkMapChurn(b *testing.B) {
	m := newMap()
	_ = m.EnsureCapacity(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := uint32(i & 1023)
		_ = m.Put(k, k)
		m.Remove(k)
	}
}
