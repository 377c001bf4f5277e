package page

import "math/bits"

// arena is a chunk allocator for grapheme codepoints. A bitmap marks used
// chunks; an allocation is a run of contiguous chunks.
type arena struct {
	bitmap []uint64
	chunks []rune
}

func (a arena) count() uint32 {
	return uint32(len(a.bitmap)) * 64
}

func (a arena) used(i uint32) bool {
	return a.bitmap[i/64]&(1<<(i%64)) != 0
}

// alloc reserves n contiguous chunks and returns the first one.
func (a arena) alloc(n uint32) (uint32, bool) {
	total := a.count()
	run := uint32(0)
	for i := uint32(0); i < total; i++ {
		if i%64 == 0 && a.bitmap[i/64] == ^uint64(0) {
			run = 0
			i += 63
			continue
		}
		if a.used(i) {
			run = 0
			continue
		}
		run++
		if run == n {
			start := i + 1 - n
			a.mark(start, n, true)
			return start, true
		}
	}
	return 0, false
}

func (a arena) free(start, n uint32) {
	for i := start; i < start+n; i++ {
		invariant(a.used(i), "freeing unused grapheme chunk %d", i)
	}
	a.mark(start, n, false)
}

func (a arena) mark(start, n uint32, used bool) {
	for i := start; i < start+n; i++ {
		if used {
			a.bitmap[i/64] |= 1 << (i % 64)
		} else {
			a.bitmap[i/64] &^= 1 << (i % 64)
		}
	}
}

func (a arena) usedChunks() int {
	n := 0
	for _, w := range a.bitmap {
		n += bits.OnesCount64(w)
	}
	return n
}

func (a arena) runes(s Span) []rune {
	off := s.Offset * chunkRunes
	return a.chunks[off : off+s.Len : off+s.chunks()*chunkRunes]
}
