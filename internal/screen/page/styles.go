package page

import (
	"fmt"

	"github.com/dshills/termcore/internal/screen/offsetmap"
	"github.com/dshills/termcore/internal/screen/region"
	"github.com/dshills/termcore/internal/screen/style"
)

// InternStyle returns the ID of s, inserting it if needed. The default style
// is always DefaultID. When the table is full, unused styles are collected
// before giving up with ErrOutOfMemory.
func (p *Page) InternStyle(s style.Style) (style.ID, error) {
	if s.IsDefault() {
		return style.DefaultID, nil
	}
	e, err := p.styles.GetOrPut(s)
	if err != nil {
		p.CollectStyles()
		if e, err = p.styles.GetOrPut(s); err != nil {
			return style.DefaultID, fmt.Errorf("page: intern style: %w", err)
		}
	}
	return style.ID(e.Index + 1), nil
}

// Style returns the attributes of id.
func (p *Page) Style(id style.ID) style.Style {
	if id == style.DefaultID {
		return style.Style{}
	}
	return p.styles.KeyAt(uint32(id) - 1)
}

// StyleRefs returns the number of cells using id.
func (p *Page) StyleRefs(id style.ID) uint32 {
	if id == style.DefaultID {
		return 0
	}
	return p.styles.ValueAt(uint32(id) - 1)
}

// ReleaseStyle removes id from the table if no cell uses it and reports
// whether it was removed.
func (p *Page) ReleaseStyle(id style.ID) bool {
	if id == style.DefaultID || !p.styles.IsLive(uint32(id)-1) {
		return false
	}
	if p.styles.ValueAt(uint32(id)-1) != 0 {
		return false
	}
	p.styles.RemoveAt(uint32(id) - 1)
	return true
}

// CollectStyles removes every style no cell uses and returns how many were
// removed. Remaining styles may be renumbered; cells are updated to match.
func (p *Page) CollectStyles() int {
	removed := 0
	for idx := range p.styles.Capacity() {
		if p.styles.IsLive(idx) && p.styles.ValueAt(idx) == 0 {
			p.styles.RemoveAt(idx)
			removed++
		}
	}
	if tombstones(p.styles) > 0 {
		remap := make([]style.ID, p.styles.Capacity()+1)
		if err := rehash(p.styles, style.Context{}, p.alloc, func(o, n uint32) { remap[o+1] = style.ID(n + 1) }); err == nil {
			for i := range p.cells {
				if id := p.cells[i].Style; id != style.DefaultID {
					p.cells[i].Style = remap[id]
				}
			}
		}
	}
	return removed
}

func (p *Page) styleRef(id style.ID) *uint32 {
	idx := uint32(id) - 1
	invariant(p.styles.IsLive(idx), "style %d is not interned", id)
	return p.styles.ValuePtrAt(idx)
}

func (p *Page) unrefStyle(id style.ID) {
	ref := p.styleRef(id)
	invariant(*ref > 0, "style %d released with no references", id)
	*ref--
}

// tombstones returns the number of removed slots still counted against the
// load limit of t.
func tombstones[K, V any](t offsetmap.Unmanaged[K, V]) uint32 {
	return offsetmap.MaxLoad(t.Capacity(), t.MaxLoadPercentage()) - t.Available() - t.Count()
}

// rehash rebuilds t in place without tombstones. remap receives the old and
// new slot of every live entry.
func rehash[K, V any](t offsetmap.Unmanaged[K, V], ctx offsetmap.Context[K], alloc region.Allocator, remap func(oldIdx, newIdx uint32)) error {
	l := t.Layout()
	buf, err := region.Alloc(alloc, l.TotalSize)
	if err != nil {
		return err
	}
	tmp, err := offsetmap.Init[K, V](buf, l.Capacity, t.MaxLoadPercentage(), ctx)
	if err != nil {
		return err
	}
	if err := t.CopyInto(tmp, remap); err != nil {
		return err
	}
	copy(t.Region(), tmp.Region())
	return nil
}

// putCompacting inserts key into t, reclaiming tombstones once if t is at
// its load limit.
func putCompacting[K, V any](t offsetmap.Unmanaged[K, V], ctx offsetmap.Context[K], alloc region.Allocator, key K, value V) error {
	err := t.Put(key, value)
	if err == nil || tombstones(t) == 0 {
		return err
	}
	if rerr := rehash(t, ctx, alloc, nil); rerr != nil {
		return err
	}
	return t.Put(key, value)
}
