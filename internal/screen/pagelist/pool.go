package pagelist

import (
	"sync"

	"github.com/dshills/termcore/internal/screen/page"
)

// pagePool recycles evicted pages of the list's standard capacity so that
// steady-state scrolling reuses memory instead of allocating.
type pagePool struct {
	cap  page.Capacity
	pool sync.Pool
}

func newPagePool(c page.Capacity) *pagePool {
	return &pagePool{cap: c}
}

// get returns an empty pooled page, or nil if none is available.
func (pp *pagePool) get() *page.Page {
	p, _ := pp.pool.Get().(*page.Page)
	if p != nil {
		p.Reset()
	}
	return p
}

// put offers p for reuse. Grown pages are left to the garbage collector.
func (pp *pagePool) put(p *page.Page) {
	if p == nil || p.Capacity() != pp.cap {
		return
	}
	pp.pool.Put(p)
}
