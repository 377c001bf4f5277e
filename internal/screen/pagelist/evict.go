package pagelist

import "go.uber.org/zap"

// EvictIfOverLimit removes head pages while the list exceeds its
// scrollback limit, never touching pages the active area needs. Tracked
// pins into evicted pages move to the first row of the new head. It
// returns the number of pages evicted.
func (pl *PageList) EvictIfOverLimit() int {
	evicted := 0
	for pl.overLimit() && pl.canEvictHead() {
		pl.evictHead()
		evicted++
	}
	return evicted
}

// DropOldest evicts the head page regardless of the limit, if the active
// area does not need it. Writers use it to make room after an allocation
// failure.
func (pl *PageList) DropOldest() bool {
	if !pl.canEvictHead() {
		return false
	}
	pl.evictHead()
	return true
}

// SetScrollbackLimit changes the limit and evicts immediately.
func (pl *PageList) SetScrollbackLimit(limit int, unit LimitUnit) error {
	cfg := pl.cfg
	cfg.ScrollbackLimit, cfg.LimitUnit = limit, unit
	if err := cfg.Validate(); err != nil {
		return err
	}
	pl.cfg = cfg
	pl.EvictIfOverLimit()
	return nil
}

func (pl *PageList) overLimit() bool {
	if pl.cfg.ScrollbackLimit == 0 {
		return false
	}
	if pl.cfg.LimitUnit == LimitBytes {
		return pl.totalBytes > pl.cfg.ScrollbackLimit
	}
	return pl.totalRows > pl.cfg.ScrollbackLimit
}

func (pl *PageList) canEvictHead() bool {
	return pl.head != pl.tail && pl.totalRows-pl.head.rows() >= pl.cfg.Rows
}

func (pl *PageList) evictHead() {
	n := pl.head
	rows, bytes := n.rows(), n.page.MemoryBytes()
	pl.unlink(n)
	pl.totalRows -= rows

	for tp := range pl.tracked {
		if tp.node == n {
			*tp = Pin{node: pl.head}
		}
	}

	pl.pool.put(n.page)
	n.page = nil
	pl.opts.observer.PageEvicted(rows, bytes)
	pl.log.Debug("page evicted",
		zap.Uint64("serial", n.serial),
		zap.Int("rows", rows),
		zap.Int("bytes", bytes),
		zap.Int("retained_rows", pl.totalRows))
}
