// Package pagelist chains pages into the full terminal screen: scrollback
// history followed by the active area.
//
// The list is doubly linked and ordered oldest first. New rows are always
// appended to the tail page; when it is full a new page is linked after it.
// The last Config.Rows rows form the active area that escape sequences
// address. Everything above is scrollback, bounded by the configured limit
// in rows or bytes and trimmed by evicting whole pages from the head.
//
// # Pins
//
// A Pin names a row (and column) by page node and row offset. Pins are
// plain values and become stale when their page is evicted or the list is
// reflowed. Pins registered with TrackPin are owned by the list and are
// kept valid: eviction clamps them to the first row of the new head and
// reflow moves them to the new position of the cell they referenced. The
// viewport is a tracked pin.
//
// # Reflow
//
// Reflow rebuilds the whole chain at a new width. Logical lines are
// recovered from the wrapped flag of each row, trailing empty cells of
// unwrapped rows are dropped and wide characters never straddle a row
// edge. The new chain is built on the side and swapped in only when
// complete, so an allocation failure leaves the list as it was.
//
// # Concurrency
//
// A PageList has a single writer and no internal locking. Readers on other
// goroutines either hold a lock shared with the writer or work from a
// Snapshot, which owns cloned pages.
package pagelist
