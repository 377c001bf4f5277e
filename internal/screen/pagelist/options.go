package pagelist

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/region"
)

// Observer receives page lifecycle events, typically to feed metrics.
// Calls happen on the writer goroutine and must not block.
type Observer interface {
	PageAllocated(bytes int)
	PageEvicted(rows, bytes int)
	PageGrown(oldBytes, newBytes int)
	Reflowed(d time.Duration, rows int)
}

type nopObserver struct{}

func (nopObserver) PageAllocated(int)           {}
func (nopObserver) PageEvicted(int, int)        {}
func (nopObserver) PageGrown(int, int)          {}
func (nopObserver) Reflowed(time.Duration, int) {}

type options struct {
	logger   *zap.Logger
	observer Observer
	alloc    region.Allocator
}

// Option configures a PageList.
type Option func(*options)

// WithLogger sets the logger for page lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver sets the page lifecycle observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithAllocator sets the allocator for page memory.
func WithAllocator(a region.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}
