package page

import "github.com/dshills/termcore/internal/screen/region"

type options struct {
	alloc region.Allocator
}

// Option configures a Page.
type Option func(*options)

// WithAllocator sets the allocator used for the page memory and for every
// page derived from it by Clone or GrowTo.
func WithAllocator(a region.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}
