package offsetmap

import "github.com/dshills/termcore/internal/screen/region"

type options struct {
	maxLoad uint8
	alloc   region.Allocator
}

// Option configures a Map during creation.
type Option func(*options)

// WithMaxLoadPercentage sets the load factor (1..99) at which the map grows.
func WithMaxLoadPercentage(p uint8) Option {
	return func(o *options) {
		o.maxLoad = p
	}
}

// WithAllocator sets the allocator used for the map's region.
func WithAllocator(a region.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}
