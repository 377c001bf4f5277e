package offsetmap

import (
	"errors"

	"github.com/dshills/termcore/internal/screen/region"
)

// Errors returned by map operations.
var (
	// ErrOutOfMemory indicates the map is at its load limit and could not
	// grow. For Unmanaged views this is the normal "full" signal.
	ErrOutOfMemory = region.ErrOutOfMemory

	// ErrCapacityOverflow indicates a requested capacity exceeds MaxCapacity.
	ErrCapacityOverflow = errors.New("offsetmap: capacity overflow")

	// ErrRegionTooSmall indicates a region cannot hold the requested layout.
	ErrRegionTooSmall = errors.New("offsetmap: region too small for layout")

	// ErrMisaligned indicates a region base does not satisfy the layout's alignment.
	ErrMisaligned = errors.New("offsetmap: region misaligned")
)
