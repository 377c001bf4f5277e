package page

import (
	"errors"

	"github.com/dshills/termcore/internal/screen/region"
)

var (
	// ErrOutOfMemory is returned when a table or the grapheme arena is full
	// or the allocator fails. The page is unchanged.
	ErrOutOfMemory = region.ErrOutOfMemory

	// ErrOutOfBounds is returned for coordinates outside the used rows or
	// the column count.
	ErrOutOfBounds = errors.New("page: out of bounds")

	// ErrInvalidCapacity is returned for capacities that cannot be laid out.
	ErrInvalidCapacity = errors.New("page: invalid capacity")

	// ErrCorrupt is returned by Verify.
	ErrCorrupt = errors.New("page: integrity check failed")
)
