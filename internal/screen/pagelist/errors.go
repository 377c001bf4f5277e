package pagelist

import (
	"errors"

	"github.com/dshills/termcore/internal/screen/page"
)

var (
	// ErrInvalidConfig is returned by New and Config.Validate.
	ErrInvalidConfig = errors.New("pagelist: invalid config")

	// ErrOutOfMemory is returned when a page cannot be allocated or grown.
	// The list is unchanged.
	ErrOutOfMemory = page.ErrOutOfMemory

	// ErrOutOfBounds is returned for columns or points outside the list.
	ErrOutOfBounds = page.ErrOutOfBounds

	// ErrStalePin is returned when a write names a pin whose page has been
	// evicted or reflowed away.
	ErrStalePin = errors.New("pagelist: stale pin")
)
