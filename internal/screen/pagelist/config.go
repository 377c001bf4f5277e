package pagelist

import (
	"fmt"
	"math"

	"github.com/dshills/termcore/internal/screen/page"
)

// LimitUnit selects what ScrollbackLimit counts.
type LimitUnit uint8

const (
	// LimitRows bounds the number of retained rows.
	LimitRows LimitUnit = iota
	// LimitBytes bounds the memory of retained pages.
	LimitBytes
)

// String returns "rows" or "bytes".
func (u LimitUnit) String() string {
	switch u {
	case LimitRows:
		return "rows"
	case LimitBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// ParseLimitUnit parses the String form of a LimitUnit.
func ParseLimitUnit(s string) (LimitUnit, error) {
	switch s {
	case "rows", "":
		return LimitRows, nil
	case "bytes":
		return LimitBytes, nil
	}
	return 0, fmt.Errorf("%w: limit unit %q", ErrInvalidConfig, s)
}

// Config sizes a PageList.
type Config struct {
	// Cols and Rows are the size of the active area.
	Cols int
	Rows int

	// RowsPerPage is the row capacity of each page.
	RowsPerPage int

	// ScrollbackLimit bounds the whole list, active area included, in
	// LimitUnit units. Zero means unbounded.
	ScrollbackLimit int
	LimitUnit       LimitUnit

	// MaxLoadPercentage is the load factor of the page tables.
	MaxLoadPercentage uint8
}

// DefaultConfig returns an 80x24 screen with 10000 rows of history.
func DefaultConfig() Config {
	return Config{
		Cols:              80,
		Rows:              24,
		RowsPerPage:       int(page.StdCapacity.Rows),
		ScrollbackLimit:   10000,
		LimitUnit:         LimitRows,
		MaxLoadPercentage: 80,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Cols < 2 || c.Cols > math.MaxUint16:
		return fmt.Errorf("%w: cols %d outside 2..%d", ErrInvalidConfig, c.Cols, math.MaxUint16)
	case c.Rows < 1:
		return fmt.Errorf("%w: rows %d", ErrInvalidConfig, c.Rows)
	case c.RowsPerPage < 1 || c.RowsPerPage > math.MaxUint16:
		return fmt.Errorf("%w: rows per page %d outside 1..%d", ErrInvalidConfig, c.RowsPerPage, math.MaxUint16)
	case c.ScrollbackLimit < 0:
		return fmt.Errorf("%w: scrollback limit %d", ErrInvalidConfig, c.ScrollbackLimit)
	case c.LimitUnit > LimitBytes:
		return fmt.Errorf("%w: limit unit %d", ErrInvalidConfig, c.LimitUnit)
	case c.MaxLoadPercentage < 1 || c.MaxLoadPercentage > 99:
		return fmt.Errorf("%w: max load percentage %d outside 1..99", ErrInvalidConfig, c.MaxLoadPercentage)
	}
	return page.Capacity{Cols: uint16(c.Cols), Rows: uint16(c.RowsPerPage)}.Validate()
}

// capacity returns the capacity of a fresh page.
func (c Config) capacity() page.Capacity {
	pc := page.StdCapacity
	pc.Cols = uint16(c.Cols)
	pc.Rows = uint16(c.RowsPerPage)
	pc.MaxLoad = c.MaxLoadPercentage
	return pc
}
