package config

import (
	"fmt"

	"github.com/dshills/termcore/internal/logging"
	"github.com/dshills/termcore/internal/screen/pagelist"
	"github.com/dshills/termcore/internal/screen/style"
)

// Config holds all termcore settings.
type Config struct {
	Screen     ScreenConfig     `toml:"screen" yaml:"screen" envconfig:"SCREEN"`
	Scrollback ScrollbackConfig `toml:"scrollback" yaml:"scrollback" envconfig:"SCROLLBACK"`
	Page       PageConfig       `toml:"page" yaml:"page" envconfig:"PAGE"`
	Log        LogConfig        `toml:"log" yaml:"log" envconfig:"LOG"`
	Render     RenderConfig     `toml:"render" yaml:"render" envconfig:"RENDER"`
}

// ScreenConfig is the size of the active area.
type ScreenConfig struct {
	Cols int `toml:"cols" yaml:"cols" envconfig:"COLS"`
	Rows int `toml:"rows" yaml:"rows" envconfig:"ROWS"`
}

// ScrollbackConfig bounds retained history. A zero Limit is unbounded.
type ScrollbackConfig struct {
	Limit int    `toml:"limit" yaml:"limit" envconfig:"LIMIT"`
	Unit  string `toml:"unit" yaml:"unit" envconfig:"UNIT"`
}

// PageConfig sizes the pages of the list.
type PageConfig struct {
	RowsPerPage       int   `toml:"rows_per_page" yaml:"rows_per_page" envconfig:"ROWS_PER_PAGE"`
	MaxLoadPercentage uint8 `toml:"max_load_percentage" yaml:"max_load_percentage" envconfig:"MAX_LOAD_PERCENTAGE"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level" envconfig:"LEVEL"`
	Development bool   `toml:"development" yaml:"development" envconfig:"DEVELOPMENT"`
}

// RenderConfig holds the default colors of the interactive view, in any
// form style.ParseColor accepts.
type RenderConfig struct {
	Foreground string `toml:"foreground" yaml:"foreground" envconfig:"FOREGROUND"`
	Background string `toml:"background" yaml:"background" envconfig:"BACKGROUND"`
}

// Default returns the default configuration.
func Default() Config {
	pl := pagelist.DefaultConfig()
	return Config{
		Screen: ScreenConfig{
			Cols: pl.Cols,
			Rows: pl.Rows,
		},
		Scrollback: ScrollbackConfig{
			Limit: pl.ScrollbackLimit,
			Unit:  pl.LimitUnit.String(),
		},
		Page: PageConfig{
			RowsPerPage:       pl.RowsPerPage,
			MaxLoadPercentage: pl.MaxLoadPercentage,
		},
		Log: LogConfig{
			Level: "info",
		},
		Render: RenderConfig{
			Foreground: "default",
			Background: "default",
		},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.PageList(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	_, _, err := c.Colors()
	return err
}

// PageList returns the validated list configuration.
func (c Config) PageList() (pagelist.Config, error) {
	unit, err := pagelist.ParseLimitUnit(c.Scrollback.Unit)
	if err != nil {
		return pagelist.Config{}, fmt.Errorf("%w: scrollback.unit %q", ErrInvalidConfig, c.Scrollback.Unit)
	}
	pl := pagelist.Config{
		Cols:              c.Screen.Cols,
		Rows:              c.Screen.Rows,
		RowsPerPage:       c.Page.RowsPerPage,
		ScrollbackLimit:   c.Scrollback.Limit,
		LimitUnit:         unit,
		MaxLoadPercentage: c.Page.MaxLoadPercentage,
	}
	if err := pl.Validate(); err != nil {
		return pagelist.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return pl, nil
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Development = c.Log.Development
	return lc
}

// Colors returns the parsed default foreground and background colors.
func (c Config) Colors() (fg, bg style.Color, err error) {
	if fg, err = style.ParseColor(c.Render.Foreground); err != nil {
		return fg, bg, fmt.Errorf("%w: render.foreground: %v", ErrInvalidConfig, err)
	}
	if bg, err = style.ParseColor(c.Render.Background); err != nil {
		return fg, bg, fmt.Errorf("%w: render.background: %v", ErrInvalidConfig, err)
	}
	return fg, bg, nil
}
