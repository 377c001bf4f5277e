package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/config"
	"github.com/dshills/termcore/internal/logging"
	"github.com/dshills/termcore/internal/metrics"
	"github.com/dshills/termcore/internal/render"
	"github.com/dshills/termcore/internal/report"
	"github.com/dshills/termcore/internal/terminal"
)

const statsInterval = time.Second

// app drives one terminal from a byte stream or a command to the screen,
// a text dump or a report.
type app struct {
	opts        options
	cfg         config.Config
	log         *logging.Logger
	collector   *metrics.Collector
	stdin       io.Reader
	stdout      io.Writer
	interactive bool

	view atomic.Pointer[render.View]
}

// run returns the command's exit code, or 0 for a replay.
func (a *app) run(ctx context.Context) (int, error) {
	plc, err := a.cfg.PageList()
	if err != nil {
		return 1, err
	}
	term, err := terminal.New(plc,
		terminal.WithLogger(a.log.Logger),
		terminal.WithObserver(a.collector),
		terminal.WithOutputHandler(func([]byte) {
			if v := a.view.Load(); v != nil {
				v.Invalidate()
			}
		}),
	)
	if err != nil {
		return 1, err
	}
	defer func() { _ = term.Close() }()
	a.log = a.log.WithTerminal(term.ID())

	if a.opts.configPath != "" {
		w, err := a.watchConfig(term)
		if err != nil {
			a.log.Warn("config watch disabled", zap.Error(err))
		} else {
			defer func() { _ = w.Close() }()
		}
	}
	if a.opts.metricsAddr != "" {
		go a.observeStats(ctx, term)
	}

	var code int
	if len(a.opts.command) > 0 {
		code, err = a.runCommand(ctx, term)
	} else {
		err = a.replay(ctx, term)
	}
	if err != nil {
		return 1, err
	}
	a.collector.Observe(term.Stats())

	if a.opts.dumpPath != "" {
		if err := writeDump(a.opts.dumpPath, term); err != nil {
			return 1, err
		}
	}
	if !a.interactive {
		if err := a.output(term); err != nil {
			return 1, err
		}
	}
	return code, nil
}

func (a *app) runCommand(ctx context.Context, term *terminal.Terminal) (int, error) {
	cmd := exec.Command(a.opts.command[0], a.opts.command[1:]...)

	if !a.interactive {
		if err := term.Start(ctx, cmd); err != nil {
			return 1, err
		}
		select {
		case <-term.Done():
		case <-ctx.Done():
			return 1, ctx.Err()
		}
		return term.ExitCode(), nil
	}

	screen, err := newScreen()
	if err != nil {
		return 1, err
	}
	defer screen.Fini()

	// The PTY starts at the screen's size so the command never sees the
	// configured one.
	w, h := screen.Size()
	if err := term.Resize(w, h); err != nil {
		a.log.Warn("resize to screen", zap.Error(err))
	}
	view, err := a.newView(screen, term, true)
	if err != nil {
		return 1, err
	}
	if err := term.Start(ctx, cmd); err != nil {
		return 1, err
	}
	if err := view.Run(ctx); err != nil {
		return 1, err
	}

	select {
	case <-term.Done():
		return term.ExitCode(), nil
	default:
		return 0, nil
	}
}

func (a *app) replay(ctx context.Context, term *terminal.Terminal) error {
	in := a.stdin
	if a.opts.input != "" {
		f, err := os.Open(a.opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if _, err := io.Copy(term, in); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	a.log.Debug("replayed", zap.Int("rows", term.Stats().Rows))

	if !a.interactive {
		return nil
	}
	screen, err := newScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()
	view, err := a.newView(screen, term, false)
	if err != nil {
		return err
	}
	return view.Run(ctx)
}

func (a *app) newView(screen tcell.Screen, term *terminal.Terminal, input bool) (*render.View, error) {
	fg, bg, err := a.cfg.Colors()
	if err != nil {
		return nil, err
	}
	v := render.NewView(screen, term, render.Theme{Foreground: fg, Background: bg},
		render.WithInput(input),
		render.WithViewLogger(a.log.WithComponent("view").Logger),
	)
	a.view.Store(v)
	return v, nil
}

// output prints the result of a non-interactive run.
func (a *app) output(term *terminal.Terminal) error {
	switch {
	case a.opts.jsonOut:
		doc, err := report.Build(term.Stats(), "id", term.ID(), "title", term.Title())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.stdout, "%s\n", doc)
		return err
	case a.opts.scrollback:
		snap, err := term.SnapshotAll()
		if err != nil {
			return err
		}
		return report.WriteDump(a.stdout, snap, false)
	default:
		_, err := fmt.Fprintln(a.stdout, term.Text())
		return err
	}
}

// watchConfig applies scrollback limit changes from the config file.
// Screen size changes are ignored since the screen owns the size.
func (a *app) watchConfig(term *terminal.Terminal) (*config.Watcher, error) {
	w, err := config.NewWatcher(a.opts.configPath, config.WithWatcherLogger(a.log.Logger))
	if err != nil {
		return nil, err
	}
	err = w.OnChange(func(c config.Config) {
		plc, err := c.PageList()
		if err != nil {
			return
		}
		if err := term.SetScrollbackLimit(plc.ScrollbackLimit, plc.LimitUnit); err != nil {
			a.log.Warn("apply scrollback limit", zap.Error(err))
			return
		}
		a.log.Info("scrollback limit changed",
			zap.Int("limit", plc.ScrollbackLimit),
			zap.Stringer("unit", plc.LimitUnit))
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func (a *app) observeStats(ctx context.Context, term *terminal.Terminal) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-term.Done():
			return
		case <-ticker.C:
			a.collector.Observe(term.Stats())
		}
	}
}

func newScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return screen, nil
}

// writeDump saves the full history to path, compressed for a .zst path.
func writeDump(path string, term *terminal.Terminal) error {
	snap, err := term.SnapshotAll()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	compress := strings.EqualFold(filepath.Ext(path), ".zst")
	if err := report.WriteDump(f, snap, compress); err != nil {
		_ = f.Close()
		return fmt.Errorf("dump %s: %w", path, err)
	}
	return f.Close()
}

// serveMetrics serves reg until the returned function is called.
func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
