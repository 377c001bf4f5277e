package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/pagelist"
	"github.com/dshills/termcore/internal/vt"
)

const readBufferSize = 4096

// Terminal is a PageList driven by the vt state machine.
type Terminal struct {
	id   string
	opts options
	log  *zap.Logger

	mu     sync.RWMutex
	pl     *pagelist.PageList
	writer *vt.Writer
	parser *vt.Parser
	title  string

	pty      PTY
	cmd      *exec.Cmd
	started  atomic.Bool
	closed   atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
	exitCode atomic.Int32
}

// New creates a terminal with a blank screen of cfg's size.
func New(cfg pagelist.Config, opts ...Option) (*Terminal, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Terminal{
		id:   uuid.New().String(),
		opts: o,
		done: make(chan struct{}),
	}
	t.log = o.logger.Named("terminal").With(zap.String("terminal_id", t.id))
	t.exitCode.Store(-1)

	plOpts := []pagelist.Option{pagelist.WithLogger(o.logger)}
	if o.observer != nil {
		plOpts = append(plOpts, pagelist.WithObserver(o.observer))
	}
	pl, err := pagelist.New(cfg, plOpts...)
	if err != nil {
		return nil, err
	}
	t.pl = pl
	t.writer = vt.NewWriter(pl, nil, o.logger)
	t.parser = vt.NewParser(t.writer)
	t.parser.SetTitleCallback(func(title string) {
		t.title = title
		if t.opts.onTitle != nil {
			t.opts.onTitle(title)
		}
	})
	return t, nil
}

// ID returns the terminal's unique identifier.
func (t *Terminal) ID() string {
	return t.id
}

// Write applies a batch of output bytes under the write lock. It
// implements io.Writer so a stream can be copied into the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, ErrTerminalClosed
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.parser.Parse(p); err != nil {
		if errors.Is(err, vt.ErrClosed) {
			return 0, ErrTerminalClosed
		}
		return 0, err
	}
	return len(p), nil
}

// WriteString applies s.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// SendInput writes to the running command's input.
func (t *Terminal) SendInput(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, ErrTerminalClosed
	}
	pt, _ := t.session()
	if pt == nil {
		return 0, ErrNotStarted
	}
	return pt.Write(p)
}

func (t *Terminal) session() (PTY, *exec.Cmd) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pty, t.cmd
}

// Resize changes the screen size, reflowing its content, and resizes the
// session's PTY.
func (t *Terminal) Resize(cols, rows int) error {
	if t.closed.Load() {
		return ErrTerminalClosed
	}
	t.mu.Lock()
	err := t.writer.Resize(cols, rows)
	t.mu.Unlock()
	if errors.Is(err, vt.ErrClosed) {
		return ErrTerminalClosed
	}
	if err != nil {
		return err
	}
	if pt, _ := t.session(); pt != nil {
		if err := pt.Resize(uint16(cols), uint16(rows)); err != nil {
			return fmt.Errorf("resize PTY: %w", err)
		}
	}
	t.log.Debug("resized", zap.Int("cols", cols), zap.Int("rows", rows))
	return nil
}

// Scroll moves the viewport.
func (t *Terminal) Scroll(s pagelist.Scroll) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pl.ScrollViewport(s)
}

// SetScrollbackLimit changes the scrollback limit.
func (t *Terminal) SetScrollbackLimit(limit int, unit pagelist.LimitUnit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pl.SetScrollbackLimit(limit, unit)
}

// Snapshot copies the rows currently in the viewport.
func (t *Terminal) Snapshot() (*pagelist.Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pl.Snapshot(t.pl.ViewportPin(), t.pl.Rows())
}

// SnapshotAll copies every retained row.
func (t *Terminal) SnapshotAll() (*pagelist.Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	top, _ := t.pl.Pin(pagelist.Point{Tag: pagelist.PointScreen})
	return t.pl.Snapshot(top, t.pl.TotalRows())
}

// WithRead calls fn with the read lock held. fn must not mutate the list.
func (t *Terminal) WithRead(fn func(pl *pagelist.PageList)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn(t.pl)
}

// Text returns the active area as text with trailing blank rows removed.
// Wrapped rows are joined into one line.
func (t *Terminal) Text() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	top, _ := t.pl.Pin(pagelist.Point{Tag: pagelist.PointActive})
	it := t.pl.Viewport(top, t.pl.Rows())
	var rows []string
	wrapped := false
	for it.Next() {
		r := it.Row()
		if wrapped && len(rows) > 0 {
			rows[len(rows)-1] += r.Text()
		} else {
			rows = append(rows, r.Text())
		}
		wrapped = r.Row.Wrapped()
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return strings.Join(rows, "\n")
}

// Stats returns the list's statistics.
func (t *Terminal) Stats() pagelist.Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pl.Stats()
}

// Cursor returns the cursor position.
func (t *Terminal) Cursor() vt.Cursor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.writer.Cursor()
}

// Following reports whether the viewport tracks the active area.
func (t *Terminal) Following() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pl.ViewportFollowsActive()
}

// Link returns the URI of a hyperlink id found in a snapshot cell.
func (t *Terminal) Link(id uint32) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	l, ok := t.writer.Links().Lookup(id)
	return l.URI, ok
}

// Title returns the last title set by the output.
func (t *Terminal) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// Start runs cmd in a PTY of the screen's size and feeds its output to the
// terminal until it exits or ctx is canceled.
func (t *Terminal) Start(ctx context.Context, cmd *exec.Cmd) error {
	if t.closed.Load() {
		return ErrTerminalClosed
	}
	if t.started.Swap(true) {
		return ErrAlreadyStarted
	}

	if cmd.Dir == "" {
		cmd.Dir = t.opts.workDir
	}
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	cmd.Env = append(cmd.Env, t.opts.env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	t.mu.RLock()
	cols, rows := t.pl.Cols(), t.pl.Rows()
	t.mu.RUnlock()

	p, err := StartPTY(cmd, uint16(cols), uint16(rows))
	if err != nil {
		t.started.Store(false)
		return err
	}
	t.mu.Lock()
	if t.closed.Load() {
		t.mu.Unlock()
		_ = cmd.Process.Kill()
		_ = p.Close()
		_ = cmd.Wait()
		return ErrTerminalClosed
	}
	t.pty, t.cmd = p, cmd
	t.mu.Unlock()
	t.log.Info("session started", zap.String("path", cmd.Path), zap.Int("pid", cmd.Process.Pid))

	go t.readLoop()
	go func() {
		select {
		case <-ctx.Done():
			t.log.Info("session canceled", zap.Error(ctx.Err()))
			_ = t.Close()
		case <-t.done:
		}
	}()
	return nil
}

// readLoop applies PTY output until the command's side closes.
func (t *Terminal) readLoop() {
	defer t.finish()

	pt, _ := t.session()
	buf := make([]byte, readBufferSize)
	for {
		n, err := pt.Read(buf)
		if n > 0 {
			data := buf[:n]
			if _, werr := t.Write(data); werr != nil && !errors.Is(werr, ErrTerminalClosed) {
				t.log.Error("apply output", zap.Error(werr))
			}
			if t.opts.onOutput != nil {
				t.opts.onOutput(data)
			}
		}
		if err != nil {
			// Linux reports EIO once the command side is closed.
			if !errors.Is(err, io.EOF) && !t.closed.Load() {
				t.log.Debug("read stopped", zap.Error(err))
			}
			return
		}
	}
}

func (t *Terminal) finish() {
	_, cmd := t.session()
	_ = cmd.Wait()
	if cmd.ProcessState != nil {
		t.exitCode.Store(int32(cmd.ProcessState.ExitCode()))
	}
	t.log.Info("session exited", zap.Int("exit_code", t.ExitCode()))
	t.doneOnce.Do(func() { close(t.done) })
	if t.opts.onExit != nil {
		t.opts.onExit(t.ExitCode())
	}
}

// Done returns a channel closed when the session ends, or when a terminal
// without a session is closed.
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// ExitCode returns the command's exit code, or -1 while it runs.
func (t *Terminal) ExitCode() int {
	return int(t.exitCode.Load())
}

// PID returns the command's process ID, or -1 without a session.
func (t *Terminal) PID() int {
	_, cmd := t.session()
	if cmd == nil || cmd.Process == nil {
		return -1
	}
	return cmd.Process.Pid
}

// Close stops the session, if any, and releases the writer. Reads remain
// possible after Close.
func (t *Terminal) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	if pt, cmd := t.session(); pt != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = pt.Close()
		<-t.done
	} else {
		t.doneOnce.Do(func() { close(t.done) })
	}

	t.mu.Lock()
	t.writer.Close()
	t.mu.Unlock()
	return nil
}
