package render

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/pagelist"
	"github.com/dshills/termcore/internal/vt"
)

// DefaultFrameInterval caps redraws at about 60 per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Source is the terminal a View shows. terminal.Terminal implements it.
type Source interface {
	Snapshot() (*pagelist.Snapshot, error)
	Cursor() vt.Cursor
	Following() bool
	Link(id uint32) (string, bool)
	Resize(cols, rows int) error
	Scroll(s pagelist.Scroll)
	SendInput(p []byte) (int, error)
	Done() <-chan struct{}
}

// View shows a Source on a tcell screen and forwards keys to it.
//
// Shift+PgUp, Shift+PgDn, Shift+Home and Shift+End scroll the viewport.
// Without input forwarding the plain keys scroll too, and q, Esc or Ctrl+C
// end Run.
type View struct {
	screen   tcell.Screen
	src      Source
	painter  *Painter
	log      *zap.Logger
	input    bool
	interval time.Duration
	dirty    atomic.Bool
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithInput forwards unhandled keys to the source.
func WithInput(on bool) ViewOption {
	return func(v *View) { v.input = on }
}

// WithFrameInterval sets the minimum time between redraws.
func WithFrameInterval(d time.Duration) ViewOption {
	return func(v *View) {
		if d > 0 {
			v.interval = d
		}
	}
}

// WithViewLogger sets the logger.
func WithViewLogger(l *zap.Logger) ViewOption {
	return func(v *View) {
		if l != nil {
			v.log = l
		}
	}
}

// NewView returns a view of src on an initialized screen.
func NewView(screen tcell.Screen, src Source, theme Theme, opts ...ViewOption) *View {
	v := &View{
		screen:   screen,
		src:      src,
		painter:  NewPainter(screen, theme),
		log:      zap.NewNop(),
		interval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.Named("view")
	v.painter.SetLinkResolver(src.Link)
	v.dirty.Store(true)
	return v
}

// Invalidate schedules a redraw. It is safe to call from any goroutine.
func (v *View) Invalidate() { v.dirty.Store(true) }

// Run draws and handles events until ctx is canceled, the source's
// session ends or a quit key is pressed.
func (v *View) Run(ctx context.Context) error {
	if w, h := v.screen.Size(); w > 0 && h > 0 {
		if err := v.src.Resize(w, h); err != nil {
			v.log.Warn("initial resize", zap.Error(err))
		}
	}

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go v.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-v.src.Done():
			v.Draw()
			return nil
		case <-ticker.C:
			if v.dirty.Swap(false) {
				v.Draw()
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.handle(ev) {
				return nil
			}
		}
	}
}

// Draw paints the source's viewport and shows it.
func (v *View) Draw() {
	snap, err := v.src.Snapshot()
	if err != nil {
		v.log.Error("snapshot", zap.Error(err))
		return
	}
	c := v.src.Cursor()
	v.painter.Paint(snap, Cursor{X: c.X, Y: c.Y, Visible: v.src.Following()})
	v.screen.Show()
}

// handle applies one event and reports whether the view should stop.
func (v *View) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		if err := v.src.Resize(w, h); err != nil {
			v.log.Warn("resize", zap.Int("cols", w), zap.Int("rows", h), zap.Error(err))
		}
		v.screen.Sync()
		v.Invalidate()
	case *tcell.EventKey:
		return v.handleKey(e)
	}
	return false
}

func (v *View) handleKey(e *tcell.EventKey) bool {
	_, h := v.screen.Size()
	page := max(h/2, 1)
	scrollKey := e.Modifiers()&tcell.ModShift != 0 || !v.input

	if scrollKey {
		switch e.Key() {
		case tcell.KeyPgUp:
			v.scroll(pagelist.Scroll{Kind: pagelist.ScrollDelta, Delta: -page})
			return false
		case tcell.KeyPgDn:
			v.scroll(pagelist.Scroll{Kind: pagelist.ScrollDelta, Delta: page})
			return false
		case tcell.KeyHome:
			v.scroll(pagelist.Scroll{Kind: pagelist.ScrollToTop})
			return false
		case tcell.KeyEnd:
			v.scroll(pagelist.Scroll{Kind: pagelist.ScrollToActive})
			return false
		}
	}

	if !v.input {
		switch {
		case e.Key() == tcell.KeyEscape, e.Key() == tcell.KeyCtrlC:
			return true
		case e.Key() == tcell.KeyRune && e.Rune() == 'q':
			return true
		case e.Key() == tcell.KeyUp:
			v.scroll(pagelist.Scroll{Kind: pagelist.ScrollDelta, Delta: -1})
		case e.Key() == tcell.KeyDown:
			v.scroll(pagelist.Scroll{Kind: pagelist.ScrollDelta, Delta: 1})
		}
		return false
	}

	b := EncodeKey(e)
	if b == nil {
		return false
	}
	if !v.src.Following() {
		v.scroll(pagelist.Scroll{Kind: pagelist.ScrollToActive})
	}
	if _, err := v.src.SendInput(b); err != nil {
		v.log.Debug("send input", zap.Error(err))
	}
	return false
}

func (v *View) scroll(s pagelist.Scroll) {
	v.src.Scroll(s)
	v.Invalidate()
}
