package terminal

import (
	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/pagelist"
)

type options struct {
	logger   *zap.Logger
	observer pagelist.Observer
	onTitle  func(string)
	onOutput func([]byte)
	onExit   func(code int)
	env      []string
	workDir  string
}

// Option configures a Terminal.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver forwards page lifecycle events, typically to metrics.
func WithObserver(obs pagelist.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithTitleHandler is called when the title changes. It runs with the
// write lock held and must not call back into the Terminal.
func WithTitleHandler(fn func(string)) Option {
	return func(o *options) { o.onTitle = fn }
}

// WithOutputHandler is called after each batch of session output has been
// applied, without the lock held.
func WithOutputHandler(fn func([]byte)) Option {
	return func(o *options) { o.onOutput = fn }
}

// WithExitHandler is called once the session's command exits.
func WithExitHandler(fn func(code int)) Option {
	return func(o *options) { o.onExit = fn }
}

// WithEnv adds environment variables to started commands.
func WithEnv(env ...string) Option {
	return func(o *options) { o.env = append(o.env, env...) }
}

// WithWorkDir sets the working directory of started commands that do not
// set one.
func WithWorkDir(dir string) Option {
	return func(o *options) { o.workDir = dir }
}
