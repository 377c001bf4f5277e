// Package main is the entry point for the termcore command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/dshills/termcore/internal/config"
	"github.com/dshills/termcore/internal/logging"
	"github.com/dshills/termcore/internal/metrics"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	logLevel    string
	logFile     string
	metricsAddr string
	dumpPath    string
	inspectPath string
	jsonOut     bool
	scrollback  bool
	showVersion bool
	cols        int
	rows        int

	// Exactly one of input and command is used. An empty input with no
	// command reads standard input.
	input   string
	command []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "termcore %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if opts.inspectPath != "" {
		if err := inspect(opts.inspectPath, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	interactive := !opts.jsonOut && isTerminal(stdout)
	logger, err := logging.NewForSession(cfg.Logging(), opts.logFile, interactive)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	a := &app{
		opts:        opts,
		cfg:         cfg,
		log:         logger,
		collector:   metrics.New(reg),
		stdin:       stdin,
		stdout:      stdout,
		interactive: interactive,
	}
	if opts.metricsAddr != "" {
		shutdown := serveMetrics(opts.metricsAddr, reg, logger.WithComponent("metrics").Logger)
		defer shutdown()
	}

	code, err := a.run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("termcore", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.StringVar(&opts.dumpPath, "dump", "", "Write the full history to this file (.zst compresses)")
	fs.StringVar(&opts.inspectPath, "inspect", "", "Print a saved JSON report or dump and exit")
	fs.BoolVar(&opts.jsonOut, "json", false, "Print a JSON report instead of the screen")
	fs.BoolVar(&opts.scrollback, "scrollback", false, "Include scrollback in text output")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")
	fs.IntVar(&opts.cols, "cols", 0, "Screen columns (overrides config)")
	fs.IntVar(&opts.rows, "rows", 0, "Screen rows (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "termcore - terminal screen core\n\n")
		fmt.Fprintf(stderr, "Usage: termcore [options] [file]\n")
		fmt.Fprintf(stderr, "       termcore [options] -- command [args...]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  termcore session.log              Replay a recorded byte stream\n")
		fmt.Fprintf(stderr, "  ls --color | termcore -json       Report on standard input\n")
		fmt.Fprintf(stderr, "  termcore -- htop                  Run a command in a PTY\n")
		fmt.Fprintf(stderr, "  termcore -dump out.zst -- make    Save the history compressed\n")
		fmt.Fprintf(stderr, "  termcore -inspect out.zst         Print a saved dump\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	rest := fs.Args()
	dashed := len(args) > len(rest) && args[len(args)-len(rest)-1] == "--"
	switch {
	case dashed:
		if len(rest) == 0 {
			return opts, fmt.Errorf("missing command after --")
		}
		opts.command = rest
	case len(rest) > 1:
		return opts, fmt.Errorf("too many input files: %v", rest)
	case len(rest) == 1:
		opts.input = rest[0]
	}

	if opts.cols < 0 || opts.rows < 0 {
		return opts, fmt.Errorf("-cols and -rows must not be negative")
	}
	return opts, nil
}

// loadConfig applies the command line over the loaded configuration.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.cols > 0 {
		cfg.Screen.Cols = opts.cols
	}
	if opts.rows > 0 {
		cfg.Screen.Rows = opts.rows
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
