// Package tui embeds the filter editor in other programs. Hosts supply the
// properties and receive the finished expression tree.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"golang.org/x/term"

	"github.com/oakwood-commons/fxed/internal/editor"
	"github.com/oakwood-commons/fxed/internal/ui"
	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/options"
)

// ErrCancelled is returned by Edit when the user aborts with ctrl+c.
var ErrCancelled = errors.New("editing cancelled")

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// Config tunes an embedded editor. The zero value is usable.
type Config struct {
	// Debounce delays async option fetches; zero uses options.DefaultDebounce.
	Debounce time.Duration
	// MaxOptions caps the value suggestions shown; zero means no cap.
	MaxOptions int
	NoColor    bool
	// Width and Height of 0 are detected from the terminal.
	Width  int
	Height int
	// StartKeys are pressed before the editor is shown, e.g. "<CR>".
	StartKeys []string
	// Initial is the expression to start from.
	Initial *filter.Group
	Logger  logr.Logger
}

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable
// and finally to 120x24.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

func newSession(ctx context.Context, reg *filter.Registry, cfg Config) (*editor.Session, *ui.Notifier) {
	lgr := cfg.Logger
	if lgr.GetSink() == nil {
		lgr = logr.Discard()
	}
	notifier := ui.NewNotifier()
	cacheOpts := []options.Option{options.WithLogger(lgr), options.WithNotify(notifier.Notify)}
	if cfg.Debounce > 0 {
		cacheOpts = append(cacheOpts, options.WithDebounce(cfg.Debounce))
	}
	sess := editor.New(reg,
		editor.WithLogger(lgr),
		editor.WithCache(options.New(ctx, cacheOpts...)),
		editor.WithMaxOptions(cfg.MaxOptions),
		editor.WithRoot(cfg.Initial),
	)
	return sess, notifier
}

func runOptions(cfg Config, n *ui.Notifier) ui.RunOptions {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		dw, dh := DetectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	return ui.RunOptions{Width: w, Height: h, Keys: cfg.StartKeys, NoColor: cfg.NoColor, Notifier: n}
}

// Edit runs the interactive editor over reg and returns the accepted
// expression. Cancelling ctx stops pending option fetches.
// Host applications can pass optional tea.ProgramOption values to control IO.
func Edit(ctx context.Context, reg *filter.Registry, cfg Config, opts ...tea.ProgramOption) (*filter.Group, error) {
	sess, n := newSession(ctx, reg, cfg)
	defer sess.Close()

	res, err := ui.Run(sess, runOptions(cfg, n), opts...)
	if err != nil {
		return nil, err
	}
	if res.Cancelled {
		return res.Root, ErrCancelled
	}
	return res.Root, nil
}

// RenderSnapshot presses cfg.StartKeys without a terminal and returns the
// rendered screen and the resulting expression.
func RenderSnapshot(ctx context.Context, reg *filter.Registry, cfg Config) (string, *filter.Group) {
	sess, n := newSession(ctx, reg, cfg)
	defer sess.Close()

	view, res := ui.Snapshot(sess, runOptions(cfg, n))
	return view, res.Root
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
