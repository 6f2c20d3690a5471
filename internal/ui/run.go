package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/fxed/internal/editor"
	"github.com/oakwood-commons/fxed/pkg/filter"
)

// RunOptions configures Run and Snapshot.
type RunOptions struct {
	// Width and Height of 0 are detected from the terminal, falling back
	// to 80x24.
	Width  int
	Height int
	// Keys are pressed before the program starts, see ApplyStartupKeys.
	Keys     []string
	NoColor  bool
	Notifier *Notifier
}

// Result is the outcome of an editing session.
type Result struct {
	Root      *filter.Group
	Cancelled bool
}

func newSizedModel(sess *editor.Session, opts RunOptions) *Model {
	m := NewModel(sess, opts.Notifier, opts.NoColor)
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if w <= 0 {
				w = tw
			}
			if h <= 0 {
				h = th
			}
		}
	}
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return m
}

// Run starts the interactive editor and returns the final expression.
// Extra ProgramOptions (e.g., custom IO) are passed to tea.NewProgram.
func Run(sess *editor.Session, opts RunOptions, progOpts ...tea.ProgramOption) (Result, error) {
	m := newSizedModel(sess, opts)
	ApplyStartupKeys(m, opts.Keys)
	if m.Finished || m.Cancelled {
		return Result{Root: sess.Root(), Cancelled: m.Cancelled}, nil
	}

	progOpts = append(progOpts, tea.WithWindowSize(m.Width, m.Height))
	prog := tea.NewProgram(m, progOpts...)
	final, err := prog.Run()
	if err != nil {
		return Result{Root: sess.Root()}, err
	}
	res := Result{Root: sess.Root()}
	if fm, ok := final.(*Model); ok && fm != nil {
		res.Cancelled = fm.Cancelled
	}
	return res, nil
}

// Snapshot presses opts.Keys without a terminal and returns the rendered
// screen together with the resulting expression.
func Snapshot(sess *editor.Session, opts RunOptions) (string, Result) {
	m := newSizedModel(sess, opts)
	ApplyStartupKeys(m, opts.Keys)
	return m.Render(), Result{Root: sess.Root(), Cancelled: m.Cancelled}
}
