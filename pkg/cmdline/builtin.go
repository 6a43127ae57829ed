package cmdline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/logutil"
	"github.com/Gaelan/fish-shell/pkg/parse"
)

var logger = logutil.GetLogger("[cmdline] ")

// Usage is printed by --help and after usage errors.
const Usage = `Usage: commandline [options] [text...]

Print or change the command line being edited.

Selection:
  -b, --current-buffer   the whole buffer (default)
  -j, --current-job      the job under the cursor
  -p, --current-process  the process under the cursor
  -t, --current-token    the token under the cursor

Changing (with text arguments):
  -r, --replace          replace the selection (default)
  -i, --insert           insert at the cursor
  -a, --append           insert after the selection

Printing (without text arguments):
  -c, --cut-at-cursor    only print up to the cursor
  -o, --tokenize         print one token per line

Other:
  -I, --input TEXT       work on TEXT instead of the command line
  -C, --cursor [N]       print the cursor position, or move it to N
  -L, --line             print the line number of the cursor
  -S, --search-mode      succeed if history search is active
  -P, --paging-mode      succeed if the pager is active
  -s, --selection        print the selected text
  -f, --function NAME... queue input functions
  -h, --help             show this help
`

// SnapshotProvider provides a copy of the state of the live command line.
type SnapshotProvider interface {
	Snapshot() cli.Snapshot
}

// Applier replaces the live buffer.
type Applier interface {
	Apply(ctx context.Context, b cli.Buffer)
}

// InputQueue queues input functions for execution.
type InputQueue interface {
	QueueInput(ctx context.Context, fn cli.InputFunction)
}

// Builtin implements the commandline builtin on top of a live command line.
// A *cli.Reader can serve as State, Applier and Input at the same time.
type Builtin struct {
	Grammar Grammar
	State   SnapshotProvider
	Applier Applier
	Input   InputQueue
	// Defaults to the package logger.
	Logger *log.Logger
}

// Call runs the builtin with the given arguments, not including the command
// name, and returns the exit status.
func (b *Builtin) Call(ctx context.Context, stdout, stderr io.Writer, args []string) int {
	cfg, err := ParseArgs(args)
	if err == nil {
		var status int
		status, err = b.run(ctx, stdout, cfg)
		if err == nil {
			return status
		}
	}
	b.logger().Debug("usage error", "args", args, "err", err)
	fmt.Fprintf(stderr, "commandline: %v\n", err)
	if !errors.Is(err, ErrCursorOutsideExtent) {
		io.WriteString(stderr, Usage)
	}
	return 1
}

func (b *Builtin) run(ctx context.Context, stdout io.Writer, cfg Config) (int, error) {
	lg := b.logger()
	snapshot := b.State.Snapshot()

	switch cfg.Action {
	case ActionHelp:
		io.WriteString(stdout, Usage)
		return 0, nil
	case ActionFunction:
		for _, fn := range cfg.Functions {
			lg.Debug("queueing input function", "name", fn)
			b.Input.QueueInput(ctx, fn)
		}
		return 0, nil
	case ActionSelection:
		if snapshot.SelectionActive {
			io.WriteString(stdout, snapshot.SelectedText())
		}
		return 0, nil
	case ActionSearchMode:
		return status(snapshot.SearchMode), nil
	case ActionPagingMode:
		return status(snapshot.PagerActive), nil
	case ActionLine:
		fmt.Fprintf(stdout, "%d\n", parse.LineNo(snapshot.Buffer.Text, snapshot.Buffer.Cursor))
		return 0, nil
	}

	buf := snapshot.Buffer
	if snapshot.HasTransient {
		buf = atEnd(snapshot.Transient)
	}
	if cfg.Input != nil {
		buf = atEnd(*cfg.Input)
	}

	if cfg.Action == ActionCursor {
		if !cfg.SetCursor {
			fmt.Fprintf(stdout, "%d\n", buf.Cursor)
			return 0, nil
		}
		nb := snapshot.Buffer
		nb.Cursor = cfg.Cursor
		b.Applier.Apply(ctx, nb.Clamped())
		return 0, nil
	}

	extent := Resolve(b.grammar(), buf.Text, buf.Cursor, cfg.Selection)
	lg.Debug("resolved extent",
		"action", cfg.Action, "selection", cfg.Selection, "extent", extent)
	switch cfg.Action {
	case ActionPrint:
		io.WriteString(stdout, Format(b.grammar(), buf, extent, cfg.CutAtCursor, cfg.Tokenize))
	case ActionSplice:
		if cfg.Splice == Insert && !extent.Contains(buf.Cursor) {
			return 0, usageError(ErrCursorOutsideExtent,
				"cursor %d, extent %v", buf.Cursor, extent)
		}
		insert := strings.Join(cfg.Operands, "\n")
		nb := Splice(buf, extent, insert, cfg.Splice)
		lg.Debug("applying", "splice", cfg.Splice, "cursor", nb.Cursor)
		b.Applier.Apply(ctx, nb)
	}
	return 0, nil
}

func (b *Builtin) grammar() Grammar {
	if b.Grammar == nil {
		return parse.Grammar{}
	}
	return b.Grammar
}

func (b *Builtin) logger() *log.Logger {
	if b.Logger == nil {
		return logger
	}
	return b.Logger
}

func atEnd(text string) cli.Buffer {
	return cli.Buffer{Text: text, Cursor: utf8.RuneCountInString(text)}
}

func status(ok bool) int {
	if ok {
		return 0
	}
	return 1
}
