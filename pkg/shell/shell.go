// Package shell is the entry point for the cmdline executable. It hosts a live
// command line, runs the commandline builtin against it once, and keeps the
// result for the next invocation.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/cmdline"
	"github.com/Gaelan/fish-shell/pkg/logutil"
	"github.com/Gaelan/fish-shell/pkg/parse"
	"github.com/Gaelan/fish-shell/pkg/prog"
	"github.com/Gaelan/fish-shell/pkg/store"
	"github.com/Gaelan/fish-shell/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct{}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.Reset && f.DB == "" {
		return prog.BadUsage("-reset requires -db")
	}

	ctx, stop := notifySignals(context.Background())
	defer stop()

	if f.DB != "" {
		st, err := store.Open(f.DB)
		if err != nil {
			return fmt.Errorf("cannot open database: %w", err)
		}
		defer st.Close()
		if f.Reset {
			if err := st.Reset(); err != nil {
				return fmt.Errorf("cannot reset state: %w", err)
			}
			if len(args) == 0 {
				return nil
			}
		}
		state, err := st.Load()
		if err != nil {
			return fmt.Errorf("cannot load state: %w", err)
		}
		exit, state := Eval(ctx, fds[1], fds[2], state, args)
		if err := st.Save(state); err != nil {
			return fmt.Errorf("cannot save state: %w", err)
		}
		return prog.Exit(exit)
	}

	var state cli.Snapshot
	if !sys.IsATTY(fds[0]) {
		data, err := io.ReadAll(fds[0])
		if err != nil {
			return fmt.Errorf("cannot read stdin: %w", err)
		}
		text := string(data)
		state.Buffer = cli.Buffer{Text: text, Cursor: utf8.RuneCountInString(text)}
	}
	exit, _ := Eval(ctx, fds[1], fds[2], state, args)
	return prog.Exit(exit)
}

// Eval runs the commandline builtin once with the given arguments, against a
// live command line seeded with state. It returns the exit status of the
// builtin and the state after all changes made by the builtin have been
// applied.
//
// The builtin runs outside the main loop of the command line, so its changes
// are queued, and Eval waits for the loop to drain the queue.
func Eval(ctx context.Context, stdout, stderr io.Writer, state cli.Snapshot, args []string) (int, cli.Snapshot) {
	r := cli.NewReader(cli.ReaderSpec{
		AfterApply: func(b cli.Buffer) {
			logger.Debug("buffer changed", "len", b.Len(), "cursor", b.Cursor)
		},
		UnhandledInput: func(fn cli.InputFunction) {
			logger.Info("input function has no effect here", "name", fn)
		},
		State: state.State,
	})
	if state.HasTransient {
		// The transient command line outlives this call, so it is never
		// popped.
		r.PushTransient(state.Transient)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(ctx) }()

	b := &cmdline.Builtin{Grammar: parse.Grammar{}, State: r, Applier: r, Input: r}
	exit := b.Call(ctx, stdout, stderr, args)

	r.Do(func(context.Context) { r.Return() })
	if err := <-runErr; err != nil {
		logger.Warn("main loop exited early", "err", err)
	}
	return exit, r.Snapshot()
}
