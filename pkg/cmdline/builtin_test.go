package cmdline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/parse"
)

// Records everything the builtin does to the live command line.
type fakeReader struct {
	snapshot cli.Snapshot
	applied  []cli.Buffer
	queued   []cli.InputFunction
}

func (r *fakeReader) Snapshot() cli.Snapshot { return r.snapshot }

func (r *fakeReader) Apply(_ context.Context, b cli.Buffer) {
	r.applied = append(r.applied, b)
}

func (r *fakeReader) QueueInput(_ context.Context, fn cli.InputFunction) {
	r.queued = append(r.queued, fn)
}

func withBuffer(text string, cursor int) cli.Snapshot {
	return cli.Snapshot{State: cli.State{Buffer: buf(text, cursor)}}
}

var builtinTests = []struct {
	name     string
	snapshot cli.Snapshot
	grammar  Grammar
	args     []string

	wantStatus  int
	wantStdout  string
	wantApplied []cli.Buffer
	wantQueued  []cli.InputFunction
}{
	{
		name:       "print buffer",
		snapshot:   withBuffer("echo foo", 2),
		wantStdout: "echo foo\n",
	},
	{
		name:       "print token",
		snapshot:   withBuffer("echo foo; echo bar", 6),
		args:       []string{"-t"},
		wantStdout: "foo\n",
	},
	{
		name:       "print job",
		snapshot:   withBuffer("echo foo; echo bar", 6),
		args:       []string{"-j"},
		wantStdout: "echo foo\n",
	},
	{
		name:       "print process cut at cursor",
		snapshot:   withBuffer("a | bc", 6),
		args:       []string{"-p", "-c"},
		wantStdout: " bc\n",
	},
	{
		name:       "print tokens cut at cursor",
		snapshot:   withBuffer("echo foo; echo bar", 6),
		args:       []string{"-co"},
		wantStdout: "echo\n",
	},
	{
		name:        "replace token",
		snapshot:    withBuffer("echo foo bar", 6),
		args:        []string{"-t", "baz"},
		wantApplied: []cli.Buffer{buf("echo baz bar", 8)},
	},
	{
		name:        "insert",
		snapshot:    withBuffer("echo foo", 6),
		args:        []string{"-i", "X"},
		wantApplied: []cli.Buffer{buf("echo fXoo", 7)},
	},
	{
		name:        "insert into empty token between blanks",
		snapshot:    withBuffer("echo  foo", 5),
		args:        []string{"-t", "-i", "x"},
		wantApplied: []cli.Buffer{buf("echo x foo", 6)},
	},
	{
		name:        "append keeps cursor",
		snapshot:    withBuffer("ab", 0),
		args:        []string{"-a", "!"},
		wantApplied: []cli.Buffer{buf("ab!", 0)},
	},
	{
		name:        "operands are joined with newlines",
		snapshot:    withBuffer("", 0),
		args:        []string{"a", "b"},
		wantApplied: []cli.Buffer{buf("a\nb", 3)},
	},
	{
		name: "transient command line stands in for buffer",
		snapshot: cli.Snapshot{
			State:     cli.State{Buffer: buf("other", 0)},
			Transient: "git chec", HasTransient: true},
		args:       []string{"-t"},
		wantStdout: "chec\n",
	},
	{
		name:       "input overrides buffer",
		snapshot:   withBuffer("other", 0),
		args:       []string{"-I", "foo bar", "-t"},
		wantStdout: "bar\n",
	},
	{
		name:       "print cursor",
		snapshot:   withBuffer("echo", 3),
		args:       []string{"-C"},
		wantStdout: "3\n",
	},
	{
		name:       "print cursor of input",
		snapshot:   withBuffer("echo", 3),
		args:       []string{"-C", "-I", "héllo"},
		wantStdout: "5\n",
	},
	{
		name:        "set cursor",
		snapshot:    withBuffer("echo", 3),
		args:        []string{"-C", "1"},
		wantApplied: []cli.Buffer{buf("echo", 1)},
	},
	{
		name:        "set cursor clamps high",
		snapshot:    withBuffer("echo", 3),
		args:        []string{"-C", "100"},
		wantApplied: []cli.Buffer{buf("echo", 4)},
	},
	{
		name:        "set cursor clamps low",
		snapshot:    withBuffer("echo", 3),
		args:        []string{"-C", "--", "-5"},
		wantApplied: []cli.Buffer{buf("echo", 0)},
	},
	{
		name:       "line",
		snapshot:   withBuffer("a\nb\nc", 4),
		args:       []string{"-L"},
		wantStdout: "3\n",
	},
	{
		name:       "search mode inactive",
		snapshot:   withBuffer("", 0),
		args:       []string{"-S"},
		wantStatus: 1,
	},
	{
		name:     "search mode active",
		snapshot: cli.Snapshot{State: cli.State{SearchMode: true}},
		args:     []string{"-S"},
	},
	{
		name:       "paging mode inactive",
		snapshot:   withBuffer("", 0),
		args:       []string{"-P"},
		wantStatus: 1,
	},
	{
		name:     "paging mode active",
		snapshot: cli.Snapshot{State: cli.State{PagerActive: true}},
		args:     []string{"-P"},
	},
	{
		name: "selection",
		snapshot: cli.Snapshot{State: cli.State{
			Buffer:          buf("hello world", 0),
			SelectionActive: true, Selection: rg(0, 5)}},
		args:       []string{"-s"},
		wantStdout: "hello",
	},
	{
		name:     "no selection",
		snapshot: withBuffer("hello world", 0),
		args:     []string{"-s"},
	},
	{
		name:       "function",
		snapshot:   withBuffer("", 0),
		args:       []string{"-f", "forward-char", "yank"},
		wantQueued: []cli.InputFunction{cli.ForwardChar, cli.Yank},
	},
	{
		name:       "help",
		args:       []string{"-h"},
		wantStdout: Usage,
	},
	{
		name:       "usage error",
		snapshot:   withBuffer("echo", 0),
		args:       []string{"-a"},
		wantStatus: 1,
	},
	{
		name:       "insert with cursor outside extent",
		snapshot:   withBuffer("abcdef", 5),
		grammar:    fixedGrammar{job: rg(0, 2)},
		args:       []string{"-j", "-i", "x"},
		wantStatus: 1,
	},
}

func TestBuiltin_Call(t *testing.T) {
	for _, test := range builtinTests {
		t.Run(test.name, func(t *testing.T) {
			r := &fakeReader{snapshot: test.snapshot}
			b := &Builtin{Grammar: test.grammar, State: r, Applier: r, Input: r}
			var stdout, stderr bytes.Buffer

			status := b.Call(context.Background(), &stdout, &stderr, test.args)

			if status != test.wantStatus {
				t.Errorf("status = %d, want %d (stderr %q)", status, test.wantStatus, stderr.String())
			}
			if got := stdout.String(); got != test.wantStdout {
				t.Errorf("stdout = %q, want %q", got, test.wantStdout)
			}
			if diff := cmp.Diff(test.wantApplied, r.applied); diff != "" {
				t.Errorf("applied buffers (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantQueued, r.queued); diff != "" {
				t.Errorf("queued input functions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuiltin_Call_UsageErrorOutput(t *testing.T) {
	r := &fakeReader{}
	b := &Builtin{State: r, Applier: r, Input: r}
	var stdout, stderr bytes.Buffer

	b.Call(context.Background(), &stdout, &stderr, []string{"-a"})

	wantPrefix := "commandline: invalid combination of options: " +
		"insertion mode switches can not be used when not in insertion mode\n"
	if got := stderr.String(); !strings.HasPrefix(got, wantPrefix) || !strings.HasSuffix(got, Usage) {
		t.Errorf("stderr = %q, want message followed by usage", got)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestBuiltin_Call_WithReader(t *testing.T) {
	r := cli.NewReader(cli.ReaderSpec{
		State: cli.State{Buffer: buf("echo foo; echo bar", 6)}})
	b := &Builtin{Grammar: parse.Grammar{}, State: r, Applier: r, Input: r}
	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	// Called from the test goroutine, which does not own the reader.
	var stdout, stderr bytes.Buffer
	if status := b.Call(context.Background(), &stdout, &stderr, []string{"-t", "baz"}); status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, stderr.String())
	}

	// On the owning context, changes are visible as soon as Call returns.
	r.Do(func(ctx context.Context) {
		if status := b.Call(ctx, &stdout, &stderr, []string{"-t", "-a", "!"}); status != 0 {
			t.Errorf("status = %d, stderr = %q", status, stderr.String())
		}
		if got, want := r.Snapshot().Buffer, buf("echo baz!; echo bar", 8); got != want {
			t.Errorf("buffer after owner call = %v, want %v", got, want)
		}
		b.Call(ctx, &stdout, &stderr, []string{"-f", "end-of-buffer"})
		if got, want := r.Snapshot().Buffer.Cursor, 19; got != want {
			t.Errorf("cursor after end-of-buffer = %d, want %d", got, want)
		}
		r.Return()
	})

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run -> %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
