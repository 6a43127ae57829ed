package prog_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Gaelan/fish-shell/pkg/logutil"
	"github.com/Gaelan/fish-shell/pkg/must"
	. "github.com/Gaelan/fish-shell/pkg/prog"
	"github.com/Gaelan/fish-shell/pkg/prog/progtest"
)

var (
	Test        = progtest.Test
	ThatCmdline = progtest.ThatCmdline
)

func TestCommonFlagHandling(t *testing.T) {
	Test(t, testProgram{},
		ThatCmdline("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatCmdline("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatCmdline("-help").
			WritesStdoutContaining("Usage: cmdline [flags]"),

		ThatCmdline("-log-level", "loud").
			ExitsWith(2).
			WritesStderrContaining("bad log level:"),
	)
}

func TestLogFlags(t *testing.T) {
	defer logutil.SetOutput(io.Discard)
	defer logutil.SetLevel("info")
	logFile := filepath.Join(t.TempDir(), "log")

	Test(t, testProgram{},
		ThatCmdline("-log", logFile, "-log-level", "debug").DoesNothing(),
	)

	if log := string(must.OK1(os.ReadFile(logFile))); !strings.Contains(log, "flags parsed") {
		t.Errorf("log file does not contain debug message: %q", log)
	}
}

func TestArgsArePassed(t *testing.T) {
	Test(t, testProgram{showArgs: true},
		ThatCmdline("--", "-t", "foo").WritesStdout(`["-t" "foo"]`),
		ThatCmdline("-db", "x", "bar").WritesStdout(`["bar"]`),
	)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	must.WriteFile(config, "db: from-config\nlog-level: warn\n")
	empty := filepath.Join(dir, "empty.yaml")
	must.WriteFile(empty, "")
	bad := filepath.Join(dir, "bad.yaml")
	must.WriteFile(bad, "colour: blue\n")
	defer logutil.SetLevel("info")

	Test(t, testProgram{showDB: true},
		ThatCmdline("-config", config).WritesStdout("from-config"),
		// Flags override the config file.
		ThatCmdline("-config", config, "-db", "from-flag").WritesStdout("from-flag"),
		ThatCmdline("-config", empty).WritesStdout(""),
		ThatCmdline("-config", bad).
			ExitsWith(2).
			WritesStderrContaining("field colour not found"),
		ThatCmdline("-config", filepath.Join(dir, "missing.yaml")).
			ExitsWith(2).
			WritesStderrContaining("missing.yaml"),
	)
}

func TestLoadConfig(t *testing.T) {
	config := filepath.Join(t.TempDir(), "config.yaml")
	must.WriteFile(config, "db: /tmp/db\nlog: /tmp/log\nlog-level: debug\n")

	got, err := LoadConfig(config)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{DB: "/tmp/db", Log: "/tmp/log", LogLevel: "debug"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig (-want +got):\n%s", diff)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatCmdline().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatCmdline().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatCmdline().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatCmdline().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatCmdline().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatCmdline().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatCmdline().ExitsWith(0),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	showArgs    bool
	showDB      bool
	returnErr   error
}

func (p testProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	if p.showArgs {
		fmt.Fprintf(fds[1], "%q", args)
	}
	if p.showDB {
		fds[1].WriteString(f.DB)
	}
	return p.returnErr
}
