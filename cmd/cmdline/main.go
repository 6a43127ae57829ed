// Command cmdline reads and edits a persistent command line with the
// commandline builtin. It can also run as a language server for command lines.
package main

import (
	"os"

	"github.com/Gaelan/fish-shell/pkg/buildinfo"
	"github.com/Gaelan/fish-shell/pkg/lsp"
	"github.com/Gaelan/fish-shell/pkg/prog"
	"github.com/Gaelan/fish-shell/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, lsp.Program{}, shell.Program{})))
}
