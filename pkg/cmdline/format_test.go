package cmdline

import (
	"testing"

	"github.com/Gaelan/fish-shell/pkg/parse"
	"github.com/Gaelan/fish-shell/pkg/tt"
)

func TestFormat(t *testing.T) {
	g := parse.Grammar{}
	tt.Test(t, tt.Fn("Format", Format).ArgsFmt("(%[1]T, %[2]v, %[3]v, cut=%[4]v, tokenize=%[5]v)"), tt.Table{
		Args(g, buf("T", 1), rg(0, 1), false, false).Rets("T\n"),
		Args(g, buf("", 0), rg(0, 0), false, false).Rets("\n"),
		Args(g, buf("echo foo", 3), rg(0, 8), true, false).Rets("ech\n"),
		Args(g, buf("echo foo", 8), rg(5, 8), false, false).Rets("foo\n"),

		Args(g, buf("echo foo; echo bar", 6), rg(0, 18), false, true).
			Rets("echo\nfoo\necho\nbar\n"),
		Args(g, buf("echo foo; echo bar", 6), rg(0, 18), true, true).Rets("echo\n"),
		// A token that ends right at the cursor is cut as well.
		Args(g, buf("echo foo", 4), rg(0, 8), true, true).Rets(""),
		Args(g, buf("echo foo", 5), rg(0, 8), true, true).Rets("echo\n"),
		// Tokens are relative to the extent.
		Args(g, buf("ls; echo a b", 12), rg(3, 12), true, true).Rets("echo\na\n"),

		// Unescaping.
		Args(g, buf(`echo 'a b'`, 0), rg(0, 10), false, false).Rets("echo a b\n"),
		Args(g, buf(`echo 'a b'`, 0), rg(0, 10), false, true).Rets("echo\na b\n"),
		Args(g, buf(`a\tb`, 0), rg(0, 4), false, false).Rets("a\tb\n"),
		// Incomplete quoting and escapes are tolerated.
		Args(g, buf(`echo "ab`, 8), rg(0, 8), false, false).Rets("echo ab\n"),
		Args(g, buf(`echo "ab cd"`, 8), rg(0, 12), true, false).Rets("echo ab\n"),
		Args(g, buf(`x\`, 2), rg(0, 2), false, true).Rets("x\n"),
		// Text that cannot be unescaped is printed as is.
		Args(g, buf(`\xzz`, 0), rg(0, 4), false, false).Rets(`\xzz` + "\n"),

		// Only string tokens are printed.
		Args(g, buf("echo a # c", 0), rg(0, 10), false, true).Rets("echo\na\n"),
		Args(g, buf("a | b > f &", 0), rg(0, 11), false, true).Rets("a\nb\nf\n"),

		// Cutting with the cursor before the extent.
		Args(g, buf("abc", 0), rg(1, 3), true, false).Rets("\n"),
	})
}
