package cmdline

import (
	"testing"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/diag"
	"github.com/Gaelan/fish-shell/pkg/tt"
)

func buf(text string, cursor int) cli.Buffer { return cli.Buffer{Text: text, Cursor: cursor} }

func TestSplice(t *testing.T) {
	tt.Test(t, tt.Fn("Splice", Splice), tt.Table{
		Args(buf("abcdef", 0), rg(2, 5), "XY", Replace).Rets(buf("abXYf", 4)),
		Args(buf("abcdef", 3), rg(1, 5), "Z", Insert).Rets(buf("abcZdef", 4)),
		Args(buf("abcdef", 0), rg(1, 4), "Q", Append).Rets(buf("abcdQef", 0)),

		// Append leaves the cursor alone, even when it is at the end of the
		// extent.
		Args(buf("abc", 3), rg(0, 3), "d", Append).Rets(buf("abcd", 3)),
		// Insert at either end of the extent.
		Args(buf("abc", 0), rg(0, 3), "X", Insert).Rets(buf("Xabc", 1)),
		Args(buf("abc", 3), rg(0, 3), "X", Insert).Rets(buf("abcX", 4)),
		// Insert into an empty extent.
		Args(buf("ab", 1), rg(1, 1), "X", Insert).Rets(buf("aXb", 2)),
		// Replace with nothing.
		Args(buf("abc", 1), rg(0, 3), "", Replace).Rets(buf("", 0)),
		// Replace an empty extent.
		Args(buf("ab", 2), rg(1, 1), "XY", Replace).Rets(buf("aXYb", 3)),
		// Offsets are in runes.
		Args(buf("héllo", 1), rg(1, 2), "e", Replace).Rets(buf("hello", 2)),
		Args(buf("日本", 1), rg(0, 2), "語", Insert).Rets(buf("日語本", 2)),
		// Multi-line insertion.
		Args(buf("", 0), rg(0, 0), "a\nb", Replace).Rets(buf("a\nb", 3)),
	})
}

func TestSplice_KeepsOutsideOfExtent(t *testing.T) {
	text := "echo föo | grep bar; ls"
	n := len([]rune(text))
	for from := 0; from <= n; from++ {
		for to := from; to <= n; to++ {
			r := diag.Ranging{From: from, To: to}
			runes := []rune(text)
			prefix, extent, suffix := string(runes[:from]), string(runes[from:to]), string(runes[to:])
			if prefix+extent+suffix != text {
				t.Fatalf("decomposition of %v is not lossless", r)
			}

			got := Splice(buf(text, from), r, "<>", Replace)
			if want := prefix + "<>" + suffix; got.Text != want {
				t.Errorf("Replace %v -> %q, want %q", r, got.Text, want)
			}
			got = Splice(buf(text, from), r, "<>", Append)
			if want := prefix + extent + "<>" + suffix; got.Text != want {
				t.Errorf("Append %v -> %q, want %q", r, got.Text, want)
			}
			got = Splice(buf(text, to), r, "", Insert)
			if got != buf(text, to) {
				t.Errorf("Insert of nothing at %v -> %v", r, got)
			}
		}
	}
}

func TestSplice_DoesNotModifyInput(t *testing.T) {
	b := buf("abc", 1)
	Splice(b, rg(0, 3), "x", Insert)
	if b != buf("abc", 1) {
		t.Errorf("input buffer modified: %v", b)
	}
}
