package parse

import (
	"errors"
	"testing"

	"github.com/Gaelan/fish-shell/pkg/tt"
)

func TestUnescape(t *testing.T) {
	tt.Test(t, tt.Fn("Unescape", Unescape).ArgsFmt("(%q, %v)"), tt.Table{
		Args("foo", UnescapeStrict).Rets("foo", nil),
		Args("", UnescapeStrict).Rets("", nil),
		// Quotes.
		Args(`'a b'`, UnescapeStrict).Rets("a b", nil),
		Args(`'it\'s' '\\' '\n'`, UnescapeStrict).Rets(`it's \ \n`, nil),
		Args(`"a \"b\" \$c \\ \n"`, UnescapeStrict).Rets(`a "b" $c \ \n`, nil),
		Args("\"a\\\nb\"", UnescapeStrict).Rets("ab", nil),
		Args(`x'y'"z"`, UnescapeStrict).Rets("xyz", nil),
		// Unquoted escapes.
		Args(`a\ b`, UnescapeStrict).Rets("a b", nil),
		Args(`\n\t\e\\`, UnescapeStrict).Rets("\n\t\033\\", nil),
		Args(`\x41é\U0001F600`, UnescapeStrict).Rets("Aé😀", nil),
		Args(`\101\0`, UnescapeStrict).Rets("A\x00", nil),
		Args(`\x4g`, UnescapeStrict).Rets("\x04g", nil),
		Args(`\cA\c[`, UnescapeStrict).Rets("\x01\x1b", nil),
		Args("a\\\nb", UnescapeStrict).Rets("ab", nil),
		// Incomplete input is tolerated in UnescapeIncomplete mode.
		Args(`foo\`, UnescapeIncomplete).Rets("foo", nil),
		Args(`'foo bar`, UnescapeIncomplete).Rets("foo bar", nil),
		Args(`"foo\`, UnescapeIncomplete).Rets("foo", nil),
		Args(`a\x`, UnescapeIncomplete).Rets("a", nil),
		Args(`a\c`, UnescapeIncomplete).Rets("a", nil),
		Args(`a\u00`, UnescapeIncomplete).Rets("a\x00", nil),
		// The same input is an error in UnescapeStrict mode.
		Args(`foo\`, UnescapeStrict).Rets("", tt.Any),
		Args(`'foo`, UnescapeStrict).Rets("", tt.Any),
		Args(`a\xz`, UnescapeIncomplete).Rets("", tt.Any),
	})
}

func TestUnescape_ErrorRange(t *testing.T) {
	_, err := Unescape(`ab'cd`, UnescapeStrict)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("got %T, want *Error", err)
	}
	if perr.Range() != rg(2, 5) {
		t.Errorf("got range %v, want [2, 5)", perr.Range())
	}
	if want := "parse error: 2-5: unterminated quoted string"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
