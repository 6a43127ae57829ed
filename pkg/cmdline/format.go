package cmdline

import (
	"strings"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/diag"
	"github.com/Gaelan/fish-shell/pkg/parse"
)

// Format renders the extent r of b for output.
//
// Without tokenize, the unescaped text of the extent is returned with a
// trailing newline. With cutAtCursor, the text ends at the cursor instead.
//
// With tokenize, the extent is split into tokens by g, and each string token
// is unescaped and written on its own line; other tokens are skipped. With
// cutAtCursor, output stops at the first token that reaches the cursor.
func Format(g Grammar, b cli.Buffer, r diag.Ranging, cutAtCursor, tokenize bool) string {
	runes := []rune(b.Text)
	rel := b.Cursor - r.From
	if !tokenize {
		end := r.To
		if cutAtCursor {
			end = max(r.From, min(r.From+rel, len(runes)))
		}
		return unescape(string(runes[r.From:end])) + "\n"
	}

	var sb strings.Builder
	for tok := range g.Tokenize(string(runes[r.From:r.To])) {
		if cutAtCursor && tok.To >= rel {
			break
		}
		if tok.Kind != parse.String {
			continue
		}
		sb.WriteString(unescape(tok.Text))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Unescapes s, tolerating an incomplete escape sequence at the end. Text that
// cannot be unescaped is returned as is.
func unescape(s string) string {
	u, err := parse.Unescape(s, parse.UnescapeIncomplete)
	if err != nil {
		return s
	}
	return u
}
