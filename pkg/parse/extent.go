package parse

import (
	"iter"

	"github.com/Gaelan/fish-shell/pkg/diag"
)

// Grammar exposes the functions of this package as methods, for callers that
// take the grammar as a dependency.
type Grammar struct{}

func (Grammar) JobExtent(text string, cursor int) diag.Ranging {
	return JobExtent(text, cursor)
}

func (Grammar) ProcessExtent(text string, cursor int) diag.Ranging {
	return ProcessExtent(text, cursor)
}

func (Grammar) TokenExtent(text string, cursor int) diag.Ranging {
	return TokenExtent(text, cursor)
}

func (Grammar) Tokenize(text string) iter.Seq[Token] { return Tokenize(text) }

// CmdsubstExtent returns the contents of the innermost command substitution
// that contains the cursor, without the parentheses. If the cursor is not
// inside any command substitution, it returns the range of the whole text.
//
// The cursor is inside a command substitution if it is after the opening
// parenthesis and not after the closing one. An unclosed command substitution
// extends to the end of the text.
func CmdsubstExtent(text string, cursor int) diag.Ranging {
	return cmdsubstExtent([]rune(text), cursor)
}

func cmdsubstExtent(src []rune, cursor int) diag.Ranging {
	r := diag.Ranging{From: 0, To: len(src)}
	pos := 0
	for pos < r.To {
		open, close, ok := locateCmdsubst(src[:r.To], pos)
		if !ok {
			break
		}
		if open < cursor && cursor <= close {
			r = diag.Ranging{From: open + 1, To: close}
			pos = open + 1
		} else {
			pos = close + 1
		}
	}
	return r
}

// Finds the first top-level command substitution in src at or after from.
// Returns the positions of the opening and closing parentheses; close is
// len(src) when the substitution is unclosed.
func locateCmdsubst(src []rune, from int) (open, close int, ok bool) {
	open = -1
	depth := 0
	var quote rune
	for i := from; i < len(src); i++ {
		r := src[i]
		switch {
		case r == '\\':
			i++
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			if depth == 0 {
				open = i
			}
			depth++
		case r == ')' && depth > 0:
			depth--
			if depth == 0 {
				return open, i, true
			}
		}
	}
	if open == -1 {
		return 0, 0, false
	}
	return open, len(src), true
}

// JobExtent returns the extent of the job under the cursor. Jobs are separated
// by newlines, semicolons and ampersands, and never extend beyond the
// innermost command substitution containing the cursor.
func JobExtent(text string, cursor int) diag.Ranging {
	return jobOrProcessExtent([]rune(text), cursor, false)
}

// ProcessExtent returns the extent of the process under the cursor. It is like
// JobExtent, but pipes also separate processes.
func ProcessExtent(text string, cursor int) diag.Ranging {
	return jobOrProcessExtent([]rune(text), cursor, true)
}

func jobOrProcessExtent(src []rune, cursor int, process bool) diag.Ranging {
	sub := cmdsubstExtent(src, cursor)
	pos := cursor - sub.From
	r := sub
	for tok := range tokenize(src[sub.From:sub.To]) {
		if !isSeparator(tok.Kind, process) {
			continue
		}
		if tok.From >= pos {
			r.To = sub.From + tok.From
			break
		}
		r.From = sub.From + tok.To
	}
	return r
}

func isSeparator(k TokenKind, process bool) bool {
	return k == End || k == Background || (process && k == Pipe)
}

// TokenExtent returns the extent of the string token under the cursor. A cursor
// just after the last rune of a token is considered to be on that token. When
// the cursor is between tokens, the result is the empty range at the cursor.
func TokenExtent(text string, cursor int) diag.Ranging {
	src := []rune(text)
	sub := cmdsubstExtent(src, cursor)
	pos := cursor - sub.From
	for tok := range tokenize(src[sub.From:sub.To]) {
		if tok.From > pos {
			break
		}
		if tok.Kind == String && tok.To >= pos {
			return tok.Ranging.Shift(sub.From)
		}
	}
	return diag.PointRanging(cursor)
}

// LineNo returns the 1-based number of the line the cursor is on.
func LineNo(text string, cursor int) int {
	n := 1
	for i, r := range []rune(text) {
		if i >= cursor {
			break
		}
		if r == '\n' {
			n++
		}
	}
	return n
}
