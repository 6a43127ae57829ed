package cmdline

import (
	"iter"
	"unicode/utf8"

	"github.com/Gaelan/fish-shell/pkg/diag"
	"github.com/Gaelan/fish-shell/pkg/parse"
)

// Grammar decides where jobs, processes and tokens begin and end. All positions
// are rune indices. [parse.Grammar] implements it.
type Grammar interface {
	JobExtent(text string, cursor int) diag.Ranging
	ProcessExtent(text string, cursor int) diag.Ranging
	TokenExtent(text string, cursor int) diag.Ranging
	// Tokenize returns the tokens of text from left to right, with ranges
	// relative to the start of text.
	Tokenize(text string) iter.Seq[parse.Token]
}

// Resolve returns the extent of text that mode refers to, given the cursor.
// Whole is handled here; the other modes are answered by g, and its result is
// returned as is, even when it is empty.
//
// The cursor must not be greater than the length of text.
func Resolve(g Grammar, text string, cursor int, mode SelectionMode) diag.Ranging {
	switch mode {
	case Job:
		return g.JobExtent(text, cursor)
	case Process:
		return g.ProcessExtent(text, cursor)
	case Token:
		return g.TokenExtent(text, cursor)
	default:
		return diag.Ranging{From: 0, To: utf8.RuneCountInString(text)}
	}
}
