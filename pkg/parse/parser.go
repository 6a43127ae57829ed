// Package parse implements the shell grammar consumed by the command line
// engine: a tokenizer that accepts unfinished input, the job, process, token
// and command substitution extents around a cursor, and unescaping of quoted
// text.
//
// All positions are rune indices into the text being examined.
package parse

import (
	"fmt"

	"github.com/Gaelan/fish-shell/pkg/diag"
)

// lexer maintains the mutable state of tokenizing.
type lexer struct {
	src []rune
	pos int
}

const eof rune = -1

func (lx *lexer) peek() rune {
	if lx.pos == len(lx.src) {
		return eof
	}
	return lx.src[lx.pos]
}

func (lx *lexer) next() rune {
	if lx.pos == len(lx.src) {
		return eof
	}
	r := lx.src[lx.pos]
	lx.pos++
	return r
}

func (lx *lexer) backup() {
	if lx.pos > 0 {
		lx.pos--
	}
}

func (lx *lexer) hasPrefix(prefix string) bool {
	i := lx.pos
	for _, r := range prefix {
		if i >= len(lx.src) || lx.src[i] != r {
			return false
		}
		i++
	}
	return true
}

// Error is a parse error.
type Error struct {
	Message string
	diag.Ranging
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error: %d-%d: %s", e.From, e.To, e.Message)
}

func newError(from, to int, format string, args ...any) *Error {
	return &Error{fmt.Sprintf(format, args...), diag.Ranging{From: from, To: to}}
}

// IsBlank reports whether r separates tokens without being a token itself.
func IsBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// Reports whether r ends a string token when it appears outside quotes and
// command substitutions.
func isStringTerminator(r rune) bool {
	switch r {
	case eof, '\n', ';', '&', '|', '<', '>':
		return true
	}
	return IsBlank(r)
}
