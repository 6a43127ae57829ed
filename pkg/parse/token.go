package parse

import (
	"iter"
	"strconv"
	"unicode"

	"github.com/Gaelan/fish-shell/pkg/diag"
)

// TokenKind classifies a Token.
type TokenKind int

// Possible values of TokenKind.
const (
	String TokenKind = iota
	Pipe
	End
	Background
	Redirect
	Comment
	Invalid
)

var tokenKindNames = [...]string{
	String:     "string",
	Pipe:       "pipe",
	End:        "end",
	Background: "background",
	Redirect:   "redirect",
	Comment:    "comment",
	Invalid:    "invalid",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "unknown"
	}
	return tokenKindNames[k]
}

// Token is a lexical unit of the shell grammar.
type Token struct {
	Kind TokenKind
	diag.Ranging
	// Source text of the token, quotes and escapes included.
	Text string
}

// Tokenize returns the tokens of text from left to right. The sequence is
// lazy: tokens are lexed as they are consumed, and every iteration starts
// over from the beginning of text.
//
// Unfinished input is accepted. An unterminated quote, an unclosed command
// substitution or a trailing backslash extends the current string token to
// the end of text.
func Tokenize(text string) iter.Seq[Token] {
	return tokenize([]rune(text))
}

func tokenize(src []rune) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		lx := &lexer{src: src}
		for {
			tok, ok := lx.lex()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Lexes the next token. Returns false when the input is exhausted.
func (lx *lexer) lex() (Token, bool) {
	for IsBlank(lx.peek()) {
		lx.next()
	}
	if lx.peek() == eof {
		return Token{}, false
	}
	begin := lx.pos
	kind := lx.lexKind()
	return Token{kind, diag.Ranging{From: begin, To: lx.pos}, string(lx.src[begin:lx.pos])}, true
}

func (lx *lexer) lexKind() TokenKind {
	switch r := lx.next(); r {
	case '\n', ';':
		return End
	case '&':
		return Background
	case '|':
		return Pipe
	case '#':
		for lx.peek() != eof && lx.peek() != '\n' {
			lx.next()
		}
		return Comment
	case '<', '>':
		lx.lexRedirectTail(r)
		return Redirect
	case ')':
		return Invalid
	default:
		if unicode.IsDigit(r) {
			begin := lx.pos - 1
			for unicode.IsDigit(lx.peek()) {
				lx.next()
			}
			if r := lx.peek(); r == '<' || r == '>' {
				lx.next()
				lx.lexRedirectTail(r)
				return Redirect
			}
			lx.pos = begin
		} else {
			lx.backup()
		}
		lx.lexString()
		return String
	}
}

// Consumes the rest of a redirection operator after its first '<' or '>'.
func (lx *lexer) lexRedirectTail(op rune) {
	if op == '>' && lx.peek() == '>' {
		lx.next()
	}
	if lx.peek() == '&' {
		lx.next()
	}
}

// Consumes a string token, including quoted parts, escapes and balanced
// command substitutions.
func (lx *lexer) lexString() {
	depth := 0
	for {
		r := lx.peek()
		if r == eof {
			return
		}
		if depth == 0 && isStringTerminator(r) {
			return
		}
		lx.next()
		switch r {
		case '\\':
			lx.next()
		case '\'', '"':
			lx.skipQuoted(r)
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
}

// Skips to just after the closing quote q, or to the end of input. The opening
// quote has already been consumed.
func (lx *lexer) skipQuoted(q rune) {
	for {
		switch lx.next() {
		case eof:
			return
		case '\\':
			lx.next()
		case q:
			return
		}
	}
}

func (t Token) String() string {
	return t.Kind.String() + " " + strconv.Quote(t.Text) + " " + t.Ranging.String()
}
