package parse

import "strings"

// UnescapeMode controls how Unescape treats input that ends early.
type UnescapeMode uint

const (
	// UnescapeStrict rejects a trailing incomplete escape sequence or an
	// unterminated quote.
	UnescapeStrict UnescapeMode = iota
	// UnescapeIncomplete accepts a trailing incomplete escape sequence or an
	// unterminated quote, unescaping as much as is there. It is meant for
	// text that was cut at an arbitrary position, such as at the cursor.
	UnescapeIncomplete
)

// Unescape removes the quoting of shell text: single and double quotes are
// removed, and backslash escapes are replaced by the characters they denote.
func Unescape(s string, mode UnescapeMode) (string, error) {
	u := unescaper{src: []rune(s), incomplete: mode == UnescapeIncomplete}
	return u.run()
}

type unescaper struct {
	src        []rune
	pos        int
	incomplete bool
	sb         strings.Builder
}

func (u *unescaper) run() (string, error) {
	for u.pos < len(u.src) {
		r := u.src[u.pos]
		u.pos++
		var err error
		switch r {
		case '\\':
			err = u.escape()
		case '\'':
			err = u.quoted('\'', "\\'")
		case '"':
			err = u.quoted('"', "\\\"$\n")
		default:
			u.sb.WriteRune(r)
		}
		if err != nil {
			return "", err
		}
	}
	return u.sb.String(), nil
}

// Handles the inside of a quoted string whose opening quote q has been
// consumed. A backslash is an escape only before a rune in escapable;
// elsewhere it stands for itself.
func (u *unescaper) quoted(q rune, escapable string) error {
	begin := u.pos - 1
	for u.pos < len(u.src) {
		r := u.src[u.pos]
		u.pos++
		switch {
		case r == q:
			return nil
		case r == '\\':
			if u.pos == len(u.src) {
				return u.truncated(begin, "incomplete escape sequence")
			}
			next := u.src[u.pos]
			if strings.ContainsRune(escapable, next) {
				u.pos++
				if next != '\n' {
					u.sb.WriteRune(next)
				}
			} else {
				u.sb.WriteRune('\\')
			}
		default:
			u.sb.WriteRune(r)
		}
	}
	return u.truncated(begin, "unterminated quoted string")
}

var simpleEscapes = map[rune]rune{
	'a': '\a', 'b': '\b', 'e': '\033', 'f': '\f',
	'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

// Handles an unquoted escape sequence whose backslash has been consumed.
func (u *unescaper) escape() error {
	begin := u.pos - 1
	if u.pos == len(u.src) {
		return u.truncated(begin, "incomplete escape sequence")
	}
	r := u.src[u.pos]
	u.pos++
	if e, ok := simpleEscapes[r]; ok {
		u.sb.WriteRune(e)
		return nil
	}
	switch r {
	case '\n':
		// Line continuation.
		return nil
	case 'x', 'X':
		return u.numeric(begin, 16, 2)
	case 'u':
		return u.numeric(begin, 16, 4)
	case 'U':
		return u.numeric(begin, 16, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		u.pos--
		return u.numeric(begin, 8, 3)
	case 'c':
		if u.pos == len(u.src) {
			return u.truncated(begin, "incomplete control sequence")
		}
		c := u.src[u.pos]
		u.pos++
		if c < '@' || c > '~' {
			return newError(begin, u.pos, "invalid control sequence")
		}
		u.sb.WriteRune(c & 0x1f)
		return nil
	default:
		u.sb.WriteRune(r)
		return nil
	}
}

// Reads up to max digits in the given base and writes the rune they encode.
func (u *unescaper) numeric(begin, base, max int) error {
	var v rune
	n := 0
	for n < max && u.pos < len(u.src) {
		d := digitValue(u.src[u.pos])
		if d < 0 || d >= base {
			break
		}
		v = v*rune(base) + rune(d)
		u.pos++
		n++
	}
	if n == 0 {
		if u.pos == len(u.src) {
			return u.truncated(begin, "incomplete escape sequence")
		}
		return newError(begin, u.pos, "invalid escape sequence")
	}
	if v > 0x10ffff {
		return newError(begin, u.pos, "escape sequence out of range")
	}
	u.sb.WriteRune(v)
	return nil
}

func digitValue(r rune) int {
	switch {
	case '0' <= r && r <= '9':
		return int(r - '0')
	case 'a' <= r && r <= 'f':
		return int(r-'a') + 10
	case 'A' <= r && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

// Called when the input ends in the middle of a construct that started at
// begin. In incomplete mode the partial construct is dropped silently.
func (u *unescaper) truncated(begin int, msg string) error {
	if u.incomplete {
		u.pos = len(u.src)
		return nil
	}
	return newError(begin, len(u.src), "%s", msg)
}
