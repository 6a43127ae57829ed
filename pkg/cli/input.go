package cli

import (
	"sort"
	"strings"
	"unicode"

	"github.com/Gaelan/fish-shell/pkg/diag"
)

// InputFunction is a readline function that can be queued on a Reader as if
// it had been bound to a key and the key pressed.
type InputFunction int

// Possible values of InputFunction.
const (
	BeginningOfLine InputFunction = iota
	EndOfLine
	ForwardChar
	BackwardChar
	ForwardWord
	BackwardWord
	ForwardBigword
	BackwardBigword
	BeginningOfBuffer
	EndOfBuffer
	DeleteChar
	BackwardDeleteChar
	KillLine
	BackwardKillLine
	KillWholeLine
	KillWord
	BackwardKillWord
	KillBigword
	BackwardKillBigword
	Yank
	TransposeChars
	BeginSelection
	EndSelection
	SwapSelectionStartStop
	HistorySearchBackward
	HistorySearchForward
	HistoryTokenSearchBackward
	HistoryTokenSearchForward
	BeginningOfHistory
	EndOfHistory
	UpLine
	DownLine
	TransposeWords
	UpcaseWord
	DowncaseWord
	CapitalizeWord
	YankPop
	KillSelection
	AcceptAutosuggestion
	SuppressAutosuggestion
	ExpandAbbr
	Complete
	CompleteAndSearch
	PagerToggleSearch
	Cancel
	CancelCommandline
	Execute
	Repaint
	ForceRepaint
	Undo
	Redo
	SelfInsert
	Null
)

var inputFunctionNames = map[InputFunction]string{
	BeginningOfLine:            "beginning-of-line",
	EndOfLine:                  "end-of-line",
	ForwardChar:                "forward-char",
	BackwardChar:               "backward-char",
	ForwardWord:                "forward-word",
	BackwardWord:               "backward-word",
	ForwardBigword:             "forward-bigword",
	BackwardBigword:            "backward-bigword",
	BeginningOfBuffer:          "beginning-of-buffer",
	EndOfBuffer:                "end-of-buffer",
	DeleteChar:                 "delete-char",
	BackwardDeleteChar:         "backward-delete-char",
	KillLine:                   "kill-line",
	BackwardKillLine:           "backward-kill-line",
	KillWholeLine:              "kill-whole-line",
	KillWord:                   "kill-word",
	BackwardKillWord:           "backward-kill-word",
	KillBigword:                "kill-bigword",
	BackwardKillBigword:        "backward-kill-bigword",
	Yank:                       "yank",
	TransposeChars:             "transpose-chars",
	BeginSelection:             "begin-selection",
	EndSelection:               "end-selection",
	SwapSelectionStartStop:     "swap-selection-start-stop",
	HistorySearchBackward:      "history-search-backward",
	HistorySearchForward:       "history-search-forward",
	HistoryTokenSearchBackward: "history-token-search-backward",
	HistoryTokenSearchForward:  "history-token-search-forward",
	BeginningOfHistory:         "beginning-of-history",
	EndOfHistory:               "end-of-history",
	UpLine:                     "up-line",
	DownLine:                   "down-line",
	TransposeWords:             "transpose-words",
	UpcaseWord:                 "upcase-word",
	DowncaseWord:               "downcase-word",
	CapitalizeWord:             "capitalize-word",
	YankPop:                    "yank-pop",
	KillSelection:              "kill-selection",
	AcceptAutosuggestion:       "accept-autosuggestion",
	SuppressAutosuggestion:     "suppress-autosuggestion",
	ExpandAbbr:                 "expand-abbr",
	Complete:                   "complete",
	CompleteAndSearch:          "complete-and-search",
	PagerToggleSearch:          "pager-toggle-search",
	Cancel:                     "cancel",
	CancelCommandline:          "cancel-commandline",
	Execute:                    "execute",
	Repaint:                    "repaint",
	ForceRepaint:               "force-repaint",
	Undo:                       "undo",
	Redo:                       "redo",
	SelfInsert:                 "self-insert",
	Null:                       "null",
}

var inputFunctionsByName = func() map[string]InputFunction {
	m := make(map[string]InputFunction, len(inputFunctionNames))
	for f, name := range inputFunctionNames {
		m[name] = f
	}
	return m
}()

func (f InputFunction) String() string {
	if name, ok := inputFunctionNames[f]; ok {
		return name
	}
	return "unknown"
}

// LookupInputFunction finds an input function by its name.
func LookupInputFunction(name string) (InputFunction, bool) {
	f, ok := inputFunctionsByName[name]
	return f, ok
}

// InputFunctionNames returns the names of all input functions, sorted.
func InputFunctionNames() []string {
	names := make([]string, 0, len(inputFunctionNames))
	for _, name := range inputFunctionNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Executes an input function on the state. It returns false for functions the
// Reader has no built-in behavior for.
func execInput(s *State, f InputFunction) bool {
	runes := []rune(s.Buffer.Text)
	dot := max(0, min(s.Buffer.Cursor, len(runes)))
	switch f {
	case BeginningOfLine:
		dot = lineStart(runes, dot)
	case EndOfLine:
		dot = lineEnd(runes, dot)
	case ForwardChar:
		dot = min(dot+1, len(runes))
	case BackwardChar:
		dot = max(dot-1, 0)
	case ForwardWord:
		dot = wordEnd(runes, dot, isWordRune)
	case BackwardWord:
		dot = wordStart(runes, dot, isWordRune)
	case ForwardBigword:
		dot = wordEnd(runes, dot, isBigwordRune)
	case BackwardBigword:
		dot = wordStart(runes, dot, isBigwordRune)
	case BeginningOfBuffer:
		dot = 0
	case EndOfBuffer:
		dot = len(runes)
	case DeleteChar:
		if dot < len(runes) {
			runes = cut(runes, dot, dot+1)
		}
	case BackwardDeleteChar:
		if dot > 0 {
			runes = cut(runes, dot-1, dot)
			dot--
		}
	case KillLine:
		end := lineEnd(runes, dot)
		if end == dot && end < len(runes) {
			// At the end of a line, kill the newline itself.
			end++
		}
		s.Killed = string(runes[dot:end])
		runes = cut(runes, dot, end)
	case BackwardKillLine:
		start := lineStart(runes, dot)
		s.Killed = string(runes[start:dot])
		runes = cut(runes, start, dot)
		dot = start
	case KillWholeLine:
		start, end := lineStart(runes, dot), lineEnd(runes, dot)
		if end < len(runes) {
			end++
		}
		s.Killed = string(runes[start:end])
		runes = cut(runes, start, end)
		dot = start
	case KillWord, KillBigword:
		end := wordEnd(runes, dot, wordPredicate(f == KillBigword))
		s.Killed = string(runes[dot:end])
		runes = cut(runes, dot, end)
	case BackwardKillWord, BackwardKillBigword:
		start := wordStart(runes, dot, wordPredicate(f == BackwardKillBigword))
		s.Killed = string(runes[start:dot])
		runes = cut(runes, start, dot)
		dot = start
	case TransposeChars:
		if len(runes) < 2 || dot == 0 {
			return true
		}
		// At the end of the buffer, swap the two runes before the cursor.
		if dot == len(runes) {
			dot--
		}
		runes[dot-1], runes[dot] = runes[dot], runes[dot-1]
		dot++
	case Yank:
		killed := []rune(s.Killed)
		runes = append(runes[:dot:dot], append(killed, runes[dot:]...)...)
		dot += len(killed)
	case BeginSelection:
		s.SelectionActive = true
		s.selectionAnchor = dot
	case EndSelection:
		s.SelectionActive = false
		s.Selection = diag.Ranging{}
	case SwapSelectionStartStop:
		if !s.SelectionActive {
			return true
		}
		s.selectionAnchor, dot = dot, min(s.selectionAnchor, len(runes))
	case Cancel:
		s.SearchMode = false
		s.PagerActive = false
	default:
		return false
	}
	s.Buffer = Buffer{Text: string(runes), Cursor: dot}
	if s.SelectionActive {
		anchor := min(s.selectionAnchor, len(runes))
		s.Selection = diag.Ranging{From: min(anchor, dot), To: max(anchor, dot)}
	}
	return true
}

func cut(runes []rune, from, to int) []rune {
	return append(runes[:from:from], runes[to:]...)
}

func lineStart(runes []rune, dot int) int {
	for dot > 0 && runes[dot-1] != '\n' {
		dot--
	}
	return dot
}

func lineEnd(runes []rune, dot int) int {
	for dot < len(runes) && runes[dot] != '\n' {
		dot++
	}
	return dot
}

func isBlank(r rune) bool { return strings.ContainsRune(" \t\n", r) }

// A word is a run of letters, digits and underscores.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// A bigword is a run of anything but blanks.
func isBigwordRune(r rune) bool { return !isBlank(r) }

func wordPredicate(big bool) func(rune) bool {
	if big {
		return isBigwordRune
	}
	return isWordRune
}

// Skips non-word runes, then word runes, moving right from dot.
func wordEnd(runes []rune, dot int, inWord func(rune) bool) int {
	for dot < len(runes) && !inWord(runes[dot]) {
		dot++
	}
	for dot < len(runes) && inWord(runes[dot]) {
		dot++
	}
	return dot
}

// Skips non-word runes, then word runes, moving left from dot.
func wordStart(runes []rune, dot int, inWord func(rune) bool) int {
	for dot > 0 && !inWord(runes[dot-1]) {
		dot--
	}
	for dot > 0 && inWord(runes[dot-1]) {
		dot--
	}
	return dot
}
