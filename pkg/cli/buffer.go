package cli

import (
	"unicode/utf8"

	"github.com/Gaelan/fish-shell/pkg/diag"
)

// Buffer is an editable line of text together with a cursor.
type Buffer struct {
	// Content of the buffer.
	Text string
	// Position of the cursor, as a rune index into Text.
	Cursor int
}

// Len returns the number of runes in the buffer.
func (b Buffer) Len() int { return utf8.RuneCountInString(b.Text) }

// Clamped returns the buffer with the cursor moved into [0, b.Len()].
func (b Buffer) Clamped() Buffer {
	b.Cursor = max(0, min(b.Cursor, b.Len()))
	return b
}

// State keeps the mutable state of a Reader.
type State struct {
	Buffer          Buffer
	SelectionActive bool
	// Selected range, meaningful only when SelectionActive is true.
	Selection   diag.Ranging
	SearchMode  bool
	PagerActive bool
	// Text most recently removed by a kill input function.
	Killed string

	// Where the selection started.
	selectionAnchor int
}

// Snapshot is a point-in-time copy of the state of a Reader. Modifying it does
// not affect the Reader.
type Snapshot struct {
	State
	// A command line that temporarily stands in for the buffer, such as the
	// line being completed. Valid only when HasTransient is true.
	Transient    string
	HasTransient bool
}

// SelectedText returns the selected part of the buffer, or "" if there is no
// selection.
func (s Snapshot) SelectedText() string {
	if !s.SelectionActive {
		return ""
	}
	runes := []rune(s.Buffer.Text)
	from := max(0, min(s.Selection.From, len(runes)))
	to := max(from, min(s.Selection.To, len(runes)))
	return string(runes[from:to])
}
