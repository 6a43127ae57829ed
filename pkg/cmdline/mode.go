// Package cmdline implements the commandline builtin: it reads and edits the
// command line being composed, addressing the whole buffer or the job,
// process or token under the cursor.
//
// The engine works in three steps. Resolve finds the extent a selection mode
// refers to. On the read path, Format renders that extent. On the write path,
// Splice computes the new buffer, which is handed to an Applier.
package cmdline

// SelectionMode selects which part of the buffer an operation works on.
type SelectionMode int

// Possible values of SelectionMode.
const (
	// The whole buffer.
	Whole SelectionMode = iota
	// The job under the cursor.
	Job
	// The process under the cursor.
	Process
	// The token under the cursor.
	Token
)

func (m SelectionMode) String() string {
	switch m {
	case Whole:
		return "whole"
	case Job:
		return "job"
	case Process:
		return "process"
	case Token:
		return "token"
	default:
		return "unknown"
	}
}

// SpliceMode selects how new text is combined with an extent.
type SpliceMode int

// Possible values of SpliceMode.
const (
	// Replace the extent with the new text.
	Replace SpliceMode = iota
	// Insert the new text into the extent at the cursor.
	Insert
	// Insert the new text right after the extent.
	Append
)

func (m SpliceMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Insert:
		return "insert"
	case Append:
		return "append"
	default:
		return "unknown"
	}
}
