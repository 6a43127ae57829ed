package cmdline

import (
	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/diag"
)

// Splice combines insert with the extent r of b according to mode, and returns
// the resulting buffer. It does not modify b.
//
//   - Replace substitutes insert for the extent, and puts the cursor right
//     after it.
//   - Insert puts insert at the cursor, which must lie within r, and moves the
//     cursor past it.
//   - Append puts insert right after the extent. The cursor keeps its old
//     value, even if it was at or after the end of the extent.
//
// The extent must satisfy 0 <= r.From <= r.To <= b.Len().
func Splice(b cli.Buffer, r diag.Ranging, insert string, mode SpliceMode) cli.Buffer {
	runes := []rune(b.Text)
	prefix, extent, suffix := runes[:r.From], runes[r.From:r.To], runes[r.To:]
	ins := []rune(insert)

	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, prefix...)
	cursor := b.Cursor
	switch mode {
	case Replace:
		out = append(out, ins...)
		cursor = r.From + len(ins)
	case Append:
		out = append(out, extent...)
		out = append(out, ins...)
	case Insert:
		rel := b.Cursor - r.From
		out = append(out, extent[:rel]...)
		out = append(out, ins...)
		out = append(out, extent[rel:]...)
		cursor += len(ins)
	}
	out = append(out, suffix...)
	return cli.Buffer{Text: string(out), Cursor: cursor}
}
