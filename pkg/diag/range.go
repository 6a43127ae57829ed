// Package diag contains the range type shared by the grammar and the
// command line engine.
package diag

import "fmt"

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a range [From, To) of rune indices within a text. Structs
// can embed Ranging to satisfy the [Ranger] interface.
//
// Ideally, this type would be called Range. However, doing that means structs
// embedding this type will have Range as a field instead of a method, thus not
// implementing the [Ranger] interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// Len returns the number of runes covered by the range.
func (r Ranging) Len() int { return r.To - r.From }

// Contains reports whether p lies within the range. Both ends are inclusive,
// so a position just after the last rune is considered inside.
func (r Ranging) Contains(p int) bool { return r.From <= p && p <= r.To }

// Shift returns the range moved by the given offset.
func (r Ranging) Shift(offset int) Ranging {
	return Ranging{r.From + offset, r.To + offset}
}

func (r Ranging) String() string { return fmt.Sprintf("[%d, %d)", r.From, r.To) }

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}
