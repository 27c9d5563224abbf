// Package point implements the 2D coordinate and modular arithmetic that
// underlies every address in the core: a signed (X, Y) pair, the
// operators spec.md §3/§4.1 define over it, and the single normalise
// function every core access must pass through.
package point

import "fmt"

// A Point is a pair of signed coordinates. With the default round
// configuration (CoreSizeY == 1) Y is always 0 and Point behaves like a
// classic 1D Core War address.
type Point struct {
	X int
	Y int
}

// Zero is the origin.
var Zero = Point{}

// scalar promotes an int to a Point, per spec.md §4.1: "Operators mixing a
// Point and a scalar treat the scalar as (s, 0)". Every *Scalar method
// below is defined in terms of this and the matching Point-Point method,
// so the promotion rule lives in exactly one place.
func scalar(s int) Point { return Point{X: s} }

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Mul(o Point) Point { return Point{p.X * o.X, p.Y * o.Y} }

// Div truncates toward zero, matching Go's native integer division. A zero
// divisor component yields 0 for that component, as in Mod, so DivScalar
// (whose promoted divisor has Y == 0) does not panic.
func (p Point) Div(o Point) Point { return Point{truncDiv(p.X, o.X), truncDiv(p.Y, o.Y)} }

func truncDiv(a, m int) int {
	if m == 0 {
		return 0
	}
	return a / m
}

// Mod follows the mathematical convention: the result takes the sign of
// the divisor, so reducing against a positive extent always yields a
// non-negative component.
func (p Point) Mod(o Point) Point { return Point{floorMod(p.X, o.X), floorMod(p.Y, o.Y)} }

func (p Point) AddScalar(s int) Point { return p.Add(scalar(s)) }
func (p Point) SubScalar(s int) Point { return p.Sub(scalar(s)) }
func (p Point) MulScalar(s int) Point { return p.Mul(scalar(s)) }
func (p Point) DivScalar(s int) Point { return p.Div(scalar(s)) }
func (p Point) ModScalar(s int) Point { return p.Mod(scalar(s)) }

// Equal reports componentwise equality.
func (p Point) Equal(o Point) bool { return p.X == o.X && p.Y == o.Y }

// Compare orders points lexicographically, X then Y. It exists only for
// debug/display purposes — per spec.md §4.1, no program semantics may
// depend on it.
func (p Point) Compare(o Point) int {
	if p.X != o.X {
		return p.X - o.X
	}
	return p.Y - o.Y
}

func floorMod(a, m int) int {
	if m == 0 {
		return 0
	}
	r := a % m
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// Normalise reduces p into [0, extent.X) x [0, extent.Y), independently
// per component. This is the single choke point for wrapping described in
// spec.md §4.1: no other code may index the core without going through it
// (directly, or via Core.Read/Write, which call it on every access).
func Normalise(p, extent Point) Point {
	return Point{
		X: floorMod(floorMod(p.X, extent.X)+extent.X, extent.X),
		Y: floorMod(floorMod(p.Y, extent.Y)+extent.Y, extent.Y),
	}
}

// Index flattens a Point already known to be in range into a linear core
// offset: index(p) = p.Y*Cx + p.X.
func Index(p, extent Point) int { return p.Y*extent.X + p.X }

// FromIndex is the inverse of Index: given a flat offset into a core of
// the given extent, recovers the corresponding (already-normalised) Point.
func FromIndex(idx int, extent Point) Point {
	if extent.X == 0 {
		return Point{}
	}
	return Point{X: idx % extent.X, Y: idx / extent.X}
}

// String renders the canonical textual form used throughout the module:
// "x" when Y is zero, "x:y" otherwise. Parsing accepts both ':' and ';' as
// the component separator (see Parse); only ':' is ever emitted.
func (p Point) String() string {
	if p.Y == 0 {
		return fmt.Sprintf("%d", p.X)
	}
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}
