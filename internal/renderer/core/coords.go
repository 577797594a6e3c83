package core

import "fmt"

// Position is a 0-indexed grid coordinate, origin top-left.
type Position struct {
	X int
	Y int
}

// Pos creates a position.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns the position translated by other.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the position relative to origin.
func (p Position) Sub(origin Position) Position {
	return Position{X: p.X - origin.X, Y: p.Y - origin.Y}
}

// Translate returns the position moved by dx, dy.
func (p Position) Translate(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is a width × height pair.
type Size struct {
	Width  int
	Height int
}

// SizeOf creates a size.
func SizeOf(width, height int) Size {
	return Size{Width: width, Height: height}
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Area returns the number of cells covered.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Contains reports whether p lies within [0,Width)×[0,Height).
func (s Size) Contains(p Position) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect represents a rectangular region.
type Rect struct {
	Top    int // First row (inclusive)
	Left   int // First column (inclusive)
	Bottom int // Last row (exclusive)
	Right  int // Last column (exclusive)
}

// NewRect creates a rectangle.
func NewRect(top, left, bottom, right int) Rect {
	return Rect{Top: top, Left: left, Bottom: bottom, Right: right}
}

// RectAt creates a rectangle from its top-left corner and size.
func RectAt(origin Position, size Size) Rect {
	return Rect{
		Top:    origin.Y,
		Left:   origin.X,
		Bottom: origin.Y + size.Height,
		Right:  origin.X + size.Width,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains returns true if pos is within the rectangle.
func (r Rect) Contains(pos Position) bool {
	return pos.Y >= r.Top && pos.Y < r.Bottom &&
		pos.X >= r.Left && pos.X < r.Right
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && r.Right > other.Left &&
		r.Top < other.Bottom && r.Bottom > other.Top
}

// Intersection returns the overlapping region of two rectangles.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return Rect{
		Top:    max(r.Top, other.Top),
		Left:   max(r.Left, other.Left),
		Bottom: min(r.Bottom, other.Bottom),
		Right:  min(r.Right, other.Right),
	}
}

// TopLeft returns the top-left corner position.
func (r Rect) TopLeft() Position {
	return Position{X: r.Left, Y: r.Top}
}
