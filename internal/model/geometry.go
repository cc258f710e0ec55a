package model

import "fmt"

// Extent is the requested size of a rectangle, in pixels.
type Extent struct {
	W int `json:"width"`
	H int `json:"height"`
}

func NewExtent(w, h int) Extent {
	return Extent{W: w, H: h}
}

// Area returns W*H.
func (e Extent) Area() int {
	return e.W * e.H
}

// Valid reports whether both dimensions are strictly positive.
func (e Extent) Valid() bool {
	return e.W > 0 && e.H > 0
}

// FitsIn reports whether e fits inside other without rotation.
func (e Extent) FitsIn(other Extent) bool {
	return e.W <= other.W && e.H <= other.H
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%d", e.W, e.H)
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
// It covers the half-open range [X, X+W) x [Y, Y+H).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAt places an extent at the given origin.
func RectAt(x, y int, e Extent) Rect {
	return Rect{X: x, Y: y, W: e.W, H: e.H}
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.W }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int {
	return r.W * r.H
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Extent returns the size of the rectangle.
func (r Rect) Extent() Extent {
	return Extent{W: r.W, H: r.H}
}

// Center returns the geometric center of the rectangle.
func (r Rect) Center() Vector2 {
	return Vector2{
		X: float64(r.X) + float64(r.W)/2,
		Y: float64(r.Y) + float64(r.H)/2,
	}
}

// Fits reports whether an extent fits inside r.
func (r Rect) Fits(e Extent) bool {
	return e.W <= r.W && e.H <= r.H
}

// Overlaps reports whether r and o share any area. Rectangles that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.MaxX() && o.X < r.MaxX() &&
		r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersect returns the overlapping region of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.MaxX(), o.MaxX()), min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Vector2 is a 2D float vector used by fragment metadata.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
