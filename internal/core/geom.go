// Package core provides the engine-neutral building blocks shared by the
// simulation, the agent boundary and the renderers: geometry, the character
// screen buffer and the control abstraction. It has no dependency on Bubble Tea
// or any transport so game logic stays pure and testable.
package core

import "math"

// Rect is an axis-aligned bounding box in world pixels.
// Right and Bottom edges are exclusive.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectF builds a Rect from float coordinates. The origin is floored so
// hitboxes left of or above the world keep their extent; sizes truncate.
func RectF(x, y, w, h float64) Rect {
	return Rect{X: int(math.Floor(x)), Y: int(math.Floor(y)), W: int(w), H: int(h)}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.W <= 0 || r.H <= 0 || other.W <= 0 || other.H <= 0 {
		return false
	}
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Scale maps a world rectangle onto a grid of cells, where every cell covers
// sx by sy world pixels. Non-empty rectangles keep at least one cell.
func (r Rect) Scale(sx, sy float64) Rect {
	x0 := int(math.Floor(float64(r.X) / sx))
	y0 := int(math.Floor(float64(r.Y) / sy))
	x1 := int(math.Ceil(float64(r.Right()) / sx))
	y1 := int(math.Ceil(float64(r.Bottom()) / sy))
	if r.W > 0 && x1 <= x0 {
		x1 = x0 + 1
	}
	if r.H > 0 && y1 <= y0 {
		y1 = y0 + 1
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
