package game

import (
	"fmt"
	"math"
)

// Vec2 is a point or direction in world units
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

func (v Vec2) String() string {
	return fmt.Sprintf("{%.2f, %.2f}", v.X, v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between two points
func Dist(a, b Vec2) float64 {
	return a.Sub(b).Len()
}

// FromAngle returns a vector of the given length pointing along angle
func FromAngle(angle, length float64) Vec2 {
	return Vec2{X: math.Cos(angle) * length, Y: math.Sin(angle) * length}
}

// Overlaps reports whether two circles intersect. Exact tangency is not an overlap.
func Overlaps(a Vec2, ra float64, b Vec2, rb float64) bool {
	return Dist(a, b) < ra+rb
}

// Bounds is the playable rectangle [0, Width] x [0, Height]
type Bounds struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// Contains reports whether p lies inside the world, edges included
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Clamp keeps p at least margin away from every edge
func (b Bounds) Clamp(p Vec2, margin float64) Vec2 {
	return Vec2{
		X: clamp(p.X, margin, b.Width-margin),
		Y: clamp(p.Y, margin, b.Height-margin),
	}
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
