// Package geometry provides the rectangle and overlap primitives used by
// the detection engine: regions of interest, intersection-over-union and
// containment checks in frame pixel coordinates.
package geometry

import (
	"image"
	"math"
)

// Region is an axis-aligned rectangle in frame pixel coordinates with an
// optional label identifying what the rectangle samples (e.g. "cell_3").
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Label  string
}

// NewRegion constructs a Region, normalizing negative dimensions to zero.
func NewRegion(x, y, w, h float64) Region {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Region{X: x, Y: y, Width: w, Height: h}
}

// MaxX returns the exclusive right edge of the region.
func (r Region) MaxX() float64 { return r.X + r.Width }

// MaxY returns the exclusive bottom edge of the region.
func (r Region) MaxY() float64 { return r.Y + r.Height }

// Area returns the region area in square pixels.
func (r Region) Area() float64 { return r.Width * r.Height }

// Empty reports whether the region has zero or non-finite area.
func (r Region) Empty() bool {
	if math.IsNaN(r.Width) || math.IsNaN(r.Height) || math.IsInf(r.Width, 0) || math.IsInf(r.Height, 0) {
		return true
	}
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether inner lies fully within r (edges may touch).
func (r Region) Contains(inner Region) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.MaxX() <= r.MaxX() && inner.MaxY() <= r.MaxY()
}

// ToRect converts the region to an image.Rectangle clamped to the given bounds.
func (r Region) ToRect(bounds image.Rectangle) image.Rectangle {
	x1 := clampInt(int(math.Floor(r.X)), bounds.Min.X, bounds.Max.X)
	y1 := clampInt(int(math.Floor(r.Y)), bounds.Min.Y, bounds.Max.Y)
	x2 := clampInt(int(math.Ceil(r.MaxX())), bounds.Min.X, bounds.Max.X)
	y2 := clampInt(int(math.Ceil(r.MaxY())), bounds.Min.Y, bounds.Max.Y)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return image.Rect(x1, y1, x2, y2)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IoU computes Intersection over Union for two regions. It returns 0 when
// either region has zero area or the regions do not overlap, and 1 for
// identical non-empty regions. IoU is symmetric.
func IoU(a, b Region) float64 {
	if a.Empty() || b.Empty() {
		return 0.0
	}

	left := math.Max(a.X, b.X)
	top := math.Max(a.Y, b.Y)
	right := math.Min(a.MaxX(), b.MaxX())
	bottom := math.Min(a.MaxY(), b.MaxY())

	if left >= right || top >= bottom {
		return 0.0
	}

	intersection := (right - left) * (bottom - top)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0.0
	}
	return intersection / union
}

// Clamp01 clamps a confidence-like value to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
