package geometry

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegion_NormalizesNegativeDimensions(t *testing.T) {
	r := NewRegion(10, 20, -5, -3)
	assert.Equal(t, 0.0, r.Width)
	assert.Equal(t, 0.0, r.Height)
	assert.True(t, r.Empty())
}

func TestRegion_Contains(t *testing.T) {
	outer := NewRegion(0, 0, 100, 100)
	tests := []struct {
		name  string
		inner Region
		want  bool
	}{
		{"fully inside", NewRegion(10, 10, 20, 20), true},
		{"identical", NewRegion(0, 0, 100, 100), true},
		{"touching edges", NewRegion(80, 80, 20, 20), true},
		{"overflows right", NewRegion(90, 10, 20, 20), false},
		{"outside", NewRegion(200, 200, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outer.Contains(tt.inner))
		})
	}
}

func TestRegion_ToRect_Clamped(t *testing.T) {
	bounds := image.Rect(0, 0, 50, 50)
	r := NewRegion(-10, 40, 100, 100)
	rect := r.ToRect(bounds)
	assert.Equal(t, image.Rect(0, 40, 50, 50), rect)
}

func TestIoU_Identity(t *testing.T) {
	r := NewRegion(5, 5, 30, 40)
	assert.InDelta(t, 1.0, IoU(r, r), 1e-9)
}

func TestIoU_KnownOverlap(t *testing.T) {
	a := NewRegion(0, 0, 100, 100)
	b := NewRegion(50, 50, 100, 100)
	// Intersection 50x50=2500, union 10000+10000-2500=17500.
	require.InDelta(t, 2500.0/17500.0, IoU(a, b), 1e-6)
}

func TestIoU_Disjoint(t *testing.T) {
	a := NewRegion(0, 0, 10, 10)
	b := NewRegion(20, 20, 10, 10)
	assert.Equal(t, 0.0, IoU(a, b))
}

func TestIoU_TouchingEdgesIsZero(t *testing.T) {
	a := NewRegion(0, 0, 10, 10)
	b := NewRegion(10, 0, 10, 10)
	assert.Equal(t, 0.0, IoU(a, b))
}

func TestIoU_ZeroAreaRegion(t *testing.T) {
	a := NewRegion(0, 0, 0, 10)
	b := NewRegion(0, 0, 10, 10)
	assert.Equal(t, 0.0, IoU(a, b))
	assert.Equal(t, 0.0, IoU(b, a))
}

func TestIoU_Symmetry(t *testing.T) {
	// Sweep a small grid of offset boxes and verify commutativity and bounds.
	for dx := -30.0; dx <= 30.0; dx += 10.0 {
		for dy := -30.0; dy <= 30.0; dy += 10.0 {
			a := NewRegion(0, 0, 40, 40)
			b := NewRegion(dx, dy, 25, 35)
			ab := IoU(a, b)
			ba := IoU(b, a)
			if math.Abs(ab-ba) > 1e-12 {
				t.Fatalf("IoU not symmetric for offset (%v,%v): %v vs %v", dx, dy, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Fatalf("IoU out of [0,1] for offset (%v,%v): %v", dx, dy, ab)
			}
		}
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.42, Clamp01(0.42))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}
