package match

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonktools/itemscan/internal/geometry"
)

func uniformPatch(n int, v float64) Patch {
	p := make(Patch, n)
	for i := range p {
		p[i] = v
	}
	return p
}

func gradientPatch(n int) Patch {
	p := make(Patch, n)
	for i := range p {
		p[i] = float64(i % 256)
	}
	return p
}

func TestSimilarity_IdenticalPatches(t *testing.T) {
	p := gradientPatch(2500)
	assert.InDelta(t, 1.0, Similarity(p, p), 1e-6)
}

func TestSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity(Patch{}, gradientPatch(100)))
	assert.Equal(t, 0.0, Similarity(Patch{}, Patch{}))
}

func TestSimilarity_UniformDifferentBrightness(t *testing.T) {
	// Two flat patches at different levels must register partial
	// similarity instead of collapsing on the degenerate correlation.
	a := uniformPatch(400, 100)
	b := uniformPatch(400, 110)
	s := Similarity(a, b)
	assert.Greater(t, s, 0.4)
	assert.Less(t, s, 1.0)
}

func TestSimilarity_UniformIdenticalBrightness(t *testing.T) {
	a := uniformPatch(400, 128)
	assert.InDelta(t, 1.0, Similarity(a, a), 1e-6)
}

func TestSimilarity_MismatchedSizesUsePrefix(t *testing.T) {
	long := gradientPatch(1000)
	short := gradientPatch(400)
	assert.InDelta(t, Similarity(long[:400], short), Similarity(long, short), 1e-9)
}

func TestSimilarity_InUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		a := make(Patch, 256)
		b := make(Patch, 256)
		for i := range a {
			a[i] = rng.Float64() * 255
			b[i] = rng.Float64() * 255
		}
		s := Similarity(a, b)
		require.GreaterOrEqual(t, s, 0.0)
		require.LessOrEqual(t, s, 1.0)
	}
}

func TestSimilarity_Fast(t *testing.T) {
	// Hundreds of calls per pass at icon resolution must stay cheap.
	a := gradientPatch(50 * 50)
	b := gradientPatch(50 * 50)
	start := time.Now()
	for i := 0; i < 500; i++ {
		Similarity(a, b)
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestExtractPatch(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}

	p := ExtractPatch(img, geometry.NewRegion(10, 10, 40, 40), 20)
	assert.Len(t, p, 20*20)

	t.Run("empty region", func(t *testing.T) {
		assert.Empty(t, ExtractPatch(img, geometry.NewRegion(0, 0, 0, 0), 20))
	})
	t.Run("nil image", func(t *testing.T) {
		assert.Empty(t, ExtractPatch(nil, geometry.NewRegion(0, 0, 10, 10), 20))
	})
	t.Run("region outside bounds", func(t *testing.T) {
		assert.Empty(t, ExtractPatch(img, geometry.NewRegion(500, 500, 10, 10), 20))
	})
}
