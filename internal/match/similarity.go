// Package match implements the template-matching side of the detection
// engine: pixel-patch similarity scoring, the template library of item icons
// and non-maximum suppression over scored candidates.
package match

import (
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"github.com/bonktools/itemscan/internal/geometry"
)

// Patch is a flat grayscale pixel buffer with values in [0, 255], row-major.
type Patch []float64

const (
	histogramBins = 32
	binWidth      = 256.0 / histogramBins

	// Blend weights for the structural and histogram similarity terms.
	structuralWeight = 0.6
	histogramWeight  = 0.4

	// Below this variance a patch is treated as uniform and the
	// correlation term is replaced by a brightness comparison.
	degenerateVariance = 1e-6
)

// PatchFromImage converts an image to a grayscale patch. The image is
// converted as-is; callers crop and resize beforehand.
func PatchFromImage(img image.Image) Patch {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	p := make(Patch, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Grayscale output has R == G == B.
			r, _, _, _ := gray.At(x, y).RGBA()
			p = append(p, float64(r>>8))
		}
	}
	return p
}

// ExtractPatch crops a region out of an image, resizes it to size x size and
// returns it as a grayscale patch. Empty regions yield an empty patch.
func ExtractPatch(img image.Image, region geometry.Region, size int) Patch {
	if img == nil || region.Empty() || size <= 0 {
		return Patch{}
	}
	rect := region.ToRect(img.Bounds())
	if rect.Empty() {
		return Patch{}
	}
	cropped := imaging.Crop(img, rect)
	resized := imaging.Resize(cropped, size, size, imaging.Linear)
	return PatchFromImage(resized)
}

// Similarity scores two patches in [0, 1] by blending a normalized
// cross-correlation term with a histogram comparison. The histogram term
// keeps uniform patches of different brightness from collapsing to zero on a
// degenerate-variance correlation. Mismatched sizes compare only the
// overlapping prefix.
func Similarity(a, b Patch) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	a, b = a[:n], b[:n]

	structural := structuralTerm(a, b)
	histogram := histogramIntersection(a, b)

	return geometry.Clamp01(structuralWeight*structural + histogramWeight*histogram)
}

// structuralTerm maps Pearson correlation from [-1, 1] into [0, 1]. Uniform
// patches have no defined correlation; they compare by mean brightness
// instead so that flat-but-similar patches still score.
func structuralTerm(a, b Patch) float64 {
	varA := stat.Variance(a, nil)
	varB := stat.Variance(b, nil)
	if varA < degenerateVariance || varB < degenerateVariance {
		diff := stat.Mean(a, nil) - stat.Mean(b, nil)
		if diff < 0 {
			diff = -diff
		}
		return 1.0 - diff/255.0
	}
	corr := stat.Correlation(a, b, nil)
	return (corr + 1.0) / 2.0
}

// histogramIntersection compares normalized 32-bin luma histograms and
// returns the sum of per-bin minima in [0, 1].
func histogramIntersection(a, b Patch) float64 {
	ha := histogram(a)
	hb := histogram(b)
	sum := 0.0
	for i := range ha {
		if ha[i] < hb[i] {
			sum += ha[i]
		} else {
			sum += hb[i]
		}
	}
	return sum
}

func histogram(p Patch) [histogramBins]float64 {
	var h [histogramBins]float64
	if len(p) == 0 {
		return h
	}
	for _, v := range p {
		bin := int(v / binWidth)
		if bin < 0 {
			bin = 0
		}
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		h[bin]++
	}
	total := float64(len(p))
	for i := range h {
		h[i] /= total
	}
	return h
}
