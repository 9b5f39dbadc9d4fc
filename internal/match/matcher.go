package match

import (
	"image"
	"log/slog"

	"github.com/bonktools/itemscan/internal/geometry"
)

// Config holds template-matcher tuning.
type Config struct {
	// MinConfidence is the similarity score below which a cell's best
	// template hit is discarded.
	MinConfidence float64

	// NMSIoUThreshold is the overlap threshold for suppression of
	// duplicate hits across neighboring cells.
	NMSIoUThreshold float64
}

// DefaultConfig returns matcher defaults.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.55,
		NMSIoUThreshold: DefaultNMSIoUThreshold,
	}
}

// Matcher scores inspection cells of a frame against a template library.
type Matcher struct {
	lib *Library
	cfg Config
}

// NewMatcher builds a matcher over the given library. Zero config fields
// fall back to defaults.
func NewMatcher(lib *Library, cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = def.MinConfidence
	}
	if cfg.NMSIoUThreshold <= 0 {
		cfg.NMSIoUThreshold = def.NMSIoUThreshold
	}
	return &Matcher{lib: lib, cfg: cfg}
}

// Detect scores each inspection cell against every template and returns the
// surviving candidates after thresholding and non-maximum suppression. A nil
// image or empty cell list yields an empty result.
func (m *Matcher) Detect(img image.Image, cells []geometry.Region) []Candidate {
	if m == nil || m.lib == nil || img == nil || len(cells) == 0 {
		return []Candidate{}
	}

	candidates := make([]Candidate, 0, len(cells))
	for _, cell := range cells {
		patch := ExtractPatch(img, cell, m.lib.Size())
		if len(patch) == 0 {
			continue
		}
		if c, ok := m.bestHit(patch, cell); ok {
			candidates = append(candidates, c)
		}
	}

	kept := NonMaxSuppression(candidates, m.cfg.NMSIoUThreshold)
	slog.Debug("template matching complete",
		"cells", len(cells),
		"raw_candidates", len(candidates),
		"kept", len(kept),
	)
	return kept
}

// bestHit returns the highest-scoring template for a cell patch, if any
// template clears the confidence threshold.
func (m *Matcher) bestHit(patch Patch, cell geometry.Region) (Candidate, bool) {
	best := Candidate{}
	found := false
	for _, tpl := range m.lib.Templates() {
		score := Similarity(patch, tpl.Patch)
		if score < m.cfg.MinConfidence {
			continue
		}
		if !found || score > best.Confidence {
			region := cell
			best = Candidate{Item: tpl.Item, Confidence: score, Region: &region}
			found = true
		}
	}
	return best, found
}
