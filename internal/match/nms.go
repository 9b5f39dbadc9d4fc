package match

import (
	"sort"

	"github.com/bonktools/itemscan/internal/catalog"
	"github.com/bonktools/itemscan/internal/geometry"
)

// DefaultNMSIoUThreshold is the overlap above which a lower-confidence
// candidate is suppressed.
const DefaultNMSIoUThreshold = 0.3

// Candidate is one scored template-matching hit. Region is nil when the
// matcher could not localize the hit; such candidates are never compared
// geometrically and survive suppression unconditionally.
type Candidate struct {
	Item       catalog.Item
	Confidence float64
	Region     *geometry.Region
	RawText    string // set only on candidates synthesized from recognized text
}

// Positioned reports whether the candidate carries a localizing region.
func (c Candidate) Positioned() bool { return c.Region != nil }

// NonMaxSuppression keeps the highest-confidence candidate among groups of
// overlapping positioned candidates. Sorting is stable so equal confidences
// keep their original relative order.
func NonMaxSuppression(candidates []Candidate, iouThreshold float64) []Candidate {
	if len(candidates) <= 1 {
		return append([]Candidate(nil), candidates...)
	}

	sorted := append([]Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	suppressed := make([]bool, len(sorted))
	kept := make([]Candidate, 0, len(sorted))

	for i := range sorted {
		if suppressed[i] {
			continue
		}
		kept = append(kept, sorted[i])
		if !sorted[i].Positioned() {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			if suppressed[j] || !sorted[j].Positioned() {
				continue
			}
			if geometry.IoU(*sorted[i].Region, *sorted[j].Region) > iouThreshold {
				suppressed[j] = true
			}
		}
	}

	return kept
}
