// Package diagnostics scores a detection run against a known-correct item
// list, classifies every discrepancy and derives tuning recommendations for
// offline threshold work.
package diagnostics

import (
	"sort"

	"github.com/bonktools/itemscan/internal/catalog"
	"github.com/bonktools/itemscan/internal/fusion"
)

// Stable reason and recommendation strings. Callers and tests match on
// these substrings, so they must not be reworded casually.
const (
	ReasonNotInExpected      = "item not in expected list (possible misdetection)"
	ReasonDuplicateDetection = "duplicate detections of the same item"
	ReasonLowConfidence      = "low confidence detection (possible false match)"
	ReasonOccludedOrMissing  = "item not visible or occluded in screenshot"
	ReasonThresholdTooStrict = "template matching threshold may be too strict"
	ReasonOCRMisread         = "text recognition may have misread the item name"

	PatternDuplicates    = "duplicate detections"
	PatternMissedItems   = "likely missed items"
	PatternLowConfidence = "spurious low-confidence detections"

	RecommendTightenNMS      = "Tighten non-maximum suppression to collapse duplicate detections"
	RecommendLowerThreshold  = "Lower the template matching confidence threshold to catch missed items"
	RecommendRaiseThreshold  = "Raise the confidence threshold to filter spurious detections"
	RecommendQualityGood     = "Detection quality is good"
	lowConfidenceThreshold   = 0.6
	maxProblematicItemsCount = 5
)

// DetectedItem is one entry of a detection run under evaluation. A zero
// Confidence stands for a missing confidence value.
type DetectedItem struct {
	Name       string
	Confidence float64
}

// Entry describes one classified discrepancy (or agreement) for an item.
// ItemName is always lower-cased and trimmed.
type Entry struct {
	ItemName        string   `json:"itemName"`
	ExpectedCount   int      `json:"expectedCount"`
	DetectedCount   int      `json:"detectedCount"`
	Difference      int      `json:"difference"`
	Confidence      float64  `json:"confidence,omitempty"`
	PossibleReasons []string `json:"possibleReasons,omitempty"`
}

// Summary aggregates the classification counts of a run.
type Summary struct {
	TotalExpected        int      `json:"totalExpected"`
	TotalDetected        int      `json:"totalDetected"`
	TruePositiveCount    int      `json:"truePositiveCount"`
	FalsePositiveCount   int      `json:"falsePositiveCount"`
	FalseNegativeCount   int      `json:"falseNegativeCount"`
	ErrorRate            float64  `json:"errorRate"`
	MostProblematicItems []string `json:"mostProblematicItems"`
	CommonPatterns       []string `json:"commonPatterns"`
}

// Result is the full outcome of comparing a detection run to ground truth.
type Result struct {
	TruePositives   []Entry  `json:"truePositives"`
	FalsePositives  []Entry  `json:"falsePositives"`
	FalseNegatives  []Entry  `json:"falseNegatives"`
	Summary         Summary  `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// FromAggregated flattens aggregated detections into the per-unit detected
// list the analyzer consumes: an entry with count N contributes N units.
func FromAggregated(detections []fusion.Aggregated) []DetectedItem {
	out := make([]DetectedItem, 0, len(detections))
	for _, d := range detections {
		n := d.Count
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, DetectedItem{Name: d.Item.Name, Confidence: d.Confidence})
		}
	}
	return out
}

// Analyze compares detected items against the expected ground-truth name
// list. Names on both sides are case-folded and trimmed before comparison.
// It never fails; empty inputs produce an empty, fully-populated result.
func Analyze(detected []DetectedItem, expected []string) Result {
	expCounts := map[string]int{}
	for _, name := range expected {
		key := catalog.NormalizeName(name)
		if key == "" {
			continue
		}
		expCounts[key]++
	}

	detCounts := map[string]int{}
	confSums := map[string]float64{}
	confMax := map[string]float64{}
	for _, d := range detected {
		key := catalog.NormalizeName(d.Name)
		if key == "" {
			continue
		}
		detCounts[key]++
		confSums[key] += d.Confidence
		if d.Confidence > confMax[key] {
			confMax[key] = d.Confidence
		}
	}

	res := Result{
		TruePositives:  []Entry{},
		FalsePositives: []Entry{},
		FalseNegatives: []Entry{},
	}
	totalExpected := 0
	for _, n := range expCounts {
		totalExpected += n
	}
	totalDetected := 0
	for _, n := range detCounts {
		totalDetected += n
	}

	for _, key := range sortedKeys(expCounts, detCounts) {
		exp := expCounts[key]
		det := detCounts[key]
		switch {
		case det < exp:
			res.FalseNegatives = append(res.FalseNegatives, Entry{
				ItemName:        key,
				ExpectedCount:   exp,
				DetectedCount:   det,
				Difference:      exp - det,
				PossibleReasons: falseNegativeReasons(),
			})
		case det > exp:
			e := Entry{
				ItemName:        key,
				ExpectedCount:   exp,
				DetectedCount:   det,
				Difference:      det - exp,
				Confidence:      confMax[key],
				PossibleReasons: falsePositiveReasons(exp, det, confMax[key]),
			}
			res.FalsePositives = append(res.FalsePositives, e)
		case exp > 0:
			res.TruePositives = append(res.TruePositives, Entry{
				ItemName:      key,
				ExpectedCount: exp,
				DetectedCount: det,
				Confidence:    confSums[key] / float64(det),
			})
		}
	}

	res.Summary = Summary{
		TotalExpected:      totalExpected,
		TotalDetected:      totalDetected,
		TruePositiveCount:  len(res.TruePositives),
		FalsePositiveCount: len(res.FalsePositives),
		FalseNegativeCount: len(res.FalseNegatives),
	}
	if totalExpected > 0 {
		res.Summary.ErrorRate = float64(len(res.FalseNegatives)) / float64(totalExpected) * 100.0
	}
	res.Summary.MostProblematicItems = problematicItems(res.FalsePositives, res.FalseNegatives)
	res.Summary.CommonPatterns = commonPatterns(res.FalsePositives, res.FalseNegatives)
	res.Recommendations = recommendations(res.Summary.CommonPatterns)
	return res
}

func falseNegativeReasons() []string {
	return []string{
		ReasonOccludedOrMissing,
		ReasonThresholdTooStrict,
		ReasonOCRMisread,
	}
}

func falsePositiveReasons(expected, detected int, confidence float64) []string {
	reasons := []string{}
	if expected == 0 {
		reasons = append(reasons, ReasonNotInExpected)
	}
	if detected-expected > 1 {
		reasons = append(reasons, ReasonDuplicateDetection)
	}
	if confidence > 0 && confidence < lowConfidenceThreshold {
		reasons = append(reasons, ReasonLowConfidence)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonDuplicateDetection)
	}
	return reasons
}

// problematicItems lists names that show up as both over- and under-detected,
// then the names with the largest differences.
func problematicItems(fps, fns []Entry) []string {
	inFP := map[string]bool{}
	for _, e := range fps {
		inFP[e.ItemName] = true
	}

	out := []string{}
	seen := map[string]bool{}
	for _, e := range fns {
		if inFP[e.ItemName] && !seen[e.ItemName] {
			out = append(out, e.ItemName)
			seen[e.ItemName] = true
		}
	}

	rest := make([]Entry, 0, len(fps)+len(fns))
	rest = append(rest, fps...)
	rest = append(rest, fns...)
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Difference > rest[j].Difference })
	for _, e := range rest {
		if len(out) >= maxProblematicItemsCount {
			break
		}
		if !seen[e.ItemName] {
			out = append(out, e.ItemName)
			seen[e.ItemName] = true
		}
	}
	return out
}

func commonPatterns(fps, fns []Entry) []string {
	patterns := []string{}

	duplicated := 0
	lowConf := 0
	for _, e := range fps {
		if e.Difference > 1 {
			duplicated++
		}
		if e.Confidence > 0 && e.Confidence < lowConfidenceThreshold {
			lowConf++
		}
	}
	if duplicated >= 2 {
		patterns = append(patterns, PatternDuplicates)
	}
	if len(fns) > len(fps) && len(fns) > 0 {
		patterns = append(patterns, PatternMissedItems)
	}
	if lowConf > 0 && lowConf*2 >= len(fps) {
		patterns = append(patterns, PatternLowConfidence)
	}
	return patterns
}

func recommendations(patterns []string) []string {
	recs := []string{}
	for _, p := range patterns {
		switch p {
		case PatternDuplicates:
			recs = append(recs, RecommendTightenNMS)
		case PatternMissedItems:
			recs = append(recs, RecommendLowerThreshold)
		case PatternLowConfidence:
			recs = append(recs, RecommendRaiseThreshold)
		}
	}
	if len(recs) == 0 {
		recs = append(recs, RecommendQualityGood)
	}
	return recs
}

func sortedKeys(maps ...map[string]int) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
