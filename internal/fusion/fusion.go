// Package fusion merges the candidate lists of the two recognition paths
// into one ranked detection list, boosting confidence where both paths agree
// on the same item, and collapses duplicate detections of an item into a
// single aggregated entry.
package fusion

import (
	"sort"
	"strings"

	"github.com/bonktools/itemscan/internal/catalog"
	"github.com/bonktools/itemscan/internal/geometry"
	"github.com/bonktools/itemscan/internal/match"
)

// Method tags which recognition path produced a detection.
type Method string

const (
	MethodTemplate Method = "template"
	MethodText     Method = "text"
	MethodHybrid   Method = "hybrid"
)

const (
	// HybridBoostFactor multiplies the stronger source's confidence when
	// both paths agree on an item.
	HybridBoostFactor = 1.2

	// HybridConfidenceCeiling caps a boosted confidence so a fused result
	// is never reported as certain.
	HybridConfidenceCeiling = 0.98
)

// TextCandidate is a recognition hit from the text path. Text hits carry no
// region; recognition runs over the whole frame or a pre-cropped area.
type TextCandidate struct {
	Item       catalog.Item
	Confidence float64
	RawText    string
}

// Detection is one fused recognition result. Region is nil for text-only
// hits. StackCount is the in-game stack size recovered from the count
// overlay text, zero when unknown.
type Detection struct {
	Item       catalog.Item
	Confidence float64
	Method     Method
	Region     *geometry.Region
	RawText    string
	StackCount int
}

// Aggregated is a detection plus the number of raw detections collapsed
// into it.
type Aggregated struct {
	Detection
	Count int
}

// Combine fuses the two candidate lists. An item present in both lists
// yields one hybrid detection with confidence min(0.98, 1.2 x max of the two
// sides) and the template side's region; an item present in only one list
// passes through unchanged with its source method tag. Items are identified
// by catalog ID, never by raw display text. Combine is total: empty inputs
// yield an empty, non-nil result.
func Combine(text []TextCandidate, template []match.Candidate) []Detection {
	bestText := make(map[string]TextCandidate, len(text))
	textOrder := make([]string, 0, len(text))
	for _, tc := range text {
		prev, seen := bestText[tc.Item.ID]
		if !seen {
			textOrder = append(textOrder, tc.Item.ID)
		}
		if !seen || tc.Confidence > prev.Confidence {
			bestText[tc.Item.ID] = tc
		}
	}

	bestTemplate := make(map[string]match.Candidate, len(template))
	templateOrder := make([]string, 0, len(template))
	for _, mc := range template {
		prev, seen := bestTemplate[mc.Item.ID]
		if !seen {
			templateOrder = append(templateOrder, mc.Item.ID)
		}
		if !seen || mc.Confidence > prev.Confidence {
			bestTemplate[mc.Item.ID] = mc
		}
	}

	out := make([]Detection, 0, len(textOrder)+len(templateOrder))
	for _, id := range templateOrder {
		mc := bestTemplate[id]
		if tc, both := bestText[id]; both {
			conf := mc.Confidence
			if tc.Confidence > conf {
				conf = tc.Confidence
			}
			conf *= HybridBoostFactor
			if conf > HybridConfidenceCeiling {
				conf = HybridConfidenceCeiling
			}
			out = append(out, Detection{
				Item:       mc.Item,
				Confidence: geometry.Clamp01(conf),
				Method:     MethodHybrid,
				Region:     mc.Region,
				RawText:    tc.RawText,
			})
			continue
		}
		out = append(out, Detection{
			Item:       mc.Item,
			Confidence: geometry.Clamp01(mc.Confidence),
			Method:     MethodTemplate,
			Region:     mc.Region,
		})
	}
	for _, id := range textOrder {
		if _, both := bestTemplate[id]; both {
			continue
		}
		tc := bestText[id]
		out = append(out, Detection{
			Item:       tc.Item,
			Confidence: geometry.Clamp01(tc.Confidence),
			Method:     MethodText,
			RawText:    tc.RawText,
		})
	}
	return out
}

// Aggregate collapses duplicate detections of the same item into one entry.
// Count is the group size, confidence is the maximum within the group (an
// aggregator is intentionally optimistic: repeated low-confidence hits on
// the same item indicate real presence), and the first-seen region is kept.
// Results are sorted by display name ascending, case-insensitively.
func Aggregate(detections []Detection) []Aggregated {
	groups := make(map[string]*Aggregated, len(detections))
	order := make([]string, 0, len(detections))
	for _, d := range detections {
		g, ok := groups[d.Item.ID]
		if !ok {
			cp := d
			groups[d.Item.ID] = &Aggregated{Detection: cp, Count: 1}
			order = append(order, d.Item.ID)
			continue
		}
		g.Count++
		if d.Confidence > g.Confidence {
			g.Confidence = d.Confidence
			g.Method = d.Method
		}
		if d.StackCount > g.StackCount {
			g.StackCount = d.StackCount
		}
	}

	out := make([]Aggregated, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Item.Name) < strings.ToLower(out[j].Item.Name)
	})
	return out
}
