package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bonktools/itemscan/internal/fusion"
	"github.com/bonktools/itemscan/internal/layout"
)

// Result is the outcome of analyzing one screenshot.
type Result struct {
	Width      int
	Height     int
	Resolution layout.Resolution
	CellCount  int
	RawText    string
	Detections []fusion.Detection
	Aggregated []fusion.Aggregated
	Duration   time.Duration
}

// ResultJSON is the serializable representation of a Result.
type ResultJSON struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Category   string          `json:"category"`
	CellCount  int             `json:"cell_count"`
	Detections []DetectionJSON `json:"detections"`
	DurationMS int64           `json:"duration_ms"`
}

// DetectionJSON is one serialized detection.
type DetectionJSON struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Rarity     string      `json:"rarity,omitempty"`
	Confidence float64     `json:"confidence"`
	Method     string      `json:"method"`
	Region     *RegionJSON `json:"region,omitempty"`
	Count      int         `json:"count,omitempty"`
	StackCount int         `json:"stack_count,omitempty"`
}

// RegionJSON is a serialized pixel rectangle.
type RegionJSON struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
	Label string `json:"label,omitempty"`
}

// ToJSON serializes the result. Aggregated entries are preferred when
// aggregation ran; otherwise the raw fused detections are emitted.
func (r *Result) ToJSON() ([]byte, error) {
	out := ResultJSON{
		Width:      r.Width,
		Height:     r.Height,
		Category:   string(r.Resolution.Category),
		CellCount:  r.CellCount,
		DurationMS: r.Duration.Milliseconds(),
		Detections: []DetectionJSON{},
	}
	if len(r.Aggregated) > 0 {
		for _, a := range r.Aggregated {
			d := detectionJSON(a.Detection)
			d.Count = a.Count
			out.Detections = append(out.Detections, d)
		}
	} else {
		for _, det := range r.Detections {
			out.Detections = append(out.Detections, detectionJSON(det))
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func detectionJSON(d fusion.Detection) DetectionJSON {
	out := DetectionJSON{
		ID:         d.Item.ID,
		Name:       d.Item.Name,
		Rarity:     d.Item.Rarity,
		Confidence: d.Confidence,
		Method:     string(d.Method),
		StackCount: d.StackCount,
	}
	if d.Region != nil {
		out.Region = &RegionJSON{
			X:     int(d.Region.X),
			Y:     int(d.Region.Y),
			W:     int(d.Region.Width),
			H:     int(d.Region.Height),
			Label: d.Region.Label,
		}
	}
	return out
}

// FormatText renders the result as a short human-readable listing.
func (r *Result) FormatText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Frame %dx%d (%s), %d cells inspected, %s\n",
		r.Width, r.Height, r.Resolution.Category, r.CellCount, r.Duration.Round(time.Millisecond))

	if len(r.Aggregated) > 0 {
		for _, a := range r.Aggregated {
			fmt.Fprintf(&b, "  %-24s x%-3d %.2f (%s)", a.Item.Name, a.Count, a.Confidence, a.Method)
			if a.StackCount > 0 {
				fmt.Fprintf(&b, " stack %d", a.StackCount)
			}
			b.WriteString("\n")
		}
		return b.String()
	}
	if len(r.Detections) == 0 {
		b.WriteString("  no items detected\n")
		return b.String()
	}
	for _, d := range r.Detections {
		fmt.Fprintf(&b, "  %-24s %.2f (%s)\n", d.Item.Name, d.Confidence, d.Method)
	}
	return b.String()
}
