package diagnostics

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// maxListedEntries bounds how many entries each section of the text report
// shows before truncating with an "…and N more" marker.
const maxListedEntries = 10

// Format renders the analysis result as a human-readable report. Sections
// keep the analyzer's ordering; long lists are truncated with an explicit
// marker.
func Format(res Result) string {
	var b strings.Builder

	b.WriteString("Detection error analysis\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "Expected items:  %d\n", res.Summary.TotalExpected)
	fmt.Fprintf(&b, "Detected items:  %d\n", res.Summary.TotalDetected)
	fmt.Fprintf(&b, "True positives:  %d\n", res.Summary.TruePositiveCount)
	fmt.Fprintf(&b, "False positives: %d\n", res.Summary.FalsePositiveCount)
	fmt.Fprintf(&b, "False negatives: %d\n", res.Summary.FalseNegativeCount)
	fmt.Fprintf(&b, "Error rate:      %.1f%%\n", res.Summary.ErrorRate)

	writeEntrySection(&b, "True positives", res.TruePositives, func(e Entry) string {
		return fmt.Sprintf("%s (count %d, avg confidence %.2f)", e.ItemName, e.DetectedCount, e.Confidence)
	})
	writeEntrySection(&b, "False positives", res.FalsePositives, func(e Entry) string {
		return fmt.Sprintf("%s (expected %d, detected %d): %s",
			e.ItemName, e.ExpectedCount, e.DetectedCount, strings.Join(e.PossibleReasons, "; "))
	})
	writeEntrySection(&b, "False negatives", res.FalseNegatives, func(e Entry) string {
		return fmt.Sprintf("%s (expected %d, detected %d): %s",
			e.ItemName, e.ExpectedCount, e.DetectedCount, strings.Join(e.PossibleReasons, "; "))
	})

	writeStringSection(&b, "Most problematic items", res.Summary.MostProblematicItems)
	writeStringSection(&b, "Common patterns", res.Summary.CommonPatterns)
	writeStringSection(&b, "Recommendations", res.Recommendations)

	return b.String()
}

func writeEntrySection(b *strings.Builder, title string, entries []Entry, render func(Entry) string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, e := range entries {
		if i >= maxListedEntries {
			fmt.Fprintf(b, "  …and %d more\n", len(entries)-maxListedEntries)
			break
		}
		fmt.Fprintf(b, "  - %s\n", render(e))
	}
}

func writeStringSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, line := range lines {
		if i >= maxListedEntries {
			fmt.Fprintf(b, "  …and %d more\n", len(lines)-maxListedEntries)
			break
		}
		fmt.Fprintf(b, "  - %s\n", line)
	}
}

// ExportJSON writes the full analysis result to filename as indented JSON,
// preserving every field and the analyzer's ordering.
func ExportJSON(res Result, filename string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write analysis result: %w", err)
	}
	return nil
}
