package textscan

import (
	"regexp"
	"strconv"
	"strings"
)

// countPattern pairs a stack-count syntax with its compiled expression.
// Patterns are tried in this order per line; the first that matches wins for
// that line. Across lines, a later match for the same name overwrites an
// earlier one.
type countPattern struct {
	name string
	re   *regexp.Regexp
}

var countPatterns = []countPattern{
	// "Health Potion x5", "Health Potion ×5", "Health Potion X 5"
	{name: "multiplier", re: regexp.MustCompile(`(?i)^(.+?)\s*[x×]\s*(\d+)$`)},
	// "Health Potion (5)"
	{name: "parenthesized", re: regexp.MustCompile(`(?i)^(.+?)\s*\((\d+)\)$`)},
	// "Health Potion: 5"
	{name: "colon", re: regexp.MustCompile(`(?i)^(.+?)\s*:\s*(\d+)$`)},
}

// ExtractCounts scans recognized text for item/stack-count pairs. Names are
// trimmed and lower-cased before insertion and only positive integer counts
// are kept; malformed lines are skipped silently.
func ExtractCounts(raw string) map[string]int {
	counts := make(map[string]int)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, count, ok := matchCountLine(line)
		if !ok {
			continue
		}
		counts[name] = count
	}
	return counts
}

// matchCountLine applies the count patterns in precedence order and returns
// the normalized name and parsed count for the first pattern that yields a
// usable pair.
func matchCountLine(line string) (string, int, bool) {
	for _, p := range countPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(m[1]))
		if name == "" {
			continue
		}
		count, err := strconv.Atoi(m[2])
		if err != nil || count <= 0 {
			continue
		}
		return name, count, true
	}
	return "", 0, false
}
