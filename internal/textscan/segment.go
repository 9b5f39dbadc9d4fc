package textscan

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// minLineLength is the shortest line kept after trimming; anything at
	// or below this is treated as recognition noise.
	minLineLength = 2

	// longLineLength is the length past which a line is considered a
	// dense recognition dump and split on delimiters.
	longLineLength = 50
)

// delimiterSplitter matches the separators used to break up long lines.
func delimiterSplitter(r rune) bool {
	switch r {
	case ',', ';', '|', '\t':
		return true
	default:
		return false
	}
}

// Clean normalizes raw recognized text: NFC normalization, control and
// zero-width character removal, whitespace-run collapse within lines.
func Clean(raw string) string {
	if raw == "" {
		return raw
	}
	s := norm.NFC.String(raw)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\u200b', r == '\u200c', r == '\u200d', r == '\ufeff':
			// zero-width characters
		case unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

// SegmentText splits raw recognized text into candidate name lines. Lines
// are trimmed and lines of two characters or fewer are dropped as noise.
// Lines longer than 50 characters are additionally split on commas,
// semicolons, pipes and tabs; short lines keep their delimiters so natural
// phrases like "A, B, C" survive intact.
func SegmentText(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= minLineLength {
			continue
		}
		if len(line) <= longLineLength {
			out = append(out, line)
			continue
		}
		for _, piece := range strings.FieldsFunc(line, delimiterSplitter) {
			piece = strings.TrimSpace(piece)
			if len(piece) > minLineLength {
				out = append(out, piece)
			}
		}
	}
	return out
}
