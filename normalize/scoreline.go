package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// ScoreLine is the result of parsing one "label score" line or cell.
type ScoreLine struct {
	Label   string
	Score   float64
	Maximum *float64 // nil when the line carried no denominator
}

// The cascade of accepted score formats, strictest first. Score is capped
// at three digits and maximum at four by pattern width; out-of-range
// numbers like "score: 5000" simply fail to match. The slash and "of"
// forms carry their own delimiter, so the label separator is optional
// there and OCR-merged lines like "Mathematics85/100" still parse. The
// bare form keeps a mandatory separator: without one any digit run would
// split a label like "B2" in half.
var (
	slashPattern = regexp.MustCompile(`^(.*?[^\d])(?:\s*[:\-]\s*|\s+)?(\d{1,3})\s*/\s*(\d{1,4})\b`)
	ofPattern    = regexp.MustCompile(`(?i)^(.*?[^\d])(?:\s*[:\-]\s*|\s+)?(\d{1,3})\s+of\s+(\d{1,4})\b`)
	barePattern  = regexp.MustCompile(`^(.*?[^\d])(?:\s*[:\-]\s*|\s+)(\d{1,3})\b`)

	trailingLabelNoise = regexp.MustCompile(`(?i)\b(score|marks|result)\b[:\s\-]*$`)
)

// ParseScoreLine extracts (label, score, maximum) from a single line.
// Formats are tried in order: "label 74 / 100", "label 74 of 100",
// "label 74". Returns nil when no format matches; callers fall back to
// the trailing-integer heuristic before giving up.
func ParseScoreLine(line string) *ScoreLine {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if m := slashPattern.FindStringSubmatch(line); m != nil {
		return newScoreLine(m[1], m[2], m[3])
	}
	if m := ofPattern.FindStringSubmatch(line); m != nil {
		return newScoreLine(m[1], m[2], m[3])
	}
	if m := barePattern.FindStringSubmatch(line); m != nil {
		return newScoreLine(m[1], m[2], "")
	}
	return nil
}

// trailingIntPattern is the last-resort heuristic: any label followed by a
// final small integer. Unlike the cascade it accepts labels ending in a
// digit, so "B2 77" lands here.
var trailingIntPattern = regexp.MustCompile(`^(.+?)\s+(\d{1,3})\b`)

// parseTrailingInt recovers "Label 74" style lines that the strict cascade
// rejected because the label itself ends in digits.
func parseTrailingInt(line string) *ScoreLine {
	m := trailingIntPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return newScoreLine(m[1], m[2], "")
}

func newScoreLine(label, score, maximum string) *ScoreLine {
	sl := &ScoreLine{Label: cleanLabel(label)}
	v, err := strconv.ParseFloat(score, 64)
	if err != nil {
		return nil
	}
	sl.Score = v
	if maximum != "" {
		if m, err := strconv.ParseFloat(maximum, 64); err == nil {
			sl.Maximum = &m
		}
	}
	return sl
}

// cleanLabel trims separators and strips trailing filler words such as
// "score" or "marks" that OCR tables append to subject names.
func cleanLabel(label string) string {
	label = strings.TrimSpace(label)
	label = trailingLabelNoise.ReplaceAllString(label, "")
	label = strings.TrimRight(strings.TrimSpace(label), ":-")
	return strings.TrimSpace(label)
}
