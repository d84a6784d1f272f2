// Package ranking produces the top-N subject list from structured rows or
// loosely patterned OCR text, deduplicating repeated subjects by their
// highest score.
package ranking

import (
	"regexp"
	"sort"
	"strings"

	"github.com/aidilfitri/reportparse/normalize"
	"github.com/aidilfitri/reportparse/vocab"
)

// Entry is one ranked subject.
type Entry struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// Loose free-text shapes, in priority order: "label 85/100",
// "label: 85", "label 85".
var loosePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([a-z][a-z\s]{2,40}?)\s+(\d{1,3})\s*/\s*\d{1,4}`),
	regexp.MustCompile(`([a-z][a-z\s]{2,40}?)\s*[:\-]\s*(\d{1,3})\b`),
	regexp.MustCompile(`([a-z][a-z\s]{2,40}?)\s+(\d{1,3})\b`),
}

// Words that cannot end a subject label.
var skipWords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "of": {},
}

// TopN ranks subjects by score descending and returns the first n after
// deduplication. The structured and free-text passes run independently
// and their pairs merge; dedup keeps the highest score per subject.
func TopN(t normalize.Table, text string, n int) []Entry {
	entries := fromTable(t)
	if text != "" {
		entries = append(entries, fromText(text)...)
	}
	entries = dedupe(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Top5 is TopN with the conventional cutoff.
func Top5(t normalize.Table, text string) []Entry {
	return TopN(t, text, 5)
}

// fromTable takes every scored row regardless of section: a scored
// co-curricular or misc row ranks the same as a subject row.
func fromTable(t normalize.Table) []Entry {
	var entries []Entry
	for _, rec := range t {
		if rec.Score == nil || *rec.Score <= 0 {
			continue
		}
		label := simplifyLabel(rec.Label)
		if label == "" {
			continue
		}
		entries = append(entries, Entry{Subject: label, Score: *rec.Score})
	}
	return entries
}

func fromText(text string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(text, "\n") {
		for _, cell := range strings.Split(line, "|") {
			cell = strings.ToLower(strings.TrimSpace(cell))
			if cell == "" {
				continue
			}
			for _, p := range loosePatterns {
				m := p.FindStringSubmatch(cell)
				if m == nil {
					continue
				}
				label := simplifyLabel(m[1])
				if label == "" {
					break
				}
				score := normalize.ParseNumber(m[2])
				if score == nil || *score <= 0 {
					break
				}
				entries = append(entries, Entry{Subject: label, Score: *score})
				break
			}
		}
	}
	return entries
}

// simplifyLabel reduces a raw label to its subject name: a known two-word
// subject when one is embedded, otherwise the last significant word.
func simplifyLabel(label string) string {
	low := strings.ToLower(strings.TrimSpace(label))
	if low == "" {
		return ""
	}
	for _, two := range vocab.TwoWordSubjects {
		if strings.Contains(low, two) {
			return vocab.Title(two)
		}
	}
	words := strings.Fields(low)
	for i := len(words) - 1; i >= 0; i-- {
		w := words[i]
		if len(w) <= 1 {
			continue
		}
		if _, skip := skipWords[w]; skip {
			continue
		}
		return vocab.Title(w)
	}
	return ""
}

// dedupe keeps the highest score per subject, preserving descending score
// order. Ranking an already-ranked list is a no-op.
func dedupe(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		key := strings.ToLower(e.Subject)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
