// Package behaviour recovers attribute→rating pairs ("Attentiveness" →
// "Good") from structured rows or OCR text, normalizing rating tokens that
// OCR corrupted with digit/letter confusions.
package behaviour

import (
	"regexp"
	"sort"
	"strings"

	"github.com/aidilfitri/reportparse/normalize"
	"github.com/aidilfitri/reportparse/vocab"
)

// ratingAlternation lists every rating token — canonical and variant —
// longest first so "very good" wins over "good" in the regex alternation.
var ratingAlternation = buildAlternation()

func buildAlternation() string {
	seen := make(map[string]struct{})
	var tokens []string
	for v := range vocab.RatingVariants {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			tokens = append(tokens, v)
		}
	}
	for _, r := range vocab.CanonicalRatings {
		low := strings.ToLower(r)
		if _, ok := seen[low]; !ok {
			seen[low] = struct{}{}
			tokens = append(tokens, low)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		escaped[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(escaped, "|")
}

var (
	// Strict pass: a 1–5 word attribute phrase immediately before a
	// rating token. Whitespace is confined to spaces and tabs so the
	// phrase cannot absorb a preceding line.
	strictPattern = regexp.MustCompile(
		`(?i)([A-Za-z][A-Za-z'&\-/]{0,20}(?:[ \t]+[A-Za-z][A-Za-z'&\-/]{0,20}){0,4})` +
			`[ \t]*(?:[:\-\x{2013}\x{2014}][ \t]*|[ \t]+)` +
			`\b(` + ratingAlternation + `)\b`)

	ratingTokenPattern = regexp.MustCompile(`(?i)\b(?:` + ratingAlternation + `)\b`)
	wordPattern        = regexp.MustCompile(`[A-Za-z'&\-/]{1,30}`)
	attrNoisePattern   = regexp.MustCompile(`[^\w\s\-/&']`)
	digitPattern       = regexp.MustCompile(`\d`)

	ocrRepairer = strings.NewReplacer("0", "o", "1", "l", "5", "s", "@", "a", "4", "a", "$", "s")
)

// NormalizeRating maps a raw rating token onto the canonical rating set.
// Cascade: exact canonical match, variant table, OCR character repair
// re-checked against both, then substring containment. Returns "" when
// every tier fails. Normalization is idempotent on canonical input.
func NormalizeRating(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return ""
	}
	for _, r := range vocab.CanonicalRatings {
		if t == strings.ToLower(r) {
			return r
		}
	}
	if r, ok := vocab.RatingVariants[t]; ok {
		return r
	}
	fixed := ocrRepairer.Replace(t)
	if r, ok := vocab.RatingVariants[fixed]; ok {
		return r
	}
	for _, r := range vocab.CanonicalRatings {
		if fixed == strings.ToLower(r) {
			return r
		}
	}
	for _, r := range vocab.CanonicalRatings {
		if strings.Contains(fixed, strings.ToLower(r)) {
			return r
		}
	}
	return ""
}

// Extract is the public entry point: structured rows win outright, text
// extraction runs only when the table yields nothing.
func Extract(t normalize.Table, text string) map[string]string {
	traits := FromTable(t)
	if len(traits) == 0 && text != "" {
		traits = FromText(text)
	}
	return traits
}

// FromTable collects pairs from records whose section mentions behaviour:
// Label → normalized(Value).
func FromTable(t normalize.Table) map[string]string {
	results := make(map[string]string)
	for _, rec := range t.Section(normalize.SectionBehaviour) {
		label := strings.TrimSpace(rec.Label)
		value := strings.TrimSpace(rec.Value)
		if label == "" || value == "" {
			continue
		}
		rating := NormalizeRating(value)
		if rating == "" {
			continue
		}
		if attr := cleanAttribute(label); attr != "" {
			results[attr] = rating
		}
	}
	return filterTraits(results)
}

// FromText runs the strict regex over OCR text and falls back to a
// backward word walk when the strict pass finds nothing. Table OCR often
// interleaves columns with "|"; only the left segment of such lines holds
// behaviour data.
func FromText(text string) map[string]string {
	if text == "" {
		return map[string]string{}
	}

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.IndexByte(line, '|'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	cleaned := strings.Join(lines, "\n")

	results := make(map[string]string)
	for _, m := range strictPattern.FindAllStringSubmatch(cleaned, -1) {
		rating := NormalizeRating(m[2])
		if rating == "" {
			continue
		}
		if attr := cleanAttribute(m[1]); attr != "" {
			results[attr] = rating
		}
	}

	if len(results) == 0 {
		results = fallbackPairs(cleaned)
	}
	return filterTraits(results)
}

// fallbackPairs locates every rating token and walks backward through the
// preceding word stream, skipping score fragments, to assemble up to five
// attribute words.
func fallbackPairs(text string) map[string]string {
	results := make(map[string]string)
	words := wordPattern.FindAllStringIndex(text, -1)

	for _, loc := range ratingTokenPattern.FindAllStringIndex(text, -1) {
		rating := NormalizeRating(text[loc[0]:loc[1]])
		if rating == "" {
			continue
		}

		// Last word that ends before the rating starts.
		idx := -1
		for i, w := range words {
			if w[1] <= loc[0] {
				idx = i
			} else {
				break
			}
		}
		if idx < 0 {
			continue
		}

		var attrWords []string
		for i := idx; i >= 0 && len(attrWords) < 5; i-- {
			tok := text[words[i][0]:words[i][1]]
			if digitPattern.MatchString(tok) || strings.Contains(tok, "/") {
				continue
			}
			attrWords = append([]string{tok}, attrWords...)
		}
		if len(attrWords) == 0 {
			continue
		}
		if attr := cleanAttribute(strings.Join(attrWords, " ")); attr != "" {
			results[attr] = rating
		}
	}
	return results
}

// GroupByRating inverts the trait map, listing attributes per canonical
// rating in alphabetical order for stable output.
func GroupByRating(traits map[string]string) map[string][]string {
	grouped := make(map[string][]string)
	for attr, rating := range traits {
		grouped[rating] = append(grouped[rating], attr)
	}
	for _, attrs := range grouped {
		sort.Strings(attrs)
	}
	return grouped
}

// filterTraits drops attributes that carry digits or run past 60
// characters — both are OCR artifacts, not trait names.
func filterTraits(traits map[string]string) map[string]string {
	out := make(map[string]string, len(traits))
	for attr, rating := range traits {
		if digitPattern.MatchString(attr) || len(attr) > 60 {
			continue
		}
		out[attr] = rating
	}
	return out
}

// cleanAttribute strips punctuation noise, collapses whitespace, and
// title-cases the attribute phrase.
func cleanAttribute(attr string) string {
	cleaned := attrNoisePattern.ReplaceAllString(attr, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return vocab.Title(cleaned)
}
