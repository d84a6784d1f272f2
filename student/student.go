// Package student recovers student identity fields — name, gender, state,
// and free-form metadata pairs — from metadata lines, structured rows, or
// raw OCR text. Extraction is best effort: every function returns the
// zero value when nothing credible is found, never an error.
package student

import (
	"regexp"
	"strings"

	"github.com/aidilfitri/reportparse/normalize"
	"github.com/aidilfitri/reportparse/vocab"
)

// Metadata is the per-document student record. Fields preserves encounter
// order; accumulation is first-match-wins per key, so OCR noise later in
// the document cannot overwrite an already-extracted value.
type Metadata struct {
	Name   string  `json:"name,omitempty"`
	Gender string  `json:"gender,omitempty"`
	State  string  `json:"state,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Field is one free-form key/value metadata pair.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get returns the value for key, or "" when absent.
func (m *Metadata) Get(key string) string {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// set records a pair unless the key is already present.
func (m *Metadata) set(key, value string) {
	if key == "" || value == "" || m.Get(key) != "" {
		return
	}
	m.Fields = append(m.Fields, Field{Key: key, Value: value})
}

var (
	namePattern     = regexp.MustCompile(`\bName[:\s]+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`)
	nameCuePattern  = regexp.MustCompile(`(?i)(Student\s+Name|Name)\s*[:\-]?\s*(.+)`)
	capTokenPattern = regexp.MustCompile(`[A-Z][a-zA-Z]+`)
	genderPattern   = regexp.MustCompile(`(?i)\b(Male|Female|Prefer not to say)\b`)
	statePattern    = regexp.MustCompile(`\bState[:\s]+([A-Za-z]+)`)
	spacePattern    = regexp.MustCompile(`\s+`)
	digitPattern    = regexp.MustCompile(`\d`)
)

// Name extracts a student name from OCR text: a run of capitalized tokens
// after a "Name" cue, truncated at the first stop word, digit, or
// score-like token. One retained token is enough on this path — OCR often
// eats everything after the first name.
func Name(text string) string {
	stop := vocab.NameStopWords()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "Name") {
			continue
		}
		m := namePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var words []string
		for _, word := range strings.Fields(m[1]) {
			if _, isStop := stop[word]; isStop || digitPattern.MatchString(word) || strings.Contains(word, "/") {
				break
			}
			words = append(words, word)
		}
		if len(words) >= 1 {
			return strings.Join(words, " ")
		}
	}
	return ""
}

// FullName extracts a name from structured text such as "Name: Ahmad
// Daniel" or "Student Name Ahmad Daniel". Structured data is cleaner than
// OCR, so a single-token result is treated as a false positive: at least
// two tokens must survive the stop-word boundary.
func FullName(text string) string {
	if text == "" {
		return ""
	}
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))

	remainder := text
	if m := nameCuePattern.FindStringSubmatch(text); m != nil {
		remainder = m[2]
	}

	tokens := capTokenPattern.FindAllString(remainder, -1)
	if len(tokens) < 2 {
		return ""
	}

	var parts []string
	for _, tok := range tokens {
		if inSet(tok, vocab.MetadataKeywords) || inSet(tok, vocab.KnownSubjects) || inSet(tok, vocab.CoCurricularKeywords) {
			break
		}
		parts = append(parts, tok)
	}
	if len(parts) >= 2 {
		return strings.Join(parts, " ")
	}
	return ""
}

// LooksLikeName reports whether text plausibly contains a person name:
// two or more capitalized tokens that are not common report words, or a
// capitalized run mixing common and uncommon words. Used to validate
// candidates, not to extract them.
func LooksLikeName(text string) bool {
	tokens := capTokenPattern.FindAllString(text, -1)
	if len(tokens) < 2 {
		return false
	}
	nonCommon := 0
	for _, t := range tokens {
		if !inSet(t, vocab.EnglishCommonWords) {
			nonCommon++
		}
	}
	if nonCommon >= 2 {
		return true
	}
	// A name next to a label word ("Name Ahmad Daniel") mixes dictionary
	// and non-dictionary tokens.
	sawCommon, sawOther := false, false
	for i, t := range tokens {
		if i >= 3 {
			break
		}
		if inSet(t, vocab.EnglishCommonWords) {
			sawCommon = true
		} else {
			sawOther = true
		}
	}
	return sawCommon && sawOther
}

// Gender returns the first gender token found anywhere in text,
// title-cased, or "".
func Gender(text string) string {
	m := genderPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return vocab.Title(m[1])
}

// State returns the state name following a "State" cue. The bare token
// "negeri" expands to "Negeri Sembilan" — OCR reliably truncates the only
// two-word state name in the supported list.
func State(text string) string {
	m := statePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if strings.EqualFold(m[1], "negeri") {
		return "Negeri Sembilan"
	}
	return m[1]
}

// FromColumns extracts a student name placed in a spreadsheet column
// header ("Student Name" | "Ahmad Daniel Bin Hassan" | ...). This is the
// highest-priority strategy for tabular inputs.
func FromColumns(header []string) string {
	for _, col := range header {
		col = strings.TrimSpace(col)
		if col == "" || strings.HasPrefix(col, "Unnamed") {
			continue
		}
		low := strings.ToLower(col)
		if low == "name" || low == "student name" {
			continue
		}
		tokens := capTokenPattern.FindAllString(col, -1)
		if len(tokens) < 2 {
			continue
		}
		var parts []string
		for _, t := range tokens {
			if inSet(t, vocab.MetadataKeywords) || inSet(t, vocab.KnownSubjects) || inSet(t, vocab.CoCurricularKeywords) {
				continue
			}
			parts = append(parts, t)
		}
		if len(parts) >= 2 {
			return strings.Join(parts, " ")
		}
	}
	return ""
}

// FromTable accumulates student metadata from the canonical table's
// Student Details records. Precedence is first-match-wins per field.
func FromTable(t normalize.Table) Metadata {
	var meta Metadata
	for _, rec := range t.Section(normalize.SectionStudentDetails) {
		text := strings.TrimSpace(rec.Label + " " + rec.Value)

		if meta.Name == "" && strings.Contains(strings.ToLower(rec.Label), "name") {
			if name := FullName(text); name != "" {
				meta.Name = name
			} else if LooksLikeName(text) {
				if rec.Value != "" {
					meta.Name = rec.Value
				} else {
					meta.Name = rec.Label
				}
			}
		}
		if meta.Gender == "" {
			meta.Gender = Gender(text)
		}
		if meta.State == "" {
			meta.State = State(text)
		}

		fields, _ := ParseMetadataLine(text)
		for _, f := range fields {
			meta.set(f.Key, f.Value)
		}
	}
	return meta
}

// Details renders the extracted identity fields as a display string
// ("Gender: Male, State: Selangor"), or "" when nothing was found.
func (m *Metadata) Details() string {
	var parts []string
	if m.Gender != "" {
		parts = append(parts, "Gender: "+m.Gender)
	}
	if m.State != "" {
		parts = append(parts, "State: "+m.State)
	}
	return strings.Join(parts, ", ")
}

func inSet(word string, set map[string]struct{}) bool {
	_, ok := set[word]
	return ok
}
