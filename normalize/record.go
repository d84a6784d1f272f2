// Package normalize converts heterogeneous report inputs — structured
// tables, OCR line dumps, free text — into the canonical record schema
// consumed by every downstream extractor.
package normalize

import (
	"strconv"
	"strings"
)

// Canonical section tags.
const (
	SectionStudentDetails = "Student Details"
	SectionSubjects       = "Subjects"
	SectionBehaviour      = "Behaviour"
	SectionCoCurricular   = "Co-curricular"
	SectionMisc           = "Misc"
)

// Columns is the fixed canonical column order. Downstream consumers key
// statistics by these names; renaming any is a breaking change.
var Columns = []string{"Section", "Label", "Score", "Maximum", "Value", "Notes"}

// Record is one normalized row. Score and Maximum are nil when the source
// cell was absent or not coercible to a number. A record with neither a
// score nor a value is a misc line kept for traceability only.
type Record struct {
	Section string   `json:"section"`
	Label   string   `json:"label"`
	Score   *float64 `json:"score,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
	Value   string   `json:"value,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// Table is an ordered list of canonical records.
type Table []Record

// Section returns the records carrying the given section tag, compared
// case-insensitively by containment so "Subjects" matches "Subject Scores".
func (t Table) Section(tag string) Table {
	var out Table
	low := strings.ToLower(tag)
	for _, r := range t {
		if strings.Contains(strings.ToLower(r.Section), low) {
			out = append(out, r)
		}
	}
	return out
}

// Scores returns the non-nil values of the Score column in record order.
func (t Table) Scores() []float64 {
	return t.numeric(func(r Record) *float64 { return r.Score })
}

// Maximums returns the non-nil values of the Maximum column in record order.
func (t Table) Maximums() []float64 {
	return t.numeric(func(r Record) *float64 { return r.Maximum })
}

func (t Table) numeric(get func(Record) *float64) []float64 {
	var out []float64
	for _, r := range t {
		if v := get(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// ParseNumber coerces a cell to a number. Returns nil for anything that is
// not numeric; coercion failures are missing data, never errors.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func number(f float64) *float64 { return &f }
