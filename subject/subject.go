// Package subject maps canonical subject records onto the known subject
// vocabulary and derives the student's strongest and weakest subject.
package subject

import (
	"strings"

	"github.com/aidilfitri/reportparse/normalize"
	"github.com/aidilfitri/reportparse/vocab"
)

// Scores is an ordered subject→score map. Insertion order is preserved so
// tie-breaks and argmax/argmin scans are deterministic; re-inserting an
// existing subject updates its score without moving it (last-seen-wins
// for the value, first-seen-wins for the position).
type Scores struct {
	order  []string
	values map[string]float64
}

// Set records a score for a subject.
func (s *Scores) Set(label string, score float64) {
	if s.values == nil {
		s.values = make(map[string]float64)
	}
	if _, ok := s.values[label]; !ok {
		s.order = append(s.order, label)
	}
	s.values[label] = score
}

// Get returns the score for a subject and whether it is present.
func (s *Scores) Get(label string) (float64, bool) {
	v, ok := s.values[label]
	return v, ok
}

// Labels returns the subjects in first-encounter order.
func (s *Scores) Labels() []string { return s.order }

// Len returns the number of resolved subjects.
func (s *Scores) Len() int { return len(s.order) }

// Map returns a plain copy for serialization.
func (s *Scores) Map() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Strength returns the subject with the highest score; on ties the first
// encountered wins. Empty string when no subjects resolved.
func (s *Scores) Strength() string { return s.extreme(func(a, b float64) bool { return a > b }) }

// Weakness returns the subject with the lowest score; on ties the first
// encountered wins. Empty string when no subjects resolved.
func (s *Scores) Weakness() string { return s.extreme(func(a, b float64) bool { return a < b }) }

func (s *Scores) extreme(better func(a, b float64) bool) string {
	best := ""
	for _, label := range s.order {
		if best == "" || better(s.values[label], s.values[best]) {
			best = label
		}
	}
	return best
}

// Resolve maps every scored record in the Subjects section onto the known
// subject vocabulary. The label's last token wins when it overlaps the
// vocabulary; otherwise the first vocabulary phrase contained in the full
// label wins; labels matching neither are dropped from the map (they stay
// in the canonical table for traceability).
func Resolve(t normalize.Table) *Scores {
	scores := &Scores{}
	for _, rec := range t.Section(normalize.SectionSubjects) {
		if rec.Score == nil {
			continue
		}
		if canon := Canonical(rec.Label); canon != "" {
			scores.Set(canon, *rec.Score)
		}
	}
	return scores
}

// Canonical returns the canonical subject name for a record label, or ""
// when the label does not resolve.
func Canonical(label string) string {
	tokens := strings.Fields(label)
	if len(tokens) == 0 {
		return ""
	}
	last := vocab.Title(tokens[len(tokens)-1])
	if vocab.IsKnownSubject(last) {
		return last
	}
	titled := vocab.Title(label)
	for _, subj := range vocab.KnownSubjectList {
		if strings.Contains(titled, subj) {
			return subj
		}
	}
	return ""
}
