package subject

import (
	"testing"

	"github.com/aidilfitri/reportparse/normalize"
)

func score(v float64) *float64 { return &v }

func TestResolveLastSeenWins(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(60)},
		{Section: normalize.SectionSubjects, Label: "Science", Score: score(70)},
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(90)},
	}
	s := Resolve(table)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if v, _ := s.Get("Mathematics"); v != 90 {
		t.Errorf("Mathematics = %v, want the last-seen 90", v)
	}
	// Re-insertion keeps the first-encounter position.
	labels := s.Labels()
	if labels[0] != "Mathematics" || labels[1] != "Science" {
		t.Errorf("labels = %v, want [Mathematics Science]", labels)
	}
}

func TestResolveSkipsUnknownAndUnscored(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Zorbology", Score: score(50)},
		{Section: normalize.SectionSubjects, Label: "Mathematics"},
		{Section: normalize.SectionMisc, Label: "Science", Score: score(80)},
	}
	s := Resolve(table)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0: %v", s.Len(), s.Labels())
	}
}

func TestStrengthWeaknessTies(t *testing.T) {
	s := &Scores{}
	s.Set("English", 90)
	s.Set("Science", 90)
	s.Set("History", 40)
	s.Set("Geography", 40)
	if got := s.Strength(); got != "English" {
		t.Errorf("Strength = %q, want first-encountered English", got)
	}
	if got := s.Weakness(); got != "History" {
		t.Errorf("Weakness = %q, want first-encountered History", got)
	}
}

func TestStrengthEmpty(t *testing.T) {
	s := &Scores{}
	if s.Strength() != "" || s.Weakness() != "" {
		t.Error("empty scores should yield empty strength and weakness")
	}
}

func TestCanonical(t *testing.T) {
	cases := []struct{ label, want string }{
		{"Mathematics", "Mathematics"},
		{"mathematics score", "Mathematics"},
		{"Pendidikan Moral", "Moral"},
		{"Zorbology", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Canonical(tc.label); got != tc.want {
			t.Errorf("Canonical(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}
