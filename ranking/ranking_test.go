package ranking

import (
	"testing"

	"github.com/aidilfitri/reportparse/normalize"
)

func score(v float64) *float64 { return &v }

func TestTopNFromTable(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(85)},
		{Section: normalize.SectionSubjects, Label: "Science", Score: score(92)},
		{Section: normalize.SectionSubjects, Label: "History", Score: score(64)},
	}
	entries := TopN(table, "", 2)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Subject != "Science" || entries[0].Score != 92 {
		t.Errorf("first = %+v, want Science 92", entries[0])
	}
	if entries[1].Subject != "Mathematics" {
		t.Errorf("second = %+v, want Mathematics", entries[1])
	}
}

func TestTopNDedupKeepsMax(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(60)},
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(90)},
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(75)},
	}
	entries := Top5(table, "")
	if len(entries) != 1 {
		t.Fatalf("entries = %v, want one", entries)
	}
	if entries[0].Score != 90 {
		t.Errorf("score = %v, want 90", entries[0].Score)
	}
}

func TestTopNIdempotent(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Science", Score: score(92)},
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(85)},
	}
	first := Top5(table, "")
	second := Top5(table, "")
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTopNFreeText(t *testing.T) {
	entries := Top5(nil, "Mathematics 85/100\nScience: 92\nArt 70")
	if len(entries) != 3 {
		t.Fatalf("entries = %+v, want 3", entries)
	}
	if entries[0].Subject != "Science" {
		t.Errorf("first = %+v, want Science", entries[0])
	}
}

func TestTopNRanksAllScoredSections(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(85)},
		{Section: normalize.SectionCoCurricular, Label: "Chess Club", Score: score(95)},
	}
	entries := Top5(table, "")
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want 2", entries)
	}
	if entries[0].Subject != "Chess Club" || entries[0].Score != 95 {
		t.Errorf("first = %+v, want Chess Club 95", entries[0])
	}
}

func TestTopNMergesTableAndText(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(85)},
	}
	entries := Top5(table, "Science: 92")
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want 2", entries)
	}
	if entries[0].Subject != "Science" || entries[1].Subject != "Mathematics" {
		t.Errorf("entries = %+v, want Science then Mathematics", entries)
	}
}

func TestTopNSkipsZeroScores(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionSubjects, Label: "Mathematics", Score: score(0)},
	}
	if entries := Top5(table, ""); len(entries) != 0 {
		t.Errorf("entries = %+v, want none", entries)
	}
}

func TestSimplifyLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"marks for physical education", "Physical Education"},
		{"score in mathematics", "Mathematics"},
		{"result of the exam", "Exam"},
		{"a", ""},
	}
	for _, tc := range cases {
		if got := simplifyLabel(tc.in); got != tc.want {
			t.Errorf("simplifyLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
