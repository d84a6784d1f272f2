package student

import (
	"testing"

	"github.com/aidilfitri/reportparse/normalize"
)

func TestNameStopsAtSubjectRun(t *testing.T) {
	got := Name("Name: Ahmad Daniel Languages 74/100")
	if got != "Ahmad Daniel" {
		t.Errorf("Name = %q, want %q", got, "Ahmad Daniel")
	}
}

func TestNameSingleTokenAllowed(t *testing.T) {
	// OCR often eats everything after the first name.
	got := Name("Name: Siti Gender Female")
	if got != "Siti" {
		t.Errorf("Name = %q, want %q", got, "Siti")
	}
}

func TestNameAbsent(t *testing.T) {
	if got := Name("Mathematics 85/100"); got != "" {
		t.Errorf("Name = %q, want empty", got)
	}
}

func TestFullNameRequiresTwoTokens(t *testing.T) {
	if got := FullName("Name: Ahmad Daniel Bin Hassan"); got != "Ahmad Daniel Bin Hassan" {
		t.Errorf("FullName = %q, want full name", got)
	}
	// A single surviving token is a false positive on the structured path.
	if got := FullName("Name: Ahmad"); got != "" {
		t.Errorf("FullName = %q, want empty for single token", got)
	}
}

func TestGender(t *testing.T) {
	if got := Gender("Gender: female"); got != "Female" {
		t.Errorf("Gender = %q, want Female", got)
	}
	if got := Gender("no gender here"); got != "" {
		t.Errorf("Gender = %q, want empty", got)
	}
}

func TestStateNegeriExpansion(t *testing.T) {
	if got := State("State: Negeri"); got != "Negeri Sembilan" {
		t.Errorf("State = %q, want Negeri Sembilan", got)
	}
	if got := State("State: Selangor"); got != "Selangor" {
		t.Errorf("State = %q, want Selangor", got)
	}
}

func TestLooksLikeName(t *testing.T) {
	if !LooksLikeName("Ahmad Daniel") {
		t.Error("two uncommon capitalized tokens should look like a name")
	}
	if LooksLikeName("School Grade") {
		t.Error("two common report words should not look like a name")
	}
	if LooksLikeName("Ahmad") {
		t.Error("a single token should not look like a name")
	}
}

func TestFromColumns(t *testing.T) {
	got := FromColumns([]string{"Student Name", "Ahmad Daniel Bin Hassan", "Unnamed: 2"})
	if got != "Ahmad Daniel Bin Hassan" {
		t.Errorf("FromColumns = %q, want the header name", got)
	}
	if got := FromColumns([]string{"Label", "Score", "Maximum"}); got != "" {
		t.Errorf("FromColumns = %q, want empty for plain headers", got)
	}
}

func TestParseMetadataLineMixed(t *testing.T) {
	fields, score := ParseMetadataLine("Name: Arif Bin Hassan Gender: Male Nationality: Malaysian")
	want := map[string]string{
		"Student Name": "Arif Bin Hassan",
		"Gender":       "Male",
		"Nationality":  "Malaysian",
	}
	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Key] = f.Value
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("field %q = %q, want %q", k, got[k], v)
		}
	}
	if score != nil {
		t.Errorf("score = %+v, want nil", score)
	}
}

func TestParseMetadataLineResidualScore(t *testing.T) {
	_, score := ParseMetadataLine("Name: Arif Languages 74/100")
	if score == nil {
		t.Fatal("expected a residual score")
	}
	if score.Score != 74 || score.Maximum == nil || *score.Maximum != 100 {
		t.Errorf("score = %v/%v, want 74/100", score.Score, score.Maximum)
	}
}

func TestParseMetadataLineSchoolLevelBoundary(t *testing.T) {
	fields, _ := ParseMetadataLine("School Level: Secondary Form: 4")
	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Key] = f.Value
	}
	if got["School Level"] != "Secondary" {
		t.Errorf("School Level = %q, want Secondary", got["School Level"])
	}
}

func TestFromTableFirstMatchWins(t *testing.T) {
	table := normalize.Table{
		{Section: normalize.SectionStudentDetails, Label: "Name: Ahmad Daniel"},
		{Section: normalize.SectionStudentDetails, Label: "Name: Corrupted Garbage"},
		{Section: normalize.SectionStudentDetails, Label: "Gender: Male"},
	}
	meta := FromTable(table)
	if meta.Name != "Ahmad Daniel" {
		t.Errorf("Name = %q, want the first match", meta.Name)
	}
	if meta.Gender != "Male" {
		t.Errorf("Gender = %q, want Male", meta.Gender)
	}
}

func TestDetails(t *testing.T) {
	m := Metadata{Gender: "Male", State: "Selangor"}
	if got := m.Details(); got != "Gender: Male, State: Selangor" {
		t.Errorf("Details = %q", got)
	}
	var empty Metadata
	if got := empty.Details(); got != "" {
		t.Errorf("Details = %q, want empty", got)
	}
}
