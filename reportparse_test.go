package reportparse

import (
	"strings"
	"testing"

	"github.com/aidilfitri/reportparse/normalize"
)

const sampleReport = `Student Details
Name: Ahmad Daniel Gender: Male
State: Negeri
Subjects
Mathematics 85/100
Science 72 of 100
English: 91
Mathematics 90/100
Behaviour
Attentiveness: G00d
Punctuality - Excellent
Co-curricular
Chess Club Member | Sports Day Participant`

func TestAnalyzeText(t *testing.T) {
	a := AnalyzeText(sampleReport)

	if a.Student.Name != "Ahmad Daniel" {
		t.Errorf("Name = %q, want Ahmad Daniel", a.Student.Name)
	}
	if a.Student.Gender != "Male" {
		t.Errorf("Gender = %q, want Male", a.Student.Gender)
	}
	if a.Student.State != "Negeri Sembilan" {
		t.Errorf("State = %q, want Negeri Sembilan", a.Student.State)
	}
}

func TestAnalyzeTextSubjects(t *testing.T) {
	a := AnalyzeText(sampleReport)

	got := make(map[string]float64, len(a.Subjects))
	for _, s := range a.Subjects {
		got[s.Subject] = s.Score
	}
	// The repeated Mathematics row keeps its last-seen score.
	if got["Mathematics"] != 90 {
		t.Errorf("Mathematics = %v, want 90", got["Mathematics"])
	}
	if got["Science"] != 72 {
		t.Errorf("Science = %v, want 72", got["Science"])
	}
	if got["English"] != 91 {
		t.Errorf("English = %v, want 91", got["English"])
	}

	if a.Strength != "English" {
		t.Errorf("Strength = %q, want English", a.Strength)
	}
	if a.Weakness != "Science" {
		t.Errorf("Weakness = %q, want Science", a.Weakness)
	}
}

func TestAnalyzeTextBehaviour(t *testing.T) {
	a := AnalyzeText(sampleReport)

	if a.Behaviour["Attentiveness"] != "Good" {
		t.Errorf("Attentiveness = %q, want Good", a.Behaviour["Attentiveness"])
	}
	if a.Behaviour["Punctuality"] != "Excellent" {
		t.Errorf("Punctuality = %q, want Excellent", a.Behaviour["Punctuality"])
	}
	if got := a.ByRating["Good"]; len(got) != 1 || got[0] != "Attentiveness" {
		t.Errorf("ByRating[Good] = %v", got)
	}
}

func TestAnalyzeTextTopSubjects(t *testing.T) {
	a := AnalyzeText(sampleReport)

	if len(a.Top) == 0 {
		t.Fatal("expected ranked subjects")
	}
	if a.Top[0].Subject != "English" || a.Top[0].Score != 91 {
		t.Errorf("Top[0] = %+v, want English 91", a.Top[0])
	}
	for i := 1; i < len(a.Top); i++ {
		if a.Top[i].Score > a.Top[i-1].Score {
			t.Errorf("ranking not descending at %d: %+v", i, a.Top)
		}
	}
}

func TestAnalyzeTextStatistics(t *testing.T) {
	a := AnalyzeText(sampleReport)

	if a.Statistics.Counts["Score"] == 0 {
		t.Fatal("expected score statistics")
	}
	if _, ok := a.Statistics.Averages["Score"]; !ok {
		t.Error("missing Score average")
	}
}

func TestAnalyzeTextActivities(t *testing.T) {
	a := AnalyzeText(sampleReport)

	joined := strings.Join(a.Activities, "; ")
	if !strings.Contains(joined, "Chess Club Member") {
		t.Errorf("Activities = %v, want Chess Club Member", a.Activities)
	}
	if !strings.Contains(joined, "Sports Day Participant") {
		t.Errorf("Activities = %v, want Sports Day Participant", a.Activities)
	}
}

func TestAnalyzeTextMixedIdentityLine(t *testing.T) {
	// A line carrying both identity fields and a subject score must feed
	// both extractors: the name and the score pair.
	a := AnalyzeText("Name Arif Bin Hassan Languages 74/100\nMathematics 85/100")

	if a.Student.Name != "Arif Bin Hassan" {
		t.Errorf("Name = %q, want Arif Bin Hassan", a.Student.Name)
	}
	got := make(map[string]float64, len(a.Subjects))
	for _, s := range a.Subjects {
		got[s.Subject] = s.Score
	}
	if got["Languages"] != 74 {
		t.Errorf("Languages = %v, want 74", got["Languages"])
	}
	if got["Mathematics"] != 85 {
		t.Errorf("Mathematics = %v, want 85", got["Mathematics"])
	}
}

func TestAnalyzeTextCertificate(t *testing.T) {
	a := AnalyzeText("This Certificate Is Proudly Presented To\nAhmad Daniel\nfor outstanding achievement")

	if a.Student.Name != "Ahmad Daniel" {
		t.Errorf("Name = %q, want Ahmad Daniel", a.Student.Name)
	}
}

func TestAnalyzeRows(t *testing.T) {
	header := []string{"Section", "Label", "Score", "Maximum", "Value", "Notes"}
	rows := [][]string{
		{"Student Details", "Name: Siti Aminah", "", "", "", ""},
		{"Subjects", "Mathematics", "85", "100", "", ""},
		{"Subjects", "Science", "64", "100", "", ""},
		{"Behaviour", "Discipline", "", "", "Fair", ""},
	}
	a := AnalyzeRows(header, rows)

	if a.Student.Name != "Siti Aminah" {
		t.Errorf("Name = %q, want Siti Aminah", a.Student.Name)
	}
	if a.Strength != "Mathematics" || a.Weakness != "Science" {
		t.Errorf("Strength/Weakness = %q/%q", a.Strength, a.Weakness)
	}
	if a.Behaviour["Discipline"] != "Fair" {
		t.Errorf("Discipline = %q, want Fair", a.Behaviour["Discipline"])
	}
}

func TestAnalyzeTableEmpty(t *testing.T) {
	a := AnalyzeTable(nil, "")
	if a == nil {
		t.Fatal("expected an analysis")
	}
	if a.Student.Name != "" || len(a.Subjects) != 0 || len(a.Behaviour) != 0 {
		t.Errorf("empty input should yield empty analysis: %+v", a)
	}
	if a.Statistics.Counts["Score"] != 0 {
		t.Errorf("Counts[Score] = %d, want 0", a.Statistics.Counts["Score"])
	}
}

func TestExtractActivities(t *testing.T) {
	table := normalize.Table{
		{Section: "Co-curricular", Label: "Chess Club | Debate Team"},
		{Section: "Co-curricular", Label: "Chess Club"},
		{Section: "Misc", Label: "Football Team Captain"},
		{Section: "Misc", Label: "Name: Ahmad"},
	}
	activities := extractActivities(table)

	joined := strings.Join(activities, "; ")
	if !strings.Contains(joined, "Chess Club") {
		t.Errorf("activities = %v, want Chess Club", activities)
	}
	if !strings.Contains(joined, "Debate Team") {
		t.Errorf("activities = %v, want Debate Team", activities)
	}
	if !strings.Contains(joined, "Football Team Captain") {
		t.Errorf("activities = %v, want keyword-matched Misc entry", activities)
	}
	if strings.Contains(joined, "Name") {
		t.Errorf("activities = %v, metadata leaked in", activities)
	}
	// Duplicate Chess Club collapses.
	count := 0
	for _, a := range activities {
		if a == "Chess Club" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Chess Club appears %d times, want 1", count)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.TopN)
	}
	if cfg.resolveDBPath() == "" {
		t.Error("resolveDBPath returned empty")
	}
	cfg.DBPath = "/tmp/x.db"
	if cfg.resolveDBPath() != "/tmp/x.db" {
		t.Errorf("resolveDBPath = %q", cfg.resolveDBPath())
	}
}
