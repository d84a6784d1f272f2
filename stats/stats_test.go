package stats

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/aidilfitri/reportparse/normalize"
)

func score(v float64) *float64 { return &v }

func table(scores ...float64) normalize.Table {
	t := make(normalize.Table, len(scores))
	for i, s := range scores {
		t[i] = normalize.Record{Section: "Subjects", Label: "Subject", Score: score(s)}
	}
	return t
}

func TestComputeBasics(t *testing.T) {
	b := Compute(table(60, 70, 80))
	if b.RowCount != 3 {
		t.Errorf("RowCount = %d, want 3", b.RowCount)
	}
	if b.Counts["Score"] != 3 {
		t.Errorf("Counts[Score] = %d, want 3", b.Counts["Score"])
	}
	if b.Averages["Score"] != 70 {
		t.Errorf("Averages[Score] = %v, want 70", b.Averages["Score"])
	}
	if b.Medians["Score"] != 70 {
		t.Errorf("Medians[Score] = %v, want 70", b.Medians["Score"])
	}
	// Population standard deviation of {60,70,80}.
	want := math.Sqrt(200.0 / 3.0)
	if math.Abs(b.StdDev["Score"]-want) > 1e-9 {
		t.Errorf("StdDev[Score] = %v, want %v", b.StdDev["Score"], want)
	}
}

func TestComputeEvenMedian(t *testing.T) {
	b := Compute(table(60, 80, 70, 90))
	if b.Medians["Score"] != 75 {
		t.Errorf("Medians[Score] = %v, want 75", b.Medians["Score"])
	}
}

func TestComputeAllMissingColumn(t *testing.T) {
	// No Maximum anywhere: the column appears in Counts as zero and
	// nowhere else.
	b := Compute(table(60, 70))
	if b.Counts["Maximum"] != 0 {
		t.Errorf("Counts[Maximum] = %d, want 0", b.Counts["Maximum"])
	}
	if _, ok := b.Averages["Maximum"]; ok {
		t.Error("Averages should not carry an all-missing column")
	}
	if _, ok := b.Trends["Maximum"]; ok {
		t.Error("Trends should not carry an all-missing column")
	}
}

func TestTrends(t *testing.T) {
	cases := []struct {
		scores []float64
		want   string
	}{
		{[]float64{60, 70, 80}, TrendIncreasing},
		{[]float64{80, 75, 60}, TrendDecreasing},
		{[]float64{70, 90, 70}, TrendStable},
	}
	for _, tc := range cases {
		b := Compute(table(tc.scores...))
		if got := b.Trends["Score"]; got != tc.want {
			t.Errorf("Trends(%v) = %q, want %q", tc.scores, got, tc.want)
		}
	}
}

func TestTrendNeedsTwoValues(t *testing.T) {
	b := Compute(table(70))
	if _, ok := b.Trends["Score"]; ok {
		t.Error("a single value should give no trend")
	}
}

func TestInsights(t *testing.T) {
	b := Compute(table(50, 50, 50, 90, 90))
	if got := b.Insights["Score"]; got != InsightAbove {
		t.Errorf("Insight = %q, want %q", got, InsightAbove)
	}

	b = Compute(table(90, 90, 50, 50, 50))
	if got := b.Insights["Score"]; got != InsightBelow {
		t.Errorf("Insight = %q, want %q", got, InsightBelow)
	}

	b = Compute(table(70, 70, 70))
	if got := b.Insights["Score"]; got != InsightConsistent {
		t.Errorf("Insight = %q, want %q", got, InsightConsistent)
	}
}

func TestBundleFieldNames(t *testing.T) {
	// Downstream consumers key on these names; renaming any of them is a
	// breaking change.
	data, err := json.Marshal(Compute(table(50, 50, 50, 90, 90)))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, key := range []string{
		`"row_count"`, `"numeric_columns"`, `"averages"`, `"medians"`,
		`"std_dev"`, `"counts"`, `"trends"`, `"predictive_insights"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("marshaled bundle missing %s: %s", key, out)
		}
	}
	if strings.Contains(out, `"insights"`) {
		t.Errorf("marshaled bundle carries a renamed insight key: %s", out)
	}
}

func TestInsightNeedsThreeValues(t *testing.T) {
	b := Compute(table(70, 80))
	if _, ok := b.Insights["Score"]; ok {
		t.Error("two values should give no insight")
	}
}
