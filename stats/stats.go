// Package stats computes descriptive statistics, trend direction, and a
// short performance insight over the numeric columns of a normalized
// table.
package stats

import (
	"math"
	"sort"

	"github.com/aidilfitri/reportparse/normalize"
)

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Insight phrases.
const (
	InsightAbove      = "Recent performance is above average."
	InsightBelow      = "Recent performance is below average."
	InsightConsistent = "Performance is consistent."
)

// Bundle holds per-column statistics keyed by column name. Columns whose
// values are all missing appear only in Counts (as zero).
type Bundle struct {
	RowCount       int                `json:"row_count"`
	ColumnCount    int                `json:"column_count"`
	NumericColumns []string           `json:"numeric_columns"`
	Averages       map[string]float64 `json:"averages"`
	Medians        map[string]float64 `json:"medians"`
	StdDev         map[string]float64 `json:"std_dev"`
	Counts         map[string]int     `json:"counts"`
	Trends         map[string]string  `json:"trends"`
	Insights       map[string]string  `json:"predictive_insights"`
}

// Compute builds the full bundle over the table's Score and Maximum
// columns. Missing values are skipped, never imputed.
func Compute(t normalize.Table) Bundle {
	b := Bundle{
		RowCount:       len(t),
		ColumnCount:    len(normalize.Columns),
		NumericColumns: []string{"Score", "Maximum"},
		Averages:       make(map[string]float64),
		Medians:        make(map[string]float64),
		StdDev:         make(map[string]float64),
		Counts:         make(map[string]int),
		Trends:         make(map[string]string),
		Insights:       make(map[string]string),
	}
	columns := map[string][]float64{
		"Score":   t.Scores(),
		"Maximum": t.Maximums(),
	}
	for _, name := range b.NumericColumns {
		values := columns[name]
		b.Counts[name] = len(values)
		if len(values) == 0 {
			continue
		}
		b.Averages[name] = mean(values)
		b.Medians[name] = median(values)
		b.StdDev[name] = stdDev(values)
		if trend, ok := trendOf(values); ok {
			b.Trends[name] = trend
		}
		if insight, ok := insightOf(values); ok {
			b.Insights[name] = insight
		}
	}
	return b
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// trendOf compares the first and last values in row order. Fewer than two
// values gives no trend.
func trendOf(values []float64) (string, bool) {
	if len(values) < 2 {
		return "", false
	}
	first, last := values[0], values[len(values)-1]
	switch {
	case last > first:
		return TrendIncreasing, true
	case last < first:
		return TrendDecreasing, true
	default:
		return TrendStable, true
	}
}

// insightOf compares the mean of the last three values against the overall
// mean. Fewer than three values gives no insight.
func insightOf(values []float64) (string, bool) {
	if len(values) < 3 {
		return "", false
	}
	overall := mean(values)
	recent := mean(values[len(values)-3:])
	switch {
	case recent > overall:
		return InsightAbove, true
	case recent < overall:
		return InsightBelow, true
	default:
		return InsightConsistent, true
	}
}
