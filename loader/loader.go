// Package loader reads report files (CSV, XLSX, PDF, plain text) into a
// uniform Document that the normalization pipeline consumes.
package loader

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Document is what a loader produces from a report file.
type Document struct {
	Header   []string          // detected header row, nil when none found
	Rows     [][]string        // data rows after the header
	Text     string            // raw text for OCR-style extraction
	Metadata map[string]string // label/value pairs found above the header
	Method   string            // "csv", "xlsx", "pdf", "text"
}

// Loader reads a specific report file format.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
	SupportedFormats() []string
}

// Registry maps file extensions to loaders.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry builds a registry with the built-in loaders registered.
func NewRegistry() *Registry {
	r := &Registry{loaders: make(map[string]Loader)}
	for _, l := range []Loader{&CSVLoader{}, &XLSXLoader{}, &PDFLoader{}, &TextLoader{}} {
		for _, f := range l.SupportedFormats() {
			r.loaders[f] = l
		}
	}
	return r
}

// Get returns the loader for a format.
func (r *Registry) Get(format string) (Loader, error) {
	l, ok := r.loaders[format]
	if !ok {
		return nil, fmt.Errorf("no loader for format: %s", format)
	}
	return l, nil
}

// Register adds or replaces the loader for a format.
func (r *Registry) Register(format string, l Loader) {
	r.loaders[format] = l
}

// headerScanRows bounds the header search window.
const headerScanRows = 15

var (
	primaryHeaderWords = []string{"label", "score", "subject", "mark", "grade", "result"}
	confirmHeaderWords = []string{"maximum", "total", "percentage", "notes"}
)

// detectHeaderRow scans the first rows for one that reads like a column
// header: a primary keyword plus either a confirming keyword or a second
// primary keyword. Returns -1 when no row qualifies.
func detectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(rows[i], " "))
		primary := 0
		for _, w := range primaryHeaderWords {
			if strings.Contains(joined, w) {
				primary++
			}
		}
		if primary == 0 {
			continue
		}
		if primary >= 2 {
			return i
		}
		for _, w := range confirmHeaderWords {
			if strings.Contains(joined, w) {
				return i
			}
		}
	}
	return -1
}

// preambleMetadata reads label/value pairs from the rows above the header.
// Sparse report files often carry student details there as two adjacent
// cells.
func preambleMetadata(rows [][]string) map[string]string {
	meta := make(map[string]string)
	for _, row := range rows {
		var cells []string
		for _, c := range row {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		for i := 0; i+1 < len(cells); i += 2 {
			label := strings.TrimRight(cells[i], ": ")
			if label == "" {
				continue
			}
			if _, ok := meta[label]; !ok {
				meta[label] = cells[i+1]
			}
		}
	}
	return meta
}

var scoreGluePattern = regexp.MustCompile(`(\d{1,3}\s*/\s*\d{1,4})\s*([A-Za-z])`)

// metadataGlueWords are field labels that page extraction tends to weld
// onto the preceding run of text.
var metadataGlueWords = []string{
	"Name:", "Gender:", "Nationality:", "School Level:", "Form:", "State:",
}

// repairExtractedText splits runs that page text extraction merged into a
// single line: a score fraction welded onto the next label, and field
// labels welded onto preceding text.
func repairExtractedText(text string) string {
	text = scoreGluePattern.ReplaceAllString(text, "$1\n$2")
	for _, w := range metadataGlueWords {
		text = strings.ReplaceAll(text, w, "\n"+w)
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// rowsToText flattens rows into line-per-row text for extractors that work
// on raw text.
func rowsToText(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		var cells []string
		for _, c := range row {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) == 0 {
			continue
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteByte('\n')
	}
	return b.String()
}
