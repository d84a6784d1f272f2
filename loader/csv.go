package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// CSVLoader handles comma-separated report exports.
type CSVLoader struct{}

func (l *CSVLoader) SupportedFormats() []string { return []string{"csv"} }

func (l *CSVLoader) Load(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	// Scanner exports are frequently Latin-1 rather than UTF-8.
	if !utf8.Valid(data) {
		decoded, derr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if derr != nil {
			return nil, fmt.Errorf("decoding CSV: %w", derr)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty CSV: %s", path)
	}

	doc := &Document{Method: "csv", Metadata: map[string]string{}}
	if h := detectHeaderRow(all); h >= 0 {
		doc.Header = all[h]
		doc.Rows = all[h+1:]
		doc.Metadata = preambleMetadata(all[:h])
	} else {
		doc.Rows = all
	}
	doc.Text = rowsToText(all)
	return doc, nil
}
