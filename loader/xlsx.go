package loader

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXLoader handles Excel workbooks. Only the first sheet with data is
// read; report exports put everything on one sheet.
type XLSXLoader struct{}

func (l *XLSXLoader) SupportedFormats() []string { return []string{"xlsx", "xls"} }

func (l *XLSXLoader) Load(ctx context.Context, path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	var all [][]string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		all = rows
		break
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no data found in XLSX: %s", path)
	}

	doc := &Document{Method: "xlsx", Metadata: map[string]string{}}
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
