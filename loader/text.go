package loader

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextLoader handles plain text dumps, typically OCR output.
type TextLoader struct{}

func (l *TextLoader) SupportedFormats() []string { return []string{"txt", "text"} }

func (l *TextLoader) Load(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}
	if !utf8.Valid(data) {
		decoded, derr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if derr != nil {
			return nil, fmt.Errorf("decoding text file: %w", derr)
		}
		data = decoded
	}
	return &Document{
		Method:   "text",
		Metadata: map[string]string{},
		Text:     string(data),
	}, nil
}
