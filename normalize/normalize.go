package normalize

import (
	"strings"

	"github.com/aidilfitri/reportparse/vocab"
)

// FromText normalizes a raw OCR/PDF text blob into the canonical table.
func FromText(text string) Table {
	return Lines(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

// Rows normalizes a loaded table. header carries the column names; rows
// the data cells. Inputs that already expose Section and Label columns
// bypass the line classifier and only get numeric coercion; anything else
// is flattened to lines and classified.
func Rows(header []string, rows [][]string) Table {
	if idx := columnIndex(header); idx != nil {
		return passthrough(idx, rows)
	}

	// Join non-empty cells per row into a single line, then classify.
	var lines []string
	for _, row := range rows {
		var cells []string
		for _, c := range row {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	}
	return Lines(lines)
}

// Lines runs the single-pass line classifier: a current-section cursor
// advanced by header lines, with each remaining line classified as
// metadata, score, split score (two-line lookahead), or misc.
func Lines(lines []string) Table {
	lines = splitParallelColumns(lines)

	var out Table
	current := ""
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		// Section headers set the cursor and emit nothing.
		if sec := sectionHeader(line); sec != "" {
			current = sec
			continue
		}

		// Metadata lines become Student Details records holding the raw
		// line; entity extraction happens downstream.
		if isMetadataLine(line) {
			out = append(out, Record{Section: SectionStudentDetails, Label: line})
			continue
		}

		// Score formats, single line first.
		if sl := ParseScoreLine(line); sl != nil {
			out = append(out, scoreRecord(current, line, sl))
			continue
		}

		// OCR frequently splits a label from its score across adjacent
		// lines; retry on the pair before declaring the line scoreless.
		if i+1 < len(lines) {
			combined := line + " " + strings.TrimSpace(lines[i+1])
			if sl := ParseScoreLine(combined); sl != nil {
				out = append(out, scoreRecord(current, line, sl))
				i++
				continue
			}
		}

		// Last resort before misc: a bare trailing integer.
		if sl := parseTrailingInt(line); sl != nil {
			out = append(out, scoreRecord(current, line, sl))
			continue
		}

		sec := current
		if sec == "" {
			sec = SectionMisc
		}
		out = append(out, Record{Section: sec, Label: line})
	}
	return out
}

// scoreRecord tags a score line. Content wins over the cursor: score lines
// are Subjects no matter where they appear, unless the document put them
// explicitly under Behaviour.
func scoreRecord(current, raw string, sl *ScoreLine) Record {
	sec := SectionSubjects
	if current == SectionBehaviour {
		sec = SectionBehaviour
	}
	label := sl.Label
	if label == "" {
		label = strings.TrimSpace(raw)
	}
	return Record{Section: sec, Label: label, Score: number(sl.Score), Maximum: sl.Maximum}
}

// sectionHeader returns the canonical section name when the line is a
// recognized header, tolerating OCR spacing variants via the alias set.
func sectionHeader(line string) string {
	low := strings.ToLower(strings.TrimSpace(line))
	for alias, canon := range vocab.SectionHeaders {
		if strings.HasPrefix(low, alias) {
			return canon
		}
	}
	return ""
}

// isMetadataLine reports whether the line opens with a student metadata
// key such as "name" or "gender", followed by a separator or end of line
// so that labels like "Statement" do not trip the "state" key.
func isMetadataLine(line string) bool {
	low := strings.ToLower(line)
	for _, key := range vocab.MetadataKeys {
		if !strings.HasPrefix(low, key) {
			continue
		}
		rest := low[len(key):]
		if rest == "" || rest[0] == ' ' || rest[0] == ':' || rest[0] == '-' {
			return true
		}
	}
	return false
}

// splitParallelColumns expands lines where OCR merged table columns with a
// "|" separator into one pseudo-line per column cell.
func splitParallelColumns(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !strings.Contains(line, "|") {
			out = append(out, line)
			continue
		}
		for _, part := range strings.Split(line, "|") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// passthrough maps already-structured rows straight onto canonical
// records, coercing numeric cells and nothing else.
func passthrough(idx map[string]int, rows [][]string) Table {
	out := make(Table, 0, len(rows))
	for _, row := range rows {
		rec := Record{
			Section: cell(row, idx, "section"),
			Label:   cell(row, idx, "label"),
			Value:   cell(row, idx, "value"),
			Notes:   cell(row, idx, "notes"),
		}
		rec.Score = ParseNumber(cell(row, idx, "score"))
		rec.Maximum = ParseNumber(cell(row, idx, "maximum"))
		out = append(out, rec)
	}
	return out
}

// columnIndex maps lowercase canonical column names to positions when the
// header exposes at least Section and Label; nil otherwise.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["section"]; !ok {
		return nil
	}
	if _, ok := idx["label"]; !ok {
		return nil
	}
	return idx
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
