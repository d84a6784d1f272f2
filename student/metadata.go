package student

import (
	"regexp"
	"strings"

	"github.com/aidilfitri/reportparse/normalize"
	"github.com/aidilfitri/reportparse/vocab"
)

// Mixed OCR lines interleave identity fields and a subject score:
// "Name Arif Bin Hassan Languages 74/100". Each extractor below removes
// the span it consumed so later extractors (and the final score check)
// see only the residue.
var (
	genderFieldPattern      = regexp.MustCompile(`(?i)Gender[:\s]+(Male|Female)`)
	nationalityFieldPattern = regexp.MustCompile(`Nationality[:\s]+([A-Za-z]+)`)
	schoolLevelPattern      = regexp.MustCompile(`School Level[:\s]+(.+)`)
	formFieldPattern        = regexp.MustCompile(`Form[:\s]+(?:Form\s+)?([0-9]+)`)
	stateFieldPattern       = regexp.MustCompile(`State[:\s]+((?:[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)+)`)
	residualScorePattern    = regexp.MustCompile(`([A-Za-z\s]+?)\s+(\d{1,3})\s*/\s*(\d{1,4})`)
)

// ParseMetadataLine extracts every identity field present in one line and
// returns the fields in encounter order plus any subject score left in
// the residue. Both results may be empty.
func ParseMetadataLine(line string) ([]Field, *normalize.ScoreLine) {
	var fields []Field
	add := func(key, value string) {
		for _, f := range fields {
			if f.Key == key {
				return
			}
		}
		fields = append(fields, Field{Key: key, Value: value})
	}

	if strings.Contains(line, "Name") {
		if m := namePattern.FindStringSubmatch(line); m != nil {
			stop := vocab.NameStopWords()
			var words []string
			for _, word := range strings.Fields(m[1]) {
				if _, isStop := stop[word]; isStop || digitPattern.MatchString(word) {
					break
				}
				words = append(words, word)
			}
			if len(words) > 0 {
				name := strings.Join(words, " ")
				add("Student Name", name)
				line = removeSpan(line, regexp.MustCompile(`Name[:\s]+`+regexp.QuoteMeta(name)))
			}
		}
	}

	if strings.Contains(line, "Gender") {
		if m := genderFieldPattern.FindStringSubmatch(line); m != nil {
			add("Gender", vocab.Title(m[1]))
			line = removeSpan(line, genderFieldPattern)
		}
	}

	if strings.Contains(line, "Nationality") {
		if m := nationalityFieldPattern.FindStringSubmatch(line); m != nil {
			add("Nationality", m[1])
			line = removeSpan(line, nationalityFieldPattern)
		}
	}

	if strings.Contains(line, "School Level") {
		if m := schoolLevelPattern.FindStringSubmatch(line); m != nil {
			value := strings.TrimSpace(m[1])
			// The remainder may run into the next field on the same line.
			for _, boundary := range []string{"Form", "State", "Gender", "Nationality"} {
				if idx := strings.Index(value, boundary); idx > 0 {
					value = strings.TrimSpace(value[:idx])
					break
				}
			}
			add("School Level", value)
			line = removeSpan(line, regexp.MustCompile(`School Level[:\s]+`+regexp.QuoteMeta(value)))
		}
	}

	// "School Level: Secondary (High School) Form ..." must not feed the
	// Form extractor its own boundary word.
	if strings.Contains(line, "Form") && !strings.Contains(line, "School") {
		if m := formFieldPattern.FindStringSubmatch(line); m != nil {
			add("Form", "Form "+m[1])
			line = removeSpan(line, formFieldPattern)
		}
	}

	if strings.Contains(line, "State") {
		if m := stateFieldPattern.FindStringSubmatch(line); m != nil {
			state := resolveState(strings.TrimSpace(m[1]), line)
			add("State", state)
			line = removeSpan(line, regexp.MustCompile(`State[:\s]+`+regexp.QuoteMeta(strings.TrimSpace(m[1]))))
		}
	}

	var score *normalize.ScoreLine
	if m := residualScorePattern.FindStringSubmatch(line); m != nil {
		score = normalize.ParseScoreLine(strings.TrimSpace(m[0]))
	}
	return fields, score
}

// resolveState maps a captured state candidate onto the supported state
// list: the truncated "Negeri" expands to "Negeri Sembilan", known states
// pass through, anything else keeps its first word only.
func resolveState(candidate, line string) string {
	if strings.HasPrefix(candidate, "Negeri") {
		return "Negeri Sembilan"
	}
	for _, s := range vocab.States {
		if candidate == s {
			return s
		}
	}
	if fields := strings.Fields(candidate); len(fields) > 0 {
		return fields[0]
	}
	return candidate
}

func removeSpan(line string, re *regexp.Regexp) string {
	return strings.TrimSpace(re.ReplaceAllString(line, ""))
}
