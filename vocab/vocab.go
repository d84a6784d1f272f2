// Package vocab holds the static pattern vocabulary shared by every
// extraction component: metadata keywords, known subject names,
// co-curricular keywords, rating tokens with their OCR variants, and the
// supported state list. All sets are built once at package init and never
// mutated, so they are safe to share across concurrent document passes.
package vocab

import "strings"

// EnglishCommonWords are frequent report-card words that terminate a name
// run. Title-cased for direct comparison against capitalized tokens.
var EnglishCommonWords = titleSet(
	"name", "student", "school", "state", "gender", "male", "female",
	"form", "level", "nationality", "secondary", "primary", "class",
	"grade", "section", "age", "year", "date", "address", "phone",
	"email", "father", "mother", "guardian", "contact", "code",
)

// MetadataKeywords identify lines that describe the student rather than a
// subject or an activity.
var MetadataKeywords = titleSet(
	"name", "student", "school", "state", "gender", "male", "female",
	"form", "level", "nationality", "class", "grade", "section", "age",
	"year", "date", "address", "phone", "email", "behaviour", "behavior",
	"attentiveness", "participation", "attendance", "punctuality",
	"discipline", "ratings", "father", "mother", "guardian", "parent",
	"contact", "code", "id", "number", "admission", "roll",
)

// KnownSubjectList is the canonical subject vocabulary in declaration
// order, including Malay-medium subject names as they appear on local
// report cards. Resolution scans this slice so that "first vocabulary
// match wins" is deterministic.
var KnownSubjectList = titleList(
	"mathematics", "math", "maths", "science", "physics", "chemistry",
	"biology", "history", "geography", "english", "language", "languages",
	"malay", "bahasa", "chinese", "mandarin", "tamil", "arabic",
	"physical education", "pe", "art", "music", "literature",
	"economics", "accounting", "business", "computer", "ict",
	"additional mathematics", "add math", "moral", "pendidikan",
	"sejarah", "sains", "matematik",
)

// KnownSubjects is the set view of KnownSubjectList.
var KnownSubjects = toSet(KnownSubjectList)

// CoCurricularKeywords flag activity lines (clubs, awards, events).
var CoCurricularKeywords = titleSet(
	"member", "club", "society", "team", "day", "competition",
	"event", "activity", "activities", "award", "prize",
	"position", "role", "committee", "group", "association",
)

// TwoWordSubjects are multi-word labels that must survive label
// simplification intact instead of being reduced to their last word.
// Lowercase; matched by substring against lowercased labels.
var TwoWordSubjects = []string{
	"bahasa malaysia",
	"physical education",
	"social science",
	"computer science",
	"moral education",
	"additional mathematics",
	"general science",
	"environmental science",
	"information technology",
	"class participation",
	"community service",
	"chess club",
	"football",
	"club",
	"sejarah (history)",
}

// States lists the supported administrative states, multi-word names first
// so substring checks prefer the longer match.
var States = []string{
	"Negeri Sembilan",
	"Selangor", "Johor", "Penang", "Perak", "Kedah",
	"Kelantan", "Terengganu", "Pahang", "Melaka",
	"Sabah", "Sarawak", "Perlis", "Putrajaya", "Kuala Lumpur", "Labuan",
}

// SectionHeaders maps lowercase header aliases to canonical section names.
// OCR output produces many spacing variants of the same header; the alias
// set is unordered and duplicates collapse naturally.
var SectionHeaders = map[string]string{
	"subjects":        "Subjects",
	"subject":         "Subjects",
	"behaviour":       "Behaviour",
	"behavior":        "Behaviour",
	"ratings":         "Behaviour",
	"co-curricular":   "Co-curricular",
	"co curricular":   "Co-curricular",
	"cocurricular":    "Co-curricular",
	"student details": "Student Details",
	// OCR misreading of "Student Details" seen in scanned report cards.
	"student betalls": "Student Details",
}

// MetadataKeys are lowercase line prefixes that mark a student metadata
// line ("Name: ...", "School Level Secondary", ...).
var MetadataKeys = []string{
	"name", "student name", "gender", "state", "school", "school level",
	"form", "attendance", "nationality",
}

// CanonicalRatings is the fixed behaviour rating set. Every variant token
// normalizes to one of these before storage.
var CanonicalRatings = []string{"Excellent", "Very Good", "Good", "Fair", "Poor", "Bad"}

// RatingVariants maps lowercase OCR misreadings and synonyms to canonical
// ratings.
var RatingVariants = map[string]string{
	"g00d": "Good", "g0od": "Good", "go0d": "Good",
	"0k": "Fair", "very good": "Very Good", "verygood": "Very Good",
	"excellent": "Excellent", "good": "Good", "fair": "Fair",
	"average": "Fair", "avg": "Fair", "ok": "Fair", "okay": "Fair",
	"poor": "Poor", "p00r": "Poor", "bad": "Bad", "b4d": "Bad", "b@d": "Bad",
	"satisfactory": "Good", "unsatisfactory": "Poor",
}

// NameStopWords is the stop-word union used to truncate name runs: a
// capitalized token matching any of these ends the name.
func NameStopWords() map[string]struct{} {
	out := make(map[string]struct{}, len(MetadataKeywords)+len(KnownSubjects)+len(EnglishCommonWords))
	for w := range MetadataKeywords {
		out[w] = struct{}{}
	}
	for w := range KnownSubjects {
		out[w] = struct{}{}
	}
	for w := range EnglishCommonWords {
		out[w] = struct{}{}
	}
	return out
}

// IsMetadataKeyword reports whether any word of text matches a metadata
// keyword, compared case-normalized.
func IsMetadataKeyword(text string) bool {
	for _, w := range strings.Fields(text) {
		if _, ok := MetadataKeywords[Title(w)]; ok {
			return true
		}
	}
	return false
}

// IsCoCurricularKeyword reports whether any word of text matches a
// co-curricular keyword.
func IsCoCurricularKeyword(text string) bool {
	for _, w := range strings.Fields(text) {
		if _, ok := CoCurricularKeywords[Title(trimWordPunct(w))]; ok {
			return true
		}
	}
	return false
}

// IsKnownSubject reports whether label overlaps the subject vocabulary:
// either a known subject is contained in the label or the label is
// contained in a known subject.
func IsKnownSubject(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	for _, subj := range KnownSubjectList {
		if strings.Contains(label, subj) || strings.Contains(subj, label) {
			return true
		}
	}
	return false
}

// Title word-capitalizes s the way report labels are written: the first
// letter of every letter run upper-cased, the rest lower-cased.
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		switch {
		case !isLetter:
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			startOfWord = false
		default:
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func titleSet(words ...string) map[string]struct{} {
	return toSet(titleList(words...))
}

func titleList(words ...string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Title(w)
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

func trimWordPunct(w string) string {
	return strings.Trim(w, ".,;:!?()[]\"'")
}
