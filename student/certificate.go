package student

import (
	"regexp"
	"strings"
)

// Certificates introduce the holder with a stock phrase instead of a
// "Name:" field, and OCR often spaces the letters of the name apart
// ("H e l e n e"). The extractors here handle both.
var (
	certCuePattern = regexp.MustCompile(`(?i)\b(?:` +
		`this (?:is )?to certify that` +
		`|this certificate (?:of completion )?is (?:proudly )?(?:presented|awarded) to` +
		`|this certifies that(?: the)?` +
		`|presented to` +
		`|awarded to` +
		`)\b`)

	// The name run is case-sensitive on purpose: a lowercase verb such
	// as "has" or "successfully" ends it.
	certNamePattern = regexp.MustCompile(`^([A-Z][A-Za-z'.\-]+(?:[ \t]+[A-Z][A-Za-z'.\-]+){0,4})`)

	spacedLettersPattern = regexp.MustCompile(`\b(?:[A-Za-z] ){2,}[A-Za-z]\b`)
	allCapsRunPattern    = regexp.MustCompile(`\b[A-Z]{2,}(?:\s+[A-Z]{2,}){0,4}\b`)
	titleCaseRunPattern  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}\b`)
	multiSpacePattern    = regexp.MustCompile(`[ \t]{2,}`)
)

// LooksLikeCertificate reports whether text carries a certificate
// introduction phrase.
func LooksLikeCertificate(text string) bool {
	return certCuePattern.MatchString(text)
}

// CertificateName extracts the holder's name from certificate text: the
// capitalized run after an introduction phrase, on the same line or the
// next. When no phrase yields a name it falls back to the first short
// all-caps run, then the first title-case run.
func CertificateName(text string) string {
	if text == "" {
		return ""
	}
	t := normalizeCertificateText(text)

	if loc := certCuePattern.FindStringIndex(t); loc != nil {
		rest := strings.TrimLeft(t[loc[1]:], " \t")
		rest = strings.TrimLeft(rest, ":-–—")
		rest = strings.TrimLeft(rest, " \t\n")
		if m := certNamePattern.FindStringSubmatch(rest); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	for _, run := range allCapsRunPattern.FindAllString(t, -1) {
		words := strings.Fields(run)
		if len(words) > 3 || len(run) >= 40 {
			continue
		}
		for i, w := range words {
			if len(w) > 2 {
				words[i] = w[:1] + strings.ToLower(w[1:])
			}
		}
		return strings.Join(words, " ")
	}

	return titleCaseRunPattern.FindString(t)
}

// normalizeCertificateText collapses letter-spaced OCR output back into
// words and squeezes repeated spaces, keeping line breaks intact.
func normalizeCertificateText(text string) string {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")
	t = spacedLettersPattern.ReplaceAllStringFunc(t, func(run string) string {
		return strings.ReplaceAll(run, " ", "")
	})
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(t, " "))
}
