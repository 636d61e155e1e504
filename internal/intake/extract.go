package intake

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailRe     = regexp.MustCompile(`(?i)([a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,})`)
	phoneRe     = regexp.MustCompile(`(\+?\d[\d\s\-().]{8,}\d)`)
	nameLabelRe = regexp.MustCompile(`(?i)name\s*[:\-]\s*([^\n\r]+)`)
	// A line starting with two capitalized words is usually the candidate's name
	nameLineRe = regexp.MustCompile(`^[A-Z][a-zA-Z]+ [A-Z][a-zA-Z\-]+`)

	titleCaser = cases.Title(language.English)
)

// ExtractFields pulls name, email and phone out of raw resume text.
// Any field it cannot find is left empty for conversational collection.
func ExtractFields(text string) ContactFields {
	var fields ContactFields

	if m := emailRe.FindStringSubmatch(text); m != nil {
		fields.Email = m[1]
	}
	if m := phoneRe.FindStringSubmatch(text); m != nil {
		fields.Phone = strings.Join(strings.Fields(m[1]), " ")
	}

	// Prefer an explicit "Name:" label, otherwise the first line that
	// looks like "First Last"
	if m := nameLabelRe.FindStringSubmatch(text); m != nil {
		fields.Name = sanitizeName(m[1])
	}
	if fields.Name == "" {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if nameLineRe.MatchString(line) {
				if i := strings.IndexAny(line, ",|"); i >= 0 {
					line = line[:i]
				}
				fields.Name = sanitizeName(line)
				break
			}
		}
	}

	return fields
}

// NormalizeName tidies a manually entered name: collapses whitespace and
// title-cases input typed in all lower or all upper case.
func NormalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == strings.ToLower(s) || s == strings.ToUpper(s) {
		return titleCaser.String(strings.ToLower(s))
	}
	return s
}

var nameCharsRe = regexp.MustCompile(`[^a-zA-Z \-'.]`)

func sanitizeName(s string) string {
	return strings.TrimSpace(nameCharsRe.ReplaceAllString(s, ""))
}
