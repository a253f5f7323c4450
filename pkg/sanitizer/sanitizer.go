package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reTrimUnderscores   = regexp.MustCompile(`_+`)
	reCollapseSpaces    = regexp.MustCompile(`\s+`)

	supportedRegions = []string{
		"US",
		"IL",
	}

	reValidPhone = regexp.MustCompile(`^(?:|\+[1-9]\d{7,14})$`)
)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SanitizeLabel canonicalizes a room, building or organization label
// into a lowercase underscore-joined token.
func SanitizeLabel(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// SanitizeFreeText trims and collapses runs of whitespace while
// keeping the text human readable. Used for titles, descriptions and
// manager comments.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		func(s string) string { return reCollapseSpaces.ReplaceAllString(s, " ") },
	}
	return p.Apply(input)
}

func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SanitizePhone normalizes a contact number to E.164. Input that is
// not already in international shape passes through untouched so the
// validator can report it; parseable numbers come back canonical.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" || !reValidPhone.MatchString(phone) {
		return phone
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}

	// Unparseable input passes through so the validator names it.
	return phone
}
