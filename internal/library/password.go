package library

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DerivePassword builds a student's login password: the first 4 characters of the
// upper-cased name after dropping everything but A-Z and whitespace, with the
// whitespace removed, followed by the last 4 digits of the mobile number.
//
//	DerivePassword("Ravi Kumar", "9876543210") == "RAVI3210"
func DerivePassword(fullName, mobile string) string {
	name := cases.Upper(language.Und).String(strings.TrimSpace(fullName))

	kept := make([]rune, 0, 4)
	for _, r := range name {
		if len(kept) == 4 {
			break
		}
		if (r >= 'A' && r <= 'Z') || unicode.IsSpace(r) {
			kept = append(kept, r)
		}
	}
	namePart := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(kept))

	suffix := mobile
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return namePart + suffix
}

func isMobile(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
