package validator

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// E.164: a plus sign, a non-zero country digit, at most 15 digits.
	e164Regex = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && !strings.ContainsFunc(password, unicode.IsSpace)
}

// NormalizePhone strips separators such as spaces, dashes, dots and
// parentheses and reports whether the rest is an E.164 number.
func NormalizePhone(phone string) (string, bool) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		if r == ' ' || r == '-' || r == '(' || r == ')' || r == '.' {
			return -1
		}
		return 'x'
	}, strings.TrimSpace(phone))

	return clean, e164Regex.MatchString(clean)
}

func ValidatePhone(phone string) bool {
	_, ok := NormalizePhone(phone)
	return ok
}

// ValidateOTPCode accepts the 4 to 10 digit codes Twilio Verify issues.
func ValidateOTPCode(code string) bool {
	if len(code) < 4 || len(code) > 10 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func FormatName(name string) string {
	parts := strings.Fields(name)
	for i, part := range parts {
		subparts := strings.Split(part, "-")
		for j, subpart := range subparts {
			if len(subpart) > 0 {
				subparts[j] = strings.ToUpper(subpart[:1]) + strings.ToLower(subpart[1:])
			}
		}
		parts[i] = strings.Join(subparts, "-")
	}
	return strings.Join(parts, " ")
}

func SanitizeString(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '`' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}
