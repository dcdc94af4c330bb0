package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

const (
	minPasswordLength   = 8
	maxPasswordLength   = 128
	minPasswordStrength = 50
	specialCharacters   = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

var commonSequences = []string{
	"123456", "654321", "abcdef", "qwerty", "azerty", "password", "123123",
	"111111", "000000", "987654", "abcd", "1234", "asdf", "zxcv",
}

var commonPasswords = map[string]struct{}{
	"password": {}, "password123": {}, "123456": {}, "123456789": {}, "qwerty": {},
	"azerty": {}, "admin": {}, "letmein": {}, "welcome": {}, "monkey": {}, "dragon": {},
	"master": {}, "shadow": {}, "football": {}, "baseball": {}, "superman": {},
	"batman": {}, "trustno1": {}, "harley": {}, "robert": {}, "matthew": {},
	"jordan": {}, "michelle": {}, "daniel": {}, "anthony": {}, "passw0rd": {},
	"p@ssword": {}, "p@ssw0rd": {}, "motdepasse": {}, "secret": {}, "welcome123": {},
}

// PasswordReport is the outcome of EvaluatePassword.
type PasswordReport struct {
	Valid       bool     `json:"valid"`
	Strength    int      `json:"strength"`
	Errors      []string `json:"errors,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// StrengthLabel buckets the strength score.
func (r PasswordReport) StrengthLabel() string {
	switch {
	case r.Strength < 25:
		return "very_weak"
	case r.Strength < 50:
		return "weak"
	case r.Strength < 75:
		return "medium"
	case r.Strength < 90:
		return "strong"
	default:
		return "very_strong"
	}
}

// EvaluatePassword scores a candidate password and checks it against the
// account policy. user may be nil; when set, the password must not embed
// the user's names or email local part.
func EvaluatePassword(password string, user *domain.User) PasswordReport {
	if strings.TrimSpace(password) == "" {
		return PasswordReport{Errors: []string{"password must not be empty"}}
	}

	var report PasswordReport
	length := utf8.RuneCountInString(password)
	if length < minPasswordLength {
		report.Errors = append(report.Errors, "password must be at least 8 characters")
	}
	if length > maxPasswordLength {
		report.Errors = append(report.Errors, "password must be at most 128 characters")
	}

	classes := characterClassesOf(password)
	if classes.count() < 3 {
		if !classes.lower {
			report.Suggestions = append(report.Suggestions, "add lowercase letters")
		}
		if !classes.upper {
			report.Suggestions = append(report.Suggestions, "add uppercase letters")
		}
		if !classes.digit {
			report.Suggestions = append(report.Suggestions, "add digits")
		}
		if !classes.special {
			report.Suggestions = append(report.Suggestions, "add special characters (!@#$%^&*)")
		}
	}

	if user != nil {
		lower := strings.ToLower(password)
		if containsFold(lower, user.LastName) {
			report.Errors = append(report.Errors, "password must not contain your last name")
		}
		if containsFold(lower, user.FirstName) {
			report.Errors = append(report.Errors, "password must not contain your first name")
		}
		if local, _, _ := strings.Cut(user.Email, "@"); containsFold(lower, local) {
			report.Errors = append(report.Errors, "password must not contain your email address")
		}
	}

	report.Strength = PasswordStrength(password)
	switch {
	case report.Strength < minPasswordStrength:
		report.Suggestions = append(report.Suggestions, "use a longer password", "mix different kinds of characters")
	case report.Strength < 75:
		report.Suggestions = append(report.Suggestions, "add a few characters to strengthen your password")
	}

	report.Valid = len(report.Errors) == 0 && report.Strength >= minPasswordStrength
	return report
}

// PasswordStrength returns a 0-100 score.
func PasswordStrength(password string) int {
	if password == "" {
		return 0
	}
	length := utf8.RuneCountInString(password)
	score := min(length*2, 25)

	classes := characterClassesOf(password)
	for _, present := range []bool{classes.lower, classes.upper, classes.digit, classes.special} {
		if present {
			score += 10
		}
	}
	if length >= 12 {
		score += 10
	}
	if length >= 16 {
		score += 10
	}
	if hasVariedCharacters(password, length) {
		score += 15
	}

	lower := strings.ToLower(password)
	if containsCommonSequence(lower) {
		score -= 20
	}
	if _, common := commonPasswords[lower]; common {
		score -= 30
	}
	return max(0, min(100, score))
}

type characterClasses struct {
	lower, upper, digit, special bool
}

func (c characterClasses) count() int {
	n := 0
	for _, present := range []bool{c.lower, c.upper, c.digit, c.special} {
		if present {
			n++
		}
	}
	return n
}

func characterClassesOf(password string) characterClasses {
	var c characterClasses
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case r >= '0' && r <= '9':
			c.digit = true
		case strings.ContainsRune(specialCharacters, r):
			c.special = true
		}
	}
	return c
}

func hasVariedCharacters(password string, length int) bool {
	distinct := make(map[rune]struct{}, length)
	for _, r := range password {
		distinct[r] = struct{}{}
	}
	return float64(len(distinct)) >= float64(length)*0.7
}

func containsCommonSequence(lower string) bool {
	for _, seq := range commonSequences {
		if strings.Contains(lower, seq) {
			return true
		}
	}
	return hasSequentialRun(lower)
}

// hasSequentialRun detects three consecutive digits or letters that step by
// one in the same direction, e.g. "789" or "cba".
func hasSequentialRun(lower string) bool {
	runes := []rune(lower)
	for i := 0; i+2 < len(runes); i++ {
		a, b, c := runes[i], runes[i+1], runes[i+2]
		sameKind := (unicode.IsDigit(a) && unicode.IsDigit(b) && unicode.IsDigit(c)) ||
			(isASCIILetter(a) && isASCIILetter(b) && isASCIILetter(c))
		if !sameKind {
			continue
		}
		step := b - a
		if (step == 1 || step == -1) && c-b == step {
			return true
		}
	}
	return false
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func containsFold(lowerPassword, part string) bool {
	part = strings.ToLower(strings.TrimSpace(part))
	return part != "" && strings.Contains(lowerPassword, part)
}
