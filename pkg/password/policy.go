// Package password implements the password strength policy applied when
// provisioning accounts: minimum length, not purely numeric, not a known
// common password, and not too similar to the user's own data.
package password

import (
	"fmt"
	"strings"
	"unicode"
)

// MinLength is the minimum number of characters a password must contain.
const MinLength = 8

// commonPasswords are rejected outright regardless of length.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"password123": {},
	"passw0rd":   {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"sunshine":   {},
	"princess":   {},
	"football":   {},
	"baseball":   {},
	"superman":   {},
	"trustno1":   {},
	"welcome1":   {},
	"monkey123":  {},
	"dragon123":  {},
	"letmein1":   {},
	"admin123":   {},
	"abc12345":   {},
	"11111111":   {},
	"00000000":   {},
}

// Validate checks candidate against every policy rule and returns the
// message of each violated rule. An empty slice means the password passes.
// userAttributes are values the password must not resemble, such as the
// user's name and email address.
func Validate(candidate string, userAttributes ...string) []string {
	var violations []string

	if len(candidate) < MinLength {
		violations = append(violations,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinLength))
	}

	if isNumeric(candidate) {
		violations = append(violations, "This password is entirely numeric.")
	}

	if _, ok := commonPasswords[strings.ToLower(candidate)]; ok {
		violations = append(violations, "This password is too common.")
	}

	if similarToAttributes(candidate, userAttributes) {
		violations = append(violations, "The password is too similar to your personal information.")
	}

	return violations
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarToAttributes reports whether the password overlaps an attribute or
// one of its word parts. Parts shorter than 4 characters are ignored to keep
// initials and short names from rejecting everything.
func similarToAttributes(candidate string, attributes []string) bool {
	lower := strings.ToLower(candidate)
	for _, attr := range attributes {
		for _, part := range splitAttribute(attr) {
			if len(part) < 4 {
				continue
			}
			if strings.Contains(lower, part) || strings.Contains(part, lower) {
				return true
			}
		}
	}
	return false
}

func splitAttribute(attr string) []string {
	return strings.FieldsFunc(strings.ToLower(attr), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
