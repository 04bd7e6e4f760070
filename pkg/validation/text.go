// Package validation holds the pure field rules shared by the waitlist form
// and the intake endpoint. Field errors are returned as user-facing strings,
// empty meaning valid.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MsgNameRequired = "Nome é obrigatório"
	MsgNameTooShort = "Nome deve ter pelo menos 2 caracteres"
	MsgNameLetters  = "Nome deve conter apenas letras"

	MsgEmailRequired = "Email é obrigatório"
	MsgEmailInvalid  = "Email inválido"

	minNameLength = 2
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[\p{L}\s]+$`)
)

func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func ValidateEmail(s string) string {
	if strings.TrimSpace(s) == "" {
		return MsgEmailRequired
	}
	if !IsValidEmail(s) {
		return MsgEmailInvalid
	}
	return ""
}

// ValidateName accepts letters from any script (accents included) and spaces.
func ValidateName(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return MsgNameRequired
	}
	if utf8.RuneCountInString(trimmed) < minNameLength {
		return MsgNameTooShort
	}
	if !namePattern.MatchString(trimmed) {
		return MsgNameLetters
	}
	return ""
}

// SplitName returns the first space-delimited token and the rest of the name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
