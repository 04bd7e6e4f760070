package validation

import (
	"regexp"
	"strings"
)

const (
	// CountryCode is the Brazilian calling code prepended to national numbers.
	CountryCode = "55"

	maxPhoneDigits = 11
)

const (
	MsgPhoneRequired = "WhatsApp é obrigatório"
	MsgPhoneFormat   = "Formato inválido. Use (11) 99999-9999"
)

var (
	phonePattern = regexp.MustCompile(`^\(\d{2}\)\s\d{4,5}-\d{4}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// FormatPhone applies the (DD) DDDDD-DDDD mask progressively as digits are
// typed. Digits past the eleventh are dropped.
func FormatPhone(raw string) string {
	d := Digits(raw)
	if len(d) > maxPhoneDigits {
		d = d[:maxPhoneDigits]
	}

	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// IsValidPhone reports whether masked is a complete landline or mobile number.
func IsValidPhone(masked string) bool {
	return phonePattern.MatchString(masked)
}

// ValidatePhone returns the field error for a masked phone, or "" when valid.
func ValidatePhone(masked string) string {
	if strings.TrimSpace(masked) == "" {
		return MsgPhoneRequired
	}
	if !IsValidPhone(masked) {
		return MsgPhoneFormat
	}
	return ""
}

// ToInternational converts a masked national number into +55DDNNNNNNNNN.
// Numbers it cannot classify are returned as bare digits.
func ToInternational(phone string) string {
	d := Digits(phone)

	switch {
	case (len(d) == 12 || len(d) == 13) && strings.HasPrefix(d, CountryCode):
		return "+" + d
	case len(d) == 10 || len(d) == 11:
		return "+" + CountryCode + d
	default:
		return d
	}
}
