package usecase

import (
	"strings"
	"unicode"

	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
)

const (
	countryCode = "254"
	trunkPrefix = "0"
	msisdnLen   = 12
)

// NormalizePhone converts a subscriber number into international numeric
// form: the trunk prefix is replaced with the country code, a leading plus
// is stripped, and the result must be a 12-digit mobile number.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "+")

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return "", domainErrors.ErrInvalidPhone
		}
	}

	switch {
	case strings.HasPrefix(s, trunkPrefix):
		s = countryCode + s[len(trunkPrefix):]
	case strings.HasPrefix(s, countryCode):
	case len(s) == msisdnLen-len(countryCode):
		s = countryCode + s
	default:
		return "", domainErrors.ErrInvalidPhone
	}

	if len(s) != msisdnLen {
		return "", domainErrors.ErrInvalidPhone
	}

	// Kenyan mobile ranges start with 7 or 1 after the country code.
	if s[len(countryCode)] != '7' && s[len(countryCode)] != '1' {
		return "", domainErrors.ErrInvalidPhone
	}

	return s, nil
}
