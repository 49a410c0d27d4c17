package mapping

import "strings"

// PhoneFlag marks a normalized phone value that needs operator attention.
type PhoneFlag string

const (
	PhoneFlagNone            PhoneFlag = ""
	PhoneFlagMissingAreaCode PhoneFlag = "missing_area_code"
	PhoneFlagUnrecognized    PhoneFlag = "unrecognized_format"
)

const domesticCountryCode = "+1"

// NormalizePhone strips a free-text phone string down to digits and shapes it
// into a storable value:
//
//	10 digits            -> "+1" prefix (assumed domestic)
//	11 digits, leading 1 -> "+" prefix
//	7 digits             -> unchanged, flagged missing_area_code
//	anything else        -> bare digits, flagged unrecognized_format
//
// Empty input or input with no digits at all returns nil. The function is
// total: bad input degrades, it never errors.
func NormalizePhone(raw string) (*string, PhoneFlag) {
	digits := digitsOnly(raw)
	if digits == "" {
		return nil, PhoneFlagNone
	}

	switch {
	case len(digits) == 10:
		value := domesticCountryCode + digits
		return &value, PhoneFlagNone
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		value := "+" + digits
		return &value, PhoneFlagNone
	case len(digits) == 7:
		return &digits, PhoneFlagMissingAreaCode
	default:
		return &digits, PhoneFlagUnrecognized
	}
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
