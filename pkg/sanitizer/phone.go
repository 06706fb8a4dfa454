package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var reValidPhone = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// SanitizePhone normalizes an E.164-looking number through libphonenumber.
// Anything else comes back empty; phone is an optional profile field.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || !reValidPhone.MatchString(phone) {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
