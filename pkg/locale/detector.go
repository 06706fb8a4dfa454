package locale

import "github.com/nyaruka/phonenumbers"

// InferCountryFromPhone resolves the market a phone number belongs to.
// Returns nil for invalid numbers and regions outside the market list.
func InferCountryFromPhone(phone string) *Country {
	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return nil
	}

	region := phonenumbers.GetRegionCodeForNumber(parsed)
	if country, ok := Countries[region]; ok {
		return &country
	}
	return nil
}

// InferTimezoneFromPhone picks a display timezone for a user from
// their phone number.
func InferTimezoneFromPhone(phone string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.DefaultTimezone
	}
	return DefaultTimezone
}
