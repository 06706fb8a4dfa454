package locale

const DefaultTimezone = "UTC"

type Country struct {
	Code            string // ISO 3166-1 alpha-2 region code
	Name            string
	DefaultTimezone string // IANA timezone identifier
}

// Countries maps region codes to the markets the marketplace operates
// in. Phones from other regions fall back to DefaultTimezone.
var Countries = map[string]Country{
	"US": {
		Code:            "US",
		Name:            "United States",
		DefaultTimezone: "America/New_York",
	},
	"GB": {
		Code:            "GB",
		Name:            "United Kingdom",
		DefaultTimezone: "Europe/London",
	},
	"FR": {
		Code:            "FR",
		Name:            "France",
		DefaultTimezone: "Europe/Paris",
	},
	"DE": {
		Code:            "DE",
		Name:            "Germany",
		DefaultTimezone: "Europe/Berlin",
	},
	"ES": {
		Code:            "ES",
		Name:            "Spain",
		DefaultTimezone: "Europe/Madrid",
	},
	"IT": {
		Code:            "IT",
		Name:            "Italy",
		DefaultTimezone: "Europe/Rome",
	},
	"PT": {
		Code:            "PT",
		Name:            "Portugal",
		DefaultTimezone: "Europe/Lisbon",
	},
	"GR": {
		Code:            "GR",
		Name:            "Greece",
		DefaultTimezone: "Europe/Athens",
	},
	"IL": {
		Code:            "IL",
		Name:            "Israel",
		DefaultTimezone: "Asia/Jerusalem",
	},
}
