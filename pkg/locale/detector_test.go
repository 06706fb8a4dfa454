package locale

import "testing"

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantNil  bool
	}{
		{
			name:     "US phone",
			phone:    "+12125551234",
			wantCode: "US",
		},
		{
			name:     "UK phone",
			phone:    "+442071234567",
			wantCode: "GB",
		},
		{
			name:     "Israel phone",
			phone:    "+972541234567",
			wantCode: "IL",
		},
		{
			name:    "region outside markets",
			phone:   "+81312345678",
			wantNil: true,
		},
		{
			name:    "not a phone number",
			phone:   "hello",
			wantNil: true,
		},
		{
			name:    "empty",
			phone:   "",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country := InferCountryFromPhone(tt.phone)
			if tt.wantNil {
				if country != nil {
					t.Fatalf("InferCountryFromPhone(%q) = %v, want nil", tt.phone, country)
				}
				return
			}
			if country == nil {
				t.Fatalf("InferCountryFromPhone(%q) = nil, want %s", tt.phone, tt.wantCode)
			}
			if country.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", country.Code, tt.wantCode)
			}
		})
	}
}

func TestInferTimezoneFromPhone(t *testing.T) {
	if tz := InferTimezoneFromPhone("+33612345678"); tz != "Europe/Paris" {
		t.Errorf("InferTimezoneFromPhone(FR) = %s, want Europe/Paris", tz)
	}
	if tz := InferTimezoneFromPhone("invalid"); tz != DefaultTimezone {
		t.Errorf("InferTimezoneFromPhone(invalid) = %s, want %s", tz, DefaultTimezone)
	}
}
