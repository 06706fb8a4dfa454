package sanitizer

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Cozy Loft", "Cozy Loft"},
		{"surrounding space", "  Cozy Loft  ", "Cozy Loft"},
		{"whitespace runs", "Cozy \t  Loft", "Cozy Loft"},
		{"control chars", "Cozy\x00 Loft\x1b", "Cozy Loft"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeCity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Lisbon", "Lisbon"},
		{"multi word", "Tel Aviv", "Tel Aviv"},
		{"hyphen and apostrophe", "Stratford-upon-Avon", "Stratford-upon-Avon"},
		{"digits stripped", "Area 51", "Area"},
		{"punctuation stripped", "Paris!!", "Paris"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeCity(tt.input); got != tt.want {
				t.Errorf("SanitizeCity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFreeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"keeps line breaks", "line one\nline two", "line one\nline two"},
		{"normalizes crlf", "line one\r\nline two", "line one\nline two"},
		{"collapses blank line runs", "a\n\n\n\nb", "a\n\nb"},
		{"strips control chars", "hi\x08 there", "hi there"},
		{"trims", "  hello  ", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFreeText(tt.input); got != tt.want {
				t.Errorf("SanitizeFreeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid e164", "+14155552671", "+14155552671"},
		{"surrounding space", " +14155552671 ", "+14155552671"},
		{"missing plus", "14155552671", ""},
		{"too short", "+1415", ""},
		{"letters", "+1415555abcd", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePhone(tt.input); got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"https", "https://cdn.nestbay.io/doc.pdf", "https://cdn.nestbay.io/doc.pdf"},
		{"http", "http://example.com/a", "http://example.com/a"},
		{"javascript scheme", "javascript:alert(1)", ""},
		{"data scheme", "data:text/html,x", ""},
		{"relative", "/uploads/doc.pdf", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.input); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
