package sealer

import (
	"strings"
	"testing"
)

const testKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

func TestSealRoundTrip(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sealed, err := s.Seal("https://docs.example.com/passport.pdf")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if strings.Contains(sealed, "passport") {
		t.Error("sealed value leaks plaintext")
	}

	opened, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened != "https://docs.example.com/passport.pdf" {
		t.Errorf("Open() = %q", opened)
	}
}

func TestOpenRejectsTamperedValue(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sealed, err := s.Seal("secret")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	tampered := sealed[:len(sealed)-2] + "AA"
	if _, err := s.Open(tampered); err == nil {
		t.Error("Open() accepted a tampered value")
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("c2hvcnQ="); err == nil {
		t.Error("New() accepted a short key")
	}
}
