package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructorsSetCodeAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Listing"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad dates"), CodeInvalidInput, http.StatusBadRequest},
		{"validation", Validation("invalid booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"conflict", Conflict("already decided"), CodeConflict, http.StatusConflict},
		{"forbidden", Forbidden("not the host"), CodeForbidden, http.StatusForbidden},
		{"internal", Internal("store failure", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := Internal("store failure", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestAsAppErrorWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("something broke")

	appErr := AsAppError(plain)
	if appErr.Code != CodeInternal {
		t.Errorf("code = %q, want %q", appErr.Code, CodeInternal)
	}

	already := Conflict("taken")
	if AsAppError(already) != already {
		t.Error("expected AsAppError to return the same *AppError")
	}
}

func TestNotFoundWithIDCarriesDetails(t *testing.T) {
	err := NotFoundWithID("Listing", "651f1c2e9a8b4c0012345678")

	if err.Details["id"] != "651f1c2e9a8b4c0012345678" {
		t.Errorf("details id = %v", err.Details["id"])
	}
	if err.Details["resource"] != "Listing" {
		t.Errorf("details resource = %v", err.Details["resource"])
	}
}
