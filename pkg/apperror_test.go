package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_ToHTTPError(t *testing.T) {
	cause := errors.New("dynamodb: throttled")
	appErr := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)

	body := appErr.ToHTTPError()
	if body.Success {
		t.Fatalf("expected success=false")
	}
	if body.Error != "An internal error occurred" {
		t.Fatalf("unexpected error message: %q", body.Error)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code: %q", body.Code)
	}
	if !errors.Is(appErr, cause) {
		t.Fatalf("expected cause to be unwrappable")
	}
}

func TestAppError_WithDetails(t *testing.T) {
	appErr := NewDomainErrorSimple("VALIDATION_ERROR", "Invalid request", http.StatusBadRequest).
		WithDetails(map[string]string{"hours": "gt"})

	body := appErr.ToHTTPError()
	details, ok := body.Details.(map[string]string)
	if !ok || details["hours"] != "gt" {
		t.Fatalf("unexpected details: %#v", body.Details)
	}
	if appErr.Error() != "VALIDATION_ERROR: Invalid request" {
		t.Fatalf("unexpected Error(): %q", appErr.Error())
	}
}
