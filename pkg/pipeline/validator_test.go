package pipeline

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateRequest_Methods(t *testing.T) {
	opts := ValidatorOptions{AllowedMethods: []string{http.MethodGet, http.MethodPost}}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := ValidateRequest(r, opts); err != nil {
		t.Errorf("GET should be allowed: %v", err)
	}

	r = httptest.NewRequest(http.MethodDelete, "/", nil)
	err := ValidateRequest(r, opts)
	if err == nil || err.Error() != "Method not allowed" {
		t.Errorf("DELETE: err = %v, want Method not allowed", err)
	}
}

func TestValidateRequest_EmptyMethodListAllowsAll(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/", nil)
	if err := ValidateRequest(r, ValidatorOptions{}); err != nil {
		t.Errorf("unconfigured checks should be skipped: %v", err)
	}
}

func TestValidateRequest_Size(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
	err := ValidateRequest(r, ValidatorOptions{MaxRequestSize: 50})
	if err == nil || err.Error() != "Request too large" {
		t.Errorf("err = %v, want Request too large", err)
	}

	if err := ValidateRequest(r, ValidatorOptions{MaxRequestSize: 200}); err != nil {
		t.Errorf("body under the limit should pass: %v", err)
	}
}

func TestValidateRequest_Origin(t *testing.T) {
	opts := ValidatorOptions{AllowedOrigins: []string{"https://app.example.com"}}

	// No Origin header: the check does not apply
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := ValidateRequest(r, opts); err != nil {
		t.Errorf("absent origin should pass: %v", err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://app.example.com")
	if err := ValidateRequest(r, opts); err != nil {
		t.Errorf("allowed origin should pass: %v", err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	err := ValidateRequest(r, opts)
	if err == nil || err.Error() != "Invalid origin" {
		t.Errorf("err = %v, want Invalid origin", err)
	}
}
