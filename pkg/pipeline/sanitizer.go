package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const (
	// MaxJSONPayloadBytes is the fixed ceiling on JSON request bodies
	MaxJSONPayloadBytes = 1_000_000

	maxQueryKeyLen   = 50
	maxQueryValueLen = 1000
)

// queryInjectionChars are rejected anywhere in a query parameter value as a
// minimal injection guard. This is a syntactic screen, not a semantic
// validator; business validation belongs to the handler.
const queryInjectionChars = `<>"'`

// SanitizeRequest validates the JSON body shape/size and the query
// parameters of a request. The body is re-buffered so the handler can still
// read it in full.
func SanitizeRequest(r *http.Request) error {
	if err := sanitizeBody(r); err != nil {
		return err
	}
	return sanitizeQuery(r)
}

func sanitizeBody(r *http.Request) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONPayloadBytes+1))
	if err != nil {
		return ValidationError("Invalid JSON payload")
	}
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))

	if len(data) == 0 {
		return nil
	}
	if len(data) > MaxJSONPayloadBytes {
		return ValidationError("Payload too large")
	}
	if !json.Valid(data) {
		return ValidationError("Invalid JSON payload")
	}

	return nil
}

func sanitizeQuery(r *http.Request) error {
	for key, values := range r.URL.Query() {
		if len(key) > maxQueryKeyLen {
			return ValidationError("Query parameter key too long")
		}
		for _, value := range values {
			if len(value) > maxQueryValueLen {
				return ValidationError("Query parameter value too long")
			}
			if strings.ContainsAny(value, queryInjectionChars) {
				return ValidationError("Invalid characters in query parameter")
			}
		}
	}
	return nil
}
