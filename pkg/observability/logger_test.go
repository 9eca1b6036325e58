package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log output is not JSON: %q", buf.String())
	}
	return entry
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Info("server started")

	entry := logLine(t, &buf)
	if entry["msg"] != "server started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"request_id": "req_1_abc",
		"status":     200,
	}).Info("request handled")

	entry := logLine(t, &buf)
	if entry["request_id"] != "req_1_abc" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v", entry["status"])
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.WithError(errors.New("redis down")).Warn("rate limit store error")

	entry := logLine(t, &buf)
	if entry["error"] != "redis down" {
		t.Errorf("error = %v", entry["error"])
	}
}

func TestLogger_WithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(nil).Info("nothing wrong")

	entry := logLine(t, &buf)
	if _, ok := entry["error"]; ok {
		t.Error("nil error must not add an error field")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ErrorLevel, &buf)

	logger.Debug("noise")
	logger.Info("noise")
	logger.Warn("noise")
	if buf.Len() != 0 {
		t.Errorf("below-threshold output: %q", buf.String())
	}

	logger.Error("actual problem")
	if buf.Len() == 0 {
		t.Error("error-level message was suppressed")
	}
}

func TestLogger_Formatted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Infof("listening on %s:%d", "0.0.0.0", 8080)

	entry := logLine(t, &buf)
	if entry["msg"] != "listening on 0.0.0.0:8080" {
		t.Errorf("msg = %v", entry["msg"])
	}
}
