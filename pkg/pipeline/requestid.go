package pipeline

import (
	"crypto/rand"
	"fmt"
	"time"
)

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRequestID generates a request identifier of the form
// req_<epoch-millis>_<random-base36-suffix>. It is generated once per
// request and carried into every audit record.
func NewRequestID(now time.Time) string {
	return fmt.Sprintf("req_%d_%s", now.UnixMilli(), randomBase36(9))
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	// crypto/rand never fails on supported platforms; fall back to a
	// constant suffix rather than panic on a diagnostics identifier.
	if _, err := rand.Read(buf); err != nil {
		return "000000000"[:n]
	}
	for i, b := range buf {
		buf[i] = base36Chars[int(b)%len(base36Chars)]
	}
	return string(buf)
}
