package pipeline

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP attributes the request to a caller IP. Behind a proxy the first
// entry of a comma-separated X-Forwarded-For list wins, then X-Real-IP,
// then the connection's remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.SplitN(forwarded, ",", 2)[0]
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
