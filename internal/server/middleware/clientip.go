package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the originating client address for rate limiting.
// Proxy headers are consulted before the socket peer so deployments behind
// a reverse proxy or CDN still see per-client addresses.
func ClientIP(r *http.Request) string {
	if r == nil {
		return "127.0.0.1"
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First entry is the original client; later entries are proxies.
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if cfIP := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		return addr
	}

	return "127.0.0.1"
}
