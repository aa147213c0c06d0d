package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	t.Run("XForwardedForFirstEntry", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/summarize", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1, 10.0.0.2")
		r.Header.Set("X-Real-IP", "198.51.100.1")

		require.Equal(t, "203.0.113.9", ClientIP(r))
	})

	t.Run("XRealIPFallback", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/summarize", nil)
		r.Header.Set("X-Real-IP", "198.51.100.1")

		require.Equal(t, "198.51.100.1", ClientIP(r))
	})

	t.Run("CFConnectingIPFallback", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/summarize", nil)
		r.Header.Set("CF-Connecting-IP", "192.0.2.33")

		require.Equal(t, "192.0.2.33", ClientIP(r))
	})

	t.Run("RemoteAddrFallback", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/summarize", nil)
		r.RemoteAddr = "192.0.2.1:54321"

		require.Equal(t, "192.0.2.1", ClientIP(r))
	})

	t.Run("DefaultLoopback", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/summarize", nil)
		r.RemoteAddr = ""

		require.Equal(t, "127.0.0.1", ClientIP(r))
	})

	t.Run("EmptyForwardedHeaderSkipped", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/summarize", nil)
		r.Header.Set("X-Forwarded-For", " , 10.0.0.1")
		r.RemoteAddr = "192.0.2.1:54321"

		require.Equal(t, "192.0.2.1", ClientIP(r))
	})
}
