package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

func TestHeaders(t *testing.T) {
	h := Headers(DefaultHeadersConfig())(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self' https://unpkg.com")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "no HSTS over plain http")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}

func TestCacheHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticAssetMiddleware(3600)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	NoStore(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestClientIP(t *testing.T) {
	c, err := NewClientIP()
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct public peer", "203.0.113.5:4000", "", "", "203.0.113.5"},
		{"public peer cannot spoof", "203.0.113.5:4000", "1.2.3.4", "", "203.0.113.5"},
		{"trusted proxy forwards", "10.0.0.2:4000", "198.51.100.7, 10.0.0.1", "", "198.51.100.7"},
		{"real ip header", "127.0.0.1:4000", "", "198.51.100.9", "198.51.100.9"},
		{"garbage forwarded header", "192.168.1.1:4000", "not-an-ip", "", "192.168.1.1"},
		{"spoofed left-most entry ignored", "10.0.0.5:4000", "1.1.1.1, 203.0.113.9", "", "203.0.113.9"},
		{"spoof behind two proxies", "10.0.0.5:4000", "2.2.2.2, 203.0.113.9, 10.0.0.4", "", "203.0.113.9"},
		{"only trusted hops", "10.0.0.5:4000", "192.168.0.7, 10.0.0.4", "", "192.168.0.7"},
		{"garbage left of client", "10.0.0.5:4000", "junk, 203.0.113.9", "", "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, c.Extract(r))
		})
	}

	_, err = NewClientIP("bogus")
	assert.Error(t, err)
}
