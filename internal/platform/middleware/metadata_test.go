package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capturedMetadata(cfg MetadataConfig, mutate func(*http.Request)) ClientMetadata {
	var captured ClientMetadata
	handler := Metadata(cfg)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = GetClientMetadata(r.Context())
	}))
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "203.0.113.10:1234"
	if mutate != nil {
		mutate(request)
	}
	handler.ServeHTTP(httptest.NewRecorder(), request)
	return captured
}

func TestMetadataUsesRemoteAddr(t *testing.T) {
	md := capturedMetadata(MetadataConfig{}, nil)
	assert.Equal(t, "203.0.113.10", md.IP)
	assert.Equal(t, "unknown", md.Device)
}

func TestMetadataIgnoresForwardedForFromUntrustedProxy(t *testing.T) {
	md := capturedMetadata(MetadataConfig{}, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "198.51.100.7")
	})
	assert.Equal(t, "203.0.113.10", md.IP)
}

func TestMetadataTrustsForwardedForFromTrustedProxy(t *testing.T) {
	cfg := MetadataConfig{TrustedProxies: []netip.Prefix{netip.MustParsePrefix("203.0.113.0/24")}}
	md := capturedMetadata(cfg, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.10")
	})
	assert.Equal(t, "198.51.100.7", md.IP)
}

func TestMetadataRejectsOversizedForwardedFor(t *testing.T) {
	cfg := MetadataConfig{TrustedProxies: []netip.Prefix{netip.MustParsePrefix("203.0.113.0/24")}}
	md := capturedMetadata(cfg, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", strings.Repeat("1.2.3.4, ", 100))
	})
	assert.Equal(t, "203.0.113.10", md.IP)
}

func TestMetadataDeviceSummary(t *testing.T) {
	md := capturedMetadata(MetadataConfig{}, func(r *http.Request) {
		r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	})
	assert.Contains(t, md.Device, "Chrome")
	assert.Contains(t, md.Device, "Linux")
}

func TestGetClientMetadataWithoutMiddleware(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	md := GetClientMetadata(request.Context())
	assert.Equal(t, "unknown", md.IP)
	assert.Equal(t, "unknown", md.Device)
}
