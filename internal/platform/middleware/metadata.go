package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"
)

// MaxXFFHeaderLength is the maximum allowed length for the X-Forwarded-For
// header to prevent header injection attacks.
const MaxXFFHeaderLength = 500

// ClientMetadata carries request provenance used in audit trails.
type ClientMetadata struct {
	IP     string
	Device string
}

type clientMetadataKey struct{}

// GetClientMetadata retrieves client metadata from the context.
func GetClientMetadata(ctx context.Context) ClientMetadata {
	if md, ok := ctx.Value(clientMetadataKey{}).(ClientMetadata); ok {
		return md
	}
	return ClientMetadata{IP: "unknown", Device: "unknown"}
}

// MetadataConfig configures trusted proxies for client IP extraction.
// If TrustedProxies is empty, forwarding headers are never trusted.
type MetadataConfig struct {
	TrustedProxies []netip.Prefix
}

// Metadata extracts the client IP and a device summary from the request and
// adds them to the context for audit events.
func Metadata(cfg MetadataConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			md := ClientMetadata{
				IP:     extractClientIP(r, cfg.TrustedProxies),
				Device: deviceSummary(r.Header.Get("User-Agent")),
			}
			ctx := context.WithValue(r.Context(), clientMetadataKey{}, md)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// deviceSummary condenses a User-Agent string into "Browser version / OS".
func deviceSummary(uaHeader string) string {
	if uaHeader == "" {
		return "unknown"
	}
	ua := useragent.New(uaHeader)
	if ua.Bot() {
		return "bot"
	}
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	summary := name
	if version != "" {
		summary += " " + version
	}
	if os := ua.OS(); os != "" {
		summary += " / " + os
	}
	return summary
}

func extractClientIP(r *http.Request, trusted []netip.Prefix) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" || !isTrustedProxy(remoteIP, trusted) || len(xff) > MaxXFFHeaderLength {
		return remoteIP
	}

	// First IP in the XFF chain is the original client.
	clientIP := xff
	if before, _, ok := strings.Cut(xff, ","); ok {
		clientIP = before
	}
	clientIP = strings.TrimSpace(clientIP)
	if _, err := netip.ParseAddr(clientIP); err != nil {
		return remoteIP
	}
	return clientIP
}

func parseRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. in tests.
		if _, parseErr := netip.ParseAddr(remoteAddr); parseErr == nil {
			return remoteAddr
		}
		return ""
	}
	return host
}

func isTrustedProxy(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
