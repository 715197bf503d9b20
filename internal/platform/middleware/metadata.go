package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"vendra/pkg/requestcontext"
)

// ClientMetadata extracts the client IP, raw User-Agent, and a normalized
// "browser/os" device summary from the request and adds them to the context
// for audit enrichment. Applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPFromRequest(r)
		ua := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, ua, deviceSummary(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// deviceSummary condenses a User-Agent string into "browser/os" for audit
// trails, avoiding raw UA strings in downstream sinks.
func deviceSummary(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.New(ua)
	browser, _ := parsed.Browser()
	os := parsed.OSInfo().Name
	switch {
	case browser == "" && os == "":
		return "unknown"
	case browser == "":
		return os
	case os == "":
		return browser
	default:
		return browser + "/" + os
	}
}

// clientIPFromRequest extracts the real client IP, handling proxies and load
// balancers.
func clientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; the first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" ("[::1]:port" for IPv6); strip the port.
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
