package middleware

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the response hardening headers. Poster
// previews and print sheets are served as HTML with inline styles and
// images from arbitrary https hosts, so the policy allows both. The editor
// frontends in frameAncestors may embed those pages.
func SecurityHeadersMiddleware(frameAncestors []string) gin.HandlerFunc {
	policy := buildContentSecurityPolicy(frameAncestors)
	frameOptions := "SAMEORIGIN"
	if len(frameAncestors) > 0 {
		frameOptions = ""
	}

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		if frameOptions != "" {
			c.Header("X-Frame-Options", frameOptions)
		}
		c.Header("X-DNS-Prefetch-Control", "off")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("Content-Security-Policy", policy)
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

func buildContentSecurityPolicy(frameAncestors []string) string {
	directives := map[string][]string{
		"default-src":     {"'self'"},
		"object-src":      {"'none'"},
		"base-uri":        {"'self'"},
		"frame-ancestors": {"'self'"},
		"script-src":      {"'self'"},
		"style-src":       {"'self'", "'unsafe-inline'"},
		"img-src":         {"'self'", "data:", "blob:", "https:"},
		"font-src":        {"'self'", "data:"},
		"connect-src":     {"'self'"},
	}

	directives["frame-ancestors"] = appendSources(directives["frame-ancestors"], frameAncestors)

	names := make([]string, 0, len(directives))
	for name := range directives {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+strings.Join(directives[name], " "))
	}
	return strings.Join(parts, "; ")
}

func appendSources(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, source := range base {
		seen[source] = struct{}{}
	}
	for _, source := range extra {
		source = strings.TrimSpace(source)
		if source == "" || strings.ContainsAny(source, ";,") {
			continue
		}
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		base = append(base, source)
	}
	return base
}
