package rules

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

// publicPaths are conventionally unauthenticated.
var publicPaths = map[string]bool{
	"health": true, "healthz": true, "livez": true, "readyz": true, "ping": true, "status": true,
	"login": true, "signin": true, "sign-in": true, "signup": true, "sign-up": true, "register": true,
	"token": true, "oauth": true, "openapi.json": true, "openapi.yaml": true, "docs": true,
	".well-known": true, "metrics": true, "version": true,
}

// sensitiveWords mark values that must never travel in a URL. Terms are
// written without separators: "apikey" matches api_key, apiKey and api-key.
var sensitiveWords = []string{
	"password", "passwd", "secret", "token", "apikey",
	"accesskey", "privatekey", "ssn", "creditcard", "cardnumber", "cvv", "session",
}

// safeTokenWords mark opaque paging/continuation tokens, which are fine in URLs.
var safeTokenWords = []string{"page", "next", "continuation", "cursor", "sync"}

func isPublicPath(ep domain.Endpoint) bool {
	for _, seg := range resourceSegments(ep.Segments) {
		if publicPaths[strings.ToLower(seg.Value)] {
			return true
		}
	}
	return false
}

func checkUnsecured(ep domain.Endpoint) []Violation {
	if !ep.Detailed || ep.Secured() || ep.ExplicitlyPublic || isPublicPath(ep) {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "endpoint has no security requirement",
		Fix:      "Apply a security scheme (OAuth2 bearer or API key header); mark intentionally public operations with security: []",
	}}
}

// minEmbeddedTerm is the shortest term matched inside a longer word
// ("userpassword"). Shorter terms such as "ssn" must be a whole word.
const minEmbeddedTerm = 5

// hasTerm reports whether the words of a name contain term, either as a
// run of whole words or, for long terms, embedded in one.
func hasTerm(words []string, term string) bool {
	for i := range words {
		joined := ""
		for j := i; j < len(words) && len(joined) < len(term); j++ {
			joined += words[j]
			if joined == term {
				return true
			}
		}
		if len(term) >= minEmbeddedTerm && strings.Contains(words[i], term) {
			return true
		}
	}
	return false
}

func isSensitiveParam(name string) bool {
	words := splitWords(name)
	for _, safe := range safeTokenWords {
		if hasTerm(words, safe) {
			return false
		}
	}
	for _, term := range sensitiveWords {
		if hasTerm(words, term) {
			return true
		}
	}
	return false
}

func checkSensitiveQuery(ep domain.Endpoint) []Violation {
	var out []Violation
	for _, p := range ep.QueryParams() {
		if !isSensitiveParam(p.Name) {
			continue
		}
		out = append(out, Violation{
			Location: domain.Location{Method: ep.Method, Path: ep.Path, Field: "parameters." + p.Name},
			Message:  fmt.Sprintf("query parameter %q carries a secret; URLs end up in logs and browser history", p.Name),
			Fix:      fmt.Sprintf("Send %q in a header (Authorization) or the request body", p.Name),
		})
	}
	return out
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" || strings.HasSuffix(host, ".localhost")
}

func checkPlainHTTP(api *domain.API) []Violation {
	var out []Violation
	for _, s := range api.Servers {
		u, err := url.Parse(s)
		if err != nil || u.Scheme != "http" || isLoopback(u.Hostname()) {
			continue
		}
		out = append(out, Violation{
			Location: domain.Location{Field: "servers." + s},
			Message:  fmt.Sprintf("server %s uses plain HTTP", s),
			Fix:      "Serve the API over HTTPS only and redirect or reject plain HTTP",
		})
	}
	return out
}

func checkAPIKeyInQuery(api *domain.API) []Violation {
	var out []Violation
	for _, s := range api.SecuritySchemes {
		if !strings.EqualFold(s.Type, "apiKey") || s.In != "query" {
			continue
		}
		out = append(out, Violation{
			Location: domain.Location{Field: "securitySchemes." + s.Name},
			Message:  fmt.Sprintf("security scheme %q sends the API key in the query string", s.Name),
			Fix:      "Send the key in a header (X-API-Key or Authorization) instead",
		})
	}
	return out
}

func checkAuthErrors(ep domain.Endpoint) []Violation {
	if !ep.Secured() || !ep.ResponsesKnown() || ep.HasStatus("401", "403", "4XX") {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "secured endpoint does not declare 401 or 403",
		Fix:      "Document 401 Unauthorized (missing/invalid credentials) and 403 Forbidden (insufficient permissions)",
	}}
}

func checkRateLimitDocumented(api *domain.API) []Violation {
	detailed := false
	for _, ep := range api.Endpoints {
		if !ep.Detailed {
			continue
		}
		detailed = true
		if ep.HasStatus("429") {
			return nil
		}
	}
	if !detailed {
		return nil
	}
	return []Violation{{
		Message: "no endpoint documents 429 Too Many Requests",
		Fix:     "Document 429 with Retry-After and X-RateLimit-* headers on rate-limited endpoints",
	}}
}
