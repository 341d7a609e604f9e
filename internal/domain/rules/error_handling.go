package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

func checkNoErrorResponses(ep domain.Endpoint) []Violation {
	if !ep.ResponsesKnown() || len(ep.ErrorResponses()) > 0 {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "no error responses are declared",
		Fix:      "Document the 4xx/5xx responses the endpoint can return, using the shared error schema",
	}}
}

func checkItemNotFound(ep domain.Endpoint) []Violation {
	if !ep.IsItem() || !ep.ResponsesKnown() || ep.HasStatus("404", "4XX") {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "single-resource endpoint does not declare 404 Not Found",
		Fix:      "Add a 404 response for unknown ids",
	}}
}

func checkValidationError(ep domain.Endpoint) []Violation {
	switch ep.Method {
	case "POST", "PUT", "PATCH":
	default:
		return nil
	}
	if !ep.ResponsesKnown() || ep.HasStatus("400", "422", "4XX") {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  fmt.Sprintf("%s does not declare 400 or 422 for invalid input", ep.Method),
		Fix:      "Add 400 (malformed) and 422 (failed validation) responses with field-level details",
	}}
}

// hasErrorEnvelope accepts {"error": {"code", "message"}}, a flat
// {"code", "message"} object, and RFC 7807 problem details.
func hasErrorEnvelope(s *domain.Schema) bool {
	if s == nil {
		return true
	}
	if inner := s.Property("error"); inner != nil && len(inner.Properties) > 0 {
		s = inner
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if s.Property(n) != nil {
				return true
			}
		}
		return false
	}
	if has("title") && (has("type") || has("status") || has("detail")) {
		return true
	}
	return has("message", "detail", "description") && has("code", "type", "error_code", "errorCode")
}

func checkErrorEnvelope(ep domain.Endpoint) []Violation {
	if !ep.Detailed {
		return nil
	}
	var bad []string
	for _, r := range ep.ErrorResponses() {
		if !hasErrorEnvelope(r.Schema) {
			bad = append(bad, r.Status)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return []Violation{{
		Location: domain.Location{Method: ep.Method, Path: ep.Path, Field: "responses." + bad[0]},
		Message:  fmt.Sprintf("error response %s lacks a machine-readable code and message", strings.Join(bad, ", ")),
		Fix:      `Use {"error": {"code": "VALIDATION_ERROR", "message": "...", "details": [...]}}`,
	}}
}

// errorSchemaSignature identifies an error schema by component name, or by
// its sorted property names when it is inline.
func errorSchemaSignature(s *domain.Schema) string {
	if s.Name != "" {
		return s.Name
	}
	names := s.PropertyNames()
	sort.Strings(names)
	return "{" + strings.Join(names, ",") + "}"
}

func checkErrorConsistency(api *domain.API) []Violation {
	counts := map[string]int{}
	firstUse := map[string]domain.Location{}
	for _, ep := range api.Endpoints {
		for _, r := range ep.ErrorResponses() {
			if r.Schema == nil {
				continue
			}
			sig := errorSchemaSignature(r.Schema)
			counts[sig]++
			if _, ok := firstUse[sig]; !ok {
				firstUse[sig] = domain.Location{Method: ep.Method, Path: ep.Path, Field: "responses." + r.Status}
			}
		}
	}
	if len(counts) < 2 {
		return nil
	}

	sigs := make([]string, 0, len(counts))
	for s := range counts {
		sigs = append(sigs, s)
	}
	sort.Slice(sigs, func(i, j int) bool {
		if counts[sigs[i]] != counts[sigs[j]] {
			return counts[sigs[i]] > counts[sigs[j]]
		}
		return sigs[i] < sigs[j]
	})

	parts := make([]string, 0, len(sigs))
	for _, s := range sigs {
		parts = append(parts, fmt.Sprintf("%s ×%d", s, counts[s]))
	}
	outlier := sigs[len(sigs)-1]
	return []Violation{{
		Location: firstUse[outlier],
		Message:  fmt.Sprintf("%d different error response shapes: %s", len(sigs), strings.Join(parts, ", ")),
		Fix:      fmt.Sprintf("Reuse one error schema (e.g. %s) for every error response", sigs[0]),
	}}
}
