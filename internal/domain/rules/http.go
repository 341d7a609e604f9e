package rules

import (
	"fmt"

	"github.com/openkraft/apigrade/internal/domain"
)

func checkBodyOnSafeMethod(ep domain.Endpoint) []Violation {
	if ep.RequestBody == nil || (ep.Method != "GET" && ep.Method != "HEAD") {
		return nil
	}
	return []Violation{{
		Location: domain.Location{Method: ep.Method, Path: ep.Path, Field: "requestBody"},
		Message:  fmt.Sprintf("%s declares a request body", ep.Method),
		Fix:      "Move the inputs into query parameters, or use POST /" + searchTarget(ep) + "/search for complex queries",
	}}
}

func searchTarget(ep domain.Endpoint) string {
	res := resourceSegments(ep.Segments)
	if len(res) == 0 {
		return "resources"
	}
	return res[len(res)-1].Value
}

func checkMutatingGet(ep domain.Endpoint) []Violation {
	if ep.Method != "GET" {
		return nil
	}
	for _, seg := range ep.Segments {
		if seg.Param {
			continue
		}
		verb, ok := leadingVerb(seg.Value, mutatingVerbs)
		if !ok {
			continue
		}
		return []Violation{{
			Location: loc(ep),
			Message:  fmt.Sprintf("GET request performs %q; GET must be safe and idempotent", verb),
			Fix:      fmt.Sprintf("Use %s on the resource instead of GET with %q in the path", methodFor(verb, "POST"), seg.Value),
		}}
	}
	return nil
}

func checkCreateStatus(ep domain.Endpoint) []Violation {
	if ep.Method != "POST" || !isPluralCollection(ep) || !ep.ResponsesKnown() {
		return nil
	}
	if ep.HasStatus("201", "202") {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "POST to a collection does not declare 201 Created",
		Fix:      "Return 201 Created with a Location header pointing at the new resource",
	}}
}

func checkDeleteStatus(ep domain.Endpoint) []Violation {
	if ep.Method != "DELETE" || !ep.ResponsesKnown() {
		return nil
	}
	if ep.HasStatus("204", "202") {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "DELETE does not declare 204 No Content",
		Fix:      "Return 204 No Content on successful deletion",
	}}
}

func checkUpdateOnCollection(ep domain.Endpoint) []Violation {
	if (ep.Method != "PUT" && ep.Method != "PATCH") || !isPluralCollection(ep) {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  fmt.Sprintf("%s targets the collection instead of a single resource", ep.Method),
		Fix:      fmt.Sprintf("Use %s %s/{id}; for bulk changes expose an explicit batch resource", ep.Method, ep.Path),
	}}
}

func checkMissingRequestBody(ep domain.Endpoint) []Violation {
	if !ep.Detailed || ep.RequestBody != nil {
		return nil
	}
	switch ep.Method {
	case "PUT", "PATCH":
	case "POST":
		if !isPluralCollection(ep) {
			return nil
		}
	default:
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  fmt.Sprintf("%s has no request body", ep.Method),
		Fix:      "Document the request body schema the endpoint accepts",
	}}
}
