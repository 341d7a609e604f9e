package rules

import (
	"fmt"

	"github.com/openkraft/apigrade/internal/domain"
)

func checkOperationDescribed(ep domain.Endpoint) []Violation {
	if !ep.Detailed || ep.Summary != "" || ep.Description != "" {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "operation has neither summary nor description",
		Fix:      "Add a one-line summary saying what the operation does",
	}}
}

func checkParameterDescribed(ep domain.Endpoint) []Violation {
	if !ep.Detailed {
		return nil
	}
	var out []Violation
	for _, p := range ep.Parameters {
		if p.Description != "" {
			continue
		}
		out = append(out, Violation{
			Location: domain.Location{Method: ep.Method, Path: ep.Path, Field: "parameters." + p.Name},
			Message:  fmt.Sprintf("%s parameter %q has no description", p.In, p.Name),
			Fix:      fmt.Sprintf("Describe %q: meaning, format and allowed values", p.Name),
		})
	}
	return out
}

func checkOperationID(ep domain.Endpoint) []Violation {
	if !ep.Detailed || ep.OperationID != "" {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "operation has no operationId",
		Fix:      "Add a unique camelCase operationId (e.g. listUsers) so SDK generators produce stable names",
	}}
}
