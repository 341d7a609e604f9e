package rules

import (
	"fmt"
	"sort"

	"github.com/google/cel-go/cel"

	"github.com/openkraft/apigrade/internal/domain"
)

// customEnv declares the variables a custom rule's `when` expression sees.
func customEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("method", cel.StringType),
		cel.Variable("path", cel.StringType),
		cel.Variable("segments", cel.ListType(cel.StringType)),
		cel.Variable("params", cel.ListType(cel.StringType)),
		cel.Variable("query_params", cel.ListType(cel.StringType)),
		cel.Variable("statuses", cel.ListType(cel.StringType)),
		cel.Variable("operation_id", cel.StringType),
		cel.Variable("summary", cel.StringType),
		cel.Variable("tags", cel.ListType(cel.StringType)),
		cel.Variable("has_request_body", cel.BoolType),
		cel.Variable("secured", cel.BoolType),
		cel.Variable("deprecated", cel.BoolType),
	)
}

// endpointVars exposes an endpoint to CEL.
func endpointVars(ep domain.Endpoint) map[string]any {
	segments := make([]string, 0, len(ep.Segments))
	for _, s := range ep.Segments {
		segments = append(segments, s.Value)
	}
	params := make([]string, 0, len(ep.Parameters))
	query := []string{}
	for _, p := range ep.Parameters {
		params = append(params, p.Name)
		if p.In == "query" {
			query = append(query, p.Name)
		}
	}
	statuses := make([]string, 0, len(ep.Responses))
	for _, r := range ep.Responses {
		statuses = append(statuses, r.Status)
	}
	sort.Strings(statuses)
	tags := ep.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"method":           ep.Method,
		"path":             ep.Path,
		"segments":         segments,
		"params":           params,
		"query_params":     query,
		"statuses":         statuses,
		"operation_id":     ep.OperationID,
		"summary":          ep.Summary,
		"tags":             tags,
		"has_request_body": ep.RequestBody != nil,
		"secured":          ep.Secured(),
		"deprecated":       ep.Deprecated,
	}
}

// CompileCustom turns a configured custom rule into an endpoint-scope Rule.
// The `when` expression must be boolean; true marks a violation.
func CompileCustom(cr domain.CustomRule) (Rule, error) {
	env, err := customEnv()
	if err != nil {
		return Rule{}, fmt.Errorf("creating CEL environment: %w", err)
	}
	ast, iss := env.Compile(cr.When)
	if iss != nil && iss.Err() != nil {
		return Rule{}, fmt.Errorf("custom rule %s: compiling when: %w", cr.ID, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return Rule{}, fmt.Errorf("custom rule %s: when must be a bool expression, got %s", cr.ID, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return Rule{}, fmt.Errorf("custom rule %s: building program: %w", cr.ID, err)
	}

	message := cr.Message
	if message == "" {
		message = cr.Title
	}
	return Rule{
		ID:        cr.ID,
		Category:  cr.Category,
		Scope:     ScopeEndpoint,
		Severity:  cr.Severity,
		Title:     cr.Title,
		Rationale: "Project rule: " + cr.When,
		Fix:       cr.Fix,
		Custom:    true,
		endpoint: func(ep domain.Endpoint) []Violation {
			out, _, err := prg.Eval(endpointVars(ep))
			if err != nil {
				// Runtime errors (e.g. index out of range) count as no match.
				return nil
			}
			if hit, ok := out.Value().(bool); !ok || !hit {
				return nil
			}
			return []Violation{{Location: loc(ep), Message: message}}
		},
	}, nil
}

// CompileCustomRules compiles every custom rule, stopping at the first error.
func CompileCustomRules(crs []domain.CustomRule) ([]Rule, error) {
	out := make([]Rule, 0, len(crs))
	for _, cr := range crs {
		r, err := CompileCustom(cr)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
