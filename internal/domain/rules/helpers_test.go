package rules_test

import (
	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/rules"
)

type epOpt func(*domain.Endpoint)

// endpoint builds a detailed endpoint. Options add responses, bodies and
// parameters.
func endpoint(method, path string, opts ...epOpt) domain.Endpoint {
	ep := domain.Endpoint{
		Method:   method,
		Path:     path,
		Segments: domain.ParsePath(path),
		Detailed: true,
	}
	for _, o := range opts {
		o(&ep)
	}
	return ep
}

func withStatus(codes ...string) epOpt {
	return func(ep *domain.Endpoint) {
		for _, c := range codes {
			ep.Responses = append(ep.Responses, domain.Response{Status: c})
		}
	}
}

func withStatusSchema(code string, s *domain.Schema) epOpt {
	return func(ep *domain.Endpoint) {
		ep.Responses = append(ep.Responses, domain.Response{Status: code, Schema: s})
	}
}

func withBody(s *domain.Schema) epOpt {
	return func(ep *domain.Endpoint) { ep.RequestBody = s }
}

func withQuery(names ...string) epOpt {
	return func(ep *domain.Endpoint) {
		for _, n := range names {
			ep.Parameters = append(ep.Parameters, domain.Parameter{Name: n, In: "query", Description: "x"})
		}
	}
}

func withParam(p domain.Parameter) epOpt {
	return func(ep *domain.Endpoint) { ep.Parameters = append(ep.Parameters, p) }
}

func secured() epOpt {
	return func(ep *domain.Endpoint) {
		ep.Security = []domain.SecurityScheme{{Name: "bearerAuth", Type: "http", Scheme: "bearer"}}
	}
}

func explicitlyPublic() epOpt {
	return func(ep *domain.Endpoint) { ep.ExplicitlyPublic = true }
}

func documented(opID string) epOpt {
	return func(ep *domain.Endpoint) {
		ep.OperationID = opID
		ep.Summary = opID
	}
}

func listOnly() epOpt {
	return func(ep *domain.Endpoint) { ep.Detailed = false }
}

func object(props ...domain.Property) *domain.Schema {
	return &domain.Schema{Type: "object", Properties: props}
}

func prop(name string, s *domain.Schema) domain.Property {
	return domain.Property{Name: name, Schema: s}
}

func str() *domain.Schema { return &domain.Schema{Type: "string"} }

func array(items *domain.Schema) *domain.Schema {
	return &domain.Schema{Type: "array", Items: items}
}

func apiOf(eps ...domain.Endpoint) *domain.API {
	return &domain.API{
		Title:     "test",
		Format:    domain.FormatOpenAPI3,
		Servers:   []string{"https://api.example.com/v1"},
		Endpoints: eps,
	}
}

func lint(api *domain.API) []domain.Finding {
	return lintWith(api, domain.DefaultConfig())
}

func lintWith(api *domain.API, cfg domain.ProjectConfig) []domain.Finding {
	return rules.NewEvaluator(rules.Builtin(), cfg).Evaluate(api)
}

// only returns the findings of one rule.
func only(findings []domain.Finding, ruleID string) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.RuleID == ruleID {
			out = append(out, f)
		}
	}
	return out
}

func ruleIDs(findings []domain.Finding) map[string]int {
	ids := map[string]int{}
	for _, f := range findings {
		ids[f.RuleID]++
	}
	return ids
}
