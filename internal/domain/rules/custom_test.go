package rules_test

import (
	"testing"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customRule(when string) domain.CustomRule {
	return domain.CustomRule{
		ID:       "CUS001",
		Category: domain.CategoryHTTPSemantics,
		Severity: domain.SeverityWarning,
		Title:    "custom",
		Message:  "custom rule matched",
		When:     when,
	}
}

func TestCompileCustom_Variables(t *testing.T) {
	ep := endpoint("POST", "/v1/orders",
		withQuery("dryRun"),
		withBody(object()),
		withStatus("201", "400"),
		documented("createOrder"),
		secured(),
	)
	ep.Tags = []string{"orders"}

	tests := []struct {
		when string
		hit  bool
	}{
		{when: `method == "POST"`, hit: true},
		{when: `path == "/v1/orders"`, hit: true},
		{when: `"orders" in segments`, hit: true},
		{when: `"dryRun" in query_params`, hit: true},
		{when: `size(params) == 1`, hit: true},
		{when: `!("429" in statuses)`, hit: true},
		{when: `operation_id.startsWith("create")`, hit: true},
		{when: `summary != ""`, hit: true},
		{when: `"orders" in tags`, hit: true},
		{when: `has_request_body && secured && !deprecated`, hit: true},
		{when: `method == "GET"`, hit: false},
		{when: `"201" in statuses && "409" in statuses`, hit: false},
	}
	for _, tt := range tests {
		t.Run(tt.when, func(t *testing.T) {
			r, err := rules.CompileCustom(customRule(tt.when))
			require.NoError(t, err)
			got := r.Check(apiOf(ep))
			if tt.hit {
				require.Len(t, got, 1)
				assert.Equal(t, "custom rule matched", got[0].Message)
				assert.Equal(t, "/v1/orders", got[0].Location.Path)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestCompileCustom_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax error": `method ==`,
		"not a bool":   `path`,
		"unknown var":  `verb == "GET"`,
	}
	for name, when := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := rules.CompileCustom(customRule(when))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CUS001")
		})
	}
}

func TestCompileCustom_MessageDefaultsToTitle(t *testing.T) {
	cr := customRule(`true`)
	cr.Message = ""
	r, err := rules.CompileCustom(cr)
	require.NoError(t, err)

	got := r.Check(apiOf(endpoint("GET", "/users")))
	require.Len(t, got, 1)
	assert.Equal(t, "custom", got[0].Message)
	assert.Equal(t, rules.ScopeEndpoint, r.Scope)
	assert.True(t, r.Custom)
}

func TestCompileCustomRules_StopsAtFirstError(t *testing.T) {
	good := customRule(`true`)
	bad := customRule(`nope(`)
	bad.ID = "CUS002"

	_, err := rules.CompileCustomRules([]domain.CustomRule{good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUS002")

	compiled, err := rules.CompileCustomRules([]domain.CustomRule{good})
	require.NoError(t, err)
	assert.Len(t, compiled, 1)
}
