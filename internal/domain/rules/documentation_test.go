package rules_test

import (
	"testing"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationDescribed(t *testing.T) {
	assert.Len(t, only(lint(apiOf(endpoint("GET", "/users"))), "DOC001"), 1)

	described := endpoint("GET", "/users")
	described.Description = "Returns users visible to the caller."
	assert.Empty(t, only(lint(apiOf(described)), "DOC001"))
	assert.Empty(t, only(lint(apiOf(endpoint("GET", "/users", documented("listUsers")))), "DOC001"))
}

func TestParameterDescribed(t *testing.T) {
	ep := endpoint("GET", "/users/{id}",
		withParam(domain.Parameter{Name: "id", In: "path", Required: true}),
		withParam(domain.Parameter{Name: "expand", In: "query"}),
		withParam(domain.Parameter{Name: "fields", In: "query", Description: "Sparse fieldset"}),
	)
	got := only(lint(apiOf(ep)), "DOC002")
	require.Len(t, got, 2)
	fields := []string{got[0].Location.Field, got[1].Location.Field}
	assert.ElementsMatch(t, []string{"parameters.id", "parameters.expand"}, fields)
}

func TestOperationID(t *testing.T) {
	assert.Len(t, only(lint(apiOf(endpoint("GET", "/users"))), "DOC003"), 1)
	assert.Empty(t, only(lint(apiOf(endpoint("GET", "/users", documented("listUsers")))), "DOC003"))
	assert.Empty(t, only(lint(apiOf(endpoint("GET", "/users", listOnly()))), "DOC003"))
}
