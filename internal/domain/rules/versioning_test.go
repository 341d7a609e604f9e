package rules_test

import (
	"testing"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoVersioning(t *testing.T) {
	api := apiOf(endpoint("GET", "/users"), endpoint("GET", "/orders"))
	api.Servers = []string{"https://api.example.com"}
	got := only(lint(api), "VER001")
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Equal(t, "(api)", got[0].Location.String())

	api.Servers = []string{"https://api.example.com/v2"}
	assert.Empty(t, only(lint(api), "VER001"), "version in server URL")

	versioned := apiOf(endpoint("GET", "/v1/users"))
	versioned.Servers = nil
	assert.Empty(t, only(lint(versioned), "VER001"))
}

func TestNoVersioning_InternalIsSuggestion(t *testing.T) {
	api := apiOf(endpoint("GET", "/users"))
	api.Servers = nil
	cfg := domain.DefaultConfig()
	cfg.Visibility = domain.VisibilityInternal

	got := only(lintWith(api, cfg), "VER001")
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeveritySuggestion, got[0].Severity)
}

func TestMixedVersioning(t *testing.T) {
	api := apiOf(endpoint("GET", "/v1/users"), endpoint("GET", "/v1/orders"), endpoint("GET", "/reports"))
	api.Servers = nil
	got := only(lint(api), "VER002")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "2 endpoints are versioned but 1 are not")
	assert.Equal(t, "/reports", got[0].Location.Path)
	assert.Contains(t, got[0].Fix, "/v1")

	assert.Empty(t, only(lint(apiOf(endpoint("GET", "/v1/users"), endpoint("GET", "/v2/users"))), "VER002"))
}
