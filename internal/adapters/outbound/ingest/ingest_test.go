package ingest_test

import (
	"path/filepath"
	"testing"

	"github.com/openkraft/apigrade/internal/adapters/outbound/ingest"
	"github.com/openkraft/apigrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(name string) string {
	return filepath.Join("../../../../testdata/specs", name)
}

func endpointKeys(api *domain.API) []string {
	keys := make([]string, 0, len(api.Endpoints))
	for _, ep := range api.Endpoints {
		keys = append(keys, ep.Key())
	}
	return keys
}

func findEndpoint(t *testing.T, api *domain.API, key string) domain.Endpoint {
	t.Helper()
	for _, ep := range api.Endpoints {
		if ep.Key() == key {
			return ep
		}
	}
	require.Failf(t, "endpoint not found", "%s not in %v", key, endpointKeys(api))
	return domain.Endpoint{}
}

func TestIngestFile_OpenAPI3YAML(t *testing.T) {
	api, err := ingest.New().IngestFile(fixture("good.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.FormatOpenAPI3, api.Format)
	assert.Equal(t, "Bookstore", api.Title)
	assert.Equal(t, "1.0.0", api.Version)
	assert.Equal(t, []string{"https://api.example.com/v1"}, api.Servers)
	assert.Equal(t, fixture("good.yaml"), api.Source)
	assert.Equal(t, []string{
		"GET /books",
		"POST /books",
		"GET /books/{bookId}",
		"PATCH /books/{bookId}",
		"DELETE /books/{bookId}",
		"GET /health",
	}, endpointKeys(api))
}

func TestIngestFile_RefsResolved(t *testing.T) {
	api, err := ingest.New().IngestFile(fixture("good.yaml"))
	require.NoError(t, err)

	list := findEndpoint(t, api, "GET /books")
	require.Len(t, list.SuccessResponses(), 1)
	body := list.SuccessResponses()[0].Schema
	require.NotNil(t, body)
	assert.Equal(t, "BookList", body.Name)
	assert.Equal(t, "array", body.Property("data").Type)
	assert.Equal(t, "Book", body.Property("data").Items.Name)
	assert.NotNil(t, body.Property("pagination").Property("next_cursor"))

	// Response $ref resolves through components/responses into the schema.
	var unauthorized *domain.Response
	for i, r := range list.Responses {
		if r.Status == "401" {
			unauthorized = &list.Responses[i]
		}
	}
	require.NotNil(t, unauthorized)
	assert.Equal(t, "Error", unauthorized.Schema.Name)
	assert.NotNil(t, unauthorized.Schema.Property("error").Property("code"))
}

func TestIngestFile_PathParametersMerged(t *testing.T) {
	api, err := ingest.New().IngestFile(fixture("good.yaml"))
	require.NoError(t, err)

	ep := findEndpoint(t, api, "DELETE /books/{bookId}")
	require.Len(t, ep.Parameters, 1)
	assert.Equal(t, "bookId", ep.Parameters[0].Name)
	assert.Equal(t, "path", ep.Parameters[0].In)
	assert.Equal(t, "Book identifier", ep.Parameters[0].Description)
	assert.True(t, ep.IsItem())
}

func TestIngestFile_SecurityInheritanceAndOptOut(t *testing.T) {
	api, err := ingest.New().IngestFile(fixture("good.yaml"))
	require.NoError(t, err)

	books := findEndpoint(t, api, "GET /books")
	require.Len(t, books.Security, 1)
	assert.Equal(t, "bearerAuth", books.Security[0].Name)
	assert.Equal(t, "bearer", books.Security[0].Scheme)
	assert.False(t, books.ExplicitlyPublic)

	health := findEndpoint(t, api, "GET /health")
	assert.Empty(t, health.Security)
	assert.True(t, health.ExplicitlyPublic)
}

func TestIngest_AnonymousSecurity(t *testing.T) {
	tests := []struct {
		name       string
		global     string
		operation  string
		wantPublic bool
		wantNames  []string
	}{
		{name: "document opts out", global: "security: []\n", wantPublic: true},
		{name: "document anonymous alternative", global: "security:\n  - {}\n", wantPublic: true},
		{name: "optional auth", global: "security:\n  - apiKey: []\n  - {}\n", wantPublic: true, wantNames: []string{"apiKey"}},
		{name: "operation overrides anonymous document", global: "security: []\n", operation: "      security:\n        - apiKey: []\n", wantNames: []string{"apiKey"}},
		{name: "nothing declared"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := "openapi: 3.0.3\ninfo:\n  title: Anon\n  version: '1'\n" + tt.global +
				"components:\n  securitySchemes:\n    apiKey:\n      type: apiKey\n      in: header\n      name: X-API-Key\n" +
				"paths:\n  /status:\n    get:\n" + tt.operation +
				"      responses:\n        '200':\n          description: ok\n"
			api, err := ingest.New().Ingest("anon.yaml", []byte(spec))
			require.NoError(t, err)

			ep := findEndpoint(t, api, "GET /status")
			assert.Equal(t, tt.wantPublic, ep.ExplicitlyPublic)
			var names []string
			for _, s := range ep.Security {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestIngestFile_Swagger2JSON(t *testing.T) {
	api, err := ingest.New().IngestFile(fixture("swagger.json"))
	require.NoError(t, err)

	assert.Equal(t, domain.FormatSwagger2, api.Format)
	assert.Equal(t, []string{"https://petstore.example.com/v2"}, api.Servers)
	assert.Equal(t, []string{"GET /pets", "POST /pets", "GET /pets/{petId}"}, endpointKeys(api))

	require.Len(t, api.SecuritySchemes, 1)
	assert.Equal(t, domain.SecurityScheme{Name: "api_key", Type: "apiKey", In: "query"}, api.SecuritySchemes[0])

	create := findEndpoint(t, api, "POST /pets")
	require.NotNil(t, create.RequestBody)
	assert.Equal(t, "Pet", create.RequestBody.Name)
	assert.Empty(t, create.Parameters, "body parameter becomes the request body")

	list := findEndpoint(t, api, "GET /pets")
	assert.Equal(t, "array", list.SuccessResponses()[0].Schema.Type)
	require.Len(t, list.ErrorResponses(), 1)
	assert.Equal(t, "default", list.ErrorResponses()[0].Status)
	assert.Equal(t, "Error", list.ErrorResponses()[0].Schema.Name)

	get := findEndpoint(t, api, "GET /pets/{petId}")
	assert.True(t, get.ExplicitlyPublic)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "Pet id", get.Parameters[0].Description)
}

func TestIngestFile_CyclicRefsAndTypeArrays(t *testing.T) {
	api, err := ingest.New().IngestFile(fixture("cyclic.yaml"))
	require.NoError(t, err)

	ep := findEndpoint(t, api, "GET /nodes/{nodeId}")
	node := ep.SuccessResponses()[0].Schema
	require.NotNil(t, node)
	assert.Equal(t, "Node", node.Name)
	assert.Equal(t, "string", node.Property("name").Type, "type: [string, null] keeps the non-null type")
	assert.Equal(t, "Node", node.Property("children").Items.Name)
	assert.Equal(t, "Node", node.Property("parent").Name)
}

func TestIngestFile_EndpointList(t *testing.T) {
	api, err := ingest.New().IngestFile(fixture("endpoints.txt"))
	require.NoError(t, err)

	assert.Equal(t, domain.FormatEndpointList, api.Format)
	assert.Equal(t, []string{
		"GET /v1/users",
		"POST /v1/users",
		"DELETE /v1/users/:id",
		"GET /v1/users/{id}",
	}, endpointKeys(api))

	users := findEndpoint(t, api, "GET /v1/users")
	assert.False(t, users.Detailed)
	assert.True(t, users.HasStatus("200"))
	assert.True(t, users.HasStatus("401"))
	assert.True(t, users.HasStatus("500"), "duplicate lines merge their statuses")

	del := findEndpoint(t, api, "DELETE /v1/users/:id")
	assert.True(t, del.IsItem(), ":id is a path parameter")
}

func TestIngest_OpenAPI3JSONInline(t *testing.T) {
	spec := `{
  "openapi": "3.1.0",
  "info": {"title": "Inline", "version": "2"},
  "paths": {
    "/widgets": {
      "get": {
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"type": ["array", "null"], "items": {"type": "object"}}}}}}
      }
    }
  }
}`
	api, err := ingest.New().Ingest("inline.json", []byte(spec))
	require.NoError(t, err)
	assert.Equal(t, "Inline", api.Title)
	require.Len(t, api.Endpoints, 1)
	assert.Equal(t, "array", api.Endpoints[0].SuccessResponses()[0].Schema.Type)
}

func TestIngest_UnknownFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: "   \n"},
		{name: "prose", input: "This is not an API description."},
		{name: "other yaml", input: "title: notes\nitems: [a, b]\n"},
		{name: "comments only", input: "# nothing here\n\n# still nothing\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.New().Ingest("x", []byte(tt.input))
			assert.ErrorIs(t, err, ingest.ErrUnknownFormat)
		})
	}
}

func TestIngest_BrokenDocumentReportsDecodeError(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "truncated json", input: `{"openapi": "3.0.0", "paths": {`},
		{name: "json trailing comma", input: `{"swagger": "2.0",}`},
		{name: "bad yaml indentation", input: "openapi: 3.0.3\ninfo:\n  title: x\n version: 1\npaths: {}\n"},
		{name: "tab indented yaml", input: "swagger: '2.0'\npaths:\n\t/users: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.New().Ingest("broken", []byte(tt.input))
			require.Error(t, err)
			assert.NotErrorIs(t, err, ingest.ErrUnknownFormat)
			assert.Contains(t, err.Error(), "parsing OpenAPI document")
		})
	}
}

func TestIngest_EndpointListBadLaterLine(t *testing.T) {
	_, err := ingest.New().Ingest("x", []byte("GET /users\nFETCH /things\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ingest.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "line 2")
}

func TestIngest_BrokenRefIsError(t *testing.T) {
	spec := `openapi: 3.0.0
info: {title: Broken, version: "1"}
paths:
  /things:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Missing'
`
	_, err := ingest.New().Ingest("broken.yaml", []byte(spec))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing")
}

func TestIngestFile_MissingFile(t *testing.T) {
	_, err := ingest.New().IngestFile(fixture("does-not-exist.yaml"))
	assert.Error(t, err)
}
