package rules

import "github.com/openkraft/apigrade/internal/domain"

func builtinRules() []Rule {
	var all []Rule
	all = append(all, namingRules()...)
	all = append(all, httpRules()...)
	all = append(all, responseRules()...)
	all = append(all, errorRules()...)
	all = append(all, versioningRules()...)
	all = append(all, securityRules()...)
	all = append(all, documentationRules()...)
	return all
}

func namingRules() []Rule {
	return []Rule{
		{
			ID:        "NAM001",
			Category:  domain.CategoryNaming,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityCritical,
			Title:     "Verb in path",
			Rationale: "URLs name resources; the HTTP method is the verb. Action words in paths duplicate the method and fragment the API surface.",
			Fix:       "Use a plural noun and let the method carry the action",
			Bad:       "POST /createUser\nGET /users/getAll",
			Good:      "POST /users\nGET /users",
			endpoint:  checkVerbInPath,
		},
		{
			ID:        "NAM002",
			Category:  domain.CategoryNaming,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Singular collection name",
			Rationale: "Collections are plural so /users lists and /users/{id} addresses one member of the same collection.",
			Fix:       "Use the plural form of the collection noun",
			Bad:       "GET /user/{id}",
			Good:      "GET /users/{id}",
			endpoint:  checkSingularCollection,
		},
		{
			ID:        "NAM003",
			Category:  domain.CategoryNaming,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Path segment not kebab-case",
			Rationale: "URLs are case-sensitive in practice and read poorly in camelCase or snake_case; lowercase kebab-case is the common convention.",
			Fix:       "Rename literal segments to lowercase kebab-case",
			Bad:       "GET /userProfiles\nGET /user_profiles",
			Good:      "GET /user-profiles",
			endpoint:  checkKebabCase,
		},
		{
			ID:        "NAM004",
			Category:  domain.CategoryNaming,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Trailing slash",
			Rationale: "/users and /users/ are different URLs to many routers and caches; pick the form without the slash.",
			Fix:       "Remove the trailing slash",
			Bad:       "GET /users/",
			Good:      "GET /users",
			endpoint:  checkTrailingSlash,
		},
		{
			ID:        "NAM005",
			Category:  domain.CategoryNaming,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "File extension in path",
			Rationale: "Representation is negotiated with Accept and Content-Type, not encoded in the URL.",
			Fix:       "Drop the extension and use the Accept header",
			Bad:       "GET /users.json",
			Good:      "GET /users  (Accept: application/json)",
			endpoint:  checkFileExtension,
		},
		{
			ID:        "NAM006",
			Category:  domain.CategoryNaming,
			Scope:     ScopeAPI,
			Severity:  domain.SeverityWarning,
			Title:     "Mixed property casing",
			Rationale: "Clients map JSON fields to code; one casing convention across every schema keeps generated models consistent.",
			Fix:       "Pick one casing (snake_case or camelCase) for all properties",
			Bad:       `{"user_id": 1, "createdAt": "..."}`,
			Good:      `{"user_id": 1, "created_at": "..."}`,
			api:       checkPropertyCasing,
		},
		{
			ID:        "NAM007",
			Category:  domain.CategoryNaming,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Deep resource nesting",
			Rationale: "Paths nested more than two resources deep are brittle and force clients to know the whole ancestry.",
			Fix:       "Expose the child as a top-level collection filtered by query parameters",
			Bad:       "GET /users/{id}/orders/{oid}/items/{iid}/notes",
			Good:      "GET /order-items/{iid}/notes",
			endpoint:  checkNestingDepth,
		},
	}
}

func httpRules() []Rule {
	return []Rule{
		{
			ID:        "HTTP001",
			Category:  domain.CategoryHTTPSemantics,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityCritical,
			Title:     "Request body on GET or HEAD",
			Rationale: "GET and HEAD bodies have no defined semantics; proxies and caches drop them.",
			Fix:       "Move the input to query parameters, or use POST for complex searches",
			Bad:       "GET /users  (requestBody: {filter: ...})",
			Good:      "GET /users?status=active\nPOST /users/search",
			endpoint:  checkBodyOnSafeMethod,
		},
		{
			ID:        "HTTP002",
			Category:  domain.CategoryHTTPSemantics,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityCritical,
			Title:     "State change through GET",
			Rationale: "GET must be safe; crawlers, prefetchers and retries will trigger a mutating GET.",
			Fix:       "Use POST, PUT, PATCH or DELETE for operations that change state",
			Bad:       "GET /users/{id}/delete",
			Good:      "DELETE /users/{id}",
			endpoint:  checkMutatingGet,
		},
		{
			ID:        "HTTP003",
			Category:  domain.CategoryHTTPSemantics,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Create without 201 Created",
			Rationale: "201 with a Location header tells clients a resource was created and where to find it.",
			Fix:       "Return 201 Created (or 202 Accepted for async creation) with a Location header",
			Bad:       "POST /users  -> 200",
			Good:      "POST /users  -> 201 Location: /users/42",
			endpoint:  checkCreateStatus,
		},
		{
			ID:        "HTTP004",
			Category:  domain.CategoryHTTPSemantics,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Delete without 204 No Content",
			Rationale: "A successful DELETE has nothing to return; 204 states that explicitly.",
			Fix:       "Return 204 No Content (or 202 Accepted for async deletion)",
			Bad:       "DELETE /users/{id}  -> 200 {}",
			Good:      "DELETE /users/{id}  -> 204",
			endpoint:  checkDeleteStatus,
		},
		{
			ID:        "HTTP005",
			Category:  domain.CategoryHTTPSemantics,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Update on a collection",
			Rationale: "PUT and PATCH address a single resource; on a collection they read as bulk replacement.",
			Fix:       "Address the item: PUT /resources/{id}",
			Bad:       "PUT /users",
			Good:      "PUT /users/{id}",
			endpoint:  checkUpdateOnCollection,
		},
		{
			ID:        "HTTP006",
			Category:  domain.CategoryHTTPSemantics,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Write without request body",
			Rationale: "Creates and updates carry the new representation; without a documented body clients have to guess the payload.",
			Fix:       "Document the request body schema",
			Bad:       "PATCH /users/{id}  (no requestBody)",
			Good:      "PATCH /users/{id}  (requestBody: UserPatch)",
			endpoint:  checkMissingRequestBody,
		},
	}
}

func responseRules() []Rule {
	return []Rule{
		{
			ID:        "RES001",
			Category:  domain.CategoryResponseDesign,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Collection without pagination",
			Rationale: "Unbounded lists grow until they time out; adding pagination later is a breaking change.",
			Fix:       "Accept limit and cursor (or page and per_page) query parameters",
			Bad:       "GET /users",
			Good:      "GET /users?limit=20&cursor=abc",
			endpoint:  checkMissingPagination,
		},
		{
			ID:        "RES002",
			Category:  domain.CategoryResponseDesign,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Top-level array response",
			Rationale: "A bare array leaves no room for pagination or metadata without breaking clients.",
			Fix:       "Wrap the list in an object",
			Bad:       `[{"id": 1}, {"id": 2}]`,
			Good:      `{"data": [{"id": 1}, {"id": 2}], "pagination": {"next_cursor": "..."}}`,
			endpoint:  checkTopLevelArray,
		},
		{
			ID:        "RES003",
			Category:  domain.CategoryResponseDesign,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "List response without envelope",
			Rationale: "A consistent {data, pagination} envelope lets clients page through any collection the same way.",
			Fix:       "Return {data: [...], pagination: {...}}",
			Bad:       `{"users": [...]}`,
			Good:      `{"data": [...], "pagination": {"total": 150, "has_more": true}}`,
			endpoint:  checkListEnvelope,
		},
	}
}

func errorRules() []Rule {
	return []Rule{
		{
			ID:        "ERR001",
			Category:  domain.CategoryErrorHandling,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityCritical,
			Title:     "No error responses",
			Rationale: "Every endpoint can fail; undocumented failures force clients to reverse-engineer error handling.",
			Fix:       "Document 4xx and 5xx responses with the shared error schema",
			Bad:       "responses: {200: ...}",
			Good:      "responses: {200: ..., 400: Error, 500: Error}",
			endpoint:  checkNoErrorResponses,
		},
		{
			ID:        "ERR002",
			Category:  domain.CategoryErrorHandling,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Item endpoint without 404",
			Rationale: "Addressing a missing resource is the most common failure of an item endpoint.",
			Fix:       "Add a 404 Not Found response",
			Bad:       "GET /users/{id}  responses: {200}",
			Good:      "GET /users/{id}  responses: {200, 404}",
			endpoint:  checkItemNotFound,
		},
		{
			ID:        "ERR003",
			Category:  domain.CategoryErrorHandling,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Write without validation error",
			Rationale: "Writes accept input, and input fails validation; clients need to know which status to expect.",
			Fix:       "Add 400 Bad Request and 422 Unprocessable Entity responses",
			Bad:       "POST /users  responses: {201}",
			Good:      "POST /users  responses: {201, 400, 422}",
			endpoint:  checkValidationError,
		},
		{
			ID:        "ERR004",
			Category:  domain.CategoryErrorHandling,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityWarning,
			Title:     "Error body without code and message",
			Rationale: "Clients branch on a stable machine-readable code and show the human message.",
			Fix:       "Use an error envelope with code, message and details",
			Bad:       `{"msg": "bad"}`,
			Good:      `{"error": {"code": "VALIDATION_ERROR", "message": "Invalid email", "details": [...]}}`,
			endpoint:  checkErrorEnvelope,
		},
		{
			ID:        "ERR005",
			Category:  domain.CategoryErrorHandling,
			Scope:     ScopeAPI,
			Severity:  domain.SeverityWarning,
			Title:     "Inconsistent error schemas",
			Rationale: "One error shape across the API lets clients write one error handler.",
			Fix:       "Reuse a single error schema for every error response",
			Bad:       "400: {error: ...}  404: {message: ...}",
			Good:      "400: Error  404: Error",
			api:       checkErrorConsistency,
		},
	}
}

func versioningRules() []Rule {
	return []Rule{
		{
			ID:        "VER001",
			Category:  domain.CategoryVersioning,
			Scope:     ScopeAPI,
			Severity:  domain.SeverityWarning,
			Overrides: map[domain.Visibility]domain.Severity{domain.VisibilityInternal: domain.SeveritySuggestion},
			Title:     "No versioning",
			Rationale: "Without a version there is no way to ship a breaking change next to the current contract.",
			Fix:       "Prefix paths with /v1 or put the version in the server URL",
			Bad:       "GET /users",
			Good:      "GET /v1/users",
			api:       checkNoVersioning,
		},
		{
			ID:        "VER002",
			Category:  domain.CategoryVersioning,
			Scope:     ScopeAPI,
			Severity:  domain.SeverityWarning,
			Title:     "Mixed versioning",
			Rationale: "Some endpoints versioned and some not means clients cannot tell which contract they are on.",
			Fix:       "Put every endpoint under the same version prefix",
			Bad:       "GET /v1/users\nGET /orders",
			Good:      "GET /v1/users\nGET /v1/orders",
			api:       checkMixedVersioning,
		},
	}
}

func securityRules() []Rule {
	return []Rule{
		{
			ID:        "SEC001",
			Category:  domain.CategorySecurity,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityCritical,
			Overrides: map[domain.Visibility]domain.Severity{domain.VisibilityInternal: domain.SeverityWarning},
			Title:     "Unauthenticated endpoint",
			Rationale: "Endpoints without a security requirement are open to anyone who can reach them.",
			Fix:       "Apply a security scheme, or declare security: [] on intentionally public operations",
			Bad:       "GET /users  (no security)",
			Good:      "GET /users  security: [{bearerAuth: []}]",
			endpoint:  checkUnsecured,
		},
		{
			ID:        "SEC002",
			Category:  domain.CategorySecurity,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeverityCritical,
			Title:     "Secret in query string",
			Rationale: "Query strings are logged by servers and proxies and kept in browser history.",
			Fix:       "Move secrets to headers or the request body",
			Bad:       "GET /reports?api_key=abc",
			Good:      "GET /reports  Authorization: Bearer abc",
			endpoint:  checkSensitiveQuery,
		},
		{
			ID:        "SEC003",
			Category:  domain.CategorySecurity,
			Scope:     ScopeAPI,
			Severity:  domain.SeverityCritical,
			Overrides: map[domain.Visibility]domain.Severity{domain.VisibilityInternal: domain.SeverityWarning},
			Title:     "Plain HTTP server",
			Rationale: "Credentials and data sent over plain HTTP can be read and modified in transit.",
			Fix:       "Serve over HTTPS only",
			Bad:       "servers: [{url: http://api.example.com}]",
			Good:      "servers: [{url: https://api.example.com}]",
			api:       checkPlainHTTP,
		},
		{
			ID:        "SEC004",
			Category:  domain.CategorySecurity,
			Scope:     ScopeAPI,
			Severity:  domain.SeverityWarning,
			Title:     "API key in query string",
			Rationale: "Keys in URLs leak through logs, referrers and shared links.",
			Fix:       "Declare the apiKey scheme with in: header",
			Bad:       "apiKey: {type: apiKey, in: query, name: key}",
			Good:      "apiKey: {type: apiKey, in: header, name: X-API-Key}",
			api:       checkAPIKeyInQuery,
		},
		{
			ID:        "SEC005",
			Category:  domain.CategorySecurity,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Secured endpoint without 401/403",
			Rationale: "Clients must tell missing credentials (401) from insufficient permissions (403).",
			Fix:       "Document 401 Unauthorized and 403 Forbidden",
			Bad:       "GET /users  security: [bearer]  responses: {200}",
			Good:      "GET /users  security: [bearer]  responses: {200, 401, 403}",
			endpoint:  checkAuthErrors,
		},
		{
			ID:        "SEC006",
			Category:  domain.CategorySecurity,
			Scope:     ScopeAPI,
			Severity:  domain.SeveritySuggestion,
			Title:     "Rate limiting undocumented",
			Rationale: "Clients that know the limits back off instead of hammering the API.",
			Fix:       "Document 429 Too Many Requests with Retry-After and X-RateLimit-* headers",
			Bad:       "responses: {200, 400}",
			Good:      "responses: {200, 400, 429}",
			api:       checkRateLimitDocumented,
		},
	}
}

func documentationRules() []Rule {
	return []Rule{
		{
			ID:        "DOC001",
			Category:  domain.CategoryDocumentation,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Operation undocumented",
			Rationale: "A summary is what shows up in generated docs and SDK comments.",
			Fix:       "Add a summary, and a description for non-obvious behavior",
			Bad:       "get: {responses: ...}",
			Good:      "get: {summary: List users, responses: ...}",
			endpoint:  checkOperationDescribed,
		},
		{
			ID:        "DOC002",
			Category:  domain.CategoryDocumentation,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Parameter undocumented",
			Rationale: "Parameter names rarely explain format, units or allowed values.",
			Fix:       "Describe each parameter",
			Bad:       "- name: since\n  in: query",
			Good:      "- name: since\n  in: query\n  description: RFC 3339 timestamp; only items updated after it",
			endpoint:  checkParameterDescribed,
		},
		{
			ID:        "DOC003",
			Category:  domain.CategoryDocumentation,
			Scope:     ScopeEndpoint,
			Severity:  domain.SeveritySuggestion,
			Title:     "Missing operationId",
			Rationale: "Code generators derive method names from operationId; without it names are unstable.",
			Fix:       "Add a unique operationId",
			Bad:       "get: {summary: List users}",
			Good:      "get: {operationId: listUsers, summary: List users}",
			endpoint:  checkOperationID,
		},
	}
}
