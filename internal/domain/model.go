package domain

import "strings"

// API is the normalized form of an ingested API description.
type API struct {
	Title           string           `json:"title,omitempty"`
	Version         string           `json:"version,omitempty"`
	Source          string           `json:"source"`
	Format          SpecFormat       `json:"format"`
	Servers         []string         `json:"servers,omitempty"`
	Endpoints       []Endpoint       `json:"endpoints"`
	SecuritySchemes []SecurityScheme `json:"security_schemes,omitempty"`
}

// SpecFormat identifies the document flavour an API was ingested from.
type SpecFormat string

const (
	FormatOpenAPI3     SpecFormat = "openapi3"
	FormatSwagger2     SpecFormat = "swagger2"
	FormatEndpointList SpecFormat = "endpoint-list"
)

// Endpoint is one method on one path template.
type Endpoint struct {
	Path        string           `json:"path"`
	Method      string           `json:"method"`
	Segments    []PathSegment    `json:"segments"`
	OperationID string           `json:"operation_id,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	Description string           `json:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Deprecated  bool             `json:"deprecated,omitempty"`
	Parameters  []Parameter      `json:"parameters,omitempty"`
	RequestBody *Schema          `json:"request_body,omitempty"`
	Responses   []Response       `json:"responses,omitempty"`
	Security    []SecurityScheme `json:"security,omitempty"`

	// Detailed is false for sources that carry only method, path and status
	// codes (flat endpoint lists). Rules that inspect bodies, parameters,
	// security or docs skip such endpoints.
	Detailed bool `json:"detailed"`

	// ExplicitlyPublic is set when the source opts the operation out of
	// security on purpose (OpenAPI `security: []` or an empty `{}` alternative).
	ExplicitlyPublic bool `json:"explicitly_public,omitempty"`
}

// PathSegment is a literal or {parameter} component of a path template.
type PathSegment struct {
	Value string `json:"value"`
	Param bool   `json:"param,omitempty"`
}

type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Response is a declared response. Status is the literal key from the
// source: "200", "4XX" or "default".
type Response struct {
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// Schema is a resolved, reference-free view of a JSON schema.
type Schema struct {
	Name       string     `json:"name,omitempty"`
	Type       string     `json:"type,omitempty"`
	Properties []Property `json:"properties,omitempty"`
	Items      *Schema    `json:"items,omitempty"`
	Required   []string   `json:"required,omitempty"`
}

type Property struct {
	Name   string  `json:"name"`
	Schema *Schema `json:"schema,omitempty"`
}

type SecurityScheme struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	In     string `json:"in,omitempty"`
	Scheme string `json:"scheme,omitempty"`
}

// ParsePath splits a path template into segments. Empty segments from
// leading, trailing or doubled slashes are dropped.
func ParsePath(path string) []PathSegment {
	var segs []PathSegment
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			segs = append(segs, PathSegment{Value: strings.Trim(part, "{}"), Param: true})
			continue
		}
		if strings.HasPrefix(part, ":") && len(part) > 1 {
			segs = append(segs, PathSegment{Value: part[1:], Param: true})
			continue
		}
		segs = append(segs, PathSegment{Value: part})
	}
	return segs
}

// IsItem reports whether the path ends in a parameter (/users/{id}).
func (e Endpoint) IsItem() bool {
	return len(e.Segments) > 0 && e.Segments[len(e.Segments)-1].Param
}

// IsCollection reports whether the path ends in a literal segment.
func (e Endpoint) IsCollection() bool {
	return len(e.Segments) > 0 && !e.Segments[len(e.Segments)-1].Param
}

// HasStatus reports whether a response with the exact status key exists.
func (e Endpoint) HasStatus(codes ...string) bool {
	for _, r := range e.Responses {
		for _, c := range codes {
			if r.Status == c {
				return true
			}
		}
	}
	return false
}

// SuccessResponses returns declared 2xx responses.
func (e Endpoint) SuccessResponses() []Response {
	var out []Response
	for _, r := range e.Responses {
		if len(r.Status) == 3 && r.Status[0] == '2' {
			out = append(out, r)
		}
	}
	return out
}

// ErrorResponses returns 4xx, 5xx and default responses.
func (e Endpoint) ErrorResponses() []Response {
	var out []Response
	for _, r := range e.Responses {
		if r.Status == "default" || (len(r.Status) == 3 && (r.Status[0] == '4' || r.Status[0] == '5')) {
			out = append(out, r)
		}
	}
	return out
}

// QueryParams returns the parameters carried in the query string.
func (e Endpoint) QueryParams() []Parameter {
	var out []Parameter
	for _, p := range e.Parameters {
		if p.In == "query" {
			out = append(out, p)
		}
	}
	return out
}

// ResponsesKnown reports whether the source declared any responses at all.
func (e Endpoint) ResponsesKnown() bool { return len(e.Responses) > 0 }

// Secured reports whether at least one security scheme applies.
func (e Endpoint) Secured() bool { return len(e.Security) > 0 }

// Key returns "METHOD /path".
func (e Endpoint) Key() string { return e.Method + " " + e.Path }

// Property looks up a property by name.
func (s *Schema) Property(name string) *Schema {
	if s == nil {
		return nil
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// PropertyNames returns the property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	return names
}

// methodOrder fixes the sort order of methods on the same path.
var methodOrder = map[string]int{
	"GET": 0, "HEAD": 1, "POST": 2, "PUT": 3, "PATCH": 4, "DELETE": 5, "OPTIONS": 6, "TRACE": 7,
}

// MethodRank returns a stable ordering index for an HTTP method.
func MethodRank(method string) int {
	if r, ok := methodOrder[method]; ok {
		return r
	}
	return len(methodOrder)
}
