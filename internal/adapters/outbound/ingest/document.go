package ingest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// document covers the parts of OpenAPI 3.x and Swagger 2.0 that the rules
// look at. Unknown fields are ignored.
type document struct {
	OpenAPI    string               `yaml:"openapi" json:"openapi"`
	Swagger    string               `yaml:"swagger" json:"swagger"`
	Info       info                 `yaml:"info" json:"info"`
	Servers    []server             `yaml:"servers" json:"servers"`
	Paths      map[string]*pathItem `yaml:"paths" json:"paths"`
	Components components           `yaml:"components" json:"components"`
	Security   *[]requirement       `yaml:"security" json:"security"`

	// Swagger 2.0
	Host                string                     `yaml:"host" json:"host"`
	BasePath            string                     `yaml:"basePath" json:"basePath"`
	Schemes             []string                   `yaml:"schemes" json:"schemes"`
	Definitions         map[string]*schemaObj      `yaml:"definitions" json:"definitions"`
	Parameters          map[string]*paramObj       `yaml:"parameters" json:"parameters"`
	Responses           map[string]*responseObj    `yaml:"responses" json:"responses"`
	SecurityDefinitions map[string]*securityScheme `yaml:"securityDefinitions" json:"securityDefinitions"`
}

type info struct {
	Title   string `yaml:"title" json:"title"`
	Version string `yaml:"version" json:"version"`
}

type server struct {
	URL string `yaml:"url" json:"url"`
}

type components struct {
	Schemas         map[string]*schemaObj      `yaml:"schemas" json:"schemas"`
	Parameters      map[string]*paramObj       `yaml:"parameters" json:"parameters"`
	Responses       map[string]*responseObj    `yaml:"responses" json:"responses"`
	RequestBodies   map[string]*requestBodyObj `yaml:"requestBodies" json:"requestBodies"`
	SecuritySchemes map[string]*securityScheme `yaml:"securitySchemes" json:"securitySchemes"`
}

// requirement maps scheme names to scopes. An empty requirement means
// anonymous access is allowed.
type requirement map[string][]string

type pathItem struct {
	Parameters []*paramObj `yaml:"parameters" json:"parameters"`
	Get        *operation  `yaml:"get" json:"get"`
	Head       *operation  `yaml:"head" json:"head"`
	Post       *operation  `yaml:"post" json:"post"`
	Put        *operation  `yaml:"put" json:"put"`
	Patch      *operation  `yaml:"patch" json:"patch"`
	Delete     *operation  `yaml:"delete" json:"delete"`
	Options    *operation  `yaml:"options" json:"options"`
	Trace      *operation  `yaml:"trace" json:"trace"`
}

// operations lists the item's operations keyed by upper-case method.
func (p *pathItem) operations() map[string]*operation {
	all := map[string]*operation{
		"GET": p.Get, "HEAD": p.Head, "POST": p.Post, "PUT": p.Put,
		"PATCH": p.Patch, "DELETE": p.Delete, "OPTIONS": p.Options, "TRACE": p.Trace,
	}
	for m, op := range all {
		if op == nil {
			delete(all, m)
		}
	}
	return all
}

type operation struct {
	OperationID string                  `yaml:"operationId" json:"operationId"`
	Summary     string                  `yaml:"summary" json:"summary"`
	Description string                  `yaml:"description" json:"description"`
	Tags        []string                `yaml:"tags" json:"tags"`
	Deprecated  bool                    `yaml:"deprecated" json:"deprecated"`
	Parameters  []*paramObj             `yaml:"parameters" json:"parameters"`
	RequestBody *requestBodyObj         `yaml:"requestBody" json:"requestBody"`
	Responses   map[string]*responseObj `yaml:"responses" json:"responses"`

	// Security is nil when the operation inherits the document default.
	Security *[]requirement `yaml:"security" json:"security"`
}

type paramObj struct {
	Ref         string     `yaml:"$ref" json:"$ref"`
	Name        string     `yaml:"name" json:"name"`
	In          string     `yaml:"in" json:"in"`
	Description string     `yaml:"description" json:"description"`
	Required    bool       `yaml:"required" json:"required"`
	Type        schemaType `yaml:"type" json:"type"`
	Schema      *schemaObj `yaml:"schema" json:"schema"`
}

type mediaType struct {
	Schema *schemaObj `yaml:"schema" json:"schema"`
}

type requestBodyObj struct {
	Ref         string               `yaml:"$ref" json:"$ref"`
	Description string               `yaml:"description" json:"description"`
	Required    bool                 `yaml:"required" json:"required"`
	Content     map[string]mediaType `yaml:"content" json:"content"`
}

type responseObj struct {
	Ref         string               `yaml:"$ref" json:"$ref"`
	Description string               `yaml:"description" json:"description"`
	Content     map[string]mediaType `yaml:"content" json:"content"`
	Schema      *schemaObj           `yaml:"schema" json:"schema"`
}

type schemaObj struct {
	Ref        string                `yaml:"$ref" json:"$ref"`
	Type       schemaType            `yaml:"type" json:"type"`
	Properties map[string]*schemaObj `yaml:"properties" json:"properties"`
	Items      *schemaObj            `yaml:"items" json:"items"`
	Required   []string              `yaml:"required" json:"required"`
	AllOf      []*schemaObj          `yaml:"allOf" json:"allOf"`
	OneOf      []*schemaObj          `yaml:"oneOf" json:"oneOf"`
	AnyOf      []*schemaObj          `yaml:"anyOf" json:"anyOf"`
}

type securityScheme struct {
	Type   string `yaml:"type" json:"type"`
	In     string `yaml:"in" json:"in"`
	Name   string `yaml:"name" json:"name"`
	Scheme string `yaml:"scheme" json:"scheme"`
}

// schemaType accepts both `type: string` and the OpenAPI 3.1 form
// `type: [string, "null"]`. The first non-null entry wins.
type schemaType string

func (t *schemaType) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = schemaType(value.Value)
		return nil
	case yaml.SequenceNode:
		var types []string
		if err := value.Decode(&types); err != nil {
			return fmt.Errorf("decoding type list: %w", err)
		}
		*t = firstNonNull(types)
		return nil
	}
	return fmt.Errorf("line %d: type must be a string or a list of strings", value.Line)
}

func (t *schemaType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = schemaType(single)
		return nil
	}
	var types []string
	if err := json.Unmarshal(data, &types); err != nil {
		return fmt.Errorf("type must be a string or a list of strings: %w", err)
	}
	*t = firstNonNull(types)
	return nil
}

func firstNonNull(types []string) schemaType {
	for _, s := range types {
		if s != "null" {
			return schemaType(s)
		}
	}
	if len(types) > 0 {
		return "null"
	}
	return ""
}
