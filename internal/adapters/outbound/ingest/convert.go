package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

// converter turns a decoded document into the domain model, resolving
// local $refs as it goes.
type converter struct {
	doc     *document
	swagger bool
	schemes map[string]domain.SecurityScheme

	// schemas memoizes resolved component schemas; inProgress breaks cycles.
	schemas    map[string]*domain.Schema
	inProgress map[string]bool
}

func convert(doc *document) (*domain.API, error) {
	c := &converter{
		doc:        doc,
		swagger:    doc.OpenAPI == "",
		schemes:    map[string]domain.SecurityScheme{},
		schemas:    map[string]*domain.Schema{},
		inProgress: map[string]bool{},
	}

	api := &domain.API{
		Title:     doc.Info.Title,
		Version:   doc.Info.Version,
		Format:    domain.FormatOpenAPI3,
		Endpoints: []domain.Endpoint{},
	}
	if c.swagger {
		api.Format = domain.FormatSwagger2
	}

	api.Servers = c.servers()
	api.SecuritySchemes = c.securitySchemes()

	for path, item := range doc.Paths {
		if item == nil {
			continue
		}
		for method, op := range item.operations() {
			ep, err := c.endpoint(path, method, item, op)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			api.Endpoints = append(api.Endpoints, ep)
		}
	}
	return api, nil
}

func (c *converter) servers() []string {
	if !c.swagger {
		out := make([]string, 0, len(c.doc.Servers))
		for _, s := range c.doc.Servers {
			if s.URL != "" {
				out = append(out, s.URL)
			}
		}
		return out
	}

	if c.doc.Host == "" {
		if c.doc.BasePath != "" && c.doc.BasePath != "/" {
			return []string{c.doc.BasePath}
		}
		return nil
	}
	schemes := c.doc.Schemes
	if len(schemes) == 0 {
		schemes = []string{"https"}
	}
	base := strings.TrimSuffix(c.doc.BasePath, "/")
	out := make([]string, 0, len(schemes))
	for _, s := range schemes {
		out = append(out, s+"://"+c.doc.Host+base)
	}
	return out
}

func (c *converter) securitySchemes() []domain.SecurityScheme {
	defs := c.doc.Components.SecuritySchemes
	if c.swagger {
		defs = c.doc.SecurityDefinitions
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.SecurityScheme, 0, len(names))
	for _, name := range names {
		d := defs[name]
		if d == nil {
			continue
		}
		s := domain.SecurityScheme{Name: name, Type: d.Type, In: d.In, Scheme: d.Scheme}
		c.schemes[name] = s
		out = append(out, s)
	}
	return out
}

func (c *converter) endpoint(path, method string, item *pathItem, op *operation) (domain.Endpoint, error) {
	ep := domain.Endpoint{
		Path:        path,
		Method:      method,
		Segments:    domain.ParsePath(path),
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  op.Deprecated,
		Detailed:    true,
	}

	params, err := c.parameters(item.Parameters, op.Parameters)
	if err != nil {
		return ep, err
	}
	var formFields []domain.Property
	for _, p := range params {
		switch p.In {
		case "body":
			body, err := c.schema(p.Schema)
			if err != nil {
				return ep, err
			}
			if body == nil {
				body = &domain.Schema{}
			}
			ep.RequestBody = body
		case "formData":
			formFields = append(formFields, domain.Property{Name: p.Name, Schema: &domain.Schema{Type: string(p.Type)}})
		default:
			ep.Parameters = append(ep.Parameters, domain.Parameter{
				Name:        p.Name,
				In:          p.In,
				Description: p.Description,
				Required:    p.Required,
			})
		}
	}
	if ep.RequestBody == nil && len(formFields) > 0 {
		ep.RequestBody = &domain.Schema{Type: "object", Properties: formFields}
	}

	if op.RequestBody != nil {
		body, err := c.requestBody(op.RequestBody)
		if err != nil {
			return ep, err
		}
		ep.RequestBody = body
	}

	ep.Responses, err = c.responses(op.Responses)
	if err != nil {
		return ep, err
	}

	ep.Security, ep.ExplicitlyPublic = c.security(op)
	return ep, nil
}

// parameters merges path-level and operation-level parameters. The
// operation wins on a name+in clash.
func (c *converter) parameters(shared, own []*paramObj) ([]*paramObj, error) {
	var out []*paramObj
	index := map[string]int{}
	add := func(list []*paramObj) error {
		for _, raw := range list {
			p, err := c.resolveParam(raw)
			if err != nil {
				return err
			}
			if p == nil {
				continue
			}
			key := p.In + ":" + p.Name
			if i, ok := index[key]; ok {
				out[i] = p
				continue
			}
			index[key] = len(out)
			out = append(out, p)
		}
		return nil
	}
	if err := add(shared); err != nil {
		return nil, err
	}
	if err := add(own); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *converter) resolveParam(p *paramObj) (*paramObj, error) {
	seen := map[string]bool{}
	for p != nil && p.Ref != "" {
		if seen[p.Ref] {
			return nil, fmt.Errorf("circular parameter reference %s", p.Ref)
		}
		seen[p.Ref] = true
		name, ok := refName(p.Ref, "#/components/parameters/", "#/parameters/")
		if !ok {
			return nil, fmt.Errorf("unresolvable parameter reference %s", p.Ref)
		}
		next := c.doc.Components.Parameters[name]
		if c.swagger {
			next = c.doc.Parameters[name]
		}
		if next == nil {
			return nil, fmt.Errorf("unknown parameter %s", p.Ref)
		}
		p = next
	}
	return p, nil
}

func (c *converter) requestBody(rb *requestBodyObj) (*domain.Schema, error) {
	seen := map[string]bool{}
	for rb.Ref != "" {
		if seen[rb.Ref] {
			return nil, fmt.Errorf("circular request body reference %s", rb.Ref)
		}
		seen[rb.Ref] = true
		name, ok := refName(rb.Ref, "#/components/requestBodies/")
		if !ok || c.doc.Components.RequestBodies[name] == nil {
			return nil, fmt.Errorf("unknown request body %s", rb.Ref)
		}
		rb = c.doc.Components.RequestBodies[name]
	}
	body, err := c.schema(pickMedia(rb.Content))
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = &domain.Schema{}
	}
	return body, nil
}

func (c *converter) responses(raw map[string]*responseObj) ([]domain.Response, error) {
	statuses := make([]string, 0, len(raw))
	for status := range raw {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	out := make([]domain.Response, 0, len(statuses))
	for _, status := range statuses {
		r, err := c.resolveResponse(raw[status])
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", status, err)
		}
		resp := domain.Response{Status: strings.ToUpper(status)}
		if status == "default" {
			resp.Status = status
		}
		if r != nil {
			resp.Description = r.Description
			rs := r.Schema
			if !c.swagger {
				rs = pickMedia(r.Content)
			}
			if resp.Schema, err = c.schema(rs); err != nil {
				return nil, fmt.Errorf("response %s: %w", status, err)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (c *converter) resolveResponse(r *responseObj) (*responseObj, error) {
	seen := map[string]bool{}
	for r != nil && r.Ref != "" {
		if seen[r.Ref] {
			return nil, fmt.Errorf("circular response reference %s", r.Ref)
		}
		seen[r.Ref] = true
		name, ok := refName(r.Ref, "#/components/responses/", "#/responses/")
		if !ok {
			return nil, fmt.Errorf("unresolvable response reference %s", r.Ref)
		}
		next := c.doc.Components.Responses[name]
		if c.swagger {
			next = c.doc.Responses[name]
		}
		if next == nil {
			return nil, fmt.Errorf("unknown response %s", r.Ref)
		}
		r = next
	}
	return r, nil
}

// security resolves the operation's effective requirement. The endpoint is
// explicitly public when the effective list is declared empty
// (`security: []`) or offers the anonymous alternative `{}`.
func (c *converter) security(op *operation) ([]domain.SecurityScheme, bool) {
	declared := c.doc.Security
	if op.Security != nil {
		declared = op.Security
	}
	if declared == nil {
		return nil, false
	}
	reqs := *declared
	if len(reqs) == 0 {
		return nil, true
	}

	var out []domain.SecurityScheme
	seen := map[string]bool{}
	anonymous := false
	for _, req := range reqs {
		if len(req) == 0 {
			anonymous = true
			continue
		}
		names := make([]string, 0, len(req))
		for name := range req {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			s, ok := c.schemes[name]
			if !ok {
				s = domain.SecurityScheme{Name: name}
			}
			out = append(out, s)
		}
	}
	return out, anonymous
}

// schema converts a raw schema. Named component schemas are memoized; a
// reference back into a schema still being built yields a name-only stub.
func (c *converter) schema(s *schemaObj) (*domain.Schema, error) {
	if s == nil {
		return nil, nil
	}
	if s.Ref != "" {
		return c.schemaRef(s.Ref)
	}

	out := &domain.Schema{Type: string(s.Type), Required: append([]string(nil), s.Required...)}

	if s.Items != nil {
		items, err := c.schema(s.Items)
		if err != nil {
			return nil, err
		}
		out.Items = items
		if out.Type == "" {
			out.Type = "array"
		}
	}

	props, err := c.properties(s.Properties)
	if err != nil {
		return nil, err
	}
	out.Properties = props

	// allOf composes; the first oneOf/anyOf variant stands in for the union.
	parts := s.AllOf
	if len(s.OneOf) > 0 {
		parts = append(parts, s.OneOf[0])
	}
	if len(s.AnyOf) > 0 {
		parts = append(parts, s.AnyOf[0])
	}
	for _, part := range parts {
		sub, err := c.schema(part)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			continue
		}
		mergeSchema(out, sub)
		if out.Name == "" && len(s.AllOf) == 1 && len(s.Properties) == 0 {
			out.Name = sub.Name
		}
	}

	if out.Type == "" && len(out.Properties) > 0 {
		out.Type = "object"
	}
	sortProperties(out.Properties)
	return out, nil
}

func (c *converter) schemaRef(ref string) (*domain.Schema, error) {
	name, ok := refName(ref, "#/components/schemas/", "#/definitions/")
	if !ok {
		// External references cannot be followed without I/O.
		return &domain.Schema{Name: ref}, nil
	}
	if s, ok := c.schemas[name]; ok {
		return s, nil
	}
	if c.inProgress[name] {
		return &domain.Schema{Name: name, Type: "object"}, nil
	}

	raw := c.doc.Components.Schemas[name]
	if c.swagger {
		raw = c.doc.Definitions[name]
	}
	if raw == nil {
		return nil, fmt.Errorf("unknown schema %s", ref)
	}

	c.inProgress[name] = true
	s, err := c.schema(raw)
	delete(c.inProgress, name)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	named := *s
	named.Name = name
	c.schemas[name] = &named
	return &named, nil
}

func (c *converter) properties(raw map[string]*schemaObj) ([]domain.Property, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.Property, 0, len(raw))
	for name, ps := range raw {
		s, err := c.schema(ps)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		out = append(out, domain.Property{Name: name, Schema: s})
	}
	return out, nil
}

// mergeSchema folds sub's properties and type into dst. Existing
// properties win.
func mergeSchema(dst, sub *domain.Schema) {
	if dst.Type == "" {
		dst.Type = sub.Type
	}
	if dst.Items == nil {
		dst.Items = sub.Items
	}
	for _, p := range sub.Properties {
		if dst.Property(p.Name) == nil {
			dst.Properties = append(dst.Properties, p)
		}
	}
	dst.Required = append(dst.Required, sub.Required...)
}

func sortProperties(props []domain.Property) {
	sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
}

// pickMedia prefers JSON content, then the alphabetically first type.
func pickMedia(content map[string]mediaType) *schemaObj {
	if len(content) == 0 {
		return nil
	}
	if m, ok := content["application/json"]; ok {
		return m.Schema
	}
	types := make([]string, 0, len(content))
	for t := range content {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		if strings.HasSuffix(t, "+json") {
			return content[t].Schema
		}
	}
	return content[types[0]].Schema
}

// refName strips the first matching prefix from a local reference and
// unescapes JSON pointer tokens.
func refName(ref string, prefixes ...string) (string, bool) {
	for _, prefix := range prefixes {
		if name, ok := strings.CutPrefix(ref, prefix); ok && name != "" {
			name = strings.ReplaceAll(name, "~1", "/")
			name = strings.ReplaceAll(name, "~0", "~")
			return name, true
		}
	}
	return "", false
}
