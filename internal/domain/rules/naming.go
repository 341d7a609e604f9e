package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

var knownExtensions = map[string]bool{
	"json": true, "xml": true, "yaml": true, "yml": true,
	"csv": true, "html": true, "txt": true, "pdf": true,
}

// maxNestingLevels is the deepest resource chain considered readable:
// /customers/{id}/orders is two levels.
const maxNestingLevels = 2

func loc(ep domain.Endpoint) domain.Location {
	return domain.Location{Method: ep.Method, Path: ep.Path}
}

func checkVerbInPath(ep domain.Endpoint) []Violation {
	var out []Violation
	for _, seg := range ep.Segments {
		if seg.Param || isVersionSegment(seg.Value) {
			continue
		}
		verb, ok := leadingVerb(seg.Value, crudVerbs)
		if !ok {
			continue
		}
		noun := strings.Join(splitWords(stripExtension(seg.Value))[1:], "-")
		fix := fmt.Sprintf("Drop %q from the path and let the %s method carry the action", verb, methodFor(verb, ep.Method))
		if noun != "" {
			fix = fmt.Sprintf("Rename segment %q to %q and use %s", seg.Value, noun, methodFor(verb, ep.Method))
		}
		out = append(out, Violation{
			Location: loc(ep),
			Message:  fmt.Sprintf("path segment %q starts with the verb %q", seg.Value, verb),
			Fix:      fix,
		})
	}
	return out
}

// methodFor maps a CRUD verb onto the HTTP method that expresses it.
func methodFor(verb, current string) string {
	switch verb {
	case "get", "fetch", "retrieve", "list":
		return "GET"
	case "create", "add", "insert", "save":
		return "POST"
	case "update", "set", "put":
		return "PUT"
	case "modify", "edit", "patch":
		return "PATCH"
	case "delete", "remove", "destroy", "del":
		return "DELETE"
	}
	return current
}

func checkSingularCollection(ep domain.Endpoint) []Violation {
	var out []Violation
	for i := 0; i+1 < len(ep.Segments); i++ {
		seg, next := ep.Segments[i], ep.Segments[i+1]
		if seg.Param || !next.Param || isVersionSegment(seg.Value) {
			continue
		}
		if isPluralSegment(seg.Value) {
			continue
		}
		plural := pluralize(seg.Value)
		out = append(out, Violation{
			Location: loc(ep),
			Message:  fmt.Sprintf("collection %q is singular", seg.Value),
			Fix:      fmt.Sprintf("Use the plural %q: /%s/{%s}", plural, plural, next.Value),
		})
	}
	return out
}

func checkKebabCase(ep domain.Endpoint) []Violation {
	var out []Violation
	for _, seg := range ep.Segments {
		if seg.Param || isVersionSegment(seg.Value) {
			continue
		}
		value := stripExtension(seg.Value)
		if kebabSegment.MatchString(value) {
			continue
		}
		style := classifyCasing(value)
		if style == casingNone {
			style = "mixed case"
		}
		out = append(out, Violation{
			Location: loc(ep),
			Message:  fmt.Sprintf("path segment %q uses %s", seg.Value, style),
			Fix:      fmt.Sprintf("Rename %q to %q", seg.Value, toKebab(value)),
		})
	}
	return out
}

func checkTrailingSlash(ep domain.Endpoint) []Violation {
	if ep.Path == "/" || !strings.HasSuffix(ep.Path, "/") {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "path ends with a trailing slash",
		Fix:      fmt.Sprintf("Use %s", strings.TrimRight(ep.Path, "/")),
	}}
}

func checkFileExtension(ep domain.Endpoint) []Violation {
	if len(ep.Segments) == 0 {
		return nil
	}
	last := ep.Segments[len(ep.Segments)-1]
	i := strings.LastIndex(last.Value, ".")
	if last.Param || i <= 0 {
		return nil
	}
	ext := strings.ToLower(last.Value[i+1:])
	if !knownExtensions[ext] {
		return nil
	}
	return []Violation{{
		Location: loc(ep),
		Message:  fmt.Sprintf("path encodes the representation format %q", "."+ext),
		Fix:      fmt.Sprintf("Serve %s and negotiate the format with the Accept header", strings.TrimSuffix(ep.Path, "."+last.Value[i+1:])),
	}}
}

func checkNestingDepth(ep domain.Endpoint) []Violation {
	levels := 0
	prevParam := true
	for _, seg := range ep.Segments {
		switch {
		case seg.Param:
			prevParam = true
		case isVersionSegment(seg.Value) || strings.EqualFold(seg.Value, "api"):
		default:
			if prevParam {
				levels++
			}
			prevParam = false
		}
	}
	if levels <= maxNestingLevels {
		return nil
	}
	res := resourceSegments(ep.Segments)
	leaf := res[len(res)-1].Value
	return []Violation{{
		Location: loc(ep),
		Message:  fmt.Sprintf("resources nested %d levels deep", levels),
		Fix:      fmt.Sprintf("Expose %q as a top-level collection (/%s?parent_id=...) or at most two levels deep", leaf, leaf),
	}}
}

// checkPropertyCasing looks at every property name in every schema the API
// uses and reports when more than one convention appears.
func checkPropertyCasing(api *domain.API) []Violation {
	counts := map[casing]int{}
	examples := map[casing]string{}
	for _, name := range collectPropertyNames(api) {
		c := classifyCasing(name)
		if c == casingNone {
			continue
		}
		counts[c]++
		if _, ok := examples[c]; !ok {
			examples[c] = name
		}
	}
	if len(counts) < 2 {
		return nil
	}

	styles := make([]casing, 0, len(counts))
	for c := range counts {
		styles = append(styles, c)
	}
	sort.Slice(styles, func(i, j int) bool {
		if counts[styles[i]] != counts[styles[j]] {
			return counts[styles[i]] > counts[styles[j]]
		}
		return styles[i] < styles[j]
	})

	parts := make([]string, 0, len(styles))
	for _, c := range styles {
		parts = append(parts, fmt.Sprintf("%s (%d, e.g. %q)", c, counts[c], examples[c]))
	}
	dominant := styles[0]
	return []Violation{{
		Location: domain.Location{Field: examples[styles[1]]},
		Message:  "property names mix " + strings.Join(parts, ", "),
		Fix:      fmt.Sprintf("Use %s for every property; the API mostly uses it already", dominant),
	}}
}

// collectPropertyNames walks request and response schemas and returns each
// distinct property name once, sorted.
func collectPropertyNames(api *domain.API) []string {
	seen := map[string]bool{}
	visited := map[*domain.Schema]bool{}
	var walk func(s *domain.Schema)
	walk = func(s *domain.Schema) {
		if s == nil || visited[s] {
			return
		}
		visited[s] = true
		for _, p := range s.Properties {
			seen[p.Name] = true
			walk(p.Schema)
		}
		walk(s.Items)
	}
	for _, ep := range api.Endpoints {
		walk(ep.RequestBody)
		for _, r := range ep.Responses {
			walk(r.Schema)
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
