package rules

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

// endpointVersion returns the first version segment of a path, or "".
func endpointVersion(ep domain.Endpoint) string {
	for _, seg := range ep.Segments {
		if !seg.Param && isVersionSegment(seg.Value) {
			return strings.ToLower(seg.Value)
		}
	}
	return ""
}

// serverVersioned reports whether any server URL path carries a version.
func serverVersioned(api *domain.API) bool {
	for _, s := range api.Servers {
		u, err := url.Parse(s)
		if err != nil {
			continue
		}
		for _, part := range strings.Split(u.Path, "/") {
			if isVersionSegment(part) {
				return true
			}
		}
	}
	return false
}

func checkNoVersioning(api *domain.API) []Violation {
	if len(api.Endpoints) == 0 || serverVersioned(api) {
		return nil
	}
	for _, ep := range api.Endpoints {
		if endpointVersion(ep) != "" {
			return nil
		}
	}
	return []Violation{{
		Message: "no endpoint or server URL carries a version",
		Fix:     "Prefix paths with a major version (/v1/...) so breaking changes can ship as /v2",
	}}
}

func checkMixedVersioning(api *domain.API) []Violation {
	if serverVersioned(api) {
		return nil
	}
	var versioned, unversioned []domain.Endpoint
	for _, ep := range api.Endpoints {
		if endpointVersion(ep) == "" {
			unversioned = append(unversioned, ep)
		} else {
			versioned = append(versioned, ep)
		}
	}
	if len(versioned) == 0 || len(unversioned) == 0 {
		return nil
	}
	first := unversioned[0]
	msg := fmt.Sprintf("%d endpoints are versioned but %d are not (e.g. %s)", len(versioned), len(unversioned), first.Key())
	return []Violation{{
		Location: loc(first),
		Message:  msg,
		Fix:      fmt.Sprintf("Move unversioned endpoints under /%s", endpointVersion(versioned[0])),
	}}
}
