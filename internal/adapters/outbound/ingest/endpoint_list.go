package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

var httpMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true,
	"PATCH": true, "DELETE": true, "OPTIONS": true, "TRACE": true,
}

var statusToken = regexp.MustCompile(`^([1-5][0-9][0-9]|[1-5]XX|default)$`)

// parseEndpointList reads one `METHOD /path [status ...]` per line. Blank
// lines and `#` comments are skipped; markdown list bullets are tolerated.
// Input whose first meaningful line is not an endpoint is ErrUnknownFormat.
func parseEndpointList(data []byte) (*domain.API, error) {
	api := &domain.API{Format: domain.FormatEndpointList, Endpoints: []domain.Endpoint{}}
	index := map[string]int{}

	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-*"))

		ep, err := parseEndpointLine(line)
		if err != nil {
			if len(index) == 0 {
				return nil, ErrUnknownFormat
			}
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if i, ok := index[ep.Key()]; ok {
			api.Endpoints[i].Responses = mergeStatuses(api.Endpoints[i].Responses, ep.Responses)
			continue
		}
		index[ep.Key()] = len(api.Endpoints)
		api.Endpoints = append(api.Endpoints, ep)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading endpoint list: %w", err)
	}
	if len(api.Endpoints) == 0 {
		return nil, ErrUnknownFormat
	}
	return api, nil
}

func parseEndpointLine(line string) (domain.Endpoint, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return domain.Endpoint{}, fmt.Errorf("expected METHOD /path, got %q", line)
	}
	method := strings.ToUpper(fields[0])
	if !httpMethods[method] {
		return domain.Endpoint{}, fmt.Errorf("unknown HTTP method %q", fields[0])
	}
	path := fields[1]
	if !strings.HasPrefix(path, "/") {
		return domain.Endpoint{}, fmt.Errorf("path %q must start with /", path)
	}

	ep := domain.Endpoint{
		Path:     path,
		Method:   method,
		Segments: domain.ParsePath(path),
	}
	for _, tok := range fields[2:] {
		status := strings.ToUpper(tok)
		if tok == "default" {
			status = tok
		}
		if !statusToken.MatchString(status) {
			return domain.Endpoint{}, fmt.Errorf("invalid status code %q", tok)
		}
		ep.Responses = mergeStatuses(ep.Responses, []domain.Response{{Status: status}})
	}
	return ep, nil
}

func mergeStatuses(have, add []domain.Response) []domain.Response {
	for _, r := range add {
		dup := false
		for _, h := range have {
			if h.Status == r.Status {
				dup = true
				break
			}
		}
		if !dup {
			have = append(have, r)
		}
	}
	return have
}
