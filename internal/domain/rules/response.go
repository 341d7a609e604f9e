package rules

import (
	"fmt"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

// paginationParams are query parameter names that signal paging support.
var paginationParams = map[string]bool{
	"page": true, "per_page": true, "perpage": true, "page_size": true, "pagesize": true,
	"size": true, "limit": true, "offset": true, "cursor": true, "after": true,
	"before": true, "page_token": true, "pagetoken": true, "starting_after": true,
	"ending_before": true, "next": true, "skip": true, "take": true, "top": true,
}

// envelopeListKeys hold the items of a wrapped list response.
var envelopeListKeys = []string{"data", "items", "results", "records", "content", "entries"}

// envelopeMetaKeys carry pagination state next to the items.
var envelopeMetaKeys = []string{
	"pagination", "meta", "links", "page", "page_info", "pageInfo", "paging",
	"next", "next_cursor", "nextCursor", "cursor", "total", "total_count", "totalCount", "has_more", "hasMore",
}

func isPaginationParam(name string) bool {
	return paginationParams[strings.ToLower(strings.TrimPrefix(name, "$"))]
}

// listResponse returns the first 2xx schema of a collection GET.
func listResponse(ep domain.Endpoint) *domain.Schema {
	for _, r := range ep.SuccessResponses() {
		if r.Schema != nil {
			return r.Schema
		}
	}
	return nil
}

// isListLike reports whether a schema is an array or wraps one.
func isListLike(s *domain.Schema) bool {
	if s == nil {
		return false
	}
	if s.Type == "array" {
		return true
	}
	for _, p := range s.Properties {
		if p.Schema != nil && p.Schema.Type == "array" {
			return true
		}
	}
	return false
}

func isListEndpoint(ep domain.Endpoint) bool {
	return ep.Method == "GET" && ep.Detailed && isPluralCollection(ep)
}

func checkMissingPagination(ep domain.Endpoint) []Violation {
	if !isListEndpoint(ep) {
		return nil
	}
	if s := listResponse(ep); s != nil && !isListLike(s) {
		return nil
	}
	for _, p := range ep.QueryParams() {
		if isPaginationParam(p.Name) {
			return nil
		}
	}
	return []Violation{{
		Location: loc(ep),
		Message:  "collection endpoint has no pagination parameters",
		Fix:      "Accept limit and cursor (or page and per_page) query parameters and cap the page size",
	}}
}

func checkTopLevelArray(ep domain.Endpoint) []Violation {
	for _, r := range ep.SuccessResponses() {
		if r.Schema == nil || r.Schema.Type != "array" {
			continue
		}
		return []Violation{{
			Location: domain.Location{Method: ep.Method, Path: ep.Path, Field: "responses." + r.Status},
			Message:  fmt.Sprintf("%s response body is a bare JSON array", r.Status),
			Fix:      `Wrap the list in an object: {"data": [...], "pagination": {...}} so metadata can be added later`,
		}}
	}
	return nil
}

func checkListEnvelope(ep domain.Endpoint) []Violation {
	if !isListEndpoint(ep) {
		return nil
	}
	s := listResponse(ep)
	if s == nil || s.Type == "array" || !isListLike(s) {
		return nil
	}
	for _, key := range envelopeMetaKeys {
		if s.Property(key) != nil {
			return nil
		}
	}
	listKey := ""
	for _, key := range envelopeListKeys {
		if s.Property(key) != nil {
			listKey = key
			break
		}
	}
	msg := "list response carries no pagination metadata"
	if listKey == "" {
		msg = "list response wraps items under a non-standard key and carries no pagination metadata"
	}
	return []Violation{{
		Location: domain.Location{Method: ep.Method, Path: ep.Path, Field: "responses"},
		Message:  msg,
		Fix:      `Return {"data": [...], "pagination": {"next_cursor": "...", "has_more": true}}`,
	}}
}
