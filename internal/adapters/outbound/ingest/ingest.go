// Package ingest parses OpenAPI 3.x, Swagger 2.0 and flat endpoint lists
// into the normalized domain.API.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/apigrade/internal/domain"
)

// ErrUnknownFormat is returned when input is neither an OpenAPI/Swagger
// document nor an endpoint list.
var ErrUnknownFormat = errors.New("unrecognized API description format")

// Ingestor implements domain.SpecIngestor.
type Ingestor struct{}

func New() *Ingestor {
	return &Ingestor{}
}

// IngestFile reads and parses the file at path. The path becomes the
// API's source name.
func (i *Ingestor) IngestFile(path string) (*domain.API, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return i.Ingest(path, data)
}

// Ingest detects the format of data and parses it.
func (i *Ingestor) Ingest(source string, data []byte) (*domain.API, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s: empty input: %w", source, ErrUnknownFormat)
	}

	doc, isDoc, err := decodeDocument(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if isDoc {
		api, err := convert(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		api.Source = source
		sortEndpoints(api.Endpoints)
		return api, nil
	}

	api, err := parseEndpointList(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	api.Source = source
	sortEndpoints(api.Endpoints)
	return api, nil
}

// versionProbe is decoded first to tell documents from endpoint lists.
type versionProbe struct {
	OpenAPI any `yaml:"openapi" json:"openapi"`
	Swagger any `yaml:"swagger" json:"swagger"`
}

// versionKey finds a top-level openapi or swagger key in YAML or JSON text.
var versionKey = regexp.MustCompile(`(?m)^["']?(openapi|swagger)["']?\s*:`)

// decodeDocument returns isDoc=false for input that does not declare an
// openapi or swagger version. JSON goes through encoding/json, everything
// else through yaml.v3.
func decodeDocument(data []byte) (*document, bool, error) {
	unmarshal := yaml.Unmarshal
	if data[0] == '{' {
		unmarshal = json.Unmarshal
	}

	var probe versionProbe
	if err := unmarshal(data, &probe); err != nil {
		// A JSON object or a document with a top-level version key is never
		// an endpoint list; report the decoder error.
		if data[0] == '{' || versionKey.Match(data) {
			return nil, true, fmt.Errorf("parsing OpenAPI document: %w", err)
		}
		return nil, false, nil
	}
	if probe.OpenAPI == nil && probe.Swagger == nil {
		return nil, false, nil
	}

	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, true, fmt.Errorf("parsing OpenAPI document: %w", err)
	}
	if doc.OpenAPI == "" && doc.Swagger == "" {
		return nil, true, fmt.Errorf("parsing OpenAPI document: empty version")
	}
	return &doc, true, nil
}

func sortEndpoints(eps []domain.Endpoint) {
	sort.SliceStable(eps, func(i, j int) bool {
		if eps[i].Path != eps[j].Path {
			return eps[i].Path < eps[j].Path
		}
		return domain.MethodRank(eps[i].Method) < domain.MethodRank(eps[j].Method)
	})
}
