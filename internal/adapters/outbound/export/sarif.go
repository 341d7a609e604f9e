package export

import (
	"encoding/json"
	"fmt"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/rules"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	toolName     = "apigrade"
	toolInfoURI  = "https://github.com/openkraft/apigrade"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	FullDescription      sarifMessage       `json:"fullDescription"`
	Help                 sarifMessage       `json:"help"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
	Properties           sarifRuleProps     `json:"properties"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifRuleProps struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation  `json:"physicalLocation"`
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifLogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

// SARIF builds a SARIF 2.1.0 log with one run covering every report. Only
// rules that produced a finding are listed in the driver. Findings from
// rules missing in catalog, such as custom rules of a nested project
// config, get a descriptor built from the finding itself.
func SARIF(reports []*domain.Report, catalog *rules.Catalog, version string) ([]byte, error) {
	driverRules := []sarifRule{}
	ruleIndex := map[string]int{}
	results := []sarifResult{}

	for _, r := range reports {
		for _, f := range r.Findings {
			idx, ok := ruleIndex[f.RuleID]
			if !ok {
				rule, found := catalog.Lookup(f.RuleID)
				if !found {
					rule = rules.Rule{
						ID:       f.RuleID,
						Category: f.Category,
						Severity: f.Severity,
						Title:    f.RuleID,
						Fix:      f.Fix,
					}
				}
				idx = len(driverRules)
				ruleIndex[f.RuleID] = idx
				driverRules = append(driverRules, toSARIFRule(rule))
			}
			results = append(results, sarifResult{
				RuleID:    f.RuleID,
				RuleIndex: idx,
				Level:     sarifLevel(f.Severity),
				Message:   sarifMessage{Text: f.Message},
				Locations: []sarifLocation{toSARIFLocation(r.Source, f.Location)},
			})
		}
	}
	log := sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           toolName,
						Version:        version,
						InformationURI: toolInfoURI,
						Rules:          driverRules,
					},
				},
				Results: results,
			},
		},
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sarif: %w", err)
	}
	return data, nil
}

func toSARIFRule(r rules.Rule) sarifRule {
	help := r.Fix
	if r.Good != "" {
		help += "\n\nExample:\n" + r.Good
	}
	return sarifRule{
		ID:               r.ID,
		Name:             r.Title,
		ShortDescription: sarifMessage{Text: r.Title},
		FullDescription:  sarifMessage{Text: r.Rationale},
		Help:             sarifMessage{Text: help},
		DefaultConfiguration: sarifConfiguration{
			Level: sarifLevel(r.Severity),
		},
		Properties: sarifRuleProps{
			Category: string(r.Category),
			Tags:     []string{"api-design", string(r.Category)},
		},
	}
}

func toSARIFLocation(source string, loc domain.Location) sarifLocation {
	out := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: source},
		},
	}
	if loc.Method != "" || loc.Path != "" || loc.Field != "" {
		out.LogicalLocations = []sarifLogicalLocation{{
			FullyQualifiedName: loc.String(),
			Kind:               "member",
		}}
	}
	return out
}

func sarifLevel(sev domain.Severity) string {
	switch sev {
	case domain.SeverityCritical:
		return "error"
	case domain.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
