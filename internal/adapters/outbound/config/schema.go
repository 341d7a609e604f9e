package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/openkraft/apigrade/internal/domain"
)

// Schema returns the JSON schema of .apigrade.yaml, for editor integration.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := reflector.Reflect(&domain.ProjectConfig{})
	s.Title = "apigrade project configuration"
	s.Description = "Configuration read from " + FileName + " next to an API description."

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	return data, nil
}
