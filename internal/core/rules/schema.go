package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// rulesSchema validates a rules file before any rule compiles. A rule
// carries exactly one matcher: keywords or pattern, never both.
const rulesSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"title": "curator rules file",
	"type": "object",
	"required": ["rules"],
	"additionalProperties": false,
	"properties": {
		"rules": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name", "priority", "target"],
				"additionalProperties": false,
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"priority": {"type": "integer", "minimum": 0, "maximum": 1000},
					"target": {"type": "string", "minLength": 1},
					"keywords": {
						"type": "array",
						"minItems": 1,
						"items": {"type": "string", "minLength": 1}
					},
					"pattern": {"type": "string", "minLength": 1},
					"whole_word": {"type": "boolean"},
					"brand_subfolder": {"type": "boolean"},
					"description": {"type": "string"},
					"subfolders": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["segment", "keywords"],
							"additionalProperties": false,
							"properties": {
								"segment": {"type": "string", "minLength": 1},
								"keywords": {
									"type": "array",
									"minItems": 1,
									"items": {"type": "string", "minLength": 1}
								},
								"exclude": {
									"type": "array",
									"items": {"type": "string", "minLength": 1}
								},
								"whole_word": {"type": "boolean"}
							}
						}
					}
				},
				"oneOf": [
					{"required": ["keywords"], "not": {"required": ["pattern"]}},
					{"required": ["pattern"], "not": {"required": ["keywords"]}}
				]
			}
		}
	}
}`

// validateSchema checks a raw YAML rules document against rulesSchema.
// YAML is decoded and round-tripped through JSON so the validator sees
// plain JSON values.
func validateSchema(rawYAML []byte) error {
	var node any
	if err := yaml.Unmarshal(rawYAML, &node); err != nil {
		return fmt.Errorf("failed to parse rules file: %w", err)
	}

	jsonBytes, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to encode rules file for validation: %w", err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonBytes))
	if err != nil {
		return fmt.Errorf("failed to decode rules file for validation: %w", err)
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(rulesSchema))
	if err != nil {
		return fmt.Errorf("failed to parse rules schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("failed to register rules schema: %w", err)
	}
	schema, err := compiler.Compile("rules.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile rules schema: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("rules file is invalid: %w", err)
	}
	return nil
}
