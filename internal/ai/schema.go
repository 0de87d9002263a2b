package ai

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// replySchema only checks shape. Unknown enum values are tolerated here and
// dropped when the reply is merged.
const replySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "core_technical_skills":        {"$ref": "#/definitions/terms"},
    "supporting_technical_skills":  {"$ref": "#/definitions/terms"},
    "generic_role_terms":           {"$ref": "#/definitions/terms"},
    "additional_technical_skills":  {"$ref": "#/definitions/terms"},
    "additional_behavioral_skills": {"$ref": "#/definitions/terms"},
    "seniority":                    {"type": ["string", "null"]},
    "role_type":                    {"type": ["string", "null"]},
    "keyword_importance": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"}
    }
  },
  "definitions": {
    "terms": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    }
  }
}`

var compiledSchema = mustCompileSchema(replySchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile reply schema: %v", err))
	}
	return s
}

// validateReply checks the cleaned reply against the reply schema.
func validateReply(cleaned string) error {
	result, err := compiledSchema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return fmt.Errorf("%w: %s", ErrMalformedReply, strings.Join(problems, "; "))
}
