package config

import (
	"github.com/xeipuuv/gojsonschema"
)

// datasourceSchema mirrors the DatasourceConfig shape for host-facing
// validation, where failures must come back as a message set instead of
// a single error.
const datasourceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["url"],
  "properties": {
    "url": {"type": "string", "minLength": 1},
    "body": {"type": "string"},
    "headers": {"$ref": "#/definitions/properties"},
    "params": {"$ref": "#/definitions/properties"},
    "bodyFormData": {"$ref": "#/definitions/properties"},
    "forwardCookies": {"type": "array", "items": {"type": "string"}},
    "forwardAllCookies": {"type": "boolean"},
    "authConfig": {
      "type": "object",
      "properties": {
        "type": {
          "type": "string",
          "enum": ["", "BASIC_AUTH", "DIGEST_AUTH", "OAUTH2_INHERIT_FROM_LOGIN"]
        },
        "username": {"type": "string"},
        "password": {"type": "string"}
      }
    }
  },
  "definitions": {
    "properties": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key"],
        "properties": {
          "key": {"type": "string"},
          "value": {"type": "string"},
          "type": {"type": "string", "enum": ["param", "header", "bodyForm"]}
        }
      }
    }
  }
}`

// ValidateDatasourceConfig checks a raw datasource configuration map
// against the embedded schema and returns one message per violation. An
// empty slice means the configuration is acceptable.
func ValidateDatasourceConfig(raw map[string]any) ([]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(datasourceSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}
	return messages, nil
}
