package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// settingsSchema validates the shape of the settings file before it is
// unmarshalled, so a typo surfaces as a creation-time error instead of a
// silently ignored key. Toggle spellings are checked by ParseToggle after
// unmarshalling, the same way the environment variable is.
const settingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "toggle": {
      "type": "string"
    },
    "flush_tick_secs": {
      "type": "number",
      "minimum": 0
    },
    "flush_num_bytes": {
      "type": "integer",
      "minimum": 0
    },
    "flush_num_rows": {
      "type": "integer",
      "minimum": 0
    },
    "log_level": {
      "type": "string",
      "enum": ["debug", "info", "warn", "error"]
    }
  }
}`

// ValidateSettingsJSON validates raw settings file contents against the
// settings schema.
func ValidateSettingsJSON(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(settingsSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("settings do not match schema: %s", strings.Join(problems, "; "))
	}

	return nil
}
