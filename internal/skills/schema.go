package skills

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ledgerSchema describes the version 2 document. Validation runs before
// the ledger is trusted so a hand-edited file fails loudly at load time
// instead of corrupting progress later.
const ledgerSchema = `{
  "type": "object",
  "required": ["version", "skills"],
  "properties": {
    "version": {"type": "integer", "minimum": 2},
    "skills": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["name", "level", "category"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "level": {"type": "integer", "minimum": 0, "maximum": 100},
          "maxLevel": {"type": "integer"},
          "category": {"type": "string"},
          "milestones": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "required": ["title"],
              "properties": {
                "title": {"type": "string"},
                "resource": {"type": "string"}
              }
            }
          },
          "completedMilestones": {
            "type": "array",
            "items": {"type": "integer"}
          }
        }
      }
    }
  }
}`

var compiledSchema = gojsonschema.NewStringLoader(ledgerSchema)

func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid ledger document:\n- %s", strings.Join(msgs, "\n- "))
}
