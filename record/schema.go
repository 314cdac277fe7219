package record

import "github.com/xeipuuv/gojsonschema"

// recordSchemaJSON describes the minimum shape a file must have to count as a
// game record. Files that fail this check are skipped during listing (they
// are corrupt or foreign, not errors), matching best-effort enumeration.
const recordSchemaJSON = `{
  "type": "object",
  "required": ["game_id", "player_names", "rounds"],
  "properties": {
    "game_id": {"type": "string"},
    "player_names": {"type": "array", "items": {"type": "string"}},
    "winner": {"type": ["string", "null"]},
    "rounds": {"type": "array"}
  }
}`

var recordSchema = gojsonschema.NewStringLoader(recordSchemaJSON)

// validRecordShape reports whether raw parses as JSON and matches the record
// shape. Validation errors are deliberately discarded; the caller only needs
// a keep/skip decision.
func validRecordShape(raw []byte) bool {
	result, err := gojsonschema.Validate(recordSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return false
	}
	return result.Valid()
}
