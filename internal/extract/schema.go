package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildPageJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It constrains the JSON object the hosted model must return for
// one page and is also used locally to validate the reply before coercion.
func BuildPageJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"item_name":     map[string]any{"type": "string", "minLength": 1},
			"item_quantity": map[string]any{"type": "number", "minimum": 0.0},
			"item_rate":     map[string]any{"type": "number", "minimum": 0.0},
			"item_amount":   map[string]any{"type": "number", "minimum": 0.0},
		},
		"required": []string{"item_name", "item_quantity", "item_rate", "item_amount"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"page_type": map[string]any{
				"type": "string",
				"enum": []string{"Bill Detail", "Final Bill", "Pharmacy", "Unknown"},
			},
			"bill_items": map[string]any{"type": "array", "items": item},
		},
		"required": []string{"page_type", "bill_items"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
