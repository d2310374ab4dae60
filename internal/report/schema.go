package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildResultSchema returns the JSON-Schema (draft 2020-12 subset) for the
// persisted artifact as a generic map. It pins the output contract: nullable
// singletons, required numeric fields, no unknown keys.
func BuildResultSchema() map[string]any {
	mismatchArray := func(idKey string) map[string]any {
		return map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					idKey:            map[string]any{"type": "string"},
					"expected_total": map[string]any{"type": "number"},
					"actual_total":   map[string]any{"type": "number"},
				},
				"required": []any{idKey, "expected_total", "actual_total"},
			},
		}
	}
	priceReport := func(idKey string) map[string]any {
		return map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"price_mismatches":      mismatchArray(idKey),
				"total_inconsistencies": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"price_mismatches", "total_inconsistencies"},
		}
	}
	stringArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_number": map[string]any{"type": []any{"string", "null"}},
			"supplier_info": map[string]any{
				"type": []any{"object", "null"},
				"additionalProperties": false,
				"properties": map[string]any{
					"name":    map[string]any{"type": "string"},
					"address": map[string]any{"type": "string"},
				},
				"required": []any{"name", "address"},
			},
			"po_numbers": stringArray,
			"products": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"product_code": map[string]any{"type": "string"},
						"description":  map[string]any{"type": "string"},
						"quantity":     map[string]any{"type": "integer", "minimum": 0},
						"unit_price":   map[string]any{"type": "number", "minimum": 0},
						"total_price":  map[string]any{"type": "number", "minimum": 0},
						"po_number":    map[string]any{"type": "string"},
					},
					"required": []any{"product_code", "quantity", "unit_price", "total_price"},
				},
			},
			"services": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"service_name":  map[string]any{"type": "string"},
						"hours":         map[string]any{"type": "integer", "minimum": 0},
						"rate_per_hour": map[string]any{"type": "number", "minimum": 0},
						"amount":        map[string]any{"type": "number", "minimum": 0},
					},
					"required": []any{"service_name", "hours", "rate_per_hour", "amount"},
				},
			},
			"consistency_report": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"product_inconsistencies": priceReport("product_code"),
					"service_inconsistencies": priceReport("service_name"),
					"po_inconsistencies": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"properties": map[string]any{
							"missing_in_extracted":  stringArray,
							"unused_in_products":    stringArray,
							"total_inconsistencies": map[string]any{"type": "integer", "minimum": 0},
						},
						"required": []any{"missing_in_extracted", "unused_in_products", "total_inconsistencies"},
					},
				},
				"required": []any{"product_inconsistencies", "service_inconsistencies", "po_inconsistencies"},
			},
		},
		"required": []any{"invoice_number", "supplier_info", "po_numbers", "products", "services", "consistency_report"},
	}
}

// ValidateResult validates a marshaled result against BuildResultSchema.
func ValidateResult(data []byte) error {
	b, err := json.Marshal(BuildResultSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("result.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}
