/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package syncdata

import (
	"fmt"
	"sort"
	"strings"
)

// Schema maps a field name to its expected type name: "string", "number", "boolean", "object" or "array".
// A trailing "?" marks the field as optional.
type Schema map[string]string

// ValidateDataStructure checks the top-level fields of data against schema and
// returns human-readable violations in field name order. An empty result means data is valid.
//
// A field is missing when it is absent or null. Missing optional fields are not type-checked.
// Non-object data has no fields, so every required field is reported missing.
func ValidateDataStructure(data Value, schema Schema) []string {
	obj, _ := data.(Object)

	fields := make([]string, 0, len(schema))
	for field := range schema {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var violations []string
	for _, field := range fields {
		typeTag := schema[field]
		optional := strings.HasSuffix(typeTag, "?")
		baseType := strings.TrimSuffix(typeTag, "?")

		val, ok := obj[field]
		if !ok || IsNull(val) {
			if !optional {
				violations = append(violations, "Missing required field: "+field)
			}
			continue
		}
		if actual := TypeName(val); actual != baseType {
			violations = append(violations,
				fmt.Sprintf("Invalid type for field %s: expected %s, got %s", field, baseType, actual))
		}
	}
	return violations
}
