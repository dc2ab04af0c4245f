package domain

import (
	"encoding/json"
	"fmt"
)

// immutableFields are never overwritten by a patch.
var immutableFields = map[string]struct{}{
	"id":        {},
	"createdAt": {},
}

// ApplyPatch shallow-merges fields onto current using the JSON field names of
// T. Top-level keys replace the existing value wholesale; nested objects and
// arrays are not merged. The id and createdAt fields are left untouched.
func ApplyPatch[T any](current T, fields map[string]any) (T, error) {
	var zero T
	if len(fields) == 0 {
		return current, nil
	}
	raw, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("encode record: %w", err)
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}
	for key, value := range fields {
		if _, ok := immutableFields[key]; ok {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return zero, fmt.Errorf("encode field %q: %w", key, err)
		}
		merged[key] = encoded
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return zero, fmt.Errorf("encode merged record: %w", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("apply patch: %w", err)
	}
	return out, nil
}
