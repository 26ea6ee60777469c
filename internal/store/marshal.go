package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/masa/internal/ir"
)

// marshalParams converts a parameter snapshot to canonical JSON TEXT.
func marshalParams(params map[string]float64) (string, error) {
	if params == nil {
		params = map[string]float64{}
	}
	data, err := ir.MarshalCanonical(params)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// unmarshalParams parses a stored snapshot. Canonical JSON is plain JSON,
// so the standard decoder reads it back.
func unmarshalParams(s string) (map[string]float64, error) {
	params := map[string]float64{}
	if err := json.Unmarshal([]byte(s), &params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	return params, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
