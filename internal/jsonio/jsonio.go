// Package jsonio centralizes JSON decode/encode for the rest of the
// module behind github.com/json-iterator/go, so every package that needs
// to turn bytes into a dynamic JSON tree ("map[string]any"/"[]any", never
// a generated typed model, per the spec's design notes) goes through one
// place.
package jsonio

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// json is configured to match encoding/json's behavior (map key ordering
// on decode, number handling, etc.) so callers see the same dynamic tree
// they would from the standard library, just decoded faster.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidJSON wraps any decode failure, matching the InvalidJson error
// kind from spec §7.
var ErrInvalidJSON = fmt.Errorf("invalid json")

// DecodeValue parses data into a dynamic JSON tree: object -> map[string]any,
// array -> []any, number -> float64, matching encoding/json's default
// unmarshal-into-any behavior.
func DecodeValue(data []byte) (any, error) {
	var v any

	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return v, nil
}

// DecodeObject parses data into a root JSON object. Returns ErrInvalidJSON
// if data does not decode to a JSON object.
func DecodeObject(data []byte) (map[string]any, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root value is not a JSON object", ErrInvalidJSON)
	}

	return obj, nil
}

// Marshal encodes v back to JSON, used by the schema evaluator and CLI
// output paths that need canonical byte output.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v) //nolint:wrapcheck
}
