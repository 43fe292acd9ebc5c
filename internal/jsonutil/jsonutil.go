// Package jsonutil provides type-safe JSON utilities with standardized error handling.
package jsonutil

import (
	"encoding/json"
	"io"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
)

// MarshalJSON marshals any type to JSON with standardized error handling.
func MarshalJSON[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "marshal to JSON")
	}
	return data, nil
}

// UnmarshalJSON unmarshals JSON data to any type with standardized error handling.
func UnmarshalJSON[T any](data []byte) (T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return result, appErrors.WrapWithContext(err, "unmarshal JSON")
	}
	return result, nil
}

// EncodeIndented writes v to w as a single indented JSON document followed by a newline.
// HTML escaping is disabled so paths and patterns print verbatim.
func EncodeIndented(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return appErrors.WrapWithContext(err, "encode JSON")
	}
	return nil
}
