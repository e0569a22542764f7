// file: internal/models/json.go
// version: 1.0.0
// guid: 74107464-aad8-44ca-a28a-f123fc75a4bf

package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONObject is a free-form JSON object stored as TEXT. A nil map is NULL.
type JSONObject map[string]any

// Value implements driver.Valuer.
func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	data, err := json.Marshal(map[string]any(j))
	if err != nil {
		return nil, fmt.Errorf("failed to encode json object: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (j *JSONObject) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*j = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported json object source %T", src)
	}
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		*j = nil
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to decode json object: %w", err)
	}
	*j = m
	return nil
}

// Optional distinguishes an absent JSON field from an explicit null.
// Set is true whenever the field appeared in the payload; Value is nil for null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Deref returns the held value or the zero value of T.
func (o Optional[T]) Deref() T {
	var zero T
	if o.Value == nil {
		return zero
	}
	return *o.Value
}

// UnmarshalJSON marks the field as set. encoding/json calls this for null too.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON renders null for unset or null values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
