package types

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that remembers whether it was present in the
// request body and whether it was an explicit null. Use it in partial
// update payloads where "omitted" and "set to empty" mean different things.
//
//	{}                     -> Set=false
//	{"field": null}        -> Set=true, Null=true
//	{"field": ""}          -> Set=true, Null=false, Value=""
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that is present and explicitly null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// which is what lets Set tell omitted apart from provided.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON renders absent and null values as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// HasValue reports whether a non-null value was provided.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr converts a present Optional into a pointer: nil for explicit null.
// Callers must check Set first.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
