package types

import (
	"bytes"
	"encoding/json"
)

// Optional carries a PATCH-style field that may be missing from the
// request, present as JSON null, or present with a value.
//
// encoding/json only calls UnmarshalJSON for keys that appear in the body,
// so the zero Optional means "the client did not send this field":
//
//	{}                   → Set=false
//	{"completed": null}  → Set=true, Null=true
//	{"completed": false} → Set=true, Null=false, Value=false
//
// A plain pointer cannot tell the first two cases apart, and a plain bool
// cannot tell the first and third apart.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns an Optional that was sent as an explicit JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present reports whether the field was sent with a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}
