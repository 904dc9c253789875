// Package opt provides an optional value for JSON patch bodies that keeps
// "field absent" and "field present but null" as distinct states, so partial
// updates only touch fields the caller actually sent.
package opt

import "encoding/json"

// Value holds a JSON field that may be absent, null, or set to a T.
// The zero Value is "absent".
type Value[T any] struct {
	value   T
	present bool
	null    bool
}

// Of returns a present, non-null Value.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, present: true}
}

// Null returns a present Value carrying JSON null.
func Null[T any]() Value[T] {
	return Value[T]{present: true, null: true}
}

// IsSet reports whether the field appeared in the JSON document at all.
func (v Value[T]) IsSet() bool { return v.present }

// IsNull reports whether the field was present and explicitly null.
func (v Value[T]) IsNull() bool { return v.present && v.null }

// Get returns the carried value and whether it is usable
// (present and not null).
func (v Value[T]) Get() (T, bool) {
	return v.value, v.present && !v.null
}

func (v *Value[T]) UnmarshalJSON(b []byte) error {
	v.present = true
	if string(b) == "null" {
		v.null = true
		return nil
	}
	return json.Unmarshal(b, &v.value)
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.present || v.null {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
