package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state update field: absent from the input, explicitly
// null, or set to a value. Association-clearing semantics depend on the
// distinction, so sparse-map key checks are replaced with this type.
type Optional[T any] struct {
	present bool
	valid   bool
	value   T
}

// Set builds a present, non-null Optional.
func Set[T any](v T) Optional[T] {
	return Optional[T]{present: true, valid: true, value: v}
}

// Null builds a present but explicitly-null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true}
}

// Present reports whether the field appeared in the input at all.
func (o Optional[T]) Present() bool { return o.present }

// IsNull reports an explicit null (present but no value).
func (o Optional[T]) IsNull() bool { return o.present && !o.valid }

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present && o.valid
}

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what makes the absent/null distinction work with encoding/json.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}

// MarshalJSON renders null for absent or null states.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present || !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
