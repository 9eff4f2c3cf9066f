package acp

import "encoding/json"

// Optional is the three-state field used throughout partial-update
// payloads: a field can be undefined (omitted on the wire entirely), null
// (present as JSON null, meaning "clear"), or set to a value (present as
// the value's own encoding, meaning "set to this").
//
// Go's encoding/json cannot tell a field's own UnmarshalJSON whether its
// key was present in the source object at all, so Optional is never
// decoded by letting json.Unmarshal walk into an Optional-typed struct
// field directly. Instead, the owning struct's UnmarshalJSON first
// decodes into a map[string]json.RawMessage and calls decodeOptional per
// field, using key presence in that map as the presence signal.
type Optional[T any] struct {
	defined bool
	null    bool
	value   T
}

// Undefined returns the undefined state of Optional[T].
func Undefined[T any]() Optional[T] {
	return Optional[T]{}
}

// Null returns the null state of Optional[T].
func Null[T any]() Optional[T] {
	return Optional[T]{defined: true, null: true}
}

// Value returns the value(v) state of Optional[T].
func Value[T any](v T) Optional[T] {
	return Optional[T]{defined: true, value: v}
}

// IsUndefined reports whether the field was absent from the wire.
func (o Optional[T]) IsUndefined() bool { return !o.defined }

// IsNull reports whether the field was present and explicitly null.
func (o Optional[T]) IsNull() bool { return o.defined && o.null }

// IsValue reports whether the field was present with a concrete value.
func (o Optional[T]) IsValue() bool { return o.defined && !o.null }

// Get returns the carried value and whether the state is value(v).
func (o Optional[T]) Get() (T, bool) {
	if o.IsValue() {
		return o.value, true
	}
	var zero T
	return zero, false
}

// encode returns (raw, present): present is false for undefined (omit the
// key entirely), true with raw == "null" for null, true with the value's
// encoding otherwise.
func (o Optional[T]) encode() (json.RawMessage, bool, error) {
	if o.IsUndefined() {
		return nil, false, nil
	}
	if o.IsNull() {
		return json.RawMessage("null"), true, nil
	}
	raw, err := json.Marshal(o.value)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// decodeOptional reads key out of fields (a decoded object's raw member
// map) into an Optional[T], distinguishing absence from a null literal.
func decodeOptional[T any](fields map[string]json.RawMessage, key string) (Optional[T], error) {
	raw, present := fields[key]
	if !present {
		return Undefined[T](), nil
	}
	if string(raw) == "null" {
		return Null[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return Optional[T]{}, err
	}
	return Value(v), nil
}

// setOptional writes o into fields under key, omitting the key when o is
// undefined. Used by encoders building an object field-by-field.
func setOptional[T any](fields map[string]any, key string, o Optional[T]) error {
	raw, present, err := o.encode()
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	fields[key] = json.RawMessage(raw)
	return nil
}
