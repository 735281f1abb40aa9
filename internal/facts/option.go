package facts

import (
	"bytes"
	"encoding/json"
)

// Option holds a slot value that is either unset or set exactly once.
// The zero value is unset.
type Option[T any] struct {
	value T
	set   bool
}

// Some returns a set Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, set: true}
}

// Get returns the value and whether it is set.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was recorded.
func (o Option[T]) IsSet() bool {
	return o.set
}

// SetIfAbsent records v only when nothing was recorded before.
// It reports whether v was stored.
func (o *Option[T]) SetIfAbsent(v T) bool {
	if o.set {
		return false
	}
	o.value = v
	o.set = true
	return true
}

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Option[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
