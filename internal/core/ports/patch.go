package ports

import (
	"bytes"
	"encoding/json"
)

// Patch is a tri-state field for partial updates: absent, present-null, or
// present with a value. Absent fields never reach UnmarshalJSON.
type Patch[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set returns a Patch holding v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{Present: true, Value: v}
}

// Get returns the value and whether it should be applied. A present null is
// not applied, so fields can be replaced but never cleared.
func (p Patch[T]) Get() (T, bool) {
	return p.Value, p.Present && !p.Null
}

func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		p.Null = true
		var zero T
		p.Value = zero
		return nil
	}
	p.Null = false
	return json.Unmarshal(b, &p.Value)
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Present || p.Null {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}
