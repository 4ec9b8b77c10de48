package domain

import "unique"

// ResourceKey identifies a loadable unit, typically a resource path.
// It wraps a unique.Handle[string] so that keys compare by handle and repeated
// paths share one allocation.
type ResourceKey struct {
	h unique.Handle[string]
}

// NewResourceKey creates a ResourceKey from a path string.
// An empty string yields the zero key.
func NewResourceKey(s string) ResourceKey {
	if s == "" {
		return ResourceKey{}
	}
	return ResourceKey{
		h: unique.Make(s),
	}
}

// NewResourceKeys converts a slice of strings to ResourceKeys.
func NewResourceKeys(strs []string) []ResourceKey {
	res := make([]ResourceKey, len(strs))
	for i, s := range strs {
		res[i] = NewResourceKey(s)
	}
	return res
}

// String returns the underlying path.
func (k ResourceKey) String() string {
	var zero unique.Handle[string]
	if k.h == zero {
		return ""
	}
	return k.h.Value()
}

// IsZero reports whether the key is the zero key ("no scene").
func (k ResourceKey) IsZero() bool {
	var zero unique.Handle[string]
	return k.h == zero
}

// MarshalText implements encoding.TextMarshaler.
func (k ResourceKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ResourceKey) UnmarshalText(text []byte) error {
	*k = NewResourceKey(string(text))
	return nil
}
