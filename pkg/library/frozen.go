package library

import (
	"sort"

	"github.com/benbjohnson/immutable"
)

// AsnMap is a read-only view of an association mapping. Nested mappings are
// AsnMap values and nested lists are AsnList values. It has no mutators and
// does not share storage with the library.
type AsnMap struct {
	entries *immutable.Map[string, any]
	keys    []string
}

// AsnList is a read-only view of an association list.
type AsnList struct {
	items *immutable.List[any]
}

// freeze converts a manifest value into its read-only projection.
func freeze(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return freezeMap(v)
	case []any:
		items := immutable.NewList[any]()
		for _, e := range v {
			items = items.Append(freeze(e))
		}

		return AsnList{items: items}
	default:
		if res, ok := copyContainer(v); ok {
			return freeze(res)
		}

		return v
	}
}

func freezeMap(m map[string]any) AsnMap {
	entries := immutable.NewMap[string, any](nil)
	keys := make([]string, 0, len(m))
	for k, v := range m {
		entries = entries.Set(k, freeze(v))
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return AsnMap{entries: entries, keys: keys}
}

// Get returns the value stored under key.
func (m AsnMap) Get(key string) (any, bool) {
	if m.entries == nil {
		return nil, false
	}

	return m.entries.Get(key)
}

// String returns the value stored under key when it is a string.
func (m AsnMap) String(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)

	return s
}

// Map returns the mapping stored under key.
func (m AsnMap) Map(key string) (AsnMap, bool) {
	v, _ := m.Get(key)
	res, ok := v.(AsnMap)

	return res, ok
}

// List returns the list stored under key.
func (m AsnMap) List(key string) (AsnList, bool) {
	v, _ := m.Get(key)
	res, ok := v.(AsnList)

	return res, ok
}

// Len returns the number of keys.
func (m AsnMap) Len() int {
	return len(m.keys)
}

// Keys returns the sorted keys. The slice is a copy.
func (m AsnMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// ToManifest returns a deep mutable copy of the mapping.
func (m AsnMap) ToManifest() Manifest {
	res := make(Manifest, len(m.keys))
	for _, k := range m.keys {
		v, _ := m.Get(k)
		res[k] = thaw(v)
	}

	return res
}

// Len returns the number of items.
func (l AsnList) Len() int {
	if l.items == nil {
		return 0
	}

	return l.items.Len()
}

// At returns the item at index i. It panics if i is out of range.
func (l AsnList) At(i int) any {
	return l.items.Get(i)
}

// Map returns the item at index i when it is a mapping.
func (l AsnList) Map(i int) (AsnMap, bool) {
	res, ok := l.At(i).(AsnMap)

	return res, ok
}

func thaw(value any) any {
	switch v := value.(type) {
	case AsnMap:
		return map[string]any(v.ToManifest())
	case AsnList:
		res := make([]any, v.Len())
		for i := range res {
			res[i] = thaw(v.At(i))
		}

		return res
	default:
		return v
	}
}
