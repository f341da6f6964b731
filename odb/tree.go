package odb

import (
	"iter"
	"strings"

	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/ordered"
)

// KeySuffix is appended to an entry name to address its metadata sidecar.
const KeySuffix = "/key"

// KeyInfo is the metadata sidecar of one key or key array.
type KeyInfo struct {
	// Type is the ODB type of the entry.
	Type format.TypeID
	// ItemSize is the declared capacity of a STRING entry.
	ItemSize int
	// NumValues is the element count of a key array, 0 for scalar keys.
	NumValues int
	// Link is the target path of a LINK entry.
	Link string
}

// IsArray reports whether the sidecar belongs to a key array.
func (k KeyInfo) IsArray() bool {
	return k.NumValues > 0
}

// Tree is one directory of a dump: an ordered mapping from entry names to
// values, plus the metadata sidecars of its keys.
//
// Values are one of:
//   - *Tree for sub-directories
//   - int64, float64, bool or string for scalar keys
//   - []any for key arrays
//   - nil for JSON nulls
//
// Sidecars live apart from the entries, so a real entry whose name ends in
// "/key" never collides with the sidecar of another entry. Get falls back to
// the sidecar only when no such entry exists.
type Tree struct {
	entries ordered.Map[string, any]
	keys    map[string]KeyInfo
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{keys: make(map[string]KeyInfo)}
}

// Set stores v under name. An existing entry is replaced and moved to the last position.
func (t *Tree) Set(name string, v any) {
	t.entries.Set(name, v)
}

// SetKey stores the metadata sidecar of the entry name.
func (t *Tree) SetKey(name string, info KeyInfo) {
	if t.keys == nil {
		t.keys = make(map[string]KeyInfo)
	}
	t.keys[name] = info
}

// Get returns the entry stored under name.
//
// If there is no such entry and name ends in "/key", Get returns the KeyInfo
// sidecar of the entry named by the prefix.
func (t *Tree) Get(name string) (any, bool) {
	if t == nil {
		return nil, false
	}

	if v, ok := t.entries.Get(name); ok {
		return v, true
	}

	if base, ok := strings.CutSuffix(name, KeySuffix); ok {
		if info, ok := t.keys[base]; ok {
			return info, true
		}
	}

	return nil, false
}

// entry looks up a real entry, never a sidecar.
func (t *Tree) entry(name string) (any, bool) {
	if t == nil {
		return nil, false
	}

	return t.entries.Get(name)
}

// Key returns the metadata sidecar of the entry name.
func (t *Tree) Key(name string) (KeyInfo, bool) {
	if t == nil {
		return KeyInfo{}, false
	}
	info, ok := t.keys[name]

	return info, ok
}

// Dir returns the sub-directory name.
func (t *Tree) Dir(name string) (*Tree, bool) {
	v, ok := t.Get(name)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Tree)

	return sub, ok
}

// Len returns the number of entries, sidecars excluded.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	return t.entries.Len()
}

// Names returns the entry names in order, sidecars excluded.
func (t *Tree) Names() []string {
	if t == nil {
		return nil
	}

	return t.entries.Keys()
}

// All iterates over the entries in order, sidecars excluded.
func (t *Tree) All() iter.Seq2[string, any] {
	if t == nil {
		return func(func(string, any) bool) {}
	}

	return t.entries.All()
}

// Find looks up a slash-separated path such as "Runinfo/Run number".
//
// A path ending in "/key" that does not name a real entry returns the KeyInfo
// sidecar of the entry it suffixes.
func (t *Tree) Find(path string) (any, bool) {
	parent, name := t.walk(path)
	if v, ok := parent.Get(name); ok {
		return v, true
	}

	if base, ok := strings.CutSuffix(strings.Trim(path, "/"), KeySuffix); ok {
		info, found := t.FindKey(base)
		if found {
			return info, true
		}
	}

	return nil, false
}

// FindKey returns the metadata sidecar of the entry at path.
func (t *Tree) FindKey(path string) (KeyInfo, bool) {
	parent, name := t.walk(path)
	return parent.Key(name)
}

// walk resolves every path segment but the last to a directory.
func (t *Tree) walk(path string) (*Tree, string) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	cur := t
	for _, seg := range segments[:len(segments)-1] {
		sub, ok := cur.Dir(seg)
		if !ok {
			return nil, ""
		}
		cur = sub
	}

	return cur, segments[len(segments)-1]
}

// Leaves iterates depth-first over every non-directory entry, yielding its
// full slash-separated path.
func (t *Tree) Leaves() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		t.leaves("", yield)
	}
}

func (t *Tree) leaves(prefix string, yield func(string, any) bool) bool {
	for name, v := range t.All() {
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}

		if sub, ok := v.(*Tree); ok {
			if !sub.leaves(path, yield) {
				return false
			}

			continue
		}

		if !yield(path, v) {
			return false
		}
	}

	return true
}
