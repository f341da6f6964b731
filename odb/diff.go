package odb

import (
	"fmt"
	"reflect"

	"github.com/arloliu/midas/internal/hash"
)

// ChangeKind classifies one difference between two trees.
type ChangeKind uint8

const (
	Added ChangeKind = iota + 1
	Removed
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("ChangeKind(%d)", uint8(k))
	}
}

// Change is one difference reported by Diff.
type Change struct {
	// Path is the slash-separated path of the entry.
	Path string
	Kind ChangeKind
	// Old is the value in the first tree, nil for Added.
	Old any
	// New is the value in the second tree, nil for Removed.
	New any
}

// Diff reports the entries that differ between a and b, typically the BOR and
// EOR dumps of one run.
//
// Changes are listed depth-first: entries of a in order, then entries only
// present in b. Sidecars are not compared, and subtrees with equal
// fingerprints are skipped without descending into them. A directory that
// replaces a key (or the reverse) is reported as Modified at that path.
func Diff(a, b *Tree) []Change {
	var changes []Change
	diffTrees("", a, b, &changes)

	return changes
}

func diffTrees(prefix string, a, b *Tree, changes *[]Change) {
	if a.Len() == b.Len() && a.Fingerprint() == b.Fingerprint() {
		return
	}

	for name, av := range a.All() {
		path := joinPath(prefix, name)

		bv, ok := b.entry(name)
		if !ok {
			*changes = append(*changes, Change{Path: path, Kind: Removed, Old: av})
			continue
		}

		at, aIsTree := av.(*Tree)
		bt, bIsTree := bv.(*Tree)
		switch {
		case aIsTree && bIsTree:
			diffTrees(path, at, bt, changes)
		case aIsTree != bIsTree || !reflect.DeepEqual(av, bv):
			*changes = append(*changes, Change{Path: path, Kind: Modified, Old: av, New: bv})
		}
	}

	for name, bv := range b.All() {
		if _, ok := a.entry(name); !ok {
			*changes = append(*changes, Change{Path: joinPath(prefix, name), Kind: Added, New: bv})
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

// Fingerprint returns an xxHash64 digest of the entries of t in order,
// sidecars excluded. Trees with equal entries have equal fingerprints.
func (t *Tree) Fingerprint() uint64 {
	h := hash.New()
	t.hashInto(h)

	return h.Sum64()
}

const (
	tagTree   = 'd'
	tagNil    = 'n'
	tagInt    = 'i'
	tagFloat  = 'f'
	tagTrue   = 't'
	tagFalse  = 'F'
	tagString = 's'
	tagArray  = 'a'
	tagOther  = '?'
)

func (t *Tree) hashInto(h *hash.Hasher) {
	h.Tag(tagTree)
	h.Uint64(uint64(t.Len()))
	for name, v := range t.All() {
		h.String(name)
		hashValue(h, v)
	}
}

func hashValue(h *hash.Hasher, v any) {
	switch x := v.(type) {
	case *Tree:
		x.hashInto(h)
	case nil:
		h.Tag(tagNil)
	case int64:
		h.Tag(tagInt)
		h.Uint64(uint64(x)) //nolint:gosec
	case float64:
		h.Tag(tagFloat)
		h.Float64(x)
	case bool:
		if x {
			h.Tag(tagTrue)
		} else {
			h.Tag(tagFalse)
		}
	case string:
		h.Tag(tagString)
		h.String(x)
	case []any:
		h.Tag(tagArray)
		h.Uint64(uint64(len(x)))
		for _, e := range x {
			hashValue(h, e)
		}
	default:
		h.Tag(tagOther)
		h.String(fmt.Sprint(x))
	}
}
