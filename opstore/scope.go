// Package opstore implements the content-addressed operator store and the
// tree-structured naming scope described in spec.md §4.2: symbolic names for
// operators and measurements, a per-scope auto-naming counter, and an
// optional EPS-tolerant dedup keyed by a rounded-tensor content hash.
package opstore

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/crypto/blake2b"

	"nqpv/qop"
)

// Value is a named entry: exactly one of Op or Mea is set.
type Value struct {
	Op  *qop.Tensor
	Mea *qop.Measurement
}

// equal compares two values within eps, only ever true for same-kind values.
func (v Value) equal(o Value, eps float64) bool {
	switch {
	case v.Op != nil && o.Op != nil:
		return qop.Equal(v.Op, o.Op, eps)
	case v.Mea != nil && o.Mea != nil:
		return qop.Equal(v.Mea.M0, o.Mea.M0, eps) && qop.Equal(v.Mea.M1, o.Mea.M1, eps)
	default:
		return false
	}
}

// contentKey returns a coarse dedup bucket key: a blake2b-256 hash of the
// value's data rounded to a fixed number of decimal places. Two values
// hashing to different keys are never found equal; two values hashing to
// the same key are still compared with the exact EPS check in equal before
// being treated as duplicates, so the hash can only narrow the candidate
// set, never relax the tolerance semantics (spec.md §9 design note).
func (v Value) contentKey() [32]byte {
	h, _ := blake2b.New256(nil)
	round := func(x float64) int64 {
		return int64(math.Round(x * 1e6))
	}
	write := func(t *qop.Tensor) {
		var buf [8]byte
		binary.LittleEndian.PutUint32(buf[:4], uint32(t.Qnum))
		h.Write(buf[:4])
		for r := 0; r < t.Dim; r++ {
			for c := 0; c < t.Dim; c++ {
				val := t.At(r, c)
				binary.LittleEndian.PutUint64(buf[:], uint64(round(real(val))))
				h.Write(buf[:])
				binary.LittleEndian.PutUint64(buf[:], uint64(round(imag(val))))
				h.Write(buf[:])
			}
		}
	}
	if v.Op != nil {
		h.Write([]byte("op"))
		write(v.Op)
	} else if v.Mea != nil {
		h.Write([]byte("m0"))
		write(v.Mea.M0)
		h.Write([]byte("m1"))
		write(v.Mea.M1)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Scope is a node in the naming-scope tree. The root scope is created with
// NewRoot; children with parent.NewChild.
type Scope struct {
	name     string
	parent   *Scope
	entries  map[string]Value
	order    []string // insertion order, for deterministic iteration/printing
	counter  int
	buckets  map[[32]byte][]string // content-key -> names in this scope
}

// NewRoot creates a scope with no parent.
func NewRoot(name string) *Scope {
	return &Scope{
		name:    name,
		entries: make(map[string]Value),
		buckets: make(map[[32]byte][]string),
	}
}

// NewChild creates a child scope of s.
func (s *Scope) NewChild(name string) *Scope {
	return &Scope{
		name:    name,
		parent:  s,
		entries: make(map[string]Value),
		buckets: make(map[[32]byte][]string),
	}
}

// Parent returns s's parent scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Name returns the scope's own label (for diagnostics).
func (s *Scope) Name() string { return s.name }

// Contains reports whether name is bound in s or an ancestor.
func (s *Scope) Contains(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup walks s and its ancestors toward the root, returning the first
// binding found (nearest scope wins — shadowing).
func (s *Scope) Lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.entries[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Remove deletes name from s's own entries (not ancestors).
func (s *Scope) Remove(name string) {
	if v, ok := s.entries[name]; ok {
		key := v.contentKey()
		s.buckets[key] = removeString(s.buckets[key], name)
		delete(s.entries, name)
		s.order = removeString(s.order, name)
	}
}

func removeString(xs []string, x string) []string {
	out := xs[:0]
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}

// Bind installs value under an explicit, caller-chosen name (used by the
// scope evaluator for `def` and by standard-library injection), overwriting
// any existing binding of that name in s itself.
func (s *Scope) Bind(name string, v Value) {
	s.entries[name] = v
	key := v.contentKey()
	s.buckets[key] = append(s.buckets[key], name)
	s.order = append(s.order, name)
}

// Append installs an operator value, returning its canonical name: if
// identicalVarCheck is set and a value equal to v within eps is already
// visible from s (including shadowed-aware ancestor search), its existing
// name is returned instead of creating a new binding; otherwise v is
// auto-named "VARk" for a monotonically increasing k local to s and
// installed (spec.md §4.2).
func (s *Scope) Append(v Value, eps float64, identicalVarCheck bool) string {
	if identicalVarCheck {
		if name, ok := s.findEqual(v, eps); ok {
			return name
		}
	}
	name := fmt.Sprintf("VAR%d", s.counter)
	s.counter++
	s.Bind(name, v)
	return name
}

// findEqual walks s and its ancestors, skipping any name already shadowed by
// a nearer scope, and returns the first name bound to a value equal to v
// within eps.
func (s *Scope) findEqual(v Value, eps float64) (string, bool) {
	seen := make(map[string]struct{})
	key := v.contentKey()
	for cur := s; cur != nil; cur = cur.parent {
		for _, name := range cur.buckets[key] {
			if _, shadowed := seen[name]; shadowed {
				continue
			}
			if cand, ok := cur.entries[name]; ok && cand.equal(v, eps) {
				return name, true
			}
		}
		for name := range cur.entries {
			seen[name] = struct{}{}
		}
	}
	return "", false
}

// Inject copies every binding of src into s (bulk copy from a sibling
// scope, spec.md §4.2), keeping src's names. Later entries of the same name
// overwrite earlier ones, matching Bind's own overwrite semantics.
func (s *Scope) Inject(src *Scope) {
	for _, name := range src.order {
		s.Bind(name, src.entries[name])
	}
}

// Names returns s's own bindings in insertion order (not including
// ancestors).
func (s *Scope) Names() []string {
	return append([]string(nil), s.order...)
}
