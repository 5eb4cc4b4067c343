// Package qvar implements the qubit register and qubit-variable-list (QVL)
// value types shared by the tensor kernel, the symbolic predicate layer, and
// the WLP transformer.
package qvar

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Register is the ordered, distinct sequence of qubit names that fixes the
// canonical tensor axis order: register[i] is tensor axis i (and n+i for the
// conjugate block of a state operator).
type Register struct {
	names []string
	index map[string]int
}

// NewRegister builds a register from an ordered name list, rejecting
// duplicates.
func NewRegister(names []string) (Register, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := index[n]; dup {
			return Register{}, fmt.Errorf("qvar: duplicate qubit name %q in register", n)
		}
		index[n] = i
	}
	cp := append([]string(nil), names...)
	return Register{names: cp, index: index}, nil
}

// Len returns the qubit count n.
func (r Register) Len() int { return len(r.names) }

// Names returns the register's names in canonical order. Callers must not
// mutate the returned slice.
func (r Register) Names() []string { return r.names }

// IndexOf returns the axis index of name, or -1 if name is not in r.
func (r Register) IndexOf(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

// Contains reports whether name is in the register.
func (r Register) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// QVL is an ordered sequence of distinct names. Membership in a register is
// not checked on construction; ValidateAgainst and Mask check it against a
// given register. The type itself carries no register reference, matching the
// spec's "value, not a variable" treatment of qubit-variable lists.
type QVL struct {
	names []string
}

// NewQVL builds a QVL from an ordered name list, rejecting duplicates. It
// does not check membership in any particular register; callers validate
// that separately against the register they intend to use.
func NewQVL(names []string) (QVL, error) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return QVL{}, fmt.Errorf("qvar: duplicate qubit name %q in qubit-variable list", n)
		}
		seen[n] = struct{}{}
	}
	cp := append([]string(nil), names...)
	return QVL{names: cp}, nil
}

// MustQVL is NewQVL but panics on error; used for literal QVLs built from
// already-validated data (e.g. inside the kernel after axis bookkeeping).
func MustQVL(names []string) QVL {
	q, err := NewQVL(names)
	if err != nil {
		panic(err)
	}
	return q
}

// Len returns |V|.
func (v QVL) Len() int { return len(v.names) }

// Names returns v's names in order. Callers must not mutate the result.
func (v QVL) Names() []string { return v.names }

// IndexOf returns the position of name within v, or -1.
func (v QVL) IndexOf(name string) int {
	for i, n := range v.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name appears in v.
func (v QVL) Contains(name string) bool { return v.IndexOf(name) >= 0 }

// ValidateAgainst checks that every name in v is present in reg, returning a
// structural error naming the offending qubit otherwise.
func (v QVL) ValidateAgainst(reg Register) error {
	for _, n := range v.names {
		if !reg.Contains(n) {
			return fmt.Errorf("qvar: qubit %q not present in register", n)
		}
	}
	return nil
}

// Substitute returns a new QVL with every name replaced by its image under
// sub, in order. A name absent from sub is kept unchanged.
func (v QVL) Substitute(sub map[string]string) QVL {
	out := make([]string, len(v.names))
	for i, n := range v.names {
		if m, ok := sub[n]; ok {
			out[i] = m
		} else {
			out[i] = n
		}
	}
	return QVL{names: out}
}

// Cover reports whether every name of b appears in a ("a covers b").
func Cover(a, b QVL) bool {
	for _, n := range b.names {
		if !a.Contains(n) {
			return false
		}
	}
	return true
}

// Join returns a with every name of b not already in a appended, in the
// order they appear in b.
func Join(a, b QVL) QVL {
	out := append([]string(nil), a.names...)
	for _, n := range b.names {
		if !a.Contains(n) {
			out = append(out, n)
		}
	}
	return QVL{names: out}
}

// Mask returns the bit set of reg-axis indices that v touches. It is
// bookkeeping, not a spec-level QVL operation; the kernel routines
// (HermitianContract, HermitianInit, HermitianExtend) do not use it and
// locate axes with IndexOf instead.
func (v QVL) Mask(reg Register) (*bitset.BitSet, error) {
	b := bitset.New(uint(reg.Len()))
	for _, n := range v.names {
		idx := reg.IndexOf(n)
		if idx < 0 {
			return nil, fmt.Errorf("qvar: qubit %q not present in register", n)
		}
		b.Set(uint(idx))
	}
	return b, nil
}
