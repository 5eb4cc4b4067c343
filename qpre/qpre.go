// Package qpre implements the quantum predicate: a finite ordered sequence
// of Hermitian-predicate operator/variable pairs, interpreted disjunctively
// under the Löwner order (spec.md §3, "Quantum predicate (Qpre)").
package qpre

import (
	"fmt"

	"nqpv/qop"
	"nqpv/qvar"
)

// Qpre is an ordered set of Hermitian-predicate OVPs.
type Qpre struct {
	pairs []qop.Pair
}

// New builds a Qpre from pairs, validating that every pair is a Hermitian
// predicate and optionally collapsing duplicates within eps when
// identicalVarCheck is set (spec.md §3: "Duplicate pairs are collapsed when
// the setting IDENTICAL_VAR_CHECK is on").
func New(pairs []qop.Pair, eps float64, identicalVarCheck bool) (Qpre, error) {
	out := make([]qop.Pair, 0, len(pairs))
	for i, p := range pairs {
		if !p.IsHermitianPredicate(eps) {
			return Qpre{}, fmt.Errorf("qpre: pair %d is not a Hermitian predicate", i)
		}
		if identicalVarCheck && containsEqual(out, p, eps) {
			continue
		}
		out = append(out, p)
	}
	return Qpre{pairs: out}, nil
}

func containsEqual(pairs []qop.Pair, p qop.Pair, eps float64) bool {
	for _, q := range pairs {
		if q.Vars.Len() != p.Vars.Len() {
			continue
		}
		same := true
		for i, n := range q.Vars.Names() {
			if p.Vars.Names()[i] != n {
				same = false
				break
			}
		}
		if same && qop.Equal(q.Op, p.Op, eps) {
			return true
		}
	}
	return false
}

// Len returns |Qpre|.
func (q Qpre) Len() int { return len(q.pairs) }

// Pairs returns the underlying pairs in order. Callers must not mutate the
// result.
func (q Qpre) Pairs() []qop.Pair { return q.pairs }

// Single returns q's only pair; callers must check Len() == 1 first.
func (q Qpre) Single() qop.Pair { return q.pairs[0] }

// AllQVarls returns the union (join, in first-seen order) of every pair's
// qubit list, spec.md §3's all_qvarls(Qpre).
func (q Qpre) AllQVarls() qvar.QVL {
	acc := qvar.QVL{}
	for _, p := range q.pairs {
		acc = qvar.Join(acc, p.Vars)
	}
	return acc
}

// Union concatenates a and b (spec.md §3: "union (concatenation)"),
// optionally deduping within eps.
func Union(a, b Qpre, eps float64, identicalVarCheck bool) Qpre {
	all := append(append([]qop.Pair(nil), a.pairs...), b.pairs...)
	if !identicalVarCheck {
		return Qpre{pairs: all}
	}
	out := make([]qop.Pair, 0, len(all))
	for _, p := range all {
		if !containsEqual(out, p, eps) {
			out = append(out, p)
		}
	}
	return Qpre{pairs: out}
}

// Extend cylindrically extends every pair of q to target, per spec.md §4.3.
func Extend(q Qpre, target qvar.QVL) (Qpre, error) {
	out := make([]qop.Pair, len(q.pairs))
	for i, p := range q.pairs {
		ext, err := qop.HermitianExtend(target, p.Op, p.Vars)
		if err != nil {
			return Qpre{}, fmt.Errorf("qpre: extending pair %d: %w", i, err)
		}
		out[i] = qop.Pair{Op: ext, Vars: target}
	}
	return Qpre{pairs: out}, nil
}

// Substitute renames every pair's qubit list by sub.
func Substitute(q Qpre, sub map[string]string) Qpre {
	out := make([]qop.Pair, len(q.pairs))
	for i, p := range q.pairs {
		out[i] = p.Substitute(sub)
	}
	return Qpre{pairs: out}
}

// ExtendBothToJoin extends a and b to all_qvarls(a) ∪ all_qvarls(b), the
// automatic extension every binary Qpre combinator (order comparison, WLP
// temporaries) performs before combining (spec.md §4.3).
func ExtendBothToJoin(a, b Qpre) (Qpre, Qpre, error) {
	target := qvar.Join(a.AllQVarls(), b.AllQVarls())
	ea, err := Extend(a, target)
	if err != nil {
		return Qpre{}, Qpre{}, err
	}
	eb, err := Extend(b, target)
	if err != nil {
		return Qpre{}, Qpre{}, err
	}
	return ea, eb, nil
}
