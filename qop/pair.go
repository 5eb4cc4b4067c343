package qop

import (
	"fmt"

	"nqpv/qvar"
)

// Pair is an operator/variable pair (OVP): an operator together with the
// qubit-variable list it acts on. opt.Qnum must equal len(vars).
type Pair struct {
	Op   *Tensor
	Vars qvar.QVL
}

// NewPair validates the arity invariant of spec.md §3 ("Every OVP satisfies
// opt.qnum = |qvls|") and returns a structural error otherwise.
func NewPair(op *Tensor, vars qvar.QVL) (Pair, error) {
	if op.Qnum != vars.Len() {
		return Pair{}, structErr("operator acts on %d qubits but qubit list has length %d", op.Qnum, vars.Len())
	}
	return Pair{Op: op, Vars: vars}, nil
}

// IsHermitianPredicate reports the pair property: the pair's operator must
// itself carry the Hermitian-predicate flag (spec.md §3: "the pair property
// additionally requires opt to carry that property").
func (p Pair) IsHermitianPredicate(eps float64) bool {
	if p.Op.flagsKnown.hermitianPredicate {
		return p.Op.flags.HermitianPredicate
	}
	ok, _ := CheckHermitianPredicate(p.Op, eps)
	return ok
}

// Dagger returns (Op†, Vars).
func (p Pair) Dagger() Pair {
	return Pair{Op: Dagger(p.Op), Vars: p.Vars}
}

// Substitute renames p's qubit list by sub, leaving the operator untouched.
func (p Pair) Substitute(sub map[string]string) Pair {
	return Pair{Op: p.Op, Vars: p.Vars.Substitute(sub)}
}

// AddHermitian adds two Hermitian-predicate pairs, automatically cylindrically
// extending both to the join of their qubit lists first (spec.md §4.3:
// "automatic cylindrical extension... This preserves semantics because
// extension is H ⊗ I"). Both pairs must already carry the Hermitian-predicate
// property; AddHermitian does not check it. Its caller (wlp's
// contractAndAdd) passes contracted predicates, and the sum is checked when
// it is placed into a qpre.Qpre by qpre.New, matching spec.md's requirement
// that it only applies "when both sides are Hermitian-predicate pairs".
func AddHermitian(a, b Pair) (Pair, error) {
	target := qvar.Join(a.Vars, b.Vars)
	ea, err := HermitianExtend(target, a.Op, a.Vars)
	if err != nil {
		return Pair{}, fmt.Errorf("qop: extending left operand: %w", err)
	}
	eb, err := HermitianExtend(target, b.Op, b.Vars)
	if err != nil {
		return Pair{}, fmt.Errorf("qop: extending right operand: %w", err)
	}
	sum := matAdd(ea, eb)
	return Pair{Op: sum, Vars: target}, nil
}
