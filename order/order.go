// Package order decides the Löwner order on finite Hermitian-predicate sets
// (spec.md §4.5): A ⊑ B iff, for every ρ ≥ 0, tr(ρA) ≤ tr(ρB), special-cased
// to a single eigendecomposition when A is a singleton and otherwise reduced
// to an SDP feasibility search, per B_j ∈ B.
package order

import (
	"fmt"

	"nqpv/opstore"
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/settings"
)

// NumericError reports that the SDP feasibility search could neither prove
// nor refute feasibility within its iteration budget (spec.md §7, "Numeric"
// error kind): "cannot conclude", with guidance to adjust EPS / SDP_precision.
type NumericError struct {
	Msg string
}

func (e *NumericError) Error() string { return "order: cannot conclude: " + e.Msg }

// Witness is the density-operator counterexample produced when a Löwner
// relation fails: a ρ such that tr(ρA) − tr(ρB) exceeds EPS for the B_j that
// failed.
type Witness struct {
	Rho   *qop.Tensor
	Slack float64
}

// Result is the decider's outcome: Holds plus, on failure, a Witness.
type Result struct {
	Holds   bool
	Witness *Witness
}

// Sqsubseteq decides A ⊑ B. Both sides are automatically cylindrically
// extended to all_qvarls(A) ∪ all_qvarls(B) first (spec.md §4.5). Any
// witness produced is also appended to scope as an auxiliary operator
// (spec.md §4.5: "a boolean plus an optional witness operator stored in the
// scope").
func Sqsubseteq(scope *opstore.Scope, a, b qpre.Qpre, cfg settings.Settings) (Result, error) {
	ea, eb, err := qpre.ExtendBothToJoin(a, b)
	if err != nil {
		return Result{}, fmt.Errorf("order: extending operands: %w", err)
	}
	for _, bj := range eb.Pairs() {
		res, err := checkOne(ea, bj.Op, cfg)
		if err != nil {
			return Result{}, err
		}
		if !res.Holds {
			scope.Append(opstore.Value{Op: res.Witness.Rho}, cfg.EPS, cfg.IdenticalVarCheck)
			return res, nil
		}
	}
	return Result{Holds: true}, nil
}

// checkOne decides whether every A_i in a is dominated at B_j (i.e. whether
// B_j passes spec.md's per-B_j algorithm against the whole set a).
func checkOne(a qpre.Qpre, bj *qop.Tensor, cfg settings.Settings) (Result, error) {
	if a.Len() == 1 {
		return eigenCheck(a.Single().Op, bj, cfg.EPS)
	}
	return sdpCheck(a, bj, cfg)
}

// eigenCheck is the |A| = 1 special case of spec.md §4.5: compute the
// eigenvalues of B_j − A0 and accept iff all are ≥ −eps; the special case
// exists because a full SDP solve is unnecessary and numerically less
// stable than a single Hermitian eigendecomposition for this case (spec.md
// §9 design note).
func eigenCheck(a0, bj *qop.Tensor, eps float64) (Result, error) {
	diff := qop.Sub(bj, a0)
	worstVal, worstVec := qop.MinEigen(diff)
	if worstVal >= -eps {
		return Result{Holds: true}, nil
	}
	rho := densityFromVector(worstVec, diff.Dim)
	return Result{Holds: false, Witness: &Witness{Rho: rho, Slack: -worstVal}}, nil
}

func densityFromVector(v []complex128, dim int) *qop.Tensor {
	data := make([]complex128, dim*dim)
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			data[r*dim+c] = v[r] * conj(v[c])
		}
	}
	t, _ := qop.NewTensor(bitLen(dim), data)
	return t
}

func conj(c complex128) complex128 { return complex(real(c), -imag(c)) }

func bitLen(dim int) int {
	n := 0
	for d := dim; d > 1; d >>= 1 {
		n++
	}
	return n
}
