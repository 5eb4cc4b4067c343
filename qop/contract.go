package qop

import "nqpv/qvar"

// HermitianContract computes M · H · M† where H acts on ql and M acts on
// actVars ⊆ ql, per spec.md §4.1: the row indices of H lying in actVars
// contract with the column indices of M (i), the row indices of M are
// placed back into the actVars positions of the output's row block (ii),
// and symmetrically for M† on the columns (iii); axes outside actVars are
// untouched. This is implemented by first embedding M into ql's qubit space
// — identity on ql \ actVars — and then doing the ordinary Dim x Dim matrix
// sandwich, which is algebraically identical to the axis-local description
// above and far simpler to get right.
func HermitianContract(h *Tensor, ql qvar.QVL, actVars qvar.QVL, m *Tensor) (*Tensor, error) {
	if !qvar.Cover(ql, actVars) {
		return nil, structErr("acting qubit list is not contained in the operator's qubit list")
	}
	mFull, err := embed(ql, m, actVars)
	if err != nil {
		return nil, err
	}
	return matMul(matMul(mFull, h), Dagger(mFull)), nil
}
