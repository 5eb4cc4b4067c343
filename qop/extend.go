package qop

import "nqpv/qvar"

// bits decodes index idx (0 <= idx < 2^k) into k bits, most-significant
// first, matching the canonical row-major tensor layout: axis 0 is the
// highest-order bit of the flattened matrix index.
func bits(idx, k int) []int {
	out := make([]int, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = idx & 1
		idx >>= 1
	}
	return out
}

func unbits(b []int) int {
	idx := 0
	for _, x := range b {
		idx = idx<<1 | x
	}
	return idx
}

// embed builds the operator that acts as op on opVars and as the identity
// on every other qubit of target, with axes ordered per target. target must
// cover opVars. This single routine implements both HermitianExtend (called
// with the full register as target) and the embedding step inside
// HermitianContract (called with the acting-operator's enclosing QVL as
// target).
func embed(target qvar.QVL, op *Tensor, opVars qvar.QVL) (*Tensor, error) {
	if !qvar.Cover(target, opVars) {
		return nil, structErr("target qubit list does not cover operator's qubit list")
	}
	k := target.Len()
	// pos[i] = index within opVars.Names() of target.Names()[i], or -1 if
	// target.Names()[i] is not acted on by op.
	pos := make([]int, k)
	for i, name := range target.Names() {
		pos[i] = opVars.IndexOf(name)
	}
	d := 1 << uint(k)
	data := make([]complex128, d*d)
	opD := op.Dim
	for r := 0; r < d; r++ {
		rb := bits(r, k)
		for c := 0; c < d; c++ {
			cb := bits(c, k)
			// Identity on every axis op does not act on: row and col bits
			// there must agree, else the entry is zero.
			match := true
			// collect op-row/col bits in opVars order
			opBitRow := make([]int, opVars.Len())
			opBitCol := make([]int, opVars.Len())
			for i := 0; i < k; i++ {
				if pos[i] < 0 {
					if rb[i] != cb[i] {
						match = false
						break
					}
					continue
				}
				opBitRow[pos[i]] = rb[i]
				opBitCol[pos[i]] = cb[i]
			}
			if !match {
				continue
			}
			rIdx := unbits(opBitRow)
			cIdx := unbits(opBitCol)
			data[r*d+c] = op.Data[rIdx*opD+cIdx]
		}
	}
	return &Tensor{Qnum: k, Dim: d, Data: data}, nil
}

// HermitianExtend tensors H with the identity on allReg's qubits not in
// HVls and permutes axes so the i-th output axis corresponds to allReg[i]
// (spec.md §4.1). It preserves eigenvalues and Hermiticity because it only
// pads identity factors on fresh qubits (spec.md §3 invariant).
func HermitianExtend(allReg qvar.QVL, h *Tensor, hVls qvar.QVL) (*Tensor, error) {
	return embed(allReg, h, hVls)
}
