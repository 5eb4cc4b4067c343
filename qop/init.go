package qop

import "nqpv/qvar"

// HermitianInit applies the two-outcome projective (re-)initialization of
// spec.md §4.1 to every qubit named in initVls, in order: H ↦ P0 H P0† + P1 H
// P1† for each such qubit, with P0 = |0⟩⟨0| and P1 = |1⟩⟨0| the reset-to-|0⟩
// Kraus pair (NQPV_la.py's hermitian_init — P1 is the Kraus operator, not
// the |1⟩⟨1| projector qop.P1 that oplib's measurements use). hVls is H's own
// qubit list (the ql the WLP transformer's init rule passes alongside H).
// initVls need not be all of hVls; qubits outside hVls cannot be initialized
// (structural error), since H carries no information about them.
func HermitianInit(hVls qvar.QVL, h *Tensor, initVls qvar.QVL) (*Tensor, error) {
	if !qvar.Cover(hVls, initVls) {
		return nil, structErr("qubit list to initialize is not contained in the operator's qubit list")
	}
	cur := h
	p0, p1 := P0(), ket1bra0()
	for _, name := range initVls.Names() {
		one := qvar.MustQVL([]string{name})
		h0, err := HermitianContract(cur, hVls, one, p0)
		if err != nil {
			return nil, err
		}
		h1, err := HermitianContract(cur, hVls, one, p1)
		if err != nil {
			return nil, err
		}
		cur = matAdd(h0, h1)
	}
	return cur, nil
}
