package wlp

import (
	"fmt"

	"nqpv/astx"
	"nqpv/order"
)

// ProofError reports a Proof-kind failure (spec.md §7): an invariant that is
// not inductive, a precondition refinement failure, (Union) subproofs that
// disagree with their declared postcondition, or an assertion not entailed
// by the downstream postcondition. A Witness is attached whenever the
// failing order.Sqsubseteq call produced a counterexample density operator.
type ProofError struct {
	Kind    string
	Pos     astx.Pos
	Witness *order.Witness
}

func (e *ProofError) Error() string {
	return fmt.Sprintf("wlp: %s at %s", e.Kind, e.Pos)
}
