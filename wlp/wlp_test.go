package wlp

import (
	"testing"

	"nqpv/astx"
	"nqpv/opstore"
	"nqpv/order"
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/qvar"
	"nqpv/settings"
)

func mustQVL(t *testing.T, names ...string) qvar.QVL {
	t.Helper()
	v, err := qvar.NewQVL(names)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func singlePairQpre(t *testing.T, op *qop.Tensor, vars qvar.QVL, cfg settings.Settings) qpre.Qpre {
	t.Helper()
	p, err := qop.NewPair(op, vars)
	if err != nil {
		t.Fatal(err)
	}
	q, err := qpre.New([]qop.Pair{p}, cfg.EPS, cfg.IdenticalVarCheck)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func pauliX(t *testing.T) *qop.Tensor {
	t.Helper()
	m, err := qop.NewTensor(1, []complex128{0, 1, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSkipPassesThroughPost(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	q0 := mustQVL(t, "q0")
	post := singlePairQpre(t, qop.EyeTensor(1), q0, cfg)

	stmt, err := Transform(scope, cfg, astx.HSkip{}, post)
	if err != nil {
		t.Fatal(err)
	}
	pre, _ := stmt.PrePost()
	if pre.Len() != 1 || !qop.Equal(pre.Single().Op, post.Single().Op, cfg.EPS) {
		t.Fatalf("skip must leave the postcondition unchanged")
	}
}

// TestUnitaryPreconditionTooStrong is spec.md §8 scenario S6: a unitary
// q *= X with precondition {P0[q]} and postcondition {P0[q]} computes WLP
// {P1[q]}; P0 ⋢ P1, so the declared precondition does not refine it.
func TestUnitaryPreconditionTooStrong(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	q0 := mustQVL(t, "q0")
	post := singlePairQpre(t, qop.P0(), q0, cfg)

	xPair, err := qop.NewPair(pauliX(t), q0)
	if err != nil {
		t.Fatal(err)
	}
	hint := astx.HUnitary{Op: xPair}

	stmt, err := Transform(scope, cfg, hint, post)
	if err != nil {
		t.Fatal(err)
	}
	pre, _ := stmt.PrePost()
	if pre.Len() != 1 {
		t.Fatalf("expected a single computed precondition pair, got %d", pre.Len())
	}
	if !qop.Equal(pre.Single().Op, qop.P1(), cfg.EPS) {
		t.Fatalf("computed WLP of q *= X against {P0[q]} should be {P1[q]}")
	}

	declared := singlePairQpre(t, qop.P0(), q0, cfg)
	res, err := order.Sqsubseteq(scope, declared, pre, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Holds {
		t.Fatalf("P0 should not be refined by the computed P1 precondition")
	}
	if res.Witness == nil {
		t.Fatalf("expected a counterexample density witness")
	}
}

// buildWhile constructs a single-qubit while(inv, M0/M1 @ q0, body) hint.
func buildWhile(t *testing.T, invOp *qop.Tensor, body astx.Hint, cfg settings.Settings) (astx.HWhile, qvar.QVL) {
	t.Helper()
	q0 := mustQVL(t, "q0")
	inv := singlePairQpre(t, invOp, q0, cfg)
	mea, err := qop.NewMeasurement(qop.P0(), qop.P1())
	if err != nil {
		t.Fatal(err)
	}
	return astx.HWhile{
		Mea:       astx.Mea{Op: mea, Vars: q0},
		Invariant: inv,
		Body:      body,
	}, q0
}

// TestWhileInvariantInductive mirrors spec.md §8 scenario S4 in miniature:
// invariant I[q0], body asserts I[q0] again, the invariant check must pass.
func TestWhileInvariantInductive(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	q0 := mustQVL(t, "q0")
	post := singlePairQpre(t, qop.EyeTensor(1), q0, cfg)
	assertQ := singlePairQpre(t, qop.EyeTensor(1), q0, cfg)
	body := astx.HAssert{Qpre: assertQ}
	hint, _ := buildWhile(t, qop.EyeTensor(1), body, cfg)

	stmt, err := Transform(scope, cfg, hint, post)
	if err != nil {
		t.Fatalf("expected the invariant to be accepted as inductive: %v", err)
	}
	if _, ok := stmt.(astx.SWhile); !ok {
		t.Fatalf("expected an SWhile statement, got %T", stmt)
	}
}

// TestWhileInvariantNotInductive mirrors spec.md §8 scenario S5: the same
// shape but with a body that only re-establishes P0[q0], strictly weaker
// than the declared invariant I[q0] — the check inv ⊑ wlp(body, Q') must
// fail with a witness, per spec.md §9's corrected rule.
func TestWhileInvariantNotInductive(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	q0 := mustQVL(t, "q0")
	post := singlePairQpre(t, qop.EyeTensor(1), q0, cfg)
	assertQ := singlePairQpre(t, qop.P0(), q0, cfg)
	body := astx.HAssert{Qpre: assertQ}
	hint, _ := buildWhile(t, qop.EyeTensor(1), body, cfg)

	_, err := Transform(scope, cfg, hint, post)
	if err == nil {
		t.Fatalf("expected an invariant-not-inductive proof error")
	}
	pe, ok := err.(*ProofError)
	if !ok {
		t.Fatalf("expected *ProofError, got %T: %v", err, err)
	}
	if pe.Kind != "invariant not inductive" {
		t.Fatalf("expected 'invariant not inductive', got %q", pe.Kind)
	}
	if pe.Witness == nil {
		t.Fatalf("expected a counterexample density witness")
	}
}
