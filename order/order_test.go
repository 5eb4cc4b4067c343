package order

import (
	"testing"

	"nqpv/opstore"
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/qvar"
	"nqpv/settings"
)

func oneQubitQpre(t *testing.T, op *qop.Tensor, name string) qpre.Qpre {
	t.Helper()
	v, err := qvar.NewQVL([]string{name})
	if err != nil {
		t.Fatal(err)
	}
	p, err := qop.NewPair(op, v)
	if err != nil {
		t.Fatal(err)
	}
	q, err := qpre.New([]qop.Pair{p}, settings.Default().EPS, false)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

// TestReflexive is spec.md §8 property 4.
func TestReflexive(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	q := oneQubitQpre(t, qop.EyeTensor(1), "q0")
	res, err := Sqsubseteq(scope, q, q, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Holds {
		t.Fatalf("Qpre should be reflexive under ⊑")
	}
}

// TestPrefixTooStrong mirrors spec.md §8 scenario S6: P0 ⋢ P1 must fail with
// a witness.
func TestPrefixTooStrong(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	p0 := oneQubitQpre(t, qop.P0(), "q0")
	p1 := oneQubitQpre(t, qop.P1(), "q0")
	res, err := Sqsubseteq(scope, p0, p1, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Holds {
		t.Fatalf("P0 should not be refined by P1")
	}
	if res.Witness == nil {
		t.Fatalf("expected a counterexample witness")
	}
}

func TestIdentityDominatesProjector(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	p0 := oneQubitQpre(t, qop.P0(), "q0")
	id := oneQubitQpre(t, qop.EyeTensor(1), "q0")
	res, err := Sqsubseteq(scope, p0, id, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Holds {
		t.Fatalf("P0 ⊑ I should hold")
	}
}

// TestSetSDPPath exercises |A| > 1 against a dominating B.
func TestSetSDPPath(t *testing.T) {
	cfg := settings.Default()
	scope := opstore.NewRoot("root")
	v, _ := qvar.NewQVL([]string{"q0"})
	p0p, _ := qop.NewPair(qop.P0(), v)
	p1p, _ := qop.NewPair(qop.P1(), v)
	a, err := qpre.New([]qop.Pair{p0p, p1p}, cfg.EPS, false)
	if err != nil {
		t.Fatal(err)
	}
	id := oneQubitQpre(t, qop.EyeTensor(1), "q0")
	res, err := Sqsubseteq(scope, a, id, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Holds {
		t.Fatalf("{P0,P1} ⊑ I should hold (each disjunct is dominated by I)")
	}
}
