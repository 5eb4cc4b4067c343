package driver

import (
	"os"
	"path/filepath"
	"testing"

	"nqpv/report"
	"nqpv/settings"
)

func verifyString(t *testing.T, src string) *report.Report {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.nqpv")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	rep, err := Verify(path, settings.Default())
	if err != nil {
		t.Fatalf("Verify returned an error: %v", err)
	}
	return rep
}

func TestVerifySkipTrivialAxiomHolds(t *testing.T) {
	rep := verifyString(t, `axiom triv : { I[q0] } program [q0] : skip { I[q0] } end`)
	if !rep.Holds() {
		t.Fatalf("expected the trivial skip axiom to hold")
	}
}

func TestVerifyUnitaryPreconditionTooStrongFails(t *testing.T) {
	rep := verifyString(t, `axiom toostrong : { P0[q0] } program [q0] : [q0] *= X { P0[q0] } end`)
	if rep.Holds() {
		t.Fatalf("expected the over-strong precondition axiom to fail")
	}
}

func TestVerifyProofExpressionWithInvariant(t *testing.T) {
	src := `
axiom loopy : { I[q0] }
proof [q0] :
  { I[q0] } ;
  while { inv: I[q0] } M01[q0] do
    { I[q0] }
  end
  { I[q0] }
end
`
	rep := verifyString(t, src)
	if !rep.Holds() {
		t.Fatalf("expected the invariant-annotated loop axiom to hold")
	}
}

// TestVerifyInitThenFlipHolds is an S1-style (Deutsch-like) scenario:
// resetting a qubit to |0⟩ and flipping it with X always lands in |1⟩, so
// the precondition pulled back through the reset is the full space, I.
func TestVerifyInitThenFlipHolds(t *testing.T) {
	src := `axiom resetflip : { I[q0] } program [q0] : [q0] := 0 ; [q0] *= X { P1[q0] } end`
	rep := verifyString(t, src)
	if !rep.Holds() {
		t.Fatalf("expected reset-then-flip to guarantee P1, got a failing verdict")
	}
}

// TestVerifyInitCannotGuaranteeOne catches the reset-Kraus regression
// directly: a bare reset can never land in |1⟩, so no precondition —
// including P1 itself — can make `{P} [q0]:=0 {P1[q0]}` hold. Before the
// fix HermitianInit used |1⟩⟨1| (a projector) instead of |1⟩⟨0|, which made
// the pulled-back precondition equal P1[q0] and this axiom wrongly hold.
func TestVerifyInitCannotGuaranteeOne(t *testing.T) {
	src := `axiom resetonly : { P1[q0] } program [q0] : [q0] := 0 { P1[q0] } end`
	rep := verifyString(t, src)
	if rep.Holds() {
		t.Fatalf("expected a bare reset to never guarantee P1, regardless of the given precondition")
	}
}

func TestVerifyAxiomOverBareProgramRejectsWhile(t *testing.T) {
	src := `axiom badloop : { I[q0] } program [q0] : while M01[q0] do skip end { I[q0] } end`
	rep := verifyString(t, src)
	if rep.Holds() {
		t.Fatalf("expected the bare-program while loop to fail (no invariant to cover it)")
	}
}

func TestVerifyParseErrorSurfacesAsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.nqpv")
	if err := os.WriteFile(path, []byte(`axiom nope :`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(path, settings.Default()); err == nil {
		t.Fatalf("expected a parse error for a truncated axiom")
	}
}
