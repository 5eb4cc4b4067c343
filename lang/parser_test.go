package lang

import "testing"

func TestParseSettingAndSave(t *testing.T) {
	src := `
setting EPS := 0.0000001 end
save psi at "psi.bin" end
`
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(mod.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(mod.Commands))
	}
	sc, ok := mod.Commands[0].(SettingCmd)
	if !ok || sc.Key != "EPS" || sc.Value != "0.0000001" {
		t.Fatalf("unexpected setting command: %+v", mod.Commands[0])
	}
	sv, ok := mod.Commands[1].(SaveCmd)
	if !ok || sv.Var != "psi" || sv.Path != "psi.bin" {
		t.Fatalf("unexpected save command: %+v", mod.Commands[1])
	}
}

func TestParseAxiomProgramBody(t *testing.T) {
	src := `axiom bitflip : { P0[q0] } program [q0] : [q0] *= X { P1[q0] } end`
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(mod.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(mod.Commands))
	}
	ax, ok := mod.Commands[0].(AxiomCmd)
	if !ok {
		t.Fatalf("expected AxiomCmd, got %T", mod.Commands[0])
	}
	if ax.Name != "bitflip" {
		t.Fatalf("unexpected name %q", ax.Name)
	}
	if len(ax.Pre.Pairs) != 1 || ax.Pre.Pairs[0].OpName != "P0" {
		t.Fatalf("unexpected pre: %+v", ax.Pre)
	}
	if ax.ProgBody == nil {
		t.Fatalf("expected a program body")
	}
	if len(ax.ProgBody.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(ax.ProgBody.Stmts))
	}
	un, ok := ax.ProgBody.Stmts[0].(UnitaryNode)
	if !ok || un.OpName != "X" || len(un.QVL) != 1 || un.QVL[0] != "q0" {
		t.Fatalf("unexpected unitary node: %+v", ax.ProgBody.Stmts[0])
	}
	if len(ax.Post.Pairs) != 1 || ax.Post.Pairs[0].OpName != "P1" {
		t.Fatalf("unexpected post: %+v", ax.Post)
	}
}

func TestParseAxiomProofBodyWithWhile(t *testing.T) {
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
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	ax, ok := mod.Commands[0].(AxiomCmd)
	if !ok {
		t.Fatalf("expected AxiomCmd, got %T", mod.Commands[0])
	}
	if ax.ProofBody == nil {
		t.Fatalf("expected a proof body")
	}
	if len(ax.ProofBody.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in the proof body, got %d", len(ax.ProofBody.Body.Stmts))
	}
	wn, ok := ax.ProofBody.Body.Stmts[0].(WhileNode)
	if !ok {
		t.Fatalf("expected a WhileNode, got %T", ax.ProofBody.Body.Stmts[0])
	}
	if wn.Invariant == nil || len(wn.Invariant.Pairs) != 1 {
		t.Fatalf("expected an invariant with one pair, got %+v", wn.Invariant)
	}
	if wn.MeaName != "M01" {
		t.Fatalf("unexpected measurement name %q", wn.MeaName)
	}
}

func TestParseChoice(t *testing.T) {
	src := `
def p := program [q0] :
  (skip # [q0] *= X)
end
`
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	def, ok := mod.Commands[0].(DefCmd)
	if !ok {
		t.Fatalf("expected DefCmd, got %T", mod.Commands[0])
	}
	pe, ok := def.Expr.(ProgramExpr)
	if !ok {
		t.Fatalf("expected ProgramExpr, got %T", def.Expr)
	}
	ch, ok := pe.Body.Stmts[0].(ChoiceNode)
	if !ok || len(ch.Alts) != 2 {
		t.Fatalf("unexpected choice node: %+v", pe.Body.Stmts[0])
	}
}

func TestParseErrorOnMissingEnd(t *testing.T) {
	src := `def p := program [q0] : skip`
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected a parse error for an unterminated def")
	}
}
