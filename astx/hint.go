package astx

import (
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/qvar"
)

// Hint is the proof-hint sum type of spec.md §3: it mirrors Prog and adds
// assert(Qpre) and union(P1..Pk); while additionally carries a loop
// invariant Qpre.
type Hint interface {
	hintNode()
	Pos() Pos
	AllQVarls() qvar.QVL
}

// The New* constructors below are the only way another package can give a
// Hint node a position, since base's embedded position field is unexported;
// a node literal built outside this package has the zero position.

func NewHSkip(pos Pos) HSkip   { return HSkip{base{P: pos}} }
func NewHAbort(pos Pos) HAbort { return HAbort{base{P: pos}} }
func NewHInit(pos Pos, vars qvar.QVL) HInit {
	return HInit{base: base{P: pos}, Vars: vars}
}
func NewHUnitary(pos Pos, op qop.Pair) HUnitary {
	return HUnitary{base: base{P: pos}, Op: op}
}
func NewHIf(pos Pos, mea Mea, then, els Hint) HIf {
	return HIf{base: base{P: pos}, Mea: mea, Then: then, Else: els}
}
func NewHWhile(pos Pos, mea Mea, invariant qpre.Qpre, body Hint) HWhile {
	return HWhile{base: base{P: pos}, Mea: mea, Invariant: invariant, Body: body}
}
func NewHChoice(pos Pos, alts []Hint) HChoice {
	return HChoice{base: base{P: pos}, Alts: alts}
}
func NewHSeq(pos Pos, stmts []Hint) HSeq {
	return HSeq{base: base{P: pos}, Stmts: stmts}
}
func NewHAssert(pos Pos, q qpre.Qpre) HAssert {
	return HAssert{base: base{P: pos}, Qpre: q}
}
func NewHUnion(pos Pos, alts []Hint) HUnion {
	return HUnion{base: base{P: pos}, Alts: alts}
}

type HSkip struct{ base }

func (HSkip) hintNode() {}
func (HSkip) AllQVarls() qvar.QVL { return qvar.QVL{} }

type HAbort struct{ base }

func (HAbort) hintNode() {}
func (HAbort) AllQVarls() qvar.QVL { return qvar.QVL{} }

type HInit struct {
	base
	Vars qvar.QVL
}

func (HInit) hintNode() {}
func (n HInit) AllQVarls() qvar.QVL { return n.Vars }

type HUnitary struct {
	base
	Op qop.Pair
}

func (HUnitary) hintNode() {}
func (n HUnitary) AllQVarls() qvar.QVL { return n.Op.Vars }

type HIf struct {
	base
	Mea        Mea
	Then, Else Hint
}

func (HIf) hintNode() {}
func (n HIf) AllQVarls() qvar.QVL {
	return qvar.Join(qvar.Join(n.Mea.Vars, n.Then.AllQVarls()), n.Else.AllQVarls())
}

// HWhile carries the user-supplied loop invariant that the WLP transformer
// must check for inductiveness (spec.md §4.4).
type HWhile struct {
	base
	Mea       Mea
	Invariant qpre.Qpre
	Body      Hint
}

func (HWhile) hintNode() {}
func (n HWhile) AllQVarls() qvar.QVL {
	return qvar.Join(qvar.Join(n.Mea.Vars, n.Invariant.AllQVarls()), n.Body.AllQVarls())
}

type HChoice struct {
	base
	Alts []Hint
}

func (HChoice) hintNode() {}
func (n HChoice) AllQVarls() qvar.QVL {
	acc := qvar.QVL{}
	for _, a := range n.Alts {
		acc = qvar.Join(acc, a.AllQVarls())
	}
	return acc
}

type HSeq struct {
	base
	Stmts []Hint
}

func (HSeq) hintNode() {}
func (n HSeq) AllQVarls() qvar.QVL {
	acc := qvar.QVL{}
	for _, s := range n.Stmts {
		acc = qvar.Join(acc, s.AllQVarls())
	}
	return acc
}

// HAssert is a bracketed `{ ... }` pre/post-condition hint.
type HAssert struct {
	base
	Qpre qpre.Qpre
}

func (HAssert) hintNode() {}
func (n HAssert) AllQVarls() qvar.QVL { return n.Qpre.AllQVarls() }

// HUnion is the `(P1, P2, ...)` (Union) composition: several proofs of the
// same underlying program, composed by set union on preconditions.
type HUnion struct {
	base
	Alts []Hint
}

func (HUnion) hintNode() {}
func (n HUnion) AllQVarls() qvar.QVL {
	acc := qvar.QVL{}
	for _, a := range n.Alts {
		acc = qvar.Join(acc, a.AllQVarls())
	}
	return acc
}
