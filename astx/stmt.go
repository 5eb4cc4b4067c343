package astx

import (
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/qvar"
)

// Stmt is the proof statement (spec.md §3 "Proof statement (output)"): the
// Hint structure decorated with a concrete precondition and postcondition at
// every node, produced by a single backward pass (wlp.Transform) and then
// only inspected, never mutated, by the driver.
type Stmt interface {
	stmtNode()
	Pos() Pos
	PrePost() (qpre.Qpre, qpre.Qpre)
}

// Ann carries the annotation every Stmt node has: its computed precondition
// and the postcondition it was built from.
type Ann struct {
	base
	Pre, Post qpre.Qpre
}

func (a Ann) PrePost() (qpre.Qpre, qpre.Qpre) { return a.Pre, a.Post }

// NewAnn builds an Ann at pos. It is the only way another package can give
// an Ann a position, since base's embedded position field is unexported.
func NewAnn(pos Pos, pre, post qpre.Qpre) Ann {
	return Ann{base: base{P: pos}, Pre: pre, Post: post}
}

type SSkip struct{ Ann }

func (SSkip) stmtNode() {}

type SAbort struct{ Ann }

func (SAbort) stmtNode() {}

type SInit struct {
	Ann
	Vars qvar.QVL
}

func (SInit) stmtNode() {}

type SUnitary struct {
	Ann
	Op qop.Pair
}

func (SUnitary) stmtNode() {}

type SIf struct {
	Ann
	Mea        Mea
	Then, Else Stmt
}

func (SIf) stmtNode() {}

type SWhile struct {
	Ann
	Mea       Mea
	Invariant qpre.Qpre
	Body      Stmt
}

func (SWhile) stmtNode() {}

type SChoice struct {
	Ann
	Alts []Stmt
}

func (SChoice) stmtNode() {}

type SSeq struct {
	Ann
	Stmts []Stmt
}

func (SSeq) stmtNode() {}

type SAssert struct{ Ann }

func (SAssert) stmtNode() {}

type SUnion struct {
	Ann
	Alts []Stmt
}

func (SUnion) stmtNode() {}
