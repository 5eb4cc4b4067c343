package astx

import (
	"nqpv/qop"
	"nqpv/qvar"
)

// Mea is a measurement/variable pair (a "mea_ovp" of spec.md §3).
type Mea struct {
	Op   *qop.Measurement
	Vars qvar.QVL
}

// Prog is the program-term sum type of spec.md §3: skip | abort | init(QVL)
// | U(ovp) | if(mea_ovp,S1,S0) | while(mea_ovp,S) | choice(S1..Sk) |
// seq(S1;..;Sk).
type Prog interface {
	progNode()
	Pos() Pos
	// AllQVarls returns the union of every qubit list mentioned anywhere in
	// the term (spec.md §3: "Each term caches its all_qvarls" — computed on
	// demand here rather than cached, since operator-storage/performance
	// optimisation is explicitly out of scope).
	AllQVarls() qvar.QVL
}

type base struct{ P Pos }

func (b base) Pos() Pos { return b.P }

// The New* constructors below are the only way another package can give a
// Prog node a position, since base's embedded position field is unexported;
// a node literal built outside this package has the zero position.

func NewSkip(pos Pos) Skip   { return Skip{base{P: pos}} }
func NewAbort(pos Pos) Abort { return Abort{base{P: pos}} }
func NewInit(pos Pos, vars qvar.QVL) Init {
	return Init{base: base{P: pos}, Vars: vars}
}
func NewUnitary(pos Pos, op qop.Pair) Unitary {
	return Unitary{base: base{P: pos}, Op: op}
}
func NewIf(pos Pos, mea Mea, then, els Prog) If {
	return If{base: base{P: pos}, Mea: mea, Then: then, Else: els}
}
func NewWhile(pos Pos, mea Mea, body Prog) While {
	return While{base: base{P: pos}, Mea: mea, Body: body}
}
func NewChoice(pos Pos, alts []Prog) Choice {
	return Choice{base: base{P: pos}, Alts: alts}
}
func NewSeq(pos Pos, stmts []Prog) Seq {
	return Seq{base: base{P: pos}, Stmts: stmts}
}

type Skip struct{ base }

func (Skip) progNode() {}
func (Skip) AllQVarls() qvar.QVL { return qvar.QVL{} }

type Abort struct{ base }

func (Abort) progNode() {}
func (Abort) AllQVarls() qvar.QVL { return qvar.QVL{} }

type Init struct {
	base
	Vars qvar.QVL
}

func (Init) progNode() {}
func (n Init) AllQVarls() qvar.QVL { return n.Vars }

type Unitary struct {
	base
	Op qop.Pair
}

func (Unitary) progNode() {}
func (n Unitary) AllQVarls() qvar.QVL { return n.Op.Vars }

type If struct {
	base
	Mea        Mea
	Then, Else Prog
}

func (If) progNode() {}
func (n If) AllQVarls() qvar.QVL {
	return qvar.Join(qvar.Join(n.Mea.Vars, n.Then.AllQVarls()), n.Else.AllQVarls())
}

type While struct {
	base
	Mea  Mea
	Body Prog
}

func (While) progNode() {}
func (n While) AllQVarls() qvar.QVL {
	return qvar.Join(n.Mea.Vars, n.Body.AllQVarls())
}

type Choice struct {
	base
	Alts []Prog
}

func (Choice) progNode() {}
func (n Choice) AllQVarls() qvar.QVL {
	acc := qvar.QVL{}
	for _, a := range n.Alts {
		acc = qvar.Join(acc, a.AllQVarls())
	}
	return acc
}

type Seq struct {
	base
	Stmts []Prog
}

func (Seq) progNode() {}
func (n Seq) AllQVarls() qvar.QVL {
	acc := qvar.QVL{}
	for _, s := range n.Stmts {
		acc = qvar.Join(acc, s.AllQVarls())
	}
	return acc
}
