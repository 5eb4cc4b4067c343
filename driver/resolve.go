package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"nqpv/astx"
	"nqpv/lang"
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/qvar"
)

func resolveQVL(names []string) (qvar.QVL, error) {
	qvl, err := qvar.NewQVL(names)
	if err != nil {
		return qvar.QVL{}, fmt.Errorf("driver: %w", err)
	}
	return qvl, nil
}

func (ev *evaluator) lookupOp(name string) (*qop.Tensor, error) {
	v, ok := ev.scope.Lookup(name)
	if !ok || v.Op == nil {
		return nil, fmt.Errorf("driver: undefined operator %q", name)
	}
	return v.Op, nil
}

// resolveMea resolves a measurement name and its acting qubit list into an
// astx.Mea.
func (ev *evaluator) resolveMea(name string, qvlNames []string) (astx.Mea, error) {
	v, ok := ev.scope.Lookup(name)
	if !ok || v.Mea == nil {
		return astx.Mea{}, fmt.Errorf("driver: undefined measurement %q", name)
	}
	qvl, err := resolveQVL(qvlNames)
	if err != nil {
		return astx.Mea{}, err
	}
	return astx.Mea{Op: v.Mea, Vars: qvl}, nil
}

func (ev *evaluator) resolvePair(opName string, qvlNames []string) (qop.Pair, error) {
	op, err := ev.lookupOp(opName)
	if err != nil {
		return qop.Pair{}, err
	}
	qvl, err := resolveQVL(qvlNames)
	if err != nil {
		return qop.Pair{}, err
	}
	pair, err := qop.NewPair(op, qvl)
	if err != nil {
		return qop.Pair{}, fmt.Errorf("driver: %w", err)
	}
	return pair, nil
}

func (ev *evaluator) resolvePairSet(ps lang.PairSet) (qpre.Qpre, error) {
	pairs := make([]qop.Pair, 0, len(ps.Pairs))
	for _, pn := range ps.Pairs {
		pair, err := ev.resolvePair(pn.OpName, pn.QVL)
		if err != nil {
			return qpre.Qpre{}, err
		}
		pairs = append(pairs, pair)
	}
	q, err := qpre.New(pairs, ev.cfg.EPS, ev.cfg.IdenticalVarCheck)
	if err != nil {
		return qpre.Qpre{}, fmt.Errorf("driver: %w", err)
	}
	return q, nil
}

// resolveProg lowers a parsed statement sequence into a plain astx.Prog,
// rejecting the proof-hint-only constructs (assert, union). A bare
// program's while carries no invariant at all, so WhileNode.Invariant must
// be nil; a while written with an invariant is rejected by resolveProgStmt,
// not by the grammar.
func (ev *evaluator) resolveProg(seq lang.SeqNode) (astx.Prog, error) {
	stmts := make([]astx.Prog, 0, len(seq.Stmts))
	for _, s := range seq.Stmts {
		p, err := ev.resolveProgStmt(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, p)
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return astx.NewSeq(toPos(seq.Pos), stmts), nil
}

func (ev *evaluator) resolveProgStmt(s lang.StmtNode) (astx.Prog, error) {
	switch n := s.(type) {
	case lang.SkipNode:
		return astx.NewSkip(toPos(n.Pos)), nil
	case lang.AbortNode:
		return astx.NewAbort(toPos(n.Pos)), nil
	case lang.InitNode:
		qvl, err := resolveQVL(n.QVL)
		if err != nil {
			return nil, err
		}
		return astx.NewInit(toPos(n.Pos), qvl), nil
	case lang.UnitaryNode:
		pair, err := ev.resolvePair(n.OpName, n.QVL)
		if err != nil {
			return nil, err
		}
		return astx.NewUnitary(toPos(n.Pos), pair), nil
	case lang.IfNode:
		mea, err := ev.resolveMea(n.MeaName, n.QVL)
		if err != nil {
			return nil, err
		}
		then, err := ev.resolveProg(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := ev.resolveProg(n.Else)
		if err != nil {
			return nil, err
		}
		return astx.NewIf(toPos(n.Pos), mea, then, els), nil
	case lang.WhileNode:
		if n.Invariant != nil {
			return nil, fmt.Errorf("driver: a plain program's while cannot carry an invariant annotation at %s; use a proof expression", n.Pos)
		}
		mea, err := ev.resolveMea(n.MeaName, n.QVL)
		if err != nil {
			return nil, err
		}
		body, err := ev.resolveProg(n.Body)
		if err != nil {
			return nil, err
		}
		return astx.NewWhile(toPos(n.Pos), mea, body), nil
	case lang.ChoiceNode:
		alts := make([]astx.Prog, 0, len(n.Alts))
		for _, a := range n.Alts {
			p, err := ev.resolveProg(a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, p)
		}
		return astx.NewChoice(toPos(n.Pos), alts), nil
	case lang.AssertNode:
		return nil, fmt.Errorf("driver: an assertion at %s is only valid inside a proof hint, not a plain program", n.Pos)
	case lang.UnionNode:
		return nil, fmt.Errorf("driver: (union) at %s is only valid inside a proof hint, not a plain program", n.Pos)
	default:
		return nil, fmt.Errorf("driver: unhandled statement %T", s)
	}
}

// resolveHint lowers a parsed statement sequence into an astx.Hint,
// additionally accepting assert and union.
func (ev *evaluator) resolveHint(seq lang.SeqNode) (astx.Hint, error) {
	stmts := make([]astx.Hint, 0, len(seq.Stmts))
	for _, s := range seq.Stmts {
		h, err := ev.resolveHintStmt(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, h)
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return astx.NewHSeq(toPos(seq.Pos), stmts), nil
}

func (ev *evaluator) resolveHintStmt(s lang.StmtNode) (astx.Hint, error) {
	switch n := s.(type) {
	case lang.SkipNode:
		return astx.NewHSkip(toPos(n.Pos)), nil
	case lang.AbortNode:
		return astx.NewHAbort(toPos(n.Pos)), nil
	case lang.InitNode:
		qvl, err := resolveQVL(n.QVL)
		if err != nil {
			return nil, err
		}
		return astx.NewHInit(toPos(n.Pos), qvl), nil
	case lang.UnitaryNode:
		pair, err := ev.resolvePair(n.OpName, n.QVL)
		if err != nil {
			return nil, err
		}
		return astx.NewHUnitary(toPos(n.Pos), pair), nil
	case lang.IfNode:
		mea, err := ev.resolveMea(n.MeaName, n.QVL)
		if err != nil {
			return nil, err
		}
		then, err := ev.resolveHint(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := ev.resolveHint(n.Else)
		if err != nil {
			return nil, err
		}
		return astx.NewHIf(toPos(n.Pos), mea, then, els), nil
	case lang.WhileNode:
		if n.Invariant == nil {
			return nil, fmt.Errorf("driver: a while loop at %s in a proof hint requires an explicit {inv: ...} invariant", n.Pos)
		}
		inv, err := ev.resolvePairSet(*n.Invariant)
		if err != nil {
			return nil, err
		}
		mea, err := ev.resolveMea(n.MeaName, n.QVL)
		if err != nil {
			return nil, err
		}
		body, err := ev.resolveHint(n.Body)
		if err != nil {
			return nil, err
		}
		return astx.NewHWhile(toPos(n.Pos), mea, inv, body), nil
	case lang.ChoiceNode:
		alts := make([]astx.Hint, 0, len(n.Alts))
		for _, a := range n.Alts {
			h, err := ev.resolveHint(a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, h)
		}
		return astx.NewHChoice(toPos(n.Pos), alts), nil
	case lang.UnionNode:
		alts := make([]astx.Hint, 0, len(n.Alts))
		for _, a := range n.Alts {
			h, err := ev.resolveHint(a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, h)
		}
		return astx.NewHUnion(toPos(n.Pos), alts), nil
	case lang.AssertNode:
		q, err := ev.resolvePairSet(n.Pairs)
		if err != nil {
			return nil, err
		}
		return astx.NewHAssert(toPos(n.Pos), q), nil
	default:
		return nil, fmt.Errorf("driver: unhandled statement %T", s)
	}
}

// liftProgToHint promotes a while-free program directly into a hint with
// no extra annotation, for an axiom declared over a bare `program` body
// (spec.md §6's "program <qvls> <post>" instantiation of the axiom
// command — see DESIGN.md). A while node has no invariant to carry, so it
// is rejected rather than silently treated as an un-provable loop.
func liftProgToHint(p astx.Prog) (astx.Hint, error) {
	switch n := p.(type) {
	case astx.Skip:
		return astx.NewHSkip(n.Pos()), nil
	case astx.Abort:
		return astx.NewHAbort(n.Pos()), nil
	case astx.Init:
		return astx.NewHInit(n.Pos(), n.Vars), nil
	case astx.Unitary:
		return astx.NewHUnitary(n.Pos(), n.Op), nil
	case astx.If:
		then, err := liftProgToHint(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := liftProgToHint(n.Else)
		if err != nil {
			return nil, err
		}
		return astx.NewHIf(n.Pos(), n.Mea, then, els), nil
	case astx.While:
		return nil, fmt.Errorf("driver: while loop at %s has no invariant; axioms over a bare program cannot cover loops, declare a proof instead", n.Pos())
	case astx.Choice:
		alts := make([]astx.Hint, 0, len(n.Alts))
		for _, a := range n.Alts {
			h, err := liftProgToHint(a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, h)
		}
		return astx.NewHChoice(n.Pos(), alts), nil
	case astx.Seq:
		stmts := make([]astx.Hint, 0, len(n.Stmts))
		for _, a := range n.Stmts {
			h, err := liftProgToHint(a)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, h)
		}
		return astx.NewHSeq(n.Pos(), stmts), nil
	default:
		return nil, fmt.Errorf("driver: unhandled program node %T", p)
	}
}

func (ev *evaluator) evalExpr(expr lang.Expr) (binding, error) {
	switch e := expr.(type) {
	case lang.ScopeExpr:
		return ev.evalScopeExpr(e)
	case lang.LoadExpr:
		t, err := ev.loader.Load(e.Path)
		if err != nil {
			return binding{}, err
		}
		return binding{Op: t}, nil
	case lang.ImportExpr:
		return ev.evalImportExpr(e)
	case lang.ProgramExpr:
		qvl, err := resolveQVL(e.QVL)
		if err != nil {
			return binding{}, err
		}
		prog, err := ev.resolveProg(e.Body)
		if err != nil {
			return binding{}, err
		}
		return binding{Prog: prog, ProgQVL: qvl}, nil
	case lang.ProofExpr:
		qvl, err := resolveQVL(e.QVL)
		if err != nil {
			return binding{}, err
		}
		pre, err := ev.resolvePairSet(e.Pre)
		if err != nil {
			return binding{}, err
		}
		hint, err := ev.resolveHint(e.Body)
		if err != nil {
			return binding{}, err
		}
		post, err := ev.resolvePairSet(e.Post)
		if err != nil {
			return binding{}, err
		}
		return binding{Proof: &proofResult{QVL: qvl, Pre: pre, Hint: hint, Post: post}}, nil
	case lang.IdentExpr:
		if b, ok := ev.defs[e.Name]; ok {
			return b, nil
		}
		if v, ok := ev.scope.Lookup(e.Name); ok {
			return binding{Op: v.Op, Mea: v.Mea}, nil
		}
		return binding{}, fmt.Errorf("driver: undefined identifier %q", e.Name)
	default:
		return binding{}, fmt.Errorf("driver: unhandled expression %T", expr)
	}
}

// evalScopeExpr evaluates a `scope { ... }` expression into a fresh child
// scope (opstore.Scope.NewChild, spec.md §4.2).
func (ev *evaluator) evalScopeExpr(e lang.ScopeExpr) (binding, error) {
	child := ev.scope.NewChild(fmt.Sprintf("scope@%s", e.Pos))
	childEval := &evaluator{
		scope:  child,
		defs:   make(map[string]binding),
		cfg:    ev.cfg,
		log:    ev.log,
		loader: ev.loader,
		dir:    ev.dir,
	}
	for _, c := range e.Commands {
		res := childEval.evalCommand(c)
		if !res.OK {
			childEval.log.Channel("driver").Error().
				Str("command", res.Command).
				Str("kind", res.ErrKind).
				Msg(res.ErrMsg)
		}
	}
	return binding{Scope: child}, nil
}

// evalImportExpr evaluates another module file's commands into the current
// scope, the way opstore.Scope.Inject bulk-copies a sibling scope's
// bindings — here the source is a file instead of an already-evaluated
// scope (spec.md §6 does not fix whether import merges into the caller or
// produces a standalone value; merging into the caller matches its
// "import" naming closer than a side-effect-free load would — see
// DESIGN.md).
func (ev *evaluator) evalImportExpr(e lang.ImportExpr) (binding, error) {
	full := filepath.Join(ev.dir, e.Path)
	data, err := os.ReadFile(full)
	if err != nil {
		return binding{}, fmt.Errorf("driver: %w", err)
	}
	mod, err := lang.Parse(string(data))
	if err != nil {
		return binding{}, err
	}
	for _, c := range mod.Commands {
		res := ev.evalCommand(c)
		if !res.OK {
			ev.log.Channel("driver").Error().
				Str("command", res.Command).
				Str("kind", res.ErrKind).
				Msg(res.ErrMsg)
		}
	}
	return binding{}, nil
}
