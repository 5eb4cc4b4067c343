// Package wlp implements the backward weakest-liberal-precondition transform
// of spec.md §4.4: given a proof hint and a postcondition, it produces an
// annotated proof statement whose every node carries the Qpre it was built
// from and computed, appending every fresh operator it builds to the scope
// it is threaded through (spec.md §4.2, §5).
package wlp

import (
	"fmt"

	"nqpv/astx"
	"nqpv/opstore"
	"nqpv/order"
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/qvar"
	"nqpv/settings"
)

// Transform is the entry point: pre(hint, post) under scope and cfg.
func Transform(scope *opstore.Scope, cfg settings.Settings, hint astx.Hint, post qpre.Qpre) (astx.Stmt, error) {
	t := &transformer{scope: scope, cfg: cfg}
	return t.wlp(hint, post)
}

type transformer struct {
	scope *opstore.Scope
	cfg   settings.Settings
}

func (t *transformer) newQpre(pairs []qop.Pair) (qpre.Qpre, error) {
	return qpre.New(pairs, t.cfg.EPS, t.cfg.IdenticalVarCheck)
}

func (t *transformer) remember(op *qop.Tensor) {
	t.scope.Append(opstore.Value{Op: op}, t.cfg.EPS, t.cfg.IdenticalVarCheck)
}

func (t *transformer) wlp(hint astx.Hint, post qpre.Qpre) (astx.Stmt, error) {
	switch h := hint.(type) {
	case astx.HSkip:
		return t.wlpSkip(h, post)
	case astx.HAbort:
		return t.wlpAbort(h, post)
	case astx.HInit:
		return t.wlpInit(h, post)
	case astx.HUnitary:
		return t.wlpUnitary(h, post)
	case astx.HIf:
		return t.wlpIf(h, post)
	case astx.HWhile:
		return t.wlpWhile(h, post)
	case astx.HChoice:
		return t.wlpChoice(h, post)
	case astx.HSeq:
		return t.wlpSeq(h, post)
	case astx.HAssert:
		return t.wlpAssert(h, post)
	case astx.HUnion:
		return t.wlpUnion(h, post)
	default:
		return nil, fmt.Errorf("wlp: unsupported hint node %T", hint)
	}
}

// skip: pre = Q.
func (t *transformer) wlpSkip(h astx.HSkip, post qpre.Qpre) (astx.Stmt, error) {
	return astx.SSkip{Ann: astx.NewAnn(h.Pos(), post, post)}, nil
}

// abort: pre = { I_top } over all_qvarls(Q).
func (t *transformer) wlpAbort(h astx.HAbort, post qpre.Qpre) (astx.Stmt, error) {
	allv := post.AllQVarls()
	id := qop.EyeTensor(allv.Len())
	pair, err := qop.NewPair(id, allv)
	if err != nil {
		return nil, err
	}
	pre, err := t.newQpre([]qop.Pair{pair})
	if err != nil {
		return nil, err
	}
	t.remember(id)
	return astx.SAbort{Ann: astx.NewAnn(h.Pos(), pre, post)}, nil
}

// init(V): for every (H, ql) in Q, emit (hermitian_init(ql, H, V), ql).
func (t *transformer) wlpInit(h astx.HInit, post qpre.Qpre) (astx.Stmt, error) {
	pairs := make([]qop.Pair, 0, post.Len())
	for _, p := range post.Pairs() {
		h2, err := qop.HermitianInit(p.Vars, p.Op, h.Vars)
		if err != nil {
			return nil, err
		}
		np, err := qop.NewPair(h2, p.Vars)
		if err != nil {
			return nil, err
		}
		t.remember(h2)
		pairs = append(pairs, np)
	}
	pre, err := t.newQpre(pairs)
	if err != nil {
		return nil, err
	}
	return astx.SInit{Ann: astx.NewAnn(h.Pos(), pre, post), Vars: h.Vars}, nil
}

// unitary(U@V): for every (H, ql) in Q, emit (hermitian_contract(ql, H, V, U†), ql).
func (t *transformer) wlpUnitary(h astx.HUnitary, post qpre.Qpre) (astx.Stmt, error) {
	udag := qop.Dagger(h.Op.Op)
	pairs := make([]qop.Pair, 0, post.Len())
	for _, p := range post.Pairs() {
		h2, err := qop.HermitianContract(p.Op, p.Vars, h.Op.Vars, udag)
		if err != nil {
			return nil, err
		}
		np, err := qop.NewPair(h2, p.Vars)
		if err != nil {
			return nil, err
		}
		t.remember(h2)
		pairs = append(pairs, np)
	}
	pre, err := t.newQpre(pairs)
	if err != nil {
		return nil, err
	}
	return astx.SUnitary{Ann: astx.NewAnn(h.Pos(), pre, post), Op: h.Op}, nil
}

// if(mea@V, P1, P0): (Union)-broken across |post| > 1, then the core
// cross-product rule of spec.md §4.4.
func (t *transformer) wlpIf(h astx.HIf, post qpre.Qpre) (astx.Stmt, error) {
	if post.Len() > 1 {
		return t.unionBreakIf(h, post)
	}
	return t.wlpIfCore(h, post)
}

func (t *transformer) unionBreakIf(h astx.HIf, post qpre.Qpre) (astx.Stmt, error) {
	alts := make([]astx.Stmt, 0, post.Len())
	var prePairs []qop.Pair
	for _, p := range post.Pairs() {
		singleton, err := t.newQpre([]qop.Pair{p})
		if err != nil {
			return nil, err
		}
		sub, err := t.wlpIfCore(h, singleton)
		if err != nil {
			return nil, err
		}
		alts = append(alts, sub)
		subPre, _ := sub.PrePost()
		prePairs = append(prePairs, subPre.Pairs()...)
	}
	pre, err := t.newQpre(prePairs)
	if err != nil {
		return nil, err
	}
	return astx.SUnion{Ann: astx.NewAnn(h.Pos(), pre, post), Alts: alts}, nil
}

func (t *transformer) wlpIfCore(h astx.HIf, post qpre.Qpre) (astx.Stmt, error) {
	thenStmt, err := t.wlp(h.Then, post)
	if err != nil {
		return nil, err
	}
	elseStmt, err := t.wlp(h.Else, post)
	if err != nil {
		return nil, err
	}
	pre1, _ := thenStmt.PrePost()
	pre0, _ := elseStmt.PrePost()

	var pairs []qop.Pair
	for _, p0 := range pre0.Pairs() {
		for _, p1 := range pre1.Pairs() {
			sum, err := t.contractAndAdd(p0, h.Mea.Vars, h.Mea.Op.M0, p1, h.Mea.Op.M1)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, sum)
		}
	}
	pre, err := t.newQpre(pairs)
	if err != nil {
		return nil, err
	}
	return astx.SIf{Ann: astx.NewAnn(h.Pos(), pre, post), Mea: h.Mea, Then: thenStmt, Else: elseStmt}, nil
}

// contractAndAdd computes contract(p0.ql, p0.H, v, m0) + contract(p1.ql,
// p1.H, v, m1), the shared core of the if and while rules, registering both
// contracted terms and their sum in the scope.
func (t *transformer) contractAndAdd(p0 qop.Pair, v qvar.QVL, m0 *qop.Tensor, p1 qop.Pair, m1 *qop.Tensor) (qop.Pair, error) {
	c0, err := qop.HermitianContract(p0.Op, p0.Vars, v, m0)
	if err != nil {
		return qop.Pair{}, err
	}
	c1, err := qop.HermitianContract(p1.Op, p1.Vars, v, m1)
	if err != nil {
		return qop.Pair{}, err
	}
	t.remember(c0)
	t.remember(c1)
	pair0, err := qop.NewPair(c0, p0.Vars)
	if err != nil {
		return qop.Pair{}, err
	}
	pair1, err := qop.NewPair(c1, p1.Vars)
	if err != nil {
		return qop.Pair{}, err
	}
	sum, err := qop.AddHermitian(pair0, pair1)
	if err != nil {
		return qop.Pair{}, err
	}
	t.remember(sum.Op)
	return sum, nil
}

// while(inv, mea@V, body): (Union)-broken across |post| > 1, then the core
// rule of spec.md §4.4: form the proposed precondition Q' from Q and inv
// across the measurement's two outcomes, recurse into body with Q' as its
// postcondition, and check inv ⊑ wlp(body, Q') (spec.md §9's corrected
// invariant rule, not inv ⊑ Q').
func (t *transformer) wlpWhile(h astx.HWhile, post qpre.Qpre) (astx.Stmt, error) {
	if post.Len() > 1 {
		return t.unionBreakWhile(h, post)
	}
	return t.wlpWhileCore(h, post)
}

func (t *transformer) unionBreakWhile(h astx.HWhile, post qpre.Qpre) (astx.Stmt, error) {
	alts := make([]astx.Stmt, 0, post.Len())
	var prePairs []qop.Pair
	for _, p := range post.Pairs() {
		singleton, err := t.newQpre([]qop.Pair{p})
		if err != nil {
			return nil, err
		}
		sub, err := t.wlpWhileCore(h, singleton)
		if err != nil {
			return nil, err
		}
		alts = append(alts, sub)
		subPre, _ := sub.PrePost()
		prePairs = append(prePairs, subPre.Pairs()...)
	}
	pre, err := t.newQpre(prePairs)
	if err != nil {
		return nil, err
	}
	return astx.SUnion{Ann: astx.NewAnn(h.Pos(), pre, post), Alts: alts}, nil
}

func (t *transformer) wlpWhileCore(h astx.HWhile, post qpre.Qpre) (astx.Stmt, error) {
	var proposed []qop.Pair
	for _, q := range post.Pairs() {
		for _, iv := range h.Invariant.Pairs() {
			sum, err := t.contractAndAdd(q, h.Mea.Vars, h.Mea.Op.M0, iv, h.Mea.Op.M1)
			if err != nil {
				return nil, err
			}
			proposed = append(proposed, sum)
		}
	}
	qprime, err := t.newQpre(proposed)
	if err != nil {
		return nil, err
	}
	bodyStmt, err := t.wlp(h.Body, qprime)
	if err != nil {
		return nil, err
	}
	preBody, _ := bodyStmt.PrePost()
	res, err := order.Sqsubseteq(t.scope, h.Invariant, preBody, t.cfg)
	if err != nil {
		return nil, err
	}
	if !res.Holds {
		return nil, &ProofError{Kind: "invariant not inductive", Pos: h.Pos(), Witness: res.Witness}
	}
	return astx.SWhile{Ann: astx.NewAnn(h.Pos(), qprime, post), Mea: h.Mea, Invariant: h.Invariant, Body: bodyStmt}, nil
}

// choice(P1,...,Pk): union of wlp(Pi, Q).
func (t *transformer) wlpChoice(h astx.HChoice, post qpre.Qpre) (astx.Stmt, error) {
	alts := make([]astx.Stmt, len(h.Alts))
	var prePairs []qop.Pair
	for i, a := range h.Alts {
		s, err := t.wlp(a, post)
		if err != nil {
			return nil, err
		}
		alts[i] = s
		pre, _ := s.PrePost()
		prePairs = append(prePairs, pre.Pairs()...)
	}
	pre, err := t.newQpre(prePairs)
	if err != nil {
		return nil, err
	}
	return astx.SChoice{Ann: astx.NewAnn(h.Pos(), pre, post), Alts: alts}, nil
}

// seq(pi1;...;pim): standard backward composition.
func (t *transformer) wlpSeq(h astx.HSeq, post qpre.Qpre) (astx.Stmt, error) {
	n := len(h.Stmts)
	stmts := make([]astx.Stmt, n)
	cur := post
	for i := n - 1; i >= 0; i-- {
		s, err := t.wlp(h.Stmts[i], cur)
		if err != nil {
			return nil, err
		}
		stmts[i] = s
		cur, _ = s.PrePost()
	}
	return astx.SSeq{Ann: astx.NewAnn(h.Pos(), cur, post), Stmts: stmts}, nil
}

// assert(Q'): require Q' ⊑ Q; if it holds, Q' is returned as pre.
func (t *transformer) wlpAssert(h astx.HAssert, post qpre.Qpre) (astx.Stmt, error) {
	res, err := order.Sqsubseteq(t.scope, h.Qpre, post, t.cfg)
	if err != nil {
		return nil, err
	}
	if !res.Holds {
		return nil, &ProofError{Kind: "assertion not entailed by the downstream postcondition", Pos: h.Pos(), Witness: res.Witness}
	}
	return astx.SAssert{Ann: astx.NewAnn(h.Pos(), h.Qpre, post)}, nil
}

// union(P1,...,Pk): the Pi are not compared with each other, so branches
// that prove different programs are accepted; each Pi's own
// postcondition is read off its terminating assertion, their union must
// refine Q, and the node's precondition is the union of each pre(Pi, posti).
func (t *transformer) wlpUnion(h astx.HUnion, post qpre.Qpre) (astx.Stmt, error) {
	posts := make([]qpre.Qpre, len(h.Alts))
	var unionPostPairs []qop.Pair
	for i, a := range h.Alts {
		pi, err := terminalPost(a)
		if err != nil {
			return nil, err
		}
		posts[i] = pi
		unionPostPairs = append(unionPostPairs, pi.Pairs()...)
	}
	unionPost, err := t.newQpre(unionPostPairs)
	if err != nil {
		return nil, err
	}
	res, err := order.Sqsubseteq(t.scope, unionPost, post, t.cfg)
	if err != nil {
		return nil, err
	}
	if !res.Holds {
		return nil, &ProofError{Kind: "(union) subproofs disagree with the declared postcondition", Pos: h.Pos(), Witness: res.Witness}
	}

	alts := make([]astx.Stmt, len(h.Alts))
	var prePairs []qop.Pair
	for i, a := range h.Alts {
		s, err := t.wlp(a, posts[i])
		if err != nil {
			return nil, err
		}
		alts[i] = s
		pre, _ := s.PrePost()
		prePairs = append(prePairs, pre.Pairs()...)
	}
	pre, err := t.newQpre(prePairs)
	if err != nil {
		return nil, err
	}
	return astx.SUnion{Ann: astx.NewAnn(h.Pos(), pre, post), Alts: alts}, nil
}

// terminalPost walks to a (Union) branch's last hint and requires it to be
// an assertion, returning the Qpre it asserts — the branch's self-declared
// postcondition (spec.md §4.4: "compute its own post_i from its terminating
// assert").
func terminalPost(h astx.Hint) (qpre.Qpre, error) {
	switch n := h.(type) {
	case astx.HAssert:
		return n.Qpre, nil
	case astx.HSeq:
		if len(n.Stmts) == 0 {
			return qpre.Qpre{}, fmt.Errorf("wlp: empty (union) branch")
		}
		return terminalPost(n.Stmts[len(n.Stmts)-1])
	default:
		return qpre.Qpre{}, fmt.Errorf("wlp: (union) branch does not end in an assertion")
	}
}
