package lang

import "fmt"

// ParseError reports a grammar violation (spec.md §7, "Structural" kind).
type ParseError struct {
	Pos Pos
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("lang: %s: %s", e.Pos, e.Msg) }

// Parse tokenises and parses a whole module source string.
func Parse(src string) (*Module, error) {
	lx := newLexer(src)
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tEOF {
			break
		}
	}
	p := &parser{toks: toks}
	mod, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	return mod, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }
func (p *parser) at(kind tokenKind) bool { return p.toks[p.i].kind == kind }
func (p *parser) atKeyword(kw string) bool {
	t := p.toks[p.i]
	return t.kind == tIdent && t.lit == kw
}

func (p *parser) advance() token {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.peek().pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if !p.at(kind) {
		return token{}, p.errorf("expected %s, got %q", what, p.peek().lit)
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(kw string) (Pos, error) {
	if !p.atKeyword(kw) {
		return Pos{}, p.errorf("expected %q, got %q", kw, p.peek().lit)
	}
	return p.advance().pos, nil
}

func (p *parser) expectIdent(what string) (string, error) {
	if !p.at(tIdent) {
		return "", p.errorf("expected %s, got %q", what, p.peek().lit)
	}
	return p.advance().lit, nil
}

func (p *parser) parseModule() (*Module, error) {
	var cmds []Command
	for !p.at(tEOF) {
		c, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return &Module{Commands: cmds}, nil
}

func (p *parser) parseCommandsUntilRBrace() ([]Command, error) {
	var cmds []Command
	for !p.at(tRBrace) {
		c, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

func (p *parser) parseCommand() (Command, error) {
	t := p.peek()
	if t.kind != tIdent {
		return nil, p.errorf("expected a command keyword, got %q", t.lit)
	}
	switch t.lit {
	case "def":
		pos := p.advance().pos
		name, err := p.expectIdent("a definition name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tAssign, `":="`); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("end"); err != nil {
			return nil, err
		}
		return DefCmd{Pos: pos, Name: name, Expr: expr}, nil

	case "show":
		pos := p.advance().pos
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("end"); err != nil {
			return nil, err
		}
		return ShowCmd{Pos: pos, Expr: expr}, nil

	case "axiom":
		return p.parseAxiom()

	case "setting":
		pos := p.advance().pos
		key, err := p.expectIdent("a setting key")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tAssign, `":="`); err != nil {
			return nil, err
		}
		valTok := p.peek()
		if valTok.kind != tIdent && valTok.kind != tString {
			return nil, p.errorf("expected a setting value, got %q", valTok.lit)
		}
		p.advance()
		if _, err := p.expectKeyword("end"); err != nil {
			return nil, err
		}
		return SettingCmd{Pos: pos, Key: key, Value: valTok.lit}, nil

	case "save":
		pos := p.advance().pos
		varName, err := p.expectIdent("a variable name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("at"); err != nil {
			return nil, err
		}
		pathTok, err := p.expect(tString, "a path string")
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("end"); err != nil {
			return nil, err
		}
		return SaveCmd{Pos: pos, Var: varName, Path: pathTok.lit}, nil

	default:
		return nil, p.errorf("unknown command %q", t.lit)
	}
}

// parseAxiom handles both instantiations of the declared-signature command:
// a bare program with an explicit trailing postcondition, or a full proof
// expression whose postcondition is already embedded.
func (p *parser) parseAxiom() (Command, error) {
	pos := p.advance().pos // "axiom"
	name, err := p.expectIdent("an axiom name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tColon, `":"`); err != nil {
		return nil, err
	}
	pre, err := p.parsePairSet()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tIdent {
		return nil, p.errorf(`expected "program" or "proof", got %q`, t.lit)
	}
	switch t.lit {
	case "program":
		p.advance()
		qvl, err := p.parseQVL()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tColon, `":"`); err != nil {
			return nil, err
		}
		body, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		post, err := p.parsePairSet()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("end"); err != nil {
			return nil, err
		}
		return AxiomCmd{Pos: pos, Name: name, Pre: pre, QVL: qvl, ProgBody: &body, Post: post}, nil

	case "proof":
		p.advance()
		qvl, err := p.parseQVL()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tColon, `":"`); err != nil {
			return nil, err
		}
		ppre, err := p.parsePairSet()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tSemi, `";"`); err != nil {
			return nil, err
		}
		body, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		// No separator between body and post: a generic ";"-separated
		// parseSeq would otherwise swallow the post pairset as just another
		// AssertNode statement, the same way a bare program's trailing post
		// directly follows its body with no separator.
		ppost, err := p.parsePairSet()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("end"); err != nil {
			return nil, err
		}
		pf := &ProofExpr{Pos: pos, QVL: qvl, Pre: ppre, Body: body, Post: ppost}
		return AxiomCmd{Pos: pos, Name: name, Pre: pre, QVL: qvl, ProofBody: pf}, nil

	default:
		return nil, p.errorf(`expected "program" or "proof", got %q`, t.lit)
	}
}

func (p *parser) parseExpr() (Expr, error) {
	t := p.peek()
	if t.kind != tIdent {
		return nil, p.errorf("expected an expression, got %q", t.lit)
	}
	switch t.lit {
	case "scope":
		pos := p.advance().pos
		if _, err := p.expect(tLBrace, "{"); err != nil {
			return nil, err
		}
		cmds, err := p.parseCommandsUntilRBrace()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tRBrace, "}"); err != nil {
			return nil, err
		}
		return ScopeExpr{Pos: pos, Commands: cmds}, nil

	case "load":
		pos := p.advance().pos
		pathTok, err := p.expect(tString, "a path string")
		if err != nil {
			return nil, err
		}
		return LoadExpr{Pos: pos, Path: pathTok.lit}, nil

	case "import":
		pos := p.advance().pos
		pathTok, err := p.expect(tString, "a path string")
		if err != nil {
			return nil, err
		}
		return ImportExpr{Pos: pos, Path: pathTok.lit}, nil

	case "program":
		pos := p.advance().pos
		qvl, err := p.parseQVL()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tColon, `":"`); err != nil {
			return nil, err
		}
		body, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		return ProgramExpr{Pos: pos, QVL: qvl, Body: body}, nil

	case "proof":
		pos := p.advance().pos
		qvl, err := p.parseQVL()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tColon, `":"`); err != nil {
			return nil, err
		}
		pre, err := p.parsePairSet()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tSemi, `";"`); err != nil {
			return nil, err
		}
		body, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		// See the matching comment in parseAxiom: no separator before post.
		post, err := p.parsePairSet()
		if err != nil {
			return nil, err
		}
		return ProofExpr{Pos: pos, QVL: qvl, Pre: pre, Body: body, Post: post}, nil

	default:
		p.advance()
		return IdentExpr{Pos: t.pos, Name: t.lit}, nil
	}
}

func (p *parser) parseQVL() ([]string, error) {
	if _, err := p.expect(tLBracket, "["); err != nil {
		return nil, err
	}
	var names []string
	for !p.at(tRBracket) {
		name, err := p.expectIdent("a qubit variable name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if _, err := p.expect(tRBracket, "]"); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *parser) parsePairSet() (PairSet, error) {
	open, err := p.expect(tLBrace, "{")
	if err != nil {
		return PairSet{}, err
	}
	inv := false
	if p.atKeyword("inv") {
		p.advance()
		if _, err := p.expect(tColon, `":"`); err != nil {
			return PairSet{}, err
		}
		inv = true
	}
	var pairs []PairNode
	for !p.at(tRBrace) {
		opName, err := p.expectIdent("an operator name")
		if err != nil {
			return PairSet{}, err
		}
		qvl, err := p.parseQVL()
		if err != nil {
			return PairSet{}, err
		}
		pairs = append(pairs, PairNode{OpName: opName, QVL: qvl})
	}
	if _, err := p.expect(tRBrace, "}"); err != nil {
		return PairSet{}, err
	}
	return PairSet{Pos: open.pos, Invariant: inv, Pairs: pairs}, nil
}

func (p *parser) parseSeq() (SeqNode, error) {
	startPos := p.peek().pos
	first, err := p.parseStmt()
	if err != nil {
		return SeqNode{}, err
	}
	stmts := []StmtNode{first}
	for p.at(tSemi) {
		p.advance()
		s, err := p.parseStmt()
		if err != nil {
			return SeqNode{}, err
		}
		// An `{ inv: ... }` assertion directly before a while loop that has
		// no invariant of its own becomes that loop's invariant.
		if w, ok := s.(WhileNode); ok && w.Invariant == nil {
			if a, ok := stmts[len(stmts)-1].(AssertNode); ok && a.Pairs.Invariant {
				inv := a.Pairs
				w.Invariant = &inv
				stmts[len(stmts)-1] = w
				continue
			}
		}
		stmts = append(stmts, s)
	}
	return SeqNode{Pos: startPos, Stmts: stmts}, nil
}

func (p *parser) parseStmt() (StmtNode, error) {
	t := p.peek()
	switch {
	case t.kind == tLBrace:
		ps, err := p.parsePairSet()
		if err != nil {
			return nil, err
		}
		return AssertNode{Pos: t.pos, Pairs: ps}, nil

	case t.kind == tLParen:
		return p.parseParenStmt()

	case t.kind == tLBracket:
		return p.parseQVLStmt()

	case t.kind == tIdent && t.lit == "skip":
		p.advance()
		return SkipNode{Pos: t.pos}, nil

	case t.kind == tIdent && t.lit == "abort":
		p.advance()
		return AbortNode{Pos: t.pos}, nil

	case t.kind == tIdent && t.lit == "if":
		return p.parseIf()

	case t.kind == tIdent && t.lit == "while":
		return p.parseWhile()

	default:
		return nil, p.errorf("expected a statement, got %q", t.lit)
	}
}

// parseQVLStmt disambiguates init (`[q] :=0`) from unitary application
// (`[q] *= U`) on the shared qubit-list prefix.
func (p *parser) parseQVLStmt() (StmtNode, error) {
	pos := p.peek().pos
	qvl, err := p.parseQVL()
	if err != nil {
		return nil, err
	}
	switch {
	case p.at(tAssign):
		p.advance()
		zero, err := p.expectIdent(`"0"`)
		if err != nil {
			return nil, err
		}
		if zero != "0" {
			return nil, p.errorf(`expected "0" after ":=", got %q`, zero)
		}
		return InitNode{Pos: pos, QVL: qvl}, nil

	case p.at(tMulAssign):
		p.advance()
		opName, err := p.expectIdent("an operator name")
		if err != nil {
			return nil, err
		}
		return UnitaryNode{Pos: pos, OpName: opName, QVL: qvl}, nil

	default:
		return nil, p.errorf(`expected ":=" or "*=" after a qubit list, got %q`, p.peek().lit)
	}
}

func (p *parser) parseIf() (StmtNode, error) {
	pos := p.advance().pos // "if"
	meaName, err := p.expectIdent("a measurement name")
	if err != nil {
		return nil, err
	}
	qvl, err := p.parseQVL()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	thenSeq, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	elseSeq, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return IfNode{Pos: pos, MeaName: meaName, QVL: qvl, Then: thenSeq, Else: elseSeq}, nil
}

func (p *parser) parseWhile() (StmtNode, error) {
	pos := p.advance().pos // "while"
	var inv *PairSet
	if p.at(tLBrace) {
		ps, err := p.parsePairSet()
		if err != nil {
			return nil, err
		}
		inv = &ps
	}
	meaName, err := p.expectIdent("a measurement name")
	if err != nil {
		return nil, err
	}
	qvl, err := p.parseQVL()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("do"); err != nil {
		return nil, err
	}
	body, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return WhileNode{Pos: pos, Invariant: inv, MeaName: meaName, QVL: qvl, Body: body}, nil
}

// parseParenStmt parses the two parenthesised combinators that share a
// prefix: (seq # seq # ...) is nondeterministic choice, (seq , seq , ...) is
// the (Union) proof-hint combinator.
func (p *parser) parseParenStmt() (StmtNode, error) {
	pos := p.advance().pos // "("
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	alts := []SeqNode{first}

	switch {
	case p.at(tHash):
		for p.at(tHash) {
			p.advance()
			s, err := p.parseSeq()
			if err != nil {
				return nil, err
			}
			alts = append(alts, s)
		}
		if _, err := p.expect(tRParen, ")"); err != nil {
			return nil, err
		}
		return ChoiceNode{Pos: pos, Alts: alts}, nil

	case p.at(tComma):
		for p.at(tComma) {
			p.advance()
			s, err := p.parseSeq()
			if err != nil {
				return nil, err
			}
			alts = append(alts, s)
		}
		if _, err := p.expect(tRParen, ")"); err != nil {
			return nil, err
		}
		return UnionNode{Pos: pos, Alts: alts}, nil

	default:
		return nil, p.errorf(`expected "#" or "," inside parentheses, got %q`, p.peek().lit)
	}
}
