// Package driver implements the module loader and scope evaluator of
// spec.md §6: resolving top-level commands (def/show/axiom/setting/save)
// against a root scope seeded with the standard gate library, running the
// WLP transformer and order decider for every declared proof obligation,
// and producing a report.Report. Grounded on cmd/ntru_sign/main.go's
// multi-stage pipeline shape, generalised from a single linear pipeline to
// a per-command loop where one command's failure is logged and evaluation
// continues with the next (spec.md §7).
package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"nqpv/astx"
	"nqpv/lang"
	"nqpv/loader"
	"nqpv/oplib"
	"nqpv/opstore"
	"nqpv/order"
	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/qvar"
	"nqpv/report"
	"nqpv/settings"
	"nqpv/wlp"
)

// Verify parses and evaluates the module at path, returning a report of
// every command's outcome. A nil error means the module was at least
// readable and parseable; individual commands may still have failed,
// reflected in the returned report (Report.Holds reports the overall
// verdict).
func Verify(path string, cfg settings.Settings) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: reading %s: %w", path, err)
	}
	mod, err := lang.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("driver: parsing %s: %w", path, err)
	}

	root := opstore.NewRoot("root")
	if err := oplib.Inject(root); err != nil {
		return nil, fmt.Errorf("driver: installing standard library: %w", err)
	}

	log := report.NewLog()
	ev := &evaluator{
		scope:  root,
		defs:   make(map[string]binding),
		cfg:    cfg,
		log:    log,
		loader: loader.DirLoader{Root: filepath.Dir(path)},
		dir:    filepath.Dir(path),
	}

	rep := &report.Report{ModulePath: path, Log: log}
	for _, cmd := range mod.Commands {
		rep.Commands = append(rep.Commands, ev.evalCommand(cmd))
	}
	return rep, nil
}

// binding is the value of a `def`'d name: exactly one of Op/Mea, Scope,
// Prog, or Proof is set, depending on what the bound expression evaluated
// to (spec.md §6 gives `def` a single grammar slot for several kinds of
// expression).
type binding struct {
	Op  *qop.Tensor
	Mea *qop.Measurement

	Scope *opstore.Scope

	Prog    astx.Prog
	ProgQVL qvar.QVL

	Proof *proofResult
}

// proofResult is a fully resolved `proof` expression: the hint tree plus
// the precondition and postcondition it was declared against.
type proofResult struct {
	QVL  qvar.QVL
	Pre  qpre.Qpre
	Hint astx.Hint
	Post qpre.Qpre
}

type evaluator struct {
	scope  *opstore.Scope
	defs   map[string]binding
	cfg    settings.Settings
	log    *report.Log
	loader loader.OperatorFile
	dir    string
}

func okResult(cmd string, pos astx.Pos) report.CommandResult {
	return report.CommandResult{Command: cmd, Pos: pos, OK: true}
}

func failResult(cmd string, pos astx.Pos, kind string, err error) report.CommandResult {
	return report.CommandResult{Command: cmd, Pos: pos, OK: false, ErrKind: kind, ErrMsg: err.Error()}
}

func toPos(p lang.Pos) astx.Pos { return astx.Pos{Line: p.Line, Col: p.Col} }

// classify assigns a spec.md §7 error kind to an error surfaced while
// resolving or evaluating a command. *loader.IOError is I/O and
// *order.NumericError (raised by order.Sqsubseteq, including the calls made
// inside wlp.Transform) is Numeric; everything else arising from
// qvar/qop/qpre construction or grammar-level lookup is a Structural
// failure (an ill-formed reference or shape mismatch).
func classify(err error) string {
	if _, ok := err.(*loader.IOError); ok {
		return "I/O"
	}
	if _, ok := err.(*order.NumericError); ok {
		return "Numeric"
	}
	return "Structural"
}

func (ev *evaluator) evalCommand(cmd lang.Command) report.CommandResult {
	switch c := cmd.(type) {
	case lang.DefCmd:
		return ev.evalDef(c)
	case lang.ShowCmd:
		return ev.evalShow(c)
	case lang.AxiomCmd:
		return ev.evalAxiom(c)
	case lang.SettingCmd:
		return ev.evalSetting(c)
	case lang.SaveCmd:
		return ev.evalSave(c)
	default:
		return failResult("unknown", astx.Pos{}, "Structural", fmt.Errorf("driver: unhandled command %T", cmd))
	}
}

func (ev *evaluator) evalDef(c lang.DefCmd) report.CommandResult {
	b, err := ev.evalExpr(c.Expr)
	if err != nil {
		return failResult("def "+c.Name, toPos(c.Pos), classify(err), err)
	}
	ev.defs[c.Name] = b
	if b.Op != nil || b.Mea != nil {
		ev.scope.Bind(c.Name, opstore.Value{Op: b.Op, Mea: b.Mea})
	}
	return okResult("def "+c.Name, toPos(c.Pos))
}

func (ev *evaluator) evalShow(c lang.ShowCmd) report.CommandResult {
	b, err := ev.evalExpr(c.Expr)
	if err != nil {
		return failResult("show", toPos(c.Pos), classify(err), err)
	}
	res := okResult("show", toPos(c.Pos))
	if b.Proof != nil {
		ev.runProofCheck(&res, b.Proof.Pre, b.Proof.Hint, b.Proof.Post)
	}
	return res
}

func (ev *evaluator) evalSetting(c lang.SettingCmd) report.CommandResult {
	cfg2, err := ev.cfg.Set(c.Key, c.Value)
	if err != nil {
		return failResult("setting "+c.Key, toPos(c.Pos), "Structural", err)
	}
	ev.cfg = cfg2
	return okResult("setting "+c.Key, toPos(c.Pos))
}

func (ev *evaluator) evalSave(c lang.SaveCmd) report.CommandResult {
	var t *qop.Tensor
	if b, ok := ev.defs[c.Var]; ok {
		t = b.Op
	}
	if t == nil {
		if v, ok := ev.scope.Lookup(c.Var); ok {
			t = v.Op
		}
	}
	if t == nil {
		return failResult("save "+c.Var, toPos(c.Pos), "Structural", fmt.Errorf("undefined operator %q", c.Var))
	}
	dl, ok := ev.loader.(loader.DirLoader)
	if !ok {
		return failResult("save "+c.Var, toPos(c.Pos), "I/O", fmt.Errorf("driver: save requires a directory-backed operator loader"))
	}
	if err := dl.Save(c.Path, t); err != nil {
		return failResult("save "+c.Var, toPos(c.Pos), "I/O", err)
	}
	return okResult("save "+c.Var, toPos(c.Pos))
}

func (ev *evaluator) evalAxiom(c lang.AxiomCmd) report.CommandResult {
	name := "axiom " + c.Name
	declaredPre, err := ev.resolvePairSet(c.Pre)
	if err != nil {
		return failResult(name, toPos(c.Pos), classify(err), err)
	}

	var hint astx.Hint
	var post qpre.Qpre
	if c.ProgBody != nil {
		prog, err := ev.resolveProg(*c.ProgBody)
		if err != nil {
			return failResult(name, toPos(c.Pos), classify(err), err)
		}
		hint, err = liftProgToHint(prog)
		if err != nil {
			return failResult(name, toPos(c.Pos), "Structural", err)
		}
		post, err = ev.resolvePairSet(c.Post)
		if err != nil {
			return failResult(name, toPos(c.Pos), classify(err), err)
		}
	} else {
		hint, err = ev.resolveHint(c.ProofBody.Body)
		if err != nil {
			return failResult(name, toPos(c.Pos), classify(err), err)
		}
		post, err = ev.resolvePairSet(c.ProofBody.Post)
		if err != nil {
			return failResult(name, toPos(c.Pos), classify(err), err)
		}
	}

	res := okResult(name, toPos(c.Pos))
	ev.runProofCheck(&res, declaredPre, hint, post)
	return res
}

// runProofCheck computes wlp(hint, post) and checks declaredPre ⊑ it,
// filling in res.Holds/Witness/Outline. A *wlp.ProofError short-circuits
// straight to a failed verdict with its witness; any other error is a
// command failure (res.OK = false), not a proof verdict.
func (ev *evaluator) runProofCheck(res *report.CommandResult, declaredPre qpre.Qpre, hint astx.Hint, post qpre.Qpre) {
	stmt, err := wlp.Transform(ev.scope, ev.cfg, hint, post)
	if err != nil {
		if pe, ok := err.(*wlp.ProofError); ok {
			holds := false
			res.Holds = &holds
			res.Witness = pe.Witness
			if pe.Witness != nil {
				res.Slack = pe.Witness.Slack
			}
			return
		}
		res.OK = false
		res.ErrKind = classify(err)
		res.ErrMsg = err.Error()
		return
	}

	computedPre, _ := stmt.PrePost()
	ord, err := order.Sqsubseteq(ev.scope, declaredPre, computedPre, ev.cfg)
	if err != nil {
		res.OK = false
		res.ErrKind = "Numeric"
		res.ErrMsg = err.Error()
		return
	}
	holds := ord.Holds
	res.Holds = &holds
	res.Witness = ord.Witness
	res.Outline = stmt
	res.NodeCount = report.NodeCount(stmt)
	if ord.Witness != nil {
		res.Slack = ord.Witness.Slack
	}
}
