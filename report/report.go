package report

import (
	"fmt"
	"io"

	"nqpv/astx"
	"nqpv/order"
)

// CommandResult is the outcome of evaluating one top-level command
// (spec.md §6: def/show/axiom/setting/save), independent of every other
// command's outcome (spec.md §7: "one failure logs and continues").
type CommandResult struct {
	Command string
	Pos     astx.Pos

	OK      bool
	ErrKind string // "Structural", "I/O", "Numeric" (spec.md §7), "" on success; proof failures are reported through Holds
	ErrMsg  string

	// Holds and Witness are only populated for commands that check a proof
	// (axiom commands, and show of a proof expression): whether the
	// declared precondition was found to refine the computed WLP, and the
	// counterexample density operator when it was not.
	Holds   *bool
	Witness *order.Witness

	// Outline is the annotated proof statement produced for this command,
	// when one was produced (proof-checking commands only).
	Outline   astx.Stmt
	NodeCount int
	Slack     float64
}

// Report is the complete outcome of verifying one module.
type Report struct {
	ModulePath string
	Commands   []CommandResult
	Log        *Log
}

// Holds reports whether every proof checked in the report holds and no
// command failed — the module's overall verdict (spec.md §6).
func (r *Report) Holds() bool {
	for _, c := range r.Commands {
		if !c.OK {
			return false
		}
		if c.Holds != nil && !*c.Holds {
			return false
		}
	}
	return true
}

// WriteText renders r in the spec.md §6 output.txt format: the module path,
// each command's outcome in order, its proof outline size and order-check
// slack where applicable, and a final verdict line.
func WriteText(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "module: %s\n\n", r.ModulePath); err != nil {
		return err
	}
	for _, c := range r.Commands {
		if err := writeCommand(w, c); err != nil {
			return err
		}
	}
	verdict := "proof does not hold"
	if r.Holds() {
		verdict = "proof holds"
	}
	_, err := fmt.Fprintf(w, "\n%s\n", verdict)
	return err
}

func writeCommand(w io.Writer, c CommandResult) error {
	status := "ok"
	if !c.OK {
		status = "failed"
	}
	if _, err := fmt.Fprintf(w, "[%s] %s at %s: %s\n", status, c.Command, c.Pos, errLine(c)); err != nil {
		return err
	}
	if c.Holds != nil {
		word := "does not hold"
		if *c.Holds {
			word = "holds"
		}
		if _, err := fmt.Fprintf(w, "  %s (outline: %d nodes, slack %.3g)\n", word, c.NodeCount, c.Slack); err != nil {
			return err
		}
		if c.Witness != nil {
			if _, err := fmt.Fprintf(w, "  counterexample slack %.6g\n", c.Witness.Slack); err != nil {
				return err
			}
		}
	}
	return nil
}

func errLine(c CommandResult) string {
	if c.OK {
		return "ok"
	}
	return fmt.Sprintf("%s error: %s", c.ErrKind, c.ErrMsg)
}

// nodeCount counts the nodes of a proof statement tree, for the output
// summary and the slack chart (report/chart.go).
func nodeCount(s astx.Stmt) int {
	if s == nil {
		return 0
	}
	switch n := s.(type) {
	case astx.SIf:
		return 1 + nodeCount(n.Then) + nodeCount(n.Else)
	case astx.SWhile:
		return 1 + nodeCount(n.Body)
	case astx.SChoice:
		c := 1
		for _, a := range n.Alts {
			c += nodeCount(a)
		}
		return c
	case astx.SSeq:
		c := 1
		for _, a := range n.Stmts {
			c += nodeCount(a)
		}
		return c
	case astx.SUnion:
		c := 1
		for _, a := range n.Alts {
			c += nodeCount(a)
		}
		return c
	default:
		return 1
	}
}

// NodeCount exports nodeCount for callers outside the package (the driver,
// when filling in a CommandResult).
func NodeCount(s astx.Stmt) int { return nodeCount(s) }

// CommandSummary is the JSON-serialisable projection of a CommandResult —
// dropping the Outline/Witness tensors a persisted run doesn't need,
// keeping only what cmd/nqpv-report-chart plots.
type CommandSummary struct {
	Command   string  `json:"command"`
	OK        bool    `json:"ok"`
	ErrKind   string  `json:"err_kind,omitempty"`
	ErrMsg    string  `json:"err_msg,omitempty"`
	Holds     *bool   `json:"holds,omitempty"`
	NodeCount int     `json:"node_count"`
	Slack     float64 `json:"slack"`
}

// Summary is the JSON-serialisable projection of a Report, the persisted
// run format cmd/nqpv-report-chart consumes — the same split between a
// run-producing tool and a plotting tool that Additionnals/plot_pacs_sweep.go
// uses for parameter sweeps.
type Summary struct {
	ModulePath string           `json:"module_path"`
	Commands   []CommandSummary `json:"commands"`
}

// Summarize projects r into its persisted form.
func Summarize(r *Report) Summary {
	s := Summary{ModulePath: r.ModulePath}
	for _, c := range r.Commands {
		s.Commands = append(s.Commands, CommandSummary{
			Command:   c.Command,
			OK:        c.OK,
			ErrKind:   c.ErrKind,
			ErrMsg:    c.ErrMsg,
			Holds:     c.Holds,
			NodeCount: c.NodeCount,
			Slack:     c.Slack,
		})
	}
	return s
}
