package report

import (
	"strings"
	"testing"

	"nqpv/astx"
	"nqpv/qpre"
)

func TestHoldsFalseOnFailedCommand(t *testing.T) {
	r := &Report{Commands: []CommandResult{{OK: false}}}
	if r.Holds() {
		t.Fatalf("expected Holds() to be false when a command failed")
	}
}

func TestHoldsFalseOnUnsatisfiedAxiom(t *testing.T) {
	no := false
	r := &Report{Commands: []CommandResult{{OK: true, Holds: &no}}}
	if r.Holds() {
		t.Fatalf("expected Holds() to be false when an axiom's verdict is false")
	}
}

func TestHoldsTrueWhenEverythingSucceeds(t *testing.T) {
	yes := true
	r := &Report{Commands: []CommandResult{{OK: true}, {OK: true, Holds: &yes}}}
	if !r.Holds() {
		t.Fatalf("expected Holds() to be true")
	}
}

func TestWriteTextIncludesVerdict(t *testing.T) {
	yes := true
	r := &Report{
		ModulePath: "m.nqpv",
		Commands: []CommandResult{
			{Command: "axiom a", OK: true, Holds: &yes, NodeCount: 3, Slack: 0.01},
		},
	}
	var sb strings.Builder
	if err := WriteText(&sb, r); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "proof holds") {
		t.Fatalf("expected a holding verdict line, got:\n%s", out)
	}
	if !strings.Contains(out, "axiom a") {
		t.Fatalf("expected the command name in the output, got:\n%s", out)
	}
}

func TestSummarizeDropsRichFields(t *testing.T) {
	yes := true
	ann := astx.NewAnn(astx.Pos{}, qpre.Qpre{}, qpre.Qpre{})
	r := &Report{
		ModulePath: "m.nqpv",
		Commands: []CommandResult{
			{Command: "axiom a", OK: true, Holds: &yes, NodeCount: 2, Slack: 0.5, Outline: astx.SSkip{Ann: ann}},
		},
	}
	s := Summarize(r)
	if s.ModulePath != "m.nqpv" || len(s.Commands) != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Commands[0].NodeCount != 2 || s.Commands[0].Slack != 0.5 {
		t.Fatalf("unexpected command summary: %+v", s.Commands[0])
	}
}

func TestNodeCount(t *testing.T) {
	ann := astx.NewAnn(astx.Pos{}, qpre.Qpre{}, qpre.Qpre{})
	seq := astx.SSeq{Ann: ann, Stmts: []astx.Stmt{astx.SSkip{Ann: ann}, astx.SAbort{Ann: ann}}}
	if got := NodeCount(seq); got != 3 {
		t.Fatalf("expected 1 (seq) + 2 (children) = 3 nodes, got %d", got)
	}
}
