// Package astx defines the program and proof-hint sum types (spec.md §3,
// "Program term" / "Proof-hint term" / "Proof statement (output)") as sealed
// Go interfaces dispatched by type switch, replacing the source's deep class
// hierarchy (spec.md §9: "Re-express as a single sum type... become total
// functions on the sum").
package astx

import "fmt"

// Pos is a source position, attached to AST nodes that the lexer/parser
// produces so structural and property errors can be reported precisely
// (spec.md §7: "Fatal at the offending node, annotated with a source
// position").
type Pos struct {
	Line, Col int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }
