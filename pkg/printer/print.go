package printer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/pcode"
	"github.com/corelift/pcode/pkg/structural"
	"github.com/corelift/pcode/pkg/typeinfer"
)

// Printer walks a structure tree and renders it to indented pseudocode
// text, gating every Print call through a fresh strings.Builder so a
// Printer value is reusable across functions.
type Printer struct {
	types map[pcode.Varnode]typeinfer.Type
}

// New builds a Printer that renders declarations using the resolved
// types map (nil is accepted: declarations then fall back to "void").
func New(types map[pcode.Varnode]typeinfer.Type) *Printer {
	return &Printer{types: types}
}

// Print renders g's declarations followed by root's structured body.
func Print(g *cfg.Graph, root *structural.Node) string {
	return New(nil).Print(g, root)
}

// Print renders g's declarations followed by root's structured body.
func (p *Printer) Print(g *cfg.Graph, root *structural.Node) string {
	var b strings.Builder
	p.writeDeclarations(&b, g)
	w := &walker{g: g, out: &b}
	w.node(root, 0)
	return b.String()
}

func (p *Printer) writeDeclarations(b *strings.Builder, g *cfg.Graph) {
	seen := map[pcode.Varnode]bool{}
	var names []string
	nameOf := map[string]pcode.Varnode{}
	for i := range g.Blocks {
		for _, op := range g.Blocks[i].Ops {
			out, ok := op.OutVar()
			if !ok || seen[out] {
				continue
			}
			seen[out] = true
			n := VarName(out)
			names = append(names, n)
			nameOf[n] = out
		}
	}
	sort.Strings(names)
	for _, n := range names {
		v := nameOf[n]
		ty := typeinfer.Type{}
		if p.types != nil {
			ty = p.types[v]
		}
		fmt.Fprintf(b, "%s %s;\n", typeinfer.Render(ty), n)
	}
	if len(names) > 0 {
		b.WriteString("\n")
	}
}

// walker carries the shared graph reference and output sink through the
// recursive node-rendering calls so node's own signature stays small.
type walker struct {
	g   *cfg.Graph
	out *strings.Builder
}

func (w *walker) indent(depth int) {
	for i := 0; i < depth; i++ {
		w.out.WriteString("    ")
	}
}

func (w *walker) node(n *structural.Node, depth int) {
	if n == nil {
		return
	}
	switch n.Kind {
	case structural.KindSequence:
		for _, c := range n.Children {
			w.node(c, depth)
		}
	case structural.KindBasicBlock:
		w.block(n.Block, depth)
	case structural.KindBreak:
		w.indent(depth)
		w.out.WriteString("break;\n")
	case structural.KindContinue:
		w.indent(depth)
		w.out.WriteString("continue;\n")
	case structural.KindGoto:
		w.indent(depth)
		fmt.Fprintf(w.out, "goto block_%d;\n", n.Block)
	case structural.KindIfThen:
		w.block(n.Block, depth)
		w.indent(depth)
		fmt.Fprintf(w.out, "if (%s) {\n", w.condition(n.Block))
		w.node(n.Body, depth+1)
		w.indent(depth)
		w.out.WriteString("}\n")
	case structural.KindIfThenElse:
		w.block(n.Block, depth)
		w.indent(depth)
		fmt.Fprintf(w.out, "if (%s) {\n", w.condition(n.Block))
		w.node(n.Body, depth+1)
		w.indent(depth)
		w.out.WriteString("} else {\n")
		w.node(n.Else, depth+1)
		w.indent(depth)
		w.out.WriteString("}\n")
	case structural.KindWhile:
		w.indent(depth)
		fmt.Fprintf(w.out, "while (%s) {\n", w.condition(n.Block))
		w.node(n.Body, depth+1)
		w.indent(depth)
		w.out.WriteString("}\n")
	case structural.KindDoWhile:
		w.indent(depth)
		w.out.WriteString("do {\n")
		w.node(n.Body, depth+1)
		w.indent(depth)
		fmt.Fprintf(w.out, "} while (%s);\n", w.condition(n.Block))
	case structural.KindInfiniteLoop:
		w.indent(depth)
		w.out.WriteString("while (1) {\n")
		w.node(n.Body, depth+1)
		w.indent(depth)
		w.out.WriteString("}\n")
	case structural.KindSwitch:
		w.block(n.Block, depth)
		w.indent(depth)
		fmt.Fprintf(w.out, "switch (%s) {\n", w.condition(n.Block))
		for i, c := range n.Children {
			w.indent(depth + 1)
			fmt.Fprintf(w.out, "case %d:\n", i)
			w.node(c, depth+2)
			w.indent(depth + 2)
			w.out.WriteString("break;\n")
		}
		if n.Else != nil {
			w.indent(depth + 1)
			w.out.WriteString("default:\n")
			w.node(n.Else, depth+2)
			w.indent(depth + 2)
			w.out.WriteString("break;\n")
		}
		w.indent(depth)
		w.out.WriteString("}\n")
	}
}

// block renders every op in blockIdx as a statement line, skipping the
// final control-transfer op when the enclosing construct already
// expresses it (if/while/switch conditions render their own test).
func (w *walker) block(blockIdx int, depth int) {
	if blockIdx < 0 || blockIdx >= len(w.g.Blocks) {
		return
	}
	ops := w.g.Blocks[blockIdx].Ops
	for i, op := range ops {
		if i == len(ops)-1 && (op.Opcode == pcode.CBranch || op.Opcode == pcode.Branch) {
			continue
		}
		w.indent(depth)
		w.out.WriteString(Statement(op))
		w.out.WriteString("\n")
	}
}

// condition renders the boolean test guarding blockIdx's structured
// construct: the condition operand of its trailing CBranch, or a
// block-id placeholder when the precise expression was not recovered
// (SPEC_FULL §4.11's "block-id placeholders for conditions whose precise
// expression is not recovered").
func (w *walker) condition(blockIdx int) string {
	if blockIdx < 0 || blockIdx >= len(w.g.Blocks) {
		return "1"
	}
	ops := w.g.Blocks[blockIdx].Ops
	if len(ops) == 0 {
		return fmt.Sprintf("/* block_%d */ 1", blockIdx)
	}
	last := ops[len(ops)-1]
	if last.Opcode == pcode.CBranch && len(last.Inputs) == 2 {
		return operand(last.Inputs[1])
	}
	return fmt.Sprintf("/* block_%d */ 1", blockIdx)
}
