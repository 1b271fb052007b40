package printer

import (
	"strings"
	"testing"

	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/pcode"
	"github.com/corelift/pcode/pkg/structural"
)

func TestExprRendersBinaryOpParenthesized(t *testing.T) {
	out := pcode.Unique(1, 4)
	op := pcode.New2(pcode.IntAdd, &out, pcode.Reg(0, 4), pcode.Reg(1, 4), 0x1000)
	got := Expr(op)
	want := "(r0 + r1)"
	if got != want {
		t.Fatalf("Expr() = %q, want %q", got, want)
	}
}

func TestStatementRendersAssignment(t *testing.T) {
	out := pcode.Unique(2, 4)
	op := pcode.New1(pcode.Copy, &out, pcode.Const(5, 4), 0x1000)
	got := Statement(op)
	want := "tmp_2 = 0x5;"
	if got != want {
		t.Fatalf("Statement() = %q, want %q", got, want)
	}
}

func TestStatementRendersReturn(t *testing.T) {
	op := pcode.New0(pcode.Return, 0x1000)
	if got := Statement(op); got != "return;" {
		t.Fatalf("Statement() = %q, want %q", got, "return;")
	}
}

func TestVarNameCoversEverySpace(t *testing.T) {
	cases := []struct {
		v    pcode.Varnode
		want string
	}{
		{pcode.Reg(0, 8), "r0"},
		{pcode.Stack(-8, 8), "stack_-8"},
		{pcode.Unique(3, 8), "tmp_3"},
		{pcode.RAM(0x401000, 8), "ptr_0x401000"},
	}
	for _, c := range cases {
		if got := VarName(c.v); got != c.want {
			t.Fatalf("VarName(%+v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestPrintRendersIfThenElse(t *testing.T) {
	g := &cfg.Graph{Blocks: make([]cfg.Block, 4)}
	cond := pcode.Reg(0, 1)
	g.Blocks[0].Ops = []pcode.Op{pcode.New2(pcode.CBranch, nil, pcode.RAM(0x2000, 8), cond, 0x1000)}
	g.Blocks[0].Succs = []int{1, 2}
	g.Blocks[1].Preds = []int{0}
	g.Blocks[1].Succs = []int{3}
	g.Blocks[2].Preds = []int{0}
	g.Blocks[2].Succs = []int{3}
	g.Blocks[3].Preds = []int{1, 2}

	root := &structural.Node{
		Kind:  structural.KindIfThenElse,
		Block: 0,
		Body:  &structural.Node{Kind: structural.KindBasicBlock, Block: 1},
		Else:  &structural.Node{Kind: structural.KindBasicBlock, Block: 2},
	}
	text := Print(g, root)
	if !strings.Contains(text, "if (r0) {") {
		t.Fatalf("expected an if(r0) guard, got:\n%s", text)
	}
	if !strings.Contains(text, "} else {") {
		t.Fatalf("expected an else branch, got:\n%s", text)
	}
}

func TestPrintRendersBreakAndContinue(t *testing.T) {
	g := &cfg.Graph{Blocks: make([]cfg.Block, 1)}
	root := &structural.Node{
		Kind: structural.KindSequence,
		Children: []*structural.Node{
			{Kind: structural.KindBreak, Block: 2},
			{Kind: structural.KindContinue, Block: 0},
		},
	}
	text := Print(g, root)
	if !strings.Contains(text, "break;\n") {
		t.Fatalf("expected a break statement, got:\n%s", text)
	}
	if !strings.Contains(text, "continue;\n") {
		t.Fatalf("expected a continue statement, got:\n%s", text)
	}
}

func TestPrintDeclaresOutputVarnodes(t *testing.T) {
	out := pcode.Unique(1, 4)
	g := &cfg.Graph{Blocks: []cfg.Block{
		{Ops: []pcode.Op{pcode.New1(pcode.Copy, &out, pcode.Const(1, 4), 0x1000)}},
	}}
	root := &structural.Node{Kind: structural.KindBasicBlock, Block: 0}
	text := Print(g, root)
	if !strings.Contains(text, "tmp_1;") {
		t.Fatalf("expected a declaration for tmp_1, got:\n%s", text)
	}
}
