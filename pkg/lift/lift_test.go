package lift

import (
	"testing"

	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/pcode"
)

const regRAX uint64 = 0
const regRBX uint64 = 3
const regRCX uint64 = 1
const regRDX uint64 = 2

// TestLiftMovImmediateThenRet covers scenario S1: mov rax, 42; ret must
// lift to exactly one copy of the constant into RAX followed by a
// return, with no other ops.
func TestLiftMovImmediateThenRet(t *testing.T) {
	d := decode.NewSliceDecoder([]decode.DecodedInstruction{
		{
			Mnemonic: "mov",
			Address:  0x1000,
			Length:   7,
			Operands: []decode.Operand{
				decode.Register(uint16(regRAX), 8),
				decode.Immediate(42, 8),
			},
		},
		{Mnemonic: "ret", Address: 0x1007, Length: 1},
	})

	ops, diags := Lift(d, 0)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d: %v", len(ops), ops)
	}
	if ops[0].Opcode != pcode.Copy {
		t.Fatalf("expected copy, got %s", ops[0].Opcode)
	}
	out, ok := ops[0].OutVar()
	if !ok || out.Space != pcode.SpaceRegister || out.Offset != regRAX {
		t.Fatalf("expected output into RAX, got %+v", out)
	}
	if !ops[0].Inputs[0].IsConst() || ops[0].Inputs[0].ConstValue() != 42 {
		t.Fatalf("expected constant input 42, got %+v", ops[0].Inputs[0])
	}
	if ops[1].Opcode != pcode.Return {
		t.Fatalf("expected return, got %s", ops[1].Opcode)
	}
}

// TestLiftAddSubWritesFlags covers scenario S2: add rax,rbx; sub
// rcx,rdx must each emit an int-add/int-sub with the matching output
// register, followed by ZF/SF writes.
func TestLiftAddSubWritesFlags(t *testing.T) {
	d := decode.NewSliceDecoder([]decode.DecodedInstruction{
		{
			Mnemonic: "add",
			Address:  0x2000,
			Length:   3,
			Operands: []decode.Operand{
				decode.Register(uint16(regRAX), 8),
				decode.Register(uint16(regRBX), 8),
			},
		},
		{
			Mnemonic: "sub",
			Address:  0x2003,
			Length:   3,
			Operands: []decode.Operand{
				decode.Register(uint16(regRCX), 8),
				decode.Register(uint16(regRDX), 8),
			},
		},
	})

	ops, diags := Lift(d, 0)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	var addOp, subOp *pcode.Op
	for i := range ops {
		switch ops[i].Opcode {
		case pcode.IntAdd:
			addOp = &ops[i]
		case pcode.IntSub:
			subOp = &ops[i]
		}
	}
	if addOp == nil || subOp == nil {
		t.Fatalf("expected both int-add and int-sub among ops: %v", ops)
	}
	if out, ok := addOp.OutVar(); !ok || out.Offset != regRAX {
		t.Fatalf("expected int-add output into RAX, got %+v", out)
	}
	if out, ok := subOp.OutVar(); !ok || out.Offset != regRCX {
		t.Fatalf("expected int-sub output into RCX, got %+v", out)
	}

	foundZF, foundSF := false, false
	for _, op := range ops {
		if op.Opcode != pcode.IntEqual && op.Opcode != pcode.IntSLess {
			continue
		}
		out, ok := op.OutVar()
		if !ok {
			continue
		}
		switch out.Offset {
		case pcode.FlagZF:
			foundZF = true
		case pcode.FlagSF:
			foundSF = true
		}
	}
	if !foundZF || !foundSF {
		t.Fatalf("expected ZF and SF writes among ops: %v", ops)
	}
}

func TestUnsupportedMnemonicProducesDiagnostic(t *testing.T) {
	d := decode.NewSliceDecoder([]decode.DecodedInstruction{
		{Mnemonic: "vzeroupper", Address: 0x4000, Length: 3},
	})
	ops, diags := Lift(d, 0)
	if len(ops) != 0 {
		t.Fatalf("expected no ops for unsupported mnemonic, got %v", ops)
	}
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
}

func TestMaxInstructionsBoundsLift(t *testing.T) {
	d := decode.NewSliceDecoder([]decode.DecodedInstruction{
		{Mnemonic: "nop", Address: 0x5000, Length: 1},
		{Mnemonic: "nop", Address: 0x5001, Length: 1},
		{Mnemonic: "ret", Address: 0x5002, Length: 1},
	})
	ops, _ := Lift(d, 1)
	if len(ops) != 0 {
		t.Fatalf("expected no ops after bounding to 1 nop, got %v", ops)
	}
}
