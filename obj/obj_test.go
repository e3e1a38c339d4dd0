package obj

import (
	"bytes"
	"context"
	"debug/elf"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/x86emit/x86emit/asm"
	"github.com/x86emit/x86emit/x86"
)

func encode(t *testing.T, is ...any) []byte {
	t.Helper()

	e := newEncoder()

	for _, i := range is {
		err := e.instr(i)
		require.NoError(t, err, "%T %+v", i, i)
	}

	return e.b
}

func TestEncodeKnownForms(t *testing.T) {
	for _, tc := range []struct {
		i    any
		want []byte
	}{
		{x86.Mov{Dst: x86.RAX, Src: x86.Imm{C: x86.Int{V: 1, Size: x86.S32}}}, []byte{0x48, 0xc7, 0xc0, 1, 0, 0, 0}},
		{x86.Mov{Dst: x86.RDI, Src: x86.RSI}, []byte{0x48, 0x89, 0xf7}},
		{x86.Mov{
			Dst: x86.RAX,
			Src: x86.Mem64{A: x86.Addr64{Base: x86.RBP, Index: x86.RNone, Scale: 1, Off: -8}, T: x86.S64},
		}, []byte{0x48, 0x8b, 0x45, 0xf8}},
		{x86.Mov{
			Dst: x86.Mem64{A: x86.Addr64{Base: x86.RSP, Index: x86.RNone, Scale: 1, Off: 8}, T: x86.S64},
			Src: x86.RCX,
		}, []byte{0x48, 0x89, 0x4c, 0x24, 8}},
		{x86.Arith{Op: x86.ArithAdd, Dst: x86.RAX, Src: x86.Imm{C: x86.Int{V: 8, Size: x86.S32}}}, []byte{0x48, 0x83, 0xc0, 8}},
		{x86.Arith{Op: x86.ArithSub, Dst: x86.RSP, Src: x86.Imm{C: x86.Int{V: 32, Size: x86.S32}}}, []byte{0x48, 0x83, 0xec, 0x20}},
		{x86.Arith{Op: x86.ArithXor, Dst: x86.RAX, Src: x86.RAX}, []byte{0x48, 0x31, 0xc0}},
		{x86.Arith{Op: x86.ArithImul, Dst: x86.RAX, Src: x86.RDX}, []byte{0x48, 0x0f, 0xaf, 0xc2}},
		{x86.Unary{Op: x86.UnaryNeg, Dst: x86.RCX}, []byte{0x48, 0xf7, 0xd9}},
		{x86.Shift{Op: x86.ShiftShl, Dst: x86.RAX, Amt: x86.Imm{C: x86.Int{V: 3, Size: x86.S8}}}, []byte{0x48, 0xc1, 0xe0, 3}},
		{x86.Shift{Op: x86.ShiftSar, Dst: x86.RAX, Amt: x86.CL}, []byte{0x48, 0xd3, 0xf8}},
		{x86.Push{Src: x86.RBP}, []byte{0x55}},
		{x86.Push{Src: x86.R12}, []byte{0x41, 0x54}},
		{x86.Pop{Dst: x86.RBP}, []byte{0x5d}},
		{x86.Cmp{A: x86.RAX, B: x86.RBX}, []byte{0x48, 0x39, 0xd8}},
		{x86.Test{A: x86.RAX, B: x86.RAX}, []byte{0x48, 0x85, 0xc0}},
		{x86.Setcc{Cond: x86.CondE, Dst: x86.AL}, []byte{0x0f, 0x94, 0xc0}},
		{x86.Cmovcc{Cond: x86.CondL, Dst: x86.RAX, Src: x86.RCX}, []byte{0x48, 0x0f, 0x4c, 0xc1}},
		{x86.SignExt{Size: x86.S64}, []byte{0x48, 0x99}},
		{x86.SignExt{Size: x86.S32}, []byte{0x99}},
		{x86.Ret{}, []byte{0xc3}},
		{x86.Leave{}, []byte{0xc9}},
		{x86.Nop{}, []byte{0x90}},
		{x86.Ud2{}, []byte{0x0f, 0x0b}},
	} {
		assert.Equal(t, tc.want, encode(t, tc.i), "%T %+v", tc.i, tc.i)
	}
}

func TestEncodeMovabs(t *testing.T) {
	b := encode(t, x86.Mov{Dst: x86.RDX, Src: x86.Imm{C: x86.Int{V: 0x1122334455, Size: x86.S64}}})

	assert.Equal(t, []byte{0x48, 0xba, 0x55, 0x44, 0x33, 0x22, 0x11, 0, 0, 0}, b)
}

func TestEncodeBranches(t *testing.T) {
	e := newEncoder()

	err := e.section([]asm.Directive{
		asm.Instr{I: x86.Jmp{Dst: x86.RelDisp{C: x86.Sym{Name: "l"}}}},
		asm.Instr{I: x86.Nop{}},
		asm.Label{Name: "l"},
		asm.Instr{I: x86.Jcc{Cond: x86.CondNE, Dst: x86.RelDisp{C: x86.Sym{Name: "l"}}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{
		0xe9, 1, 0, 0, 0,
		0x90,
		0x0f, 0x85, 0xfa, 0xff, 0xff, 0xff, // -6
	}, e.b)
}

func TestEncodeUndefinedLabelAborts(t *testing.T) {
	e := newEncoder()

	err := e.section([]asm.Directive{
		asm.Instr{I: x86.Call{Dst: x86.RelDisp{C: x86.Sym{Name: "puts"}}}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestEncodeAlignPadding(t *testing.T) {
	body := []asm.Directive{
		asm.Bytes{Data: []byte{1}},
		asm.Align{Pow2: true, Val: 2},
		asm.Bytes{Data: []byte{2}},
	}

	e := newEncoder()
	e.pad = 0x90

	err := e.section(body)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0x90, 0x90, 0x90, 2}, e.b)

	// data sections pad with zeros, not nops
	e = newEncoder()

	err = e.section(body)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 2}, e.b)
}

func TestAssembleAbortsOutsideSubset(t *testing.T) {
	a := New()
	ctx := context.Background()

	_, err := a.Assemble(ctx, x86.ModeX86, asm.Split(nil))
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = a.Assemble(ctx, x86.ModeX64, asm.Split(asm.Program{
		asm.Instr{I: x86.SSE{Op: x86.SSEAddsd, Dst: x86.XMM(0), Src: x86.XMM(1)}},
	}))
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = a.Assemble(ctx, x86.ModeX64, asm.Split(asm.Program{
		asm.Instr{I: x86.F87{Op: x86.F87Fchs}},
	}))
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestAssembleELF(t *testing.T) {
	a := New()

	secs := asm.Split(asm.Program{
		asm.Visibility{Sym: "main", Kind: asm.VisGlobal},
		asm.Label{Name: "main"},
		asm.Instr{I: x86.Mov{Dst: x86.RAX, Src: x86.Imm{C: x86.Int{V: 0, Size: x86.S32}}}},
		asm.Instr{I: x86.Ret{}},
		asm.SectionSwitch{Names: []string{".data"}},
		asm.Label{Name: "answer"},
		asm.Bytes{Data: []byte{42}},
	})

	b, err := a.Assemble(context.Background(), x86.ModeX64, secs)
	require.NoError(t, err)

	f, err := elf.NewFile(bytes.NewReader(b))
	require.NoError(t, err)

	assert.Equal(t, elf.ET_REL, f.Type)
	assert.Equal(t, elf.EM_X86_64, f.Machine)

	text := f.Section(".text")
	require.NotNil(t, text)

	data, err := text.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0xc7, 0xc0, 0, 0, 0, 0, 0xc3}, data)

	require.NotNil(t, f.Section(".data"))

	syms, err := f.Symbols()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, s := range syms {
		found[s.Name] = true
	}

	assert.True(t, found["main"])
	assert.True(t, found["answer"])
}

func TestAssembleReproducible(t *testing.T) {
	a := New()

	p := asm.Program{
		asm.Label{Name: "f"},
		asm.Instr{I: x86.Push{Src: x86.RBP}},
		asm.Instr{I: x86.Pop{Dst: x86.RBP}},
		asm.Instr{I: x86.Ret{}},
	}

	x, err := a.Assemble(context.Background(), x86.ModeX64, asm.Split(p))
	require.NoError(t, err)

	y, err := a.Assemble(context.Background(), x86.ModeX64, asm.Split(p))
	require.NoError(t, err)

	assert.Equal(t, x, y)
}
