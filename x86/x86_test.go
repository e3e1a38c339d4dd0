package x86

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondNames(t *testing.T) {
	want := []string{"o", "no", "b", "ae", "e", "ne", "be", "a", "s", "ns", "p", "np", "l", "ge", "le", "g"}

	for c := CondO; c < condEnd; c++ {
		assert.Equal(t, want[c], c.Name())

		// no hidden state
		assert.Equal(t, c.Name(), c.Name())
	}

	assert.Equal(t, "e", CondZ.Name())
	assert.Equal(t, "b", CondC.Name())
}

func TestCondNot(t *testing.T) {
	assert.Equal(t, CondNE, CondE.Not())
	assert.Equal(t, CondE, CondNE.Not())
	assert.Equal(t, CondAE, CondB.Not())
	assert.Equal(t, CondLE, CondG.Not())
}

func TestRegNames(t *testing.T) {
	assert.Equal(t, "al", AL.Name())
	assert.Equal(t, "bh", BH.Name())
	assert.Equal(t, "sp", SP.Name())
	assert.Equal(t, "rax", RAX.Name())
	assert.Equal(t, "r15", R15.Name())
	assert.Equal(t, "rip", RIP.Name())

	assert.Equal(t, "eax", Dword(RAX).Name())
	assert.Equal(t, "r11d", Dword(R11).Name())

	for r := RAX; r < reg64End; r++ {
		assert.Equal(t, r.Name(), r.Name())
	}
}

func TestDwordOfRIPPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic rendering eip")
		}
	}()

	_ = Dword(RIP).Name()
}

func TestFRegNames(t *testing.T) {
	assert.Equal(t, "xmm0", XMM(0).Name())
	assert.Equal(t, "xmm15", XMM(15).Name())
	assert.Equal(t, "st", ST().Name())
	assert.Equal(t, "st3", STi(3).Name())
}

func TestSizes(t *testing.T) {
	assert.Equal(t, "byte", S8.Name())
	assert.Equal(t, "qword", S64.Name())
	assert.Equal(t, 32, S32.Bits())
}

func TestAddrValid(t *testing.T) {
	assert.True(t, Addr64{Scale: 0, Sym: "x"}.Valid())
	assert.True(t, Addr64{Base: RBP, Scale: 1, Index: RNone, Off: -8}.Valid())
	assert.True(t, Addr64{Base: RAX, Index: RCX, Scale: 4}.Valid())
	assert.True(t, Addr64{Base: RIP, Index: RNone, Scale: 1, Sym: "x"}.Valid())

	assert.False(t, Addr64{Base: RAX, Index: RCX, Scale: 3}.Valid())
	assert.False(t, Addr64{Base: RIP, Index: RCX, Scale: 4}.Valid())
}

func TestMnemonics(t *testing.T) {
	for _, tc := range []struct {
		i    any
		want string
	}{
		{Arith{Op: ArithAdd}, "add"},
		{Arith{Op: ArithImul}, "imul"},
		{Unary{Op: UnaryIdiv}, "idiv"},
		{Shift{Op: ShiftSar}, "sar"},
		{Push{}, "push"},
		{Pop{}, "pop"},
		{Mov{}, "mov"},
		{MovExt{Signed: true}, "movsx"},
		{MovExt{}, "movzx"},
		{Lea{}, "lea"},
		{Xchg{}, "xchg"},
		{Cvt{Op: CvtTSD2SI}, "cvttsd2si"},
		{SSE{Op: SSEUcomisd}, "ucomisd"},
		{RoundSSE{Op: SSERoundsd}, "roundsd"},
		{F87{Op: F87Fstp}, "fstp"},
		{Jmp{}, "jmp"},
		{Jcc{Cond: CondNE}, "jne"},
		{Call{}, "call"},
		{Ret{}, "ret"},
		{Leave{}, "leave"},
		{Cmp{}, "cmp"},
		{Test{}, "test"},
		{Setcc{Cond: CondB}, "setb"},
		{Cmovcc{Cond: CondGE}, "cmovge"},
		{SignExt{Size: S32}, "cdq"},
		{SignExt{Size: S64}, "cqo"},
		{Nop{}, "nop"},
		{Ud2{}, "ud2"},
	} {
		got, err := Mnemonic(tc.i)
		if err != nil {
			t.Errorf("mnemonic %T: %v", tc.i, err)
			continue
		}

		assert.Equal(t, tc.want, got, "%T", tc.i)
	}
}

func TestMnemonicUnknown(t *testing.T) {
	_, err := Mnemonic(struct{}{})
	if err == nil {
		t.Errorf("expected error for unknown instruction")
	}
}
