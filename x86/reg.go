package x86

type (
	// Reg8, Reg16 and Reg64 are the general purpose register families.
	// 32-bit registers do not exist on their own, they are always the
	// narrowed view of a 64-bit identity. See Dword.
	Reg8  int
	Reg16 int
	Reg64 int

	Reg32 struct {
		R Reg64
	}

	FKind int

	// FReg is a float or vector register: an SSE register, the x87
	// stack top, or an x87 stack slot.
	FReg struct {
		Kind FKind
		Idx  int
	}
)

const (
	AL Reg8 = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH

	reg8End
)

const (
	AX Reg16 = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI

	reg16End
)

const (
	RAX Reg64 = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	RIP

	reg64End

	// RNone marks an absent index register in addressing expressions.
	RNone Reg64 = -1
)

const (
	FXMM FKind = iota
	FTop
	FSlot
)

var reg8Names = [...]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}

var reg16Names = [...]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

var reg64Names = [...]string{
	"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
	"rip",
}

var reg32Names = [...]string{
	"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi",
	"r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d",
}

// Dword narrows a 64-bit register to its 32-bit view.
// Dword(RIP) is representable but must never reach a renderer.
func Dword(r Reg64) Reg32 {
	return Reg32{R: r}
}

func (r Reg8) Name() string {
	if r < 0 || r >= reg8End {
		panic(r)
	}

	return reg8Names[r]
}

func (r Reg16) Name() string {
	if r < 0 || r >= reg16End {
		panic(r)
	}

	return reg16Names[r]
}

func (r Reg64) Name() string {
	if r < 0 || r >= reg64End {
		panic(r)
	}

	return reg64Names[r]
}

// Name panics on the narrowed instruction pointer. There is no eip
// operand in long mode and emitting one silently would corrupt the
// output, so this is a generator bug by definition.
func (r Reg32) Name() string {
	if r.R == RIP {
		panic("eip is not encodable")
	}
	if r.R < 0 || r.R >= RIP {
		panic(r.R)
	}

	return reg32Names[r.R]
}

func (r FReg) Name() string {
	switch {
	case r.Kind == FXMM && r.Idx >= 0 && r.Idx < 16:
		return xmmNames[r.Idx]
	case r.Kind == FTop:
		return "st"
	case r.Kind == FSlot && r.Idx >= 0 && r.Idx < 8:
		return stNames[r.Idx]
	default:
		panic(r)
	}
}

var xmmNames = [...]string{
	"xmm0", "xmm1", "xmm2", "xmm3", "xmm4", "xmm5", "xmm6", "xmm7",
	"xmm8", "xmm9", "xmm10", "xmm11", "xmm12", "xmm13", "xmm14", "xmm15",
}

var stNames = [...]string{"st0", "st1", "st2", "st3", "st4", "st5", "st6", "st7"}

func XMM(i int) FReg { return FReg{Kind: FXMM, Idx: i} }
func ST() FReg       { return FReg{Kind: FTop} }
func STi(i int) FReg { return FReg{Kind: FSlot, Idx: i} }

func (r Reg8) String() string  { return r.Name() }
func (r Reg16) String() string { return r.Name() }
func (r Reg32) String() string { return r.Name() }
func (r Reg64) String() string { return r.Name() }
func (r FReg) String() string  { return r.Name() }
