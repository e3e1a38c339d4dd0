package x86

// Instruction variants. The repertoire is the closed, generator driven
// subset: one family per group of mnemonics sharing an operand shape.
// Instructions travel as asm directives, so the variants are plain
// structs matched by type.

type (
	ArithOp int
	UnaryOp int
	ShiftOp int
	CvtOp   int
	SSEOp   int
	F87Op   int

	RoundMode int

	Arith struct {
		Op       ArithOp
		Dst, Src Opnd
	}

	Unary struct {
		Op  UnaryOp
		Dst Opnd
	}

	Shift struct {
		Op  ShiftOp
		Dst Opnd
		Amt Opnd // imm8 or cl
	}

	Push struct {
		Src Opnd
	}

	Pop struct {
		Dst Opnd
	}

	Mov struct {
		Dst, Src Opnd
	}

	// MovExt is movzx/movsx.
	MovExt struct {
		Signed   bool
		Dst, Src Opnd
	}

	Lea struct {
		Dst, Src Opnd
	}

	Xchg struct {
		A, B Opnd
	}

	Cvt struct {
		Op       CvtOp
		Dst, Src Opnd
	}

	SSE struct {
		Op       SSEOp
		Dst, Src Opnd
	}

	RoundSSE struct {
		Op       SSEOp // SSERoundss or SSERoundsd
		Mode     RoundMode
		Dst, Src Opnd
	}

	// F87 is an x87 stack operation with at most one explicit operand.
	F87 struct {
		Op  F87Op
		Src Opnd // nil for implicit-stack forms
	}

	Jmp struct {
		Dst Opnd
	}

	Jcc struct {
		Cond Cond
		Dst  Opnd
	}

	Call struct {
		Dst Opnd
	}

	Ret struct{}

	Leave struct{}

	Cmp struct {
		A, B Opnd
	}

	Test struct {
		A, B Opnd
	}

	Setcc struct {
		Cond Cond
		Dst  Opnd
	}

	Cmovcc struct {
		Cond     Cond
		Dst, Src Opnd
	}

	// SignExt widens the accumulator into dx:ax, edx:eax or rdx:rax
	// (cwd, cdq, cqo) ahead of a division.
	SignExt struct {
		Size Size
	}

	Nop struct{}

	Ud2 struct{}
)

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithAdc
	ArithSbb
	ArithAnd
	ArithOr
	ArithXor
	ArithImul

	arithEnd
)

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryInc
	UnaryDec
	UnaryMul
	UnaryImul
	UnaryDiv
	UnaryIdiv

	unaryEnd
)

const (
	ShiftShl ShiftOp = iota
	ShiftShr
	ShiftSar
	ShiftRol
	ShiftRor

	shiftEnd
)

const (
	CvtSI2SS CvtOp = iota
	CvtSI2SD
	CvtTSS2SI
	CvtTSD2SI
	CvtSS2SD
	CvtSD2SS

	cvtEnd
)

const (
	SSEMovss SSEOp = iota
	SSEMovsd
	SSEMovaps
	SSEAddss
	SSEAddsd
	SSESubss
	SSESubsd
	SSEMulss
	SSEMulsd
	SSEDivss
	SSEDivsd
	SSESqrtss
	SSESqrtsd
	SSEUcomiss
	SSEUcomisd
	SSEXorps
	SSEXorpd
	SSEPxor
	SSERoundss
	SSERoundsd

	sseEnd
)

const (
	F87Fld F87Op = iota
	F87Fst
	F87Fstp
	F87Fild
	F87Fistp
	F87Faddp
	F87Fsubp
	F87Fsubrp
	F87Fmulp
	F87Fdivp
	F87Fdivrp
	F87Fchs
	F87Fabs
	F87Fxch
	F87Fucomip

	f87End
)

const (
	RoundNearest RoundMode = iota
	RoundDown
	RoundUp
	RoundZero
)

var arithNames = [...]string{"add", "sub", "adc", "sbb", "and", "or", "xor", "imul"}

var unaryNames = [...]string{"neg", "not", "inc", "dec", "mul", "imul", "div", "idiv"}

var shiftNames = [...]string{"shl", "shr", "sar", "rol", "ror"}

var cvtNames = [...]string{
	"cvtsi2ss", "cvtsi2sd", "cvttss2si", "cvttsd2si", "cvtss2sd", "cvtsd2ss",
}

var sseNames = [...]string{
	"movss", "movsd", "movaps",
	"addss", "addsd", "subss", "subsd",
	"mulss", "mulsd", "divss", "divsd",
	"sqrtss", "sqrtsd",
	"ucomiss", "ucomisd",
	"xorps", "xorpd", "pxor",
	"roundss", "roundsd",
}

var f87Names = [...]string{
	"fld", "fst", "fstp", "fild", "fistp",
	"faddp", "fsubp", "fsubrp", "fmulp", "fdivp", "fdivrp",
	"fchs", "fabs", "fxch", "fucomip",
}

var signExtNames = [...]string{S16: "cwd", S32: "cdq", S64: "cqo"}

func (op ArithOp) Name() string {
	if op < 0 || op >= arithEnd {
		panic(op)
	}

	return arithNames[op]
}

func (op UnaryOp) Name() string {
	if op < 0 || op >= unaryEnd {
		panic(op)
	}

	return unaryNames[op]
}

func (op ShiftOp) Name() string {
	if op < 0 || op >= shiftEnd {
		panic(op)
	}

	return shiftNames[op]
}

func (op CvtOp) Name() string {
	if op < 0 || op >= cvtEnd {
		panic(op)
	}

	return cvtNames[op]
}

func (op SSEOp) Name() string {
	if op < 0 || op >= sseEnd {
		panic(op)
	}

	return sseNames[op]
}

func (op F87Op) Name() string {
	if op < 0 || op >= f87End {
		panic(op)
	}

	return f87Names[op]
}

func (s SignExt) Name() string {
	if s.Size < S16 || s.Size > S64 {
		panic(s.Size)
	}

	return signExtNames[s.Size]
}
