package obj

import (
	"tlog.app/go/errors"

	"github.com/x86emit/x86emit/asm"
	"github.com/x86emit/x86emit/x86"
)

// x86-64 encoding constants. REX selects 64-bit operands and the
// upper register files, ModRM mod 11 is register direct.
const (
	rexW = 0x48
	rexR = 0x04
	rexX = 0x02
	rexB = 0x01

	modInd   = 0x00
	modDisp8 = 0x40
	modDisp  = 0x80
	modReg   = 0xc0
)

// group1 /digit extensions for the imm forms
var group1Ext = map[x86.ArithOp]byte{
	x86.ArithAdd: 0,
	x86.ArithOr:  1,
	x86.ArithAdc: 2,
	x86.ArithSbb: 3,
	x86.ArithAnd: 4,
	x86.ArithSub: 5,
	x86.ArithXor: 6,
}

// rm,r opcodes
var group1Op = map[x86.ArithOp]byte{
	x86.ArithAdd: 0x01,
	x86.ArithOr:  0x09,
	x86.ArithAdc: 0x11,
	x86.ArithSbb: 0x19,
	x86.ArithAnd: 0x21,
	x86.ArithSub: 0x29,
	x86.ArithXor: 0x31,
}

var group3Ext = map[x86.UnaryOp]byte{
	x86.UnaryNot:  2,
	x86.UnaryNeg:  3,
	x86.UnaryMul:  4,
	x86.UnaryImul: 5,
	x86.UnaryDiv:  6,
	x86.UnaryIdiv: 7,
}

var shiftExt = map[x86.ShiftOp]byte{
	x86.ShiftRol: 0,
	x86.ShiftRor: 1,
	x86.ShiftShl: 4,
	x86.ShiftShr: 5,
	x86.ShiftSar: 7,
}

type (
	fixup struct {
		at  int // position of the rel32 field
		sym string
	}

	encoder struct {
		b   []byte
		pad byte // alignment filler, nop in executable sections

		labels  map[string]int
		globals map[string]bool
		fixups  []fixup
	}
)

func newEncoder() *encoder {
	return &encoder{
		labels:  map[string]int{},
		globals: map[string]bool{},
	}
}

func (e *encoder) section(body []asm.Directive) (err error) {
	for i, d := range body {
		err = e.directive(d)
		if err != nil {
			return errors.Wrap(err, "directive %d (%T)", i, d)
		}
	}

	for _, f := range e.fixups {
		tgt, ok := e.labels[f.sym]
		if !ok {
			// external symbol, needs a relocation
			return errors.Wrap(ErrUnsupported, "undefined label %v", f.sym)
		}

		putU32(e.b[f.at:], uint32(int32(tgt-(f.at+4))))
	}

	return nil
}

func (e *encoder) directive(d asm.Directive) error {
	switch d := d.(type) {
	case asm.Instr:
		return e.instr(d.I)
	case asm.Label:
		e.labels[d.Name] = len(e.b)
		return nil
	case asm.Visibility:
		if d.Kind == asm.VisGlobal {
			e.globals[d.Sym] = true
		}
		return nil
	case asm.Bytes:
		e.b = append(e.b, d.Data...)
		return nil
	case asm.Space:
		e.b = append(e.b, make([]byte, d.N)...)
		return nil
	case asm.Align:
		n := d.Val
		if d.Pow2 {
			n = 1 << d.Val
		}

		for n > 1 && len(e.b)%n != 0 {
			e.b = append(e.b, e.pad)
		}

		return nil
	case asm.Comment, asm.DebugFile, asm.DebugLine,
		asm.CFIStart, asm.CFIEnd, asm.CFIAdjust,
		asm.SymType, asm.SymSize, asm.End:
		// no bytes
		return nil
	default:
		return errors.Wrap(ErrUnsupported, "directive %T", d)
	}
}

func (e *encoder) instr(i any) error {
	switch x := i.(type) {
	case x86.Mov:
		return e.mov(x)
	case x86.Lea:
		return e.lea(x)
	case x86.Arith:
		return e.arith(x)
	case x86.Unary:
		return e.unary(x)
	case x86.Shift:
		return e.shift(x)
	case x86.Push:
		return e.pushPop(0x50, x.Src)
	case x86.Pop:
		return e.pushPop(0x58, x.Dst)
	case x86.Cmp:
		return e.rmr(0x39, x.A, x.B)
	case x86.Test:
		return e.rmr(0x85, x.A, x.B)
	case x86.Setcc:
		return e.setcc(x)
	case x86.Cmovcc:
		return e.cmovcc(x)
	case x86.Jmp:
		return e.branch(0, 0xe9, x.Dst)
	case x86.Jcc:
		return e.branch(0x0f, 0x80+byte(x.Cond), x.Dst)
	case x86.Call:
		return e.branch(0, 0xe8, x.Dst)
	case x86.Ret:
		e.b = append(e.b, 0xc3)
		return nil
	case x86.Leave:
		e.b = append(e.b, 0xc9)
		return nil
	case x86.SignExt:
		return e.signExt(x)
	case x86.Nop:
		e.b = append(e.b, 0x90)
		return nil
	case x86.Ud2:
		e.b = append(e.b, 0x0f, 0x0b)
		return nil
	default:
		return errors.Wrap(ErrUnsupported, "instruction %T", i)
	}
}

func reg64(o x86.Opnd) (x86.Reg64, bool) {
	r, ok := o.(x86.Reg64)
	if !ok || r == x86.RIP {
		return 0, false
	}

	return r, true
}

func immInt(o x86.Opnd) (int64, bool) {
	imm, ok := o.(x86.Imm)
	if !ok {
		return 0, false
	}

	c, ok := imm.C.(x86.Int)
	if !ok {
		return 0, false
	}

	return c.V, true
}

// rex builds the prefix for reg (ModRM.reg) and rm (ModRM.rm).
func rex(reg, rm x86.Reg64) byte {
	x := byte(rexW)

	if reg >= 8 {
		x |= rexR
	}
	if rm >= 8 {
		x |= rexB
	}

	return x
}

func modrm(mod, reg, rm byte) byte {
	return mod | reg<<3&0x38 | rm&7
}

// rmr encodes op rm64, r64 register-direct.
func (e *encoder) rmr(op byte, dst, src x86.Opnd) error {
	d, ok := reg64(dst)
	if !ok {
		return errors.Wrap(ErrUnsupported, "dst %T", dst)
	}

	s, ok := reg64(src)
	if !ok {
		return errors.Wrap(ErrUnsupported, "src %T", src)
	}

	e.b = append(e.b, rex(s, d), op, modrm(modReg, byte(s), byte(d)))

	return nil
}

// mem appends ModRM (+SIB, +disp) addressing [base+disp] for reg.
func (e *encoder) mem(reg x86.Reg64, a x86.Addr64) error {
	if a.Scale == 0 || a.Sym != "" || a.Base == x86.RIP || a.Index != x86.RNone {
		return errors.Wrap(ErrUnsupported, "addressing %+v", a)
	}

	base := a.Base
	disp := a.Off

	mod := byte(modInd)
	switch {
	case disp == 0 && base&7 != 5: // rbp/r13 always need a disp
	case disp >= -128 && disp <= 127:
		mod = modDisp8
	default:
		mod = modDisp
	}

	e.b = append(e.b, modrm(mod, byte(reg), byte(base)))

	if base&7 == 4 { // rsp/r12 need a SIB
		e.b = append(e.b, 0x24)
	}

	switch mod {
	case modDisp8:
		e.b = append(e.b, byte(disp))
	case modDisp:
		e.b = appendU32(e.b, uint32(int32(disp)))
	}

	return nil
}

func (e *encoder) mov(x x86.Mov) error {
	if d, ok := reg64(x.Dst); ok {
		if v, ok := immInt(x.Src); ok {
			if v == int64(int32(v)) {
				e.b = append(e.b, rex(0, d), 0xc7, modrm(modReg, 0, byte(d)))
				e.b = appendU32(e.b, uint32(int32(v)))
			} else {
				e.b = append(e.b, rex(0, d), 0xb8+byte(d&7))
				e.b = appendU64(e.b, uint64(v))
			}

			return nil
		}

		if s, ok := reg64(x.Src); ok {
			e.b = append(e.b, rex(s, d), 0x89, modrm(modReg, byte(s), byte(d)))
			return nil
		}

		if m, ok := x.Src.(x86.Mem64); ok && m.T == x86.S64 {
			e.b = append(e.b, rex(d, m.A.Base), 0x8b)
			return e.mem(d, m.A)
		}
	}

	if m, ok := x.Dst.(x86.Mem64); ok && m.T == x86.S64 {
		if s, ok := reg64(x.Src); ok {
			e.b = append(e.b, rex(s, m.A.Base), 0x89)
			return e.mem(s, m.A)
		}
	}

	return errors.Wrap(ErrUnsupported, "mov form")
}

func (e *encoder) lea(x x86.Lea) error {
	d, ok := reg64(x.Dst)
	if !ok {
		return errors.Wrap(ErrUnsupported, "lea dst %T", x.Dst)
	}

	m, ok := x.Src.(x86.Mem64)
	if !ok {
		return errors.Wrap(ErrUnsupported, "lea src %T", x.Src)
	}

	e.b = append(e.b, rex(d, m.A.Base), 0x8d)

	return e.mem(d, m.A)
}

func (e *encoder) arith(x x86.Arith) error {
	if x.Op == x86.ArithImul {
		d, ok1 := reg64(x.Dst)
		s, ok2 := reg64(x.Src)
		if !ok1 || !ok2 {
			return errors.Wrap(ErrUnsupported, "imul form")
		}

		e.b = append(e.b, rex(d, s), 0x0f, 0xaf, modrm(modReg, byte(d), byte(s)))

		return nil
	}

	if v, ok := immInt(x.Src); ok {
		d, ok := reg64(x.Dst)
		if !ok {
			return errors.Wrap(ErrUnsupported, "arith dst %T", x.Dst)
		}

		ext := group1Ext[x.Op]

		if v >= -128 && v <= 127 {
			e.b = append(e.b, rex(0, d), 0x83, modrm(modReg, ext, byte(d)), byte(v))
			return nil
		}

		if v != int64(int32(v)) {
			return errors.Wrap(ErrUnsupported, "imm64 arith")
		}

		e.b = append(e.b, rex(0, d), 0x81, modrm(modReg, ext, byte(d)))
		e.b = appendU32(e.b, uint32(int32(v)))

		return nil
	}

	op, ok := group1Op[x.Op]
	if !ok {
		return errors.Wrap(ErrUnsupported, "arith op %v", x.Op)
	}

	return e.rmr(op, x.Dst, x.Src)
}

func (e *encoder) unary(x x86.Unary) error {
	d, ok := reg64(x.Dst)
	if !ok {
		return errors.Wrap(ErrUnsupported, "unary dst %T", x.Dst)
	}

	switch x.Op {
	case x86.UnaryInc:
		e.b = append(e.b, rex(0, d), 0xff, modrm(modReg, 0, byte(d)))
	case x86.UnaryDec:
		e.b = append(e.b, rex(0, d), 0xff, modrm(modReg, 1, byte(d)))
	default:
		e.b = append(e.b, rex(0, d), 0xf7, modrm(modReg, group3Ext[x.Op], byte(d)))
	}

	return nil
}

func (e *encoder) shift(x x86.Shift) error {
	d, ok := reg64(x.Dst)
	if !ok {
		return errors.Wrap(ErrUnsupported, "shift dst %T", x.Dst)
	}

	ext := shiftExt[x.Op]

	if x.Amt == x86.Opnd(x86.CL) {
		e.b = append(e.b, rex(0, d), 0xd3, modrm(modReg, ext, byte(d)))
		return nil
	}

	v, ok := immInt(x.Amt)
	if !ok {
		return errors.Wrap(ErrUnsupported, "shift amount %T", x.Amt)
	}

	e.b = append(e.b, rex(0, d), 0xc1, modrm(modReg, ext, byte(d)), byte(v))

	return nil
}

func (e *encoder) pushPop(base byte, o x86.Opnd) error {
	r, ok := reg64(o)
	if !ok {
		return errors.Wrap(ErrUnsupported, "operand %T", o)
	}

	if r >= 8 {
		e.b = append(e.b, 0x41)
	}

	e.b = append(e.b, base+byte(r&7))

	return nil
}

func (e *encoder) setcc(x x86.Setcc) error {
	r, ok := x.Dst.(x86.Reg8)
	if !ok || r > x86.BL {
		return errors.Wrap(ErrUnsupported, "setcc dst %T", x.Dst)
	}

	e.b = append(e.b, 0x0f, 0x90+byte(x.Cond), modrm(modReg, 0, byte(r)))

	return nil
}

func (e *encoder) cmovcc(x x86.Cmovcc) error {
	d, ok1 := reg64(x.Dst)
	s, ok2 := reg64(x.Src)
	if !ok1 || !ok2 {
		return errors.Wrap(ErrUnsupported, "cmov form")
	}

	e.b = append(e.b, rex(d, s), 0x0f, 0x40+byte(x.Cond), modrm(modReg, byte(d), byte(s)))

	return nil
}

func (e *encoder) branch(pfx, op byte, dst x86.Opnd) error {
	rel, ok := dst.(x86.RelDisp)
	if !ok {
		return errors.Wrap(ErrUnsupported, "branch target %T", dst)
	}

	sym, ok := rel.C.(x86.Sym)
	if !ok || sym.Rel != x86.RelNone {
		return errors.Wrap(ErrUnsupported, "branch constant %T", rel.C)
	}

	if pfx != 0 {
		e.b = append(e.b, pfx)
	}

	e.b = append(e.b, op)

	e.fixups = append(e.fixups, fixup{at: len(e.b), sym: sym.Name})
	e.b = appendU32(e.b, 0)

	return nil
}

func (e *encoder) signExt(x x86.SignExt) error {
	switch x.Size {
	case x86.S32:
		e.b = append(e.b, 0x99)
	case x86.S64:
		e.b = append(e.b, rexW, 0x99)
	default:
		return errors.Wrap(ErrUnsupported, "sign extend %v", x.Size)
	}

	return nil
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendU64(b []byte, v uint64) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v>>8)
	b[2] = byte(v>>16)
	b[3] = byte(v>>24)
}
