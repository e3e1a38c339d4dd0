package dialect

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/x86emit/x86emit/x86"
)

func (r *Renderer) AppendConst(b []byte, c x86.Const) ([]byte, error) {
	switch c := c.(type) {
	case x86.Int:
		return strconv.AppendInt(b, c.V, 10), nil
	case x86.Flt:
		return append(b, c.Text...), nil
	case x86.Sym:
		b = r.AppendSym(b, c.Name)
		b = append(b, c.Rel.Suffix()...)

		return b, nil
	case x86.Add:
		return r.appendBinConst(b, c.L, c.R, '+')
	case x86.Sub:
		return r.appendBinConst(b, c.L, c.R, '-')
	default:
		return nil, errors.New("unsupported constant: %T", c)
	}
}

func (r *Renderer) appendBinConst(b []byte, l, rr x86.Const, op byte) (_ []byte, err error) {
	b = append(b, '(')

	b, err = r.AppendConst(b, l)
	if err != nil {
		return nil, err
	}

	b = append(b, op)

	b, err = r.AppendConst(b, rr)
	if err != nil {
		return nil, err
	}

	b = append(b, ')')

	return b, nil
}

func (r *Renderer) AppendOperand(b []byte, o x86.Opnd) ([]byte, error) {
	switch o := o.(type) {
	case x86.Imm:
		return r.AppendConst(b, o.C)
	case x86.RelDisp:
		return r.AppendConst(b, o.C)
	case x86.Reg8:
		return append(b, o.Name()...), nil
	case x86.Reg16:
		return append(b, o.Name()...), nil
	case x86.Reg32:
		return append(b, o.Name()...), nil
	case x86.Reg64:
		return append(b, o.Name()...), nil
	case x86.FReg:
		return r.appendFReg(b, o), nil
	case x86.Mem64:
		return r.appendMem64(b, o)
	case x86.Mem32:
		return r.appendMem32(b, o)
	default:
		return nil, errors.New("unsupported operand: %T", o)
	}
}

func (r *Renderer) appendSizePtr(b []byte, t x86.Size) []byte {
	b = append(b, t.Name()...)

	if r.Style != StylePlain {
		b = append(b, " ptr"...)
	}

	return append(b, " ["...)
}

func (r *Renderer) appendMem64(b []byte, m x86.Mem64) ([]byte, error) {
	a := m.A

	if !a.Valid() {
		return nil, errors.New("bad addressing: %+v", a)
	}

	b = r.appendSizePtr(b, m.T)

	first := true

	if a.Scale != 0 {
		b = append(b, a.Base.Name()...)
		first = false

		if a.Index != x86.RNone {
			b = append(b, '+')
			b = append(b, a.Index.Name()...)
			b = append(b, '*')
			b = strconv.AppendInt(b, int64(a.Scale), 10)
		}
	}

	b = r.appendAddrTail(b, first, a.Sym, a.Rel, a.Off)

	return append(b, ']'), nil
}

func (r *Renderer) appendMem32(b []byte, m x86.Mem32) ([]byte, error) {
	a := m.A

	if !a.Valid() {
		return nil, errors.New("bad addressing: %+v", a)
	}

	b = r.appendSizePtr(b, m.T)

	first := true

	if a.Scale != 0 {
		b = append(b, a.Base.Name()...) // panics on narrowed rip, by contract
		first = false

		if a.Index.R != x86.RNone {
			b = append(b, '+')
			b = append(b, a.Index.Name()...)
			b = append(b, '*')
			b = strconv.AppendInt(b, int64(a.Scale), 10)
		}
	}

	b = r.appendAddrTail(b, first, a.Sym, a.Rel, a.Off)

	return append(b, ']'), nil
}

func (r *Renderer) appendAddrTail(b []byte, first bool, sym string, rel x86.Reloc, off int64) []byte {
	if sym != "" {
		if !first {
			b = append(b, '+')
		}

		b = r.AppendSym(b, sym)
		b = append(b, rel.Suffix()...)
		first = false
	}

	switch {
	case off < 0:
		b = append(b, '-')
		b = strconv.AppendInt(b, -off, 10)
	case off > 0 || first:
		if !first {
			b = append(b, '+')
		}

		b = strconv.AppendInt(b, off, 10)
	}

	return b
}

func (r *Renderer) appendFReg(b []byte, f x86.FReg) []byte {
	if r.Style == StylePlain || f.Kind == x86.FXMM {
		return append(b, f.Name()...)
	}

	// gas and masm write x87 stack slots as st(i)
	switch f.Kind {
	case x86.FTop:
		return append(b, "st"...)
	default:
		b = append(b, "st("...)
		b = strconv.AppendInt(b, int64(f.Idx), 10)
		b = append(b, ')')

		return b
	}
}
