package dialect

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/x86emit/x86emit/x86"
)

var roundImm = [...]int64{
	x86.RoundNearest: 0,
	x86.RoundDown:    1,
	x86.RoundUp:      2,
	x86.RoundZero:    3,
}

func instrOperands(i any) ([]x86.Opnd, bool) {
	switch x := i.(type) {
	case x86.Arith:
		return []x86.Opnd{x.Dst, x.Src}, true
	case x86.Unary:
		return []x86.Opnd{x.Dst}, true
	case x86.Shift:
		return []x86.Opnd{x.Dst, x.Amt}, true
	case x86.Push:
		return []x86.Opnd{x.Src}, true
	case x86.Pop:
		return []x86.Opnd{x.Dst}, true
	case x86.Mov:
		return []x86.Opnd{x.Dst, x.Src}, true
	case x86.MovExt:
		return []x86.Opnd{x.Dst, x.Src}, true
	case x86.Lea:
		return []x86.Opnd{x.Dst, x.Src}, true
	case x86.Xchg:
		return []x86.Opnd{x.A, x.B}, true
	case x86.Cvt:
		return []x86.Opnd{x.Dst, x.Src}, true
	case x86.SSE:
		return []x86.Opnd{x.Dst, x.Src}, true
	case x86.RoundSSE:
		return []x86.Opnd{x.Dst, x.Src}, true
	case x86.F87:
		if x.Src == nil {
			return nil, true
		}

		return []x86.Opnd{x.Src}, true
	case x86.Jmp:
		return []x86.Opnd{x.Dst}, true
	case x86.Jcc:
		return []x86.Opnd{x.Dst}, true
	case x86.Call:
		return []x86.Opnd{x.Dst}, true
	case x86.Ret, x86.Leave, x86.SignExt, x86.Nop, x86.Ud2:
		return nil, true
	case x86.Cmp:
		return []x86.Opnd{x.A, x.B}, true
	case x86.Test:
		return []x86.Opnd{x.A, x.B}, true
	case x86.Setcc:
		return []x86.Opnd{x.Dst}, true
	case x86.Cmovcc:
		return []x86.Opnd{x.Dst, x.Src}, true
	default:
		return nil, false
	}
}

func (r *Renderer) appendInstr(b []byte, i any) (_ []byte, err error) {
	mn, err := x86.Mnemonic(i)
	if err != nil {
		return nil, err
	}

	ops, ok := instrOperands(i)
	if !ok {
		return nil, errors.New("unsupported instruction: %T", i)
	}

	b = append(b, '\t')
	b = append(b, mn...)

	for j, o := range ops {
		if j == 0 {
			b = append(b, '\t')
		} else {
			b = append(b, ", "...)
		}

		b, err = r.AppendOperand(b, o)
		if err != nil {
			return nil, errors.Wrap(err, "%v operand %d", mn, j)
		}
	}

	if x, ok := i.(x86.RoundSSE); ok {
		b = append(b, ", "...)
		b = strconv.AppendInt(b, roundImm[x.Mode], 10)
	}

	return append(b, '\n'), nil
}
