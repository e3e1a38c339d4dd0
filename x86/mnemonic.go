package x86

import "tlog.app/go/errors"

// Mnemonic maps every instruction value to its canonical lowercase
// assembler name. It is total over the repertoire; anything else is
// an error, not a guess.
func Mnemonic(i any) (string, error) {
	switch x := i.(type) {
	case Arith:
		return x.Op.Name(), nil
	case Unary:
		return x.Op.Name(), nil
	case Shift:
		return x.Op.Name(), nil
	case Push:
		return "push", nil
	case Pop:
		return "pop", nil
	case Mov:
		return "mov", nil
	case MovExt:
		if x.Signed {
			return "movsx", nil
		}
		return "movzx", nil
	case Lea:
		return "lea", nil
	case Xchg:
		return "xchg", nil
	case Cvt:
		return x.Op.Name(), nil
	case SSE:
		return x.Op.Name(), nil
	case RoundSSE:
		return x.Op.Name(), nil
	case F87:
		return x.Op.Name(), nil
	case Jmp:
		return "jmp", nil
	case Jcc:
		return "j" + x.Cond.Name(), nil
	case Call:
		return "call", nil
	case Ret:
		return "ret", nil
	case Leave:
		return "leave", nil
	case Cmp:
		return "cmp", nil
	case Test:
		return "test", nil
	case Setcc:
		return "set" + x.Cond.Name(), nil
	case Cmovcc:
		return "cmov" + x.Cond.Name(), nil
	case SignExt:
		return x.Name(), nil
	case Nop:
		return "nop", nil
	case Ud2:
		return "ud2", nil
	default:
		return "", errors.New("unsupported instruction: %T", i)
	}
}
