package x86

type (
	// Opnd is an instruction operand.
	Opnd interface {
		isOpnd()
	}

	Imm struct {
		C    Const
		Size Size
	}

	// RelDisp is a relative displacement, the target of a branch.
	RelDisp struct {
		C Const
	}

	// Mem64 is a memory operand under 64-bit addressing. T is the
	// declared data type; it is carried even when a dialect ignores it.
	Mem64 struct {
		A Addr64
		T Size
	}

	Mem32 struct {
		A Addr32
		T Size
	}
)

func (Imm) isOpnd()     {}
func (RelDisp) isOpnd() {}
func (Mem64) isOpnd()   {}
func (Mem32) isOpnd()   {}
func (Reg8) isOpnd()    {}
func (Reg16) isOpnd()   {}
func (Reg32) isOpnd()   {}
func (Reg64) isOpnd()   {}
func (FReg) isOpnd()    {}
