package x86

type (
	// Const is a linker-time constant expression. The tree is carried
	// to the assembler as is, it is never evaluated here.
	Const interface {
		isConst()
	}

	Reloc int

	Int struct {
		V    int64
		Size Size
	}

	// Flt keeps the decimal text of a floating literal so rendering
	// does not depend on host float formatting.
	Flt struct {
		Text string
	}

	Sym struct {
		Name string
		Rel  Reloc
	}

	Add struct {
		L, R Const
	}

	Sub struct {
		L, R Const
	}
)

const (
	RelNone Reloc = iota
	RelPLT
	RelGOTPC
)

func (Int) isConst() {}
func (Flt) isConst() {}
func (Sym) isConst() {}
func (Add) isConst() {}
func (Sub) isConst() {}

var relocNames = [...]string{"", "@plt", "@gotpcrel"}

func (r Reloc) Suffix() string {
	if r < 0 || int(r) >= len(relocNames) {
		panic(r)
	}

	return relocNames[r]
}
