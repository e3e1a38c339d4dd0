package x86

type (
	// Addr64 is a 64-bit register based addressing expression:
	// an optional base/index/scale triple plus a mandatory offset.
	// Scale 0 means no base and no index, a pure symbol/offset.
	// Index RNone means base only. Base RIP selects rip-relative
	// addressing, in which case index and scale must stay empty.
	Addr64 struct {
		Base  Reg64
		Index Reg64
		Scale int

		Sym string
		Rel Reloc
		Off int64
	}

	// Addr32 is the 32-bit variant. No instruction pointer base.
	// An absent index is Dword(RNone).
	Addr32 struct {
		Base  Reg32
		Index Reg32
		Scale int

		Sym string
		Rel Reloc
		Off int64
	}
)

func validScale(s int) bool {
	switch s {
	case 0, 1, 2, 4, 8:
		return true
	}

	return false
}

func (a Addr64) Valid() bool {
	if !validScale(a.Scale) {
		return false
	}
	if a.Base == RIP && a.Scale != 0 {
		// rip-relative addressing takes no index
		return a.Index == RNone && a.Scale == 1
	}

	return true
}

func (a Addr32) Valid() bool {
	return validScale(a.Scale) && a.Base.R != RIP && a.Index.R != RIP
}
