package x86

type (
	Cond int
)

const (
	CondO Cond = iota
	CondNO
	CondB
	CondAE
	CondE
	CondNE
	CondBE
	CondA
	CondS
	CondNS
	CondP
	CondNP
	CondL
	CondGE
	CondLE
	CondG

	condEnd
)

// aliases encode to the same test
const (
	CondC  = CondB
	CondNC = CondAE
	CondZ  = CondE
	CondNZ = CondNE
	CondNA = CondBE
	CondNB = CondAE
)

var condNames = [...]string{
	CondO:  "o",
	CondNO: "no",
	CondB:  "b",
	CondAE: "ae",
	CondE:  "e",
	CondNE: "ne",
	CondBE: "be",
	CondA:  "a",
	CondS:  "s",
	CondNS: "ns",
	CondP:  "p",
	CondNP: "np",
	CondL:  "l",
	CondGE: "ge",
	CondLE: "le",
	CondG:  "g",
}

func (c Cond) Name() string {
	if c < 0 || c >= condEnd {
		panic(c)
	}

	return condNames[c]
}

// Not returns the negated condition. Encodings pair up even/odd.
func (c Cond) Not() Cond {
	return c ^ 1
}

func (c Cond) String() string { return c.Name() }
