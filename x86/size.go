package x86

type (
	// Size disambiguates immediate and displacement widths and tags
	// memory operands with their declared data type.
	Size int

	// Mode selects the machine word width of the target.
	Mode int
)

const (
	S8 Size = iota
	S16
	S32
	S64

	sizeEnd
)

const (
	ModeX86 Mode = iota
	ModeX64
)

var sizeNames = [...]string{"byte", "word", "dword", "qword"}

func (s Size) Name() string {
	if s < 0 || s >= sizeEnd {
		panic(s)
	}

	return sizeNames[s]
}

func (s Size) Bits() int {
	return 8 << s
}

func (s Size) String() string { return s.Name() }

func (m Mode) String() string {
	if m == ModeX64 {
		return "x64"
	}

	return "x86"
}
