package asm

type (
	// Pass is a total transformation over a whole program. A no-op
	// pass returns its input unchanged; there is no skip signal.
	Pass func(Program) Program

	// Unit is the per-compilation-unit directive log plus the
	// registered pass pipeline. Directives come back out of Flush in
	// exact emission order.
	Unit struct {
		log    Program
		passes []Pass
	}
)

func NewUnit() *Unit {
	return &Unit{}
}

func (u *Unit) Emit(d Directive) {
	u.log = append(u.log, d)
}

func (u *Unit) EmitAll(ds ...Directive) {
	u.log = append(u.log, ds...)
}

// Reset clears the log. Called at the start of every unit so nothing
// leaks across units. Registered passes stay.
func (u *Unit) Reset() {
	u.log = u.log[:0]
}

func (u *Unit) Len() int {
	return len(u.log)
}

func (u *Unit) AddPass(p Pass) {
	u.passes = append(u.passes, p)
}

// Flush threads the log through every registered pass in registration
// order and returns the result. The log itself is not consumed;
// Reset does that.
func (u *Unit) Flush() Program {
	p := make(Program, len(u.log))
	copy(p, u.log)

	for _, f := range u.passes {
		p = f(p)
	}

	return p
}
