package asm

import (
	"github.com/x86emit/x86emit/x86"
)

type (
	// Directive is one assembly line: an instruction or a structural
	// directive. Variants are matched by type, the renderer decides
	// which ones a given object-format convention honors.
	Directive any

	// Program is the flat directive sequence exchanged between
	// pipeline stages.
	Program []Directive

	VisKind int
	SymKind int

	Instr struct {
		I any // one of the x86 instruction variants
	}

	// SectionSwitch changes the active section when it names exactly
	// one target. Naming several targets makes it a structural marker
	// that belongs to no section body.
	SectionSwitch struct {
		Names []string
		Flags string
		Attrs string
	}

	Visibility struct {
		Sym  string
		Kind VisKind
	}

	Label struct {
		Name string
		Type x86.Size
	}

	Bytes struct {
		Data []byte
	}

	Space struct {
		N int64
	}

	Comment struct {
		Text string
	}

	// Equ defines a constant-valued symbol.
	Equ struct {
		Name  string
		Value x86.Const
	}

	Align struct {
		Pow2 bool
		Val  int
	}

	DebugFile struct {
		Idx  int
		Name string
	}

	DebugLine struct {
		File int
		Line int
	}

	CFIStart struct{}

	CFIEnd struct{}

	CFIAdjust struct {
		Delta int64
	}

	SymType struct {
		Name string
		Kind SymKind
	}

	SymSize struct {
		Name string
		Size x86.Const
	}

	Indirect struct {
		Name string
	}

	End struct{}
)

const (
	VisGlobal VisKind = iota
	VisExtern
	VisPrivateExtern
)

const (
	SymFunc SymKind = iota
	SymObject
)

var visNames = [...]string{"global", "extern", "private_extern"}

var symKindNames = [...]string{"function", "object"}

func (k VisKind) Name() string {
	if k < 0 || int(k) >= len(visNames) {
		panic(k)
	}

	return visNames[k]
}

func (k SymKind) Name() string {
	if k < 0 || int(k) >= len(symKindNames) {
		panic(k)
	}

	return symKindNames[k]
}
