package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x86emit/x86emit/x86"
)

func TestUnitOrder(t *testing.T) {
	u := NewUnit()

	u.Emit(Comment{Text: "a"})
	u.Emit(Comment{Text: "b"})
	u.EmitAll(Comment{Text: "c"}, Comment{Text: "d"})

	p := u.Flush()

	require.Len(t, p, 4)

	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, p[i].(Comment).Text)
	}
}

func TestUnitReset(t *testing.T) {
	u := NewUnit()

	u.Emit(Comment{Text: "x"})
	u.Reset()

	assert.Len(t, u.Flush(), 0)
	assert.Equal(t, 0, u.Len())
}

func TestPassOrder(t *testing.T) {
	u := NewUnit()

	u.AddPass(func(p Program) Program {
		return append(p, Comment{Text: "p1"})
	})
	u.AddPass(func(p Program) Program {
		return append(p, Comment{Text: "p2"})
	})

	u.Emit(Comment{Text: "x"})

	p := u.Flush()

	require.Len(t, p, 3)
	assert.Equal(t, "p1", p[1].(Comment).Text)
	assert.Equal(t, "p2", p[2].(Comment).Text)
}

func TestPassComposition(t *testing.T) {
	p1 := func(p Program) Program {
		q := Program{}
		for _, d := range p {
			if _, ok := d.(Comment); !ok {
				q = append(q, d)
			}
		}
		return q
	}
	p2 := func(p Program) Program {
		return append(Program{Comment{Text: "hdr"}}, p...)
	}

	in := Program{Comment{Text: "x"}, Instr{I: x86.Ret{}}, End{}}

	u := NewUnit()
	u.AddPass(p1)
	u.AddPass(p2)
	u.EmitAll(in...)

	assert.Equal(t, p2(p1(in)), u.Flush())
}

func TestSplit(t *testing.T) {
	p := Program{
		Comment{Text: "t0"},
		SectionSwitch{Names: []string{".data"}},
		Comment{Text: "d0"},
		Comment{Text: "d1"},
		SectionSwitch{Names: []string{".text"}},
		Comment{Text: "t1"},
		SectionSwitch{Names: []string{".data", ".bss"}}, // marker only
		Comment{Text: "t2"},
		SectionSwitch{Names: []string{".bss"}},
		Space{N: 8},
	}

	ss := Split(p)

	require.Equal(t, []string{".text", ".data", ".bss"}, ss.Names)

	text := ss.ByName[".text"].Body
	require.Len(t, text, 3)
	assert.Equal(t, "t0", text[0].(Comment).Text)
	assert.Equal(t, "t1", text[1].(Comment).Text)
	assert.Equal(t, "t2", text[2].(Comment).Text)

	data := ss.ByName[".data"].Body
	require.Len(t, data, 2)
	assert.Equal(t, "d0", data[0].(Comment).Text)

	require.Len(t, ss.ByName[".bss"].Body, 1)

	// switches carry no body entries; total is preserved
	total := 0
	for _, name := range ss.Names {
		total += len(ss.ByName[name].Body)
	}
	assert.Equal(t, len(p)-4, total)
}

func TestSplitEmpty(t *testing.T) {
	ss := Split(nil)

	require.Equal(t, []string{".text"}, ss.Names)
	assert.Len(t, ss.ByName[".text"].Body, 0)
}
