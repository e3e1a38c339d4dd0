package obj

import (
	"sort"

	"tlog.app/go/errors"
)

// Minimal ELF64 relocatable output: the encoded sections, a symbol
// table for the labels and the string tables. Enough for a linker to
// consume what the encoder can produce; anything needing relocation
// entries has already aborted in the encoder.

const (
	elfShdrSize = 64
	elfSymSize  = 24

	shtProgbits = 1
	shtSymtab   = 2
	shtStrtab   = 3

	shfWrite = 0x1
	shfAlloc = 0x2
	shfExec  = 0x4
)

type (
	elfSec struct {
		name string
		enc  *encoder
	}

	elfBuilder struct {
		secs []elfSec
	}

	elfShdr struct {
		name  uint32
		typ   uint32
		flags uint64
		off   uint64
		size  uint64
		link  uint32
		info  uint32
		align uint64
		ent   uint64
	}
)

func (eb *elfBuilder) add(name string, e *encoder) {
	eb.secs = append(eb.secs, elfSec{name: name, enc: e})
}

func secFlags(name string) uint64 {
	f := uint64(shfAlloc)

	switch name {
	case ".text":
		f |= shfExec
	case ".data", ".bss":
		f |= shfWrite
	}

	return f
}

func (eb *elfBuilder) bytes() ([]byte, error) {
	shstr := newStrtab()
	str := newStrtab()

	// symbols: null, one per section, then labels, locals first
	type symbol struct {
		name   string
		sec    int // 1-based section header index
		value  uint64
		global bool
		istype byte
	}

	syms := []symbol{{}}

	for i := range eb.secs {
		syms = append(syms, symbol{sec: i + 1, istype: 3}) // STT_SECTION
	}

	for i, s := range eb.secs {
		names := make([]string, 0, len(s.enc.labels))
		for name := range s.enc.labels {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			syms = append(syms, symbol{
				name:   name,
				sec:    i + 1,
				value:  uint64(s.enc.labels[name]),
				global: s.enc.globals[name],
			})
		}
	}

	sort.SliceStable(syms[1:], func(i, j int) bool {
		return !syms[1+i].global && syms[1+j].global
	})

	firstGlobal := len(syms)
	for i, s := range syms {
		if s.global {
			firstGlobal = i
			break
		}
	}

	for _, s := range eb.secs {
		for name := range s.enc.globals {
			if _, ok := s.enc.labels[name]; !ok {
				return nil, errors.Wrap(ErrUnsupported, "global %v has no definition", name)
			}
		}
	}

	// layout: ehdr, section contents, symtab, strtab, shstrtab, shdrs
	hdrs := make([]elfShdr, 1, len(eb.secs)+4)

	off := uint64(64)

	var body []byte

	align16 := func() {
		for (off+uint64(len(body)))%16 != 0 {
			body = append(body, 0)
		}
	}

	for _, s := range eb.secs {
		align16()

		hdrs = append(hdrs, elfShdr{
			name:  shstr.add(s.name),
			typ:   shtProgbits,
			flags: secFlags(s.name),
			off:   off + uint64(len(body)),
			size:  uint64(len(s.enc.b)),
			align: 16,
		})

		body = append(body, s.enc.b...)
	}

	align16()

	symtab := make([]byte, 0, len(syms)*elfSymSize)

	for _, s := range syms {
		bind := byte(0)
		if s.global {
			bind = 1
		}

		symtab = appendU32(symtab, str.add(s.name))
		symtab = append(symtab, bind<<4|s.istype, 0)
		symtab = append(symtab, byte(s.sec), byte(s.sec>>8))
		symtab = appendU64(symtab, s.value)
		symtab = appendU64(symtab, 0)
	}

	symtabIdx := len(hdrs)

	hdrs = append(hdrs, elfShdr{
		name:  shstr.add(".symtab"),
		typ:   shtSymtab,
		off:   off + uint64(len(body)),
		size:  uint64(len(symtab)),
		link:  uint32(symtabIdx + 1), // the strtab right after
		info:  uint32(firstGlobal),
		align: 8,
		ent:   elfSymSize,
	})

	body = append(body, symtab...)

	hdrs = append(hdrs, elfShdr{
		name:  shstr.add(".strtab"),
		typ:   shtStrtab,
		off:   off + uint64(len(body)),
		size:  uint64(len(str.b)),
		align: 1,
	})

	body = append(body, str.b...)

	shstrIdx := len(hdrs)

	shstrName := shstr.add(".shstrtab")

	hdrs = append(hdrs, elfShdr{
		name:  shstrName,
		typ:   shtStrtab,
		off:   off + uint64(len(body)),
		size:  uint64(len(shstr.b)),
		align: 1,
	})

	body = append(body, shstr.b...)

	for (off+uint64(len(body)))%8 != 0 {
		body = append(body, 0)
	}

	shoff := off + uint64(len(body))

	// file header
	b := make([]byte, 0, int(shoff)+len(hdrs)*elfShdrSize)

	b = append(b, 0x7f, 'E', 'L', 'F', 2, 1, 1, 0)
	b = append(b, make([]byte, 8)...)
	b = append(b, 1, 0)  // ET_REL
	b = append(b, 62, 0) // EM_X86_64
	b = appendU32(b, 1)
	b = appendU64(b, 0) // entry
	b = appendU64(b, 0) // phoff
	b = appendU64(b, shoff)
	b = appendU32(b, 0) // flags
	b = append(b, 64, 0) // ehsize
	b = append(b, 0, 0, 0, 0)
	b = append(b, elfShdrSize, 0)
	b = append(b, byte(len(hdrs)), byte(len(hdrs)>>8))
	b = append(b, byte(shstrIdx), byte(shstrIdx>>8))

	b = append(b, body...)

	for _, h := range hdrs {
		b = appendU32(b, h.name)
		b = appendU32(b, h.typ)
		b = appendU64(b, h.flags)
		b = appendU64(b, 0) // addr
		b = appendU64(b, h.off)
		b = appendU64(b, h.size)
		b = appendU32(b, h.link)
		b = appendU32(b, h.info)
		b = appendU64(b, h.align)
		b = appendU64(b, h.ent)
	}

	return b, nil
}

type strtab struct {
	b   []byte
	idx map[string]uint32
}

func newStrtab() *strtab {
	return &strtab{b: []byte{0}, idx: map[string]uint32{"": 0}}
}

func (s *strtab) add(name string) uint32 {
	if i, ok := s.idx[name]; ok {
		return i
	}

	i := uint32(len(s.b))
	s.b = append(s.b, name...)
	s.b = append(s.b, 0)
	s.idx[name] = i

	return i
}
