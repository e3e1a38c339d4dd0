// Package obj is an in-process assembler for the integer subset of
// the repertoire. It is the injectable counterpart of the external
// tool: sections it cannot encode make it abort, which the dispatcher
// treats as a recoverable fallback.
package obj

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/x86emit/x86emit/asm"
	"github.com/x86emit/x86emit/x86"
)

type (
	Assembler struct{}
)

// ErrUnsupported is the abort signal: the input needs a capability
// this encoder does not have (32-bit mode, relocations, SSE, x87).
var ErrUnsupported = errors.New("unsupported by internal assembler")

func New() *Assembler {
	return &Assembler{}
}

func (a *Assembler) Assemble(ctx context.Context, mode x86.Mode, secs *asm.Sections) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "internal assemble", "mode", mode, "sections", len(secs.Names))
	defer tr.Finish("err", &err)

	if mode != x86.ModeX64 {
		return nil, errors.Wrap(ErrUnsupported, "mode %v", mode)
	}

	var eb elfBuilder

	for _, name := range secs.Names {
		s := secs.ByName[name]

		e := newEncoder()
		if secFlags(name)&shfExec != 0 {
			e.pad = 0x90
		}

		err = e.section(s.Body)
		if err != nil {
			return nil, errors.Wrap(err, "section %v", name)
		}

		tr.Printw("section encoded", "name", name, "size", len(e.b), "labels", len(e.labels))

		eb.add(name, e)
	}

	return eb.bytes()
}
