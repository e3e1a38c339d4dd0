package emit

import (
	"context"
	"os"
	"path/filepath"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/x86emit/x86emit/asm"
	"github.com/x86emit/x86emit/dialect"
	"github.com/x86emit/x86emit/x86"
)

type (
	// Assembler encodes split sections directly into an object buffer.
	// Any error is an abort signal; aborts are recoverable unless the
	// policy demands success.
	Assembler interface {
		Assemble(ctx context.Context, mode x86.Mode, secs *asm.Sections) ([]byte, error)
	}

	AssemblerFunc func(ctx context.Context, mode x86.Mode, secs *asm.Sections) ([]byte, error)

	// Context owns everything one compilation unit needs to be
	// emitted: the directive log, the injected assembler capability,
	// the policy and the two backends' state. Nothing here is global;
	// units are isolated by construction.
	Context struct {
		Unit   *asm.Unit
		Render dialect.Renderer

		Asm    Assembler // nil: no implementation injected, always abort
		Policy Policy
		Tool   Tool

		PrintAsm bool
		X64      bool

		bin  []byte // produced buffer awaiting persistence
		text []byte
	}

	// FatalError reports a policy violation: the internal assembler
	// was required to succeed and aborted. The caller must abort the
	// build; everything else is recoverable via the external tool.
	FatalError struct {
		Err  error
		From loc.PC
	}
)

var ErrNoAssembler = errors.New("no assembler injected")

func (f AssemblerFunc) Assemble(ctx context.Context, mode x86.Mode, secs *asm.Sections) ([]byte, error) {
	return f(ctx, mode, secs)
}

func New(r dialect.Renderer) *Context {
	return &Context{
		Unit:   asm.NewUnit(),
		Render: r,
	}
}

func (c *Context) Mode() x86.Mode {
	if c.X64 {
		return x86.ModeX64
	}

	return x86.ModeX86
}

// Text is the rendered assembly of the last GenerateCode call.
func (c *Context) Text() []byte {
	return c.text
}

// Binary reports whether an object buffer awaits persistence.
func (c *Context) Binary() bool {
	return c.bin != nil
}

// GenerateCode flushes the unit log through the pass pipeline, tries
// the internal assembler as the policy allows, and renders the textual
// assembly. The unit log is reset for the next unit.
func (c *Context) GenerateCode(ctx context.Context) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "generate code", "mode", c.Mode(), "policy", c.Policy)
	defer tr.Finish("err", &err)

	p := c.Unit.Flush()
	c.Unit.Reset()
	c.text = nil

	tr.Printw("program flushed", "directives", len(p))

	switch {
	case c.Policy.Never:
		tr.Printw("internal assembler disabled")
	default:
		secs := asm.Split(p)

		b, aerr := c.assemble(ctx, secs)
		if aerr == nil {
			c.bin = b

			tr.Printw("assembled", "size", len(b), "sections", len(secs.Names))

			break
		}

		if c.Policy.Must {
			return &FatalError{Err: aerr, From: loc.Caller(0)}
		}

		tr.Printw("internal assembler aborted, falling back", "err", aerr)
	}

	if c.PrintAsm || c.Policy.Diff || c.bin == nil {
		b := c.Render.Begin(nil)

		b, err = c.Render.Render(b, p)
		if err != nil {
			return errors.Wrap(err, "render")
		}

		c.text = b
	}

	return nil
}

func (c *Context) assemble(ctx context.Context, secs *asm.Sections) ([]byte, error) {
	if c.Asm == nil {
		return nil, ErrNoAssembler
	}

	return c.Asm.Assemble(ctx, c.Mode(), secs)
}

// AssembleFile persists the unit: the internal buffer if one was
// produced, otherwise the external assembler is run on the textual
// input and its exit status is the result. Under the diff policy both
// paths run, the buffer going to a .diff. sibling of outPath so the
// two objects can be compared byte by byte.
func (c *Context) AssembleFile(ctx context.Context, inPath, outPath string) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "assemble file", "in", inPath, "out", outPath, "binary", c.bin != nil)
	defer tr.Finish("err", &err)

	if c.bin != nil {
		defer func() { c.bin = nil }()

		dst := outPath
		if c.Policy.Diff {
			dst = DiffPath(outPath)
		}

		err = os.WriteFile(dst, c.bin, 0o644)
		if err != nil {
			return errors.Wrap(err, "write object")
		}

		tr.Printw("object written", "path", dst, "size", len(c.bin))

		if !c.Policy.Diff {
			return nil
		}
	}

	err = os.WriteFile(inPath, c.text, 0o644)
	if err != nil {
		return errors.Wrap(err, "write assembly")
	}

	err = c.Tool.Invoke(ctx, inPath, outPath)
	if err != nil {
		return errors.Wrap(err, "external assembler")
	}

	return nil
}

func DiffPath(p string) string {
	ext := filepath.Ext(p)

	return p[:len(p)-len(ext)] + ".diff" + ext
}

func (e *FatalError) Error() string {
	return "internal assembler was required to succeed: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error { return e.Err }
