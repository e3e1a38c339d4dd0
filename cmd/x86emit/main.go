package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/x86emit/x86emit/asm"
	"github.com/x86emit/x86emit/dialect"
	"github.com/x86emit/x86emit/emit"
	"github.com/x86emit/x86emit/obj"
	"github.com/x86emit/x86emit/x86"
)

func main() {
	renderCmd := &cli.Command{
		Name:   "render",
		Action: renderAct,
		Args:   cli.Args{},
	}

	assembleCmd := &cli.Command{
		Name:   "assemble",
		Action: assembleAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "x86emit",
		Description: "x86emit renders and assembles the built-in demo unit",
		Commands: []*cli.Command{
			renderCmd,
			assembleCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func newContext() *emit.Context {
	style := dialect.StyleFor(runtime.GOOS)

	prefix := ""
	if runtime.GOOS == "darwin" {
		prefix = "_"
	}

	c := emit.New(dialect.Renderer{Style: style, Mode: x86.ModeX64, Prefix: prefix})
	c.X64 = true
	c.Asm = obj.New()
	c.Policy = emit.PolicyFromEnv()
	c.Tool = emit.DefaultTool(style)

	return c
}

func renderAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	e := newContext()
	e.PrintAsm = true
	e.Policy.Never = true // text only

	demoUnit(e.Unit)

	err = e.GenerateCode(ctx)
	if err != nil {
		return errors.Wrap(err, "generate code")
	}

	if len(c.Args) == 0 {
		fmt.Printf("%s", e.Text())
		return nil
	}

	for _, a := range c.Args {
		err = os.WriteFile(a, e.Text(), 0o644)
		if err != nil {
			return errors.Wrap(err, "write %v", a)
		}
	}

	return nil
}

func assembleAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		e := newContext()
		e.PrintAsm = true

		demoUnit(e.Unit)

		err = e.GenerateCode(ctx)
		if err != nil {
			return errors.Wrap(err, "generate code")
		}

		in := strings.TrimSuffix(a, ".o") + ".s"

		err = e.AssembleFile(ctx, in, a)
		if err != nil {
			return errors.Wrap(err, "assemble %v", a)
		}
	}

	return nil
}

// demoUnit emits a unit touching most of the repertoire: sections,
// visibility, call frame info, integer and float code.
func demoUnit(u *asm.Unit) {
	u.EmitAll(
		asm.Comment{Text: "demo unit"},
		asm.Visibility{Sym: "answer", Kind: asm.VisGlobal},
		asm.SymType{Name: "answer", Kind: asm.SymFunc},
		asm.Label{Name: "answer", Type: x86.S64},
		asm.CFIStart{},
		asm.Instr{I: x86.Push{Src: x86.RBP}},
		asm.CFIAdjust{Delta: 8},
		asm.Instr{I: x86.Mov{Dst: x86.RBP, Src: x86.RSP}},
		asm.Instr{I: x86.Mov{Dst: x86.RAX, Src: x86.Imm{C: x86.Int{V: 42, Size: x86.S32}}}},
		asm.Instr{I: x86.Pop{Dst: x86.RBP}},
		asm.Instr{I: x86.Ret{}},
		asm.CFIEnd{},
		asm.SectionSwitch{Names: []string{".rodata"}},
		asm.Align{Pow2: true, Val: 3},
		asm.Label{Name: "pi", Type: x86.S64},
		asm.Bytes{Data: []byte{0x18, 0x2d, 0x44, 0x54, 0xfb, 0x21, 0x09, 0x40}},
		asm.End{},
	)
}
