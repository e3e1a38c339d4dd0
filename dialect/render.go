package dialect

import (
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/x86emit/x86emit/asm"
	"github.com/x86emit/x86emit/x86"
)

// Begin appends the unit prologue.
func (r *Renderer) Begin(b []byte) []byte {
	switch r.Style {
	case StyleGAS:
		b = append(b, ".intel_syntax noprefix\n"...)
	case StyleMASM:
		if r.Mode == x86.ModeX86 {
			b = append(b, ".686p\n.xmm\n.model flat\n"...)
		}
	}

	return b
}

func (r *Renderer) Render(b []byte, p asm.Program) (_ []byte, err error) {
	for i, d := range p {
		b, err = r.RenderDirective(b, d)
		if err != nil {
			return nil, errors.Wrap(err, "directive %d", i)
		}
	}

	return b, nil
}

func (r *Renderer) RenderDirective(b []byte, d asm.Directive) (_ []byte, err error) {
	switch d := d.(type) {
	case asm.Instr:
		return r.appendInstr(b, d.I)
	case asm.SectionSwitch:
		return r.appendSection(b, d), nil
	case asm.Visibility:
		return r.appendVisibility(b, d), nil
	case asm.Label:
		b = r.AppendSym(b, d.Name)
		b = append(b, ":\n"...)

		return b, nil
	case asm.Bytes:
		return r.appendBytes(b, d.Data), nil
	case asm.Space:
		return r.appendSpace(b, d.N), nil
	case asm.Comment:
		return r.appendComment(b, d.Text), nil
	case asm.Equ:
		return r.appendEqu(b, d)
	case asm.Align:
		return r.appendAlign(b, d), nil
	case asm.DebugFile:
		if r.Style == StyleMASM {
			return b, nil
		}

		b = hfmt.Appendf(b, "\t.file\t%d ", d.Idx)
		b = AppendQuoted(b, d.Name)
		b = append(b, '\n')

		return b, nil
	case asm.DebugLine:
		if r.Style == StyleMASM {
			return b, nil
		}

		return hfmt.Appendf(b, "\t.loc\t%d %d\n", d.File, d.Line), nil
	case asm.CFIStart:
		if r.Style == StyleMASM {
			return b, nil
		}

		return append(b, "\t.cfi_startproc\n"...), nil
	case asm.CFIEnd:
		if r.Style == StyleMASM {
			return b, nil
		}

		return append(b, "\t.cfi_endproc\n"...), nil
	case asm.CFIAdjust:
		if r.Style == StyleMASM {
			return b, nil
		}

		return hfmt.Appendf(b, "\t.cfi_adjust_cfa_offset %d\n", d.Delta), nil
	case asm.SymType:
		if r.Style != StyleGAS && r.Style != StylePlain {
			return b, nil
		}

		b = append(b, "\t.type\t"...)
		b = r.AppendSym(b, d.Name)

		if r.Style == StyleGAS {
			b = append(b, ",@"...)
		} else {
			b = append(b, ',')
		}

		b = append(b, d.Kind.Name()...)
		b = append(b, '\n')

		return b, nil
	case asm.SymSize:
		if r.Style == StyleMASM {
			return b, nil
		}

		b = append(b, "\t.size\t"...)
		b = r.AppendSym(b, d.Name)
		b = append(b, ", "...)

		b, err = r.AppendConst(b, d.Size)
		if err != nil {
			return nil, err
		}

		return append(b, '\n'), nil
	case asm.Indirect:
		if r.Style == StyleMASM {
			return b, nil
		}

		b = append(b, "\t.indirect_symbol "...)
		b = r.AppendSym(b, d.Name)

		return append(b, '\n'), nil
	case asm.End:
		switch r.Style {
		case StyleMASM:
			return append(b, "END\n"...), nil
		case StylePlain:
			return append(b, "end\n"...), nil
		}

		return b, nil
	default:
		return nil, errors.New("unsupported directive: %T", d)
	}
}

func (r *Renderer) appendSection(b []byte, d asm.SectionSwitch) []byte {
	if r.Style == StyleMASM {
		for i, n := range d.Names {
			if i != 0 {
				b = append(b, ' ')
			}

			b = append(b, n...)
		}

		return append(b, "\tSEGMENT\n"...)
	}

	b = append(b, "\t.section "...)

	for i, n := range d.Names {
		if i != 0 {
			b = append(b, ',')
		}

		b = append(b, n...)
	}

	if d.Flags != "" {
		b = append(b, ',')
		b = AppendQuoted(b, d.Flags)
	}

	if d.Attrs != "" {
		b = append(b, ",@"...)
		b = append(b, d.Attrs...)
	}

	return append(b, '\n')
}

func (r *Renderer) appendVisibility(b []byte, d asm.Visibility) []byte {
	switch {
	case d.Kind == asm.VisGlobal && r.Style == StyleMASM:
		b = append(b, "PUBLIC "...)
	case d.Kind == asm.VisGlobal:
		b = append(b, "\t.globl "...)
	case d.Kind == asm.VisExtern && r.Style == StyleMASM:
		b = append(b, "EXTRN "...)
	case d.Kind == asm.VisExtern && r.Style == StylePlain:
		b = append(b, "\t.extern "...)
	case d.Kind == asm.VisExtern:
		// implicit under gas
		return b
	case d.Kind == asm.VisPrivateExtern && r.Style == StyleMASM:
		// no masm equivalent
		return b
	default:
		b = append(b, "\t.private_extern "...)
	}

	b = r.AppendSym(b, d.Sym)

	return append(b, '\n')
}

func (r *Renderer) appendBytes(b []byte, data []byte) []byte {
	if len(data) == 0 {
		return b
	}

	if r.Style == StyleMASM {
		b = append(b, "\tdb\t"...)
	} else {
		b = append(b, "\t.byte\t"...)
	}

	for i, c := range data {
		if i != 0 {
			b = append(b, ',')
		}

		b = strconv.AppendInt(b, int64(c), 10)
	}

	return append(b, '\n')
}

func (r *Renderer) appendSpace(b []byte, n int64) []byte {
	if r.Style == StyleMASM {
		return hfmt.Appendf(b, "\tdb\t%d dup (0)\n", n)
	}

	return hfmt.Appendf(b, "\t.space\t%d\n", n)
}

func (r *Renderer) appendComment(b []byte, text string) []byte {
	switch r.Style {
	case StyleGAS:
		b = append(b, "# "...)
	default:
		b = append(b, "; "...)
	}

	b = append(b, text...)

	return append(b, '\n')
}

func (r *Renderer) appendEqu(b []byte, d asm.Equ) (_ []byte, err error) {
	if r.Style == StyleMASM {
		b = r.AppendSym(b, d.Name)
		b = append(b, " EQU "...)
	} else {
		b = append(b, "\t.set\t"...)
		b = r.AppendSym(b, d.Name)
		b = append(b, ", "...)
	}

	b, err = r.AppendConst(b, d.Value)
	if err != nil {
		return nil, err
	}

	return append(b, '\n'), nil
}

func (r *Renderer) appendAlign(b []byte, d asm.Align) []byte {
	switch {
	case r.Style == StyleMASM:
		v := d.Val
		if d.Pow2 {
			v = 1 << v
		}

		return hfmt.Appendf(b, "\tALIGN\t%d\n", v)
	case d.Pow2:
		return hfmt.Appendf(b, "\t.p2align\t%d\n", d.Val)
	default:
		return hfmt.Appendf(b, "\t.balign\t%d\n", d.Val)
	}
}
