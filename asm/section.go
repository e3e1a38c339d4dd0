package asm

import (
	"tlog.app/go/tlog/tlwire"
)

type (
	Section struct {
		Name string
		Body []Directive
	}

	// Sections is a program grouped by section. Names keeps
	// first-seen order; iteration must follow it so binary layout is
	// reproducible across identical inputs.
	Sections struct {
		Names  []string
		ByName map[string]*Section
	}
)

// DefaultSection is current before any switch directive.
const DefaultSection = ".text"

// Split groups a flat program into named sections. A switch directive
// naming exactly one target selects the section for what follows and
// is kept in no body; a multi-target switch is a structural marker
// only. Every other directive lands in the currently active section.
func Split(p Program) *Sections {
	ss := &Sections{
		ByName: map[string]*Section{},
	}

	cur := ss.section(DefaultSection)

	for _, d := range p {
		if sw, ok := d.(SectionSwitch); ok {
			if len(sw.Names) == 1 {
				cur = ss.section(sw.Names[0])
			}

			continue
		}

		cur.Body = append(cur.Body, d)
	}

	return ss
}

func (ss *Sections) section(name string) *Section {
	if s, ok := ss.ByName[name]; ok {
		return s
	}

	s := &Section{Name: name}

	ss.Names = append(ss.Names, name)
	ss.ByName[name] = s

	return s
}

func (s *Section) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)

	b = e.AppendKey(b, "name")
	b = e.AppendString(b, s.Name)
	b = e.AppendKeyInt(b, "len", len(s.Body))

	return b
}
