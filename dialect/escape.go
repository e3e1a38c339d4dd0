package dialect

const hex = "0123456789abcdef"

// AppendQuoted appends s as a double-quoted string literal. Bytes that
// are non-printable, a quote or a backslash become octal \ooo. An
// escape immediately followed by a literal decimal digit forces that
// digit to be escaped too, otherwise concatenation downstream could
// read an ambiguous multi-digit octal sequence.
func AppendQuoted(b []byte, s string) []byte {
	b = append(b, '"')

	esc := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c < 0x20 || c >= 0x7f || c == '"' || c == '\\' || esc && c >= '0' && c <= '9' {
			b = append(b, '\\', '0'+(c>>6)&7, '0'+(c>>3)&7, '0'+c&7)
			esc = true

			continue
		}

		b = append(b, c)
		esc = false
	}

	b = append(b, '"')

	return b
}

// AppendSym appends the mangled form of a symbol name: the renderer
// prefix, then the name with every byte outside [A-Za-z0-9_] replaced
// by $ and its two-digit lowercase hex code.
func (r *Renderer) AppendSym(b []byte, name string) []byte {
	b = append(b, r.Prefix...)

	for i := 0; i < len(name); i++ {
		c := name[i]

		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' {
			b = append(b, c)
			continue
		}

		b = append(b, '$', hex[c>>4], hex[c&0xf])
	}

	return b
}
