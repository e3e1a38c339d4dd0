package dialect

import (
	"github.com/x86emit/x86emit/x86"
)

type (
	// Style groups target systems into three render behaviors.
	Style int

	// Renderer maps data-model values and directives to their textual
	// form for one syntax dialect and register width. It is stateless;
	// rendering the same value twice gives the same bytes.
	Renderer struct {
		Style  Style
		Mode   x86.Mode
		Prefix string // prepended while mangling symbols
	}
)

const (
	// StyleGAS covers the unix-like targets assembled by GNU as.
	StyleGAS Style = iota
	// StyleMASM covers native windows.
	StyleMASM
	// StylePlain renders everything and omits dialect-only
	// conveniences. Used for unknown targets.
	StylePlain
)

// StyleFor picks the render behavior for a target operating system.
func StyleFor(goos string) Style {
	switch goos {
	case "linux", "darwin", "ios", "android",
		"freebsd", "netbsd", "openbsd", "dragonfly",
		"solaris", "illumos", "aix", "cygwin":
		return StyleGAS
	case "windows":
		return StyleMASM
	default:
		return StylePlain
	}
}

func (s Style) String() string {
	switch s {
	case StyleGAS:
		return "gas"
	case StyleMASM:
		return "masm"
	default:
		return "plain"
	}
}
