package emit

import (
	"strings"

	"github.com/xyproto/env/v2"
)

type (
	// Policy is the internal-assembler policy, read once from a
	// colon-separated keyword list.
	//
	//	no	never call the internal assembler
	//	yes	an abort is a fatal error, not a fallback
	//	diff	write the buffer to a .diff. sibling and run the
	//		external tool too, for byte comparison
	//
	// Unknown keywords belong to other layers and are ignored here.
	Policy struct {
		Never bool
		Must  bool
		Diff  bool
	}
)

const PolicyEnv = "X86EMIT_ASM"

func ParsePolicy(s string) (p Policy) {
	for _, kw := range strings.Split(s, ":") {
		switch kw {
		case "no":
			p.Never = true
		case "yes":
			p.Must = true
		case "diff":
			p.Diff = true
		}
	}

	return p
}

func PolicyFromEnv() Policy {
	return ParsePolicy(env.Str(PolicyEnv, ""))
}
