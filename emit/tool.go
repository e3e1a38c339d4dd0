package emit

import (
	"context"
	"os"
	"os/exec"

	"github.com/xyproto/env/v2"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/x86emit/x86emit/dialect"
)

type (
	// ArgOrder selects the argument convention of the external
	// assembler command.
	ArgOrder int

	// Tool is the external assembler: a synchronous subprocess taking
	// the textual input and the object output path. Its exit status is
	// the operation's result and is never reinterpreted.
	Tool struct {
		Path    string
		Extra   []string
		Order   ArgOrder
		OutFlag string // "-o" if empty
	}
)

const (
	// ArgsOutIn is `cmd -o out in`, the gas convention.
	ArgsOutIn ArgOrder = iota
	// ArgsInOut is `cmd in -o out`, for tools that want the input
	// named first.
	ArgsInOut
)

const ToolEnv = "X86EMIT_AS"

// DefaultTool picks the external command for a render style. The
// environment overrides the command name.
func DefaultTool(style dialect.Style) Tool {
	switch style {
	case dialect.StyleMASM:
		return Tool{Path: env.Str(ToolEnv, "ml64"), Extra: []string{"/nologo", "/c"}, Order: ArgsOutIn, OutFlag: "/Fo"}
	default:
		return Tool{Path: env.Str(ToolEnv, "as"), Order: ArgsOutIn}
	}
}

func (t Tool) Invoke(ctx context.Context, in, out string) error {
	flag := t.OutFlag
	if flag == "" {
		flag = "-o"
	}

	args := append([]string{}, t.Extra...)

	switch t.Order {
	case ArgsInOut:
		args = append(args, in, flag, out)
	default:
		args = append(args, flag, out, in)
	}

	tlog.SpanFromContext(ctx).Printw("invoke assembler", "path", t.Path, "args", args)

	cmd := exec.CommandContext(ctx, t.Path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// ExitStatus extracts the subprocess exit code from an AssembleFile
// error. 0 means success, -1 that the tool did not run at all.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}

	return -1
}
