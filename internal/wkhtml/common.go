package wkhtml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ImagePath to wkhtmltoimage binary. Will be used as name to LookPath.
var ImagePath = "wkhtmltoimage"

var (
	ErrRendererNotFound = errors.New("renderer not found")
	ErrRendererFailed   = errors.New("renderer execution failed")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNoOutput         = errors.New("renderer produced no output")
)

// ExecError is returned when the renderer could not run or exited non-zero.
// Note that Args and Stderr might include details that are sensitive.
type ExecError struct {
	Path     string
	Args     []string
	ExitCode int // -1 if unknown, ex killed by signal or context
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", ErrRendererFailed, e.Path)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&sb, ": exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %s", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&sb, ": %s", s)
	}
	return sb.String()
}

func (e *ExecError) Is(target error) bool { return target == ErrRendererFailed }
func (e *ExecError) Unwrap() error        { return e.Err }

// exitCode returns exit code for errors that know about it, like *exec.ExitError
func exitCode(err error) int {
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

// Printer is something that printfs (used for debug logging)
type Printer interface {
	Printf(format string, v ...interface{})
}

// NopPrinter is discard printfer
type NopPrinter struct{}

// Printf nop
func (NopPrinter) Printf(format string, v ...interface{}) {}

// Executor finds and runs the renderer binary
type Executor interface {
	LookPath(file string) (string, error)
	// Run runs path with args and waits for it to exit. Non-zero exit should
	// be reported as an error with a ExitCode() int method. Nil stdin means
	// no input.
	Run(ctx context.Context, path string, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error
}

const waitDelay = 2 * time.Second

// ExecExecutor runs commands using os/exec. The child inherits environment,
// args are passed as is without any shell involved.
type ExecExecutor struct{}

// LookPath see exec.LookPath
func (ExecExecutor) LookPath(file string) (string, error) { return exec.LookPath(file) }

// Run see exec.Cmd.Run
func (ExecExecutor) Run(ctx context.Context, path string, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	c := exec.CommandContext(ctx, path, args...)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr
	// don't wait forever on pipes held open by orphaned grandchildren
	c.WaitDelay = waitDelay
	return c.Run()
}
