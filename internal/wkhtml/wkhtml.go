// Package wkhtml runs wkhtmltoimage to render HTML files into images
package wkhtml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/wader/pecosutil/internal/wkhtml/internal/kvargs"
	"github.com/wader/pecosutil/internal/wkhtml/internal/linebuffer"
)

// ImageCmd is a wkhtmltoimage command
// wkhtmltoimage
//   --format <Format> --quality <Quality> --zoom <Zoom>
//   [--<option> [value]]...
//   [Flags]...
//   <Input> <Output>
type ImageCmd struct {
	Format  string            `json:"format"`
	Quality int               `json:"quality"`
	Zoom    float64           `json:"zoom"`
	Options map[string]string `json:"options"`
	Flags   []string          `json:"flags"`
	Input   string            `json:"input"`
	Output  string            `json:"output"`

	// Path to binary, ImagePath if empty
	Path                string          `json:"-"`
	Context             context.Context `json:"-"`
	Executor            Executor        `json:"-"`
	Stdin               io.Reader       `json:"-"`
	Stdout              io.Writer       `json:"-"`
	Stderr              io.Writer       `json:"-"`
	StderrBufferNrLines int             `json:"-"`
	DebugLog            Printer         `json:"-"`
	// VerifyOutput fails with ErrNoOutput if output file is missing or empty
	VerifyOutput bool `json:"-"`
	// IgnoreErrors only logs errors to DebugLog and makes Run always succeed
	IgnoreErrors bool `json:"-"`

	stderrLastLines *linebuffer.LastLines
}

// FormatZoom formats zoom as shortest decimal, 1 -> "1", 1.25 -> "1.25"
func FormatZoom(z float64) string {
	return strconv.FormatFloat(z, 'f', -1, 64)
}

// Args returns renderer arguments, not including the binary
func (ic *ImageCmd) Args() []string {
	args := []string{
		"--format", ic.Format,
		"--quality", strconv.Itoa(ic.Quality),
		"--zoom", FormatZoom(ic.Zoom),
	}
	// sorted to keep options in stable order
	args = append(args, kvargs.MapToSortedArgs(ic.Options, kvargs.LongOptionArg)...)
	args = append(args, ic.Flags...)
	args = append(args, ic.Input, ic.Output)

	return args
}

// optionLike is true for paths the renderer would parse as an option,
// "-" alone means stdin/stdout
func optionLike(p string) bool {
	return p != "-" && strings.HasPrefix(p, "-")
}

func (ic *ImageCmd) validate() error {
	switch {
	case ic.Input == "":
		return fmt.Errorf("%w: empty input path", ErrInvalidArgument)
	case ic.Output == "":
		return fmt.Errorf("%w: empty output path", ErrInvalidArgument)
	case optionLike(ic.Input) || optionLike(ic.Output):
		return fmt.Errorf("%w: path looks like an option", ErrInvalidArgument)
	case ic.Format == "":
		return fmt.Errorf("%w: empty format", ErrInvalidArgument)
	case ic.Quality < 0 || ic.Quality > 100:
		return fmt.Errorf("%w: quality %d not in 0-100", ErrInvalidArgument, ic.Quality)
	case !(ic.Zoom > 0) || math.IsInf(ic.Zoom, 0):
		return fmt.Errorf("%w: zoom %s must be finite and > 0", ErrInvalidArgument, FormatZoom(ic.Zoom))
	}
	return nil
}

func (ic *ImageCmd) debugLog() Printer {
	if ic.DebugLog == nil {
		return NopPrinter{}
	}
	return ic.DebugLog
}

func (ic *ImageCmd) run() error {
	if err := ic.validate(); err != nil {
		return err
	}

	ctx := ic.Context
	if ctx == nil {
		ctx = context.Background()
	}
	executor := ic.Executor
	if executor == nil {
		executor = ExecExecutor{}
	}
	name := ic.Path
	if name == "" {
		name = ImagePath
	}

	path, err := executor.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrRendererNotFound, name, err)
	}

	nrLines := ic.StderrBufferNrLines
	if nrLines == 0 {
		nrLines = 100
	}
	ic.stderrLastLines = linebuffer.NewLastLines(nrLines)
	var stderr io.Writer = ic.stderrLastLines
	if ic.Stderr != nil {
		stderr = io.MultiWriter(ic.stderrLastLines, ic.Stderr)
	}

	args := ic.Args()
	ic.debugLog().Printf("%s %s", path, strings.Join(args, " "))

	runErr := executor.Run(ctx, path, args, ic.Stdin, ic.Stdout, stderr)
	ic.stderrLastLines.Close()
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = errors.Join(ctxErr, runErr)
		}
		return &ExecError{
			Path:     path,
			Args:     args,
			ExitCode: exitCode(runErr),
			Stderr:   ic.stderrLastLines.String(),
			Err:      runErr,
		}
	}

	if ic.VerifyOutput && ic.Output != "-" {
		fi, err := os.Stat(ic.Output)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrNoOutput, err)
		}
		if fi.Size() == 0 {
			return fmt.Errorf("%w: %s is empty", ErrNoOutput, ic.Output)
		}
	}

	return nil
}

// Run validates arguments, finds the renderer, runs it and waits for it to
// finish. Blocks until the renderer exits or Context is done.
// Note that the error message might include command details that are sensitive
func (ic *ImageCmd) Run() error {
	err := ic.run()
	if err != nil && ic.IgnoreErrors {
		ic.debugLog().Printf("ignoring error: %s", err)
		return nil
	}
	return err
}

// StderrBuffer returns the last stderr lines as a string
// Note that the stderr might include command details that are sensitive
func (ic *ImageCmd) StderrBuffer() string {
	if ic.stderrLastLines == nil {
		return ""
	}
	return ic.stderrLastLines.String()
}
