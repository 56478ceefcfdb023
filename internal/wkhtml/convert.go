package wkhtml

import (
	"context"
	"io"
	"os"

	"github.com/wader/pecosutil/internal/wkhtml/internal/kvargs"
)

// Default values used by NewRequest
const (
	DefaultFormat  = "jpg"
	DefaultQuality = 100
	DefaultZoom    = 1.0
)

// Request to convert a HTML file to an image file
type Request struct {
	HTMLPath  string  `json:"html_path"`
	ImagePath string  `json:"image_path"`
	Format    string  `json:"format"`
	Quality   int     `json:"quality"`
	Zoom      float64 `json:"zoom"`
}

// NewRequest returns a request with default format, quality and zoom
func NewRequest(htmlPath string, imagePath string) Request {
	return Request{
		HTMLPath:  htmlPath,
		ImagePath: imagePath,
		Format:    DefaultFormat,
		Quality:   DefaultQuality,
		Zoom:      DefaultZoom,
	}
}

// Option modifies the ImageCmd built by Convert
type Option func(ic *ImageCmd)

func WithExecutor(e Executor) Option { return func(ic *ImageCmd) { ic.Executor = e } }
func WithLogger(p Printer) Option    { return func(ic *ImageCmd) { ic.DebugLog = p } }
func WithPath(path string) Option    { return func(ic *ImageCmd) { ic.Path = path } }
func WithStdin(r io.Reader) Option   { return func(ic *ImageCmd) { ic.Stdin = r } }
func WithStdout(w io.Writer) Option  { return func(ic *ImageCmd) { ic.Stdout = w } }
func WithStderr(w io.Writer) Option  { return func(ic *ImageCmd) { ic.Stderr = w } }
func WithVerifyOutput(v bool) Option { return func(ic *ImageCmd) { ic.VerifyOutput = v } }
func WithIgnoreErrors(v bool) Option { return func(ic *ImageCmd) { ic.IgnoreErrors = v } }
func WithOptions(m map[string]string) Option {
	return func(ic *ImageCmd) {
		if ic.Options == nil {
			ic.Options = map[string]string{}
		}
		for k, v := range m {
			ic.Options[k] = v
		}
	}
}

// ParseOptions parses ["width=1024", "disable-javascript"] into options for
// WithOptions, leading dashes in keys are ignored
func ParseOptions(ss []string) map[string]string {
	return kvargs.ParsePairs(ss)
}

// Command builds a ImageCmd for the request, stdin, stdout and stderr are
// inherited unless changed by an option
func Command(ctx context.Context, r Request, opts ...Option) *ImageCmd {
	ic := &ImageCmd{
		Format:  r.Format,
		Quality: r.Quality,
		Zoom:    r.Zoom,
		Input:   r.HTMLPath,
		Output:  r.ImagePath,
		Context: ctx,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	for _, o := range opts {
		o(ic)
	}
	return ic
}

// Convert renders the request, see ImageCmd.Run
func Convert(ctx context.Context, r Request, opts ...Option) error {
	return Command(ctx, r, opts...).Run()
}

// ConvertHTMLToImage converts htmlPath into imagePath using wkhtmltoimage.
// Fails with ErrRendererNotFound if the binary is not in PATH and with a
// *ExecError (matching ErrRendererFailed) if it exits non-zero.
func ConvertHTMLToImage(ctx context.Context, htmlPath string, imagePath string, format string, quality int, zoom float64) error {
	return Convert(ctx, Request{
		HTMLPath:  htmlPath,
		ImagePath: imagePath,
		Format:    format,
		Quality:   quality,
		Zoom:      zoom,
	})
}
