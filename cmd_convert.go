package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wader/pecosutil/internal/iterm2"
	"github.com/wader/pecosutil/internal/wkhtml"
)

type printfFunc func(format string, v ...interface{})

func (fn printfFunc) Printf(format string, v ...interface{}) { fn(format, v...) }

func (a *app) convertCmd() *cobra.Command {
	var options []string
	var verify bool
	var ignoreErrors bool
	var preview bool

	cmd := &cobra.Command{
		Use:     "convert <html> <image>",
		Short:   "Render HTML file to an image file using wkhtmltoimage",
		Example: `  pecosutil convert --format png --zoom 2 -o width=1024 report.html report.png`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := a.cfg.Renderer
			if err := rc.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if rc.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, rc.Timeout)
				defer cancel()
			}

			r := wkhtml.Request{
				HTMLPath:  args[0],
				ImagePath: args[1],
				Format:    rc.Format,
				Quality:   rc.Quality,
				Zoom:      rc.Zoom,
			}
			err := wkhtml.Convert(ctx, r,
				wkhtml.WithPath(rc.Path),
				wkhtml.WithOptions(rc.Options),
				wkhtml.WithOptions(wkhtml.ParseOptions(options)),
				wkhtml.WithStdin(cmd.InOrStdin()),
				wkhtml.WithStdout(cmd.OutOrStdout()),
				wkhtml.WithStderr(cmd.ErrOrStderr()),
				wkhtml.WithLogger(printfFunc(a.log.Debugf)),
				wkhtml.WithVerifyOutput(verify || preview),
				wkhtml.WithIgnoreErrors(ignoreErrors),
			)
			if err != nil {
				return err
			}
			a.log.WithField("image", r.ImagePath).Debug("converted")

			if preview {
				return a.preview(cmd, r.ImagePath)
			}
			return nil
		},
	}

	cmd.Flags().String("renderer", wkhtml.ImagePath, "Renderer binary")
	cmd.Flags().String("format", wkhtml.DefaultFormat, "Image format")
	cmd.Flags().Int("quality", wkhtml.DefaultQuality, "Image quality 0-100")
	cmd.Flags().Float64("zoom", wkhtml.DefaultZoom, "Zoom factor")
	cmd.Flags().Duration("timeout", 0, "Renderer timeout, 0 waits forever")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "Extra renderer option key[=value], can be repeated")
	cmd.Flags().BoolVar(&verify, "verify", false, "Fail if no image was written")
	cmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", false, "Only log renderer errors")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show image inline in iTerm2")

	return cmd
}

func (a *app) preview(cmd *cobra.Command, path string) error {
	if !iterm2.IsCompatible() {
		a.log.Warn("not iterm2 terminal")
	}
	var r iterm2.Resolution
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		var err error
		if r, err = iterm2.PixelResolution(f); err != nil {
			a.log.WithError(err).Debug("unknown terminal resolution")
		}
	}
	if err := iterm2.File(cmd.OutOrStdout(), path, r); err != nil {
		return err
	}
	_, err := cmd.OutOrStdout().Write([]byte("\n"))
	return err
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show renderer version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := wkhtml.Version(cmd.Context(), a.cfg.Renderer.Path, nil)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v.Full)
			return err
		},
	}
}
