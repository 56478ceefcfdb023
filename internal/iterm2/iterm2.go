// Package iterm2 shows images inline in iTerm2 compatible terminals
package iterm2

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/term"
)

// IsCompatible guesses based on environment
func IsCompatible() bool {
	return os.Getenv("TERM_PROGRAM") == "iTerm.app" || os.Getenv("LC_TERMINAL") == "iTerm2"
}

// Image writes m as an inline image escape sequence
func Image(w io.Writer, m image.Image) error {
	if _, err := io.WriteString(w, "\x1b]1337;File=inline=1:"); err != nil {
		return err
	}
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if err := png.Encode(enc, m); err != nil {
		return err
	}
	// flush partial base64 block
	if err := enc.Close(); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\x07"); err != nil {
		return err
	}
	return nil
}

type CellSize struct {
	Width  float64
	Height float64
	Scale  float64
}

// ParseCellSize parses a ReportCellSize response, note order is height;width[;scale]
// "\x1b]1337;ReportCellSize=14.0;6.0;1.0\x1b\\"
func ParseCellSize(s string) (CellSize, error) {
	const p = "ReportCellSize="
	start := strings.Index(s, p)
	if start < 0 {
		return CellSize{}, errors.New("no cell size in response")
	}
	s = s[start+len(p):]
	if stop := strings.Index(s, "\x1b\\"); stop >= 0 {
		s = s[:stop]
	}

	parts := strings.Split(s, ";")
	sz := CellSize{Scale: 1}
	var err error
	if sz.Height, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return CellSize{}, fmt.Errorf("cell height: %w", err)
	}
	if len(parts) > 1 {
		if sz.Width, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return CellSize{}, fmt.Errorf("cell width: %w", err)
		}
	}
	if len(parts) > 2 {
		if sz.Scale, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return CellSize{}, fmt.Errorf("cell scale: %w", err)
		}
	}

	return sz, nil
}

func ReportCellSize(f *os.File) (sz CellSize, err error) {
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return CellSize{}, err
	}
	defer func() {
		if rErr := term.Restore(int(f.Fd()), state); err == nil {
			err = rErr
		}
	}()

	if _, err := f.Write([]byte("\x1b]1337;ReportCellSize\x07")); err != nil {
		return CellSize{}, err
	}

	b := make([]byte, 50)
	n, err := f.Read(b)
	if err != nil {
		return CellSize{}, err
	}

	return ParseCellSize(string(b[:n]))
}

type Resolution struct {
	Width       int
	Height      int
	WidthAlign  int
	HeightAlign int
}

func PixelResolution(f *os.File) (Resolution, error) {
	if !term.IsTerminal(int(f.Fd())) {
		return Resolution{}, errors.New("not a terminal")
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return Resolution{}, err
	}
	sz, err := ReportCellSize(f)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		Width:       w * int(sz.Width*sz.Scale),
		Height:      h * int(sz.Height*sz.Scale),
		WidthAlign:  int(sz.Width * sz.Scale),
		HeightAlign: int(sz.Height * sz.Scale),
	}, nil
}

// Fit scales m down to fit the resolution, aligned to cell size. Images that
// already fit are returned as is.
func Fit(m image.Image, r Resolution) image.Image {
	b := m.Bounds()
	if r.Width <= 0 || r.Height <= 0 || (b.Dx() <= r.Width && b.Dy() <= r.Height) {
		return m
	}
	fm := imaging.Fit(m, r.Width, r.Height, imaging.Lanczos)
	w, h := fm.Bounds().Dx(), fm.Bounds().Dy()
	if r.WidthAlign > 0 && w > r.WidthAlign {
		w -= w % r.WidthAlign
	}
	if r.HeightAlign > 0 && h > r.HeightAlign {
		h -= h % r.HeightAlign
	}
	return imaging.Crop(fm, image.Rect(0, 0, w, h))
}

// File decodes an image file and writes it fitted to r
func File(w io.Writer, path string, r Resolution) error {
	m, err := imaging.Open(path)
	if err != nil {
		return err
	}
	return Image(w, Fit(m, r))
}

func ClearScrollback(w io.Writer) error {
	if _, err := w.Write([]byte("\x1b]1337;ClearScrollback\x07")); err != nil {
		return err
	}
	return nil
}
