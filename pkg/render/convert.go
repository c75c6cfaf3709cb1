package render

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/occugraph/pkg/errors"
)

const rsvgHint = "install librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux)"

// Rasterizer turns an SVG network drawing into PNG or PDF by piping it
// through rsvg-convert.
type Rasterizer struct {
	// Binary is the converter executable. Empty means rsvg-convert on PATH.
	Binary string

	// Background fills transparent areas of PNG output. Empty keeps them
	// transparent.
	Background string
}

// DefaultRasterizer backs [ToPDF] and [ToPNG].
var DefaultRasterizer = Rasterizer{Background: "white"}

// ToPDF converts SVG bytes to PDF with [DefaultRasterizer].
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return DefaultRasterizer.PDF(ctx, svg)
}

// ToPNG converts SVG bytes to PNG with [DefaultRasterizer]. A scale of 2
// doubles the resolution; non-positive scales mean 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return DefaultRasterizer.PNG(ctx, svg, scale)
}

// PDF converts svg to a single-page PDF.
func (r Rasterizer) PDF(ctx context.Context, svg []byte) ([]byte, error) {
	return r.run(ctx, svg, "pdf")
}

// PNG converts svg to a PNG zoomed by scale.
func (r Rasterizer) PNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	args := []string{"-z", strconv.FormatFloat(scale, 'f', 2, 64)}
	if r.Background != "" {
		args = append(args, "-b", r.Background)
	}
	return r.run(ctx, svg, "png", args...)
}

func (r Rasterizer) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return "rsvg-convert"
}

func (r Rasterizer) run(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if len(bytes.TrimSpace(svg)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s export: empty SVG", format)
	}
	bin, err := exec.LookPath(r.binary())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "%s export needs %s; %s", format, r.binary(), rsvgHint)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s export: %s: %s",
			format, filepath.Base(bin), strings.TrimSpace(stderr.String()))
	}
	if out.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "%s export: %s produced no output", format, filepath.Base(bin))
	}
	return out.Bytes(), nil
}
