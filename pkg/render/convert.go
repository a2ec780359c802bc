package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	errs "github.com/matzehuels/bibnet/pkg/errors"
)

// Converter is the external SVG converter.
const Converter = "rsvg-convert"

// Available reports whether the converter is installed.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG, scaled by factor.
func ToPNG(ctx context.Context, svg []byte, factor float64) ([]byte, error) {
	return convert(ctx, svg, "png", "-z", strconv.FormatFloat(factor, 'f', 2, 64))
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	if !Available() {
		return nil, errs.New(errs.ErrCodeUnsupported,
			"%s output needs %s (macOS: brew install librsvg, Debian: apt install librsvg2-bin)", format, Converter)
	}
	cmd := exec.CommandContext(ctx, Converter, append([]string{"-f", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: %s", Converter, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
