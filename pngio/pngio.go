// Package pngio is the narrow boundary between the TGA codec and the
// standard image/png package: the only place in the module that imports an
// external PNG implementation.
package pngio

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/somh/tgabuild/tga"
)

// Decode reads a PNG from path and expands it into an RGBA Buffer.
func Decode(path string) (*tga.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pngio: open %s", path)
	}
	defer f.Close()
	return DecodeReader(f)
}

// DecodeReader is the io.Reader form of Decode, used by callers that already
// have a stream (a freshly-mmapped file, an in-memory test fixture, ...).
func DecodeReader(r io.Reader) (*tga.Buffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "pngio: decode")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := tga.NewBuffer(uint16(w), uint16(h))

	// image/png decodes an RGBA-with-alpha source into *image.NRGBA, whose
	// channels are already non-premultiplied; read it directly rather than
	// through the generic Color.RGBA() path, which premultiplies by alpha
	// and would silently zero out the color channels of fully transparent
	// pixels.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := nrgba.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				buf.Set(x, y, tga.Pixel{R: c.R, G: c.G, B: c.B, A: c.A})
			}
		}
		return buf, nil
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			buf.Set(x, y, tga.Pixel{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return buf, nil
}

// Encode writes buf to path as a PNG, overwriting any existing file.
func Encode(path string, buf *tga.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "pngio: create %s", path)
	}
	defer f.Close()
	if err := EncodeWriter(f, buf); err != nil {
		return err
	}
	return errors.Wrapf(f.Close(), "pngio: close %s", path)
}

// EncodeWriter is the io.Writer form of Encode.
func EncodeWriter(w io.Writer, buf *tga.Buffer) error {
	img := image.NewNRGBA(image.Rect(0, 0, int(buf.Width), int(buf.Height)))
	for y := 0; y < int(buf.Height); y++ {
		for x := 0; x < int(buf.Width); x++ {
			p := buf.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A})
		}
	}
	return errors.Wrap(png.Encode(w, img), "pngio: encode")
}
