package tga

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// DecodeOptions controls channel-order interpretation during decode.
type DecodeOptions struct {
	Mode EncodeMode
}

// Decode reads a TGA file from r and expands it into an RGBA Buffer,
// regardless of which of the three supported subtypes it is. The returned
// Subtype identifies what was actually read.
func Decode(r io.Reader, opts DecodeOptions) (*Buffer, Subtype, error) {
	br := bufio.NewReader(r)

	h, idBlock, err := readHeader(br)
	if err != nil {
		return nil, 0, err
	}
	if err := h.Validate(); err != nil {
		return nil, 0, err
	}

	var buf *Buffer
	switch h.Type {
	case SubtypePalette:
		buf, err = decodePalette(br, h, opts, false)
	case SubtypeRLEPalette:
		buf, err = decodePalette(br, h, opts, true)
	case SubtypeTruecolor:
		buf, err = decodeTruecolor(br, h, opts)
	default:
		return nil, 0, &HeaderError{Reason: "unreachable subtype after Validate"}
	}
	if err != nil {
		return nil, 0, errors.Wrapf(err, "decoding %s", h.Type)
	}

	if width, ok := idWidth(idBlock); ok && width != buf.Width && width <= buf.Width {
		buf = buf.Crop(width)
	}

	return buf, h.Type, nil
}

func readPalette(r io.Reader, length int, swapRB bool) ([]Pixel, error) {
	palette := make([]Pixel, length)
	raw := make([]byte, 4)
	for i := 0; i < length; i++ {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, &TruncatedStreamError{Reason: "palette entry", Err: err}
		}
		if swapRB {
			palette[i] = Pixel{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}
		} else {
			palette[i] = Pixel{B: raw[0], G: raw[1], R: raw[2], A: raw[3]}
		}
	}
	return palette, nil
}

func decodePalette(r *bufio.Reader, h *Header, opts DecodeOptions, rle bool) (*Buffer, error) {
	palette, err := readPalette(r, int(h.PaletteLength), opts.Mode == ModeAlternate)
	if err != nil {
		return nil, err
	}

	total := int(h.Width) * int(h.Height)
	var indices []uint8
	if rle {
		indices, err = decodeRLE(r, total)
		if err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint8, total)
		if _, err := io.ReadFull(r, indices); err != nil {
			return nil, &TruncatedStreamError{Reason: "palette index stream", Err: err}
		}
	}

	buf := NewBuffer(h.Width, h.Height)
	for i, idx := range indices {
		if int(idx) >= len(palette) {
			return nil, &HeaderError{Reason: "palette index out of range"}
		}
		buf.Pix[i] = palette[idx]
	}
	return buf, nil
}

func decodeTruecolor(r io.Reader, h *Header, opts DecodeOptions) (*Buffer, error) {
	buf := NewBuffer(h.Width, h.Height)
	total := int(h.Width) * int(h.Height)
	swapRB := opts.Mode == ModeAlternate

	switch h.PixelDepth {
	case 16:
		raw := make([]byte, 2)
		for i := 0; i < total; i++ {
			if _, err := io.ReadFull(r, raw); err != nil {
				return nil, &TruncatedStreamError{Reason: "16bpp pixel", Err: err}
			}
			v := binary.LittleEndian.Uint16(raw)
			r5 := (v >> 11) & 0x1F
			g6 := (v >> 5) & 0x3F
			b5 := v & 0x1F

			px := Pixel{
				R: uint8(expand(uint32(r5), 31)),
				G: uint8(expand(uint32(g6), 63)),
				B: uint8(expand(uint32(b5), 31)),
				A: 255,
			}
			if swapRB {
				px.R, px.B = px.B, px.R
			}
			buf.Pix[i] = px
		}
	case 32:
		raw := make([]byte, 4)
		for i := 0; i < total; i++ {
			if _, err := io.ReadFull(r, raw); err != nil {
				return nil, &TruncatedStreamError{Reason: "32bpp pixel", Err: err}
			}
			if swapRB {
				buf.Pix[i] = Pixel{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}
			} else {
				buf.Pix[i] = Pixel{B: raw[0], G: raw[1], R: raw[2], A: raw[3]}
			}
		}
	default:
		return nil, &DepthError{Depth: h.PixelDepth}
	}

	return buf, nil
}

// expand scales an n-bit channel value (max = 2^n - 1) up to 8 bits using
// round(v*255/max), the inverse of pack's round(v*max/255).
func expand(v, max uint32) uint32 {
	return (v*255 + max/2) / max
}
