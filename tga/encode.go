package tga

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// EncodeOptions controls channel order, and for palette subtypes, stride
// padding.
type EncodeOptions struct {
	Mode EncodeMode
}

// Encode writes buf to w as the given target subtype. Target must be one of
// SubtypeTruecolor (use Depth to pick 16 vs 32), SubtypePalette, or
// SubtypeRLEPalette.
func Encode(w io.Writer, buf *Buffer, target Subtype, depth uint8, opts EncodeOptions) error {
	switch target {
	case SubtypeTruecolor:
		return encodeTruecolor(w, buf, depth, opts)
	case SubtypePalette:
		return encodePaletteSubtype(w, buf, opts, false)
	case SubtypeRLEPalette:
		return encodePaletteSubtype(w, buf, opts, true)
	default:
		return &HeaderError{Reason: "unsupported encode target"}
	}
}

func encodeTruecolor(w io.Writer, buf *Buffer, depth uint8, opts EncodeOptions) error {
	if depth != 16 && depth != 32 {
		return &DepthError{Depth: depth}
	}

	h := &Header{
		Type:       SubtypeTruecolor,
		IDLength:   idBlockSize,
		Width:      buf.Width,
		Height:     buf.Height,
		PixelDepth: depth,
		Descriptor: 32,
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	if _, err := w.Write(buildIDBlock(buf.Width)); err != nil {
		return errors.WithStack(err)
	}

	swapRB := opts.Mode == ModeAlternate
	if depth == 32 {
		out := make([]byte, 4)
		for _, p := range buf.Pix {
			r, g, b := p.R, p.G, p.B
			if swapRB {
				out[0], out[1], out[2], out[3] = r, g, b, p.A
			} else {
				out[0], out[1], out[2], out[3] = b, g, r, p.A
			}
			if _, err := w.Write(out); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	out := make([]byte, 2)
	for _, p := range buf.Pix {
		r, g, b := p.R, p.G, p.B
		if swapRB {
			r, b = b, r
		}
		r5 := pack(uint32(r), 31)
		g6 := pack(uint32(g), 63)
		b5 := pack(uint32(b), 31)

		v := uint16((r5 << 11) | (g6 << 5) | b5)
		binary.LittleEndian.PutUint16(out, v)
		if _, err := w.Write(out); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// pack scales an 8-bit channel down to an n-bit field (max = 2^n - 1) with
// round(v*max/255), the exact inverse of decode.go's expand.
func pack(v, max uint32) uint32 {
	return (v*max + 127) / 255
}

// buildPalette collects the buffer's distinct colors in first-occurrence
// order, padding to 256 entries with opaque black. Returns PaletteOverflowError
// if there are more than 256 distinct colors.
func buildPalette(buf *Buffer) ([]Pixel, []uint8, error) {
	index := make(map[Pixel]uint8)
	palette := make([]Pixel, 0, 256)
	indices := make([]uint8, len(buf.Pix))

	for i, p := range buf.Pix {
		idx, ok := index[p]
		if !ok {
			if len(palette) >= 256 {
				return nil, nil, &PaletteOverflowError{Count: buf.DistinctColors(256)}
			}
			idx = uint8(len(palette))
			index[p] = idx
			palette = append(palette, p)
		}
		indices[i] = idx
	}

	for len(palette) < 256 {
		palette = append(palette, Pixel{A: 255})
	}

	return palette, indices, nil
}

func encodePaletteSubtype(w io.Writer, buf *Buffer, opts EncodeOptions, rle bool) error {
	realWidth := buf.Width
	encodeBuf := buf
	if opts.Mode == ModeAlternate && realWidth%16 != 0 {
		paddedWidth := ((realWidth / 16) + 1) * 16
		encodeBuf = buf.Pad(paddedWidth)
	}

	palette, indices, err := buildPalette(encodeBuf)
	if err != nil {
		return err
	}

	subtype := SubtypePalette
	if rle {
		subtype = SubtypeRLEPalette
	}

	h := &Header{
		Type:             subtype,
		IDLength:         idBlockSize,
		HasColorMap:      true,
		PaletteLength:    uint16(len(palette)),
		PaletteEntryBits: 32,
		Width:            encodeBuf.Width,
		Height:           encodeBuf.Height,
		PixelDepth:       8,
		Descriptor:       32,
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	if _, err := w.Write(buildIDBlock(realWidth)); err != nil {
		return errors.WithStack(err)
	}

	swapRB := opts.Mode == ModeAlternate
	out := make([]byte, 4)
	for _, p := range palette {
		if swapRB {
			out[0], out[1], out[2], out[3] = p.R, p.G, p.B, p.A
		} else {
			out[0], out[1], out[2], out[3] = p.B, p.G, p.R, p.A
		}
		if _, err := w.Write(out); err != nil {
			return errors.WithStack(err)
		}
	}

	if rle {
		if _, err := w.Write(encodeRLE(indices)); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	if _, err := w.Write(indices); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
