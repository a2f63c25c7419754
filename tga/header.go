package tga

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Subtype identifies a TGA image-type code (header byte 2).
type Subtype uint8

const (
	SubtypePalette    Subtype = 1 // uncompressed, colormap
	SubtypeTruecolor  Subtype = 2 // uncompressed, 16 or 32 bpp
	SubtypeRLEPalette Subtype = 9 // RLE-compressed, colormap
)

func (s Subtype) String() string {
	switch s {
	case SubtypePalette:
		return "TGA-P"
	case SubtypeTruecolor:
		return "TGA-truecolor"
	case SubtypeRLEPalette:
		return "TGA-RLP"
	default:
		return "TGA-unknown"
	}
}

// EncodeMode selects the channel-order and stride convention used by a
// device family. Default stores colormap/truecolor bytes as (B,G,R,A) with
// no stride constraint. Alternate swaps R and B everywhere and additionally
// requires palette-subtype rows to be padded to a multiple of 16 pixels.
type EncodeMode int

const (
	ModeDefault EncodeMode = iota
	ModeAlternate
)

const (
	headerSize  = 18
	idBlockSize = 46
	idMagic     = "SOMH"
)

// Header is the parsed fixed 18-byte TGA header.
type Header struct {
	IDLength         uint8
	HasColorMap      bool
	Type             Subtype
	ColorMapOrigin   uint16
	PaletteLength    uint16
	PaletteEntryBits uint8
	XOrigin, YOrigin uint16
	Width, Height    uint16
	PixelDepth       uint8
	Descriptor       uint8
}

// Validate checks the type-code and colormap/entry-size consistency rules
// a well-formed header must satisfy.
func (h *Header) Validate() error {
	switch h.Type {
	case SubtypePalette, SubtypeTruecolor, SubtypeRLEPalette:
	default:
		return &HeaderError{Reason: "type code not in {1,2,9}"}
	}

	if h.Width == 0 || h.Height == 0 {
		return &HeaderError{Reason: "zero width or height"}
	}

	isPalette := h.Type == SubtypePalette || h.Type == SubtypeRLEPalette
	if isPalette {
		if !h.HasColorMap {
			return &HeaderError{Reason: "palette subtype requires colormap flag"}
		}
		if h.PaletteEntryBits != 32 {
			return &HeaderError{Reason: "palette subtype requires 32-bit palette entries"}
		}
	} else if h.HasColorMap {
		return &HeaderError{Reason: "truecolor subtype must not carry a colormap"}
	}

	return nil
}

// readHeader reads the 18-byte fixed header followed by its ID block. It
// does not validate the parsed fields; callers call Validate() themselves
// so the RLE/truecolor decoders can attach context to the error.
func readHeader(r io.Reader) (*Header, []byte, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, nil, errors.WithStack(&TruncatedStreamError{Reason: "short header", Err: err})
	}

	h := &Header{
		IDLength:         raw[0],
		HasColorMap:      raw[1] == 1,
		Type:             Subtype(raw[2]),
		ColorMapOrigin:   binary.LittleEndian.Uint16(raw[3:5]),
		PaletteLength:    binary.LittleEndian.Uint16(raw[5:7]),
		PaletteEntryBits: raw[7],
		XOrigin:          binary.LittleEndian.Uint16(raw[8:10]),
		YOrigin:          binary.LittleEndian.Uint16(raw[10:12]),
		Width:            binary.LittleEndian.Uint16(raw[12:14]),
		Height:           binary.LittleEndian.Uint16(raw[14:16]),
		PixelDepth:       raw[16],
		Descriptor:       raw[17],
	}

	idBlock := make([]byte, h.IDLength)
	if h.IDLength > 0 {
		if _, err := io.ReadFull(r, idBlock); err != nil {
			return nil, nil, errors.WithStack(&TruncatedStreamError{Reason: "short ID block", Err: err})
		}
	}

	return h, idBlock, nil
}

// writeHeader writes the exact 18-byte fixed header layout.
func writeHeader(w io.Writer, h *Header) error {
	raw := make([]byte, headerSize)
	raw[0] = h.IDLength
	if h.HasColorMap {
		raw[1] = 1
	}
	raw[2] = byte(h.Type)
	binary.LittleEndian.PutUint16(raw[3:5], h.ColorMapOrigin)
	binary.LittleEndian.PutUint16(raw[5:7], h.PaletteLength)
	raw[7] = h.PaletteEntryBits
	binary.LittleEndian.PutUint16(raw[8:10], h.XOrigin)
	binary.LittleEndian.PutUint16(raw[10:12], h.YOrigin)
	binary.LittleEndian.PutUint16(raw[12:14], h.Width)
	binary.LittleEndian.PutUint16(raw[14:16], h.Height)
	raw[16] = h.PixelDepth
	raw[17] = h.Descriptor

	_, err := w.Write(raw)
	return errors.WithStack(err)
}

// idWidth extracts the authoritative width from a vendor ID block, returning
// ok=false if the block is short or lacks the SOMH signature.
func idWidth(id []byte) (width uint16, ok bool) {
	if len(id) < 6 || string(id[0:4]) != idMagic {
		return 0, false
	}
	return binary.LittleEndian.Uint16(id[4:6]), true
}

// buildIDBlock constructs the 46-byte vendor ID block carrying the real
// (pre-padding) width.
func buildIDBlock(width uint16) []byte {
	id := make([]byte, idBlockSize)
	copy(id[0:4], idMagic)
	binary.LittleEndian.PutUint16(id[4:6], width)
	return id
}
