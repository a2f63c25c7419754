package tga

import (
	"bytes"
	"errors"
	"testing"
)

func checkerboard(width, height uint16) *Buffer {
	buf := NewBuffer(width, height)
	palette := []Pixel{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
		{R: 255, G: 255, B: 0, A: 128},
	}
	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			buf.Set(x, y, palette[(x+y)%len(palette)])
		}
	}
	return buf
}

func TestEncodeDecodeRoundTrip32(t *testing.T) {
	buf := checkerboard(5, 3)
	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypeTruecolor, 32, EncodeOptions{Mode: ModeDefault}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, subtype, err := Decode(&out, DecodeOptions{Mode: ModeDefault})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if subtype != SubtypeTruecolor {
		t.Errorf("subtype = %v, want truecolor", subtype)
	}
	if !got.Equal(buf) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got.Pix, buf.Pix)
	}
}

func TestEncodeDecodeRoundTrip32AlternateMode(t *testing.T) {
	buf := checkerboard(5, 3)
	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypeTruecolor, 32, EncodeOptions{Mode: ModeAlternate}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, _, err := Decode(&out, DecodeOptions{Mode: ModeAlternate})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(buf) {
		t.Errorf("alternate-mode round trip mismatch:\n got  %+v\n want %+v", got.Pix, buf.Pix)
	}
}

func TestEncodeDecodeRoundTrip16LosesPrecisionButIsStable(t *testing.T) {
	buf := checkerboard(4, 4)
	// 16bpp is fully opaque by convention; strip the alpha=128 test color.
	for i := range buf.Pix {
		buf.Pix[i].A = 255
	}

	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypeTruecolor, 16, EncodeOptions{Mode: ModeDefault}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	first, _, err := Decode(&out, DecodeOptions{Mode: ModeDefault})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var second bytes.Buffer
	if err := Encode(&second, first, SubtypeTruecolor, 16, EncodeOptions{Mode: ModeDefault}); err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	twice, _, err := Decode(&second, DecodeOptions{Mode: ModeDefault})
	if err != nil {
		t.Fatalf("re-Decode: %v", err)
	}
	if !twice.Equal(first) {
		t.Errorf("16bpp encode should be idempotent after the first lossy pass: %+v vs %+v", twice.Pix, first.Pix)
	}
}

func TestEncodeDecodeRoundTrip16AlternateModeChannelSwap(t *testing.T) {
	// Every channel value below sits exactly on a 5-bit (R, B) or 6-bit (G)
	// quantization level, so round(v*max/255) then round(v*255/max) returns
	// the same value: the test exercises the alternate-mode channel swap in
	// isolation, without 16bpp's inherent precision loss muddying the
	// comparison.
	buf := NewBuffer(2, 2)
	buf.Set(0, 0, Pixel{R: 255, G: 0, B: 0, A: 255})
	buf.Set(1, 0, Pixel{R: 0, G: 251, B: 0, A: 255})
	buf.Set(0, 1, Pixel{R: 0, G: 0, B: 255, A: 255})
	buf.Set(1, 1, Pixel{R: 33, G: 28, B: 16, A: 255})

	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypeTruecolor, 16, EncodeOptions{Mode: ModeAlternate}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, _, err := Decode(&out, DecodeOptions{Mode: ModeAlternate})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(buf) {
		t.Errorf("16bpp alternate-mode round trip mismatch:\n got  %+v\n want %+v", got.Pix, buf.Pix)
	}
}

func TestEncodeDecodeRoundTripPalette(t *testing.T) {
	buf := checkerboard(5, 3)
	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypePalette, 8, EncodeOptions{Mode: ModeDefault}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, subtype, err := Decode(&out, DecodeOptions{Mode: ModeDefault})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if subtype != SubtypePalette {
		t.Errorf("subtype = %v, want palette", subtype)
	}
	if !got.Equal(buf) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got.Pix, buf.Pix)
	}
}

func TestEncodeDecodeRoundTripRLEPalette(t *testing.T) {
	buf := NewBuffer(10, 4) // uniform opaque black: heavy run-length compression
	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypeRLEPalette, 8, EncodeOptions{Mode: ModeDefault}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, subtype, err := Decode(&out, DecodeOptions{Mode: ModeDefault})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if subtype != SubtypeRLEPalette {
		t.Errorf("subtype = %v, want RLE palette", subtype)
	}
	if !got.Equal(buf) {
		t.Errorf("round trip mismatch")
	}
}

func TestEncodePaletteAlternateModePadsStride(t *testing.T) {
	buf := checkerboard(5, 2) // 5 mod 16 != 0, forces padding in alternate mode
	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypeRLEPalette, 8, EncodeOptions{Mode: ModeAlternate}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, _, err := Decode(&out, DecodeOptions{Mode: ModeAlternate})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// Decode crops back to the ID block's authoritative width, so the
	// stride padding should be invisible to the caller.
	if got.Width != buf.Width {
		t.Errorf("decoded width = %d, want %d (ID-block crop should undo stride padding)", got.Width, buf.Width)
	}
	if !got.Equal(buf) {
		t.Errorf("round trip mismatch after stride padding:\n got  %+v\n want %+v", got.Pix, buf.Pix)
	}
}

func TestEncodePaletteOverflow(t *testing.T) {
	buf := NewBuffer(17, 17) // 289 pixels, all distinct colors
	n := 0
	for y := 0; y < 17; y++ {
		for x := 0; x < 17; x++ {
			buf.Set(x, y, Pixel{R: uint8(n), G: uint8(n / 2), B: uint8(n / 3), A: 255})
			n++
		}
	}

	var out bytes.Buffer
	err := Encode(&out, buf, SubtypePalette, 8, EncodeOptions{Mode: ModeDefault})
	if err == nil {
		t.Fatal("expected PaletteOverflowError for > 256 distinct colors")
	}
	var overflow *PaletteOverflowError
	if !errors.As(err, &overflow) {
		t.Errorf("expected *PaletteOverflowError, got %T: %v", err, err)
	}
}

func TestDecodeTruncatedStream(t *testing.T) {
	buf := checkerboard(4, 4)
	var out bytes.Buffer
	if err := Encode(&out, buf, SubtypeTruecolor, 32, EncodeOptions{Mode: ModeDefault}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	truncated := bytes.NewReader(out.Bytes()[:out.Len()-10])
	_, _, err := Decode(truncated, DecodeOptions{Mode: ModeDefault})
	if err == nil {
		t.Fatal("expected an error decoding a truncated stream")
	}
	var truncErr *TruncatedStreamError
	if !errors.As(err, &truncErr) {
		t.Errorf("expected *TruncatedStreamError in the chain, got %T: %v", err, err)
	}
}

func TestDecodeUnsupportedDepth(t *testing.T) {
	h := &Header{Type: SubtypeTruecolor, Width: 1, Height: 1, PixelDepth: 24, Descriptor: 32}
	var buf bytes.Buffer
	if err := writeHeader(&buf, h); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	buf.Write(buildIDBlock(1))
	buf.WriteByte(0) // one pixel's worth of garbage, depth is wrong regardless

	_, _, err := Decode(&buf, DecodeOptions{Mode: ModeDefault})
	if err == nil {
		t.Fatal("expected DepthError for unsupported pixel depth")
	}
	var depthErr *DepthError
	if !errors.As(err, &depthErr) {
		t.Errorf("expected *DepthError in the chain, got %T: %v", err, err)
	}
}
