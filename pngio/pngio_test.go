package pngio

import (
	"bytes"
	"testing"

	"github.com/somh/tgabuild/tga"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	buf := tga.NewBuffer(4, 3)
	buf.Set(0, 0, tga.Pixel{R: 10, G: 20, B: 30, A: 255})
	buf.Set(1, 1, tga.Pixel{R: 200, G: 0, B: 0, A: 128})
	buf.Set(3, 2, tga.Pixel{R: 0, G: 255, B: 0, A: 0})

	var out bytes.Buffer
	if err := EncodeWriter(&out, buf); err != nil {
		t.Fatalf("EncodeWriter: %v", err)
	}

	got, err := DecodeReader(&out)
	if err != nil {
		t.Fatalf("DecodeReader: %v", err)
	}
	if !got.Equal(buf) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got.Pix, buf.Pix)
	}
}
