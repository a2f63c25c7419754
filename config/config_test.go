package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/somh/tgabuild/tga"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(missing) = %+v, want %+v", cfg, Default())
	}
}

func TestLoadOverlaysPartialConfig(t *testing.T) {
	dir := t.TempDir()
	raw := `{"default_format": "TGA-P", "encode_mode": "alternate"}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(raw), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultFormat != FormatTGAP {
		t.Errorf("DefaultFormat = %v, want %v", cfg.DefaultFormat, FormatTGAP)
	}
	if cfg.EncodeMode != tga.ModeAlternate {
		t.Errorf("EncodeMode = %v, want ModeAlternate", cfg.EncodeMode)
	}
	// auto_rgba wasn't present in the overlay, so it should keep the default.
	if cfg.AutoRGBA != Default().AutoRGBA {
		t.Errorf("AutoRGBA = %v, want default %v", cfg.AutoRGBA, Default().AutoRGBA)
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected an error loading malformed config")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{DefaultFormat: FormatTGARLP, AutoRGBA: false, EncodeMode: tga.ModeAlternate, EncodeModeRaw: "alternate"}
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}

func TestFormatSubtype(t *testing.T) {
	cases := []struct {
		format      Format
		wantSubtype tga.Subtype
		wantDepth   uint8
	}{
		{FormatTGA16, tga.SubtypeTruecolor, 16},
		{FormatTGA32, tga.SubtypeTruecolor, 32},
		{FormatTGAP, tga.SubtypePalette, 8},
		{FormatTGARLP, tga.SubtypeRLEPalette, 8},
	}
	for _, tc := range cases {
		subtype, depth := tc.format.Subtype()
		if subtype != tc.wantSubtype || depth != tc.wantDepth {
			t.Errorf("%s.Subtype() = %v, %d, want %v, %d", tc.format, subtype, depth, tc.wantSubtype, tc.wantDepth)
		}
	}
}
