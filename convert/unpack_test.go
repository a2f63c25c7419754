package convert

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/somh/tgabuild/config"
	"github.com/somh/tgabuild/tga"
)

func writeEvilZip(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("../escaped.txt")
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("nope")); err != nil {
		return err
	}
	return zw.Close()
}

func TestUnpackExtractsAndDecodesAssets(t *testing.T) {
	dir := t.TempDir()
	if err := Scaffold(dir, "watchface"); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	writePNG(t, filepath.Join(dir, "assets", "icon.p.png"))

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	ctx := &BuildContext{
		ProjectDir: dir,
		BuildDir:   filepath.Join(dir, "build"),
		DistDir:    filepath.Join(dir, "dist"),
		Config:     cfg,
		Logger:     testLogger(),
		Chooser:    refusingChooser{t},
		binName:    "watchface.bin",
	}
	if err := RunStages(ctx, DefaultStages()); err != nil {
		t.Fatalf("RunStages: %v", err)
	}

	binPath := filepath.Join(dir, "dist", "watchface.bin")
	outDir, err := Unpack(binPath, testLogger())
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	iconPath := filepath.Join(outDir, "assets", "icon.p.png")
	if _, err := os.Stat(iconPath); err != nil {
		t.Fatalf("unpacked asset missing: %v", err)
	}
	format, err := Classify(iconPath)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if format != tga.FormatPNG {
		t.Errorf("Unpack should decode TGA assets back to PNG, got format %v", format)
	}
}

func TestExtractZipRejectsPathEscape(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.bin")
	if err := writeEvilZip(zipPath); err != nil {
		t.Fatalf("writeEvilZip: %v", err)
	}
	if _, err := Unpack(zipPath, testLogger()); err == nil {
		t.Error("expected Unpack to reject a zip entry that escapes the destination")
	}
}
