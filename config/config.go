// Package config loads a project's tgabuild.json, overlaying it on top of
// built-in defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/somh/tgabuild/tga"
)

// FileName is the project-root config file this package reads.
const FileName = "tgabuild.json"

// Format names one of the four encode targets in config/CLI-facing form.
type Format string

const (
	FormatTGA16 Format = "TGA-16"
	FormatTGA32 Format = "TGA-32"
	FormatTGAP  Format = "TGA-P"
	FormatTGARLP Format = "TGA-RLP"
)

// Subtype reports the tga.Subtype and pixel depth this format encodes to.
func (f Format) Subtype() (subtype tga.Subtype, depth uint8) {
	switch f {
	case FormatTGA16:
		return tga.SubtypeTruecolor, 16
	case FormatTGA32:
		return tga.SubtypeTruecolor, 32
	case FormatTGAP:
		return tga.SubtypePalette, 8
	case FormatTGARLP:
		return tga.SubtypeRLEPalette, 8
	default:
		return tga.SubtypeTruecolor, 32
	}
}

// Config is a project's merged build configuration.
type Config struct {
	DefaultFormat Format          `json:"default_format"`
	AutoRGBA      bool            `json:"auto_rgba"`
	EncodeMode    tga.EncodeMode  `json:"-"`
	EncodeModeRaw string          `json:"encode_mode"`
}

// Default returns the built-in configuration used when a project carries no
// tgabuild.json, or as the base that a project file is overlaid onto.
func Default() Config {
	return Config{
		DefaultFormat: FormatTGA32,
		AutoRGBA:      true,
		EncodeMode:    tga.ModeDefault,
		EncodeModeRaw: "default",
	}
}

// Load reads dir/tgabuild.json if present and overlays its fields onto
// Default(). A missing file is not an error; a malformed one is.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config: reading %s", path)
	}

	var overlay struct {
		DefaultFormat *Format `json:"default_format"`
		AutoRGBA      *bool   `json:"auto_rgba"`
		EncodeMode    *string `json:"encode_mode"`
	}
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return cfg, errors.Wrapf(err, "config: parsing %s", path)
	}

	if overlay.DefaultFormat != nil {
		cfg.DefaultFormat = *overlay.DefaultFormat
	}
	if overlay.AutoRGBA != nil {
		cfg.AutoRGBA = *overlay.AutoRGBA
	}
	if overlay.EncodeMode != nil {
		cfg.EncodeModeRaw = *overlay.EncodeMode
		if *overlay.EncodeMode == "alternate" {
			cfg.EncodeMode = tga.ModeAlternate
		} else {
			cfg.EncodeMode = tga.ModeDefault
		}
	}

	return cfg, nil
}

// Save writes cfg to dir/tgabuild.json, creating the project root config
// used by Scaffold for a freshly initialized project.
func Save(dir string, cfg Config) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "config: marshaling")
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "config: writing %s", path)
	}
	return nil
}
