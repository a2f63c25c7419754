package convert

import (
	"path/filepath"
	"strings"

	"github.com/somh/tgabuild/config"
	"github.com/somh/tgabuild/tga"
)

// SelectTarget applies a first-match-wins filename/directory suffix table
// to pick the per-file encode target, then applies the auto_rgba override.
func SelectTarget(path string, distinctColors int, cfg config.Config) config.Format {
	target := matchSuffix(path)
	if target == "" {
		target = cfg.DefaultFormat
	}

	if cfg.AutoRGBA && distinctColors > 256 {
		switch target {
		case config.FormatTGAP, config.FormatTGARLP:
			return config.FormatTGA32
		}
	}

	return target
}

func matchSuffix(path string) config.Format {
	base := filepath.Base(path)
	dir := filepath.ToSlash(filepath.Dir(path))

	switch {
	case strings.HasSuffix(base, ".rgb.png") || hasDirSegment(dir, ".rgb"):
		return config.FormatTGA16
	case strings.HasSuffix(base, ".rgba.png") || hasDirSegment(dir, ".rgba"):
		return config.FormatTGA32
	case strings.HasSuffix(base, ".p.png") || hasDirSegment(dir, ".p"):
		return config.FormatTGAP
	case strings.HasSuffix(base, ".rlp.png") || hasDirSegment(dir, ".rlp"):
		return config.FormatTGARLP
	default:
		return ""
	}
}

func hasDirSegment(dir, segment string) bool {
	for _, part := range strings.Split(dir, "/") {
		if strings.HasSuffix(part, segment) {
			return true
		}
	}
	return false
}

// SubtypeOf reports the tga.Subtype a sniffed TGA format corresponds to.
// FormatTGATruecolor covers both depths; the caller distinguishes them by
// reading the header during decode.
func SubtypeOf(f tga.Format) tga.Subtype {
	switch f {
	case tga.FormatTGAPalette:
		return tga.SubtypePalette
	case tga.FormatTGARLEPalette:
		return tga.SubtypeRLEPalette
	default:
		return tga.SubtypeTruecolor
	}
}
