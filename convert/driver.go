// Package convert implements the format sniffer's directory-level dispatch,
// the target selector, and the conversion driver: the part of the system
// that decides, for a whole project tree, which way conversion runs and
// what each file becomes.
package convert

import (
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/somh/tgabuild/config"
	"github.com/somh/tgabuild/internal/applog"
	"github.com/somh/tgabuild/pngio"
	"github.com/somh/tgabuild/quantize"
	"github.com/somh/tgabuild/tga"
)

// Direction is the inferred bulk conversion direction for a directory.
type Direction int

const (
	// DirectionNone means there was nothing to convert.
	DirectionNone Direction = iota
	DirectionEncode
	DirectionDecode
	DirectionAsk
)

// InferDirection decides the bulk conversion direction for a directory:
// encode if there are no TGA files, decode if there are no PNGs, otherwise
// ask.
func InferDirection(files []Classification) Direction {
	var pngCount, tgaCount int
	for _, c := range files {
		switch {
		case c.Format == tga.FormatPNG:
			pngCount++
		case IsTGA(c.Format):
			tgaCount++
		}
	}
	switch {
	case pngCount == 0 && tgaCount == 0:
		return DirectionNone
	case tgaCount == 0:
		return DirectionEncode
	case pngCount == 0:
		return DirectionDecode
	default:
		return DirectionAsk
	}
}

// Stats accumulates per-target counts from a conversion pass, printed by the
// CLI as a summary once the pass completes.
type Stats struct {
	EncodedByTarget map[config.Format]int
	Decoded         int
	Skipped         int
}

func newStats() Stats {
	return Stats{EncodedByTarget: make(map[config.Format]int)}
}

// Run walks dir, infers direction, and performs a full encode or decode
// pass. If both PNGs and TGAs are present it asks chooser to pick a
// direction first. A per-file failure aborts the whole pass and is returned
// wrapped with the offending path.
func Run(dir string, cfg config.Config, chooser Chooser, logger *applog.Logger) (Stats, error) {
	files, err := Walk(dir)
	if err != nil {
		return Stats{}, err
	}

	direction := InferDirection(files)
	if direction == DirectionAsk {
		choice, err := chooser.Choose("both PNG and TGA assets found; pick a direction", []string{"encode (PNG -> TGA)", "decode (TGA -> PNG)"})
		if err != nil {
			return Stats{}, errors.Wrap(err, "convert: resolving direction")
		}
		if choice == 0 {
			direction = DirectionEncode
		} else {
			direction = DirectionDecode
		}
	}

	switch direction {
	case DirectionEncode:
		return encodePass(files, cfg, logger)
	case DirectionDecode:
		return decodePass(files, logger)
	default:
		return newStats(), nil
	}
}

func encodePass(files []Classification, cfg config.Config, logger *applog.Logger) (Stats, error) {
	stats := newStats()

	for _, c := range files {
		if c.Format != tga.FormatPNG {
			continue
		}

		buf, err := pngio.Decode(c.Path)
		if err != nil {
			return stats, errors.Wrapf(err, "file %s", c.Path)
		}

		distinct := buf.DistinctColors(256)
		target := SelectTarget(c.Path, distinct, cfg)
		subtype, depth := target.Subtype()

		if sourceIsAlready(c.Path, subtype) {
			stats.Skipped++
			logger.Debugf("skipping %s: already %s", c.Path, target)
			continue
		}

		if distinct > 256 && (subtype == tga.SubtypePalette || subtype == tga.SubtypeRLEPalette) {
			quantize.Backup(logger, c.Path, buf, time.Now())
			buf = quantize.Reduce(buf)
		}

		if err := encodeTo(c.Path, buf, subtype, depth, cfg); err != nil {
			return stats, errors.Wrapf(err, "file %s", c.Path)
		}
		stats.EncodedByTarget[target]++
	}

	return stats, nil
}

func decodePass(files []Classification, logger *applog.Logger) (Stats, error) {
	stats := newStats()

	for _, c := range files {
		if !IsTGA(c.Format) {
			continue
		}

		buf, _, err := decodeFrom(c.Path)
		if err != nil {
			return stats, errors.Wrapf(err, "file %s", c.Path)
		}

		if err := pngio.Encode(c.Path, buf); err != nil {
			return stats, errors.Wrapf(err, "file %s", c.Path)
		}
		stats.Decoded++
		logger.Debugf("decoded %s", c.Path)
	}

	return stats, nil
}

// sourceIsAlready reports whether the file at path already sniffs as the
// given target subtype; encodePass skips these rather than re-encoding.
// Matching is by subtype only (truecolor source skips any truecolor
// target regardless of 16-vs-32 depth), since the sniffable TGA subtype
// space only has three members and depth isn't part of it.
func sourceIsAlready(path string, target tga.Subtype) bool {
	format, err := Classify(path)
	if err != nil {
		return false
	}
	return IsTGA(format) && SubtypeOf(format) == target
}

func encodeTo(path string, buf *tga.Buffer, subtype tga.Subtype, depth uint8, cfg config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	if err := tga.Encode(f, buf, subtype, depth, tga.EncodeOptions{Mode: cfg.EncodeMode}); err != nil {
		return err
	}
	return f.Close()
}

func decodeFrom(path string) (*tga.Buffer, tga.Subtype, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return tga.Decode(f, tga.DecodeOptions{Mode: tga.ModeDefault})
}
