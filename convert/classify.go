package convert

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/somh/tgabuild/tga"
)

// Classification pairs a filesystem path with its sniffed container format.
type Classification struct {
	Path   string
	Format tga.Format
}

// Classify sniffs the format of the file at path by reading its first four
// bytes. A file shorter than four bytes classifies as tga.FormatUnknown
// rather than failing: the walk treats it as non-image and skips it silently.
// A file that cannot be opened or read returns an error carrying its path.
func Classify(path string) (tga.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return tga.FormatUnknown, errors.Wrapf(err, "file %s", path)
	}
	defer f.Close()

	header := make([]byte, 4)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return tga.FormatUnknown, errors.Wrapf(err, "file %s", path)
	}
	return tga.Sniff(header[:n]), nil
}

// Walk recursively classifies every regular file under root, skipping
// directories and files that don't sniff as PNG or TGA.
func Walk(root string) ([]Classification, error) {
	var out []Classification
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "file %s", path)
		}
		if d.IsDir() {
			return nil
		}
		format, err := Classify(path)
		if err != nil {
			return err
		}
		if format == tga.FormatUnknown {
			return nil
		}
		out = append(out, Classification{Path: path, Format: format})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsTGA reports whether a sniffed format is any of the three TGA subtypes.
func IsTGA(f tga.Format) bool {
	switch f {
	case tga.FormatTGAPalette, tga.FormatTGARLEPalette, tga.FormatTGATruecolor:
		return true
	default:
		return false
	}
}
