package convert

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/somh/tgabuild/internal/applog"
)

// Unpack extracts a .bin (zip) archive produced by the package build stage
// into a sibling directory named after the archive, then decodes its
// TGA assets back to PNG via the decode pass.
func Unpack(binPath string, logger *applog.Logger) (string, error) {
	dir := strings.TrimSuffix(binPath, filepath.Ext(binPath))
	if err := extractZip(binPath, dir); err != nil {
		return "", errors.Wrapf(err, "unpacking %s", binPath)
	}

	assetsDir := filepath.Join(dir, "assets")
	if _, err := os.Stat(assetsDir); err == nil {
		if _, err := decodePass(mustWalk(assetsDir), logger); err != nil {
			return "", err
		}
	}

	return dir, nil
}

func mustWalk(dir string) []Classification {
	files, err := Walk(dir)
	if err != nil {
		return nil
	}
	return files
}

func extractZip(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return errors.Errorf("zip entry %q escapes destination", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		out.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
