package quantize

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/somh/tgabuild/internal/applog"
	"github.com/somh/tgabuild/pngio"
	"github.com/somh/tgabuild/tga"
)

// BackupDir returns the per-user config root's backup subdirectory.
// os.UserConfigDir resolves to the platform-appropriate root: %AppData% on
// Windows, ~/Library/Application Support on macOS, $XDG_CONFIG_HOME or
// ~/.config elsewhere.
func BackupDir() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "tgabuild", "backup"), nil
}

// Backup saves buf as a PNG under BackupDir, timestamped
// YYYY-MM-DD_HHMMSS.ffffff__<original-filename>. It is best-effort: any
// failure is logged and swallowed rather than returned, since losing a
// backup must never abort the conversion it was protecting.
func Backup(logger *applog.Logger, sourcePath string, buf *tga.Buffer, now time.Time) {
	dir, err := BackupDir()
	if err != nil {
		logger.Warnf("quantize: backup directory unavailable: %v", err)
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warnf("quantize: creating backup directory %s: %v", dir, err)
		return
	}

	name := fmt.Sprintf("%s__%s", now.Format("2006-01-02_150405.000000"), filepath.Base(sourcePath))
	dest := filepath.Join(dir, name)
	if err := pngio.Encode(dest, buf); err != nil {
		logger.Warnf("quantize: writing backup %s: %v", dest, err)
	}
}
