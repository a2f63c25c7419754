package convert

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/somh/tgabuild/config"
)

// manifest is a project's app.json: a minimal descriptor naming the
// project and its generated app ID.
type manifest struct {
	AppID   string `json:"appId"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Scaffold creates assets/, src/, an app.json manifest with a random app ID,
// and a default tgabuild.json in dir, for a freshly initialized project.
// It refuses to run against a directory that already has an app.json.
func Scaffold(dir, name string) error {
	manifestPath := filepath.Join(dir, "app.json")
	if _, err := os.Stat(manifestPath); err == nil {
		return errors.Errorf("convert: %s already contains app.json", dir)
	}

	for _, sub := range []string{"assets", "src"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return errors.Wrapf(err, "convert: creating %s", sub)
		}
	}

	appID, err := randomAppID()
	if err != nil {
		return errors.Wrap(err, "convert: generating app ID")
	}

	m := manifest{AppID: appID, Name: name, Version: "0.0.1"}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "convert: marshaling app.json")
	}
	if err := os.WriteFile(manifestPath, raw, 0o644); err != nil {
		return errors.Wrap(err, "convert: writing app.json")
	}

	return config.Save(dir, config.Default())
}

func randomAppID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
