package convert

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/somh/tgabuild/config"
	"github.com/somh/tgabuild/internal/applog"
)

// BuildContext carries the state a BuildStage needs: the project root, the
// scratch build/ and dist/ directories, the merged config, and a logger.
// The pipeline is an explicit ordered slice of stages rather than a
// side-effecting registration decorator, so it can be constructed,
// inspected, and tested without import-time registration.
type BuildContext struct {
	ProjectDir string
	BuildDir   string
	DistDir    string
	Config     config.Config
	Logger     *applog.Logger
	Chooser    Chooser

	binName string
}

// BuildStage is one step of the build pipeline.
type BuildStage struct {
	Name string
	Run  func(*BuildContext) error
}

// DefaultStages returns the build pipeline the CLI's "build" subcommand
// runs, in order: prepare scratch directories, convert assets to TGA, copy
// non-asset project files, then package everything into a .bin.
func DefaultStages() []BuildStage {
	return []BuildStage{
		{Name: "prepare", Run: stagePrepare},
		{Name: "convert-assets", Run: stageConvertAssets},
		{Name: "copy-files", Run: stageCopyFiles},
		{Name: "package", Run: stagePackage},
	}
}

// RunStages executes stages in order against ctx, stopping at (and
// returning) the first error, attributed to its stage name.
func RunStages(ctx *BuildContext, stages []BuildStage) error {
	for _, stage := range stages {
		if err := stage.Run(ctx); err != nil {
			return errors.Wrapf(err, "build stage %q", stage.Name)
		}
		ctx.Logger.Infof("build stage %q complete", stage.Name)
	}
	return nil
}

func stagePrepare(ctx *BuildContext) error {
	if err := os.RemoveAll(ctx.BuildDir); err != nil {
		return err
	}
	if err := os.MkdirAll(ctx.BuildDir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(ctx.DistDir, 0o755)
}

func stageConvertAssets(ctx *BuildContext) error {
	assetsSrc := filepath.Join(ctx.ProjectDir, "assets")
	assetsDst := filepath.Join(ctx.BuildDir, "assets")
	if err := copyTree(assetsSrc, assetsDst); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	_, err := Run(assetsDst, ctx.Config, ctx.Chooser, ctx.Logger)
	return err
}

func stageCopyFiles(ctx *BuildContext) error {
	for _, name := range []string{"app.json", "src"} {
		src := filepath.Join(ctx.ProjectDir, name)
		dst := filepath.Join(ctx.BuildDir, name)
		if err := copyTree(src, dst); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func stagePackage(ctx *BuildContext) error {
	name := ctx.binName
	if name == "" {
		name = filepath.Base(ctx.ProjectDir) + ".bin"
	}
	dest := filepath.Join(ctx.DistDir, name)

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.Walk(ctx.BuildDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ctx.BuildDir, path)
		if err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(rel), Method: zip.Deflate})
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst)
	}
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
