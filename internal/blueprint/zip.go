package blueprint

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ArchiveName is the packaged blueprint, written inside the blueprint
// directory so the CDK asset can pick it up by path.
const ArchiveName = "code.zip"

// CleanupArchive removes a stale archive from a previous synthesis.
func CleanupArchive(dir string, log *zap.Logger) {
	path := filepath.Join(dir, ArchiveName)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			log.Info("no stale archive to clean up", zap.String("path", path))
			return
		}
		log.Warn("cleanup archive", zap.String("path", path), zap.Error(err))
	}
}

// ZipDirectory packages the blueprint directory into {dir}/code.zip. The
// archive itself is excluded so repeated packaging stays stable.
func ZipDirectory(dir string) error {
	out, err := os.Create(filepath.Join(dir, ArchiveName))
	if err != nil {
		return errors.Wrap(err, "create archive")
	}
	defer out.Close()

	w := zip.NewWriter(out)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || info.Name() == ArchiveName {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "zip blueprint directory %q", dir)
	}
	return errors.Wrap(w.Close(), "finalize archive")
}
