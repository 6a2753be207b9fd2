package source

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// extractArchive unpacks a gzip or xz compressed tarball into destDir.
// Entries resolving outside destDir are rejected.
func extractArchive(path, destDir string) error {
	//nolint:gosec // path comes from the tool's own work directory
	f, err := os.Open(path)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "archive", filepath.Base(path))
	}
	defer f.Close()

	var reader io.Reader
	switch {
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return zerr.With(errors.Join(domain.ErrFetchFailed, err), "archive", filepath.Base(path))
		}
		defer gz.Close()
		reader = gz
	case strings.HasSuffix(path, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return zerr.With(errors.Join(domain.ErrFetchFailed, err), "archive", filepath.Base(path))
		}
		reader = xzr
	default:
		return zerr.With(zerr.Wrap(domain.ErrFetchFailed, "unsupported archive format"), "archive", filepath.Base(path))
	}

	tr := tar.NewReader(reader)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.With(errors.Join(domain.ErrFetchFailed, err), "archive", filepath.Base(path))
		}

		target, err := entryPath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", target)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, header.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if linkEscapes(header.Linkname) {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
				return zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", target)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", target)
			}
		}
	}
}

// entryPath joins an archive entry name under destDir, rejecting escapes.
func entryPath(destDir, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrFetchFailed, "entry escapes destination"), "entry", name)
	}
	return filepath.Join(destDir, cleaned), nil
}

func linkEscapes(linkname string) bool {
	return filepath.IsAbs(linkname) || strings.HasPrefix(filepath.Clean(linkname), "..")
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", target)
	}
	//nolint:gosec // target is confined to destDir by entryPath
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", target)
	}
	//nolint:gosec // sdists come from trusted indexes and fit on disk
	_, err = io.Copy(f, r)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", target)
	}
	return nil
}

// repackArchive rebuilds a gzip tarball from the unpacked directory so the
// archive reflects patched source. The entry names are rooted at the
// directory's base name, matching the original sdist layout.
func repackArchive(dir, sdistPath string) error {
	tmp := sdistPath + ".tmp"
	//nolint:gosec // destination lives in the tool's own work directory
	f, err := os.Create(tmp)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrPatchFailed, err), "path", tmp)
	}

	gz := pgzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	root := filepath.Dir(dir)
	walkErr := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if entry.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		//nolint:gosec // path comes from the walk of our own work directory
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, src)
		src.Close()
		return err
	})

	for _, closer := range []io.Closer{tw, gz, f} {
		if err := closer.Close(); err != nil && walkErr == nil {
			walkErr = err
		}
	}
	if walkErr != nil {
		os.Remove(tmp)
		return zerr.With(errors.Join(domain.ErrPatchFailed, walkErr), "dir", dir)
	}
	return os.Rename(tmp, sdistPath)
}
