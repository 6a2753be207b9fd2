package builder

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// hookFunc rewrites a built wheel in place.
type hookFunc func(ctx context.Context, b *Builder, artifact *domain.Artifact) error

// hooks maps post-build hook names from the manifest to their implementation.
var hooks = map[string]hookFunc{
	"elf-rpath": hookElfRpath,
}

// runHook applies the named post-build hook to the artifact.
func (b *Builder) runHook(ctx context.Context, name string, artifact *domain.Artifact) error {
	hook, ok := hooks[name]
	if !ok {
		return zerr.With(zerr.With(
			zerr.Wrap(domain.ErrUnknownPostBuildHook, "no such hook registered"),
			"hook", name),
			"package", artifact.Name)
	}
	b.logger.Info("running post-build hook", "hook", name, "package", artifact.Name)
	if err := hook(ctx, b, artifact); err != nil {
		return zerr.With(zerr.With(
			errors.Join(domain.ErrBuildFailed, err),
			"hook", name),
			"package", artifact.Name)
	}
	return nil
}

// hookElfRpath rewrites the rpath of native extension modules inside the
// wheel so the dynamic linker finds the platform's shared libraries. The
// linker on the device does not search the prefix lib dir by default.
func hookElfRpath(ctx context.Context, b *Builder, artifact *domain.Artifact) error {
	prefix := os.Getenv("PREFIX")
	if prefix == "" {
		prefix = "/usr"
	}
	rpath := filepath.Join(prefix, "lib")

	// Extension modules linked against a static absl drop the references
	// the shared grpc core needs at runtime, so they are re-added by name.
	needed, _ := filepath.Glob(filepath.Join(rpath, "libabsl_*.so"))

	return rewriteWheel(artifact.Path, func(name string, data []byte) ([]byte, error) {
		if !strings.HasSuffix(name, ".so") {
			return data, nil
		}
		return b.patchElf(ctx, path.Base(name), data, rpath, needed)
	})
}

// patchElf runs patchelf against the extension module in a scratch file and
// returns the patched bytes.
func (b *Builder) patchElf(ctx context.Context, name string, data []byte, rpath string, needed []string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "depbuilder-*-"+name)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	args := make([]string, 0, 2*len(needed)+3)
	for _, lib := range needed {
		args = append(args, "--add-needed", filepath.Base(lib))
	}
	args = append(args, "--set-rpath", rpath, tmp.Name())

	result, err := b.executor.Run(ctx, ports.Command{
		Name: "patchelf",
		Args: args,
	})
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, zerr.With(zerr.With(
			zerr.New("patchelf failed"),
			"module", name),
			"stderr", strings.TrimSpace(result.Stderr))
	}

	return os.ReadFile(tmp.Name())
}

// rewriteWheel streams every entry of the wheel zip through transform and
// atomically replaces the wheel with the rewritten copy.
func rewriteWheel(wheelPath string, transform func(name string, data []byte) ([]byte, error)) error {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	tmp := wheelPath + ".tmp"
	//nolint:gosec // destination lives in the tool's own wheel cache
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	writer := zip.NewWriter(out)

	rewrite := func() error {
		for _, entry := range reader.File {
			rc, err := entry.Open()
			if err != nil {
				return err
			}
			//nolint:gosec // wheels are produced by our own build step
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return err
			}

			patched, err := transform(entry.Name, data)
			if err != nil {
				return err
			}

			header := entry.FileHeader
			w, err := writer.CreateHeader(&header)
			if err != nil {
				return err
			}
			if _, err := w.Write(patched); err != nil {
				return err
			}
		}
		return nil
	}

	err = rewrite()
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, wheelPath)
}
