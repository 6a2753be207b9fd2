package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// profileFunc rewrites files in the tree and reports whether anything changed.
type profileFunc func(tree *domain.SourceTree) (bool, error)

// profiles maps patch profile names from the manifest to their implementation.
var profiles = map[string]profileFunc{
	"meson-version":   patchMesonVersion,
	"script-shebangs": patchScriptShebangs,
}

// Patcher implements ports.SourcePatcher with a registry of named profiles.
// After a profile changes the tree the sdist is rebuilt so any consumer of
// the archive sees patched source.
type Patcher struct {
	logger ports.Logger
}

// NewPatcher creates a patcher.
func NewPatcher(logger ports.Logger) *Patcher {
	return &Patcher{logger: logger}
}

var _ ports.SourcePatcher = (*Patcher)(nil)

// Patch applies the spec's patch profile to the tree. Specs without a
// profile are a no-op. Profiles are idempotent: re-running on an already
// patched tree changes nothing and skips the repack.
func (p *Patcher) Patch(ctx context.Context, tree *domain.SourceTree, spec domain.PackageSpec) error {
	if spec.PatchProfile == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	apply, ok := profiles[spec.PatchProfile]
	if !ok {
		return zerr.With(zerr.With(
			zerr.Wrap(domain.ErrUnknownPatchProfile, "no such profile registered"),
			"profile", spec.PatchProfile),
			"package", spec.Name)
	}

	changed, err := apply(tree)
	if err != nil {
		return zerr.With(zerr.With(
			errors.Join(domain.ErrPatchFailed, err),
			"profile", spec.PatchProfile),
			"package", spec.Name)
	}
	if !changed {
		p.logger.Info("source already patched", "package", spec.Name, "profile", spec.PatchProfile)
		return nil
	}

	p.logger.Info("applied patch profile", "package", spec.Name, "profile", spec.PatchProfile)
	return p.repack(tree)
}

// repack rebuilds the sdist from the patched tree. A non-gzip sdist is
// replaced by a gzip one since that is what the repacker produces.
func (p *Patcher) repack(tree *domain.SourceTree) error {
	dest := tree.SdistPath
	if strings.HasSuffix(dest, ".tar.xz") {
		dest = strings.TrimSuffix(dest, ".tar.xz") + ".tar.gz"
	}
	if err := repackArchive(tree.Dir, dest); err != nil {
		return err
	}
	if dest != tree.SdistPath {
		if err := os.Remove(tree.SdistPath); err != nil {
			return zerr.With(errors.Join(domain.ErrPatchFailed, err), "path", tree.SdistPath)
		}
		tree.SdistPath = dest
	}
	return nil
}

// mesonVersionRe matches a meson project version computed by running a
// helper script at configure time. Those helpers read VCS metadata that an
// sdist does not carry, so the build dies unless the version is pinned.
var mesonVersionRe = regexp.MustCompile(`version\s*:\s*run_command\([^)]*\)[^,\n]*`)

func patchMesonVersion(tree *domain.SourceTree) (bool, error) {
	path := filepath.Join(tree.Dir, "meson.build")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, zerr.With(zerr.Wrap(domain.ErrPatchTargetMissing, "tree has no meson.build"), "file", "meson.build")
	}
	if err != nil {
		return false, err
	}

	pinned := fmt.Sprintf("version: '%s'", tree.Version)
	patched := mesonVersionRe.ReplaceAll(data, []byte(pinned))
	if bytes.Equal(patched, data) {
		return false, nil
	}
	return true, os.WriteFile(path, patched, domain.FilePerm)
}

// shebangRe matches an interpreter line pointing at a fixed python path.
var shebangRe = regexp.MustCompile(`^#![^\n]*/python[0-9.]*[ \t]*$`)

const portableShebang = "#!/usr/bin/env python3"

// patchScriptShebangs normalizes the interpreter line of the tree's scripts.
// Hardcoded python paths are rewritten since host paths baked into sdists
// rarely exist on the device, and executable python scripts shipped without
// any shebang get one inserted so build systems can run them directly.
func patchScriptShebangs(tree *domain.SourceTree) (bool, error) {
	changed := false
	scripts := 0
	err := filepath.WalkDir(tree.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		executable := info.Mode().Perm()&0o111 != 0
		if !strings.HasSuffix(path, ".py") && !executable {
			return nil
		}
		scripts++

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		line, rest, _ := bytes.Cut(data, []byte("\n"))

		var patched []byte
		switch {
		case string(line) == portableShebang:
			return nil
		case shebangRe.Match(line):
			patched = append([]byte(portableShebang+"\n"), rest...)
		case executable && strings.HasSuffix(path, ".py") && !bytes.HasPrefix(data, []byte("#!")):
			patched = append([]byte(portableShebang+"\n"), data...)
		default:
			return nil
		}

		if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return changed, err
	}
	if scripts == 0 {
		return false, zerr.With(zerr.Wrap(domain.ErrPatchTargetMissing, "tree has no scripts"), "dir", tree.Dir)
	}
	return changed, nil
}
