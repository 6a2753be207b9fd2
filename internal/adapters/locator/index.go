package locator

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"
	"lukechampine.com/blake3"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// ChecksumIndex records the BLAKE3 digest of every wheel the pipeline has
// produced or downloaded, keyed by filename. It detects cache corruption:
// a wheel whose digest no longer matches its recorded value is skipped.
type ChecksumIndex struct {
	path string

	mu     sync.Mutex
	wheels map[string]string
}

type indexFile struct {
	Wheels map[string]string `json:"wheels"`
}

// LoadIndex reads the index at path. A missing or corrupt index starts
// empty; it only ever grows back as wheels are verified.
func LoadIndex(path string) *ChecksumIndex {
	idx := &ChecksumIndex{path: path, wheels: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return idx
	}
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return idx
	}
	if f.Wheels != nil {
		idx.wheels = f.Wheels
	}
	return idx
}

// Lookup returns the recorded digest for the filename.
func (i *ChecksumIndex) Lookup(filename string) (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sum, ok := i.wheels[filename]
	return sum, ok
}

// Record stores the digest for the filename and persists the index.
func (i *ChecksumIndex) Record(filename, sum string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.wheels[filename] = sum

	data, err := json.MarshalIndent(indexFile{Wheels: i.wheels}, "", "  ")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", i.path)
	}
	return i.persist(data)
}

// persist writes via a temp file and rename so a crash mid-write never
// leaves a truncated index behind.
func (i *ChecksumIndex) persist(data []byte) error {
	dir := filepath.Dir(i.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(i.path)+".tmp-*")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", i.path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", i.path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", i.path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", i.path)
	}
	if err := os.Rename(tmpName, i.path); err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", i.path)
	}
	return nil
}

// Forget drops the record for a filename, e.g. after deleting a corrupt
// wheel.
func (i *ChecksumIndex) Forget(filename string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.wheels, filename)
}

// FileChecksum returns the BLAKE3 hex digest of the file at path.
func FileChecksum(path string) (string, error) {
	//nolint:gosec // wheels live in the trusted cache directory
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(domain.ErrArtifactNotFound, "wheel file missing"), "path", path)
		}
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
