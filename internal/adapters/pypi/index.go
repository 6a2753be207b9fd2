// Package pypi resolves prebuilt wheels from remote indexes: the public
// package index and an optional S3-compatible mirror.
package pypi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

const defaultBaseURL = "https://pypi.org/pypi"

// Index implements ports.WheelIndex over the package index JSON API.
type Index struct {
	client  *http.Client
	baseURL string
}

// NewIndex creates a client for the public package index.
func NewIndex() *Index {
	return NewIndexWithBaseURL(defaultBaseURL)
}

// NewIndexWithBaseURL creates a client against a custom endpoint.
func NewIndexWithBaseURL(baseURL string) *Index {
	return &Index{
		client:  &http.Client{Timeout: 120 * time.Second},
		baseURL: baseURL,
	}
}

var _ ports.WheelIndex = (*Index)(nil)

// Name identifies the index in logs.
func (i *Index) Name() string {
	return "pypi"
}

type projectDoc struct {
	Releases map[string][]releaseFile `json:"releases"`
}

type releaseFile struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	PackageType string `json:"packagetype"`
	Yanked      bool   `json:"yanked"`
	Digests     struct {
		SHA256 string `json:"sha256"`
	} `json:"digests"`
}

// FindWheel queries the project document and returns the newest release
// carrying a wheel compatible with the platform.
func (i *Index) FindWheel(ctx context.Context, spec domain.PackageSpec, platform domain.Platform) (*domain.RemoteWheel, error) {
	constraint, err := domain.ParseConstraint(spec.Constraint)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/json", i.baseURL, spec.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrArtifactNotFound, err), "package", spec.Name)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrArtifactNotFound, err), "package", spec.Name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrArtifactNotFound, "index rejected the project query"),
			"package", spec.Name),
			"status", resp.StatusCode)
	}

	var doc projectDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrArtifactNotFound, err), "package", spec.Name)
	}

	versions := make([]string, 0, len(doc.Releases))
	for version := range doc.Releases {
		if constraint.Matches(version) {
			versions = append(versions, version)
		}
	}
	sort.Slice(versions, func(a, b int) bool {
		return domain.CompareVersions(versions[a], versions[b]) > 0
	})

	for _, version := range versions {
		for _, file := range doc.Releases[version] {
			if file.PackageType != "bdist_wheel" || file.Yanked {
				continue
			}
			wheel, err := domain.ParseWheelFilename(file.Filename)
			if err != nil || !wheel.Compatible(platform) {
				continue
			}
			return &domain.RemoteWheel{
				Name:     spec.Name,
				Version:  version,
				Filename: file.Filename,
				URL:      file.URL,
				Size:     file.Size,
				SHA256:   file.Digests.SHA256,
			}, nil
		}
	}

	return nil, zerr.With(zerr.With(
		zerr.Wrap(domain.ErrArtifactNotFound, "no compatible wheel published"),
		"package", spec.Name),
		"platform", platform.Tag())
}

// Download fetches the wheel into destDir, verifying the advertised digest.
func (i *Index) Download(ctx context.Context, wheel *domain.RemoteWheel, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wheel.URL, nil)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "wheel", wheel.Filename)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "wheel", wheel.Filename)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", zerr.With(zerr.With(
			zerr.Wrap(domain.ErrFetchFailed, "index rejected the download"),
			"wheel", wheel.Filename),
			"status", resp.StatusCode)
	}

	return writeVerified(wheel, destDir, resp.Body, resp.ContentLength)
}

// writeVerified streams the body into destDir with a progress bar and
// checks the SHA256 digest when the index advertised one.
func writeVerified(wheel *domain.RemoteWheel, destDir string, body io.Reader, length int64) (string, error) {
	if err := os.MkdirAll(destDir, domain.DirPerm); err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "dir", destDir)
	}

	path := filepath.Join(destDir, wheel.Filename)
	//nolint:gosec // destination is the trusted wheel cache
	f, err := os.Create(path)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", path)
	}

	bar := progressbar.DefaultBytes(length, "downloading "+wheel.Filename)
	hash := sha256.New()

	_, err = io.Copy(io.MultiWriter(f, hash, bar), body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "wheel", wheel.Filename)
	}

	if wheel.SHA256 != "" {
		actual := hex.EncodeToString(hash.Sum(nil))
		if actual != wheel.SHA256 {
			os.Remove(path)
			return "", zerr.With(zerr.With(zerr.With(
				zerr.Wrap(domain.ErrChecksumMismatch, "downloaded wheel digest mismatch"),
				"wheel", wheel.Filename),
				"expected", wheel.SHA256),
				"actual", actual)
		}
	}
	return path, nil
}
