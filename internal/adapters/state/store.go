// Package state persists phase progress and environment snapshots as plain
// text files so an interrupted run can resume where it stopped.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// Store implements ports.StateStore over three plain text files in the
// state directory: the progress file, the environment snapshot and the
// error log. Plain text keeps the state inspectable and editable by hand.
type Store struct {
	dir    string
	logger ports.Logger

	mu sync.Mutex
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger ports.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

var _ ports.StateStore = (*Store)(nil)

// IsPhaseComplete reports whether a completion line exists for the phase.
// A missing or corrupt progress file means not complete.
func (s *Store) IsPhaseComplete(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords()
	if err != nil {
		return false
	}
	for _, rec := range records {
		if rec.PhaseIndex == index {
			return true
		}
	}
	return false
}

// MarkPhaseComplete records the phase as complete and replaces the
// environment snapshot. The progress file is replaced atomically so a
// crash mid-write leaves the previous state intact.
func (s *Store) MarkPhaseComplete(index int, env map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords()
	if err != nil {
		return err
	}

	replaced := false
	for i, rec := range records {
		if rec.PhaseIndex == index {
			records[i].CompletedAt = time.Now()
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, domain.ProgressRecord{
			PhaseIndex:  index,
			CompletedAt: time.Now(),
		})
	}

	if err := s.writeRecords(records); err != nil {
		return err
	}
	return s.writeEnvironment(env)
}

// Reset removes the completion record for one phase.
func (s *Store) Reset(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, rec := range records {
		if rec.PhaseIndex != index {
			kept = append(kept, rec)
		}
	}
	return s.writeRecords(kept)
}

// ResetAll removes every completion record and the environment snapshot.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{
		domain.ProgressPath(s.dir),
		domain.EnvPath(s.dir),
	} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", path)
		}
	}
	return nil
}

// Records returns every completion record ordered by phase index. The
// environment snapshot is attached to the most recently completed phase.
func (s *Store) Records() ([]domain.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords()
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].PhaseIndex < records[j].PhaseIndex
	})

	if len(records) > 0 {
		env, err := s.readEnvironment()
		if err == nil && len(env) > 0 {
			latest := 0
			for i, rec := range records {
				if rec.CompletedAt.After(records[latest].CompletedAt) {
					latest = i
				}
			}
			records[latest].Env = env
		}
	}
	return records, nil
}

// Environment returns the persisted environment snapshot, or an empty map
// when none was recorded.
func (s *Store) Environment() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readEnvironment()
}

// AppendError appends a diagnostic line to the error log. Append failures
// are logged and swallowed; diagnostics never fail a run.
func (s *Store) AppendError(rec domain.ErrorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("%s package=%s stage=%s %s\n",
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.Package,
		rec.Stage,
		rec.Message,
	)

	path := domain.ErrorLogPath(s.dir)
	if err := s.appendLine(path, line); err != nil {
		s.logger.Warn("failed to append error record", "path", path, "reason", err.Error())
	}
}

// progressLine is the persisted form of one completion record, e.g.
// "PHASE_3_COMPLETE=1716212345".
func progressLine(rec domain.ProgressRecord) string {
	return fmt.Sprintf("PHASE_%d_COMPLETE=%d", rec.PhaseIndex, rec.CompletedAt.Unix())
}

func parseProgressLine(line string) (domain.ProgressRecord, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return domain.ProgressRecord{}, false
	}

	key, value, found := strings.Cut(line, "=")
	if !found || !strings.HasPrefix(key, "PHASE_") || !strings.HasSuffix(key, "_COMPLETE") {
		return domain.ProgressRecord{}, false
	}

	indexStr := strings.TrimSuffix(strings.TrimPrefix(key, "PHASE_"), "_COMPLETE")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return domain.ProgressRecord{}, false
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return domain.ProgressRecord{}, false
	}

	return domain.ProgressRecord{
		PhaseIndex:  index,
		CompletedAt: time.Unix(ts, 0),
	}, true
}

func (s *Store) readRecords() ([]domain.ProgressRecord, error) {
	data, err := os.ReadFile(domain.ProgressPath(s.dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrStateReadFailed, err), "file", domain.ProgressFileName)
	}

	var records []domain.ProgressRecord
	for _, line := range strings.Split(string(data), "\n") {
		if rec, ok := parseProgressLine(line); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *Store) writeRecords(records []domain.ProgressRecord) error {
	sort.Slice(records, func(i, j int) bool {
		return records[i].PhaseIndex < records[j].PhaseIndex
	})

	var b strings.Builder
	for _, rec := range records {
		b.WriteString(progressLine(rec))
		b.WriteString("\n")
	}
	return s.writeFileAtomic(domain.ProgressPath(s.dir), []byte(b.String()))
}

// readEnvironment parses `export KEY="VALUE"` lines. Unparseable lines are
// skipped so a hand-edited snapshot does not brick the store.
func (s *Store) readEnvironment() (map[string]string, error) {
	env := make(map[string]string)

	data, err := os.ReadFile(domain.EnvPath(s.dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return env, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrStateReadFailed, err), "file", domain.EnvFileName)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		rest, found := strings.CutPrefix(line, "export ")
		if !found {
			continue
		}
		key, value, found := strings.Cut(rest, "=")
		if !found || key == "" {
			continue
		}
		env[key] = strings.Trim(value, `"`)
	}
	return env, nil
}

func (s *Store) writeEnvironment(env map[string]string) error {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s=%q\n", k, env[k])
	}
	return s.writeFileAtomic(domain.EnvPath(s.dir), []byte(b.String()))
}

// writeFileAtomic writes via a temp file and rename so readers never see a
// half-written file.
func (s *Store) writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "dir", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(errors.Join(domain.ErrStateWriteFailed, err), "path", path)
	}
	return nil
}

func (s *Store) appendLine(path, line string) error {
	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return err
	}
	//nolint:gosec // path is inside the trusted state directory
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(line)
	return err
}
