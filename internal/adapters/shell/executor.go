// Package shell runs toolchain commands through os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// Executor implements ports.CommandExecutor. Output is captured for the
// caller and simultaneously streamed line by line into the logger so long
// compiles stay observable.
type Executor struct {
	logger ports.Logger

	// quiet suppresses line streaming; output is still captured.
	quiet bool
}

// NewExecutor creates an executor that streams command output to the logger.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// NewQuietExecutor creates an executor that only captures output.
func NewQuietExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger, quiet: true}
}

var _ ports.CommandExecutor = (*Executor)(nil)

// Run executes the command and waits for it. A non-zero exit is reported
// through the result, not the error.
func (e *Executor) Run(ctx context.Context, command ports.Command) (ports.CommandResult, error) {
	//nolint:gosec // commands are assembled from the manifest by design
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = mergeEnvironment(os.Environ(), command.Env)

	var stdout, stderr bytes.Buffer
	if e.quiet {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		stdoutLog := &logWriter{logger: e.logger}
		stderrLog := &logWriter{logger: e.logger, warn: true}
		defer stdoutLog.Close()
		defer stderrLog.Close()
		cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
		cmd.Stderr = io.MultiWriter(&stderr, stderrLog)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return ports.CommandResult{}, zerr.With(
			errors.Join(domain.ErrCommandStartFailed, err),
			"command", command.Name,
		)
	}

	err := cmd.Wait()
	result := ports.CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			return result, nil
		}
		return result, zerr.With(
			errors.Join(domain.ErrCommandStartFailed, err),
			"command", command.Name,
		)
	}
	return result, nil
}

// mergeEnvironment layers the overrides over the inherited environment.
// Builds need the surrounding environment (PREFIX, PATH, compiler caches),
// so nothing is filtered out.
func mergeEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, kv := range sysEnv {
		if key, value, found := strings.Cut(kv, "="); found {
			envMap[key] = value
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make([]string, 0, len(keys))
	for _, k := range keys {
		merged = append(merged, k+"="+envMap[k])
	}
	return merged
}

// logWriter buffers bytes and forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	warn   bool
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	if w.warn {
		w.logger.Warn(msg)
		return
	}
	w.logger.Info(msg)
}
