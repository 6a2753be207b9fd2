// Package sysdeps installs OS-level build prerequisites through the
// platform package manager.
package sysdeps

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// IsTermux reports whether the process is running inside Termux.
func IsTermux() bool {
	return os.Getenv("TERMUX_VERSION") != ""
}

// PkgInstaller implements ports.SystemInstaller over the Termux pkg tool.
// Outside Termux it degrades to a warning: system packages are assumed to
// be managed by the operator there.
type PkgInstaller struct {
	executor ports.CommandExecutor
	logger   ports.Logger
	termux   bool

	mu        sync.Mutex
	present   map[string]bool
	warnedOff bool
}

// NewPkgInstaller creates an installer, detecting the platform.
func NewPkgInstaller(executor ports.CommandExecutor, logger ports.Logger) *PkgInstaller {
	return newPkgInstaller(executor, logger, IsTermux())
}

func newPkgInstaller(executor ports.CommandExecutor, logger ports.Logger, termux bool) *PkgInstaller {
	return &PkgInstaller{
		executor: executor,
		logger:   logger,
		termux:   termux,
		present:  make(map[string]bool),
	}
}

var _ ports.SystemInstaller = (*PkgInstaller)(nil)

// EnsureInstalled installs the named packages that are missing. Installed
// packages are discovered once and cached for the rest of the run.
func (p *PkgInstaller) EnsureInstalled(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.termux {
		if !p.warnedOff {
			p.logger.Warn("not running under Termux, assuming system packages are present",
				"packages", strings.Join(packages, ","))
			p.warnedOff = true
		}
		return nil
	}

	if err := p.loadPresent(ctx); err != nil {
		return err
	}

	var missing []string
	for _, pkg := range packages {
		if !p.present[pkg] {
			missing = append(missing, pkg)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	p.logger.Info("installing system packages", "packages", strings.Join(missing, ","))

	result, err := p.executor.Run(ctx, ports.Command{
		Name: "pkg",
		Args: append([]string{"install", "-y"}, missing...),
	})
	if err != nil {
		return zerr.With(errors.Join(domain.ErrSystemDepsFailed, err), "packages", strings.Join(missing, ","))
	}
	if result.ExitCode != 0 {
		return zerr.With(zerr.With(
			zerr.Wrap(domain.ErrSystemDepsFailed, "pkg install failed"),
			"packages", strings.Join(missing, ",")),
			"stderr", strings.TrimSpace(result.Stderr))
	}

	for _, pkg := range missing {
		p.present[pkg] = true
	}
	return nil
}

// loadPresent fills the presence cache from pkg list-installed on first use.
func (p *PkgInstaller) loadPresent(ctx context.Context) error {
	if len(p.present) > 0 {
		return nil
	}

	result, err := p.executor.Run(ctx, ports.Command{
		Name: "pkg",
		Args: []string{"list-installed"},
	})
	if err != nil {
		return zerr.With(errors.Join(domain.ErrSystemDepsFailed, err), "command", "pkg list-installed")
	}
	if result.ExitCode != 0 {
		// An empty cache just means every package looks missing.
		return nil
	}

	// Lines look like "clang/stable,now 17.0.6 aarch64 [installed]".
	for _, line := range strings.Split(result.Stdout, "\n") {
		name, _, found := strings.Cut(strings.TrimSpace(line), "/")
		if found && name != "" {
			p.present[name] = true
		}
	}
	return nil
}
