// Package app implements the application layer for depbuilder.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
	"github.com/droidrun/depbuilder/internal/engine/fallback"
	"github.com/droidrun/depbuilder/internal/engine/orchestrator"
	"github.com/droidrun/depbuilder/internal/ui/style"
)

// App represents the main application logic.
type App struct {
	loader       ports.ManifestLoader
	state        ports.StateStore
	installer    ports.Installer
	sysdeps      ports.SystemInstaller
	buildEnv     ports.BuildEnvironment
	cache        ports.ArtifactResolver
	remote       ports.ArtifactResolver
	sourceBuild  ports.ArtifactResolver
	bestEffort   ports.ArtifactResolver
	logger       ports.Logger
	retry        fallback.RetryPolicy
	manifestPath string
}

// New creates a new App instance. The resolver tiers are consulted in the
// order cache, remote, source build, with bestEffort gated behind the
// fallback controller.
func New(
	loader ports.ManifestLoader,
	state ports.StateStore,
	installer ports.Installer,
	sysdeps ports.SystemInstaller,
	buildEnv ports.BuildEnvironment,
	cache ports.ArtifactResolver,
	remote ports.ArtifactResolver,
	sourceBuild ports.ArtifactResolver,
	bestEffort ports.ArtifactResolver,
	logger ports.Logger,
	retry fallback.RetryPolicy,
	manifestPath string,
) *App {
	return &App{
		loader:       loader,
		state:        state,
		installer:    installer,
		sysdeps:      sysdeps,
		buildEnv:     buildEnv,
		cache:        cache,
		remote:       remote,
		sourceBuild:  sourceBuild,
		bestEffort:   bestEffort,
		logger:       logger,
		retry:        retry,
		manifestPath: manifestPath,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// ManifestPath overrides the configured manifest location.
	ManifestPath string

	// Phase restricts the run to one phase index. Nil runs every phase.
	Phase *int

	// Force reruns phases that already have a completion record.
	Force bool
}

// Run executes the installation pipeline for the manifest.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	manifest, err := a.loader.Load(a.resolveManifestPath(opts.ManifestPath))
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	sourceTier := fallback.WithRetry(a.sourceBuild, a.retry, a.logger)
	tiers := []ports.ArtifactResolver{a.cache, a.remote, sourceTier}

	// Best-effort installs are unversioned and unverified, so they are
	// reserved for optional leaves: a package the run can survive without
	// and that nothing else builds on top of.
	allow := func(spec domain.PackageSpec) bool {
		return !spec.Required && !manifest.HasDependents(spec.Name)
	}
	resolver := fallback.NewController(tiers, a.bestEffort, allow, a.logger)

	orch := orchestrator.New(manifest, a.state, resolver, a.installer, a.sysdeps, a.buildEnv, a.logger)
	result, err := orch.Run(ctx, orchestrator.Options{Phase: opts.Phase, Force: opts.Force})
	if err != nil {
		return err
	}

	switch result.Status {
	case domain.StatusFailedRequired:
		return zerr.With(zerr.Wrap(domain.ErrRunFailed, "install pipeline stopped"), "package", result.FailedPackage)
	case domain.StatusAbortedByUser:
		if err := ctx.Err(); err != nil {
			return err
		}
		return context.Canceled
	}

	if result.IsDegraded() {
		a.logger.Warn("run complete without optional packages",
			"missing", strings.Join(result.Degraded, ", "),
		)
		return nil
	}
	a.logger.Success("run complete",
		"phases", len(result.CompletedPhases)+len(result.SkippedPhases),
	)
	return nil
}

// ResetOptions configuration for the Reset method.
type ResetOptions struct {
	// Phase limits the reset to one phase. Nil clears all state.
	Phase *int
}

// Reset drops phase completion state so the next run reprocesses it.
func (a *App) Reset(_ context.Context, opts ResetOptions) error {
	if opts.Phase != nil {
		if err := a.state.Reset(*opts.Phase); err != nil {
			return err
		}
		a.logger.Info("phase reset", "phase", *opts.Phase)
		return nil
	}
	if err := a.state.ResetAll(); err != nil {
		return err
	}
	a.logger.Info("all progress reset")
	return nil
}

// Progress renders the per-phase completion state of the manifest.
func (a *App) Progress(_ context.Context, w io.Writer, manifestPath string) error {
	manifest, err := a.loader.Load(a.resolveManifestPath(manifestPath))
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}
	records, err := a.state.Records()
	if err != nil {
		return err
	}

	completed := make(map[int]domain.ProgressRecord, len(records))
	for _, rec := range records {
		completed[rec.PhaseIndex] = rec
	}

	renderer := lipgloss.NewRenderer(w)
	doneStyle := renderer.NewStyle().Foreground(style.Green)
	pendingStyle := renderer.NewStyle().Foreground(style.Slate)

	for _, phase := range manifest.Phases() {
		if rec, ok := completed[phase.Index]; ok {
			fmt.Fprintf(w, "%s phase %d  %s  completed %s\n",
				doneStyle.Render(style.Check),
				phase.Index,
				packageCount(len(phase.Packages)),
				rec.CompletedAt.UTC().Format(time.RFC3339),
			)
			continue
		}
		fmt.Fprintf(w, "%s phase %d  %s  pending\n",
			pendingStyle.Render(style.Circle),
			phase.Index,
			packageCount(len(phase.Packages)),
		)
	}
	return nil
}

func (a *App) resolveManifestPath(override string) string {
	if override != "" {
		return override
	}
	if a.manifestPath != "" {
		return a.manifestPath
	}
	return domain.ManifestFileName
}

func packageCount(n int) string {
	if n == 1 {
		return "1 package"
	}
	return fmt.Sprintf("%d packages", n)
}
