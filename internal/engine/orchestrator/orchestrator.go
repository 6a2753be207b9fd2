// Package orchestrator drives the phased, resumable installation run.
package orchestrator

import (
	"context"
	"errors"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// errRequiredFailed stops the phase loop. Never escapes Run.
var errRequiredFailed = errors.New("required package failed")

// Options control a single run.
type Options struct {
	// Phase restricts the run to one phase index. Nil runs every phase.
	Phase *int

	// Force processes phases even when a completion record exists.
	Force bool
}

// Orchestrator walks the manifest phase by phase, resolving and installing
// every package in dependency order. Phases completed by earlier runs are
// skipped; a required package failing aborts the run, an optional one only
// degrades it.
type Orchestrator struct {
	manifest  *domain.Manifest
	state     ports.StateStore
	resolver  ports.PackageResolver
	installer ports.Installer
	sysdeps   ports.SystemInstaller
	buildEnv  ports.BuildEnvironment
	logger    ports.Logger
}

// New creates an orchestrator over the given manifest.
func New(
	manifest *domain.Manifest,
	state ports.StateStore,
	resolver ports.PackageResolver,
	installer ports.Installer,
	sysdeps ports.SystemInstaller,
	buildEnv ports.BuildEnvironment,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		manifest:  manifest,
		state:     state,
		resolver:  resolver,
		installer: installer,
		sysdeps:   sysdeps,
		buildEnv:  buildEnv,
		logger:    logger,
	}
}

// Run executes the phases selected by opts. The returned error reports
// infrastructure failures only; domain outcomes, a required package
// failing included, are carried in the result status.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (domain.RunResult, error) {
	result := domain.RunResult{Status: domain.StatusCompleted}

	if opts.Phase != nil && !o.manifest.HasPhase(*opts.Phase) {
		return result, zerr.With(zerr.Wrap(domain.ErrUnknownPhase, "manifest declares no such phase"), "phase", *opts.Phase)
	}

	env := o.buildEnv.Snapshot()
	o.logger.Info("build environment ready",
		"jobs", o.buildEnv.JobBudget(),
		"snapshot", domain.SnapshotID(env),
	)

	// resolved spans phases so a dependency pulled into a later phase's
	// closure is not processed twice within the run.
	resolved := make(map[string]bool)

	for _, phase := range o.manifest.Phases() {
		if opts.Phase != nil && phase.Index != *opts.Phase {
			continue
		}

		if !opts.Force && o.state.IsPhaseComplete(phase.Index) {
			result.SkippedPhases = append(result.SkippedPhases, phase.Index)
			o.logger.Info("phase already complete", "phase", phase.Index)
			continue
		}

		if err := o.runPhase(ctx, phase, resolved, &result); err != nil {
			switch {
			case errors.Is(err, errRequiredFailed):
				result.Status = domain.StatusFailedRequired
				return result, nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				result.Status = domain.StatusAbortedByUser
				o.logger.Warn("run aborted", "phase", phase.Index)
				return result, nil
			default:
				return result, err
			}
		}
	}

	return result, nil
}

// runPhase processes the dependency closure of one phase and durably marks
// it complete. Optional failures are recorded and skipped so the remaining
// packages still get their chance; they do not block the completion record.
func (o *Orchestrator) runPhase(
	ctx context.Context,
	phase domain.Phase,
	resolved map[string]bool,
	result *domain.RunResult,
) error {
	closure, err := o.manifest.Closure(phase)
	if err != nil {
		return err
	}
	o.logger.Info("starting phase", "phase", phase.Index, "packages", len(closure))

	for _, spec := range closure {
		if err := ctx.Err(); err != nil {
			return err
		}
		if resolved[spec.Name] {
			continue
		}

		if err := o.installPackage(ctx, spec); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			rec := domain.NewErrorRecord(spec.Name, err)
			result.Errors = append(result.Errors, rec)
			o.state.AppendError(rec)

			if spec.Required {
				result.FailedPackage = spec.Name
				o.logger.Error("required package failed",
					"package", spec.Name,
					"stage", string(rec.Stage),
					"reason", err.Error(),
				)
				return errRequiredFailed
			}

			result.Degraded = append(result.Degraded, spec.Name)
			o.logger.Warn("optional package unavailable, continuing",
				"package", spec.Name,
				"stage", string(rec.Stage),
			)
			continue
		}

		resolved[spec.Name] = true
	}

	if err := o.state.MarkPhaseComplete(phase.Index, o.buildEnv.Snapshot()); err != nil {
		return err
	}
	result.CompletedPhases = append(result.CompletedPhases, phase.Index)
	o.logger.Success("phase complete", "phase", phase.Index)
	return nil
}

func (o *Orchestrator) installPackage(ctx context.Context, spec domain.PackageSpec) error {
	if len(spec.SystemDeps) > 0 {
		if err := o.sysdeps.EnsureInstalled(ctx, spec.SystemDeps); err != nil {
			return err
		}
	}

	// An unreadable install state means unknown, so fall through and resolve.
	if installed, err := o.installer.Installed(ctx, spec); err == nil && installed {
		o.logger.Info("already installed", "package", spec.Name)
		return nil
	}

	artifact, err := o.resolver.Resolve(ctx, spec)
	if err != nil {
		return err
	}

	// Fallback installs register directly during resolution; there is no
	// wheel left to install.
	if artifact.Provenance != domain.ProvenanceFallback {
		if err := o.installer.Install(ctx, artifact); err != nil {
			return err
		}
	}

	o.logger.Success("installed",
		"package", spec.Name,
		"version", artifact.Version,
		"source", string(artifact.Provenance),
	)
	return nil
}
