package fallback

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// RetryPolicy controls how often a flaky package's build is reattempted.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// Interval is the pause between tries.
	Interval time.Duration

	// Flaky names packages whose builds are known to fail transiently,
	// e.g. under memory pressure.
	Flaky map[string]bool
}

// retryingResolver decorates a tier with a constant-interval retry loop.
// Only build failures of known-flaky packages are retried; every other
// error aborts immediately.
type retryingResolver struct {
	inner  ports.ArtifactResolver
	policy RetryPolicy
	logger ports.Logger
}

// WithRetry wraps the tier with the retry policy. A policy with a single
// attempt or no flaky packages returns the tier unchanged.
func WithRetry(inner ports.ArtifactResolver, policy RetryPolicy, logger ports.Logger) ports.ArtifactResolver {
	if policy.Attempts <= 1 || len(policy.Flaky) == 0 {
		return inner
	}
	return &retryingResolver{inner: inner, policy: policy, logger: logger}
}

func (r *retryingResolver) Name() string {
	return r.inner.Name()
}

func (r *retryingResolver) Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error) {
	if !r.policy.Flaky[spec.Name] {
		return r.inner.Resolve(ctx, spec)
	}

	var artifact *domain.Artifact
	operation := func() error {
		var err error
		artifact, err = r.inner.Resolve(ctx, spec)
		if err != nil && !errors.Is(err, domain.ErrBuildFailed) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(r.policy.Interval),
			uint64(r.policy.Attempts-1),
		),
		ctx,
	)

	notify := func(err error, _ time.Duration) {
		r.logger.Warn("retrying build", "package", spec.Name, "reason", err.Error())
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return artifact, nil
}
