package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sethvargo/go-retry"

	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

// RetryPolicy bounds the load-check-write loop that absorbs version conflicts.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 10,
		BaseDelay:   5 * time.Millisecond,
		MaxDelay:    200 * time.Millisecond,
	}
}

func (p RetryPolicy) backoff() retry.Backoff {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}

	b := retry.NewExponential(p.BaseDelay)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithCappedDuration(p.MaxDelay, b)
	return retry.WithMaxRetries(uint64(p.MaxAttempts-1), b)
}

// retryOnConflict reruns fn from the top while it fails with a version
// conflict. Running out of attempts yields concurrency_exhausted; any other
// error, including context cancellation, ends the loop as is.
func retryOnConflict(
	ctx context.Context,
	policy RetryPolicy,
	log logger.Interface,
	operation string,
	fn func(ctx context.Context) error,
) error {
	attempt := 0
	err := retry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if stderrors.Is(err, incident.ErrVersionConflict) {
			log.Debugw("version conflict, retrying", "operation", operation, "attempt", attempt)
			return retry.RetryableError(err)
		}
		return err
	})

	if stderrors.Is(err, incident.ErrVersionConflict) {
		log.Warnw("retries exhausted", "operation", operation, "attempts", attempt)
		return errors.NewConcurrencyExhaustedError("too many concurrent modifications, try again later")
	}
	return err
}
