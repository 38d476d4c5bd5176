package requesters

import (
	"context"
	"time"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/metrics"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// withRetry repeats a read-only query on failure.
// Errors wrapped with retry.Unrecoverable are returned immediately.
func withRetry(ctx context.Context, attempts int, delay time.Duration, method string, query func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			if err := ctx.Err(); err != nil {
				return retry.Unrecoverable(err)
			}
			return query()
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			metrics.ChainQueryRetries.WithLabelValues(method).Inc()
			log.Warn().Msgf("Chain query %s failed on attempt %d: %s", method, n+1, err)
		}),
	)

	if err != nil {
		metrics.ChainQueriesTotal.WithLabelValues(method, "failed").Inc()
		return err
	}

	metrics.ChainQueriesTotal.WithLabelValues(method, "ok").Inc()
	return nil
}
