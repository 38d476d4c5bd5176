package requesters

import (
	"context"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/metrics"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type chainReader interface {
	GetBonded(ctx context.Context, stashAddress string) (string, bool, error)
	GetLedger(ctx context.Context, controllerAddress string) (types.StakingLedger, bool, error)
	GetNominators(ctx context.Context, stashAddress string) (types.Nominations, bool, error)
	GetExposure(ctx context.Context, validatorAddress string) (types.Exposure, error)
	GetPayee(ctx context.Context, stashAddress string) (string, error)
	GetAccruedPayout(ctx context.Context, stashAddress string) (decimal.Decimal, error)
	GetGenesisHash(ctx context.Context) (string, error)
}

// ExposureCache memoizes validator exposures for the lifetime of one refresh cycle.
// Stashes nominating the same validator share one query, concurrent misses included.
// Failed lookups are not cached.
type ExposureCache struct {
	chainReader
	cache  *lru.Cache
	flight singleflight.Group
}

func NewExposureCache(requester chainReader, size int) (*ExposureCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &ExposureCache{chainReader: requester, cache: cache}, nil
}

// GetExposure joins an in-flight query for the same validator if there is one.
// The shared query does not inherit the caller's cancellation, so a caller that
// gives up only abandons its own wait and never fails the others.
func (c *ExposureCache) GetExposure(ctx context.Context, validatorAddress string) (types.Exposure, error) {
	if cached, ok := c.cache.Get(validatorAddress); ok {
		metrics.ExposureCacheHits.Inc()
		return cached.(types.Exposure), nil
	}

	queryCtx := context.WithoutCancel(ctx)
	resultCh := c.flight.DoChan(validatorAddress, func() (interface{}, error) {
		if cached, ok := c.cache.Get(validatorAddress); ok {
			return cached, nil
		}
		exp, err := c.chainReader.GetExposure(queryCtx, validatorAddress)
		if err != nil {
			return nil, err
		}
		c.cache.Add(validatorAddress, exp)
		return exp, nil
	})

	select {
	case result := <-resultCh:
		if result.Err != nil {
			return types.Exposure{}, result.Err
		}
		return result.Val.(types.Exposure), nil
	case <-ctx.Done():
		return types.Exposure{}, ctx.Err()
	}
}

func (c *ExposureCache) Len() int {
	return c.cache.Len()
}
