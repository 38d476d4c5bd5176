package services

import (
	"context"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/shopspring/decimal"
)

// ChainRequester is the read-only chain query client.
// Absence of a bonding relation, ledger or nominations is reported with ok == false, never as an error.
type ChainRequester interface {
	GetBonded(ctx context.Context, stashAddress string) (controllerAddress string, ok bool, err error)

	GetLedger(ctx context.Context, controllerAddress string) (types.StakingLedger, bool, error)

	GetNominators(ctx context.Context, stashAddress string) (types.Nominations, bool, error)

	GetExposure(ctx context.Context, validatorAddress string) (types.Exposure, error)

	GetPayee(ctx context.Context, stashAddress string) (string, error)

	GetAccruedPayout(ctx context.Context, stashAddress string) (decimal.Decimal, error)

	GetGenesisHash(ctx context.Context) (string, error)
}

type Storage interface {
	GetCachedStakePairs(ctx context.Context, cacheKey string) ([]types.StakePair, error)

	// SaveStakePairs replaces the cached pairs touching any of addresses with pairs,
	// pairs of other addresses stay cached
	SaveStakePairs(ctx context.Context, cacheKey string, addresses []string, pairs []types.StakePair) error
}
