package services

import (
	"context"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockChainRequester struct {
	mock.Mock
}

func (mcr *mockChainRequester) GetBonded(ctx context.Context, stashAddress string) (string, bool, error) {
	args := mcr.Called(ctx, stashAddress)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (mcr *mockChainRequester) GetLedger(ctx context.Context, controllerAddress string) (types.StakingLedger, bool, error) {
	args := mcr.Called(ctx, controllerAddress)
	return args.Get(0).(types.StakingLedger), args.Bool(1), args.Error(2)
}

func (mcr *mockChainRequester) GetNominators(ctx context.Context, stashAddress string) (types.Nominations, bool, error) {
	args := mcr.Called(ctx, stashAddress)
	return args.Get(0).(types.Nominations), args.Bool(1), args.Error(2)
}

func (mcr *mockChainRequester) GetExposure(ctx context.Context, validatorAddress string) (types.Exposure, error) {
	args := mcr.Called(ctx, validatorAddress)
	return args.Get(0).(types.Exposure), args.Error(1)
}

func (mcr *mockChainRequester) GetPayee(ctx context.Context, stashAddress string) (string, error) {
	args := mcr.Called(ctx, stashAddress)
	return args.String(0), args.Error(1)
}

func (mcr *mockChainRequester) GetAccruedPayout(ctx context.Context, stashAddress string) (decimal.Decimal, error) {
	args := mcr.Called(ctx, stashAddress)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (mcr *mockChainRequester) GetGenesisHash(ctx context.Context) (string, error) {
	args := mcr.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (ms *mockStorage) GetCachedStakePairs(ctx context.Context, cacheKey string) ([]types.StakePair, error) {
	args := ms.Called(ctx, cacheKey)
	return args.Get(0).([]types.StakePair), args.Error(1)
}

func (ms *mockStorage) SaveStakePairs(ctx context.Context, cacheKey string, addresses []string, pairs []types.StakePair) error {
	args := ms.Called(ctx, cacheKey, addresses, pairs)
	return args.Error(0)
}

// setupUnbondedAddress makes every lookup of the address report no bonding relation
func setupUnbondedAddress(requester *mockChainRequester, address string) {
	requester.On("GetBonded", mock.Anything, address).Return("", false, nil)
	requester.On("GetLedger", mock.Anything, address).Return(types.StakingLedger{}, false, nil)
}

// setupStakePair registers a bonded stash/controller pair with a ledger holding total
func setupStakePair(requester *mockChainRequester, stash, controller string, total int64) {
	requester.On("GetBonded", mock.Anything, stash).Return(controller, true, nil)
	requester.On("GetLedger", mock.Anything, stash).Return(types.StakingLedger{}, false, nil)
	requester.On("GetBonded", mock.Anything, controller).Return("", false, nil)
	requester.On("GetLedger", mock.Anything, controller).Return(types.StakingLedger{Stash: stash, Total: decimal.NewFromInt(total)}, true, nil)
}
