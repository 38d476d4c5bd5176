package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/infrastructure"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/metrics"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	alice    = "5GrwvaEF5zXb26Fz9rcQpDWS5Cbq2eSSX8yCdtBNGStJqUdg"
	aliceHex = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	bob      = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
)

func newTestConfig(watchAddresses ...string) *infrastructure.Config {
	return &infrastructure.Config{
		SS58Prefix:               42,
		WatchAddresses:           watchAddresses,
		ExposureCacheSize:        16,
		StakeCacheKeyBase:        "stakes",
		BalanceDisplayFixedPoint: 4,
		StakingAssetName:         "CENNZ",
	}
}

func TestCachedPairsFiltersByAddress(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("0xabc", nil)

	storage := &mockStorage{}
	storage.On("GetCachedStakePairs", mock.Anything, "stakes:0xabc").Return([]types.StakePair{
		{StashAddress: "stash_1", ControllerAddress: "controller_1"},
		{StashAddress: "stash_2", ControllerAddress: "controller_2"},
		{StashAddress: "stash_3", ControllerAddress: "controller_3"},
	}, nil)

	s := NewStakeService(newTestConfig())
	pairs, err := s.CachedPairs(context.Background(), requester, storage, []string{"stash_1", "controller_3"})
	require.NoError(t, err)
	require.Equal(t, []types.StakePair{
		{StashAddress: "stash_1", ControllerAddress: "controller_1"},
		{StashAddress: "stash_3", ControllerAddress: "controller_3"},
	}, pairs)
}

func TestCachedPairsOnDevelopmentChain(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("", nil)

	storage := &mockStorage{}
	storage.On("GetCachedStakePairs", mock.Anything, "stakes:development").Return([]types.StakePair{}, nil)

	s := NewStakeService(newTestConfig())
	pairs, err := s.CachedPairs(context.Background(), requester, storage, []string{"stash_1"})
	require.NoError(t, err)
	require.Empty(t, pairs)
	storage.AssertExpectations(t)
}

func TestCachedPairsShouldFailWithoutGenesisHash(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("", errors.New("node offline"))

	s := NewStakeService(newTestConfig())
	_, err := s.CachedPairs(context.Background(), requester, &mockStorage{}, []string{"stash_1"})
	require.ErrorContains(t, err, "node offline")
}

func TestPairsUpdatesCache(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("0xabc", nil)
	setupStakePair(requester, "stash_2", "controller_2", 100)
	setupStakePair(requester, "stash_1", "controller_1", 100)

	expected := []types.StakePair{
		{StashAddress: "stash_1", ControllerAddress: "controller_1"},
		{StashAddress: "stash_2", ControllerAddress: "controller_2"},
	}

	storage := &mockStorage{}
	storage.On("SaveStakePairs", mock.Anything, "stakes:0xabc", []string{"stash_2", "controller_1"}, expected).Return(nil).Once()

	s := NewStakeService(newTestConfig())
	pairs, err := s.Pairs(context.Background(), requester, storage, []string{"stash_2", "controller_1"})
	require.NoError(t, err)
	require.Equal(t, expected, pairs)
	storage.AssertExpectations(t)
}

func TestPairsIgnoresCacheFailure(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("0xabc", nil)
	setupStakePair(requester, "stash_1", "controller_1", 100)

	storage := &mockStorage{}
	storage.On("SaveStakePairs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	s := NewStakeService(newTestConfig())
	pairs, err := s.Pairs(context.Background(), requester, storage, []string{"stash_1"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
}

func TestPairsDoesNotCacheFailedResolution(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetBonded", mock.Anything, "stash_1").Return("", false, errors.New("timeout"))
	requester.On("GetLedger", mock.Anything, "stash_1").Return(types.StakingLedger{}, false, nil)

	storage := &mockStorage{}

	s := NewStakeService(newTestConfig())
	_, err := s.Pairs(context.Background(), requester, storage, []string{"stash_1"})
	require.Error(t, err)
	storage.AssertNotCalled(t, "SaveStakePairs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteSharesExposureQueriesAcrossStashes(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("0xabc", nil)
	setupStake(requester, alice, "controller_1", 400, []string{"v1"}, 40)
	setupStake(requester, bob, "controller_2", 100, []string{"v1"}, 10)
	requester.On("GetExposure", mock.Anything, "v1").Return(types.Exposure{
		Total: decimal.NewFromInt(1000),
		Others: []types.IndividualExposure{
			{Who: alice, Value: decimal.NewFromInt(400)},
			{Who: bob, Value: decimal.NewFromInt(100)},
		},
	}, nil)

	storage := &mockStorage{}
	storage.On("SaveStakePairs", mock.Anything, "stakes:0xabc", mock.Anything, mock.Anything).Return(nil)

	s := NewStakeService(newTestConfig(alice, bob))
	require.NoError(t, s.Execute(context.Background(), requester, storage))
	requester.AssertNumberOfCalls(t, "GetExposure", 1)
}

func TestExecuteShouldFailWhenAllStakesFail(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("0xabc", nil)
	setupStakePair(requester, alice, "controller_1", 400)
	requester.On("GetPayee", mock.Anything, alice).Return("", errors.New("payee unavailable"))
	requester.On("GetNominators", mock.Anything, alice).Return(types.Nominations{}, false, nil)
	requester.On("GetAccruedPayout", mock.Anything, alice).Return(decimal.Zero, nil)

	storage := &mockStorage{}
	storage.On("SaveStakePairs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s := NewStakeService(newTestConfig(alice))
	require.ErrorContains(t, s.Execute(context.Background(), requester, storage), "failed to refresh all 1 stakes")
}

func TestExecuteToleratesPartialFailure(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("0xabc", nil)
	setupStake(requester, alice, "controller_1", 400, nil, 0)
	setupStakePair(requester, bob, "controller_2", 400)
	requester.On("GetPayee", mock.Anything, bob).Return("", errors.New("payee unavailable"))
	requester.On("GetNominators", mock.Anything, bob).Return(types.Nominations{}, false, nil)
	requester.On("GetAccruedPayout", mock.Anything, bob).Return(decimal.Zero, nil)

	storage := &mockStorage{}
	storage.On("SaveStakePairs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s := NewStakeService(newTestConfig(alice, bob))
	require.NoError(t, s.Execute(context.Background(), requester, storage))
}

func TestExecuteWithoutWatchAddresses(t *testing.T) {
	requester := &mockChainRequester{}
	storage := &mockStorage{}

	s := NewStakeService(newTestConfig())
	require.NoError(t, s.Execute(context.Background(), requester, storage))
	requester.AssertNotCalled(t, "GetGenesisHash", mock.Anything)
}

func TestExecuteShouldFailOnPairResolutionError(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetBonded", mock.Anything, alice).Return("", false, errors.New("timeout"))
	requester.On("GetLedger", mock.Anything, alice).Return(types.StakingLedger{}, false, nil)

	s := NewStakeService(newTestConfig(alice))
	require.ErrorContains(t, s.Execute(context.Background(), requester, &mockStorage{}), "timeout")
}

func TestExecuteNormalizesWatchAddresses(t *testing.T) {
	requester := &mockChainRequester{}
	requester.On("GetGenesisHash", mock.Anything).Return("0xabc", nil)
	setupStake(requester, alice, bob, 400, []string{"validator_1"}, 40)
	requester.On("GetExposure", mock.Anything, "validator_1").Return(types.Exposure{
		Total:  decimal.NewFromInt(1000),
		Others: []types.IndividualExposure{{Who: alice, Value: decimal.NewFromInt(400)}},
	}, nil)

	storage := &mockStorage{}
	storage.On("SaveStakePairs", mock.Anything, "stakes:0xabc", []string{alice, bob},
		[]types.StakePair{{StashAddress: alice, ControllerAddress: bob}}).Return(nil).Once()

	s := NewStakeService(newTestConfig(aliceHex, bob))
	require.NoError(t, s.Execute(context.Background(), requester, storage))

	storage.AssertExpectations(t)
	requester.AssertNotCalled(t, "GetBonded", mock.Anything, aliceHex)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.ElectedNominations.WithLabelValues(alice)))
}

func TestExecuteShouldRejectInvalidWatchAddress(t *testing.T) {
	requester := &mockChainRequester{}

	s := NewStakeService(newTestConfig(alice, "not-an-address"))
	require.ErrorContains(t, s.Execute(context.Background(), requester, &mockStorage{}), "invalid watch address")
	requester.AssertNotCalled(t, "GetBonded", mock.Anything, mock.Anything)
}

func TestNormalizeAddresses(t *testing.T) {
	addresses, err := NormalizeAddresses([]string{aliceHex, bob}, 42)
	require.NoError(t, err)
	require.Equal(t, []string{alice, bob}, addresses)

	_, err = NormalizeAddresses([]string{"0x1234"}, 42)
	require.Error(t, err)
}
