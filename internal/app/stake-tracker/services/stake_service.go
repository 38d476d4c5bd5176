package services

import (
	"context"
	"fmt"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/infrastructure"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/metrics"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/requesters"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/rs/zerolog/log"
)

const developmentGenesis = "development"

type StakeService struct {
	config *infrastructure.Config
}

func NewStakeService(config *infrastructure.Config) *StakeService {
	return &StakeService{config: config}
}

// CachedPairs returns the last resolved pairs of this chain that touch the given addresses.
// The cache may be stale or empty, a fresh resolution always supersedes it.
func (s *StakeService) CachedPairs(ctx context.Context, requester ChainRequester, storage Storage, addresses []string) ([]types.StakePair, error) {
	cacheKey, err := s.cacheKey(ctx, requester)
	if err != nil {
		return nil, err
	}

	cached, err := storage.GetCachedStakePairs(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read stake pair cache %s: %w", cacheKey, err)
	}

	pairs := []types.StakePair{}
	for _, pair := range cached {
		for _, address := range addresses {
			if pair.Touches(address) {
				pairs = append(pairs, pair)
				break
			}
		}
	}

	return pairs, nil
}

// Pairs resolves the pairs from the chain and refreshes the cached pairs of the given addresses.
// Addresses are expected in the configured network format, see NormalizeAddresses.
func (s *StakeService) Pairs(ctx context.Context, requester ChainRequester, storage Storage, addresses []string) ([]types.StakePair, error) {
	resolved, err := ResolvePairs(ctx, requester, addresses)
	if err != nil {
		return nil, err
	}

	pairs := SortedPairs(resolved)
	s.savePairs(ctx, requester, storage, addresses, pairs)

	return pairs, nil
}

func (s *StakeService) Stakes(ctx context.Context, requester ChainRequester, storage Storage, addresses []string) ([]types.StakeResult, error) {
	pairs, err := s.Pairs(ctx, requester, storage, addresses)
	if err != nil {
		return nil, err
	}

	return BuildStakes(ctx, requester, pairs), nil
}

/*
Execute refreshes the stakes of the watched addresses.

 1. Wrap the requester in a fresh exposure cache, validators nominated by several
    watched stashes are queried once per cycle.
 2. Resolve the pairs, store them in the pair cache and build every stake.
 3. Log and record each stake. Failed pairs are logged, the cycle only fails
    if every pair failed.
*/
func (s *StakeService) Execute(ctx context.Context, requester ChainRequester, storage Storage) error {
	if len(s.config.WatchAddresses) == 0 {
		log.Debug().Msg("No watch addresses configured, nothing to refresh")
		return nil
	}

	watchAddresses, err := NormalizeAddresses(s.config.WatchAddresses, s.config.SS58Prefix)
	if err != nil {
		return fmt.Errorf("invalid watch address: %w", err)
	}

	cachedRequester, err := requesters.NewExposureCache(requester, s.config.ExposureCacheSize)
	if err != nil {
		return err
	}

	results, err := s.Stakes(ctx, cachedRequester, storage, watchAddresses)
	if err != nil {
		return err
	}

	metrics.StakePairsTracked.Set(float64(len(results)))

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			log.Error().Err(result.Err).Msgf("Failed to refresh stake %s", result.Pair.Key())
			continue
		}
		s.recordStake(result.Stake)
	}

	if failed > 0 && failed == len(results) {
		return fmt.Errorf("failed to refresh all %d stakes", failed)
	}

	log.Info().Msgf("Refreshed %d stakes, %d failed", len(results)-failed, failed)

	return nil
}

func (s *StakeService) recordStake(stake *types.Stake) {
	elected := 0
	for _, nomination := range stake.Nominations {
		if nomination.Elected {
			elected++
		}
	}

	metrics.StakeAmount.WithLabelValues(stake.StashAddress).Set(stake.StakeAmount.InexactFloat64())
	metrics.AccruedReward.WithLabelValues(stake.StashAddress).Set(stake.NextRewardEstimate.InexactFloat64())
	metrics.ElectedNominations.WithLabelValues(stake.StashAddress).Set(float64(elected))

	log.Info().Msgf("Stash {%s} controller {%s}: staked %s, reward destination {%s}, %d/%d nominations elected, estimated reward %s",
		stake.StashAddress, stake.ControllerAddress,
		FormatBalance(stake.StakeAmount, s.config.BalanceDisplayFixedPoint, s.config.StakingAssetName),
		stake.RewardAddress, elected, len(stake.Nominations),
		FormatBalance(stake.NextRewardEstimate, s.config.BalanceDisplayFixedPoint, ""))
}

func (s *StakeService) savePairs(ctx context.Context, requester ChainRequester, storage Storage, addresses []string, pairs []types.StakePair) {
	cacheKey, err := s.cacheKey(ctx, requester)
	if err != nil {
		log.Warn().Msgf("Stake pairs not cached: %s", err)
		return
	}

	if err := storage.SaveStakePairs(ctx, cacheKey, addresses, pairs); err != nil {
		log.Warn().Msgf("Failed to cache stake pairs under %s: %s", cacheKey, err)
	}
}

// NormalizeAddresses re-encodes every address with the network prefix the chain requester
// reports addresses in, so hex and foreign-prefix input compares equal to chain output
func NormalizeAddresses(addresses []string, ss58Prefix int) ([]string, error) {
	normalized := make([]string, 0, len(addresses))
	for _, address := range addresses {
		address, err := requesters.NormalizeAddress(address, ss58Prefix)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, address)
	}

	return normalized, nil
}

// cacheKey scopes the pair cache to the chain, like "stakes:0x1234..."
func (s *StakeService) cacheKey(ctx context.Context, requester ChainRequester) (string, error) {
	genesisHash, err := requester.GetGenesisHash(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get genesis hash: %w", err)
	}

	if genesisHash == "" {
		genesisHash = developmentGenesis
	}

	return fmt.Sprintf("%s:%s", s.config.StakeCacheKeyBase, genesisHash), nil
}
