package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/metrics"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

/*
BuildStake assembles the full stake of one stash/controller pair.

The ledger total, the reward payee, the accrued reward and the nominations are fetched concurrently.
A missing ledger counts as zero stake. The accrued reward is then set on every nomination
and apportioned by each nomination's raw stake.
*/
func BuildStake(ctx context.Context, requester ChainRequester, pair types.StakePair) (*types.Stake, error) {
	var (
		stakeAmount   = decimal.Zero
		rewardAddress string
		rewardTotal   = decimal.Zero
		nominations   []types.Nomination
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ledger, ok, err := requester.GetLedger(gctx, pair.ControllerAddress)
		if err != nil {
			return fmt.Errorf("failed to get ledger of %s: %w", pair.ControllerAddress, err)
		}
		if ok {
			stakeAmount = ledger.Total
		}
		return nil
	})

	g.Go(func() error {
		payee, err := requester.GetPayee(gctx, pair.StashAddress)
		if err != nil {
			return fmt.Errorf("failed to get payee of %s: %w", pair.StashAddress, err)
		}
		rewardAddress = payee
		return nil
	})

	g.Go(func() error {
		reward, err := EstimateAccruedReward(gctx, requester, pair.StashAddress)
		if err != nil {
			return err
		}
		rewardTotal = reward
		return nil
	})

	g.Go(func() error {
		resolved, err := resolveNominationExposures(gctx, requester, pair.StashAddress)
		if err != nil {
			return err
		}
		nominations = resolved
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build stake %s: %w", pair.Key(), err)
	}

	setRewardEstimate(nominations, rewardTotal)

	stake := &types.Stake{
		StashAddress:       pair.StashAddress,
		ControllerAddress:  pair.ControllerAddress,
		StakeAmount:        stakeAmount,
		RewardAddress:      rewardAddress,
		Nominations:        nominations,
		NextRewardEstimate: rewardTotal,
	}
	ApportionRewards(stake)

	return stake, nil
}

// BuildStakes builds every pair in parallel.
// A failing pair only fails its own result, the others still complete.
func BuildStakes(ctx context.Context, requester ChainRequester, pairs []types.StakePair) []types.StakeResult {
	results := make([]types.StakeResult, len(pairs))

	var wg sync.WaitGroup
	for i, pair := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			stake, err := BuildStake(ctx, requester, pair)
			results[i] = types.StakeResult{Pair: pair, Stake: stake, Err: err}

			if err != nil {
				metrics.StakeBuildsTotal.WithLabelValues("failed").Inc()
				return
			}
			metrics.StakeBuildsTotal.WithLabelValues("ok").Inc()
		}()
	}
	wg.Wait()

	return results
}
