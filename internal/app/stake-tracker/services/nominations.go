package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ResolveNominations returns the stash's nominations in the order the chain lists the targets.
// The accrued reward estimate is queried once, alongside the exposures, and carried by every nomination.
func ResolveNominations(ctx context.Context, requester ChainRequester, stashAddress string) ([]types.Nomination, error) {
	targets, err := nominationTargets(ctx, requester, stashAddress)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return []types.Nomination{}, nil
	}

	var (
		nominations []types.Nomination
		estimate    decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reward, err := EstimateAccruedReward(gctx, requester, stashAddress)
		if err != nil {
			return err
		}
		estimate = reward
		return nil
	})

	g.Go(func() error {
		resolved, err := resolveExposures(gctx, requester, stashAddress, targets)
		if err != nil {
			return err
		}
		nominations = resolved
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	setRewardEstimate(nominations, estimate)

	return nominations, nil
}

func resolveNominationExposures(ctx context.Context, requester ChainRequester, stashAddress string) ([]types.Nomination, error) {
	targets, err := nominationTargets(ctx, requester, stashAddress)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return []types.Nomination{}, nil
	}

	return resolveExposures(ctx, requester, stashAddress, targets)
}

func nominationTargets(ctx context.Context, requester ChainRequester, stashAddress string) ([]string, error) {
	noms, ok, err := requester.GetNominators(ctx, stashAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get nominations of %s: %w", stashAddress, err)
	}

	if !ok {
		return nil, nil
	}

	return noms.Targets, nil
}

// resolveExposures resolves every target's exposure concurrently.
// Each result goes to the slot of its target, so completion order never reorders the output.
func resolveExposures(ctx context.Context, requester ChainRequester, stashAddress string, targets []string) ([]types.Nomination, error) {
	nominations := make([]types.Nomination, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			exposure, err := requester.GetExposure(gctx, target)
			if err != nil {
				return fmt.Errorf("failed to get exposure of validator %s: %w", target, err)
			}

			stakeShare, stakeRaw, elected := StakeShareOf(exposure, stashAddress)
			nominations[i] = types.Nomination{
				NominateToAddress:  target,
				StakeShare:         stakeShare,
				StakeRaw:           stakeRaw,
				Elected:            elected,
				NextRewardEstimate: decimal.Zero,
				RewardShare:        decimal.Zero,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return nominations, nil
}

// StakeShareOf finds the stash in the validator's exposure.
// A stash missing from the exposure nominated after the current election: share 0, not elected.
func StakeShareOf(exposure types.Exposure, stashAddress string) (*big.Rat, decimal.Decimal, bool) {
	for _, other := range exposure.Others {
		if other.Who == stashAddress {
			return stakeShare(other.Value, exposure.Total), other.Value, true
		}
	}

	return new(big.Rat), decimal.Zero, false
}

func stakeShare(contribution, total decimal.Decimal) *big.Rat {
	if !total.IsPositive() || !contribution.IsPositive() {
		return new(big.Rat)
	}

	return new(big.Rat).SetFrac(contribution.BigInt(), total.BigInt())
}

func setRewardEstimate(nominations []types.Nomination, estimate decimal.Decimal) {
	for i := range nominations {
		nominations[i].NextRewardEstimate = estimate
	}
}
