package services

import (
	"context"
	"fmt"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/shopspring/decimal"
)

// EstimateAccruedReward returns the reward the stash has accrued in the current era and not yet been paid.
// The value comes from the chain as is, no reward formula is evaluated here.
func EstimateAccruedReward(ctx context.Context, requester ChainRequester, stashAddress string) (decimal.Decimal, error) {
	reward, err := requester.GetAccruedPayout(ctx, stashAddress)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get accrued reward of %s: %w", stashAddress, err)
	}

	return reward, nil
}

// ApportionReward returns totalAccrued * stakeRaw / stakeAmount, or zero when nothing is staked
func ApportionReward(totalAccrued, stakeRaw, stakeAmount decimal.Decimal) decimal.Decimal {
	if !stakeAmount.IsPositive() {
		return decimal.Zero
	}

	return totalAccrued.Mul(stakeRaw).Div(stakeAmount)
}

func ApportionRewards(stake *types.Stake) {
	for i := range stake.Nominations {
		stake.Nominations[i].RewardShare = ApportionReward(stake.NextRewardEstimate, stake.Nominations[i].StakeRaw, stake.StakeAmount)
	}
}
