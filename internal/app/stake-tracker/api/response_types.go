package api

import (
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/services"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error string `json:"error"`
}

type nominationResponse struct {
	NominateToAddress  string          `json:"nominateToAddress"`
	StakeShare         string          `json:"stakeShare"`
	StakeSharePercent  string          `json:"stakeSharePercent"`
	StakeRaw           decimal.Decimal `json:"stakeRaw"`
	Elected            bool            `json:"elected"`
	NextRewardEstimate decimal.Decimal `json:"nextRewardEstimate"`
	RewardShare        decimal.Decimal `json:"rewardShare"`
}

type stakeResponse struct {
	StashAddress                string               `json:"stashAddress"`
	ControllerAddress           string               `json:"controllerAddress"`
	StakeAmount                 *decimal.Decimal     `json:"stakeAmount,omitempty"`
	StakeAmountFormatted        string               `json:"stakeAmountFormatted,omitempty"`
	StakeValue                  *decimal.Decimal     `json:"stakeValue,omitempty"`
	RewardAddress               string               `json:"rewardAddress,omitempty"`
	Nominations                 []nominationResponse `json:"nominations,omitempty"`
	NextRewardEstimate          *decimal.Decimal     `json:"nextRewardEstimate,omitempty"`
	NextRewardEstimateFormatted string               `json:"nextRewardEstimateFormatted,omitempty"`
	Error                       string               `json:"error,omitempty"`
}

// newStakeResponse renders one stake, a failed pair keeps only its addresses and the error
func (s *Server) newStakeResponse(result types.StakeResult, price decimal.Decimal, hasPrice bool) stakeResponse {
	response := stakeResponse{
		StashAddress:      result.Pair.StashAddress,
		ControllerAddress: result.Pair.ControllerAddress,
	}

	if result.Err != nil {
		response.Error = result.Err.Error()
		return response
	}

	stake := result.Stake
	fixedPoint := s.config.BalanceDisplayFixedPoint

	response.StakeAmount = &stake.StakeAmount
	response.StakeAmountFormatted = services.FormatBalance(stake.StakeAmount, fixedPoint, s.config.StakingAssetName)
	response.RewardAddress = stake.RewardAddress
	response.NextRewardEstimate = &stake.NextRewardEstimate
	response.NextRewardEstimateFormatted = services.FormatBalance(stake.NextRewardEstimate, fixedPoint, s.config.StakingAssetName)

	if hasPrice {
		value := stake.StakeAmount.Shift(-fixedPoint).Mul(price)
		response.StakeValue = &value
	}

	response.Nominations = make([]nominationResponse, 0, len(stake.Nominations))
	for _, nomination := range stake.Nominations {
		response.Nominations = append(response.Nominations, nominationResponse{
			NominateToAddress:  nomination.NominateToAddress,
			StakeShare:         nomination.StakeShare.RatString(),
			StakeSharePercent:  services.FormatStakeShare(nomination.StakeShare),
			StakeRaw:           nomination.StakeRaw,
			Elected:            nomination.Elected,
			NextRewardEstimate: nomination.NextRewardEstimate,
			RewardShare:        nomination.RewardShare,
		})
	}

	return response
}
