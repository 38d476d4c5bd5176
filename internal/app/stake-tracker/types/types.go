package types

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// StakePair is comparable, so it is used as a map key directly when deduplicating
type StakePair struct {
	StashAddress      string `json:"stashAddress"`
	ControllerAddress string `json:"controllerAddress"`
}

func (p StakePair) Key() string {
	return p.StashAddress + "-" + p.ControllerAddress
}

func (p StakePair) Touches(address string) bool {
	return p.StashAddress == address || p.ControllerAddress == address
}

type StakingLedger struct {
	Stash string
	Total decimal.Decimal
}

type Nominations struct {
	Targets []string
}

type IndividualExposure struct {
	Who   string
	Value decimal.Decimal
}

type Exposure struct {
	Total  decimal.Decimal
	Own    decimal.Decimal
	Others []IndividualExposure
}

type Nomination struct {
	NominateToAddress string `json:"nominateToAddress"`
	// the part of the validator's exposure backed by this stash, in [0,1]
	StakeShare *big.Rat `json:"stakeShare"`
	// the raw stake contributed to this nomination
	StakeRaw decimal.Decimal `json:"stakeRaw"`
	// whether the nominated validator counts this stash in the current era
	Elected bool `json:"elected"`
	// the total reward accrued by the stash, same value on every nomination of the stash
	NextRewardEstimate decimal.Decimal `json:"nextRewardEstimate"`
	RewardShare        decimal.Decimal `json:"rewardShare"`
}

type Stake struct {
	StashAddress       string          `json:"stashAddress"`
	ControllerAddress  string          `json:"controllerAddress"`
	StakeAmount        decimal.Decimal `json:"stakeAmount"`
	RewardAddress      string          `json:"rewardAddress"`
	Nominations        []Nomination    `json:"nominations"`
	NextRewardEstimate decimal.Decimal `json:"nextRewardEstimate"`
}

func (s Stake) Pair() StakePair {
	return StakePair{StashAddress: s.StashAddress, ControllerAddress: s.ControllerAddress}
}

type StakeResult struct {
	Pair  StakePair
	Stake *Stake
	Err   error
}
