package types

import "time"

type CachedStakePair struct {
	CacheKey          string    `db:"cache_key"`
	StashAddress      string    `db:"stash_address"`
	ControllerAddress string    `db:"controller_address"`
	CreatedAt         time.Time `db:"createdAt"`
	UpdatedAt         time.Time `db:"updatedAt"`
}

func (c CachedStakePair) Pair() StakePair {
	return StakePair{StashAddress: c.StashAddress, ControllerAddress: c.ControllerAddress}
}
