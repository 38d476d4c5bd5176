package sql_db

import (
	"context"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
)

func (sdb *SqlDB) GetCachedStakePairs(ctx context.Context, cacheKey string) ([]types.StakePair, error) {
	rows := []types.CachedStakePair{}
	if err := sdb.SelectContext(ctx, &rows, sdb.Rebind(selectCachedStakePairs), cacheKey); err != nil {
		return nil, err
	}

	pairs := make([]types.StakePair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, row.Pair())
	}

	return pairs, nil
}

const selectCachedStakePairs = `SELECT cache_key, stash_address, controller_address, "createdAt", "updatedAt"
	FROM stake_pair_cache WHERE cache_key = ? ORDER BY stash_address, controller_address`
