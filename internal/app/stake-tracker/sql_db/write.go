package sql_db

import (
	"context"
	"fmt"
	"time"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/jmoiron/sqlx"
)

// SaveStakePairs replaces the pairs under cacheKey that touch any of addresses with pairs.
// Pairs of other addresses stay cached, so concurrent lookups of disjoint addresses don't evict each other.
func (sdb *SqlDB) SaveStakePairs(ctx context.Context, cacheKey string, addresses []string, pairs []types.StakePair) error {
	return sdb.ExecuteTx(ctx, func(tx *DbTx) error {
		if err := tx.deleteTouchedStakePairs(ctx, cacheKey, addresses); err != nil {
			return err
		}
		return tx.upsertCachedStakePairs(ctx, cacheKey, pairs)
	})
}

func (tx *DbTx) deleteTouchedStakePairs(ctx context.Context, cacheKey string, addresses []string) error {
	if len(addresses) == 0 {
		return nil
	}

	query, args, err := sqlx.In(deleteTouchedStakePairs, cacheKey, addresses, addresses)
	if err != nil {
		return fmt.Errorf("failed to build stake pair cleanup: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(query), args...)
	return err
}

func (tx *DbTx) upsertCachedStakePairs(ctx context.Context, cacheKey string, pairs []types.StakePair) error {
	now := time.Now().UTC()
	for _, pair := range pairs {
		row := types.CachedStakePair{
			CacheKey:          cacheKey,
			StashAddress:      pair.StashAddress,
			ControllerAddress: pair.ControllerAddress,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if _, err := tx.NamedExecContext(ctx, upsertCachedStakePair, row); err != nil {
			return err
		}
	}

	return nil
}

const (
	deleteTouchedStakePairs = `DELETE FROM stake_pair_cache
		WHERE cache_key = ? AND (stash_address IN (?) OR controller_address IN (?))`

	upsertCachedStakePair = `INSERT INTO stake_pair_cache (cache_key, stash_address, controller_address, "createdAt", "updatedAt")
		VALUES (:cache_key, :stash_address, :controller_address, :createdAt, :updatedAt)
		ON CONFLICT (cache_key, stash_address, controller_address) DO UPDATE SET "updatedAt" = excluded."updatedAt"`
)
