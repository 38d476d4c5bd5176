package sql_db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func NewSqlDB(db *sqlx.DB) *SqlDB {
	return &SqlDB{db}
}

// CreateSchema creates the tables the tracker needs if they are missing.
// The statements are valid for both sqlite3 and postgres.
func (sdb *SqlDB) CreateSchema(ctx context.Context) error {
	return sdb.ExecuteTx(ctx, func(tx *DbTx) error {
		for _, statement := range schema {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}
		return nil
	})
}

func (sdb *SqlDB) ExecuteTx(ctx context.Context, callback func(*DbTx) error) (retErr error) {
	tx, err := sdb.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if retErr != nil {
			if err := tx.Rollback(); err != nil {
				log.Error().Err(fmt.Errorf("error while executing tx: %s\nerror while making rollback: %s", retErr, err)).Send()
			}
		}
	}()

	if retErr = callback(&DbTx{tx}); retErr != nil {
		return
	}

	if retErr = tx.Commit(); retErr != nil {
		return
	}

	return nil
}

type SqlDB struct {
	*sqlx.DB
}
type DbTx struct {
	*sqlx.Tx
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stake_pair_cache (
		cache_key TEXT NOT NULL,
		stash_address TEXT NOT NULL,
		controller_address TEXT NOT NULL,
		"createdAt" TIMESTAMP NOT NULL,
		"updatedAt" TIMESTAMP NOT NULL,
		PRIMARY KEY (cache_key, stash_address, controller_address)
	)`,
}
