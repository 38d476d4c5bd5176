package infrastructure

import (
	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

func InitSubstrateAPI(config *Config) (*gsrpc.SubstrateAPI, error) {
	api, err := gsrpc.NewSubstrateAPI(config.ChainNodeUrl)
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("substrate api initiated with node: %s", config.ChainNodeUrl)

	return api, nil
}

func InitDBConnection(config *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect(config.DbDriverName, config.DbDSN)
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("db connection initiated with driver: %s", config.DbDriverName)

	return db, nil
}

func CloseSubstrateAPI(api *gsrpc.SubstrateAPI) {
	if api == nil || api.Client == nil {
		return
	}

	if closer, ok := api.Client.(interface{ Close() }); ok {
		closer.Close()
	}
}
