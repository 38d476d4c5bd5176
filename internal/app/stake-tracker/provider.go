package stake_tracker

import (
	"context"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/infrastructure"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/requesters"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/sql_db"
	"github.com/jmoiron/sqlx"
)

func NewProvider(config *infrastructure.Config) *NodeProvider {
	return &NodeProvider{config: config}
}

// NodeProvider connects to the configured chain node and database
type NodeProvider struct {
	config *infrastructure.Config
}

func (p *NodeProvider) InitChainRequester() (ChainClient, error) {
	api, err := infrastructure.InitSubstrateAPI(p.config)
	if err != nil {
		return nil, err
	}

	requester, err := requesters.NewChainRequester(p.config, api)
	if err != nil {
		infrastructure.CloseSubstrateAPI(api)
		return nil, err
	}

	return requester, nil
}

// InitDBConnection connects and makes sure the schema exists
func (p *NodeProvider) InitDBConnection() (*sqlx.DB, error) {
	db, err := infrastructure.InitDBConnection(p.config)
	if err != nil {
		return nil, err
	}

	if err := sql_db.NewSqlDB(db).CreateSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
