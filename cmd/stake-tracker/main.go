package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	worker "github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/api"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/infrastructure"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/services"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/sql_db"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runService(ctx)
}

func runService(ctx context.Context) {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msgf("No .env file found, using the environment: %s", err)
	}

	ctx, ctxCancel := context.WithCancel(ctx)
	defer ctxCancel()

	config := infrastructure.NewConfig()
	if err := config.Validate(); err != nil {
		log.Error().Msgf("Invalid config: %s", err)
		return
	}

	if _, err := services.NormalizeAddresses(config.WatchAddresses, config.SS58Prefix); err != nil {
		log.Error().Msgf("Invalid watch address: %s", err)
		return
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		log.Error().Msgf("Invalid log level %s: %s", config.LogLevel, err)
		return
	}
	zerolog.SetGlobalLevel(level)

	provider := worker.NewProvider(config)
	stakeService := services.NewStakeService(config)
	mutex := sync.Mutex{}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx, ctxCancel, config, stakeService, provider, &mutex, config.WorkerProcessInterval)
	}()
	defer wg.Wait()

	requester, err := provider.InitChainRequester()
	if err != nil {
		log.Error().Msgf("Error initiating chain requester: %s", err)
		ctxCancel()
		return
	}
	defer requester.Close()

	db, err := provider.InitDBConnection()
	if err != nil {
		log.Error().Msgf("Error initiating db connection: %s", err)
		ctxCancel()
		return
	}
	defer db.Close()

	server := api.NewServer(config, stakeService, requester, sql_db.NewSqlDB(db))
	if err := server.ListenAndServe(ctx); err != nil {
		log.Error().Err(err).Send()
		ctxCancel()
	}
}
