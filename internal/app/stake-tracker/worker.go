package stake_tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/infrastructure"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/services"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/sql_db"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Start runs the service every interval until ctx is done.
// Connection failures are retried after WorkerFailureRetryDelay. Once the service
// has failed ServiceMaxErrorCount times the whole application is canceled.
func Start(ctx context.Context, ctxCancel context.CancelFunc, config *infrastructure.Config, service Service, provider Provider, mutex *sync.Mutex, interval time.Duration) {
	log.Info().Msg("Application worker starting")

	retry := func(err error) {
		log.Error().Msgf("retry error: %s", err)

		ticker := time.NewTicker(config.WorkerFailureRetryDelay)
		defer ticker.Stop()

		select {
		case <-ticker.C:
		case <-ctx.Done():
		}
	}

	errorCount := 0

	for ctx.Err() == nil {
		func() {
			var processingError error

			requester, err := provider.InitChainRequester()
			if err != nil {
				retry(err)
				return
			}
			defer requester.Close()

			db, err := provider.InitDBConnection()
			if err != nil {
				retry(err)
				return
			}
			defer db.Close()

			storage := sql_db.NewSqlDB(db)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for processingError == nil {
				select {
				case <-ticker.C:
					mutex.Lock()
					processingError = service.Execute(ctx, requester, storage)
					mutex.Unlock()
				case <-ctx.Done():
					return
				}
			}

			if ctx.Err() != nil {
				return
			}

			errorCount++
			errorEncountered(config, processingError, errorCount)
			if errorCount >= config.ServiceMaxErrorCount {
				maxErrorCountReached(config, processingError)
				ctxCancel()
				return
			}

			retry(processingError)
		}()
	}
}

var mSendMail = sendMail

func maxErrorCountReached(config *infrastructure.Config, err error) {
	message := fmt.Sprintf("Application has exceeded the ServiceMaxErrorCount: {%d} and needs manual intervention!\n Error: {%s}", config.ServiceMaxErrorCount, err)
	log.Error().Msg(message)
	mSendMail(config, message)
}

func errorEncountered(config *infrastructure.Config, processingError error, errorCount int) {
	message := fmt.Sprintf("Application has encountered an error! Error: %s...Retrying for %d time", processingError, errorCount)
	log.Error().Msg(message)
	mSendMail(config, message)
}

func sendMail(config *infrastructure.Config, message string) {
	h := infrastructure.NewHelper(config)
	if err := h.SendMail(message); err != nil {
		log.Error().Err(fmt.Errorf("failed to send alert mail: %s", err)).Send()
	}
}

// ChainClient is a chain requester holding a node connection
type ChainClient interface {
	services.ChainRequester
	Close()
}

type Provider interface {
	InitChainRequester() (ChainClient, error)
	InitDBConnection() (*sqlx.DB, error)
}

type Service interface {
	Execute(ctx context.Context, requester services.ChainRequester, storage services.Storage) error
}
