package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/CudoVentures/cennznet-stake-tracker/client/coingecko"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/infrastructure"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/services"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type StakeService interface {
	CachedPairs(ctx context.Context, requester services.ChainRequester, storage services.Storage, addresses []string) ([]types.StakePair, error)
	Pairs(ctx context.Context, requester services.ChainRequester, storage services.Storage, addresses []string) ([]types.StakePair, error)
	Stakes(ctx context.Context, requester services.ChainRequester, storage services.Storage, addresses []string) ([]types.StakeResult, error)
}

func NewServer(config *infrastructure.Config, service StakeService, requester services.ChainRequester, storage services.Storage) *Server {
	s := &Server{
		config:    config,
		service:   service,
		requester: requester,
		storage:   storage,
	}
	s.tokenPrice = s.coingeckoPrice
	return s
}

type Server struct {
	config     *infrastructure.Config
	service    StakeService
	requester  services.ChainRequester
	storage    services.Storage
	tokenPrice func(ctx context.Context) (decimal.Decimal, error)
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/stakes", s.getStakesHandler()).Methods(http.MethodGet)
	r.HandleFunc("/pairs", s.getPairsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", getHealthHandler()).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves the api until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Handler:      s.Router(),
		Addr:         s.config.ApiListenAddr,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(fmt.Errorf("error while shutting down api: %s", err)).Send()
		}
	}()

	log.Info().Msgf("Listening on: %s", s.config.ApiListenAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) getStakesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		addresses, err := s.queryAddresses(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		results, err := s.service.Stakes(r.Context(), s.requester, s.storage, addresses)
		if err != nil {
			log.Error().Err(err).Send()
			writeError(w, http.StatusBadGateway, err)
			return
		}

		price, hasPrice := s.price(r.Context())

		response := make([]stakeResponse, 0, len(results))
		for _, result := range results {
			response = append(response, s.newStakeResponse(result, price, hasPrice))
		}

		writeJSON(w, http.StatusOK, response)
	}
}

func (s *Server) getPairsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		addresses, err := s.queryAddresses(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var pairs []types.StakePair
		if r.URL.Query().Get("cached") == "true" {
			pairs, err = s.service.CachedPairs(r.Context(), s.requester, s.storage, addresses)
		} else {
			pairs, err = s.service.Pairs(r.Context(), s.requester, s.storage, addresses)
		}
		if err != nil {
			log.Error().Err(err).Send()
			writeError(w, http.StatusBadGateway, err)
			return
		}

		writeJSON(w, http.StatusOK, pairs)
	}
}

func getHealthHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// queryAddresses reads every address query parameter in the configured network format
func (s *Server) queryAddresses(r *http.Request) ([]string, error) {
	raw := r.URL.Query()["address"]
	if len(raw) == 0 {
		return nil, errors.New("at least one address query parameter is required")
	}

	return services.NormalizeAddresses(raw, s.config.SS58Prefix)
}

// price is only reported when a token is configured and the feed answers
func (s *Server) price(ctx context.Context) (decimal.Decimal, bool) {
	if s.config.CoingeckoTokenId == "" {
		return decimal.Zero, false
	}

	price, err := s.tokenPrice(ctx)
	if err != nil {
		log.Warn().Msgf("Failed to get %s price: %s", s.config.CoingeckoTokenId, err)
		return decimal.Zero, false
	}

	return price, true
}

func (s *Server) coingeckoPrice(ctx context.Context) (decimal.Decimal, error) {
	return coingecko.GetTokenPrice(ctx, s.config.CoingeckoApiUrl, s.config.CoingeckoTokenId, s.config.CoingeckoCurrency)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Send()
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
