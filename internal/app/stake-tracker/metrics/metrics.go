package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChainQueriesTotal counts chain queries by method and status
	ChainQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stake_tracker_chain_queries_total",
			Help: "Total number of chain queries",
		},
		[]string{"method", "status"},
	)

	// ChainQueryRetries counts retried chain queries
	ChainQueryRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stake_tracker_chain_query_retries_total",
			Help: "Total number of retried chain queries",
		},
		[]string{"method"},
	)

	// ExposureCacheHits counts exposure lookups served from the per-cycle cache
	ExposureCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stake_tracker_exposure_cache_hits_total",
			Help: "Total number of exposure lookups served from cache",
		},
	)

	// StakeBuildsTotal counts stake aggregate builds by status
	StakeBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stake_tracker_stake_builds_total",
			Help: "Total number of stake aggregate builds",
		},
		[]string{"status"},
	)

	// StakePairsTracked is the number of pairs resolved in the last worker cycle
	StakePairsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stake_tracker_stake_pairs",
			Help: "Number of stash/controller pairs resolved in the last cycle",
		},
	)

	// StakeAmount tracks the bonded amount per stash
	StakeAmount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stake_tracker_stake_amount",
			Help: "Bonded amount per stash in the smallest chain unit",
		},
		[]string{"stash"},
	)

	// AccruedReward tracks the accrued unpaid reward per stash
	AccruedReward = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stake_tracker_accrued_reward",
			Help: "Accrued unpaid reward per stash in the smallest chain unit",
		},
		[]string{"stash"},
	)

	// ElectedNominations tracks nominations counted in the current era per stash
	ElectedNominations = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stake_tracker_elected_nominations",
			Help: "Number of elected nominations per stash",
		},
		[]string{"stash"},
	)
)
