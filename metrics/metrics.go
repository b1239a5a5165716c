// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics exposes the node's process metrics as prometheus
// collectors: chain height and cumulative work, mempool occupancy, VM gas
// consumption, and counters for the events that matter operationally
// (reorganizations, orphans).
package metrics

import (
	"math/big"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/contract"
)

var (
	ChainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flokicoind",
		Name:      "chain_height",
		Help:      "Height of the active chain tip.",
	})

	CumulativeWork = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flokicoind",
		Name:      "chain_cumulative_work",
		Help:      "Cumulative proof-of-work of the active tip, as a float approximation.",
	})

	ChainDifficulty = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flokicoind",
		Name:      "chain_difficulty",
		Help:      "Current mining difficulty (leading zero bits required).",
	})

	OrphanCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flokicoind",
		Name:      "orphan_pool_size",
		Help:      "Number of blocks currently parked in the orphan pool.",
	})

	MempoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flokicoind",
		Name:      "mempool_size",
		Help:      "Number of transactions currently admitted to the mempool.",
	})

	ReorgsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flokicoind",
		Name:      "reorgs_total",
		Help:      "Total chain reorganizations performed.",
	})

	BlocksProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flokicoind",
		Name:      "blocks_processed_total",
		Help:      "Blocks processed by outcome.",
	}, []string{"outcome"})

	VMGasUsed = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "flokicoind",
		Name:      "vm_gas_used",
		Help:      "Gas consumed per contract call.",
		Buckets:   []float64{100, 500, 1000, 5000, 20000, 50000, 100000},
	})

	VMCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flokicoind",
		Name:      "vm_calls_total",
		Help:      "Contract calls by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ChainHeight,
		CumulativeWork,
		ChainDifficulty,
		OrphanCount,
		MempoolSize,
		ReorgsTotal,
		BlocksProcessedTotal,
		VMGasUsed,
		VMCallsTotal,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// workToFloat approximates a cumulative-work big.Int as a float64; at the
// scale this node ever reaches, precision loss here is informational only
// and never fed back into consensus decisions.
func workToFloat(work *big.Int) float64 {
	if work == nil {
		return 0
	}
	f := new(big.Float).SetInt(work)
	v, _ := f.Float64()
	return v
}

// ObserveChainStats updates the chain-level gauges from a blockchain.Stats
// snapshot.
func ObserveChainStats(stats blockchain.Stats) {
	ChainHeight.Set(float64(stats.Height))
	CumulativeWork.Set(workToFloat(stats.CumulativeWork))
	ChainDifficulty.Set(float64(stats.Difficulty))
	OrphanCount.Set(float64(stats.OrphanCount))
}

// ObserveMempoolSize updates the mempool occupancy gauge.
func ObserveMempoolSize(n int) {
	MempoolSize.Set(float64(n))
}

// ObserveBlockOutcome increments the per-outcome block counter and, for a
// reorganization, the dedicated reorg counter.
func ObserveBlockOutcome(outcome blockchain.Outcome) {
	BlocksProcessedTotal.WithLabelValues(outcome.String()).Inc()
	if outcome == blockchain.CausedReorg {
		ReorgsTotal.Inc()
	}
}

// ObserveVMCall records the gas consumed by one contract call and tallies
// it under its success/revert result.
func ObserveVMCall(result contract.Result) {
	VMGasUsed.Observe(float64(result.GasUsed))
	label := "success"
	if !result.Success {
		label = "revert"
	}
	VMCallsTotal.WithLabelValues(label).Inc()
}
