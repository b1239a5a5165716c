// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics_test

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/contract"
	"github.com/flokiorg/flokicoin-core/metrics"
)

func TestObserveChainStats(t *testing.T) {
	metrics.ObserveChainStats(blockchain.Stats{
		Height:         7,
		CumulativeWork: big.NewInt(128),
		OrphanCount:    2,
		Difficulty:     4,
	})

	require.Equal(t, float64(7), testutil.ToFloat64(metrics.ChainHeight))
	require.Equal(t, float64(128), testutil.ToFloat64(metrics.CumulativeWork))
	require.Equal(t, float64(4), testutil.ToFloat64(metrics.ChainDifficulty))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.OrphanCount))
}

func TestObserveMempoolSize(t *testing.T) {
	metrics.ObserveMempoolSize(11)
	require.Equal(t, float64(11), testutil.ToFloat64(metrics.MempoolSize))
}

func TestObserveBlockOutcomeReorg(t *testing.T) {
	before := testutil.ToFloat64(metrics.ReorgsTotal)
	metrics.ObserveBlockOutcome(blockchain.CausedReorg)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.ReorgsTotal))
}

func TestObserveVMCall(t *testing.T) {
	retVal := uint64(5)
	metrics.ObserveVMCall(contract.Result{Success: true, ReturnValue: &retVal, GasUsed: 42})
	metrics.ObserveVMCall(contract.Result{Success: false, GasUsed: 10})
}
