// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"errors"
	"sync"

	"github.com/flokiorg/flokicoin-core/wire"
)

const (
	// DefaultEstimateFeeMaxRollback is the default number of most recent
	// blocks whose minimum admission fee-rate is retained.
	DefaultEstimateFeeMaxRollback = 100

	// DefaultEstimateFeeMinRegisteredBlocks is the minimum number of
	// observed blocks before EstimateFee will return a value.
	DefaultEstimateFeeMinRegisteredBlocks = 1
)

// ErrNotEnoughData indicates an estimate was requested before enough blocks
// had been registered.
var ErrNotEnoughData = errors.New("not enough blocks registered to estimate a fee")

// FeeEstimator derives a minimum fee-rate (loki per serialized byte) likely
// to achieve confirmation within a target number of blocks, from the
// minimum fee-rate actually observed to have been mined in each of the most
// recently connected blocks.
type FeeEstimator struct {
	mu sync.Mutex

	maxRollback         uint32
	minRegisteredBlocks uint32

	// blockMinFeeRate holds, oldest first, the lowest fee-rate among the
	// non-coinbase transactions mined in each of the last maxRollback
	// blocks.
	blockMinFeeRate []float64
}

// NewFeeEstimator returns an estimator retaining at most maxRollback blocks
// of history and requiring minRegisteredBlocks before serving an estimate.
func NewFeeEstimator(maxRollback, minRegisteredBlocks uint32) *FeeEstimator {
	return &FeeEstimator{
		maxRollback:         maxRollback,
		minRegisteredBlocks: minRegisteredBlocks,
	}
}

// RegisterBlock records the lowest fee-rate paid by any non-coinbase
// transaction confirmed in the block just connected. RegisterBlock records
// every value it is given; RemoveConfirmed does not call it for a block in
// which none of the confirmed transactions were held by the pool.
func (fe *FeeEstimator) RegisterBlock(minFeeRate float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()

	fe.blockMinFeeRate = append(fe.blockMinFeeRate, minFeeRate)
	if uint32(len(fe.blockMinFeeRate)) > fe.maxRollback {
		fe.blockMinFeeRate = fe.blockMinFeeRate[uint32(len(fe.blockMinFeeRate))-fe.maxRollback:]
	}
}

// EstimateFee returns a conservative fee-rate estimate (loki per byte)
// likely to confirm within confirmations blocks: the highest of the
// per-block minimums observed over the relevant trailing window.
func (fe *FeeEstimator) EstimateFee(confirmations uint32) (float64, error) {
	if confirmations < 1 {
		return 0, errors.New("confirmations must be at least 1")
	}

	fe.mu.Lock()
	defer fe.mu.Unlock()

	n := uint32(len(fe.blockMinFeeRate))
	if n < fe.minRegisteredBlocks {
		return 0, ErrNotEnoughData
	}

	window := confirmations
	if window > n {
		window = n
	}

	var max float64
	for _, rate := range fe.blockMinFeeRate[n-window:] {
		if rate > max {
			max = rate
		}
	}
	return max, nil
}

// persistedFeeEstimatorState is the serialized form saved and restored by
// fee_persist.go.
type persistedFeeEstimatorState struct {
	MaxRollback         uint32    `cbor:"1,keyasint"`
	MinRegisteredBlocks uint32    `cbor:"2,keyasint"`
	BlockMinFeeRate     []float64 `cbor:"3,keyasint"`
}

// Save returns a serialized snapshot of the estimator's history.
func (fe *FeeEstimator) Save() []byte {
	fe.mu.Lock()
	defer fe.mu.Unlock()

	state := persistedFeeEstimatorState{
		MaxRollback:         fe.maxRollback,
		MinRegisteredBlocks: fe.minRegisteredBlocks,
		BlockMinFeeRate:     append([]float64(nil), fe.blockMinFeeRate...),
	}
	data, err := wire.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal fee estimator state: %v", err)
		return nil
	}
	return data
}

// RestoreFeeEstimator reconstructs an estimator from the bytes produced by
// Save.
func RestoreFeeEstimator(data []byte) (*FeeEstimator, error) {
	var state persistedFeeEstimatorState
	if err := wire.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &FeeEstimator{
		maxRollback:         state.MaxRollback,
		minRegisteredBlocks: state.MinRegisteredBlocks,
		blockMinFeeRate:     state.BlockMinFeeRate,
	}, nil
}
