// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the genesis configuration and economic
// parameters for each supported network.
package chaincfg

import (
	"time"

	"github.com/flokiorg/flokicoin-core/chainutil"
)

// Params holds every tunable named in the genesis configuration contract:
// difficulty, reward, timing, retarget cadence, coinbase maturity, and the
// orphan-pool and gas-limit defaults.
type Params struct {
	Name string
	// ChainID distinguishes transactions minted for this network from any
	// other; a transaction carrying a different ChainID is rejected.
	ChainID uint32

	GenesisDifficulty  uint32
	GenesisTimestamp   int64
	GenesisMinerAddr   string
	BlockReward        chainutil.Amount
	TargetBlockTime    int64 // seconds
	RetargetInterval   uint64
	CoinbaseMaturity   uint64
	MaxFutureBlockTime int64 // seconds
	MTPBlockCount      int
	MaxOrphanBlocks    int
	OrphanExpiry       time.Duration
	MaxDifficulty      uint32
	MinDifficulty      uint32
	DefaultGasLimit    uint64
}

// MainNetParams are the production network defaults named in the genesis
// configuration contract.
var MainNetParams = Params{
	Name:               "mainnet",
	ChainID:            1,
	GenesisDifficulty:  16,
	GenesisTimestamp:   1704067200, // 2024-01-01T00:00:00Z
	GenesisMinerAddr:   "genesis",
	BlockReward:        50 * chainutil.LokiPerFlokicoin,
	TargetBlockTime:    10,
	RetargetInterval:   10,
	CoinbaseMaturity:   100,
	MaxFutureBlockTime: 7200,
	MTPBlockCount:      11,
	MaxOrphanBlocks:    100,
	OrphanExpiry:       time.Hour,
	MaxDifficulty:      32,
	MinDifficulty:      1,
	DefaultGasLimit:    100_000,
}

// RegressionNetParams mirror MainNetParams but with a trivial genesis
// difficulty so tests and local development do not pay real mining cost.
var RegressionNetParams = Params{
	Name:               "regtest",
	ChainID:            2,
	GenesisDifficulty:  1,
	GenesisTimestamp:   1704067200,
	GenesisMinerAddr:   "genesis",
	BlockReward:        50 * chainutil.LokiPerFlokicoin,
	TargetBlockTime:    10,
	RetargetInterval:   10,
	CoinbaseMaturity:   100,
	MaxFutureBlockTime: 7200,
	MTPBlockCount:      11,
	MaxOrphanBlocks:    100,
	OrphanExpiry:       time.Hour,
	MaxDifficulty:      32,
	MinDifficulty:      1,
	DefaultGasLimit:    100_000,
}
