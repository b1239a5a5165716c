// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/chaincfg"
)

func TestActiveParamsDefaultsToMainNet(t *testing.T) {
	cfg := defaultConfig()
	params := activeParams(&cfg)
	require.Equal(t, chaincfg.MainNetParams.Name, params.Name)
	require.Equal(t, chaincfg.MainNetParams.GenesisDifficulty, params.GenesisDifficulty)
}

func TestActiveParamsRegressionTest(t *testing.T) {
	cfg := defaultConfig()
	cfg.RegressionTest = true
	params := activeParams(&cfg)
	require.Equal(t, chaincfg.RegressionNetParams.Name, params.Name)
}

func TestActiveParamsOverridesGenesisParameters(t *testing.T) {
	cfg := defaultConfig()
	cfg.RegressionTest = true
	cfg.GenesisDifficulty = 1
	cfg.RetargetInterval = 5
	cfg.TargetBlockTime = 2
	cfg.CoinbaseMaturity = 3

	params := activeParams(&cfg)
	require.Equal(t, uint32(1), params.GenesisDifficulty)
	require.Equal(t, uint64(5), params.RetargetInterval)
	require.Equal(t, int64(2), params.TargetBlockTime)
	require.Equal(t, uint64(3), params.CoinbaseMaturity)
}

func TestActiveParamsOverrideDoesNotMutateBaseline(t *testing.T) {
	cfg := defaultConfig()
	cfg.GenesisDifficulty = 99
	activeParams(&cfg)
	require.NotEqual(t, uint32(99), chaincfg.MainNetParams.GenesisDifficulty)
}

func TestSnapshotAndLogPaths(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataDir = "/tmp/flokicoind-test"
	require.Equal(t, "/tmp/flokicoind-test/chain", cfg.snapshotPath())
	require.Equal(t, "/tmp/flokicoind-test/flokicoind.log", cfg.logFilePath())
}
