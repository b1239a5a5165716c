// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"github.com/flokiorg/flokicoin-core/chaincfg"
	"github.com/flokiorg/flokicoin-core/log"
)

const (
	defaultDataDirname  = "data"
	defaultLogFilename  = "flokicoind.log"
	defaultLogLevel     = "info"
	defaultMetricsAddr  = "127.0.0.1:9332"
	defaultSnapshotName = "chain"
)

// config defines the configuration options for flokicoind. No network/RPC
// flags are present since the P2P transport and HTTP/WebSocket API are
// thin external surfaces this repository does not implement; what remains
// is the knobs that make the genesis economic parameters of spec.md §6
// configurable instead of baked solely into chaincfg, plus the ambient
// data directory, logging, and metrics concerns any running binary needs.
type config struct {
	DataDir  string `short:"b" long:"datadir" description:"Directory to store the chain snapshot"`
	LogLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	RegressionTest bool `long:"regtest" description:"Use the regression test network with a trivial genesis difficulty"`

	MiningAddress string `long:"miningaddr" description:"Address to pay mined block rewards to; mining is disabled if empty"`
	MineOnStart   int    `long:"mine" description:"Mine this many blocks once at startup, then continue serving"`

	MetricsListen string `long:"metricslisten" description:"Address to serve Prometheus metrics on"`

	GenesisDifficulty  uint32 `long:"genesisdifficulty" description:"Override the genesis/regtest mining difficulty"`
	RetargetInterval   uint64 `long:"retargetinterval" description:"Override the number of blocks between difficulty retargets"`
	TargetBlockTime    int64  `long:"targetblocktime" description:"Override the target seconds between blocks"`
	CoinbaseMaturity   uint64 `long:"coinbasematurity" description:"Override the number of confirmations before a coinbase output is spendable"`
}

// defaultConfig returns a config populated with the ambient defaults:
// mainnet-shaped parameters, info-level logging, metrics on
// defaultMetricsAddr, and a "data" directory relative to the current
// working directory.
func defaultConfig() config {
	return config{
		DataDir:       filepath.Join(".", defaultDataDirname),
		LogLevel:      defaultLogLevel,
		MetricsListen: defaultMetricsAddr,
	}
}

// loadConfig parses command line flags over defaultConfig's values. There
// is no config-file layer: unlike the teacher's wallet/RPC-facing CLIs,
// this binary has no secrets worth keeping out of the command line (no
// RPC credentials, no wallet passphrase) since those surfaces are out of
// scope here.
func loadConfig() (*config, error) {
	cfg := defaultConfig()
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if _, ok := log.LevelFromString(cfg.LogLevel); !ok {
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	return &cfg, nil
}

// activeParams returns the network parameters selected by cfg, with any
// genesis-parameter overrides applied on top of a copy.
func activeParams(cfg *config) *chaincfg.Params {
	params := chaincfg.MainNetParams
	if cfg.RegressionTest {
		params = chaincfg.RegressionNetParams
	}

	if cfg.GenesisDifficulty != 0 {
		params.GenesisDifficulty = cfg.GenesisDifficulty
	}
	if cfg.RetargetInterval != 0 {
		params.RetargetInterval = cfg.RetargetInterval
	}
	if cfg.TargetBlockTime != 0 {
		params.TargetBlockTime = cfg.TargetBlockTime
	}
	if cfg.CoinbaseMaturity != 0 {
		params.CoinbaseMaturity = cfg.CoinbaseMaturity
	}
	return &params
}

func (cfg *config) snapshotPath() string {
	return filepath.Join(cfg.DataDir, defaultSnapshotName)
}

func (cfg *config) logFilePath() string {
	return filepath.Join(cfg.DataDir, defaultLogFilename)
}
