// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command flokicoind runs the consensus engine, mempool, and contract
// registry as a single long-lived process: it rebuilds chain state from
// its on-disk snapshot, optionally mines, and serves its metrics over
// HTTP until interrupted, at which point it snapshots once more before
// exiting.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flokiorg/flokicoin-core/blockchain"
	flog "github.com/flokiorg/flokicoin-core/log"
	"github.com/flokiorg/flokicoin-core/mempool"
	"github.com/flokiorg/flokicoin-core/metrics"
	"github.com/flokiorg/flokicoin-core/mining"
	"github.com/flokiorg/flokicoin-core/registry"
	"github.com/flokiorg/flokicoin-core/storage"
)

var log = flog.Disabled

func main() {
	if err := fmain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fmain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, _ := flog.LevelFromString(cfg.LogLevel)
	if err := initLogRotator(cfg.logFilePath(), level); err != nil {
		return fmt.Errorf("init log rotator: %w", err)
	}
	log = newBackend("MAIN", level)

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	params := activeParams(cfg)

	store, err := storage.OpenLevelDB(cfg.snapshotPath())
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	engine, err := storage.Rebuild(params, store)
	if err != nil {
		return fmt.Errorf("rebuild chain state: %w", err)
	}
	log.Infof("chain state rebuilt at height %d", engine.Height())

	pool := mempool.New(mempool.Config{View: engine})
	engine.SetMempoolSink(pool)

	// reg holds contracts deployed/called against this node's chain
	// state. There is no RPC/API surface in this binary to submit a
	// deploy or call through it; it is wired here so the heartbeat log
	// and a future transport layer have it ready to use.
	reg := registry.New()

	events := engine.Subscribe()
	go func() {
		for range events {
			metrics.ObserveChainStats(engine.Stats())
			metrics.ObserveMempoolSize(pool.Count())
		}
	}()

	if cfg.MiningAddress != "" {
		miner := mining.New(cfg.MiningAddress, engine, pool)
		if cfg.MineOnStart > 0 {
			log.Infof("mining %d block(s) at startup", cfg.MineOnStart)
			for i := 0; i < cfg.MineOnStart; i++ {
				_, _, result, err := miner.MineBlock(0, 0)
				if err != nil {
					log.Warnf("startup mining stopped early: %v", err)
					break
				}
				metrics.ObserveBlockOutcome(result.Outcome)
				if result.Outcome != blockchain.AddedToMainChain {
					log.Warnf("startup mining stopped early: %v", result.Err)
					break
				}
			}
		}
	}

	httpServer := &http.Server{
		Addr:    cfg.MetricsListen,
		Handler: metrics.Handler(),
	}
	go func() {
		log.Infof("serving metrics on %s", cfg.MetricsListen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %v", err)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	log.Info("flokicoind started")
runLoop:
	for {
		select {
		case <-interrupt:
			log.Info("received interrupt, shutting down")
			break runLoop
		case <-ticker.C:
			metrics.ObserveChainStats(engine.Stats())
			metrics.ObserveMempoolSize(pool.Count())
			log.Debugf("heartbeat: height=%d mempool=%d contracts=%d",
				engine.Height(), pool.Count(), reg.Count())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	if err := storage.DumpSnapshot(store, engine); err != nil {
		return fmt.Errorf("dump snapshot on shutdown: %w", err)
	}
	log.Info("snapshot written, exiting")
	return nil
}
