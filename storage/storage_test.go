// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg"
	"github.com/flokiorg/flokicoin-core/storage"
)

func testParams(name string) *chaincfg.Params {
	p := chaincfg.RegressionNetParams
	p.Name = name
	p.GenesisDifficulty = 4
	p.RetargetInterval = 1_000_000
	return &p
}

func mineChild(t *testing.T, parent *chain.Block, params *chaincfg.Params) *chain.Block {
	t.Helper()
	coinbase := chain.NewCoinbase(parent.Index+1, "miner", params.BlockReward)
	b := chain.NewBlock(parent.Index+1, parent.Hash(), []*chain.Transaction{coinbase}, params.GenesisDifficulty)
	b.Header.Timestamp = parent.Header.Timestamp + 10
	_, err := b.Mine(0)
	require.NoError(t, err)
	return b
}

func TestSnapshotRoundTrip(t *testing.T) {
	params := testParams(t.Name())
	engine := blockchain.NewEngine(params)
	genesis := chaincfg.GenesisBlock(params)

	b1 := mineChild(t, genesis, params)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b1).Outcome)
	b2 := mineChild(t, b1, params)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b2).Outcome)

	dir := t.TempDir()
	store, err := storage.OpenLevelDB(filepath.Join(dir, "chain"))
	require.NoError(t, err)

	require.NoError(t, storage.DumpSnapshot(store, engine))
	require.NoError(t, store.Close())

	store2, err := storage.OpenLevelDB(filepath.Join(dir, "chain"))
	require.NoError(t, err)
	defer store2.Close()

	rebuilt, err := storage.Rebuild(params, store2)
	require.NoError(t, err)
	require.Equal(t, engine.Height(), rebuilt.Height())
	require.Equal(t, engine.ActiveTipHash(), rebuilt.ActiveTipHash())
	require.Equal(t, engine.BalanceOf("miner"), rebuilt.BalanceOf("miner"))
}

func TestRebuildEmptyStoreYieldsGenesis(t *testing.T) {
	params := testParams(t.Name())
	dir := t.TempDir()
	store, err := storage.OpenLevelDB(filepath.Join(dir, "chain"))
	require.NoError(t, err)
	defer store.Close()

	engine, err := storage.Rebuild(params, store)
	require.NoError(t, err)
	require.Equal(t, uint64(0), engine.Height())
}
