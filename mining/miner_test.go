// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chaincfg"
	"github.com/flokiorg/flokicoin-core/mining"
)

func testParams(name string) *chaincfg.Params {
	p := chaincfg.RegressionNetParams
	p.Name = name
	p.GenesisDifficulty = 4
	p.RetargetInterval = 1_000_000
	return &p
}

func TestMinerMineBlockExtendsChain(t *testing.T) {
	params := testParams(t.Name())
	engine := blockchain.NewEngine(params)
	m := mining.New("miner", engine, nil)

	block, stats, result, err := m.MineBlock(0, 0)
	require.NoError(t, err)
	require.Equal(t, blockchain.AddedToMainChain, result.Outcome)
	require.Equal(t, uint64(1), block.Index)
	require.Greater(t, stats.HashAttempts, uint64(0))
	require.Equal(t, uint64(1), engine.Height())
}

func TestMinerMineContinuously(t *testing.T) {
	params := testParams(t.Name())
	engine := blockchain.NewEngine(params)
	m := mining.New("miner", engine, nil)

	blocks, err := m.MineContinuously(3)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	require.Equal(t, uint64(3), engine.Height())
}

func TestMineBlockDetachedThenAdmit(t *testing.T) {
	params := testParams(t.Name())
	engine := blockchain.NewEngine(params)

	block, stats, err := mining.MineBlockDetached(
		"miner", engine.Height(), engine.ActiveTipHash(), engine.CurrentDifficulty(), params.BlockReward, nil)
	require.NoError(t, err)
	require.Greater(t, stats.HashAttempts, uint64(0))

	result := engine.ProcessBlock(block)
	require.Equal(t, blockchain.AddedToMainChain, result.Outcome)
}
