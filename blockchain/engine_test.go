// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg"
	"github.com/flokiorg/flokicoin-core/chainutil"
)

func testParams(difficulty uint32) *chaincfg.Params {
	p := chaincfg.RegressionNetParams
	p.Name = "enginetest"
	p.GenesisDifficulty = difficulty
	p.RetargetInterval = 1_000_000
	return &p
}

func mineChild(t *testing.T, parent *chain.Block, miner string, reward chainutil.Amount, difficulty uint32) *chain.Block {
	t.Helper()
	coinbase := chain.NewCoinbase(parent.Index+1, miner, reward)
	b := chain.NewBlock(parent.Index+1, parent.Hash(), []*chain.Transaction{coinbase}, difficulty)
	b.Header.Timestamp = parent.Header.Timestamp + 10
	_, err := b.Mine(0)
	require.NoError(t, err)
	return b
}

// Scenario 1: mine two empty blocks to address M; balance(M) = 100; chain
// stays valid throughout.
func TestSeedScenario1_MineTwoBlocks(t *testing.T) {
	params := testParams(4)
	engine := blockchain.NewEngine(params)
	genesis := chaincfg.GenesisBlock(params)

	b1 := mineChild(t, genesis, "M", params.BlockReward, 4)
	res := engine.ProcessBlock(b1)
	require.Equal(t, blockchain.AddedToMainChain, res.Outcome)

	b2 := mineChild(t, b1, "M", params.BlockReward, 4)
	res = engine.ProcessBlock(b2)
	require.Equal(t, blockchain.AddedToMainChain, res.Outcome)

	require.Equal(t, chainutil.Amount(100*chainutil.LokiPerFlokicoin), engine.BalanceOf("M"))
	require.Equal(t, uint64(2), engine.Height())
}

// Scenario 2: feeding the same second block again yields Duplicate.
func TestSeedScenario2_DuplicateBlock(t *testing.T) {
	params := testParams(4)
	engine := blockchain.NewEngine(params)
	genesis := chaincfg.GenesisBlock(params)

	b1 := mineChild(t, genesis, "M", params.BlockReward, 4)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b1).Outcome)

	b2 := mineChild(t, b1, "M", params.BlockReward, 4)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b2).Outcome)

	res := engine.ProcessBlock(b2)
	require.Equal(t, blockchain.Duplicate, res.Outcome)
}

// Scenario 3: miner A extends two blocks, miner B extends three; feeding
// A's chain then B's chain causes exactly one reorganization with
// disconnected=2, connected=3, and the active tip becomes B3.
func TestSeedScenario3_Reorganization(t *testing.T) {
	params := testParams(4)
	engine := blockchain.NewEngine(params)
	genesis := chaincfg.GenesisBlock(params)

	a1 := mineChild(t, genesis, "A", params.BlockReward, 4)
	a2 := mineChild(t, a1, "A", params.BlockReward, 4)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(a1).Outcome)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(a2).Outcome)

	b1 := mineChild(t, genesis, "B", params.BlockReward, 4)
	b2 := mineChild(t, b1, "B", params.BlockReward, 4)
	b3 := mineChild(t, b2, "B", params.BlockReward, 4)

	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b1).Outcome)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b2).Outcome)

	res := engine.ProcessBlock(b3)
	require.Equal(t, blockchain.CausedReorg, res.Outcome)
	require.Equal(t, 2, res.Disconnected)
	require.Equal(t, 3, res.Connected)

	require.Equal(t, b3.Hash(), engine.ActiveTipHash())
	require.Equal(t, uint64(3), engine.Height())
}

func TestInvalidBlockIsRejectedAndTipUnchanged(t *testing.T) {
	params := testParams(4)
	engine := blockchain.NewEngine(params)
	genesis := chaincfg.GenesisBlock(params)

	bad := mineChild(t, genesis, "M", params.BlockReward*2, 4)
	res := engine.ProcessBlock(bad)
	require.Equal(t, blockchain.Invalid, res.Outcome)
	require.Equal(t, genesis.Hash(), engine.ActiveTipHash())
}

func TestMedianTimePastAllowsEqualityBeforeWindowFull(t *testing.T) {
	params := testParams(4)
	engine := blockchain.NewEngine(params)
	genesis := chaincfg.GenesisBlock(params)

	b1 := mineChild(t, genesis, "M", params.BlockReward, 4)
	b1.Header.Timestamp = genesis.Header.Timestamp
	b1.Header.Nonce = 0
	_, err := b1.Mine(0)
	require.NoError(t, err)

	res := engine.ProcessBlock(b1)
	require.Equal(t, blockchain.AddedToMainChain, res.Outcome)
}

func TestFutureTimestampRejected(t *testing.T) {
	params := testParams(4)
	engine := blockchain.NewEngine(params)
	genesis := chaincfg.GenesisBlock(params)

	b1 := mineChild(t, genesis, "M", params.BlockReward, 4)
	b1.Header.Timestamp = time.Now().Unix() + params.MaxFutureBlockTime + 1000
	_, err := b1.Mine(0)
	require.NoError(t, err)

	res := engine.ProcessBlock(b1)
	require.Equal(t, blockchain.Invalid, res.Outcome)
}
