// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg"
	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/chainutil"
	"github.com/flokiorg/flokicoin-core/crypto"
	"github.com/flokiorg/flokicoin-core/mempool"
)

func testParams(name string) *chaincfg.Params {
	p := chaincfg.RegressionNetParams
	p.Name = name
	p.GenesisDifficulty = 1
	p.RetargetInterval = 1_000_000
	return &p
}

func mineChild(t *testing.T, parent *chain.Block, txs []*chain.Transaction, miner string, reward chainutil.Amount, difficulty uint32) *chain.Block {
	t.Helper()
	coinbase := chain.NewCoinbase(parent.Index+1, miner, reward)
	all := append([]*chain.Transaction{coinbase}, txs...)
	b := chain.NewBlock(parent.Index+1, parent.Hash(), all, difficulty)
	b.Header.Timestamp = parent.Header.Timestamp + 10
	_, err := b.Mine(0)
	require.NoError(t, err)
	return b
}

// spendableSetup mines a chain deep enough that the coinbase paid to
// "miner" at height 1 has matured, and returns the engine, that coinbase's
// outpoint and value, and the signing key authorized to spend it.
func spendableSetup(t *testing.T) (*blockchain.Engine, chain.Outpoint, chainutil.Amount, *crypto.PrivateKey) {
	t.Helper()
	params := testParams(t.Name())
	engine := blockchain.NewEngine(params)
	priv, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	cur := chaincfg.GenesisBlock(params)
	b1 := mineChild(t, cur, nil, "miner", params.BlockReward, 1)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b1).Outcome)
	spendOutpoint := chain.Outpoint{TxID: b1.Transactions[0].ID(), Index: 0}
	cur = b1

	for h := uint64(2); h <= params.CoinbaseMaturity+1; h++ {
		next := mineChild(t, cur, nil, "miner", params.BlockReward, 1)
		require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(next).Outcome)
		cur = next
	}

	return engine, spendOutpoint, params.BlockReward, priv
}

func signedSpend(t *testing.T, priv *crypto.PrivateKey, spend chain.Outpoint, amount chainutil.Amount, to string, fee chainutil.Amount) *chain.Transaction {
	t.Helper()
	tx := &chain.Transaction{
		Version: 1,
		TxIn: []*chain.TxIn{{
			PreviousOutPoint: spend,
			PublicKey:        priv.PubKey().SerializeCompressed(),
		}},
		TxOut: []*chain.TxOut{{Amount: amount - fee, Recipient: to}},
	}
	sig := crypto.Sign(priv, tx.SigningPreimage())
	tx.TxIn[0].Signature = sig
	return tx
}

func TestMempoolAddAndSelect(t *testing.T) {
	engine, spend, amount, priv := spendableSetup(t)

	mp := mempool.New(mempool.Config{View: engine})
	tx := signedSpend(t, priv, spend, amount, "bob", 100)

	desc, err := mp.Add(tx, time.Now())
	require.NoError(t, err)
	require.Equal(t, chainutil.Amount(100), desc.Fee)
	require.Equal(t, 1, mp.Count())

	selected := mp.Select(10, 1<<20)
	require.Len(t, selected, 1)
	require.Equal(t, tx.ID(), selected[0].ID())
}

func TestMempoolRejectsDuplicate(t *testing.T) {
	engine, spend, amount, priv := spendableSetup(t)
	mp := mempool.New(mempool.Config{View: engine})
	tx := signedSpend(t, priv, spend, amount, "bob", 100)

	_, err := mp.Add(tx, time.Now())
	require.NoError(t, err)
	_, err = mp.Add(tx, time.Now())
	require.Error(t, err)

	var rerr mempool.TxRuleError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, mempool.ErrAlreadyInPool, rerr.ErrorCode)
}

func TestMempoolRejectsTamperedOutput(t *testing.T) {
	engine, spend, amount, priv := spendableSetup(t)
	mp := mempool.New(mempool.Config{View: engine})

	tx := signedSpend(t, priv, spend, amount, "bob", 100)
	tx.TxOut[0].Recipient = "attacker"

	_, err := mp.Add(tx, time.Now())
	require.Error(t, err)

	var rerr mempool.TxRuleError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, mempool.ErrBadSignature, rerr.ErrorCode)
}

func TestMempoolRejectsLowFeeConflict(t *testing.T) {
	engine, spend, amount, priv := spendableSetup(t)
	mp := mempool.New(mempool.Config{View: engine})

	first := signedSpend(t, priv, spend, amount, "bob", 500)
	_, err := mp.Add(first, time.Now())
	require.NoError(t, err)

	second := signedSpend(t, priv, spend, amount, "carol", 500)
	_, err = mp.Add(second, time.Now())
	require.Error(t, err)
	require.True(t, mp.Has(first.ID()))
}

func TestMempoolReplaceByFee(t *testing.T) {
	engine, spend, amount, priv := spendableSetup(t)
	mp := mempool.New(mempool.Config{View: engine})

	low := signedSpend(t, priv, spend, amount, "bob", 100)
	_, err := mp.Add(low, time.Now())
	require.NoError(t, err)

	high := signedSpend(t, priv, spend, amount, "carol", 1000)
	_, err = mp.Add(high, time.Now())
	require.NoError(t, err)

	require.False(t, mp.Has(low.ID()))
	require.True(t, mp.Has(high.ID()))
	require.Equal(t, 1, mp.Count())
}

func TestMempoolRejectsImmatureSpend(t *testing.T) {
	params := testParams(t.Name())
	engine := blockchain.NewEngine(params)
	priv, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	genesis := chaincfg.GenesisBlock(params)
	b1 := mineChild(t, genesis, nil, "miner", params.BlockReward, 1)
	require.Equal(t, blockchain.AddedToMainChain, engine.ProcessBlock(b1).Outcome)

	spend := chain.Outpoint{TxID: b1.Transactions[0].ID(), Index: 0}
	tx := signedSpend(t, priv, spend, params.BlockReward, "bob", 100)

	mp := mempool.New(mempool.Config{View: engine})
	_, err = mp.Add(tx, time.Now())
	require.Error(t, err)

	var rerr mempool.TxRuleError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, mempool.ErrImmatureSpend, rerr.ErrorCode)
}

func TestMempoolRemoveConfirmedAndReinsert(t *testing.T) {
	engine, spend, amount, priv := spendableSetup(t)
	mp := mempool.New(mempool.Config{View: engine})
	engine.SetMempoolSink(mp)

	tx := signedSpend(t, priv, spend, amount, "bob", 100)
	_, err := mp.Add(tx, time.Now())
	require.NoError(t, err)

	mp.RemoveConfirmed([]chainhash.Hash{tx.ID()})
	require.False(t, mp.Has(tx.ID()))

	mp.Reinsert([]*chain.Transaction{tx})
	require.True(t, mp.Has(tx.ID()))
}

func TestRemoveConfirmedFeedsFeeEstimator(t *testing.T) {
	engine, spend, amount, priv := spendableSetup(t)
	mp := mempool.New(mempool.Config{View: engine})

	tx := signedSpend(t, priv, spend, amount, "bob", 100)
	desc, err := mp.Add(tx, time.Now())
	require.NoError(t, err)

	_, err = mp.FeeEstimator().EstimateFee(1)
	require.ErrorIs(t, err, mempool.ErrNotEnoughData)

	mp.RemoveConfirmed([]chainhash.Hash{tx.ID()})

	rate, err := mp.FeeEstimator().EstimateFee(1)
	require.NoError(t, err)
	require.Equal(t, desc.FeeRate, rate)
}
