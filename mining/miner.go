// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining builds candidate blocks from mempool transactions and
// grinds the proof-of-work nonce.
package mining

import (
	"time"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/chainutil"
)

// Stats describes one mining attempt's cost.
type Stats struct {
	HashAttempts uint64
	Elapsed      time.Duration
	HashRate     float64
}

func computeStats(attempts uint64, elapsed time.Duration) Stats {
	rate := float64(attempts)
	if elapsed > 0 {
		rate = float64(attempts) / elapsed.Seconds()
	}
	return Stats{HashAttempts: attempts, Elapsed: elapsed, HashRate: rate}
}

// Selector supplies the ordered, ancestor-respecting set of transactions a
// candidate block should include. *mempool.Mempool satisfies this via its
// Select method.
type Selector interface {
	Select(maxCount, maxWeight int) []*chain.Transaction
}

// Miner assembles candidate blocks paying reward to address and submits
// them to an Engine.
type Miner struct {
	address string
	engine  *blockchain.Engine
	pool    Selector
}

// New returns a Miner paying block rewards to address, drawing transactions
// from pool and submitting mined blocks to engine.
func New(address string, engine *blockchain.Engine, pool Selector) *Miner {
	return &Miner{address: address, engine: engine, pool: pool}
}

func (m *Miner) candidateTxs(maxCount, maxWeight int) []*chain.Transaction {
	if m.pool == nil {
		return nil
	}
	return m.pool.Select(maxCount, maxWeight)
}

// MineBlock builds a candidate extending the engine's current active tip,
// grinds its nonce, and submits it for admission while holding no lock
// beyond what ProcessBlock itself takes.
func (m *Miner) MineBlock(maxTxs, maxWeight int) (*chain.Block, Stats, blockchain.Result, error) {
	height := m.engine.Height()
	tipHash := m.engine.ActiveTipHash()
	difficulty := m.engine.CurrentDifficulty()
	reward := m.engine.Params().BlockReward
	txs := m.candidateTxs(maxTxs, maxWeight)

	block, stats, err := buildAndMine(m.address, height, tipHash, difficulty, reward, txs)
	if err != nil {
		return nil, stats, blockchain.Result{}, err
	}

	log.Infof("mined block %d (%d attempts, %.2f H/s)", block.Index, stats.HashAttempts, stats.HashRate)
	result := m.engine.ProcessBlock(block)
	return block, stats, result, nil
}

// MineBlockDetached grinds a candidate block's nonce from a snapshot of
// chain state without holding the engine's write lock, per the detached
// mining pattern: the caller offers the returned block to ProcessBlock
// itself, under a fresh lock, once mining completes. The coinbase pays
// reward only; transaction fees are left uncollected, which the engine
// accepts since it only rejects a coinbase that pays more than reward plus
// fees, never less.
func MineBlockDetached(address string, height uint64, tipHash chainhash.Hash, difficulty uint32, reward chainutil.Amount, txs []*chain.Transaction) (*chain.Block, Stats, error) {
	return buildAndMine(address, height, tipHash, difficulty, reward, txs)
}

func buildAndMine(address string, height uint64, tipHash chainhash.Hash, difficulty uint32, reward chainutil.Amount, txs []*chain.Transaction) (*chain.Block, Stats, error) {
	coinbase := chain.NewCoinbase(height+1, address, reward)
	all := make([]*chain.Transaction, 0, len(txs)+1)
	all = append(all, coinbase)
	all = append(all, txs...)

	block := chain.NewBlock(height+1, tipHash, all, difficulty)

	start := time.Now()
	attempts, err := block.Mine(0)
	elapsed := time.Since(start)
	if err != nil {
		return nil, computeStats(attempts, elapsed), err
	}
	return block, computeStats(attempts, elapsed), nil
}

// MineContinuously mines numBlocks empty blocks in sequence, stopping at
// the first admission failure. It exists for tests and local development.
func (m *Miner) MineContinuously(numBlocks int) ([]*chain.Block, error) {
	blocks := make([]*chain.Block, 0, numBlocks)
	for i := 0; i < numBlocks; i++ {
		block, _, result, err := m.MineBlock(0, 0)
		if err != nil {
			return blocks, err
		}
		if result.Outcome != blockchain.AddedToMainChain {
			return blocks, result.Err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
