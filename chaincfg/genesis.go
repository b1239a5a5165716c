// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"sync"

	"github.com/flokiorg/flokicoin-core/chain"
)

var (
	genesisMu    sync.Mutex
	genesisCache = map[string]*chain.Block{}
)

// GenesisBlock returns the genesis block for p, mining it on first use and
// caching the result. Unlike a hardcoded production genesis hash, this
// module mines its genesis programmatically at construction time: the
// hash depends only on the fixed timestamp, miner address, and difficulty
// recorded in Params, so it is reproducible across runs of the same
// parameters without ever being hand-computed.
func GenesisBlock(p *Params) *chain.Block {
	genesisMu.Lock()
	defer genesisMu.Unlock()

	if b, ok := genesisCache[p.Name]; ok {
		return b
	}

	coinbase := chain.NewCoinbase(0, p.GenesisMinerAddr, p.BlockReward)
	block := &chain.Block{
		Index: 0,
		Header: chain.BlockHeader{
			Timestamp:  p.GenesisTimestamp,
			Difficulty: p.GenesisDifficulty,
		},
		Transactions: []*chain.Transaction{coinbase},
	}
	block.Header.MerkleRoot = chain.MerkleRootOf(block.Transactions)

	if _, err := block.Mine(0); err != nil {
		panic("chaincfg: failed to mine genesis block: " + err.Error())
	}

	genesisCache[p.Name] = block
	return block
}
