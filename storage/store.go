// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage implements the engine-agnostic snapshot contract: durable
// storage of the connected block sequence and current difficulty, from
// which every other piece of chain state is re-derived by replay.
package storage

import "github.com/flokiorg/flokicoin-core/chain"

// Store is the persistence surface a blockchain.Engine's snapshot is
// written to and rebuilt from. Implementations need not store anything
// beyond blocks, in height order, and the current difficulty; everything
// else (UTXO set, chain work, block/height indices, coinbase heights,
// chain tips) is re-derived by blockchain.Rebuild.
type Store interface {
	// AppendBlock durably records block under its height, replacing any
	// block already stored at that height.
	AppendBlock(block *chain.Block) error

	// Blocks returns every stored block in ascending height order.
	Blocks() ([]*chain.Block, error)

	// SetDifficulty records the difficulty new blocks should be mined at.
	SetDifficulty(difficulty uint32) error

	// Difficulty returns the most recently recorded difficulty. ok is
	// false if none has ever been set.
	Difficulty() (difficulty uint32, ok bool, err error)

	Close() error
}
