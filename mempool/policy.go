// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg"
)

const (
	// DefaultMaxAncestors is the default ancestor limit. The count includes
	// the new transaction itself, so it may depend, directly or
	// transitively, on at most DefaultMaxAncestors-1 in-pool transactions.
	DefaultMaxAncestors = 25

	// DefaultMaxDescendants is the default descendant limit. The count
	// includes the ancestor itself, so at most DefaultMaxDescendants-1
	// in-pool transactions may come to depend on any single transaction.
	DefaultMaxDescendants = 25
)

// ChainView is the read-only slice of blockchain.Engine the mempool needs to
// validate transactions against the current UTXO set. *blockchain.Engine
// satisfies this directly; tests may substitute a fake.
type ChainView interface {
	UTXOView(op chain.Outpoint) (*blockchain.UTXOEntry, bool)
	Height() uint64
	Params() *chaincfg.Params
}

// Config bundles the policy knobs and chain dependency used to construct a
// Mempool.
type Config struct {
	View           ChainView
	MaxAncestors   int
	MaxDescendants int
}

func (c *Config) setDefaults() {
	if c.MaxAncestors <= 0 {
		c.MaxAncestors = DefaultMaxAncestors
	}
	if c.MaxDescendants <= 0 {
		c.MaxDescendants = DefaultMaxDescendants
	}
}
