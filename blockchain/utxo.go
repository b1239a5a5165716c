// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chainutil"
)

// UTXOEntry is one unspent output: its value, the height it was created at,
// and whether it originated from a coinbase (for maturity tracking).
type UTXOEntry struct {
	Output   chain.TxOut
	Height   uint64
	Coinbase bool
}

// UTXOSet is the set of outputs created by some confirmed transaction and
// not yet consumed by any later confirmed transaction, keyed by outpoint.
type UTXOSet struct {
	entries map[chain.Outpoint]*UTXOEntry
}

// NewUTXOSet returns an empty set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{entries: make(map[chain.Outpoint]*UTXOEntry)}
}

// Get returns the entry for outpoint, if unspent.
func (s *UTXOSet) Get(op chain.Outpoint) (*UTXOEntry, bool) {
	e, ok := s.entries[op]
	return e, ok
}

// Add inserts a newly created output.
func (s *UTXOSet) Add(op chain.Outpoint, out chain.TxOut, height uint64, coinbase bool) {
	s.entries[op] = &UTXOEntry{Output: out, Height: height, Coinbase: coinbase}
}

// Spend removes and returns the entry for outpoint, if present.
func (s *UTXOSet) Spend(op chain.Outpoint) (*UTXOEntry, bool) {
	e, ok := s.entries[op]
	if !ok {
		return nil, false
	}
	delete(s.entries, op)
	return e, true
}

// IsMature reports whether a coinbase output created at height is
// spendable given the chain is currently at currentHeight.
func IsMature(height, currentHeight, coinbaseMaturity uint64) bool {
	return currentHeight-height >= coinbaseMaturity
}

// BalanceOf sums every unspent output paying addr.
func (s *UTXOSet) BalanceOf(addr string) chainutil.Amount {
	var total chainutil.Amount
	for _, e := range s.entries {
		if e.Output.Recipient == addr {
			total += e.Output.Amount
		}
	}
	return total
}

// SpendableBalanceOf sums unspent outputs paying addr that are either
// non-coinbase or mature coinbase outputs as of currentHeight.
func (s *UTXOSet) SpendableBalanceOf(addr string, currentHeight, coinbaseMaturity uint64) chainutil.Amount {
	var total chainutil.Amount
	for _, e := range s.entries {
		if e.Output.Recipient != addr {
			continue
		}
		if e.Coinbase && !IsMature(e.Height, currentHeight, coinbaseMaturity) {
			continue
		}
		total += e.Output.Amount
	}
	return total
}

// ImmatureBalanceOf sums unspent coinbase outputs paying addr that have not
// yet reached maturity as of currentHeight.
func (s *UTXOSet) ImmatureBalanceOf(addr string, currentHeight, coinbaseMaturity uint64) chainutil.Amount {
	var total chainutil.Amount
	for _, e := range s.entries {
		if e.Output.Recipient != addr {
			continue
		}
		if e.Coinbase && !IsMature(e.Height, currentHeight, coinbaseMaturity) {
			total += e.Output.Amount
		}
	}
	return total
}
