// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/decred/dcrd/lru"

	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/crypto"
)

// ChainTip describes one candidate tip of the block tree: a hash, the
// height it sits at, its cumulative proof of work, and whether it is
// currently the active chain's tip.
type ChainTip struct {
	Hash           chainhash.Hash
	Height         uint64
	CumulativeWork *big.Int
	IsActive       bool
}

// Orphan is a validly-formed block whose parent is not yet in the block
// index.
type Orphan struct {
	Block      *chain.Block
	ParentHash chainhash.Hash
	ReceivedAt time.Time
}

func (o *Orphan) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(o.ReceivedAt) > ttl
}

// SpentOutput is one UTXO consumed by a connected block, recorded so it can
// be restored if the block is later disconnected.
type SpentOutput struct {
	Outpoint chain.Outpoint
	Output   chain.TxOut
	Height   uint64
	Coinbase bool
}

// UndoRecord carries everything needed to reverse the UTXO effect of one
// connected block: every output it spent (so it can be reinserted) and the
// ids of every transaction it added (so the corresponding outputs, and any
// coinbase-height entry, can be removed). Undo data is keyed by explicit
// outpoint rather than a tx_id-prefix scan, so restoring it can never
// mistake one output for another.
type UndoRecord struct {
	BlockHash    chainhash.Hash
	SpentOutputs []SpentOutput
	AddedTxIDs   []chainhash.Hash
}

// ChainStateManager owns every index the engine consults to locate blocks,
// track tips, and reverse block connection: the block index (by hash and by
// height), the set of chain tips, the orphan pool and its parent-hash
// indirection, and the undo journal. It performs value manipulations only;
// it never does I/O.
type ChainStateManager struct {
	blockIndex  map[chainhash.Hash]uint64
	heightIndex map[uint64]chainhash.Hash

	chainTips map[chainhash.Hash]*ChainTip

	orphanPool      map[chainhash.Hash]*Orphan
	orphansByParent map[chainhash.Hash][]chainhash.Hash

	undoData map[chainhash.Hash]*UndoRecord

	workIndex map[chainhash.Hash]*big.Int

	recentHashes *lru.Cache[chainhash.Hash]

	maxOrphans   int
	orphanExpiry time.Duration
}

// NewChainStateManager returns an empty manager configured with the given
// orphan pool bounds.
func NewChainStateManager(maxOrphans int, orphanExpiry time.Duration) *ChainStateManager {
	return &ChainStateManager{
		blockIndex:      make(map[chainhash.Hash]uint64),
		heightIndex:     make(map[uint64]chainhash.Hash),
		chainTips:       make(map[chainhash.Hash]*ChainTip),
		orphanPool:      make(map[chainhash.Hash]*Orphan),
		orphansByParent: make(map[chainhash.Hash][]chainhash.Hash),
		undoData:        make(map[chainhash.Hash]*UndoRecord),
		workIndex:       make(map[chainhash.Hash]*big.Int),
		recentHashes:    lru.NewCache[chainhash.Hash](2048),
		maxOrphans:      maxOrphans,
		orphanExpiry:    orphanExpiry,
	}
}

// HasBlock reports whether hash is already known to the block index.
func (m *ChainStateManager) HasBlock(hash chainhash.Hash) bool {
	if m.recentHashes.Contains(hash) {
		return true
	}
	_, ok := m.blockIndex[hash]
	return ok
}

// IndexBlock records hash at height in the block index and the recent-hash
// cache used for fast duplicate detection.
func (m *ChainStateManager) IndexBlock(hash chainhash.Hash, height uint64) {
	m.blockIndex[hash] = height
	m.recentHashes.Add(hash)
}

// HeightOf returns the indexed height of hash.
func (m *ChainStateManager) HeightOf(hash chainhash.Hash) (uint64, bool) {
	h, ok := m.blockIndex[hash]
	return h, ok
}

// SetActiveHeight records hash as the active-chain block at height.
func (m *ChainStateManager) SetActiveHeight(height uint64, hash chainhash.Hash) {
	m.heightIndex[height] = hash
}

// ClearActiveHeight removes the active-chain entry at height, used while
// disconnecting blocks during a reorganization.
func (m *ChainStateManager) ClearActiveHeight(height uint64) {
	delete(m.heightIndex, height)
}

// HashAtHeight returns the active-chain block hash at height.
func (m *ChainStateManager) HashAtHeight(height uint64) (chainhash.Hash, bool) {
	h, ok := m.heightIndex[height]
	return h, ok
}

// StoreUndoData records the undo record for a newly connected block.
func (m *ChainStateManager) StoreUndoData(u *UndoRecord) {
	m.undoData[u.BlockHash] = u
}

// UndoData returns the undo record for hash, if any.
func (m *ChainStateManager) UndoData(hash chainhash.Hash) (*UndoRecord, bool) {
	u, ok := m.undoData[hash]
	return u, ok
}

// SetActiveTip clears IsActive on every known tip and upserts hash as the
// new active tip.
func (m *ChainStateManager) SetActiveTip(hash chainhash.Hash, height uint64, work *big.Int) {
	for _, tip := range m.chainTips {
		tip.IsActive = false
	}
	m.chainTips[hash] = &ChainTip{Hash: hash, Height: height, CumulativeWork: work, IsActive: true}
}

// RecordSideTip upserts a non-active candidate tip.
func (m *ChainStateManager) RecordSideTip(hash chainhash.Hash, height uint64, work *big.Int) {
	if _, ok := m.chainTips[hash]; !ok {
		m.chainTips[hash] = &ChainTip{Hash: hash, Height: height, CumulativeWork: work}
	}
}

// RemoveTip deletes hash from the tip set, used once a tip is superseded by
// a descendant tip.
func (m *ChainStateManager) RemoveTip(hash chainhash.Hash) {
	delete(m.chainTips, hash)
}

// ActiveTip returns the current active tip, if one has been set.
func (m *ChainStateManager) ActiveTip() (*ChainTip, bool) {
	for _, tip := range m.chainTips {
		if tip.IsActive {
			return tip, true
		}
	}
	return nil, false
}

// Tips returns every known chain tip.
func (m *ChainStateManager) Tips() []*ChainTip {
	out := make([]*ChainTip, 0, len(m.chainTips))
	for _, tip := range m.chainTips {
		out = append(out, tip)
	}
	return out
}

// SetWork records the cumulative work of the chain ending at hash.
func (m *ChainStateManager) SetWork(hash chainhash.Hash, work *big.Int) {
	m.workIndex[hash] = work
}

// Work returns the cumulative work of the chain ending at hash.
func (m *ChainStateManager) Work(hash chainhash.Hash) (*big.Int, bool) {
	w, ok := m.workIndex[hash]
	return w, ok
}

// CalculateWork returns 2^difficulty, the proof-of-work contributed by a
// single block.
func CalculateWork(difficulty uint32) *big.Int {
	return crypto.CalculateWork(difficulty)
}

// AddOrphan parks block awaiting its parent. If the pool is at capacity,
// expired entries are pruned first; a duplicate orphan is rejected.
func (m *ChainStateManager) AddOrphan(block *chain.Block, now time.Time) bool {
	hash := block.Hash()
	if _, dup := m.orphanPool[hash]; dup {
		return false
	}

	if len(m.orphanPool) >= m.maxOrphans {
		m.pruneExpiredOrphans(now)
	}
	if len(m.orphanPool) >= m.maxOrphans {
		return false
	}

	parent := block.Header.PreviousHash
	o := &Orphan{Block: block, ParentHash: parent, ReceivedAt: now}
	m.orphanPool[hash] = o
	m.orphansByParent[parent] = append(m.orphansByParent[parent], hash)
	return true
}

func (m *ChainStateManager) pruneExpiredOrphans(now time.Time) {
	for hash, o := range m.orphanPool {
		if o.expired(now, m.orphanExpiry) {
			m.removeOrphan(hash)
		}
	}
}

// PruneOrphans removes every orphan whose TTL has elapsed as of now.
func (m *ChainStateManager) PruneOrphans(now time.Time) {
	m.pruneExpiredOrphans(now)
}

func (m *ChainStateManager) removeOrphan(hash chainhash.Hash) {
	o, ok := m.orphanPool[hash]
	if !ok {
		return
	}
	delete(m.orphanPool, hash)

	children := m.orphansByParent[o.ParentHash]
	for i, h := range children {
		if h == hash {
			children = append(children[:i], children[i+1:]...)
			break
		}
	}
	if len(children) == 0 {
		delete(m.orphansByParent, o.ParentHash)
	} else {
		m.orphansByParent[o.ParentHash] = children
	}
}

// OrphansByParent returns, and removes from the pool, every orphan whose
// declared parent is hash.
func (m *ChainStateManager) OrphansByParent(hash chainhash.Hash) []*Orphan {
	children := m.orphansByParent[hash]
	if len(children) == 0 {
		return nil
	}
	out := make([]*Orphan, 0, len(children))
	for _, h := range append([]chainhash.Hash(nil), children...) {
		if o, ok := m.orphanPool[h]; ok {
			out = append(out, o)
			m.removeOrphan(h)
		}
	}
	return out
}

// OrphanCount returns the number of orphans currently parked.
func (m *ChainStateManager) OrphanCount() int {
	return len(m.orphanPool)
}
