// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"sort"
	"sync"
	"time"

	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/chainutil"
	"github.com/flokiorg/flokicoin-core/crypto"
)

// TxDesc wraps a mempool transaction with the bookkeeping needed for
// fee-rate ordering and ancestor/descendant accounting.
type TxDesc struct {
	Tx      *chain.Transaction
	Added   time.Time
	Height  uint64
	Fee     chainutil.Amount
	Size    int
	FeeRate float64 // loki per serialized byte
}

// Mempool is the admission gate for unconfirmed transactions: every entry
// has been validated against the current UTXO view, pays a fee, and has no
// outstanding conflict with any other entry.
type Mempool struct {
	mu  sync.RWMutex
	cfg Config

	txs          map[chainhash.Hash]*TxDesc
	outpointToTx map[chain.Outpoint]chainhash.Hash

	feeEstimator *FeeEstimator
}

// New returns an empty Mempool backed by cfg.View.
func New(cfg Config) *Mempool {
	cfg.setDefaults()
	return &Mempool{
		cfg:          cfg,
		txs:          make(map[chainhash.Hash]*TxDesc),
		outpointToTx: make(map[chain.Outpoint]chainhash.Hash),
		feeEstimator: NewFeeEstimator(DefaultEstimateFeeMaxRollback, DefaultEstimateFeeMinRegisteredBlocks),
	}
}

// Count returns the number of transactions currently held.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return len(mp.txs)
}

// Has reports whether id is currently held.
func (mp *Mempool) Has(id chainhash.Hash) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	_, ok := mp.txs[id]
	return ok
}

// Get returns the descriptor for id, if held.
func (mp *Mempool) Get(id chainhash.Hash) (*TxDesc, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	desc, ok := mp.txs[id]
	return desc, ok
}

// FeeEstimator exposes the estimator fed by confirmed-block statistics.
func (mp *Mempool) FeeEstimator() *FeeEstimator {
	return mp.feeEstimator
}

// conflictsOf returns the distinct ids of pool transactions that spend any
// outpoint also spent by tx, excluding tx itself.
func (mp *Mempool) conflictsOf(tx *chain.Transaction) map[chainhash.Hash]struct{} {
	conflicts := make(map[chainhash.Hash]struct{})
	for _, in := range tx.TxIn {
		if holder, ok := mp.outpointToTx[in.PreviousOutPoint]; ok {
			conflicts[holder] = struct{}{}
		}
	}
	return conflicts
}

// descendantsOf returns every pool transaction that transitively spends an
// output of id.
func (mp *Mempool) descendantsOf(id chainhash.Hash) map[chainhash.Hash]struct{} {
	out := make(map[chainhash.Hash]struct{})
	var walk func(chainhash.Hash)
	walk = func(cur chainhash.Hash) {
		for other, desc := range mp.txs {
			if _, already := out[other]; already {
				continue
			}
			for _, in := range desc.Tx.TxIn {
				if in.PreviousOutPoint.TxID == cur {
					out[other] = struct{}{}
					walk(other)
					break
				}
			}
		}
	}
	walk(id)
	return out
}

// ancestorsOf returns every pool transaction that tx directly or
// transitively spends from.
func (mp *Mempool) ancestorsOf(tx *chain.Transaction) map[chainhash.Hash]struct{} {
	out := make(map[chainhash.Hash]struct{})
	var walk func(*chain.Transaction)
	walk = func(t *chain.Transaction) {
		for _, in := range t.TxIn {
			parentID := in.PreviousOutPoint.TxID
			if _, ok := mp.txs[parentID]; !ok {
				continue
			}
			if _, already := out[parentID]; already {
				continue
			}
			out[parentID] = struct{}{}
			walk(mp.txs[parentID].Tx)
		}
	}
	walk(tx)
	return out
}

// Add validates tx against the current UTXO view and policy limits, and
// inserts it into the pool. A transaction already present is rejected. A
// conflicting transaction is replaced only if tx pays a strictly higher
// absolute fee and a strictly higher fee-rate than the entire conflicting
// set (replace-by-fee); otherwise Add fails and the pool is unchanged.
func (mp *Mempool) Add(tx *chain.Transaction, now time.Time) (*TxDesc, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	id := tx.ID()
	if _, ok := mp.txs[id]; ok {
		return nil, txRuleError(ErrAlreadyInPool, "transaction already in pool")
	}
	if tx.IsCoinbase {
		return nil, txRuleError(ErrStructural, "coinbase transactions are not relayed")
	}
	if err := chain.CheckTransactionSanity(tx); err != nil {
		return nil, txRuleError(ErrStructural, err.Error())
	}

	height := mp.cfg.View.Height()
	maturity := mp.cfg.View.Params().CoinbaseMaturity

	var inputTotal int64
	for _, in := range tx.TxIn {
		entry, ok := mp.cfg.View.UTXOView(in.PreviousOutPoint)
		if !ok {
			return nil, txRuleError(ErrMissingTxOut, "spent output not found in the UTXO view")
		}
		if entry.Coinbase && !blockchain.IsMature(entry.Height, height+1, maturity) {
			return nil, txRuleError(ErrImmatureSpend, "spent output is an immature coinbase")
		}
		if !verifyInputSignature(in, tx.SigningPreimage()) {
			return nil, txRuleError(ErrBadSignature, "input signature does not verify")
		}
		inputTotal += int64(entry.Output.Amount)
	}

	var outputTotal int64
	for _, out := range tx.TxOut {
		outputTotal += int64(out.Amount)
	}
	if inputTotal < outputTotal {
		return nil, txRuleError(ErrSpendTooHigh, "transaction spends more than its inputs provide")
	}
	fee := chainutil.Amount(inputTotal - outputTotal)

	raw, err := tx.Serialize()
	if err != nil {
		return nil, txRuleError(ErrStructural, "transaction does not serialize")
	}
	size := len(raw)
	feeRate := float64(fee) / float64(size)

	conflicts := mp.conflictsOf(tx)
	if len(conflicts) > 0 {
		if err := mp.checkReplacement(conflicts, fee, feeRate); err != nil {
			return nil, err
		}
	}

	ancestors := mp.ancestorsOf(tx)
	if len(ancestors) >= mp.cfg.MaxAncestors {
		return nil, txRuleError(ErrTooManyAncestors, "transaction has too many unconfirmed ancestors")
	}
	for ancestorID := range ancestors {
		if len(mp.descendantsOf(ancestorID))+1 >= mp.cfg.MaxDescendants {
			return nil, txRuleError(ErrTooManyDescendants, "an ancestor already has too many descendants")
		}
	}

	for holder := range conflicts {
		mp.removeOne(holder, RemovalReasonConflict)
		for descendantID := range mp.descendantsOf(holder) {
			mp.removeOne(descendantID, RemovalReasonConflict)
		}
	}

	desc := &TxDesc{
		Tx:      tx,
		Added:   now,
		Height:  height,
		Fee:     fee,
		Size:    size,
		FeeRate: feeRate,
	}
	mp.txs[id] = desc
	for _, in := range tx.TxIn {
		mp.outpointToTx[in.PreviousOutPoint] = id
	}

	log.Debugf("accepted transaction %s (%d loki, %.4f loki/byte)", id, fee, feeRate)
	return desc, nil
}

// checkReplacement enforces replace-by-fee: tx's fee and fee-rate must each
// strictly exceed the sum/max of the conflicting set it would evict.
func (mp *Mempool) checkReplacement(conflicts map[chainhash.Hash]struct{}, newFee chainutil.Amount, newFeeRate float64) error {
	var evictedFee chainutil.Amount
	var maxEvictedRate float64
	evicted := make(map[chainhash.Hash]struct{})
	for id := range conflicts {
		evicted[id] = struct{}{}
		for d := range mp.descendantsOf(id) {
			evicted[d] = struct{}{}
		}
	}
	for id := range evicted {
		desc := mp.txs[id]
		evictedFee += desc.Fee
		if desc.FeeRate > maxEvictedRate {
			maxEvictedRate = desc.FeeRate
		}
	}
	if newFee <= evictedFee || newFeeRate <= maxEvictedRate {
		return txRuleError(ErrReplacementFailed,
			"replacement does not pay a strictly higher fee and fee-rate than the transactions it evicts")
	}
	return nil
}

// removeOne deletes a single transaction from the pool's indices without
// touching its descendants, logging why it left.
func (mp *Mempool) removeOne(id chainhash.Hash, reason RemovalReason) {
	desc, ok := mp.txs[id]
	if !ok {
		return
	}
	for _, in := range desc.Tx.TxIn {
		if mp.outpointToTx[in.PreviousOutPoint] == id {
			delete(mp.outpointToTx, in.PreviousOutPoint)
		}
	}
	delete(mp.txs, id)
	log.Debugf("removed transaction %s: %s", id, reason)
}

// RemoveConfirmed deletes every transaction in ids, implementing
// blockchain.MempoolSink for blocks just connected to the active chain. The
// lowest fee-rate among the confirmed ids this pool had been holding is fed
// to the fee estimator before eviction; ids the pool never held (mined
// elsewhere, or the coinbase) say nothing about market rate and are
// skipped.
func (mp *Mempool) RemoveConfirmed(ids []chainhash.Hash) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var minFeeRate float64
	haveRate := false
	for _, id := range ids {
		if desc, ok := mp.txs[id]; ok {
			if !haveRate || desc.FeeRate < minFeeRate {
				minFeeRate = desc.FeeRate
				haveRate = true
			}
		}
		mp.removeOne(id, RemovalReasonBlock)
	}
	if haveRate {
		mp.feeEstimator.RegisterBlock(minFeeRate)
	}
}

// Reinsert offers txs (returned by a chain disconnection) back into the
// pool, implementing blockchain.MempoolSink. A transaction that now
// conflicts with the new active chain, or that fails re-validation, is
// silently dropped.
func (mp *Mempool) Reinsert(txs []*chain.Transaction) {
	for _, tx := range txs {
		if _, err := mp.Add(tx, time.Now()); err != nil {
			log.Debugf("dropping reinserted transaction %s: %v", tx.ID(), err)
		}
	}
}

// Select returns up to maxCount transactions, ordered by descending
// fee-rate, for a miner to include in a candidate block: a transaction is
// only selected once every mempool ancestor it depends on has already been
// selected, and the running total size never exceeds maxWeight.
func (mp *Mempool) Select(maxCount, maxWeight int) []*chain.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	ordered := make([]*TxDesc, 0, len(mp.txs))
	for _, desc := range mp.txs {
		ordered = append(ordered, desc)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].FeeRate != ordered[j].FeeRate {
			return ordered[i].FeeRate > ordered[j].FeeRate
		}
		return ordered[i].Tx.ID().String() < ordered[j].Tx.ID().String()
	})

	selected := make(map[chainhash.Hash]struct{}, maxCount)
	result := make([]*chain.Transaction, 0, maxCount)
	totalWeight := 0

	var tryAdd func(desc *TxDesc) bool
	tryAdd = func(desc *TxDesc) bool {
		id := desc.Tx.ID()
		if _, ok := selected[id]; ok {
			return true
		}
		if len(result) >= maxCount || totalWeight+desc.Size > maxWeight {
			return false
		}
		for _, in := range desc.Tx.TxIn {
			parentID := in.PreviousOutPoint.TxID
			parent, isPoolParent := mp.txs[parentID]
			if !isPoolParent {
				continue
			}
			if _, already := selected[parentID]; already {
				continue
			}
			if !tryAdd(parent) {
				return false
			}
		}
		selected[id] = struct{}{}
		result = append(result, desc.Tx)
		totalWeight += desc.Size
		return true
	}

	for _, desc := range ordered {
		if len(result) >= maxCount {
			break
		}
		tryAdd(desc)
	}
	return result
}

func verifyInputSignature(in *chain.TxIn, preimage []byte) bool {
	pub, err := crypto.ParsePublicKey(in.PublicKey)
	if err != nil {
		return false
	}
	return crypto.Verify(pub, preimage, in.Signature)
}
