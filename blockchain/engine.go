// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"sync"
	"time"

	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg"
	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/chainutil"
)

// Outcome is the tagged result of processing one block, returned instead of
// an error so callers translate it into peer-scoring or a user-visible
// response themselves.
type Outcome int

const (
	Duplicate Outcome = iota
	AddedToMainChain
	AddedAsOrphan
	CausedReorg
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Duplicate:
		return "Duplicate"
	case AddedToMainChain:
		return "AddedToMainChain"
	case AddedAsOrphan:
		return "AddedAsOrphan"
	case CausedReorg:
		return "CausedReorg"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Result carries the outcome of ProcessBlock plus whatever detail it
// implies: the error for Invalid, or the disconnected/connected counts for
// CausedReorg.
type Result struct {
	Outcome      Outcome
	Err          error
	Disconnected int
	Connected    int
}

// MempoolSink receives transactions evicted from or returned to the
// mempool by chain reorganizations and confirmations. blockchain does not
// import the mempool package; a host binary wires a concrete mempool in via
// SetMempoolSink.
type MempoolSink interface {
	Reinsert(txs []*chain.Transaction)
	RemoveConfirmed(ids []chainhash.Hash)
}

// EventType distinguishes the events published on an Engine's broadcast
// channel.
type EventType int

const (
	EventBlockConnected EventType = iota
	EventBlockDisconnected
	EventReorg
)

// Event is one entry on an Engine's broadcast channel.
type Event struct {
	Type  EventType
	Block *chain.Block
}

const broadcastBufferSize = 64

// Engine is the blockchain consensus engine: the single owned aggregate
// guarded by a single-writer/multi-reader lock. Every mutation - block
// connection, disconnection, and reorganization - takes the write lock;
// every read takes the read lock and observes a consistent snapshot.
type Engine struct {
	mu sync.RWMutex

	params *chaincfg.Params
	state  *ChainStateManager
	utxo   *UTXOSet

	coinbaseHeights map[chainhash.Hash]uint64
	blocksByHash    map[chainhash.Hash]*chain.Block

	height     uint64
	difficulty uint32

	sink MempoolSink

	subscribers []chan Event
}

// NewEngine returns an Engine seeded with the genesis block for params.
func NewEngine(params *chaincfg.Params) *Engine {
	e := &Engine{
		params:          params,
		state:           NewChainStateManager(params.MaxOrphanBlocks, params.OrphanExpiry),
		utxo:            NewUTXOSet(),
		coinbaseHeights: make(map[chainhash.Hash]uint64),
		blocksByHash:    make(map[chainhash.Hash]*chain.Block),
		difficulty:      params.GenesisDifficulty,
	}

	genesis := chaincfg.GenesisBlock(params)
	e.connectGenesis(genesis)
	return e
}

func (e *Engine) connectGenesis(block *chain.Block) {
	hash := block.Hash()
	e.blocksByHash[hash] = block
	e.state.IndexBlock(hash, 0)
	e.state.SetActiveHeight(0, hash)
	e.applyBlockUTXOs(block)
	work := CalculateWork(block.Header.Difficulty)
	e.state.SetWork(hash, work)
	e.state.SetActiveTip(hash, 0, work)
	e.height = 0
}

// SetMempoolSink wires a mempool so reorganizations and confirmations can
// push transactions back into or out of it.
func (e *Engine) SetMempoolSink(sink MempoolSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// Subscribe returns a channel of future events. A slow subscriber never
// blocks the engine: events that cannot be delivered immediately are
// dropped for that subscriber.
func (e *Engine) Subscribe() <-chan Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := make(chan Event, broadcastBufferSize)
	e.subscribers = append(e.subscribers, ch)
	return ch
}

func (e *Engine) publish(ev Event) {
	for _, ch := range e.subscribers {
		select {
		case ch <- ev:
		default:
			log.Debugf("dropping event for slow subscriber")
		}
	}
}

// ProcessBlock runs the admission decision tree against block: duplicate
// detection, cheap header validation, extension of the active tip,
// side-chain recording with reorganization on greater cumulative work, or
// parking as an orphan when the parent is unknown.
func (e *Engine) ProcessBlock(block *chain.Block) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processBlockLocked(block, time.Now())
}

func (e *Engine) processBlockLocked(block *chain.Block, now time.Time) Result {
	hash := block.Hash()

	if e.state.HasBlock(hash) {
		return Result{Outcome: Duplicate}
	}

	if err := checkHeaderSanity(block); err != nil {
		return Result{Outcome: Invalid, Err: err}
	}

	activeTip, haveTip := e.state.ActiveTip()

	if haveTip && block.Header.PreviousHash == activeTip.Hash {
		parent := e.blocksByHash[activeTip.Hash]
		spent, err := e.connectValidation(block, parent, activeTip.Height, now)
		if err != nil {
			return Result{Outcome: Invalid, Err: err}
		}

		e.connectBlock(block, spent)
		e.processOrphansOf(hash, now)

		if (block.Index+1)%e.params.RetargetInterval == 0 {
			e.retarget(block.Index)
		}

		return Result{Outcome: AddedToMainChain}
	}

	parentHeight, parentKnown := e.state.HeightOf(block.Header.PreviousHash)
	if parentKnown {
		parentWork, _ := e.state.Work(block.Header.PreviousHash)
		if parentWork == nil {
			parentWork = big.NewInt(0)
		}
		hypothetical := new(big.Int).Add(parentWork, CalculateWork(block.Header.Difficulty))

		e.blocksByHash[hash] = block
		e.state.IndexBlock(hash, parentHeight+1)
		e.state.SetWork(hash, hypothetical)

		if !haveTip || hypothetical.Cmp(activeTip.CumulativeWork) > 0 {
			disconnected, connected, err := e.reorganize(block, now)
			if err != nil {
				return Result{Outcome: Invalid, Err: err}
			}
			return Result{Outcome: CausedReorg, Disconnected: disconnected, Connected: connected}
		}

		e.state.RecordSideTip(hash, parentHeight+1, hypothetical)
		return Result{Outcome: AddedToMainChain}
	}

	if e.state.AddOrphan(block, now) {
		return Result{Outcome: AddedAsOrphan}
	}
	return Result{Outcome: Invalid, Err: ruleError(ErrMissingParent, "orphan pool full or duplicate")}
}

// connectBlock applies block's UTXO effects, stores its undo record, and
// advances the active chain in place (block.Header.PreviousHash is already
// known to equal the current active tip).
func (e *Engine) connectBlock(block *chain.Block, spent []SpentOutput) {
	hash := block.Hash()

	e.applyBlockUTXOs(block)

	addedIDs := make([]chainhash.Hash, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		addedIDs = append(addedIDs, tx.ID())
	}
	e.state.StoreUndoData(&UndoRecord{BlockHash: hash, SpentOutputs: spent, AddedTxIDs: addedIDs})

	e.blocksByHash[hash] = block
	e.state.IndexBlock(hash, block.Index)
	e.state.SetActiveHeight(block.Index, hash)

	work := CalculateWork(block.Header.Difficulty)
	parentWork, _ := e.state.Work(block.Header.PreviousHash)
	if parentWork == nil {
		parentWork = big.NewInt(0)
	}
	total := new(big.Int).Add(parentWork, work)
	e.state.SetWork(hash, total)
	e.state.SetActiveTip(hash, block.Index, total)
	e.height = block.Index

	if e.sink != nil {
		confirmed := make([]chainhash.Hash, 0, len(block.Transactions))
		for _, tx := range block.Transactions {
			confirmed = append(confirmed, tx.ID())
		}
		e.sink.RemoveConfirmed(confirmed)
	}

	e.publish(Event{Type: EventBlockConnected, Block: block})
}

// applyBlockUTXOs spends every input and creates every output of block's
// transactions, and records coinbase heights for maturity tracking.
func (e *Engine) applyBlockUTXOs(block *chain.Block) {
	for _, tx := range block.Transactions {
		if !tx.IsCoinbase {
			for _, in := range tx.TxIn {
				e.utxo.Spend(in.PreviousOutPoint)
			}
		}
		id := tx.ID()
		for i, out := range tx.TxOut {
			op := chain.Outpoint{TxID: id, Index: uint32(i)}
			e.utxo.Add(op, *out, block.Index, tx.IsCoinbase)
		}
		if tx.IsCoinbase {
			e.coinbaseHeights[id] = block.Index
		}
	}
}

// processOrphansOf recursively feeds every orphan whose declared parent is
// hash back into the decision tree, adopting orphaned ranges as their
// missing ancestor arrives.
func (e *Engine) processOrphansOf(hash chainhash.Hash, now time.Time) {
	for _, o := range e.state.OrphansByParent(hash) {
		res := e.processBlockLocked(o.Block, now)
		if res.Outcome == AddedToMainChain {
			e.processOrphansOf(o.Block.Hash(), now)
		}
	}
}

// retarget recomputes e.difficulty after connecting the block at height
// lastHeight, which completes a retarget interval.
func (e *Engine) retarget(lastHeight uint64) {
	interval := e.params.RetargetInterval
	if lastHeight+1 < interval {
		return
	}
	lastHash, ok := e.state.HashAtHeight(lastHeight)
	if !ok {
		return
	}
	firstHash, ok := e.state.HashAtHeight(lastHeight + 1 - interval)
	if !ok {
		return
	}
	last := e.blocksByHash[lastHash]
	first := e.blocksByHash[firstHash]
	if last == nil || first == nil {
		return
	}

	actual := last.Header.Timestamp - first.Header.Timestamp
	target := e.params.TargetBlockTime * int64(interval)

	e.difficulty = calcNextDifficulty(e.difficulty, actual, target, e.params.MinDifficulty, e.params.MaxDifficulty)
}

// CurrentDifficulty returns the difficulty a new block should be mined at.
func (e *Engine) CurrentDifficulty() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.difficulty
}

// Height returns the active chain's tip height.
func (e *Engine) Height() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.height
}

// ActiveTipHash returns the active chain's tip hash.
func (e *Engine) ActiveTipHash() chainhash.Hash {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tip, _ := e.state.ActiveTip()
	if tip == nil {
		return chainhash.Hash{}
	}
	return tip.Hash
}

// Stats aggregates the commonly used summary of engine state.
type Stats struct {
	Height         uint64
	ActiveTipHash  chainhash.Hash
	CumulativeWork *big.Int
	OrphanCount    int
	Difficulty     uint32
}

// Stats returns a snapshot summary of the engine.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tip, _ := e.state.ActiveTip()
	var work *big.Int
	var hash chainhash.Hash
	if tip != nil {
		work = tip.CumulativeWork
		hash = tip.Hash
	} else {
		work = big.NewInt(0)
	}
	return Stats{
		Height:         e.height,
		ActiveTipHash:  hash,
		CumulativeWork: work,
		OrphanCount:    e.state.OrphanCount(),
		Difficulty:     e.difficulty,
	}
}

// BalanceOf returns the total value of every unspent output paying addr,
// mature or not.
func (e *Engine) BalanceOf(addr string) chainutil.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.utxo.BalanceOf(addr)
}

// SpendableBalanceOf returns the value of addr's unspent outputs that are
// either non-coinbase or mature as of the current chain height.
func (e *Engine) SpendableBalanceOf(addr string) chainutil.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.utxo.SpendableBalanceOf(addr, e.height, e.params.CoinbaseMaturity)
}

// ImmatureBalanceOf returns the value of addr's unspent coinbase outputs
// that have not yet reached maturity.
func (e *Engine) ImmatureBalanceOf(addr string) chainutil.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.utxo.ImmatureBalanceOf(addr, e.height, e.params.CoinbaseMaturity)
}

// UTXOView exposes a read-only lookup into the current UTXO set for the
// mempool's admission checks.
func (e *Engine) UTXOView(op chain.Outpoint) (*UTXOEntry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.utxo.Get(op)
}

// Params returns the network parameters this engine was constructed with.
func (e *Engine) Params() *chaincfg.Params {
	return e.params
}

// ExportBlocks returns every active-chain block from genesis to the current
// tip, ordered by height, for the snapshot contract: a persistence layer
// need only durably store this slice plus CurrentDifficulty to be able to
// rebuild identical engine state via Rebuild.
func (e *Engine) ExportBlocks() []*chain.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	blocks := make([]*chain.Block, 0, e.height+1)
	for h := uint64(0); h <= e.height; h++ {
		hash, ok := e.state.HashAtHeight(h)
		if !ok {
			break
		}
		blocks = append(blocks, e.blocksByHash[hash])
	}
	return blocks
}

// Rebuild constructs a fresh Engine for params and replays blocks (as
// produced by a prior ExportBlocks, genesis first) onto it, re-deriving the
// UTXO set, chain work, block and height indices, coinbase heights, and
// chain tips purely from block connection. blocks[0] must be params'
// genesis block; it is skipped since NewEngine already seeds it.
func Rebuild(params *chaincfg.Params, blocks []*chain.Block) (*Engine, error) {
	e := NewEngine(params)
	for i, block := range blocks {
		if i == 0 {
			continue // genesis is seeded by NewEngine
		}
		result := e.ProcessBlock(block)
		if result.Outcome == Invalid {
			return nil, result.Err
		}
	}
	return e, nil
}
