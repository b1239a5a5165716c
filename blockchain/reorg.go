// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"time"

	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
)

// findForkChain walks backward from tip via PreviousHash, collecting the
// candidate chain segment until it reaches a block already on the active
// chain, and returns that segment in connect order (oldest first) along
// with the fork height (the height of the shared ancestor).
func (e *Engine) findForkChain(tip *chain.Block) ([]*chain.Block, uint64, error) {
	var segment []*chain.Block
	cur := tip
	for {
		height, ok := e.state.HeightOf(cur.Hash())
		if !ok {
			return nil, 0, ruleError(ErrMissingParent, "candidate chain references an unindexed block")
		}
		if onActive, _ := e.state.HashAtHeight(height); onActive == cur.Hash() {
			reversed := make([]*chain.Block, len(segment))
			for i, b := range segment {
				reversed[len(segment)-1-i] = b
			}
			return reversed, height, nil
		}

		segment = append(segment, cur)

		parent, ok := e.blocksByHash[cur.Header.PreviousHash]
		if !ok {
			return nil, 0, ruleError(ErrMissingParent, "candidate chain parent is unknown")
		}
		cur = parent
	}
}

// disconnectTip reverses the UTXO effect of the active tip using its undo
// record, returning every non-coinbase transaction it contained so it can
// be offered back to the mempool.
func (e *Engine) disconnectTip() ([]*chain.Transaction, error) {
	tip, ok := e.state.ActiveTip()
	if !ok {
		return nil, fmt.Errorf("no active tip to disconnect")
	}
	block, ok := e.blocksByHash[tip.Hash]
	if !ok {
		return nil, fmt.Errorf("active tip block body missing")
	}
	undo, ok := e.state.UndoData(tip.Hash)
	if !ok {
		return nil, fmt.Errorf("missing undo record for %s", tip.Hash)
	}

	for _, tx := range block.Transactions {
		id := tx.ID()
		for i := range tx.TxOut {
			e.utxo.Spend(chain.Outpoint{TxID: id, Index: uint32(i)})
		}
		if tx.IsCoinbase {
			delete(e.coinbaseHeights, id)
		}
	}
	for _, spent := range undo.SpentOutputs {
		e.utxo.Add(spent.Outpoint, spent.Output, spent.Height, spent.Coinbase)
	}

	parentHeight := tip.Height - 1
	parentHash := block.Header.PreviousHash
	parentWork, _ := e.state.Work(parentHash)

	e.state.ClearActiveHeight(tip.Height)
	e.state.RemoveTip(tip.Hash)
	if parentWork != nil {
		e.state.SetActiveTip(parentHash, parentHeight, parentWork)
	}
	e.height = parentHeight

	var returned []*chain.Transaction
	for _, tx := range block.Transactions {
		if !tx.IsCoinbase {
			returned = append(returned, tx)
		}
	}
	return returned, nil
}

// reorganize replaces the active chain's suffix from the fork point with
// the chain ending at newTip, which has strictly greater cumulative work.
// The operation is all-or-nothing: if any reconnection step fails, every
// disconnected block is reconnected and the original active tip restored
// before the error is returned.
func (e *Engine) reorganize(newTip *chain.Block, now time.Time) (disconnectedCount, connectedCount int, retErr error) {
	segment, forkHeight, err := e.findForkChain(newTip)
	if err != nil {
		return 0, 0, err
	}

	originalTip, _ := e.state.ActiveTip()

	var disconnectedBlocks []*chain.Block
	var returnedTxs []*chain.Transaction

	for e.height > forkHeight {
		tip, _ := e.state.ActiveTip()
		block := e.blocksByHash[tip.Hash]
		txs, err := e.disconnectTip()
		if err != nil {
			e.rollbackReorg(disconnectedBlocks, originalTip)
			return 0, 0, err
		}
		disconnectedBlocks = append(disconnectedBlocks, block)
		returnedTxs = append(returnedTxs, txs...)
		e.publish(Event{Type: EventBlockDisconnected, Block: block})
	}

	for _, block := range segment {
		parentHash := block.Header.PreviousHash
		parentHeight := block.Index - 1
		parent := e.blocksByHash[parentHash]

		spent, err := e.connectValidation(block, parent, parentHeight, now)
		if err != nil {
			for e.height > forkHeight {
				if _, derr := e.disconnectTip(); derr != nil {
					break
				}
			}
			e.rollbackReorg(disconnectedBlocks, originalTip)
			return 0, 0, err
		}
		e.state.RemoveTip(block.Hash())
		e.connectBlock(block, spent)
	}

	confirmedIDs := make(map[chainhash.Hash]struct{})
	for _, block := range segment {
		for _, tx := range block.Transactions {
			confirmedIDs[tx.ID()] = struct{}{}
		}
	}
	var toReinsert []*chain.Transaction
	for _, tx := range returnedTxs {
		if _, confirmed := confirmedIDs[tx.ID()]; !confirmed {
			toReinsert = append(toReinsert, tx)
		}
	}
	if e.sink != nil && len(toReinsert) > 0 {
		e.sink.Reinsert(toReinsert)
	}

	e.publish(Event{Type: EventReorg, Block: newTip})

	return len(disconnectedBlocks), len(segment), nil
}

// rollbackReorg restores the engine to its state before a failed
// reorganization attempt: every disconnected block (newest first in
// disconnectedBlocks as collected, so replayed oldest-first here) is
// reconnected and the original tip restored.
func (e *Engine) rollbackReorg(disconnectedBlocks []*chain.Block, originalTip *ChainTip) {
	for i := len(disconnectedBlocks) - 1; i >= 0; i-- {
		block := disconnectedBlocks[i]
		parent := e.blocksByHash[block.Header.PreviousHash]
		spent, err := e.connectValidation(block, parent, block.Index-1, time.Unix(block.Header.Timestamp, 0))
		if err != nil {
			log.Criticalf("reorg rollback failed to reconnect block %s: %v", block.Hash(), err)
			continue
		}
		e.connectBlock(block, spent)
	}
	if originalTip != nil {
		e.state.SetActiveTip(originalTip.Hash, originalTip.Height, originalTip.CumulativeWork)
	}
}
