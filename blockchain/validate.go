// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sort"
	"time"

	"github.com/flokiorg/flokicoin-core/chain"
	"github.com/flokiorg/flokicoin-core/crypto"
)

// medianTimePast returns the median timestamp of the most recent n blocks
// of the active chain ending at height (inclusive), and the count of
// blocks actually considered.
func (e *Engine) medianTimePast(height uint64, n int) (int64, int) {
	var timestamps []int64
	for i := 0; i < n; i++ {
		if uint64(i) > height {
			break
		}
		h := height - uint64(i)
		hash, ok := e.state.HashAtHeight(h)
		if !ok {
			break
		}
		b, ok := e.blocksByHash[hash]
		if !ok {
			break
		}
		timestamps = append(timestamps, b.Header.Timestamp)
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	if len(timestamps) == 0 {
		return 0, 0
	}
	return timestamps[len(timestamps)/2], len(timestamps)
}

// checkHeaderContext validates a candidate block's timestamp against the
// median-time-past rule: strictly greater than MTP once the active chain is
// at least MTPBlockCount deep, greater-or-equal on shorter chains, and never
// more than MaxFutureBlockTime ahead of now.
func (e *Engine) checkHeaderContext(block *chain.Block, parentHeight uint64, now time.Time) error {
	mtp, considered := e.medianTimePast(parentHeight, e.params.MTPBlockCount)
	if considered > 0 {
		if considered >= e.params.MTPBlockCount {
			if block.Header.Timestamp <= mtp {
				return ruleError(ErrTimeTooOld, fmt.Sprintf(
					"block timestamp %d is not after median time past %d",
					block.Header.Timestamp, mtp))
			}
		} else if block.Header.Timestamp < mtp {
			return ruleError(ErrTimeTooOld, fmt.Sprintf(
				"block timestamp %d is before median time past %d",
				block.Header.Timestamp, mtp))
		}
	}

	maxTime := now.Unix() + e.params.MaxFutureBlockTime
	if block.Header.Timestamp > maxTime {
		return ruleError(ErrTimeTooNew, fmt.Sprintf(
			"block timestamp %d is too far in the future (max %d)",
			block.Header.Timestamp, maxTime))
	}
	return nil
}

// checkHeaderSanity validates the cheap, context-free header checks: proof
// of work and merkle root.
func checkHeaderSanity(block *chain.Block) error {
	if !block.VerifyHash() {
		return ruleError(ErrBadProofOfWork, "block hash does not meet declared difficulty")
	}
	if !block.VerifyMerkleRoot() {
		return ruleError(ErrBadMerkleRoot, "merkle root does not match transactions")
	}
	return nil
}

// verifyInputSignature reports whether in's signature verifies over
// preimage under in's claimed public key. A malformed public key never
// verifies.
func verifyInputSignature(in *chain.TxIn, preimage []byte) bool {
	pub, err := crypto.ParsePublicKey(in.PublicKey)
	if err != nil {
		return false
	}
	return crypto.Verify(pub, preimage, in.Signature)
}

// connectValidation is the full validation performed before a block may
// extend the active chain: structural shape, header context, and every
// input resolving to a mature, unspent, correctly-signed UTXO.
func (e *Engine) connectValidation(block *chain.Block, parent *chain.Block, parentHeight uint64, now time.Time) ([]SpentOutput, error) {
	if block.Index != parentHeight+1 {
		return nil, ruleError(ErrBadBlockHeight, fmt.Sprintf(
			"block height %d does not follow parent height %d", block.Index, parentHeight))
	}
	if block.Header.PreviousHash != parent.Hash() {
		return nil, ruleError(ErrMissingParent, "block previous hash does not match parent")
	}
	if err := checkHeaderSanity(block); err != nil {
		return nil, err
	}
	if err := e.checkHeaderContext(block, parentHeight, now); err != nil {
		return nil, err
	}
	if err := chain.CheckBlockSanity(block); err != nil {
		return nil, err
	}

	var fees int64
	var spent []SpentOutput
	spentWithinBlock := make(map[chain.Outpoint]struct{})

	for _, tx := range block.Transactions {
		if tx.IsCoinbase {
			continue
		}
		if tx.ChainID != 0 && tx.ChainID != e.params.ChainID {
			return nil, ruleError(ErrBadChainID, "transaction chain id does not match network")
		}
		if tx.LockTime > block.Index {
			return nil, ruleError(ErrBadLockTime, "transaction locktime not yet reached")
		}

		var inputTotal int64
		for _, in := range tx.TxIn {
			if _, dup := spentWithinBlock[in.PreviousOutPoint]; dup {
				return nil, ruleError(ErrDoubleSpend, fmt.Sprintf(
					"outpoint %s spent more than once in block", in.PreviousOutPoint))
			}
			spentWithinBlock[in.PreviousOutPoint] = struct{}{}

			entry, ok := e.utxo.Get(in.PreviousOutPoint)
			if !ok {
				return nil, ruleError(ErrMissingTxOut, fmt.Sprintf(
					"output %s spent by transaction is not in the UTXO set", in.PreviousOutPoint))
			}
			if entry.Coinbase && !IsMature(entry.Height, block.Index, e.params.CoinbaseMaturity) {
				return nil, ruleError(ErrImmatureSpend, fmt.Sprintf(
					"output %s spends immature coinbase created at height %d",
					in.PreviousOutPoint, entry.Height))
			}
			if !verifyInputSignature(in, tx.SigningPreimage()) {
				return nil, ruleError(ErrBadSignature, fmt.Sprintf(
					"signature does not verify for input spending %s", in.PreviousOutPoint))
			}

			inputTotal += int64(entry.Output.Amount)
			spent = append(spent, SpentOutput{
				Outpoint: in.PreviousOutPoint,
				Output:   entry.Output,
				Height:   entry.Height,
				Coinbase: entry.Coinbase,
			})
		}

		var outputTotal int64
		for _, out := range tx.TxOut {
			outputTotal += int64(out.Amount)
		}
		if inputTotal < outputTotal {
			return nil, ruleError(ErrSpendTooHigh, fmt.Sprintf(
				"transaction %s spends %d but only has %d in inputs", tx.ID(), outputTotal, inputTotal))
		}
		fees += inputTotal - outputTotal
	}

	if len(block.Transactions) > 0 {
		coinbase := block.Transactions[0]
		var coinbaseOut int64
		for _, out := range coinbase.TxOut {
			coinbaseOut += int64(out.Amount)
		}
		maxAllowed := int64(e.params.BlockReward) + fees
		if coinbaseOut > maxAllowed {
			return nil, ruleError(ErrSpendTooHigh, fmt.Sprintf(
				"coinbase pays %d, more than reward+fees %d", coinbaseOut, maxAllowed))
		}
	}

	return spent, nil
}
