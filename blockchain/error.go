// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a category of rule violation returned while
// processing a block or a transaction input against chain state.
type ErrorCode int

const (
	// ErrDuplicateBlock indicates a block that has already been processed.
	ErrDuplicateBlock ErrorCode = iota

	// ErrMissingParent indicates the block's previous hash is not in the
	// block index.
	ErrMissingParent

	// ErrBadProofOfWork indicates the block hash does not meet its
	// declared difficulty.
	ErrBadProofOfWork

	// ErrBadMerkleRoot indicates a mismatch between the declared and
	// recomputed merkle root.
	ErrBadMerkleRoot

	// ErrBadBlockHeight indicates the block's index does not equal its
	// parent's index plus one.
	ErrBadBlockHeight

	// ErrTimeTooOld indicates the block's timestamp is not after the
	// median time of the preceding window.
	ErrTimeTooOld

	// ErrTimeTooNew indicates the block's timestamp is too far in the
	// future.
	ErrTimeTooNew

	// ErrMissingCoinbase indicates the first transaction is not a
	// coinbase, or a non-first transaction is a coinbase.
	ErrMissingCoinbase

	// ErrMissingTxOut indicates a transaction input spends an outpoint
	// that is not in the UTXO set.
	ErrMissingTxOut

	// ErrImmatureSpend indicates a transaction input spends a coinbase
	// output that has not yet reached maturity.
	ErrImmatureSpend

	// ErrDoubleSpend indicates two inputs within a candidate block spend
	// the same outpoint.
	ErrDoubleSpend

	// ErrBadSignature indicates a transaction input's signature does not
	// verify against the claimed public key.
	ErrBadSignature

	// ErrSpendTooHigh indicates a transaction's outputs exceed its inputs
	// plus, for a coinbase, the block subsidy.
	ErrSpendTooHigh

	// ErrBadChainID indicates a transaction's chain id does not match the
	// configured network.
	ErrBadChainID

	// ErrBadLockTime indicates a transaction's locktime has not yet been
	// reached.
	ErrBadLockTime
)

var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:   "ErrDuplicateBlock",
	ErrMissingParent:    "ErrMissingParent",
	ErrBadProofOfWork:   "ErrBadProofOfWork",
	ErrBadMerkleRoot:    "ErrBadMerkleRoot",
	ErrBadBlockHeight:   "ErrBadBlockHeight",
	ErrTimeTooOld:       "ErrTimeTooOld",
	ErrTimeTooNew:       "ErrTimeTooNew",
	ErrMissingCoinbase:  "ErrMissingCoinbase",
	ErrMissingTxOut:     "ErrMissingTxOut",
	ErrImmatureSpend:    "ErrImmatureSpend",
	ErrDoubleSpend:      "ErrDoubleSpend",
	ErrBadSignature:     "ErrBadSignature",
	ErrSpendTooHigh:     "ErrSpendTooHigh",
	ErrBadChainID:       "ErrBadChainID",
	ErrBadLockTime:      "ErrBadLockTime",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation encountered while validating a
// block or transaction against chain state. It carries sufficient
// information for a caller to translate the failure into peer-scoring or a
// user-visible response, per the Structural/Consensus error categories.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
