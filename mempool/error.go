// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "fmt"

// TxErrorCode identifies the specific acceptance-policy rule a transaction
// violated.
type TxErrorCode int

const (
	ErrAlreadyInPool TxErrorCode = iota
	ErrMissingTxOut
	ErrImmatureSpend
	ErrBadSignature
	ErrSpendTooHigh
	ErrReplacementFailed
	ErrTooManyAncestors
	ErrTooManyDescendants
	ErrStructural
)

var txErrorCodeStrings = map[TxErrorCode]string{
	ErrAlreadyInPool:      "ErrAlreadyInPool",
	ErrMissingTxOut:       "ErrMissingTxOut",
	ErrImmatureSpend:      "ErrImmatureSpend",
	ErrBadSignature:       "ErrBadSignature",
	ErrSpendTooHigh:       "ErrSpendTooHigh",
	ErrReplacementFailed:  "ErrReplacementFailed",
	ErrTooManyAncestors:   "ErrTooManyAncestors",
	ErrTooManyDescendants: "ErrTooManyDescendants",
	ErrStructural:         "ErrStructural",
}

func (c TxErrorCode) String() string {
	if s, ok := txErrorCodeStrings[c]; ok {
		return s
	}
	return "Unknown TxErrorCode"
}

// TxRuleError is returned by Add when a transaction fails a mempool
// acceptance-policy rule, as distinct from a consensus rule violation
// (blockchain.RuleError). Err carries an optional underlying cause; Add sets
// only ErrorCode and Description, so Err is nil in the errors it returns.
type TxRuleError struct {
	ErrorCode   TxErrorCode
	Description string
	Err         error
}

func (e TxRuleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reject tx: %s: %v", e.Description, e.Err)
	}
	return fmt.Sprintf("reject tx: %s", e.Description)
}

func (e TxRuleError) Unwrap() error { return e.Err }

func txRuleError(c TxErrorCode, desc string) TxRuleError {
	return TxRuleError{ErrorCode: c, Description: desc}
}
