// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

// RemovalReason indicates why a transaction left the mempool, tagging the
// log line removeOne emits for each eviction.
type RemovalReason int

const (
	RemovalReasonUnknown RemovalReason = iota
	// RemovalReasonBlock indicates the transaction was mined in a block.
	RemovalReasonBlock
	// RemovalReasonConflict indicates a removal due to a conflicting
	// transaction (including RBF and block-confirmed conflicts).
	RemovalReasonConflict
	// RemovalReasonReorg indicates a removal due to a chain reorg.
	RemovalReasonReorg
	// RemovalReasonEvicted indicates eviction due to mempool limits/expiry.
	RemovalReasonEvicted
	// RemovalReasonRejected indicates explicit validation failure or RPC
	// rejection after temporary admission.
	RemovalReasonRejected
)

func (r RemovalReason) String() string {
	switch r {
	case RemovalReasonBlock:
		return "Block"
	case RemovalReasonConflict:
		return "Conflict"
	case RemovalReasonReorg:
		return "Reorg"
	case RemovalReasonEvicted:
		return "Evicted"
	case RemovalReasonRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}
