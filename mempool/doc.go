// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mempool provides a policy-enforced pool of unmined flokicoin transactions.

A key responsibility of the flokicoin network is mining user-generated transactions
into blocks.  In order to facilitate this, the mining process relies on having a
readily-available source of transactions to include in a block that is being
solved.

At a high level, this package satisfies that requirement by providing an
in-memory pool of transactions that have each been validated against the
current UTXO view (via the ChainView a Mempool is constructed with) and
against this package's own acceptance policy, ordered by fee-rate for a
miner to draw from.

Since this package does not deal with other flokicoin specifics such as network
communication and transaction relay, it returns the accepted transaction (or
an error) directly to its caller, which gives the caller a high level of
flexibility in how they want to proceed. Typically, this will involve things
such as relaying the transaction to other peers on the network.

# Feature Overview

The following is a quick overview of the major features. It is not intended to
be an exhaustive list.

  - Maintain a pool of validated transactions
    1. Reject duplicate transactions already held
    2. Reject coinbase transactions (never relayed)
    3. Reject structurally invalid transactions (chain.CheckTransactionSanity)
    4. Reject spends of outputs missing from the current UTXO view
    5. Reject spends of an immature coinbase output
    6. Reject a transaction whose input signature does not verify
    7. Reject a transaction that spends more than its inputs provide
    8. Individual transaction query support (Get, Has)
  - Replace-by-fee
    1. A transaction conflicting with one already in the pool replaces it,
    and every transaction descending from it, only if it pays a strictly
    higher absolute fee and a strictly higher fee-rate than the entire
    conflicting set it would evict
  - Ancestor/descendant limits
    1. A transaction with too many unconfirmed ancestors already in the
    pool is rejected (DefaultMaxAncestors)
    2. A transaction is rejected if admitting it would give any ancestor
    too many descendants (DefaultMaxDescendants)
  - Fee-rate estimation
    1. FeeEstimator tracks the minimum fee-rate paid by any non-coinbase
    transaction in each of the most recently connected blocks
    2. RemoveConfirmed feeds it automatically as blocks connect
  - Additional metadata tracking for each transaction (TxDesc)
    1. Timestamp when the transaction was added to the pool
    2. Most recent block height when the transaction was added to the pool
    3. The fee the transaction pays and its fee-rate
    4. Its serialized size
  - Transaction removal
    1. RemoveConfirmed removes exactly the listed transactions; a
    replace-by-fee eviction also removes every descendant of the replaced
    transaction
    2. Each removal is tagged with a RemovalReason (Block, Conflict, Reorg,
    Evicted, Rejected) for logging

This package has no script interpreter, no orphan-transaction pool, no
priority calculation, and no rate limiting of low-fee transactions: none of
those are part of this network's transaction or acceptance model.

# Errors

Errors returned by Add are of type mempool.TxRuleError, whose ErrorCode field
identifies the specific acceptance-policy rule that was violated (see
TxErrorCode). A structural failure detected by chain.CheckTransactionSanity is
reported as ErrStructural with the underlying error's message as its
description; every other rejection reason (ErrAlreadyInPool,
ErrMissingTxOut, ErrImmatureSpend, ErrBadSignature, ErrSpendTooHigh,
ErrReplacementFailed, ErrTooManyAncestors, ErrTooManyDescendants) is raised
directly against the policy check that failed. Callers differentiate
rejection reasons by asserting the returned error to TxRuleError and
examining ErrorCode.
*/
package mempool
