// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"

	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/crypto"
	"github.com/flokiorg/flokicoin-core/wire"
)

// BlockHeader carries everything needed to recompute a block's hash and
// verify its proof of work, independent of the transactions it commits to.
type BlockHeader struct {
	PreviousHash chainhash.Hash `cbor:"1,keyasint"`
	MerkleRoot   chainhash.Hash `cbor:"2,keyasint"`
	Timestamp    int64          `cbor:"3,keyasint"`
	Difficulty   uint32         `cbor:"4,keyasint"`
	Nonce        uint64         `cbor:"5,keyasint"`
}

// SerializeForHash returns the canonical byte preimage hashed to produce
// the block hash.
func (h *BlockHeader) SerializeForHash() []byte {
	var buf bytes.Buffer
	buf.Write(h.PreviousHash[:])
	buf.Write(h.MerkleRoot[:])
	binary.Write(&buf, binary.BigEndian, h.Timestamp)
	binary.Write(&buf, binary.BigEndian, h.Difficulty)
	binary.Write(&buf, binary.BigEndian, h.Nonce)
	return buf.Bytes()
}

// Hash returns DoubleSha256(SerializeForHash()).
func (h *BlockHeader) Hash() chainhash.Hash {
	return crypto.DoubleSha256(h.SerializeForHash())
}

// Block is a header plus its committed transaction list, height, and cached
// hash. Index is the block's height: genesis is 0, every other block is its
// parent's Index+1.
type Block struct {
	Index        uint64         `cbor:"1,keyasint"`
	Header       BlockHeader    `cbor:"2,keyasint"`
	Transactions []*Transaction `cbor:"3,keyasint"`
	hash         chainhash.Hash
	hashValid    bool
}

// NewBlock builds an unmined block extending previousHash at height index.
func NewBlock(index uint64, previousHash chainhash.Hash, txs []*Transaction, difficulty uint32) *Block {
	merkle := MerkleRootOf(txs)
	return &Block{
		Index: index,
		Header: BlockHeader{
			PreviousHash: previousHash,
			MerkleRoot:   merkle,
			Timestamp:    time.Now().Unix(),
			Difficulty:   difficulty,
		},
		Transactions: txs,
	}
}

// MerkleRootOf computes the merkle root over the ids of txs, in list order.
func MerkleRootOf(txs []*Transaction) chainhash.Hash {
	ids := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID()
	}
	return crypto.MerkleRoot(ids)
}

// Hash returns the block's double-sha256 header hash, computed once and
// cached. Callers must not mutate Header after the first call to Hash.
func (b *Block) Hash() chainhash.Hash {
	if !b.hashValid {
		b.hash = b.Header.Hash()
		b.hashValid = true
	}
	return b.hash
}

// ErrAttemptsExhausted is returned by Mine when maxAttempts nonces are tried
// without finding one that meets the declared difficulty.
var ErrAttemptsExhausted = errors.New("exhausted nonce search without meeting difficulty")

// Mine searches nonces starting at 0 until the header hash meets its
// declared difficulty, or maxAttempts is reached (0 means unbounded). It
// returns the number of attempts made.
func (b *Block) Mine(maxAttempts uint64) (uint64, error) {
	var attempts uint64
	for nonce := uint64(0); maxAttempts == 0 || attempts < maxAttempts; nonce++ {
		b.Header.Nonce = nonce
		b.hashValid = false
		attempts++
		if crypto.MeetsDifficulty(b.Hash(), b.Header.Difficulty) {
			return attempts, nil
		}
	}
	return attempts, ErrAttemptsExhausted
}

// VerifyHash reports whether the header's recomputed hash matches the
// cached hash and meets the declared difficulty.
func (b *Block) VerifyHash() bool {
	recomputed := b.Header.Hash()
	return recomputed == b.Hash() && crypto.MeetsDifficulty(recomputed, b.Header.Difficulty)
}

// VerifyMerkleRoot reports whether the header's merkle root matches the
// root recomputed from the block's transaction ids.
func (b *Block) VerifyMerkleRoot() bool {
	return b.Header.MerkleRoot == MerkleRootOf(b.Transactions)
}

// Serialize returns the full durable encoding of b.
func (b *Block) Serialize() ([]byte, error) {
	return wire.Marshal(b)
}

// DeserializeBlock parses the durable encoding produced by Serialize.
func DeserializeBlock(data []byte) (*Block, error) {
	var b Block
	if err := wire.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

var (
	ErrEmptyBlock          = errors.New("block has no transactions")
	ErrFirstTxNotCoinbase  = errors.New("first transaction is not a coinbase")
	ErrSecondCoinbase      = errors.New("block contains more than one coinbase transaction")
	ErrBadMerkleRoot       = errors.New("merkle root does not match transactions")
	ErrDuplicateTx         = errors.New("block contains duplicate transaction ids")
	ErrBadProofOfWork      = errors.New("block hash does not meet declared difficulty")
)

// CheckBlockSanity validates b's structural invariants in isolation, without
// reference to chain state: non-empty transaction list, coinbase-first
// shape, no duplicate transaction ids, valid merkle root, valid proof of
// work, and every individual transaction's own sanity.
func CheckBlockSanity(b *Block) error {
	if len(b.Transactions) == 0 {
		return ErrEmptyBlock
	}
	if !b.Transactions[0].IsCoinbase {
		return ErrFirstTxNotCoinbase
	}
	seen := make(map[chainhash.Hash]struct{}, len(b.Transactions))
	for i, tx := range b.Transactions {
		if i > 0 && tx.IsCoinbase {
			return ErrSecondCoinbase
		}
		if err := CheckTransactionSanity(tx); err != nil {
			return err
		}
		id := tx.ID()
		if _, dup := seen[id]; dup {
			return ErrDuplicateTx
		}
		seen[id] = struct{}{}
	}
	if !b.VerifyMerkleRoot() {
		return ErrBadMerkleRoot
	}
	if !b.VerifyHash() {
		return ErrBadProofOfWork
	}
	return nil
}
