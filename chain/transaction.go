// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain defines the transaction and block domain types and their
// structural validation rules.
package chain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/chainutil"
	"github.com/flokiorg/flokicoin-core/crypto"
	"github.com/flokiorg/flokicoin-core/wire"
)

// CoinbaseOutputIndex is the sentinel sequence number stamped on a coinbase
// transaction's single input; it has no referent and is never looked up in
// the UTXO set.
const CoinbaseOutputIndex = 0xffffffff

// Outpoint identifies a transaction output: the transaction that created it
// and its index within that transaction's output list.
type Outpoint struct {
	TxID  chainhash.Hash `cbor:"1,keyasint"`
	Index uint32         `cbor:"2,keyasint"`
}

// String returns a human-readable "txid:index" representation.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Index)
}

// TxIn is a transaction input: the output it spends plus the signature and
// public key authorizing the spend. A coinbase input carries an empty
// signature and public key.
type TxIn struct {
	PreviousOutPoint Outpoint `cbor:"1,keyasint"`
	Signature        []byte   `cbor:"2,keyasint"`
	PublicKey        []byte   `cbor:"3,keyasint"`
	Sequence         uint32   `cbor:"4,keyasint"`
}

// TxOut is a transaction output: an amount payable to a recipient address.
type TxOut struct {
	Amount    chainutil.Amount `cbor:"1,keyasint"`
	Recipient string           `cbor:"2,keyasint"`
}

// Transaction is the unit of value transfer. Its id is the sha256 digest of
// the canonical serialization of every field except each input's signature;
// the signature itself is computed over that same signature-excluded
// preimage and is carried in the full serialized form but never folded back
// into the id.
type Transaction struct {
	Version    int32    `cbor:"1,keyasint"`
	TxIn       []*TxIn  `cbor:"2,keyasint"`
	TxOut      []*TxOut `cbor:"3,keyasint"`
	LockTime   uint64   `cbor:"4,keyasint"`
	ChainID    uint32   `cbor:"5,keyasint"`
	IsCoinbase bool     `cbor:"6,keyasint"`
}

// SerializeForID returns the canonical, deterministic byte preimage hashed
// to produce the transaction id. Signatures and public keys are excluded so
// that a signature computed over this same preimage does not bind itself.
func (tx *Transaction) SerializeForID() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, tx.Version)
	binary.Write(&buf, binary.BigEndian, uint32(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		buf.Write(in.PreviousOutPoint.TxID[:])
		binary.Write(&buf, binary.BigEndian, in.PreviousOutPoint.Index)
		binary.Write(&buf, binary.BigEndian, in.Sequence)
	}
	binary.Write(&buf, binary.BigEndian, uint32(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		binary.Write(&buf, binary.BigEndian, int64(out.Amount))
		buf.WriteString(out.Recipient)
	}
	binary.Write(&buf, binary.BigEndian, tx.LockTime)
	binary.Write(&buf, binary.BigEndian, tx.ChainID)
	if tx.IsCoinbase {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// ID returns the sha256 digest of SerializeForID.
func (tx *Transaction) ID() chainhash.Hash {
	return crypto.Sha256(tx.SerializeForID())
}

// Serialize returns the full durable encoding of tx, including signatures
// and public keys, suitable for snapshot persistence.
func (tx *Transaction) Serialize() ([]byte, error) {
	return wire.Marshal(tx)
}

// DeserializeTransaction parses the durable encoding produced by Serialize.
func DeserializeTransaction(data []byte) (*Transaction, error) {
	var tx Transaction
	if err := wire.Unmarshal(data, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// SigningPreimage is the exact message signed and verified for each input:
// the sha256 digest of tx's id preimage (every field but signatures/public
// keys). Signing the digest rather than the variable-length preimage itself
// matters here because secp256k1 ECDSA treats any message longer than the
// curve order as though truncated to its leading 32 bytes; signing the raw
// preimage directly would leave everything past that point - most outputs,
// the locktime, the chain id - unbound by the signature.
func (tx *Transaction) SigningPreimage() []byte {
	digest := crypto.Sha256(tx.SerializeForID())
	return digest[:]
}

// NewCoinbase builds the single coinbase transaction for a block at height,
// paying reward to recipient.
func NewCoinbase(height uint64, recipient string, reward chainutil.Amount) *Transaction {
	return &Transaction{
		Version: 1,
		TxIn: []*TxIn{{
			PreviousOutPoint: Outpoint{TxID: chainhash.Hash{}, Index: uint32(height)},
			Sequence:         CoinbaseOutputIndex,
		}},
		TxOut:      []*TxOut{{Amount: reward, Recipient: recipient}},
		IsCoinbase: true,
	}
}

// Errors returned by CheckTransactionSanity.
var (
	ErrNoTxInputs        = errors.New("transaction has no inputs")
	ErrNoTxOutputs       = errors.New("transaction has no outputs")
	ErrDuplicateTxInputs = errors.New("transaction spends the same outpoint twice")
	ErrNegativeOutput    = errors.New("transaction output value is negative")
	ErrOutputOverflow    = errors.New("total output value overflows the maximum supply")
	ErrBadCoinbaseInput  = errors.New("coinbase transaction does not carry the expected single null input")
	ErrCoinbaseMultiOut  = errors.New("coinbase transaction must have exactly one output")
)

// CheckTransactionSanity validates tx's structural invariants in isolation,
// without reference to the UTXO set: non-empty inputs/outputs, no duplicate
// outpoints, output amounts in range, and coinbase shape.
func CheckTransactionSanity(tx *Transaction) error {
	if tx.IsCoinbase {
		if len(tx.TxIn) != 1 {
			return ErrBadCoinbaseInput
		}
		in := tx.TxIn[0]
		if in.PreviousOutPoint.TxID != (chainhash.Hash{}) {
			return ErrBadCoinbaseInput
		}
		if len(tx.TxOut) != 1 {
			return ErrCoinbaseMultiOut
		}
	} else if len(tx.TxIn) == 0 {
		return ErrNoTxInputs
	}

	if len(tx.TxOut) == 0 {
		return ErrNoTxOutputs
	}

	seen := make(map[Outpoint]struct{}, len(tx.TxIn))
	for _, in := range tx.TxIn {
		if _, dup := seen[in.PreviousOutPoint]; dup {
			return ErrDuplicateTxInputs
		}
		seen[in.PreviousOutPoint] = struct{}{}
	}

	var total int64
	for _, out := range tx.TxOut {
		if out.Amount < 0 {
			return ErrNegativeOutput
		}
		total += int64(out.Amount)
		if total < 0 || chainutil.Amount(total) > chainutil.MaxLoki {
			return ErrOutputOverflow
		}
	}

	return nil
}
