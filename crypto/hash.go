// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package crypto provides the hashing, merkle, difficulty, and signature
// primitives consumed by the blockchain, mempool, and contract packages.
// Signing and verification are delegated to decred's secp256k1
// implementation; nothing here invents a cryptographic primitive.
package crypto

import (
	"crypto/sha256"
	"math/big"

	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
)

// Sha256 returns the single sha256 digest of data.
func Sha256(data []byte) chainhash.Hash {
	return sha256.Sum256(data)
}

// DoubleSha256 returns sha256(sha256(data)).
func DoubleSha256(data []byte) chainhash.Hash {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// MeetsDifficulty reports whether the first bits many most-significant bits
// of h are all zero.
func MeetsDifficulty(h chainhash.Hash, bits uint32) bool {
	full := bits / 8
	rem := bits % 8
	for i := uint32(0); i < full; i++ {
		if h[i] != 0 {
			return false
		}
	}
	if rem == 0 {
		return true
	}
	mask := byte(0xff << (8 - rem))
	return h[full]&mask == 0
}

// CalculateWork returns the proof-of-work contributed by a block mined at
// the given difficulty: 2^difficulty, with difficulty clamped to 127 bits so
// a chain of adversarial length still accumulates in a single wide integer.
func CalculateWork(difficulty uint32) *big.Int {
	if difficulty > 127 {
		difficulty = 127
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(difficulty))
}
