// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the fixed-size hash type shared by every block
// and transaction identifier in this module.
package chainhash

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the number of bytes in a hash produced by sha256.
const HashSize = 32

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that does not have the right number of characters.
var ErrHashStrSize = fmt.Errorf("string length must be %d characters", HashSize*2)

// Hash is a 32-byte array used to represent the double-sha256 hash of a
// block header or the id of a transaction.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash, matching how block explorers conventionally display hashes.
func (h Hash) String() string {
	var reversed Hash
	for i, b := range h[:] {
		reversed[HashSize-1-i] = b
	}
	return hex.EncodeToString(reversed[:])
}

// CloneBytes returns a newly allocated copy of the bytes in h.
func (h *Hash) CloneBytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// SetBytes sets the bytes of h to the contents of newHash.
func (h *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return fmt.Errorf("invalid hash length of %d, want %d", len(newHash), HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns whether h and target are the same hash.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil || target == nil {
		return h == target
	}
	return *h == *target
}

// NewHash returns a new Hash from a byte slice.
func NewHash(newHash []byte) (*Hash, error) {
	var h Hash
	if err := h.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &h, nil
}

// NewHashFromStr creates a Hash from a hex hash string, accepting the same
// byte-reversed display convention produced by String.
func NewHashFromStr(hash string) (*Hash, error) {
	if len(hash) != HashSize*2 {
		return nil, ErrHashStrSize
	}
	decoded, err := hex.DecodeString(hash)
	if err != nil {
		return nil, err
	}
	var h Hash
	for i, b := range decoded {
		h[HashSize-1-i] = b
	}
	return &h, nil
}
