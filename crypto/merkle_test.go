// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/crypto"
)

func makeHashes(labels ...string) []chainhash.Hash {
	out := make([]chainhash.Hash, len(labels))
	for i, l := range labels {
		out[i] = crypto.Sha256([]byte(l))
	}
	return out
}

func TestMerkleRootEmpty(t *testing.T) {
	require.Equal(t, crypto.Sha256(nil), crypto.MerkleRoot(nil))
}

func TestMerkleRootSingle(t *testing.T) {
	hashes := makeHashes("tx1")
	require.Equal(t, hashes[0], crypto.MerkleRoot(hashes))
}

func TestMerkleRootTwo(t *testing.T) {
	hashes := makeHashes("tx1", "tx2")
	var buf [64]byte
	copy(buf[:32], hashes[0][:])
	copy(buf[32:], hashes[1][:])
	expected := crypto.Sha256(buf[:])
	require.Equal(t, expected, crypto.MerkleRoot(hashes))
}

func TestMerkleRootOddDuplicatesLast(t *testing.T) {
	hashes := makeHashes("tx1", "tx2", "tx3")
	pair := func(a, b chainhash.Hash) chainhash.Hash {
		var buf [64]byte
		copy(buf[:32], a[:])
		copy(buf[32:], b[:])
		return crypto.Sha256(buf[:])
	}
	expected := pair(pair(hashes[0], hashes[1]), pair(hashes[2], hashes[2]))
	require.Equal(t, expected, crypto.MerkleRoot(hashes))
}

func TestMerkleProofRoundTrip(t *testing.T) {
	hashes := makeHashes("tx1", "tx2", "tx3", "tx4", "tx5")
	root := crypto.MerkleRoot(hashes)

	for i := range hashes {
		proof, ok := crypto.BuildMerkleProof(hashes, i)
		require.True(t, ok)
		require.True(t, proof.Verify(hashes[i], root))
	}
}

func TestMerkleProofRejectsWrongLeaf(t *testing.T) {
	hashes := makeHashes("tx1", "tx2", "tx3", "tx4")
	root := crypto.MerkleRoot(hashes)

	proof, ok := crypto.BuildMerkleProof(hashes, 0)
	require.True(t, ok)
	require.False(t, proof.Verify(hashes[1], root))
}

func TestMeetsDifficulty(t *testing.T) {
	var h chainhash.Hash
	require.True(t, crypto.MeetsDifficulty(h, 32))

	h[0] = 0x01
	require.False(t, crypto.MeetsDifficulty(h, 8))
	require.True(t, crypto.MeetsDifficulty(h, 7))
}
