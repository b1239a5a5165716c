// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import "github.com/flokiorg/flokicoin-core/chaincfg/chainhash"

// MerkleRoot computes the merkle root over an ordered list of leaf hashes.
// An empty list yields Sha256(nil); a single leaf is returned unchanged;
// otherwise adjacent hashes are paired, concatenated, and hashed, with the
// last hash of an odd-length level duplicated to pair with itself.
func MerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return Sha256(nil)
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		next := make([]chainhash.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			var buf [2 * chainhash.HashSize]byte
			copy(buf[:chainhash.HashSize], level[i][:])
			if i+1 < len(level) {
				copy(buf[chainhash.HashSize:], level[i+1][:])
			} else {
				copy(buf[chainhash.HashSize:], level[i][:])
			}
			next = append(next, Sha256(buf[:]))
		}
		level = next
	}
	return level[0]
}

// ProofStep is one sibling hash consulted while walking a leaf up to the
// merkle root, together with whether the sibling sits to the left of the
// running hash at that level.
type ProofStep struct {
	Sibling chainhash.Hash
	IsLeft  bool
}

// MerkleProof is an inclusion proof for one leaf of a merkle tree.
type MerkleProof struct {
	Steps []ProofStep
}

// BuildMerkleProof returns the inclusion proof for the leaf at index within
// hashes, or false if index is out of range.
func BuildMerkleProof(hashes []chainhash.Hash, index int) (MerkleProof, bool) {
	if index < 0 || index >= len(hashes) {
		return MerkleProof{}, false
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	var proof MerkleProof
	idx := index
	for len(level) > 1 {
		var siblingIdx int
		var isLeft bool
		if idx%2 == 0 {
			if idx+1 < len(level) {
				siblingIdx = idx + 1
			} else {
				siblingIdx = idx
			}
			isLeft = false
		} else {
			siblingIdx = idx - 1
			isLeft = true
		}
		proof.Steps = append(proof.Steps, ProofStep{Sibling: level[siblingIdx], IsLeft: isLeft})

		next := make([]chainhash.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			var buf [2 * chainhash.HashSize]byte
			copy(buf[:chainhash.HashSize], level[i][:])
			if i+1 < len(level) {
				copy(buf[chainhash.HashSize:], level[i+1][:])
			} else {
				copy(buf[chainhash.HashSize:], level[i][:])
			}
			next = append(next, Sha256(buf[:]))
		}
		level = next
		idx /= 2
	}
	return proof, true
}

// Verify reports whether proof connects leaf to root.
func (p MerkleProof) Verify(leaf, root chainhash.Hash) bool {
	current := leaf
	for _, step := range p.Steps {
		var buf [2 * chainhash.HashSize]byte
		if step.IsLeft {
			copy(buf[:chainhash.HashSize], step.Sibling[:])
			copy(buf[chainhash.HashSize:], current[:])
		} else {
			copy(buf[:chainhash.HashSize], current[:])
			copy(buf[chainhash.HashSize:], step.Sibling[:])
		}
		current = Sha256(buf[:])
	}
	return current == root
}
