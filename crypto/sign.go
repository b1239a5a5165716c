// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PrivateKey and PublicKey alias the decred secp256k1 types so callers never
// need to import the underlying library directly.
type PrivateKey = secp256k1.PrivateKey
type PublicKey = secp256k1.PublicKey

// GeneratePrivateKey returns a new random private key.
func GeneratePrivateKey() (*PrivateKey, error) {
	return secp256k1.GeneratePrivateKey()
}

// ParsePublicKey parses a compressed or uncompressed public key.
func ParsePublicKey(pubKey []byte) (*PublicKey, error) {
	return secp256k1.ParsePubKey(pubKey)
}

// Sign signs hash (a 32-byte digest, typically a transaction id) with priv
// and returns the DER-encoded signature.
func Sign(priv *PrivateKey, hash []byte) []byte {
	sig := ecdsa.Sign(priv, hash)
	return sig.Serialize()
}

// Verify reports whether sig is a valid DER-encoded ECDSA signature over
// hash by the holder of pub.
func Verify(pub *PublicKey, hash, sig []byte) bool {
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(hash, pub)
}
