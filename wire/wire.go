// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire provides the durable, self-describing encoding used to
// persist and round-trip transactions and blocks, plus the peer framing
// envelope shape. It does not implement a transport: no listener, dialer,
// or handshake lives here, since the peer-to-peer layer is a thin external
// surface this module does not build.
package wire

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/flokiorg/flokicoin-core/crypto"
)

var encMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// Marshal encodes v using a canonical, deterministic cbor encoding. It is
// the durable wire format for snapshot persistence and full round-trip
// serialization; it is never used to produce the hash preimages, which are
// computed over a narrower byte layout defined alongside each domain type.
func Marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data produced by Marshal into v.
func Unmarshal(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}

// MessageHeader is the 24-byte peer framing envelope: a fixed magic, a
// fixed-width command name, the payload length, and a truncated checksum of
// the payload. It exists so a future transport collaborator has a concrete,
// tested framing contract to build on.
type MessageHeader struct {
	Magic    [4]byte
	Command  [12]byte
	Length   uint32
	Checksum [4]byte
}

// MaxPayloadLength is the largest payload a single frame may declare.
const MaxPayloadLength = 32 * 1024 * 1024

// NewMessageHeader builds a header for command and payload, computing the
// checksum as the first four bytes of DoubleSha256(payload).
func NewMessageHeader(magic [4]byte, command string, payload []byte) MessageHeader {
	var cmd [12]byte
	copy(cmd[:], command)

	h := crypto.DoubleSha256(payload)

	var hdr MessageHeader
	hdr.Magic = magic
	hdr.Command = cmd
	hdr.Length = uint32(len(payload))
	copy(hdr.Checksum[:], h[:4])
	return hdr
}

// Verify reports whether payload matches the checksum and length recorded
// in the header, and that the declared length does not exceed
// MaxPayloadLength.
func (h MessageHeader) Verify(payload []byte) bool {
	if h.Length > MaxPayloadLength {
		return false
	}
	if int(h.Length) != len(payload) {
		return false
	}
	sum := crypto.DoubleSha256(payload)
	return sum[0] == h.Checksum[0] && sum[1] == h.Checksum[1] &&
		sum[2] == h.Checksum[2] && sum[3] == h.Checksum[3]
}
