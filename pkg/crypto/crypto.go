/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package crypto provides the hashing and signature primitives shared by the
// messaging core: blake2b-256 digests, ed25519 signatures and the string
// encodings used on the wire (0x-prefixed hex for derived values, base58 for
// keys and addresses).
package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Hash returns the blake2b-256 digest of data.
func Hash(data []byte) []byte {
	digest := blake2b.Sum256(data)
	return digest[:]
}

// HashStr returns the blake2b-256 digest of data as a 0x-prefixed hex string.
func HashStr(data string) string {
	return EncodeHex(Hash([]byte(data)))
}

// EncodeHex encodes data as a 0x-prefixed lowercase hex string.
func EncodeHex(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// DecodeHex decodes a 0x-prefixed hex string.
func DecodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, errors.Errorf("hex string missing 0x prefix: %q", s)
	}

	out, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex string")
	}

	return out, nil
}

// Sign signs message with priv and returns the signature as 0x-prefixed hex.
func Sign(message []byte, priv ed25519.PrivateKey) string {
	return EncodeHex(ed25519.Sign(priv, message))
}

// AddressFromPublicKey derives the base58 address of an ed25519 public
// signing key.
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}

// PublicKeyFromAddress recovers the ed25519 public signing key encoded in a
// base58 address.
func PublicKeyFromAddress(address string) (ed25519.PublicKey, error) {
	pub := base58.Decode(address)
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.Errorf("address %q does not encode a %d-byte public key", address, ed25519.PublicKeySize)
	}

	return pub, nil
}

// VerifySignature verifies a 0x-hex signature over payload against the public
// signing key derivable from claimedSignerAddress. A nil return means the
// signature is authentic.
func VerifySignature(payload, signature, claimedSignerAddress string) error {
	pub, err := PublicKeyFromAddress(claimedSignerAddress)
	if err != nil {
		return err
	}

	sig, err := DecodeHex(signature)
	if err != nil {
		return errors.Wrap(err, "malformed signature")
	}

	if !ed25519.Verify(pub, []byte(payload), sig) {
		return errors.Errorf("signature does not verify against %s", claimedSignerAddress)
	}

	return nil
}
