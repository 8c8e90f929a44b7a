/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package transport defines the packer seam between the messaging core and
// whatever carries envelopes between agents.
package transport

import (
	"github.com/attesta-network/sdk-go/pkg/identity"
)

// Envelope holds the unpacked message and the key material recovered from an
// inbound envelope.
type Envelope struct {
	Message []byte
	// FromVerKey is the sender's ed25519 verification key.
	FromVerKey []byte
	// ToVerKey is the verification key whose holder the envelope was opened
	// for.
	ToVerKey []byte
	// FromAddress and ToAddress are the base58 addresses derived from the
	// keys above.
	FromAddress string
	ToAddress   string
}

// Packer packs and unpacks envelopes for secure pairwise exchange between
// identity holders.
type Packer interface {
	// Pack a payload for the recipients using the sender's keys.
	// Returns the encrypted envelope bytes.
	Pack(payload []byte, sender *identity.Identity, recipients []*identity.PublicIdentity) ([]byte, error)

	// Unpack an envelope using the receiver's keys. The recipient entry used
	// is the one matching the receiver's verification key.
	Unpack(envelope []byte, receiver *identity.Identity) (*Envelope, error)

	// EncodingType returns the value of the envelope header's `typ` field.
	EncodingType() string
}
