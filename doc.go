/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sdk is the messaging core of a decentralized-identity and
// verifiable-credential SDK: identity holders (claimers, attesters,
// verifiers) exchange claims, attestations and delegation requests off-chain
// through encrypted 1:1 messages, with trust roots anchored on-chain by
// external collaborators.
//
// Packages for end developer usage
//
// pkg/identity: keypair bundles (signing + encryption) and the derived
// addresses under which actors are known.
//
// pkg/messaging: the protocol message body model, the signed encrypted
// envelope, and the validation run on reception (integrity, authenticity,
// owner-sender consistency).
//
// pkg/transport/securechannel: the pairwise authenticated-encrypted envelope
// format used to carry protocol messages between agents.
//
// Basic workflow
//
//	1) Build a MessageBody for one of the protocol message kinds.
//	2) Construct a Message with NewMessage and seal it with Encrypt.
//	3) Transmit the EncryptedMessage through your transport.
//	4) On reception, call Decrypt: the body is returned only after the
//	   hash, signature and ownership checks pass.
package sdk
