/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package messaging

import "github.com/pkg/errors"

// Every failure below is terminal for the message being processed and never
// fatal to the process; callers may keep handling other messages. All are
// errors.Is-matchable through wrapping.
var (
	// ErrNonceHashInvalid marks a recomputed digest that does not match the
	// transmitted hash: the ciphertext, nonce or createdAt was tampered with
	// or corrupted. The message must be discarded, never partially trusted.
	ErrNonceHashInvalid = errors.New("hash does not match ciphertext, nonce and createdAt")

	// ErrSignatureUnverifiable marks a signature that does not verify against
	// the claimed sender's public signing key. The sender is unauthenticated.
	ErrSignatureUnverifiable = errors.New("signature unverifiable against claimed sender")

	// ErrDecodingMessage marks a failed asymmetric decryption: wrong keys or
	// corrupted ciphertext.
	ErrDecodingMessage = errors.New("decoding message failed")

	// ErrParsingMessage marks decrypted bytes that are not a well-formed
	// message body.
	ErrParsingMessage = errors.New("parsing message body failed")

	// ErrUnknownBodyType marks a type tag outside the closed enumeration.
	ErrUnknownBodyType = errors.New("unknown message body type")

	// ErrIdentityMismatch marks an embedded owner that differs from the
	// sender address; the wrapping names the entity and role.
	ErrIdentityMismatch = errors.New("owner does not match sender")
)
