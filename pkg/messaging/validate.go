/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package messaging

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/attesta-network/sdk-go/pkg/common/log"
	"github.com/attesta-network/sdk-go/pkg/credential"
	"github.com/attesta-network/sdk-go/pkg/crypto"
	"github.com/attesta-network/sdk-go/pkg/identity"
)

var logger = log.New("sdk-go/messaging")

// EnsureHashAndSignature asserts the integrity and authenticity of an
// encrypted message without decrypting it: the digest over ciphertext, nonce
// and createdAt must match the transmitted hash, and the signature over the
// hash must verify against the claimed sender. Run this before any
// decryption.
func EnsureHashAndSignature(enc *EncryptedMessage, claimedSenderAddress string) error {
	recomputed := crypto.HashStr(enc.Ciphertext + enc.Nonce + strconv.FormatInt(enc.CreatedAt, 10))
	if recomputed != enc.Hash {
		return errors.WithStack(ErrNonceHashInvalid)
	}

	if err := crypto.VerifySignature(enc.Hash, enc.Signature, claimedSenderAddress); err != nil {
		return errors.Wrapf(ErrSignatureUnverifiable, "%v", err)
	}

	return nil
}

// ownedEntity names a thing inside a message body that carries an owner
// address, for diagnostics when the owner does not match the sender.
type ownedEntity struct {
	entity string
	role   string
	owner  string
}

// ownerExtractors maps body kinds whose content embeds ownership to a
// function returning the embedded owners. Kinds without an entry carry no
// ownership constraint; new constrained kinds are added here, not to the
// validation logic.
var ownerExtractors = map[BodyType]func(json.RawMessage) ([]ownedEntity, error){
	RequestAttestationForClaim: func(raw json.RawMessage) ([]ownedEntity, error) {
		var content RequestAttestationContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, err
		}

		return []ownedEntity{{entity: "Claim", role: "claimer", owner: content.RequestForAttestation.Claim.Owner}}, nil
	},
	SubmitAttestationForClaim: func(raw json.RawMessage) ([]ownedEntity, error) {
		var content SubmitAttestationContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, err
		}

		return []ownedEntity{{entity: "Attestation", role: "attester", owner: content.Attestation.Owner}}, nil
	},
	SubmitClaimsForCTypesClassic: func(raw json.RawMessage) ([]ownedEntity, error) {
		var content []credential.AttestedClaim
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, err
		}

		owned := make([]ownedEntity, 0, len(content))
		for _, ac := range content {
			owned = append(owned, ownedEntity{entity: "Claims", role: "claimer", owner: ac.Request.Claim.Owner})
		}

		return owned, nil
	},
}

// EnsureOwnerIsSender asserts that every owner embedded in the message body
// equals the sender address. It inspects the plaintext body and therefore
// runs only after a successful decryption.
func EnsureOwnerIsSender(msg *Message) error {
	extract, ok := ownerExtractors[msg.Body.Type]
	if !ok {
		return nil
	}

	owned, err := extract(msg.Body.Content)
	if err != nil {
		return errors.Wrapf(ErrParsingMessage, "%s content: %v", msg.Body.Type, err)
	}

	for _, o := range owned {
		if o.owner != msg.SenderAddress {
			return errors.Wrapf(ErrIdentityMismatch, "%s not owned by %s", o.entity, o.role)
		}
	}

	return nil
}

// Decrypt validates and opens an encrypted message for the receiver. The
// order is mandatory: hash and signature are checked on the ciphertext
// first, then the body is decrypted, parsed and checked for
// ownership-sender consistency. Any failure discards the message.
func Decrypt(enc *EncryptedMessage, receiver *identity.Identity) (*Message, error) {
	if err := EnsureHashAndSignature(enc, enc.SenderAddress); err != nil {
		return nil, err
	}

	plaintext, err := receiver.DecryptAsymmetricAsStr(&identity.EncryptedAsymmetricString{
		Box:   enc.Ciphertext,
		Nonce: enc.Nonce,
	}, enc.SenderBoxPublicKey)
	if err != nil {
		return nil, errors.Wrapf(ErrDecodingMessage, "%v", err)
	}

	var body MessageBody

	if err := json.Unmarshal([]byte(plaintext), &body); err != nil {
		return nil, errors.Wrapf(ErrParsingMessage, "%v", err)
	}

	if !KnownBodyType(string(body.Type)) {
		return nil, errors.Wrapf(ErrUnknownBodyType, "%q", body.Type)
	}

	msg := &Message{
		Body:               body,
		CreatedAt:          enc.CreatedAt,
		SenderAddress:      enc.SenderAddress,
		ReceiverAddress:    enc.ReceiverAddress,
		SenderBoxPublicKey: enc.SenderBoxPublicKey,
		MessageID:          enc.MessageID,
		ReceivedAt:         enc.ReceivedAt,
	}

	if err := EnsureOwnerIsSender(msg); err != nil {
		logger.Debugf("rejecting %s message from %s: %v", body.Type, enc.SenderAddress, err)
		return nil, err
	}

	return msg, nil
}
