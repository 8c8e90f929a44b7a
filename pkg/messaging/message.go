/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package messaging implements the encrypted 1:1 message protocol between
// identity holders: building a typed message body, sealing it into a signed
// encrypted envelope, and validating and opening received envelopes.
//
// The envelope digest is the blake2b-256 hash of the hex ciphertext, the hex
// nonce and the decimal ASCII representation of the creation time in
// milliseconds since epoch, concatenated in that order. That encoding is the
// interoperability contract and must not change.
package messaging

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/attesta-network/sdk-go/pkg/crypto"
	"github.com/attesta-network/sdk-go/pkg/identity"
)

// Message is the plaintext, in-memory form of a protocol message. The
// constructing identity exclusively owns Body until it is encrypted; the
// ciphertext does not retain the plaintext.
type Message struct {
	Body               MessageBody `json:"body"`
	CreatedAt          int64       `json:"createdAt"`
	SenderAddress      string      `json:"senderAddress"`
	ReceiverAddress    string      `json:"receiverAddress"`
	SenderBoxPublicKey string      `json:"senderBoxPublicKey"`
	MessageID          string      `json:"messageId,omitempty"`
	ReceivedAt         int64       `json:"receivedAt,omitempty"`
	InReplyTo          string      `json:"inReplyTo,omitempty"`
	References         []string    `json:"references,omitempty"`
}

// EncryptedMessage is the wire form of a Message. Hash is the digest over
// ciphertext, nonce and createdAt in exactly that order; Signature is the
// sender's signature over Hash.
type EncryptedMessage struct {
	Ciphertext         string `json:"message"`
	Nonce              string `json:"nonce"`
	Hash               string `json:"hash"`
	Signature          string `json:"signature"`
	CreatedAt          int64  `json:"createdAt"`
	SenderAddress      string `json:"senderAddress"`
	ReceiverAddress    string `json:"receiverAddress"`
	SenderBoxPublicKey string `json:"senderBoxPublicKey"`
	MessageID          string `json:"messageId,omitempty"`
	ReceivedAt         int64  `json:"receivedAt,omitempty"`
}

// NewMessage builds a plaintext message from sender to receiver, stamping
// CreatedAt once. MessageID and the threading fields are caller-supplied
// metadata; this core never generates them.
func NewMessage(body MessageBody, sender *identity.Identity, receiver *identity.PublicIdentity) *Message {
	return &Message{
		Body:               body,
		CreatedAt:          time.Now().UnixMilli(),
		SenderAddress:      sender.Address,
		ReceiverAddress:    receiver.Address,
		SenderBoxPublicKey: sender.BoxPublicKey(),
	}
}

// Encrypt seals the message for the receiver: the serialized body is
// box-encrypted under the sender's private key and the receiver's public
// encryption key with a fresh nonce, the digest over ciphertext, nonce and
// createdAt is computed, and the digest is signed by the sender. The message
// itself is not mutated and no I/O is performed.
func (m *Message) Encrypt(sender *identity.Identity, receiver *identity.PublicIdentity) (*EncryptedMessage, error) {
	if sender == nil {
		return nil, errors.New("sender identity is required")
	}

	if receiver == nil || receiver.BoxPublicKeyB58 == "" {
		return nil, errors.New("receiver box public key is missing")
	}

	plaintext, err := json.Marshal(m.Body)
	if err != nil {
		return nil, errors.Wrap(err, "serialize message body")
	}

	enc, err := sender.EncryptAsymmetricAsStr(string(plaintext), receiver.BoxPublicKeyB58)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt message body")
	}

	hash := crypto.HashStr(enc.Box + enc.Nonce + strconv.FormatInt(m.CreatedAt, 10))

	return &EncryptedMessage{
		Ciphertext:         enc.Box,
		Nonce:              enc.Nonce,
		Hash:               hash,
		Signature:          sender.SignStr(hash),
		CreatedAt:          m.CreatedAt,
		SenderAddress:      m.SenderAddress,
		ReceiverAddress:    m.ReceiverAddress,
		SenderBoxPublicKey: m.SenderBoxPublicKey,
		MessageID:          m.MessageID,
		ReceivedAt:         m.ReceivedAt,
	}, nil
}
