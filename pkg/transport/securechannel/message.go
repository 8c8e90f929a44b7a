/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package securechannel

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/attesta-network/sdk-go/pkg/identity"
	"github.com/attesta-network/sdk-go/pkg/messaging"
)

// MessageEnvelope is the JSON protocol envelope carried inside a packed
// secure-channel message.
type MessageEnvelope struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Body             json.RawMessage `json:"body"`
	CreatedTime      int64           `json:"created_time"`
	FromBoxPublicKey string          `json:"from_box_pub,omitempty"`
}

// NewMessageEnvelope builds an envelope for a protocol body, stamping the
// type URI and creation time. The ID may be set by the caller; PackMessage
// mints one otherwise.
func NewMessageEnvelope(body messaging.MessageBody) *MessageEnvelope {
	return &MessageEnvelope{
		Type:        TypeURIFor(body.Type),
		Body:        body.Content,
		CreatedTime: time.Now().UnixMilli(),
	}
}

// UnpackedMessage is the result of unpacking a secure-channel message: the
// envelope, its parsed type, the reconstructed body and the recovered party
// addresses and keys.
type UnpackedMessage struct {
	Envelope        MessageEnvelope
	Type            TypeURI
	Body            messaging.MessageBody
	SenderAddress   string
	ReceiverAddress string
	SenderKey       []byte
	ReceiverKey     []byte
}

// PackMessage packs a protocol envelope for the recipients. An envelope
// without an ID is assigned a fresh uuid; nothing else is generated on the
// sender's behalf.
func (p *Packer) PackMessage(env *MessageEnvelope, sender *identity.Identity, recipients []*identity.PublicIdentity) ([]byte, error) {
	if env == nil {
		return nil, errors.New("envelope is required")
	}

	if sender == nil {
		return nil, errors.New("sender identity is required")
	}

	if env.ID == "" {
		env.ID = uuid.New().String()
	}

	if env.FromBoxPublicKey == "" {
		env.FromBoxPublicKey = sender.BoxPublicKey()
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "serialize envelope")
	}

	return p.Pack(payload, sender, recipients)
}

// UnpackMessage unpacks and gates an inbound secure-channel message: the
// envelope is decrypted, its type URI parsed, the protocol name and version
// checked against this SDK's constants, and the message type checked against
// the closed enumeration.
func (p *Packer) UnpackMessage(envelope []byte, receiver *identity.Identity) (*UnpackedMessage, error) {
	unpacked, err := p.Unpack(envelope, receiver)
	if err != nil {
		return nil, err
	}

	var env MessageEnvelope

	if err := json.Unmarshal(unpacked.Message, &env); err != nil {
		return nil, errors.Wrap(err, "invalid message envelope")
	}

	parsed, err := ParseTypeURI(env.Type)
	if err != nil {
		return nil, err
	}

	if err := checkTypeURI(parsed); err != nil {
		return nil, err
	}

	return &UnpackedMessage{
		Envelope: env,
		Type:     parsed,
		Body: messaging.MessageBody{
			Type:    messaging.BodyType(parsed.MessageType),
			Content: env.Body,
		},
		SenderAddress:   unpacked.FromAddress,
		ReceiverAddress: unpacked.ToAddress,
		SenderKey:       unpacked.FromVerKey,
		ReceiverKey:     unpacked.ToVerKey,
	}, nil
}
