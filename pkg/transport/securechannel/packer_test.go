/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package securechannel

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/attesta-network/sdk-go/pkg/credential"
	"github.com/attesta-network/sdk-go/pkg/identity"
	"github.com/attesta-network/sdk-go/pkg/messaging"
)

func newIdentity(t *testing.T) *identity.Identity {
	t.Helper()

	id, err := identity.Generate(rand.Reader)
	require.NoError(t, err)

	return id
}

func recipients(ids ...*identity.Identity) []*identity.PublicIdentity {
	out := make([]*identity.PublicIdentity, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Public())
	}

	return out
}

func TestPackUnpack(t *testing.T) {
	sender := newIdentity(t)
	receiver := newIdentity(t)

	t.Run("repudiable round trip", func(t *testing.T) {
		p := New()

		env, err := p.Pack([]byte("Pack my box with five dozen liquor jugs!"), sender, recipients(receiver))
		require.NoError(t, err)
		require.NotEmpty(t, env)

		out, err := p.Unpack(env, receiver)
		require.NoError(t, err)
		require.Equal(t, []byte("Pack my box with five dozen liquor jugs!"), out.Message)
		require.Equal(t, []byte(sender.SignPublicKey), out.FromVerKey)
		require.Equal(t, []byte(receiver.SignPublicKey), out.ToVerKey)
		require.Equal(t, sender.Address, out.FromAddress)
		require.Equal(t, receiver.Address, out.ToAddress)
	})

	t.Run("non-repudiable round trip", func(t *testing.T) {
		p := New(WithNonRepudiation())

		env, err := p.Pack([]byte("A very bad quack might jinx zippy fowls."), sender, recipients(receiver))
		require.NoError(t, err)

		out, err := p.Unpack(env, receiver)
		require.NoError(t, err)
		require.Equal(t, []byte("A very bad quack might jinx zippy fowls."), out.Message)
		require.Equal(t, sender.Address, out.FromAddress)
	})

	t.Run("multiple recipients", func(t *testing.T) {
		p := New()

		rec1 := newIdentity(t)
		rec2 := newIdentity(t)
		rec3 := newIdentity(t)

		env, err := p.Pack([]byte("payload"), sender, recipients(rec1, rec2, rec3))
		require.NoError(t, err)

		for _, rec := range []*identity.Identity{rec1, rec2, rec3} {
			out, err := p.Unpack(env, rec)
			require.NoError(t, err)
			require.Equal(t, []byte("payload"), out.Message)
			require.Equal(t, sender.Address, out.FromAddress)
			require.Equal(t, rec.Address, out.ToAddress)
		}
	})

	t.Run("non-recipient cannot unpack", func(t *testing.T) {
		p := New()

		env, err := p.Pack([]byte("payload"), sender, recipients(receiver))
		require.NoError(t, err)

		eve := newIdentity(t)

		_, err = p.Unpack(env, eve)
		require.Error(t, err)
	})

	t.Run("empty recipients rejected", func(t *testing.T) {
		p := New()

		_, err := p.Pack([]byte("payload"), sender, nil)
		require.Error(t, err)
	})

	t.Run("tampered ciphertext rejected", func(t *testing.T) {
		p := New()

		env, err := p.Pack([]byte("payload"), sender, recipients(receiver))
		require.NoError(t, err)

		var envelope legacyEnvelope
		require.NoError(t, json.Unmarshal(env, &envelope))

		raw, err := base64.URLEncoding.DecodeString(envelope.CipherText)
		require.NoError(t, err)
		raw[0] ^= 0x01
		envelope.CipherText = base64.URLEncoding.EncodeToString(raw)

		tampered, err := json.Marshal(envelope)
		require.NoError(t, err)

		_, err = p.Unpack(tampered, receiver)
		require.Error(t, err)
	})

	t.Run("foreign encoding type rejected", func(t *testing.T) {
		p := New()

		protectedBytes, err := json.Marshal(protected{Typ: "JWE/2.0", Alg: algAuthcrypt})
		require.NoError(t, err)

		env, err := json.Marshal(legacyEnvelope{
			Protected: base64.URLEncoding.EncodeToString(protectedBytes),
		})
		require.NoError(t, err)

		_, err = p.Unpack(env, receiver)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not supported")
	})

	t.Run("encoding type accessor", func(t *testing.T) {
		require.Equal(t, "JWM/1.0", New().EncodingType())
	})
}

func TestSignedPayloadBinding(t *testing.T) {
	sender := newIdentity(t)

	t.Run("valid carrier opens", func(t *testing.T) {
		carrier, err := signPayload([]byte("payload"), sender)
		require.NoError(t, err)

		out, err := openSignedPayload(carrier, sender.SignPublicKey)
		require.NoError(t, err)
		require.Equal(t, []byte("payload"), out)
	})

	t.Run("signer must equal envelope sender", func(t *testing.T) {
		// carrier signed by sender but the channel authenticated mallory: a
		// valid signature from a different key is still a forgery
		mallory := newIdentity(t)

		carrier, err := signPayload([]byte("payload"), sender)
		require.NoError(t, err)

		_, err = openSignedPayload(carrier, mallory.SignPublicKey)
		require.Error(t, err)
		require.Contains(t, err.Error(), "signer does not match")
	})

	t.Run("corrupted signature rejected", func(t *testing.T) {
		carrier, err := signPayload([]byte("payload"), sender)
		require.NoError(t, err)

		var sp signedPayload
		require.NoError(t, json.Unmarshal(carrier, &sp))

		sig, err := base64.URLEncoding.DecodeString(sp.Signature)
		require.NoError(t, err)
		sig[0] ^= 0x01
		sp.Signature = base64.URLEncoding.EncodeToString(sig)

		tampered, err := json.Marshal(sp)
		require.NoError(t, err)

		_, err = openSignedPayload(tampered, sender.SignPublicKey)
		require.Error(t, err)
		require.Contains(t, err.Error(), "does not verify")
	})

}

func TestPackMessage(t *testing.T) {
	sender := newIdentity(t)
	receiver := newIdentity(t)

	body, err := messaging.NewBody(messaging.RequestTerms, credential.PartialClaim{CTypeHash: "0xabc"})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		p := New()

		env := NewMessageEnvelope(body)

		packed, err := p.PackMessage(env, sender, recipients(receiver))
		require.NoError(t, err)
		require.NotEmpty(t, env.ID, "an id is minted when absent")

		out, err := p.UnpackMessage(packed, receiver)
		require.NoError(t, err)
		require.Equal(t, env.ID, out.Envelope.ID)
		require.Equal(t, messaging.RequestTerms, out.Body.Type)
		require.Equal(t, sender.Address, out.SenderAddress)
		require.Equal(t, receiver.Address, out.ReceiverAddress)
		require.Equal(t, sender.BoxPublicKey(), out.Envelope.FromBoxPublicKey)

		var content credential.PartialClaim
		require.NoError(t, out.Body.DecodeContent(&content))
		require.Equal(t, "0xabc", content.CTypeHash)
	})

	t.Run("caller-supplied id preserved", func(t *testing.T) {
		p := New()

		env := NewMessageEnvelope(body)
		env.ID = "my-thread-1"

		packed, err := p.PackMessage(env, sender, recipients(receiver))
		require.NoError(t, err)

		out, err := p.UnpackMessage(packed, receiver)
		require.NoError(t, err)
		require.Equal(t, "my-thread-1", out.Envelope.ID)
	})

	t.Run("foreign protocol rejected", func(t *testing.T) {
		p := New()

		env := &MessageEnvelope{
			ID:          "1",
			Type:        IssuerURI + "/other-protocol/1.0/request-terms",
			Body:        body.Content,
			CreatedTime: time.Now().UnixMilli(),
		}

		packed, err := p.PackMessage(env, sender, recipients(receiver))
		require.NoError(t, err)

		_, err = p.UnpackMessage(packed, receiver)
		require.ErrorIs(t, err, ErrProtocolMismatch)
	})

	t.Run("foreign version rejected", func(t *testing.T) {
		p := New()

		env := &MessageEnvelope{
			ID:          "1",
			Type:        IssuerURI + "/" + ProtocolName + "/0.9/request-terms",
			Body:        body.Content,
			CreatedTime: time.Now().UnixMilli(),
		}

		packed, err := p.PackMessage(env, sender, recipients(receiver))
		require.NoError(t, err)

		_, err = p.UnpackMessage(packed, receiver)
		require.ErrorIs(t, err, ErrProtocolMismatch)
	})

	t.Run("unknown message type rejected", func(t *testing.T) {
		p := New()

		env := &MessageEnvelope{
			ID:          "1",
			Type:        TypeURIFor("request-coffee"),
			Body:        body.Content,
			CreatedTime: time.Now().UnixMilli(),
		}

		packed, err := p.PackMessage(env, sender, recipients(receiver))
		require.NoError(t, err)

		_, err = p.UnpackMessage(packed, receiver)
		require.ErrorIs(t, err, ErrUnknownMessageType)
	})

	t.Run("missing type URI rejected", func(t *testing.T) {
		p := New()

		env := &MessageEnvelope{ID: "1", Body: body.Content, CreatedTime: time.Now().UnixMilli()}

		packed, err := p.PackMessage(env, sender, recipients(receiver))
		require.NoError(t, err)

		_, err = p.UnpackMessage(packed, receiver)
		require.ErrorIs(t, err, ErrInvalidTypeURI)
	})
}
