/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package securechannel

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	chacha "golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/box"

	"github.com/attesta-network/sdk-go/pkg/crypto"
	"github.com/attesta-network/sdk-go/pkg/identity"
	"github.com/attesta-network/sdk-go/pkg/internal/cryptoutil"
	"github.com/attesta-network/sdk-go/pkg/transport"
)

var _ transport.Packer = (*Packer)(nil)

// Unpack decodes an envelope using the receiver's keys, locating the
// recipient entry whose kid matches the receiver's verification key. The
// sender's verification key is recovered from the entry, and with it the
// sender's address.
func (p *Packer) Unpack(envelope []byte, receiver *identity.Identity) (*transport.Envelope, error) {
	if err := ensureEngineReady(); err != nil {
		return nil, err
	}

	if receiver == nil {
		return nil, errors.New("receiver identity is required")
	}

	var envelopeData legacyEnvelope

	if err := json.Unmarshal(envelope, &envelopeData); err != nil {
		return nil, errors.Wrap(err, "invalid envelope")
	}

	protectedBytes, err := base64.URLEncoding.DecodeString(envelopeData.Protected)
	if err != nil {
		return nil, errors.Wrap(err, "invalid protected header")
	}

	var protectedData protected

	if err := json.Unmarshal(protectedBytes, &protectedData); err != nil {
		return nil, errors.Wrap(err, "invalid protected header")
	}

	if protectedData.Typ != encodingType {
		return nil, errors.Errorf("message type %s not supported", protectedData.Typ)
	}

	if protectedData.Alg != algAuthcrypt && protectedData.Alg != algAuthcryptSigned {
		return nil, errors.Errorf("message format %s not supported", protectedData.Alg)
	}

	keys, err := getCEK(protectedData.Recipients, receiver)
	if err != nil {
		return nil, err
	}

	data, err := p.decodeCipherText(keys.cek, &envelopeData)
	if err != nil {
		return nil, err
	}

	if protectedData.Alg == algAuthcryptSigned {
		data, err = openSignedPayload(data, keys.theirKey)
		if err != nil {
			return nil, err
		}
	}

	return &transport.Envelope{
		Message:     data,
		FromVerKey:  keys.theirKey,
		ToVerKey:    keys.myKey,
		FromAddress: crypto.AddressFromPublicKey(keys.theirKey),
		ToAddress:   crypto.AddressFromPublicKey(keys.myKey),
	}, nil
}

type envelopeKeys struct {
	cek      *[chacha.KeySize]byte
	theirKey []byte
	myKey    []byte
}

func getCEK(recipients []recipient, receiver *identity.Identity) (*envelopeKeys, error) {
	recKID := base58.Encode(receiver.SignPublicKey)

	var recip *recipient

	for i := range recipients {
		if recipients[i].Header.KID == recKID {
			recip = &recipients[i]
			break
		}
	}

	if recip == nil {
		return nil, errors.Wrap(cryptoutil.ErrKeyNotFound, "no recipient entry for receiver key")
	}

	recCurvePub, err := convertedPublicKey(receiver.SignPublicKey)
	if err != nil {
		return nil, err
	}

	recCurvePriv, err := cryptoutil.SecretEd25519toCurve25519(receiver.SignPrivateKey())
	if err != nil {
		return nil, err
	}

	var (
		recPub  [cryptoutil.Curve25519KeySize]byte
		recPriv [cryptoutil.Curve25519KeySize]byte
	)

	copy(recPub[:], recCurvePub)
	copy(recPriv[:], recCurvePriv)

	senderPub, senderPubCurve, err := decodeSender(recip.Header.Sender, &recPub, &recPriv)
	if err != nil {
		return nil, err
	}

	nonceSlice, err := base64.URLEncoding.DecodeString(recip.Header.IV)
	if err != nil {
		return nil, errors.Wrap(err, "invalid recipient nonce")
	}

	encCEK, err := base64.URLEncoding.DecodeString(recip.EncryptedKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid encrypted key")
	}

	var (
		nonce     [cryptoutil.NonceSize]byte
		senderCrv [cryptoutil.Curve25519KeySize]byte
	)

	copy(nonce[:], nonceSlice)
	copy(senderCrv[:], senderPubCurve)

	cekSlice, ok := box.Open(nil, encCEK, &nonce, &senderCrv, &recPriv)
	if !ok {
		return nil, errors.New("failed to decrypt cek")
	}

	var cek [chacha.KeySize]byte
	copy(cek[:], cekSlice)

	return &envelopeKeys{
		cek:      &cek,
		theirKey: senderPub,
		myKey:    append([]byte(nil), receiver.SignPublicKey...),
	}, nil
}

// decodeSender unseals the sender's verification key and converts it for box
// operations.
func decodeSender(b64Sender string, recPub, recPriv *[cryptoutil.Curve25519KeySize]byte) ([]byte, []byte, error) {
	encSender, err := base64.URLEncoding.DecodeString(b64Sender)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid sender header")
	}

	senderPubB58, err := sodiumSealOpen(encSender, recPub, recPriv)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unseal sender key")
	}

	senderPub := base58.Decode(string(senderPubB58))

	senderPubCurve, err := convertedPublicKey(senderPub)
	if err != nil {
		return nil, nil, err
	}

	return senderPub, senderPubCurve, nil
}

// decodeCipherText decodes (from base64) and decrypts the ciphertext using
// chacha20poly1305, with the protected header as additional data.
func (p *Packer) decodeCipherText(cek *[chacha.KeySize]byte, envelope *legacyEnvelope) ([]byte, error) {
	cipherText, err := base64.URLEncoding.DecodeString(envelope.CipherText)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ciphertext")
	}

	nonce, err := base64.URLEncoding.DecodeString(envelope.IV)
	if err != nil {
		return nil, errors.Wrap(err, "invalid nonce")
	}

	tag, err := base64.URLEncoding.DecodeString(envelope.Tag)
	if err != nil {
		return nil, errors.Wrap(err, "invalid tag")
	}

	chachaCipher, err := chacha.New(cek[:])
	if err != nil {
		return nil, err
	}

	payload := append(cipherText, tag...)

	message, err := chachaCipher.Open(nil, nonce, payload, []byte(envelope.Protected))
	if err != nil {
		return nil, errors.Wrap(err, "decrypt payload")
	}

	return message, nil
}

// openSignedPayload verifies the non-repudiable carrier and returns the
// inner payload. The embedded signer must be the envelope sender: a valid
// signature from a different key is still a forgery of the channel.
func openSignedPayload(data, senderKey []byte) ([]byte, error) {
	var carrier signedPayload

	if err := json.Unmarshal(data, &carrier); err != nil {
		return nil, errors.Wrap(err, "invalid signed payload")
	}

	signer := base58.Decode(carrier.Signer)
	if !bytes.Equal(signer, senderKey) {
		return nil, errors.New("signed payload signer does not match envelope sender")
	}

	payload, err := base64.URLEncoding.DecodeString(carrier.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "invalid signed payload")
	}

	sig, err := base64.URLEncoding.DecodeString(carrier.Signature)
	if err != nil {
		return nil, errors.Wrap(err, "invalid signed payload")
	}

	if len(signer) != ed25519.PublicKeySize || !ed25519.Verify(signer, payload, sig) {
		return nil, errors.New("signed payload signature does not verify")
	}

	return payload, nil
}
