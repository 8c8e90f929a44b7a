/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package securechannel

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	chacha "golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/poly1305"

	"github.com/attesta-network/sdk-go/pkg/identity"
	"github.com/attesta-network/sdk-go/pkg/internal/cryptoutil"
)

// Pack encodes payload for the recipients. The payload is encrypted once
// under a fresh content encryption key; the key is sealed per recipient with
// nacl box using the sender's converted signing key, so each recipient can
// authenticate the sender while third parties cannot. With non-repudiation
// enabled the payload is first wrapped with a detached signature.
func (p *Packer) Pack(payload []byte, sender *identity.Identity, recipients []*identity.PublicIdentity) ([]byte, error) {
	if err := ensureEngineReady(); err != nil {
		return nil, err
	}

	if sender == nil {
		return nil, errors.New("sender identity is required")
	}

	if len(recipients) == 0 {
		return nil, errors.New("empty recipients")
	}

	for _, r := range recipients {
		if r == nil || len(r.SignPublicKey) != ed25519.PublicKeySize {
			return nil, errors.Wrap(cryptoutil.ErrInvalidKey, "recipient verification key")
		}
	}

	alg := algAuthcrypt

	if p.nonRepudiable {
		signed, err := signPayload(payload, sender)
		if err != nil {
			return nil, err
		}

		payload = signed
		alg = algAuthcryptSigned
	}

	nonce := make([]byte, chacha.NonceSize)

	_, err := p.randSource.Read(nonce)
	if err != nil {
		return nil, errors.Wrap(err, "draw content nonce")
	}

	// cek (content encryption key) is a symmetric key for chacha20.
	_, cek, err := box.GenerateKey(p.randSource)
	if err != nil {
		return nil, errors.Wrap(err, "generate cek")
	}

	chachaCipher, err := chacha.New(cek[:])
	if err != nil {
		return nil, err
	}

	encodedRecipients, err := p.buildRecipients(cek, sender, recipients)
	if err != nil {
		return nil, err
	}

	protectedBytes, err := json.Marshal(protected{
		Enc:        "chacha20poly1305_ietf",
		Typ:        encodingType,
		Alg:        alg,
		Recipients: encodedRecipients,
	})
	if err != nil {
		return nil, err
	}

	// Additional data is b64encode(jsonencode(protected)).
	aad := base64.URLEncoding.EncodeToString(protectedBytes)

	symPld := chachaCipher.Seal(nil, nonce, payload, []byte(aad))

	// symPld is cipherText with the poly1305 tag at the tail.
	tag := symPld[len(symPld)-poly1305.TagSize:]
	cipherText := symPld[0 : len(symPld)-poly1305.TagSize]

	out, err := json.Marshal(legacyEnvelope{
		Protected:  aad,
		IV:         base64.URLEncoding.EncodeToString(nonce),
		CipherText: base64.URLEncoding.EncodeToString(cipherText),
		Tag:        base64.URLEncoding.EncodeToString(tag),
	})
	if err != nil {
		return nil, err
	}

	logger.Debugf("packed %s envelope for %d recipient(s)", alg, len(recipients))

	return out, nil
}

func signPayload(payload []byte, sender *identity.Identity) ([]byte, error) {
	return json.Marshal(signedPayload{
		Payload:   base64.URLEncoding.EncodeToString(payload),
		Signature: base64.URLEncoding.EncodeToString(ed25519.Sign(sender.SignPrivateKey(), payload)),
		Signer:    base58.Encode(sender.SignPublicKey),
	})
}

func (p *Packer) buildRecipients(cek *[chacha.KeySize]byte, sender *identity.Identity, recipients []*identity.PublicIdentity) ([]recipient, error) {
	encodedRecipients := make([]recipient, 0, len(recipients))

	for _, recKey := range recipients {
		rec, err := p.buildRecipient(cek, sender, recKey)
		if err != nil {
			return nil, err
		}

		encodedRecipients = append(encodedRecipients, *rec)
	}

	return encodedRecipients, nil
}

// buildRecipient encodes the data one recipient needs to decrypt the
// message: the sealed cek and the sender's verification key, itself sealed
// so only the recipient learns who sent the envelope.
func (p *Packer) buildRecipient(cek *[chacha.KeySize]byte, sender *identity.Identity, recKey *identity.PublicIdentity) (*recipient, error) {
	var nonce [cryptoutil.NonceSize]byte

	_, err := p.randSource.Read(nonce[:])
	if err != nil {
		return nil, errors.Wrap(err, "draw recipient nonce")
	}

	senderSKCurve, err := cryptoutil.SecretEd25519toCurve25519(sender.SignPrivateKey())
	if err != nil {
		return nil, err
	}

	recPKCurve, err := convertedPublicKey(recKey.SignPublicKey)
	if err != nil {
		return nil, err
	}

	var (
		recPub     [cryptoutil.Curve25519KeySize]byte
		senderPriv [cryptoutil.Curve25519KeySize]byte
	)

	copy(recPub[:], recPKCurve)
	copy(senderPriv[:], senderSKCurve)

	encCEK := box.Seal(nil, cek[:], &nonce, &recPub, &senderPriv)

	encSender, err := sodiumBoxSeal([]byte(base58.Encode(sender.SignPublicKey)), &recPub, p.randSource)
	if err != nil {
		return nil, err
	}

	return &recipient{
		EncryptedKey: base64.URLEncoding.EncodeToString(encCEK),
		Header: recipientHeader{
			KID:    base58.Encode(recKey.SignPublicKey),
			Sender: base64.URLEncoding.EncodeToString(encSender),
			IV:     base64.URLEncoding.EncodeToString(nonce[:]),
		},
	}, nil
}
