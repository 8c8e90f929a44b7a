/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package identity models an actor of the credential protocol: an ed25519
// signing keypair, the curve25519 box keypair derived from it, and the base58
// address under which other actors know the holder.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/box"

	"github.com/attesta-network/sdk-go/pkg/crypto"
	"github.com/attesta-network/sdk-go/pkg/internal/cryptoutil"
)

// PublicIdentity is the public half of an Identity: what a counterparty needs
// to address and encrypt for the holder.
type PublicIdentity struct {
	Address         string
	SignPublicKey   ed25519.PublicKey
	BoxPublicKeyB58 string
}

// Identity holds the signing keypair, the box keypair converted from it and
// the derived address. The private material never leaves this struct.
type Identity struct {
	PublicIdentity

	signPrivateKey ed25519.PrivateKey
	boxPublicKey   []byte
	boxPrivateKey  []byte
}

// EncryptedAsymmetricString is a box ciphertext and its nonce, both 0x-hex.
type EncryptedAsymmetricString struct {
	Box   string `json:"box"`
	Nonce string `json:"nonce"`
}

// FromSeed builds an Identity from a 32-byte ed25519 seed. The box keypair is
// the curve25519 conversion of the signing keypair, so one seed yields the
// full key bundle.
func FromSeed(seed []byte) (*Identity, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)

	return fromSigningKey(priv)
}

// Generate creates a fresh Identity from the given entropy source. Pass nil
// to use crypto/rand.
func Generate(src io.Reader) (*Identity, error) {
	if src == nil {
		src = rand.Reader
	}

	_, priv, err := ed25519.GenerateKey(src)
	if err != nil {
		return nil, errors.Wrap(err, "generate signing key")
	}

	return fromSigningKey(priv)
}

func fromSigningKey(priv ed25519.PrivateKey) (*Identity, error) {
	pub := priv.Public().(ed25519.PublicKey)

	boxPriv, err := cryptoutil.SecretEd25519toCurve25519(priv)
	if err != nil {
		return nil, errors.Wrap(err, "convert signing key to box key")
	}

	boxPub, err := cryptoutil.PublicEd25519toCurve25519(pub)
	if err != nil {
		return nil, errors.Wrap(err, "convert public signing key to box key")
	}

	return &Identity{
		PublicIdentity: PublicIdentity{
			Address:         crypto.AddressFromPublicKey(pub),
			SignPublicKey:   pub,
			BoxPublicKeyB58: base58.Encode(boxPub),
		},
		signPrivateKey: priv,
		boxPublicKey:   boxPub,
		boxPrivateKey:  boxPriv,
	}, nil
}

// Public returns the sharable half of the identity.
func (i *Identity) Public() *PublicIdentity {
	pub := i.PublicIdentity
	return &pub
}

// BoxPublicKey returns the base58 curve25519 public encryption key.
func (i *Identity) BoxPublicKey() string {
	return i.BoxPublicKeyB58
}

// SignStr signs payload with the identity's private signing key and returns
// the signature as 0x-hex.
func (i *Identity) SignStr(payload string) string {
	return crypto.Sign([]byte(payload), i.signPrivateKey)
}

// SignPrivateKey exposes the raw signing key for packers that authenticate
// envelopes with it.
func (i *Identity) SignPrivateKey() ed25519.PrivateKey {
	return i.signPrivateKey
}

// EncryptAsymmetricAsStr box-encrypts plaintext for the holder of
// recipientBoxPub (base58). A fresh random 24-byte nonce is drawn per call;
// nonce reuse would break confidentiality, so there is no way to supply one.
func (i *Identity) EncryptAsymmetricAsStr(plaintext, recipientBoxPub string) (*EncryptedAsymmetricString, error) {
	theirPub, err := decodeBoxKey(recipientBoxPub)
	if err != nil {
		return nil, errors.Wrap(err, "recipient box public key")
	}

	var nonce [cryptoutil.NonceSize]byte

	_, err = rand.Read(nonce[:])
	if err != nil {
		return nil, errors.Wrap(err, "draw nonce")
	}

	var priv [cryptoutil.Curve25519KeySize]byte
	copy(priv[:], i.boxPrivateKey)

	sealed := box.Seal(nil, []byte(plaintext), &nonce, theirPub, &priv)

	return &EncryptedAsymmetricString{
		Box:   crypto.EncodeHex(sealed),
		Nonce: crypto.EncodeHex(nonce[:]),
	}, nil
}

// DecryptAsymmetricAsStr opens a box sealed for this identity by the holder
// of senderBoxPub (base58). Failure to open means wrong keys or corrupted
// ciphertext.
func (i *Identity) DecryptAsymmetricAsStr(enc *EncryptedAsymmetricString, senderBoxPub string) (string, error) {
	theirPub, err := decodeBoxKey(senderBoxPub)
	if err != nil {
		return "", errors.Wrap(err, "sender box public key")
	}

	sealed, err := crypto.DecodeHex(enc.Box)
	if err != nil {
		return "", errors.Wrap(err, "ciphertext")
	}

	nonceBytes, err := crypto.DecodeHex(enc.Nonce)
	if err != nil {
		return "", errors.Wrap(err, "nonce")
	}

	if len(nonceBytes) != cryptoutil.NonceSize {
		return "", errors.Errorf("nonce must be %d bytes, got %d", cryptoutil.NonceSize, len(nonceBytes))
	}

	var (
		nonce [cryptoutil.NonceSize]byte
		priv  [cryptoutil.Curve25519KeySize]byte
	)

	copy(nonce[:], nonceBytes)
	copy(priv[:], i.boxPrivateKey)

	out, ok := box.Open(nil, sealed, &nonce, theirPub, &priv)
	if !ok {
		return "", errors.New("failed to open box")
	}

	return string(out), nil
}

func decodeBoxKey(b58 string) (*[cryptoutil.Curve25519KeySize]byte, error) {
	if b58 == "" {
		return nil, cryptoutil.ErrInvalidKey
	}

	raw := base58.Decode(b58)
	if len(raw) != cryptoutil.Curve25519KeySize {
		return nil, errors.Wrapf(cryptoutil.ErrInvalidKey, "box key must be %d bytes, got %d", cryptoutil.Curve25519KeySize, len(raw))
	}

	var key [cryptoutil.Curve25519KeySize]byte
	copy(key[:], raw)

	return &key, nil
}
