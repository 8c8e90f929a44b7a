/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package securechannel

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/box"

	"github.com/attesta-network/sdk-go/pkg/internal/cryptoutil"
)

// sodiumBoxSeal encrypts msg for the holder of recPub under an ephemeral
// keypair, prepending the ephemeral public key. Equivalent to libsodium's
// crypto_box_seal, including its derived nonce.
func sodiumBoxSeal(msg []byte, recPub *[cryptoutil.Curve25519KeySize]byte, randSource io.Reader) ([]byte, error) {
	epk, esk, err := box.GenerateKey(randSource)
	if err != nil {
		return nil, err
	}

	nonce, err := cryptoutil.Nonce(epk[:], recPub[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(epk))
	copy(out, epk[:])

	return box.Seal(out, msg, nonce, recPub, esk), nil
}

// sodiumSealOpen decrypts a sodiumBoxSeal message using the recipient's
// keypair: the ephemeral sender key is read from the head of the ciphertext.
func sodiumSealOpen(cipherText []byte, recPub, recPriv *[cryptoutil.Curve25519KeySize]byte) ([]byte, error) {
	if len(cipherText) < cryptoutil.Curve25519KeySize {
		return nil, errors.New("message too short")
	}

	var epk [cryptoutil.Curve25519KeySize]byte
	copy(epk[:], cipherText[:cryptoutil.Curve25519KeySize])

	nonce, err := cryptoutil.Nonce(epk[:], recPub[:])
	if err != nil {
		return nil, err
	}

	out, ok := box.Open(nil, cipherText[cryptoutil.Curve25519KeySize:], nonce, &epk, recPriv)
	if !ok {
		return nil, errors.New("failed to unpack")
	}

	return out, nil
}
