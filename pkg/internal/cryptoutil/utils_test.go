/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cryptoutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"
)

func TestKeyConversion(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	t.Run("converted pair agrees with box", func(t *testing.T) {
		curvePub, err := PublicEd25519toCurve25519(pub)
		require.NoError(t, err)
		require.Len(t, curvePub, Curve25519KeySize)

		curvePriv, err := SecretEd25519toCurve25519(priv)
		require.NoError(t, err)
		require.Len(t, curvePriv, Curve25519KeySize)

		// a box sealed to the converted public key opens with the converted
		// private key
		peerPub, peerPriv, err := box.GenerateKey(rand.Reader)
		require.NoError(t, err)

		var (
			ourPub  [Curve25519KeySize]byte
			ourPriv [Curve25519KeySize]byte
			nonce   [NonceSize]byte
		)

		copy(ourPub[:], curvePub)
		copy(ourPriv[:], curvePriv)

		sealed := box.Seal(nil, []byte("msg"), &nonce, &ourPub, peerPriv)

		out, ok := box.Open(nil, sealed, &nonce, peerPub, &ourPriv)
		require.True(t, ok)
		require.Equal(t, []byte("msg"), out)
	})

	t.Run("empty public key", func(t *testing.T) {
		_, err := PublicEd25519toCurve25519(nil)
		require.Error(t, err)
	})

	t.Run("short public key", func(t *testing.T) {
		_, err := PublicEd25519toCurve25519([]byte{1, 2, 3})
		require.Error(t, err)
	})

	t.Run("short private key", func(t *testing.T) {
		_, err := SecretEd25519toCurve25519([]byte{1, 2, 3})
		require.Error(t, err)
	})
}

func TestNonce(t *testing.T) {
	a := []byte("first-public-key-material-bytes!")
	b := []byte("other-public-key-material-bytes!")

	n1, err := Nonce(a, b)
	require.NoError(t, err)

	n2, err := Nonce(a, b)
	require.NoError(t, err)
	require.Equal(t, n1, n2, "nonce derivation is deterministic")

	n3, err := Nonce(b, a)
	require.NoError(t, err)
	require.NotEqual(t, n1, n3, "nonce depends on key order")
}
