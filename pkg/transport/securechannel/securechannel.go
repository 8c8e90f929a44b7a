/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package securechannel packs and unpacks JSON envelopes for pairwise
// authenticated-encrypted transport between identity holders. The wire format
// is a protected header naming the recipients, a content encryption key
// sealed per recipient with nacl box, and a chacha20poly1305 ciphertext bound
// to the header. Sender authentication is repudiable by default; a
// non-repudiable mode embeds a detached signature recoverable by any holder
// of the plaintext.
package securechannel

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/bluele/gcache"
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"

	"github.com/attesta-network/sdk-go/pkg/common/log"
	"github.com/attesta-network/sdk-go/pkg/internal/cryptoutil"
)

var logger = log.New("sdk-go/securechannel")

// encodingType is the `typ` string identifier in an envelope that identifies
// the format.
const encodingType = "JWM/1.0"

// Envelope content-key algorithms.
const (
	algAuthcrypt       = "Authcrypt"
	algAuthcryptSigned = "Authcrypt-Signed"
)

const convertedKeyCacheSize = 256

// Packer packs and unpacks secure-channel envelopes.
type Packer struct {
	randSource    io.Reader
	nonRepudiable bool
}

// Option configures a Packer.
type Option func(*Packer)

// WithNonRepudiation makes Pack embed a detached signature over the payload,
// so the sender's authorship is provable by any holder of the plaintext, not
// only the recipient.
func WithNonRepudiation() Option {
	return func(p *Packer) {
		p.nonRepudiable = true
	}
}

// New creates a Packer for the secure-channel envelope format.
func New(opts ...Option) *Packer {
	p := &Packer{randSource: rand.Reader}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// EncodingType returns the type of the encoding, as in the `typ` field of
// the envelope header.
func (p *Packer) EncodingType() string {
	return encodingType
}

// legacyEnvelope is the full payload envelope for the JSON message.
type legacyEnvelope struct {
	Protected  string `json:"protected,omitempty"`
	IV         string `json:"iv,omitempty"`
	CipherText string `json:"ciphertext,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

// protected is the protected header of the JSON envelope.
type protected struct {
	Enc        string      `json:"enc,omitempty"`
	Typ        string      `json:"typ,omitempty"`
	Alg        string      `json:"alg,omitempty"`
	Recipients []recipient `json:"recipients,omitempty"`
}

// recipient holds the data for a recipient in the envelope header.
type recipient struct {
	EncryptedKey string          `json:"encrypted_key,omitempty"`
	Header       recipientHeader `json:"header,omitempty"`
}

// recipientHeader holds the header data for a recipient.
type recipientHeader struct {
	KID    string `json:"kid,omitempty"`
	Sender string `json:"sender,omitempty"`
	IV     string `json:"iv,omitempty"`
}

// signedPayload is the non-repudiable carrier wrapped around the payload
// before encryption.
type signedPayload struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
	Signer    string `json:"signer"`
}

// The engine barrier is entered at most once per process: it probes the
// entropy source and builds the converted-key cache. After it resolves, pack
// and unpack calls proceed concurrently; nothing below mutates shared state
// apart from the thread-safe cache.
var (
	engineOnce sync.Once
	engineErr  error
	keyCache   gcache.Cache
)

func ensureEngineReady() error {
	engineOnce.Do(func() {
		var probe [cryptoutil.Curve25519KeySize]byte

		if _, err := rand.Read(probe[:]); err != nil {
			engineErr = errors.Wrap(err, "crypto engine unavailable")
			return
		}

		keyCache = gcache.New(convertedKeyCacheSize).LRU().Build()

		logger.Debugf("secure-channel crypto engine ready")
	})

	return engineErr
}

// convertedPublicKey returns the curve25519 form of an ed25519 public key,
// caching conversions since counterparty keys recur across messages.
func convertedPublicKey(edPub []byte) ([]byte, error) {
	kid := base58.Encode(edPub)

	if cached, err := keyCache.Get(kid); err == nil {
		return cached.([]byte), nil
	}

	curvePub, err := cryptoutil.PublicEd25519toCurve25519(edPub)
	if err != nil {
		return nil, err
	}

	if err := keyCache.Set(kid, curvePub); err != nil {
		return nil, err
	}

	return curvePub, nil
}
