/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package securechannel

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/attesta-network/sdk-go/pkg/messaging"
)

// Protocol identifier constants owned by this SDK. Changing ProtocolVersion
// is a breaking protocol change: envelopes of different versions must not be
// assumed compatible.
const (
	IssuerURI       = "https://identity.attesta.network"
	ProtocolName    = "credential-messaging"
	ProtocolVersion = "1.0"
)

var (
	// ErrInvalidTypeURI marks a type URI that is absent or does not split
	// into issuer, protocol name, version and message type.
	ErrInvalidTypeURI = errors.New("missing or invalid message type URI")

	// ErrProtocolMismatch marks an envelope for a protocol name or version
	// this SDK does not speak.
	ErrProtocolMismatch = errors.New("envelope protocol not supported")

	// ErrUnknownMessageType marks a type URI whose message-type segment is
	// outside the closed body type enumeration.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// TypeURI is a parsed namespaced message type:
// <issuer-uri>/<protocol-name>/<protocol-version>/<message-type>.
type TypeURI struct {
	Issuer      string
	Protocol    string
	Version     string
	MessageType string
}

// String reassembles the URI.
func (t TypeURI) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Issuer, t.Protocol, t.Version, t.MessageType)
}

// TypeURIFor returns this SDK's type URI for a body kind.
func TypeURIFor(t messaging.BodyType) string {
	return TypeURI{
		Issuer:      IssuerURI,
		Protocol:    ProtocolName,
		Version:     ProtocolVersion,
		MessageType: string(t),
	}.String()
}

// ParseTypeURI splits a namespaced type URI. The three trailing segments are
// protocol name, version and message type; everything before them is the
// issuer URI.
func ParseTypeURI(uri string) (TypeURI, error) {
	if uri == "" {
		return TypeURI{}, errors.WithStack(ErrInvalidTypeURI)
	}

	segments := strings.Split(uri, "/")
	if len(segments) < 4 {
		return TypeURI{}, errors.Wrapf(ErrInvalidTypeURI, "%q", uri)
	}

	n := len(segments)

	parsed := TypeURI{
		Issuer:      strings.Join(segments[:n-3], "/"),
		Protocol:    segments[n-3],
		Version:     segments[n-2],
		MessageType: segments[n-1],
	}

	if parsed.Protocol == "" || parsed.Version == "" || parsed.MessageType == "" {
		return TypeURI{}, errors.Wrapf(ErrInvalidTypeURI, "%q", uri)
	}

	return parsed, nil
}

// checkTypeURI asserts that a parsed URI names this SDK's protocol and
// version and a known message type. The protocol gate applies even when the
// message-type segment alone would be valid.
func checkTypeURI(t TypeURI) error {
	if t.Protocol != ProtocolName || t.Version != ProtocolVersion {
		return errors.Wrapf(ErrProtocolMismatch, "%s/%s", t.Protocol, t.Version)
	}

	if !messaging.KnownBodyType(t.MessageType) {
		return errors.Wrapf(ErrUnknownMessageType, "%q", t.MessageType)
	}

	return nil
}
