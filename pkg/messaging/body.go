/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package messaging

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/attesta-network/sdk-go/pkg/credential"
)

// BodyType discriminates the protocol message kinds. The set is closed: a
// type outside it is a foreign protocol extension and is rejected during
// decoding.
type BodyType string

// The sixteen protocol message kinds.
const (
	// terms negotiation
	RequestTerms BodyType = "request-terms"
	SubmitTerms  BodyType = "submit-terms"
	RejectTerms  BodyType = "reject-terms"

	// attestation lifecycle
	InitiateAttestation        BodyType = "initiate-attestation"
	RequestAttestationForClaim BodyType = "request-attestation-for-claim"
	SubmitAttestationForClaim  BodyType = "submit-attestation-for-claim"
	RejectAttestationForClaim  BodyType = "reject-attestation-for-claim"

	// claim presentation
	RequestClaimsForCTypes       BodyType = "request-claims-for-ctypes"
	SubmitClaimsForCTypesClassic BodyType = "submit-claims-for-ctypes-classic"
	SubmitClaimsForCTypesPE      BodyType = "submit-claims-for-ctypes-pe"
	AcceptClaimsForCTypes        BodyType = "accept-claims-for-ctypes"
	RejectClaimsForCTypes        BodyType = "reject-claims-for-ctypes"

	// delegation
	RequestAcceptDelegation BodyType = "request-accept-delegation"
	SubmitAcceptDelegation  BodyType = "submit-accept-delegation"
	RejectAcceptDelegation  BodyType = "reject-accept-delegation"
	InformCreateDelegation  BodyType = "inform-create-delegation"
)

var knownBodyTypes = map[BodyType]struct{}{
	RequestTerms:                 {},
	SubmitTerms:                  {},
	RejectTerms:                  {},
	InitiateAttestation:          {},
	RequestAttestationForClaim:   {},
	SubmitAttestationForClaim:    {},
	RejectAttestationForClaim:    {},
	RequestClaimsForCTypes:       {},
	SubmitClaimsForCTypesClassic: {},
	SubmitClaimsForCTypesPE:      {},
	AcceptClaimsForCTypes:        {},
	RejectClaimsForCTypes:        {},
	RequestAcceptDelegation:      {},
	SubmitAcceptDelegation:       {},
	RejectAcceptDelegation:       {},
	InformCreateDelegation:       {},
}

// KnownBodyType reports whether s names one of the protocol message kinds.
func KnownBodyType(s string) bool {
	_, ok := knownBodyTypes[BodyType(s)]
	return ok
}

// MessageBody is the tagged union of protocol message kinds: Type determines
// the shape of Content, and Content must never be interpreted under another
// kind's tag.
type MessageBody struct {
	Type    BodyType        `json:"type"`
	Content json.RawMessage `json:"content"`
}

// NewBody marshals content under the given tag. It rejects tags outside the
// closed enumeration.
func NewBody(t BodyType, content interface{}) (MessageBody, error) {
	if !KnownBodyType(string(t)) {
		return MessageBody{}, errors.Wrapf(ErrUnknownBodyType, "%q", t)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return MessageBody{}, errors.Wrapf(err, "marshal %s content", t)
	}

	return MessageBody{Type: t, Content: raw}, nil
}

// DecodeContent unmarshals the body's content into out, which must be the
// content struct matching the body's tag.
func (b MessageBody) DecodeContent(out interface{}) error {
	return json.Unmarshal(b.Content, out)
}

// RejectTermsContent carries the negotiated pieces a claimer walks away from.
type RejectTermsContent struct {
	Claim         credential.PartialClaim    `json:"claim"`
	Legitimations []credential.AttestedClaim `json:"legitimations,omitempty"`
	DelegationID  *string                    `json:"delegationId,omitempty"`
}

// RequestAttestationContent asks an attester to vouch for the embedded
// request. Also the content of reject-attestation-for-claim.
type RequestAttestationContent struct {
	RequestForAttestation credential.RequestForAttestation `json:"requestForAttestation"`
}

// SubmitAttestationContent returns the issued attestation to the claimer.
type SubmitAttestationContent struct {
	Attestation credential.Attestation `json:"attestation"`
}

// RequestClaimsContent asks a claimer for credentials of the given CTypes.
type RequestClaimsContent struct {
	CTypeHashes []string `json:"ctypes"`
	AcceptPE    bool     `json:"acceptPE,omitempty"`
}

// DelegationSignatures holds the per-party approval signatures of a
// delegation invitation.
type DelegationSignatures struct {
	Inviter string `json:"inviter"`
	Invitee string `json:"invitee,omitempty"`
}

// RequestAcceptDelegationContent invites an account into the delegation tree.
type RequestAcceptDelegationContent struct {
	DelegationData credential.DelegationData `json:"delegationData"`
	Signatures     DelegationSignatures      `json:"signatures"`
	MetaData       map[string]interface{}    `json:"metaData,omitempty"`
}

// SubmitAcceptDelegationContent is the invitee's countersigned acceptance.
type SubmitAcceptDelegationContent struct {
	DelegationData credential.DelegationData `json:"delegationData"`
	Signatures     DelegationSignatures      `json:"signatures"`
}

// InformCreateDelegationContent notifies the invitee that the delegation node
// was anchored.
type InformCreateDelegationContent struct {
	DelegationID string `json:"delegationId"`
	IsPCR        bool   `json:"isPCR"`
}
