/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credential defines the plain data objects exchanged inside protocol
// messages: claims, attestations, attestation requests and delegation data.
// These carry no behavior here; the messaging layer signs and wraps them, the
// chain layer anchors them.
package credential

// Claim is a set of statements about an owner, shaped by a CType schema.
type Claim struct {
	CTypeHash string                 `json:"cTypeHash"`
	Owner     string                 `json:"owner"`
	Contents  map[string]interface{} `json:"contents"`
}

// PartialClaim is a Claim under negotiation: only the schema is mandatory.
type PartialClaim struct {
	CTypeHash string                 `json:"cTypeHash"`
	Owner     string                 `json:"owner,omitempty"`
	Contents  map[string]interface{} `json:"contents,omitempty"`
}

// RequestForAttestation is a claimer's signed request that an attester vouch
// for a claim.
type RequestForAttestation struct {
	Claim            Claim           `json:"claim"`
	RootHash         string          `json:"rootHash"`
	ClaimerSignature string          `json:"claimerSignature"`
	Legitimations    []AttestedClaim `json:"legitimations,omitempty"`
	DelegationID     *string         `json:"delegationId,omitempty"`
}

// Attestation is an attester's on-chain-anchored statement about a claim.
type Attestation struct {
	ClaimHash    string  `json:"claimHash"`
	CTypeHash    string  `json:"cTypeHash"`
	Owner        string  `json:"owner"`
	DelegationID *string `json:"delegationId,omitempty"`
	Revoked      bool    `json:"revoked"`
}

// AttestedClaim pairs a request with the attestation issued for it; it is the
// credential a claimer presents to verifiers.
type AttestedClaim struct {
	Request     RequestForAttestation `json:"request"`
	Attestation Attestation           `json:"attestation"`
}

// Terms are an attester's conditions for attesting a claim.
type Terms struct {
	Claim         PartialClaim        `json:"claim"`
	Legitimations []AttestedClaim     `json:"legitimations,omitempty"`
	DelegationID  *string             `json:"delegationId,omitempty"`
	Quote         QuoteAttesterSigned `json:"quote,omitempty"`
	CTypes        []string            `json:"cTypes,omitempty"`
}

// QuoteAttesterSigned is an attester-signed cost quote. Quotes are opaque to
// the messaging core.
type QuoteAttesterSigned map[string]interface{}

// Permission names an action a delegate may perform.
type Permission string

// Delegation permissions.
const (
	PermissionAttest   Permission = "ATTEST"
	PermissionDelegate Permission = "DELEGATE"
)

// DelegationData describes a node of the on-chain delegation tree being
// offered to an invitee.
type DelegationData struct {
	Account     string       `json:"account"`
	ID          string       `json:"id"`
	ParentID    *string      `json:"parentId,omitempty"`
	Permissions []Permission `json:"permissions"`
	IsPCR       bool         `json:"isPCR"`
}
