/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attesta-network/sdk-go/pkg/credential"
)

var allBodyTypes = []BodyType{
	RequestTerms, SubmitTerms, RejectTerms,
	InitiateAttestation, RequestAttestationForClaim, SubmitAttestationForClaim, RejectAttestationForClaim,
	RequestClaimsForCTypes, SubmitClaimsForCTypesClassic, SubmitClaimsForCTypesPE,
	AcceptClaimsForCTypes, RejectClaimsForCTypes,
	RequestAcceptDelegation, SubmitAcceptDelegation, RejectAcceptDelegation, InformCreateDelegation,
}

// sampleBodies returns one body per protocol kind, with every embedded owner
// set to the given address.
func sampleBodies(t *testing.T, owner string) map[BodyType]MessageBody {
	t.Helper()

	claim := credential.Claim{
		CTypeHash: "0xabc",
		Owner:     owner,
		Contents:  map[string]interface{}{"name": "alice"},
	}

	request := credential.RequestForAttestation{
		Claim:            claim,
		RootHash:         "0xroot",
		ClaimerSignature: "0xsig",
	}

	attested := credential.AttestedClaim{
		Request: request,
		Attestation: credential.Attestation{
			ClaimHash: "0xroot",
			CTypeHash: "0xabc",
			Owner:     "attester-address",
		},
	}

	delegation := credential.DelegationData{
		Account:     owner,
		ID:          "0xdelegation",
		Permissions: []credential.Permission{credential.PermissionAttest},
	}

	contents := map[BodyType]interface{}{
		RequestTerms: credential.PartialClaim{CTypeHash: "0xabc"},
		SubmitTerms: credential.Terms{
			Claim:  credential.PartialClaim{CTypeHash: "0xabc"},
			CTypes: []string{"0xabc"},
		},
		RejectTerms:                RejectTermsContent{Claim: credential.PartialClaim{CTypeHash: "0xabc"}},
		InitiateAttestation:        map[string]interface{}{},
		RequestAttestationForClaim: RequestAttestationContent{RequestForAttestation: request},
		SubmitAttestationForClaim: SubmitAttestationContent{Attestation: credential.Attestation{
			ClaimHash: "0xroot",
			CTypeHash: "0xabc",
			Owner:     owner,
		}},
		RejectAttestationForClaim:    RequestAttestationContent{RequestForAttestation: request},
		RequestClaimsForCTypes:       RequestClaimsContent{CTypeHashes: []string{"0xabc"}},
		SubmitClaimsForCTypesClassic: []credential.AttestedClaim{attested},
		SubmitClaimsForCTypesPE:      map[string]interface{}{"presentation": "opaque"},
		AcceptClaimsForCTypes:        []string{"0xabc"},
		RejectClaimsForCTypes:        []string{"0xabc"},
		RequestAcceptDelegation: RequestAcceptDelegationContent{
			DelegationData: delegation,
			Signatures:     DelegationSignatures{Inviter: "0xinviter"},
		},
		SubmitAcceptDelegation: SubmitAcceptDelegationContent{
			DelegationData: delegation,
			Signatures:     DelegationSignatures{Inviter: "0xinviter", Invitee: "0xinvitee"},
		},
		RejectAcceptDelegation: delegation,
		InformCreateDelegation: InformCreateDelegationContent{DelegationID: "0xdelegation"},
	}

	bodies := make(map[BodyType]MessageBody, len(contents))

	for bt, content := range contents {
		body, err := NewBody(bt, content)
		require.NoError(t, err)

		bodies[bt] = body
	}

	return bodies
}

func TestKnownBodyType(t *testing.T) {
	t.Run("all sixteen kinds known", func(t *testing.T) {
		require.Len(t, allBodyTypes, 16)

		for _, bt := range allBodyTypes {
			require.True(t, KnownBodyType(string(bt)), string(bt))
		}
	})

	t.Run("foreign types rejected", func(t *testing.T) {
		require.False(t, KnownBodyType("request-coffee"))
		require.False(t, KnownBodyType(""))
	})
}

func TestNewBody(t *testing.T) {
	t.Run("unknown tag rejected", func(t *testing.T) {
		_, err := NewBody("request-coffee", map[string]string{})
		require.ErrorIs(t, err, ErrUnknownBodyType)
	})

	t.Run("content round trip", func(t *testing.T) {
		body, err := NewBody(RequestClaimsForCTypes, RequestClaimsContent{CTypeHashes: []string{"0xabc"}})
		require.NoError(t, err)
		require.Equal(t, RequestClaimsForCTypes, body.Type)

		var content RequestClaimsContent
		require.NoError(t, body.DecodeContent(&content))
		require.Equal(t, []string{"0xabc"}, content.CTypeHashes)
	})

	t.Run("unmarshalable content rejected", func(t *testing.T) {
		_, err := NewBody(RequestTerms, json.RawMessage("{broken"))
		require.Error(t, err)
	})
}
