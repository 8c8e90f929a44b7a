/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package chain declares the on-chain collaborators the messaging core hands
// results to. Implementations live outside this module; each call blocks
// until the extrinsic is committed or returns the chain error.
package chain

import (
	"context"

	"github.com/attesta-network/sdk-go/pkg/credential"
)

// AttestationStore anchors and retires attestations on chain.
type AttestationStore interface {
	StoreAttestation(ctx context.Context, att *credential.Attestation) error
	RevokeAttestation(ctx context.Context, claimHash string) error
	RemoveAttestation(ctx context.Context, claimHash string) error
}

// DelegationReader fetches nodes of the delegation tree.
type DelegationReader interface {
	GetDelegation(ctx context.Context, id string) (*credential.DelegationData, error)
}

// Balance moves tokens between addresses.
type Balance interface {
	TransferTokens(ctx context.Context, receiverAddress string, amount uint64) error
}
