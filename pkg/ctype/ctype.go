/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ctype validates claim contents against CType JSON schemas. The
// messaging core consumes only the Validator interface; the default
// implementation is provided for callers that hold raw schemas.
package ctype

import (
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/attesta-network/sdk-go/pkg/credential"
)

// Validator checks a claim against a CType schema.
type Validator interface {
	Validate(claim credential.Claim, schema []byte) (bool, error)
}

// SchemaValidator validates claim contents against a CType JSON schema.
type SchemaValidator struct{}

// NewSchemaValidator returns the default JSON-schema backed Validator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// Validate returns true when the claim's contents conform to schema. A false
// return with nil error means the contents are well-formed but do not
// conform.
func (v *SchemaValidator) Validate(claim credential.Claim, schema []byte) (bool, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(claim.Contents))
	if err != nil {
		return false, errors.Wrap(err, "validation of claim contents failed")
	}

	return result.Valid(), nil
}
