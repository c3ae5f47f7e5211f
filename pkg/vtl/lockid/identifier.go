/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package lockid serializes and deserializes value-time-lock identifiers. An
// identifier names an on-chain lock by its transaction and redeem script.
package lockid

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/encoder"
)

// LockIdentifier identifies a value-time-lock on the chain.
type LockIdentifier struct {
	TransactionID     string `json:"transactionId"`
	RedeemScriptAsHex string `json:"redeemScriptAsHex"`
}

// Serialize encodes the identifier as base64url(JSON).
func Serialize(identifier *LockIdentifier) (string, error) {
	bytes, err := docutil.MarshalCanonical(identifier)
	if err != nil {
		return "", err
	}

	return encoder.EncodeToString(bytes), nil
}

// Deserialize decodes an identifier produced by Serialize.
func Deserialize(serialized string) (*LockIdentifier, error) {
	bytes, err := encoder.DecodeString(serialized)
	if err != nil {
		return nil, errors.Wrap(err, "decode lock identifier")
	}

	identifier := &LockIdentifier{}
	if err := json.Unmarshal(bytes, identifier); err != nil {
		return nil, errors.Wrap(err, "unmarshal lock identifier")
	}

	if identifier.TransactionID == "" || identifier.RedeemScriptAsHex == "" {
		return nil, errors.New("lock identifier is missing required properties")
	}

	return identifier, nil
}
