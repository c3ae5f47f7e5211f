/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

const (

	// ControllerProperty defines key for controller.
	ControllerProperty = "controller"

	// UsageProperty describes the key usage property.
	UsageProperty = "usage"

	// TypeProperty describes type.
	TypeProperty = "type"

	// PublicKeyHexProperty defines hex encoding for public key.
	PublicKeyHexProperty = "publicKeyHex"
)

// Key usages.
const (

	// KeyUsageSigning indicates that the key can sign update operations.
	KeyUsageSigning = "signing"

	// KeyUsageRecovery marks the recovery key; such keys cannot be removed by update.
	KeyUsageRecovery = "recovery"
)

// PublicKey must include id and type properties, and exactly one value property.
type PublicKey map[string]interface{}

// NewPublicKey creates new public key.
func NewPublicKey(pk map[string]interface{}) PublicKey {
	return pk
}

// ID is public key ID.
func (pk PublicKey) ID() string {
	return stringEntry(pk[IDProperty])
}

// Type is public key type.
func (pk PublicKey) Type() string {
	return stringEntry(pk[TypeProperty])
}

// Controller identifies the entity that controls the corresponding private key.
func (pk PublicKey) Controller() string {
	return stringEntry(pk[ControllerProperty])
}

// Usage describes the key usage.
func (pk PublicKey) Usage() string {
	return stringEntry(pk[UsageProperty])
}

// PublicKeyHex is the hex encoded public key.
func (pk PublicKey) PublicKeyHex() string {
	return stringEntry(pk[PublicKeyHexProperty])
}

// JSONLdObject returns map that represents JSON LD Object.
func (pk PublicKey) JSONLdObject() map[string]interface{} {
	return pk
}
