/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"encoding/json"
)

const (

	// ServiceProperty defines key for service property.
	ServiceProperty = "service"

	// PublicKeyProperty defines key for public key property.
	PublicKeyProperty = "publicKey"
)

// DIDDocument defines DID document data structure used by sidetree for basic type safety checks.
type DIDDocument map[string]interface{}

// ID is identifier for DID subject (what DID document is about).
func (doc DIDDocument) ID() string {
	return stringEntry(doc[IDProperty])
}

// Context is the context of did document.
func (doc DIDDocument) Context() []interface{} {
	return interfaceArray(doc[ContextProperty])
}

// PublicKeys are used for digital signatures, encryption and other cryptographic operations.
func (doc DIDDocument) PublicKeys() []PublicKey {
	return ParsePublicKeys(doc[PublicKeyProperty])
}

// Services is an array of service endpoints.
func (doc DIDDocument) Services() []Service {
	return ParseServices(doc[ServiceProperty])
}

// JSONLdObject returns map that represents JSON LD Object.
func (doc DIDDocument) JSONLdObject() map[string]interface{} {
	return doc
}

// ParsePublicKeys is a helper function for parsing public keys.
func ParsePublicKeys(entry interface{}) []PublicKey {
	if entry == nil {
		return nil
	}

	typedEntry, ok := entry.([]interface{})
	if !ok {
		return nil
	}

	var result []PublicKey

	for _, e := range typedEntry {
		emap, ok := e.(map[string]interface{})
		if !ok {
			continue
		}

		result = append(result, NewPublicKey(emap))
	}

	return result
}

// ParseServices is a utility for parsing an array of service endpoints.
func ParseServices(entry interface{}) []Service {
	if entry == nil {
		return nil
	}

	typedEntry, ok := entry.([]interface{})
	if !ok {
		return nil
	}

	var result []Service

	for _, e := range typedEntry {
		emap, ok := e.(map[string]interface{})
		if !ok {
			continue
		}

		result = append(result, NewService(emap))
	}

	return result
}

// DidDocumentFromBytes creates an instance of DIDDocument by reading a JSON document from bytes.
func DidDocumentFromBytes(data []byte) (DIDDocument, error) {
	doc := make(DIDDocument)
	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// DidDocumentFromJSONLDObject creates an instance of DIDDocument from json ld object.
func DidDocumentFromJSONLDObject(jsonldObject map[string]interface{}) DIDDocument {
	return jsonldObject
}
