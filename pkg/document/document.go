/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"encoding/json"

	"github.com/sandrask/sidetree/pkg/docutil"
)

// IDProperty describes id key.
const IDProperty = "id"

// ContextProperty defines key for context property.
const ContextProperty = "@context"

// Document defines generic document data structure.
type Document map[string]interface{}

// FromBytes creates an instance of Document by reading a JSON document from bytes.
func FromBytes(data []byte) (Document, error) {
	doc := make(Document)
	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// FromJSONLDObject creates an instance of Document from json ld object.
func FromJSONLDObject(jsonldObject map[string]interface{}) Document {
	return jsonldObject
}

// ID is document identifier.
func (doc Document) ID() string {
	return stringEntry(doc[IDProperty])
}

// Context is the context of document.
func (doc Document) Context() []interface{} {
	return interfaceArray(doc[ContextProperty])
}

// PublicKeys returns the public keys of the document.
func (doc Document) PublicKeys() []PublicKey {
	return ParsePublicKeys(doc[PublicKeyProperty])
}

// GetStringValue returns string value for specified key or "" if not found or wrong type.
func (doc Document) GetStringValue(key string) string {
	return stringEntry(doc[key])
}

// Bytes returns the canonical byte representation of the document.
func (doc Document) Bytes() ([]byte, error) {
	return docutil.MarshalCanonical(doc)
}

// JSONLdObject returns map that represents JSON LD Object.
func (doc Document) JSONLdObject() map[string]interface{} {
	return doc
}

// Copy returns a deep copy of the document. Mutating the copy leaves the original
// untouched, which is what the processor's atomicity contract relies on.
func (doc Document) Copy() (Document, error) {
	if doc == nil {
		return nil, nil
	}

	bytes, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	return FromBytes(bytes)
}

func stringEntry(entry interface{}) string {
	if entry == nil {
		return ""
	}

	id, ok := entry.(string)
	if !ok {
		return ""
	}

	return id
}

// StringArray is utility function to return string array from interface.
func StringArray(entry interface{}) []string {
	if entry == nil {
		return nil
	}

	entries, ok := entry.([]interface{})
	if !ok {
		return nil
	}

	var result []string

	for _, e := range entries {
		val, ok := e.(string)
		if !ok {
			continue
		}

		result = append(result, val)
	}

	return result
}

func interfaceArray(entry interface{}) []interface{} {
	if entry == nil {
		return nil
	}

	entries, ok := entry.([]interface{})
	if !ok {
		return nil
	}

	return entries
}
