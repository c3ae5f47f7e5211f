/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package docutil

import (
	"encoding/json"
)

// MarshalCanonical marshals the object into a canonical JSON format.
func MarshalCanonical(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return getCanonicalContent(b)
}

// getCanonicalContent ensures that fields in the JSON doc are marshaled in a deterministic order.
func getCanonicalContent(content []byte) ([]byte, error) {
	m, err := unmarshalJSONMap(content)
	if err != nil {
		a, err := unmarshalJSONArray(content)
		if err != nil {
			return nil, err
		}

		// Re-marshal it in order to ensure that the JSON fields are marshaled in a deterministic order.
		return marshalJSONArray(a)
	}

	// Re-marshal it in order to ensure that the JSON fields are marshaled in a deterministic order.
	return marshalJSONMap(m)
}

// marshalJSONMap marshals a JSON map.
func marshalJSONMap(m map[string]interface{}) ([]byte, error) {
	return json.Marshal(&m)
}

// unmarshalJSONMap unmarshals a JSON map from the given bytes.
func unmarshalJSONMap(bytes []byte) (map[string]interface{}, error) {
	m := make(map[string]interface{})
	err := json.Unmarshal(bytes, &m)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// unmarshalJSONArray unmarshals an array of JSON maps from the given bytes.
func unmarshalJSONArray(bytes []byte) ([]map[string]interface{}, error) {
	var a []map[string]interface{}
	err := json.Unmarshal(bytes, &a)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// marshalJSONArray marshals an array of JSON maps.
func marshalJSONArray(a []map[string]interface{}) ([]byte, error) {
	return json.Marshal(&a)
}
