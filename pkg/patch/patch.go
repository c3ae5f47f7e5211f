/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/docutil"
)

// Action defines the action of a document patch.
type Action string

const (
	// AddPublicKeys captures enum value "add-public-keys".
	AddPublicKeys Action = "add-public-keys"

	// RemovePublicKeys captures enum value "remove-public-keys".
	RemovePublicKeys Action = "remove-public-keys"

	// AddServiceEndpoints captures enum value "add-service-endpoints".
	AddServiceEndpoints Action = "add-service-endpoints"

	// RemoveServiceEndpoints captures enum value "remove-service-endpoints".
	RemoveServiceEndpoints Action = "remove-service-endpoints"

	// JSONPatch captures enum value "ietf-json-patch".
	JSONPatch Action = "ietf-json-patch"
)

// Key defines a key that will be used to get document patch information.
type Key string

const (

	// ActionKey captures "action" key.
	ActionKey Key = "action"

	// PublicKeys captures "publicKeys" key.
	PublicKeys Key = "publicKeys"

	// ServiceTypeKey captures "serviceType" key.
	ServiceTypeKey Key = "serviceType"

	// ServiceEndpointsKey captures "serviceEndpoints" key.
	ServiceEndpointsKey Key = "serviceEndpoints"

	// PatchesKey captures "patches" key.
	PatchesKey Key = "patches"
)

// Patch defines a generic patch structure. Unknown actions are preserved so that
// replay of forward-version operations is harmless.
type Patch map[Key]interface{}

// FromBytes parses provided data into a document patch.
func FromBytes(data []byte) (Patch, error) {
	patch := make(Patch)

	err := json.Unmarshal(data, &patch)
	if err != nil {
		return nil, err
	}

	return patch, nil
}

// NewAddPublicKeysPatch creates a new patch for adding public keys.
func NewAddPublicKeysPatch(publicKeys string) (Patch, error) {
	pks, err := arrayFromJSON(publicKeys)
	if err != nil {
		return nil, errors.Wrap(err, "public keys invalid")
	}

	patch := make(Patch)
	patch[ActionKey] = AddPublicKeys
	patch[PublicKeys] = pks

	return patch, nil
}

// NewRemovePublicKeysPatch creates a new patch for removing public keys by ID.
func NewRemovePublicKeysPatch(publicKeyIds string) (Patch, error) {
	ids, err := arrayFromJSON(publicKeyIds)
	if err != nil {
		return nil, errors.Wrap(err, "public key ids invalid")
	}

	patch := make(Patch)
	patch[ActionKey] = RemovePublicKeys
	patch[PublicKeys] = ids

	return patch, nil
}

// NewAddServiceEndpointsPatch creates a new patch for adding service endpoints.
func NewAddServiceEndpointsPatch(serviceType string, serviceEndpoints string) (Patch, error) {
	endpoints, err := arrayFromJSON(serviceEndpoints)
	if err != nil {
		return nil, errors.Wrap(err, "service endpoints invalid")
	}

	patch := make(Patch)
	patch[ActionKey] = AddServiceEndpoints
	patch[ServiceTypeKey] = serviceType
	patch[ServiceEndpointsKey] = endpoints

	return patch, nil
}

// NewRemoveServiceEndpointsPatch creates a new patch for removing service endpoints.
func NewRemoveServiceEndpointsPatch(serviceType string, serviceEndpoints string) (Patch, error) {
	endpoints, err := arrayFromJSON(serviceEndpoints)
	if err != nil {
		return nil, errors.Wrap(err, "service endpoints invalid")
	}

	patch := make(Patch)
	patch[ActionKey] = RemoveServiceEndpoints
	patch[ServiceTypeKey] = serviceType
	patch[ServiceEndpointsKey] = endpoints

	return patch, nil
}

// NewJSONPatch creates a new generic update patch (RFC 6902).
func NewJSONPatch(patches string) (Patch, error) {
	if err := validateJSONPatches([]byte(patches)); err != nil {
		return nil, err
	}

	var parsed []interface{}
	if err := json.Unmarshal([]byte(patches), &parsed); err != nil {
		return nil, err
	}

	patch := make(Patch)
	patch[ActionKey] = JSONPatch
	patch[PatchesKey] = parsed

	return patch, nil
}

// GetAction returns the patch action or "" if not found or wrong type.
func (p Patch) GetAction() Action {
	entry := p[ActionKey]

	actionStr, ok := entry.(string)
	if ok {
		return Action(actionStr)
	}

	action, ok := entry.(Action)
	if ok {
		return action
	}

	return ""
}

// GetStringValue returns string value for specified key or "" if not found or wrong type.
func (p Patch) GetStringValue(key Key) string {
	entry, ok := p[key].(string)
	if !ok {
		return ""
	}

	return entry
}

// GetValue returns the value for the specified key or nil if not found.
func (p Patch) GetValue(key Key) interface{} {
	return p[key]
}

// Bytes returns the canonical byte representation of the patch.
func (p Patch) Bytes() ([]byte, error) {
	return docutil.MarshalCanonical(p)
}

// Validate validates a recognized patch; unknown actions are valid by definition.
func (p Patch) Validate() error {
	action := p.GetAction()
	if action == "" {
		return errors.New("patch is missing action property")
	}

	switch action {
	case AddPublicKeys, RemovePublicKeys:
		return p.requireArray(PublicKeys)
	case AddServiceEndpoints, RemoveServiceEndpoints:
		if p.GetStringValue(ServiceTypeKey) == "" {
			return errors.New("patch is missing service type")
		}

		return p.requireArray(ServiceEndpointsKey)
	case JSONPatch:
		if err := p.requireArray(PatchesKey); err != nil {
			return err
		}

		patchesBytes, err := json.Marshal(p.GetValue(PatchesKey))
		if err != nil {
			return err
		}

		return validateJSONPatches(patchesBytes)
	}

	// unknown actions are no-ops during composition; accept them so that
	// replaying operations from a newer protocol version doesn't fail
	return nil
}

func (p Patch) requireArray(key Key) error {
	entry := p.GetValue(key)
	if entry == nil {
		return fmt.Errorf("patch is missing %s property", key)
	}

	if _, ok := entry.([]interface{}); !ok {
		return fmt.Errorf("patch property %s is not an array", key)
	}

	return nil
}

func validateJSONPatches(patches []byte) error {
	jsonPatches, err := jsonpatch.DecodePatch(patches)
	if err != nil {
		return err
	}

	for _, p := range jsonPatches {
		pathMsg, ok := p["path"]
		if !ok || pathMsg == nil {
			return errors.New("ietf-json-patch: path not found")
		}
	}

	return nil
}

func arrayFromJSON(arrayJSON string) ([]interface{}, error) {
	var parsed []interface{}
	if err := json.Unmarshal([]byte(arrayJSON), &parsed); err != nil {
		return nil, err
	}

	return parsed, nil
}
