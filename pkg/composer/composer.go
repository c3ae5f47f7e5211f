/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package composer

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sandrask/sidetree/pkg/document"
	"github.com/sandrask/sidetree/pkg/patch"
)

const (
	hubEndpointContext = "schema.identity.foundation/hub"
	hubEndpointType    = "UserServiceEndpoint"
)

// ApplyPatches applies patches to the document in order. The input ordering fully
// determines the output; document iteration order preserves insertion order.
func ApplyPatches(doc document.Document, patches []patch.Patch) (document.Document, error) {
	var err error

	for _, p := range patches {
		doc, err = applyPatch(doc, p)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func applyPatch(doc document.Document, p patch.Patch) (document.Document, error) {
	action := p.GetAction()
	switch action {
	case patch.AddPublicKeys:
		return applyAddPublicKeys(doc, p.GetValue(patch.PublicKeys))
	case patch.RemovePublicKeys:
		return applyRemovePublicKeys(doc, p.GetValue(patch.PublicKeys))
	case patch.AddServiceEndpoints:
		return applyAddServiceEndpoints(doc, p.GetStringValue(patch.ServiceTypeKey), p.GetValue(patch.ServiceEndpointsKey))
	case patch.RemoveServiceEndpoints:
		return applyRemoveServiceEndpoints(doc, p.GetStringValue(patch.ServiceTypeKey), p.GetValue(patch.ServiceEndpointsKey))
	case patch.JSONPatch:
		return applyJSON(doc, p.GetValue(patch.PatchesKey))
	}

	// unknown patch actions are no-ops so that operations written by a newer
	// protocol version replay without breaking older nodes
	log.Debugf("ignoring unknown patch action '%s'", action)

	return doc, nil
}

// applyAddPublicKeys adds public keys to the document. A key whose ID is already
// present is silently skipped. The controller is always set to the document ID;
// a client-supplied controller is discarded.
func applyAddPublicKeys(doc document.Document, entry interface{}) (document.Document, error) {
	log.Debugf("applying add public keys patch: %v", entry)

	newKeys := document.ParsePublicKeys(entry)
	if len(newKeys) == 0 {
		return nil, errors.New("add-public-keys: no valid public keys")
	}

	existing := document.DidDocumentFromJSONLDObject(doc.JSONLdObject()).PublicKeys()

	existingIDs := make(map[string]bool)
	for _, pk := range existing {
		existingIDs[pk.ID()] = true
	}

	result := publicKeysToSlice(existing)

	for _, key := range newKeys {
		if existingIDs[key.ID()] {
			continue
		}

		key[document.ControllerProperty] = doc.ID()
		result = append(result, key.JSONLdObject())
		existingIDs[key.ID()] = true
	}

	doc[document.PublicKeyProperty] = result

	return doc, nil
}

// applyRemovePublicKeys removes public keys by ID. Keys with usage 'recovery' are
// not removable by update; removal requires a recover operation.
func applyRemovePublicKeys(doc document.Document, entry interface{}) (document.Document, error) {
	log.Debugf("applying remove public keys patch: %v", entry)

	keysToRemove := document.StringArray(entry)
	if len(keysToRemove) == 0 {
		return nil, errors.New("remove-public-keys: no key ids")
	}

	removeIDs := make(map[string]bool)
	for _, id := range keysToRemove {
		removeIDs[id] = true
	}

	var result []interface{}

	for _, pk := range document.DidDocumentFromJSONLDObject(doc.JSONLdObject()).PublicKeys() {
		if removeIDs[pk.ID()] && pk.Usage() != document.KeyUsageRecovery {
			continue
		}

		result = append(result, pk.JSONLdObject())
	}

	doc[document.PublicKeyProperty] = result

	return doc, nil
}

// applyAddServiceEndpoints appends endpoints to the instances of the service entry
// with matching type, creating a hub-style entry if none exists. Endpoints already
// present are skipped.
func applyAddServiceEndpoints(doc document.Document, serviceType string, entry interface{}) (document.Document, error) {
	log.Debugf("applying add service endpoints patch: %v", entry)

	endpoints := document.StringArray(entry)
	if len(endpoints) == 0 {
		return nil, errors.New("add-service-endpoints: no endpoints")
	}

	diddoc := document.DidDocumentFromJSONLDObject(doc.JSONLdObject())

	svc := findService(diddoc, serviceType)
	if svc == nil {
		svc = document.NewService(map[string]interface{}{
			document.TypeProperty: serviceType,
			document.ServiceEndpointProperty: map[string]interface{}{
				"@context":                 hubEndpointContext,
				"@type":                    hubEndpointType,
				document.InstancesProperty: []interface{}{},
			},
		})

		doc[document.ServiceProperty] = append(servicesToSlice(diddoc.Services()), svc.JSONLdObject())
	}

	endpoint := svc.Endpoint()
	if endpoint == nil {
		endpoint = map[string]interface{}{
			"@context": hubEndpointContext,
			"@type":    hubEndpointType,
		}
		svc[document.ServiceEndpointProperty] = endpoint
	}

	instances := interfaceSlice(endpoint[document.InstancesProperty])

	present := make(map[string]bool)
	for _, instance := range document.StringArray(instances) {
		present[instance] = true
	}

	for _, e := range endpoints {
		if present[e] {
			continue
		}

		instances = append(instances, e)
		present[e] = true
	}

	endpoint[document.InstancesProperty] = instances

	return doc, nil
}

// applyRemoveServiceEndpoints removes the listed endpoints from the instances of the
// service entry with matching type. A missing service is a no-op.
func applyRemoveServiceEndpoints(doc document.Document, serviceType string, entry interface{}) (document.Document, error) {
	log.Debugf("applying remove service endpoints patch: %v", entry)

	diddoc := document.DidDocumentFromJSONLDObject(doc.JSONLdObject())

	svc := findService(diddoc, serviceType)
	if svc == nil || svc.Endpoint() == nil {
		return doc, nil
	}

	removeEndpoints := make(map[string]bool)
	for _, endpoint := range document.StringArray(entry) {
		removeEndpoints[endpoint] = true
	}

	var instances []interface{}

	for _, instance := range svc.EndpointInstances() {
		if removeEndpoints[instance] {
			continue
		}

		instances = append(instances, instance)
	}

	svc.Endpoint()[document.InstancesProperty] = instances

	return doc, nil
}

// applyJSON applies an RFC 6902 JSON patch to the document.
func applyJSON(doc document.Document, entry interface{}) (document.Document, error) {
	log.Debugf("applying JSON patch: %v", entry)

	patchesBytes, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	jsonPatches, err := jsonpatch.DecodePatch(patchesBytes)
	if err != nil {
		return nil, err
	}

	docBytes, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	docBytes, err = jsonPatches.Apply(docBytes)
	if err != nil {
		return nil, err
	}

	return document.FromBytes(docBytes)
}

func findService(diddoc document.DIDDocument, serviceType string) document.Service {
	for _, svc := range diddoc.Services() {
		if svc.Type() == serviceType {
			return svc
		}
	}

	return nil
}

func publicKeysToSlice(keys []document.PublicKey) []interface{} {
	var values []interface{}
	for _, pk := range keys {
		values = append(values, pk.JSONLdObject())
	}

	return values
}

func servicesToSlice(services []document.Service) []interface{} {
	var values []interface{}
	for _, svc := range services {
		values = append(values, svc.JSONLdObject())
	}

	return values
}

func interfaceSlice(entry interface{}) []interface{} {
	if entry == nil {
		return nil
	}

	entries, ok := entry.([]interface{})
	if !ok {
		return nil
	}

	return entries
}
