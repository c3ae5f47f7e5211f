/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

// ServiceEndpointProperty defines service endpoint.
const ServiceEndpointProperty = "serviceEndpoint"

// InstancesProperty defines the instances of a hub service endpoint.
const InstancesProperty = "instances"

// Service represents any type of service the entity wishes to advertise.
type Service map[string]interface{}

// NewService creates new service.
func NewService(m map[string]interface{}) Service {
	return m
}

// ID is service ID.
func (s Service) ID() string {
	return stringEntry(s[IDProperty])
}

// Type is service type.
func (s Service) Type() string {
	return stringEntry(s[TypeProperty])
}

// Endpoint is service endpoint.
func (s Service) Endpoint() map[string]interface{} {
	entry, ok := s[ServiceEndpointProperty]
	if !ok {
		return nil
	}

	endpoint, ok := entry.(map[string]interface{})
	if !ok {
		return nil
	}

	return endpoint
}

// EndpointInstances returns the instances of a hub-style service endpoint.
func (s Service) EndpointInstances() []string {
	endpoint := s.Endpoint()
	if endpoint == nil {
		return nil
	}

	return StringArray(endpoint[InstancesProperty])
}

// JSONLdObject returns map that represents JSON LD Object.
func (s Service) JSONLdObject() map[string]interface{} {
	return s
}
