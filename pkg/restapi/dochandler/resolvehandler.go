/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dochandler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sandrask/sidetree/pkg/document"
	"github.com/sandrask/sidetree/pkg/restapi/common"
)

// Resolver resolves documents.
type Resolver interface {
	ResolveDocument(idOrDocument string) (document.Document, error)
}

// ResolveHandler resolves generic documents.
type ResolveHandler struct {
	resolver Resolver
}

// NewResolveHandler returns a new document resolve handler.
func NewResolveHandler(resolver Resolver) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolver,
	}
}

// Resolve resolves a document.
func (o *ResolveHandler) Resolve(rw http.ResponseWriter, req *http.Request) {
	id := getID(req)
	log.Debugf("resolving document for ID [%s]", id)

	response, err := o.doResolve(id)
	if err != nil {
		common.WriteError(rw, err.(*common.HTTPError).Status(), err)

		return
	}

	common.WriteResponse(rw, http.StatusOK, response)
}

func (o *ResolveHandler) doResolve(id string) (document.Document, error) {
	doc, err := o.resolver.ResolveDocument(id)
	if err != nil {
		if strings.Contains(err.Error(), "bad request") {
			return nil, common.NewHTTPError(http.StatusBadRequest, err)
		}

		if strings.Contains(err.Error(), "not found") {
			return nil, common.NewHTTPError(http.StatusNotFound, errors.New("document not found"))
		}

		log.Errorf("internal server error: %s", err)

		return nil, common.NewHTTPError(http.StatusInternalServerError, err)
	}

	return doc, nil
}

var getID = func(req *http.Request) string {
	return mux.Vars(req)["id"]
}
