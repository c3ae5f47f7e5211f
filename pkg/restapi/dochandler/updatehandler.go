/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dochandler

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/sandrask/sidetree/pkg/api/batch"
	"github.com/sandrask/sidetree/pkg/api/protocol"
	"github.com/sandrask/sidetree/pkg/document"
	"github.com/sandrask/sidetree/pkg/operation"
	"github.com/sandrask/sidetree/pkg/restapi/common"
)

// Processor processes document operations.
type Processor interface {
	Namespace() string
	Protocol() protocol.Client
	ProcessOperation(operation *batch.Operation) (document.Document, error)
}

// UpdateHandler handles the creation and update of documents.
type UpdateHandler struct {
	processor Processor
}

// NewUpdateHandler returns a new document update handler.
func NewUpdateHandler(processor Processor) *UpdateHandler {
	return &UpdateHandler{
		processor: processor,
	}
}

// Update creates or updates a document.
func (h *UpdateHandler) Update(rw http.ResponseWriter, req *http.Request) {
	request, err := io.ReadAll(req.Body)
	if err != nil {
		common.WriteError(rw, http.StatusBadRequest, err)

		return
	}

	response, err := h.doUpdate(request)
	if err != nil {
		common.WriteError(rw, err.(*common.HTTPError).Status(), err)

		return
	}

	common.WriteResponse(rw, http.StatusOK, response)
}

func (h *UpdateHandler) doUpdate(request []byte) (document.Document, error) {
	op, err := operation.ParseOperation(h.processor.Namespace(), request, h.processor.Protocol().Current())
	if err != nil {
		log.Warnf("operation validation error: %s", err)

		return nil, common.NewHTTPError(http.StatusBadRequest, err)
	}

	// operation has been validated, now process it
	result, err := h.processor.ProcessOperation(op)
	if err != nil {
		log.Errorf("internal server error: %s", err)

		return nil, common.NewHTTPError(http.StatusInternalServerError, err)
	}

	return result, nil
}
