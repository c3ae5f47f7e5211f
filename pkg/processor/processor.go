/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package processor

import (
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sandrask/sidetree/pkg/api/batch"
	"github.com/sandrask/sidetree/pkg/composer"
	"github.com/sandrask/sidetree/pkg/document"
	"github.com/sandrask/sidetree/pkg/docutil"
	internal "github.com/sandrask/sidetree/pkg/internal/jws"
	"github.com/sandrask/sidetree/pkg/jws"
	"github.com/sandrask/sidetree/pkg/restapi/model"
)

// OperationProcessor will process document operations in anchored order and create
// the final document during resolution. It uses an operation store client to
// retrieve all operations that are related to the requested document.
type OperationProcessor struct {
	name  string
	store OperationStoreClient
}

// OperationStoreClient defines interface for retrieving all operations related to a document.
type OperationStoreClient interface {

	// Get retrieves all operations related to the document
	Get(uniqueSuffix string) ([]*batch.Operation, error)
}

// ResolutionModel is the mutable per-DID state produced by applying operations in
// anchored order.
type ResolutionModel struct {
	// Doc is the external DID document; nil before create.
	Doc document.Document

	// RecoveryKey authorizes recover and revoke operations; nil after revoke.
	RecoveryKey *model.PublicKey

	// NextUpdateOTPHash commits to the one-time password of the next update.
	NextUpdateOTPHash string

	// NextRecoveryOTPHash commits to the one-time password of the next recovery/revoke.
	NextRecoveryOTPHash string

	LastOperationTransactionTime   uint64
	LastOperationTransactionNumber uint64
}

// New returns a new operation processor with the given name. (The name is only used for logging.)
func New(name string, store OperationStoreClient) *OperationProcessor {
	return &OperationProcessor{name: name, store: store}
}

// Resolve document based on the given unique suffix.
// Parameters:
// uniqueSuffix - unique portion of ID to resolve. for example "abc123" in "did:sidetree:abc123"
func (s *OperationProcessor) Resolve(uniqueSuffix string) (document.Document, error) {
	ops, err := s.store.Get(uniqueSuffix)
	if err != nil {
		return nil, err
	}

	sortOperations(ops)

	log.Debugf("[%s] found %d operations for unique suffix [%s]", s.name, len(ops), uniqueSuffix)

	rm := &ResolutionModel{}

	for _, op := range ops {
		newRM, ok := s.ApplyOperation(op, rm)
		if !ok {
			log.Debugf("[%s] skipped invalid operation {type: %s, transaction number: %d, operation index: %d}",
				s.name, op.Type, op.TransactionNumber, op.OperationIndex)

			continue
		}

		rm = newRM
	}

	if rm.Doc == nil {
		return nil, errors.New("document not found")
	}

	return rm.Doc, nil
}

// ApplyOperation applies the given anchored operation against the resolution model and
// reports whether the operation is valid. It never returns an error: parse and
// validation failures are logged and reported as false. On false the input model is
// returned unchanged - a new model is only produced on success.
func (s *OperationProcessor) ApplyOperation(op *batch.Operation, rm *ResolutionModel) (*ResolutionModel, bool) {
	newRM, err := s.applyOperation(op, rm)
	if err != nil {
		log.Debugf("[%s] operation {type: %s, unique suffix: %s} is invalid: %s", s.name, op.Type, op.UniqueSuffix, err)

		return rm, false
	}

	return newRM, true
}

func (s *OperationProcessor) applyOperation(op *batch.Operation, rm *ResolutionModel) (*ResolutionModel, error) {
	switch op.Type {
	case batch.OperationTypeCreate:
		return s.applyCreateOperation(op, rm)
	case batch.OperationTypeUpdate:
		return s.applyUpdateOperation(op, rm)
	case batch.OperationTypeRecover:
		return s.applyRecoverOperation(op, rm)
	case batch.OperationTypeRevoke:
		return s.applyRevokeOperation(op, rm)
	default:
		return nil, errors.Errorf("operation type '%s' not supported", op.Type)
	}
}

func (s *OperationProcessor) applyCreateOperation(op *batch.Operation, rm *ResolutionModel) (*ResolutionModel, error) {
	log.Debugf("[%s] applying create operation: %s", s.name, op.UniqueSuffix)

	if rm.Doc != nil {
		return nil, errors.New("create has to be the first operation")
	}

	if op.SuffixData == nil || op.OperationData == nil {
		return nil, errors.New("create is missing suffix data or operation data")
	}

	// the unique suffix has to equal the multihash of the encoded suffix data; no create
	// whose computed suffix differs from its claim is ever accepted
	computedSuffix, err := docutil.CalculateUniqueSuffix(op.EncodedSuffixData, op.HashAlgorithmInMultiHashCode)
	if err != nil {
		return nil, err
	}

	if computedSuffix != op.UniqueSuffix {
		return nil, errors.New("computed unique suffix doesn't match the claimed unique suffix")
	}

	if err := docutil.IsValidHash(op.EncodedOperationData, op.SuffixData.OperationDataHash); err != nil {
		return nil, errors.Wrap(err, "operation data hash")
	}

	doc, err := installDocument(op.OperationData.Document, op.ID)
	if err != nil {
		return nil, err
	}

	return &ResolutionModel{
		Doc:                            doc,
		RecoveryKey:                    &op.SuffixData.RecoveryKey,
		NextRecoveryOTPHash:            op.SuffixData.NextRecoveryOTPHash,
		NextUpdateOTPHash:              op.OperationData.NextUpdateOTPHash,
		LastOperationTransactionTime:   op.TransactionTime,
		LastOperationTransactionNumber: op.TransactionNumber,
	}, nil
}

func (s *OperationProcessor) applyUpdateOperation(op *batch.Operation, rm *ResolutionModel) (*ResolutionModel, error) {
	log.Debugf("[%s] applying update operation: %s", s.name, op.UniqueSuffix)

	if rm.Doc == nil {
		return nil, errors.New("update cannot be the first operation")
	}

	if op.UpdateOperationData == nil {
		return nil, errors.New("update is missing operation data")
	}

	if err := isValidOTP(op.UpdateOTP, rm.NextUpdateOTPHash); err != nil {
		return nil, errors.Wrap(err, "update OTP")
	}

	signed, err := internal.ParseJWS(op.SignedOperationDataHash)
	if err != nil {
		return nil, err
	}

	signingKey, err := getSigningPublicKey(rm.Doc, signed.Header.Kid)
	if err != nil {
		return nil, err
	}

	if err := signed.Verify(signingKey); err != nil {
		return nil, err
	}

	// the signed claim has to match the hash of the encoded operation data
	if err := docutil.IsValidHash(op.EncodedOperationData, signed.Payload); err != nil {
		return nil, errors.Wrap(err, "signed operation data hash")
	}

	// patch a copy so that a failure leaves the current model untouched
	docCopy, err := rm.Doc.Copy()
	if err != nil {
		return nil, err
	}

	doc, err := composer.ApplyPatches(docCopy, op.UpdateOperationData.Patches)
	if err != nil {
		return nil, err
	}

	return &ResolutionModel{
		Doc:                            doc,
		RecoveryKey:                    rm.RecoveryKey,
		NextRecoveryOTPHash:            rm.NextRecoveryOTPHash,
		NextUpdateOTPHash:              op.UpdateOperationData.NextUpdateOTPHash,
		LastOperationTransactionTime:   op.TransactionTime,
		LastOperationTransactionNumber: op.TransactionNumber,
	}, nil
}

func (s *OperationProcessor) applyRecoverOperation(op *batch.Operation, rm *ResolutionModel) (*ResolutionModel, error) {
	log.Debugf("[%s] applying recover operation: %s", s.name, op.UniqueSuffix)

	if rm.Doc == nil {
		return nil, errors.New("recover can only be applied to an existing document")
	}

	if op.SignedData == nil || op.OperationData == nil {
		return nil, errors.New("recover is missing signed data or operation data")
	}

	if err := isValidOTP(op.RecoveryOTP, rm.NextRecoveryOTPHash); err != nil {
		return nil, errors.Wrap(err, "recovery OTP")
	}

	if err := verifyWithRecoveryKey(op.SignedOperationData, rm.RecoveryKey); err != nil {
		return nil, err
	}

	if err := docutil.IsValidHash(op.EncodedOperationData, op.SignedData.OperationDataHash); err != nil {
		return nil, errors.Wrap(err, "operation data hash")
	}

	doc, err := installDocument(op.OperationData.Document, op.ID)
	if err != nil {
		return nil, err
	}

	return &ResolutionModel{
		Doc:                            doc,
		RecoveryKey:                    &op.SignedData.RecoveryKey,
		NextRecoveryOTPHash:            op.SignedData.NextRecoveryOTPHash,
		NextUpdateOTPHash:              op.OperationData.NextUpdateOTPHash,
		LastOperationTransactionTime:   op.TransactionTime,
		LastOperationTransactionNumber: op.TransactionNumber,
	}, nil
}

// applyRevokeOperation clears the recovery key and both next-OTP hashes. The document
// is preserved but no further operation on the DID can succeed.
func (s *OperationProcessor) applyRevokeOperation(op *batch.Operation, rm *ResolutionModel) (*ResolutionModel, error) {
	log.Debugf("[%s] applying revoke operation: %s", s.name, op.UniqueSuffix)

	if rm.Doc == nil {
		return nil, errors.New("revoke can only be applied to an existing document")
	}

	if err := isValidOTP(op.RecoveryOTP, rm.NextRecoveryOTPHash); err != nil {
		return nil, errors.Wrap(err, "recovery OTP")
	}

	if err := verifyWithRecoveryKey(op.SignedOperationData, rm.RecoveryKey); err != nil {
		return nil, err
	}

	return &ResolutionModel{
		Doc:                            rm.Doc,
		RecoveryKey:                    nil,
		NextRecoveryOTPHash:            "",
		NextUpdateOTPHash:              "",
		LastOperationTransactionTime:   op.TransactionTime,
		LastOperationTransactionNumber: op.TransactionNumber,
	}, nil
}

// getSigningPublicKey looks up the update signing key: the JWS kid matched against
// the document's public keys with usage 'signing'.
func getSigningPublicKey(doc document.Document, kid string) (string, error) {
	for _, pk := range document.DidDocumentFromJSONLDObject(doc.JSONLdObject()).PublicKeys() {
		if pk.ID() != kid {
			continue
		}

		if pk.Usage() != document.KeyUsageSigning {
			return "", errors.New("signing public key is not a signing key")
		}

		if pk.PublicKeyHex() == "" {
			return "", errors.New("signing public key is missing key material")
		}

		return pk.PublicKeyHex(), nil
	}

	return "", errors.New("signing public key not found in the document")
}

func verifyWithRecoveryKey(signedData *jws.JWS, recoveryKey *model.PublicKey) error {
	if recoveryKey == nil {
		return errors.New("missing recovery key")
	}

	signed, err := internal.ParseJWS(signedData)
	if err != nil {
		return err
	}

	return signed.Verify(recoveryKey.PublicKeyHex)
}

// isValidOTP checks that the one-time password matches its commitment. The hash is
// over the UTF-8 bytes of the encoded OTP string.
func isValidOTP(otp, otpHash string) error {
	if otpHash == "" {
		return errors.New("no valid commitment for this operation")
	}

	return docutil.IsValidHash(otp, otpHash)
}

func installDocument(content, id string) (document.Document, error) {
	doc, err := document.FromBytes([]byte(content))
	if err != nil {
		return nil, errors.Wrap(err, "invalid document content")
	}

	doc[document.IDProperty] = id

	return doc, nil
}

func sortOperations(ops []*batch.Operation) {
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].TransactionNumber != ops[j].TransactionNumber {
			return ops[i].TransactionNumber < ops[j].TransactionNumber
		}

		return ops[i].OperationIndex < ops[j].OperationIndex
	})
}
