/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package processor_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/sandrask/sidetree/pkg/api/batch"
	"github.com/sandrask/sidetree/pkg/api/protocol"
	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/encoder"
	"github.com/sandrask/sidetree/pkg/mocks"
	"github.com/sandrask/sidetree/pkg/operation"
	"github.com/sandrask/sidetree/pkg/patch"
	"github.com/sandrask/sidetree/pkg/processor"
	"github.com/sandrask/sidetree/pkg/restapi/helper"
	"github.com/sandrask/sidetree/pkg/util/ecsigner"
)

const (
	namespace = "did:sidetree"
	sha2_256  = 18

	updateOTP1   = "update-otp-1"
	updateOTP2   = "update-otp-2"
	recoveryOTP1 = "recovery-otp-1"
	recoveryOTP2 = "recovery-otp-2"
)

// testDID bundles the keys and current state needed to author operations for one DID.
type testDID struct {
	suffix         string
	recoverySigner *ecsigner.Signer
	signingSigner  *ecsigner.Signer
	createOp       *batch.Operation
}

func TestCreateThenUpdate(t *testing.T) {
	did := newTestDID(t)
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	rm, ok := p.ApplyOperation(did.createOp, &processor.ResolutionModel{})
	require.True(t, ok)
	require.NotNil(t, rm.Doc)
	require.Equal(t, namespace+docutil.NamespaceDelimiter+did.suffix, rm.Doc.ID())
	require.Len(t, rm.Doc.PublicKeys(), 1)

	updateOp := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)
	updateOp.TransactionNumber = 2

	rm2, ok := p.ApplyOperation(updateOp, rm)
	require.True(t, ok)
	require.Len(t, rm2.Doc.PublicKeys(), 2)
	require.Equal(t, "#key2", rm2.Doc.PublicKeys()[1].ID())

	// the update OTP commitment was replaced atomically with the new declared hash
	expectedHash := hashOf(t, updateOTP2)
	require.Equal(t, expectedHash, rm2.NextUpdateOTPHash)
	require.NotEqual(t, rm.NextUpdateOTPHash, rm2.NextUpdateOTPHash)
}

func TestReplayRejection(t *testing.T) {
	did := newTestDID(t)
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	rm, ok := p.ApplyOperation(did.createOp, &processor.ResolutionModel{})
	require.True(t, ok)

	updateOp := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)

	afterFirst, ok := p.ApplyOperation(updateOp, rm)
	require.True(t, ok)

	// the OTP commitment is one-shot: the second application fails and leaves
	// state identical to the state after the first
	afterSecond, ok := p.ApplyOperation(updateOp, afterFirst)
	require.False(t, ok)
	require.True(t, afterSecond == afterFirst)
	require.True(t, reflect.DeepEqual(afterFirst, afterSecond))
}

func TestCreateValidation(t *testing.T) {
	did := newTestDID(t)
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	t.Run("error - create is not the first operation", func(t *testing.T) {
		rm, ok := p.ApplyOperation(did.createOp, &processor.ResolutionModel{})
		require.True(t, ok)

		_, ok = p.ApplyOperation(did.createOp, rm)
		require.False(t, ok)
	})

	t.Run("error - unique suffix claim mismatch", func(t *testing.T) {
		tampered := *did.createOp
		tampered.UniqueSuffix = "bogus"

		_, ok := p.ApplyOperation(&tampered, &processor.ResolutionModel{})
		require.False(t, ok)
	})

	t.Run("error - operation data hash mismatch", func(t *testing.T) {
		tampered := *did.createOp
		tampered.EncodedOperationData = encoder.EncodeToString([]byte("tampered"))

		_, ok := p.ApplyOperation(&tampered, &processor.ResolutionModel{})
		require.False(t, ok)
	})
}

func TestUpdateValidation(t *testing.T) {
	did := newTestDID(t)
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	rm, ok := p.ApplyOperation(did.createOp, &processor.ResolutionModel{})
	require.True(t, ok)

	t.Run("error - update cannot be the first operation", func(t *testing.T) {
		updateOp := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)

		_, ok := p.ApplyOperation(updateOp, &processor.ResolutionModel{})
		require.False(t, ok)
	})

	t.Run("error - wrong OTP", func(t *testing.T) {
		updateOp := did.newAddKeyUpdate(t, "#key2", "wrong-otp", updateOTP2)

		_, ok := p.ApplyOperation(updateOp, rm)
		require.False(t, ok)
	})

	t.Run("error - signing key not found in document", func(t *testing.T) {
		otherSigner := newSigner(t, "#nosuchkey")
		updateOp := did.newUpdateSignedBy(t, otherSigner, updateOTP1, updateOTP2)

		_, ok := p.ApplyOperation(updateOp, rm)
		require.False(t, ok)
	})

	t.Run("error - signature by an impostor key", func(t *testing.T) {
		// correct kid but a different private key
		impostor := newSigner(t, "#key1")
		updateOp := did.newUpdateSignedBy(t, impostor, updateOTP1, updateOTP2)

		_, ok := p.ApplyOperation(updateOp, rm)
		require.False(t, ok)
	})

	t.Run("error - atomicity on failure", func(t *testing.T) {
		updateOp := did.newAddKeyUpdate(t, "#key2", "wrong-otp", updateOTP2)

		before, err := rm.Doc.Bytes()
		require.NoError(t, err)

		after, ok := p.ApplyOperation(updateOp, rm)
		require.False(t, ok)
		require.True(t, after == rm)

		afterBytes, err := rm.Doc.Bytes()
		require.NoError(t, err)
		require.Equal(t, before, afterBytes)
	})
}

func TestUpdateSigningKeyUsage(t *testing.T) {
	// the document carries the signer's key with usage 'recovery' instead of 'signing';
	// the kid matches but the key is not acceptable for update signing
	recoverySigner := newSigner(t, "#recovery")
	signingSigner := newSigner(t, "#key1")

	doc := fmt.Sprintf(
		`{"publicKey":[{"id":"#key1","type":"Secp256k1VerificationKey2018","usage":"recovery","publicKeyHex":"%s"}]}`,
		signingSigner.PublicKeyHex())

	did := newTestDIDWithDoc(t, doc, recoverySigner, signingSigner)
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	rm, ok := p.ApplyOperation(did.createOp, &processor.ResolutionModel{})
	require.True(t, ok)

	updateOp := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)

	_, ok = p.ApplyOperation(updateOp, rm)
	require.False(t, ok)
}

func TestRecoverRestoresControl(t *testing.T) {
	did := newTestDID(t)
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	rm, ok := p.ApplyOperation(did.createOp, &processor.ResolutionModel{})
	require.True(t, ok)

	// the signing key is compromised; recover with a fresh document and keys
	newSigningSigner := newSigner(t, "#newkey")
	newRecoverySigner := newSigner(t, "#recovery")

	recoverOp := did.newRecover(t, newRecoverySigner, newSigningSigner, recoveryOTP1, recoveryOTP2, updateOTP2)

	rm2, ok := p.ApplyOperation(recoverOp, rm)
	require.True(t, ok)
	require.Len(t, rm2.Doc.PublicKeys(), 1)
	require.Equal(t, "#newkey", rm2.Doc.PublicKeys()[0].ID())
	require.Equal(t, newRecoverySigner.PublicKeyHex(), rm2.RecoveryKey.PublicKeyHex)

	// an update under the old signing key and old OTP is rejected
	staleUpdate := did.newAddKeyUpdate(t, "#key2", updateOTP1, "stale-otp")

	_, ok = p.ApplyOperation(staleUpdate, rm2)
	require.False(t, ok)

	// an update authored with the new signing key and the new OTP succeeds
	freshUpdate := did.newUpdateSignedBy(t, newSigningSigner, updateOTP2, "update-otp-3")

	rm3, ok := p.ApplyOperation(freshUpdate, rm2)
	require.True(t, ok)
	require.Len(t, rm3.Doc.PublicKeys(), 2)
}

func TestRevokeTerminates(t *testing.T) {
	did := newTestDID(t)
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	rm, ok := p.ApplyOperation(did.createOp, &processor.ResolutionModel{})
	require.True(t, ok)

	revokeOp := did.newRevoke(t, recoveryOTP1)

	rm2, ok := p.ApplyOperation(revokeOp, rm)
	require.True(t, ok)

	// the document is preserved, the recovery key and both commitments are cleared
	require.NotNil(t, rm2.Doc)
	require.Nil(t, rm2.RecoveryKey)
	require.Empty(t, rm2.NextRecoveryOTPHash)
	require.Empty(t, rm2.NextUpdateOTPHash)

	// a valid-looking update (correct prior OTP) is rejected: there is no commitment left
	staleUpdate := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)

	_, ok = p.ApplyOperation(staleUpdate, rm2)
	require.False(t, ok)

	// recover and a second revoke are rejected as well
	recoverOp := did.newRecover(t, newSigner(t, "#recovery"), newSigner(t, "#newkey"), recoveryOTP1, recoveryOTP2, updateOTP2)

	_, ok = p.ApplyOperation(recoverOp, rm2)
	require.False(t, ok)

	_, ok = p.ApplyOperation(did.newRevoke(t, recoveryOTP1), rm2)
	require.False(t, ok)
}

func TestResolve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		did := newTestDID(t)
		store := mocks.NewMockOperationStore(nil)
		p := processor.New("test", store)

		updateOp := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)
		updateOp.TransactionNumber = 2

		// store returns operations out of order; resolution sorts them
		require.NoError(t, store.Put(updateOp))
		require.NoError(t, store.Put(did.createOp))

		doc, err := p.Resolve(did.suffix)
		require.NoError(t, err)
		require.Len(t, doc.PublicKeys(), 2)
	})

	t.Run("success - invalid operation is skipped", func(t *testing.T) {
		did := newTestDID(t)
		store := mocks.NewMockOperationStore(nil)
		p := processor.New("test", store)

		badUpdate := did.newAddKeyUpdate(t, "#key2", "wrong-otp", updateOTP2)
		badUpdate.TransactionNumber = 2

		require.NoError(t, store.Put(did.createOp))
		require.NoError(t, store.Put(badUpdate))

		doc, err := p.Resolve(did.suffix)
		require.NoError(t, err)
		require.Len(t, doc.PublicKeys(), 1)
	})

	t.Run("error - missing create operation", func(t *testing.T) {
		did := newTestDID(t)
		store := mocks.NewMockOperationStore(nil)
		p := processor.New("test", store)

		updateOp := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)
		require.NoError(t, store.Put(updateOp))

		doc, err := p.Resolve(did.suffix)
		require.Error(t, err)
		require.Contains(t, err.Error(), "document not found")
		require.Nil(t, doc)
	})

	t.Run("error - store error", func(t *testing.T) {
		storeErr := errors.New("store error")
		p := processor.New("test", mocks.NewMockOperationStore(storeErr))

		doc, err := p.Resolve("suffix")
		require.Equal(t, storeErr, err)
		require.Nil(t, doc)
	})
}

func TestDeterminism(t *testing.T) {
	did := newTestDID(t)

	updateOp := did.newAddKeyUpdate(t, "#key2", updateOTP1, updateOTP2)
	updateOp.TransactionNumber = 2

	var docs [][]byte

	// two independent replicas with the same anchored operation sequence produce
	// byte-identical external documents
	for i := 0; i < 2; i++ {
		store := mocks.NewMockOperationStore(nil)
		require.NoError(t, store.Put(did.createOp))
		require.NoError(t, store.Put(updateOp))

		doc, err := processor.New(fmt.Sprintf("replica-%d", i), store).Resolve(did.suffix)
		require.NoError(t, err)

		bytes, err := doc.Bytes()
		require.NoError(t, err)

		docs = append(docs, bytes)
	}

	require.Equal(t, docs[0], docs[1])
}

func TestUnsupportedOperationType(t *testing.T) {
	p := processor.New("test", mocks.NewMockOperationStore(nil))

	_, ok := p.ApplyOperation(&batch.Operation{Type: "checkpoint"}, &processor.ResolutionModel{})
	require.False(t, ok)
}

func newProtocol() protocol.Protocol {
	return protocol.Protocol{
		HashAlgorithmInMultiHashCode: sha2_256,
		MaxOperationsPerBatch:        100,
		MaxOperationByteSize:         2000,
	}
}

func newSigner(t *testing.T, kid string) *ecsigner.Signer {
	t.Helper()

	privKey, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)

	return ecsigner.New(privKey, kid)
}

func newTestDID(t *testing.T) *testDID {
	t.Helper()

	recoverySigner := newSigner(t, "#recovery")
	signingSigner := newSigner(t, "#key1")

	doc := fmt.Sprintf(
		`{"publicKey":[{"id":"#key1","type":"Secp256k1VerificationKey2018","usage":"signing","publicKeyHex":"%s"}]}`,
		signingSigner.PublicKeyHex())

	return newTestDIDWithDoc(t, doc, recoverySigner, signingSigner)
}

func newTestDIDWithDoc(t *testing.T, doc string, recoverySigner, signingSigner *ecsigner.Signer) *testDID {
	t.Helper()

	request, err := helper.NewCreateRequest(&helper.CreateRequestInfo{
		OpaqueDocument:  doc,
		RecoveryKey:     recoverySigner.PublicKeyHex(),
		NextRecoveryOTP: recoveryOTP1,
		NextUpdateOTP:   updateOTP1,
		MultihashCode:   sha2_256,
	})
	require.NoError(t, err)

	createOp := parseOperation(t, request)
	createOp.TransactionNumber = 1

	return &testDID{
		suffix:         createOp.UniqueSuffix,
		recoverySigner: recoverySigner,
		signingSigner:  signingSigner,
		createOp:       createOp,
	}
}

// newAddKeyUpdate builds an update that adds a signing key, signed with the DID's signing key.
func (d *testDID) newAddKeyUpdate(t *testing.T, keyID, updateOTP, nextUpdateOTP string) *batch.Operation {
	t.Helper()

	return d.newUpdateSignedBy(t, d.signingSigner, updateOTP, nextUpdateOTP, keyID)
}

func (d *testDID) newUpdateSignedBy(t *testing.T, signer *ecsigner.Signer, updateOTP, nextUpdateOTP string, keyID ...string) *batch.Operation {
	t.Helper()

	id := "#key2"
	if len(keyID) > 0 {
		id = keyID[0]
	}

	addKeys, err := patch.NewAddPublicKeysPatch(fmt.Sprintf(
		`[{"id":"%s","type":"Secp256k1VerificationKey2018","usage":"signing","publicKeyHex":"%s"}]`,
		id, newSigner(t, id).PublicKeyHex()))
	require.NoError(t, err)

	request, err := helper.NewUpdateRequest(&helper.UpdateRequestInfo{
		DidUniqueSuffix: d.suffix,
		Patches:         []patch.Patch{addKeys},
		UpdateOTP:       updateOTP,
		NextUpdateOTP:   nextUpdateOTP,
		Signer:          signer,
		MultihashCode:   sha2_256,
	})
	require.NoError(t, err)

	return parseOperation(t, request)
}

func (d *testDID) newRecover(t *testing.T, newRecoverySigner, newSigningSigner *ecsigner.Signer,
	recoveryOTP, nextRecoveryOTP, nextUpdateOTP string) *batch.Operation {
	t.Helper()

	doc := fmt.Sprintf(
		`{"publicKey":[{"id":"%s","type":"Secp256k1VerificationKey2018","usage":"signing","publicKeyHex":"%s"}]}`,
		newSigningSigner.Kid(), newSigningSigner.PublicKeyHex())

	request, err := helper.NewRecoverRequest(&helper.RecoverRequestInfo{
		DidUniqueSuffix: d.suffix,
		RecoveryOTP:     recoveryOTP,
		OpaqueDocument:  doc,
		NewRecoveryKey:  newRecoverySigner.PublicKeyHex(),
		NextRecoveryOTP: nextRecoveryOTP,
		NextUpdateOTP:   nextUpdateOTP,
		Signer:          d.recoverySigner,
		MultihashCode:   sha2_256,
	})
	require.NoError(t, err)

	return parseOperation(t, request)
}

func (d *testDID) newRevoke(t *testing.T, recoveryOTP string) *batch.Operation {
	t.Helper()

	request, err := helper.NewRevokeRequest(&helper.RevokeRequestInfo{
		DidUniqueSuffix: d.suffix,
		RecoveryOTP:     recoveryOTP,
		Signer:          d.recoverySigner,
	})
	require.NoError(t, err)

	return parseOperation(t, request)
}

func parseOperation(t *testing.T, request []byte) *batch.Operation {
	t.Helper()

	op, err := operation.ParseOperation(namespace, request, newProtocol())
	require.NoError(t, err)

	return op
}

func hashOf(t *testing.T, value string) string {
	t.Helper()

	hash, err := docutil.ComputeMultihash(sha2_256, []byte(value))
	require.NoError(t, err)

	return encoder.EncodeToString(hash)
}
