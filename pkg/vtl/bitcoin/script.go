/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bitcoin

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"
)

// LockScript is the parsed canonical form of a value-time-lock redeem script:
// <lockUntilBlock> OP_CHECKLOCKTIMEVERIFY OP_DROP <pubKeyHash> OP_CHECKSIG
type LockScript struct {
	// LockUntilBlock is the block height before which the output cannot be spent.
	LockUntilBlock int64

	// PubKeyHash is the hash-160 of the public key that can redeem the output.
	PubKeyHash []byte
}

// BuildLockScript builds the canonical redeem script for a value-time-lock.
func BuildLockScript(lockUntilBlock int64, pubKeyHash []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddInt64(lockUntilBlock).
		AddOp(txscript.OP_CHECKLOCKTIMEVERIFY).
		AddOp(txscript.OP_DROP).
		AddData(pubKeyHash).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// ParseLockScript parses a redeem script and verifies that it has the canonical
// value-time-lock form.
func ParseLockScript(redeemScript []byte) (*LockScript, error) {
	disassembled, err := txscript.DisasmString(redeemScript)
	if err != nil {
		return nil, errors.Wrap(err, "disassemble redeem script")
	}

	tokens := strings.Fields(disassembled)
	if len(tokens) != lockScriptTokenCount {
		return nil, errors.Errorf("redeem script is not a value-time-lock: expected %d tokens, got %d",
			lockScriptTokenCount, len(tokens))
	}

	if tokens[1] != "OP_CHECKLOCKTIMEVERIFY" || tokens[2] != "OP_DROP" || tokens[4] != "OP_CHECKSIG" {
		return nil, errors.New("redeem script is not a value-time-lock: unexpected opcodes")
	}

	lockUntilBlock, err := parseScriptNum(tokens[0])
	if err != nil {
		return nil, errors.Wrap(err, "parse lock time")
	}

	pubKeyHash, err := hex.DecodeString(tokens[3])
	if err != nil {
		return nil, errors.Wrap(err, "parse public key hash")
	}

	if len(pubKeyHash) != ripemd160HashSize {
		return nil, errors.Errorf("public key hash has invalid length %d", len(pubKeyHash))
	}

	return &LockScript{LockUntilBlock: lockUntilBlock, PubKeyHash: pubKeyHash}, nil
}

// PayToScriptHashScript returns the P2SH script paying to the given redeem script.
func PayToScriptHashScript(redeemScript []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(btcutil.Hash160(redeemScript)).
		AddOp(txscript.OP_EQUAL).
		Script()
}

const (
	lockScriptTokenCount = 5
	ripemd160HashSize    = 20
)

// parseScriptNum decodes a disassembled numeric push: little-endian bytes with the
// sign bit in the most significant byte.
func parseScriptNum(token string) (int64, error) {
	raw, err := hex.DecodeString(token)
	if err != nil {
		return 0, err
	}

	if len(raw) == 0 || len(raw) > 8 {
		return 0, errors.Errorf("script number has invalid length %d", len(raw))
	}

	var result int64
	for i, b := range raw {
		result |= int64(b) << (8 * i)
	}

	// the most significant bit of the last byte is the sign bit
	if raw[len(raw)-1]&0x80 != 0 {
		result &= ^(int64(0x80) << (8 * (len(raw) - 1)))
		result = -result
	}

	return result, nil
}
