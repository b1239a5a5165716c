// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/contract"
)

func TestCompileSimple(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 42
		RETURN
	`)
	require.NoError(t, err)
	require.NotEmpty(t, code)
	require.Equal(t, byte(contract.Push), code[0])
}

func TestCompileWithLabels(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 1
		JUMPI end
		PUSH 999
		:end
		PUSH 42
		RETURN
	`)
	require.NoError(t, err)
	require.NotEmpty(t, code)
}

func TestCompileArithmeticLayout(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 10
		PUSH 20
		ADD
		RETURN
	`)
	require.NoError(t, err)
	require.Equal(t, byte(contract.Push), code[0])
	require.Equal(t, byte(contract.Push), code[9])
	require.Equal(t, byte(contract.Add), code[18])
	require.Equal(t, byte(contract.Return), code[19])
}

func TestCompileHexLiteral(t *testing.T) {
	code, err := contract.Compile(`PUSH 0xFF`)
	require.NoError(t, err)
	require.Equal(t, byte(0xFF), code[8])
}

func TestCompileUndefinedLabel(t *testing.T) {
	_, err := contract.Compile(`JUMP nowhere`)
	require.Error(t, err)
}

func TestCompileUnknownInstruction(t *testing.T) {
	_, err := contract.Compile(`FROBNICATE`)
	require.Error(t, err)
}

func TestDisassemble(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 42
		RETURN
	`)
	require.NoError(t, err)

	disasm := contract.Disassemble(code)
	require.Contains(t, disasm, "PUSH")
	require.Contains(t, disasm, "42")
	require.Contains(t, disasm, "RETURN")
}

func TestDisassembleUnknownByte(t *testing.T) {
	disasm := contract.Disassemble([]byte{0xAB})
	require.Contains(t, disasm, "UNKNOWN")
}

func TestCompileComments(t *testing.T) {
	code, err := contract.Compile(`
		; this is a comment
		# so is this
		PUSH 1
		RETURN
	`)
	require.NoError(t, err)
	require.Equal(t, byte(contract.Push), code[0])
}
