// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/contract"
)

func run(t *testing.T, code []byte, ctx contract.Context) contract.Result {
	t.Helper()
	if ctx.GasLimit == 0 {
		ctx.GasLimit = 100_000
	}
	vm := contract.New(code, nil, ctx)
	return vm.Execute()
}

func TestAddArgAndReturn(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 5
		ARG 0
		ADD
		RETURN
	`)
	require.NoError(t, err)

	result := run(t, code, contract.Context{Args: []uint64{7}})
	require.True(t, result.Success)
	require.NotNil(t, result.ReturnValue)
	require.Equal(t, uint64(12), *result.ReturnValue)
	require.Greater(t, result.GasUsed, uint64(0))
	require.Empty(t, result.StorageChanges)
}

func TestStoreThenLoad(t *testing.T) {
	store, err := contract.Compile(`
		PUSH 1
		PUSH 100
		SSTORE
		HALT
	`)
	require.NoError(t, err)

	stored := run(t, store, contract.Context{})
	require.True(t, stored.Success)
	require.Equal(t, map[uint64]uint64{1: 100}, stored.StorageChanges)

	load, err := contract.Compile(`
		PUSH 1
		SLOAD
		RETURN
	`)
	require.NoError(t, err)

	vm := contract.New(load, stored.StorageChanges, contract.Context{GasLimit: 100_000})
	result := vm.Execute()
	require.True(t, result.Success)
	require.Equal(t, uint64(100), *result.ReturnValue)
}

func TestDivisionByZeroReverts(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 1
		PUSH 0
		DIV
		RETURN
	`)
	require.NoError(t, err)

	result := run(t, code, contract.Context{})
	require.False(t, result.Success)
	require.Empty(t, result.StorageChanges)
	require.NotEmpty(t, result.RevertReason)
}

func TestStackUnderflowReverts(t *testing.T) {
	code, err := contract.Compile(`ADD`)
	require.NoError(t, err)

	result := run(t, code, contract.Context{})
	require.False(t, result.Success)
}

func TestUnknownOpcodeReverts(t *testing.T) {
	result := run(t, []byte{0x90}, contract.Context{})
	require.False(t, result.Success)
}

func TestOutOfGasReverts(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 1
		PUSH 2
		ADD
		RETURN
	`)
	require.NoError(t, err)

	result := run(t, code, contract.Context{GasLimit: 1})
	require.False(t, result.Success)
}

func TestExplicitRevertDiscardsStorage(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 1
		PUSH 100
		SSTORE
		REVERT
	`)
	require.NoError(t, err)

	result := run(t, code, contract.Context{})
	require.False(t, result.Success)
	require.Empty(t, result.StorageChanges)
}

func TestJumpIfSkipsWhenZero(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 0
		JUMPI skip
		PUSH 999
		:skip
		PUSH 42
		RETURN
	`)
	require.NoError(t, err)

	result := run(t, code, contract.Context{})
	require.True(t, result.Success)
	require.Equal(t, uint64(42), *result.ReturnValue)
}

func TestDeterminism(t *testing.T) {
	code, err := contract.Compile(`
		ARG 0
		PUSH 3
		MUL
		PUSH 1
		SSTORE
		ARG 0
		RETURN
	`)
	require.NoError(t, err)

	ctx := contract.Context{Args: []uint64{9}, Timestamp: 1234, BlockNumber: 5, GasLimit: 100_000}
	a := contract.New(code, map[uint64]uint64{}, ctx).Execute()
	b := contract.New(code, map[uint64]uint64{}, ctx).Execute()

	require.Equal(t, a, b)
}

func TestSelfBalanceReadsHostBalance(t *testing.T) {
	code, err := contract.Compile(`
		SELFBALANCE
		RETURN
	`)
	require.NoError(t, err)

	ctx := contract.Context{
		ContractAddress: "0xabc",
		GasLimit:        100_000,
		BalanceOf: func(addr string) uint64 {
			require.Equal(t, "0xabc", addr)
			return 77
		},
	}
	result := run(t, code, ctx)
	require.True(t, result.Success)
	require.Equal(t, uint64(77), *result.ReturnValue)
}

func TestTransferCallsHost(t *testing.T) {
	code, err := contract.Compile(`
		PUSH 1
		PUSH 50
		CALLER
		TRANSFER
		RETURN
	`)
	require.NoError(t, err)

	var gotTo string
	var gotAmount uint64
	ctx := contract.Context{
		Caller:   "0xcaller",
		GasLimit: 100_000,
		Transfer: func(to string, amount uint64) bool {
			gotTo, gotAmount = to, amount
			return true
		},
	}
	result := run(t, code, ctx)
	require.True(t, result.Success)
	require.Equal(t, uint64(1), *result.ReturnValue)
	require.Equal(t, "0xcaller", gotTo)
	require.Equal(t, uint64(50), gotAmount)
}
