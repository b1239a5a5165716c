// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/flokicoin-core/contract"
	"github.com/flokiorg/flokicoin-core/registry"
)

func TestDeployRejectsEmptyCode(t *testing.T) {
	r := registry.New()
	_, err := r.Deploy(nil, "d", 1)
	require.ErrorIs(t, err, registry.ErrEmptyCode)
}

func TestDeployAddressShape(t *testing.T) {
	r := registry.New()
	code, err := contract.Compile(`PUSH 42
RETURN`)
	require.NoError(t, err)

	addr, err := r.Deploy(code, "deployer123", 1)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(addr, "0x"))
	require.Len(t, addr, 42)
	require.Equal(t, 1, r.Count())
}

func TestDeployNonceAdvancesAddress(t *testing.T) {
	r := registry.New()
	code, err := contract.Compile(`PUSH 1
RETURN`)
	require.NoError(t, err)

	a1, err := r.Deploy(code, "d", 1)
	require.NoError(t, err)
	a2, err := r.Deploy(code, "d", 1)
	require.NoError(t, err)
	require.NotEqual(t, a1, a2)
}

func TestCallReturnsFirstArgPlusTen(t *testing.T) {
	r := registry.New()
	code, err := contract.Compile(`
		ARG 0
		PUSH 10
		ADD
		RETURN
	`)
	require.NoError(t, err)

	addr, err := r.Deploy(code, "deployer", 1)
	require.NoError(t, err)

	result, err := r.Call(addr, "caller", []uint64{5}, 12345, 1, 100_000, registry.Hooks{})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, uint64(15), *result.ReturnValue)
}

func TestCallPersistsStorageOnSuccess(t *testing.T) {
	r := registry.New()
	code, err := contract.Compile(`
		PUSH 1
		PUSH 100
		SSTORE
		HALT
	`)
	require.NoError(t, err)

	addr, err := r.Deploy(code, "deployer", 1)
	require.NoError(t, err)

	_, err = r.Call(addr, "caller", nil, 0, 1, 100_000, registry.Hooks{})
	require.NoError(t, err)

	c, ok := r.Get(addr)
	require.True(t, ok)
	require.Equal(t, uint64(100), c.Storage[1])
}

func TestCallDiscardsStorageOnRevert(t *testing.T) {
	r := registry.New()
	code, err := contract.Compile(`
		PUSH 1
		PUSH 100
		SSTORE
		REVERT
	`)
	require.NoError(t, err)

	addr, err := r.Deploy(code, "deployer", 1)
	require.NoError(t, err)

	result, err := r.Call(addr, "caller", nil, 0, 1, 100_000, registry.Hooks{})
	require.NoError(t, err)
	require.False(t, result.Success)

	c, ok := r.Get(addr)
	require.True(t, ok)
	require.Empty(t, c.Storage)
}

func TestCallUnknownAddress(t *testing.T) {
	r := registry.New()
	_, err := r.Call("0xdoesnotexist", "caller", nil, 0, 1, 100_000, registry.Hooks{})
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestCallTransferUsesHooks(t *testing.T) {
	r := registry.New()
	code, err := contract.Compile(`
		PUSH 1
		CALLER
		TRANSFER
		RETURN
	`)
	require.NoError(t, err)

	addr, err := r.Deploy(code, "deployer", 1)
	require.NoError(t, err)

	var gotTo string
	var gotAmount uint64
	hooks := registry.Hooks{
		Transfer: func(to string, amount uint64) bool {
			gotTo, gotAmount = to, amount
			return true
		},
	}
	result, err := r.Call(addr, "payer", nil, 0, 1, 100_000, hooks)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "payer", gotTo)
	require.Equal(t, uint64(1), gotAmount)
}
