// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry manages deployed smart contracts: address derivation,
// storage custody, and the deploy/call dispatch that instantiates the
// contract package's VM against a contract's committed storage.
package registry

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"

	"github.com/decred/dcrd/lru"

	"github.com/flokiorg/flokicoin-core/chaincfg/chainhash"
	"github.com/flokiorg/flokicoin-core/contract"
	"github.com/flokiorg/flokicoin-core/crypto"
)

// codeCacheSize bounds the deployed-bytecode hash cache used to recognize
// redeployment of identical code without re-walking a contract's full
// storage map.
const codeCacheSize = 512

// Contract is a deployed contract's durable state: its code, committed
// storage, and deployment metadata. Storage is only ever mutated by a
// successful Call, never by a reverted one.
type Contract struct {
	Address    string
	Code       []byte
	Storage    map[uint64]uint64
	Deployer   string
	DeployedAt uint64
}

// Registry owns every deployed contract and the monotonic nonce used to
// derive fresh addresses. All methods are safe for concurrent use; callers
// embedding a Registry in a larger single-writer lock (as blockchain.Engine
// does for everything else) may rely on Registry's own lock being
// redundant but harmless.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]*Contract
	nonce     uint64
	codeSeen  *lru.Cache[chainhash.Hash]
	calls     *contract.CallTracker
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		contracts: make(map[string]*Contract),
		codeSeen:  lru.NewCache[chainhash.Hash](codeCacheSize),
	}
}

// deriveAddress computes "0x" + the first 40 hex characters of
// sha256(deployer + ":" + nonce), matching the address-derivation rule
// exactly.
func deriveAddress(deployer string, nonce uint64) string {
	preimage := deployer + ":" + strconv.FormatUint(nonce, 10)
	digest := crypto.Sha256([]byte(preimage))
	return "0x" + hex.EncodeToString(digest[:])[:40]
}

// Deploy stores code under a freshly derived address and returns it.
// Deploy rejects empty code; it never fails for any other reason since
// addresses are derived from a monotonic counter and therefore never
// collide.
func (r *Registry) Deploy(code []byte, deployer string, blockNumber uint64) (string, error) {
	if len(code) == 0 {
		return "", ErrEmptyCode
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	address := deriveAddress(deployer, r.nonce)
	r.nonce++

	codeHash := crypto.Sha256(code)
	if r.codeSeen.Contains(codeHash) {
		log.Debugf("redeploying previously seen bytecode at %s", address)
	}
	r.codeSeen.Add(codeHash)

	r.contracts[address] = &Contract{
		Address:    address,
		Code:       append([]byte(nil), code...),
		Storage:    make(map[uint64]uint64),
		Deployer:   deployer,
		DeployedAt: blockNumber,
	}

	log.Infof("contract deployed at %s by %s", address, deployer)
	return address, nil
}

// Get returns the contract deployed at address, if any.
func (r *Registry) Get(address string) (*Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[address]
	return c, ok
}

// List returns every deployed contract address.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addrs := make([]string, 0, len(r.contracts))
	for addr := range r.contracts {
		addrs = append(addrs, addr)
	}
	return addrs
}

// Count returns the number of deployed contracts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contracts)
}

// Hooks supplies the host functions a call's VM context needs to read
// balances and move value; both are optional.
type Hooks struct {
	BalanceOf func(addr string) uint64
	Transfer  func(to string, amount uint64) bool
}

// Call fetches the contract at address, instantiates a VM with a clone of
// its storage, and executes. On success the VM's reported storage changes
// are merged back into the contract; on failure (including the VM's own
// resource failures — out of gas, stack overflow, revert) the contract's
// storage is left untouched. Call applies no default gas limit: gasLimit is
// passed to the VM unchanged, so a gasLimit of zero leaves no gas and the
// first instruction with a nonzero cost fails with out of gas.
func (r *Registry) Call(address, caller string, args []uint64, timestamp int64, blockNumber uint64, gasLimit uint64, hooks Hooks) (contract.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contracts[address]
	if !ok {
		return contract.Result{}, ErrNotFound
	}

	if r.calls == nil {
		r.calls = contract.NewCallTracker()
	}
	if err := r.calls.Enter(address); err != nil {
		return contract.Result{}, fmt.Errorf("call %s: %w", address, err)
	}
	defer r.calls.Exit(address)

	ctx := contract.Context{
		Caller:          caller,
		ContractAddress: address,
		Timestamp:       timestamp,
		BlockNumber:     blockNumber,
		Args:            args,
		GasLimit:        gasLimit,
		BalanceOf:       hooks.BalanceOf,
		Transfer:        hooks.Transfer,
	}

	vm := contract.New(c.Code, c.Storage, ctx)
	result := vm.Execute()

	if result.Success {
		for key, val := range result.StorageChanges {
			c.Storage[key] = val
		}
		log.Debugf("call %s by %s: gas_used=%d", address, caller, result.GasUsed)
	} else {
		log.Debugf("call %s by %s reverted: %s", address, caller, result.RevertReason)
	}

	return result, nil
}
