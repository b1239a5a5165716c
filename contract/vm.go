// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"
)

// MaxStackDepth caps the operand stack, matching the conceptual EVM-scale
// guardrail named for call depth.
const MaxStackDepth = 1024

// MaxCallDepth caps re-entrant Execute nesting via a shared CallTracker.
const MaxCallDepth = 1024

// Address handles pushed by CALLER and SELF. The instruction set has no way
// to spell an arbitrary address as a bytecode literal, so BALANCE and
// TRANSFER only resolve the two addresses a call ever knows about: its
// caller and itself.
const (
	handleSelf   uint64 = 0
	handleCaller uint64 = 1
)

// Context carries the read-only execution environment a contract observes:
// who is calling it, what it's called, and the chain state at the moment of
// the call. BalanceOf and Transfer are supplied by the host (the registry)
// since the VM itself has no notion of an account ledger.
type Context struct {
	Caller          string
	ContractAddress string
	Timestamp       int64
	BlockNumber     uint64
	Args            []uint64
	GasLimit        uint64

	// BalanceOf returns the current balance of addr, or 0 if unknown. Nil
	// is treated as "every balance is zero".
	BalanceOf func(addr string) uint64
	// Transfer reports whether a transfer of amount from the contract to
	// to succeeded. Nil is treated as "every transfer fails".
	Transfer func(to string, amount uint64) bool
}

// resolveHandle maps a CALLER/SELF handle value back to the address it
// denotes.
func (ctx *Context) resolveHandle(handle uint64) (string, bool) {
	switch handle {
	case handleSelf:
		return ctx.ContractAddress, true
	case handleCaller:
		return ctx.Caller, true
	default:
		return "", false
	}
}

// Result is the outcome of one Execute call.
type Result struct {
	Success        bool
	ReturnValue    *uint64
	GasUsed        uint64
	StorageChanges map[uint64]uint64
	RevertReason   string
}

// CallTracker detects re-entrancy: a contract address already present in the
// active call set may not be entered again within the same outer call, and
// overall nesting may not exceed MaxCallDepth.
type CallTracker struct {
	active map[string]struct{}
	depth  int
}

// NewCallTracker returns an empty tracker suitable for one outer call.
func NewCallTracker() *CallTracker {
	return &CallTracker{active: make(map[string]struct{})}
}

// Enter records address as active, returning an error if it is already
// active (re-entrancy) or the call depth limit is exceeded.
func (t *CallTracker) Enter(address string) error {
	if _, reentrant := t.active[address]; reentrant {
		return fmt.Errorf("reentrant call into %s", address)
	}
	if t.depth >= MaxCallDepth {
		return fmt.Errorf("call depth exceeded (%d)", MaxCallDepth)
	}
	t.active[address] = struct{}{}
	t.depth++
	return nil
}

// Exit releases address from the active set.
func (t *CallTracker) Exit(address string) {
	delete(t.active, address)
	t.depth--
}

// VM executes a single contract call against a storage overlay cloned from
// the contract's committed state. Nothing it does mutates the caller's
// storage map directly; on success the overlay's diff is reported in
// Result.StorageChanges for the registry to merge back.
type VM struct {
	code    []byte
	storage map[uint64]uint64
	ctx     Context

	stack   []uint64
	pc      int
	gasUsed uint64
	changed map[uint64]uint64
}

// New returns a VM ready to execute code against a clone of storage.
// storage is not mutated; New clones it so the caller's copy survives a
// reverted call untouched.
func New(code []byte, storage map[uint64]uint64, ctx Context) *VM {
	clone := make(map[uint64]uint64, len(storage))
	for k, v := range storage {
		clone[k] = v
	}
	return &VM{
		code:    code,
		storage: clone,
		ctx:     ctx,
		changed: make(map[uint64]uint64),
	}
}

func (vm *VM) push(v uint64) error {
	if len(vm.stack) >= MaxStackDepth {
		return fmt.Errorf("stack overflow")
	}
	vm.stack = append(vm.stack, v)
	return nil
}

func (vm *VM) pop() (uint64, error) {
	if len(vm.stack) == 0 {
		return 0, fmt.Errorf("stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

func (vm *VM) charge(amount uint64) error {
	if vm.gasUsed+amount > vm.ctx.GasLimit {
		return fmt.Errorf("out of gas")
	}
	vm.gasUsed += amount
	return nil
}

func (vm *VM) readU64(at int) (uint64, error) {
	if at+8 > len(vm.code) {
		return 0, fmt.Errorf("truncated PUSH operand")
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(vm.code[at+i])
	}
	return v, nil
}

func (vm *VM) readU32(at int) (uint32, error) {
	if at+4 > len(vm.code) {
		return 0, fmt.Errorf("truncated jump operand")
	}
	var v uint32
	for i := 0; i < 4; i++ {
		v = v<<8 | uint32(vm.code[at+i])
	}
	return v, nil
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// reverted returns a failed Result carrying reason and no storage changes;
// the overlay built up so far is discarded by construction since it is
// never reported.
func (vm *VM) reverted(reason string) Result {
	return Result{
		Success:      false,
		GasUsed:      vm.gasUsed,
		RevertReason: reason,
	}
}

// Execute runs the VM to completion (HALT, RETURN, or REVERT) or until an
// execution resource limit is hit, in which case it is treated identically
// to an explicit REVERT: storage changes are discarded and Success is
// false. Execute never panics on malformed bytecode; unknown opcodes,
// stack underflow, division by zero, and truncated operands all surface as
// a normal unsuccessful Result.
func (vm *VM) Execute() Result {
	for vm.pc < len(vm.code) {
		op := OpCode(vm.code[vm.pc])
		if !op.Valid() {
			return vm.reverted(fmt.Sprintf("unknown opcode 0x%02x", byte(op)))
		}
		if err := vm.charge(gasCost[op]); err != nil {
			return vm.reverted(err.Error())
		}

		vm.pc++

		switch op {
		case Push:
			v, err := vm.readU64(vm.pc)
			if err != nil {
				return vm.reverted(err.Error())
			}
			vm.pc += 8
			if err := vm.push(v); err != nil {
				return vm.reverted(err.Error())
			}

		case Pop:
			if _, err := vm.pop(); err != nil {
				return vm.reverted(err.Error())
			}

		case Dup:
			if len(vm.stack) == 0 {
				return vm.reverted("stack underflow")
			}
			if err := vm.push(vm.stack[len(vm.stack)-1]); err != nil {
				return vm.reverted(err.Error())
			}

		case Swap:
			if len(vm.stack) < 2 {
				return vm.reverted("stack underflow")
			}
			n := len(vm.stack)
			vm.stack[n-1], vm.stack[n-2] = vm.stack[n-2], vm.stack[n-1]

		case Add, Sub, Mul, Div, Mod:
			b, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			a, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			var result uint64
			switch op {
			case Add:
				result = a + b
			case Sub:
				result = a - b
			case Mul:
				result = a * b
			case Div:
				if b == 0 {
					return vm.reverted("division by zero")
				}
				result = a / b
			case Mod:
				if b == 0 {
					return vm.reverted("division by zero")
				}
				result = a % b
			}
			if err := vm.push(result); err != nil {
				return vm.reverted(err.Error())
			}

		case Eq, Lt, Gt, Le, Ge, Neq:
			b, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			a, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			var result bool
			switch op {
			case Eq:
				result = a == b
			case Lt:
				result = a < b
			case Gt:
				result = a > b
			case Le:
				result = a <= b
			case Ge:
				result = a >= b
			case Neq:
				result = a != b
			}
			if err := vm.push(boolToU64(result)); err != nil {
				return vm.reverted(err.Error())
			}

		case IsZero:
			a, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			if err := vm.push(boolToU64(a == 0)); err != nil {
				return vm.reverted(err.Error())
			}

		case And, Or:
			b, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			a, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			var result bool
			if op == And {
				result = a != 0 && b != 0
			} else {
				result = a != 0 || b != 0
			}
			if err := vm.push(boolToU64(result)); err != nil {
				return vm.reverted(err.Error())
			}

		case Not:
			a, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			if err := vm.push(boolToU64(a == 0)); err != nil {
				return vm.reverted(err.Error())
			}

		case Jump:
			addr, err := vm.readU32(vm.pc)
			if err != nil {
				return vm.reverted(err.Error())
			}
			if int(addr) > len(vm.code) {
				return vm.reverted("jump target out of range")
			}
			vm.pc = int(addr)

		case JumpIf:
			addr, err := vm.readU32(vm.pc)
			if err != nil {
				return vm.reverted(err.Error())
			}
			vm.pc += 4
			cond, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			if cond != 0 {
				if int(addr) > len(vm.code) {
					return vm.reverted("jump target out of range")
				}
				vm.pc = int(addr)
			}

		case Halt:
			return Result{Success: true, GasUsed: vm.gasUsed, StorageChanges: vm.changed}

		case Return:
			v, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			return Result{Success: true, ReturnValue: &v, GasUsed: vm.gasUsed, StorageChanges: vm.changed}

		case Revert:
			return vm.reverted("explicit revert")

		case SStore:
			val, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			key, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			if _, present := vm.storage[key]; present {
				if err := vm.charge(sstoreResetGas); err != nil {
					return vm.reverted(err.Error())
				}
			} else {
				if err := vm.charge(sstoreSetGas); err != nil {
					return vm.reverted(err.Error())
				}
			}
			vm.storage[key] = val
			vm.changed[key] = val

		case SLoad:
			key, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			if err := vm.push(vm.storage[key]); err != nil {
				return vm.reverted(err.Error())
			}

		case Balance:
			handle, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			addr, ok := vm.ctx.resolveHandle(handle)
			if !ok {
				return vm.reverted("BALANCE: unknown address handle")
			}
			var bal uint64
			if vm.ctx.BalanceOf != nil {
				bal = vm.ctx.BalanceOf(addr)
			}
			if err := vm.push(bal); err != nil {
				return vm.reverted(err.Error())
			}

		case Transfer:
			handle, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			amount, err := vm.pop()
			if err != nil {
				return vm.reverted(err.Error())
			}
			addr, ok := vm.ctx.resolveHandle(handle)
			if !ok {
				return vm.reverted("TRANSFER: unknown address handle")
			}
			var ok2 bool
			if vm.ctx.Transfer != nil {
				ok2 = vm.ctx.Transfer(addr, amount)
			}
			if err := vm.push(boolToU64(ok2)); err != nil {
				return vm.reverted(err.Error())
			}

		case Caller:
			if err := vm.push(handleCaller); err != nil {
				return vm.reverted(err.Error())
			}

		case Self:
			if err := vm.push(handleSelf); err != nil {
				return vm.reverted(err.Error())
			}

		case Timestamp:
			if err := vm.push(uint64(vm.ctx.Timestamp)); err != nil {
				return vm.reverted(err.Error())
			}

		case BlockNumber:
			if err := vm.push(vm.ctx.BlockNumber); err != nil {
				return vm.reverted(err.Error())
			}

		case SelfBalance:
			var bal uint64
			if vm.ctx.BalanceOf != nil {
				bal = vm.ctx.BalanceOf(vm.ctx.ContractAddress)
			}
			if err := vm.push(bal); err != nil {
				return vm.reverted(err.Error())
			}

		case Arg:
			if vm.pc >= len(vm.code) {
				return vm.reverted("truncated ARG operand")
			}
			idx := int(vm.code[vm.pc])
			vm.pc++
			if idx >= len(vm.ctx.Args) {
				return vm.reverted("argument index out of range")
			}
			if err := vm.push(vm.ctx.Args[idx]); err != nil {
				return vm.reverted(err.Error())
			}

		case ArgCount:
			if err := vm.push(uint64(len(vm.ctx.Args))); err != nil {
				return vm.reverted(err.Error())
			}

		case Nop:

		default:
			return vm.reverted(fmt.Sprintf("unhandled opcode %s", op))
		}
	}

	// Falling off the end of the code without an explicit HALT/RETURN/
	// REVERT behaves like HALT: commit and return no value.
	return Result{Success: true, GasUsed: vm.gasUsed, StorageChanges: vm.changed}
}
