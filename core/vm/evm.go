// Copyright 2023 The lumen Authors
// This file is part of the lumen library.
//
// The lumen library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The lumen library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the lumen library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"errors"
	"sync/atomic"

	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
	"github.com/lumina-chain/lumen/crypto"
	"github.com/lumina-chain/lumen/params"
)

// EVM is the Ethereum Virtual Machine base object and provides
// the necessary tools to run a contract on the given state with
// the provided context. It should be noted that any error
// generated through any of the calls should be considered a
// revert-state-and-consume-all-gas operation, no checks on
// specific errors should ever be performed. The interpreter makes
// sure that any errors generated are to be considered faulty code.
//
// The EVM should never be reused and is not thread safe.
type EVM struct {
	// host gives access to accounts, storage, logs and nested calls
	host Host
	// rev selects the instruction set and gas schedule
	rev Revision
	// txCtx holds transaction-wide information, fetched once from the host
	txCtx TxContext

	// depth is the current call stack depth
	depth int
	// abort is used to abort the EVM calling operations
	abort atomic.Bool
	// callGasTemp holds the gas available for the current call. This is needed because the
	// available gas is calculated in gasCall* according to the 63/64 rule and later
	// applied in opCall*.
	callGasTemp uint64
	// refund counts gas to be returned to the sender after the frame completes
	refund uint64
	// selfdestructRefunds controls whether SELFDESTRUCT adds to the refund
	// counter. It is preset for the legacy schedules and flipped at runtime
	// by the access-list gas function where the schedule demands it.
	selfdestructRefunds bool

	// jumpDests aggregates the results of JUMPDEST analysis, keyed by code hash
	jumpDests map[common.Hash]bitvec

	interpreter *EVMInterpreter

	Config Config
}

// NewEVM constructs an EVM instance executing against the given host at the
// given revision. The transaction context is fetched from the host once and
// cached for the lifetime of the instance.
func NewEVM(host Host, rev Revision, config Config) *EVM {
	evm := &EVM{
		host:                host,
		rev:                 rev,
		txCtx:               host.GetTxContext(),
		selfdestructRefunds: rev < Berlin,
		jumpDests:           make(map[common.Hash]bitvec),
		Config:              config,
	}
	evm.interpreter = NewEVMInterpreter(evm)
	return evm
}

// Host returns the host backing this instance.
func (evm *EVM) Host() Host { return evm.host }

// Revision returns the revision the instance executes at.
func (evm *EVM) Revision() Revision { return evm.rev }

// TxContext returns the cached transaction context.
func (evm *EVM) TxContext() TxContext { return evm.txCtx }

// Depth returns the current call stack depth.
func (evm *EVM) Depth() int { return evm.depth }

// Interpreter returns the current interpreter
func (evm *EVM) Interpreter() *EVMInterpreter { return evm.interpreter }

// Cancel cancels any running EVM operation. This may be called concurrently
// and it's safe to be called multiple times.
func (evm *EVM) Cancel() {
	evm.abort.Store(true)
}

// Cancelled returns true if Cancel has been called
func (evm *EVM) Cancelled() bool {
	return evm.abort.Load()
}

// AddRefund adds gas to the refund counter
func (evm *EVM) AddRefund(gas uint64) {
	evm.refund += gas
}

// SubRefund removes gas from the refund counter.
// This method will panic if the refund counter goes below zero
func (evm *EVM) SubRefund(gas uint64) {
	if gas > evm.refund {
		panic("refund counter below zero")
	}
	evm.refund -= gas
}

// Refund returns the current value of the refund counter.
func (evm *EVM) Refund() uint64 {
	return evm.refund
}

// callContract dispatches a nested call or create message through the host.
// The depth limit is enforced here so the host only ever sees messages it is
// allowed to execute. On a depth failure the caller keeps the gas it
// reserved for the child frame.
func (evm *EVM) callContract(msg *Message) Result {
	if msg.Depth > int(params.CallCreateDepth) {
		return Result{Status: StatusCallDepthExceeded, GasLeft: msg.Gas}
	}
	return evm.host.Call(msg)
}

// Execute runs the given code with the message parameters against the
// configured host and returns the terminal status, leftover gas, the
// refund accumulated by the frame and the output data.
//
// Execute handles a single call frame. Nested calls and creates are routed
// back through the host, which is expected to run each child frame on a
// fresh instance so that refund accounting stays per frame.
func (evm *EVM) Execute(msg *Message, code []byte) Result {
	if msg.Depth > int(params.CallCreateDepth) {
		return Result{Status: StatusCallDepthExceeded, GasLeft: msg.Gas}
	}
	var (
		recipient = msg.Recipient
		value     = msg.Value
	)
	if value == nil {
		value = new(uint256.Int)
	}
	contract := GetContract(msg.Sender, recipient, value, msg.Gas, evm.jumpDests)
	defer ReturnContract(contract)

	isCreate := msg.Kind == Create || msg.Kind == Create2
	if isCreate {
		// Initcode is not stored in the state, analysis stays local.
		contract.Code = code
		contract.IsDeployment = true
	} else {
		contract.SetCallCode(crypto.Keccak256Hash(code), code)
	}
	evm.depth = msg.Depth

	if evm.Config.Tracer != nil {
		evm.Config.Tracer.CaptureStart(msg.Sender, recipient, isCreate, msg.Input, msg.Gas, value)
	}
	ret, err := evm.interpreter.Run(contract, msg.Input, msg.Static)
	if evm.Config.Tracer != nil {
		evm.Config.Tracer.CaptureEnd(ret, msg.Gas-contract.Gas, err)
	}
	frameCount.Inc(1)
	if err != nil && !errors.Is(err, ErrExecutionReverted) {
		frameFailCount.Inc(1)
	}

	res := Result{Status: errToStatus(err)}
	switch res.Status {
	case StatusSuccess:
		res.GasLeft = contract.Gas
		res.GasRefund = evm.refund
		res.Output = common.CopyBytes(ret)
	case StatusRevert:
		res.GasLeft = contract.Gas
		res.Output = common.CopyBytes(ret)
	}
	return res
}

// Execute runs code against the host at the given revision on a fresh
// instance with default configuration.
func Execute(host Host, rev Revision, msg *Message, code []byte) Result {
	return NewEVM(host, rev, Config{}).Execute(msg, code)
}

// errToStatus translates an interpreter error into the terminal status code
// reported to the caller.
func errToStatus(err error) StatusCode {
	if err == nil {
		return StatusSuccess
	}
	var (
		underflow *ErrStackUnderflow
		overflow  *ErrStackOverflow
		invalidOp *ErrInvalidOpCode
	)
	switch {
	case errors.Is(err, ErrExecutionReverted):
		return StatusRevert
	case errors.Is(err, ErrOutOfGas),
		errors.Is(err, ErrGasUintOverflow),
		errors.Is(err, ErrMemoryLimitExceeded):
		return StatusOutOfGas
	case errors.Is(err, ErrInvalidJump):
		return StatusBadJumpDestination
	case errors.Is(err, ErrWriteProtection):
		return StatusStaticModeViolation
	case errors.Is(err, ErrReturnDataOutOfBounds):
		return StatusInvalidMemoryAccess
	case errors.Is(err, ErrDepth):
		return StatusCallDepthExceeded
	case errors.Is(err, ErrInsufficientBalance):
		return StatusInsufficientBalance
	case errors.Is(err, ErrInvalidInstruction):
		return StatusInvalidInstruction
	case errors.As(err, &underflow):
		return StatusStackUnderflow
	case errors.As(err, &overflow):
		return StatusStackOverflow
	case errors.As(err, &invalidOp):
		return StatusUndefinedInstruction
	}
	return StatusInternalError
}
