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
	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
)

// Revision pins the opcode table and gas schedule of a hard fork.
type Revision int

const (
	Frontier Revision = iota
	Homestead
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	Berlin
	London
)

func (r Revision) String() string {
	switch r {
	case Frontier:
		return "Frontier"
	case Homestead:
		return "Homestead"
	case TangerineWhistle:
		return "TangerineWhistle"
	case SpuriousDragon:
		return "SpuriousDragon"
	case Byzantium:
		return "Byzantium"
	case Constantinople:
		return "Constantinople"
	case Petersburg:
		return "Petersburg"
	case Istanbul:
		return "Istanbul"
	case Berlin:
		return "Berlin"
	case London:
		return "London"
	default:
		return "unknown revision"
	}
}

// RevisionByName resolves a fork name to its Revision.
func RevisionByName(name string) (Revision, bool) {
	for r := Frontier; r <= London; r++ {
		if r.String() == name {
			return r, true
		}
	}
	return 0, false
}

// CallKind identifies the kind of a message call.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	CallCode
	Create
	Create2
	StaticCall
)

// StatusCode is the terminal status of a finished call.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusRevert
	StatusOutOfGas
	StatusStackUnderflow
	StatusStackOverflow
	StatusUndefinedInstruction
	StatusInvalidInstruction
	StatusBadJumpDestination
	StatusStaticModeViolation
	StatusCallDepthExceeded
	StatusInsufficientBalance
	StatusInvalidMemoryAccess
	StatusInternalError
)

func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRevert:
		return "revert"
	case StatusOutOfGas:
		return "out of gas"
	case StatusStackUnderflow:
		return "stack underflow"
	case StatusStackOverflow:
		return "stack overflow"
	case StatusUndefinedInstruction:
		return "undefined instruction"
	case StatusInvalidInstruction:
		return "invalid instruction"
	case StatusBadJumpDestination:
		return "bad jump destination"
	case StatusStaticModeViolation:
		return "static mode violation"
	case StatusCallDepthExceeded:
		return "call depth exceeded"
	case StatusInsufficientBalance:
		return "insufficient balance"
	case StatusInvalidMemoryAccess:
		return "invalid memory access"
	case StatusInternalError:
		return "internal error"
	default:
		return "unknown status"
	}
}

// IsError reports whether the status terminates a call without preserving gas.
func (s StatusCode) IsError() bool {
	return s != StatusSuccess && s != StatusRevert
}

// StorageStatus classifies the effect of a SSTORE on a storage cell. The host
// derives it from the (original, current, new) value triple; the gas schedule
// maps it to cost and refund.
type StorageStatus int

const (
	StorageAssigned StorageStatus = iota
	StorageAdded
	StorageDeleted
	StorageModified
	StorageDeletedAdded
	StorageModifiedDeleted
	StorageDeletedRestored
	StorageAddedDeleted
	StorageModifiedRestored
)

// AccessStatus is the result of marking an account or storage slot as
// accessed within the current transaction.
type AccessStatus int

const (
	ColdAccess AccessStatus = iota
	WarmAccess
)

// Message carries the inputs of a single call.
type Message struct {
	Kind       CallKind
	Depth      int
	Gas        uint64
	Recipient  common.Address
	Sender     common.Address
	Input      []byte
	Value      *uint256.Int
	Salt       common.Hash // CREATE2 only
	CodeAddress common.Address
	Static     bool
}

// Result is the outcome of a finished call.
type Result struct {
	Status         StatusCode
	GasLeft        uint64
	GasRefund      uint64
	Output         []byte
	CreatedAddress common.Address
}

// TxContext contains the blockchain context of the transaction the call
// belongs to. It is fetched from the host once per call and cached.
type TxContext struct {
	Origin      common.Address
	GasPrice    *uint256.Int
	Coinbase    common.Address
	BlockNumber uint64
	Timestamp   uint64
	GasLimit    uint64
	Difficulty  *uint256.Int
	ChainID     *uint256.Int
	BaseFee     *uint256.Int
}

// Host is the capability set the interpreter needs from the embedding
// blockchain environment. All calls are synchronous. The host owns all
// persistent state; the interpreter never snapshots or rolls back.
type Host interface {
	// AccountExists reports whether the given account exists. Used for the
	// new-account surcharge of value-bearing CALLs and for SELFDESTRUCT.
	AccountExists(addr common.Address) bool

	// GetStorage loads the current value of the given storage slot.
	GetStorage(addr common.Address, key common.Hash) common.Hash

	// SetStorage writes a storage slot and classifies the transition.
	SetStorage(addr common.Address, key common.Hash, value common.Hash) StorageStatus

	// GetStorageOriginal loads the value the slot had at the start of the
	// transaction. Needed by the net gas metering schedules.
	GetStorageOriginal(addr common.Address, key common.Hash) common.Hash

	// GetBalance returns the balance of the given account.
	GetBalance(addr common.Address) *uint256.Int

	// GetCodeSize returns the code size of the given account.
	GetCodeSize(addr common.Address) int

	// GetCodeHash returns the code hash of the given account, or the zero
	// hash for non-existent accounts.
	GetCodeHash(addr common.Address) common.Hash

	// GetCode returns the code of the given account.
	GetCode(addr common.Address) []byte

	// Selfdestruct registers the account for destruction and transfers its
	// balance to the beneficiary. It reports whether the account was not
	// already registered.
	Selfdestruct(addr common.Address, beneficiary common.Address) bool

	// Call executes a nested message call or contract creation and returns
	// its result. The host owns recursion, depth accounting beyond the
	// engine's pre-check, and state rollback on failure.
	Call(msg *Message) Result

	// EmitLog appends a log entry for the given account.
	EmitLog(addr common.Address, topics []common.Hash, data []byte)

	// GetTxContext returns the context of the current transaction.
	GetTxContext() TxContext

	// GetBlockHash returns the hash of the given block number, or the zero
	// hash if the number is out of the visible window.
	GetBlockHash(number uint64) common.Hash

	// AccessAccount marks the account as accessed and returns its prior
	// access status. Only consulted from Berlin on.
	AccessAccount(addr common.Address) AccessStatus

	// AccessStorage marks the storage slot as accessed and returns its prior
	// access status. Only consulted from Berlin on.
	AccessStorage(addr common.Address, key common.Hash) AccessStatus
}
