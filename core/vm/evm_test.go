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
	"testing"

	"github.com/lumina-chain/lumen/common"
)

func TestErrToStatus(t *testing.T) {
	tests := []struct {
		err    error
		status StatusCode
	}{
		{nil, StatusSuccess},
		{ErrExecutionReverted, StatusRevert},
		{ErrOutOfGas, StatusOutOfGas},
		{ErrGasUintOverflow, StatusOutOfGas},
		{ErrMemoryLimitExceeded, StatusOutOfGas},
		{ErrInvalidJump, StatusBadJumpDestination},
		{ErrWriteProtection, StatusStaticModeViolation},
		{ErrReturnDataOutOfBounds, StatusInvalidMemoryAccess},
		{ErrDepth, StatusCallDepthExceeded},
		{ErrInsufficientBalance, StatusInsufficientBalance},
		{&ErrStackUnderflow{stackLen: 0, required: 2}, StatusStackUnderflow},
		{&ErrStackOverflow{stackLen: 1025, limit: 1024}, StatusStackOverflow},
		{&ErrInvalidOpCode{opcode: OpCode(0xf6)}, StatusUndefinedInstruction},
		{ErrInvalidInstruction, StatusInvalidInstruction},
		{errors.New("boom"), StatusInternalError},
	}
	for _, test := range tests {
		if got := errToStatus(test.err); got != test.status {
			t.Errorf("err %v: got %v, want %v", test.err, got, test.status)
		}
	}
}

func TestEVMRefundCounter(t *testing.T) {
	evm := NewEVM(newMockHost(), London, Config{})
	evm.AddRefund(100)
	evm.SubRefund(40)
	if evm.Refund() != 60 {
		t.Fatalf("got refund %d, want 60", evm.Refund())
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on negative refund")
		}
	}()
	evm.SubRefund(61)
}

func TestEVMSelfdestructRefundFlag(t *testing.T) {
	host := newMockHost()
	if evm := NewEVM(host, Istanbul, Config{}); !evm.selfdestructRefunds {
		t.Error("pre-Berlin refunds disabled")
	}
	// Berlin defers the decision to the gas function.
	if evm := NewEVM(host, Berlin, Config{}); evm.selfdestructRefunds {
		t.Error("Berlin refunds preset")
	}
	if evm := NewEVM(host, London, Config{}); evm.selfdestructRefunds {
		t.Error("London refunds preset")
	}
}

func TestCallContractDepthLimit(t *testing.T) {
	host := newMockHost()
	host.callResult = Result{Status: StatusSuccess}
	evm := NewEVM(host, London, Config{})

	res := evm.callContract(&Message{Depth: 1025, Gas: 777})
	if res.Status != StatusCallDepthExceeded {
		t.Fatalf("got status %v, want call depth exceeded", res.Status)
	}
	if res.GasLeft != 777 {
		t.Fatalf("got gas left %d, want 777", res.GasLeft)
	}
	if len(host.calls) != 0 {
		t.Fatal("host saw a message beyond the depth limit")
	}

	if res := evm.callContract(&Message{Depth: 1024}); res.Status != StatusSuccess {
		t.Fatalf("got status %v, want success at limit", res.Status)
	}
}

func TestExecuteRefundReported(t *testing.T) {
	host := newMockHost()
	// Prime a non-zero slot so clearing it refunds.
	addr := common.BytesToAddress([]byte("contract"))
	host.storage[addr] = map[common.Hash]common.Hash{
		{}: common.BytesToHash([]byte{1}),
	}
	// sstore(0, 0)
	code := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(SSTORE)}
	msg := &Message{Kind: Call, Gas: 100000, Recipient: addr}
	res := Execute(host, London, msg, code)
	if res.Status != StatusSuccess {
		t.Fatalf("got status %v, want success", res.Status)
	}
	if res.GasRefund == 0 {
		t.Fatal("storage clear produced no refund")
	}
}

func TestExecuteExtraEips(t *testing.T) {
	host := newMockHost()
	evm := NewEVM(host, Constantinople, Config{ExtraEips: []int{1344}})
	// chainid push(0) mstore return(0, 32)
	code := []byte{
		byte(CHAINID), byte(PUSH1), 0, byte(MSTORE),
		byte(PUSH1), 32, byte(PUSH1), 0, byte(RETURN),
	}
	msg := &Message{Kind: Call, Gas: 100000, Recipient: common.BytesToAddress([]byte("contract"))}
	res := evm.Execute(msg, code)
	if res.Status != StatusSuccess {
		t.Fatalf("got status %v, want success", res.Status)
	}
	if res.Output[31] != 1 {
		t.Fatalf("got chainid %d, want 1", res.Output[31])
	}
	// The shared Constantinople table must stay untouched.
	if !constantinopleInstructionSet[CHAINID].undefined {
		t.Error("shared jump table polluted by extra eip")
	}
}

func TestExecuteInvalidExtraEip(t *testing.T) {
	evm := NewEVM(newMockHost(), London, Config{ExtraEips: []int{9999}})
	if len(evm.Config.ExtraEips) != 0 {
		t.Fatalf("invalid eip kept: %v", evm.Config.ExtraEips)
	}
}
