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
	"strings"
	"testing"

	"github.com/lumina-chain/lumen/common"
)

func traceCode(t *testing.T, logger *StructLogger, code []byte) Result {
	t.Helper()
	evm := NewEVM(newMockHost(), London, Config{Tracer: logger})
	msg := &Message{Kind: Call, Gas: 100000, Recipient: common.BytesToAddress([]byte("contract"))}
	return evm.Execute(msg, code)
}

func TestStructLoggerCapture(t *testing.T) {
	logger := NewStructLogger(nil)
	// push(1) push(2) add stop
	code := []byte{byte(PUSH1), 1, byte(PUSH1), 2, byte(ADD), byte(STOP)}
	res := traceCode(t, logger, code)
	if res.Status != StatusSuccess {
		t.Fatalf("got status %v, want success", res.Status)
	}
	logs := logger.StructLogs()
	if len(logs) != 4 {
		t.Fatalf("got %d log entries, want 4", len(logs))
	}
	if logs[0].Op != PUSH1 || logs[2].Op != ADD || logs[3].Op != STOP {
		t.Fatalf("unexpected opcode sequence: %v %v %v %v", logs[0].Op, logs[1].Op, logs[2].Op, logs[3].Op)
	}
	if logs[2].GasCost != GasFastestStep {
		t.Errorf("ADD cost %d, want %d", logs[2].GasCost, GasFastestStep)
	}
	// Stack at the ADD step holds both operands.
	if len(logs[2].Stack) != 2 {
		t.Errorf("ADD stack depth %d, want 2", len(logs[2].Stack))
	}
	if logs[0].Depth != 1 {
		t.Errorf("depth %d, want 1", logs[0].Depth)
	}
}

func TestStructLoggerErrorCapture(t *testing.T) {
	logger := NewStructLogger(nil)
	res := traceCode(t, logger, []byte{byte(ADD)})
	if res.Status != StatusStackUnderflow {
		t.Fatalf("got status %v, want stack underflow", res.Status)
	}
	logs := logger.StructLogs()
	if len(logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(logs))
	}
	if logs[0].Err == nil {
		t.Fatal("faulting step has no error")
	}
}

func TestStructLoggerLimit(t *testing.T) {
	logger := NewStructLogger(&LogConfig{Limit: 2})
	code := []byte{byte(PUSH1), 1, byte(PUSH1), 2, byte(ADD), byte(STOP)}
	traceCode(t, logger, code)
	if got := len(logger.StructLogs()); got != 2 {
		t.Fatalf("got %d log entries, want 2", got)
	}
}

func TestStructLoggerMemoryCapture(t *testing.T) {
	logger := NewStructLogger(&LogConfig{EnableMemory: true})
	// push(0x42) push(0) mstore stop
	code := []byte{byte(PUSH1), 0x42, byte(PUSH1), 0, byte(MSTORE), byte(STOP)}
	traceCode(t, logger, code)
	logs := logger.StructLogs()
	last := logs[len(logs)-1]
	if last.MemorySize != 32 {
		t.Fatalf("got memory size %d, want 32", last.MemorySize)
	}
	if len(last.Memory) != 32 || last.Memory[31] != 0x42 {
		t.Fatalf("memory not captured: %x", last.Memory)
	}
}

func TestStructLoggerReset(t *testing.T) {
	logger := NewStructLogger(nil)
	traceCode(t, logger, []byte{byte(STOP)})
	logger.Reset()
	if len(logger.StructLogs()) != 0 || logger.Output() != nil || logger.Error() != nil {
		t.Fatal("reset did not clear the logger")
	}
}

func TestWriteTrace(t *testing.T) {
	logger := NewStructLogger(nil)
	traceCode(t, logger, []byte{byte(PUSH1), 1, byte(POP), byte(STOP)})

	var sb strings.Builder
	WriteTrace(&sb, logger.StructLogs())
	out := sb.String()
	if !strings.Contains(out, "PUSH1") || !strings.Contains(out, "POP") {
		t.Fatalf("trace missing opcodes:\n%s", out)
	}
}
