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
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
)

// EVMLogger is used to collect execution traces from an EVM execution.
// CaptureState is called for each step of the VM with the current VM state.
// Note that reference types are actual VM data structures; make copies
// if you need to retain them beyond the current call.
type EVMLogger interface {
	CaptureStart(from common.Address, to common.Address, create bool, input []byte, gas uint64, value *uint256.Int)
	CaptureState(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, rData []byte, depth int, err error)
	CaptureFault(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, depth int, err error)
	CaptureEnd(output []byte, gasUsed uint64, err error)
}

// StructLog is emitted to the EVM each cycle and lists information about the
// current internal state prior to the execution of the statement.
type StructLog struct {
	Pc         uint64        `json:"pc"`
	Op         OpCode        `json:"op"`
	Gas        uint64        `json:"gas"`
	GasCost    uint64        `json:"gasCost"`
	Memory     []byte        `json:"memory,omitempty"`
	MemorySize int           `json:"memSize"`
	Stack      []uint256.Int `json:"stack"`
	ReturnData []byte        `json:"returnData,omitempty"`
	Depth      int           `json:"depth"`
	Err        error         `json:"-"`
}

// ErrorString formats the log's error as a string.
func (s *StructLog) ErrorString() string {
	if s.Err != nil {
		return s.Err.Error()
	}
	return ""
}

// LogConfig are the configuration options for structured logger the EVM
type LogConfig struct {
	EnableMemory     bool // enable memory capture
	DisableStack     bool // disable stack capture
	EnableReturnData bool // enable return data capture
	Limit            int  // maximum length of output, but zero means unlimited
}

// StructLogger is an EVM state logger and implements EVMLogger.
//
// StructLogger records one StructLog per executed step, capturing the memory,
// stack and return data selected by the given Log configuration. It does not
// record contract storage.
type StructLogger struct {
	cfg LogConfig

	logs   []StructLog
	output []byte
	err    error
}

// NewStructLogger returns a new logger
func NewStructLogger(cfg *LogConfig) *StructLogger {
	logger := &StructLogger{}
	if cfg != nil {
		logger.cfg = *cfg
	}
	return logger
}

// Reset clears the data held by the logger.
func (l *StructLogger) Reset() {
	l.logs = l.logs[:0]
	l.output = nil
	l.err = nil
}

// CaptureStart implements the EVMLogger interface to initialize the tracing operation.
func (l *StructLogger) CaptureStart(from common.Address, to common.Address, create bool, input []byte, gas uint64, value *uint256.Int) {
}

// CaptureState appends a structured log entry for the current step, unless the
// configured Limit has been reached. Storage changes are not tracked.
func (l *StructLogger) CaptureState(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, rData []byte, depth int, err error) {
	if l.cfg.Limit != 0 && l.cfg.Limit <= len(l.logs) {
		return
	}
	memory := scope.Memory
	stack := scope.Stack

	log := StructLog{
		Pc:         pc,
		Op:         op,
		Gas:        gas,
		GasCost:    cost,
		MemorySize: memory.Len(),
		Depth:      depth,
		Err:        err,
	}
	if l.cfg.EnableMemory {
		log.Memory = common.CopyBytes(memory.Data())
	}
	if !l.cfg.DisableStack {
		log.Stack = append([]uint256.Int(nil), stack.Data()...)
	}
	if l.cfg.EnableReturnData {
		log.ReturnData = common.CopyBytes(rData)
	}
	l.logs = append(l.logs, log)
}

// CaptureFault implements the EVMLogger interface to trace an execution fault.
func (l *StructLogger) CaptureFault(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, depth int, err error) {
}

// CaptureEnd is called after the call finishes to finalize the tracing.
func (l *StructLogger) CaptureEnd(output []byte, gasUsed uint64, err error) {
	l.output = common.CopyBytes(output)
	l.err = err
}

// StructLogs returns the captured log entries.
func (l *StructLogger) StructLogs() []StructLog { return l.logs }

// Error returns the VM error captured by the trace.
func (l *StructLogger) Error() error { return l.err }

// Output returns the VM return value captured by the trace.
func (l *StructLogger) Output() []byte { return l.output }

// WriteTrace writes a formatted trace to the given writer
func WriteTrace(writer io.Writer, logs []StructLog) {
	for _, log := range logs {
		fmt.Fprintf(writer, "%-16spc=%08d gas=%v cost=%v", log.Op, log.Pc, log.Gas, log.GasCost)
		if log.Err != nil {
			fmt.Fprintf(writer, " ERROR: %v", log.Err)
		}
		fmt.Fprintln(writer)

		for i := len(log.Stack) - 1; i >= 0; i-- {
			fmt.Fprintf(writer, "%08d  %s\n", len(log.Stack)-i-1, log.Stack[i].Hex())
		}
		if len(log.Memory) > 0 {
			fmt.Fprintln(writer, "Memory:")
			fmt.Fprint(writer, hexDump(log.Memory))
		}
		fmt.Fprintln(writer)
	}
}

func hexDump(data []byte) string {
	var out string
	for i := 0; i+32 <= len(data); i += 32 {
		out += fmt.Sprintf("%08x  %x\n", i, data[i:i+32])
	}
	if rem := len(data) % 32; rem != 0 {
		out += fmt.Sprintf("%08x  %x\n", len(data)-rem, data[len(data)-rem:])
	}
	return out
}
