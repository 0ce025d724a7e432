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
	"testing"

	"github.com/lumina-chain/lumen/params"
)

func TestJumpTableOpcodeAvailability(t *testing.T) {
	tests := []struct {
		table *JumpTable
		op    OpCode
		avail bool
	}{
		{&frontierInstructionSet, DELEGATECALL, false},
		{&homesteadInstructionSet, DELEGATECALL, true},
		{&spuriousDragonInstructionSet, REVERT, false},
		{&byzantiumInstructionSet, REVERT, true},
		{&byzantiumInstructionSet, STATICCALL, true},
		{&byzantiumInstructionSet, SHL, false},
		{&constantinopleInstructionSet, SHL, true},
		{&constantinopleInstructionSet, CREATE2, true},
		{&constantinopleInstructionSet, EXTCODEHASH, true},
		{&constantinopleInstructionSet, CHAINID, false},
		{&istanbulInstructionSet, CHAINID, true},
		{&istanbulInstructionSet, SELFBALANCE, true},
		{&berlinInstructionSet, BASEFEE, false},
		{&londonInstructionSet, BASEFEE, true},
		// INVALID is a defined instruction on every revision.
		{&frontierInstructionSet, INVALID, true},
		{&londonInstructionSet, INVALID, true},
	}
	for _, test := range tests {
		op := test.table[test.op]
		if op == nil {
			t.Fatalf("%v has no entry", test.op)
		}
		if got := !op.undefined; got != test.avail {
			t.Errorf("%v availability: got %v, want %v", test.op, got, test.avail)
		}
	}
}

func TestJumpTableRepricing(t *testing.T) {
	if got := frontierInstructionSet[SLOAD].constantGas; got != params.SloadGasFrontier {
		t.Errorf("frontier SLOAD gas %d, want %d", got, params.SloadGasFrontier)
	}
	if got := tangerineWhistleInstructionSet[SLOAD].constantGas; got != params.SloadGasEIP150 {
		t.Errorf("tangerine SLOAD gas %d, want %d", got, params.SloadGasEIP150)
	}
	if got := istanbulInstructionSet[SLOAD].constantGas; got != params.SloadGasEIP2200 {
		t.Errorf("istanbul SLOAD gas %d, want %d", got, params.SloadGasEIP2200)
	}
	if got := istanbulInstructionSet[BALANCE].constantGas; got != params.BalanceGasEIP1884 {
		t.Errorf("istanbul BALANCE gas %d, want %d", got, params.BalanceGasEIP1884)
	}
	// Berlin moves the state access cost into the dynamic portion.
	if got := berlinInstructionSet[SLOAD].constantGas; got != 0 {
		t.Errorf("berlin SLOAD constant gas %d, want 0", got)
	}
	if berlinInstructionSet[SLOAD].dynamicGas == nil {
		t.Error("berlin SLOAD has no dynamic gas")
	}
}

func TestCopyJumpTableIsolated(t *testing.T) {
	table := newLondonInstructionSet()
	cpy := copyJumpTable(&table)
	cpy[ADD].constantGas = 1337
	if table[ADD].constantGas == 1337 {
		t.Error("copy not isolated from source")
	}
}

func TestJumpTableAllEntriesSet(t *testing.T) {
	for _, table := range []*JumpTable{
		&frontierInstructionSet, &homesteadInstructionSet,
		&tangerineWhistleInstructionSet, &spuriousDragonInstructionSet,
		&byzantiumInstructionSet, &constantinopleInstructionSet,
		&istanbulInstructionSet, &berlinInstructionSet, &londonInstructionSet,
	} {
		for i, op := range table {
			if op == nil {
				t.Fatalf("op %#x is nil", i)
			}
			if op.memorySize != nil && op.dynamicGas == nil {
				t.Fatalf("op %v has memory size but no dynamic gas", OpCode(i))
			}
		}
	}
}
