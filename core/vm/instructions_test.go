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

	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
)

// testTwoOperandOp runs op on a stack holding [y, x] and checks the result left
// on top. x is the first operand of the instruction.
func testTwoOperandOp(t *testing.T, tests []struct{ x, y, expected string }, opFn executionFunc, name string) {
	t.Helper()
	var (
		evm   = NewEVM(newMockHost(), London, Config{})
		stack = newstack()
		pc    = uint64(0)
	)
	defer returnStack(stack)
	scope := &ScopeContext{Stack: stack}

	for i, test := range tests {
		x := new(uint256.Int).SetBytes(common.Hex2Bytes(test.x))
		y := new(uint256.Int).SetBytes(common.Hex2Bytes(test.y))
		expected := new(uint256.Int).SetBytes(common.Hex2Bytes(test.expected))
		stack.push(y)
		stack.push(x)
		opFn(&pc, evm.interpreter, scope)
		if len(stack.data) != 1 {
			t.Errorf("%v %d: expected one item on stack, got %d", name, i, len(stack.data))
		}
		actual := stack.pop()
		if actual.Cmp(expected) != 0 {
			t.Errorf("%v %d: expected %x, got %x", name, i, expected, actual)
		}
	}
}

func TestOpSub(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		{"05", "03", "02"},
		{"00", "01", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"01", "01", "00"},
	}
	testTwoOperandOp(t, tests, opSub, "sub")
}

func TestOpDiv(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		{"06", "02", "03"},
		{"05", "00", "00"},
		{"01", "02", "00"},
	}
	testTwoOperandOp(t, tests, opDiv, "div")
}

func TestOpSdiv(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		// -6 / 2 = -3
		{"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffa", "02",
			"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffd"},
		{"06", "00", "00"},
	}
	testTwoOperandOp(t, tests, opSdiv, "sdiv")
}

func TestOpSmod(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		// -8 smod 3 = -2
		{"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff8", "03",
			"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
		{"08", "00", "00"},
	}
	testTwoOperandOp(t, tests, opSmod, "smod")
}

func TestOpSignExtend(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		// extending 0xff from byte 0 gives -1
		{"00", "ff", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"00", "7f", "7f"},
		{"01", "80ff", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff80ff"},
	}
	testTwoOperandOp(t, tests, opSignExtend, "signextend")
}

func TestOpByte(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		{"1f", "102030", "30"},
		{"1e", "102030", "20"},
		{"20", "102030", "00"},
	}
	testTwoOperandOp(t, tests, opByte, "byte")
}

func TestOpSHL(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		{"01", "01", "02"},
		{"ff", "01", "8000000000000000000000000000000000000000000000000000000000000000"},
		{"0100", "01", "00"},
	}
	testTwoOperandOp(t, tests, opSHL, "shl")
}

func TestOpSHR(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		{"01", "02", "01"},
		{"01", "8000000000000000000000000000000000000000000000000000000000000000",
			"4000000000000000000000000000000000000000000000000000000000000000"},
		{"0100", "ff", "00"},
	}
	testTwoOperandOp(t, tests, opSHR, "shr")
}

func TestOpSAR(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		{"01", "8000000000000000000000000000000000000000000000000000000000000000",
			"c000000000000000000000000000000000000000000000000000000000000000"},
		{"0101", "8000000000000000000000000000000000000000000000000000000000000000",
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"0101", "7f00000000000000000000000000000000000000000000000000000000000000", "00"},
	}
	testTwoOperandOp(t, tests, opSAR, "sar")
}

func TestOpSlt(t *testing.T) {
	tests := []struct{ x, y, expected string }{
		// -1 < 0
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "00", "01"},
		{"00", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "00"},
		{"01", "01", "00"},
	}
	testTwoOperandOp(t, tests, opSlt, "slt")
}

func TestOpAddmod(t *testing.T) {
	var (
		evm   = NewEVM(newMockHost(), London, Config{})
		stack = newstack()
		pc    = uint64(0)
	)
	defer returnStack(stack)
	scope := &ScopeContext{Stack: stack}

	// (10 + 10) % 8 = 4
	stack.push(uint256.NewInt(8))
	stack.push(uint256.NewInt(10))
	stack.push(uint256.NewInt(10))
	opAddmod(&pc, evm.interpreter, scope)
	if got := stack.pop(); got.Uint64() != 4 {
		t.Fatalf("got %d, want 4", got.Uint64())
	}
}

func TestOpMulmod(t *testing.T) {
	var (
		evm   = NewEVM(newMockHost(), London, Config{})
		stack = newstack()
		pc    = uint64(0)
	)
	defer returnStack(stack)
	scope := &ScopeContext{Stack: stack}

	// (10 * 10) % 8 = 4
	stack.push(uint256.NewInt(8))
	stack.push(uint256.NewInt(10))
	stack.push(uint256.NewInt(10))
	opMulmod(&pc, evm.interpreter, scope)
	if got := stack.pop(); got.Uint64() != 4 {
		t.Fatalf("got %d, want 4", got.Uint64())
	}
}

func TestOpMstoreMload(t *testing.T) {
	var (
		evm   = NewEVM(newMockHost(), London, Config{})
		stack = newstack()
		mem   = NewMemory()
		pc    = uint64(0)
	)
	defer returnStack(stack)
	defer mem.Free()
	mem.Resize(64)
	scope := &ScopeContext{Memory: mem, Stack: stack}

	stack.push(uint256.NewInt(0xabcdef))
	stack.push(uint256.NewInt(0))
	opMstore(&pc, evm.interpreter, scope)

	stack.push(uint256.NewInt(0))
	opMload(&pc, evm.interpreter, scope)
	if got := stack.pop(); got.Uint64() != 0xabcdef {
		t.Fatalf("got %x, want abcdef", got.Uint64())
	}
}

func TestOpKeccak256(t *testing.T) {
	var (
		evm   = NewEVM(newMockHost(), London, Config{})
		stack = newstack()
		mem   = NewMemory()
		pc    = uint64(0)
	)
	defer returnStack(stack)
	defer mem.Free()
	mem.Resize(32)
	mem.Set(0, 3, []byte("abc"))
	scope := &ScopeContext{Memory: mem, Stack: stack}

	stack.push(uint256.NewInt(3))
	stack.push(uint256.NewInt(0))
	opKeccak256(&pc, evm.interpreter, scope)

	want := new(uint256.Int).SetBytes(common.Hex2Bytes(
		"4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"))
	if got := stack.pop(); got.Cmp(want) != 0 {
		t.Fatalf("got %x, want %x", &got, want)
	}
}

func BenchmarkOpAdd(b *testing.B) {
	var (
		evm   = NewEVM(newMockHost(), London, Config{})
		stack = newstack()
		pc    = uint64(0)
	)
	defer returnStack(stack)
	scope := &ScopeContext{Stack: stack}

	x := new(uint256.Int).SetAllOne()
	y := new(uint256.Int).SetAllOne()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stack.push(x)
		stack.push(y)
		opAdd(&pc, evm.interpreter, scope)
		stack.pop()
	}
}
