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
	"math/bits"
	"testing"

	"github.com/lumina-chain/lumen/common"
	"github.com/lumina-chain/lumen/crypto"
)

func TestJumpDestAnalysis(t *testing.T) {
	tests := []struct {
		code  []byte
		exp   byte
		which int
	}{
		{[]byte{byte(PUSH1), 0x01, 0x01, 0x01}, 0b0000_0010, 0},
		{[]byte{byte(PUSH1), byte(PUSH1), byte(PUSH1), byte(PUSH1)}, 0b0000_1010, 0},
		{[]byte{0x00, byte(PUSH1), 0x00, byte(PUSH1), 0x00, byte(PUSH1), 0x00, byte(PUSH1)}, 0b0101_0100, 0},
		{[]byte{byte(PUSH8), byte(PUSH8), byte(PUSH8), byte(PUSH8), byte(PUSH8), byte(PUSH8), byte(PUSH8), byte(PUSH8), 0x01, 0x01, 0x01}, bits.Reverse8(0x7F), 0},
		{[]byte{byte(PUSH8), 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}, 0x01, 1},
		{[]byte{byte(PUSH8), 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}, 0xFE, 0},
		{[]byte{byte(PUSH16), 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}, 0xFF, 1},
		{[]byte{byte(PUSH16), 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}, 0xFE, 0},
		{[]byte{byte(PUSH16), 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}, 0x01, 2},
		{[]byte{byte(PUSH32)}, 0xFE, 0},
		{[]byte{byte(PUSH32)}, 0xFF, 1},
		{[]byte{byte(PUSH32)}, 0xFF, 2},
	}
	for i, test := range tests {
		ret := codeBitmap(test.code)
		if ret[test.which] != test.exp {
			t.Fatalf("test %d: expected %x, got %02x", i, test.exp, ret[test.which])
		}
	}
}

func TestJumpdestBitmapDataNotCode(t *testing.T) {
	// JUMPDEST as PUSH argument must not count as code.
	code := []byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST)}
	analysis := codeBitmap(code)
	if analysis.codeSegment(1) {
		t.Error("push data reported as code")
	}
	if !analysis.codeSegment(2) {
		t.Error("jumpdest not reported as code")
	}
}

func TestCodeBitmapCache(t *testing.T) {
	code := []byte{byte(PUSH2), 0x01, 0x02, byte(JUMPDEST)}
	hash := crypto.Keccak256Hash(code)

	first := codeBitmapWithCache(hash, code)
	second := codeBitmapWithCache(hash, code)
	if &first[0] != &second[0] {
		t.Error("cached analysis not reused")
	}
	// The zero hash must bypass the cache.
	uncached := codeBitmapWithCache(common.Hash{}, code)
	if !uncached.codeSegment(3) {
		t.Error("analysis without cache broken")
	}
}

func BenchmarkJumpdestOpAnalysis(bench *testing.B) {
	var op OpCode
	analysisCodeSize := 1200 * 1024
	code := make([]byte, analysisCodeSize)
	bits := make(bitvec, len(code)/8+1+4)
	b := bench.N
	bench.ResetTimer()
	for i := 0; i < b; i++ {
		for j := range code {
			code[j] = byte(op)
		}
		for j := range bits {
			bits[j] = 0
		}
		codeBitmapInternal(code, bits)
		op++
		if op > PUSH32 {
			op = 0
		}
	}
}
