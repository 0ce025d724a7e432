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
)

func TestStackPushPop(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(2))
	if st.len() != 2 {
		t.Fatalf("got length %d, want 2", st.len())
	}
	if v := st.pop(); v.Uint64() != 2 {
		t.Fatalf("got %d, want 2", v.Uint64())
	}
	if v := st.peek(); v.Uint64() != 1 {
		t.Fatalf("got %d, want 1", v.Uint64())
	}
}

func TestStackBack(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	for i := uint64(0); i < 4; i++ {
		st.push(uint256.NewInt(i))
	}
	if v := st.Back(0); v.Uint64() != 3 {
		t.Fatalf("got %d, want 3", v.Uint64())
	}
	if v := st.Back(3); v.Uint64() != 0 {
		t.Fatalf("got %d, want 0", v.Uint64())
	}
}

func TestStackSwapDup(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(2))
	st.push(uint256.NewInt(3))

	st.swap(3)
	if st.peek().Uint64() != 1 {
		t.Fatalf("got %d, want 1 after swap", st.peek().Uint64())
	}
	st.dup(3)
	if st.len() != 4 || st.peek().Uint64() != 3 {
		t.Fatalf("got len %d top %d, want 4 and 3", st.len(), st.peek().Uint64())
	}
}

func TestStackPoolReset(t *testing.T) {
	st := newstack()
	st.push(uint256.NewInt(42))
	returnStack(st)

	st2 := newstack()
	defer returnStack(st2)
	if st2.len() != 0 {
		t.Fatalf("pooled stack not reset, length %d", st2.len())
	}
}
