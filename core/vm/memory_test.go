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
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestMemoryResize(t *testing.T) {
	m := NewMemory()
	defer m.Free()

	m.Resize(64)
	if m.Len() != 64 {
		t.Fatalf("got length %d, want 64", m.Len())
	}
	// Shrinking is never performed.
	m.Resize(32)
	if m.Len() != 64 {
		t.Fatalf("got length %d, want 64", m.Len())
	}
}

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	defer m.Free()
	m.Resize(96)

	data := []byte{1, 2, 3, 4}
	m.Set(32, 4, data)
	if got := m.GetCopy(32, 4); !bytes.Equal(got, data) {
		t.Fatalf("got %x, want %x", got, data)
	}
	// A zero size read returns nil regardless of offset.
	if got := m.GetCopy(1000, 0); got != nil {
		t.Fatalf("got %x, want nil", got)
	}
	if got := m.GetPtr(64, 0); got != nil {
		t.Fatalf("got %x, want nil", got)
	}
}

func TestMemorySet32(t *testing.T) {
	m := NewMemory()
	defer m.Free()
	m.Resize(64)

	m.Set32(0, uint256.NewInt(0x0102))
	want := make([]byte, 32)
	want[30], want[31] = 0x01, 0x02
	if got := m.GetCopy(0, 32); !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestMemoryCopyOverlap(t *testing.T) {
	m := NewMemory()
	defer m.Free()
	m.Resize(64)

	m.Set(0, 4, []byte{1, 2, 3, 4})
	m.Copy(2, 0, 4)
	want := []byte{1, 2, 1, 2, 3, 4}
	if got := m.GetCopy(0, 6); !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestMemoryFreeReset(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	m.Set32(0, uint256.NewInt(1))
	m.Free()

	m2 := NewMemory()
	defer m2.Free()
	if m2.Len() != 0 {
		t.Fatalf("pooled memory not reset, length %d", m2.Len())
	}
}

func BenchmarkMemoryResize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m := NewMemory()
		m.Resize(1024)
		m.Free()
	}
}
