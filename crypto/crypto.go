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

// Package crypto implements the Keccak-256 hashing used throughout the VM.
package crypto

import (
	"encoding/binary"
	"hash"

	"github.com/lumina-chain/lumen/common"
	"golang.org/x/crypto/sha3"
)

// KeccakState wraps sha3.state. In addition to the usual hash methods, it also
// supports Read to get a variable amount of data from the hash state. Read is
// faster than Sum because it doesn't copy the internal state, but also
// modifies the internal state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// NewKeccakState creates a new KeccakState.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// HashData hashes the provided data using the KeccakState and returns a 32 byte hash.
func HashData(kh KeccakState, data []byte) (h common.Hash) {
	kh.Reset()
	kh.Write(data)
	kh.Read(h[:])
	return h
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, 32)
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(b)
	return b
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	return h
}

// CreateAddress creates an ethereum address given the bytes and the nonce.
func CreateAddress(b common.Address, nonce uint64) common.Address {
	return common.BytesToAddress(Keccak256(rlpAddressNonce(b, nonce))[12:])
}

// CreateAddress2 creates an ethereum address given the address bytes, initial
// contract code hash and a salt.
func CreateAddress2(b common.Address, salt [32]byte, inithash []byte) common.Address {
	return common.BytesToAddress(Keccak256([]byte{0xff}, b.Bytes(), salt[:], inithash)[12:])
}

// rlpAddressNonce encodes the [address, nonce] pair the way contract address
// derivation expects. The payload is always below the 56 byte long-form
// threshold, so only the short list and string forms are needed.
func rlpAddressNonce(b common.Address, nonce uint64) []byte {
	var nonceEnc []byte
	switch {
	case nonce == 0:
		nonceEnc = []byte{0x80}
	case nonce < 0x80:
		nonceEnc = []byte{byte(nonce)}
	default:
		var be [8]byte
		binary.BigEndian.PutUint64(be[:], nonce)
		i := 0
		for be[i] == 0 {
			i++
		}
		nonceEnc = append([]byte{0x80 + byte(8-i)}, be[i:]...)
	}
	payload := append([]byte{0x80 + byte(common.AddressLength)}, b.Bytes()...)
	payload = append(payload, nonceEnc...)
	return append([]byte{0xc0 + byte(len(payload))}, payload...)
}
