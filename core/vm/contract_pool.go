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
	"sync"

	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
)

var contractPool = sync.Pool{
	New: func() any {
		return &Contract{}
	},
}

// GetContract returns a contract from the pool or creates a new one
func GetContract(caller common.Address, address common.Address, value *uint256.Int, gas uint64, jumpDests map[common.Hash]bitvec) *Contract {
	contract := contractPool.Get().(*Contract)

	// Reset the contract with new values
	contract.caller = caller
	contract.address = address
	contract.value = value
	contract.Gas = gas
	contract.Code = nil
	contract.CodeHash = common.Hash{}
	contract.Input = nil
	contract.IsDeployment = false

	// Initialize the jump analysis map if it's nil, mostly for tests
	if jumpDests == nil {
		jumpDests = make(map[common.Hash]bitvec)
	}
	contract.jumpdests = jumpDests
	contract.analysis = nil

	return contract
}

// ReturnContract returns a contract to the pool
func ReturnContract(contract *Contract) {
	if contract == nil {
		return
	}
	contractPool.Put(contract)
}
