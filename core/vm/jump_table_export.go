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

// LookupInstructionSet returns a fresh copy of the instruction set of the
// given revision, safe to modify with EnableEIP.
func LookupInstructionSet(rev Revision) JumpTable {
	switch {
	case rev >= London:
		return newLondonInstructionSet()
	case rev >= Berlin:
		return newBerlinInstructionSet()
	case rev >= Istanbul:
		return newIstanbulInstructionSet()
	case rev >= Constantinople:
		// Petersburg is Constantinople with the net metered SSTORE schedule
		// rolled back, which the gas table handles by revision.
		return newConstantinopleInstructionSet()
	case rev >= Byzantium:
		return newByzantiumInstructionSet()
	case rev >= SpuriousDragon:
		return newSpuriousDragonInstructionSet()
	case rev >= TangerineWhistle:
		return newTangerineWhistleInstructionSet()
	case rev >= Homestead:
		return newHomesteadInstructionSet()
	}
	return newFrontierInstructionSet()
}
