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

// Package params holds the protocol gas schedule and execution limits.
package params

const (
	StackLimit      uint64 = 1024 // Maximum size of VM stack allowed.
	CallCreateDepth uint64 = 1024 // Maximum depth of call/create stack.

	MemoryGas    uint64 = 3   // Paid for every additional word when expanding memory.
	QuadCoeffDiv uint64 = 512 // Divisor for the quadratic particle of the memory cost equation.
	CopyGas      uint64 = 3   // Paid per word copied, rounded up.

	Keccak256Gas     uint64 = 30 // Once per KECCAK256 operation.
	Keccak256WordGas uint64 = 6  // Once per word of the KECCAK256 operation's data.

	JumpdestGas uint64 = 1 // Once per JUMPDEST operation.

	LogGas      uint64 = 375 // Per LOG* operation.
	LogTopicGas uint64 = 375 // Multiplied by the * of the LOG*, per LOG transaction.
	LogDataGas  uint64 = 8   // Per byte in a LOG* operation's data.

	ExpGas        uint64 = 10 // Once per EXP instruction.
	ExpByteFrontier uint64 = 10 // was set to 10 in Frontier
	ExpByteEIP158   uint64 = 50 // was raised to 50 during Eip158 (Spurious Dragon)

	SloadGasFrontier uint64 = 50
	SloadGasEIP150   uint64 = 200
	SloadGasEIP1884  uint64 = 800  // Cost of SLOAD after EIP 1884 (part of Istanbul)
	SloadGasEIP2200  uint64 = 800  // Cost of SLOAD after EIP 2200 (part of Istanbul)

	SstoreSetGas    uint64 = 20000 // Once per SSTORE operation.
	SstoreResetGas  uint64 = 5000  // Once per SSTORE operation if the zeroness doesn't change.
	SstoreClearGas  uint64 = 5000  // Once per SSTORE operation if the zeroness changes to zero.
	SstoreRefundGas uint64 = 15000 // Once per SSTORE operation if the zeroness changes to zero.

	NetSstoreNoopGas  uint64 = 200   // Once per SSTORE operation if the value doesn't change.
	NetSstoreInitGas  uint64 = 20000 // Once per SSTORE operation from clean zero.
	NetSstoreCleanGas uint64 = 5000  // Once per SSTORE operation from clean non-zero.
	NetSstoreDirtyGas uint64 = 200   // Once per SSTORE operation from dirty.

	NetSstoreClearRefund      uint64 = 15000 // Once per SSTORE operation for clearing an originally existing storage slot
	NetSstoreResetRefund      uint64 = 4800  // Once per SSTORE operation for resetting to the original non-zero value
	NetSstoreResetClearRefund uint64 = 19800 // Once per SSTORE operation for resetting to the original zero value

	SstoreSentryGasEIP2200            uint64 = 2300  // Minimum gas required to be present for an SSTORE call, not consumed
	SstoreSetGasEIP2200               uint64 = 20000 // Once per SSTORE operation from clean zero to non-zero
	SstoreResetGasEIP2200             uint64 = 5000  // Once per SSTORE operation from clean non-zero to something else
	SstoreClearsScheduleRefundEIP2200 uint64 = 15000 // Once per SSTORE operation for clearing an originally existing storage slot

	ColdAccountAccessCostEIP2929 = uint64(2600) // COLD_ACCOUNT_ACCESS_COST
	ColdSloadCostEIP2929         = uint64(2100) // COLD_SLOAD_COST
	WarmStorageReadCostEIP2929   = uint64(100)  // WARM_STORAGE_READ_COST

	// SstoreClearsScheduleRefundEIP3529 is the refund for clearing a storage
	// slot after EIP-3529: SSTORE_RESET_GAS + ACCESS_LIST_STORAGE_KEY_COST
	SstoreClearsScheduleRefundEIP3529 uint64 = SstoreResetGasEIP2200 - ColdSloadCostEIP2929 + 1900

	BalanceGasFrontier uint64 = 20  // The cost of a BALANCE operation
	BalanceGasEIP150   uint64 = 400 // The cost of a BALANCE operation after Tangerine
	BalanceGasEIP1884  uint64 = 700 // The cost of a BALANCE operation after EIP 1884 (part of Istanbul)

	ExtcodeSizeGasFrontier uint64 = 20  // Cost of EXTCODESIZE before EIP 150 (Tangerine)
	ExtcodeSizeGasEIP150   uint64 = 700 // Cost of EXTCODESIZE after EIP 150 (Tangerine)

	ExtcodeCopyBaseFrontier uint64 = 20
	ExtcodeCopyBaseEIP150   uint64 = 700

	ExtcodeHashGasConstantinople uint64 = 400 // Cost of EXTCODEHASH (introduced in Constantinople)
	ExtcodeHashGasEIP1884        uint64 = 700 // Cost of EXTCODEHASH after EIP 1884 (part in Istanbul)

	CallGasFrontier      uint64 = 40   // Once per CALL operation & message call transaction.
	CallGasEIP150        uint64 = 700  // Static portion of gas for CALL-derivates after EIP 150 (Tangerine)
	CallValueTransferGas uint64 = 9000 // Paid for CALL when the value transfer is non-zero.
	CallNewAccountGas    uint64 = 25000 // Paid for CALL when the destination address didn't exist prior.
	CallStipend          uint64 = 2300  // Free gas given at beginning of call.

	CreateGas uint64 = 32000 // Once per CREATE operation & contract-creation transaction.
	Create2Gas uint64 = 32000 // Once per CREATE2 operation

	CreateDataGas uint64 = 200   // Paid per byte of deposited contract code.
	MaxCodeSize   uint64 = 24576 // Maximum bytecode to permit for a contract (EIP-170)

	RefundQuotient        uint64 = 2 // Refund cap divisor before EIP-3529
	RefundQuotientEIP3529 uint64 = 5 // Refund cap divisor after EIP-3529

	SelfdestructGasEIP150   uint64 = 5000  // Cost of SELFDESTRUCT post EIP 150 (Tangerine)
	CreateBySelfdestructGas uint64 = 25000 // Paid when SELFDESTRUCT names a beneficiary that doesn't exist

	SelfdestructRefundGas uint64 = 24000 // Refunded following a selfdestruct operation.

	InitialBaseFee uint64 = 1000000000 // Initial base fee for EIP-1559 blocks.
)
