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

// Package runtime provides a basic execution model for executing EVM code.
package runtime

import (
	"errors"
	"math"
	"strconv"
	"sync"

	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
	"github.com/lumina-chain/lumen/common/gopool"
	"github.com/lumina-chain/lumen/core/vm"
	"github.com/lumina-chain/lumen/crypto"
	"github.com/lumina-chain/lumen/params"
)

// Config is a basic type specifying certain configuration flags for running
// the EVM.
type Config struct {
	Revision    vm.Revision
	ChainID     *uint256.Int
	Origin      common.Address
	Coinbase    common.Address
	BlockNumber uint64
	Timestamp   uint64
	GasLimit    uint64
	GasPrice    *uint256.Int
	Value       *uint256.Int
	Difficulty  *uint256.Int
	BaseFee     *uint256.Int
	EVMConfig   vm.Config

	State     *StateHost
	GetHashFn func(n uint64) common.Hash
}

// sets defaults on the config
func setDefaults(cfg *Config) {
	if cfg.ChainID == nil {
		cfg.ChainID = uint256.NewInt(1)
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = new(uint256.Int)
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = math.MaxUint64
	}
	if cfg.GasPrice == nil {
		cfg.GasPrice = new(uint256.Int)
	}
	if cfg.Value == nil {
		cfg.Value = new(uint256.Int)
	}
	if cfg.BlockNumber == 0 {
		cfg.BlockNumber = 1
	}
	if cfg.BaseFee == nil {
		cfg.BaseFee = uint256.NewInt(params.InitialBaseFee)
	}
	if cfg.GetHashFn == nil {
		cfg.GetHashFn = func(n uint64) common.Hash {
			return crypto.Keccak256Hash([]byte(strconv.FormatUint(n, 10)))
		}
	}
	if cfg.State == nil {
		cfg.State = NewStateHost(cfg.Revision, vm.TxContext{
			Origin:      cfg.Origin,
			GasPrice:    cfg.GasPrice,
			Coinbase:    cfg.Coinbase,
			BlockNumber: cfg.BlockNumber,
			Timestamp:   cfg.Timestamp,
			GasLimit:    cfg.GasLimit,
			Difficulty:  cfg.Difficulty,
			ChainID:     cfg.ChainID,
			BaseFee:     cfg.BaseFee,
		}, cfg.EVMConfig)
	}
	cfg.State.SetHashFn(cfg.GetHashFn)
}

// Execute executes the code using the input as call data during the execution.
// It returns the EVM's return value, the new state and an error if it failed.
//
// Execute sets up an in-memory environment for the execution of the given
// code. State changes made by a successful run are kept in the returned host;
// nothing is rolled back afterwards.
func Execute(code, input []byte, cfg *Config) ([]byte, *StateHost, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	var (
		host    = cfg.State
		address = common.BytesToAddress([]byte("contract"))
	)
	host.SetCode(address, code)
	host.WarmUp(cfg.Origin, address)

	res := host.Call(&vm.Message{
		Kind:        vm.Call,
		Gas:         cfg.GasLimit,
		Recipient:   address,
		Sender:      cfg.Origin,
		Input:       input,
		Value:       cfg.Value,
		CodeAddress: address,
	})
	return res.Output, host, statusErr(res.Status)
}

// ExecuteBatch runs several code blobs concurrently on the shared goroutine
// pool. Every execution gets its own freshly defaulted copy of cfg with an
// independent state host, so the calls share nothing. Outputs and errors are
// returned in input order.
func ExecuteBatch(codes [][]byte, input []byte, cfg *Config) ([][]byte, []error) {
	outputs := make([][]byte, len(codes))
	errs := make([]error, len(codes))
	var wg sync.WaitGroup
	for i, code := range codes {
		i, code := i, code
		callCfg := new(Config)
		if cfg != nil {
			*callCfg = *cfg
		}
		callCfg.State = nil
		wg.Add(1)
		if err := gopool.Submit(func() {
			defer wg.Done()
			outputs[i], _, errs[i] = Execute(code, input, callCfg)
		}); err != nil {
			errs[i] = err
			wg.Done()
		}
	}
	wg.Wait()
	return outputs, errs
}

// Create executes the code using the EVM create method
func Create(input []byte, cfg *Config) ([]byte, common.Address, uint64, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	host := cfg.State
	host.WarmUp(cfg.Origin)

	res := host.Call(&vm.Message{
		Kind:   vm.Create,
		Gas:    cfg.GasLimit,
		Sender: cfg.Origin,
		Input:  input,
		Value:  cfg.Value,
	})
	code := host.GetCode(res.CreatedAddress)
	return code, res.CreatedAddress, finalGas(res, cfg.GasLimit, cfg.Revision), statusErr(res.Status)
}

// Call executes the code given by the contract's address. It will return the
// EVM's return value or an error if it failed.
//
// Call, unlike Execute, requires a config and also requires the State field to
// be set.
func Call(address common.Address, input []byte, cfg *Config) ([]byte, uint64, error) {
	setDefaults(cfg)

	host := cfg.State
	host.WarmUp(cfg.Origin, address)

	res := host.Call(&vm.Message{
		Kind:        vm.Call,
		Gas:         cfg.GasLimit,
		Recipient:   address,
		Sender:      cfg.Origin,
		Input:       input,
		Value:       cfg.Value,
		CodeAddress: address,
	})
	return res.Output, finalGas(res, cfg.GasLimit, cfg.Revision), statusErr(res.Status)
}

// finalGas folds the capped refund into the leftover gas of a finished
// top-level call.
func finalGas(res vm.Result, gasLimit uint64, rev vm.Revision) uint64 {
	gasLeft := res.GasLeft
	if res.Status == vm.StatusSuccess {
		quotient := params.RefundQuotient
		if rev >= vm.London {
			quotient = params.RefundQuotientEIP3529
		}
		refund := res.GasRefund
		if max := (gasLimit - gasLeft) / quotient; refund > max {
			refund = max
		}
		gasLeft += refund
	}
	return gasLeft
}

// statusErr converts a terminal status into the matching execution error, or
// nil for success.
func statusErr(status vm.StatusCode) error {
	switch status {
	case vm.StatusSuccess:
		return nil
	case vm.StatusRevert:
		return vm.ErrExecutionReverted
	case vm.StatusOutOfGas:
		return vm.ErrOutOfGas
	case vm.StatusBadJumpDestination:
		return vm.ErrInvalidJump
	case vm.StatusStaticModeViolation:
		return vm.ErrWriteProtection
	case vm.StatusCallDepthExceeded:
		return vm.ErrDepth
	case vm.StatusInsufficientBalance:
		return vm.ErrInsufficientBalance
	case vm.StatusInvalidMemoryAccess:
		return vm.ErrReturnDataOutOfBounds
	case vm.StatusInvalidInstruction:
		return vm.ErrInvalidInstruction
	}
	return errors.New(status.String())
}
