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

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/lumina-chain/lumen/common"
	"github.com/lumina-chain/lumen/core/vm"
	"github.com/lumina-chain/lumen/core/vm/runtime"
	"github.com/lumina-chain/lumen/log"
)

var (
	codeFlag = &cli.StringFlag{
		Name:  "code",
		Usage: "EVM bytecode in hex",
	}
	codeFileFlag = &cli.StringFlag{
		Name:  "codefile",
		Usage: "File containing EVM bytecode in hex. If '-' is specified, code is read from stdin",
	}
	gasFlag = &cli.Uint64Flag{
		Name:  "gas",
		Usage: "Gas limit for the call",
		Value: 10000000000,
	}
	priceFlag = &cli.StringFlag{
		Name:  "price",
		Usage: "Price set for the call, in wei",
		Value: "0",
	}
	valueFlag = &cli.StringFlag{
		Name:  "value",
		Usage: "Value set for the call, in wei",
		Value: "0",
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Input for the call, in hex",
	}
	revisionFlag = &cli.StringFlag{
		Name:  "revision",
		Usage: "Fork revision to execute at (Frontier ... London)",
		Value: "London",
	}
	senderFlag = &cli.StringFlag{
		Name:  "sender",
		Usage: "Sender address of the call",
	}
	receiverFlag = &cli.StringFlag{
		Name:  "receiver",
		Usage: "Receiver address of the call",
	}
	createFlag = &cli.BoolFlag{
		Name:  "create",
		Usage: "Treat the bytecode as initcode and run a contract creation",
	}
	traceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "Print a full opcode trace to stderr",
	}
	traceMemoryFlag = &cli.BoolFlag{
		Name:  "trace.memory",
		Usage: "Include full memory snapshots in the trace",
	}
	statDumpFlag = &cli.BoolFlag{
		Name:  "statdump",
		Usage: "Print gas and timing statistics after the run",
	}
)

var runCommand = &cli.Command{
	Action:    runCode,
	Name:      "run",
	Usage:     "Run arbitrary EVM bytecode",
	ArgsUsage: "<code>",
	Flags: []cli.Flag{
		codeFlag,
		codeFileFlag,
		gasFlag,
		priceFlag,
		valueFlag,
		inputFlag,
		revisionFlag,
		senderFlag,
		receiverFlag,
		createFlag,
		traceFlag,
		traceMemoryFlag,
		statDumpFlag,
	},
}

func parseHexData(name, value string) ([]byte, error) {
	value = strings.TrimSpace(strings.TrimPrefix(value, "0x"))
	data, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", name, err)
	}
	return data, nil
}

func parseWei(name, value string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

func runCode(ctx *cli.Context) error {
	codeHex, err := readCodeArg(ctx)
	if err != nil {
		return err
	}
	code, err := parseHexData("code", codeHex)
	if err != nil {
		return err
	}
	var input []byte
	if ctx.IsSet(inputFlag.Name) {
		if input, err = parseHexData("input", ctx.String(inputFlag.Name)); err != nil {
			return err
		}
	}
	rev, ok := vm.RevisionByName(ctx.String(revisionFlag.Name))
	if !ok {
		return fmt.Errorf("unknown revision %q", ctx.String(revisionFlag.Name))
	}
	price, err := parseWei("price", ctx.String(priceFlag.Name))
	if err != nil {
		return err
	}
	value, err := parseWei("value", ctx.String(valueFlag.Name))
	if err != nil {
		return err
	}

	cfg := &runtime.Config{
		Revision: rev,
		GasLimit: ctx.Uint64(gasFlag.Name),
		GasPrice: price,
		Value:    value,
	}
	if ctx.IsSet(senderFlag.Name) {
		cfg.Origin = common.HexToAddress(ctx.String(senderFlag.Name))
	}

	var tracer *vm.StructLogger
	if ctx.Bool(traceFlag.Name) {
		tracer = vm.NewStructLogger(&vm.LogConfig{
			EnableMemory:     ctx.Bool(traceMemoryFlag.Name),
			EnableReturnData: true,
		})
		cfg.EVMConfig.Tracer = tracer
	}

	cfg.State = runtime.NewStateHost(rev, txContext(cfg), cfg.EVMConfig)
	if !value.IsZero() {
		cfg.State.SetBalance(cfg.Origin, value)
	}

	var (
		output  []byte
		gasLeft uint64
		start   = time.Now()
		runErr  error
	)
	if ctx.Bool(createFlag.Name) {
		var addr common.Address
		output, addr, gasLeft, runErr = runtime.Create(code, cfg)
		if runErr == nil {
			fmt.Printf("contract address: %v\n", addr)
		}
	} else {
		receiver := common.BytesToAddress([]byte("contract"))
		if ctx.IsSet(receiverFlag.Name) {
			receiver = common.HexToAddress(ctx.String(receiverFlag.Name))
		}
		cfg.State.SetCode(receiver, code)
		output, gasLeft, runErr = runtime.Call(receiver, input, cfg)
	}
	elapsed := time.Since(start)
	log.DebugIf(runErr != nil, "execution failed", "err", runErr)
	log.InfoIf(ctx.Bool(statDumpFlag.Name), "execution finished", "elapsed", elapsed, "gasLeft", gasLeft)

	if tracer != nil {
		vm.WriteTrace(os.Stderr, tracer.StructLogs())
	}
	fmt.Printf("%#x\n", output)
	if runErr != nil {
		fmt.Printf(" error: %v\n", runErr)
	}
	if ctx.Bool(statDumpFlag.Name) {
		fmt.Fprintf(os.Stderr, "execution time: %v\ngas left: %d\n", elapsed, gasLeft)
	}
	return nil
}

func txContext(cfg *runtime.Config) vm.TxContext {
	return vm.TxContext{
		Origin:      cfg.Origin,
		GasPrice:    cfg.GasPrice,
		Coinbase:    cfg.Coinbase,
		BlockNumber: cfg.BlockNumber,
		Timestamp:   cfg.Timestamp,
		GasLimit:    cfg.GasLimit,
		Difficulty:  cfg.Difficulty,
		ChainID:     cfg.ChainID,
		BaseFee:     cfg.BaseFee,
	}
}
