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
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lumina-chain/lumen/core/vm"
)

var disasmCommand = &cli.Command{
	Action:    disasmCode,
	Name:      "disasm",
	Usage:     "Disassemble EVM bytecode",
	ArgsUsage: "<code>",
	Flags: []cli.Flag{
		codeFlag,
		codeFileFlag,
	},
}

func disasmCode(ctx *cli.Context) error {
	codeHex, err := readCodeArg(ctx)
	if err != nil {
		return err
	}
	code, err := parseHexData("code", codeHex)
	if err != nil {
		return err
	}
	for pc := 0; pc < len(code); pc++ {
		op := vm.OpCode(code[pc])
		if op.IsPush() {
			size := int(op) - int(vm.PUSH1) + 1
			end := pc + 1 + size
			if end > len(code) {
				end = len(code)
			}
			fmt.Printf("%05x: %v 0x%x\n", pc, op, code[pc+1:end])
			pc += size
			continue
		}
		fmt.Printf("%05x: %v\n", pc, op)
	}
	return nil
}
