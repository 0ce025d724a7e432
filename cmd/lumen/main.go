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

// lumen is a command line utility for executing EVM bytecode.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/lumina-chain/lumen/log"
)

var (
	app = &cli.App{
		Name:                 "lumen",
		Usage:                "the lumen EVM command line interface",
		Copyright:            "Copyright 2023 The lumen Authors",
		EnableBashCompletion: true,
	}

	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a file instead of stderr",
	}
	logRotateFlag = &cli.UintFlag{
		Name:  "log.rotatehours",
		Usage: "Rotate the log file every N hours, 0 disables rotation",
		Value: 0,
	}
)

func init() {
	app.Flags = []cli.Flag{
		verbosityFlag,
		logFileFlag,
		logRotateFlag,
	}
	app.Commands = []*cli.Command{
		runCommand,
		disasmCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		return setupLogger(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		if logWriter != nil {
			logWriter.Stop()
		}
		return nil
	}
}

var logWriter *log.AsyncFileWriter

func setupLogger(ctx *cli.Context) error {
	verbosity := ctx.Int(verbosityFlag.Name)
	if path := ctx.String(logFileFlag.Name); path != "" {
		logWriter = log.NewAsyncFileWriter(path, 4096, ctx.Uint(logRotateFlag.Name))
		if err := logWriter.Start(); err != nil {
			return err
		}
		handler := log.NewTerminalHandlerWithLevel(logWriter, log.FromLegacyLevel(verbosity), false)
		log.SetDefault(log.NewLogger(handler))
		return nil
	}
	var (
		output   io.Writer = os.Stderr
		usecolor           = isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	)
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	handler := log.NewTerminalHandlerWithLevel(output, log.FromLegacyLevel(verbosity), usecolor)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readCodeArg loads bytecode from the --code flag, the --codefile flag or, as
// a last resort, from the first positional argument. A codefile of "-" reads
// from stdin.
func readCodeArg(ctx *cli.Context) (string, error) {
	if ctx.IsSet(codeFlag.Name) {
		return ctx.String(codeFlag.Name), nil
	}
	if ctx.IsSet(codeFileFlag.Name) {
		name := ctx.String(codeFileFlag.Name)
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return "", fmt.Errorf("could not load code: %v", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if ctx.Args().Len() > 0 {
		return ctx.Args().First(), nil
	}
	return "", fmt.Errorf("no bytecode given, use --code, --codefile or a positional argument")
}
