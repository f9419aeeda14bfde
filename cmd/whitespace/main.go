// Command whitespace runs a Whitespace source file to completion.
//
// Its driver shape — read the file, assemble it, build a VM, run it, report
// whatever stopped it — is grounded on the teacher's (KTStephano-GVM) root
// main.go. The CLI surface itself is restructured onto urfave/cli/v2,
// grounded on chriskillpack-bbcdisasm/cmd/bbcdisasm/main.go, the pack's only
// other user of that framework.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/RicardoLuis0/whitespace/internal/config"
	"github.com/RicardoLuis0/whitespace/internal/ioport"
	"github.com/RicardoLuis0/whitespace/internal/parser"
	"github.com/RicardoLuis0/whitespace/internal/vm"
)

func main() {
	app := &cli.App{
		Name:      "whitespace",
		Usage:     "run a Whitespace program",
		ArgsUsage: "<source file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to an optional TOML config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "print each instruction before executing it",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		cli.ShowAppHelp(c)
		return nil
	}
	path := c.Args().First()

	cfgPath := c.String("config")
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return cli.Exit(fmt.Errorf("%s: %w", path, err), 1)
	}

	in, out, closeIO := buildIOPorts()
	defer closeIO()

	machine := vm.New(prog, in, out, cfg.Heap.SizeHint)
	if c.Bool("debug") {
		machine.Debug = true
		machine.Trace = func(pc int, instr parser.Instruction) {
			fmt.Fprintf(os.Stderr, "%04d  %s\n", pc, instr)
		}
	}

	if err := machine.Run(); err != nil {
		return cli.Exit(fmt.Errorf("%s: %w", path, err), 1)
	}
	return nil
}

// buildIOPorts wires stdin/stdout through Interactive. NextChar detects a
// real TTY itself and switches into raw mode only then, and the read_int
// prompt is enabled only when stdin is a terminal, so a piped/redirected run
// reads plain bytes and writes no prompts. A malformed read_int line is still
// re-prompted rather than returned as an error.
func buildIOPorts() (ioport.InputPort, ioport.OutputPort, func()) {
	prompt := term.IsTerminal(int(os.Stdin.Fd()))
	port := ioport.NewInteractive(os.Stdin, os.Stdout, prompt)
	return port, port, func() {}
}
