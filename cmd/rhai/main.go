// Command rhai runs scripts or an interactive REPL against the rhai
// engine (github.com/appellation/rhai/rhai).
//
// Grounded on the teacher's cmd/commands.go (Env/Loop structure, readline
// integration, ^C handling via termutil.InstallSignalHandler) and its
// gql/main.go entry point, with the urfave/cli/v2 flag/command parsing
// style pulled in from the gaarutyunov-guix example repo in place of the
// teacher's own hand-rolled flag.FlagSet usage.
package main

import (
	"fmt"
	"os"

	"github.com/grailbio/base/log"
	"github.com/urfave/cli/v2"

	"github.com/appellation/rhai/rhai"
	"github.com/appellation/rhai/stdlib"
)

func main() {
	app := &cli.App{
		Name:  "rhai",
		Usage: "embed and run the rhai scripting engine",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-float", Usage: "disable float literals"},
			&cli.BoolFlag{Name: "no-index", Usage: "disable array literals and indexing"},
			&cli.BoolFlag{Name: "no-object", Usage: "disable map literals and property access"},
			&cli.BoolFlag{Name: "no-module", Usage: "disable import/export/::"},
			&cli.BoolFlag{Name: "no-function", Usage: "disable fn declarations"},
			&cli.BoolFlag{Name: "unchecked", Usage: "skip arithmetic overflow checks"},
			&cli.BoolFlag{Name: "only-i32", Usage: "narrow integers to 32 bits"},
		},
		Action: func(c *cli.Context) error {
			engine := newEngine(c)
			if c.Args().Len() > 0 {
				return runFile(engine, c.Args().First())
			}
			newREPL(engine).Loop()
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error.Print(err)
		os.Exit(1)
	}
}

func newEngine(c *cli.Context) *rhai.Engine {
	engine := rhai.NewEngineWithOpts(rhai.Opts{
		NoFloat:    c.Bool("no-float"),
		NoIndex:    c.Bool("no-index"),
		NoObject:   c.Bool("no-object"),
		NoModule:   c.Bool("no-module"),
		NoFunction: c.Bool("no-function"),
		Unchecked:  c.Bool("unchecked"),
		OnlyI32:    c.Bool("only-i32"),
	})
	stdlib.RegisterAll(engine)
	return engine
}

func runFile(engine *rhai.Engine, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v, err := engine.Eval(string(src))
	if err != nil {
		return err
	}
	if v.Type() != rhai.UnitType {
		fmt.Println(v.String())
	}
	return nil
}
