package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/yasushi-saito/readline"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/appellation/rhai/rhai"
	"github.com/appellation/rhai/termutil"
)

// repl runs an interactive read-eval-print loop against a single Engine
// and a single persistent Scope, so bindings made on one line (`let x =
// 1;`) are visible on the next.
//
// Grounded on the teacher's cmd.Env/Env.Loop/Env.runEval (cmd/commands.go):
// same readline-prompt-then-continuation-prompt shape for an incomplete
// expression, same ^C handling via termutil.InstallSignalHandler/
// WithCancel, same interactive-vs-batch Printer split (Env.NewOutput),
// trimmed of the table/redirect/builtin-command machinery that has no
// analogue in an expression-language REPL.
type repl struct {
	engine      *rhai.Engine
	scope       *rhai.Scope
	interactive bool
	stdout      io.Writer
}

// newREPL constructs a repl whose result output pages through a
// termutil.Printer: a paginated terminalPrinter when both stdin and stdout
// are interactive terminals, a plain batchPrinter otherwise (piped or
// redirected input or output, as under `rhai | cat`).
func newREPL(engine *rhai.Engine) *repl {
	interactive := terminal.IsTerminal(syscall.Stdin) && terminal.IsTerminal(syscall.Stdout)
	return &repl{engine: engine, scope: rhai.NewScope(), interactive: interactive, stdout: os.Stdout}
}

// newOutput creates the Printer results for one evaluated line are written
// to. Called fresh per line, mirroring the teacher's Env.NewOutput/
// parseCommandline shape, so a future `>file`/`|cmd` redirect syntax would
// slot in here without touching runEval.
func (r *repl) newOutput() termutil.Printer {
	if r.interactive {
		return termutil.NewTerminalPrinter(r.stdout)
	}
	return termutil.NewBatchPrinter(r.stdout)
}

// Loop runs the REPL until the user quits or closes stdin. It never
// returns to main except via os.Exit.
func (r *repl) Loop() {
	termutil.InstallSignalHandler()
	for {
		termutil.ClearSignal()
		_, done := termutil.WithCancel(vcontext.Background())
		func() {
			defer done()
			line, err := readline.Readline("rhai> ")
			if err != nil {
				fmt.Printf("\nreadline: %v\n", err)
				os.Exit(0)
			}
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				return
			}
			if trimmed == "quit" || trimmed == "exit" {
				os.Exit(0)
			}
			r.runEval(line)
		}()
	}
}

// runEval evaluates line as a rhai script. If the parse fails because input
// ended mid-construct, it prompts for continuation lines until the parse
// either succeeds or fails for a different reason.
func (r *repl) runEval(line string) {
	src := line + "\n"
	defer func() {
		trimmed := strings.TrimSpace(strings.Replace(src, "\n", " ", -1))
		if err := readline.AddHistory(trimmed); err != nil {
			log.Error.Printf("readline.AddHistory: %v", err)
		}
	}()
	for {
		v, err := r.engine.EvalSource(r.scope, src)
		if err == nil {
			if v.Type() != rhai.UnitType {
				out := r.newOutput()
				out.WriteString(v.String())
				out.WriteString("\n")
				out.Close()
			}
			return
		}
		if !incompleteInput(err) {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		more, rerr := readline.Readline("  ... ")
		if rerr != nil {
			fmt.Printf("\nreadline: %v\n", rerr)
			return
		}
		src += more + "\n"
	}
}

// incompleteInput reports whether err reflects a parse that simply ran out
// of input (UnexpectedEOF), meaning another line of source might complete
// it, as opposed to a genuine syntax error earlier in what's already been
// typed.
func incompleteInput(err error) bool {
	ee, ok := err.(*rhai.EngineError)
	if !ok || ee.Kind != rhai.ErrorParsing || ee.Parse == nil {
		return false
	}
	return ee.Parse.Kind == rhai.UnexpectedEOF
}
