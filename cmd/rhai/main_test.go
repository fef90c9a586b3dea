package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/appellation/rhai/rhai"
)

func testContext(t *testing.T, boolFlags map[string]bool) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for name, val := range boolFlags {
		set.Bool(name, val, "")
	}
	app := &cli.App{Name: "rhai"}
	return cli.NewContext(app, set, nil)
}

func TestNewEngineAppliesOpts(t *testing.T) {
	c := testContext(t, map[string]bool{"unchecked": true, "only-i32": true})
	engine := newEngine(c)
	assert.True(t, engine.Opts.Unchecked)
	assert.True(t, engine.Opts.OnlyI32)

	v, err := engine.Eval("1 + 2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int())
}

func TestRunFileEvaluatesScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.rhai")
	require.NoError(t, os.WriteFile(path, []byte("let x = 21; x * 2"), 0o644))

	c := testContext(t, nil)
	engine := newEngine(c)
	err := runFile(engine, path)
	require.NoError(t, err)
}

func TestRunFileMissingFile(t *testing.T) {
	c := testContext(t, nil)
	engine := newEngine(c)
	err := runFile(engine, filepath.Join(t.TempDir(), "missing.rhai"))
	assert.Error(t, err)
}

func TestReplRunEvalPrintsResultThroughPrinter(t *testing.T) {
	var buf strings.Builder
	r := &repl{engine: rhai.NewEngine(), scope: rhai.NewScope(), interactive: false, stdout: &buf}

	r.runEval("1 + 2")
	assert.Equal(t, "3\n", buf.String())
}

func TestReplRunEvalSuppressesUnitResult(t *testing.T) {
	var buf strings.Builder
	r := &repl{engine: rhai.NewEngine(), scope: rhai.NewScope(), interactive: false, stdout: &buf}

	r.runEval("let x = 1;")
	assert.Empty(t, buf.String())
}

func TestReplRunEvalPersistsBindingsAcrossLines(t *testing.T) {
	var buf strings.Builder
	r := &repl{engine: rhai.NewEngine(), scope: rhai.NewScope(), interactive: false, stdout: &buf}

	r.runEval("let x = 10;")
	r.runEval("x * 2")
	assert.Equal(t, "20\n", buf.String())
}

func TestIncompleteInputDetectsUnexpectedEOF(t *testing.T) {
	e := rhai.NewEngine()
	_, err := e.Compile("let x = (1 + ")
	require.Error(t, err)
	assert.True(t, incompleteInput(err))

	_, err = e.Compile("let x = ;")
	require.Error(t, err)
	assert.False(t, incompleteInput(err))
}
