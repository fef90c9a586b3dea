package rhai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/rhai/rhai"
)

func TestMergeRightFunctionWins(t *testing.T) {
	e := newTestEngine()

	left, err := e.Compile("fn greet() { \"hello\" }")
	require.NoError(t, err)
	right, err := e.Compile("fn greet() { \"goodbye\" }")
	require.NoError(t, err)

	merged := left.Merge(right)
	v, err := e.EvalAST(merged)
	require.NoError(t, err)
	assert.Equal(t, rhai.UnitType, v.Type())

	ast2, err := e.Compile("greet()")
	require.NoError(t, err)
	merged2 := merged.Merge(ast2)
	v, err = e.EvalAST(merged2)
	require.NoError(t, err)
	assert.Equal(t, "goodbye", v.Str())
}

func TestMergeRunsBothStatementSequences(t *testing.T) {
	e := newTestEngine()
	left, err := e.Compile("let x = 1;")
	require.NoError(t, err)
	right, err := e.Compile("let y = 2; x + y")
	require.NoError(t, err)

	merged := left.Merge(right)
	scope := rhai.NewScope()
	v, err := e.EvalWithScope(scope, merged)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int())
}

func TestClearFunctionsDropsLibrary(t *testing.T) {
	e := newTestEngine()
	ast, err := e.Compile("fn f() { 1 }")
	require.NoError(t, err)
	require.NotEmpty(t, ast.Funcs)

	ast.ClearFunctions()
	assert.Empty(t, ast.Funcs)
}
