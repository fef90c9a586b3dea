package rhai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/rhai/rhai"
	"github.com/appellation/rhai/stdlib"
)

func newTestEngine() *rhai.Engine {
	e := rhai.NewEngine()
	stdlib.RegisterAll(e)
	return e
}

func TestEvalArithmetic(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval("1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int())
}

func TestEvalLetAndReassign(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval("let x = 10; x = x + 5; x")
	require.NoError(t, err)
	assert.Equal(t, int64(15), v.Int())
}

func TestEvalConstAssignmentFails(t *testing.T) {
	e := newTestEngine()
	_, err := e.Eval("const x = 1; x = 2;")
	assert.Error(t, err)
}

func TestEvalIfElse(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`if 1 < 2 { "yes" } else { "no" }`)
	require.NoError(t, err)
	assert.Equal(t, "yes", v.Str())
}

func TestEvalWhileLoop(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`
		let i = 0;
		let sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
		sum
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.Int())
}

func TestEvalBreakContinue(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`
		let sum = 0;
		let i = 0;
		loop {
			i = i + 1;
			if i > 10 { break; }
			if i % 2 == 0 { continue; }
			sum = sum + i;
		}
		sum
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(25), v.Int())
}

func TestEvalForIn(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`
		let sum = 0;
		for x in [1, 2, 3, 4] {
			sum = sum + x;
		}
		sum
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.Int())
}

func TestEvalFnDeclAndCall(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`
		fn add(a, b) { a + b }
		add(3, 4)
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int())
}

func TestEvalRecursiveFn(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`
		fn fact(n) {
			if n <= 1 { return 1; }
			n * fact(n - 1)
		}
		fact(5)
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(120), v.Int())
}

func TestEvalArrayIndexAndLen(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`let a = [1, 2, 3]; a[1] + len(a)`)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int())
}

func TestEvalMapPropertyAccess(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`let m = #{a: 1, b: 2}; m.a + m["b"]`)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int())
}

func TestEvalMapAssignProperty(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`let m = #{a: 1}; m.a = 9; m.a`)
	require.NoError(t, err)
	assert.Equal(t, int64(9), v.Int())
}

func TestEvalStringConcat(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`"foo" + "bar"`)
	require.NoError(t, err)
	assert.Equal(t, "foobar", v.Str())
}

func TestEvalPrivateFunctionCannotExport(t *testing.T) {
	e := newTestEngine()
	_, err := e.Eval(`
		private fn secret() { 1 }
		export secret;
	`)
	assert.Error(t, err)
}

func TestEvalScopePersistsAcrossCalls(t *testing.T) {
	e := newTestEngine()
	scope := rhai.NewScope()

	_, err := e.EvalSource(scope, "let x = 1;")
	require.NoError(t, err)

	v, err := e.EvalSource(scope, "x = x + 41; x")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int())
}

func TestEvalUnitReturn(t *testing.T) {
	e := newTestEngine()
	v, err := e.Eval(`let x = 1;`)
	require.NoError(t, err)
	assert.Equal(t, rhai.UnitType, v.Type())
}

func TestEvalDivisionByZero(t *testing.T) {
	e := newTestEngine()
	_, err := e.Eval("1 / 0")
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorArithmetic, ee.Kind)
}

func TestEvalIndexOutOfBounds(t *testing.T) {
	e := newTestEngine()
	_, err := e.Eval("let a = [1, 2]; a[5]")
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorArrayBounds, ee.Kind)
}

func TestCompileParseError(t *testing.T) {
	e := newTestEngine()
	_, err := e.Compile("let x = ;")
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorParsing, ee.Kind)
}

func TestCompileUnexpectedEOF(t *testing.T) {
	e := newTestEngine()
	_, err := e.Compile("let x = (1 + ")
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	require.Equal(t, rhai.ErrorParsing, ee.Kind)
	require.NotNil(t, ee.Parse)
	assert.Equal(t, rhai.UnexpectedEOF, ee.Parse.Kind)
}

func TestRegisterFnAndCallFromScript(t *testing.T) {
	e := rhai.NewEngine()
	rhai.RegisterFn2(e, "double_sum", func(a, b int64) int64 { return (a + b) * 2 })
	v, err := e.Eval("double_sum(3, 4)")
	require.NoError(t, err)
	assert.Equal(t, int64(14), v.Int())
}
