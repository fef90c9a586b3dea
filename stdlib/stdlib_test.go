package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/rhai/rhai"
	"github.com/appellation/rhai/stdlib"
)

func newEngine() *rhai.Engine {
	e := rhai.NewEngine()
	stdlib.RegisterAll(e)
	return e
}

func TestArithmeticOperators(t *testing.T) {
	e := newEngine()
	cases := map[string]int64{
		"2 + 3":   5,
		"2 - 3":   -1,
		"2 * 3":   6,
		"7 / 2":   3,
		"7 % 2":   1,
		"2 ** 5":  32,
		"5 & 3":   1,
		"5 | 2":   7,
		"5 ^ 1":   4,
		"1 << 4":  16,
		"16 >> 2": 4,
	}
	for src, want := range cases {
		v, err := e.Eval(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, v.Int(), src)
	}
}

func TestArithmeticFloatPromotion(t *testing.T) {
	e := newEngine()
	v, err := e.Eval("1 + 2.5")
	require.NoError(t, err)
	assert.Equal(t, rhai.FloatType, v.Type())
	assert.InDelta(t, 3.5, v.Float(), 1e-9)
}

func TestArithmeticOverflowChecked(t *testing.T) {
	e := newEngine()
	_, err := e.Eval("9223372036854775807 + 1")
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorArithmetic, ee.Kind)
}

func TestArithmeticOverflowUnchecked(t *testing.T) {
	e := rhai.NewEngineWithOpts(rhai.Opts{Unchecked: true})
	stdlib.RegisterAll(e)
	v, err := e.Eval("9223372036854775807 + 1")
	require.NoError(t, err)
	assert.Equal(t, int64(-9223372036854775808), v.Int())
}

func TestComparisonOperators(t *testing.T) {
	e := newEngine()
	v, err := e.Eval("1 < 2 && 2 <= 2 && 3 > 2 && 3 >= 3 && 1 == 1 && 1 != 2")
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestUnaryOperators(t *testing.T) {
	e := newEngine()
	v, err := e.Eval("!false && -(-5) == 5")
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestStringNatives(t *testing.T) {
	e := newEngine()
	v, err := e.Eval(`to_upper("abc") + to_lower("XYZ")`)
	require.NoError(t, err)
	assert.Equal(t, "ABCxyz", v.Str())
}

func TestStringSubAndSplit(t *testing.T) {
	e := newEngine()
	v, err := e.Eval(`sub_string("hello world", 6)`)
	require.NoError(t, err)
	assert.Equal(t, "world", v.Str())

	v, err = e.Eval(`split("a,b,c", ",")`)
	require.NoError(t, err)
	elems := v.Array()
	require.Len(t, elems, 3)
	assert.Equal(t, "b", elems[1].Str())
}

func TestCoreLenDispatchesByType(t *testing.T) {
	e := newEngine()

	v, err := e.Eval(`len("hello")`)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int())

	v, err = e.Eval(`len([1, 2, 3])`)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int())

	v, err = e.Eval(`len(#{a: 1, b: 2})`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int())
}

func TestCoreContainsDispatchesByType(t *testing.T) {
	e := newEngine()

	v, err := e.Eval(`contains("hello world", "wor")`)
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = e.Eval(`contains([1, 2, 3], 2)`)
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = e.Eval(`contains(#{a: 1}, "a")`)
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestCoreRemoveDispatchesByType(t *testing.T) {
	e := newEngine()

	v, err := e.Eval(`remove([1, 2, 3], 1)`)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, intSlice(v))

	v, err = e.Eval(`let m = #{a: 1, b: 2}; remove(m, "a")`)
	require.NoError(t, err)
	assert.Equal(t, 1, v.MapLen())
}

func intSlice(v rhai.Value) []int64 {
	elems := v.Array()
	out := make([]int64, len(elems))
	for i, e := range elems {
		out[i] = e.Int()
	}
	return out
}

func TestArrayNatives(t *testing.T) {
	e := newEngine()
	v, err := e.Eval(`let a = [1, 2]; a = push(a, 3); a`)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, intSlice(v))

	v, err = e.Eval(`reverse([1, 2, 3])`)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, intSlice(v))

	v, err = e.Eval(`is_empty([])`)
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestArrayPopOnEmptyErrors(t *testing.T) {
	e := newEngine()
	_, err := e.Eval(`pop([])`)
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorArrayBounds, ee.Kind)
}

func TestMapNatives(t *testing.T) {
	e := newEngine()
	v, err := e.Eval(`keys(#{a: 1, b: 2})`)
	require.NoError(t, err)
	assert.Len(t, v.Array(), 2)
}

func TestTimeDurationSecondsConversion(t *testing.T) {
	e := newEngine()
	v, err := e.Eval(`duration_secs(seconds(90))`)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, v.Float(), 1e-9)
}
