package rhai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/rhai/rhai"
)

func TestArraySetCopyOnWrite(t *testing.T) {
	orig := rhai.NewArray([]rhai.Value{rhai.NewInt(1), rhai.NewInt(2)})
	shared := orig.Clone()

	updated, err := shared.ArraySet(0, rhai.NewInt(99))
	require.NoError(t, err)

	assert.Equal(t, int64(1), orig.Array()[0].Int(), "original array must be unaffected by a write through a clone")
	assert.Equal(t, int64(99), updated.Array()[0].Int())
}

func TestArraySetOutOfBounds(t *testing.T) {
	arr := rhai.NewArray([]rhai.Value{rhai.NewInt(1)})
	_, err := arr.ArraySet(5, rhai.NewInt(0))
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorArrayBounds, ee.Kind)
}

func TestMapSetCopyOnWrite(t *testing.T) {
	orig := rhai.NewMap(map[string]rhai.Value{"a": rhai.NewInt(1)}, []string{"a"})
	shared := orig.Clone()

	updated, err := shared.MapSet("a", rhai.NewInt(42))
	require.NoError(t, err)

	origVal, _ := orig.MapGet("a")
	assert.Equal(t, int64(1), origVal.Int())
	updatedVal, _ := updated.MapGet("a")
	assert.Equal(t, int64(42), updatedVal.Int())
}

func TestMapSetUnknownKeyErrors(t *testing.T) {
	m := rhai.NewMap(map[string]rhai.Value{"a": rhai.NewInt(1)}, []string{"a"})
	_, err := m.MapSet("missing", rhai.NewInt(1))
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorIndexNotFound, ee.Kind)
}

func TestMapKeysPreserveInsertionOrder(t *testing.T) {
	m := rhai.NewMap(map[string]rhai.Value{"b": rhai.NewInt(2), "a": rhai.NewInt(1)}, []string{"b", "a"})
	assert.Equal(t, []string{"b", "a"}, m.MapKeys())
}

func TestHashEqualForEqualValues(t *testing.T) {
	assert.Equal(t, rhai.NewInt(7).Hash(), rhai.NewInt(7).Hash())
	assert.Equal(t, rhai.NewString("x").Hash(), rhai.NewString("x").Hash())
	assert.NotEqual(t, rhai.NewInt(7).Hash(), rhai.NewInt(8).Hash())
}

func TestValueStringFormatting(t *testing.T) {
	assert.Equal(t, "42", rhai.NewInt(42).String())
	assert.Equal(t, "true", rhai.NewBool(true).String())
	assert.Equal(t, "hello", rhai.NewString("hello").String())
}
