package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/appellation/rhai/symbol"
)

func TestInternDedups(t *testing.T) {
	a := symbol.Intern("foo")
	b := symbol.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", a.Str())
}

func TestInternDistinct(t *testing.T) {
	a := symbol.Intern("alpha")
	b := symbol.Intern("beta")
	assert.NotEqual(t, a, b)
}

func TestInvalid(t *testing.T) {
	assert.False(t, symbol.Invalid.Valid())
	assert.True(t, symbol.Intern("x").Valid())
}

func TestHashStable(t *testing.T) {
	a := symbol.Intern("stable")
	assert.Equal(t, a.Hash(), symbol.Intern("stable").Hash())
}
