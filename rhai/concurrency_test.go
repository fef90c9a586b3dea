package rhai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/rhai/rhai"
	"github.com/appellation/rhai/symbol"
)

func TestEvalConcurrentlyRequiresSyncOpt(t *testing.T) {
	e := newTestEngine()
	ast, err := e.Compile("1 + 1")
	require.NoError(t, err)

	_, err = e.EvalConcurrently(context.Background(), ast, []*rhai.Scope{rhai.NewScope()})
	require.Error(t, err)
	ee, ok := err.(*rhai.EngineError)
	require.True(t, ok)
	assert.Equal(t, rhai.ErrorRuntime, ee.Kind)
}

func TestEvalConcurrentlyRunsEachScopeIndependently(t *testing.T) {
	e := rhai.NewEngineWithOpts(rhai.Opts{Sync: true})

	ast, err := e.Compile("let y = x + 1; y")
	require.NoError(t, err)

	xSym := symbol.Intern("x")
	scopes := make([]*rhai.Scope, 4)
	for i := range scopes {
		scopes[i] = rhai.NewScope()
		scopes[i].Push(xSym, rhai.Normal, rhai.NewInt(int64(i*10)))
	}

	results, err := e.EvalConcurrently(context.Background(), ast, scopes)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, v := range results {
		assert.Equal(t, int64(i*10+1), v.Int())
	}
}
