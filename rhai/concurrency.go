package rhai

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/grailbio/base/errors"
	"golang.org/x/sync/semaphore"
)

// EvalConcurrently evaluates one AST against N independent Scopes in
// parallel, bounded to runtime.NumCPU()*2 simultaneous evaluations (spec.md
// §5: "Sync mode permits many goroutines to evaluate against a single
// read-only AST concurrently, each owning its own Scope"). The Engine must
// have been constructed with Opts.Sync set; otherwise EvalConcurrently
// returns ErrorRuntime immediately, since the AST's Funcs map and the
// Engine's native FuncTable are only safe to read concurrently once Sync
// has been acknowledged by the caller.
//
// Grounded on the teacher's gql/builtin_flatten.go limitedWorkerGroup: a
// semaphore.Weighted bounds in-flight goroutines, a sync.WaitGroup joins
// them, and github.com/grailbio/base/errors.Once captures the first
// failure without blocking the rest of the batch.
func (e *Engine) EvalConcurrently(ctx context.Context, ast *AST, scopes []*Scope) ([]Value, error) {
	if !e.Opts.Sync {
		return nil, errf(ErrorRuntime, NoPosition, "EvalConcurrently requires Opts.Sync")
	}
	results := make([]Value, len(scopes))
	wg := newLimitedWorkerGroup(ctx)
	for i, scope := range scopes {
		i, scope := i, scope
		wg.Go(func() error {
			v, err := e.EvalWithScope(scope, ast)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// limitedWorkerGroup runs callbacks under a bounded semaphore, collecting
// the first error to occur without stopping the other in-flight workers.
type limitedWorkerGroup struct {
	ctx context.Context
	sem *semaphore.Weighted
	wg  sync.WaitGroup
	err errors.Once
}

func newLimitedWorkerGroup(ctx context.Context) *limitedWorkerGroup {
	return &limitedWorkerGroup{
		ctx: ctx,
		sem: semaphore.NewWeighted(int64(runtime.NumCPU() * 2)),
	}
}

func (g *limitedWorkerGroup) Go(fn func() error) {
	g.wg.Add(1)
	if err := g.sem.Acquire(g.ctx, 1); err != nil {
		g.err.Set(err)
		g.wg.Done()
		return
	}
	go func() {
		defer g.sem.Release(1)
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.err.Set(fmt.Errorf("panic in concurrent evaluation: %v", r))
			}
		}()
		if err := fn(); err != nil {
			g.err.Set(err)
		}
	}()
}

func (g *limitedWorkerGroup) Wait() error {
	g.wg.Wait()
	return g.err.Err()
}
