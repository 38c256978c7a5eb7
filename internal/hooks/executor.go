package hooks

import (
	"fmt"
	"sync"

	"github.com/hookhost/hookhost/internal/hookdef"
)

// Continuation is the shape of a CALL-mode terminal callback.
type Continuation func(result any, err error)

// Call runs hookName's matching chain under CALL semantics: SYNC and
// ASYNC functions feed lastResult forward and ASYNC functions suspend
// the chain until they resume; EVENT functions run but never touch
// lastResult. callback fires exactly once, on a goroutine of its own,
// never synchronously from within Call - this bounds the call stack on
// an all-SYNC chain and keeps a caller's own continuation from ever
// running reentrantly inside Call.
func (r *Registry) Call(hookName string, requested CategoryMask, strict bool, args []any, callback Continuation) {
	funcs := r.snapshotMatching(hookName, requested, strict)
	ctx := &hookdef.Context{HookName: hookName, RequestedMask: int32(requested), Strict: strict}

	var once sync.Once
	finish := func(result any, err error) {
		once.Do(func() {
			go callback(result, err)
		})
	}
	runChain(funcs, 0, ctx, args, finish)
}

// CallSync runs hookName's matching chain synchronously: ASYNC functions
// are skipped entirely (there is no turn on which they could suspend and
// resume) and the final lastResult is returned directly.
func (r *Registry) CallSync(hookName string, requested CategoryMask, strict bool, args []any) (any, error) {
	funcs := r.snapshotMatching(hookName, requested, strict)
	ctx := &hookdef.Context{HookName: hookName, RequestedMask: int32(requested), Strict: strict}

	for _, fn := range funcs {
		if fn.Policy == PolicyAsync {
			continue
		}
		result, err := invokeSync(fn, ctx, args)
		if err != nil {
			return nil, err
		}
		if fn.Policy == PolicySync {
			ctx.LastResult = result
		}
	}
	return ctx.LastResult, nil
}

// Dispatch runs every matching function once, independently: SYNC and
// EVENT functions run and their result is discarded, ASYNC functions are
// handed a resume that is a no-op, so none of them ever suspend this
// call. Dispatch never returns a value and never reports an error for an
// individual function failing - it is fire-and-continue, not a pipeline.
func (r *Registry) Dispatch(hookName string, requested CategoryMask, strict bool, args []any) {
	funcs := r.snapshotMatching(hookName, requested, strict)
	ctx := &hookdef.Context{HookName: hookName, RequestedMask: int32(requested), Strict: strict}

	noop := hookdef.Resume(func(any, error) {})
	for _, fn := range funcs {
		switch fn.Policy {
		case PolicyAsync:
			fn.AsyncBody(ctx, args, noop)
		default:
			_, _ = invokeSync(fn, ctx, args)
		}
	}
}

// runChain drives funcs[i:] iteratively for as long as functions run
// synchronously (SYNC/EVENT), and returns immediately on hitting an
// ASYNC function - the resume it hands that function re-enters runChain
// at i+1 when (and if) the hook calls it. This keeps stack depth bounded
// regardless of chain length or how many ASYNC hops it contains.
func runChain(funcs []*Function, i int, ctx *hookdef.Context, args []any, finish Continuation) {
	for i < len(funcs) {
		fn := funcs[i]
		if fn.Policy == PolicyAsync {
			next := i + 1
			var resumeOnce sync.Once
			fn.AsyncBody(ctx, args, func(result any, err error) {
				resumeOnce.Do(func() {
					if err != nil {
						finish(nil, err)
						return
					}
					ctx.LastResult = result
					runChain(funcs, next, ctx, args, finish)
				})
			})
			return
		}

		result, err := invokeSync(fn, ctx, args)
		if err != nil {
			finish(nil, err)
			return
		}
		if fn.Policy == PolicySync {
			ctx.LastResult = result
		}
		i++
	}
	finish(ctx.LastResult, nil)
}

// invokeSync calls a SYNC or EVENT function's Body, recovering a panic
// into an error so one misbehaving plugin can't take the process down.
func invokeSync(fn *Function, ctx *hookdef.Context, args []any) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("hook %s (%s): panic: %v", fn.HookName, fn.Source, p)
		}
	}()
	return fn.Body(ctx, args)
}
