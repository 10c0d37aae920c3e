// MIT License
//
// Copyright (c) 2026 Silo Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package host

import (
	"context"

	"github.com/flowchartsman/retry"
	"go.uber.org/multierr"

	gerrors "github.com/silo-run/silo/errors"
)

// ensureActive returns the live instance for the identity, activating one on
// demand. Concurrent callers for the same identity are coalesced so the
// create/OnActivate sequence runs at most once per activation; all of them
// observe the same published state.
func (r *Runtime) ensureActive(ctx context.Context, id ActorID) (*ActorState, error) {
	if r.stopped.Load() {
		return nil, gerrors.ErrRuntimeStopped
	}

	if err := id.Validate(); err != nil {
		return nil, gerrors.NewErrInvalidActorID(err)
	}

	key := id.String()
	if state, ok := r.actors.Get(key); ok {
		return state, nil
	}

	value, err, _ := r.activation.Do(key, func() (any, error) {
		return r.activate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return value.(*ActorState), nil
}

// activate runs the slow activation path for one identity. All expensive work
// happens outside the activation table lock; publication is a single atomic
// insert-if-absent. When a concurrently published instance wins the
// publication race, the freshly built loser is destroyed before the winner is
// returned, so at no point do two live instances exist for the identity.
func (r *Runtime) activate(ctx context.Context, id ActorID) (*ActorState, error) {
	key := id.String()
	if state, ok := r.actors.Get(key); ok {
		return state, nil
	}

	kind, err := r.kindFor(id)
	if err != nil {
		return nil, err
	}

	activator := r.activatorFor(kind)
	state, err := activator.Create(ctx, id)
	if err != nil {
		return nil, gerrors.NewErrActivationFailure(err)
	}

	retrier := retry.NewRetrier(r.activationMaxRetries, r.activationRetryDelay, r.activationRetryDelay)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return state.Instance().OnActivate(ctx, id)
	}); err != nil {
		// the instance never became visible; tear it down quietly
		r.destroyQuietly(ctx, activator, state)
		return nil, gerrors.NewErrActivationFailure(err)
	}

	// a stop sweep may have started after the entry check; publishing now
	// would leave an instance the sweep never sees
	if r.stopped.Load() {
		r.destroyQuietly(ctx, activator, state)
		return nil, gerrors.ErrRuntimeStopped
	}

	actual, raced := r.actors.GetOrSet(key, state)
	if raced {
		r.destroyQuietly(ctx, activator, state)
		return actual, nil
	}

	r.telemetry.recordActivation(ctx, id.Kind())
	r.logger.Infof("actor (%s) activated with handle=(%s)", key, state.Handle())
	return state, nil
}

// Deactivate removes the identity's instance from the activation table, runs
// its OnDeactivate hook and destroys it. The destroy step runs even when the
// hook fails; both failures are combined into an ErrDeactivationFailure.
// Deactivating an identity with no live instance is a no-op.
func (r *Runtime) Deactivate(ctx context.Context, id ActorID) error {
	state, ok := r.actors.Remove(id.String())
	if !ok {
		return nil
	}

	kind, _ := r.kinds.Get(id.Kind())
	activator := r.activatorFor(kind)

	// deactivation must finish even when the caller has gone away
	ctx = context.WithoutCancel(ctx)

	var errs error
	if err := state.Instance().OnDeactivate(ctx, id); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := activator.Destroy(ctx, state); err != nil {
		errs = multierr.Append(errs, err)
	}

	r.telemetry.recordDeactivation(ctx, id.Kind())
	if errs != nil {
		return gerrors.NewErrDeactivationFailure(errs)
	}

	r.logger.Infof("actor (%s) deactivated", id.String())
	return nil
}

// destroyQuietly tears down a state that lost the publication race or failed
// its activation hook. Destruction failures are logged, never propagated.
func (r *Runtime) destroyQuietly(ctx context.Context, activator Activator, state *ActorState) {
	if err := activator.Destroy(context.WithoutCancel(ctx), state); err != nil {
		r.logger.Warnf("failed to destroy actor (%s) handle=(%s): %v", state.ID().String(), state.Handle(), err)
	}
}
