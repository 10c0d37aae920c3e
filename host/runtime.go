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
	"errors"
	"os"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	gerrors "github.com/silo-run/silo/errors"
	"github.com/silo-run/silo/internal/syncmap"
	"github.com/silo-run/silo/log"
)

// registeredKind bundles everything the runtime knows about one actor kind:
// how to create instances, how to resolve methods and whether the kind
// accepts reminders.
type registeredKind struct {
	kind       string
	table      *MethodTable
	remindable bool
	activator  Activator
}

// Runtime is the in-process virtual actor host.
//
// It owns the activation table that enforces the single-live-instance
// guarantee, drives actor lifecycles through the registered Activator and
// dispatches remoted and plain invocations as well as reminder and timer
// deliveries to the live instances. Placement, persistence and the network
// transport live outside; callers hand the runtime pre-routed requests.
//
// A Runtime is safe for concurrent use.
type Runtime struct {
	logger log.Logger

	// actors is the activation table, keyed by ActorID.String(). An entry
	// present in the table is the single live instance for that identity.
	actors *syncmap.SyncMap[string, *ActorState]
	kinds  *syncmap.SyncMap[string, *registeredKind]

	// activation coalesces concurrent first-call activations per identity so
	// the expensive create/OnActivate sequence runs once.
	activation singleflight.Group

	// activator, when set, overrides the per-kind factory activator.
	activator            Activator
	headerCodec          HeaderCodec
	activationRetryDelay time.Duration
	activationMaxRetries int

	faults    *faultTranslator
	telemetry *telemetry
	stopped   *atomic.Bool
}

// NewRuntime creates a Runtime with the given options applied on top of the
// defaults.
func NewRuntime(opts ...Option) *Runtime {
	runtime := &Runtime{
		logger:               log.New(log.ErrorLevel, os.Stderr),
		actors:               syncmap.New[string, *ActorState](),
		kinds:                syncmap.New[string, *registeredKind](),
		headerCodec:          JSONHeaderCodec{},
		activationRetryDelay: DefaultActivationRetryDelay,
		activationMaxRetries: DefaultActivationMaxRetries,
		stopped:              atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(runtime)
	}

	runtime.faults = newFaultTranslator(runtime.headerCodec)
	runtime.telemetry = newTelemetry(runtime.logger)
	return runtime
}

// Register makes the prototype's kind dispatchable. The kind name is derived
// from the prototype's concrete type, the factory creates instances for that
// kind and the table resolves its remoted and plain methods. Registering an
// already-registered kind replaces the previous registration; live instances
// are unaffected.
func (r *Runtime) Register(prototype Actor, factory Factory, table *MethodTable) error {
	if prototype == nil || factory == nil || table == nil {
		return gerrors.NewErrInvalidInvocation(errors.New("prototype, factory and method table are required"))
	}

	kind := KindOf(prototype)
	_, remindable := prototype.(Remindable)
	r.kinds.Set(kind, &registeredKind{
		kind:       kind,
		table:      table,
		remindable: remindable,
		activator:  NewFactoryActivator(factory),
	})

	r.logger.Infof("actor kind=(%s) registered (remindable=%v)", kind, remindable)
	return nil
}

// Deregister removes the prototype's kind. In-flight invocations and live
// instances are unaffected; new activations for the kind fail with
// ErrKindNotRegistered.
func (r *Runtime) Deregister(prototype Actor) {
	kind := KindOf(prototype)
	r.kinds.Delete(kind)
	r.logger.Infof("actor kind=(%s) deregistered", kind)
}

// Activate eagerly brings the identity's instance into memory. It is the same
// code path a first invocation takes, exposed for warm-up scenarios.
func (r *Runtime) Activate(ctx context.Context, id ActorID) error {
	_, err := r.ensureActive(ctx, id)
	return err
}

// TryGetActive returns the live state for the identity without activating
// anything.
func (r *Runtime) TryGetActive(id ActorID) (*ActorState, bool) {
	return r.actors.Get(id.String())
}

// ActiveCount returns the number of live instances in the activation table.
func (r *Runtime) ActiveCount() int {
	return r.actors.Len()
}

// ActiveKinds returns the distinct kinds that currently have at least one
// live instance.
func (r *Runtime) ActiveKinds() []string {
	kinds := goset.NewSet[string]()
	r.actors.Range(func(_ string, state *ActorState) {
		kinds.Add(state.ID().Kind())
	})
	return kinds.ToSlice()
}

// Stop rejects further dispatches and deactivates every live instance. Errors
// from individual deactivations are combined; the sweep always completes.
func (r *Runtime) Stop(ctx context.Context) error {
	if !r.stopped.CompareAndSwap(false, true) {
		return nil
	}

	var errs error
	for _, key := range r.actors.Keys() {
		id, err := ParseActorID(key)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, r.Deactivate(ctx, id))
	}

	r.logger.Info("actor runtime stopped")
	return errs
}

// kindFor resolves the registration for the identity's kind.
func (r *Runtime) kindFor(id ActorID) (*registeredKind, error) {
	kind, ok := r.kinds.Get(id.Kind())
	if !ok {
		return nil, gerrors.NewErrKindNotRegistered(id.Kind())
	}
	return kind, nil
}

// activatorFor picks the activator serving the given registration, honoring a
// runtime-wide override. The fallback only ever destroys, never creates.
func (r *Runtime) activatorFor(kind *registeredKind) Activator {
	if r.activator != nil {
		return r.activator
	}
	if kind != nil {
		return kind.activator
	}
	return NewFactoryActivator(nil)
}
