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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	gerrors "github.com/silo-run/silo/errors"
)

// operation is one invocable unit of work against a live instance. The
// concrete operation types carry their own decoded inputs and collect their
// own outputs; the invoke pipeline only sees this contract.
type operation interface {
	// methodContext describes the invocation for the hook pipeline.
	methodContext() MethodContext

	// execute performs the call against the live instance.
	execute(ctx context.Context, state *ActorState) error
}

// invoke activates the target when needed and runs the operation through the
// hook pipeline: OnPreInvoke, the operation itself, OnPostInvoke. On any
// failure OnInvokeFailed observes the cause and the original failure is
// returned unchanged. The post and failed hooks are shielded from caller
// cancellation so state persistence can finish.
func (r *Runtime) invoke(ctx context.Context, id ActorID, op operation) error {
	state, err := r.ensureActive(ctx, id)
	if err != nil {
		return err
	}

	mctx := op.methodContext()
	start := time.Now()
	err = r.pipeline(ctx, state, mctx, op)
	r.telemetry.recordInvocation(ctx, id.Kind(), mctx.CallType(), time.Since(start), err)
	return err
}

func (r *Runtime) pipeline(ctx context.Context, state *ActorState, mctx MethodContext, op operation) error {
	instance := state.Instance()

	if err := protect(func() error { return instance.OnPreInvoke(ctx, mctx) }); err != nil {
		r.invokeFailed(ctx, instance, mctx, err)
		return err
	}

	if err := protect(func() error { return op.execute(ctx, state) }); err != nil {
		r.invokeFailed(ctx, instance, mctx, err)
		return err
	}

	if err := protect(func() error {
		return instance.OnPostInvoke(context.WithoutCancel(ctx), mctx)
	}); err != nil {
		r.invokeFailed(ctx, instance, mctx, err)
		return err
	}

	return nil
}

// invokeFailed lets the instance observe the failure. Its own error is
// logged, never propagated; the original cause is what the caller sees.
func (r *Runtime) invokeFailed(ctx context.Context, instance Actor, mctx MethodContext, cause error) {
	err := protect(func() error {
		return instance.OnInvokeFailed(context.WithoutCancel(ctx), mctx, cause)
	})
	if err != nil {
		r.logger.Warnf("OnInvokeFailed hook failed for method=(%s): %v", mctx.Method(), err)
	}
}

// protect converts a panic in user-supplied actor code into a PanicError so
// one misbehaving actor cannot take the host down.
func protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if recErr, ok := rec.(error); ok {
				err = gerrors.NewPanicError(recErr)
				return
			}
			err = gerrors.NewPanicError(fmt.Errorf("%v", rec))
		}
	}()
	return fn()
}

// remotedOperation executes a method resolved by (interface-id, method-id).
// Application faults are translated into a fault-shaped DispatchResult rather
// than failing the operation, so the pipeline treats the call as delivered.
type remotedOperation struct {
	method RemotedMethod
	body   io.Reader
	faults *faultTranslator

	result *DispatchResult
}

func (op *remotedOperation) methodContext() MethodContext {
	return NewMethodContext(CallTypeInvoke, op.method.Name)
}

func (op *remotedOperation) execute(ctx context.Context, state *ActorState) error {
	request, err := op.method.Codec.DecodeRequest(op.body)
	if err != nil {
		op.result = op.faults.encodeFault(err)
		return nil
	}

	response, err := op.method.Handler(ctx, state.Instance(), request)
	if err != nil {
		op.result = op.faults.encodeFault(err)
		return nil
	}

	result, err := op.faults.encodeSuccess(response, op.method.Codec)
	if err != nil {
		op.result = op.faults.encodeFault(err)
		return nil
	}

	op.result = result
	return nil
}

// plainOperation executes a method resolved by name. Failures propagate to
// the caller unchanged; there is no fault translation on this path.
type plainOperation struct {
	callType CallType
	method   PlainMethod
	arg      any

	result []byte
}

func (op *plainOperation) methodContext() MethodContext {
	return NewMethodContext(op.callType, op.method.Name)
}

func (op *plainOperation) execute(ctx context.Context, state *ActorState) error {
	response, err := op.method.Handler(ctx, state.Instance(), op.arg)
	if err != nil {
		return err
	}

	if !op.method.HasResult {
		return nil
	}

	encoded, err := json.Marshal(response)
	if err != nil {
		return err
	}
	op.result = encoded
	return nil
}

// reminderOperation delivers a reminder to a remindable instance.
type reminderOperation struct {
	reminder Reminder
}

func (op *reminderOperation) methodContext() MethodContext {
	return NewMethodContext(CallTypeReminder, op.reminder.Name)
}

func (op *reminderOperation) execute(ctx context.Context, state *ActorState) error {
	remindable, ok := state.Instance().(Remindable)
	if !ok {
		// the kind-level check upstream makes this unreachable
		return gerrors.NewErrInvalidInvocation(errors.New("actor is not remindable"))
	}
	return remindable.ReceiveReminder(ctx, op.reminder)
}

// DispatchRemoted routes a remoted invocation to the identity's instance,
// activating it on demand. The header carries the interface-id/method-id pair
// and the body the serialized request.
//
// Resolution failures (unknown kind, unresolvable method, undecodable header)
// and infrastructure failures are returned as errors. Application faults
// never are: they come back as a DispatchResult whose header asserts the
// remote fault and whose body describes it.
func (r *Runtime) DispatchRemoted(ctx context.Context, id ActorID, header []byte, body io.Reader) (*DispatchResult, error) {
	if r.stopped.Load() {
		return nil, gerrors.ErrRuntimeStopped
	}

	requestHeader, err := r.headerCodec.DecodeRequestHeader(header)
	if err != nil {
		return nil, gerrors.NewErrInvalidInvocation(err)
	}

	kind, err := r.kindFor(id)
	if err != nil {
		return nil, err
	}

	method, err := kind.table.ResolveRemoted(requestHeader.InterfaceID, requestHeader.MethodID)
	if err != nil {
		return nil, err
	}

	op := &remotedOperation{method: method, body: body, faults: r.faults}
	if err := r.invoke(ctx, id, op); err != nil {
		return nil, err
	}
	if op.result.Faulted() {
		r.telemetry.recordFault(ctx, id.Kind())
	}
	return op.result, nil
}

// DispatchPlain routes a name-addressed invocation to the identity's
// instance, activating it on demand. The body decodes into the method's
// single parameter; methods declaring more than one parameter are rejected
// before any activation happens. The returned bytes are the JSON-encoded
// method result, nil for methods without one. Failures, application faults
// included, propagate as errors.
func (r *Runtime) DispatchPlain(ctx context.Context, id ActorID, method string, body io.Reader) ([]byte, error) {
	if r.stopped.Load() {
		return nil, gerrors.ErrRuntimeStopped
	}

	kind, err := r.kindFor(id)
	if err != nil {
		return nil, err
	}

	resolved, err := kind.table.ResolveName(method)
	if err != nil {
		return nil, err
	}

	arg, err := decodePlainArg(resolved, body)
	if err != nil {
		return nil, err
	}

	op := &plainOperation{callType: CallTypeInvoke, method: resolved, arg: arg}
	if err := r.invoke(ctx, id, op); err != nil {
		return nil, err
	}
	return op.result, nil
}

// decodePlainArg validates the method's arity and decodes the single
// parameter when the method declares one. It runs before activation so a
// caller mistake never spins up an instance.
func decodePlainArg(method PlainMethod, body io.Reader) (any, error) {
	switch {
	case method.NumParams == 0:
		return nil, nil
	case method.NumParams > 1:
		return nil, gerrors.ErrTooManyParameters
	case method.Decode == nil:
		return nil, gerrors.NewErrInvalidInvocation(fmt.Errorf("method=(%s) has no parameter decoder", method.Name))
	case body == nil:
		return nil, gerrors.NewErrInvalidInvocation(fmt.Errorf("method=(%s) requires a request body", method.Name))
	}

	arg, err := method.Decode(body)
	if err != nil {
		return nil, gerrors.NewErrInvalidInvocation(err)
	}
	return arg, nil
}

// FireReminder delivers a scheduled reminder to the identity's instance,
// activating it on demand. Reminders addressed to kinds that are not
// remindable are dropped before any activation or hook runs. The payload is
// the serialized ReminderPayload produced at registration time.
func (r *Runtime) FireReminder(ctx context.Context, id ActorID, name string, payload []byte) error {
	if r.stopped.Load() {
		return gerrors.ErrRuntimeStopped
	}

	kind, err := r.kindFor(id)
	if err != nil {
		return err
	}

	if !kind.remindable {
		r.logger.Debugf("dropping reminder=(%s) for non-remindable kind=(%s)", name, id.Kind())
		return nil
	}

	decoded, err := decodeReminderPayload(bytes.NewReader(payload))
	if err != nil {
		return gerrors.NewErrInvalidInvocation(err)
	}

	op := &reminderOperation{
		reminder: Reminder{
			Name:    name,
			Data:    decoded.Data,
			DueTime: decoded.DueTime,
			Period:  decoded.Period,
		},
	}
	return r.invoke(ctx, id, op)
}

// FireTimer delivers a scheduled timer to the identity's instance, activating
// it on demand. The payload is the serialized TimerPayload; its callback is
// resolved through the kind's plain method table, which gives timers the same
// arity validation as plain dispatch. The callback result, if any, is
// discarded.
func (r *Runtime) FireTimer(ctx context.Context, id ActorID, payload []byte) error {
	if r.stopped.Load() {
		return gerrors.ErrRuntimeStopped
	}

	kind, err := r.kindFor(id)
	if err != nil {
		return err
	}

	decoded, err := decodeTimerPayload(bytes.NewReader(payload))
	if err != nil {
		return gerrors.NewErrInvalidInvocation(err)
	}

	resolved, err := kind.table.ResolveName(decoded.Callback)
	if err != nil {
		return err
	}

	arg, err := decodePlainArg(resolved, bytes.NewReader(decoded.Data))
	if err != nil {
		return err
	}

	op := &plainOperation{callType: CallTypeTimer, method: resolved, arg: arg}
	return r.invoke(ctx, id, op)
}
