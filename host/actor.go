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
	"time"
)

// Actor defines the contract for virtual actors hosted by the runtime.
//
// An actor is a lightweight, identity-addressed object that is activated on
// demand when the first invocation for its identity arrives and deactivated
// when the orchestrator decides it is no longer needed. The runtime guarantees
// that at most one live instance exists per identity at any instant; it does
// not serialize concurrent method calls against that instance.
//
// ## Implementation Guidelines
//   - Implement `OnActivate` to load state or initialize resources when the
//     instance is brought into memory. Returning an error aborts activation
//     and the instance is destroyed without ever becoming visible.
//   - Implement `OnDeactivate` to persist state and release resources before
//     removal. The instance is destroyed even when this hook fails.
//   - Implement `OnPreInvoke`/`OnPostInvoke` to bracket every delivered
//     invocation; `OnPostInvoke` is where state persistence is expected to
//     happen and it is shielded from caller cancellation.
//   - Implement `OnInvokeFailed` to observe invocation failures; its own
//     error is logged, never propagated.
//   - Always respect the provided context for cancellation and deadlines.
//
// Embed BaseActor to inherit no-op implementations of every hook.
type Actor interface {
	// OnActivate is called when the actor instance is loaded into memory,
	// before it is published to the activation table.
	OnActivate(ctx context.Context, id ActorID) error

	// OnDeactivate is called after the instance has been removed from the
	// activation table and before it is destroyed.
	OnDeactivate(ctx context.Context, id ActorID) error

	// OnPreInvoke runs before every invocation delivered to the instance.
	// The MethodContext tells the actor which kind of call is in flight
	// (method call, reminder or timer) and the method name.
	OnPreInvoke(ctx context.Context, mctx MethodContext) error

	// OnPostInvoke runs after an invocation completed successfully.
	OnPostInvoke(ctx context.Context, mctx MethodContext) error

	// OnInvokeFailed runs when the pre-hook, the invocation itself or the
	// post-hook failed. The original failure is re-raised afterwards.
	OnInvokeFailed(ctx context.Context, mctx MethodContext, cause error) error
}

// Remindable is implemented by actor kinds that accept durable reminders.
// Reminders fired against kinds that do not implement it are silently ignored.
type Remindable interface {
	Actor

	// ReceiveReminder handles a reminder delivery.
	ReceiveReminder(ctx context.Context, reminder Reminder) error
}

// Reminder describes a durable, orchestrator-scheduled callback delivered to
// a remindable actor.
type Reminder struct {
	// Name is the reminder name chosen at registration time.
	Name string
	// Data is the opaque payload registered with the reminder.
	Data []byte
	// DueTime is the delay before the first delivery.
	DueTime time.Duration
	// Period is the repetition interval; zero means fire once.
	Period time.Duration
}

// Factory creates a new actor instance for the given identity. It may suspend
// and may fail; a failure aborts activation.
type Factory func(ctx context.Context, id ActorID) (Actor, error)

// Activator abstracts allocation and destruction of actor instances. The
// runtime only depends on this contract; the default implementation wraps the
// factory registered for the identity's kind.
type Activator interface {
	// Create allocates a fresh ActorState for the given identity.
	Create(ctx context.Context, id ActorID) (*ActorState, error)

	// Destroy releases the resources held by the given state. The runtime
	// calls it exactly once per created state.
	Destroy(ctx context.Context, state *ActorState) error
}

// BaseActor provides no-op implementations of every Actor hook. Embed it to
// only override the hooks an actor cares about.
type BaseActor struct{}

var _ Actor = (*BaseActor)(nil)

// OnActivate implements Actor.
func (BaseActor) OnActivate(context.Context, ActorID) error { return nil }

// OnDeactivate implements Actor.
func (BaseActor) OnDeactivate(context.Context, ActorID) error { return nil }

// OnPreInvoke implements Actor.
func (BaseActor) OnPreInvoke(context.Context, MethodContext) error { return nil }

// OnPostInvoke implements Actor.
func (BaseActor) OnPostInvoke(context.Context, MethodContext) error { return nil }

// OnInvokeFailed implements Actor.
func (BaseActor) OnInvokeFailed(context.Context, MethodContext, error) error { return nil }
