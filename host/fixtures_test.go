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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/silo-run/silo/log"
)

var errBoom = errors.New("boom")

// testActor records every hook and method interaction so tests can assert
// ordering and counts.
type testActor struct {
	BaseActor

	mu            sync.Mutex
	value         int
	activations   int
	deactivations int
	preInvokes    int
	postInvokes   int
	failures      []error

	// remaining OnActivate failures before the hook succeeds
	activateFailures int
	failDeactivate   bool
	failPre          bool
}

func (x *testActor) OnActivate(context.Context, ActorID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.activateFailures != 0 {
		if x.activateFailures > 0 {
			x.activateFailures--
		}
		return errBoom
	}
	x.activations++
	return nil
}

func (x *testActor) OnDeactivate(context.Context, ActorID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.deactivations++
	if x.failDeactivate {
		return errBoom
	}
	return nil
}

func (x *testActor) OnPreInvoke(context.Context, MethodContext) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.failPre {
		return errBoom
	}
	x.preInvokes++
	return nil
}

func (x *testActor) OnPostInvoke(context.Context, MethodContext) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.postInvokes++
	return nil
}

func (x *testActor) OnInvokeFailed(_ context.Context, _ MethodContext, cause error) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.failures = append(x.failures, cause)
	return nil
}

func (x *testActor) snapshot() testActorCounts {
	x.mu.Lock()
	defer x.mu.Unlock()
	return testActorCounts{
		value:         x.value,
		activations:   x.activations,
		deactivations: x.deactivations,
		preInvokes:    x.preInvokes,
		postInvokes:   x.postInvokes,
		failures:      append([]error(nil), x.failures...),
	}
}

type testActorCounts struct {
	value         int
	activations   int
	deactivations int
	preInvokes    int
	postInvokes   int
	failures      []error
}

// remindableActor is a testActor that also accepts reminders.
type remindableActor struct {
	testActor

	reminders []Reminder
}

func (x *remindableActor) ReceiveReminder(_ context.Context, reminder Reminder) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.reminders = append(x.reminders, reminder)
	return nil
}

func (x *remindableActor) received() []Reminder {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]Reminder(nil), x.reminders...)
}

type incrementRequest struct {
	X int `json:"x"`
}

type incrementResponse struct {
	X int `json:"x"`
}

const (
	counterInterfaceID int32 = 1
	incrementMethodID  int32 = 1
	explodeMethodID    int32 = 2
	panicMethodID      int32 = 3
)

// counterTable builds the method table used by the counter fixtures: one
// remoted interface plus a handful of plain methods.
func counterTable() *MethodTable {
	codec := NewJSONBodyCodec[incrementRequest]()
	table := NewMethodTable().
		AddRemoted(counterInterfaceID, incrementMethodID, RemotedMethod{
			Name:  "Increment",
			Codec: codec,
			Handler: func(_ context.Context, _ Actor, request any) (any, error) {
				req := request.(*incrementRequest)
				return &incrementResponse{X: req.X + 1}, nil
			},
		}).
		AddRemoted(counterInterfaceID, explodeMethodID, RemotedMethod{
			Name:  "Explode",
			Codec: codec,
			Handler: func(context.Context, Actor, any) (any, error) {
				return nil, errBoom
			},
		}).
		AddRemoted(counterInterfaceID, panicMethodID, RemotedMethod{
			Name:  "Panic",
			Codec: codec,
			Handler: func(context.Context, Actor, any) (any, error) {
				panic("counter exploded")
			},
		})

	table.AddPlain(PlainMethod{
		Name:      "Get",
		HasResult: true,
		Handler: func(_ context.Context, instance Actor, _ any) (any, error) {
			actor := instance.(*testActor)
			actor.mu.Lock()
			defer actor.mu.Unlock()
			return actor.value, nil
		},
	})
	table.AddPlain(PlainMethod{
		Name:      "Add",
		NumParams: 1,
		Decode:    JSONDecoder[int](),
		Handler: func(_ context.Context, instance Actor, arg any) (any, error) {
			actor := instance.(*testActor)
			actor.mu.Lock()
			defer actor.mu.Unlock()
			actor.value += *arg.(*int)
			return nil, nil
		},
	})
	table.AddPlain(PlainMethod{
		Name: "Fail",
		Handler: func(context.Context, Actor, any) (any, error) {
			return nil, errBoom
		},
	})
	table.AddPlain(PlainMethod{
		Name:      "Broken",
		NumParams: 2,
		Handler: func(context.Context, Actor, any) (any, error) {
			return nil, nil
		},
	})
	return table
}

// countingActivator wraps the default activator and counts creations and
// destructions.
type countingActivator struct {
	inner    Activator
	creates  *atomic.Int32
	destroys *atomic.Int32
}

func newCountingActivator(factory Factory) *countingActivator {
	return &countingActivator{
		inner:    NewFactoryActivator(factory),
		creates:  atomic.NewInt32(0),
		destroys: atomic.NewInt32(0),
	}
}

func (a *countingActivator) Create(ctx context.Context, id ActorID) (*ActorState, error) {
	a.creates.Inc()
	return a.inner.Create(ctx, id)
}

func (a *countingActivator) Destroy(ctx context.Context, state *ActorState) error {
	a.destroys.Inc()
	return a.inner.Destroy(ctx, state)
}

// newTestRuntime builds a runtime with a discarding logger and the given
// extra options.
func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	return NewRuntime(append([]Option{WithLogger(log.DiscardLogger)}, opts...)...)
}

func mustHeader(t *testing.T, interfaceID, methodID int32) []byte {
	t.Helper()
	header, err := json.Marshal(RequestHeader{InterfaceID: interfaceID, MethodID: methodID})
	require.NoError(t, err)
	return header
}

func mustBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(encoded)
}
