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
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/silo-run/silo/errors"
)

func TestDispatchRemoted(t *testing.T) {
	ctx := context.TODO()

	t.Run("happy path", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)
		id := counterID("a")

		result, err := runtime.DispatchRemoted(ctx, id,
			mustHeader(t, counterInterfaceID, incrementMethodID),
			mustBody(t, incrementRequest{X: 1}))
		require.NoError(t, err)
		require.False(t, result.Faulted())

		var response incrementResponse
		require.NoError(t, json.Unmarshal(result.Body, &response))
		assert.Equal(t, 2, response.X)

		state, ok := runtime.TryGetActive(id)
		require.True(t, ok)
		counts := state.Instance().(*testActor).snapshot()
		assert.Equal(t, 1, counts.activations)
		assert.Equal(t, 1, counts.preInvokes)
		assert.Equal(t, 1, counts.postInvokes)
		assert.Empty(t, counts.failures)
	})

	t.Run("application fault becomes a fault result", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)
		id := counterID("a")

		result, err := runtime.DispatchRemoted(ctx, id,
			mustHeader(t, counterInterfaceID, explodeMethodID),
			mustBody(t, incrementRequest{X: 1}))
		require.NoError(t, err)
		require.True(t, result.Faulted())

		var header ResponseHeader
		require.NoError(t, json.Unmarshal(result.Header, &header))
		assert.True(t, header.RemoteFault)

		info, err := DecodeFaultInfo(result.Body)
		require.NoError(t, err)
		assert.Equal(t, errBoom.Error(), info.Message)
		assert.NotEmpty(t, info.Type)

		// the call counts as delivered: the post hook ran
		state, ok := runtime.TryGetActive(id)
		require.True(t, ok)
		assert.Equal(t, 1, state.Instance().(*testActor).snapshot().postInvokes)
	})

	t.Run("panic in the handler becomes a fault result", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)
		id := counterID("a")

		result, err := runtime.DispatchRemoted(ctx, id,
			mustHeader(t, counterInterfaceID, panicMethodID),
			mustBody(t, incrementRequest{X: 1}))
		require.NoError(t, err)
		require.True(t, result.Faulted())

		info, err := DecodeFaultInfo(result.Body)
		require.NoError(t, err)
		assert.Contains(t, info.Message, "counter exploded")
	})

	t.Run("undecodable request becomes a fault result", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		result, err := runtime.DispatchRemoted(ctx, counterID("a"),
			mustHeader(t, counterInterfaceID, incrementMethodID),
			strings.NewReader("{not json"))
		require.NoError(t, err)
		assert.True(t, result.Faulted())
	})

	t.Run("unresolvable method does not activate", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		_, err := runtime.DispatchRemoted(ctx, counterID("a"),
			mustHeader(t, counterInterfaceID, 99),
			mustBody(t, incrementRequest{X: 1}))
		assert.ErrorIs(t, err, gerrors.ErrMethodNotFound)
		assert.Equal(t, 0, runtime.ActiveCount())
	})

	t.Run("undecodable header", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		_, err := runtime.DispatchRemoted(ctx, counterID("a"), []byte("{not json"), nil)
		assert.ErrorIs(t, err, gerrors.ErrInvalidInvocation)
		assert.Equal(t, 0, runtime.ActiveCount())
	})

	t.Run("unregistered kind", func(t *testing.T) {
		runtime := newTestRuntime(t)
		_, err := runtime.DispatchRemoted(ctx, NewActorID("ghost", "a"),
			mustHeader(t, counterInterfaceID, incrementMethodID), nil)
		assert.ErrorIs(t, err, gerrors.ErrKindNotRegistered)
	})
}

func TestDispatchPlain(t *testing.T) {
	ctx := context.TODO()

	t.Run("zero-parameter method with result", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		result, err := runtime.DispatchPlain(ctx, counterID("a"), "Get", nil)
		require.NoError(t, err)
		assert.JSONEq(t, "0", string(result))
	})

	t.Run("single-parameter method without result", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)
		id := counterID("a")

		result, err := runtime.DispatchPlain(ctx, id, "Add", mustBody(t, 5))
		require.NoError(t, err)
		assert.Nil(t, result)

		result, err = runtime.DispatchPlain(ctx, id, "Get", nil)
		require.NoError(t, err)
		assert.JSONEq(t, "5", string(result))
	})

	t.Run("missing body for a one-parameter method", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		_, err := runtime.DispatchPlain(ctx, counterID("a"), "Add", nil)
		assert.ErrorIs(t, err, gerrors.ErrInvalidInvocation)
		assert.Equal(t, 0, runtime.ActiveCount())
	})

	t.Run("too many parameters fails before activation", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		_, err := runtime.DispatchPlain(ctx, counterID("a"), "Broken", nil)
		assert.ErrorIs(t, err, gerrors.ErrTooManyParameters)
		assert.Equal(t, 0, runtime.ActiveCount())
	})

	t.Run("unknown method", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		_, err := runtime.DispatchPlain(ctx, counterID("a"), "Nope", nil)
		assert.ErrorIs(t, err, gerrors.ErrMethodNotFound)
		assert.Equal(t, 0, runtime.ActiveCount())
	})

	t.Run("application fault propagates", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)
		id := counterID("a")

		_, err := runtime.DispatchPlain(ctx, id, "Fail", nil)
		assert.ErrorIs(t, err, errBoom)

		state, ok := runtime.TryGetActive(id)
		require.True(t, ok)
		counts := state.Instance().(*testActor).snapshot()
		assert.Equal(t, 0, counts.postInvokes)
		require.Len(t, counts.failures, 1)
		assert.ErrorIs(t, counts.failures[0], errBoom)
	})

	t.Run("pre-hook failure skips the method", func(t *testing.T) {
		runtime := newTestRuntime(t)
		factory := func(context.Context, ActorID) (Actor, error) {
			return &testActor{failPre: true}, nil
		}
		require.NoError(t, runtime.Register(new(testActor), factory, counterTable()))
		id := counterID("a")

		_, err := runtime.DispatchPlain(ctx, id, "Add", mustBody(t, 5))
		assert.ErrorIs(t, err, errBoom)

		state, ok := runtime.TryGetActive(id)
		require.True(t, ok)
		counts := state.Instance().(*testActor).snapshot()
		assert.Equal(t, 0, counts.value)
		require.Len(t, counts.failures, 1)
	})

	t.Run("concurrent dispatches share one instance", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)
		id := counterID("hot")

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := runtime.DispatchPlain(ctx, id, "Add", mustBody(t, 1))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		result, err := runtime.DispatchPlain(ctx, id, "Get", nil)
		require.NoError(t, err)
		assert.JSONEq(t, "16", string(result))
		assert.Equal(t, 1, runtime.ActiveCount())
	})
}

func TestFireReminder(t *testing.T) {
	ctx := context.TODO()

	registerRemindable := func(t *testing.T, runtime *Runtime) {
		t.Helper()
		factory := func(context.Context, ActorID) (Actor, error) {
			return new(remindableActor), nil
		}
		require.NoError(t, runtime.Register(new(remindableActor), factory, counterTable()))
	}

	t.Run("happy path", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerRemindable(t, runtime)
		id := NewActorID(KindOf(new(remindableActor)), "a")

		payload, err := json.Marshal(ReminderPayload{
			Data:    []byte(`"ping"`),
			DueTime: time.Second,
			Period:  time.Minute,
		})
		require.NoError(t, err)

		require.NoError(t, runtime.FireReminder(ctx, id, "refresh", payload))

		state, ok := runtime.TryGetActive(id)
		require.True(t, ok)
		actor := state.Instance().(*remindableActor)
		received := actor.received()
		require.Len(t, received, 1)
		assert.Equal(t, "refresh", received[0].Name)
		assert.Equal(t, []byte(`"ping"`), received[0].Data)
		assert.Equal(t, time.Second, received[0].DueTime)
		assert.Equal(t, time.Minute, received[0].Period)
		assert.Equal(t, 1, actor.snapshot().postInvokes)
	})

	t.Run("non-remindable kind is dropped without activation", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		payload, err := json.Marshal(ReminderPayload{})
		require.NoError(t, err)

		require.NoError(t, runtime.FireReminder(ctx, counterID("a"), "refresh", payload))
		assert.Equal(t, 0, runtime.ActiveCount())
	})

	t.Run("undecodable payload", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerRemindable(t, runtime)
		id := NewActorID(KindOf(new(remindableActor)), "a")

		err := runtime.FireReminder(ctx, id, "refresh", []byte("{not json"))
		assert.ErrorIs(t, err, gerrors.ErrInvalidInvocation)
	})
}

func TestFireTimer(t *testing.T) {
	ctx := context.TODO()

	t.Run("callback resolves through the plain table", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)
		id := counterID("a")

		payload, err := json.Marshal(TimerPayload{Callback: "Add", Data: []byte("7")})
		require.NoError(t, err)
		require.NoError(t, runtime.FireTimer(ctx, id, payload))

		result, err := runtime.DispatchPlain(ctx, id, "Get", nil)
		require.NoError(t, err)
		assert.JSONEq(t, "7", string(result))
	})

	t.Run("unknown callback", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		payload, err := json.Marshal(TimerPayload{Callback: "Nope"})
		require.NoError(t, err)
		err = runtime.FireTimer(ctx, counterID("a"), payload)
		assert.ErrorIs(t, err, gerrors.ErrMethodNotFound)
		assert.Equal(t, 0, runtime.ActiveCount())
	})

	t.Run("arity is validated like plain dispatch", func(t *testing.T) {
		runtime := newTestRuntime(t)
		registerCounter(t, runtime)

		payload, err := json.Marshal(TimerPayload{Callback: "Broken"})
		require.NoError(t, err)
		err = runtime.FireTimer(ctx, counterID("a"), payload)
		assert.ErrorIs(t, err, gerrors.ErrTooManyParameters)
	})
}

// cancelObservingActor records what the post and failed hooks observe about
// their contexts.
type cancelObservingActor struct {
	BaseActor

	mu         sync.Mutex
	posts      int
	postCtxErr error
	failures   []error
}

func (x *cancelObservingActor) OnPostInvoke(ctx context.Context, _ MethodContext) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.posts++
	x.postCtxErr = ctx.Err()
	return nil
}

func (x *cancelObservingActor) OnInvokeFailed(_ context.Context, _ MethodContext, cause error) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.failures = append(x.failures, cause)
	return nil
}

func TestCancellation(t *testing.T) {
	register := func(t *testing.T, runtime *Runtime, table *MethodTable) ActorID {
		t.Helper()
		factory := func(context.Context, ActorID) (Actor, error) {
			return new(cancelObservingActor), nil
		}
		require.NoError(t, runtime.Register(new(cancelObservingActor), factory, table))
		return NewActorID(KindOf(new(cancelObservingActor)), "a")
	}

	t.Run("mid-flight cancellation skips the post hook", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		table := NewMethodTable().AddPlain(PlainMethod{
			Name: "Wait",
			Handler: func(ctx context.Context, _ Actor, _ any) (any, error) {
				cancel()
				<-ctx.Done()
				return nil, ctx.Err()
			},
		})
		runtime := newTestRuntime(t)
		id := register(t, runtime, table)

		_, err := runtime.DispatchPlain(ctx, id, "Wait", nil)
		assert.ErrorIs(t, err, context.Canceled)

		state, ok := runtime.TryGetActive(id)
		require.True(t, ok)
		actor := state.Instance().(*cancelObservingActor)
		actor.mu.Lock()
		defer actor.mu.Unlock()
		assert.Equal(t, 0, actor.posts)
		require.Len(t, actor.failures, 1)
		assert.ErrorIs(t, actor.failures[0], context.Canceled)
	})

	t.Run("post hook is shielded from caller cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		table := NewMethodTable().AddPlain(PlainMethod{
			Name: "Commit",
			Handler: func(context.Context, Actor, any) (any, error) {
				// the caller goes away the instant the method commits
				cancel()
				return nil, nil
			},
		})
		runtime := newTestRuntime(t)
		id := register(t, runtime, table)

		_, err := runtime.DispatchPlain(ctx, id, "Commit", nil)
		require.NoError(t, err)

		state, ok := runtime.TryGetActive(id)
		require.True(t, ok)
		actor := state.Instance().(*cancelObservingActor)
		actor.mu.Lock()
		defer actor.mu.Unlock()
		assert.Equal(t, 1, actor.posts)
		assert.NoError(t, actor.postCtxErr)
		assert.Empty(t, actor.failures)
	})
}

func TestPanicRecovery(t *testing.T) {
	ctx := context.TODO()
	runtime := newTestRuntime(t)
	table := counterTable().AddPlain(PlainMethod{
		Name: "Blow",
		Handler: func(context.Context, Actor, any) (any, error) {
			panic("kaboom")
		},
	})
	factory := func(context.Context, ActorID) (Actor, error) {
		return new(testActor), nil
	}
	require.NoError(t, runtime.Register(new(testActor), factory, table))
	id := counterID("a")

	_, err := runtime.DispatchPlain(ctx, id, "Blow", nil)
	require.Error(t, err)
	var panicErr *gerrors.PanicError
	assert.ErrorAs(t, err, &panicErr)

	// the host survives and keeps serving the instance
	result, err := runtime.DispatchPlain(ctx, id, "Get", nil)
	require.NoError(t, err)
	assert.JSONEq(t, "0", string(result))
}
