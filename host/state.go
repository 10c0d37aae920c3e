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
	"time"

	"github.com/google/uuid"
)

// ActorState represents one live actor instance: the identity, the live
// user-defined actor object and the activator-specific handle needed to
// destroy it later.
//
// An ActorState is exclusively owned by the activation table once published;
// before publication it is owned by the goroutine that created it.
type ActorState struct {
	id          ActorID
	instance    Actor
	handle      string
	activatedAt time.Time
}

// NewActorState builds the state record for a freshly created instance. The
// activator handle is a uuid, unique per created state, so destruction can be
// correlated with creation in activator implementations and logs.
func NewActorState(id ActorID, instance Actor) *ActorState {
	return &ActorState{
		id:          id,
		instance:    instance,
		handle:      uuid.NewString(),
		activatedAt: time.Now(),
	}
}

// ID returns the identity this state belongs to.
func (s *ActorState) ID() ActorID {
	return s.id
}

// Instance returns the live user-defined actor object.
func (s *ActorState) Instance() Actor {
	return s.instance
}

// Handle returns the activator-specific handle assigned at creation.
func (s *ActorState) Handle() string {
	return s.handle
}

// ActivatedAt returns the creation time of this state.
func (s *ActorState) ActivatedAt() time.Time {
	return s.activatedAt
}
