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
	"io"

	gerrors "github.com/silo-run/silo/errors"
)

// factoryActivator is the default Activator. It creates instances through the
// kind's registered factory and, on destruction, closes instances that
// implement io.Closer.
type factoryActivator struct {
	factory Factory
}

var _ Activator = (*factoryActivator)(nil)

// NewFactoryActivator wraps a Factory into an Activator.
func NewFactoryActivator(factory Factory) Activator {
	return &factoryActivator{factory: factory}
}

// Create implements Activator.
func (a *factoryActivator) Create(ctx context.Context, id ActorID) (*ActorState, error) {
	if a.factory == nil {
		return nil, gerrors.NewErrKindNotRegistered(id.Kind())
	}

	instance, err := a.factory(ctx, id)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, errors.New("actor factory returned a nil instance")
	}
	return NewActorState(id, instance), nil
}

// Destroy implements Activator.
func (a *factoryActivator) Destroy(_ context.Context, state *ActorState) error {
	if closer, ok := state.Instance().(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
