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

	"github.com/silo-run/silo/log"
)

// Option is the interface that applies a configuration option to the Runtime.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(runtime *Runtime)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(runtime *Runtime)

// Apply applies the options to the Runtime.
func (f OptionFunc) Apply(runtime *Runtime) {
	f(runtime)
}

// WithLogger sets the runtime logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(runtime *Runtime) {
		runtime.logger = logger
	})
}

// WithActivator overrides the default factory-backed activator for every
// kind.
func WithActivator(activator Activator) Option {
	return OptionFunc(func(runtime *Runtime) {
		runtime.activator = activator
	})
}

// WithHeaderCodec sets the codec used to decode remoted request headers and
// encode response headers.
func WithHeaderCodec(codec HeaderCodec) Option {
	return OptionFunc(func(runtime *Runtime) {
		runtime.headerCodec = codec
	})
}

// WithActivationRetryDelay sets the delay between OnActivate retry attempts.
func WithActivationRetryDelay(delay time.Duration) Option {
	return OptionFunc(func(runtime *Runtime) {
		runtime.activationRetryDelay = delay
	})
}

// WithActivationMaxRetries sets how many times OnActivate is retried before
// the activation is abandoned.
func WithActivationMaxRetries(maxRetries int) Option {
	return OptionFunc(func(runtime *Runtime) {
		runtime.activationMaxRetries = maxRetries
	})
}
