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

// CallType states which kind of invocation is in flight.
type CallType int

const (
	// CallTypeInvoke is an ordinary method call, remoted or plain.
	CallTypeInvoke CallType = iota
	// CallTypeReminder is a durable reminder delivery.
	CallTypeReminder
	// CallTypeTimer is a non-durable timer delivery.
	CallTypeTimer
)

// String returns the text representation of the call type.
func (c CallType) String() string {
	switch c {
	case CallTypeInvoke:
		return "invoke"
	case CallTypeReminder:
		return "reminder"
	case CallTypeTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// MethodContext describes the invocation in flight. It is passed to the
// pre/post/failed hooks so an actor can distinguish invocation kinds without
// inspecting request internals. Created per invocation, discarded after.
type MethodContext struct {
	callType CallType
	method   string
}

// NewMethodContext creates a MethodContext for the given call type and method
// name.
func NewMethodContext(callType CallType, method string) MethodContext {
	return MethodContext{callType: callType, method: method}
}

// CallType returns the kind of invocation in flight.
func (m MethodContext) CallType() CallType {
	return m.callType
}

// Method returns the name of the method or callback being invoked.
func (m MethodContext) Method() string {
	return m.method
}
