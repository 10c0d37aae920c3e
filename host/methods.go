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
	"io"

	gerrors "github.com/silo-run/silo/errors"
)

// BodyCodec encodes and decodes the request/response bodies of one remoted
// interface. Implementations are registered per interface alongside the
// methods they serve.
type BodyCodec interface {
	// DecodeRequest turns the inbound body stream into the request value the
	// method handler expects.
	DecodeRequest(r io.Reader) (any, error)

	// EncodeResponse serializes the value returned by the method handler.
	EncodeResponse(v any) ([]byte, error)
}

// HeaderCodec decodes the remoted request header and encodes response headers.
type HeaderCodec interface {
	DecodeRequestHeader(b []byte) (RequestHeader, error)
	EncodeResponseHeader(h ResponseHeader) ([]byte, error)
}

// RequestHeader carries the routing identifiers of a remoted call: the
// interface id and the method id within that interface, as produced by a
// strongly-typed client proxy.
type RequestHeader struct {
	InterfaceID int32  `json:"interfaceId"`
	MethodID    int32  `json:"methodId"`
	CallID      string `json:"callId,omitempty"`
}

// ResponseHeader flags the shape of a remoted response. A response with
// RemoteFault set carries a FaultInfo body instead of the method result.
type ResponseHeader struct {
	RemoteFault bool `json:"remoteFault"`
}

// RemotedHandler invokes a strongly-typed method on the live instance with
// the decoded request value.
type RemotedHandler func(ctx context.Context, instance Actor, request any) (any, error)

// RemotedMethod is an invocable descriptor resolved by (interface-id,
// method-id). The codec is the one registered for the method's interface.
type RemotedMethod struct {
	Name    string
	Handler RemotedHandler
	Codec   BodyCodec
}

// PlainHandler invokes a name-addressed method on the live instance. The arg
// is nil for zero-parameter methods.
type PlainHandler func(ctx context.Context, instance Actor, arg any) (any, error)

// PlainMethod is an invocable descriptor resolved by method name. It carries
// the parameter count, a decoder for the single optional parameter and
// whether the method produces a value, so dispatch needs no runtime type
// introspection.
type PlainMethod struct {
	Name      string
	NumParams int
	Decode    func(r io.Reader) (any, error)
	Handler   PlainHandler
	HasResult bool
}

type remotedKey struct {
	interfaceID int32
	methodID    int32
}

// MethodTable holds the two immutable lookup structures of one actor kind:
// (interface-id, method-id) pairs to invocable descriptors for remoted
// dispatch, and method names to descriptors for plain dispatch. Tables are
// built once at startup, before the kind is registered with the runtime, and
// are read-only afterwards.
type MethodTable struct {
	remoted map[remotedKey]RemotedMethod
	plain   map[string]PlainMethod
}

// NewMethodTable creates an empty method table.
func NewMethodTable() *MethodTable {
	return &MethodTable{
		remoted: make(map[remotedKey]RemotedMethod),
		plain:   make(map[string]PlainMethod),
	}
}

// AddRemoted maps the (interfaceID, methodID) pair to the given descriptor
// and returns the table for chaining.
func (t *MethodTable) AddRemoted(interfaceID, methodID int32, method RemotedMethod) *MethodTable {
	t.remoted[remotedKey{interfaceID: interfaceID, methodID: methodID}] = method
	return t
}

// AddPlain maps the descriptor's name to the descriptor and returns the table
// for chaining.
func (t *MethodTable) AddPlain(method PlainMethod) *MethodTable {
	t.plain[method.Name] = method
	return t
}

// ResolveRemoted looks up the descriptor for the given pair. A miss is an
// ErrMethodNotFound carrying both identifiers.
func (t *MethodTable) ResolveRemoted(interfaceID, methodID int32) (RemotedMethod, error) {
	method, ok := t.remoted[remotedKey{interfaceID: interfaceID, methodID: methodID}]
	if !ok {
		return RemotedMethod{}, gerrors.NewErrRemotedMethodNotFound(interfaceID, methodID)
	}
	return method, nil
}

// ResolveName looks up the descriptor for the given method name.
func (t *MethodTable) ResolveName(name string) (PlainMethod, error) {
	method, ok := t.plain[name]
	if !ok {
		return PlainMethod{}, gerrors.NewErrMethodNotFound(name)
	}
	return method, nil
}

// jsonBodyCodec is the default BodyCodec: JSON bodies decoded into T.
type jsonBodyCodec[T any] struct{}

// NewJSONBodyCodec returns a BodyCodec that decodes request bodies into *T
// and encodes responses as JSON.
func NewJSONBodyCodec[T any]() BodyCodec {
	return jsonBodyCodec[T]{}
}

// DecodeRequest implements BodyCodec.
func (jsonBodyCodec[T]) DecodeRequest(r io.Reader) (any, error) {
	request := new(T)
	if err := json.NewDecoder(r).Decode(request); err != nil {
		return nil, err
	}
	return request, nil
}

// EncodeResponse implements BodyCodec.
func (jsonBodyCodec[T]) EncodeResponse(v any) ([]byte, error) {
	return json.Marshal(v)
}

// JSONDecoder returns a parameter decoder for PlainMethod descriptors that
// decodes the request stream into *T.
func JSONDecoder[T any]() func(r io.Reader) (any, error) {
	return func(r io.Reader) (any, error) {
		param := new(T)
		if err := json.NewDecoder(r).Decode(param); err != nil {
			return nil, err
		}
		return param, nil
	}
}

// JSONHeaderCodec is the default HeaderCodec: headers are JSON documents.
type JSONHeaderCodec struct{}

var _ HeaderCodec = (*JSONHeaderCodec)(nil)

// DecodeRequestHeader implements HeaderCodec.
func (JSONHeaderCodec) DecodeRequestHeader(b []byte) (RequestHeader, error) {
	var header RequestHeader
	if err := json.Unmarshal(b, &header); err != nil {
		return RequestHeader{}, err
	}
	return header, nil
}

// EncodeResponseHeader implements HeaderCodec.
func (JSONHeaderCodec) EncodeResponseHeader(h ResponseHeader) ([]byte, error) {
	return json.Marshal(h)
}
