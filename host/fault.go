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
	"encoding/json"
	"fmt"
)

// DispatchResult is the (header, body) pair returned to the transport layer.
// On success the header is empty and the body carries the serialized
// response; on a remote fault the header flags the fault and the body decodes
// to a FaultInfo.
type DispatchResult struct {
	Header []byte
	Body   []byte
}

// Faulted reports whether this result carries a remote fault header.
func (d *DispatchResult) Faulted() bool {
	return len(d.Header) > 0
}

// noContent is the marker type for methods that complete without a body.
type noContent struct{}

// NoContent is the marker result a remoted handler returns when the call
// carries no response body. The response codec is not invoked for it.
var NoContent = noContent{}

// FaultInfo is the stable fault-description format carried in the body of a
// faulted DispatchResult.
type FaultInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// minimalFaultBody is the fallback body used when fault metadata extraction
// itself fails. encodeFault must never fail.
var minimalFaultBody = []byte(`{"type":"error","message":"actor invocation faulted"}`)

// faultHeaderFallback is used when the header codec cannot encode the fault
// header.
var faultHeaderFallback = []byte(`{"remoteFault":true}`)

// faultTranslator converts invocation outcomes into wire-stable
// DispatchResult values.
type faultTranslator struct {
	headerCodec HeaderCodec
}

func newFaultTranslator(headerCodec HeaderCodec) *faultTranslator {
	return &faultTranslator{headerCodec: headerCodec}
}

// encodeSuccess builds the result for a completed method call: empty header,
// codec-serialized body. The NoContent marker yields an empty body without
// invoking the codec.
func (f *faultTranslator) encodeSuccess(body any, codec BodyCodec) (*DispatchResult, error) {
	if _, ok := body.(noContent); ok {
		return &DispatchResult{}, nil
	}

	encoded, err := codec.EncodeResponse(body)
	if err != nil {
		return nil, err
	}
	return &DispatchResult{Body: encoded}, nil
}

// encodeFault builds the result for a faulted method call: a header asserting
// the remote fault plus a FaultInfo body. It never fails; when metadata
// extraction or serialization fails it falls back to a minimal description.
func (f *faultTranslator) encodeFault(cause error) *DispatchResult {
	header, err := f.headerCodec.EncodeResponseHeader(ResponseHeader{RemoteFault: true})
	if err != nil {
		header = faultHeaderFallback
	}

	info := FaultInfo{
		Type:    fmt.Sprintf("%T", cause),
		Message: cause.Error(),
		Stack:   fmt.Sprintf("%+v", cause),
	}

	body, err := json.Marshal(info)
	if err != nil {
		body = minimalFaultBody
	}

	return &DispatchResult{Header: header, Body: body}
}

// DecodeFaultInfo parses the body of a faulted DispatchResult. Exposed for
// transport collaborators and tests.
func DecodeFaultInfo(body []byte) (FaultInfo, error) {
	var info FaultInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return FaultInfo{}, err
	}
	return info, nil
}
