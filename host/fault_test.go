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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenHeaderCodec struct{}

func (brokenHeaderCodec) DecodeRequestHeader([]byte) (RequestHeader, error) {
	return RequestHeader{}, errors.New("cannot decode")
}

func (brokenHeaderCodec) EncodeResponseHeader(ResponseHeader) ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func TestFaultTranslator(t *testing.T) {
	t.Run("encodeFault produces a decodable fault", func(t *testing.T) {
		translator := newFaultTranslator(JSONHeaderCodec{})
		result := translator.encodeFault(errBoom)
		require.True(t, result.Faulted())

		var header ResponseHeader
		require.NoError(t, json.Unmarshal(result.Header, &header))
		assert.True(t, header.RemoteFault)

		info, err := DecodeFaultInfo(result.Body)
		require.NoError(t, err)
		assert.Equal(t, errBoom.Error(), info.Message)
	})

	t.Run("encodeFault never fails", func(t *testing.T) {
		translator := newFaultTranslator(brokenHeaderCodec{})
		result := translator.encodeFault(errBoom)
		require.True(t, result.Faulted())
		assert.Equal(t, faultHeaderFallback, result.Header)

		info, err := DecodeFaultInfo(result.Body)
		require.NoError(t, err)
		assert.Equal(t, errBoom.Error(), info.Message)
	})

	t.Run("encodeSuccess skips the codec for NoContent", func(t *testing.T) {
		translator := newFaultTranslator(JSONHeaderCodec{})
		result, err := translator.encodeSuccess(NoContent, nil)
		require.NoError(t, err)
		assert.False(t, result.Faulted())
		assert.Empty(t, result.Body)
	})

	t.Run("encodeSuccess serializes through the codec", func(t *testing.T) {
		translator := newFaultTranslator(JSONHeaderCodec{})
		result, err := translator.encodeSuccess(&incrementResponse{X: 3}, NewJSONBodyCodec[incrementRequest]())
		require.NoError(t, err)
		assert.False(t, result.Faulted())
		assert.JSONEq(t, `{"x":3}`, string(result.Body))
	})
}

func TestMethodTable(t *testing.T) {
	table := counterTable()

	t.Run("remoted resolution", func(t *testing.T) {
		method, err := table.ResolveRemoted(counterInterfaceID, incrementMethodID)
		require.NoError(t, err)
		assert.Equal(t, "Increment", method.Name)

		_, err = table.ResolveRemoted(counterInterfaceID, 99)
		assert.Error(t, err)
	})

	t.Run("plain resolution", func(t *testing.T) {
		method, err := table.ResolveName("Get")
		require.NoError(t, err)
		assert.True(t, method.HasResult)

		_, err = table.ResolveName("Nope")
		assert.Error(t, err)
	})
}

func TestMethodContext(t *testing.T) {
	mctx := NewMethodContext(CallTypeReminder, "refresh")
	assert.Equal(t, CallTypeReminder, mctx.CallType())
	assert.Equal(t, "refresh", mctx.Method())
	assert.Equal(t, "reminder", CallTypeReminder.String())
	assert.Equal(t, "invoke", CallTypeInvoke.String())
	assert.Equal(t, "timer", CallTypeTimer.String())
}
