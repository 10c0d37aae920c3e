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

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestChain(t *testing.T) {
	t.Run("fail fast stops at the first failure", func(t *testing.T) {
		err := New(FailFast()).
			AddValidator(NewEmptyStringValidator("kind", "")).
			AddValidator(NewEmptyStringValidator("name", "")).
			Validate()
		assert.EqualError(t, err, "the [kind] is required")
	})

	t.Run("all errors accumulates every failure", func(t *testing.T) {
		err := New(AllErrors()).
			AddValidator(NewEmptyStringValidator("kind", "")).
			AddValidator(NewEmptyStringValidator("name", "")).
			Validate()
		assert.Error(t, err)
		assert.Len(t, multierr.Errors(err), 2)
	})

	t.Run("passing chain", func(t *testing.T) {
		err := New(FailFast()).
			AddValidator(NewEmptyStringValidator("kind", "counter")).
			AddAssertion(true, "never fails").
			Validate()
		assert.NoError(t, err)
	})
}

func TestValidators(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		assert.Error(t, NewEmptyStringValidator("field", "").Validate())
		assert.NoError(t, NewEmptyStringValidator("field", "set").Validate())
	})

	t.Run("boolean", func(t *testing.T) {
		assert.Error(t, NewBooleanValidator(false, "must hold").Validate())
		assert.NoError(t, NewBooleanValidator(true, "must hold").Validate())
	})

	t.Run("pattern", func(t *testing.T) {
		customErr := errors.New("invalid expression")
		assert.NoError(t, NewPatternValidator("^[a-z]+$", "abc", customErr).Validate())
		assert.ErrorIs(t, NewPatternValidator("^[a-z]+$", "abc1", customErr).Validate(), customErr)
	})
}
