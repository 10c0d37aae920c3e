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
	"errors"
	"reflect"
	"strings"

	gerrors "github.com/silo-run/silo/errors"
	"github.com/silo-run/silo/internal/validation"
)

const identitySeparator = "/"

// ActorID uniquely identifies an actor instance within the host.
//
// It consists of:
//   - kind: the registered actor kind (derived from the implementing type).
//   - name: the unique instance identifier within that kind.
//
// ActorID values are immutable, comparable and safe for concurrent use. They
// are the sole key into the activation table.
type ActorID struct {
	kind string
	name string
}

// ensure ActorID implements the validation.Validator interface
var _ validation.Validator = (*ActorID)(nil)

// NewActorID constructs an ActorID from a kind and a unique name.
func NewActorID(kind, name string) ActorID {
	return ActorID{kind: kind, name: name}
}

// Kind returns the registered actor kind.
func (id ActorID) Kind() string {
	return id.kind
}

// Name returns the unique name of the actor instance within its kind.
func (id ActorID) Name() string {
	return id.name
}

// String returns the formatted string representation of the ActorID as
// "kind/name". Useful for logging and as a table key.
func (id ActorID) String() string {
	return id.kind + identitySeparator + id.name
}

// Equal checks whether this ActorID is equal to another.
func (id ActorID) Equal(other ActorID) bool {
	return id.kind == other.kind && id.name == other.name
}

// IsZero reports whether the identity carries neither kind nor name.
func (id ActorID) IsZero() bool {
	return id.kind == "" && id.name == ""
}

// Validate implements validation.Validator.
func (id ActorID) Validate() error {
	pattern := "^[a-zA-Z0-9][a-zA-Z0-9-_\\.]*$"
	customErr := errors.New("must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-', '_' or '.')")
	return validation.
		New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("kind", id.Kind())).
		AddValidator(validation.NewEmptyStringValidator("name", id.Name())).
		AddAssertion(len(id.Name()) <= 255, "actor name is too long. Maximum length is 255").
		AddValidator(validation.NewPatternValidator(pattern, strings.TrimSpace(id.Name()), customErr)).
		Validate()
}

// ParseActorID reconstructs an ActorID from its string representation.
func ParseActorID(s string) (ActorID, error) {
	parts := strings.SplitN(s, identitySeparator, 2)
	if len(parts) != 2 {
		return ActorID{}, gerrors.ErrInvalidActorID
	}
	id := ActorID{kind: parts[0], name: parts[1]}
	if err := id.Validate(); err != nil {
		return ActorID{}, gerrors.NewErrInvalidActorID(err)
	}
	return id, nil
}

// KindOf derives the kind name of an actor from its concrete type. The name is
// stable across processes running the same binary, which makes it a suitable
// routing key for the orchestrator.
func KindOf(actor Actor) string {
	rtype := reflect.TypeOf(actor)
	if rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}
	return strings.ToLower(strings.TrimSpace(rtype.String()))
}
