// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Error kinds. Every condition error returned by a component matches exactly
// one of these with errors.Is
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidState          = errors.New("invalid state")
	ErrCapacityExceeded      = errors.New("capacity exceeded")
	ErrForbidden             = errors.New("forbidden")
	ErrExternalDependency    = errors.New("external dependency failure")
	ErrUpstreamInconsistency = errors.New("upstream inconsistency")
)

var (
	ErrNotOwner           = NewError(ErrUnauthorized, "caller is not the owner")
	ErrAlreadyInitialized = NewError(ErrInvalidState, "already initialized")
	ErrNotInitialized     = NewError(ErrInvalidState, "not initialized")
	ErrUnknownKind        = errors.New("unknown component kind")
	ErrNoComponent        = NewError(ErrInvalidArgument, "no component at address")
	ErrWrongKind          = NewError(ErrInvalidArgument, "component has the wrong kind")
)

// Error is a stable condition error of a given kind
type Error struct {
	kind error
	msg  string
}

// NewError returns a condition error with a stable message
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the error kind
func (e *Error) Kind() error {
	return e.kind
}

func (e *Error) Unwrap() error {
	return e.kind
}

// MissingRoleError is returned when an account lacks a required role
type MissingRoleError struct {
	Account common.Address
	Role    common.Hash
}

func (e MissingRoleError) Error() string {
	return fmt.Sprintf(
		"account %s is missing role %s",
		e.Account.Hex(),
		e.Role.Hex(),
	)
}

func (e MissingRoleError) Unwrap() error {
	return ErrUnauthorized
}

// KindOf returns the error kind of err, or nil when err has none
func KindOf(err error) error {
	for _, kind := range []error{
		ErrUnauthorized,
		ErrInvalidArgument,
		ErrInvalidState,
		ErrCapacityExceeded,
		ErrForbidden,
		ErrExternalDependency,
		ErrUpstreamInconsistency,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
