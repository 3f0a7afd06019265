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

// Package testutil holds channel helpers shared by the event bus and chain
// tests.
package testutil

import (
	"testing"
	"time"
)

// DefaultTimeout bounds every wait in the helpers below
const DefaultTimeout = time.Second

// RequireReceive waits for a value on ch or fails the test. A closed channel
// is a failure
func RequireReceive[T any](t *testing.T, ch <-chan T, msg string) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed while waiting: %s", msg)
		}
		return v
	case <-time.After(DefaultTimeout):
		t.Fatalf("timeout waiting for channel receive: %s", msg)
	}
	var zero T
	return zero
}

// RequireClosed waits for ch to be closed. Values received before the close
// fail the test
func RequireClosed[T any](t *testing.T, ch <-chan T, msg string) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value received on channel: %v: %s", v, msg)
		}
	case <-time.After(DefaultTimeout):
		t.Fatalf("channel was not closed: %s", msg)
	}
}

// RequireNoReceive fails the test when ch yields a value within d
func RequireNoReceive[T any](t *testing.T, ch <-chan T, d time.Duration, msg string) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value received on channel: %v: %s", v, msg)
		}
	case <-time.After(d):
	}
}

// RequireDone waits for done to be closed, failing the test after timeout
func RequireDone(t *testing.T, done <-chan struct{}, timeout time.Duration, msg string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("timeout: %s", msg)
	}
}
