// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package result provides a two-way outcome value for expected failures.
//
// A Result carries either a success value or a human-readable failure
// message, never both. Workflows return a Result for outcomes the caller
// is expected to handle (bad input, no match) and reserve error for
// unexpected faults.
package result

// emptyMessage is reported by the zero Result.
const emptyMessage = "empty result"

// Result holds either a value of type T or a failure message.
type Result[T any] struct {
	value T
	msg   string
	ok    bool
}

// Success returns a successful Result holding v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure returns a failed Result with the given message.
// An empty message is replaced so a failure is never silent.
func Failure[T any](msg string) Result[T] {
	if msg == "" {
		msg = emptyMessage
	}
	return Result[T]{msg: msg}
}

// FailureFrom re-types a failed Result. Passing a successful Result
// yields the zero Result of the target type.
func FailureFrom[T, U any](r Result[U]) Result[T] {
	if r.ok {
		return Result[T]{}
	}
	return Failure[T](r.Message())
}

// IsSuccess reports whether r holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// Value returns the held value and whether r is a success.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Message returns the failure message, or "" for a success.
func (r Result[T]) Message() string {
	if r.ok {
		return ""
	}
	if r.msg == "" {
		return emptyMessage
	}
	return r.msg
}

// Match calls exactly one of onSuccess or onError. Nil callbacks are skipped.
func (r Result[T]) Match(onSuccess func(T), onError func(string)) {
	if r.ok {
		if onSuccess != nil {
			onSuccess(r.value)
		}
		return
	}
	if onError != nil {
		onError(r.Message())
	}
}
