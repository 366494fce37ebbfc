// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package audit records sign-in and sign-out events.
//
// Logger.Append never blocks the caller and never fails: events are queued
// on a buffered channel and written by a single background goroutine. A
// failed write falls back to a JSONL write-ahead log when one is
// configured, and ReplayWAL re-submits those events later.
package audit
