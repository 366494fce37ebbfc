// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package audit

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType identifies what happened to a user's session.
type EventType uint8

// Event types.
const (
	Login  EventType = 1
	Logout EventType = 2
)

// String returns the metric label for t.
func (t EventType) String() string {
	switch t {
	case Login:
		return "login"
	case Logout:
		return "logout"
	default:
		return "unknown"
	}
}

// Event is a single audit record.
type Event struct {
	ID        ulid.ULID `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an Event stamped at now.
func NewEvent(userID int64, eventType EventType, now time.Time) Event {
	now = now.UTC()
	return Event{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		UserID:    userID,
		Type:      eventType,
		Timestamp: now,
	}
}
