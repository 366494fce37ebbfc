// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/oops"
)

// Defaults for NewLogger.
const (
	DefaultBufferSize   = 1000
	DefaultWriteTimeout = 5 * time.Second
)

// Writer is the backend an audit Logger writes to.
type Writer interface {
	Write(ctx context.Context, event Event) error
	Close() error
}

var (
	eventsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_audit_events_total",
		Help: "Total number of audit events written",
	}, []string{"type"})

	droppedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_audit_dropped_total",
		Help: "Total number of audit events dropped",
	})

	failuresCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_audit_failures_total",
		Help: "Total number of audit logging failures",
	}, []string{"reason"})
)

// Option configures a Logger.
type Option func(*Logger)

// WithBufferSize sets the queue length. Values below 1 are ignored.
func WithBufferSize(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.bufferSize = n
		}
	}
}

// WithWALPath enables the write-ahead log at path.
func WithWALPath(path string) Option {
	return func(l *Logger) {
		l.walPath = path
	}
}

// WithWriteTimeout bounds each call to the Writer.
func WithWriteTimeout(d time.Duration) Option {
	return func(l *Logger) {
		if d > 0 {
			l.writeTimeout = d
		}
	}
}

// WithLogger sets the logger used for audit failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock sets the time source for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

type pending struct {
	ctx   context.Context
	event Event
}

// Logger queues audit events and writes them in the background.
type Logger struct {
	writer       Writer
	walPath      string
	walFile      *os.File
	walMu        sync.Mutex
	bufferSize   int
	writeTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time

	queue     chan pending
	stopChan  chan struct{}
	wg        sync.WaitGroup
	stateMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// NewLogger starts a Logger writing to writer.
func NewLogger(writer Writer, opts ...Option) (*Logger, error) {
	if writer == nil {
		return nil, oops.Code("AUDIT_INVALID_CONFIG").Errorf("audit writer is required")
	}

	l := &Logger{
		writer:       writer,
		bufferSize:   DefaultBufferSize,
		writeTimeout: DefaultWriteTimeout,
		logger:       slog.Default(),
		now:          time.Now,
		stopChan:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.queue = make(chan pending, l.bufferSize)

	l.wg.Add(1)
	go l.consume()

	return l, nil
}

// Append records that userID logged in or out. It returns immediately.
// The event is dropped if the queue is full or the logger is closed.
func (l *Logger) Append(ctx context.Context, userID int64, eventType EventType) {
	event := NewEvent(userID, eventType, l.now())

	l.stateMu.RLock()
	defer l.stateMu.RUnlock()
	if l.closed {
		l.drop(ctx, event, "logger closed")
		return
	}

	select {
	case l.queue <- pending{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		l.drop(ctx, event, "queue full")
	}
}

func (l *Logger) drop(ctx context.Context, event Event, reason string) {
	droppedCounter.Inc()
	l.logger.WarnContext(ctx, "audit event dropped",
		"reason", reason,
		"event_id", event.ID.String(),
		"user_id", event.UserID,
		"type", event.Type.String(),
	)
}

func (l *Logger) consume() {
	defer l.wg.Done()

	for {
		select {
		case p := <-l.queue:
			l.handle(p)
		case <-l.stopChan:
			l.drain()
			return
		}
	}
}

func (l *Logger) drain() {
	for {
		select {
		case p := <-l.queue:
			l.handle(p)
		default:
			return
		}
	}
}

func (l *Logger) handle(p pending) {
	err := l.write(p.ctx, p.event)
	if err == nil {
		return
	}

	failuresCounter.WithLabelValues("write_failed").Inc()
	if l.walPath == "" {
		l.logger.ErrorContext(p.ctx, "audit write failed",
			"error", err,
			"event_id", p.event.ID.String(),
			"user_id", p.event.UserID,
		)
		droppedCounter.Inc()
		return
	}

	if walErr := l.writeToWAL(p.event); walErr != nil {
		l.logger.ErrorContext(p.ctx, "audit write failed: both writer and WAL failed",
			"write_error", err,
			"wal_error", walErr,
			"event_id", p.event.ID.String(),
			"user_id", p.event.UserID,
		)
		failuresCounter.WithLabelValues("wal_failed").Inc()
		droppedCounter.Inc()
	}
}

// write calls the Writer with a timeout and turns a panic into an error.
func (l *Logger) write(ctx context.Context, event Event) (err error) {
	ctx, cancel := context.WithTimeout(ctx, l.writeTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			failuresCounter.WithLabelValues("panic").Inc()
			err = oops.Code("AUDIT_WRITER_PANIC").
				With("event_id", event.ID.String()).
				Errorf("audit writer panicked: %v", r)
		}
	}()

	if err := l.writer.Write(ctx, event); err != nil {
		return oops.Code("AUDIT_WRITE_FAILED").
			With("event_id", event.ID.String()).
			Wrap(err)
	}
	eventsCounter.WithLabelValues(event.Type.String()).Inc()
	return nil
}

// writeToWAL appends an event to the write-ahead log.
func (l *Logger) writeToWAL(event Event) error {
	l.walMu.Lock()
	defer l.walMu.Unlock()

	if l.walFile == nil {
		file, err := os.OpenFile(l.walPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY|os.O_SYNC, 0o600)
		if err != nil {
			return oops.With("path", l.walPath).Wrap(err)
		}
		l.walFile = file
	}

	data, err := json.Marshal(event)
	if err != nil {
		return oops.Wrap(err)
	}

	if _, err := fmt.Fprintf(l.walFile, "%s\n", data); err != nil {
		return oops.With("path", l.walPath).Wrap(err)
	}
	return nil
}

// ReplayWAL writes every WAL event to the Writer and returns how many
// succeeded. Events that still fail stay in the WAL.
func (l *Logger) ReplayWAL(ctx context.Context) (int, error) {
	if l.walPath == "" {
		return 0, nil
	}

	l.walMu.Lock()
	defer l.walMu.Unlock()

	data, err := os.ReadFile(l.walPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, oops.Code("AUDIT_WAL_READ_FAILED").With("path", l.walPath).Wrap(err)
	}
	if len(data) == 0 {
		return 0, nil
	}

	var remaining bytes.Buffer
	replayed := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			l.logger.ErrorContext(ctx, "failed to unmarshal WAL entry", "error", err)
			failuresCounter.WithLabelValues("wal_unmarshal_failed").Inc()
			continue
		}

		if err := l.write(ctx, event); err != nil {
			l.logger.ErrorContext(ctx, "failed to replay WAL entry",
				"error", err,
				"event_id", event.ID.String(),
			)
			failuresCounter.WithLabelValues("wal_replay_failed").Inc()
			remaining.Write(line)
			remaining.WriteByte('\n')
			continue
		}
		replayed++
	}
	if err := scanner.Err(); err != nil {
		return replayed, oops.Code("AUDIT_WAL_READ_FAILED").With("path", l.walPath).Wrap(err)
	}

	if err := os.WriteFile(l.walPath, remaining.Bytes(), 0o600); err != nil {
		return replayed, oops.Code("AUDIT_WAL_TRUNCATE_FAILED").With("path", l.walPath).Wrap(err)
	}

	l.logger.InfoContext(ctx, "replayed WAL entries", "count", replayed)
	return replayed, nil
}

// Close drains queued events and closes the Writer and WAL.
// Subsequent Appends are dropped. Close is idempotent.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		l.stateMu.Lock()
		l.closed = true
		l.stateMu.Unlock()

		close(l.stopChan)
		l.wg.Wait()

		if err := l.writer.Close(); err != nil {
			l.closeErr = oops.Code("AUDIT_CLOSE_FAILED").Wrap(err)
		}

		l.walMu.Lock()
		defer l.walMu.Unlock()
		if l.walFile != nil {
			if err := l.walFile.Close(); err != nil && l.closeErr == nil {
				l.closeErr = oops.Code("AUDIT_CLOSE_FAILED").With("path", l.walPath).Wrap(err)
			}
			l.walFile = nil
		}
	})
	return l.closeErr
}
