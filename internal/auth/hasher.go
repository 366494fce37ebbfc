// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2KeyLen  = 32        // output length in bytes
)

// MinPepperLength is the shortest pepper NewArgon2idHasher accepts.
const MinPepperLength = 16

// CredentialHasher maps a plaintext credential to its stored form.
// Implementations must be deterministic: the same input always yields the
// same output for the lifetime of the deployment.
type CredentialHasher interface {
	Hash(plaintext string) string
}

// HasherOption configures an Argon2idHasher.
type HasherOption func(*Argon2idHasher)

// WithArgon2Params overrides the argon2id cost parameters.
func WithArgon2Params(time, memoryKiB uint32, threads uint8) HasherOption {
	return func(h *Argon2idHasher) {
		h.time = time
		h.memory = memoryKiB
		h.threads = threads
	}
}

// Argon2idHasher implements CredentialHasher using argon2id with a
// deployment-wide pepper as the salt.
type Argon2idHasher struct {
	pepper  []byte
	time    uint32
	memory  uint32
	threads uint8
	prefix  string
}

// NewArgon2idHasher creates an Argon2idHasher keyed with pepper.
func NewArgon2idHasher(pepper []byte, opts ...HasherOption) (*Argon2idHasher, error) {
	if len(pepper) < MinPepperLength {
		return nil, oops.Code("AUTH_INVALID_PEPPER").
			With("min_length", MinPepperLength).
			Errorf("pepper must be at least %d bytes", MinPepperLength)
	}

	h := &Argon2idHasher{
		pepper:  append([]byte(nil), pepper...),
		time:    argon2Time,
		memory:  argon2Memory,
		threads: argon2Threads,
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.time == 0 || h.threads == 0 {
		return nil, oops.Code("AUTH_INVALID_HASH_PARAMS").
			With("time", h.time).
			With("threads", h.threads).
			Errorf("argon2 time and threads must be positive")
	}
	// argon2 silently raises memory below 8*threads.
	if h.memory < 8*uint32(h.threads) {
		return nil, oops.Code("AUTH_INVALID_HASH_PARAMS").
			With("memory_kib", h.memory).
			Errorf("argon2 memory must be at least %d KiB", 8*uint32(h.threads))
	}

	// $argon2id$v=19$m=65536,t=1,p=4$
	h.prefix = fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$",
		argon2.Version, h.memory, h.time, h.threads)

	return h, nil
}

// Hash returns the encoded argon2id digest of plaintext.
func (h *Argon2idHasher) Hash(plaintext string) string {
	key := argon2.IDKey([]byte(plaintext), h.pepper, h.time, h.memory, h.threads, argon2KeyLen)
	return h.prefix + base64.RawStdEncoding.EncodeToString(key)
}
