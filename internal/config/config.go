// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package config loads Warden configuration from defaults, a YAML file and
// command-line flags, in increasing order of precedence.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/wardenhq/warden/internal/audit"
	"github.com/wardenhq/warden/internal/auth"
)

// Environment variables read as defaults.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvSigningKey  = "WARDEN_SIGNING_KEY"
	EnvPepper      = "WARDEN_PEPPER"
)

// Config is the full Warden configuration.
type Config struct {
	DatabaseURL string      `koanf:"database_url"`
	LogFormat   string      `koanf:"log_format" jsonschema:"enum=json,enum=text"`
	LogLevel    string      `koanf:"log_level"`
	Token       TokenConfig `koanf:"token"`
	Hash        HashConfig  `koanf:"hash"`
	Audit       AuditConfig `koanf:"audit"`
}

// TokenConfig configures session token issuance.
type TokenConfig struct {
	SigningKey string        `koanf:"signing_key"`
	Issuer     string        `koanf:"issuer"`
	TTL        time.Duration `koanf:"ttl"`
}

// HashConfig configures credential hashing.
type HashConfig struct {
	Pepper    string `koanf:"pepper"`
	Time      uint32 `koanf:"time"`
	MemoryKiB uint32 `koanf:"memory_kib"`
	Threads   uint8  `koanf:"threads"`
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	Buffer       int           `koanf:"buffer" jsonschema:"minimum=1"`
	WALPath      string        `koanf:"wal_path"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

func defaults() map[string]any {
	return map[string]any{
		"database_url":        os.Getenv(EnvDatabaseURL),
		"log_format":          "json",
		"log_level":           "info",
		"token.signing_key":   os.Getenv(EnvSigningKey),
		"token.issuer":        "warden",
		"token.ttl":           "0s",
		"hash.pepper":         os.Getenv(EnvPepper),
		"hash.time":           1,
		"hash.memory_kib":     64 * 1024,
		"hash.threads":        4,
		"audit.buffer":        audit.DefaultBufferSize,
		"audit.wal_path":      "",
		"audit.write_timeout": audit.DefaultWriteTimeout.String(),
	}
}

// flagKeys maps command-line flag names to configuration keys.
// Secrets are deliberately absent.
var flagKeys = map[string]string{
	"database-url":        "database_url",
	"log-format":          "log_format",
	"log-level":           "log_level",
	"token-issuer":        "token.issuer",
	"token-ttl":           "token.ttl",
	"hash-time":           "hash.time",
	"hash-memory-kib":     "hash.memory_kib",
	"hash-threads":        "hash.threads",
	"audit-buffer":        "audit.buffer",
	"audit-wal-path":      "audit.wal_path",
	"audit-write-timeout": "audit.write_timeout",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL connection string (default $DATABASE_URL)")
	fs.String("log-format", "json", "log format (json or text)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("token-issuer", "warden", "iss claim of issued tokens")
	fs.Duration("token-ttl", 0, "token lifetime (0 = no expiry)")
	fs.Uint32("hash-time", 1, "argon2id iterations")
	fs.Uint32("hash-memory-kib", 64*1024, "argon2id memory in KiB")
	fs.Uint8("hash-threads", 4, "argon2id parallelism")
	fs.Int("audit-buffer", audit.DefaultBufferSize, "audit queue length")
	fs.String("audit-wal-path", "", "audit write-ahead log path (empty = disabled)")
	fs.Duration("audit-write-timeout", audit.DefaultWriteTimeout, "timeout for each audit write")
}

// Load builds a Config. path may be empty; flags may be nil. The file must
// match GenerateSchema. Only flags that were set on the command line
// override the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("key", key).Wrap(err)
		}
	}

	if path != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
		if err := validateRaw(path, fk.Raw()); err != nil {
			return nil, err
		}
		if err := k.Merge(fk); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(name, value string) (string, any) {
			return flagKeys[name], value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
	}
	return &cfg, nil
}

// Invalid returns a CONFIG_INVALID error naming key.
func Invalid(key, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
}

// Validate checks that the configuration is usable. The database URL is
// checked by commands that need it.
func (c *Config) Validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return Invalid("log_format", "log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return Invalid("log_level", "log_level %q is not a valid level", c.LogLevel)
	}
	if len(c.Token.SigningKey) < auth.MinSigningKeyLength {
		return Invalid("token.signing_key", "token.signing_key must be at least %d bytes", auth.MinSigningKeyLength)
	}
	if c.Token.TTL < 0 {
		return Invalid("token.ttl", "token.ttl cannot be negative")
	}
	if len(c.Hash.Pepper) < auth.MinPepperLength {
		return Invalid("hash.pepper", "hash.pepper must be at least %d bytes", auth.MinPepperLength)
	}
	if c.Hash.Time == 0 || c.Hash.Threads == 0 {
		return Invalid("hash", "hash.time and hash.threads must be positive")
	}
	if c.Hash.MemoryKiB < 8*uint32(c.Hash.Threads) {
		return Invalid("hash.memory_kib", "hash.memory_kib must be at least %d", 8*uint32(c.Hash.Threads))
	}
	if c.Audit.Buffer < 1 {
		return Invalid("audit.buffer", "audit.buffer must be positive")
	}
	if c.Audit.WriteTimeout <= 0 {
		return Invalid("audit.write_timeout", "audit.write_timeout must be positive")
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel)))
	return level, err //nolint:wrapcheck // parse error is reported by Validate
}
