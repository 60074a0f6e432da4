// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AdminToken    string
}

// Postgres captures the relational store configuration. An empty DSN selects
// the in-memory store.
type Postgres struct {
	DSN string
}

// Redis captures the cache configuration. An empty URL disables caching.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// Kafka captures the event stream configuration. No brokers disables the
// stream sink; the audit log still records every event.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Chain captures the ledger sequencer configuration.
type Chain struct {
	GenesisHeight uint64
}

// Limits are the deployment-fixed maximum byte lengths for member text
// fields. Defaults mirror the reference deployment; shrinking them does not
// touch records written under looser limits.
type Limits struct {
	MaxFirstNameLen int
	MaxLastNameLen  int
	MaxEmailLen     int
	MaxAddressLen   int
	MaxMobileLen    int
}

// Config is the full runtime configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Chain    Chain
	Limits   Limits
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("ROLLBOOK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Config{
		Server: Server{
			Addr:          addr,
			JWTSigningKey: jwtSigningKey,
			JWTIssuer:     envOr("JWT_ISSUER", "rollbook"),
			JWTAudience:   envOr("JWT_AUDIENCE", "rollbook"),
			AdminToken:    os.Getenv("ADMIN_TOKEN"),
		},
		Postgres: Postgres{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("MEMBER_CACHE_TTL", 5*time.Minute),
		},
		Kafka: Kafka{
			Brokers: brokers,
			Topic:   envOr("KAFKA_TOPIC", "rollbook.member.events"),
		},
		Chain: Chain{
			GenesisHeight: uint64(envInt("CHAIN_GENESIS_HEIGHT", 0)),
		},
		Limits: Limits{
			MaxFirstNameLen: envInt("MEMBER_MAX_FIRST_NAME_LEN", 50),
			MaxLastNameLen:  envInt("MEMBER_MAX_LAST_NAME_LEN", 50),
			MaxEmailLen:     envInt("MEMBER_MAX_EMAIL_LEN", 100),
			MaxAddressLen:   envInt("MEMBER_MAX_ADDRESS_LEN", 200),
			MaxMobileLen:    envInt("MEMBER_MAX_MOBILE_LEN", 20),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
