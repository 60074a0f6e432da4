package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "rollbook", cfg.Server.JWTIssuer)
	assert.Equal(t, "rollbook.member.events", cfg.Kafka.Topic)
	assert.Equal(t, uint64(0), cfg.Chain.GenesisHeight)

	assert.Equal(t, 50, cfg.Limits.MaxFirstNameLen)
	assert.Equal(t, 50, cfg.Limits.MaxLastNameLen)
	assert.Equal(t, 100, cfg.Limits.MaxEmailLen)
	assert.Equal(t, 200, cfg.Limits.MaxAddressLen)
	assert.Equal(t, 20, cfg.Limits.MaxMobileLen)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ROLLBOOK_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("MEMBER_MAX_FIRST_NAME_LEN", "64")
	t.Setenv("MEMBER_MAX_MOBILE_LEN", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 64, cfg.Limits.MaxFirstNameLen)
	// Unparseable values fall back to the default.
	assert.Equal(t, 20, cfg.Limits.MaxMobileLen)
}
