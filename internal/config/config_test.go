package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8082", cfg.HTTPAddr)
	assert.Equal(t, "inventory-api", cfg.ServiceName)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("TOKEN_TTL_HOURS", "2")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
}

func TestTokenTTLIgnoresJunk(t *testing.T) {
	t.Setenv("TOKEN_TTL_HOURS", "-5")
	assert.Equal(t, 24*time.Hour, Load().TokenTTL)

	t.Setenv("TOKEN_TTL_HOURS", "soon")
	assert.Equal(t, 24*time.Hour, Load().TokenTTL)
}
