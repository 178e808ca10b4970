package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("OUTBOX_INTERVAL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Second, cfg.OutboxInterval)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("OUTBOX_BATCH", "25")
	t.Setenv("PAGE_CACHE_TTL", "1m")
	t.Setenv("PUBLIC_BASE_URL", "https://order.example.com/")

	cfg := Load()
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 25, cfg.OutboxBatch)
	assert.Equal(t, time.Minute, cfg.PageCacheTTL)
	assert.Equal(t, "https://order.example.com", cfg.PublicBaseURL)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("JWT_TTL", "-5h")

	cfg := Load()
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := dialector(Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
