package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver          string
	DBDSN             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr    string
	PageCacheTTL time.Duration

	KafkaBrokers   []string
	KafkaTopic     string
	OutboxInterval time.Duration
	OutboxBatch    int

	CORSOrigin         string
	PublicBaseURL      string
	RateLimitPerSecond int

	SuperAdminEmail    string
	SuperAdminPassword string
}

func Load() Config {
	return Config{
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "debug"),

		DBDriver:          strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBDSN:             getenv("DB_DSN", "table_ordering.db"),
		DBMaxOpenConns:    getint("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getint("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getduration("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		JWTSecret: getenv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:    getduration("JWT_TTL", 24*time.Hour),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		PageCacheTTL: getduration("PAGE_CACHE_TTL", 30*time.Second),

		KafkaBrokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getenv("KAFKA_TOPIC", "table-ordering.events"),
		OutboxInterval: getduration("OUTBOX_INTERVAL", 2*time.Second),
		OutboxBatch:    getint("OUTBOX_BATCH", 100),

		CORSOrigin:         getenv("CORS_ORIGIN", "*"),
		PublicBaseURL:      strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		RateLimitPerSecond: getint("RATE_LIMIT_PER_SECOND", 50),

		SuperAdminEmail:    os.Getenv("SUPERADMIN_EMAIL"),
		SuperAdminPassword: os.Getenv("SUPERADMIN_PASSWORD"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getduration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
