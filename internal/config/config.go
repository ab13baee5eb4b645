package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration. Each field maps to one
// environment variable; a .env file is honored when present.
type Config struct {
	Port        string // HTTP port to listen on
	DatabaseURL string // postgres DSN or sqlite file path
	RedisAddr   string // optional, enables catalog response caching
	CacheTTLSec int    // cache entry lifetime in seconds
}

// Load reads configuration from the environment. DATABASE_URL is the
// only required variable.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CacheTTLSec: getenvInt("CACHE_TTL_SEC", 60),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
