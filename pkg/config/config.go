// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// OIDC / JWT used to authenticate principals
	Issuer   string
	Audience string
	JWKSURL  string

	// Optional YAML file overriding the built-in permission catalog
	CatalogPath string

	// How long resolved staff bindings may be served from Redis
	StaffCacheTTL time.Duration

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:           env("STOREAUTH_ENV", "dev"),
		HTTPAddr:      env("STOREAUTH_HTTP_ADDR", ":8080"),
		Issuer:        env("OIDC_ISSUER", ""),
		Audience:      env("OIDC_AUDIENCE", "storeauth"),
		JWKSURL:       env("JWKS_URL", ""),
		CatalogPath:   env("PERMISSION_CATALOG_PATH", ""),
		StaffCacheTTL: envDur("STAFF_CACHE_TTL_SEC", 30) * time.Second,
		RedisURL:      env("REDIS_URL", ""),
		DatabaseURL:   env("DATABASE_URL", ""),
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set — using in-memory providers for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
