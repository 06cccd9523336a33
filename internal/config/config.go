package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr        string
	StripeSecretKey string
	StripeAPIBase   string
	RedisAddr       string   // empty: in-memory cart store
	KafkaBrokers    []string // empty: no event publishing
	ServiceName     string
}

func Load() Config {
	return Config{
		HTTPAddr:        ":" + getenv("PORT", "3001"),
		StripeSecretKey: getenv("STRIPE_SECRET_KEY", ""),
		StripeAPIBase:   getenv("STRIPE_API_BASE", "https://api.stripe.com"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		KafkaBrokers:    splitCSV(getenv("KAFKA_BROKERS", "")),
		ServiceName:     getenv("SERVICE_NAME", "velocity-api"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
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
