package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// EnvInt reads an integer; unset or malformed values give def.
func EnvInt(key string, def int) int {
	n, err := strconv.Atoi(EnvOrDefault(key, ""))
	if err != nil {
		return def
	}
	return n
}

func EnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(EnvOrDefault(key, ""))
	if err != nil {
		return def
	}
	return b
}

// EnvDuration accepts Go duration strings such as "30s" or "12h".
func EnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(EnvOrDefault(key, ""))
	if err != nil {
		return def
	}
	return d
}

// SplitList splits a comma separated value and drops empty items.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
