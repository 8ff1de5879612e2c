package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: ANINO_[SECTION]_[KEY] (e.g., ANINO_SERVER_PORT).
func ApplyEnvOverrides(cfg *Config) {
	// Scan
	setEnvString(&cfg.Scan.Output, "ANINO_SCAN_OUTPUT")
	setEnvString(&cfg.Scan.OpenAPI, "ANINO_SCAN_OPENAPI")
	setEnvString(&cfg.Scan.Report, "ANINO_SCAN_REPORT")
	setEnvList(&cfg.Scan.Targets, "ANINO_SCAN_TARGETS")
	setEnvInt(&cfg.Scan.Workers, "ANINO_SCAN_WORKERS")

	// Resolver
	setEnvBool(&cfg.Resolver.SyntaxOnly, "ANINO_RESOLVER_SYNTAX_ONLY")

	// Mock
	setEnvFloat64(&cfg.Mock.NullProbability, "ANINO_MOCK_NULL_PROBABILITY")
	setEnvInt64(&cfg.Mock.Seed, "ANINO_MOCK_SEED")

	// Server
	setEnvInt(&cfg.Server.Port, "ANINO_SERVER_PORT")
	setEnvInt(&cfg.Server.Latency, "ANINO_SERVER_LATENCY")
	setEnvFloat64(&cfg.Server.RateLimit, "ANINO_SERVER_RATE_LIMIT")
	setEnvInt(&cfg.Server.Burst, "ANINO_SERVER_BURST")
	setEnvString(&cfg.Server.MetricsPath, "ANINO_SERVER_METRICS_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "ANINO_WATCH_DEBOUNCE")

	// History
	setEnvBool(&cfg.History.Enabled, "ANINO_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "ANINO_HISTORY_PATH")

	// Observability
	setEnvString(&cfg.Observability.OTLPEndpoint, "ANINO_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = strings.Split(val, ",")
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvInt64(target *int64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
