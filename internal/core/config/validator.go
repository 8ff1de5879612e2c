package config

import (
	"fmt"
	"strings"

	"anino/internal/core/errors"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
)

// Validate checks value ranges and that every exclude pattern compiles. All
// failing sections are reported together.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateScan,
		validateMock,
		validateServer,
	}
	var result error
	for _, check := range checks {
		if err := check(cfg); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		return errors.Wrap(result, errors.CodeValidationError, "invalid config")
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	if cfg.Scan.Output == "" {
		return fmt.Errorf("scan.output must not be empty")
	}
	if cfg.Scan.OpenAPI != "" && !hasAnySuffix(cfg.Scan.OpenAPI, ".json", ".yaml", ".yml") {
		return fmt.Errorf("scan.openapi must end in .json, .yaml or .yml, got %q", cfg.Scan.OpenAPI)
	}
	for _, pattern := range append(append([]string(nil), cfg.Scan.Exclude.Dirs...), cfg.Scan.Exclude.Files...) {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("scan.exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateMock(cfg *Config) error {
	p := cfg.Mock.NullProbability
	if p < 0 || p > 1 {
		return fmt.Errorf("mock.null_probability must be within [0, 1], got %v", p)
	}
	return nil
}

func validateServer(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within 1-65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.Latency < 0 {
		return fmt.Errorf("server.latency must not be negative, got %d", cfg.Server.Latency)
	}
	if cfg.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %v", cfg.Server.RateLimit)
	}
	return nil
}

func hasAnySuffix(s string, suffixes ...string) bool {
	lower := strings.ToLower(s)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
