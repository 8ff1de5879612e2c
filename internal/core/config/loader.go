package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"anino/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "cannot read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg, filepath.Dir(path))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it is set. With an empty path the default
// file is used if present, otherwise built-in defaults.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	cfg := Default()
	ApplyEnvOverrides(cfg)
	normalize(cfg, ".")
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Scan.Output) == "" {
		cfg.Scan.Output = "anino-def.json"
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = runtime.NumCPU()
	}
	if len(cfg.Scan.Exclude.Dirs) == 0 {
		cfg.Scan.Exclude.Dirs = []string{"bin", "obj", ".git", "node_modules"}
	}

	if len(cfg.Resolver.WrapperTypes) == 0 {
		cfg.Resolver.WrapperTypes = append([]string(nil), DefaultWrapperTypes...)
	}

	if cfg.Mock.NullProbability == 0 {
		cfg.Mock.NullProbability = 0.2
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.Burst <= 0 && cfg.Server.RateLimit > 0 {
		cfg.Server.Burst = int(cfg.Server.RateLimit)
		if cfg.Server.Burst < 1 {
			cfg.Server.Burst = 1
		}
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = filepath.Join(".anino", "history.db")
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "anino"
	}
}

func normalize(cfg *Config, baseDir string) {
	cfg.Scan.Output = strings.TrimSpace(cfg.Scan.Output)
	cfg.Scan.OpenAPI = strings.TrimSpace(cfg.Scan.OpenAPI)
	cfg.Scan.Report = strings.TrimSpace(cfg.Scan.Report)
	cfg.Scan.Targets = trimAll(cfg.Scan.Targets)
	cfg.Resolver.WrapperTypes = trimAll(cfg.Resolver.WrapperTypes)
	cfg.Resolver.CommonNamespaces = trimAll(cfg.Resolver.CommonNamespaces)
	cfg.Server.MetricsPath = strings.TrimSpace(cfg.Server.MetricsPath)
	if cfg.Server.MetricsPath != "" && !strings.HasPrefix(cfg.Server.MetricsPath, "/") {
		cfg.Server.MetricsPath = "/" + cfg.Server.MetricsPath
	}
	cfg.History.Path = ResolveRelative(baseDir, cfg.History.Path)
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ResolveRelative joins path onto base unless it is already absolute.
func ResolveRelative(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}
