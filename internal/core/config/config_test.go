package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"anino/internal/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anino.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[scan]
output = "mocks/def.json"
targets = ["Books", " Authors "]

[scan.exclude]
dirs = ["bin", "obj", "generated*"]

[resolver]
wrapper_types = ["Task", "Envelope"]

[mock]
null_probability = 0.5
seed = 42

[server]
port = 8080
latency = 150
rate_limit = 20

[watch]
debounce = "1s"

[history]
enabled = true
path = "state/history.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scan.Output != "mocks/def.json" {
		t.Errorf("expected output mocks/def.json, got %s", cfg.Scan.Output)
	}
	if len(cfg.Scan.Targets) != 2 || cfg.Scan.Targets[1] != "Authors" {
		t.Errorf("unexpected targets %v", cfg.Scan.Targets)
	}
	if len(cfg.Resolver.WrapperTypes) != 2 || cfg.Resolver.WrapperTypes[1] != "Envelope" {
		t.Errorf("unexpected wrapper types %v", cfg.Resolver.WrapperTypes)
	}
	if cfg.Mock.NullProbability != 0.5 || cfg.Mock.Seed != 42 {
		t.Errorf("unexpected mock section %+v", cfg.Mock)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Latency != 150 {
		t.Errorf("unexpected server section %+v", cfg.Server)
	}
	if cfg.Server.Burst != 20 {
		t.Errorf("expected burst to default to the rate limit, got %d", cfg.Server.Burst)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if want := filepath.Join(filepath.Dir(path), "state", "history.db"); cfg.History.Path != want {
		t.Errorf("expected history path relative to the config file, got %s", cfg.History.Path)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Scan.Output != "anino-def.json" {
		t.Errorf("expected default output anino-def.json, got %s", cfg.Scan.Output)
	}
	if cfg.Mock.NullProbability != 0.2 {
		t.Errorf("expected null probability 0.2, got %v", cfg.Mock.NullProbability)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.Server.Port)
	}
	if len(cfg.Resolver.WrapperTypes) != len(DefaultWrapperTypes) {
		t.Errorf("expected default wrapper types, got %v", cfg.Resolver.WrapperTypes)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "port", content: "[server]\nport = 70000\n", want: "server.port"},
		{name: "probability", content: "[mock]\nnull_probability = 1.5\n", want: "mock.null_probability"},
		{name: "latency", content: "[server]\nlatency = -1\n", want: "server.latency"},
		{name: "glob", content: "[scan.exclude]\ndirs = [\"[\"]\n", want: "scan.exclude"},
		{name: "openapi", content: "[scan]\nopenapi = \"api.txt\"\n", want: "scan.openapi"},
		{name: "version", content: "version = 3\n", want: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Errorf("expected validation code, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateReportsEverySection(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Mock.NullProbability = -1

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "mock.null_probability"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error mentioning %q, got %v", want, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ANINO_SERVER_PORT", "9090")
	t.Setenv("ANINO_SCAN_TARGETS", "Books,Authors")
	t.Setenv("ANINO_MOCK_SEED", "7")
	t.Setenv("ANINO_WATCH_DEBOUNCE", "2s")
	t.Setenv("ANINO_HISTORY_ENABLED", "TRUE")

	cfg := Default()
	ApplyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.Scan.Targets) != 2 {
		t.Errorf("expected two targets, got %v", cfg.Scan.Targets)
	}
	if cfg.Mock.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Mock.Seed)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.Watch.Debounce)
	}
	if !cfg.History.Enabled {
		t.Error("expected history to be enabled")
	}
}

func TestApplyEnvOverridesIgnoresMalformed(t *testing.T) {
	t.Setenv("ANINO_SERVER_PORT", "not-a-port")
	cfg := Default()
	ApplyEnvOverrides(cfg)
	if cfg.Server.Port != 5000 {
		t.Errorf("expected malformed override to be ignored, got %d", cfg.Server.Port)
	}
}

func TestResolveRelative(t *testing.T) {
	if got := ResolveRelative("/base", "a/b"); got != filepath.Clean("/base/a/b") {
		t.Errorf("unexpected join %s", got)
	}
	if got := ResolveRelative("/base", "/abs/x"); got != filepath.Clean("/abs/x") {
		t.Errorf("absolute path should be kept, got %s", got)
	}
}
