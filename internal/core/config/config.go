package config

import "time"

// DefaultFile is looked up in the working directory when no --config flag is
// given. A missing default file is not an error.
const DefaultFile = "anino.toml"

type Config struct {
	Version       int           `toml:"version"`
	Scan          Scan          `toml:"scan"`
	Resolver      Resolver      `toml:"resolver"`
	Mock          Mock          `toml:"mock"`
	Server        Server        `toml:"server"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Scan struct {
	Output  string   `toml:"output"`
	OpenAPI string   `toml:"openapi"`
	Report  string   `toml:"report"`
	Targets []string `toml:"targets"`
	Workers int      `toml:"workers"`
	Exclude Exclude  `toml:"exclude"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Resolver struct {
	WrapperTypes     []string `toml:"wrapper_types"`
	CommonNamespaces []string `toml:"common_namespaces"`
	SyntaxOnly       bool     `toml:"syntax_only"`
}

type Mock struct {
	NullProbability float64 `toml:"null_probability"`
	Seed            int64   `toml:"seed"`
}

type Server struct {
	Port        int           `toml:"port"`
	Latency     int           `toml:"latency"`
	RateLimit   float64       `toml:"rate_limit"`
	Burst       int           `toml:"burst"`
	MetricsPath string        `toml:"metrics_path"`
	ReadTimeout time.Duration `toml:"read_timeout"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// DefaultWrapperTypes are the single-argument envelopes unwrapped before a
// return type is classified.
var DefaultWrapperTypes = []string{
	"ActionResult",
	"IActionResult",
	"Task",
	"ValueTask",
	"Response",
	"Result",
	"ApiResponse",
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
