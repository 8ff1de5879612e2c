package cli

import (
	"flag"
	"fmt"
	"strings"
)

const versionString = "1.0.0"

const usage = `Usage:
  anino [--config file] [--verbose] <command> [options]

Commands:
  scan <paths...>   Scan C# projects or sources and write a mock definition
  server --def f    Serve a mock definition
  def new           Write a sample CRUD definition
  history           List recent scans of a definition
  version           Print the version
`

type globalOptions struct {
	configPath string
	verbose    bool
	version    bool
	command    string
	args       []string
}

func parseGlobal(args []string) (globalOptions, error) {
	var opts globalOptions
	fs := flag.NewFlagSet("anino", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ./anino.toml when present)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return globalOptions{}, err
	}
	rest := fs.Args()
	if len(rest) > 0 {
		opts.command = rest[0]
		opts.args = rest[1:]
	}
	return opts, nil
}

type scanOptions struct {
	output  string
	targets stringList
	openAPI string
	report  string
	watch   bool
	inputs  []string
}

func parseScanOptions(args []string) (scanOptions, error) {
	var opts scanOptions
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&opts.output, "output", "", "Output definition file (default anino-def.json)")
	fs.StringVar(&opts.output, "o", "", "Shorthand for --output")
	fs.Var(&opts.targets, "target", "Controller or group to scan; repeatable, comma separated")
	fs.Var(&opts.targets, "t", "Shorthand for --target")
	fs.StringVar(&opts.openAPI, "openapi", "", "Also write an OpenAPI 3 document (.json, .yaml or .yml)")
	fs.StringVar(&opts.report, "report", "", "Also write a scan report (.md, or .tsv); an existing markdown file with anino:endpoints markers gets only that section replaced")
	fs.BoolVar(&opts.watch, "watch", false, "Rescan when sources change")

	inputs, err := parseInterleaved(fs, args)
	if err != nil {
		return scanOptions{}, err
	}
	if len(inputs) == 0 {
		return scanOptions{}, fmt.Errorf("scan requires at least one project, source file or directory")
	}
	opts.inputs = inputs
	return opts, nil
}

type serverOptions struct {
	def       string
	port      int
	latency   int
	rateLimit float64
	metrics   string
}

func parseServerOptions(args []string) (serverOptions, error) {
	var opts serverOptions
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&opts.def, "def", "", "Path to the JSON definition file")
	fs.StringVar(&opts.def, "d", "", "Shorthand for --def")
	fs.IntVar(&opts.port, "port", 0, "Server port (default from config, 5000)")
	fs.IntVar(&opts.port, "p", 0, "Shorthand for --port")
	fs.IntVar(&opts.latency, "latency", -1, "Simulated latency in milliseconds")
	fs.IntVar(&opts.latency, "l", -1, "Shorthand for --latency")
	fs.Float64Var(&opts.rateLimit, "rate-limit", -1, "Requests per second per client; 0 disables")
	fs.StringVar(&opts.metrics, "metrics", "", "Serve Prometheus metrics on this path")

	rest, err := parseInterleaved(fs, args)
	if err != nil {
		return serverOptions{}, err
	}
	if opts.def == "" && len(rest) == 1 {
		opts.def = rest[0]
	}
	if strings.TrimSpace(opts.def) == "" {
		return serverOptions{}, fmt.Errorf("--def parameter is required")
	}
	if opts.port < 0 || opts.port > 65535 {
		return serverOptions{}, fmt.Errorf("--port must be between 1 and 65535")
	}
	return opts, nil
}

func parseDefNewOptions(args []string) (string, error) {
	var name string
	fs := flag.NewFlagSet("def new", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&name, "name", "", "Name of the definition file to generate")
	fs.StringVar(&name, "n", "", "Shorthand for --name")
	if _, err := parseInterleaved(fs, args); err != nil {
		return "", err
	}
	return name, nil
}

type historyOptions struct {
	output string
	limit  int
}

func parseHistoryOptions(args []string) (historyOptions, error) {
	var opts historyOptions
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&opts.output, "output", "", "Definition file whose scans are listed (default from config)")
	fs.StringVar(&opts.output, "o", "", "Shorthand for --output")
	fs.IntVar(&opts.limit, "limit", 10, "Number of scans to show")
	if _, err := parseInterleaved(fs, args); err != nil {
		return historyOptions{}, err
	}
	if opts.limit <= 0 {
		return historyOptions{}, fmt.Errorf("--limit must be positive")
	}
	return opts, nil
}

// parseInterleaved lets flags follow positional arguments, which flag.Parse
// alone stops at.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// stringList is a repeatable flag; each value may hold a comma separated
// list.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
