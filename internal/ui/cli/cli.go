// Package cli is the anino command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anino/internal/core/config"
	domainerrors "anino/internal/core/errors"
	"anino/internal/shared/observability"
)

// Run executes args (without the program name) and returns the exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

type runtime struct {
	console *Console
	cfg     *config.Config
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	console := NewConsole(stdout, stderr, !isTerminal(stdout))

	opts, err := parseGlobal(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return 0
		}
		console.Error("%v", err)
		fmt.Fprint(stderr, usage)
		return 2
	}
	if opts.version || opts.command == "version" {
		fmt.Fprintf(stdout, "anino v%s\n", versionString)
		return 0
	}
	if opts.command == "" || opts.command == "help" {
		fmt.Fprint(stdout, usage)
		if opts.command == "" {
			return 2
		}
		return 0
	}

	configureLogging(stderr, opts.verbose)

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		console.Error("failed to load config: %s", domainerrors.UserMessage(err))
		slog.Debug("config load failed", "error", err)
		return 1
	}

	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("trace export incomplete", "error", err)
			}
		}()
	}

	r := &runtime{console: console, cfg: cfg}
	switch opts.command {
	case "scan":
		return r.scan(ctx, opts.args)
	case "server":
		return r.server(ctx, opts.args)
	case "def":
		return r.def(opts.args)
	case "history":
		return r.history(opts.args)
	}
	console.Error("unknown command %q", opts.command)
	fmt.Fprint(stderr, usage)
	return 2
}

// usageError reports a bad invocation with exit code 2.
func (r *runtime) usageError(err error, hint string) int {
	if errors.Is(err, flag.ErrHelp) {
		r.console.Println("%s", hint)
		return 0
	}
	r.console.Error("%v", err)
	r.console.Println("%s", hint)
	return 2
}

// fail reports err with exit code 1.
func (r *runtime) fail(err error) int {
	r.console.Error("%s", describeError(err))
	slog.Debug("command failed", "error", err)
	return 1
}

// describeError maps the run-aborting conditions to actionable messages.
func describeError(err error) string {
	switch domainerrors.Code(err) {
	case domainerrors.CodeNoInput:
		return domainerrors.UserMessage(err) + ". Pass a .csproj file, a .cs file or a directory: anino scan <paths...>"
	case domainerrors.CodeNoEndpoints:
		return domainerrors.UserMessage(err) + ". Check the --target names, or that the sources map routes or declare controllers."
	}
	return domainerrors.UserMessage(err)
}
