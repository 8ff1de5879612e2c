package app

import (
	"context"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"anino/internal/core/errors"
	"anino/internal/core/ports"
	"anino/internal/data/definition"
	"anino/internal/engine/discovery"
	"anino/internal/engine/mock"
	"anino/internal/engine/parser"
	"anino/internal/engine/resolver"
	"anino/internal/engine/symbols"
	"anino/internal/shared/observability"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type job struct {
	endpoint *discovery.Endpoint
	resolver *resolver.Resolver
}

// request fills unset fields from the configuration.
func (a *App) request(req ports.ScanRequest) ports.ScanRequest {
	if strings.TrimSpace(req.Output) == "" {
		req.Output = a.Config.Scan.Output
	}
	if len(req.Targets) == 0 {
		req.Targets = a.Config.Scan.Targets
	}
	if strings.TrimSpace(req.OpenAPI) == "" {
		req.OpenAPI = a.Config.Scan.OpenAPI
	}
	req.Inputs = uniqueInputs(req.Inputs)
	return req
}

// Scan runs the pipeline without writing anything. It fails only when no
// input loads or no endpoint is found.
func (a *App) Scan(ctx context.Context, req ports.ScanRequest) (result *ports.ScanResult, err error) {
	start := a.now()
	ctx, span := observability.Tracer.Start(ctx, "scan")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, errors.UserMessage(err))
		}
		span.End()
	}()

	req = a.request(req)
	if len(req.Inputs) == 0 {
		return nil, errors.New(errors.CodeNoInput, "no input paths given")
	}
	result = &ports.ScanResult{Inputs: req.Inputs}

	projects, err := a.loadProjects(ctx, req.Inputs, result)
	if err != nil {
		return nil, err
	}

	jobs := a.discover(ctx, projects, req.Targets)
	span.SetAttributes(attribute.Int("endpoints", len(jobs)))
	if len(jobs) == 0 {
		msg := "no endpoints found"
		if len(req.Targets) > 0 {
			msg += " for targets " + strings.Join(req.Targets, ", ")
		}
		return nil, errors.New(errors.CodeNoEndpoints, msg)
	}

	result.Endpoints, err = a.synthesize(ctx, jobs)
	if err != nil {
		return nil, err
	}
	for _, m := range result.Endpoints {
		if !m.Endpoint.NoContent() && m.Descriptor.Kind() == resolver.KindUnknown {
			result.Unresolved++
		}
		entry, err := definition.NewEndpoint(m.Endpoint.Path, m.Endpoint.Method, m.Endpoint.StatusCode, m.Response)
		if err != nil {
			return nil, err
		}
		result.Definition = append(result.Definition, entry)
	}
	result.Duration = a.now().Sub(start)
	return result, nil
}

// loadProjects parses every input. A failing input is skipped; the run
// aborts only when nothing loads.
func (a *App) loadProjects(ctx context.Context, inputs []string, result *ports.ScanResult) ([]*parser.Project, error) {
	ctx, span := observability.Tracer.Start(ctx, "scan.parse")
	defer span.End()
	defer observeStage("parse", time.Now())

	var (
		projects []*parser.Project
		failures error
	)
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		project, err := a.frontEnd.ParseProject(ctx, input)
		if err != nil {
			slog.Warn("skipping input", "path", input, "error", err)
			failures = multierror.Append(failures, err)
			result.Skipped = append(result.Skipped, input)
			continue
		}
		files := len(project.AllFiles())
		if files == 0 {
			slog.Warn("input has no source files", "path", input)
			result.Skipped = append(result.Skipped, input)
			continue
		}
		slog.Debug("loaded project", "path", input, "project", project.Name, "files", files, "loose", project.Loose)
		result.Projects = append(result.Projects, project.Name)
		result.Files += files
		projects = append(projects, project)
	}
	span.SetAttributes(attribute.Int("files", result.Files))

	if len(projects) == 0 {
		if failures != nil {
			return nil, errors.Wrap(failures, errors.CodeNoInput, "no input could be loaded")
		}
		return nil, errors.New(errors.CodeNoInput, "no source files found in the given inputs")
	}
	return projects, nil
}

// discover extracts endpoints per project, each paired with a resolver over
// that project's symbol table. An endpoint declared by two inputs is kept
// once.
func (a *App) discover(ctx context.Context, projects []*parser.Project, targets []string) []job {
	_, span := observability.Tracer.Start(ctx, "scan.discover")
	defer span.End()
	defer observeStage("discover", time.Now())

	var jobs []job
	seen := make(map[string]bool)
	for _, project := range projects {
		symbolTable := symbols.Build(project, symbols.WithCommonNamespaces(a.Config.Resolver.CommonNamespaces...))
		res := resolver.New(symbolTable, project.AllFiles(), resolver.Options{
			WrapperTypes: a.Config.Resolver.WrapperTypes,
			SyntaxOnly:   a.Config.Resolver.SyntaxOnly,
		})
		for _, ep := range discovery.Extract(project.Files, targets) {
			if seen[ep.Key()] {
				slog.Warn("duplicate endpoint ignored", "endpoint", ep.Key(), "project", project.Name)
				continue
			}
			seen[ep.Key()] = true
			jobs = append(jobs, job{endpoint: ep, resolver: res})
		}
	}
	return jobs
}

// synthesize resolves and mocks every endpoint concurrently. Each endpoint
// gets its own random source derived from the run seed, so a fixed seed
// yields the same definition regardless of scheduling.
func (a *App) synthesize(ctx context.Context, jobs []job) ([]ports.MockedEndpoint, error) {
	ctx, span := observability.Tracer.Start(ctx, "scan.synthesize", trace.WithAttributes(attribute.Int("endpoints", len(jobs))))
	defer span.End()
	defer observeStage("synthesize", time.Now())

	seed := a.Config.Mock.Seed
	if seed == 0 {
		seed = a.now().UnixNano()
	}
	out := make([]ports.MockedEndpoint, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Config.Scan.Workers, 1))
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			synth := mock.New(mock.Options{
				Rand:            rand.New(rand.NewSource(seed + int64(i))),
				Now:             a.now,
				NullProbability: a.Config.Mock.NullProbability,
			})
			d := j.resolver.Resolve(j.endpoint.Returns)
			if d.Kind() == resolver.KindUnknown {
				slog.Debug("return type unresolved", "endpoint", j.endpoint.Key(), "type", j.endpoint.Returns.String())
			}
			out[i] = ports.MockedEndpoint{Endpoint: j.endpoint, Descriptor: d, Response: synth.Response(j.endpoint, d)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func observeStage(stage string, start time.Time) {
	observability.ScanDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func uniqueInputs(inputs []string) []string {
	seen := make(map[string]bool, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		in = filepath.Clean(in)
		if seen[in] {
			continue
		}
		seen[in] = true
		out = append(out, in)
	}
	return out
}
