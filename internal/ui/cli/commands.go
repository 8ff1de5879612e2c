package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"anino/internal/core/app"
	"anino/internal/core/ports"
	"anino/internal/data/definition"
	"anino/internal/data/history"
	"anino/internal/replay"
	"anino/internal/ui/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

const (
	scanHint    = "Usage: anino scan <paths...> [-o file] [-t target ...] [--openapi file] [--report file] [--watch]"
	serverHint  = "Usage: anino server --def <path-to-json-def> [--port <port>] [--latency <ms>]\n   or: anino def new --name <filename>"
	defHint     = "Usage: anino def new [--name <filename>]"
	historyHint = "Usage: anino history [-o definition] [--limit N]"
)

func (r *runtime) scan(ctx context.Context, args []string) int {
	opts, err := parseScanOptions(args)
	if err != nil {
		return r.usageError(err, scanHint)
	}

	appOpts := []app.Option{}
	if r.cfg.History.Enabled {
		store, err := history.Open(r.cfg.History.Path)
		if err != nil {
			return r.fail(err)
		}
		defer store.Close()
		appOpts = append(appOpts, app.WithHistory(store))
	}
	a, err := app.New(r.cfg, appOpts...)
	if err != nil {
		return r.fail(err)
	}

	req := ports.ScanRequest{
		Inputs:  opts.inputs,
		Targets: opts.targets,
		Output:  opts.output,
		OpenAPI: opts.openAPI,
	}
	reportPath := opts.report
	if reportPath == "" {
		reportPath = r.cfg.Scan.Report
	}
	r.console.Println("--> Scanning %s...", strings.Join(opts.inputs, ", "))

	if opts.watch {
		r.console.Info("Watching for changes. Press Ctrl+C to stop.")
		err := a.Watch(ctx, req, func(result *ports.ScanResult, err error) {
			if err != nil {
				r.console.Error("%s", describeError(err))
				return
			}
			r.report(result, reportPath)
		})
		if err != nil {
			return r.fail(err)
		}
		return 0
	}

	result, err := a.Run(ctx, req)
	if err != nil {
		return r.fail(err)
	}
	r.report(result, reportPath)
	if len(result.Written) > 0 {
		r.console.Println("\nTo use the definition:")
		r.console.Println("  anino server --def %s", result.Written[0])
	}
	return 0
}

func (r *runtime) report(result *ports.ScanResult, reportPath string) {
	if reportPath != "" {
		if err := report.Write(reportPath, result, report.Options{Version: versionString}); err != nil {
			r.console.Warn("report not written: %v", err)
		} else {
			result.Written = append(result.Written, reportPath)
		}
	}
	for _, input := range result.Skipped {
		r.console.Warn("skipped %s", input)
	}
	for _, m := range result.Endpoints {
		r.console.Mapped(m.Endpoint.Method, m.Endpoint.Path)
	}
	if result.Unresolved > 0 {
		r.console.Warn("%d endpoint(s) have return types that could not be resolved; their responses are placeholders", result.Unresolved)
	}
	for _, path := range result.Written {
		if info, err := os.Stat(path); err == nil {
			r.console.Success("Wrote %s (%s)", path, humanize.Bytes(uint64(info.Size())))
			continue
		}
		r.console.Success("Wrote %s", path)
	}
	r.console.Muted("%d endpoints from %d files in %s", len(result.Definition), result.Files, result.Duration.Round(time.Millisecond))
}

func (r *runtime) server(ctx context.Context, args []string) int {
	opts, err := parseServerOptions(args)
	if err != nil {
		return r.usageError(err, serverHint)
	}
	endpoints, err := definition.Load(opts.def)
	if err != nil {
		return r.fail(err)
	}

	port := r.cfg.Server.Port
	if opts.port > 0 {
		port = opts.port
	}
	latency := r.cfg.Server.Latency
	if opts.latency >= 0 {
		latency = opts.latency
	}
	rateLimit := r.cfg.Server.RateLimit
	if opts.rateLimit >= 0 {
		rateLimit = opts.rateLimit
	}
	metricsPath := r.cfg.Server.MetricsPath
	if opts.metrics != "" {
		metricsPath = "/" + strings.TrimPrefix(opts.metrics, "/")
	}

	srv, err := replay.New(endpoints, replay.Options{
		Latency:     time.Duration(latency) * time.Millisecond,
		RateLimit:   rateLimit,
		Burst:       r.cfg.Server.Burst,
		MetricsPath: metricsPath,
		ReadTimeout: r.cfg.Server.ReadTimeout,
	})
	if err != nil {
		return r.fail(err)
	}

	r.console.Println("--> Mapping endpoints...")
	if latency > 0 {
		r.console.Notice("    ⏱️  Latency simulation enabled: %dms delay per request", latency)
	}
	mapped := make(map[string]bool)
	for _, route := range srv.Routes() {
		if key := route.Endpoint.Key(); !mapped[key] {
			mapped[key] = true
			r.console.Mapped(route.Endpoint.Method, route.Endpoint.Path)
		}
	}
	for _, route := range srv.Skipped() {
		r.console.Warn("%s %s conflicts with an earlier route and was not mapped", route.Endpoint.Method, route.Endpoint.Path)
	}
	if metricsPath != "" {
		r.console.Muted("    metrics on %s", metricsPath)
	}
	r.console.Println("\n🚀 Anino server is running. Listening on http://localhost:%d", port)
	r.console.Println("Press Ctrl+C to shut down.")

	if err := srv.ListenAndServe(ctx, fmt.Sprintf("localhost:%d", port)); err != nil {
		return r.fail(err)
	}
	return 0
}

func (r *runtime) def(args []string) int {
	if len(args) == 0 || args[0] != "new" {
		r.console.Error("missing or unknown def subcommand")
		r.console.Println("%s", defHint)
		return 2
	}
	name, err := parseDefNewOptions(args[1:])
	if err != nil {
		return r.usageError(err, defHint)
	}
	path := definition.FileName(name)
	if err := definition.Write(path, definition.Template()); err != nil {
		return r.fail(err)
	}
	r.console.Success("Template generated successfully at '%s'", path)
	r.console.Println("\nTo use the definition:")
	r.console.Println("  anino server --def %s", path)
	return 0
}

func (r *runtime) history(args []string) int {
	opts, err := parseHistoryOptions(args)
	if err != nil {
		return r.usageError(err, historyHint)
	}
	output := opts.output
	if output == "" {
		output = r.cfg.Scan.Output
	}
	if _, err := os.Stat(r.cfg.History.Path); err != nil {
		r.console.Info("No scan history at %s. Set [history] enabled = true in anino.toml to record scans.", r.cfg.History.Path)
		return 0
	}

	store, err := history.Open(r.cfg.History.Path)
	if err != nil {
		return r.fail(err)
	}
	defer store.Close()

	snapshots, err := store.Recent(app.HistoryKey(output), opts.limit)
	if err != nil {
		return r.fail(err)
	}
	if len(snapshots) == 0 {
		r.console.Info("No scans recorded for %s", output)
		return 0
	}
	r.console.Println("%s", historyTable(history.Changes(snapshots), r.console.plain))
	return 0
}

// historyTable renders changes newest first.
func historyTable(changes []history.Change, plain bool) string {
	t := table.New().
		Headers("WHEN", "ENDPOINTS", "UNRESOLVED", "FILES", "DURATION", "DEFINITION").
		Border(lipgloss.NormalBorder())
	if !plain {
		t = t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		digest := c.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		if c.DefinitionSame {
			digest += " (unchanged)"
		}
		t = t.Row(
			humanize.Time(c.Timestamp),
			withDelta(c.EndpointCount, c.DeltaEndpoints),
			withDelta(c.UnresolvedCount, c.DeltaUnresolved),
			humanize.Comma(int64(c.FileCount)),
			c.Duration.Round(time.Millisecond).String(),
			digest,
		)
	}
	return t.String()
}

func withDelta(value, delta int) string {
	if delta == 0 {
		return fmt.Sprint(value)
	}
	return fmt.Sprintf("%d (%+d)", value, delta)
}
