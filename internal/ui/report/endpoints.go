// Package report renders scan results for people: a markdown report, an
// endpoint table that can be injected into existing docs, and TSV.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"anino/internal/core/ports"
	"anino/internal/engine/resolver"
	"anino/internal/shared/util"
)

// EndpointsMarker names the section InjectSection fills in an existing
// markdown file.
const EndpointsMarker = "endpoints"

type Options struct {
	Version     string
	GeneratedAt time.Time
}

// Markdown renders a full scan report.
func Markdown(result *ports.ScanResult, opts Options) string {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Mock Definition Report\n")
	b.WriteString("projects: " + nonEmpty(strings.Join(result.Projects, ", "), "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Mock Definition Report\n\n")
	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Source Files | %d |\n", result.Files))
	b.WriteString(fmt.Sprintf("| Endpoints | %d |\n", len(result.Endpoints)))
	b.WriteString(fmt.Sprintf("| Unresolved Return Types | %d |\n", result.Unresolved))
	b.WriteString(fmt.Sprintf("| Skipped Inputs | %d |\n", len(result.Skipped)))
	b.WriteString(fmt.Sprintf("| Duration | %s |\n\n", result.Duration.Round(time.Millisecond)))

	b.WriteString("## Endpoints\n")
	b.WriteString(EndpointTable(result))
	b.WriteString("\n")

	unresolved := unresolvedEndpoints(result)
	b.WriteString("## Unresolved Return Types\n")
	if len(unresolved) == 0 {
		b.WriteString("None.\n")
	} else {
		b.WriteString("These endpoints answer with a placeholder object.\n\n")
		for _, m := range unresolved {
			ep := m.Endpoint
			b.WriteString(fmt.Sprintf("- `%s %s` returns `%s` (%s)\n", ep.Method, ep.Path, nonEmpty(ep.Returns.String(), "not inferred"), location(ep.Location.File, ep.Location.Line)))
		}
	}

	if len(result.Skipped) > 0 {
		b.WriteString("\n## Skipped Inputs\n")
		for _, in := range result.Skipped {
			b.WriteString("- `" + in + "`\n")
		}
	}
	return b.String()
}

// EndpointTable renders the discovered endpoints as a markdown table.
func EndpointTable(result *ports.ScanResult) string {
	var b strings.Builder
	b.WriteString("| Method | Path | Status | Returns | Shape | Source |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, m := range result.Endpoints {
		ep := m.Endpoint
		b.WriteString(fmt.Sprintf("| %s | `%s` | %d | %s | %s | %s |\n",
			ep.Method,
			ep.Path,
			ep.StatusCode,
			code(ep.Returns.String()),
			shape(m),
			escapeCell(location(ep.Location.File, ep.Location.Line)),
		))
	}
	return b.String()
}

// TSV renders one row per endpoint.
func TSV(result *ports.ScanResult) string {
	var b strings.Builder
	b.WriteString("Method\tPath\tStatus\tReturns\tShape\tStyle\tHandler\tFile\tLine\n")
	for _, m := range result.Endpoints {
		ep := m.Endpoint
		b.WriteString(fmt.Sprintf("%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			ep.Method,
			ep.Path,
			ep.StatusCode,
			ep.Returns.String(),
			shape(m),
			ep.Style,
			ep.Handler,
			ep.Location.File,
			ep.Location.Line,
		))
	}
	return b.String()
}

// Write renders result by the extension of path: .tsv gives TSV, anything
// else markdown. An existing markdown file with endpoint markers only has
// that section replaced.
func Write(path string, result *ports.ScanResult, opts Options) error {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return util.WriteFileWithDirs(path, []byte(TSV(result)), 0o644)
	}
	if existing, err := os.ReadFile(path); err == nil && HasMarkers(string(existing), EndpointsMarker) {
		return InjectSection(path, EndpointsMarker, EndpointTable(result))
	}
	return util.WriteFileWithDirs(path, []byte(Markdown(result, opts)), 0o644)
}

func shape(m ports.MockedEndpoint) string {
	if m.Endpoint.NoContent() {
		return "no content"
	}
	if m.Descriptor == nil {
		return resolver.KindUnknown.String()
	}
	if p, ok := m.Descriptor.(*resolver.Primitive); ok {
		return p.Of.String()
	}
	return m.Descriptor.Kind().String()
}

func unresolvedEndpoints(result *ports.ScanResult) []ports.MockedEndpoint {
	var out []ports.MockedEndpoint
	for _, m := range result.Endpoints {
		if m.Endpoint.NoContent() {
			continue
		}
		if m.Descriptor == nil || m.Descriptor.Kind() == resolver.KindUnknown {
			out = append(out, m)
		}
	}
	return out
}

func location(file string, line int) string {
	if file == "" {
		return "-"
	}
	if line <= 0 {
		return filepath.Base(file)
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func code(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + escapeCell(s) + "`"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
