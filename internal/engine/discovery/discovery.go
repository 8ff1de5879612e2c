package discovery

import (
	"log/slog"
	"strings"

	"anino/internal/engine/parser"
	"anino/internal/shared/observability"
	"anino/internal/shared/util"
)

// Extract runs both extractors over files. With targets, inline
// registrations are skipped and only groups whose name matches a target are
// kept. A target matches the short group name ("Books"), and also the
// declaration name ("BooksController") and the file name without extension,
// all ignoring case, so a target copied from a controller or its file
// selects it too. A file name target selects every group declared in that
// file.
func Extract(files []*parser.File, targets []string) []*Endpoint {
	wanted := make(map[string]bool, len(targets))
	for _, t := range targets {
		if t = strings.TrimSpace(t); t != "" {
			wanted[strings.ToLower(t)] = true
		}
	}

	var out []*Endpoint
	for _, file := range files {
		if len(wanted) == 0 {
			inline := ExtractInline(file, files)
			observability.EndpointsDiscoveredTotal.WithLabelValues(string(StyleInline)).Add(float64(len(inline)))
			out = append(out, inline...)
		}
		stem := strings.ToLower(util.FileNameWithoutExt(file.Path))
		for _, ep := range ExtractGroups(file) {
			if len(wanted) > 0 && !wanted[strings.ToLower(ep.Group)] && !wanted[strings.ToLower(ep.Group+groupSuffix)] && !wanted[stem] {
				continue
			}
			observability.EndpointsDiscoveredTotal.WithLabelValues(string(StyleGroup)).Inc()
			out = append(out, ep)
		}
	}

	kept, dropped := Dedupe(out)
	for _, ep := range dropped {
		slog.Warn("duplicate endpoint ignored", "endpoint", ep.Key(), "path", ep.Location.File, "line", ep.Location.Line)
	}
	return kept
}
