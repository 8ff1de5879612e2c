package replay

import (
	"fmt"
	"net/http"
	"strings"

	"anino/internal/data/definition"
	"anino/internal/shared/util"
)

// Route is one registered definition entry with the mux pattern it was
// registered under.
type Route struct {
	Pattern  string
	Endpoint definition.Endpoint
}

// Patterns converts a definition entry into net/http mux patterns. Route
// constraints and defaults are dropped, a catch-all becomes a trailing
// {name...} wildcard and a segment mixing text with a parameter matches the
// whole segment. A trailing optional parameter yields a second pattern
// without it.
func Patterns(ep definition.Endpoint) []string {
	method := strings.ToUpper(strings.TrimSpace(ep.Method))
	segments := strings.Split(strings.Trim(ep.Path, "/"), "/")

	var (
		parts    []string
		optional bool
	)
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		last := i == len(segments)-1
		part, opt := segmentPattern(seg, i, last)
		if last {
			optional = opt
		}
		parts = append(parts, part)
	}

	patterns := []string{method + " " + joinPath(parts)}
	if optional && len(parts) > 0 {
		patterns = append(patterns, method+" "+joinPath(parts[:len(parts)-1]))
	}
	return patterns
}

func segmentPattern(seg string, index int, last bool) (string, bool) {
	if strings.Contains(seg, "{{") || strings.Contains(seg, "}}") {
		return fmt.Sprintf("{seg%d}", index), false
	}
	norm, params := util.ParseRoute(seg)
	if len(params) == 0 {
		return seg, false
	}
	if len(params) == 1 && norm == "{"+params[0].Name+"}" && validName(params[0].Name) {
		p := params[0]
		if p.CatchAll && last {
			return "{" + p.Name + "...}", false
		}
		return norm, p.Optional
	}
	return fmt.Sprintf("{seg%d}", index), false
}

func joinPath(parts []string) string {
	if len(parts) == 0 {
		return "/{$}"
	}
	return "/" + strings.Join(parts, "/")
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

// register adds pattern to mux. The mux panics on a conflicting pattern;
// that is reported as an error instead.
func register(mux *http.ServeMux, pattern string, h http.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	mux.Handle(pattern, h)
	return nil
}
