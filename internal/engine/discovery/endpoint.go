package discovery

import (
	"net/http"
	"strings"

	"anino/internal/engine/parser"
	"anino/internal/engine/resolver"
)

// Style names the declaration idiom an endpoint came from.
type Style string

const (
	StyleInline Style = "inline"
	StyleGroup  Style = "group"
)

// Endpoint is one discovered route. Returns is nil when no return type could
// be inferred from the declaration.
type Endpoint struct {
	Path       string
	Method     string
	StatusCode int
	Async      bool
	Returns    *resolver.TypeReference
	Style      Style
	Group      string // short group name, empty for inline registrations
	Handler    string
	Location   parser.Location
}

// Key identifies an endpoint for de-duplication.
func (e *Endpoint) Key() string {
	return e.Method + " " + e.Path
}

// NoContent reports whether the endpoint answers without a body.
func (e *Endpoint) NoContent() bool {
	return e.Method == http.MethodDelete && e.StatusCode == http.StatusNoContent
}

// DefaultStatus is the status policy for a verb: created for POST, no
// content for DELETE, OK otherwise.
func DefaultStatus(method string) int {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return http.StatusCreated
	case http.MethodDelete:
		return http.StatusNoContent
	}
	return http.StatusOK
}

// CombineRoutes joins a base route and a fragment with exactly one slash.
// The result always starts with a slash.
func CombineRoutes(base, fragment string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	fragment = strings.Trim(strings.TrimSpace(fragment), "/")
	switch {
	case base == "" && fragment == "":
		return "/"
	case base == "":
		return "/" + fragment
	case fragment == "":
		return "/" + base
	}
	return "/" + base + "/" + fragment
}

// Dedupe keeps the first endpoint for each method and path.
func Dedupe(endpoints []*Endpoint) (kept []*Endpoint, dropped []*Endpoint) {
	seen := make(map[string]bool, len(endpoints))
	for _, ep := range endpoints {
		if seen[ep.Key()] {
			dropped = append(dropped, ep)
			continue
		}
		seen[ep.Key()] = true
		kept = append(kept, ep)
	}
	return kept, dropped
}
