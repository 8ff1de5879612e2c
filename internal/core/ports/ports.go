package ports

import (
	"context"
	"time"

	"anino/internal/data/definition"
	"anino/internal/data/history"
	"anino/internal/engine/discovery"
	"anino/internal/engine/parser"
	"anino/internal/engine/resolver"
)

// FrontEnd loads a scan input into a parsed project.
type FrontEnd interface {
	ParseProject(ctx context.Context, path string) (*parser.Project, error)
}

// HistoryStore persists one snapshot per completed scan.
type HistoryStore interface {
	SaveSnapshot(projectKey string, snapshot history.Snapshot) (history.Snapshot, error)
	Recent(projectKey string, limit int) ([]history.Snapshot, error)
}

// ScanRequest describes one run of the pipeline. Empty fields fall back to
// the configuration.
type ScanRequest struct {
	Inputs  []string
	Targets []string
	Output  string
	OpenAPI string
}

// MockedEndpoint is one endpoint after resolution and synthesis.
type MockedEndpoint struct {
	Endpoint   *discovery.Endpoint
	Descriptor resolver.TypeDescriptor
	Response   any
}

// ScanResult summarizes a completed scan.
type ScanResult struct {
	Inputs     []string
	Projects   []string
	Files      int
	Endpoints  []MockedEndpoint
	Definition []definition.Endpoint
	Unresolved int
	Skipped    []string // inputs that failed to load
	Written    []string
	Snapshot   *history.Snapshot
	Duration   time.Duration
}

// ScanService is the driving port used by the CLI.
type ScanService interface {
	Scan(ctx context.Context, req ScanRequest) (*ScanResult, error)
	Run(ctx context.Context, req ScanRequest) (*ScanResult, error)
	Watch(ctx context.Context, req ScanRequest, onResult func(*ScanResult, error)) error
}
