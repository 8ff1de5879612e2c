package app

import (
	"time"

	"anino/internal/core/config"
	"anino/internal/core/ports"
	"anino/internal/engine/parser"
)

// App drives the scan pipeline: load projects, discover endpoints, resolve
// their return types and synthesize bodies.
type App struct {
	Config   *config.Config
	frontEnd ports.FrontEnd
	history  ports.HistoryStore
	now      func() time.Time
}

var _ ports.ScanService = (*App)(nil)

type Option func(*App)

// WithFrontEnd replaces the tree-sitter front-end.
func WithFrontEnd(fe ports.FrontEnd) Option {
	return func(a *App) { a.frontEnd = fe }
}

// WithHistory records a snapshot after every written scan.
func WithHistory(store ports.HistoryStore) Option {
	return func(a *App) { a.history = store }
}

// WithClock fixes the time source used for timestamps and default seeds.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{Config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	if a.frontEnd == nil {
		fe, err := parser.NewFrontEnd(parser.Options{
			ExcludeDirs:  cfg.Scan.Exclude.Dirs,
			ExcludeFiles: cfg.Scan.Exclude.Files,
			Workers:      cfg.Scan.Workers,
		})
		if err != nil {
			return nil, err
		}
		a.frontEnd = fe
	}
	return a, nil
}
