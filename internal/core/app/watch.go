package app

import (
	"context"
	"log/slog"

	"anino/internal/core/ports"
	"anino/internal/core/watcher"
	"anino/internal/engine/parser"
	"anino/internal/shared/util"
)

// Watch runs once, then again after every batch of source changes under the
// inputs, until ctx is done. Each run's outcome goes to onResult.
func (a *App) Watch(ctx context.Context, req ports.ScanRequest, onResult func(*ports.ScanResult, error)) error {
	req = a.request(req)
	onResult(a.Run(ctx, req))

	filter, err := util.NewPathFilter(a.Config.Scan.Exclude.Dirs, a.Config.Scan.Exclude.Files,
		[]string{parser.SourceExtension, parser.ProjectExtension})
	if err != nil {
		return err
	}
	changes := make(chan []string, 1)
	w, err := watcher.New(a.Config.Watch.Debounce, filter, func(paths []string) {
		select {
		case changes <- paths:
		default:
			// a rescan is already queued
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch(req.Inputs); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			slog.Info("sources changed, rescanning", "files", len(paths))
			onResult(a.Run(ctx, req))
		}
	}
}
