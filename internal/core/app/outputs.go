package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"path/filepath"
	"strings"

	"anino/internal/core/errors"
	"anino/internal/core/ports"
	"anino/internal/data/definition"
	"anino/internal/data/history"
	"anino/internal/engine/openapi"
	"anino/internal/shared/util"
)

// Run scans and writes the definition, the optional OpenAPI document and a
// history snapshot.
func (a *App) Run(ctx context.Context, req ports.ScanRequest) (*ports.ScanResult, error) {
	req = a.request(req)
	result, err := a.Scan(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := definition.Marshal(result.Definition)
	if err != nil {
		return nil, err
	}
	if err := util.WriteFileWithDirs(req.Output, data, 0o644); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "cannot write definition"), errors.CtxPath, req.Output)
	}
	result.Written = append(result.Written, req.Output)

	if req.OpenAPI != "" {
		if err := a.writeOpenAPI(ctx, req.OpenAPI, result); err != nil {
			return result, err
		}
		result.Written = append(result.Written, req.OpenAPI)
	}

	if a.history != nil {
		sum := sha256.Sum256(data)
		snapshot, err := a.history.SaveSnapshot(HistoryKey(req.Output), history.Snapshot{
			Timestamp:       a.now().UTC(),
			Inputs:          result.Inputs,
			Targets:         req.Targets,
			Output:          req.Output,
			FileCount:       result.Files,
			EndpointCount:   len(result.Definition),
			UnresolvedCount: result.Unresolved,
			Duration:        result.Duration,
			Digest:          hex.EncodeToString(sum[:]),
		})
		if err != nil {
			slog.Warn("failed to record scan history", "error", err)
		} else {
			result.Snapshot = &snapshot
		}
	}
	return result, nil
}

func (a *App) writeOpenAPI(ctx context.Context, path string, result *ports.ScanResult) error {
	ops := make([]openapi.Operation, 0, len(result.Endpoints))
	for _, m := range result.Endpoints {
		ops = append(ops, openapi.Operation{
			Method:     m.Endpoint.Method,
			Path:       m.Endpoint.Path,
			StatusCode: m.Endpoint.StatusCode,
			Group:      m.Endpoint.Group,
			Handler:    m.Endpoint.Handler,
			Descriptor: m.Descriptor,
			Example:    m.Response,
			NoContent:  m.Endpoint.NoContent(),
		})
	}
	doc, err := openapi.Build(ctx, openapi.Info{Title: strings.Join(result.Projects, ", ")}, ops)
	if err != nil {
		return err
	}
	return openapi.Write(doc, path)
}

// HistoryKey identifies the history of one definition file.
func HistoryKey(output string) string {
	if abs, err := filepath.Abs(output); err == nil {
		return abs
	}
	return filepath.Clean(output)
}
