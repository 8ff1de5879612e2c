package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"anino/internal/core/config"
	"anino/internal/core/errors"
	"anino/internal/core/ports"
	"anino/internal/data/definition"
	"anino/internal/data/history"
	"anino/internal/engine/parser"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const booksController = `
using Microsoft.AspNetCore.Mvc;

namespace Library.Controllers;

[ApiController]
[Route("api/[controller]")]
public class BooksController : ControllerBase
{
    [HttpGet]
    public async Task<ActionResult<List<Book>>> GetAll() => Ok(new List<Book>());

    [HttpGet("{id:int}")]
    public ActionResult<Book> Get(int id) => Ok(new Book());

    [HttpPost]
    public ActionResult<Book> Create(Book book) => Created("", book);

    [HttpDelete("{id}")]
    public IActionResult Delete(int id) => NoContent();
}
`

const models = `
namespace Library.Models;

public class Book
{
    public string Title { get; set; }
    public Author Author { get; set; }
}

public class Author
{
    public string Name { get; set; }
}
`

const program = `
var app = WebApplication.CreateBuilder(args).Build();
app.MapGet("/health", () => new HealthStatus());

public class HealthStatus
{
    public bool Healthy { get; set; }
}
app.Run();
`

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return dir
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Mock.Seed = 42
	cfg.Scan.Workers = 4
	a, err := New(cfg, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
	require.NoError(t, err)
	return a
}

func byKey(defs []definition.Endpoint) map[string]definition.Endpoint {
	out := make(map[string]definition.Endpoint, len(defs))
	for _, d := range defs {
		out[d.Key()] = d
	}
	return out
}

func TestScanBooks(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"Controllers/BooksController.cs": booksController,
		"Models/Book.cs":                 models,
		"Program.cs":                     program,
	})
	a := newTestApp(t)

	result, err := a.Scan(context.Background(), ports.ScanRequest{Inputs: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Files)
	assert.Len(t, result.Definition, 5)
	assert.Zero(t, result.Unresolved)

	defs := byKey(result.Definition)
	list, ok := defs["GET /api/books"]
	require.True(t, ok)
	assert.Equal(t, 200, list.StatusCode)

	var books []map[string]any
	require.NoError(t, json.Unmarshal(list.Response, &books))
	require.GreaterOrEqual(t, len(books), 2)
	for _, b := range books {
		assert.IsType(t, "", b["title"])
		author, ok := b["author"].(map[string]any)
		require.True(t, ok, "author should be an object")
		assert.IsType(t, "", author["name"])
	}

	created := defs["POST /api/books"]
	assert.Equal(t, 201, created.StatusCode)

	deleted := defs["DELETE /api/books/{id}"]
	assert.Equal(t, 204, deleted.StatusCode)
	assert.False(t, deleted.HasBody())

	var health map[string]any
	require.NoError(t, json.Unmarshal(defs["GET /health"].Response, &health))
	assert.IsType(t, true, health["healthy"])
}

func TestScanTargetsSkipInline(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"BooksController.cs": booksController,
		"Book.cs":            models,
		"Program.cs":         program,
	})
	a := newTestApp(t)

	result, err := a.Scan(context.Background(), ports.ScanRequest{Inputs: []string{dir}, Targets: []string{"books"}})
	require.NoError(t, err)
	assert.NotContains(t, byKey(result.Definition), "GET /health")
	assert.Len(t, result.Definition, 4)

	_, err = a.Scan(context.Background(), ports.ScanRequest{Inputs: []string{dir}, Targets: []string{"orders"}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNoEndpoints))
}

func TestScanErrors(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Scan(context.Background(), ports.ScanRequest{})
	assert.True(t, errors.IsCode(err, errors.CodeNoInput))

	_, err = a.Scan(context.Background(), ports.ScanRequest{Inputs: []string{filepath.Join(t.TempDir(), "missing")}})
	assert.True(t, errors.IsCode(err, errors.CodeNoInput))

	empty := writeSources(t, map[string]string{"Models.cs": models})
	_, err = a.Scan(context.Background(), ports.ScanRequest{Inputs: []string{empty}})
	assert.True(t, errors.IsCode(err, errors.CodeNoEndpoints))
}

func TestScanSkipsBadInputs(t *testing.T) {
	dir := writeSources(t, map[string]string{"Program.cs": program})
	missing := filepath.Join(t.TempDir(), "missing")
	a := newTestApp(t)

	result, err := a.Scan(context.Background(), ports.ScanRequest{Inputs: []string{missing, dir, dir}})
	require.NoError(t, err)
	assert.Equal(t, []string{missing}, result.Skipped)
	assert.Len(t, result.Inputs, 2)
	assert.Len(t, result.Definition, 1)
}

func TestScanIsDeterministic(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"BooksController.cs": booksController,
		"Book.cs":            models,
	})
	first, err := newTestApp(t).Scan(context.Background(), ports.ScanRequest{Inputs: []string{dir}})
	require.NoError(t, err)
	second, err := newTestApp(t).Scan(context.Background(), ports.ScanRequest{Inputs: []string{dir}})
	require.NoError(t, err)

	a, err := definition.Marshal(first.Definition)
	require.NoError(t, err)
	b, err := definition.Marshal(second.Definition)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

type stubFrontEnd struct {
	project *parser.Project
	err     error
}

func (s stubFrontEnd) ParseProject(context.Context, string) (*parser.Project, error) {
	return s.project, s.err
}

func TestScanUsesFrontEnd(t *testing.T) {
	a := newTestApp(t, WithFrontEnd(stubFrontEnd{project: &parser.Project{Name: "empty"}}))
	result, err := a.Scan(context.Background(), ports.ScanRequest{Inputs: []string{"anything"}})
	assert.Nil(t, result)
	assert.True(t, errors.IsCode(err, errors.CodeNoInput))
	assert.Contains(t, errors.UserMessage(err), "no source files")
}

func TestRunWritesOutputs(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"BooksController.cs": booksController,
		"Book.cs":            models,
	})
	out := t.TempDir()
	store, err := history.Open(filepath.Join(out, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a := newTestApp(t, WithHistory(store))
	req := ports.ScanRequest{
		Inputs:  []string{dir},
		Output:  filepath.Join(out, "mocks", "anino-def.json"),
		OpenAPI: filepath.Join(out, "openapi.yaml"),
	}
	result, err := a.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{req.Output, req.OpenAPI}, result.Written)

	defs, err := definition.Load(req.Output)
	require.NoError(t, err)
	assert.Len(t, defs, 4)

	doc, err := openapi3.NewLoader().LoadFromFile(req.OpenAPI)
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/books"))

	require.NotNil(t, result.Snapshot)
	assert.Equal(t, 4, result.Snapshot.EndpointCount)
	assert.Len(t, result.Snapshot.Digest, 64)

	snapshots, err := store.Recent(HistoryKey(req.Output), 5)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, result.Snapshot.ID, snapshots[0].ID)
	assert.True(t, fixedNow.Equal(snapshots[0].Timestamp))
}

func TestWatchRunsOnceAndStops(t *testing.T) {
	dir := writeSources(t, map[string]string{"Program.cs": program})
	a := newTestApp(t)
	a.Config.Watch.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan error, 4)
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, ports.ScanRequest{Inputs: []string{dir}, Output: filepath.Join(t.TempDir(), "def.json")},
			func(_ *ports.ScanResult, err error) { results <- err })
	}()

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("initial run did not report")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
