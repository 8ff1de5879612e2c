package definition

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"anino/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "def.json")
	list, err := NewEndpoint("/api/books", "get", 200, []any{map[string]any{"title": "Dune"}})
	require.NoError(t, err)
	gone, err := NewEndpoint("/api/books/{id}", "DELETE", 204, nil)
	require.NoError(t, err)

	require.NoError(t, Write(path, []Endpoint{list, gone}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"statusCode": 200`)
	assert.Contains(t, string(data), `"response": null`)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "GET", loaded[0].Method)
	assert.JSONEq(t, `[{"title":"Dune"}]`, string(loaded[0].Response))
	assert.True(t, loaded[0].HasBody())
	assert.False(t, loaded[1].HasBody())
	assert.Equal(t, "DELETE /api/books/{id}", loaded[1].Key())
}

func TestParseIgnoresFieldCase(t *testing.T) {
	endpoints, err := Parse([]byte(`[{"Path":"/x","METHOD":"post","StatusCode":201,"Response":{"ok":true}}]`))
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.Equal(t, Endpoint{Path: "/x", Method: "POST", StatusCode: 201, Response: json.RawMessage(`{"ok":true}`)}, endpoints[0])
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.ErrorCode
		want string
	}{
		{name: "not json", data: `{`, code: errors.CodeParseFailed},
		{name: "object", data: `{"path":"/x"}`, code: errors.CodeParseFailed},
		{name: "empty", data: `[]`, code: errors.CodeValidationError, want: "no endpoints"},
		{name: "null", data: `null`, code: errors.CodeValidationError, want: "no endpoints"},
		{name: "missing path", data: `[{"method":"GET","statusCode":200}]`, code: errors.CodeValidationError, want: "entry 0: path is required"},
		{name: "relative path", data: `[{"path":"x","method":"GET","statusCode":200}]`, code: errors.CodeValidationError, want: "path must start with"},
		{name: "bad method", data: `[{"path":"/x","method":"FETCH","statusCode":200}]`, code: errors.CodeValidationError, want: `"FETCH" is not an HTTP method`},
		{name: "status low", data: `[{"path":"/x","method":"GET","statusCode":99}]`, code: errors.CodeValidationError, want: "statusCode must be at least 100"},
		{name: "status high", data: `[{"path":"/x","method":"GET","statusCode":600}]`, code: errors.CodeValidationError, want: "statusCode must be at most 599"},
		{name: "second entry", data: `[{"path":"/x","method":"GET","statusCode":200},{"path":"/y","method":"GET"}]`, code: errors.CodeValidationError, want: "entry 1: statusCode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestTemplateIsValid(t *testing.T) {
	tmpl := Template()
	require.NoError(t, Validate(tmpl))

	path := filepath.Join(t.TempDir(), FileName("sample"))
	require.NoError(t, Write(path, tmpl))
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(tmpl))

	var users []map[string]any
	require.NoError(t, json.Unmarshal(loaded[0].Response, &users))
	assert.Len(t, users, 3)
	assert.False(t, loaded[4].HasBody())
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"":            DefaultFile,
		"  ":          DefaultFile,
		"mocks":       "mocks.json",
		"mocks.json":  "mocks.json",
		"Mocks.JSON":  "Mocks.JSON",
		"dir/api.def": "dir/api.def.json",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileName(in), "input %q", in)
	}
}
