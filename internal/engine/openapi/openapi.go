package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"anino/internal/core/errors"
	"anino/internal/engine/resolver"
	"anino/internal/shared/util"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

const Version = "3.0.3"

// Operation is one discovered endpoint with its resolved shape and the body
// synthesized for it.
type Operation struct {
	Method     string
	Path       string
	StatusCode int
	Group      string
	Handler    string
	Descriptor resolver.TypeDescriptor
	Example    any
	NoContent  bool
}

type Info struct {
	Title   string
	Version string
}

// Build assembles and validates an OpenAPI document.
func Build(ctx context.Context, info Info, ops []Operation) (*openapi3.T, error) {
	if info.Title == "" {
		info.Title = "anino mock"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}
	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: info.Title, Version: info.Version},
		Paths:   openapi3.NewPaths(),
	}

	tags := make(map[string]bool)
	for _, op := range ops {
		path, params := util.ParseRoute(op.Path)
		operation := openapi3.NewOperation()
		operation.Summary = op.Handler
		if op.Group != "" {
			operation.Tags = []string{op.Group}
			if !tags[op.Group] {
				tags[op.Group] = true
				doc.Tags = append(doc.Tags, &openapi3.Tag{Name: op.Group})
			}
		}
		for _, p := range params {
			operation.AddParameter(openapi3.NewPathParameter(p.Name).WithSchema(paramSchema(p.Constraint)))
		}

		response := openapi3.NewResponse().WithDescription(describeStatus(op.StatusCode))
		if !op.NoContent {
			content := openapi3.NewContentWithJSONSchema(Schema(op.Descriptor))
			if op.Example != nil {
				example, err := plain(op.Example)
				if err != nil {
					return nil, errors.AddContext(err, errors.CtxEndpoint, op.Method+" "+op.Path)
				}
				content.Get("application/json").Example = example
			}
			response.WithContent(content)
		}
		operation.Responses = openapi3.NewResponses(openapi3.WithStatus(op.StatusCode, &openapi3.ResponseRef{Value: response}))
		doc.AddOperation(path, strings.ToUpper(op.Method), operation)
	}

	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "generated OpenAPI document is invalid")
	}
	return doc, nil
}

func describeStatus(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Response"
}

func paramSchema(constraint string) *openapi3.Schema {
	switch strings.ToLower(constraint) {
	case "int", "long":
		return openapi3.NewIntegerSchema()
	case "decimal", "double", "float":
		return openapi3.NewFloat64Schema()
	case "bool":
		return openapi3.NewBoolSchema()
	case "guid":
		return openapi3.NewUUIDSchema()
	case "datetime":
		return openapi3.NewDateTimeSchema()
	}
	return openapi3.NewStringSchema()
}

// plain round-trips v through JSON so ordered objects become plain maps.
func plain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot encode example")
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot decode example")
	}
	return out, nil
}

// Marshal renders doc as YAML for .yaml and .yml paths and as indented JSON
// otherwise.
func Marshal(doc *openapi3.T, path string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot encode OpenAPI document")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return toYAML(data)
	}
	return append(data, '\n'), nil
}

// toYAML re-encodes JSON through a yaml.Node so key order survives, then
// drops the flow and quoting styles the JSON source implies.
func toYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot convert OpenAPI document to YAML")
	}
	resetStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot encode OpenAPI document as YAML")
	}
	return out, nil
}

func resetStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		resetStyle(child)
	}
}

// Write stores doc at path in the format its extension names.
func Write(doc *openapi3.T, path string) error {
	data, err := Marshal(doc, path)
	if err != nil {
		return err
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "cannot write OpenAPI document"), errors.CtxPath, path)
	}
	return nil
}
