package definition

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"anino/internal/core/errors"
	"anino/internal/shared/util"

	"github.com/go-playground/validator/v10"
)

// DefaultFile is the definition written by scan and read by server when no
// name is given.
const DefaultFile = "anino-def.json"

// Extension is appended to definition names that lack it.
const Extension = ".json"

// Endpoint is one replayable route. Response holds raw JSON; a nil or
// "null" response means the route answers without a body.
type Endpoint struct {
	Path       string          `json:"path" validate:"required,startswith=/"`
	Method     string          `json:"method" validate:"required,httpmethod"`
	StatusCode int             `json:"statusCode" validate:"gte=100,lte=599"`
	Response   json.RawMessage `json:"response"`
}

// HasBody reports whether the endpoint carries a non-null response.
func (e Endpoint) HasBody() bool {
	trimmed := bytes.TrimSpace(e.Response)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (e Endpoint) Key() string {
	return strings.ToUpper(e.Method) + " " + e.Path
}

// NewEndpoint marshals value as the response body.
func NewEndpoint(path, method string, status int, value any) (Endpoint, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return Endpoint{}, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "cannot encode response"), errors.CtxEndpoint, method+" "+path)
	}
	return Endpoint{Path: path, Method: strings.ToUpper(method), StatusCode: status, Response: raw}, nil
}

var methods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return methods[strings.ToUpper(fl.Field().String())]
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Validate checks every entry and reports all failures together.
func Validate(endpoints []Endpoint) error {
	if len(endpoints) == 0 {
		return errors.New(errors.CodeValidationError, "no endpoints found in the definition")
	}
	var problems []string
	for i, ep := range endpoints {
		err := validate.Struct(ep)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return errors.Wrap(err, errors.CodeInternal, "cannot validate definition")
		}
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("entry %d: %s %s", i, fe.Field(), describe(fe)))
		}
	}
	if len(problems) > 0 {
		return errors.Newf(errors.CodeValidationError, "invalid definition: %s", strings.Join(problems, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "httpmethod":
		return fmt.Sprintf("%q is not an HTTP method", fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid (" + fe.Tag() + ")"
}

// Marshal renders endpoints as indented JSON.
func Marshal(endpoints []Endpoint) ([]byte, error) {
	if endpoints == nil {
		endpoints = []Endpoint{}
	}
	data, err := json.MarshalIndent(endpoints, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot encode definition")
	}
	return append(data, '\n'), nil
}

// Write stores endpoints at path, creating parent directories.
func Write(path string, endpoints []Endpoint) error {
	data, err := Marshal(endpoints)
	if err != nil {
		return err
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "cannot write definition"), errors.CtxPath, path)
	}
	return nil
}

// Parse decodes a definition. Field names match without regard to case.
func Parse(data []byte) ([]Endpoint, error) {
	var endpoints []Endpoint
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailed, "definition is not a JSON list of endpoints")
	}
	for i := range endpoints {
		endpoints[i].Method = strings.ToUpper(strings.TrimSpace(endpoints[i].Method))
	}
	if err := Validate(endpoints); err != nil {
		return nil, err
	}
	return endpoints, nil
}

// Load reads and validates the definition at path.
func Load(path string) ([]Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.New(errors.CodeNotFound, "definition file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "cannot read definition"), errors.CtxPath, path)
	}
	endpoints, err := Parse(data)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return endpoints, nil
}

// FileName normalizes a user-supplied definition name: empty becomes the
// default and the .json suffix is added when missing.
func FileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFile
	}
	return util.EnsureExt(name, Extension)
}
