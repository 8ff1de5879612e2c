package discovery

import (
	"log/slog"
	"strings"

	"anino/internal/engine/parser"
	"anino/internal/engine/resolver"
)

var inlineVerbs = map[string]string{
	"MapGet":    "GET",
	"MapPost":   "POST",
	"MapPut":    "PUT",
	"MapDelete": "DELETE",
	"MapPatch":  "PATCH",
}

// Result helpers and the index of the argument carrying the body. A
// negative index counts from the end.
var resultPayloadArg = map[string]int{
	"Ok":              0,
	"Json":            0,
	"Created":         1,
	"Accepted":        1,
	"CreatedAtRoute":  -1,
	"AcceptedAtRoute": -1,
}

var resultFactories = map[string]bool{"Results": true, "TypedResults": true}

const maxIndirection = 16

// ExtractInline finds MapGet-style registrations in file. Group prefixes
// built with MapGroup, through a local variable or an inline chain, are
// prepended to the route.
func ExtractInline(file *parser.File, files []*parser.File) []*Endpoint {
	var out []*Endpoint
	for _, call := range file.Calls {
		verb, ok := inlineVerbs[call.Method]
		if !ok || len(call.Args) == 0 {
			continue
		}
		route := call.Args[0]
		if route == nil || route.Kind != parser.ExprString {
			slog.Debug("skipping registration with non-literal route", "path", file.Path, "line", call.Location.Line)
			continue
		}
		scope := callScope(file, call)
		prefix, ok := groupPrefix(scope, call.Receiver, 0)
		if !ok {
			slog.Debug("skipping registration with non-literal group prefix", "path", file.Path, "line", call.Location.Line)
			continue
		}
		ep := &Endpoint{
			Path:       CombineRoutes(prefix, route.Value),
			Method:     verb,
			StatusCode: DefaultStatus(verb),
			Style:      StyleInline,
			Location:   call.Location,
		}
		if len(call.Args) > 1 {
			inferHandler(ep, file, files, scope, call.Args[1])
		}
		out = append(out, ep)
	}
	return out
}

// callScope is the chain of locals visible at call. Calls built without one
// see the file's top-level locals.
func callScope(file *parser.File, call *parser.Call) *parser.Scope {
	if call.Scope != nil {
		return call.Scope
	}
	return &parser.Scope{Vars: file.Variables}
}

// groupPrefix follows a receiver back through MapGroup calls and local
// variables. Calls other than MapGroup pass their receiver's prefix through.
// A receiver variable declared more than once has no known prefix.
func groupPrefix(scope *parser.Scope, receiver *parser.Expr, depth int) (string, bool) {
	if receiver == nil || depth > maxIndirection {
		return "", true
	}
	switch receiver.Kind {
	case parser.ExprIdentifier:
		init, ok := scope.Lookup(receiver.Value)
		if !ok {
			return "", true
		}
		if init == nil {
			return "", false
		}
		if init.Kind == parser.ExprCall {
			return groupPrefix(scope, init, depth+1)
		}
	case parser.ExprCall:
		call := receiver.Call
		if call == nil {
			return "", true
		}
		outer, ok := groupPrefix(scope, call.Receiver, depth+1)
		if !ok || call.Method != "MapGroup" {
			return outer, ok
		}
		if len(call.Args) == 0 || call.Args[0] == nil || call.Args[0].Kind != parser.ExprString {
			return "", false
		}
		return strings.TrimSuffix(CombineRoutes(outer, call.Args[0].Value), "/"), true
	}
	return "", true
}

func inferHandler(ep *Endpoint, file *parser.File, files []*parser.File, scope *parser.Scope, handler *parser.Expr) {
	if handler == nil {
		return
	}
	switch handler.Kind {
	case parser.ExprLambda:
		ep.Handler = "lambda"
		ep.Async = strings.HasPrefix(strings.TrimSpace(handler.Text), "async")
		body := &parser.Scope{Vars: handler.Locals, Parent: scope}
		for _, result := range handler.Results() {
			if node := resultType(body, result, 0); node != nil {
				ep.Returns = resolver.FromSyntax(node, file)
				return
			}
		}
	case parser.ExprIdentifier, parser.ExprMember:
		method, origin := methodGroup(file, files, handler)
		if method == nil {
			return
		}
		ep.Handler = method.Name
		ep.Async = method.HasModifier("async")
		ep.Returns = resolver.FromSyntax(method.Returns, origin)
	}
}

// resultType infers the type of a handler's result expression: a
// constructed object, a Results.Ok(x)-style helper around one, or a local
// variable initialized with one. Variables resolve in the handler's own
// body first; a name declared twice there infers nothing.
func resultType(scope *parser.Scope, e *parser.Expr, depth int) *parser.TypeNode {
	if e == nil || depth > maxIndirection {
		return nil
	}
	switch e.Kind {
	case parser.ExprNew:
		if e.Type == nil || (e.Type.Name == "" && e.Type.Elem == nil) {
			return nil
		}
		return e.Type
	case parser.ExprIdentifier:
		if init, ok := scope.Lookup(e.Value); ok {
			return resultType(scope, init, depth+1)
		}
	case parser.ExprCall:
		if payload := resultPayload(e.Call); payload != nil {
			return resultType(scope, payload, depth+1)
		}
	}
	return nil
}

func resultPayload(call *parser.Call) *parser.Expr {
	if call == nil || call.Receiver == nil || call.Receiver.Kind != parser.ExprIdentifier {
		return nil
	}
	if !resultFactories[call.Receiver.Value] {
		return nil
	}
	idx, ok := resultPayloadArg[call.Method]
	if !ok || len(call.Args) == 0 {
		return nil
	}
	if idx < 0 {
		idx = len(call.Args) + idx
	}
	if idx >= len(call.Args) {
		idx = len(call.Args) - 1
	}
	return call.Args[idx]
}

// methodGroup finds the method a handler name refers to: a local function,
// Type.Method, or a method of that name on any parsed type.
func methodGroup(file *parser.File, files []*parser.File, e *parser.Expr) (*parser.Method, *parser.File) {
	switch e.Kind {
	case parser.ExprIdentifier:
		if fn, ok := file.Functions[e.Value]; ok {
			return fn, file
		}
		for _, decl := range file.Types {
			if m := findMethod(decl, e.Value); m != nil {
				return m, file
			}
		}
		return searchMethod(files, "", e.Value)
	case parser.ExprMember:
		owner := ""
		if e.Receiver != nil {
			owner = e.Receiver.Value
		}
		return searchMethod(files, owner, e.Value)
	}
	return nil, nil
}

func searchMethod(files []*parser.File, owner, name string) (*parser.Method, *parser.File) {
	for _, f := range files {
		for _, decl := range f.Types {
			if owner != "" && decl.Name != owner {
				continue
			}
			if m := findMethod(decl, name); m != nil {
				return m, f
			}
		}
	}
	return nil, nil
}

func findMethod(decl *parser.TypeDecl, name string) *parser.Method {
	for _, m := range decl.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}
