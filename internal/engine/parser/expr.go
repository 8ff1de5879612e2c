package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Nodes whose value is their single inner expression.
var transparentExprKinds = map[string]bool{
	"parenthesized_expression": true,
	"await_expression":         true,
	"checked_expression":       true,
	"postfix_unary_expression": true, // null-forgiving x!
}

func (x *CSharpExtractor) expr(ctx *ExtractionContext, node *sitter.Node) *Expr {
	if node == nil {
		return nil
	}
	e := &Expr{Kind: ExprOther, Text: ctx.Text(node)}
	switch node.Kind() {
	case "string_literal", "verbatim_string_literal", "raw_string_literal":
		e.Kind = ExprString
		e.Value = unquote(e.Text)
	case "integer_literal", "real_literal":
		e.Kind = ExprNumber
		e.Value = e.Text
	case "identifier":
		e.Kind = ExprIdentifier
		e.Value = e.Text
	case "member_access_expression":
		e.Kind = ExprMember
		e.Receiver = x.expr(ctx, ctx.Field(node, "expression"))
		e.Value = simpleName(ctx, ctx.Field(node, "name"))
	case "invocation_expression":
		e.Kind = ExprCall
		e.Call = x.call(ctx, node)
	case "object_creation_expression":
		e.Kind = ExprNew
		e.Type = typeFromText(ctx.Text(ctx.Field(node, "type")))
	case "array_creation_expression":
		e.Kind = ExprNew
		e.Type = typeFromText(ctx.Text(ctx.Field(node, "type")))
	case "typeof_expression":
		e.Kind = ExprTypeOf
		t := ctx.Field(node, "type")
		if t == nil {
			t = ctx.LastNamedChild(node)
		}
		e.Type = typeFromText(ctx.Text(t))
	case "lambda_expression", "anonymous_method_expression":
		e.Kind = ExprLambda
		body := ctx.Field(node, "body")
		if body == nil {
			body = ctx.LastNamedChild(node)
		}
		if body != nil && body.Kind() == "block" {
			e.Block = true
			e.Returns = x.returns(ctx, body)
			e.Locals = x.locals(ctx, body)
		} else {
			e.Body = x.expr(ctx, body)
		}
	default:
		if transparentExprKinds[node.Kind()] {
			if inner := ctx.LastNamedChild(node); inner != nil {
				return x.expr(ctx, inner)
			}
		}
	}
	return e
}

// call reduces an invocation. Receiver is nil for plain calls such as
// Ok(value).
func (x *CSharpExtractor) call(ctx *ExtractionContext, node *sitter.Node) *Call {
	fn := ctx.Field(node, "function")
	if fn == nil {
		return nil
	}
	c := &Call{Location: ctx.Location(node)}
	switch fn.Kind() {
	case "member_access_expression":
		c.Receiver = x.expr(ctx, ctx.Field(fn, "expression"))
		c.Method = simpleName(ctx, ctx.Field(fn, "name"))
	case "identifier", "generic_name":
		c.Method = simpleName(ctx, fn)
	default:
		c.Method = ctx.Text(fn)
	}
	args := ctx.Field(node, "arguments")
	if args == nil {
		args = ctx.FirstChild(node, "argument_list")
	}
	for _, arg := range ctx.Children(args, "argument") {
		c.Args = append(c.Args, x.expr(ctx, ctx.LastNamedChild(arg)))
	}
	return c
}

// returns collects return values in a block without entering nested
// functions, whose returns belong to them.
func (x *CSharpExtractor) returns(ctx *ExtractionContext, block *sitter.Node) []*Expr {
	var out []*Expr
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Kind() {
		case "lambda_expression", "anonymous_method_expression", "local_function_statement":
			return
		case "return_statement":
			if value := ctx.LastNamedChild(n); value != nil {
				out = append(out, x.expr(ctx, value))
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			visit(n.Child(i))
		}
	}
	visit(block)
	return out
}

// locals collects the local declarations of a block, skipping nested
// functions.
func (x *CSharpExtractor) locals(ctx *ExtractionContext, block *sitter.Node) map[string]*Expr {
	scope := make(map[string]*Expr)
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Kind() {
		case "lambda_expression", "anonymous_method_expression", "local_function_statement":
			return
		case "local_declaration_statement":
			bindLocals(scope, x.declarations(ctx, n))
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			visit(n.Child(i))
		}
	}
	visit(block)
	return scope
}

// simpleName reads an identifier, or the identifier part of Name<T>.
func simpleName(ctx *ExtractionContext, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	if node.Kind() == "generic_name" {
		if id := ctx.FirstChild(node, "identifier"); id != nil {
			return ctx.Text(id)
		}
		name, _, _ := strings.Cut(ctx.Text(node), "<")
		return strings.TrimSpace(name)
	}
	return ctx.Text(node)
}

func unquote(text string) string {
	switch {
	case strings.HasPrefix(text, `"""`):
		return strings.TrimSpace(strings.Trim(text, `"`))
	case strings.HasPrefix(text, `@"`):
		inner := strings.TrimSuffix(strings.TrimPrefix(text, `@"`), `"`)
		return strings.ReplaceAll(inner, `""`, `"`)
	}
	text = strings.TrimSuffix(text, "u8")
	inner := strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`)
	replacer := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\t`, "\t")
	return replacer.Replace(inner)
}
