package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor turns a parsed tree into the syntax model.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, filePath string) (*File, error)
}

// CSharpExtractor reads the declaration shapes used by endpoint and DTO
// discovery out of a tree-sitter C# tree.
type CSharpExtractor struct {
	engine *ExtractorEngine
}

var typeDeclarationKinds = map[string]TypeKind{
	"class_declaration":         KindClass,
	"record_declaration":        KindRecord,
	"record_struct_declaration": KindRecord,
	"struct_declaration":        KindStruct,
	"interface_declaration":     KindInterface,
	"enum_declaration":          KindEnum,
}

func NewCSharpExtractor() *CSharpExtractor {
	x := &CSharpExtractor{}
	handlers := map[string]NodeHandler{
		"using_directive":                   x.handleUsing,
		"namespace_declaration":             x.handleNamespace,
		"file_scoped_namespace_declaration": x.handleFileScopedNamespace,
		"invocation_expression":             x.handleInvocation,
		"local_declaration_statement":       x.handleLocalDeclaration,
		"local_function_statement":          x.handleLocalFunction,
		"lambda_expression":                 x.handleFunctionBody,
		"anonymous_method_expression":       x.handleFunctionBody,
	}
	for kind := range typeDeclarationKinds {
		handlers[kind] = x.handleType
	}
	x.engine = NewExtractorEngine(handlers)
	return x
}

func (x *CSharpExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:      filePath,
		Variables: make(map[string]*Expr),
		Functions: make(map[string]*Method),
		HasErrors: root.HasError(),
		ParsedAt:  time.Now(),
	}
	ctx := &ExtractionContext{
		Source: source,
		File:   file,
		scope:  &Scope{Vars: file.Variables},
		engine: x.engine,
	}
	x.engine.Walk(ctx, root)
	return file, nil
}

func (x *CSharpExtractor) handleUsing(ctx *ExtractionContext, node *sitter.Node) bool {
	text := strings.TrimSuffix(strings.TrimSpace(ctx.Text(node)), ";")
	u := Using{}
	fields := strings.Fields(text)
	rest := fields[:0:0]
	for _, f := range fields {
		switch f {
		case "global":
			u.Global = true
		case "using", "unsafe":
		case "static":
			u.Static = true
		default:
			rest = append(rest, f)
		}
	}
	target := strings.Join(rest, "")
	if alias, name, ok := strings.Cut(target, "="); ok {
		u.Alias = alias
		target = name
	}
	u.Namespace = strings.TrimPrefix(target, "global::")
	if u.Namespace != "" {
		ctx.File.Usings = append(ctx.File.Usings, u)
	}
	return true
}

func (x *CSharpExtractor) handleNamespace(ctx *ExtractionContext, node *sitter.Node) bool {
	ctx.pushNamespace(ctx.Text(ctx.Field(node, "name")))
	if ctx.File.Namespace == "" {
		ctx.File.Namespace = ctx.Namespace()
	}
	body := ctx.Field(node, "body")
	if body == nil {
		body = ctx.FirstChild(node, "declaration_list")
	}
	ctx.Walk(body)
	ctx.popNamespace()
	return true
}

// The namespace applies to the rest of the file whether the grammar nests
// the following declarations under this node or leaves them as siblings.
func (x *CSharpExtractor) handleFileScopedNamespace(ctx *ExtractionContext, node *sitter.Node) bool {
	ctx.pushNamespace(ctx.Text(ctx.Field(node, "name")))
	ctx.File.Namespace = ctx.Namespace()
	return false
}

func (x *CSharpExtractor) handleType(ctx *ExtractionContext, node *sitter.Node) bool {
	decl := &TypeDecl{
		Name:       ctx.Text(ctx.Field(node, "name")),
		Kind:       typeDeclarationKinds[node.Kind()],
		Namespace:  ctx.Namespace(),
		Outer:      ctx.outer,
		Attributes: x.attributes(ctx, node),
		Modifiers:  modifiers(ctx, node),
		TypeParams: x.typeParams(ctx, node),
		BaseTypes:  x.baseTypes(ctx, node),
		Parameters: x.parameters(ctx, ctx.FirstChild(node, "parameter_list")),
		File:       ctx.File,
		Location:   ctx.Location(node),
	}
	ctx.File.Types = append(ctx.File.Types, decl)

	body := ctx.Field(node, "body")
	if body == nil {
		body = ctx.FirstChild(node, "declaration_list")
	}
	if body == nil {
		body = ctx.FirstChild(node, "enum_member_declaration_list")
	}
	if body == nil {
		return true
	}

	prev := ctx.outer
	ctx.outer = decl
	defer func() { ctx.outer = prev }()

	for i := uint(0); i < body.ChildCount(); i++ {
		member := body.Child(i)
		if member == nil || !member.IsNamed() {
			continue
		}
		switch member.Kind() {
		case "property_declaration":
			decl.Properties = append(decl.Properties, x.property(ctx, member))
			x.walkScoped(ctx, member)
		case "field_declaration":
			decl.Fields = append(decl.Fields, x.fields(ctx, member)...)
			x.walkScoped(ctx, member)
		case "method_declaration":
			decl.Methods = append(decl.Methods, x.method(ctx, member))
			x.walkScoped(ctx, ctx.Field(member, "body"))
		case "enum_member_declaration":
			if name := ctx.Text(ctx.Field(member, "name")); name != "" {
				decl.EnumMembers = append(decl.EnumMembers, name)
			}
		default:
			if _, ok := typeDeclarationKinds[member.Kind()]; ok {
				x.handleType(ctx, member)
				continue
			}
			x.walkScoped(ctx, member)
		}
	}
	return true
}

func (x *CSharpExtractor) handleInvocation(ctx *ExtractionContext, node *sitter.Node) bool {
	if call := x.call(ctx, node); call != nil && call.Receiver != nil {
		call.Scope = ctx.scope
		ctx.File.Calls = append(ctx.File.Calls, call)
	}
	return false
}

// handleLocalDeclaration binds locals in the enclosing body's scope; only
// top-level statements land in File.Variables.
func (x *CSharpExtractor) handleLocalDeclaration(ctx *ExtractionContext, node *sitter.Node) bool {
	bindLocals(ctx.scope.Vars, x.declarations(ctx, node))
	return false
}

func (x *CSharpExtractor) handleLocalFunction(ctx *ExtractionContext, node *sitter.Node) bool {
	m := x.method(ctx, node)
	if m.Name != "" {
		ctx.File.Functions[m.Name] = m
	}
	return x.handleFunctionBody(ctx, node)
}

func (x *CSharpExtractor) handleFunctionBody(ctx *ExtractionContext, node *sitter.Node) bool {
	defer ctx.enterScope()()
	for i := uint(0); i < node.ChildCount(); i++ {
		ctx.Walk(node.Child(i))
	}
	return true
}

func (x *CSharpExtractor) walkScoped(ctx *ExtractionContext, node *sitter.Node) {
	defer ctx.enterScope()()
	ctx.Walk(node)
}

type declaration struct {
	name string
	init *Expr
}

func (x *CSharpExtractor) declarations(ctx *ExtractionContext, node *sitter.Node) []declaration {
	var out []declaration
	decl := ctx.FirstChild(node, "variable_declaration")
	for _, declarator := range ctx.Children(decl, "variable_declarator") {
		name := declaratorName(ctx, declarator)
		if init := declaratorInit(ctx, declarator); name != "" && init != nil {
			out = append(out, declaration{name: name, init: x.expr(ctx, init)})
		}
	}
	return out
}

// bindLocals adds declarations to scope. Sibling blocks may reuse a name;
// such a name is ambiguous and maps to nil.
func bindLocals(scope map[string]*Expr, decls []declaration) {
	for _, d := range decls {
		if _, seen := scope[d.name]; seen {
			scope[d.name] = nil
			continue
		}
		scope[d.name] = d.init
	}
}

func (x *CSharpExtractor) property(ctx *ExtractionContext, node *sitter.Node) *Property {
	p := &Property{
		Name:       ctx.Text(ctx.Field(node, "name")),
		Type:       typeFromText(ctx.Text(ctx.Field(node, "type"))),
		Modifiers:  modifiers(ctx, node),
		Attributes: x.attributes(ctx, node),
		Location:   ctx.Location(node),
	}
	accessors := ctx.Field(node, "accessors")
	if accessors == nil {
		accessors = ctx.FirstChild(node, "accessor_list")
	}
	if accessors == nil {
		// Expression-bodied: int Total => a + b;
		p.Readable = ctx.FirstChild(node, "arrow_expression_clause") != nil
		return p
	}
	for _, accessor := range ctx.Children(accessors, "accessor_declaration") {
		if accessorKeyword(ctx, accessor) != "get" {
			continue
		}
		narrowed := false
		for _, mod := range modifiers(ctx, accessor) {
			if mod == "private" || mod == "protected" || mod == "internal" {
				narrowed = true
			}
		}
		p.Readable = !narrowed
	}
	return p
}

func accessorKeyword(ctx *ExtractionContext, accessor *sitter.Node) string {
	if name := ctx.Field(accessor, "name"); name != nil {
		return ctx.Text(name)
	}
	for i := uint(0); i < accessor.ChildCount(); i++ {
		switch kind := accessor.Child(i).Kind(); kind {
		case "get", "set", "init":
			return kind
		}
	}
	return ""
}

func (x *CSharpExtractor) fields(ctx *ExtractionContext, node *sitter.Node) []*Field {
	decl := ctx.FirstChild(node, "variable_declaration")
	if decl == nil {
		return nil
	}
	typ := typeFromText(ctx.Text(ctx.Field(decl, "type")))
	mods := modifiers(ctx, node)
	attrs := x.attributes(ctx, node)
	var out []*Field
	for _, declarator := range ctx.Children(decl, "variable_declarator") {
		name := declaratorName(ctx, declarator)
		if name == "" {
			continue
		}
		out = append(out, &Field{
			Name:       name,
			Type:       typ,
			Modifiers:  mods,
			Attributes: attrs,
			Location:   ctx.Location(declarator),
		})
	}
	return out
}

func declaratorName(ctx *ExtractionContext, declarator *sitter.Node) string {
	if name := ctx.Field(declarator, "name"); name != nil {
		return ctx.Text(name)
	}
	return ctx.Text(ctx.FirstChild(declarator, "identifier"))
}

func declaratorInit(ctx *ExtractionContext, declarator *sitter.Node) *sitter.Node {
	if clause := ctx.FirstChild(declarator, "equals_value_clause"); clause != nil {
		return ctx.LastNamedChild(clause)
	}
	for i := uint(0); i+1 < declarator.ChildCount(); i++ {
		if declarator.Child(i).Kind() == "=" {
			for j := i + 1; j < declarator.ChildCount(); j++ {
				if next := declarator.Child(j); next.IsNamed() {
					return next
				}
			}
		}
	}
	return nil
}

func (x *CSharpExtractor) method(ctx *ExtractionContext, node *sitter.Node) *Method {
	params := ctx.Field(node, "parameters")
	if params == nil {
		params = ctx.FirstChild(node, "parameter_list")
	}
	m := &Method{
		Name:       ctx.Text(ctx.Field(node, "name")),
		Returns:    typeFromText(ctx.Text(ctx.Field(node, "returns", "type"))),
		Modifiers:  modifiers(ctx, node),
		Attributes: x.attributes(ctx, node),
		Parameters: x.parameters(ctx, params),
		TypeParams: x.typeParams(ctx, node),
		Location:   ctx.Location(node),
	}
	body := ctx.Field(node, "body")
	if body == nil {
		body = ctx.FirstChild(node, "block")
	}
	if body == nil {
		body = ctx.FirstChild(node, "arrow_expression_clause")
	}
	switch {
	case body == nil:
	case body.Kind() == "block":
		m.Results = x.returns(ctx, body)
	case body.Kind() == "arrow_expression_clause":
		if e := ctx.LastNamedChild(body); e != nil {
			m.Results = []*Expr{x.expr(ctx, e)}
		}
	default:
		m.Results = []*Expr{x.expr(ctx, body)}
	}
	return m
}

func (x *CSharpExtractor) parameters(ctx *ExtractionContext, list *sitter.Node) []*Parameter {
	var out []*Parameter
	for _, param := range ctx.Children(list, "parameter") {
		out = append(out, &Parameter{
			Name:       ctx.Text(ctx.Field(param, "name")),
			Type:       typeFromText(ctx.Text(ctx.Field(param, "type"))),
			Attributes: x.attributes(ctx, param),
		})
	}
	return out
}

func (x *CSharpExtractor) typeParams(ctx *ExtractionContext, node *sitter.Node) []string {
	list := ctx.Field(node, "type_parameters")
	if list == nil {
		list = ctx.FirstChild(node, "type_parameter_list")
	}
	var out []string
	for _, tp := range ctx.Children(list, "type_parameter") {
		name := ctx.Field(tp, "name")
		if name == nil {
			name = ctx.FirstChild(tp, "identifier")
		}
		if text := ctx.Text(name); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (x *CSharpExtractor) baseTypes(ctx *ExtractionContext, node *sitter.Node) []*TypeNode {
	list := ctx.Field(node, "bases")
	if list == nil {
		list = ctx.FirstChild(node, "base_list")
	}
	if list == nil {
		return nil
	}
	var out []*TypeNode
	for i := uint(0); i < list.NamedChildCount(); i++ {
		child := list.NamedChild(i)
		text := ctx.Text(child)
		switch child.Kind() {
		case "argument_list":
			continue
		case "primary_constructor_base_type":
			text, _, _ = strings.Cut(text, "(")
		}
		if t := typeFromText(text); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (x *CSharpExtractor) attributes(ctx *ExtractionContext, node *sitter.Node) []*Attribute {
	var out []*Attribute
	for _, list := range ctx.Children(node, "attribute_list") {
		for _, attr := range ctx.Children(list, "attribute") {
			name := ctx.Field(attr, "name")
			if name == nil && attr.NamedChildCount() > 0 {
				name = attr.NamedChild(0)
			}
			a := &Attribute{Name: ctx.Text(name)}
			for _, arg := range ctx.Children(ctx.FirstChild(attr, "attribute_argument_list"), "attribute_argument") {
				a.Args = append(a.Args, x.attributeArg(ctx, arg))
			}
			out = append(out, a)
		}
	}
	return out
}

func (x *CSharpExtractor) attributeArg(ctx *ExtractionContext, arg *sitter.Node) *AttributeArg {
	out := &AttributeArg{Value: x.expr(ctx, ctx.LastNamedChild(arg))}
	if name := ctx.Field(arg, "name"); name != nil {
		out.Name = ctx.Text(name)
		return out
	}
	for i := uint(1); i < arg.ChildCount(); i++ {
		if kind := arg.Child(i).Kind(); kind == "=" || kind == ":" {
			out.Name = ctx.Text(arg.Child(i - 1))
			break
		}
	}
	return out
}

func modifiers(ctx *ExtractionContext, node *sitter.Node) []string {
	var out []string
	for _, mod := range ctx.Children(node, "modifier") {
		out = append(out, strings.TrimSpace(ctx.Text(mod)))
	}
	return out
}
