package parser

import (
	"strings"
	"time"
)

// File is the grammar-independent view of one C# source file. It carries
// only the declaration shapes needed for endpoint and DTO discovery.
type File struct {
	Path      string
	Namespace string // file-level namespace, empty for the global namespace
	Usings    []Using
	Types     []*TypeDecl
	Calls     []*Call            // every member-access invocation, in source order
	Variables map[string]*Expr   // top-level local name -> initializer, nil when declared twice
	Functions map[string]*Method // local functions by name
	HasErrors bool               // tree contained syntax errors
	ParsedAt  time.Time
}

type Using struct {
	Namespace string
	Alias     string
	Static    bool
	Global    bool
}

type TypeKind int

const (
	KindClass TypeKind = iota
	KindRecord
	KindStruct
	KindInterface
	KindEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindRecord:
		return "record"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

type TypeDecl struct {
	Name        string
	Kind        TypeKind
	Namespace   string
	Outer       *TypeDecl // enclosing type for nested declarations
	Attributes  []*Attribute
	Modifiers   []string
	TypeParams  []string
	BaseTypes   []*TypeNode
	Parameters  []*Parameter // record primary constructor
	Properties  []*Property
	Fields      []*Field
	Methods     []*Method
	EnumMembers []string
	File        *File
	Location    Location
}

// FullName is the dotted name including namespace and enclosing types.
func (t *TypeDecl) FullName() string {
	name := t.Name
	for outer := t.Outer; outer != nil; outer = outer.Outer {
		name = outer.Name + "." + name
	}
	if t.Namespace == "" {
		return name
	}
	return t.Namespace + "." + name
}

func (t *TypeDecl) HasModifier(m string) bool {
	return hasModifier(t.Modifiers, m)
}

func (t *TypeDecl) IsPublic() bool {
	return t.HasModifier("public")
}

type Attribute struct {
	Name string
	Args []*AttributeArg
}

type AttributeArg struct {
	Name  string // set for named arguments (Name = "x")
	Value *Expr
}

// ShortName strips any qualifier and the conventional Attribute suffix.
func (a *Attribute) ShortName() string {
	name := a.Name
	if i := strings.LastIndexAny(name, ".:"); i >= 0 {
		name = name[i+1:]
	}
	if name != "Attribute" {
		name = strings.TrimSuffix(name, "Attribute")
	}
	return name
}

// Positional returns the i-th unnamed argument.
func (a *Attribute) Positional(i int) *Expr {
	n := 0
	for _, arg := range a.Args {
		if arg.Name != "" {
			continue
		}
		if n == i {
			return arg.Value
		}
		n++
	}
	return nil
}

func (a *Attribute) Named(name string) *Expr {
	for _, arg := range a.Args {
		if strings.EqualFold(arg.Name, name) {
			return arg.Value
		}
	}
	return nil
}

type Parameter struct {
	Name       string
	Type       *TypeNode
	Attributes []*Attribute
}

type Property struct {
	Name       string
	Type       *TypeNode
	Modifiers  []string
	Attributes []*Attribute
	Readable   bool // has a getter that is not narrowed below the property's accessibility
	Location   Location
}

func (p *Property) HasModifier(m string) bool {
	return hasModifier(p.Modifiers, m)
}

type Field struct {
	Name       string
	Type       *TypeNode
	Modifiers  []string
	Attributes []*Attribute
	Location   Location
}

func (f *Field) HasModifier(m string) bool {
	return hasModifier(f.Modifiers, m)
}

type Method struct {
	Name       string
	Returns    *TypeNode
	Modifiers  []string
	Attributes []*Attribute
	Parameters []*Parameter
	TypeParams []string
	Results    []*Expr // return statement values, or the expression body
	Location   Location
}

func (m *Method) HasModifier(mod string) bool {
	return hasModifier(m.Modifiers, mod)
}

func hasModifier(mods []string, m string) bool {
	for _, mod := range mods {
		if mod == m {
			return true
		}
	}
	return false
}

// Call is an invocation through member access: Receiver.Method(Args).
type Call struct {
	Receiver *Expr
	Method   string
	Args     []*Expr
	Location Location
	Scope    *Scope // locals visible at the call; set for File.Calls
}

// Scope is one function body's locals, chained to the enclosing body. The
// root scope holds the file's top-level statement locals.
type Scope struct {
	Vars   map[string]*Expr
	Parent *Scope
}

// Lookup finds the nearest binding of name. A nil initializer means the
// name is declared more than once in that body.
func (s *Scope) Lookup(name string) (*Expr, bool) {
	for ; s != nil; s = s.Parent {
		if init, ok := s.Vars[name]; ok {
			return init, true
		}
	}
	return nil, false
}

type ExprKind int

const (
	ExprOther ExprKind = iota
	ExprString
	ExprNumber
	ExprIdentifier
	ExprMember
	ExprCall
	ExprNew
	ExprLambda
	ExprTypeOf
)

// Expr is a reduced expression tree; anything the discovery stage does not
// inspect collapses to ExprOther with its source text.
type Expr struct {
	Kind ExprKind
	Text string

	Value string    // unquoted literal, identifier or member name
	Type  *TypeNode // ExprNew, ExprTypeOf

	Receiver *Expr // ExprMember
	Call     *Call // ExprCall

	Body    *Expr   // ExprLambda with an expression body
	Returns []*Expr // ExprLambda with a block body
	Block   bool

	// Locals maps the block body's local names to their initializers; a
	// name declared twice maps to nil.
	Locals map[string]*Expr
}

// Results returns the candidate result expressions of a lambda.
func (e *Expr) Results() []*Expr {
	if e == nil || e.Kind != ExprLambda {
		return nil
	}
	if e.Block {
		return e.Returns
	}
	if e.Body == nil {
		return nil
	}
	return []*Expr{e.Body}
}

type Location struct {
	File   string
	Line   int
	Column int
}
