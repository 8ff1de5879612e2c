package resolver

import (
	"strings"

	"anino/internal/engine/parser"
)

// TypeReference is a type as written at one place in source, together with
// the file whose usings govern it. A non-nil Elem marks an array.
type TypeReference struct {
	Name     string
	Args     []*TypeReference
	Elem     *TypeReference
	Nullable bool
	Origin   *parser.File
}

// FromSyntax converts a parsed type node. It returns nil for a nil node.
func FromSyntax(node *parser.TypeNode, origin *parser.File) *TypeReference {
	if node == nil {
		return nil
	}
	ref := &TypeReference{
		Name:     node.Name,
		Nullable: node.Nullable,
		Origin:   origin,
		Elem:     FromSyntax(node.Elem, origin),
	}
	for _, arg := range node.Args {
		ref.Args = append(ref.Args, FromSyntax(arg, origin))
	}
	return ref
}

// ParseReference parses textual type syntax such as "List<Book>".
func ParseReference(text string, origin *parser.File) (*TypeReference, error) {
	node, err := parser.ParseTypeName(text)
	if err != nil {
		return nil, err
	}
	return FromSyntax(node, origin), nil
}

func (r *TypeReference) IsArray() bool {
	return r != nil && r.Elem != nil
}

// SimpleName drops namespace qualifiers and a global:: alias.
func (r *TypeReference) SimpleName() string {
	if r == nil {
		return ""
	}
	name := r.Name
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Arity is the number of generic arguments.
func (r *TypeReference) Arity() int {
	if r == nil {
		return 0
	}
	return len(r.Args)
}

func (r *TypeReference) String() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	r.write(&b)
	return b.String()
}

func (r *TypeReference) write(b *strings.Builder) {
	if r.Elem != nil {
		r.Elem.write(b)
		b.WriteString("[]")
	} else {
		b.WriteString(r.Name)
		if len(r.Args) > 0 {
			b.WriteByte('<')
			for i, arg := range r.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteByte('>')
		}
	}
	if r.Nullable {
		b.WriteByte('?')
	}
}

// NonNullable returns a copy without the nullable marker.
func (r *TypeReference) NonNullable() *TypeReference {
	if r == nil || !r.Nullable {
		return r
	}
	cp := *r
	cp.Nullable = false
	return &cp
}

// Substitute replaces generic parameter names bound in bindings. Bound
// references keep their own origin.
func (r *TypeReference) Substitute(bindings map[string]*TypeReference) *TypeReference {
	if r == nil || len(bindings) == 0 {
		return r
	}
	if r.Elem == nil && len(r.Args) == 0 {
		if bound, ok := bindings[r.Name]; ok {
			if r.Nullable && !bound.Nullable {
				cp := *bound
				cp.Nullable = true
				return &cp
			}
			return bound
		}
		return r
	}
	cp := *r
	cp.Elem = r.Elem.Substitute(bindings)
	if len(r.Args) > 0 {
		cp.Args = make([]*TypeReference, len(r.Args))
		for i, arg := range r.Args {
			cp.Args[i] = arg.Substitute(bindings)
		}
	}
	return &cp
}

// bind pairs type parameter names with arguments. Missing arguments stay
// unbound.
func bind(params []string, args []*TypeReference) map[string]*TypeReference {
	if len(params) == 0 || len(args) == 0 {
		return nil
	}
	out := make(map[string]*TypeReference, len(params))
	for i, p := range params {
		if i < len(args) {
			out[p] = args[i]
		}
	}
	return out
}
