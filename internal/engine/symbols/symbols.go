package symbols

import (
	"strconv"
	"strings"

	"anino/internal/engine/parser"
)

// Symbol is a named type known to the scan: a declaration in a parsed file
// or an entry in the framework catalogue.
type Symbol struct {
	Name       string
	Namespace  string
	Kind       parser.TypeKind
	TypeParams []string
	Bases      []*parser.TypeNode // written in terms of TypeParams
	Public     bool
	Decl       *parser.TypeDecl // nil for catalogue entries
	Module     *Module
}

func (s *Symbol) Arity() int {
	return len(s.TypeParams)
}

// FullName is the dotted namespace-qualified name without arity.
func (s *Symbol) FullName() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "." + s.Name
}

// MetadataName is the lookup key, e.g. System.Collections.Generic.List`1.
func (s *Symbol) MetadataName() string {
	return metadataName(s.FullName(), s.Arity())
}

// Origin is the file whose usings govern names written in the symbol's
// bases and members.
func (s *Symbol) Origin() *parser.File {
	if s.Decl == nil {
		return nil
	}
	return s.Decl.File
}

func (s *Symbol) String() string {
	if s.Arity() == 0 {
		return s.FullName()
	}
	return s.FullName() + "<" + strings.Join(s.TypeParams, ", ") + ">"
}

func metadataName(fullName string, arity int) string {
	if arity == 0 {
		return fullName
	}
	return fullName + "`" + strconv.Itoa(arity)
}

// Module groups the symbols of one compilation: the scanned project, a
// referenced project, or the framework catalogue.
type Module struct {
	Name       string
	Symbols    []*Symbol
	byMetadata map[string]*Symbol
	bySimple   map[string][]*Symbol
}

func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		byMetadata: make(map[string]*Symbol),
		bySimple:   make(map[string][]*Symbol),
	}
}

// Add registers sym. The first declaration of a metadata name wins; partial
// declarations after it are merged into it.
func (m *Module) Add(sym *Symbol) *Symbol {
	key := sym.MetadataName()
	if existing, ok := m.byMetadata[key]; ok {
		if existing.Decl != nil && sym.Decl != nil {
			mergePartial(existing, sym)
		}
		return existing
	}
	sym.Module = m
	m.Symbols = append(m.Symbols, sym)
	m.byMetadata[key] = sym
	m.bySimple[sym.Name] = append(m.bySimple[sym.Name], sym)
	return sym
}

func (m *Module) ByMetadataName(name string) *Symbol {
	return m.byMetadata[name]
}

// BySimpleName returns symbols named name with the given arity, in
// registration order.
func (m *Module) BySimpleName(name string, arity int) []*Symbol {
	var out []*Symbol
	for _, sym := range m.bySimple[name] {
		if sym.Arity() == arity {
			out = append(out, sym)
		}
	}
	return out
}

// mergePartial folds a second partial declaration into the first. The
// second TypeDecl's members are appended to a copy so parsed files stay
// untouched.
func mergePartial(into, from *Symbol) {
	merged := *into.Decl
	merged.Properties = append(append([]*parser.Property(nil), into.Decl.Properties...), from.Decl.Properties...)
	merged.Fields = append(append([]*parser.Field(nil), into.Decl.Fields...), from.Decl.Fields...)
	merged.Methods = append(append([]*parser.Method(nil), into.Decl.Methods...), from.Decl.Methods...)
	merged.BaseTypes = append(append([]*parser.TypeNode(nil), into.Decl.BaseTypes...), from.Decl.BaseTypes...)
	into.Decl = &merged
	into.Bases = merged.BaseTypes
	into.Public = into.Public || from.Public
}

// FromDecl builds the symbol for a parsed declaration. Nested types are
// registered under their enclosing type's name, as the runtime does.
func FromDecl(decl *parser.TypeDecl) *Symbol {
	return &Symbol{
		Name:       decl.Name,
		Namespace:  nestedNamespace(decl),
		Kind:       decl.Kind,
		TypeParams: decl.TypeParams,
		Bases:      decl.BaseTypes,
		Public:     decl.IsPublic(),
		Decl:       decl,
	}
}

func nestedNamespace(decl *parser.TypeDecl) string {
	var chain []string
	for outer := decl.Outer; outer != nil; outer = outer.Outer {
		chain = append([]string{outer.Name}, chain...)
	}
	ns := decl.Namespace
	for _, name := range chain {
		ns = joinName(ns, name)
	}
	return ns
}

func joinName(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
