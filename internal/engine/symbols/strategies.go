package symbols

import (
	"strings"

	"anino/internal/engine/parser"
)

const globalAlias = "global::"

// DefaultStrategies is the lookup chain, most specific first. Sources mix
// fully-qualified framework names, locally declared DTOs and types imported
// through using directives, so each step covers one of those cases.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "qualified", Find: findQualified},
		{Name: "global", Find: findGlobal},
		{Name: "common-namespace", Find: findCommonNamespace},
		{Name: "declared-type", Find: findDeclaredType},
		{Name: "using-directive", Find: findUsingDirective},
		{Name: "referenced-module", Find: findReferencedModule},
		{Name: "module-namespace", Find: findModuleNamespace},
	}
}

func findQualified(c *Context, q Query) *Symbol {
	if strings.Contains(q.Name, "::") {
		return nil
	}
	return c.ByMetadataName(metadataName(q.Name, q.Arity))
}

func findGlobal(c *Context, q Query) *Symbol {
	if !strings.HasPrefix(q.Name, globalAlias) {
		return nil
	}
	return c.ByMetadataName(metadataName(strings.TrimPrefix(q.Name, globalAlias), q.Arity))
}

func findCommonNamespace(c *Context, q Query) *Symbol {
	if strings.ContainsAny(q.Name, ".:") {
		return nil
	}
	for _, ns := range c.CommonNamespaces {
		if sym := c.ByMetadataName(metadataName(ns+"."+q.Name, q.Arity)); sym != nil {
			return sym
		}
	}
	return nil
}

// findDeclaredType scans the parsed trees for a class, record or struct
// with the simple name, ignoring namespaces.
func findDeclaredType(c *Context, q Query) *Symbol {
	simple := simpleName(q.Name)
	for _, file := range c.Files {
		for _, decl := range file.Types {
			if decl.Name != simple || len(decl.TypeParams) != q.Arity {
				continue
			}
			switch decl.Kind {
			case parser.KindClass, parser.KindRecord, parser.KindStruct:
				return c.Current.ByMetadataName(FromDecl(decl).MetadataName())
			}
		}
	}
	return nil
}

func findUsingDirective(c *Context, q Query) *Symbol {
	if q.Origin == nil {
		return nil
	}
	name := strings.TrimPrefix(q.Name, globalAlias)
	for _, u := range q.Origin.Usings {
		if u.Static {
			continue
		}
		if u.Alias != "" {
			switch {
			case name == u.Alias:
				if sym := c.ByMetadataName(metadataName(u.Namespace, q.Arity)); sym != nil {
					return sym
				}
			case strings.HasPrefix(name, u.Alias+"."):
				full := u.Namespace + strings.TrimPrefix(name, u.Alias)
				if sym := c.ByMetadataName(metadataName(full, q.Arity)); sym != nil {
					return sym
				}
			}
			continue
		}
		if sym := c.ByMetadataName(metadataName(u.Namespace+"."+name, q.Arity)); sym != nil {
			return sym
		}
	}
	return nil
}

func findReferencedModule(c *Context, q Query) *Symbol {
	simple := simpleName(q.Name)
	for _, mod := range c.References {
		for _, sym := range mod.BySimpleName(simple, q.Arity) {
			if sym.Public {
				return sym
			}
		}
	}
	return nil
}

func findModuleNamespace(c *Context, q Query) *Symbol {
	if found := c.Current.BySimpleName(simpleName(q.Name), q.Arity); len(found) > 0 {
		return found[0]
	}
	return nil
}

func simpleName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
