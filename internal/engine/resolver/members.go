package resolver

import (
	"anino/internal/engine/parser"
	"anino/internal/engine/symbols"
)

type member struct {
	name string
	ref  *TypeReference
}

// members lists the public readable instance members of decl, base members
// first. A member redeclared in a derived type keeps the base position.
func (res *resolution) members(decl *parser.TypeDecl, sym *symbols.Symbol, bindings map[string]*TypeReference, walkBases bool, walked map[string]bool) []member {
	var out []member
	index := make(map[string]int)
	add := func(m member) {
		if i, ok := index[m.name]; ok {
			out[i] = m
			return
		}
		index[m.name] = len(out)
		out = append(out, m)
	}

	if walkBases {
		for _, base := range sym.Bases {
			baseSym := res.symbols.ResolveBase(sym, base)
			if baseSym == nil || baseSym.Decl == nil || walked[baseSym.MetadataName()] {
				continue
			}
			if !inheritsMembers(sym.Kind, baseSym.Kind) {
				continue
			}
			walked[baseSym.MetadataName()] = true
			baseRef := FromSyntax(base, sym.Origin()).Substitute(bindings)
			for _, m := range res.members(baseSym.Decl, baseSym, bind(baseSym.TypeParams, baseRef.Args), true, walked) {
				add(m)
			}
		}
	}

	origin := decl.File
	if decl.Kind == parser.KindRecord {
		for _, p := range decl.Parameters {
			add(member{p.Name, FromSyntax(p.Type, origin).Substitute(bindings)})
		}
	}
	implicitPublic := decl.Kind == parser.KindInterface
	for _, p := range decl.Properties {
		if !p.Readable || p.HasModifier("static") {
			continue
		}
		if !implicitPublic && !p.HasModifier("public") {
			continue
		}
		add(member{p.Name, FromSyntax(p.Type, origin).Substitute(bindings)})
	}
	for _, f := range decl.Fields {
		if !f.HasModifier("public") || f.HasModifier("static") || f.HasModifier("const") {
			continue
		}
		add(member{f.Name, FromSyntax(f.Type, origin).Substitute(bindings)})
	}
	return out
}

// inheritsMembers reports whether a type of kind inherits members from a
// base of kind base. Classes, records and structs inherit from class-like
// bases; interfaces from interfaces.
func inheritsMembers(kind, base parser.TypeKind) bool {
	switch kind {
	case parser.KindInterface:
		return base == parser.KindInterface
	default:
		return base == parser.KindClass || base == parser.KindRecord
	}
}

func (res *resolution) property(m member) *PropertyDescriptor {
	p := &PropertyDescriptor{Name: m.name}
	if m.ref == nil {
		return p
	}
	p.TypeName = m.ref.String()
	p.Nullable = res.nullable(m.ref)
	switch d := res.resolve(m.ref).(type) {
	case *Primitive:
		p.Primitive = d.Of
	case *Unknown:
	case *Complex:
		if len(d.Properties) > 0 {
			p.Nested = d
		}
	default:
		p.Nested = d
	}
	return p
}
