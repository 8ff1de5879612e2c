package resolver

import (
	"anino/internal/engine/parser"
	"anino/internal/engine/symbols"
)

// classifier decides one descriptor tag or passes with nil.
type classifier struct {
	tag      DescriptorKind
	classify func(*resolution, target) TypeDescriptor
}

// classifierChain is the tag precedence. Keyed maps come before sequences
// because they also enumerate.
func classifierChain() []classifier {
	return []classifier{
		{KindDictionary, (*resolution).dictionary},
		{KindCollection, (*resolution).collection},
		{KindPrimitive, (*resolution).primitive},
		{KindComplex, (*resolution).complex},
	}
}

func (res *resolution) dictionary(t target) TypeDescriptor {
	if t.sym != nil {
		args, ok := res.implements(t.sym, t.ref.Args, dictionaryMetadata...)
		if !ok || len(args) != 2 {
			return nil
		}
		return &Dictionary{Value: res.resolve(args[1]), Name: t.ref.String()}
	}
	if t.ref.Arity() == 2 && dictionaryNames[t.ref.SimpleName()] {
		return &Dictionary{Value: res.resolve(t.ref.Args[1]), Name: t.ref.String()}
	}
	return nil
}

func (res *resolution) collection(t target) TypeDescriptor {
	name := t.ref.String()
	if t.sym != nil {
		if args, ok := res.implements(t.sym, t.ref.Args, collectionMetadata...); ok && len(args) == 1 {
			return &Collection{Element: res.resolve(args[0]), Name: name}
		}
		if _, ok := res.implements(t.sym, t.ref.Args, untypedCollectionMetadata); ok {
			return &Collection{Element: &Unknown{Name: "object"}, Name: name}
		}
		return nil
	}
	simple := t.ref.SimpleName()
	switch {
	case t.ref.Arity() == 1 && collectionNames[simple]:
		return &Collection{Element: res.resolve(t.ref.Args[0]), Name: name}
	case t.ref.Arity() == 0 && untypedCollectionNames[simple]:
		return &Collection{Element: &Unknown{Name: "object"}, Name: name}
	}
	return nil
}

func (res *resolution) primitive(t target) TypeDescriptor {
	name := t.ref.String()
	if kind, ok := keywordPrimitives[t.ref.Name]; ok && t.ref.Arity() == 0 {
		return &Primitive{Of: kind, Name: name}
	}
	if t.sym != nil {
		if kind, ok := metadataPrimitives[t.sym.MetadataName()]; ok {
			return &Primitive{Of: kind, Name: name}
		}
		if t.sym.Kind == parser.KindEnum {
			return &Primitive{Of: PrimitiveInteger, Name: name}
		}
		return nil
	}
	if t.ref.Arity() != 0 {
		return nil
	}
	if kind, ok := simplePrimitives[t.ref.SimpleName()]; ok {
		return &Primitive{Of: kind, Name: name}
	}
	if res.findDecl(t.ref.SimpleName(), 0, parser.KindEnum) != nil {
		return &Primitive{Of: PrimitiveInteger, Name: name}
	}
	return nil
}

func (res *resolution) complex(t target) TypeDescriptor {
	var decl *parser.TypeDecl
	sym := t.sym
	if sym != nil {
		if sym.Decl == nil {
			return nil
		}
		switch sym.Kind {
		case parser.KindClass, parser.KindRecord, parser.KindStruct, parser.KindInterface:
		default:
			return nil
		}
		decl = sym.Decl
	} else {
		decl = res.findDecl(t.ref.SimpleName(), t.ref.Arity(), parser.KindClass, parser.KindRecord, parser.KindStruct)
		if decl == nil {
			return nil
		}
		sym = symbols.FromDecl(decl)
	}

	canonical := sym.MetadataName()
	if res.visited[canonical] {
		return &Unknown{Name: t.ref.String(), Cyclic: true}
	}
	res.visited[canonical] = true
	defer delete(res.visited, canonical)

	walkBases := t.sym != nil
	members := res.members(decl, sym, bind(decl.TypeParams, t.ref.Args), walkBases, map[string]bool{canonical: true})
	props := make([]*PropertyDescriptor, 0, len(members))
	for _, m := range members {
		props = append(props, res.property(m))
	}
	return &Complex{Name: decl.FullName(), Properties: props}
}
