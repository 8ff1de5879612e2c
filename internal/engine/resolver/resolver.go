package resolver

import (
	"anino/internal/engine/parser"
	"anino/internal/engine/symbols"
	"anino/internal/shared/observability"
)

// DefaultWrapperTypes are unwrapped to their sole generic argument.
var DefaultWrapperTypes = []string{"ActionResult", "IActionResult", "Task", "ValueTask", "Response", "Result", "ApiResponse"}

type Options struct {
	WrapperTypes []string
	// SyntaxOnly ignores the symbol table and resolves by name against the
	// parsed files.
	SyntaxOnly bool
}

// Resolver turns type references into descriptors. It holds no per-call
// state and is safe for concurrent use once built.
type Resolver struct {
	symbols  *symbols.Context
	files    []*parser.File
	wrappers map[string]bool
	chain    []classifier
}

// New builds a resolver. files are the trees searched by name when no symbol
// matches; when nil the symbol table's files are used. ctx may be nil.
func New(ctx *symbols.Context, files []*parser.File, opts Options) *Resolver {
	r := &Resolver{files: files, wrappers: make(map[string]bool)}
	if !opts.SyntaxOnly {
		r.symbols = ctx
	}
	if r.files == nil && ctx != nil {
		r.files = ctx.Files
	}
	wrappers := opts.WrapperTypes
	if len(wrappers) == 0 {
		wrappers = DefaultWrapperTypes
	}
	for _, w := range wrappers {
		r.wrappers[w] = true
	}
	r.chain = classifierChain()
	return r
}

// Resolve never fails; anything it cannot place becomes Unknown.
func (r *Resolver) Resolve(ref *TypeReference) TypeDescriptor {
	var d TypeDescriptor = &Unknown{}
	if ref != nil {
		res := &resolution{Resolver: r, visited: make(map[string]bool)}
		d = res.resolve(ref)
	}
	observability.ResolutionsTotal.WithLabelValues(d.Kind().String()).Inc()
	return d
}

// Unwrap strips wrapper types and Nullable<T> until none match.
func (r *Resolver) Unwrap(ref *TypeReference) *TypeReference {
	for ref != nil {
		ref = ref.NonNullable()
		if ref.IsArray() || ref.Arity() != 1 {
			return ref
		}
		simple := ref.SimpleName()
		if simple != "Nullable" && !r.wrappers[simple] {
			return ref
		}
		ref = ref.Args[0]
	}
	return ref
}

// resolution is the state of one top-level Resolve call. visited holds the
// canonical names of the complex types on the current branch.
type resolution struct {
	*Resolver
	visited map[string]bool
}

// target is a reference after unwrapping, with its symbol when the table
// has one.
type target struct {
	ref *TypeReference
	sym *symbols.Symbol
}

func (res *resolution) resolve(ref *TypeReference) TypeDescriptor {
	ref = res.Unwrap(ref)
	if ref == nil {
		return &Unknown{}
	}
	if ref.IsArray() {
		return &Collection{Element: res.resolve(ref.Elem), Name: ref.String()}
	}
	t := target{ref: ref, sym: res.lookup(ref)}
	for _, c := range res.chain {
		if d := c.classify(res, t); d != nil {
			return d
		}
	}
	return &Unknown{Name: ref.String()}
}

func (res *resolution) lookup(ref *TypeReference) *symbols.Symbol {
	if res.symbols == nil {
		return nil
	}
	if _, ok := keywordPrimitives[ref.Name]; ok {
		return nil
	}
	return res.symbols.Find(ref.Name, ref.Arity(), ref.Origin)
}

// findDecl searches the parsed files for a declaration by simple name and
// arity.
func (res *resolution) findDecl(name string, arity int, kinds ...parser.TypeKind) *parser.TypeDecl {
	for _, file := range res.files {
		for _, decl := range file.Types {
			if decl.Name != name || len(decl.TypeParams) != arity {
				continue
			}
			for _, k := range kinds {
				if decl.Kind == k {
					return decl
				}
			}
		}
	}
	return nil
}

// implements walks sym and its bases breadth first, substituting generic
// arguments, and returns the arguments of the first of targets it reaches.
func (res *resolution) implements(sym *symbols.Symbol, args []*TypeReference, targets ...string) ([]*TypeReference, bool) {
	type step struct {
		sym  *symbols.Symbol
		args []*TypeReference
	}
	seen := make(map[string]bool)
	queue := []step{{sym, args}}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		key := s.sym.MetadataName()
		if seen[key] {
			continue
		}
		seen[key] = true
		for _, want := range targets {
			if key == want {
				return s.args, true
			}
		}
		bindings := bind(s.sym.TypeParams, s.args)
		for _, base := range s.sym.Bases {
			baseSym := res.symbols.ResolveBase(s.sym, base)
			if baseSym == nil {
				continue
			}
			baseRef := FromSyntax(base, s.sym.Origin()).Substitute(bindings)
			queue = append(queue, step{baseSym, baseRef.Args})
		}
	}
	return nil, false
}

func (res *resolution) nullable(ref *TypeReference) bool {
	if ref.Nullable {
		return true
	}
	return ref.Arity() == 1 && ref.SimpleName() == "Nullable"
}
