package symbols

import (
	"strings"

	"anino/internal/engine/parser"
	"anino/internal/shared/observability"
)

// lookupCacheSize bounds the memoized lookups of one context.
const lookupCacheSize = 4096

// Query is a type name as written at some point in source.
type Query struct {
	Name   string // possibly qualified or global::-prefixed
	Arity  int
	Origin *parser.File // file the name was written in, may be nil
}

// Strategy is one step of the lookup chain. Find must not mutate the
// context.
type Strategy struct {
	Name string
	Find func(*Context, Query) *Symbol
}

// Context is the read-only symbol table for one scan: the scanned project
// as the current module plus referenced modules (referenced projects and
// the framework catalogue). It is safe for concurrent readers once built.
type Context struct {
	Current          *Module
	References       []*Module
	Files            []*parser.File
	CommonNamespaces []string
	strategies       []Strategy
	lookups          *lookupCache
}

type lookupResult struct {
	sym      *Symbol
	strategy string
}

type Option func(*Context)

// WithCommonNamespaces appends namespaces to the common-namespace step.
func WithCommonNamespaces(namespaces ...string) Option {
	return func(c *Context) {
		c.CommonNamespaces = append(c.CommonNamespaces, namespaces...)
	}
}

// WithStrategies replaces the lookup chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *Context) {
		c.strategies = strategies
	}
}

// Build indexes project and its references. The framework catalogue is
// always the last referenced module.
func Build(project *parser.Project, opts ...Option) *Context {
	ctx := &Context{
		Current:          NewModule(project.Name),
		Files:            project.Files,
		CommonNamespaces: append([]string(nil), DefaultCommonNamespaces...),
		strategies:       DefaultStrategies(),
		lookups:          newLookupCache(lookupCacheSize),
	}
	addFiles(ctx.Current, project.Files)

	seen := map[*parser.Project]bool{project: true}
	var visit func(p *parser.Project)
	visit = func(p *parser.Project) {
		for _, ref := range p.References {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			mod := NewModule(ref.Name)
			addFiles(mod, ref.Files)
			ctx.References = append(ctx.References, mod)
			visit(ref)
		}
	}
	visit(project)
	ctx.References = append(ctx.References, Framework())

	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// FromFiles builds a context for loose files with no project model.
func FromFiles(name string, files []*parser.File, opts ...Option) *Context {
	return Build(&parser.Project{Name: name, Files: files, Loose: true}, opts...)
}

func addFiles(mod *Module, files []*parser.File) {
	for _, file := range files {
		for _, decl := range file.Types {
			mod.Add(FromDecl(decl))
		}
	}
}

// Lookup runs the strategy chain and returns the first hit with the name of
// the strategy that produced it. Results, misses included, are memoized per
// query.
func (c *Context) Lookup(q Query) (*Symbol, string) {
	if strings.TrimSpace(q.Name) == "" {
		return nil, ""
	}
	if c.lookups == nil {
		r := c.runChain(q)
		return r.sym, r.strategy
	}
	r := c.lookups.resolve(q, func() lookupResult { return c.runChain(q) })
	return r.sym, r.strategy
}

func (c *Context) runChain(q Query) lookupResult {
	for _, s := range c.strategies {
		if sym := s.Find(c, q); sym != nil {
			observability.LookupStrategyHitsTotal.WithLabelValues(s.Name).Inc()
			return lookupResult{sym: sym, strategy: s.Name}
		}
	}
	return lookupResult{}
}

// Find is Lookup without the strategy name.
func (c *Context) Find(name string, arity int, origin *parser.File) *Symbol {
	sym, _ := c.Lookup(Query{Name: name, Arity: arity, Origin: origin})
	return sym
}

// ByMetadataName searches the current module, then each reference in
// order.
func (c *Context) ByMetadataName(name string) *Symbol {
	if sym := c.Current.ByMetadataName(name); sym != nil {
		return sym
	}
	for _, mod := range c.References {
		if sym := mod.ByMetadataName(name); sym != nil {
			return sym
		}
	}
	return nil
}

// ResolveBase finds the symbol a base-list entry of sym refers to. Catalogue
// bases are looked up inside the catalogue by simple name.
func (c *Context) ResolveBase(sym *Symbol, base *parser.TypeNode) *Symbol {
	if base == nil || base.IsArray() {
		return nil
	}
	if sym.Decl == nil && sym.Module != nil {
		if found := sym.Module.BySimpleName(base.SimpleName(), len(base.Args)); len(found) > 0 {
			return found[0]
		}
		return nil
	}
	return c.Find(base.Name, len(base.Args), sym.Origin())
}

// Is reports whether sym has the given metadata name.
func Is(sym *Symbol, metadata string) bool {
	return sym != nil && sym.MetadataName() == metadata
}
