package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node. Returning true tells the walker the handler
// already visited the node's children.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node) bool

// ExtractionContext carries per-file state shared by all handlers.
type ExtractionContext struct {
	Source    []byte
	File      *File
	namespace []string
	outer     *TypeDecl
	scope     *Scope
	engine    *ExtractorEngine
}

// ExtractorEngine walks the syntax tree and dispatches node handlers by kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}
	if handler, ok := e.handlers[node.Kind()]; ok {
		if handler(ctx, node) {
			return
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.Walk(ctx, node.Child(i))
	}
}

// Walk descends into node with the engine that owns ctx.
func (c *ExtractionContext) Walk(node *sitter.Node) {
	c.engine.Walk(c, node)
}

// enterScope opens a function body scope; the returned func closes it.
func (c *ExtractionContext) enterScope() func() {
	prev := c.scope
	c.scope = &Scope{Vars: make(map[string]*Expr), Parent: prev}
	return func() { c.scope = prev }
}

// Namespace is the innermost enclosing namespace.
func (c *ExtractionContext) Namespace() string {
	if len(c.namespace) == 0 {
		return ""
	}
	return c.namespace[len(c.namespace)-1]
}

func (c *ExtractionContext) pushNamespace(name string) {
	if outer := c.Namespace(); outer != "" {
		name = outer + "." + name
	}
	c.namespace = append(c.namespace, name)
}

func (c *ExtractionContext) popNamespace() {
	c.namespace = c.namespace[:len(c.namespace)-1]
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

func (c *ExtractionContext) Location(node *sitter.Node) Location {
	return Location{
		File:   c.File.Path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

// Children returns the direct children of node with the given kind.
func (c *ExtractionContext) Children(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// FirstChild returns the first direct child of node with the given kind.
func (c *ExtractionContext) FirstChild(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// Field returns the first field present among names. Grammar releases have
// renamed some fields (method return type is "type" in older ones).
func (c *ExtractionContext) Field(node *sitter.Node, names ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for _, name := range names {
		if child := node.ChildByFieldName(name); child != nil {
			return child
		}
	}
	return nil
}

// LastNamedChild returns the last named child of node.
func (c *ExtractionContext) LastNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil || node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(node.NamedChildCount() - 1)
}
