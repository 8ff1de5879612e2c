package parser

import (
	"fmt"
	"strings"
	"unicode"
)

// TypeNode is a type as written in source. A non-nil Elem marks an array of
// Elem; Name and Args are then empty.
type TypeNode struct {
	Name     string
	Args     []*TypeNode
	Elem     *TypeNode
	Nullable bool
}

func (t *TypeNode) IsArray() bool {
	return t != nil && t.Elem != nil
}

// SimpleName drops namespace qualifiers and a global:: alias.
func (t *TypeNode) SimpleName() string {
	if t == nil {
		return ""
	}
	name := t.Name
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (t *TypeNode) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeNode) write(b *strings.Builder) {
	if t.Elem != nil {
		t.Elem.write(b)
		b.WriteString("[]")
	} else {
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteByte('>')
		}
	}
	if t.Nullable {
		b.WriteByte('?')
	}
}

// ParseTypeName parses C# type syntax such as "Task<List<Book>>",
// "int?[]", "global::System.Guid" or "(int Id, string Name)". Tuples become
// ValueTuple with the element types as arguments.
func ParseTypeName(s string) (*TypeNode, error) {
	p := &typeNameParser{src: []rune(s)}
	node, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, fmt.Errorf("unexpected %q at offset %d in type %q", string(p.src[p.pos]), p.pos, s)
	}
	return node, nil
}

// MustParseTypeName panics on malformed input. Intended for literals.
func MustParseTypeName(s string) *TypeNode {
	node, err := ParseTypeName(s)
	if err != nil {
		panic(err)
	}
	return node
}

// typeFromText is the lenient form used on source text: anything the parser
// rejects is kept verbatim as a bare name.
func typeFromText(s string) *TypeNode {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	node, err := ParseTypeName(s)
	if err != nil {
		return &TypeNode{Name: s}
	}
	return node
}

type typeNameParser struct {
	src []rune
	pos int
}

func (p *typeNameParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *typeNameParser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeNameParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *typeNameParser) accept(r rune) bool {
	p.skipSpace()
	if p.peek() == r {
		p.pos++
		return true
	}
	return false
}

func (p *typeNameParser) parseType() (*TypeNode, error) {
	p.skipSpace()
	var node *TypeNode
	var err error
	if p.peek() == '(' {
		node, err = p.parseTuple()
	} else {
		node, err = p.parseNamed()
	}
	if err != nil {
		return nil, err
	}
	return p.parseSuffixes(node)
}

func (p *typeNameParser) parseNamed() (*TypeNode, error) {
	var name strings.Builder
	var args []*TypeNode
	for {
		ident := p.ident()
		if ident == "" {
			return nil, fmt.Errorf("expected identifier at offset %d in type %q", p.pos, string(p.src))
		}
		name.WriteString(ident)
		args = nil
		if p.accept('<') {
			for {
				arg, err := p.parseType()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.accept(',') {
					continue
				}
				if !p.accept('>') {
					return nil, fmt.Errorf("unterminated type argument list in %q", string(p.src))
				}
				break
			}
		}
		p.skipSpace()
		switch {
		case p.peek() == '.':
			p.pos++
			name.WriteByte('.')
		case p.peek() == ':' && p.pos+1 < len(p.src) && p.src[p.pos+1] == ':':
			p.pos += 2
			name.WriteString("::")
		default:
			return &TypeNode{Name: name.String(), Args: args}, nil
		}
	}
}

func (p *typeNameParser) parseTuple() (*TypeNode, error) {
	p.pos++ // (
	node := &TypeNode{Name: "ValueTuple"}
	for {
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, elem)
		p.skipSpace()
		p.ident() // optional element name
		if p.accept(',') {
			continue
		}
		if !p.accept(')') {
			return nil, fmt.Errorf("unterminated tuple in %q", string(p.src))
		}
		return node, nil
	}
}

func (p *typeNameParser) parseSuffixes(node *TypeNode) (*TypeNode, error) {
	for {
		p.skipSpace()
		switch p.peek() {
		case '?':
			p.pos++
			node.Nullable = true
		case '*':
			p.pos++
		case '[':
			p.pos++
			for p.accept(',') {
			}
			if !p.accept(']') {
				return nil, fmt.Errorf("unterminated array rank in %q", string(p.src))
			}
			node = &TypeNode{Elem: node}
		default:
			return node, nil
		}
	}
}

func (p *typeNameParser) ident() string {
	p.skipSpace()
	start := p.pos
	for !p.eof() {
		r := p.src[p.pos]
		if r == '_' || r == '@' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos++
			continue
		}
		break
	}
	return strings.TrimPrefix(string(p.src[start:p.pos]), "@")
}
