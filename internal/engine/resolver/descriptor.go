package resolver

// DescriptorKind identifies the tag of a type descriptor.
type DescriptorKind int

const (
	KindUnknown DescriptorKind = iota
	KindPrimitive
	KindCollection
	KindDictionary
	KindComplex
)

func (k DescriptorKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindCollection:
		return "collection"
	case KindDictionary:
		return "dictionary"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// PrimitiveKind is the scalar family of a primitive descriptor. The zero
// value means "not a primitive".
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota + 1
	PrimitiveInteger
	PrimitiveFloating
	PrimitiveBoolean
	PrimitiveChar
	PrimitiveDateTime
	PrimitiveDate
	PrimitiveTime
	PrimitiveDuration
	PrimitiveUUID
	PrimitiveOpaque
)

var primitiveKindNames = map[PrimitiveKind]string{
	PrimitiveString:   "string",
	PrimitiveInteger:  "integer",
	PrimitiveFloating: "floating",
	PrimitiveBoolean:  "boolean",
	PrimitiveChar:     "char",
	PrimitiveDateTime: "datetime",
	PrimitiveDate:     "date",
	PrimitiveTime:     "time",
	PrimitiveDuration: "duration",
	PrimitiveUUID:     "uuid",
	PrimitiveOpaque:   "opaque",
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveKindNames[k]; ok {
		return name
	}
	return "none"
}

// TypeDescriptor is the resolved shape of a type. The set of
// implementations is closed; switch on the concrete type or on Kind.
type TypeDescriptor interface {
	Kind() DescriptorKind
	// TypeName is the name the descriptor was resolved from, for display
	// and for filler metadata.
	TypeName() string
	sealed()
}

type Primitive struct {
	Of   PrimitiveKind
	Name string
}

type Collection struct {
	Element TypeDescriptor
	Name    string
}

// Dictionary is a string-keyed map. The key type is not modeled.
type Dictionary struct {
	Value TypeDescriptor
	Name  string
}

type Complex struct {
	Name       string
	Properties []*PropertyDescriptor
}

// Unknown is a failed resolution. Cyclic marks a reference to a type that
// was still being resolved higher up the same branch.
type Unknown struct {
	Name   string
	Cyclic bool
}

func (*Primitive) Kind() DescriptorKind  { return KindPrimitive }
func (*Collection) Kind() DescriptorKind { return KindCollection }
func (*Dictionary) Kind() DescriptorKind { return KindDictionary }
func (*Complex) Kind() DescriptorKind    { return KindComplex }
func (*Unknown) Kind() DescriptorKind    { return KindUnknown }

func (d *Primitive) TypeName() string  { return d.Name }
func (d *Collection) TypeName() string { return d.Name }
func (d *Dictionary) TypeName() string { return d.Name }
func (d *Complex) TypeName() string    { return d.Name }
func (d *Unknown) TypeName() string    { return d.Name }

func (*Primitive) sealed()  {}
func (*Collection) sealed() {}
func (*Dictionary) sealed() {}
func (*Complex) sealed()    {}
func (*Unknown) sealed()    {}

// PropertyDescriptor is one public, readable member of a complex type.
// Primitive is set for scalar members; Nested is set when the member's type
// resolved to a usable shape. Neither set means opaque.
type PropertyDescriptor struct {
	Name      string
	TypeName  string
	Nullable  bool
	Primitive PrimitiveKind
	Nested    TypeDescriptor
}

// Shape renders the structure of d without type names, so two descriptors
// with the same shape render identically. Cyclic unknowns render as "cycle".
func Shape(d TypeDescriptor) string {
	var b []byte
	b = appendShape(b, d)
	return string(b)
}

func appendShape(b []byte, d TypeDescriptor) []byte {
	switch d := d.(type) {
	case *Primitive:
		return append(b, d.Of.String()...)
	case *Collection:
		b = append(b, '[')
		b = appendShape(b, d.Element)
		return append(b, ']')
	case *Dictionary:
		b = append(b, "map["...)
		b = appendShape(b, d.Value)
		return append(b, ']')
	case *Complex:
		b = append(b, '{')
		for i, p := range d.Properties {
			if i > 0 {
				b = append(b, ',')
			}
			b = append(b, p.Name...)
			if p.Nullable {
				b = append(b, '?')
			}
			b = append(b, ':')
			switch {
			case p.Nested != nil:
				b = appendShape(b, p.Nested)
			case p.Primitive != 0:
				b = append(b, p.Primitive.String()...)
			default:
				b = append(b, "opaque"...)
			}
		}
		return append(b, '}')
	case *Unknown:
		if d.Cyclic {
			return append(b, "cycle"...)
		}
		return append(b, "unknown"...)
	}
	return append(b, "unknown"...)
}
