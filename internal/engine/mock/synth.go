package mock

import (
	"math/rand"
	"time"

	"anino/internal/engine/discovery"
	"anino/internal/engine/resolver"
	"anino/internal/shared/util"
)

// DefaultNullProbability is the chance a nullable member is emitted as null.
const DefaultNullProbability = 0.2

// Cardinality bounds, inclusive.
const (
	MinCollectionItems   = 2
	MaxCollectionItems   = 3
	MinDictionaryEntries = 3
	MaxDictionaryEntries = 4
)

type Options struct {
	// Rand is the random source. A Synthesizer owns it; give each goroutine
	// its own.
	Rand *rand.Rand
	// Now anchors generated timestamps.
	Now func() time.Time
	// NullProbability applies to nullable members. Negative means the
	// default; zero disables nulls.
	NullProbability float64
}

// Synthesizer builds JSON-compatible values from descriptors. Values are
// nil, bool, int, float64, string, []any or Object. It is not safe for
// concurrent use.
type Synthesizer struct {
	rng      *rand.Rand
	now      func() time.Time
	nullProb float64
}

func New(opts Options) *Synthesizer {
	s := &Synthesizer{rng: opts.Rand, now: opts.Now, nullProb: opts.NullProbability}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.nullProb < 0 {
		s.nullProb = DefaultNullProbability
	}
	return s
}

// Seeded returns a synthesizer with a deterministic source.
func Seeded(seed int64, nullProbability float64) *Synthesizer {
	return New(Options{Rand: rand.New(rand.NewSource(seed)), NullProbability: nullProbability})
}

// Response is the body for an endpoint: nil for a DELETE answering 204,
// otherwise a value of the descriptor's shape.
func (s *Synthesizer) Response(ep *discovery.Endpoint, d resolver.TypeDescriptor) any {
	if ep != nil && ep.NoContent() {
		return nil
	}
	return s.Synthesize(d)
}

// Synthesize never fails; every descriptor has a fallback shape.
func (s *Synthesizer) Synthesize(d resolver.TypeDescriptor) any {
	switch d := d.(type) {
	case *resolver.Primitive:
		return s.primitive(d.Of)
	case *resolver.Collection:
		n := MinCollectionItems + s.rng.Intn(MaxCollectionItems-MinCollectionItems+1)
		items := make([]any, n)
		for i := range items {
			items[i] = s.Synthesize(d.Element)
		}
		return items
	case *resolver.Dictionary:
		n := MinDictionaryEntries + s.rng.Intn(MaxDictionaryEntries-MinDictionaryEntries+1)
		obj := make(Object, 0, n)
		for i := 0; i < n; i++ {
			obj = append(obj, Field{dictionaryKey(i), s.dictionaryValue(d.Value)})
		}
		return obj
	case *resolver.Complex:
		obj := make(Object, 0, len(d.Properties))
		for _, p := range d.Properties {
			obj = append(obj, Field{util.CamelCase(p.Name), s.property(p)})
		}
		return obj
	case *resolver.Unknown:
		return s.filler(d.Name)
	}
	return s.filler("")
}

// dictionaryValue substitutes the filler object for values with no usable
// shape.
func (s *Synthesizer) dictionaryValue(d resolver.TypeDescriptor) any {
	switch v := d.(type) {
	case nil:
		return s.filler("")
	case *resolver.Unknown:
		return s.filler(v.Name)
	case *resolver.Primitive:
		if v.Of == resolver.PrimitiveOpaque {
			return s.filler(v.Name)
		}
	case *resolver.Complex:
		if len(v.Properties) == 0 {
			return s.filler(v.Name)
		}
	}
	return s.Synthesize(d)
}

func (s *Synthesizer) property(p *resolver.PropertyDescriptor) any {
	if p.Nullable && s.nullProb > 0 && s.rng.Float64() < s.nullProb {
		return nil
	}
	switch {
	case p.Nested != nil:
		return s.Synthesize(p.Nested)
	case p.Primitive != 0:
		return s.primitive(p.Primitive)
	}
	return s.filler(p.TypeName)
}
