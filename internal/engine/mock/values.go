package mock

import (
	"fmt"
	"math"
	"time"

	"anino/internal/engine/resolver"

	"github.com/google/uuid"
)

var sampleStrings = []string{
	"Sample Text", "Example Value", "Test Data", "Mock Content",
	"Generated String", "Random Text", "Sample Value", "Test String",
	"Example Data", "Mock Text", "Sample Content", "Test Value",
}

var dictionaryKeyPrefixes = []string{"metric", "value", "key", "item", "data"}

// OpaquePlaceholder stands in for values of unknown scalar type.
const OpaquePlaceholder = "Unknown Type"

func (s *Synthesizer) primitive(kind resolver.PrimitiveKind) any {
	switch kind {
	case resolver.PrimitiveString:
		return s.sampleString()
	case resolver.PrimitiveInteger:
		return s.rng.Intn(999) + 1
	case resolver.PrimitiveFloating:
		return s.floating()
	case resolver.PrimitiveBoolean:
		return s.rng.Intn(2) == 1
	case resolver.PrimitiveChar:
		return string(rune('A' + s.rng.Intn(26)))
	case resolver.PrimitiveDateTime:
		return s.day().Format(time.RFC3339)
	case resolver.PrimitiveDate:
		return s.day().Format(time.DateOnly)
	case resolver.PrimitiveTime:
		return s.day().Format(time.TimeOnly)
	case resolver.PrimitiveDuration:
		minutes := s.rng.Intn(1439) + 1
		return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
	case resolver.PrimitiveUUID:
		id, err := uuid.NewRandomFromReader(s.rng)
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}
	return OpaquePlaceholder
}

func (s *Synthesizer) sampleString() string {
	return sampleStrings[s.rng.Intn(len(sampleStrings))]
}

func (s *Synthesizer) floating() float64 {
	return math.Round(s.rng.Float64()*1000*100) / 100
}

// day is a moment within a year of now, either direction.
func (s *Synthesizer) day() time.Time {
	offset := time.Duration(s.rng.Int63n(int64(2*365*24*time.Hour))) - 365*24*time.Hour
	return s.now().UTC().Add(offset).Truncate(time.Second)
}

// filler is the fixed-shape object used where no shape is known.
func (s *Synthesizer) filler(typeName string) Object {
	if typeName == "" {
		typeName = "object"
	}
	return Object{
		{"id", s.rng.Intn(999) + 1},
		{"name", s.sampleString()},
		{"value", s.floating()},
		{"isActive", s.rng.Intn(2) == 1},
		{"metadata", Object{
			{"type", typeName},
			{"generated", s.now().UTC().Format(time.RFC3339)},
		}},
	}
}

// FillerKeys are the members of the fixed-shape filler object.
var FillerKeys = []string{"id", "name", "value", "isActive", "metadata"}

func dictionaryKey(i int) string {
	return fmt.Sprintf("%s%d", dictionaryKeyPrefixes[i%len(dictionaryKeyPrefixes)], i+1)
}
