package resolver

// Name tables for resolution without a symbol table, and metadata tables
// for resolution with one.

var keywordPrimitives = map[string]PrimitiveKind{
	"string":  PrimitiveString,
	"int":     PrimitiveInteger,
	"long":    PrimitiveInteger,
	"short":   PrimitiveInteger,
	"byte":    PrimitiveInteger,
	"sbyte":   PrimitiveInteger,
	"uint":    PrimitiveInteger,
	"ulong":   PrimitiveInteger,
	"ushort":  PrimitiveInteger,
	"nint":    PrimitiveInteger,
	"nuint":   PrimitiveInteger,
	"float":   PrimitiveFloating,
	"double":  PrimitiveFloating,
	"decimal": PrimitiveFloating,
	"bool":    PrimitiveBoolean,
	"char":    PrimitiveChar,
	"object":  PrimitiveOpaque,
	"dynamic": PrimitiveOpaque,
}

// metadataPrimitives is keyed by metadata name; the simple-name table is
// derived from it.
var metadataPrimitives = map[string]PrimitiveKind{
	"System.String":                     PrimitiveString,
	"System.Uri":                        PrimitiveString,
	"System.Byte":                       PrimitiveInteger,
	"System.SByte":                      PrimitiveInteger,
	"System.Int16":                      PrimitiveInteger,
	"System.UInt16":                     PrimitiveInteger,
	"System.Int32":                      PrimitiveInteger,
	"System.UInt32":                     PrimitiveInteger,
	"System.Int64":                      PrimitiveInteger,
	"System.UInt64":                     PrimitiveInteger,
	"System.Single":                     PrimitiveFloating,
	"System.Double":                     PrimitiveFloating,
	"System.Decimal":                    PrimitiveFloating,
	"System.Boolean":                    PrimitiveBoolean,
	"System.Char":                       PrimitiveChar,
	"System.DateTime":                   PrimitiveDateTime,
	"System.DateTimeOffset":             PrimitiveDateTime,
	"System.DateOnly":                   PrimitiveDate,
	"System.TimeOnly":                   PrimitiveTime,
	"System.TimeSpan":                   PrimitiveDuration,
	"System.Guid":                       PrimitiveUUID,
	"System.Object":                     PrimitiveOpaque,
	"System.Text.Json.JsonElement":      PrimitiveOpaque,
	"System.Text.Json.JsonDocument":     PrimitiveOpaque,
	"System.Text.Json.Nodes.JsonNode":   PrimitiveOpaque,
	"System.Text.Json.Nodes.JsonObject": PrimitiveOpaque,
	"System.Text.Json.Nodes.JsonArray":  PrimitiveOpaque,
}

var simplePrimitives = func() map[string]PrimitiveKind {
	out := make(map[string]PrimitiveKind, len(metadataPrimitives))
	for name, kind := range metadataPrimitives {
		out[name[lastDot(name)+1:]] = kind
	}
	return out
}()

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// Keyed-map shapes with two generic arguments; the value is the second.
var dictionaryNames = map[string]bool{
	"Dictionary":           true,
	"IDictionary":          true,
	"IReadOnlyDictionary":  true,
	"SortedDictionary":     true,
	"SortedList":           true,
	"ConcurrentDictionary": true,
	"ImmutableDictionary":  true,
	"ReadOnlyDictionary":   true,
}

var dictionaryMetadata = []string{
	"System.Collections.Generic.IDictionary`2",
	"System.Collections.Generic.IReadOnlyDictionary`2",
}

// Sequence shapes with one generic argument.
var collectionNames = map[string]bool{
	"List":                 true,
	"IList":                true,
	"IEnumerable":          true,
	"ICollection":          true,
	"IReadOnlyList":        true,
	"IReadOnlyCollection":  true,
	"Collection":           true,
	"ReadOnlyCollection":   true,
	"ObservableCollection": true,
	"HashSet":              true,
	"SortedSet":            true,
	"ISet":                 true,
	"IReadOnlySet":         true,
	"LinkedList":           true,
	"Queue":                true,
	"Stack":                true,
	"ConcurrentBag":        true,
	"ConcurrentQueue":      true,
	"ImmutableList":        true,
	"ImmutableArray":       true,
	"ImmutableHashSet":     true,
	"IQueryable":           true,
	"IOrderedEnumerable":   true,
	"IAsyncEnumerable":     true,
}

var collectionMetadata = []string{
	"System.Collections.Generic.IEnumerable`1",
	"System.Collections.Generic.IAsyncEnumerable`1",
}

// Untyped sequences; their element resolves to Unknown.
var untypedCollectionNames = map[string]bool{
	"IEnumerable": true,
	"ICollection": true,
	"IList":       true,
	"ArrayList":   true,
	"Array":       true,
}

const untypedCollectionMetadata = "System.Collections.IEnumerable"

const nullableMetadata = "System.Nullable`1"
