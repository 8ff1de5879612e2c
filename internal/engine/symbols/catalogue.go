package symbols

import (
	"sync"

	"anino/internal/engine/parser"
)

// FrameworkModule is the name of the built-in module describing the base
// class library and ASP.NET Core types that scanned code refers to without
// declaring.
const FrameworkModule = "framework"

type catalogueEntry struct {
	namespace string
	kind      parser.TypeKind
	decl      string   // Name or Name<T, ...>
	bases     []string // in terms of the entry's type parameters
}

const (
	nsSystem      = "System"
	nsCollections = "System.Collections"
	nsGeneric     = "System.Collections.Generic"
	nsConcurrent  = "System.Collections.Concurrent"
	nsObjectModel = "System.Collections.ObjectModel"
	nsImmutable   = "System.Collections.Immutable"
	nsLinq        = "System.Linq"
	nsTasks       = "System.Threading.Tasks"
	nsMvc         = "Microsoft.AspNetCore.Mvc"
	nsHTTP        = "Microsoft.AspNetCore.Http"
	nsJSON        = "System.Text.Json"
	nsJSONNodes   = "System.Text.Json.Nodes"
)

var catalogue = []catalogueEntry{
	{nsSystem, parser.KindClass, "Object", nil},
	{nsSystem, parser.KindClass, "String", nil},
	{nsSystem, parser.KindStruct, "Boolean", nil},
	{nsSystem, parser.KindStruct, "Char", nil},
	{nsSystem, parser.KindStruct, "Byte", nil},
	{nsSystem, parser.KindStruct, "SByte", nil},
	{nsSystem, parser.KindStruct, "Int16", nil},
	{nsSystem, parser.KindStruct, "UInt16", nil},
	{nsSystem, parser.KindStruct, "Int32", nil},
	{nsSystem, parser.KindStruct, "UInt32", nil},
	{nsSystem, parser.KindStruct, "Int64", nil},
	{nsSystem, parser.KindStruct, "UInt64", nil},
	{nsSystem, parser.KindStruct, "Single", nil},
	{nsSystem, parser.KindStruct, "Double", nil},
	{nsSystem, parser.KindStruct, "Decimal", nil},
	{nsSystem, parser.KindStruct, "DateTime", nil},
	{nsSystem, parser.KindStruct, "DateTimeOffset", nil},
	{nsSystem, parser.KindStruct, "DateOnly", nil},
	{nsSystem, parser.KindStruct, "TimeOnly", nil},
	{nsSystem, parser.KindStruct, "TimeSpan", nil},
	{nsSystem, parser.KindStruct, "Guid", nil},
	{nsSystem, parser.KindClass, "Uri", nil},
	{nsSystem, parser.KindStruct, "Nullable<T>", nil},
	{nsSystem, parser.KindClass, "Array", []string{"IList", "ICollection", "IEnumerable"}},

	{nsCollections, parser.KindInterface, "IEnumerable", nil},
	{nsCollections, parser.KindInterface, "ICollection", []string{"IEnumerable"}},
	{nsCollections, parser.KindInterface, "IList", []string{"ICollection"}},
	{nsCollections, parser.KindInterface, "IDictionary", []string{"ICollection"}},
	{nsCollections, parser.KindClass, "ArrayList", []string{"IList"}},
	{nsCollections, parser.KindClass, "Hashtable", []string{"IDictionary"}},

	{nsGeneric, parser.KindInterface, "IEnumerable<T>", []string{"IEnumerable"}},
	{nsGeneric, parser.KindInterface, "ICollection<T>", []string{"IEnumerable<T>"}},
	{nsGeneric, parser.KindInterface, "IList<T>", []string{"ICollection<T>"}},
	{nsGeneric, parser.KindInterface, "ISet<T>", []string{"ICollection<T>"}},
	{nsGeneric, parser.KindInterface, "IReadOnlyCollection<T>", []string{"IEnumerable<T>"}},
	{nsGeneric, parser.KindInterface, "IReadOnlyList<T>", []string{"IReadOnlyCollection<T>"}},
	{nsGeneric, parser.KindInterface, "IReadOnlySet<T>", []string{"IReadOnlyCollection<T>"}},
	{nsGeneric, parser.KindClass, "List<T>", []string{"IList<T>", "IReadOnlyList<T>", "IList"}},
	{nsGeneric, parser.KindClass, "HashSet<T>", []string{"ISet<T>", "IReadOnlySet<T>"}},
	{nsGeneric, parser.KindClass, "SortedSet<T>", []string{"ISet<T>", "IReadOnlySet<T>"}},
	{nsGeneric, parser.KindClass, "LinkedList<T>", []string{"ICollection<T>", "IReadOnlyCollection<T>"}},
	{nsGeneric, parser.KindClass, "Queue<T>", []string{"IReadOnlyCollection<T>", "ICollection"}},
	{nsGeneric, parser.KindClass, "Stack<T>", []string{"IReadOnlyCollection<T>", "ICollection"}},
	{nsGeneric, parser.KindStruct, "KeyValuePair<TKey, TValue>", nil},
	{nsGeneric, parser.KindInterface, "IDictionary<TKey, TValue>", []string{"ICollection<KeyValuePair<TKey, TValue>>"}},
	{nsGeneric, parser.KindInterface, "IReadOnlyDictionary<TKey, TValue>", []string{"IReadOnlyCollection<KeyValuePair<TKey, TValue>>"}},
	{nsGeneric, parser.KindClass, "Dictionary<TKey, TValue>", []string{"IDictionary<TKey, TValue>", "IReadOnlyDictionary<TKey, TValue>", "IDictionary"}},
	{nsGeneric, parser.KindClass, "SortedDictionary<TKey, TValue>", []string{"IDictionary<TKey, TValue>", "IReadOnlyDictionary<TKey, TValue>", "IDictionary"}},
	{nsGeneric, parser.KindClass, "SortedList<TKey, TValue>", []string{"IDictionary<TKey, TValue>", "IReadOnlyDictionary<TKey, TValue>", "IDictionary"}},

	{nsConcurrent, parser.KindClass, "ConcurrentDictionary<TKey, TValue>", []string{"IDictionary<TKey, TValue>", "IReadOnlyDictionary<TKey, TValue>", "IDictionary"}},
	{nsConcurrent, parser.KindClass, "ConcurrentBag<T>", []string{"IReadOnlyCollection<T>", "ICollection"}},
	{nsConcurrent, parser.KindClass, "ConcurrentQueue<T>", []string{"IReadOnlyCollection<T>", "ICollection"}},

	{nsObjectModel, parser.KindClass, "Collection<T>", []string{"IList<T>", "IReadOnlyList<T>", "IList"}},
	{nsObjectModel, parser.KindClass, "ReadOnlyCollection<T>", []string{"IList<T>", "IReadOnlyList<T>", "IList"}},
	{nsObjectModel, parser.KindClass, "ObservableCollection<T>", []string{"Collection<T>"}},
	{nsObjectModel, parser.KindClass, "ReadOnlyDictionary<TKey, TValue>", []string{"IDictionary<TKey, TValue>", "IReadOnlyDictionary<TKey, TValue>"}},

	{nsImmutable, parser.KindClass, "ImmutableList<T>", []string{"IList<T>", "IReadOnlyList<T>"}},
	{nsImmutable, parser.KindStruct, "ImmutableArray<T>", []string{"IList<T>", "IReadOnlyList<T>"}},
	{nsImmutable, parser.KindClass, "ImmutableHashSet<T>", []string{"IReadOnlySet<T>"}},
	{nsImmutable, parser.KindClass, "ImmutableDictionary<TKey, TValue>", []string{"IDictionary<TKey, TValue>", "IReadOnlyDictionary<TKey, TValue>"}},

	{nsLinq, parser.KindInterface, "IQueryable<T>", []string{"IEnumerable<T>"}},
	{nsLinq, parser.KindInterface, "IOrderedEnumerable<T>", []string{"IEnumerable<T>"}},
	{nsLinq, parser.KindInterface, "IGrouping<TKey, TElement>", []string{"IEnumerable<TElement>"}},

	{nsGeneric, parser.KindInterface, "IAsyncEnumerable<T>", nil},
	{nsTasks, parser.KindClass, "Task", nil},
	{nsTasks, parser.KindClass, "Task<TResult>", []string{"Task"}},
	{nsTasks, parser.KindStruct, "ValueTask", nil},
	{nsTasks, parser.KindStruct, "ValueTask<TResult>", nil},

	{nsMvc, parser.KindInterface, "IActionResult", nil},
	{nsMvc, parser.KindClass, "ActionResult", []string{"IActionResult"}},
	{nsMvc, parser.KindClass, "ActionResult<TValue>", nil},
	{nsMvc, parser.KindClass, "ControllerBase", nil},
	{nsMvc, parser.KindClass, "Controller", []string{"ControllerBase"}},
	{nsMvc, parser.KindClass, "ObjectResult", []string{"ActionResult"}},
	{nsMvc, parser.KindClass, "OkObjectResult", []string{"ObjectResult"}},
	{nsMvc, parser.KindClass, "ProblemDetails", nil},

	{nsHTTP, parser.KindInterface, "IResult", nil},
	{nsHTTP, parser.KindClass, "Results", nil},
	{nsHTTP, parser.KindClass, "TypedResults", nil},

	{nsJSON, parser.KindStruct, "JsonElement", nil},
	{nsJSON, parser.KindClass, "JsonDocument", nil},
	{nsJSONNodes, parser.KindClass, "JsonNode", nil},
	{nsJSONNodes, parser.KindClass, "JsonObject", []string{"JsonNode"}},
	{nsJSONNodes, parser.KindClass, "JsonArray", []string{"JsonNode"}},
}

var (
	frameworkOnce sync.Once
	framework     *Module
)

// Framework returns the shared catalogue module. It is built once and never
// mutated afterwards.
func Framework() *Module {
	frameworkOnce.Do(func() {
		framework = NewModule(FrameworkModule)
		for _, entry := range catalogue {
			decl := parser.MustParseTypeName(entry.decl)
			params := make([]string, 0, len(decl.Args))
			for _, arg := range decl.Args {
				params = append(params, arg.Name)
			}
			bases := make([]*parser.TypeNode, 0, len(entry.bases))
			for _, b := range entry.bases {
				bases = append(bases, parser.MustParseTypeName(b))
			}
			framework.Add(&Symbol{
				Name:       decl.Name,
				Namespace:  entry.namespace,
				Kind:       entry.kind,
				TypeParams: params,
				Bases:      bases,
				Public:     true,
			})
		}
	})
	return framework
}

// DefaultCommonNamespaces are tried, in order, for names written without a
// qualifier.
var DefaultCommonNamespaces = []string{
	nsGeneric,
	nsSystem,
	nsMvc,
	nsTasks,
	nsCollections,
	nsJSON,
}
