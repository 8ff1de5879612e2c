package parser

import "testing"

func TestParseTypeName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "Book", want: "Book"},
		{in: "Task<ActionResult<List<Book>>>", want: "Task<ActionResult<List<Book>>>"},
		{in: "Dictionary<string,double>", want: "Dictionary<string, double>"},
		{in: "int?", want: "int?"},
		{in: "int?[]", want: "int?[]"},
		{in: "Book[]?", want: "Book[]?"},
		{in: "int[,]", want: "int[]"},
		{in: "global::System.Guid", want: "global::System.Guid"},
		{in: "System.Collections.Generic.List<Models.Author>", want: "System.Collections.Generic.List<Models.Author>"},
		{in: "(int Id, string Name)", want: "ValueTuple<int, string>"},
		{in: "  List < Book >  ", want: "List<Book>"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			node, err := ParseTypeName(tc.in)
			if err != nil {
				t.Fatalf("ParseTypeName(%q) failed: %v", tc.in, err)
			}
			if got := node.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseTypeNameStructure(t *testing.T) {
	t.Parallel()

	node := MustParseTypeName("Task<Dictionary<string, List<int?>>>")
	if node.Name != "Task" || len(node.Args) != 1 {
		t.Fatalf("unexpected outer node %+v", node)
	}
	dict := node.Args[0]
	if dict.Name != "Dictionary" || len(dict.Args) != 2 {
		t.Fatalf("unexpected dictionary node %+v", dict)
	}
	inner := dict.Args[1].Args[0]
	if inner.Name != "int" || !inner.Nullable {
		t.Fatalf("expected nullable int, got %+v", inner)
	}

	arr := MustParseTypeName("Book?[]")
	if !arr.IsArray() || arr.Nullable || !arr.Elem.Nullable || arr.Elem.Name != "Book" {
		t.Fatalf("unexpected array node %+v", arr)
	}

	if got := MustParseTypeName("global::System.Collections.Generic.List<int>").SimpleName(); got != "List" {
		t.Fatalf("expected simple name List, got %q", got)
	}
}

func TestParseTypeNameErrors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "List<", "Book[", "(int", "List<int>>"} {
		if _, err := ParseTypeName(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
	if node := typeFromText("List<"); node == nil || node.Name != "List<" {
		t.Errorf("expected lenient fallback to keep the raw text, got %+v", node)
	}
	if node := typeFromText("  "); node != nil {
		t.Errorf("expected nil for blank text, got %+v", node)
	}
}
