package util

import "testing"

func TestCamelCase(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"":            "",
		"Title":       "title",
		"title":       "title",
		"IsActive":    "isActive",
		"ID":          "id",
		"Id":          "id",
		"URLValue":    "urlValue",
		"IOStream":    "ioStream",
		"A":           "a",
		"ABC":         "abc",
		"Author_Name": "author_Name",
		"Ärger":       "ärger",
	}
	for in, want := range tests {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}
