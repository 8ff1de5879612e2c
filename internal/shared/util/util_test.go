package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./foo/bar  ", expected: "foo/bar"},
		{name: "Backslashes", input: `..\Shared\Shared.csproj`, expected: "../Shared/Shared.csproj"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	keys := SortedStringKeys(map[string]int{"b": 2, "a": 1, "c": 3})
	expected := []string{"a", "b", "c"}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("expected %q at %d, got %q", key, i, keys[i])
		}
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "file.json")
	if err := WriteFileWithDirs(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestEnsureExt(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"mock":       "mock.json",
		"mock.json":  "mock.json",
		"mock.JSON":  "mock.JSON",
		"dir/x.yaml": "dir/x.yaml.json",
	}
	for in, want := range cases {
		if got := EnsureExt(in, ".json"); got != want {
			t.Errorf("EnsureExt(%q) = %q, want %q", in, got, want)
		}
	}
	if got := FileNameWithoutExt("src/BooksController.cs"); got != "BooksController" {
		t.Errorf("unexpected base name %q", got)
	}
}

func TestPathFilter(t *testing.T) {
	t.Parallel()

	f, err := NewPathFilter([]string{"bin", "obj", "gen*"}, []string{"*.g.cs"}, []string{".cs"})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		path string
		skip bool
	}{
		{path: "src/Program.cs", skip: false},
		{path: "src/Program.g.cs", skip: true},
		{path: "src/readme.md", skip: true},
		{path: "src/Model.CS", skip: false},
	}
	for _, tc := range cases {
		if got := f.SkipFile(tc.path); got != tc.skip {
			t.Errorf("SkipFile(%q) = %v, want %v", tc.path, got, tc.skip)
		}
	}

	if !f.SkipDir("/repo/bin") || !f.SkipDir("generated") || f.SkipDir("src") {
		t.Error("unexpected directory decision")
	}
}

func TestNewPathFilterRejectsBadGlob(t *testing.T) {
	t.Parallel()
	if _, err := NewPathFilter([]string{"["}, nil, nil); err == nil {
		t.Fatal("expected compile error")
	}
}
