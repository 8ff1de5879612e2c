package parser

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"anino/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newTestFrontEnd(t *testing.T) *FrontEnd {
	t.Helper()
	fe, err := NewFrontEnd(Options{ExcludeDirs: []string{"bin", "obj"}, Workers: 2})
	require.NoError(t, err)
	return fe
}

func fileNames(files []*File) []string {
	var out []string
	for _, f := range files {
		out = append(out, filepath.Base(f.Path))
	}
	sort.Strings(out)
	return out
}

func TestParseProjectSdkStyle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Api/Api.csproj": `<Project Sdk="Microsoft.NET.Sdk.Web">
  <PropertyGroup><RootNamespace>Shop.Api</RootNamespace></PropertyGroup>
  <ItemGroup>
    <Compile Remove="Legacy\**" />
    <ProjectReference Include="..\Shared\Shared.csproj" />
  </ItemGroup>
</Project>`,
		"Api/Program.cs":             `var app = WebApplication.Create(); app.MapGet("/", () => new Ping());`,
		"Api/Models/Ping.cs":         `public class Ping { public string Message { get; set; } }`,
		"Api/Legacy/Old.cs":          `public class Old { }`,
		"Api/obj/Debug/Generated.cs": `public class Generated { }`,
		"Shared/Shared.csproj":       `<Project Sdk="Microsoft.NET.Sdk"></Project>`,
		"Shared/Dto.cs":              `public record Dto(int Id);`,
	})

	fe := newTestFrontEnd(t)
	project, err := fe.ParseProject(context.Background(), filepath.Join(root, "Api"))
	require.NoError(t, err)

	assert.False(t, project.Loose)
	assert.Equal(t, "Shop.Api", project.RootNamespace)
	assert.Equal(t, []string{"Ping.cs", "Program.cs"}, fileNames(project.Files))
	require.Len(t, project.References, 1)
	assert.Equal(t, "Shared", project.References[0].Name)
	assert.Equal(t, []string{"Dto.cs"}, fileNames(project.References[0].Files))
	assert.Len(t, project.AllFiles(), 3)
}

func TestParseProjectExplicitItems(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Legacy.csproj": `<Project ToolsVersion="15.0">
  <ItemGroup>
    <Compile Include="Controllers\ValuesController.cs" />
  </ItemGroup>
</Project>`,
		"Controllers/ValuesController.cs": `public class ValuesController { }`,
		"Scratch.cs":                      `public class Scratch { }`,
	})

	project, err := newTestFrontEnd(t).ParseProject(context.Background(), filepath.Join(root, "Legacy.csproj"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ValuesController.cs"}, fileNames(project.Files))
}

func TestParseProjectRecursiveItemsMatchTopLevel(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Api.csproj": `<Project Sdk="Microsoft.NET.Sdk.Web">
  <PropertyGroup><EnableDefaultCompileItems>false</EnableDefaultCompileItems></PropertyGroup>
  <ItemGroup>
    <Compile Include="**\*.cs" />
    <Compile Remove="**/Gen/*.cs" />
  </ItemGroup>
</Project>`,
		"Program.cs":          `var app = WebApplication.Create(); app.MapGet("/", () => new Book());`,
		"Models/Book.cs":      `public class Book { public string Title { get; set; } }`,
		"Gen/Client.cs":       `public class Client { }`,
		"Models/Gen/Proxy.cs": `public class Proxy { }`,
	})

	project, err := newTestFrontEnd(t).ParseProject(context.Background(), filepath.Join(root, "Api.csproj"))
	require.NoError(t, err)
	assert.False(t, project.Loose)
	assert.Equal(t, []string{"Book.cs", "Program.cs"}, fileNames(project.Files))
}

func TestItemPatternVariants(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"Controllers/Values.cs", []string{"Controllers/Values.cs"}},
		{"**/*.cs", []string{"**/*.cs", "*.cs"}},
		{"src/**/*.cs", []string{"src/**/*.cs", "src/*.cs"}},
		{"**/Gen/**/*.cs", []string{"**/Gen/**/*.cs", "Gen/**/*.cs", "**/Gen/*.cs", "Gen/*.cs"}},
		{"a**/b.cs", []string{"a**/b.cs"}},
		{"Legacy/**", []string{"Legacy/**"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, itemPatternVariants(tt.pattern))
		})
	}
}

func TestParseProjectFallsBackToLooseFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Broken.csproj":    `<Project Sdk="Microsoft.NET.Sdk"><ItemGroup>`,
		"Program.cs":       `app.MapGet("/", () => "ok");`,
		"bin/Release/x.cs": `class X { }`,
	})

	project, err := newTestFrontEnd(t).ParseProject(context.Background(), filepath.Join(root, "Broken.csproj"))
	require.NoError(t, err)
	assert.True(t, project.Loose)
	assert.Equal(t, []string{"Program.cs"}, fileNames(project.Files))
}

func TestParseProjectInputs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Single.cs": `public class Single { }`,
		"notes.txt": `nothing`,
	})
	fe := newTestFrontEnd(t)

	project, err := fe.ParseProject(context.Background(), filepath.Join(root, "Single.cs"))
	require.NoError(t, err)
	require.Len(t, project.Files, 1)

	_, err = fe.ParseProject(context.Background(), filepath.Join(root, "notes.txt"))
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))

	_, err = fe.ParseProject(context.Background(), filepath.Join(root, "missing"))
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestParseFileMissing(t *testing.T) {
	_, err := newTestFrontEnd(t).ParseFile(filepath.Join(t.TempDir(), "Nope.cs"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestParseFilesKeepsOrder(t *testing.T) {
	root := t.TempDir()
	var paths []string
	for _, name := range []string{"C.cs", "A.cs", "B.cs", "D.cs", "E.cs"} {
		writeFiles(t, root, map[string]string{name: "public class " + name[:1] + " { }"})
		paths = append(paths, filepath.Join(root, name))
	}

	files, err := newTestFrontEnd(t).ParseFiles(context.Background(), paths)
	require.NoError(t, err)
	for i, f := range files {
		assert.Equal(t, paths[i], f.Path)
		require.Len(t, f.Types, 1)
		assert.Equal(t, filepath.Base(paths[i])[:1], f.Types[0].Name)
	}
}

func TestParseFilesCancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"A.cs": "class A { }"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestFrontEnd(t).ParseFiles(ctx, []string{filepath.Join(root, "A.cs")})
	assert.ErrorIs(t, err, context.Canceled)
}
