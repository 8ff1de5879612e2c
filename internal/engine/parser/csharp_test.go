package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) *File {
	t.Helper()
	fe, err := NewFrontEnd(Options{})
	require.NoError(t, err)
	file, err := fe.ParseSource("Test.cs", []byte(src))
	require.NoError(t, err)
	return file
}

func findType(t *testing.T, file *File, name string) *TypeDecl {
	t.Helper()
	for _, decl := range file.Types {
		if decl.Name == name {
			return decl
		}
	}
	t.Fatalf("type %s not found", name)
	return nil
}

func TestExtractTypeDeclarations(t *testing.T) {
	file := parseSource(t, `
using System;
using System.Collections.Generic;
using Json = System.Text.Json;

namespace Library.Models
{
    public class Book : EntityBase, IAuditable
    {
        public string Title { get; set; }
        public Author? Author { get; init; }
        public List<string> Tags { get; set; } = new();
        public int Secret { private get; set; }
        public static int Count { get; set; }
        public int Pages => 100;
        public decimal Price;
        private readonly Guid _id;
        public const int MaxPages = 900;
    }

    public record Author(string Name, DateTime BornOn)
    {
        public string? Bio { get; set; }
    }

    public enum Genre { Fiction, Science = 4, History }

    public class Page<T>
    {
        public List<T> Items { get; set; }

        public class Cursor
        {
            public string Next { get; set; }
        }
    }
}
`)

	assert.Equal(t, "Library.Models", file.Namespace)
	require.Len(t, file.Usings, 3)
	assert.Equal(t, "System.Collections.Generic", file.Usings[1].Namespace)
	assert.Equal(t, "Json", file.Usings[2].Alias)
	assert.Equal(t, "System.Text.Json", file.Usings[2].Namespace)

	book := findType(t, file, "Book")
	assert.Equal(t, KindClass, book.Kind)
	assert.Equal(t, "Library.Models.Book", book.FullName())
	assert.True(t, book.IsPublic())
	require.Len(t, book.BaseTypes, 2)
	assert.Equal(t, "EntityBase", book.BaseTypes[0].Name)

	props := map[string]*Property{}
	for _, p := range book.Properties {
		props[p.Name] = p
	}
	require.Contains(t, props, "Title")
	assert.True(t, props["Title"].Readable)
	assert.Equal(t, "string", props["Title"].Type.Name)
	assert.True(t, props["Author"].Type.Nullable)
	assert.Equal(t, "List<string>", props["Tags"].Type.String())
	assert.False(t, props["Secret"].Readable, "private getter is not part of the public shape")
	assert.True(t, props["Count"].HasModifier("static"))
	assert.True(t, props["Pages"].Readable)

	fields := map[string]*Field{}
	for _, f := range book.Fields {
		fields[f.Name] = f
	}
	require.Contains(t, fields, "Price")
	assert.True(t, fields["Price"].HasModifier("public"))
	assert.True(t, fields["_id"].HasModifier("private"))
	assert.True(t, fields["MaxPages"].HasModifier("const"))

	author := findType(t, file, "Author")
	assert.Equal(t, KindRecord, author.Kind)
	require.Len(t, author.Parameters, 2)
	assert.Equal(t, "Name", author.Parameters[0].Name)
	assert.Equal(t, "DateTime", author.Parameters[1].Type.Name)
	require.Len(t, author.Properties, 1)

	genre := findType(t, file, "Genre")
	assert.Equal(t, KindEnum, genre.Kind)
	assert.Equal(t, []string{"Fiction", "Science", "History"}, genre.EnumMembers)

	page := findType(t, file, "Page")
	assert.Equal(t, []string{"T"}, page.TypeParams)

	cursor := findType(t, file, "Cursor")
	assert.Equal(t, page, cursor.Outer)
	assert.Equal(t, "Library.Models.Page.Cursor", cursor.FullName())
}

func TestExtractFileScopedNamespace(t *testing.T) {
	file := parseSource(t, `
namespace Shop.Api;

public class Product
{
    public int Id { get; set; }
}
`)
	assert.Equal(t, "Shop.Api", file.Namespace)
	product := findType(t, file, "Product")
	assert.Equal(t, "Shop.Api", product.Namespace)
}

func TestExtractControllerShape(t *testing.T) {
	file := parseSource(t, `
using Microsoft.AspNetCore.Mvc;

namespace Shop.Controllers;

[ApiController]
[Route("api/[controller]")]
public class ProductsController : ControllerBase
{
    [HttpGet("{id}")]
    [ProducesResponseType(typeof(Product), 200)]
    public async Task<ActionResult<Product>> GetById(int id)
    {
        return Ok(new Product());
    }

    [HttpPost]
    public IActionResult Create([FromBody] Product product) => Created("", product);

    private void Helper() { }
}
`)
	ctrl := findType(t, file, "ProductsController")
	require.Len(t, ctrl.Attributes, 2)
	assert.Equal(t, "ApiController", ctrl.Attributes[0].ShortName())
	route := ctrl.Attributes[1]
	assert.Equal(t, "Route", route.ShortName())
	require.NotNil(t, route.Positional(0))
	assert.Equal(t, ExprString, route.Positional(0).Kind)
	assert.Equal(t, "api/[controller]", route.Positional(0).Value)

	require.Len(t, ctrl.Methods, 3)
	get := ctrl.Methods[0]
	assert.Equal(t, "GetById", get.Name)
	assert.True(t, get.HasModifier("async"))
	assert.Equal(t, "Task<ActionResult<Product>>", get.Returns.String())
	require.Len(t, get.Attributes, 2)
	assert.Equal(t, "{id}", get.Attributes[0].Positional(0).Value)
	produces := get.Attributes[1]
	assert.Equal(t, ExprTypeOf, produces.Positional(0).Kind)
	assert.Equal(t, "Product", produces.Positional(0).Type.Name)
	assert.Equal(t, ExprNumber, produces.Positional(1).Kind)
	require.Len(t, get.Results, 1)
	assert.Equal(t, ExprCall, get.Results[0].Kind)
	assert.Equal(t, "Ok", get.Results[0].Call.Method)

	create := ctrl.Methods[1]
	assert.Equal(t, "IActionResult", create.Returns.Name)
	require.Len(t, create.Parameters, 1)
	assert.Equal(t, "FromBody", create.Parameters[0].Attributes[0].ShortName())
	require.Len(t, create.Results, 1)
	assert.Equal(t, "Created", create.Results[0].Call.Method)

	assert.True(t, ctrl.Methods[2].HasModifier("private"))
}

func TestExtractMinimalAPICalls(t *testing.T) {
	file := parseSource(t, `
var builder = WebApplication.CreateBuilder(args);
var app = builder.Build();
var api = app.MapGroup("/api");

app.MapGet("/health", () => new HealthStatus());
api.MapPost("/books", (Book book) =>
{
    if (book == null)
    {
        return Results.BadRequest();
    }
    return Results.Created("/books/1", book);
});
app.MapDelete(@"/books/{id}", (int id) => Results.NoContent());
app.MapGet("/books", GetBooks);

static List<Book> GetBooks() => new List<Book>();

app.Run();
`)

	calls := map[string]*Call{}
	for _, c := range file.Calls {
		if c.Method == "MapGet" && len(c.Args) == 2 && c.Args[1].Kind == ExprIdentifier {
			calls["MapGet-ident"] = c
			continue
		}
		calls[c.Method] = c
	}

	get := calls["MapGet"]
	require.NotNil(t, get)
	assert.Equal(t, "app", get.Receiver.Value)
	require.Len(t, get.Args, 2)
	assert.Equal(t, "/health", get.Args[0].Value)
	lambda := get.Args[1]
	assert.Equal(t, ExprLambda, lambda.Kind)
	require.Len(t, lambda.Results(), 1)
	assert.Equal(t, ExprNew, lambda.Results()[0].Kind)
	assert.Equal(t, "HealthStatus", lambda.Results()[0].Type.Name)

	post := calls["MapPost"]
	require.NotNil(t, post)
	assert.Equal(t, "api", post.Receiver.Value)
	assert.True(t, post.Args[1].Block)
	require.Len(t, post.Args[1].Returns, 2)
	assert.Equal(t, "BadRequest", post.Args[1].Returns[0].Call.Method)
	assert.Equal(t, "Created", post.Args[1].Returns[1].Call.Method)

	del := calls["MapDelete"]
	require.NotNil(t, del)
	assert.Equal(t, "/books/{id}", del.Args[0].Value)

	byName := calls["MapGet-ident"]
	require.NotNil(t, byName)
	assert.Equal(t, "GetBooks", byName.Args[1].Value)

	group := file.Variables["api"]
	require.NotNil(t, group)
	assert.Equal(t, ExprCall, group.Kind)
	assert.Equal(t, "MapGroup", group.Call.Method)
	assert.Equal(t, "/api", group.Call.Args[0].Value)

	fn := file.Functions["GetBooks"]
	require.NotNil(t, fn)
	assert.Equal(t, "List<Book>", fn.Returns.String())
}

func TestExtractLocalScopes(t *testing.T) {
	file := parseSource(t, `
var app = WebApplication.CreateBuilder(args).Build();
app.MapGet("/books", () =>
{
    var result = new Book();
    return Results.Ok(result);
});
app.MapGet("/either", (bool flag) =>
{
    if (flag)
    {
        var item = new Book();
        return Results.Ok(item);
    }
    var other = 1;
    {
        var item = new Author();
        return Results.Ok(item);
    }
});

public static class Routes
{
    public static void MapBooks(WebApplication app)
    {
        var routes = app.MapGroup("/books");
        routes.MapGet("/latest", () => new Book());
    }
}
`)

	assert.Contains(t, file.Variables, "app")
	assert.NotContains(t, file.Variables, "result", "lambda locals stay out of the file scope")
	assert.NotContains(t, file.Variables, "routes", "method locals stay out of the file scope")

	var books, either, latest *Call
	for _, c := range file.Calls {
		if c.Method != "MapGet" {
			continue
		}
		switch c.Args[0].Value {
		case "/books":
			books = c
		case "/either":
			either = c
		case "/latest":
			latest = c
		}
	}
	require.NotNil(t, books)
	result := books.Args[1].Locals["result"]
	require.NotNil(t, result)
	assert.Equal(t, "Book", result.Type.Name)

	require.NotNil(t, either)
	item, ok := either.Args[1].Locals["item"]
	assert.True(t, ok)
	assert.Nil(t, item, "a name declared twice is ambiguous")
	assert.NotNil(t, either.Args[1].Locals["other"])

	require.NotNil(t, latest)
	routes, ok := latest.Scope.Lookup("routes")
	require.True(t, ok)
	assert.Equal(t, "MapGroup", routes.Call.Method)
}

func TestExtractChainedGroup(t *testing.T) {
	file := parseSource(t, `
app.MapGroup("/v1").MapGet("/ping", () => new Pong()).WithName("ping");
`)
	var get *Call
	for _, c := range file.Calls {
		if c.Method == "MapGet" {
			get = c
		}
	}
	require.NotNil(t, get)
	require.Equal(t, ExprCall, get.Receiver.Kind)
	assert.Equal(t, "MapGroup", get.Receiver.Call.Method)
	assert.Equal(t, "/v1", get.Receiver.Call.Args[0].Value)
}

func TestUnquote(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		`"/api/books"`:   "/api/books",
		`@"C:\path"`:     `C:\path`,
		`@"say ""hi"""`:  `say "hi"`,
		`"a\"b"`:         `a"b`,
		`"""raw/{id}"""`: "raw/{id}",
		`"/utf8"u8`:      "/utf8",
	}
	for in, want := range cases {
		if got := unquote(in); got != want {
			t.Errorf("unquote(%s) = %q, want %q", in, got, want)
		}
	}
}
