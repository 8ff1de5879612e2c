package util

import (
	"reflect"
	"testing"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		template string
		want     string
		params   []RouteParam
	}{
		{template: "/api/books", want: "/api/books"},
		{template: "/api/books/{id}", want: "/api/books/{id}", params: []RouteParam{{Name: "id"}}},
		{template: "/api/books/{id:int}", want: "/api/books/{id}", params: []RouteParam{{Name: "id", Constraint: "int"}}},
		{template: "/api/{id:int:min(1)}", want: "/api/{id}", params: []RouteParam{{Name: "id", Constraint: "int"}}},
		{template: "/api/{slug:length(3)}", want: "/api/{slug}", params: []RouteParam{{Name: "slug", Constraint: "length"}}},
		{template: "/api/{page?}", want: "/api/{page}", params: []RouteParam{{Name: "page", Optional: true}}},
		{template: "/api/{page:int?}", want: "/api/{page}", params: []RouteParam{{Name: "page", Constraint: "int", Optional: true}}},
		{template: "/api/{lang=en}", want: "/api/{lang}", params: []RouteParam{{Name: "lang", Optional: true}}},
		{template: "/files/{*path}", want: "/files/{path}", params: []RouteParam{{Name: "path", CatchAll: true}}},
		{template: "/files/{**path}", want: "/files/{path}", params: []RouteParam{{Name: "path", CatchAll: true}}},
		{template: "/a/{{literal}}", want: "/a/{{literal}}"},
		{template: "/a/{open", want: "/a/{open"},
		{
			template: "/users/{userId:guid}/orders/{orderId}",
			want:     "/users/{userId}/orders/{orderId}",
			params:   []RouteParam{{Name: "userId", Constraint: "guid"}, {Name: "orderId"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			got, params := ParseRoute(tt.template)
			if got != tt.want {
				t.Errorf("ParseRoute(%q) = %q, want %q", tt.template, got, tt.want)
			}
			if !reflect.DeepEqual(params, tt.params) {
				t.Errorf("ParseRoute(%q) params = %+v, want %+v", tt.template, params, tt.params)
			}
		})
	}
}
