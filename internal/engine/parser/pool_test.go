package parser

import (
	"sync"
	"testing"
)

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(CSharpLanguage())

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	if pool.Leased() != 1 {
		t.Fatalf("expected 1 leased parser, got %d", pool.Leased())
	}
	pool.Put(sp)
	if pool.Leased() != 0 {
		t.Fatalf("expected 0 leased parsers, got %d", pool.Leased())
	}
	pool.Put(nil)
}

func TestParserPool_ParsesValidCSharp(t *testing.T) {
	pool := NewParserPool(CSharpLanguage())
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse([]byte("namespace A; public class B { public int C { get; set; } }"), nil)
	if tree == nil {
		t.Fatal("expected a parse tree")
	}
	defer tree.Close()
	if tree.RootNode().HasError() {
		t.Fatal("expected error-free tree")
	}
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(CSharpLanguage())
	src := []byte("public record Dto(int Id, string Name);")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				sp := pool.Get()
				tree := sp.Parse(src, nil)
				if tree == nil {
					t.Error("nil tree")
				} else {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}
	wg.Wait()
	if pool.Leased() != 0 {
		t.Fatalf("expected all parsers returned, got %d leased", pool.Leased())
	}
}
