package service

import (
	"context"
	"testing"

	"github.com/dmaceachern/jarvis-api/internal/ai"
	"github.com/dmaceachern/jarvis-api/internal/testutil"
)

func TestSearchFramesAnswer(t *testing.T) {
	knowledge := &testutil.MockKnowledgeProvider{
		LookupFunc: func(ctx context.Context, query string) (*ai.Answer, error) {
			return &ai.Answer{Text: "Go is a programming language.", Source: ai.SourceWeb}, nil
		},
	}
	svc := NewSearchService(testutil.NewTestConfig(), knowledge)

	got, err := svc.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	want := "According to web sources: Go is a programming language."
	if got != want {
		t.Errorf("Search = %q, want %q", got, want)
	}
}

func TestSearchCachesResults(t *testing.T) {
	knowledge := &testutil.MockKnowledgeProvider{
		LookupFunc: func(ctx context.Context, query string) (*ai.Answer, error) {
			return &ai.Answer{Text: "cached answer", Source: ai.SourceWikipedia}, nil
		},
	}
	svc := NewSearchService(testutil.NewTestConfig(), knowledge)

	for i := 0; i < 3; i++ {
		if _, err := svc.Search(context.Background(), "same query"); err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
	}
	if knowledge.LookupCalls != 1 {
		t.Errorf("Lookup called %d times, want 1", knowledge.LookupCalls)
	}

	// A different query misses the cache.
	if _, err := svc.Search(context.Background(), "other query"); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if knowledge.LookupCalls != 2 {
		t.Errorf("Lookup called %d times, want 2", knowledge.LookupCalls)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := NewSearchService(testutil.NewTestConfig(), &testutil.MockKnowledgeProvider{})
	if _, err := svc.Search(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty query")
	}
}
