package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestProvider(wikipedia, duckduckgo *httptest.Server) *WikipediaProvider {
	p := &WikipediaProvider{
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
	if wikipedia != nil {
		p.wikipediaBase = wikipedia.URL
	}
	if duckduckgo != nil {
		p.duckduckgoBase = duckduckgo.URL
	}
	return p
}

func TestLookupWikipedia(t *testing.T) {
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/w/api.php"):
			w.Write([]byte(`["alan turing",["Alan Turing"],[""],["https://en.wikipedia.org/wiki/Alan_Turing"]]`))
		case strings.HasPrefix(r.URL.Path, "/api/rest_v1/page/summary/"):
			w.Write([]byte(`{"title":"Alan Turing","type":"standard","extract":"Alan Turing was an English mathematician. He is widely considered to be the father of computer science. He worked at Bletchley Park.","content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Alan_Turing"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer wiki.Close()

	p := newTestProvider(wiki, nil)
	answer, err := p.Lookup(context.Background(), "alan turing")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if answer.Source != SourceWikipedia {
		t.Errorf("expected wikipedia source, got %q", answer.Source)
	}
	want := "Alan Turing was an English mathematician. He is widely considered to be the father of computer science."
	if answer.Text != want {
		t.Errorf("unexpected answer text:\n got: %q\nwant: %q", answer.Text, want)
	}
	if answer.URL != "https://en.wikipedia.org/wiki/Alan_Turing" {
		t.Errorf("unexpected answer URL: %q", answer.URL)
	}
}

func TestLookupFallsBackToWeb(t *testing.T) {
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No articles found for anything.
		w.Write([]byte(`["query",[],[],[]]`))
	}))
	defer wiki.Close()

	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"AbstractText":"Go is a statically typed programming language.","AbstractURL":"https://duckduckgo.com/Go"}`))
	}))
	defer ddg.Close()

	p := newTestProvider(wiki, ddg)
	answer, err := p.Lookup(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if answer.Source != SourceWeb {
		t.Errorf("expected web source, got %q", answer.Source)
	}
	if answer.Text != "Go is a statically typed programming language." {
		t.Errorf("unexpected answer text: %q", answer.Text)
	}
}

func TestLookupDisambiguationFallsThrough(t *testing.T) {
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/w/api.php"):
			w.Write([]byte(`["mercury",["Mercury"],[""],[""]]`))
		default:
			w.Write([]byte(`{"title":"Mercury","type":"disambiguation","extract":""}`))
		}
	}))
	defer wiki.Close()

	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"RelatedTopics":[{"Text":"Mercury is the smallest planet in the Solar System.","FirstURL":"https://duckduckgo.com/Mercury"}]}`))
	}))
	defer ddg.Close()

	p := newTestProvider(wiki, ddg)
	answer, err := p.Lookup(context.Background(), "mercury")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if answer.Source != SourceWeb {
		t.Errorf("expected web source after disambiguation, got %q", answer.Source)
	}
}

func TestLookupNoResults(t *testing.T) {
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["query",[],[],[]]`))
	}))
	defer wiki.Close()

	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"AbstractText":"","RelatedTopics":[]}`))
	}))
	defer ddg.Close()

	p := newTestProvider(wiki, ddg)
	if _, err := p.Lookup(context.Background(), "xyzzyplugh"); err == nil {
		t.Fatal("expected error when no backend has results")
	}
}

func TestTruncateSentences(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"One. Two. Three.", 2, "One. Two."},
		{"Only one sentence", 2, "Only one sentence"},
		{"First! Second? Third.", 1, "First!"},
	}
	for _, tt := range tests {
		if got := truncateSentences(tt.text, tt.n); got != tt.want {
			t.Errorf("truncateSentences(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
		}
	}
}
