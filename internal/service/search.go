package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmaceachern/jarvis-api/internal/ai"
	"github.com/dmaceachern/jarvis-api/internal/config"
)

// searchCacheTTL is how long a lookup result stays fresh.
const searchCacheTTL = 5 * time.Minute

type cachedAnswer struct {
	text    string
	fetched time.Time
}

// SearchService answers factual queries through the knowledge provider with
// a short-lived in-memory cache so repeated questions skip the network.
type SearchService struct {
	Cfg       *config.Config
	Knowledge ai.KnowledgeProvider

	mu    sync.Mutex
	cache map[string]cachedAnswer
}

// NewSearchService creates a new SearchService.
func NewSearchService(cfg *config.Config, knowledge ai.KnowledgeProvider) *SearchService {
	return &SearchService{
		Cfg:       cfg,
		Knowledge: knowledge,
		cache:     make(map[string]cachedAnswer),
	}
}

// Search looks up a query and returns a spoken-style answer framed with its
// source attribution.
func (s *SearchService) Search(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", errors.New("search query is empty")
	}

	s.mu.Lock()
	if entry, ok := s.cache[query]; ok && time.Since(entry.fetched) < searchCacheTTL {
		s.mu.Unlock()
		return entry.text, nil
	}
	s.mu.Unlock()

	answer, err := s.Knowledge.Lookup(ctx, query)
	if err != nil {
		return "", err
	}

	text := s.frame(answer)

	s.mu.Lock()
	s.cache[query] = cachedAnswer{text: text, fetched: time.Now()}
	s.mu.Unlock()

	return text, nil
}

func (s *SearchService) frame(answer *ai.Answer) string {
	prefix := s.Cfg.Prompts.Search.WebPrefix
	if answer.Source == ai.SourceWikipedia {
		prefix = s.Cfg.Prompts.Search.WikipediaPrefix
	}
	return prefix + answer.Text
}
