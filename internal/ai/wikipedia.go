package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmaceachern/jarvis-api/internal/logger"
	"go.uber.org/zap"
)

// WikipediaProvider implements KnowledgeProvider using the Wikipedia REST API
// with automatic fallback to the DuckDuckGo instant answer API when no
// article matches.
type WikipediaProvider struct {
	wikipediaBase  string
	duckduckgoBase string
	httpClient     *http.Client
}

// NewWikipediaProvider creates a knowledge provider with Wikipedia primary
// and DuckDuckGo fallback.
func NewWikipediaProvider() *WikipediaProvider {
	return &WikipediaProvider{
		wikipediaBase:  "https://en.wikipedia.org",
		duckduckgoBase: "https://api.duckduckgo.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup answers a factual query. Wikipedia is tried first; when it has no
// matching article the query falls through to DuckDuckGo.
func (p *WikipediaProvider) Lookup(ctx context.Context, query string) (*Answer, error) {
	if query == "" {
		return nil, errors.New("lookup query is empty")
	}

	answer, err := p.lookupWikipedia(ctx, query)
	if err == nil {
		return answer, nil
	}
	logger.ForComponent("knowledge").Warn("wikipedia lookup failed, falling back to web",
		zap.String("query", query),
		zap.Error(err),
	)

	return p.lookupDuckDuckGo(ctx, query)
}

// --- Wikipedia ---

type wikipediaSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	Type    string `json:"type"`
	Content struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (p *WikipediaProvider) lookupWikipedia(ctx context.Context, query string) (*Answer, error) {
	title, err := p.resolveTitle(ctx, query)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", p.wikipediaBase, url.PathEscape(title))
	body, err := p.get(ctx, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var summary wikipediaSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse wikipedia summary: %w", err)
	}

	// Disambiguation pages carry no usable extract.
	if summary.Type == "disambiguation" || summary.Extract == "" {
		return nil, fmt.Errorf("no summary available for %q", title)
	}

	return &Answer{
		Text:   truncateSentences(summary.Extract, 2),
		Source: SourceWikipedia,
		URL:    summary.Content.Desktop.Page,
	}, nil
}

// resolveTitle finds the best-matching article title via the opensearch API.
func (p *WikipediaProvider) resolveTitle(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", "1")
	params.Set("format", "json")

	body, err := p.get(ctx, p.wikipediaBase+"/w/api.php", params)
	if err != nil {
		return "", err
	}

	// Opensearch responds with [query, [titles], [descriptions], [urls]].
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) < 2 {
		return "", fmt.Errorf("failed to parse opensearch response: %w", err)
	}
	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return "", fmt.Errorf("failed to parse opensearch titles: %w", err)
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("no wikipedia article found for %q", query)
	}
	return titles[0], nil
}

// --- DuckDuckGo instant answers ---

type duckduckgoResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (p *WikipediaProvider) lookupDuckDuckGo(ctx context.Context, query string) (*Answer, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	body, err := p.get(ctx, p.duckduckgoBase+"/", params)
	if err != nil {
		return nil, err
	}

	var ddg duckduckgoResponse
	if err := json.Unmarshal(body, &ddg); err != nil {
		return nil, fmt.Errorf("failed to parse duckduckgo response: %w", err)
	}

	if ddg.AbstractText != "" {
		return &Answer{
			Text:   truncateSentences(ddg.AbstractText, 2),
			Source: SourceWeb,
			URL:    ddg.AbstractURL,
		}, nil
	}
	for _, topic := range ddg.RelatedTopics {
		if topic.Text != "" {
			return &Answer{
				Text:   truncateSentences(topic.Text, 2),
				Source: SourceWeb,
				URL:    topic.FirstURL,
			}, nil
		}
	}

	return nil, fmt.Errorf("no results found for %q", query)
}

func (p *WikipediaProvider) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if params != nil {
		rawURL = fmt.Sprintf("%s?%s", rawURL, params.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// truncateSentences keeps at most n sentences of text.
func truncateSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				// Skip abbreviation-style periods followed by a lowercase letter.
				if i+2 < len(text) && text[i+1] == ' ' && text[i+2] >= 'a' && text[i+2] <= 'z' {
					count--
					continue
				}
				return text[:i+1]
			}
		}
	}
	return text
}
